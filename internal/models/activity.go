package models

import (
	"time"
)

// Activity is an append-only log of one sales interaction. It carries no
// updated_at; the replace endpoint rewrites the input-shaped fields only.
type Activity struct {
	ID         string          `bson:"_id,omitempty" json:"id"`
	AccountID  string          `bson:"account_id" json:"account_id"`
	ContactID  string          `bson:"contact_id,omitempty" json:"contact_id,omitempty"`
	Type       ActivityType    `bson:"type" json:"type"`
	Outcome    ActivityOutcome `bson:"outcome" json:"outcome"`
	Remarks    string          `bson:"remarks" json:"remarks"`
	FollowUpAt *time.Time      `bson:"follow_up_at,omitempty" json:"follow_up_at,omitempty"`
	Priority   Priority        `bson:"priority" json:"priority"`
	CreatedAt  time.Time       `bson:"created_at" json:"created_at"`
}

// ActivityInput is the create/replace payload for an activity
type ActivityInput struct {
	AccountID  string          `json:"account_id"`
	ContactID  string          `json:"contact_id,omitempty"`
	Type       ActivityType    `json:"type,omitempty"`
	Outcome    ActivityOutcome `json:"outcome"`
	Remarks    string          `json:"remarks"`
	FollowUpAt *time.Time      `json:"follow_up_at,omitempty"`
	Priority   Priority        `json:"priority,omitempty"`
}

// Validate checks required fields and enum membership, applying the CALL and
// MEDIUM defaults when type/priority are absent. Outcome has no default.
func (in *ActivityInput) Validate() error {
	if in.AccountID == "" {
		return missingField("account_id")
	}
	if in.Outcome == "" {
		return missingField("outcome")
	}
	if !in.Outcome.Valid() {
		return invalidEnum("outcome", string(in.Outcome))
	}
	if in.Remarks == "" {
		return missingField("remarks")
	}
	if in.Type == "" {
		in.Type = ActivityCall
	}
	if !in.Type.Valid() {
		return invalidEnum("type", string(in.Type))
	}
	if in.Priority == "" {
		in.Priority = PriorityMedium
	}
	if !in.Priority.Valid() {
		return invalidEnum("priority", string(in.Priority))
	}
	return nil
}

// Apply overwrites every input-shaped field of the activity
func (in *ActivityInput) Apply(a *Activity) {
	a.AccountID = in.AccountID
	a.ContactID = in.ContactID
	a.Type = in.Type
	a.Outcome = in.Outcome
	a.Remarks = in.Remarks
	a.FollowUpAt = in.FollowUpAt
	a.Priority = in.Priority
}
