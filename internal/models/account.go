package models

import (
	"time"
)

// Account represents a company tracked through the sales pipeline
type Account struct {
	ID             string     `bson:"_id,omitempty" json:"id"`
	Name           string     `bson:"name" json:"name"`
	Industry       string     `bson:"industry,omitempty" json:"industry,omitempty"`
	Location       string     `bson:"location,omitempty" json:"location,omitempty"`
	Status         Status     `bson:"status" json:"status"`
	Notes          string     `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt      time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `bson:"updated_at" json:"updated_at"`
	LastActivityAt *time.Time `bson:"last_activity_at,omitempty" json:"last_activity_at,omitempty"`
}

// AccountInput is the create/replace payload for an account. Update is a
// full-field replace; there are no partial-update semantics.
type AccountInput struct {
	Name     string `json:"name"`
	Industry string `json:"industry,omitempty"`
	Location string `json:"location,omitempty"`
	Status   Status `json:"status,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// Validate checks required fields and enum membership, applying the NEW
// default when status is absent.
func (in *AccountInput) Validate() error {
	if in.Name == "" {
		return missingField("name")
	}
	if in.Status == "" {
		in.Status = StatusNew
	}
	if !in.Status.Valid() {
		return invalidEnum("status", string(in.Status))
	}
	return nil
}

// Apply overwrites every input-shaped field of the account
func (in *AccountInput) Apply(a *Account) {
	a.Name = in.Name
	a.Industry = in.Industry
	a.Location = in.Location
	a.Status = in.Status
	a.Notes = in.Notes
}
