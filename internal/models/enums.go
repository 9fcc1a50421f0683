package models

import "fmt"

// Status is the pipeline stage shared by accounts and contacts.
type Status string

const (
	StatusNew        Status = "NEW"
	StatusInProgress Status = "IN_PROGRESS"
	StatusNurturing  Status = "NURTURING"
	StatusConverted  Status = "CONVERTED"
	StatusDropped    Status = "DROPPED"
)

// ActivityType classifies a logged interaction.
type ActivityType string

const (
	ActivityCall    ActivityType = "CALL"
	ActivityEmail   ActivityType = "EMAIL"
	ActivityMeeting ActivityType = "MEETING"
	ActivityOther   ActivityType = "OTHER"
)

// ActivityOutcome records how an interaction went.
type ActivityOutcome string

const (
	OutcomeReached       ActivityOutcome = "REACHED"
	OutcomeNotReachable  ActivityOutcome = "NOT_REACHABLE"
	OutcomeVoicemail     ActivityOutcome = "VOICEMAIL"
	OutcomeCallBackLater ActivityOutcome = "CALL_BACK_LATER"
	OutcomeWrongNumber   ActivityOutcome = "WRONG_NUMBER"
	OutcomeInterested    ActivityOutcome = "INTERESTED"
	OutcomeNotInterested ActivityOutcome = "NOT_INTERESTED"
)

// Priority ranks an activity.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Valid reports whether the status is a member of the closed set.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusNurturing, StatusConverted, StatusDropped:
		return true
	}
	return false
}

func (t ActivityType) Valid() bool {
	switch t {
	case ActivityCall, ActivityEmail, ActivityMeeting, ActivityOther:
		return true
	}
	return false
}

func (o ActivityOutcome) Valid() bool {
	switch o {
	case OutcomeReached, OutcomeNotReachable, OutcomeVoicemail, OutcomeCallBackLater,
		OutcomeWrongNumber, OutcomeInterested, OutcomeNotInterested:
		return true
	}
	return false
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParseStatus matches s against the Status enum names. It is strict: callers
// that want a lenient default (e.g. CSV import) apply it themselves on error.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.Valid() {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return status, nil
}

// ParseActivityType matches s against the ActivityType enum names.
func ParseActivityType(s string) (ActivityType, error) {
	t := ActivityType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown activity type %q", s)
	}
	return t, nil
}

// ParseActivityOutcome matches s against the ActivityOutcome enum names.
func ParseActivityOutcome(s string) (ActivityOutcome, error) {
	o := ActivityOutcome(s)
	if !o.Valid() {
		return "", fmt.Errorf("unknown activity outcome %q", s)
	}
	return o, nil
}

// ParsePriority matches s against the Priority enum names.
func ParsePriority(s string) (Priority, error) {
	p := Priority(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown priority %q", s)
	}
	return p, nil
}
