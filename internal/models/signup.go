package models

import "time"

type SignupStatus string

const (
	StatusYes      SignupStatus = "yes"
	StatusMaybe    SignupStatus = "maybe"
	StatusNo       SignupStatus = "no"
	StatusWaitlist SignupStatus = "waitlist"
)

// ParseSignupStatus validates a caller-supplied status value.
func ParseSignupStatus(s string) (SignupStatus, bool) {
	switch SignupStatus(s) {
	case StatusYes, StatusMaybe, StatusNo, StatusWaitlist:
		return SignupStatus(s), true
	}
	return "", false
}

// StatusFromLegacyFlag maps the old boolean "signup" form field to a
// status: "1" means yes, anything else means no.
func StatusFromLegacyFlag(flag string) SignupStatus {
	if flag == "1" {
		return StatusYes
	}
	return StatusNo
}

// EventSignup is one user's response to one event. Unique per
// (event, user); the status is mutated in place, rows are never deleted.
type EventSignup struct {
	ID        string       `json:"id"`
	EventID   string       `json:"event_id"`
	UserID    string       `json:"user_id"`
	Status    SignupStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}

// SignupWithUser is a signup joined with the responding user's name,
// for the event detail page.
type SignupWithUser struct {
	EventSignup
	Username string `json:"username"`
}
