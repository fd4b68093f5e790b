package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Event struct {
	ID              string          `json:"id"`
	TeamID          string          `json:"team_id"`
	Title           string          `json:"title"`
	StartsAt        time.Time       `json:"starts_at"`
	EndsAt          time.Time       `json:"ends_at"`
	VenueID         *string         `json:"venue_id,omitempty"`
	MinParticipants int             `json:"min_participants"`
	MaxParticipants int             `json:"max_participants"`
	Price           decimal.Decimal `json:"price"`
	CreatedBy       string          `json:"created_by"`
	CreatedAt       time.Time       `json:"created_at"`
}

func (e *Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return errors.New("title required")
	}
	if !e.EndsAt.After(e.StartsAt) {
		return errors.New("ends_at must be after starts_at")
	}
	if e.MaxParticipants < 1 {
		return errors.New("max_participants must be >= 1")
	}
	if e.MinParticipants < 0 || e.MinParticipants > e.MaxParticipants {
		return errors.New("min_participants must be between 0 and max_participants")
	}
	if e.Price.IsNegative() {
		return errors.New("price must not be negative")
	}
	return nil
}

// Priced reports whether booking this event moves money.
func (e *Event) Priced() bool { return e.Price.IsPositive() }

// EventSummary is an event annotated with signup counts and the
// viewer's own status, as shown on the team home page.
type EventSummary struct {
	Event
	YesCount      int           `json:"yes_count"`
	WaitlistCount int           `json:"waitlist_count"`
	MyStatus      *SignupStatus `json:"my_status,omitempty"`
}

func (s *EventSummary) SpotsLeft() int {
	left := s.MaxParticipants - s.YesCount
	if left < 0 {
		return 0
	}
	return left
}
