package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEvent() Event {
	start := time.Date(2025, 7, 1, 18, 0, 0, 0, time.UTC)
	return Event{
		Title:           "Tuesday training",
		StartsAt:        start,
		EndsAt:          start.Add(2 * time.Hour),
		MinParticipants: 4,
		MaxParticipants: 10,
		Price:           decimal.RequireFromString("5.00"),
	}
}

func TestEventValidate(t *testing.T) {
	e := validEvent()
	require.NoError(t, e.Validate())

	cases := []struct {
		name   string
		mutate func(*Event)
	}{
		{"blank title", func(e *Event) { e.Title = "  " }},
		{"ends before start", func(e *Event) { e.EndsAt = e.StartsAt.Add(-time.Hour) }},
		{"ends equals start", func(e *Event) { e.EndsAt = e.StartsAt }},
		{"zero capacity", func(e *Event) { e.MaxParticipants = 0 }},
		{"min above max", func(e *Event) { e.MinParticipants = 11 }},
		{"negative min", func(e *Event) { e.MinParticipants = -1 }},
		{"negative price", func(e *Event) { e.Price = decimal.RequireFromString("-1") }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := validEvent()
			tc.mutate(&e)
			assert.Error(t, e.Validate())
		})
	}
}

func TestEventPriced(t *testing.T) {
	e := validEvent()
	assert.True(t, e.Priced())
	e.Price = decimal.Zero
	assert.False(t, e.Priced())
}

func TestEventSummarySpotsLeft(t *testing.T) {
	s := EventSummary{Event: Event{MaxParticipants: 10}, YesCount: 7}
	assert.Equal(t, 3, s.SpotsLeft())
	s.YesCount = 12 // stale count must not go negative
	assert.Equal(t, 0, s.SpotsLeft())
}

func TestParseSignupStatus(t *testing.T) {
	for _, valid := range []string{"yes", "maybe", "no", "waitlist"} {
		got, ok := ParseSignupStatus(valid)
		require.True(t, ok, valid)
		assert.Equal(t, SignupStatus(valid), got)
	}
	for _, invalid := range []string{"", "YES", "perhaps", "y"} {
		_, ok := ParseSignupStatus(invalid)
		assert.False(t, ok, invalid)
	}
}
