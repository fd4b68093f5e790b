package services

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"teamup/internal/models"
	repo "teamup/internal/repository"
)

var ErrNotAdmin = errors.New("admin role required")

type EventService struct {
	store  repo.Store
	teamID string
}

func NewEventService(store repo.Store, teamID string) *EventService {
	return &EventService{store: store, teamID: teamID}
}

type EventInput struct {
	Title           string          `json:"title"`
	StartsAt        time.Time       `json:"starts_at"`
	EndsAt          time.Time       `json:"ends_at"`
	VenueID         *string         `json:"venue_id,omitempty"`
	MinParticipants int             `json:"min_participants"`
	MaxParticipants int             `json:"max_participants"`
	Price           decimal.Decimal `json:"price"`
}

// Create is admin-only. Capacity and time fields are immutable after
// this point; there is no update path.
func (s *EventService) Create(ctx context.Context, userID string, in EventInput) (models.Event, error) {
	if err := s.requireAdmin(ctx, userID); err != nil {
		return models.Event{}, err
	}
	e := models.Event{
		TeamID:          s.teamID,
		Title:           in.Title,
		StartsAt:        in.StartsAt,
		EndsAt:          in.EndsAt,
		VenueID:         in.VenueID,
		MinParticipants: in.MinParticipants,
		MaxParticipants: in.MaxParticipants,
		Price:           in.Price,
		CreatedBy:       userID,
	}
	if err := e.Validate(); err != nil {
		return models.Event{}, err
	}
	return s.store.Repos().Events.Create(ctx, e)
}

// EventDetail is the event page: signups grouped by status (waitlist in
// arrival order) and the viewer's own status.
type EventDetail struct {
	models.Event
	Venue    *models.Venue           `json:"venue,omitempty"`
	Yes      []models.SignupWithUser `json:"signups_yes"`
	Waitlist []models.SignupWithUser `json:"signups_waitlist"`
	Maybe    []models.SignupWithUser `json:"signups_maybe"`
	No       []models.SignupWithUser `json:"signups_no"`
	MyStatus *models.SignupStatus    `json:"my_status,omitempty"`
}

func (s *EventService) Detail(ctx context.Context, eventID, viewerID string) (EventDetail, error) {
	r := s.store.Repos()
	ev, err := r.Events.GetByID(ctx, eventID)
	if err != nil {
		return EventDetail{}, err
	}
	if ev.TeamID != s.teamID {
		return EventDetail{}, repo.ErrNotFound
	}
	d := EventDetail{Event: ev}
	if ev.VenueID != nil {
		if v, err := r.Venues.GetByID(ctx, *ev.VenueID); err == nil {
			d.Venue = &v
		}
	}
	signups, err := r.Signups.ListByEvent(ctx, eventID)
	if err != nil {
		return EventDetail{}, err
	}
	for _, su := range signups {
		if su.UserID == viewerID {
			status := su.Status
			d.MyStatus = &status
		}
		switch su.Status {
		case models.StatusYes:
			d.Yes = append(d.Yes, su)
		case models.StatusWaitlist:
			d.Waitlist = append(d.Waitlist, su)
		case models.StatusMaybe:
			d.Maybe = append(d.Maybe, su)
		case models.StatusNo:
			d.No = append(d.No, su)
		}
	}
	return d, nil
}

func (s *EventService) CreateVenue(ctx context.Context, userID string, v models.Venue) (models.Venue, error) {
	if err := s.requireAdmin(ctx, userID); err != nil {
		return models.Venue{}, err
	}
	return s.store.Repos().Venues.Create(ctx, v)
}

func (s *EventService) ListVenues(ctx context.Context) ([]models.Venue, error) {
	return s.store.Repos().Venues.List(ctx)
}

func (s *EventService) requireAdmin(ctx context.Context, userID string) error {
	role, ok, err := s.store.Repos().Teams.Role(ctx, s.teamID, userID)
	if err != nil {
		return err
	}
	if !ok || role != models.RoleAdmin {
		return ErrNotAdmin
	}
	return nil
}
