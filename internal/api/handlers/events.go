package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"teamup/internal/api/httpx"
	"teamup/internal/api/validate"
	"teamup/internal/middleware"
	"teamup/internal/models"
	"teamup/internal/repository"
	"teamup/internal/services"
)

type EventsHandler struct {
	Events *services.EventService
	Teams  *services.TeamService
}

func NewEventsHandler(events *services.EventService, teams *services.TeamService) *EventsHandler {
	return &EventsHandler{Events: events, Teams: teams}
}

func (h *EventsHandler) Home(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	view, err := h.Teams.Home(r.Context(), userID)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "team lookup failed", nil)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, view)
}

func (h *EventsHandler) Join(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	m, err := h.Teams.Join(r.Context(), userID)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "join failed", nil)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, m)
}

func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	var in services.EventInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid body", nil)
		return
	}
	var errs validate.Errs
	for _, e := range []*validate.ErrField{
		validate.Required("title", in.Title),
		validate.After("ends_at", in.EndsAt, in.StartsAt),
		validate.MinInt("max_participants", int64(in.MaxParticipants), 1),
		validate.NonNegative("price", in.Price),
	} {
		if e != nil {
			errs = append(errs, *e)
		}
	}
	if len(errs) > 0 {
		httpx.WriteError(w, http.StatusBadRequest, "validation", errs.Error(), errs)
		return
	}
	ev, err := h.Events.Create(r.Context(), userID, in)
	if err != nil {
		if errors.Is(err, services.ErrNotAdmin) {
			httpx.WriteError(w, http.StatusForbidden, "forbidden", err.Error(), nil)
			return
		}
		httpx.WriteError(w, http.StatusBadRequest, "validation", err.Error(), nil)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, ev)
}

func (h *EventsHandler) Detail(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	d, err := h.Events.Detail(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "event not found", nil)
			return
		}
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "event lookup failed", nil)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, d)
}

func (h *EventsHandler) CreateVenue(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	var v models.Venue
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid body", nil)
		return
	}
	var errs validate.Errs
	for _, e := range []*validate.ErrField{
		validate.Required("name", v.Name),
		validate.Required("address_line1", v.AddressLine1),
		validate.Required("postcode", v.Postcode),
	} {
		if e != nil {
			errs = append(errs, *e)
		}
	}
	if len(errs) > 0 {
		httpx.WriteError(w, http.StatusBadRequest, "validation", errs.Error(), errs)
		return
	}
	created, err := h.Events.CreateVenue(r.Context(), userID, v)
	if err != nil {
		if errors.Is(err, services.ErrNotAdmin) {
			httpx.WriteError(w, http.StatusForbidden, "forbidden", err.Error(), nil)
			return
		}
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "venue create failed", nil)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, created)
}

func (h *EventsHandler) ListVenues(w http.ResponseWriter, r *http.Request) {
	venues, err := h.Events.ListVenues(r.Context())
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "venue list failed", nil)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, venues)
}
