package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"teamup/internal/api/httpx"
	"teamup/internal/middleware"
	"teamup/internal/models"
	"teamup/internal/repository"
	"teamup/internal/services"
)

// SignupToggler is the slice of SignupService the handler needs.
type SignupToggler interface {
	Toggle(ctx context.Context, eventID, userID string, requested models.SignupStatus) (services.ToggleResult, error)
}

type SignupHandler struct {
	Signups SignupToggler
}

func NewSignupHandler(signups SignupToggler) *SignupHandler {
	return &SignupHandler{Signups: signups}
}

// Toggle handles POST /events/{id}/signup. The body carries either a
// status or the legacy boolean signup flag, which maps to yes/no.
func (h *SignupHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "missing user", nil)
		return
	}
	eventID := chi.URLParam(r, "id")

	var req struct {
		Status string `json:"status"`
		Signup string `json:"signup"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid body", nil)
		return
	}
	var requested models.SignupStatus
	if req.Status != "" {
		parsed, ok := models.ParseSignupStatus(req.Status)
		if !ok {
			httpx.WriteError(w, http.StatusBadRequest, "invalid_status", "invalid response", nil)
			return
		}
		requested = parsed
	} else {
		requested = models.StatusFromLegacyFlag(req.Signup)
	}

	res, err := h.Signups.Toggle(r.Context(), eventID, userID, requested)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidStatus):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_status", "invalid response", nil)
		case errors.Is(err, services.ErrInsufficientFunds):
			httpx.WriteError(w, http.StatusPaymentRequired, "insufficient_funds", err.Error(), nil)
		case errors.Is(err, services.ErrNotTeamMember):
			httpx.WriteError(w, http.StatusForbidden, "forbidden", err.Error(), nil)
		case errors.Is(err, repository.ErrNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "event not found", nil)
		default:
			httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "signup failed", nil)
		}
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}
