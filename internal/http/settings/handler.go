package settings

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/budgetivoire/budgetivoire/internal/http/respond"
	"github.com/budgetivoire/budgetivoire/internal/settings"
)

type Handler struct {
	svc *settings.Service
}

func NewHandler(svc *settings.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
	r.Put("/", h.update)
	r.Post("/pin", h.changePIN)
}

// settingsResponse never carries the PIN hash.
type settingsResponse struct {
	Name                 string            `json:"name"`
	Currency             string            `json:"currency"`
	Onboarded            bool              `json:"onboarded"`
	Guest                bool              `json:"guest"`
	City                 string            `json:"city"`
	Phone                string            `json:"phone,omitempty"`
	ConfirmationGate     bool              `json:"confirmation_gate"`
	NotificationsEnabled bool              `json:"notifications_enabled"`
	DarkMode             bool              `json:"dark_mode"`
	Language             settings.Language `json:"language"`
	LinkedAccounts       []string          `json:"linked_accounts"`
}

type updateRequest struct {
	Name                 string            `json:"name"`
	Currency             string            `json:"currency"`
	City                 string            `json:"city"`
	Phone                string            `json:"phone"`
	ConfirmationGate     bool              `json:"confirmation_gate"`
	NotificationsEnabled bool              `json:"notifications_enabled"`
	DarkMode             bool              `json:"dark_mode"`
	Language             settings.Language `json:"language"`
	LinkedAccounts       []string          `json:"linked_accounts"`
}

func toResponse(s settings.Settings) settingsResponse {
	accounts := s.LinkedAccounts
	if accounts == nil {
		accounts = []string{}
	}

	return settingsResponse{
		Name:                 s.Name,
		Currency:             s.Currency,
		Onboarded:            s.Onboarded,
		Guest:                s.Guest,
		City:                 s.City,
		Phone:                s.Phone,
		ConfirmationGate:     s.ConfirmationGate,
		NotificationsEnabled: s.NotificationsEnabled,
		DarkMode:             s.DarkMode,
		Language:             s.Language,
		LinkedAccounts:       accounts,
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Get(r.Context())
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(st))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	st, err := h.svc.Update(r.Context(), settings.Settings{
		Name:                 req.Name,
		Currency:             req.Currency,
		City:                 req.City,
		Phone:                req.Phone,
		ConfirmationGate:     req.ConfirmationGate,
		NotificationsEnabled: req.NotificationsEnabled,
		DarkMode:             req.DarkMode,
		Language:             req.Language,
		LinkedAccounts:       req.LinkedAccounts,
	})
	if err != nil {
		switch {
		case errors.Is(err, settings.ErrGuestRestricted):
			respond.Error(w, http.StatusForbidden, err)
		case errors.Is(err, settings.ErrInvalidLanguage), errors.Is(err, settings.ErrUnknownProvider):
			respond.Error(w, http.StatusBadRequest, err)
		default:
			respond.Error(w, http.StatusInternalServerError, err)
		}

		return
	}

	respond.JSON(w, http.StatusOK, toResponse(st))
}

type changePINRequest struct {
	Current string `json:"current"`
	Next    string `json:"next"`
}

func (h *Handler) changePIN(w http.ResponseWriter, r *http.Request) {
	var req changePINRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	if err := h.svc.ChangePIN(r.Context(), req.Current, req.Next); err != nil {
		switch {
		case errors.Is(err, settings.ErrInvalidPIN):
			respond.Error(w, http.StatusUnauthorized, err)
		case errors.Is(err, settings.ErrNotRegistered):
			respond.Error(w, http.StatusForbidden, err)
		case errors.Is(err, settings.ErrMalformedPIN):
			respond.Error(w, http.StatusBadRequest, err)
		default:
			respond.Error(w, http.StatusInternalServerError, err)
		}

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
