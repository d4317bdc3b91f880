package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/budgetivoire/budgetivoire/internal/auth"
	"github.com/budgetivoire/budgetivoire/internal/http/respond"
	"github.com/budgetivoire/budgetivoire/internal/settings"
)

type Handler struct {
	settings *settings.Service
	issuer   *auth.Issuer
}

func NewHandler(svc *settings.Service, issuer *auth.Issuer) *Handler {
	return &Handler{settings: svc, issuer: issuer}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/login", h.login)
	r.Post("/register", h.register)
	r.Post("/guest", h.guest)
}

type loginRequest struct {
	PIN string `json:"pin"`
}

type registerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	PIN   string `json:"pin"`
}

type sessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Name      string    `json:"name"`
	Guest     bool      `json:"guest"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	st, err := h.settings.Login(r.Context(), req.PIN)
	if err != nil {
		switch {
		case errors.Is(err, settings.ErrInvalidPIN):
			respond.Error(w, http.StatusUnauthorized, err)
		case errors.Is(err, settings.ErrNotRegistered):
			respond.Error(w, http.StatusConflict, err)
		default:
			respond.Error(w, http.StatusInternalServerError, err)
		}

		return
	}

	h.issue(w, http.StatusOK, st)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	st, err := h.settings.Register(r.Context(), req.Name, req.Phone, req.PIN)
	if err != nil {
		if errors.Is(err, settings.ErrMissingField) || errors.Is(err, settings.ErrMalformedPIN) {
			respond.Error(w, http.StatusBadRequest, err)
			return
		}

		respond.Error(w, http.StatusInternalServerError, err)

		return
	}

	h.issue(w, http.StatusCreated, st)
}

func (h *Handler) guest(w http.ResponseWriter, r *http.Request) {
	st, err := h.settings.EnterGuest(r.Context())
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, err)
		return
	}

	h.issue(w, http.StatusCreated, st)
}

func (h *Handler) issue(w http.ResponseWriter, status int, st settings.Settings) {
	token, expires, err := h.issuer.Issue(st)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, err)
		return
	}

	respond.JSON(w, status, sessionResponse{
		Token:     token,
		ExpiresAt: expires,
		Name:      st.Name,
		Guest:     st.Guest,
	})
}
