package assistant

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/budgetivoire/budgetivoire/internal/assistant"
	"github.com/budgetivoire/budgetivoire/internal/http/respond"
	"github.com/budgetivoire/budgetivoire/internal/ledger"
)

const recentForAdvice = 5

type Handler struct {
	advisor assistant.Advisor
	ledger  *ledger.Service
}

func NewHandler(advisor assistant.Advisor, l *ledger.Service) *Handler {
	return &Handler{advisor: advisor, ledger: l}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.advice)
}

type adviceResponse struct {
	Advice string `json:"advice"`
}

func (h *Handler) advice(w http.ResponseWriter, r *http.Request) {
	snap, err := h.ledger.Snapshot(r.Context())
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, err)
		return
	}

	respond.JSON(w, http.StatusOK, adviceResponse{
		Advice: h.advisor.Advice(r.Context(), snap.Recent(recentForAdvice)),
	})
}
