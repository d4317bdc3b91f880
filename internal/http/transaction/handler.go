package transaction

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/budgetivoire/budgetivoire/internal/export"
	"github.com/budgetivoire/budgetivoire/internal/http/respond"
	"github.com/budgetivoire/budgetivoire/internal/ledger"
	"github.com/budgetivoire/budgetivoire/internal/settings"
)

type Handler struct {
	svc      *ledger.Service
	settings *settings.Service
}

func NewHandler(svc *ledger.Service, st *settings.Service) *Handler {
	return &Handler{svc: svc, settings: st}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Delete("/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Snapshot(r.Context())
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(snap))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, errors.New("invalid id"))
		return
	}

	if _, err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, ledger.ErrNotFound)
			return
		}

		respond.Error(w, http.StatusInternalServerError, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Summary serves the derived totals shown on the dashboard.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Snapshot(r.Context())
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, err)
		return
	}

	st, err := h.settings.Get(r.Context())
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, err)
		return
	}

	breakdown := snap.CategoryBreakdown()

	resp := summaryResponse{
		Currency:            st.Currency,
		TotalBalance:        snap.TotalBalance(),
		TotalIncome:         snap.TotalIncome(),
		MonthlyExpenseTotal: snap.MonthlyExpenseTotal(),
		Breakdown:           make([]categoryAmount, 0, len(breakdown)),
		Text:                export.Summary(snap, st.Currency),
	}

	for _, c := range breakdown {
		resp.Breakdown = append(resp.Breakdown, categoryAmount(c))
	}

	respond.JSON(w, http.StatusOK, resp)
}
