package budget

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/budgetivoire/budgetivoire/internal/budget"
	"github.com/budgetivoire/budgetivoire/internal/http/respond"
	"github.com/budgetivoire/budgetivoire/internal/ledger"
)

type Handler struct {
	budgets *budget.Service
	ledger  *ledger.Service
	agg     *budget.Aggregator
}

func NewHandler(budgets *budget.Service, l *ledger.Service, agg *budget.Aggregator) *Handler {
	return &Handler{budgets: budgets, ledger: l, agg: agg}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.report)
	r.Put("/", h.setLimit)
	r.Get("/series", h.series)
}

type lineResponse struct {
	Category ledger.Category `json:"category"`
	Limit    int64           `json:"limit"`
	Spent    int64           `json:"spent"`
	Percent  *float64        `json:"percent,omitempty"`
	Over     bool            `json:"over"`
}

type pointResponse struct {
	Day    int   `json:"day"`
	Amount int64 `json:"amount"`
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	snap, err := h.ledger.Snapshot(r.Context())
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, err)
		return
	}

	limits, err := h.budgets.Limits(r.Context())
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, err)
		return
	}

	lines := h.agg.Report(snap, limits)
	resp := make([]lineResponse, 0, len(lines))

	for _, l := range lines {
		lr := lineResponse{Category: l.Category, Limit: l.Limit, Spent: l.Spent, Over: l.Over}
		if l.HasLimit {
			lr.Percent = &l.Percent
		}

		resp = append(resp, lr)
	}

	respond.JSON(w, http.StatusOK, resp)
}

type setLimitRequest struct {
	Category string `json:"category"`
	Limit    int64  `json:"limit"`
}

func (h *Handler) setLimit(w http.ResponseWriter, r *http.Request) {
	var req setLimitRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	cat, err := ledger.LookupCategory(req.Category)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err)
		return
	}

	limits, err := h.budgets.SetLimit(r.Context(), cat, req.Limit)
	if err != nil {
		if errors.Is(err, budget.ErrInvalidLimit) {
			respond.Error(w, http.StatusBadRequest, err)
			return
		}

		respond.Error(w, http.StatusInternalServerError, err)

		return
	}

	resp := make(map[string]int64, len(limits))
	for c, v := range limits {
		resp[c.String()] = v
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) series(w http.ResponseWriter, r *http.Request) {
	cat, err := ledger.LookupCategory(r.URL.Query().Get("category"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err)
		return
	}

	snap, err := h.ledger.Snapshot(r.Context())
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, err)
		return
	}

	points := h.agg.DailyCumulativeSeries(snap, cat)
	resp := make([]pointResponse, len(points))

	for i, p := range points {
		resp[i] = pointResponse(p)
	}

	respond.JSON(w, http.StatusOK, resp)
}
