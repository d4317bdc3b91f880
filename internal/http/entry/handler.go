package entry

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/budgetivoire/budgetivoire/internal/assistant"
	"github.com/budgetivoire/budgetivoire/internal/auth"
	"github.com/budgetivoire/budgetivoire/internal/http/respond"
	"github.com/budgetivoire/budgetivoire/internal/http/transaction"
	"github.com/budgetivoire/budgetivoire/internal/ledger"
	"github.com/budgetivoire/budgetivoire/internal/lifecycle"
	"github.com/budgetivoire/budgetivoire/internal/settings"
	"github.com/budgetivoire/budgetivoire/internal/validation"
)

// Handler exposes the single entry form of the ledger owner.
type Handler struct {
	ctrl     *lifecycle.Controller
	settings *settings.Service
	parser   assistant.Parser
}

func NewHandler(ctrl *lifecycle.Controller, st *settings.Service, parser assistant.Parser) *Handler {
	return &Handler{ctrl: ctrl, settings: st, parser: parser}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
	r.Patch("/", h.patch)
	r.Post("/submit", h.submit)
	r.Post("/confirm", h.confirm)
	r.Post("/cancel", h.cancel)
	r.Post("/parse", h.parse)
}

// statusFor maps workflow errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, lifecycle.ErrFormFrozen),
		errors.Is(err, lifecycle.ErrConfirmationPending),
		errors.Is(err, lifecycle.ErrNothingPending),
		errors.Is(err, lifecycle.ErrCancelled):
		return http.StatusConflict
	case errors.Is(err, validation.ErrBelowMinimum),
		errors.Is(err, validation.ErrAboveMaximum),
		errors.Is(err, validation.ErrInsufficientFunds),
		errors.Is(err, validation.ErrOverrideDeclined),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, assistant.ErrNotUnderstood):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ledger.ErrUnknownCategory),
		errors.Is(err, ledger.ErrUnknownPaymentMethod),
		errors.Is(err, ledger.ErrInvalidFlow):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	}

	return http.StatusInternalServerError
}

func (h *Handler) get(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, snapshot(h.ctrl))
}

type patchRequest struct {
	Amount        *int64  `json:"amount,omitempty"`
	AmountText    *string `json:"amount_text,omitempty"`
	Flow          *string `json:"type,omitempty"`
	Category      *string `json:"category,omitempty"`
	PaymentMethod *string `json:"payment_method,omitempty"`
	Note          *string `json:"note,omitempty"`
	Attachment    *string `json:"attachment,omitempty"`
}

// apply runs the requested edits in form order and stops at the first
// refusal. Edits before it stay applied.
func (h *Handler) apply(ctx context.Context, req patchRequest) error {
	if req.Flow != nil {
		flow, err := ledger.ParseFlow(*req.Flow)
		if err != nil {
			return err
		}

		if err := h.ctrl.SetFlow(ctx, flow); err != nil {
			return err
		}
	}

	if req.Category != nil {
		cat, err := ledger.LookupCategory(*req.Category)
		if err != nil {
			return err
		}

		if err := h.ctrl.SetCategory(ctx, cat); err != nil {
			return err
		}
	}

	if req.PaymentMethod != nil {
		pm, err := ledger.ParsePaymentMethod(*req.PaymentMethod)
		if err != nil {
			return err
		}

		if err := h.ctrl.SetPaymentMethod(pm); err != nil {
			return err
		}
	}

	if req.Amount != nil {
		if err := h.ctrl.SetAmount(ctx, *req.Amount); err != nil {
			return err
		}
	}

	if req.AmountText != nil {
		if err := h.ctrl.SetAmountText(ctx, *req.AmountText); err != nil {
			return err
		}
	}

	if req.Note != nil {
		if err := h.ctrl.SetNote(*req.Note); err != nil {
			return err
		}
	}

	if req.Attachment != nil {
		if err := h.ctrl.SetAttachment(*req.Attachment); err != nil {
			return err
		}
	}

	return nil
}

func (h *Handler) patch(w http.ResponseWriter, r *http.Request) {
	var req patchRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	if err := h.apply(r.Context(), req); err != nil {
		respond.Error(w, statusFor(err), err)
		return
	}

	respond.JSON(w, http.StatusOK, snapshot(h.ctrl))
}

type submitRequest struct {
	// Override answers the savings-pool prompt. When the prompt applies and
	// no answer is given, the submission is refused with 428.
	Override *bool `json:"override,omitempty"`
}

func (h *Handler) profile(ctx context.Context) (settings.Profile, error) {
	st, err := h.settings.Get(ctx)
	if err != nil {
		return settings.Profile{}, err
	}

	p := st.Profile()
	if claims, ok := auth.FromContext(ctx); ok && claims.Guest {
		p.Guest = true
	}

	return p, nil
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if r.ContentLength != 0 && !respond.Decode(w, r, &req) {
		return
	}

	if req.Override == nil && h.ctrl.NeedsOverride() {
		respond.JSON(w, http.StatusPreconditionRequired, submitResponse{
			State:          h.ctrl.State(),
			OverrideNeeded: true,
		})

		return
	}

	profile, err := h.profile(r.Context())
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, err)
		return
	}

	var ov validation.Overrider
	if req.Override != nil {
		ov = validation.Answer(*req.Override)
	}

	res, err := h.ctrl.Submit(r.Context(), profile, ov)

	resp := submitResponse{State: res.State, Warning: toWarning(res.Outcome.Warning)}
	if res.Pending != nil {
		resp.Pending = toCandidate(*res.Pending)
	}

	if res.Committed != nil {
		tx := transaction.ToResponse(*res.Committed)
		resp.Committed = &tx
	}

	switch {
	case err != nil:
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			respond.Error(w, status, err)
			return
		}

		resp.Error = err.Error()
		respond.JSON(w, status, resp)
	case res.Pending != nil:
		respond.JSON(w, http.StatusAccepted, resp)
	default:
		respond.JSON(w, http.StatusCreated, resp)
	}
}

// confirm blocks for the acknowledgement delay. A client that disconnects
// leaves the entry pending.
func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	tx, err := h.ctrl.Confirm(r.Context())
	if err != nil {
		respond.Error(w, statusFor(err), err)
		return
	}

	respond.JSON(w, http.StatusCreated, transaction.ToResponse(tx))
}

func (h *Handler) cancel(w http.ResponseWriter, _ *http.Request) {
	if err := h.ctrl.Cancel(); err != nil {
		respond.Error(w, statusFor(err), err)
		return
	}

	respond.JSON(w, http.StatusOK, snapshot(h.ctrl))
}

type parseRequest struct {
	Text string `json:"text"`
}

func (h *Handler) parse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	s, err := h.parser.Parse(r.Context(), req.Text)
	if err != nil {
		respond.Error(w, statusFor(err), err)
		return
	}

	if err := h.ctrl.ApplySuggestion(r.Context(), s); err != nil {
		respond.Error(w, statusFor(err), err)
		return
	}

	respond.JSON(w, http.StatusOK, snapshot(h.ctrl))
}
