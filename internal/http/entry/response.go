package entry

import (
	"github.com/budgetivoire/budgetivoire/internal/http/transaction"
	"github.com/budgetivoire/budgetivoire/internal/ledger"
	"github.com/budgetivoire/budgetivoire/internal/lifecycle"
	"github.com/budgetivoire/budgetivoire/internal/validation"
)

type formResponse struct {
	Amount        int64                `json:"amount"`
	Flow          ledger.Flow          `json:"type"`
	Category      ledger.Category      `json:"category"`
	PaymentMethod ledger.PaymentMethod `json:"payment_method"`
	Note          string               `json:"note"`
	Attachment    string               `json:"attachment,omitempty"`
}

type warningResponse struct {
	Category  ledger.Category `json:"category"`
	Limit     int64           `json:"limit"`
	Projected int64           `json:"projected"`
	Overrun   int64           `json:"overrun"`
	Message   string          `json:"message"`
}

type entryResponse struct {
	State         lifecycle.State  `json:"state"`
	Form          formResponse     `json:"form"`
	Warning       *warningResponse `json:"warning,omitempty"`
	Pending       *formResponse    `json:"pending,omitempty"`
	NeedsOverride bool             `json:"needs_override"`
}

type submitResponse struct {
	State          lifecycle.State       `json:"state"`
	Error          string                `json:"error,omitempty"`
	OverrideNeeded bool                  `json:"override_required,omitempty"`
	Warning        *warningResponse      `json:"warning,omitempty"`
	Pending        *formResponse         `json:"pending,omitempty"`
	Committed      *transaction.Response `json:"committed,omitempty"`
}

func toWarning(w *validation.BudgetWarning) *warningResponse {
	if w == nil {
		return nil
	}

	return &warningResponse{
		Category:  w.Category,
		Limit:     w.Limit,
		Projected: w.Projected,
		Overrun:   w.Overrun,
		Message:   w.String(),
	}
}

func toForm(f lifecycle.Form) formResponse {
	return formResponse{
		Amount:        f.Amount,
		Flow:          f.Flow,
		Category:      f.Category,
		PaymentMethod: f.PaymentMethod,
		Note:          f.Note,
		Attachment:    f.Attachment,
	}
}

func toCandidate(c validation.Candidate) *formResponse {
	return &formResponse{
		Amount:        c.Amount,
		Flow:          c.Flow,
		Category:      c.Category,
		PaymentMethod: c.PaymentMethod,
		Note:          c.Note,
	}
}

func snapshot(ctrl *lifecycle.Controller) entryResponse {
	form := ctrl.Form()

	resp := entryResponse{
		State:         ctrl.State(),
		Form:          toForm(form),
		Warning:       toWarning(form.Warning),
		NeedsOverride: ctrl.NeedsOverride(),
	}

	if cand, ok := ctrl.Pending(); ok {
		resp.Pending = toCandidate(cand)
	}

	return resp
}
