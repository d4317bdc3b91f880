package lifecycle

import (
	"github.com/budgetivoire/budgetivoire/internal/ledger"
	"github.com/budgetivoire/budgetivoire/internal/validation"
)

type State int

const (
	StateComposing State = iota
	StateValidating
	StateAwaitingConfirmation
	StateCommitted
)

func (s State) String() string {
	switch s {
	case StateComposing:
		return "composing"
	case StateValidating:
		return "validating"
	case StateAwaitingConfirmation:
		return "awaiting_confirmation"
	case StateCommitted:
		return "committed"
	}

	return "unknown"
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Form is the compose state of a new entry.
type Form struct {
	Amount        int64
	Flow          ledger.Flow
	Category      ledger.Category
	PaymentMethod ledger.PaymentMethod
	Note          string
	Attachment    string
	Warning       *validation.BudgetWarning
}

func NewForm() Form {
	return Form{
		Flow:          ledger.FlowExpense,
		Category:      ledger.DefaultCategory,
		PaymentMethod: ledger.PaymentCash,
	}
}

func (f Form) Candidate() validation.Candidate {
	return validation.Candidate{
		Amount:        f.Amount,
		Flow:          f.Flow,
		Category:      f.Category,
		PaymentMethod: f.PaymentMethod,
		Note:          f.Note,
	}
}

// reset clears the entry but keeps the flow and payment method the user was
// working with.
func (f Form) reset() Form {
	next := NewForm()
	next.Flow = f.Flow
	next.PaymentMethod = f.PaymentMethod

	return next
}
