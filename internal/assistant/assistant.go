package assistant

import (
	"context"
	"errors"

	"github.com/budgetivoire/budgetivoire/internal/ledger"
)

var ErrNotUnderstood = errors.New("could not understand")

// Suggestion is a best-effort reading of free text. It is untrusted and goes
// through the same validation as manual input. A zero Category means the text
// did not name one.
type Suggestion struct {
	Amount        int64
	Flow          ledger.Flow
	Category      ledger.Category
	PaymentMethod ledger.PaymentMethod
	Note          string
}

type Parser interface {
	Parse(ctx context.Context, text string) (*Suggestion, error)
}

type Advisor interface {
	Advice(ctx context.Context, recent []ledger.Transaction) string
}
