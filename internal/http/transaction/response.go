package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/budgetivoire/budgetivoire/internal/ledger"
)

// Response is the wire shape of a transaction. The entry handler returns
// committed entries in the same shape.
type Response struct {
	ID            uuid.UUID            `json:"id"`
	Amount        int64                `json:"amount"`
	Flow          ledger.Flow          `json:"type"`
	Category      ledger.Category      `json:"category"`
	PaymentMethod ledger.PaymentMethod `json:"payment_method"`
	Note          string               `json:"note,omitempty"`
	Timestamp     time.Time            `json:"timestamp"`
}

func ToResponse(tx ledger.Transaction) Response {
	return Response{
		ID:            tx.ID,
		Amount:        tx.Amount,
		Flow:          tx.Flow,
		Category:      tx.Category,
		PaymentMethod: tx.PaymentMethod,
		Note:          tx.Note,
		Timestamp:     tx.Timestamp,
	}
}

func toResponseList(snap ledger.Snapshot) []Response {
	resp := make([]Response, len(snap))
	for i, tx := range snap {
		resp[i] = ToResponse(tx)
	}

	return resp
}

type categoryAmount struct {
	Category ledger.Category `json:"category"`
	Amount   int64           `json:"amount"`
	Percent  float64         `json:"percent"`
}

type summaryResponse struct {
	Currency            string           `json:"currency"`
	TotalBalance        int64            `json:"total_balance"`
	TotalIncome         int64            `json:"total_income"`
	MonthlyExpenseTotal int64            `json:"monthly_expense_total"`
	Breakdown           []categoryAmount `json:"breakdown"`
	Text                string           `json:"text"`
}
