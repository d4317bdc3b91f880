package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound             = errors.New("transaction not found")
	ErrUnknownCategory      = errors.New("unknown category")
	ErrUnknownPaymentMethod = errors.New("unknown payment method")
	ErrInvalidFlow          = errors.New("invalid flow direction")
)

// Flow is the direction of money for a transaction.
type Flow string

const (
	FlowIncome  Flow = "INCOME"
	FlowExpense Flow = "EXPENSE"
)

func ParseFlow(s string) (Flow, error) {
	switch Flow(strings.ToUpper(strings.TrimSpace(s))) {
	case FlowIncome:
		return FlowIncome, nil
	case FlowExpense:
		return FlowExpense, nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidFlow, s)
}

// PaymentMethod is the channel the money moved through.
type PaymentMethod string

const (
	PaymentCash        PaymentMethod = "Espèces"
	PaymentOrangeMoney PaymentMethod = "Orange Money"
	PaymentWave        PaymentMethod = "Wave"
	PaymentMTNMoMo     PaymentMethod = "MTN MoMo"
	PaymentMoovMoney   PaymentMethod = "Moov Money"
	PaymentBank        PaymentMethod = "Banque"
)

var paymentMethods = []PaymentMethod{
	PaymentCash,
	PaymentOrangeMoney,
	PaymentWave,
	PaymentMTNMoMo,
	PaymentMoovMoney,
	PaymentBank,
}

// PaymentMethods returns the payment methods in display order.
func PaymentMethods() []PaymentMethod {
	return append([]PaymentMethod(nil), paymentMethods...)
}

// ParsePaymentMethod accepts only an exact stored label.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	s = strings.TrimSpace(s)
	for _, pm := range paymentMethods {
		if string(pm) == s {
			return pm, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownPaymentMethod, s)
}

// MatchPaymentMethod resolves a loose hint such as "MTN" or "orange" to a
// payment method. It falls back to cash.
func MatchPaymentMethod(hint string) PaymentMethod {
	h := strings.ToLower(strings.TrimSpace(hint))
	if h == "" {
		return PaymentCash
	}

	for _, pm := range paymentMethods {
		label := strings.ToLower(string(pm))
		if strings.Contains(label, h) || strings.Contains(h, label) {
			return pm
		}
	}

	return PaymentCash
}

// Transaction is a committed ledger entry. Once appended it is never mutated.
type Transaction struct {
	ID            uuid.UUID
	Amount        int64 // whole currency units, the currency has no subunit
	Flow          Flow
	Category      Category
	PaymentMethod PaymentMethod
	Note          string
	Timestamp     time.Time
}

// Signed returns the amount with the sign of its flow.
func (t Transaction) Signed() int64 {
	if t.Flow == FlowIncome {
		return t.Amount
	}

	return -t.Amount
}
