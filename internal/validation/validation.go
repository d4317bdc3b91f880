package validation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/budgetivoire/budgetivoire/internal/budget"
	"github.com/budgetivoire/budgetivoire/internal/ledger"
)

// Rejections are user-correctable; their messages are shown verbatim.
var (
	ErrBelowMinimum      = errors.New("amount below minimum")
	ErrAboveMaximum      = errors.New("amount above maximum")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrOverrideDeclined  = errors.New("override declined")
)

// Policy holds the thresholds every validation call is evaluated against.
type Policy struct {
	MinAmount          int64
	MaxAmount          int64
	SavingsPool        ledger.Category
	SavingsPoolCeiling int64
	Now                func() time.Time
}

func DefaultPolicy() Policy {
	return Policy{
		MinAmount:          10,
		MaxAmount:          10_000_000,
		SavingsPool:        ledger.CategoryTontine,
		SavingsPoolCeiling: 50_000,
		Now:                time.Now,
	}
}

// Candidate is an entry that has not been committed yet.
type Candidate struct {
	Amount        int64
	Flow          ledger.Flow
	Category      ledger.Category
	PaymentMethod ledger.PaymentMethod
	Note          string
}

// Transaction builds the committed form of c.
func (c Candidate) Transaction() ledger.Transaction {
	return ledger.Transaction{
		Amount:        c.Amount,
		Flow:          c.Flow,
		Category:      c.Category,
		PaymentMethod: c.PaymentMethod,
		Note:          strings.TrimSpace(c.Note),
	}
}

// BudgetWarning is advisory and never blocks a commit.
type BudgetWarning struct {
	Category  ledger.Category
	Limit     int64
	Projected int64
	Overrun   int64
}

func (w BudgetWarning) String() string {
	return fmt.Sprintf("budget %s exceeded by %d", w.Category, w.Overrun)
}

// Outcome is Accepted when Err is nil.
type Outcome struct {
	Err     error
	Warning *BudgetWarning
}

func (o Outcome) Accepted() bool { return o.Err == nil }

// Overrider asks the user to acknowledge a savings-pool expense above the
// soft ceiling.
type Overrider interface {
	Override(c Candidate, ceiling int64) bool
}

type OverriderFunc func(c Candidate, ceiling int64) bool

func (f OverriderFunc) Override(c Candidate, ceiling int64) bool { return f(c, ceiling) }

// Answer returns an Overrider that always gives the same reply.
func Answer(accept bool) Overrider {
	return OverriderFunc(func(Candidate, int64) bool { return accept })
}

// Validate applies the rules in order and stops at the first rejection.
// A nil overrider declines.
func (p Policy) Validate(c Candidate, snap ledger.Snapshot, limits budget.Limits, ov Overrider) Outcome {
	if c.Amount < p.MinAmount {
		return Outcome{Err: ErrBelowMinimum}
	}

	if c.Amount > p.MaxAmount {
		return Outcome{Err: ErrAboveMaximum}
	}

	if p.NeedsOverride(c) && (ov == nil || !ov.Override(c, p.SavingsPoolCeiling)) {
		return Outcome{Err: ErrOverrideDeclined}
	}

	if c.Flow == ledger.FlowExpense && c.Amount > snap.TotalBalance() {
		return Outcome{Err: ErrInsufficientFunds}
	}

	return Outcome{Warning: p.budgetWarning(c, snap, limits)}
}

// Live runs the checks cheap enough for every keystroke: the upper bound
// and the budget warning.
func (p Policy) Live(c Candidate, snap ledger.Snapshot, limits budget.Limits) Outcome {
	if c.Amount > p.MaxAmount {
		return Outcome{Err: ErrAboveMaximum}
	}

	return Outcome{Warning: p.budgetWarning(c, snap, limits)}
}

// NeedsOverride reports whether c triggers the savings-pool prompt.
func (p Policy) NeedsOverride(c Candidate) bool {
	return c.Flow == ledger.FlowExpense && c.Category == p.SavingsPool && c.Amount > p.SavingsPoolCeiling
}

func (p Policy) budgetWarning(c Candidate, snap ledger.Snapshot, limits budget.Limits) *BudgetWarning {
	if c.Flow != ledger.FlowExpense {
		return nil
	}

	limit, ok := limits.Limit(c.Category)
	if !ok {
		return nil
	}

	projected := budget.NewAggregator(p.Now).MonthToDateSpent(snap, c.Category) + c.Amount
	if projected <= limit {
		return nil
	}

	return &BudgetWarning{
		Category:  c.Category,
		Limit:     limit,
		Projected: projected,
		Overrun:   projected - limit,
	}
}
