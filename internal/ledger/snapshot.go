package ledger

import (
	"cmp"
	"slices"
)

// Snapshot is the ledger at a point in time, newest first.
// All totals are order-independent sums over the whole history.
type Snapshot []Transaction

func (s Snapshot) TotalIncome() int64 {
	var total int64
	for _, t := range s {
		if t.Flow == FlowIncome {
			total += t.Amount
		}
	}

	return total
}

func (s Snapshot) TotalExpense() int64 {
	var total int64
	for _, t := range s {
		if t.Flow == FlowExpense {
			total += t.Amount
		}
	}

	return total
}

// TotalBalance is income minus expense over the whole ledger.
func (s Snapshot) TotalBalance() int64 {
	return s.TotalIncome() - s.TotalExpense()
}

// MonthlyExpenseTotal sums every expense in the ledger. Despite the name it is
// not scoped to the current month; see DESIGN.md.
func (s Snapshot) MonthlyExpenseTotal() int64 {
	return s.TotalExpense()
}

// ExpenseByCategory sums expenses per category over the whole ledger.
func (s Snapshot) ExpenseByCategory() map[Category]int64 {
	totals := make(map[Category]int64)
	for _, t := range s {
		if t.Flow == FlowExpense {
			totals[t.Category] += t.Amount
		}
	}

	return totals
}

// CategoryAmount is one slice of the category breakdown chart.
type CategoryAmount struct {
	Category Category
	Amount   int64
	Percent  float64 // share of total expense
}

// CategoryBreakdown returns ExpenseByCategory sorted by amount, largest first.
func (s Snapshot) CategoryBreakdown() []CategoryAmount {
	totals := s.ExpenseByCategory()
	all := s.TotalExpense()

	out := make([]CategoryAmount, 0, len(totals))
	for c, amount := range totals {
		ca := CategoryAmount{Category: c, Amount: amount}
		if all > 0 {
			ca.Percent = 100 * float64(amount) / float64(all)
		}

		out = append(out, ca)
	}

	slices.SortFunc(out, func(a, b CategoryAmount) int {
		if c := cmp.Compare(b.Amount, a.Amount); c != 0 {
			return c
		}

		return cmp.Compare(a.Category.String(), b.Category.String())
	})

	return out
}

// Recent returns at most n of the newest transactions.
func (s Snapshot) Recent(n int) Snapshot {
	if n < len(s) {
		return s[:n]
	}

	return s
}
