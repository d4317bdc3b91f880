package budget

import (
	"time"

	"github.com/budgetivoire/budgetivoire/internal/ledger"
)

// Aggregator computes month-to-date figures. "This month" is always the
// calendar month of the clock at call time, so answers move with midnight.
type Aggregator struct {
	now func() time.Time
}

// NewAggregator uses time.Now when now is nil.
func NewAggregator(now func() time.Time) *Aggregator {
	if now == nil {
		now = time.Now
	}

	return &Aggregator{now: now}
}

// Point is one day of the cumulative spend series.
type Point struct {
	Day    int
	Amount int64
}

// inMonth reports whether ts falls in the calendar month of ref, in ref's zone.
func inMonth(ts, ref time.Time) bool {
	local := ts.In(ref.Location())
	return local.Year() == ref.Year() && local.Month() == ref.Month()
}

func (a *Aggregator) monthExpenses(snap ledger.Snapshot, c ledger.Category, now time.Time) []ledger.Transaction {
	var out []ledger.Transaction

	for _, t := range snap {
		if t.Flow != ledger.FlowExpense || t.Category != c {
			continue
		}

		if inMonth(t.Timestamp, now) {
			out = append(out, t)
		}
	}

	return out
}

// MonthToDateSpent sums the category's expenses in the current calendar month.
func (a *Aggregator) MonthToDateSpent(snap ledger.Snapshot, c ledger.Category) int64 {
	var total int64
	for _, t := range a.monthExpenses(snap, c, a.now()) {
		total += t.Amount
	}

	return total
}

// OverrunPercent is 100 * spent / limit. ok is false when no limit is set.
func (a *Aggregator) OverrunPercent(snap ledger.Snapshot, limits Limits, c ledger.Category) (pct float64, ok bool) {
	limit, ok := limits.Limit(c)
	if !ok {
		return 0, false
	}

	return 100 * float64(a.MonthToDateSpent(snap, c)) / float64(limit), true
}

// DailyCumulativeSeries returns the running spend for days 1..today. Days
// without activity repeat the previous value. A category with no spend this
// month yields the single point (1, 0). Entries dated later this month are
// counted on today so the last point always equals MonthToDateSpent.
func (a *Aggregator) DailyCumulativeSeries(snap ledger.Snapshot, c ledger.Category) []Point {
	now := a.now()
	txs := a.monthExpenses(snap, c, now)

	if len(txs) == 0 {
		return []Point{{Day: 1, Amount: 0}}
	}

	today := now.Day()
	daily := make([]int64, today+1)

	for _, t := range txs {
		day := min(t.Timestamp.In(now.Location()).Day(), today)
		daily[day] += t.Amount
	}

	series := make([]Point, 0, today)

	var cumulative int64

	for day := 1; day <= today; day++ {
		cumulative += daily[day]
		series = append(series, Point{Day: day, Amount: cumulative})
	}

	return series
}

// Line is one row of the budgets screen.
type Line struct {
	Category ledger.Category
	Limit    int64
	Spent    int64
	Percent  float64 // meaningful only when HasLimit
	HasLimit bool
	Over     bool
}

// Report returns a line per known category, in display order.
func (a *Aggregator) Report(snap ledger.Snapshot, limits Limits) []Line {
	cats := ledger.Categories()
	lines := make([]Line, 0, len(cats))

	for _, c := range cats {
		line := Line{Category: c, Spent: a.MonthToDateSpent(snap, c)}
		line.Limit, line.HasLimit = limits.Limit(c)

		if line.HasLimit {
			line.Percent = 100 * float64(line.Spent) / float64(line.Limit)
			line.Over = line.Spent > line.Limit
		}

		lines = append(lines, line)
	}

	return lines
}
