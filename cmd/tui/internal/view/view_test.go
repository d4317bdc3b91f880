package view

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/budgetivoire/budgetivoire/internal/budget"
	"github.com/budgetivoire/budgetivoire/internal/ledger"
	"github.com/budgetivoire/budgetivoire/internal/lifecycle"
	"github.com/budgetivoire/budgetivoire/internal/settings"
	"github.com/budgetivoire/budgetivoire/internal/validation"
)

type memLedger struct {
	mu  sync.Mutex
	txs ledger.Snapshot
}

func (m *memLedger) Snapshot(context.Context) (ledger.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append(ledger.Snapshot(nil), m.txs...), nil
}

func (m *memLedger) Append(_ context.Context, tx ledger.Transaction) (ledger.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.txs = append(ledger.Snapshot{tx}, m.txs...)

	return m.txs, nil
}

func (m *memLedger) Limits(context.Context) (budget.Limits, error) {
	return budget.Limits{}, nil
}

func newEntryModel(t *testing.T, gate bool) (EntryModel, *lifecycle.Controller, *memLedger) {
	t.Helper()

	st := settings.Defaults()
	st.ConfirmationGate = gate

	repo := settings.NewMockRepository(gomock.NewController(t))
	repo.EXPECT().LoadSettings(gomock.Any()).Return(st, nil).AnyTimes()

	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	l := &memLedger{txs: ledger.Snapshot{{
		ID: uuid.New(), Amount: 500_000, Flow: ledger.FlowIncome, Category: ledger.CategoryOther,
		PaymentMethod: ledger.PaymentBank, Timestamp: now.AddDate(0, 0, -3),
	}}}

	p := validation.DefaultPolicy()
	p.Now = func() time.Time { return now }

	ctrl := lifecycle.New(l, l,
		lifecycle.WithPolicy(p),
		lifecycle.WithClock(func() time.Time { return now }),
		lifecycle.WithDelay(time.Millisecond),
		lifecycle.WithNotifier(lifecycle.NotifierFunc(func(context.Context, lifecycle.Notification) {})),
	)

	return NewEntryModel(ctrl, settings.NewService(repo), nil), ctrl, l
}

func step(t *testing.T, m EntryModel, msg tea.Msg) (EntryModel, tea.Cmd) {
	t.Helper()

	next, cmd := m.Update(msg)

	out, ok := next.(EntryModel)
	require.True(t, ok)

	return out, cmd
}

func TestEntryModel_Commit(t *testing.T) {
	m, ctrl, l := newEntryModel(t, false)

	m, _ = step(t, m, m.setAmountCmd("7 500")())
	require.NoError(t, m.err)
	assert.EqualValues(t, 7500, m.form.Amount)

	m, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	m, _ = step(t, m, cmd())
	assert.Equal(t, "Opération enregistrée !", m.status)
	assert.Equal(t, "", m.amount.Value())
	assert.Equal(t, lifecycle.StateCommitted, ctrl.State())
	assert.Len(t, l.txs, 2)
}

func TestEntryModel_AboveMaximumReverts(t *testing.T) {
	m, _, _ := newEntryModel(t, false)

	m, _ = step(t, m, m.setAmountCmd("5000")())
	m, _ = step(t, m, m.setAmountCmd("20 000 000")())

	require.ErrorIs(t, m.err, validation.ErrAboveMaximum)
	assert.Equal(t, "5 000", m.amount.Value())
	assert.EqualValues(t, 5000, m.form.Amount)
}

func TestEntryModel_ConfirmationGate(t *testing.T) {
	t.Run("Confirm", func(t *testing.T) {
		m, _, l := newEntryModel(t, true)

		m, _ = step(t, m, m.setAmountCmd("150 000")())
		m, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		m, _ = step(t, m, cmd())

		require.Equal(t, entryStatePending, m.state)
		assert.EqualValues(t, 150_000, m.pending.Amount)

		m, _ = step(t, m, m.confirmCmd()())
		assert.Equal(t, entryStateEditing, m.state)
		assert.Contains(t, m.status, "150 000")
		assert.Len(t, l.txs, 2)
	})

	t.Run("Cancel", func(t *testing.T) {
		m, ctrl, l := newEntryModel(t, true)

		m, _ = step(t, m, m.setAmountCmd("150 000")())
		m, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		m, _ = step(t, m, cmd())

		m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
		assert.Equal(t, entryStateEditing, m.state)
		assert.Equal(t, lifecycle.StateComposing, ctrl.State())
		assert.EqualValues(t, 150_000, m.form.Amount)

		m, _ = step(t, m, m.confirmCmd()())
		assert.ErrorIs(t, m.err, lifecycle.ErrNothingPending)
		assert.Len(t, l.txs, 1)
	})
}

func TestSparkline(t *testing.T) {
	type testCase struct {
		name   string
		points []budget.Point
		want   string
	}

	tests := []testCase{
		{
			name:   "NoSpend",
			points: []budget.Point{{Day: 1, Amount: 0}},
			want:   "▁",
		},
		{
			name:   "Rising",
			points: []budget.Point{{Day: 1, Amount: 0}, {Day: 2, Amount: 50}, {Day: 3, Amount: 100}},
			want:   "▁▄█",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sparkline(tt.points))
		})
	}
}
