package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/budgetivoire/budgetivoire/internal/assistant"
	"github.com/budgetivoire/budgetivoire/internal/budget"
	"github.com/budgetivoire/budgetivoire/internal/ledger"
	"github.com/budgetivoire/budgetivoire/internal/settings"
	"github.com/budgetivoire/budgetivoire/internal/validation"
)

var (
	ErrFormFrozen          = errors.New("an entry is awaiting confirmation")
	ErrConfirmationPending = errors.New("confirmation already in progress")
	ErrNothingPending      = errors.New("no entry awaiting confirmation")
	ErrCancelled           = errors.New("confirmation cancelled")
)

const (
	// HighValueThreshold is the expense amount from which the confirmation
	// gate applies.
	HighValueThreshold int64 = 100_000

	DefaultConfirmationDelay = 1500 * time.Millisecond

	committedMessage = "Opération enregistrée !"
)

type Ledger interface {
	Snapshot(ctx context.Context) (ledger.Snapshot, error)
	Append(ctx context.Context, tx ledger.Transaction) (ledger.Snapshot, error)
}

type Budgets interface {
	Limits(ctx context.Context) (budget.Limits, error)
}

type Notification struct {
	Message     string
	Transaction ledger.Transaction
	Warning     *validation.BudgetWarning
}

type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

type NotifierFunc func(ctx context.Context, n Notification)

func (f NotifierFunc) Notify(ctx context.Context, n Notification) { f(ctx, n) }

type logNotifier struct{}

func (logNotifier) Notify(ctx context.Context, n Notification) {
	slog.InfoContext(ctx, n.Message,
		"id", n.Transaction.ID,
		"amount", n.Transaction.Amount,
		"flow", n.Transaction.Flow,
		"category", n.Transaction.Category.String(),
	)
}

type Option func(*Controller)

func WithPolicy(p validation.Policy) Option {
	return func(c *Controller) { c.policy = p }
}

// WithDelay sets how long a confirmation takes to acknowledge.
func WithDelay(d time.Duration) Option {
	return func(c *Controller) { c.delay = d }
}

func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func WithIDs(newID func() uuid.UUID) Option {
	return func(c *Controller) { c.newID = newID }
}

// Result describes where a submission ended.
type Result struct {
	State     State
	Outcome   validation.Outcome
	Pending   *validation.Candidate
	Committed *ledger.Transaction
}

type pending struct {
	candidate  validation.Candidate
	warning    *validation.BudgetWarning
	cancelled  chan struct{}
	confirming bool
}

// Controller drives a new entry from compose to commit. It owns the form and
// at most one entry awaiting confirmation; all state changes happen under mu.
type Controller struct {
	ledger   Ledger
	budgets  Budgets
	notifier Notifier
	policy   validation.Policy
	delay    time.Duration
	now      func() time.Time
	newID    func() uuid.UUID

	mu      sync.Mutex
	state   State
	form    Form
	pending *pending
}

func New(l Ledger, b Budgets, opts ...Option) *Controller {
	c := &Controller{
		ledger:   l,
		budgets:  b,
		notifier: logNotifier{},
		policy:   validation.DefaultPolicy(),
		delay:    DefaultConfirmationDelay,
		now:      time.Now,
		newID:    uuid.New,
		form:     NewForm(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// RequiresConfirmation reports whether cand must pass the confirmation gate
// before it can be committed.
func RequiresConfirmation(cand validation.Candidate, p settings.Profile) bool {
	return cand.Flow == ledger.FlowExpense &&
		cand.Amount >= HighValueThreshold &&
		!p.Guest &&
		p.ConfirmationGate
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

func (c *Controller) Form() Form {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.form
}

// Pending returns the entry awaiting confirmation, if any.
func (c *Controller) Pending() (validation.Candidate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending == nil {
		return validation.Candidate{}, false
	}

	return c.pending.candidate, true
}

// NeedsOverride reports whether submitting the current form will ask the
// overrider.
func (c *Controller) NeedsOverride() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.policy.NeedsOverride(c.form.Candidate())
}

func (c *Controller) edit(fn func(f *Form) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending != nil {
		return ErrFormFrozen
	}

	next := c.form
	if err := fn(&next); err != nil {
		return err
	}

	c.form = next
	c.state = StateComposing

	return nil
}

// refresh recomputes the budget warning for f. Called with mu held.
func (c *Controller) refresh(ctx context.Context, f *Form) error {
	f.Warning = nil
	if f.Flow != ledger.FlowExpense || f.Amount == 0 {
		return nil
	}

	snap, err := c.ledger.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("loading ledger: %w", err)
	}

	limits, err := c.budgets.Limits(ctx)
	if err != nil {
		return fmt.Errorf("loading budgets: %w", err)
	}

	f.Warning = c.policy.Live(f.Candidate(), snap, limits).Warning

	return nil
}

// SetAmount is checked as it is typed: an amount above the maximum is
// refused and the previous amount stays.
func (c *Controller) SetAmount(ctx context.Context, amount int64) error {
	return c.edit(func(f *Form) error {
		if amount < 0 {
			return ledger.ErrInvalidAmount
		}

		if amount > c.policy.MaxAmount {
			return validation.ErrAboveMaximum
		}

		f.Amount = amount

		return c.refresh(ctx, f)
	})
}

// SetAmountText accepts grouped input such as "150 000".
func (c *Controller) SetAmountText(ctx context.Context, text string) error {
	amount, err := ledger.ParseAmount(text)
	if err != nil {
		return err
	}

	return c.SetAmount(ctx, amount)
}

func (c *Controller) SetFlow(ctx context.Context, flow ledger.Flow) error {
	return c.edit(func(f *Form) error {
		parsed, err := ledger.ParseFlow(string(flow))
		if err != nil {
			return err
		}

		f.Flow = parsed

		return c.refresh(ctx, f)
	})
}

// SetCategory only takes known categories.
func (c *Controller) SetCategory(ctx context.Context, cat ledger.Category) error {
	return c.edit(func(f *Form) error {
		if !cat.IsKnown() {
			return fmt.Errorf("%w: %q", ledger.ErrUnknownCategory, cat.String())
		}

		f.Category = cat

		return c.refresh(ctx, f)
	})
}

func (c *Controller) SetPaymentMethod(pm ledger.PaymentMethod) error {
	return c.edit(func(f *Form) error {
		parsed, err := ledger.ParsePaymentMethod(string(pm))
		if err != nil {
			return err
		}

		f.PaymentMethod = parsed

		return nil
	})
}

func (c *Controller) SetNote(note string) error {
	return c.edit(func(f *Form) error {
		f.Note = note
		return nil
	})
}

// SetAttachment stores a reference to a receipt image; empty clears it.
func (c *Controller) SetAttachment(ref string) error {
	return c.edit(func(f *Form) error {
		f.Attachment = ref
		return nil
	})
}

// ApplySuggestion fills the form from a parsed suggestion. Nothing is applied
// when the suggestion is missing or its amount is out of range.
func (c *Controller) ApplySuggestion(ctx context.Context, s *assistant.Suggestion) error {
	if s == nil {
		return assistant.ErrNotUnderstood
	}

	return c.edit(func(f *Form) error {
		if s.Amount <= 0 {
			return assistant.ErrNotUnderstood
		}

		if s.Amount > c.policy.MaxAmount {
			return validation.ErrAboveMaximum
		}

		f.Amount = s.Amount
		f.Note = s.Note

		if flow, err := ledger.ParseFlow(string(s.Flow)); err == nil {
			f.Flow = flow
		}

		if s.Category.IsKnown() {
			f.Category = s.Category
		}

		if pm, err := ledger.ParsePaymentMethod(string(s.PaymentMethod)); err == nil {
			f.PaymentMethod = pm
		}

		return c.refresh(ctx, f)
	})
}

// Submit validates the form and either commits it or parks it for
// confirmation. A rejection is returned both in the result and as the error.
// ov is consulted while the controller is locked.
func (c *Controller) Submit(ctx context.Context, profile settings.Profile, ov validation.Overrider) (Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending != nil {
		return Result{State: c.state}, ErrConfirmationPending
	}

	c.state = StateValidating
	cand := c.form.Candidate()

	snap, err := c.ledger.Snapshot(ctx)
	if err != nil {
		c.state = StateComposing
		return Result{State: c.state}, fmt.Errorf("loading ledger: %w", err)
	}

	limits, err := c.budgets.Limits(ctx)
	if err != nil {
		c.state = StateComposing
		return Result{State: c.state}, fmt.Errorf("loading budgets: %w", err)
	}

	outcome := c.policy.Validate(cand, snap, limits, ov)
	if !outcome.Accepted() {
		c.state = StateComposing
		return Result{State: c.state, Outcome: outcome}, outcome.Err
	}

	c.form.Warning = outcome.Warning

	if RequiresConfirmation(cand, profile) {
		c.pending = &pending{candidate: cand, warning: outcome.Warning, cancelled: make(chan struct{})}
		c.state = StateAwaitingConfirmation

		return Result{State: c.state, Outcome: outcome, Pending: &cand}, nil
	}

	tx, err := c.commit(ctx, cand, outcome.Warning)
	if err != nil {
		c.state = StateComposing
		return Result{State: c.state, Outcome: outcome}, err
	}

	return Result{State: c.state, Outcome: outcome, Committed: &tx}, nil
}

// Confirm waits for the acknowledgement delay and commits the pending entry
// exactly as it was validated. It returns ErrCancelled if Cancel wins the
// race. If ctx ends first the entry stays pending.
func (c *Controller) Confirm(ctx context.Context) (ledger.Transaction, error) {
	c.mu.Lock()

	p := c.pending
	if p == nil {
		c.mu.Unlock()
		return ledger.Transaction{}, ErrNothingPending
	}

	if p.confirming {
		c.mu.Unlock()
		return ledger.Transaction{}, ErrConfirmationPending
	}

	p.confirming = true
	c.mu.Unlock()

	timer := time.NewTimer(c.delay)
	defer timer.Stop()

	select {
	case <-p.cancelled:
		return ledger.Transaction{}, ErrCancelled
	case <-ctx.Done():
		c.mu.Lock()
		p.confirming = false
		c.mu.Unlock()

		return ledger.Transaction{}, ctx.Err()
	case <-timer.C:
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending != p {
		return ledger.Transaction{}, ErrCancelled
	}

	tx, err := c.commit(ctx, p.candidate, p.warning)
	if err != nil {
		p.confirming = false
		return ledger.Transaction{}, err
	}

	return tx, nil
}

// Cancel discards the pending entry and unfreezes the form, which keeps
// what the user typed.
func (c *Controller) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending == nil {
		return ErrNothingPending
	}

	close(c.pending.cancelled)
	c.pending = nil
	c.state = StateComposing

	return nil
}

// commit appends cand to the ledger. Called with mu held.
func (c *Controller) commit(ctx context.Context, cand validation.Candidate, warning *validation.BudgetWarning) (ledger.Transaction, error) {
	tx := cand.Transaction()
	tx.ID = c.newID()
	tx.Timestamp = c.now()

	if _, err := c.ledger.Append(ctx, tx); err != nil {
		return ledger.Transaction{}, fmt.Errorf("committing entry: %w", err)
	}

	c.pending = nil
	c.form = c.form.reset()
	c.state = StateCommitted

	c.notifier.Notify(ctx, Notification{Message: committedMessage, Transaction: tx, Warning: warning})

	return tx, nil
}
