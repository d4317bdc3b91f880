package view

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/budgetivoire/budgetivoire/internal/assistant"
	"github.com/budgetivoire/budgetivoire/internal/ledger"
	"github.com/budgetivoire/budgetivoire/internal/lifecycle"
	"github.com/budgetivoire/budgetivoire/internal/settings"
	"github.com/budgetivoire/budgetivoire/internal/validation"
)

type entryState int

const (
	entryStateEditing entryState = iota
	entryStateOverride
	entryStatePending
	entryStateConfirming
	entryStateAssistant
)

type entryField int

const (
	fieldAmount entryField = iota
	fieldFlow
	fieldCategory
	fieldPayment
	fieldNote
	fieldCount
)

var fieldLabels = [fieldCount]string{"Montant", "Type", "Catégorie", "Paiement", "Note"}

// EntryModel is the new-entry screen. All edits go through the controller,
// which stays the single owner of the form.
type EntryModel struct {
	ctrl     *lifecycle.Controller
	settings *settings.Service
	parser   assistant.Parser

	state   entryState
	focus   entryField
	form    lifecycle.Form
	pending validation.Candidate

	amount  textinput.Model
	note    textinput.Model
	prompt  textinput.Model
	spinner spinner.Model

	override *huh.Form
	accept   *bool

	currency string
	status   string
	err      error
}

func NewEntryModel(ctrl *lifecycle.Controller, st *settings.Service, parser assistant.Parser) EntryModel {
	amount := textinput.New()
	amount.Placeholder = "5 000"
	amount.CharLimit = 16
	amount.Focus()

	note := textinput.New()
	note.Placeholder = "Marché Adjamé"
	note.CharLimit = 120

	prompt := textinput.New()
	prompt.Placeholder = "ex : 2500 gbaka payé avec Wave"
	prompt.CharLimit = 200
	prompt.Width = 50

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = activeStyle

	m := EntryModel{
		ctrl:     ctrl,
		settings: st,
		parser:   parser,
		form:     ctrl.Form(),
		amount:   amount,
		note:     note,
		prompt:   prompt,
		spinner:  s,
		currency: "FCFA",
	}

	if cand, ok := ctrl.Pending(); ok {
		m.state = entryStatePending
		m.pending = cand
	}

	return m
}

func (m EntryModel) Title() string { return "Nouvelle opération" }

func (m EntryModel) ShortHelp() string {
	switch m.state {
	case entryStatePending:
		return "Entrée: confirmer | Échap: annuler"
	case entryStateConfirming:
		return "Échap: annuler"
	case entryStateAssistant:
		return "Entrée: analyser | Échap: retour"
	case entryStateOverride:
		return "←/→: choisir | Entrée: valider"
	}

	if m.parser == nil {
		return "Tab: champ suivant | ←/→: changer | Entrée: enregistrer | Échap: retour"
	}

	return "Tab: champ suivant | ←/→: changer | Entrée: enregistrer | ctrl+a: assistant | Échap: retour"
}

func (m EntryModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadCurrencyCmd())
}

func (m EntryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case currencyMsg:
		if msg.currency != "" {
			m.currency = msg.currency
		}

		return m, nil

	case editedMsg:
		m.form = m.ctrl.Form()
		m.err = msg.err

		if msg.err != nil && msg.field == fieldAmount {
			m.amount.SetValue(amountText(m.form.Amount))
			m.amount.CursorEnd()
		}

		return m, nil

	case submittedMsg:
		return m.handleSubmitted(msg)

	case confirmedMsg:
		return m.handleConfirmed(msg)

	case parsedMsg:
		m.state = entryStateEditing
		m.form = m.ctrl.Form()
		m.err = msg.err

		if msg.err == nil {
			m.syncInputs()
			m.status = "Suggestion appliquée, vérifiez puis validez."
		}

		return m, nil
	}

	switch m.state {
	case entryStateOverride:
		return m.updateOverride(msg)
	case entryStatePending:
		return m.updatePending(msg)
	case entryStateConfirming:
		return m.updateConfirming(msg)
	case entryStateAssistant:
		return m.updateAssistant(msg)
	}

	return m.updateEditing(msg)
}

func (m EntryModel) updateEditing(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateInputs(msg)
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "tab", "down":
		return m.moveFocus(1), nil
	case "shift+tab", "up":
		return m.moveFocus(-1), nil
	case "ctrl+a":
		if m.parser == nil {
			return m, nil
		}

		m.state = entryStateAssistant
		m.prompt.SetValue("")

		return m, m.prompt.Focus()
	case "enter":
		return m.submit()
	case "left", "right":
		step := 1
		if keyMsg.String() == "left" {
			step = -1
		}

		if cmd := m.cycle(step); cmd != nil {
			return m, cmd
		}
	}

	return m.updateInputs(msg)
}

func (m EntryModel) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.focus {
	case fieldAmount:
		before := m.amount.Value()
		m.amount, cmd = m.amount.Update(msg)

		if m.amount.Value() != before {
			m.status = ""
			return m, tea.Batch(cmd, m.setAmountCmd(m.amount.Value()))
		}
	case fieldNote:
		before := m.note.Value()
		m.note, cmd = m.note.Update(msg)

		if m.note.Value() != before {
			return m, tea.Batch(cmd, m.setNoteCmd(m.note.Value()))
		}
	}

	return m, cmd
}

func (m EntryModel) moveFocus(step int) EntryModel {
	m.focus = (m.focus + entryField(step) + fieldCount) % fieldCount

	m.amount.Blur()
	m.note.Blur()

	switch m.focus {
	case fieldAmount:
		m.amount.Focus()
	case fieldNote:
		m.note.Focus()
	}

	return m
}

// cycle moves the focused choice field by step. It returns nil when the
// focused field is a text input.
func (m EntryModel) cycle(step int) tea.Cmd {
	switch m.focus {
	case fieldFlow:
		next := ledger.FlowExpense
		if m.form.Flow == ledger.FlowExpense {
			next = ledger.FlowIncome
		}

		return m.editCmd(fieldFlow, func(ctx context.Context) error { return m.ctrl.SetFlow(ctx, next) })

	case fieldCategory:
		cats := ledger.Categories()
		next := cats[rotate(slices.Index(cats, m.form.Category), step, len(cats))]

		return m.editCmd(fieldCategory, func(ctx context.Context) error { return m.ctrl.SetCategory(ctx, next) })

	case fieldPayment:
		pms := ledger.PaymentMethods()
		next := pms[rotate(slices.Index(pms, m.form.PaymentMethod), step, len(pms))]

		return m.editCmd(fieldPayment, func(context.Context) error { return m.ctrl.SetPaymentMethod(next) })
	}

	return nil
}

func rotate(i, step, n int) int {
	if i < 0 {
		return 0
	}

	return (i + step + n) % n
}

func (m EntryModel) submit() (tea.Model, tea.Cmd) {
	m.status = ""
	m.err = nil

	if !m.ctrl.NeedsOverride() {
		return m, m.submitCmd(nil)
	}

	m.accept = new(bool)
	m.override = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Cotisation élevée").
				Description(fmt.Sprintf("Le montant dépasse %s pour la tontine. Continuer ?",
					money(validation.DefaultPolicy().SavingsPoolCeiling, m.currency))).
				Affirmative("Oui").
				Negative("Non").
				Value(m.accept),
		),
	).WithWidth(50).WithShowHelp(false)
	m.state = entryStateOverride

	return m, m.override.Init()
}

func (m EntryModel) updateOverride(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		*m.accept = false
		m.state = entryStateEditing

		return m, m.submitCmd(validation.Answer(false))
	}

	form, cmd := m.override.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.override = f
	}

	if m.override.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = entryStateEditing

	return m, m.submitCmd(validation.Answer(*m.accept))
}

func (m EntryModel) updatePending(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.Type {
	case tea.KeyEnter:
		m.state = entryStateConfirming
		return m, tea.Batch(m.spinner.Tick, m.confirmCmd())
	case tea.KeyEsc:
		return m.cancel()
	}

	return m, nil
}

func (m EntryModel) updateConfirming(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m.cancel()
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func (m EntryModel) cancel() (tea.Model, tea.Cmd) {
	if err := m.ctrl.Cancel(); err != nil && !errors.Is(err, lifecycle.ErrNothingPending) {
		m.err = err
	}

	m.state = entryStateEditing
	m.form = m.ctrl.Form()
	m.status = "Opération annulée."

	return m, nil
}

func (m EntryModel) updateAssistant(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			m.state = entryStateEditing
			m.prompt.Blur()

			return m, nil
		case tea.KeyEnter:
			text := strings.TrimSpace(m.prompt.Value())
			if text == "" {
				return m, nil
			}

			m.prompt.Blur()
			m.status = "Analyse en cours..."

			return m, m.parseCmd(text)
		}
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)

	return m, cmd
}

func (m EntryModel) handleSubmitted(msg submittedMsg) (tea.Model, tea.Cmd) {
	m.form = m.ctrl.Form()

	if msg.err != nil {
		m.state = entryStateEditing
		m.err = msg.err

		return m, nil
	}

	switch {
	case msg.result.Pending != nil:
		m.state = entryStatePending
		m.pending = *msg.result.Pending
	case msg.result.Committed != nil:
		m.state = entryStateEditing
		m.status = "Opération enregistrée !"
		m.syncInputs()
	}

	return m, nil
}

func (m EntryModel) handleConfirmed(msg confirmedMsg) (tea.Model, tea.Cmd) {
	if errors.Is(msg.err, lifecycle.ErrCancelled) {
		return m, nil
	}

	m.form = m.ctrl.Form()

	if msg.err != nil {
		m.err = msg.err
		m.state = entryStateEditing

		if _, ok := m.ctrl.Pending(); ok {
			m.state = entryStatePending
		}

		return m, nil
	}

	m.state = entryStateEditing
	m.status = fmt.Sprintf("Opération enregistrée : %s.", money(msg.tx.Amount, m.currency))
	m.syncInputs()

	return m, nil
}

// syncInputs copies the controller's form back into the text inputs.
func (m *EntryModel) syncInputs() {
	m.amount.SetValue(amountText(m.form.Amount))
	m.amount.CursorEnd()
	m.note.SetValue(m.form.Note)
}

func amountText(n int64) string {
	if n == 0 {
		return ""
	}

	return ledger.FormatAmount(n)
}

func (m EntryModel) View() string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Bold(true).Render(m.Title()))
	b.WriteString("\n\n")

	switch m.state {
	case entryStateOverride:
		b.WriteString(m.override.View())
	case entryStatePending:
		fmt.Fprintf(&b, "Confirmation requise pour %s (%s, %s).\n\n",
			money(m.pending.Amount, m.currency), m.pending.Category, m.pending.PaymentMethod)
		b.WriteString(faintStyle.Render("Posez le doigt puis appuyez sur Entrée."))
	case entryStateConfirming:
		fmt.Fprintf(&b, "%s Vérification de l'empreinte...", m.spinner.View())
	case entryStateAssistant:
		b.WriteString("Décrivez l'opération :\n\n")
		b.WriteString(m.prompt.View())
	default:
		b.WriteString(m.viewFields())
	}

	if w := m.form.Warning; w != nil && m.state == entryStateEditing {
		b.WriteString("\n\n")
		b.WriteString(warnStyle.Render(fmt.Sprintf("Budget %s dépassé de %s.", w.Category, money(w.Overrun, m.currency))))
	}

	if m.err != nil {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render(message(m.err)))
	} else if m.status != "" {
		b.WriteString("\n\n")
		b.WriteString(okStyle.Render(m.status))
	}

	return panelStyle.Render(b.String())
}

func (m EntryModel) viewFields() string {
	values := [fieldCount]string{
		m.amount.View() + " " + m.currency,
		choice(flowLabel(m.form.Flow)),
		choice(m.form.Category.String()),
		choice(string(m.form.PaymentMethod)),
		m.note.View(),
	}

	rows := make([]string, 0, fieldCount)
	for f := range fieldCount {
		label := fmt.Sprintf("%-10s", fieldLabels[f])
		if f == m.focus {
			label = activeStyle.Render("> " + label)
		} else {
			label = "  " + label
		}

		rows = append(rows, label+" "+values[f])
	}

	return strings.Join(rows, "\n")
}

func choice(s string) string {
	return "‹ " + s + " ›"
}

func flowLabel(f ledger.Flow) string {
	if f == ledger.FlowIncome {
		return "Revenu"
	}

	return "Dépense"
}

// Messages

type currencyMsg struct {
	currency string
}

type editedMsg struct {
	field entryField
	err   error
}

type submittedMsg struct {
	result lifecycle.Result
	err    error
}

type confirmedMsg struct {
	tx  ledger.Transaction
	err error
}

type parsedMsg struct {
	err error
}

func (m EntryModel) loadCurrencyCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := dbCtx()
		defer cancel()

		st, err := m.settings.Get(ctx)
		if err != nil {
			return currencyMsg{}
		}

		return currencyMsg{currency: st.Currency}
	}
}

func (m EntryModel) editCmd(field entryField, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := dbCtx()
		defer cancel()

		return editedMsg{field: field, err: fn(ctx)}
	}
}

func (m EntryModel) setAmountCmd(text string) tea.Cmd {
	return m.editCmd(fieldAmount, func(ctx context.Context) error { return m.ctrl.SetAmountText(ctx, text) })
}

func (m EntryModel) setNoteCmd(note string) tea.Cmd {
	return m.editCmd(fieldNote, func(context.Context) error { return m.ctrl.SetNote(note) })
}

func (m EntryModel) submitCmd(ov validation.Overrider) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := dbCtx()
		defer cancel()

		st, err := m.settings.Get(ctx)
		if err != nil {
			return submittedMsg{err: err}
		}

		res, err := m.ctrl.Submit(ctx, st.Profile(), ov)

		return submittedMsg{result: res, err: err}
	}
}

func (m EntryModel) confirmCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := dbCtx()
		defer cancel()

		tx, err := m.ctrl.Confirm(ctx)

		return confirmedMsg{tx: tx, err: err}
	}
}

func (m EntryModel) parseCmd(text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), assistantTimeout)
		defer cancel()

		s, err := m.parser.Parse(ctx, text)
		if err != nil {
			return parsedMsg{err: err}
		}

		return parsedMsg{err: m.ctrl.ApplySuggestion(ctx, s)}
	}
}
