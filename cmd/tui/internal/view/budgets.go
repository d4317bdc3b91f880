package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/budgetivoire/budgetivoire/internal/budget"
	"github.com/budgetivoire/budgetivoire/internal/ledger"
)

type budgetsState int

const (
	budgetsStateBrowse budgetsState = iota
	budgetsStateEdit
)

// BudgetsModel shows this month's spend against each category limit.
type BudgetsModel struct {
	budgets    *budget.Service
	ledger     *ledger.Service
	aggregator *budget.Aggregator

	state  budgetsState
	table  table.Model
	lines  []budget.Line
	snap   ledger.Snapshot
	form   *huh.Form
	limit  *string
	series []budget.Point

	loading bool
	err     error
	status  string
}

func NewBudgetsModel(b *budget.Service, l *ledger.Service, agg *budget.Aggregator) BudgetsModel {
	columns := []table.Column{
		{Title: "Catégorie", Width: 22},
		{Title: "Dépensé", Width: 12},
		{Title: "Plafond", Width: 12},
		{Title: "Utilisé", Width: 8},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(len(ledger.Categories())+1),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return BudgetsModel{
		budgets:    b,
		ledger:     l,
		aggregator: agg,
		table:      t,
		loading:    true,
	}
}

func (m BudgetsModel) Title() string { return "Budgets du mois" }

func (m BudgetsModel) ShortHelp() string {
	if m.state == budgetsStateEdit {
		return "Entrée: enregistrer | Échap: annuler"
	}

	return "Échap: retour | e: modifier le plafond | r: actualiser"
}

func (m BudgetsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m BudgetsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case budgetsLoadedMsg:
		m.loading = false
		m.state = budgetsStateBrowse
		m.form = nil
		m.table.Focus()

		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.snap = msg.snap
		m.lines = m.aggregator.Report(msg.snap, msg.limits)
		m.refreshTable()
		m.refreshSeries()

		return m, nil
	}

	if m.state == budgetsStateEdit {
		return m.updateEdit(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "e":
			return m.enterEditMode()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	m.refreshSeries()

	return m, cmd
}

func (m BudgetsModel) selected() (budget.Line, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.lines) {
		return budget.Line{}, false
	}

	return m.lines[idx], true
}

func (m BudgetsModel) enterEditMode() (tea.Model, tea.Cmd) {
	line, ok := m.selected()
	if !ok {
		return m, nil
	}

	value := ""
	if line.HasLimit {
		value = ledger.FormatAmount(line.Limit)
	}

	m.limit = &value
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Plafond mensuel").
				Description(line.Category.String() + " (0 pour retirer)").
				Placeholder("50 000").
				Value(m.limit).
				Validate(func(s string) error {
					if _, err := ledger.ParseAmount(s); err != nil {
						return fmt.Errorf("montant invalide")
					}

					return nil
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = budgetsStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m BudgetsModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = budgetsStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	line, _ := m.selected()

	return m, m.saveCmd(line.Category, *m.limit)
}

func (m *BudgetsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.lines))

	for _, l := range m.lines {
		limit, pct := "-", "-"
		if l.HasLimit {
			limit = ledger.FormatAmount(l.Limit)
			pct = fmt.Sprintf("%.0f%%", l.Percent)
		}

		if l.Over {
			pct += " !"
		}

		rows = append(rows, table.Row{l.Category.String(), ledger.FormatAmount(l.Spent), limit, pct})
	}

	m.table.SetRows(rows)
}

func (m *BudgetsModel) refreshSeries() {
	line, ok := m.selected()
	if !ok {
		m.series = nil
		return
	}

	m.series = m.aggregator.DailyCumulativeSeries(m.snap, line.Category)
}

func (m BudgetsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Chargement des budgets...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Erreur : %v", m.err)))
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).PaddingBottom(1).Render(m.Title()),
		tableView,
		"",
		m.viewSeries(),
	)

	if m.state == budgetsStateEdit && m.form != nil {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panelStyle.Width(48).Render(m.form.View()))
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m BudgetsModel) viewSeries() string {
	line, ok := m.selected()
	if !ok {
		return ""
	}

	last := m.series[len(m.series)-1]
	if last.Amount == 0 {
		return faintStyle.Render("Aucune dépense ce mois pour " + line.Category.String())
	}

	style := okStyle
	if line.Over {
		style = warnStyle
	}

	return fmt.Sprintf("%s\n%s  %s au jour %d",
		faintStyle.Render("Cumul journalier : "+line.Category.String()),
		style.Render(sparkline(m.series)),
		ledger.FormatAmount(last.Amount),
		last.Day,
	)
}

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// sparkline renders one rune per day scaled to the largest value.
func sparkline(points []budget.Point) string {
	var top int64
	for _, p := range points {
		top = max(top, p.Amount)
	}

	var b strings.Builder
	for _, p := range points {
		idx := 0
		if top > 0 {
			idx = int(p.Amount * int64(len(sparkRunes)-1) / top)
		}

		b.WriteRune(sparkRunes[idx])
	}

	return b.String()
}

// Messages

type budgetsLoadedMsg struct {
	snap   ledger.Snapshot
	limits budget.Limits
	err    error
}

func (m BudgetsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := dbCtx()
		defer cancel()

		snap, err := m.ledger.Snapshot(ctx)
		if err != nil {
			return budgetsLoadedMsg{err: err}
		}

		limits, err := m.budgets.Limits(ctx)
		if err != nil {
			return budgetsLoadedMsg{err: err}
		}

		return budgetsLoadedMsg{snap: snap, limits: limits}
	}
}

func (m BudgetsModel) saveCmd(c ledger.Category, text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := dbCtx()
		defer cancel()

		limit, err := ledger.ParseAmount(text)
		if err != nil {
			return budgetsLoadedMsg{err: err}
		}

		limits, err := m.budgets.SetLimit(ctx, c, limit)
		if err != nil {
			return budgetsLoadedMsg{err: err}
		}

		snap, err := m.ledger.Snapshot(ctx)

		return budgetsLoadedMsg{snap: snap, limits: limits, err: err}
	}
}
