package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/budgetivoire/budgetivoire/internal/ledger"
)

type listState int

const (
	listStateBrowse listState = iota
	listStateDelete
)

var (
	flowFilterLabels = []string{"Tout", "Dépenses", "Revenus"}
	dateFilterLabels = []string{"Toujours", "Ce mois", "Mois dernier"}
)

type ListModel struct {
	ledger *ledger.Service

	state listState
	table table.Model
	all   ledger.Snapshot
	txs   ledger.Snapshot
	form  *huh.Form
	yes   *bool

	flowFilterIdx int
	dateFilterIdx int

	loading bool
	err     error
	status  string
}

func NewListModel(l *ledger.Service) ListModel {
	columns := []table.Column{
		{Title: "Date", Width: 17},
		{Title: "Type", Width: 8},
		{Title: "Montant", Width: 12},
		{Title: "Catégorie", Width: 22},
		{Title: "Paiement", Width: 13},
		{Title: "Note", Width: 30},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
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

	return ListModel{
		ledger:  l,
		table:   t,
		loading: true,
	}
}

func (m ListModel) Title() string { return "Historique" }

func (m ListModel) ShortHelp() string {
	if m.state == listStateDelete {
		return "←/→: choisir | Entrée: valider | Échap: annuler"
	}

	return "Échap: retour | x: supprimer | t: type | d: période | r: actualiser"
}

func (m ListModel) Init() tea.Cmd {
	return m.loadTxsCmd()
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadListMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.all = msg.txs
		m.refreshTable()

		return m, nil

	case listDeleteMsg:
		m.state = listStateBrowse
		m.form = nil
		m.table.Focus()

		if msg.err != nil {
			m.status = fmt.Sprintf("Erreur : %v", msg.err)
			return m, nil
		}

		m.status = "Opération supprimée."
		m.all = msg.txs
		m.refreshTable()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case listStateBrowse:
		return m.updateBrowse(msg)
	case listStateDelete:
		return m.updateDelete(msg)
	}

	return m, nil
}

func (m ListModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadTxsCmd()
		case "x":
			return m.enterDeleteMode()
		case "t":
			m.flowFilterIdx = (m.flowFilterIdx + 1) % len(flowFilterLabels)
			m.refreshTable()

			return m, nil
		case "d":
			m.dateFilterIdx = (m.dateFilterIdx + 1) % len(dateFilterLabels)
			m.refreshTable()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ListModel) enterDeleteMode() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.txs) {
		return m, nil
	}

	tx := m.txs[idx]
	m.yes = new(bool)
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Supprimer cette opération ?").
				Description(fmt.Sprintf("%s %s, %s", formatDate(tx.Timestamp), ledger.FormatAmount(tx.Amount), tx.Category)).
				Affirmative("Supprimer").
				Negative("Garder").
				Value(m.yes),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = listStateDelete
	m.table.Blur()

	return m, m.form.Init()
}

func (m ListModel) updateDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = listStateBrowse
			m.form = nil
			m.table.Focus()

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if !*m.yes {
		m.state = listStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	return m, m.deleteCmd()
}

func (m ListModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Chargement des opérations...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Erreur : %v", m.err)))
	}

	header := fmt.Sprintf(
		"Filtre : [t] Type : %s | [d] Période : %s | %d opération(s)",
		activeStyle.Render(flowFilterLabels[m.flowFilterIdx]),
		activeStyle.Render(dateFilterLabels[m.dateFilterIdx]),
		len(m.txs),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == listStateDelete && m.form != nil {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panelStyle.Width(48).Render(m.form.View()))
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

// keep reports whether tx passes the active filters.
func (m ListModel) keep(tx ledger.Transaction, now time.Time) bool {
	switch m.flowFilterIdx {
	case 1:
		if tx.Flow != ledger.FlowExpense {
			return false
		}
	case 2:
		if tx.Flow != ledger.FlowIncome {
			return false
		}
	}

	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	switch m.dateFilterIdx {
	case 1:
		return !tx.Timestamp.Before(start)
	case 2:
		prev := start.AddDate(0, -1, 0)
		return !tx.Timestamp.Before(prev) && tx.Timestamp.Before(start)
	}

	return true
}

func (m *ListModel) refreshTable() {
	now := time.Now()

	m.txs = make(ledger.Snapshot, 0, len(m.all))
	for _, tx := range m.all {
		if m.keep(tx, now) {
			m.txs = append(m.txs, tx)
		}
	}

	rows := make([]table.Row, 0, len(m.txs))
	for _, tx := range m.txs {
		sign := "-"
		if tx.Flow == ledger.FlowIncome {
			sign = "+"
		}

		rows = append(rows, table.Row{
			formatDate(tx.Timestamp),
			flowLabel(tx.Flow),
			sign + ledger.FormatAmount(tx.Amount),
			tx.Category.String(),
			string(tx.PaymentMethod),
			tx.Note,
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadListMsg struct {
	txs ledger.Snapshot
	err error
}

func (m ListModel) loadTxsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := dbCtx()
		defer cancel()

		txs, err := m.ledger.Snapshot(ctx)

		return loadListMsg{txs: txs, err: err}
	}
}

type listDeleteMsg struct {
	txs ledger.Snapshot
	err error
}

func (m ListModel) deleteCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.txs) {
		return nil
	}

	id := m.txs[idx].ID

	return func() tea.Msg {
		ctx, cancel := dbCtx()
		defer cancel()

		txs, err := m.ledger.Delete(ctx, id)

		return listDeleteMsg{txs: txs, err: err}
	}
}
