package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/budgetivoire/budgetivoire/cmd/tui/internal/view"
	"github.com/budgetivoire/budgetivoire/internal/app"
	"github.com/budgetivoire/budgetivoire/internal/assistant"
	"github.com/budgetivoire/budgetivoire/internal/config"
	"github.com/budgetivoire/budgetivoire/internal/ledger"
	"github.com/budgetivoire/budgetivoire/internal/lifecycle"
	"github.com/budgetivoire/budgetivoire/internal/settings"
)

type model struct {
	app     *app.App
	ctrl    *lifecycle.Controller
	parser  assistant.Parser
	advisor assistant.Advisor
	profile settings.Settings

	currentView View

	entryView   view.EntryModel
	listView    view.ListModel
	budgetsView view.BudgetsModel
	importView  view.ImportModel
	exportView  view.ExportModel

	snap   ledger.Snapshot
	advice string
	err    error
}

type View int

const (
	ViewMenu    View = 0
	ViewEntry   View = 1
	ViewList    View = 2
	ViewBudgets View = 3
	ViewImport  View = 4
	ViewExport  View = 5
)

func initialModel(a *app.App, ctrl *lifecycle.Controller, g *assistant.Gemini, st settings.Settings) model {
	m := model{
		app:         a,
		ctrl:        ctrl,
		profile:     st,
		currentView: ViewMenu,
	}

	if g != nil {
		m.parser = g
		m.advisor = g
	}

	return m
}

func (m model) Init() tea.Cmd {
	return m.loadSummaryCmd()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			return m.updateMenu(msg)
		}
	case summaryMsg:
		m.snap = msg.snap
		m.err = msg.err

		return m, nil
	case adviceMsg:
		m.advice = msg.text
		return m, nil
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, m.loadSummaryCmd()
	}

	switch m.currentView {
	case ViewEntry:
		var newModel tea.Model
		newModel, cmd = m.entryView.Update(msg)
		m.entryView = newModel.(view.EntryModel)
	case ViewList:
		var newModel tea.Model
		newModel, cmd = m.listView.Update(msg)
		m.listView = newModel.(view.ListModel)
	case ViewBudgets:
		var newModel tea.Model
		newModel, cmd = m.budgetsView.Update(msg)
		m.budgetsView = newModel.(view.BudgetsModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "1":
		m.currentView = ViewEntry
		m.entryView = view.NewEntryModel(m.ctrl, m.app.Settings, m.parser)

		return m, m.entryView.Init()
	case "2":
		m.currentView = ViewList
		m.listView = view.NewListModel(m.app.Ledger)

		return m, m.listView.Init()
	case "3":
		m.currentView = ViewBudgets
		m.budgetsView = view.NewBudgetsModel(m.app.Budgets, m.app.Ledger, m.app.Aggregator)

		return m, m.budgetsView.Init()
	case "4":
		m.currentView = ViewImport
		m.importView = view.NewImportModel(m.app.Importer)

		return m, m.importView.Init()
	case "5":
		m.currentView = ViewExport
		m.exportView = view.NewExportModel(m.app.Exporter, m.app.Ledger, m.profile.Currency)

		return m, m.exportView.Init()
	case "c":
		if m.advisor == nil {
			return m, nil
		}

		m.advice = "..."

		return m, m.adviceCmd()
	}

	return m, nil
}

func (m model) active() view.View {
	switch m.currentView {
	case ViewEntry:
		return m.entryView
	case ViewList:
		return m.listView
	case ViewBudgets:
		return m.budgetsView
	case ViewImport:
		return m.importView
	case ViewExport:
		return m.exportView
	}

	return nil
}

func (m model) View() string {
	if v := m.active(); v != nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			v.View(),
			lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(v.ShortHelp()),
		)
	}

	return lipgloss.NewStyle().Padding(2).Render(m.viewMenu())
}

func (m model) viewMenu() string {
	greeting := "BudgetIvoire"
	if m.profile.Name != "" {
		greeting = fmt.Sprintf("BudgetIvoire, bonjour %s", m.profile.Name)
	}

	balance := ""
	if m.err != nil {
		balance = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Erreur : %v", m.err))
	} else {
		balance = fmt.Sprintf("Solde : %s %s\nDépenses : %s %s",
			ledger.FormatAmount(m.snap.TotalBalance()), m.profile.Currency,
			ledger.FormatAmount(m.snap.MonthlyExpenseTotal()), m.profile.Currency)
	}

	menu := "1. Nouvelle opération\n" +
		"2. Historique\n" +
		"3. Budgets\n" +
		"4. Importer un relevé\n" +
		"5. Exporter\n"

	if m.advisor != nil {
		menu += "c. Conseil du jour\n"
	}

	s := lipgloss.NewStyle().Bold(true).Render(greeting) + "\n\n" + balance + "\n\n" + menu + "\nq. Quitter"

	if m.advice != "" {
		s += "\n\n" + lipgloss.NewStyle().Italic(true).Width(60).Render(m.advice)
	}

	return s
}

type summaryMsg struct {
	snap ledger.Snapshot
	err  error
}

type adviceMsg struct {
	text string
}

func (m model) loadSummaryCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
		defer cancel()

		snap, err := m.app.Ledger.Snapshot(ctx)

		return summaryMsg{snap: snap, err: err}
	}
}

func (m model) adviceCmd() tea.Cmd {
	recent := m.snap.Recent(5)

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), adviceTimeout)
		defer cancel()

		return adviceMsg{text: m.advisor.Advice(ctx, recent)}
	}
}

func setupLogging() (io.Closer, error) {
	if os.Getenv("DEBUG") == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return io.NopCloser(nil), nil
	}

	f, err := tea.LogToFile("debug.log", "tui")
	if err != nil {
		return nil, err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))

	return f, nil
}

func run(ctx context.Context) error {
	logs, err := setupLogging()
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logs.Close()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	a, err := app.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening app: %w", err)
	}
	defer a.Close()

	st, err := signIn(ctx, a.Settings)
	if err != nil {
		return err
	}

	var g *assistant.Gemini
	if cfg.Gemini.APIKey != "" {
		g, err = assistant.NewGemini(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			slog.Warn("assistant disabled", "error", err)
			g = nil
		}
	}

	ctrl := a.Controller(cfg, lifecycle.WithNotifier(lifecycle.NotifierFunc(func(ctx context.Context, n lifecycle.Notification) {
		slog.DebugContext(ctx, n.Message, "id", n.Transaction.ID, "amount", n.Transaction.Amount)
	})))

	p := tea.NewProgram(initialModel(a, ctrl, g, st), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}

func main() {
	_ = godotenv.Load()

	if err := run(context.Background()); err != nil {
		slog.Error("tui stopped", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
