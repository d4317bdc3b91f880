package view

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/budgetivoire/budgetivoire/internal/assistant"
	"github.com/budgetivoire/budgetivoire/internal/ledger"
	"github.com/budgetivoire/budgetivoire/internal/lifecycle"
	"github.com/budgetivoire/budgetivoire/internal/settings"
	"github.com/budgetivoire/budgetivoire/internal/validation"
)

const (
	dbTimeout        = 5 * time.Second
	assistantTimeout = 30 * time.Second
)

// View is implemented by every screen reachable from the menu.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

var (
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	faintStyle  = lipgloss.NewStyle().Faint(true)
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	panelStyle  = lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63"))
)

// dbCtx returns a context with a standard timeout for database operations.
func dbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

func formatDate(t time.Time) string {
	return t.Local().Format("02/01/2006 15:04")
}

func money(n int64, currency string) string {
	return ledger.FormatAmount(n) + " " + currency
}

// message turns workflow errors into the sentence shown to the user.
func message(err error) string {
	switch {
	case errors.Is(err, validation.ErrBelowMinimum):
		return "Montant minimum : 10 FCFA."
	case errors.Is(err, validation.ErrAboveMaximum):
		return "Montant maximum : 10 000 000 FCFA."
	case errors.Is(err, validation.ErrInsufficientFunds):
		return "Solde insuffisant pour cette dépense."
	case errors.Is(err, validation.ErrOverrideDeclined):
		return "Cotisation annulée."
	case errors.Is(err, ledger.ErrInvalidAmount):
		return "Montant invalide."
	case errors.Is(err, assistant.ErrNotUnderstood):
		return "Je n'ai pas compris, reformulez."
	case errors.Is(err, lifecycle.ErrFormFrozen), errors.Is(err, lifecycle.ErrConfirmationPending):
		return "Une opération attend confirmation."
	case errors.Is(err, settings.ErrGuestRestricted):
		return "Indisponible en mode invité."
	}

	return "Erreur : " + err.Error()
}
