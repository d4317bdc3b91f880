package app

import (
	"context"
	"database/sql"
	"time"

	"github.com/budgetivoire/budgetivoire/internal/budget"
	budgetStore "github.com/budgetivoire/budgetivoire/internal/budget/store"
	"github.com/budgetivoire/budgetivoire/internal/config"
	"github.com/budgetivoire/budgetivoire/internal/database"
	"github.com/budgetivoire/budgetivoire/internal/export"
	"github.com/budgetivoire/budgetivoire/internal/importer"
	"github.com/budgetivoire/budgetivoire/internal/ledger"
	ledgerStore "github.com/budgetivoire/budgetivoire/internal/ledger/store"
	"github.com/budgetivoire/budgetivoire/internal/lifecycle"
	"github.com/budgetivoire/budgetivoire/internal/settings"
	settingsStore "github.com/budgetivoire/budgetivoire/internal/settings/store"
)

// App holds the services every binary wires over one database.
type App struct {
	DB *sql.DB

	Ledger     *ledger.Service
	Budgets    *budget.Service
	Settings   *settings.Service
	Importer   *importer.Service
	Exporter   *export.Service
	Aggregator *budget.Aggregator
}

// Open connects, migrates and builds the services.
func Open(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := database.Open(ctx, cfg.ConnectionString())
	if err != nil {
		return nil, err
	}

	ledgerSvc := ledger.NewService(ledgerStore.New(db))

	return &App{
		DB:         db,
		Ledger:     ledgerSvc,
		Budgets:    budget.NewService(budgetStore.New(db)),
		Settings:   settings.NewService(settingsStore.New(db)),
		Importer:   importer.NewService(ledgerSvc, time.Local),
		Exporter:   export.NewService(ledgerSvc),
		Aggregator: budget.NewAggregator(time.Now),
	}, nil
}

// Controller builds the entry workflow with the configured confirmation delay.
func (a *App) Controller(cfg *config.Config, opts ...lifecycle.Option) *lifecycle.Controller {
	opts = append([]lifecycle.Option{lifecycle.WithDelay(cfg.Ledger.ConfirmationDelay)}, opts...)
	return lifecycle.New(a.Ledger, a.Budgets, opts...)
}

func (a *App) Close() error {
	return a.DB.Close()
}
