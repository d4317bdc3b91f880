package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/budgetivoire/budgetivoire/internal/app"
	"github.com/budgetivoire/budgetivoire/internal/assistant"
	"github.com/budgetivoire/budgetivoire/internal/auth"
	"github.com/budgetivoire/budgetivoire/internal/config"
	apiHttp "github.com/budgetivoire/budgetivoire/internal/http"
	assistantHandler "github.com/budgetivoire/budgetivoire/internal/http/assistant"
	budgetHandler "github.com/budgetivoire/budgetivoire/internal/http/budget"
	entryHandler "github.com/budgetivoire/budgetivoire/internal/http/entry"
	exportHandler "github.com/budgetivoire/budgetivoire/internal/http/export"
	importHandler "github.com/budgetivoire/budgetivoire/internal/http/importcsv"
	sessionHandler "github.com/budgetivoire/budgetivoire/internal/http/session"
	settingsHandler "github.com/budgetivoire/budgetivoire/internal/http/settings"
	txHandler "github.com/budgetivoire/budgetivoire/internal/http/transaction"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	a, err := app.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer a.Close()

	issuer, err := auth.NewIssuer(cfg.Auth.Secret, cfg.Auth.TTL)
	if err != nil {
		return err
	}

	gemini, err := assistant.NewGemini(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		return err
	}

	if cfg.Gemini.APIKey == "" {
		slog.Warn("GEMINI_API_KEY not set, free-text entry and advice are disabled")
	}

	controller := a.Controller(cfg)

	router := apiHttp.New(
		apiHttp.Options{AllowedOrigins: cfg.Server.AllowedOrigins, Timeout: cfg.Server.Timeout},
		issuer,
		apiHttp.Handlers{
			Session:      sessionHandler.NewHandler(a.Settings, issuer),
			Transactions: txHandler.NewHandler(a.Ledger, a.Settings),
			Entry:        entryHandler.NewHandler(controller, a.Settings, gemini),
			Budgets:      budgetHandler.NewHandler(a.Budgets, a.Ledger, a.Aggregator),
			Settings:     settingsHandler.NewHandler(a.Settings),
			Advice:       assistantHandler.NewHandler(gemini, a.Ledger),
			Import:       importHandler.NewHandler(a.Importer),
			Export:       exportHandler.NewHandler(a.Exporter),
		},
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
