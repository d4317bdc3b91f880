package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/budgetivoire/budgetivoire/internal/auth"
	"github.com/budgetivoire/budgetivoire/internal/http/assistant"
	"github.com/budgetivoire/budgetivoire/internal/http/budget"
	"github.com/budgetivoire/budgetivoire/internal/http/entry"
	"github.com/budgetivoire/budgetivoire/internal/http/export"
	"github.com/budgetivoire/budgetivoire/internal/http/importcsv"
	"github.com/budgetivoire/budgetivoire/internal/http/session"
	"github.com/budgetivoire/budgetivoire/internal/http/settings"
	"github.com/budgetivoire/budgetivoire/internal/http/transaction"
)

type Options struct {
	AllowedOrigins []string
	Timeout        time.Duration
}

type Handlers struct {
	Session      *session.Handler
	Transactions *transaction.Handler
	Entry        *entry.Handler
	Budgets      *budget.Handler
	Settings     *settings.Handler
	Advice       *assistant.Handler
	Import       *importcsv.Handler
	Export       *export.Handler
}

func New(opts Options, issuer *auth.Issuer, h Handlers) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/session", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Session.Routes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(session.Require(issuer))

			r.Route("/transactions", h.Transactions.Routes)
			r.Get("/summary", h.Transactions.Summary)

			r.Route("/entry", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Entry.Routes(r)
			})

			r.Route("/budgets", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Budgets.Routes(r)
			})

			r.Route("/settings", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Settings.Routes(r)
			})

			r.Route("/advice", h.Advice.Routes)
			r.Route("/import", h.Import.Routes)
			r.Route("/export", h.Export.Routes)
		})
	})

	return router
}
