package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/budgetivoire/budgetivoire/internal/budget"
	"github.com/budgetivoire/budgetivoire/internal/ledger"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) LoadLimits(ctx context.Context) (budget.Limits, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT category, amount FROM budget_limits WHERE amount > 0`)
	if err != nil {
		return nil, fmt.Errorf("loading budget limits: %w", err)
	}
	defer rows.Close()

	limits := budget.Limits{}

	for rows.Next() {
		var (
			label  string
			amount int64
		)

		if err := rows.Scan(&label, &amount); err != nil {
			return nil, fmt.Errorf("scanning budget limit: %w", err)
		}

		limits[ledger.CategoryFromLabel(label)] = amount
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating budget limits: %w", err)
	}

	return limits, nil
}

// SetLimit keeps one row per category; the last write wins.
func (s *Store) SetLimit(ctx context.Context, c ledger.Category, limit int64) error {
	query := `
		INSERT INTO budget_limits (category, amount, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (category) DO UPDATE SET amount = EXCLUDED.amount, updated_at = NOW()
	`

	if _, err := s.db.ExecContext(ctx, query, c.String(), limit); err != nil {
		return fmt.Errorf("setting budget limit: %w", err)
	}

	return nil
}
