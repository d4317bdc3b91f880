package budget

import (
	"context"
	"errors"
	"fmt"

	"github.com/budgetivoire/budgetivoire/internal/ledger"
)

var ErrInvalidLimit = errors.New("budget limit must not be negative")

// Limits maps a category to its monthly ceiling. Zero or absent means no limit.
type Limits map[ledger.Category]int64

// Limit returns the ceiling for c and whether one is set.
func (l Limits) Limit(c ledger.Category) (int64, bool) {
	v := l[c]
	return v, v > 0
}

//go:generate mockgen -source=budget.go -destination=repository_mock.go -package=budget
type Repository interface {
	LoadLimits(ctx context.Context) (Limits, error)
	SetLimit(ctx context.Context, c ledger.Category, limit int64) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Limits(ctx context.Context) (Limits, error) {
	limits, err := s.repo.LoadLimits(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading budget limits: %w", err)
	}

	if limits == nil {
		limits = Limits{}
	}

	return limits, nil
}

// SetLimit replaces the ceiling for a known category; 0 clears it.
// It returns the updated map.
func (s *Service) SetLimit(ctx context.Context, c ledger.Category, limit int64) (Limits, error) {
	if !c.IsKnown() {
		return nil, fmt.Errorf("%w: %q", ledger.ErrUnknownCategory, c.String())
	}

	if limit < 0 {
		return nil, ErrInvalidLimit
	}

	if err := s.repo.SetLimit(ctx, c, limit); err != nil {
		return nil, fmt.Errorf("setting budget limit for %s: %w", c, err)
	}

	return s.Limits(ctx)
}
