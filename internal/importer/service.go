package importer

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/budgetivoire/budgetivoire/internal/importer/statement"
	"github.com/budgetivoire/budgetivoire/internal/ledger"
)

type Ledger interface {
	Import(ctx context.Context, txs []ledger.Transaction) (*ledger.ImportResult, error)
}

type Service struct {
	parser Parser
	ledger Ledger
}

// NewService reads statements with dates in loc (nil means UTC).
func NewService(l Ledger, loc *time.Location) *Service {
	return &Service{
		parser: statement.NewParser(loc),
		ledger: l,
	}
}

// Import parses r and appends every transaction not already in the ledger.
// Historical categories are kept even when they are not a known category.
func (s *Service) Import(ctx context.Context, r io.Reader) (*ledger.ImportResult, error) {
	txs, err := s.parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing statement: %w: %w", ErrUnreadable, err)
	}

	result, err := s.ledger.Import(ctx, txs)
	if err != nil {
		return nil, fmt.Errorf("importing transactions: %w", err)
	}

	return result, nil
}
