package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	// ListTransactions returns every transaction, newest first.
	ListTransactions(ctx context.Context) ([]Transaction, error)
	AppendTransaction(ctx context.Context, tx Transaction) error
	DeleteTransaction(ctx context.Context, id uuid.UUID) error

	BeginImport(ctx context.Context) (ImportTx, error)
}

type ImportTx interface {
	ExistingIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]struct{}, error)
	AppendTransactions(ctx context.Context, txs []Transaction) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	txs, err := s.repo.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	return Snapshot(txs), nil
}

// Append stores tx and returns the updated ledger.
func (s *Service) Append(ctx context.Context, tx Transaction) (Snapshot, error) {
	if tx.ID == uuid.Nil {
		return nil, fmt.Errorf("appending transaction: missing id")
	}

	if err := s.repo.AppendTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("appending transaction: %w", err)
	}

	return s.Snapshot(ctx)
}

// Delete removes a transaction by id and returns the updated ledger.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (Snapshot, error) {
	if err := s.repo.DeleteTransaction(ctx, id); err != nil {
		return nil, fmt.Errorf("deleting transaction %s: %w", id, err)
	}

	return s.Snapshot(ctx)
}

type ImportResult struct {
	Imported []Transaction
	Skipped  []Transaction
}

// Import appends historical transactions in one store transaction. Entries
// whose id is already in the ledger are skipped, so re-importing an export
// is a no-op.
func (s *Service) Import(ctx context.Context, txs []Transaction) (*ImportResult, error) {
	if len(txs) == 0 {
		return &ImportResult{}, nil
	}

	itx, err := s.repo.BeginImport(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	ids := make([]uuid.UUID, 0, len(txs))
	for _, tx := range txs {
		ids = append(ids, tx.ID)
	}

	existing, err := itx.ExistingIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("finding existing ids: %w", err)
	}

	result := &ImportResult{}
	seen := make(map[uuid.UUID]struct{}, len(txs))

	for _, tx := range txs {
		_, dup := existing[tx.ID]
		_, repeated := seen[tx.ID]

		if dup || repeated {
			result.Skipped = append(result.Skipped, tx)
			continue
		}

		seen[tx.ID] = struct{}{}
		result.Imported = append(result.Imported, tx)
	}

	if len(result.Imported) == 0 {
		return result, nil
	}

	if err := itx.AppendTransactions(ctx, result.Imported); err != nil {
		return nil, fmt.Errorf("append transactions: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return result, nil
}
