package store

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/budgetivoire/budgetivoire/internal/ledger"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Expected column order: id, amount, flow, category, payment_method, note, created_at
func scanTransaction(s scanner) (ledger.Transaction, error) {
	var (
		tx                         ledger.Transaction
		flow, category, methodName string
	)

	if err := s.Scan(&tx.ID, &tx.Amount, &flow, &category, &methodName, &tx.Note, &tx.Timestamp); err != nil {
		return ledger.Transaction{}, err
	}

	tx.Flow = ledger.Flow(flow)
	tx.Category = ledger.CategoryFromLabel(category)
	tx.PaymentMethod = ledger.PaymentMethod(methodName)

	return tx, nil
}

const insertTransaction = `
	INSERT INTO transactions (id, amount, flow, category, payment_method, note, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
`

func insert(ctx context.Context, q querier, tx ledger.Transaction) error {
	_, err := q.ExecContext(ctx, insertTransaction,
		tx.ID,
		tx.Amount,
		string(tx.Flow),
		tx.Category.String(),
		string(tx.PaymentMethod),
		tx.Note,
		tx.Timestamp,
	)

	return err
}

// listQuery returns the ledger in insertion order, newest first. Imported
// history sorts by when it was imported, not by its own dates.
const listQuery = `
	SELECT id, amount, flow, category, payment_method, note, created_at
	FROM transactions
	ORDER BY seq DESC
`

func (s *Store) ListTransactions(ctx context.Context) ([]ledger.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, listQuery)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []ledger.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	return txs, nil
}

func (s *Store) AppendTransaction(ctx context.Context, tx ledger.Transaction) error {
	if err := insert(ctx, s.db, tx); err != nil {
		return fmt.Errorf("appending transaction: %w", err)
	}

	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	if n == 0 {
		return ledger.ErrNotFound
	}

	return nil
}

type importTx struct {
	tx *sql.Tx
}

func (s *Store) BeginImport(ctx context.Context) (ledger.ImportTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning import tx: %w", err)
	}

	// Serialize concurrent imports.
	if _, err := dbTx.ExecContext(ctx, "LOCK TABLE transactions IN SHARE ROW EXCLUSIVE MODE"); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("locking transactions: %w", err)
	}

	return &importTx{tx: dbTx}, nil
}

func (itx *importTx) Commit() error   { return itx.tx.Commit() }
func (itx *importTx) Rollback() error { return itx.tx.Rollback() }

func (itx *importTx) ExistingIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]struct{}, error) {
	found := make(map[uuid.UUID]struct{})
	if len(ids) == 0 {
		return found, nil
	}

	// ids are passed as text to avoid driver-specific array encoding.
	params := make([]string, len(ids))
	for i, id := range ids {
		params[i] = id.String()
	}

	rows, err := itx.tx.QueryContext(ctx,
		`SELECT id FROM transactions WHERE id::text = ANY(string_to_array($1, ','))`,
		strings.Join(params, ","),
	)
	if err != nil {
		return nil, fmt.Errorf("finding existing ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning id: %w", err)
		}

		found[id] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ids: %w", err)
	}

	return found, nil
}

// AppendTransactions takes txs newest first and inserts them oldest first, so
// the batch reads back in the same order.
func (itx *importTx) AppendTransactions(ctx context.Context, txs []ledger.Transaction) error {
	for _, tx := range slices.Backward(txs) {
		if err := insert(ctx, itx.tx, tx); err != nil {
			return fmt.Errorf("inserting transaction %s: %w", tx.ID, err)
		}
	}

	return nil
}
