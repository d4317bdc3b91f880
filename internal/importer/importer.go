package importer

import (
	"errors"
	"io"

	"github.com/budgetivoire/budgetivoire/internal/ledger"
)

// ErrUnreadable marks input that is not a supported statement.
var ErrUnreadable = errors.New("unreadable statement")

// Parser turns an export file into transactions that still need importing.
type Parser interface {
	Parse(r io.Reader) ([]ledger.Transaction, error)
}
