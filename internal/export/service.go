package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/budgetivoire/budgetivoire/internal/ledger"
)

const (
	sheetTransactions = "Transactions"
	sheetSummary      = "Résumé"
)

// header matches the ledger layout the statement importer reads back.
var header = []string{"ID", "Date", "Type", "Montant", "Catégorie", "Moyen de paiement", "Note"}

type Ledger interface {
	Snapshot(ctx context.Context) (ledger.Snapshot, error)
}

// Service exports the ledger as CSV, XLSX and a plain text summary.
type Service struct {
	ledger Ledger
	now    func() time.Time
}

func NewService(l Ledger) *Service {
	return &Service{ledger: l, now: time.Now}
}

func record(t ledger.Transaction) []string {
	return []string{
		t.ID.String(),
		t.Timestamp.Format(time.RFC3339),
		string(t.Flow),
		strconv.FormatInt(t.Amount, 10),
		t.Category.String(),
		string(t.PaymentMethod),
		t.Note,
	}
}

// WriteCSV writes every transaction, newest first, semicolon separated.
func (s *Service) WriteCSV(ctx context.Context, w io.Writer) error {
	snap, err := s.ledger.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("loading ledger: %w", err)
	}

	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, t := range snap {
		if err := cw.Write(record(t)); err != nil {
			return fmt.Errorf("writing transaction %s: %w", t.ID, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// WriteXLSX writes a workbook with the transactions and a summary sheet.
func (s *Service) WriteXLSX(ctx context.Context, w io.Writer) error {
	snap, err := s.ledger.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("loading ledger: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetTransactions); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}

	if err := writeTransactions(f, snap, bold); err != nil {
		return err
	}

	if err := writeSummary(f, snap, bold); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}

	return nil
}

func writeTransactions(f *excelize.File, snap ledger.Snapshot, bold int) error {
	head := make([]any, len(header))
	for i, h := range header {
		head[i] = h
	}

	if err := f.SetSheetRow(sheetTransactions, "A1", &head); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	if err := f.SetCellStyle(sheetTransactions, "A1", "G1", bold); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	for i, t := range snap {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		row := []any{
			t.ID.String(),
			t.Timestamp.Format(time.RFC3339),
			string(t.Flow),
			t.Amount,
			t.Category.String(),
			string(t.PaymentMethod),
			t.Note,
		}

		if err := f.SetSheetRow(sheetTransactions, cell, &row); err != nil {
			return fmt.Errorf("writing transaction %s: %w", t.ID, err)
		}
	}

	return f.SetColWidth(sheetTransactions, "A", "G", 22)
}

func writeSummary(f *excelize.File, snap ledger.Snapshot, bold int) error {
	if _, err := f.NewSheet(sheetSummary); err != nil {
		return fmt.Errorf("creating summary sheet: %w", err)
	}

	rows := [][]any{
		{"Solde total", snap.TotalBalance()},
		{"Revenus", snap.TotalIncome()},
		{"Dépenses", snap.MonthlyExpenseTotal()},
		{},
		{"Catégorie", "Montant", "Part (%)"},
	}

	for _, c := range snap.CategoryBreakdown() {
		rows = append(rows, []any{c.Category.String(), c.Amount, c.Percent})
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}

		if err := f.SetSheetRow(sheetSummary, cell, &row); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}
	}

	if err := f.SetCellStyle(sheetSummary, "A5", "C5", bold); err != nil {
		return fmt.Errorf("styling summary: %w", err)
	}

	return f.SetColWidth(sheetSummary, "A", "A", 26)
}

// Summary renders the derived totals as text, one category per line.
func Summary(snap ledger.Snapshot, currency string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Solde total : %s %s\n", ledger.FormatAmount(snap.TotalBalance()), currency)
	fmt.Fprintf(&sb, "Dépenses : %s %s\n", ledger.FormatAmount(snap.MonthlyExpenseTotal()), currency)

	for _, c := range snap.CategoryBreakdown() {
		fmt.Fprintf(&sb, "* %s | %s %s | %.0f%%\n", c.Category, ledger.FormatAmount(c.Amount), currency, c.Percent)
	}

	return sb.String()
}

// Export writes ledger-<date>.csv and ledger-<date>.xlsx to dir and returns
// their paths.
func (s *Service) Export(ctx context.Context, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	base := "ledger-" + s.now().Format("20060102")

	writers := []struct {
		ext   string
		write func(context.Context, io.Writer) error
	}{
		{ext: ".csv", write: s.WriteCSV},
		{ext: ".xlsx", write: s.WriteXLSX},
	}

	paths := make([]string, 0, len(writers))

	for _, wr := range writers {
		path := filepath.Join(dir, base+wr.ext)

		if err := writeFile(ctx, path, wr.write); err != nil {
			return nil, err
		}

		paths = append(paths, path)
	}

	return paths, nil
}

func writeFile(ctx context.Context, path string, write func(context.Context, io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	if err := write(ctx, f); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}

	return f.Close()
}
