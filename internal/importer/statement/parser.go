package statement

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	enc "github.com/budgetivoire/budgetivoire/internal/encoding"
	"github.com/budgetivoire/budgetivoire/internal/ledger"
)

// rowNamespace seeds ids for rows that carry none, so importing the same
// statement twice yields the same ids.
var rowNamespace = uuid.MustParse("5f0c2a56-7d3e-4f51-9a49-3b1e6c2f8d10")

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04",
	"02/01/2006",
	"02-01-2006",
}

// Parser reads CSV exports into ledger transactions. It auto-detects the
// layout by matching column headers against known profiles and accepts
// comma or semicolon separated files.
type Parser struct {
	loc *time.Location
}

// NewParser interprets dates without a zone in loc; nil means UTC.
func NewParser(loc *time.Location) *Parser {
	if loc == nil {
		loc = time.UTC
	}

	return &Parser{loc: loc}
}

func (p *Parser) Parse(r io.Reader) ([]ledger.Transaction, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.Comma = sniffComma(string(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, colMap, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, fmt.Errorf("no matching format found: expected ledger, wallet or bank columns")
	}

	return p.parseRows(profile, colMap, rows[headerIdx+1:], headerIdx+1)
}

// sniffComma picks the separator used on the first line that has one.
func sniffComma(data string) rune {
	for line := range strings.Lines(data) {
		semi, comma := strings.Count(line, ";"), strings.Count(line, ",")
		if semi == 0 && comma == 0 {
			continue
		}

		if comma > semi {
			return ','
		}

		return ';'
	}

	return ';'
}

// colIndex maps column names to their index in the row.
type colIndex map[string]int

// detectProfile scans rows for a header that matches a known profile.
// Returns the matched profile, column index map, and header row index.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.TrimSpace(cell)
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

// matchesProfile checks if all required columns of a profile are present.
func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows extracts transactions from data rows using the matched profile.
// headerRowNum is the 1-based line of the header in the original file (for error messages).
func (p *Parser) parseRows(prof *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]ledger.Transaction, error) {
	var txs []ledger.Transaction

	for i, row := range rows {
		rowNum := headerRowNum + i + 1 // 1-based line number

		date, ok := p.parseDate(row, cols[prof.DateCol])
		if !ok {
			continue
		}

		amount, flow, err := parseRowAmount(prof, cols, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		if amount == 0 {
			continue
		}

		tx := ledger.Transaction{
			Amount:        amount,
			Flow:          flow,
			Category:      ledger.CategoryOther,
			PaymentMethod: ledger.PaymentCash,
			Note:          cellValue(row, cols[prof.NoteCol]),
			Timestamp:     date,
		}

		if label := optionalCell(row, cols, prof.CategoryCol); label != "" {
			tx.Category = ledger.CategoryFromLabel(label)
		}

		if method := optionalCell(row, cols, prof.MethodCol); method != "" {
			tx.PaymentMethod = ledger.MatchPaymentMethod(method)
		}

		if tx.ID, err = rowID(prof, cols, row, rowNum); err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		txs = append(txs, tx)
	}

	return txs, nil
}

// parseDate returns false for empty cells or unparseable values (footer rows, etc).
func (p *Parser) parseDate(row []string, idx int) (time.Time, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, p.loc); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// parseRowAmount returns the unsigned amount and its flow. A zero amount
// means the row carries no movement.
func parseRowAmount(p *Profile, cols colIndex, row []string) (int64, ledger.Flow, error) {
	switch p.AmountMode {
	case amountSigned:
		return parseSigned(cellValue(row, cols[p.AmountCol]))
	case amountSplit:
		return parseSplit(cellValue(row, cols[p.DebitCol]), cellValue(row, cols[p.CreditCol]))
	case amountWithFlow:
		flow, err := ledger.ParseFlow(cellValue(row, cols[p.FlowCol]))
		if err != nil {
			return 0, "", err
		}

		amount, err := parseAmount(cellValue(row, cols[p.AmountCol]))
		if err != nil {
			return 0, "", fmt.Errorf("%w: %w", ledger.ErrInvalidAmount, err)
		}

		if amount < 0 {
			return 0, "", fmt.Errorf("%w: negative amount with explicit type", ledger.ErrInvalidAmount)
		}

		return amount, flow, nil
	}

	return 0, "", nil
}

func parseSigned(s string) (int64, ledger.Flow, error) {
	if s == "" {
		return 0, "", nil
	}

	amount, err := parseAmount(s)
	if err != nil {
		return 0, "", fmt.Errorf("%w: %w", ledger.ErrInvalidAmount, err)
	}

	if amount < 0 {
		return -amount, ledger.FlowExpense, nil
	}

	return amount, ledger.FlowIncome, nil
}

func parseSplit(debit, credit string) (int64, ledger.Flow, error) {
	if debit != "" {
		amount, err := parseAmount(debit)
		if err != nil {
			return 0, "", fmt.Errorf("%w: %w", ledger.ErrInvalidAmount, err)
		}

		if amount != 0 {
			return abs(amount), ledger.FlowExpense, nil
		}
	}

	if credit != "" {
		amount, err := parseAmount(credit)
		if err != nil {
			return 0, "", fmt.Errorf("%w: %w", ledger.ErrInvalidAmount, err)
		}

		return abs(amount), ledger.FlowIncome, nil
	}

	return 0, "", nil
}

// rowID uses the exported id when the profile has one, and otherwise
// derives a stable id from the row position and content.
func rowID(p *Profile, cols colIndex, row []string, rowNum int) (uuid.UUID, error) {
	if raw := optionalCell(row, cols, p.IDCol); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return uuid.Nil, fmt.Errorf("invalid id %q: %w", raw, err)
		}

		return id, nil
	}

	key := fmt.Sprintf("%s|%d|%s", p.Name, rowNum, strings.Join(row, "|"))

	return uuid.NewSHA1(rowNamespace, []byte(key)), nil
}

func optionalCell(row []string, cols colIndex, name string) string {
	if name == "" {
		return ""
	}

	idx, ok := cols[name]
	if !ok {
		return ""
	}

	return cellValue(row, idx)
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}

	return n
}
