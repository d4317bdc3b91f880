package export_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/budgetivoire/budgetivoire/internal/export"
	"github.com/budgetivoire/budgetivoire/internal/importer/statement"
	"github.com/budgetivoire/budgetivoire/internal/ledger"
)

type stubLedger struct {
	snap ledger.Snapshot
	err  error
}

func (s stubLedger) Snapshot(context.Context) (ledger.Snapshot, error) {
	return s.snap, s.err
}

func sample() ledger.Snapshot {
	day := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)

	return ledger.Snapshot{
		{
			ID:            uuid.MustParse("11111111-1111-1111-1111-111111111111"),
			Amount:        7500,
			Flow:          ledger.FlowExpense,
			Category:      ledger.CategoryFood,
			PaymentMethod: ledger.PaymentWave,
			Note:          "Marché; Treichville",
			Timestamp:     day,
		},
		{
			ID:            uuid.MustParse("22222222-2222-2222-2222-222222222222"),
			Amount:        2500,
			Flow:          ledger.FlowExpense,
			Category:      ledger.CategoryFromLabel("Cadeaux"),
			PaymentMethod: ledger.PaymentCash,
			Timestamp:     day.Add(-time.Hour),
		},
		{
			ID:            uuid.MustParse("33333333-3333-3333-3333-333333333333"),
			Amount:        150000,
			Flow:          ledger.FlowIncome,
			Category:      ledger.CategoryOther,
			PaymentMethod: ledger.PaymentBank,
			Note:          "Salaire",
			Timestamp:     day.Add(-48 * time.Hour),
		},
	}
}

func TestService_WriteCSV(t *testing.T) {
	svc := export.NewService(stubLedger{snap: sample()})

	var buf bytes.Buffer
	require.NoError(t, svc.WriteCSV(context.Background(), &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "ID;Date;Type;Montant;Catégorie;Moyen de paiement;Note", lines[0])
	assert.Equal(t,
		`11111111-1111-1111-1111-111111111111;2026-10-15T09:30:00Z;EXPENSE;7500;Nourriture & Marché;Wave;"Marché; Treichville"`,
		lines[1])
}

func TestService_WriteCSV_RoundTrip(t *testing.T) {
	want := sample()
	svc := export.NewService(stubLedger{snap: want})

	var buf bytes.Buffer
	require.NoError(t, svc.WriteCSV(context.Background(), &buf))

	got, err := statement.NewParser(time.UTC).Parse(&buf)
	require.NoError(t, err)
	require.Len(t, got, len(want))

	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Amount, got[i].Amount)
		assert.Equal(t, want[i].Flow, got[i].Flow)
		assert.Equal(t, want[i].Category, got[i].Category)
		assert.Equal(t, want[i].PaymentMethod, got[i].PaymentMethod)
		assert.Equal(t, want[i].Note, got[i].Note)
		assert.True(t, want[i].Timestamp.Equal(got[i].Timestamp))
	}

	assert.False(t, got[1].Category.IsKnown())
}

func TestService_WriteXLSX(t *testing.T) {
	svc := export.NewService(stubLedger{snap: sample()})

	var buf bytes.Buffer
	require.NoError(t, svc.WriteXLSX(context.Background(), &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)

	defer f.Close()

	rows, err := f.GetRows("Transactions")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Montant", rows[0][3])
	assert.Equal(t, "7500", rows[1][3])
	assert.Equal(t, "Salaire", rows[3][6])

	summary, err := f.GetRows("Résumé")
	require.NoError(t, err)
	assert.Equal(t, []string{"Solde total", "140000"}, summary[0])
	assert.Equal(t, []string{"Dépenses", "10000"}, summary[2])
	assert.Equal(t, "Nourriture & Marché", summary[5][0])
}

func TestService_LedgerError(t *testing.T) {
	svc := export.NewService(stubLedger{err: errors.New("db down")})

	err := svc.WriteCSV(context.Background(), &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")

	err = svc.WriteXLSX(context.Background(), &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading ledger")
}

func TestService_Export(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	svc := export.NewService(stubLedger{snap: sample()})

	paths, err := svc.Export(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, paths, 2)

	assert.Equal(t, ".csv", filepath.Ext(paths[0]))
	assert.Equal(t, ".xlsx", filepath.Ext(paths[1]))

	for _, p := range paths {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestSummary(t *testing.T) {
	got := export.Summary(sample(), "FCFA")

	assert.Equal(t, "Solde total : 140 000 FCFA\n"+
		"Dépenses : 10 000 FCFA\n"+
		"* Nourriture & Marché | 7 500 FCFA | 75%\n"+
		"* Cadeaux | 2 500 FCFA | 25%\n", got)

	assert.Equal(t, "Solde total : 0 FCFA\nDépenses : 0 FCFA\n", export.Summary(nil, "FCFA"))
}
