package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budgetivoire/budgetivoire/internal/ledger"
)

func TestCategories(t *testing.T) {
	cats := ledger.Categories()
	require.Len(t, cats, 9)

	for _, c := range cats {
		assert.True(t, c.IsKnown(), c.String())
	}

	assert.Equal(t, "Tontine & Épargne", ledger.CategoryTontine.String())
	assert.Equal(t, "Autre", ledger.CategoryOther.String())
	assert.Len(t, ledger.PaymentMethods(), 6)
}

func TestLookupCategory(t *testing.T) {
	c, err := ledger.LookupCategory(" Santé & Pharmacie ")
	require.NoError(t, err)
	assert.Equal(t, ledger.CategoryHealth, c)

	_, err = ledger.LookupCategory("Salaire")
	assert.ErrorIs(t, err, ledger.ErrUnknownCategory)
}

func TestCategoryFromLabel_RoundTripsHistoricalLabels(t *testing.T) {
	c := ledger.CategoryFromLabel("Salaire")
	assert.False(t, c.IsKnown())
	assert.Equal(t, "Salaire", c.String())

	b, err := c.MarshalText()
	require.NoError(t, err)

	var back ledger.Category
	require.NoError(t, back.UnmarshalText(b))
	assert.Equal(t, c, back)

	require.NoError(t, back.UnmarshalText([]byte("Loyer & Électricité")))
	assert.Equal(t, ledger.CategoryHousing, back)
}

func TestMatchCategory(t *testing.T) {
	tests := []struct {
		hint string
		want ledger.Category
	}{
		{hint: "marché", want: ledger.CategoryFood},
		{hint: "Transport", want: ledger.CategoryTransport},
		{hint: "santé", want: ledger.CategoryHealth},
		{hint: "tontine", want: ledger.CategoryTontine},
		{hint: "Famille", want: ledger.CategoryFamily},
		{hint: "crypto", want: ledger.CategoryOther},
		{hint: "", want: ledger.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.hint, func(t *testing.T) {
			assert.Equal(t, tt.want, ledger.MatchCategory(tt.hint))
		})
	}
}

func TestMatchPaymentMethod(t *testing.T) {
	assert.Equal(t, ledger.PaymentMTNMoMo, ledger.MatchPaymentMethod("MTN"))
	assert.Equal(t, ledger.PaymentMoovMoney, ledger.MatchPaymentMethod("moov"))
	assert.Equal(t, ledger.PaymentWave, ledger.MatchPaymentMethod("Wave"))
	assert.Equal(t, ledger.PaymentCash, ledger.MatchPaymentMethod(""))
	assert.Equal(t, ledger.PaymentCash, ledger.MatchPaymentMethod("bitcoin"))

	_, err := ledger.ParsePaymentMethod("Western Union")
	assert.ErrorIs(t, err, ledger.ErrUnknownPaymentMethod)
}

func TestParseFlow(t *testing.T) {
	f, err := ledger.ParseFlow("income")
	require.NoError(t, err)
	assert.Equal(t, ledger.FlowIncome, f)

	_, err = ledger.ParseFlow("transfer")
	assert.ErrorIs(t, err, ledger.ErrInvalidFlow)
}
