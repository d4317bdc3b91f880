package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/budgetivoire/budgetivoire/internal/ledger"
)

func TestParseAmount(t *testing.T) {
	type testCase struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}

	tests := []testCase{
		{name: "Empty", input: "", want: 0},
		{name: "Plain", input: "5000", want: 5000},
		{name: "Spaced", input: "5 000", want: 5000},
		{name: "NoBreakSpace", input: "1\u00a0250\u00a0000", want: 1_250_000},
		{name: "NarrowNoBreakSpace", input: "12\u202f500", want: 12_500},
		{name: "TrailingZeroFraction", input: "150.00", want: 150},
		{name: "Fraction", input: "150.5", wantErr: true},
		{name: "Negative", input: "-10", wantErr: true},
		{name: "Letters", input: "5k", wantErr: true},
		{name: "Huge", input: "99999999999999999999", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ledger.ParseAmount(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ledger.ErrInvalidAmount)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0", ledger.FormatAmount(0))
	assert.Equal(t, "999", ledger.FormatAmount(999))
	assert.Equal(t, "5 000", ledger.FormatAmount(5000))
	assert.Equal(t, "10 000 000", ledger.FormatAmount(10_000_000))
	assert.Equal(t, "-150 000", ledger.FormatAmount(-150_000))
}
