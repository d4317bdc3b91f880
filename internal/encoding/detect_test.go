package encoding_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budgetivoire/budgetivoire/internal/encoding"
)

func read(t *testing.T, input []byte) string {
	t.Helper()

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(got)
}

func TestNewUTF8Reader(t *testing.T) {
	type testCase struct {
		name  string
		input []byte
		want  string
	}

	tests := []testCase{
		{
			name:  "UTF8Passthrough",
			input: []byte("Libellé;Montant\nMarché Adjamé;-7 500\nDépôt;12 000\n"),
			want:  "Libellé;Montant\nMarché Adjamé;-7 500\nDépôt;12 000\n",
		},
		{
			// "Libellé;Crédit\n" with é = 0xE9
			name: "Windows1252",
			input: []byte{
				'L', 'i', 'b', 'e', 'l', 'l', 0xE9, ';',
				'C', 'r', 0xE9, 'd', 'i', 't', '\n',
			},
			want: "Libellé;Crédit\n",
		},
		{
			name:  "UTF8BOM",
			input: append([]byte{0xEF, 0xBB, 0xBF}, "Libellé;Montant\n"...),
			want:  "Libellé;Montant\n",
		},
		{
			// "Dé" as UTF-16 LE with BOM
			name:  "UTF16LE",
			input: []byte{0xFF, 0xFE, 'D', 0x00, 0xE9, 0x00},
			want:  "Dé",
		},
		{
			name:  "Empty",
			input: nil,
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, read(t, tt.input))
		})
	}
}

func TestNewUTF8Reader_RuneAcrossSniffWindow(t *testing.T) {
	// Place a two-byte é so it straddles the 4096 byte sniff window.
	input := strings.Repeat("a", 4095) + "é;Montant\n"

	assert.Equal(t, input, read(t, []byte(input)))
}
