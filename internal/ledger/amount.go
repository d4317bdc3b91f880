package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid amount")

// digitSeparators are the grouping characters people type or paste between
// thousands: plain, no-break and narrow no-break spaces.
var digitSeparators = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "", "\t", "")

// ParseAmount reads a whole, non-negative amount such as "5 000" or "250000".
// An empty string is zero.
func ParseAmount(s string) (int64, error) {
	s = digitSeparators.Replace(strings.TrimSpace(s))
	if s == "" {
		return 0, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	if d.IsNegative() || !d.IsInteger() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	if d.GreaterThan(decimal.NewFromInt(1 << 53)) {
		return 0, fmt.Errorf("%w: %q is too large", ErrInvalidAmount, s)
	}

	return d.IntPart(), nil
}

// FormatAmount groups thousands with spaces, the way amounts are written locally.
func FormatAmount(n int64) string {
	sign := ""
	if n < 0 {
		sign, n = "-", -n
	}

	digits := fmt.Sprint(n)

	var b strings.Builder

	b.WriteString(sign)

	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(' ')
		}

		b.WriteRune(r)
	}

	return b.String()
}
