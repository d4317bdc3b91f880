package statement

import (
	"strings"

	"github.com/shopspring/decimal"
)

var separators = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "", "CFA", "", "XOF", "", "F", "")

// parseAmount reads amounts such as "-5 000", "12 500 F" or "1250,50" and
// rounds them to whole units.
func parseAmount(s string) (int64, error) {
	clean := separators.Replace(strings.ToUpper(s))
	clean = strings.ReplaceAll(clean, ",", ".")

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, err
	}

	return d.Round(0).IntPart(), nil
}
