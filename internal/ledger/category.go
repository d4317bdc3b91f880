package ledger

import (
	"fmt"
	"strings"
)

// Category is a closed set of known spending categories plus an
// unrecognized variant that carries free-form labels found in historical data.
// New manual entries only accept known categories.
type Category struct {
	label string
	known bool
}

var (
	CategoryFood          = Category{label: "Nourriture & Marché", known: true}
	CategoryTransport     = Category{label: "Transport (Woro-woro)", known: true}
	CategoryHousing       = Category{label: "Loyer & Électricité", known: true}
	CategoryEducation     = Category{label: "École & Formation", known: true}
	CategoryTontine       = Category{label: "Tontine & Épargne", known: true}
	CategoryEntertainment = Category{label: "Loisirs & Maquis", known: true}
	CategoryHealth        = Category{label: "Santé & Pharmacie", known: true}
	CategoryFamily        = Category{label: "Famille & Aides", known: true}
	CategoryOther         = Category{label: "Autre", known: true}
)

// DefaultCategory is what a fresh entry form starts with.
var DefaultCategory = CategoryFood

var categories = []Category{
	CategoryFood,
	CategoryTransport,
	CategoryHousing,
	CategoryEducation,
	CategoryTontine,
	CategoryEntertainment,
	CategoryHealth,
	CategoryFamily,
	CategoryOther,
}

// Categories returns the known categories in display order.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// LookupCategory returns the known category with exactly this label.
func LookupCategory(label string) (Category, error) {
	label = strings.TrimSpace(label)
	for _, c := range categories {
		if c.label == label {
			return c, nil
		}
	}

	return Category{}, fmt.Errorf("%w: %q", ErrUnknownCategory, label)
}

// CategoryFromLabel is used for stored and imported data: known labels map
// to their category, anything else is kept verbatim as unrecognized.
func CategoryFromLabel(label string) Category {
	if c, err := LookupCategory(label); err == nil {
		return c
	}

	return Category{label: strings.TrimSpace(label)}
}

// MatchCategory resolves a loose hint ("marché", "Santé") to a known
// category by case-insensitive containment, falling back to Other.
func MatchCategory(hint string) Category {
	h := strings.ToLower(strings.TrimSpace(hint))
	if h == "" {
		return CategoryOther
	}

	for _, c := range categories {
		if strings.Contains(strings.ToLower(c.label), h) {
			return c
		}
	}

	return CategoryOther
}

func (c Category) String() string { return c.label }

// IsKnown reports whether c belongs to the fixed enumeration.
func (c Category) IsKnown() bool { return c.known }

// IsZero reports whether c was never set.
func (c Category) IsZero() bool { return c.label == "" }

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.label), nil
}

// UnmarshalText accepts any label so historical categories round-trip.
func (c *Category) UnmarshalText(b []byte) error {
	*c = CategoryFromLabel(string(b))
	return nil
}
