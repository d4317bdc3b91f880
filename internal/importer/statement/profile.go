package statement

// amountMode determines how amounts are extracted from a row.
type amountMode int

const (
	// amountSigned means one signed column, negative for money out.
	amountSigned amountMode = iota
	// amountSplit means separate debit and credit columns.
	amountSplit
	// amountWithFlow means an unsigned amount plus an INCOME/EXPENSE column.
	amountWithFlow
)

// Profile describes the column layout of a CSV export.
// Adding a new format is just adding a new Profile to the profiles slice.
type Profile struct {
	Name       string
	DateCol    string
	NoteCol    string
	AmountMode amountMode
	AmountCol  string // amountSigned and amountWithFlow
	FlowCol    string // amountWithFlow
	DebitCol   string // amountSplit
	CreditCol  string // amountSplit

	// Optional columns. Absent ones fall back to Autre and cash.
	IDCol       string
	CategoryCol string
	MethodCol   string
}

// requiredCols returns the column names that must be present for this profile to match.
func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.NoteCol}

	switch p.AmountMode {
	case amountSigned:
		cols = append(cols, p.AmountCol)
	case amountSplit:
		cols = append(cols, p.DebitCol, p.CreditCol)
	case amountWithFlow:
		cols = append(cols, p.AmountCol, p.FlowCol)
	}

	return cols
}

// profiles is the ordered list of formats tried during auto-detection.
// More specific profiles come first.
var profiles = []Profile{
	{
		Name:        "ledger",
		DateCol:     "Date",
		NoteCol:     "Note",
		AmountMode:  amountWithFlow,
		AmountCol:   "Montant",
		FlowCol:     "Type",
		IDCol:       "ID",
		CategoryCol: "Catégorie",
		MethodCol:   "Moyen de paiement",
	},
	{
		Name:       "wallet",
		DateCol:    "Date",
		NoteCol:    "Description",
		AmountMode: amountSplit,
		DebitCol:   "Débit",
		CreditCol:  "Crédit",
		MethodCol:  "Opérateur",
	},
	{
		Name:        "bank",
		DateCol:     "Date",
		NoteCol:     "Libellé",
		AmountMode:  amountSigned,
		AmountCol:   "Montant",
		CategoryCol: "Catégorie",
	},
}
