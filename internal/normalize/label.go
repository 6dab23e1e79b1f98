package normalize

import (
	"strings"

	"github.com/chempath/chempath/internal/chem"
)

// labelSep separates the formula from the display name in a label.
const labelSep = " ("

// FormatLabel builds an autocomplete label: the uppercased formula, followed
// by " (Name)" when a name is known.
func FormatLabel(formula, name string) string {
	label := strings.ToUpper(formula)
	if name != "" && name != chem.UnknownName {
		label += labelSep + name + ")"
	}
	return label
}

// Label is FormatLabel for a normalized compound.
func Label(c chem.Compound) string {
	return FormatLabel(c.Formula, c.Properties.Name)
}

// Labels builds labels for a list of compounds, in order.
func Labels(cs []chem.Compound) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = Label(c)
	}
	return out
}

// RecoverFormula extracts the formula from a label produced by FormatLabel,
// or from free text typed by the user.
func RecoverFormula(label string) string {
	formula, _, _ := strings.Cut(label, labelSep)
	return strings.ToUpper(formula)
}
