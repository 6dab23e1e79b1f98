// Package normalize turns raw service records into the chem value model,
// builds autocomplete labels, paginates results and classifies failures.
package normalize

import (
	"fmt"
	"strings"

	"github.com/chempath/chempath/internal/api"
	"github.com/chempath/chempath/internal/chem"
	"github.com/chempath/chempath/internal/errors"
)

// Compound coerces a raw record of either shape into a chem.Compound.
// A nested properties object wins over flat fields and is passed through
// as sent; only absent or empty fields get the "Unknown"/"N/A" sentinels.
// Flat fields are trimmed and a non-positive weight is dropped. A blank
// formula is malformed.
func Compound(raw api.RawCompound) (chem.Compound, error) {
	if strings.TrimSpace(raw.Formula) == "" {
		return chem.Compound{}, errors.NewMalformedResponse("compound missing formula")
	}

	if p := raw.Properties; p != nil {
		return chem.Compound{Formula: raw.Formula, Properties: nested(p)}, nil
	}
	return chem.Compound{
		Formula:    strings.TrimSpace(raw.Formula),
		Properties: flat(raw.Name, raw.MolecularWeight, raw.State, raw.Class),
	}, nil
}

// Compounds normalizes a list, keeping order. Records that fail are
// returned separately so callers can report them.
func Compounds(raws []api.RawCompound) ([]chem.Compound, []error) {
	out := make([]chem.Compound, 0, len(raws))
	var rejected []error
	for i, raw := range raws {
		c, err := Compound(raw)
		if err != nil {
			rejected = append(rejected, fmt.Errorf("compounds[%d]: %w", i, err))
			continue
		}
		out = append(out, c)
	}
	return out, rejected
}

func nested(p *api.RawProperties) chem.Properties {
	return chem.Properties{
		Name:            orSentinel(p.Name, chem.UnknownName),
		MolecularWeight: copyFloat(p.MolecularWeight),
		State:           orSentinel(p.State, chem.NotAvailable),
		Class:           orSentinel(p.Class, chem.NotAvailable),
	}
}

func flat(name *string, mw *float64, state, class *string) chem.Properties {
	props := chem.Properties{
		Name:  orDefault(name, chem.UnknownName),
		State: orDefault(state, chem.NotAvailable),
		Class: orDefault(class, chem.NotAvailable),
	}
	if mw != nil && *mw > 0 {
		w := *mw
		props.MolecularWeight = &w
	}
	return props
}

// orSentinel keeps s untouched unless it is absent or empty.
func orSentinel(s *string, def string) string {
	if s == nil || *s == "" {
		return def
	}
	return *s
}

func orDefault(s *string, def string) string {
	if s == nil {
		return def
	}
	if v := strings.TrimSpace(*s); v != "" {
		return v
	}
	return def
}
