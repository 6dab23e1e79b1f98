package normalize

import (
	"fmt"
	"strings"

	"github.com/chempath/chempath/internal/api"
	"github.com/chempath/chempath/internal/chem"
	"github.com/chempath/chempath/internal/errors"
)

// Reaction normalizes one reaction condition. Reagent is required.
func Reaction(raw api.RawReaction) (chem.ReactionCondition, error) {
	reagent := strings.TrimSpace(raw.Reagent)
	if reagent == "" {
		return chem.ReactionCondition{}, errors.NewMalformedResponse("reaction missing reagent")
	}
	r := chem.ReactionCondition{
		Reagent:     reagent,
		Temperature: copyFloat(raw.Temperature),
		Pressure:    copyFloat(raw.Pressure),
	}
	if raw.Mechanism != nil {
		r.Mechanism = strings.TrimSpace(*raw.Mechanism)
	}
	if raw.Description != nil {
		r.Description = strings.TrimSpace(*raw.Description)
	}
	return r, nil
}

// Path normalizes one path record and enforces its shape:
// at least two compounds, one reaction per adjacent pair, and
// total_steps equal to the number of reactions. Reagents are derived from
// the path's own reactions.
func Path(raw api.RawPath) (chem.PathInfo, error) {
	nc, nr := len(raw.Compounds), len(raw.Reactions)
	if nc < 2 {
		return chem.PathInfo{}, errors.NewMalformedResponse(fmt.Sprintf("path has %d compounds, need at least 2", nc))
	}
	if nr != nc-1 {
		return chem.PathInfo{}, errors.NewMalformedResponse(fmt.Sprintf("path has %d compounds but %d reactions", nc, nr))
	}
	if raw.TotalSteps != nr {
		return chem.PathInfo{}, errors.NewMalformedResponse(fmt.Sprintf("path reports total_steps %d for %d reactions", raw.TotalSteps, nr))
	}

	p := chem.PathInfo{
		Compounds:  make([]chem.Compound, nc),
		Reactions:  make([]chem.ReactionCondition, nr),
		TotalSteps: nr,
	}
	for i, rc := range raw.Compounds {
		c, err := Compound(rc)
		if err != nil {
			return chem.PathInfo{}, errors.NewMalformedResponse(fmt.Sprintf("path compound %d missing formula", i))
		}
		p.Compounds[i] = c
	}
	for i, rr := range raw.Reactions {
		r, err := Reaction(rr)
		if err != nil {
			return chem.PathInfo{}, errors.NewMalformedResponse(fmt.Sprintf("path reaction %d missing reagent", i))
		}
		p.Reactions[i] = r
	}
	p.Reagents = Reagents(p.Reactions)
	return p, nil
}

// Paths normalizes every record independently. Malformed records are
// dropped from the result and reported in rejected.
func Paths(raws []api.RawPath) (paths []chem.PathInfo, rejected []error) {
	paths = make([]chem.PathInfo, 0, len(raws))
	for i, raw := range raws {
		p, err := Path(raw)
		if err != nil {
			rejected = append(rejected, fmt.Errorf("paths[%d]: %w", i, err))
			continue
		}
		paths = append(paths, p)
	}
	return paths, rejected
}

// Reagents lists distinct reagent names in first-seen order.
func Reagents(reactions []chem.ReactionCondition) []string {
	seen := make(map[string]bool, len(reactions))
	out := make([]string, 0, len(reactions))
	for _, r := range reactions {
		if !seen[r.Reagent] {
			seen[r.Reagent] = true
			out = append(out, r.Reagent)
		}
	}
	return out
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
