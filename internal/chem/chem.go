// Package chem holds the normalized value model shared by every surface.
// Values are built by the normalize package and never mutated afterwards.
package chem

import (
	"fmt"
	"strconv"
)

// Sentinels used when the service leaves a field out.
const (
	UnknownName  = "Unknown"
	NotAvailable = "N/A"
)

// Properties is the descriptive metadata of a compound.
type Properties struct {
	Name            string   `json:"name"`
	MolecularWeight *float64 `json:"molecular_weight,omitempty"`
	State           string   `json:"state"`
	Class           string   `json:"class"`
}

// Compound is a chemical substance identified by its formula.
type Compound struct {
	Formula    string     `json:"formula"`
	Properties Properties `json:"properties"`
}

// HasName reports whether the service supplied a display name.
func (c Compound) HasName() bool {
	return c.Properties.Name != "" && c.Properties.Name != UnknownName
}

// WeightLabel renders the molecular weight as "<mw> g/mol", or "N/A".
func (c Compound) WeightLabel() string {
	if c.Properties.MolecularWeight == nil {
		return NotAvailable
	}
	return strconv.FormatFloat(*c.Properties.MolecularWeight, 'f', -1, 64) + " g/mol"
}

// ReactionCondition describes one reaction step.
type ReactionCondition struct {
	Reagent     string   `json:"reagent"`
	Temperature *float64 `json:"temperature,omitempty"`
	Pressure    *float64 `json:"pressure,omitempty"`
	Mechanism   string   `json:"mechanism,omitempty"`
	Description string   `json:"description,omitempty"`
}

// ConditionsLabel renders temperature and pressure for display, e.g.
// "25°C, 1 atm". Empty when neither is known.
func (r ReactionCondition) ConditionsLabel() string {
	switch {
	case r.Temperature != nil && r.Pressure != nil:
		return fmt.Sprintf("%s°C, %s atm", formatNum(*r.Temperature), formatNum(*r.Pressure))
	case r.Temperature != nil:
		return formatNum(*r.Temperature) + "°C"
	case r.Pressure != nil:
		return formatNum(*r.Pressure) + " atm"
	}
	return ""
}

// PathInfo is one candidate pathway. Reactions[i] transforms Compounds[i]
// into Compounds[i+1].
type PathInfo struct {
	Compounds  []Compound          `json:"compounds"`
	Reactions  []ReactionCondition `json:"reactions"`
	Reagents   []string            `json:"reagents"`
	TotalSteps int                 `json:"total_steps"`
}

// Start returns the first compound of the path.
func (p PathInfo) Start() Compound { return p.Compounds[0] }

// Target returns the last compound of the path.
func (p PathInfo) Target() Compound { return p.Compounds[len(p.Compounds)-1] }

// Step pairs a reaction with the compounds it connects.
type Step struct {
	Index    int               `json:"index"`
	From     Compound          `json:"from"`
	To       Compound          `json:"to"`
	Reaction ReactionCondition `json:"reaction"`
}

// Steps expands the path into from/to/reaction triples.
func (p PathInfo) Steps() []Step {
	steps := make([]Step, len(p.Reactions))
	for i, r := range p.Reactions {
		steps[i] = Step{Index: i + 1, From: p.Compounds[i], To: p.Compounds[i+1], Reaction: r}
	}
	return steps
}

func formatNum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
