package chem

import "testing"

func floatPtr(f float64) *float64 { return &f }

func TestCompound_HasName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"empty", "", false},
		{"sentinel", UnknownName, false},
		{"real", "Ethanol", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Compound{Formula: "C2H5OH", Properties: Properties{Name: tt.in}}
			if got := c.HasName(); got != tt.want {
				t.Errorf("HasName() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompound_WeightLabel(t *testing.T) {
	c := Compound{Formula: "H2O"}
	if got := c.WeightLabel(); got != "N/A" {
		t.Errorf("WeightLabel() = %q, want N/A", got)
	}
	c.Properties.MolecularWeight = floatPtr(18.015)
	if got := c.WeightLabel(); got != "18.015 g/mol" {
		t.Errorf("WeightLabel() = %q, want %q", got, "18.015 g/mol")
	}
}

func TestReactionCondition_ConditionsLabel(t *testing.T) {
	tests := []struct {
		name string
		r    ReactionCondition
		want string
	}{
		{"none", ReactionCondition{Reagent: "H2SO4"}, ""},
		{"temp", ReactionCondition{Temperature: floatPtr(170)}, "170°C"},
		{"pressure", ReactionCondition{Pressure: floatPtr(1.5)}, "1.5 atm"},
		{"both", ReactionCondition{Temperature: floatPtr(25), Pressure: floatPtr(1)}, "25°C, 1 atm"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.ConditionsLabel(); got != tt.want {
				t.Errorf("ConditionsLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPathInfo_Steps(t *testing.T) {
	p := PathInfo{
		Compounds: []Compound{{Formula: "A"}, {Formula: "B"}, {Formula: "C"}},
		Reactions: []ReactionCondition{{Reagent: "r1"}, {Reagent: "r2"}},
	}

	steps := p.Steps()
	if len(steps) != 2 {
		t.Fatalf("len(Steps) = %d, want 2", len(steps))
	}
	if steps[1].Index != 2 || steps[1].From.Formula != "B" || steps[1].To.Formula != "C" || steps[1].Reaction.Reagent != "r2" {
		t.Errorf("Steps()[1] = %+v", steps[1])
	}
	if p.Start().Formula != "A" || p.Target().Formula != "C" {
		t.Errorf("Start/Target = %s/%s", p.Start().Formula, p.Target().Formula)
	}
}
