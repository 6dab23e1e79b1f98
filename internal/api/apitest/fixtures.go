package apitest

import "github.com/chempath/chempath/internal/api"

func str(s string) *string { return &s }
func num(f float64) *float64 { return &f }

// Fixtures returns a small compound catalogue in the flat shape.
// Water deliberately lacks state and class, and methane has no name.
func Fixtures() []api.RawCompound {
	return []api.RawCompound{
		{Formula: "CH3CH2OH", Name: str("Ethanol"), MolecularWeight: num(46.07), State: str("liquid"), Class: str("alcohol")},
		{Formula: "CH3CHO", Name: str("Acetaldehyde"), MolecularWeight: num(44.05), State: str("liquid"), Class: str("aldehyde")},
		{Formula: "CH3COOH", Name: str("Acetic acid"), MolecularWeight: num(60.05), State: str("liquid"), Class: str("carboxylic acid")},
		{Formula: "C2H4", Name: str("Ethene"), MolecularWeight: num(28.05), State: str("gas"), Class: str("alkene")},
		{Formula: "H2O", Name: str("Water"), MolecularWeight: num(18.015)},
		{Formula: "CH4", MolecularWeight: num(16.04), State: str("gas")},
	}
}

// EthanolToAceticAcid returns two path records. The first embeds compounds
// in the nested shape, the second in the flat shape.
func EthanolToAceticAcid() []api.RawPath {
	return []api.RawPath{
		{
			Compounds: []api.RawCompound{
				{Formula: "CH3CH2OH", Properties: &api.RawProperties{Name: str("Ethanol"), State: str("liquid"), Class: str("alcohol")}},
				{Formula: "CH3CHO", Properties: &api.RawProperties{Name: str("Acetaldehyde"), State: str("liquid"), Class: str("aldehyde")}},
				{Formula: "CH3COOH", Properties: &api.RawProperties{Name: str("Acetic acid"), State: str("liquid"), Class: str("carboxylic acid")}},
			},
			Reactions: []api.RawReaction{
				{Reagent: "PCC", Mechanism: str("oxidation"), Description: str("Partial oxidation to the aldehyde")},
				{Reagent: "KMnO4", Temperature: num(25), Pressure: num(1), Mechanism: str("oxidation")},
			},
			Reagents:   []string{"PCC", "KMnO4"},
			TotalSteps: 2,
		},
		{
			Compounds: []api.RawCompound{
				{Formula: "CH3CH2OH", Name: str("Ethanol")},
				{Formula: "CH3COOH", Name: str("Acetic acid"), MolecularWeight: num(60.05)},
			},
			Reactions: []api.RawReaction{
				{Reagent: "K2Cr2O7", Temperature: num(80), Description: str("Acidified dichromate, reflux")},
			},
			Reagents:   []string{"K2Cr2O7"},
			TotalSteps: 1,
		},
	}
}
