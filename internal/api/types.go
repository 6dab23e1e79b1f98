package api

// RawProperties is the nested metadata object some responses carry.
type RawProperties struct {
	Name            *string  `json:"name,omitempty"`
	MolecularWeight *float64 `json:"molecular_weight,omitempty"`
	State           *string  `json:"state,omitempty"`
	Class           *string  `json:"class,omitempty"`
}

// RawCompound is a compound record as the service sends it. The service uses
// two shapes: flat fields next to formula, or a nested properties object
// (seen inside path results). Both decode into this struct.
type RawCompound struct {
	Formula         string         `json:"formula"`
	Name            *string        `json:"name,omitempty"`
	MolecularWeight *float64       `json:"molecular_weight,omitempty"`
	Class           *string        `json:"class,omitempty"`
	State           *string        `json:"state,omitempty"`
	Properties      *RawProperties `json:"properties,omitempty"`
}

// RawReaction is a reaction condition record.
type RawReaction struct {
	Reagent     string   `json:"reagent"`
	Temperature *float64 `json:"temperature,omitempty"`
	Pressure    *float64 `json:"pressure,omitempty"`
	Mechanism   *string  `json:"mechanism,omitempty"`
	Description *string  `json:"description,omitempty"`
}

// RawPath is a path record returned by /paths/.
type RawPath struct {
	Compounds  []RawCompound `json:"compounds"`
	Reactions  []RawReaction `json:"reactions"`
	Reagents   []string      `json:"reagents"`
	TotalSteps int           `json:"total_steps"`
}

// NewCompound is the body of POST /compounds/.
type NewCompound struct {
	Formula         string   `json:"formula"`
	Name            *string  `json:"name,omitempty"`
	MolecularWeight *float64 `json:"molecular_weight,omitempty"`
	State           *string  `json:"state,omitempty"`
	Class           *string  `json:"class,omitempty"`
}

// NewReaction is the body of POST /reactions/.
type NewReaction struct {
	Reactant   string      `json:"reactant"`
	Product    string      `json:"product"`
	Conditions RawReaction `json:"conditions"`
}
