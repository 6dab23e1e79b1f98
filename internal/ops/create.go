package ops

import (
	"context"
	"strings"

	"github.com/chempath/chempath/internal/api"
	"github.com/chempath/chempath/internal/chem"
	"github.com/chempath/chempath/internal/errors"
	"github.com/chempath/chempath/internal/normalize"
)

// CreateCompoundInput contains parameters for the CreateCompound operation.
type CreateCompoundInput struct {
	Formula         string
	Name            *string
	MolecularWeight *float64 // must be positive when set
	State           *string
	Class           *string
}

// CreateCompound registers a compound with the service and returns the
// normalized record it assigned.
func CreateCompound(ctx context.Context, client Client, input CreateCompoundInput) (*chem.Compound, error) {
	formula := strings.TrimSpace(input.Formula)
	if formula == "" {
		return nil, errors.NewInvalidRequest("formula is required")
	}
	if len(formula) > maxFormulaLength {
		return nil, errors.NewInvalidRequest("formula is too long")
	}
	if input.MolecularWeight != nil && *input.MolecularWeight <= 0 {
		return nil, errors.NewInvalidRequest("molecular_weight must be positive")
	}

	req := api.NewCompound{Formula: formula, MolecularWeight: input.MolecularWeight}
	var err error
	if req.Name, err = optionalText("name", input.Name); err != nil {
		return nil, err
	}
	if req.State, err = optionalText("state", input.State); err != nil {
		return nil, err
	}
	if req.Class, err = optionalText("class", input.Class); err != nil {
		return nil, err
	}

	raw, err := client.CreateCompound(ctx, req)
	if err != nil {
		return nil, normalize.ClassifyWrite(err)
	}
	c, err := normalize.Compound(*raw)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateReactionInput contains parameters for the CreateReaction operation.
type CreateReactionInput struct {
	Reactant   string
	Product    string
	Conditions chem.ReactionCondition // Reagent required
}

// CreateReactionOutput contains the result of the CreateReaction operation.
type CreateReactionOutput struct {
	ID       string `json:"id"`
	Reactant string `json:"reactant"`
	Product  string `json:"product"`
}

// CreateReaction registers a reaction step between two compounds.
func CreateReaction(ctx context.Context, client Client, input CreateReactionInput) (*CreateReactionOutput, error) {
	reactant, err := ParseFormula("reactant", input.Reactant)
	if err != nil {
		return nil, err
	}
	product, err := ParseFormula("product", input.Product)
	if err != nil {
		return nil, err
	}
	reagent := strings.TrimSpace(input.Conditions.Reagent)
	if reagent == "" {
		return nil, errors.NewInvalidRequest("reagent is required")
	}

	cond := api.RawReaction{
		Reagent:     reagent,
		Temperature: input.Conditions.Temperature,
		Pressure:    input.Conditions.Pressure,
	}
	mech, desc := input.Conditions.Mechanism, input.Conditions.Description
	if cond.Mechanism, err = optionalText("mechanism", &mech); err != nil {
		return nil, err
	}
	if cond.Description, err = optionalText("description", &desc); err != nil {
		return nil, err
	}

	id, err := client.CreateReaction(ctx, api.NewReaction{
		Reactant:   reactant,
		Product:    product,
		Conditions: cond,
	})
	if err != nil {
		return nil, normalize.ClassifyWrite(err)
	}
	return &CreateReactionOutput{ID: id, Reactant: reactant, Product: product}, nil
}
