package ops

import (
	"context"

	"github.com/chempath/chempath/internal/chem"
	"github.com/chempath/chempath/internal/errors"
	"github.com/chempath/chempath/internal/normalize"
)

// FindPathsInput contains parameters for the FindPaths operation.
type FindPathsInput struct {
	Start    string // formula or autocomplete label
	End      string // formula or autocomplete label
	MaxSteps int    // default: 5, max: 10
}

// FindPathsOutput contains the result of the FindPaths operation.
// An empty Paths slice means the service found no pathway.
type FindPathsOutput struct {
	Start    string          `json:"start"`
	End      string          `json:"end"`
	MaxSteps int             `json:"max_steps"`
	Paths    []chem.PathInfo `json:"paths"`
	Rejected int             `json:"rejected,omitempty"`
}

// FindPaths asks the service for pathways from start to end. Each returned
// path is normalized on its own; malformed records are dropped, and if none
// survive the result is MALFORMED_RESPONSE.
func FindPaths(ctx context.Context, client Client, input FindPathsInput) (*FindPathsOutput, error) {
	start, err := ParseFormula("start", input.Start)
	if err != nil {
		return nil, err
	}
	end, err := ParseFormula("end", input.End)
	if err != nil {
		return nil, err
	}

	maxSteps := input.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	if maxSteps > MaxMaxSteps {
		return nil, errors.NewInvalidRequest("max_steps must be at most 10")
	}

	raws, err := client.FindPaths(ctx, start, end, maxSteps)
	if err != nil {
		return nil, pathError(normalize.Classify(err))
	}

	paths, rejected := normalize.Paths(raws)
	if err := firstRejected(len(paths), rejected); err != nil {
		return nil, err
	}

	return &FindPathsOutput{
		Start:    start,
		End:      end,
		MaxSteps: maxSteps,
		Paths:    paths,
		Rejected: len(rejected),
	}, nil
}

// pathError swaps the generic no-result message for the path-specific one.
func pathError(err error) error {
	if cErr, ok := errors.As(err); ok && cErr.Code == errors.ErrNoResult {
		return cErr.WithMessage(errors.MsgNoPathways)
	}
	return err
}
