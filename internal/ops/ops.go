package ops

import (
	"context"
	"strings"

	"github.com/chempath/chempath/internal/api"
	"github.com/chempath/chempath/internal/errors"
	"github.com/chempath/chempath/internal/normalize"
)

// Limits applied to user input.
const (
	DefaultMaxSteps   = 5
	MaxMaxSteps       = 10
	MaxSuggestions    = 50
	MaxFetchFormulas  = 20
	FetchConcurrency  = 4
	DefaultPageSize   = normalize.DefaultPageSize
	MaxPageSize       = 100
	maxFormulaLength  = 128
	maxFreeTextLength = 512
)

// Client is the subset of the transport client the operations need.
// *api.Client satisfies it.
type Client interface {
	HealthCheck(ctx context.Context) (map[string]any, error)
	ListCompounds(ctx context.Context, search string) ([]api.RawCompound, error)
	GetCompound(ctx context.Context, formula string) (*api.RawCompound, error)
	GetSuggestions(ctx context.Context, prefix string, limit int) ([]api.RawCompound, error)
	FindPaths(ctx context.Context, start, end string, maxSteps int) ([]api.RawPath, error)
	CreateCompound(ctx context.Context, in api.NewCompound) (*api.RawCompound, error)
	CreateReaction(ctx context.Context, in api.NewReaction) (string, error)
}

var _ Client = (*api.Client)(nil)

// ParseFormula validates a formula argument. Labels such as
// "CH3COOH (Acetic acid)" are accepted and reduced to the formula.
func ParseFormula(field, s string) (string, error) {
	formula := strings.TrimSpace(normalize.RecoverFormula(strings.TrimSpace(s)))
	if formula == "" {
		return "", errors.NewInvalidRequest(field + " is required")
	}
	if len(formula) > maxFormulaLength {
		return "", errors.NewInvalidRequest(field + " is too long")
	}
	if strings.ContainsAny(formula, "/?#") {
		return "", errors.NewInvalidRequest(field + " contains invalid characters")
	}
	return formula, nil
}

// firstRejected returns the first rejection when nothing usable survived.
func firstRejected(kept int, rejected []error) error {
	if kept == 0 && len(rejected) > 0 {
		return normalize.Classify(rejected[0])
	}
	return nil
}

func optionalText(field string, s *string) (*string, error) {
	if s == nil {
		return nil, nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil, nil
	}
	if len(v) > maxFreeTextLength {
		return nil, errors.NewInvalidRequest(field + " is too long")
	}
	return &v, nil
}
