package ops

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/chempath/chempath/internal/chem"
	"github.com/chempath/chempath/internal/errors"
	"github.com/chempath/chempath/internal/normalize"
)

// ListCompoundsInput contains parameters for the ListCompounds operation.
type ListCompoundsInput struct {
	Search   string // optional substring filter, applied by the service
	Page     int    // 1-based, default: 1
	PageSize int    // default: 12, max: 100
}

// ListCompoundsOutput contains the result of the ListCompounds operation.
type ListCompoundsOutput struct {
	Search     string          `json:"search"`
	Items      []chem.Compound `json:"items"`
	Pagination normalize.Page  `json:"pagination"`
	Rejected   int             `json:"rejected,omitempty"`
}

// ListCompounds fetches the full (optionally filtered) compound list and
// returns one page of it.
func ListCompounds(ctx context.Context, client Client, input ListCompoundsInput) (*ListCompoundsOutput, error) {
	search := strings.TrimSpace(input.Search)

	all, rejected, err := fetchCompounds(ctx, client, search)
	if err != nil {
		return nil, err
	}

	items, page := normalize.Paginate(all, input.Page, clampPageSize(input.PageSize))
	return &ListCompoundsOutput{
		Search:     search,
		Items:      items,
		Pagination: page,
		Rejected:   rejected,
	}, nil
}

// SearchCompounds returns every compound matching search, unpaginated.
func SearchCompounds(ctx context.Context, client Client, search string) ([]chem.Compound, error) {
	all, _, err := fetchCompounds(ctx, client, strings.TrimSpace(search))
	return all, err
}

// fetchCompounds lists and normalizes compounds, returning the number of
// records that were dropped as malformed.
func fetchCompounds(ctx context.Context, client Client, search string) ([]chem.Compound, int, error) {
	raws, err := client.ListCompounds(ctx, search)
	if err != nil {
		return nil, 0, normalize.Classify(err)
	}
	all, rejected := normalize.Compounds(raws)
	if err := firstRejected(len(all), rejected); err != nil {
		return nil, 0, err
	}
	return all, len(rejected), nil
}

// GetCompoundInput contains parameters for the GetCompound operation.
type GetCompoundInput struct {
	Formula string // formula or autocomplete label
}

// GetCompound retrieves one compound. An unknown formula is NO_RESULT.
func GetCompound(ctx context.Context, client Client, input GetCompoundInput) (*chem.Compound, error) {
	formula, err := ParseFormula("formula", input.Formula)
	if err != nil {
		return nil, err
	}

	raw, err := client.GetCompound(ctx, formula)
	if err != nil {
		return nil, normalize.Classify(err)
	}
	c, err := normalize.Compound(*raw)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetCompounds retrieves several compounds concurrently, preserving input
// order. The first failure cancels the rest.
func GetCompounds(ctx context.Context, client Client, formulas []string) ([]chem.Compound, error) {
	if len(formulas) == 0 {
		return nil, errors.NewInvalidRequest("at least one formula is required")
	}
	if len(formulas) > MaxFetchFormulas {
		return nil, errors.NewInvalidRequest("too many formulas")
	}

	out := make([]chem.Compound, len(formulas))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(FetchConcurrency)
	for i, f := range formulas {
		g.Go(func() error {
			c, err := GetCompound(gctx, client, GetCompoundInput{Formula: f})
			if err != nil {
				return err
			}
			out[i] = *c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// SuggestInput contains parameters for the Suggest operation.
type SuggestInput struct {
	Prefix string
	Limit  int // default: 10, max: 50
}

// SuggestOutput contains the result of the Suggest operation.
type SuggestOutput struct {
	Items  []chem.Compound `json:"items"`
	Labels []string        `json:"labels"`
}

// Suggest returns autocomplete suggestions for a prefix, with display labels.
func Suggest(ctx context.Context, client Client, input SuggestInput) (*SuggestOutput, error) {
	prefix := strings.TrimSpace(input.Prefix)
	if prefix == "" {
		return nil, errors.NewInvalidRequest("prefix is required")
	}
	limit := input.Limit
	if limit > MaxSuggestions {
		limit = MaxSuggestions
	}

	raws, err := client.GetSuggestions(ctx, prefix, limit)
	if err != nil {
		return nil, normalize.Classify(err)
	}
	items, rejected := normalize.Compounds(raws)
	if err := firstRejected(len(items), rejected); err != nil {
		return nil, err
	}
	return &SuggestOutput{Items: items, Labels: normalize.Labels(items)}, nil
}

// CompoundOptions returns an autocomplete label for every known compound.
func CompoundOptions(ctx context.Context, client Client) ([]string, error) {
	all, _, err := fetchCompounds(ctx, client, "")
	if err != nil {
		return nil, err
	}
	return normalize.Labels(all), nil
}

// HealthOutput contains the result of the Health operation.
type HealthOutput struct {
	OK     bool           `json:"ok"`
	Status map[string]any `json:"status"`
}

// Health checks that the service is reachable.
func Health(ctx context.Context, client Client) (*HealthOutput, error) {
	status, err := client.HealthCheck(ctx)
	if err != nil {
		return nil, normalize.Classify(err)
	}
	if status == nil {
		status = map[string]any{}
	}
	return &HealthOutput{OK: true, Status: status}, nil
}

func clampPageSize(n int) int {
	if n <= 0 {
		return DefaultPageSize
	}
	return min(n, MaxPageSize)
}
