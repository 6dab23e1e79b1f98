package mcp

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/chempath/chempath/internal/chem"
	"github.com/chempath/chempath/internal/config"
	"github.com/chempath/chempath/internal/errors"
	"github.com/chempath/chempath/internal/normalize"
	"github.com/chempath/chempath/internal/ops"
	"github.com/chempath/chempath/internal/session"
)

// Handlers serves the chempath tools. All handlers share one session.
type Handlers struct {
	client ops.Client
	cfg    *config.Config
	sess   *session.Session
	logger *zap.Logger
}

// NewHandlers wires handlers to client and sess. A nil logger is a no-op.
func NewHandlers(client ops.Client, cfg *config.Config, sess *session.Session, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{client: client, cfg: cfg, sess: sess, logger: logger}
}

// Tool arguments

// CompoundListRequest represents the arguments for compound_list.
// A nil Search pages through the result already held.
type CompoundListRequest struct {
	Search *string `json:"search,omitempty"`
	Page   int     `json:"page,omitempty"`
}

// CompoundGetRequest represents the arguments for compound_get.
type CompoundGetRequest struct {
	Formulas []string `json:"formulas"`
}

// CompoundSuggestRequest represents the arguments for compound_suggest.
type CompoundSuggestRequest struct {
	Prefix string `json:"prefix"`
	Limit  int    `json:"limit,omitempty"`
}

// PathFindRequest represents the arguments for path_find.
type PathFindRequest struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	MaxSteps int    `json:"max_steps,omitempty"`
}

// PathSelectRequest represents the arguments for path_select.
type PathSelectRequest struct {
	Index *int `json:"index"`
}

// CompoundCreateRequest represents the arguments for compound_create.
type CompoundCreateRequest struct {
	Formula         string   `json:"formula"`
	Name            *string  `json:"name,omitempty"`
	MolecularWeight *float64 `json:"molecular_weight,omitempty"`
	State           *string  `json:"state,omitempty"`
	Class           *string  `json:"class,omitempty"`
}

// ReactionCreateRequest represents the arguments for reaction_create.
type ReactionCreateRequest struct {
	Reactant    string   `json:"reactant"`
	Product     string   `json:"product"`
	Reagent     string   `json:"reagent"`
	Temperature *float64 `json:"temperature,omitempty"`
	Pressure    *float64 `json:"pressure,omitempty"`
	Mechanism   string   `json:"mechanism,omitempty"`
	Description string   `json:"description,omitempty"`
}

// Output types that add display text to the model

// CompoundView is a compound with its autocomplete label and weight text.
type CompoundView struct {
	chem.Compound
	Label  string `json:"label"`
	Weight string `json:"weight"`
}

// StepView is one reaction step of a selected path.
type StepView struct {
	Index      int                    `json:"index"`
	From       string                 `json:"from"`
	To         string                 `json:"to"`
	Reaction   chem.ReactionCondition `json:"reaction"`
	Conditions string                 `json:"conditions,omitempty"`
}

// PathSelectOutput is the result of path_select.
type PathSelectOutput struct {
	Index      int        `json:"index"`
	Start      string     `json:"start"`
	Target     string     `json:"target"`
	TotalSteps int        `json:"total_steps"`
	Reagents   []string   `json:"reagents"`
	Steps      []StepView `json:"steps"`
}

// Tool handlers

// HandleCompoundList handles the compound_list tool call.
func (h *Handlers) HandleCompoundList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CompoundListRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	var result *session.CompoundPage
	if input.Search == nil && input.Page > 0 {
		result, err = h.sess.GotoPage(input.Page)
	} else {
		search := ""
		if input.Search != nil {
			search = *input.Search
		}
		result, err = h.sess.SearchCompounds(ctx, search, input.Page)
	}
	if err != nil {
		return h.fail("compound_list", err), nil
	}

	return successResult(result)
}

// HandleCompoundGet handles the compound_get tool call.
func (h *Handlers) HandleCompoundGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CompoundGetRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	compounds, err := ops.GetCompounds(ctx, h.client, input.Formulas)
	if err != nil {
		return h.fail("compound_get", err), nil
	}

	items := make([]CompoundView, len(compounds))
	for i, c := range compounds {
		items[i] = compoundView(c)
	}
	return successResult(map[string]any{"items": items})
}

// HandleCompoundSuggest handles the compound_suggest tool call.
func (h *Handlers) HandleCompoundSuggest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CompoundSuggestRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	limit := input.Limit
	if limit <= 0 {
		limit = h.cfg.SuggestionLimit
	}
	result, err := ops.Suggest(ctx, h.client, ops.SuggestInput{Prefix: input.Prefix, Limit: limit})
	if err != nil {
		return h.fail("compound_suggest", err), nil
	}

	return successResult(result)
}

// HandlePathFind handles the path_find tool call.
func (h *Handlers) HandlePathFind(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PathFindRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	maxSteps := input.MaxSteps
	if maxSteps <= 0 {
		maxSteps = h.cfg.DefaultMaxSteps
	}
	result, err := h.sess.FindPaths(ctx, ops.FindPathsInput{
		Start:    input.Start,
		End:      input.End,
		MaxSteps: maxSteps,
	})
	if err != nil {
		return h.fail("path_find", err), nil
	}

	return successResult(result)
}

// HandlePathSelect handles the path_select tool call.
func (h *Handlers) HandlePathSelect(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PathSelectRequest](req)
	if err != nil {
		return errorResult(err), nil
	}
	if input.Index == nil {
		return errorResult(errors.NewInvalidRequest("index is required")), nil
	}

	path, err := h.sess.SelectPath(*input.Index)
	if err != nil {
		return h.fail("path_select", err), nil
	}

	out := PathSelectOutput{
		Index:      *input.Index,
		Start:      path.Start().Formula,
		Target:     path.Target().Formula,
		TotalSteps: path.TotalSteps,
		Reagents:   path.Reagents,
	}
	for _, st := range path.Steps() {
		out.Steps = append(out.Steps, StepView{
			Index:      st.Index,
			From:       normalize.Label(st.From),
			To:         normalize.Label(st.To),
			Reaction:   st.Reaction,
			Conditions: st.Reaction.ConditionsLabel(),
		})
	}
	return successResult(out)
}

// HandleCompoundCreate handles the compound_create tool call.
func (h *Handlers) HandleCompoundCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CompoundCreateRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	c, err := ops.CreateCompound(ctx, h.client, ops.CreateCompoundInput{
		Formula:         input.Formula,
		Name:            input.Name,
		MolecularWeight: input.MolecularWeight,
		State:           input.State,
		Class:           input.Class,
	})
	if err != nil {
		return h.fail("compound_create", err), nil
	}

	return successResult(compoundView(*c))
}

// HandleReactionCreate handles the reaction_create tool call.
func (h *Handlers) HandleReactionCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ReactionCreateRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.CreateReaction(ctx, h.client, ops.CreateReactionInput{
		Reactant: input.Reactant,
		Product:  input.Product,
		Conditions: chem.ReactionCondition{
			Reagent:     input.Reagent,
			Temperature: input.Temperature,
			Pressure:    input.Pressure,
			Mechanism:   input.Mechanism,
			Description: input.Description,
		},
	})
	if err != nil {
		return h.fail("reaction_create", err), nil
	}

	return successResult(result)
}

// HandleServiceHealth handles the service_health tool call.
func (h *Handlers) HandleServiceHealth(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.Health(ctx, h.client)
	if err != nil {
		return h.fail("service_health", err), nil
	}
	return successResult(result)
}

func compoundView(c chem.Compound) CompoundView {
	return CompoundView{
		Compound: c,
		Label:    normalize.Label(c),
		Weight:   c.WeightLabel(),
	}
}

// fail logs a failed tool call and converts it to an error result.
func (h *Handlers) fail(tool string, err error) *mcp.CallToolResult {
	h.logger.Debug("tool call failed", zap.String("tool", tool), zap.Error(err))
	return errorResult(err)
}

// Results

// errorResult renders err as a JSON error object. Non-chempath errors
// become a generic INTERNAL error.
// The result carries IsError so clients can tell it from data.
// Internal error details are never exposed.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if cErr, ok := errors.As(err); ok {
		// Keep any context added by wrapping, e.g. "items[2]: ".
		msg := cErr.Message
		if prefix, found := strings.CutSuffix(err.Error(), cErr.Error()); found {
			msg = prefix + msg
		}
		errorObj := map[string]any{
			"code":    cErr.Code,
			"message": msg,
			"status":  cErr.Status,
		}
		if cErr.Code != errors.ErrInternal && cErr.Details != nil {
			errorObj["details"] = cErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    errors.ErrInternal,
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult renders data as JSON tool output.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
