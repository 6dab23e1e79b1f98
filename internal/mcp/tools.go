package mcp

import "github.com/mark3labs/mcp-go/mcp"

var compoundListToolDef = mcp.NewTool("compound_list",
	mcp.WithDescription("Search the compound catalogue and return one page of results. "+
		"Omit search to page through the result already held. A new search term starts again at page 1; "+
		"repeating the held term returns the requested page (default 1)."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithString("search", mcp.Description("Substring to match against formula or name. Empty lists everything.")),
	mcp.WithNumber("page", mcp.Description("1-based page number"), mcp.Min(1)),
)

var compoundGetToolDef = mcp.NewTool("compound_get",
	mcp.WithDescription("Look up one or more compounds by formula. Autocomplete labels like \"CH3COOH (Acetic acid)\" are accepted."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithArray("formulas",
		mcp.Required(),
		mcp.Description("Formulas to fetch, at most 20"),
		mcp.WithStringItems(),
	),
)

var compoundSuggestToolDef = mcp.NewTool("compound_suggest",
	mcp.WithDescription("Autocomplete: compounds whose formula or name starts with prefix, with display labels."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithString("prefix", mcp.Required(), mcp.Description("Leading characters of a formula or name")),
	mcp.WithNumber("limit", mcp.Description("Maximum suggestions (default from config, max 50)"), mcp.Min(1), mcp.Max(50)),
)

var pathFindToolDef = mcp.NewTool("path_find",
	mcp.WithDescription("Find reaction pathways from a start compound to a target. "+
		"The result is held so path_select can pick one; the first path is selected."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithString("start", mcp.Required(), mcp.Description("Start formula or autocomplete label")),
	mcp.WithString("end", mcp.Required(), mcp.Description("Target formula or autocomplete label")),
	mcp.WithNumber("max_steps", mcp.Description("Maximum reactions per path (default 5, max 10)"), mcp.Min(1), mcp.Max(10)),
)

var pathSelectToolDef = mcp.NewTool("path_select",
	mcp.WithDescription("Select one path from the last path_find result and return it step by step."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based index into the paths of the last result"), mcp.Min(0)),
)

var compoundCreateToolDef = mcp.NewTool("compound_create",
	mcp.WithDescription("Add a compound to the catalogue."),
	mcp.WithString("formula", mcp.Required(), mcp.Description("Chemical formula")),
	mcp.WithString("name", mcp.Description("Common name")),
	mcp.WithNumber("molecular_weight", mcp.Description("Molecular weight in g/mol, positive")),
	mcp.WithString("state", mcp.Description("Physical state, e.g. liquid")),
	mcp.WithString("class", mcp.Description("Compound class, e.g. alcohol")),
)

var reactionCreateToolDef = mcp.NewTool("reaction_create",
	mcp.WithDescription("Add a reaction step converting reactant into product."),
	mcp.WithString("reactant", mcp.Required(), mcp.Description("Reactant formula")),
	mcp.WithString("product", mcp.Required(), mcp.Description("Product formula")),
	mcp.WithString("reagent", mcp.Required(), mcp.Description("Reagent used for the conversion")),
	mcp.WithNumber("temperature", mcp.Description("Temperature in °C")),
	mcp.WithNumber("pressure", mcp.Description("Pressure in atm")),
	mcp.WithString("mechanism", mcp.Description("Mechanism, e.g. oxidation")),
	mcp.WithString("description", mcp.Description("Free-text description")),
)

var serviceHealthToolDef = mcp.NewTool("service_health",
	mcp.WithDescription("Check that the compound service is reachable."),
	mcp.WithReadOnlyHintAnnotation(true),
)
