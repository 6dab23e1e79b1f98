package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/chempath/chempath/internal/config"
	"github.com/chempath/chempath/internal/ops"
	"github.com/chempath/chempath/internal/session"
)

// toolEntry binds a tool schema to the Handlers method serving it.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry is keyed by tool name, the same name used in disabled_tools.
var toolRegistry = map[string]toolEntry{
	"compound_list": {
		def:     compoundListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCompoundList },
	},
	"compound_get": {
		def:     compoundGetToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCompoundGet },
	},
	"compound_suggest": {
		def:     compoundSuggestToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCompoundSuggest },
	},
	"path_find": {
		def:     pathFindToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePathFind },
	},
	"path_select": {
		def:     pathSelectToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePathSelect },
	},
	"compound_create": {
		def:     compoundCreateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCompoundCreate },
	},
	"reaction_create": {
		def:     reactionCreateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleReactionCreate },
	},
	"service_health": {
		def:     serviceHealthToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleServiceHealth },
	},
}

// AllToolNames lists every registrable tool, in no particular order.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns the names that match no registered tool.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates an MCP server with the chempath tools registered.
// Tools listed in cfg.DisabledTools are skipped. All tools share one
// session, so path_select sees the result of the last path_find.
func NewServer(client ops.Client, cfg *config.Config, logger *zap.Logger, version string) *server.MCPServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := server.NewMCPServer(
		"chempath",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(client, cfg, session.New(client, cfg.PageSize, logger), logger)

	disabled := make(map[string]bool, len(cfg.DisabledTools))
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run serves the chempath tools over stdin/stdout until the client disconnects.
func Run(client ops.Client, cfg *config.Config, logger *zap.Logger, version string) error {
	s := NewServer(client, cfg, logger, version)
	return server.ServeStdio(s)
}
