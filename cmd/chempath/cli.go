package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/chempath/chempath/internal/api"
	"github.com/chempath/chempath/internal/chem"
	"github.com/chempath/chempath/internal/config"
	"github.com/chempath/chempath/internal/errors"
	"github.com/chempath/chempath/internal/mcp"
	"github.com/chempath/chempath/internal/ops"
	"github.com/chempath/chempath/internal/web"
)

// cliEnv is shared by all commands. The client is built in the app's
// Before hook, after global flags are parsed.
type cliEnv struct {
	cfg    *config.Config
	logger *zap.Logger
	client *api.Client
}

// newCLIApp creates the CLI application with all commands.
func newCLIApp(cfg *config.Config, logger *zap.Logger) *cli.App {
	if logger == nil {
		logger = zap.NewNop()
	}
	env := &cliEnv{cfg: cfg, logger: logger}

	app := &cli.App{
		Name:    "chempath",
		Usage:   "Compound lookup and reaction pathway client",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api-url", Usage: "Service base URL (overrides config and " + config.EnvAPIBaseURL + ")"},
		},
		Before: func(c *cli.Context) error {
			if u := strings.TrimSpace(c.String("api-url")); u != "" {
				env.cfg.APIBaseURL = u
			}
			env.client = api.New(api.Config{
				BaseURL: env.cfg.APIBaseURL,
				Timeout: env.cfg.Timeout(),
				Logger:  env.logger,
			})
			return nil
		},
		Commands: []*cli.Command{
			healthCmd(env),
			compoundsCmd(env),
			compoundCmd(env),
			suggestCmd(env),
			pathsCmd(env),
			addCompoundCmd(env),
			addReactionCmd(env),
			serveCmd(env),
			mcpCmd(env),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// healthCmd creates the health command.
func healthCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:  "health",
		Usage: "Check that the service is reachable",
		Action: func(c *cli.Context) error {
			output, err := ops.Health(c.Context, env.client)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// compoundsCmd creates the compounds command.
func compoundsCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:  "compounds",
		Usage: "List compounds, optionally filtered by a search term",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "Substring filter"},
			&cli.IntFlag{Name: "page", Aliases: []string{"p"}, Value: 1, Usage: "Page number (1-based)"},
			&cli.IntFlag{Name: "page-size", Usage: "Compounds per page (default from config)"},
		},
		Action: func(c *cli.Context) error {
			pageSize := env.cfg.PageSize
			if c.IsSet("page-size") {
				pageSize = c.Int("page-size")
			}
			output, err := ops.ListCompounds(c.Context, env.client, ops.ListCompoundsInput{
				Search:   c.String("search"),
				Page:     c.Int("page"),
				PageSize: pageSize,
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// compoundCmd creates the compound command. One formula prints an object,
// several print an array in argument order.
func compoundCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:      "compound",
		Usage:     "Look up compounds by formula or label",
		ArgsUsage: "FORMULA...",
		Action: func(c *cli.Context) error {
			args := c.Args().Slice()
			switch len(args) {
			case 0:
				return outputError(errors.NewInvalidRequest("at least one formula is required"))
			case 1:
				output, err := ops.GetCompound(c.Context, env.client, ops.GetCompoundInput{Formula: args[0]})
				if err != nil {
					return outputError(err)
				}
				return outputJSON(c.App.Writer, output)
			default:
				output, err := ops.GetCompounds(c.Context, env.client, args)
				if err != nil {
					return outputError(err)
				}
				return outputJSON(c.App.Writer, output)
			}
		},
	}
}

// suggestCmd creates the suggest command.
func suggestCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:      "suggest",
		Usage:     "Autocomplete compounds by formula or name prefix",
		ArgsUsage: "PREFIX",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Maximum suggestions (default from config)"},
		},
		Action: func(c *cli.Context) error {
			limit := env.cfg.SuggestionLimit
			if c.IsSet("limit") {
				limit = c.Int("limit")
			}
			output, err := ops.Suggest(c.Context, env.client, ops.SuggestInput{
				Prefix: c.Args().First(),
				Limit:  limit,
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// pathsCmd creates the paths command.
func pathsCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:      "paths",
		Usage:     "Find reaction pathways between two compounds",
		ArgsUsage: "START END",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "max-steps", Aliases: []string{"m"}, Usage: "Maximum reaction steps (default from config)"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return outputError(errors.NewInvalidRequest("start and end are required"))
			}
			maxSteps := env.cfg.DefaultMaxSteps
			if c.IsSet("max-steps") {
				maxSteps = c.Int("max-steps")
			}
			output, err := ops.FindPaths(c.Context, env.client, ops.FindPathsInput{
				Start:    c.Args().Get(0),
				End:      c.Args().Get(1),
				MaxSteps: maxSteps,
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// addCompoundCmd creates the add-compound command.
func addCompoundCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:      "add-compound",
		Usage:     "Register a new compound with the service",
		ArgsUsage: "FORMULA",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Common name"},
			&cli.Float64Flag{Name: "mw", Usage: "Molecular weight in g/mol"},
			&cli.StringFlag{Name: "state", Usage: "Physical state (solid, liquid, gas)"},
			&cli.StringFlag{Name: "class", Usage: "Compound class"},
		},
		Action: func(c *cli.Context) error {
			input := ops.CreateCompoundInput{Formula: c.Args().First()}
			if c.IsSet("name") {
				name := c.String("name")
				input.Name = &name
			}
			if c.IsSet("mw") {
				mw := c.Float64("mw")
				input.MolecularWeight = &mw
			}
			if c.IsSet("state") {
				state := c.String("state")
				input.State = &state
			}
			if c.IsSet("class") {
				class := c.String("class")
				input.Class = &class
			}

			output, err := ops.CreateCompound(c.Context, env.client, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// addReactionCmd creates the add-reaction command.
func addReactionCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:      "add-reaction",
		Usage:     "Register a reaction step between two compounds",
		ArgsUsage: "REACTANT PRODUCT",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "reagent", Aliases: []string{"r"}, Usage: "Reagent (required)"},
			&cli.Float64Flag{Name: "temperature", Aliases: []string{"t"}, Usage: "Temperature in °C"},
			&cli.Float64Flag{Name: "pressure", Usage: "Pressure in atm"},
			&cli.StringFlag{Name: "mechanism", Usage: "Reaction mechanism"},
			&cli.StringFlag{Name: "description", Usage: "Free-text description"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return outputError(errors.NewInvalidRequest("reactant and product are required"))
			}
			cond := chem.ReactionCondition{
				Reagent:     c.String("reagent"),
				Mechanism:   c.String("mechanism"),
				Description: c.String("description"),
			}
			if c.IsSet("temperature") {
				t := c.Float64("temperature")
				cond.Temperature = &t
			}
			if c.IsSet("pressure") {
				p := c.Float64("pressure")
				cond.Pressure = &p
			}

			output, err := ops.CreateReaction(c.Context, env.client, ops.CreateReactionInput{
				Reactant:   c.Args().Get(0),
				Product:    c.Args().Get(1),
				Conditions: cond,
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Aliases: []string{"b"}, Value: "127.0.0.1", Usage: "Address to bind to"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 8080, Usage: "Port to listen on"},
		},
		Action: func(c *cli.Context) error {
			port := c.Int("port")
			if port < 1 || port > 65535 {
				return outputError(errors.NewInvalidRequest(fmt.Sprintf("invalid port %d", port)))
			}
			srv, err := web.NewServer(env.client, env.cfg, env.logger, Version, c.String("bind"), port)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			if err := web.Run(srv, env.logger); err != nil {
				return outputError(errors.NewInternal(err))
			}
			return nil
		},
	}
}

// mcpCmd creates the mcp command, which serves tools over stdio.
func mcpCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve MCP tools over stdio",
		Action: func(c *cli.Context) error {
			if unknown := mcp.ValidateDisabledTools(env.cfg.DisabledTools); len(unknown) > 0 {
				env.logger.Warn("unknown tools in disabled_tools",
					zap.Strings("unknown", unknown),
					zap.Strings("valid", mcp.AllToolNames()),
				)
			}
			env.logger.Info("mcp server starting", zap.String("api_base_url", env.client.BaseURL()))
			if err := mcp.Run(env.client, env.cfg, env.logger, Version); err != nil {
				return outputError(errors.NewInternal(err))
			}
			return nil
		},
	}
}

// Helper functions

// outputJSON writes v to w as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if cErr, ok := errors.As(err); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", cErr.Code, cErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
