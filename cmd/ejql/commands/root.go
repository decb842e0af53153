// Package commands provides the CLI command definitions for ejql.
package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/urfave/cli/v3"

	"github.com/ejql/ejql/internal/config"
)

var (
	logoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7C3AED")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))
)

// App holds state shared across subcommands.
type App struct {
	Config  *config.Config
	Version string
	Commit  string
	Date    string
}

// New creates the root CLI command with all subcommands registered.
func New(version, commit, date string) *cli.Command {
	app := &App{Version: version, Commit: commit, Date: date}

	return &cli.Command{
		Name:    "ejql",
		Usage:   "query, patch, and serve JSON documents",
		Version: version,
		Description: `ejql is a standalone implementation of EJDB2's query language
over a flat document store.

   Use 'ejql query' to match a single document, 'ejql find' to search a
   stored collection, or 'ejql serve' to expose the facade over HTTP.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config file",
				Sources: cli.EnvVars("EJQL_CONFIG"),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "disable colored output",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				log.SetLevel(log.DebugLevel)
			}
			if cmd.Bool("no-color") {
				log.SetStyles(log.DefaultStyles())
				log.SetColorProfile(termenv.Ascii)
				lipgloss.SetHasDarkBackground(false)
				lipgloss.SetColorProfile(termenv.Ascii)
			}

			path := cmd.String("config")
			if path == "" {
				path = config.DefaultPath()
			}
			cfg, err := config.Load(path)
			if err != nil {
				log.Debug("config load warning", "error", err)
				cfg = config.Default()
			}
			app.Config = cfg
			return ctx, nil
		},
		Commands: []*cli.Command{
			app.parseCommand(),
			app.queryCommand(),
			app.patchCommand(),
			app.putCommand(),
			app.getCommand(),
			app.findCommand(),
			app.serveCommand(),
			app.exportCommand(),
			app.configCommand(),
			app.versionCommand(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
	}
}

// versionCommand shows version information.
func (a *App) versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "show version information",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			fmt.Printf("%s version %s\n", logoStyle.Render("ejql"), a.Version)
			fmt.Printf("  commit: %s\n", mutedStyle.Render(a.Commit))
			fmt.Printf("  built:  %s\n", mutedStyle.Render(a.Date))
			return nil
		},
	}
}

// isTerminal returns true if stdout is a terminal.
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
