package commands

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/ejql/ejql/internal/config"
)

// configCommand manages the on-disk CLI/server configuration file.
func (a *App) configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "manage ejql configuration",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "show the active configuration",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return a.runConfigShow()
				},
			},
			{
				Name:  "init",
				Usage: "initialize configuration interactively",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return a.runConfigInit(cmd)
				},
			},
		},
	}
}

func (a *App) runConfigShow() error {
	fmt.Printf("Store path:    %s\n", a.Config.Store.Path)
	fmt.Printf("Server host:   %s\n", a.Config.Server.Host)
	fmt.Printf("Server port:   %d\n", a.Config.Server.Port)
	fmt.Printf("OIDC issuer:   %s\n", displayOrUnset(a.Config.Server.OIDC.ProviderURL))
	fmt.Printf("Export DSN:    %s\n", displayOrUnset(a.Config.Export.DSN))
	fmt.Printf("Export table:  %s\n", displayOrUnset(a.Config.Export.Table))
	fmt.Printf("Log level:     %s\n", a.Config.Logging.Level)
	return nil
}

func displayOrUnset(s string) string {
	if s == "" {
		return errorStyle.Render("not set")
	}
	return s
}

func (a *App) runConfigInit(cmd *cli.Command) error {
	cfg := config.Default()
	var port string

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Document store path").
				Description("SQLite database file").
				Value(&cfg.Store.Path),
			huh.NewInput().
				Title("Server host").
				Value(&cfg.Server.Host),
			huh.NewInput().
				Title("Server port").
				Value(&port),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("OIDC provider URL").
				Description("leave blank to disable authentication").
				Value(&cfg.Server.OIDC.ProviderURL),
			huh.NewInput().
				Title("OIDC client ID").
				Value(&cfg.Server.OIDC.ClientID),
		),
	).Run()
	if err != nil {
		return fmt.Errorf("prompt cancelled: %w", err)
	}
	if port != "" {
		fmt.Sscanf(port, "%d", &cfg.Server.Port)
	}

	path := cmd.String("config")
	if path == "" {
		path = config.DefaultPath()
	}
	if err := cfg.Save(path); err != nil {
		return err
	}
	fmt.Println(successStyle.Render("saved configuration to " + path))
	return nil
}
