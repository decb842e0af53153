package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/ejql/ejql/internal/jbr"
)

// serveCommand launches the HTTP/WebSocket facade over the document store.
func (a *App) serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve the document store over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "listen host, overrides config",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "listen port, overrides config",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logger := slog.New(slog.NewTextHandler(os.Stderr, nil)).With("component", "ejql")

			serverCfg := a.Config.Server
			if h := cmd.String("host"); h != "" {
				serverCfg.Host = h
			}
			if p := cmd.Int("port"); p != 0 {
				serverCfg.Port = int(p)
			}

			db, err := a.openStore()
			if err != nil {
				return fmt.Errorf("opening store: %w", err)
			}
			defer db.Close()

			srv, err := jbr.New(ctx, jbr.Options{
				Config:  serverCfg,
				Store:   db,
				Logger:  logger,
				Version: a.Version,
			})
			if err != nil {
				return fmt.Errorf("building server: %w", err)
			}

			go func() {
				<-ctx.Done()
				shutdownCtx := context.Background()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					logger.Error("shutdown error", "error", err)
				}
			}()

			fmt.Printf("%s listening on %s:%d\n", logoStyle.Render("ejql"), serverCfg.Host, serverCfg.Port)
			if err := srv.Start(); err != nil {
				return fmt.Errorf("serving: %w", err)
			}
			return nil
		},
	}
}
