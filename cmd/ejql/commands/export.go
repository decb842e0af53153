package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/ejql/ejql/internal/export"
	"github.com/ejql/ejql/internal/jql"
)

// exportCommand batch-exports matching documents from a collection into a
// ClickHouse table.
func (a *App) exportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "export matching documents to ClickHouse",
		ArgsUsage: "<collection> <query>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "dsn",
				Usage: "ClickHouse DSN, overrides config",
			},
			&cli.StringFlag{
				Name:  "table",
				Usage: "destination table name, overrides config",
			},
			&cli.StringFlag{
				Name:     "schema-sql",
				Usage:    "path to a CREATE TABLE statement describing the destination columns",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:  "bind",
				Usage: "placeholder binding in key=value form, repeatable",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			collection := cmd.Args().Get(0)
			text := cmd.Args().Get(1)
			if collection == "" || text == "" {
				return fmt.Errorf("collection and query are required")
			}

			q, err := jql.Parse(text)
			if err != nil {
				return fmt.Errorf("%s %w", errorStyle.Render("parse error:"), err)
			}
			bindings, err := parseBindFlags(cmd.StringSlice("bind"))
			if err != nil {
				return err
			}

			schemaSQL, err := os.ReadFile(cmd.String("schema-sql"))
			if err != nil {
				return fmt.Errorf("reading schema file: %w", err)
			}
			columns, err := export.ParseSchema(string(schemaSQL))
			if err != nil {
				return fmt.Errorf("parsing schema: %w", err)
			}

			cfg := a.Config.Export
			if dsn := cmd.String("dsn"); dsn != "" {
				cfg.DSN = dsn
			}
			if table := cmd.String("table"); table != "" {
				cfg.Table = table
			}
			if cfg.DSN == "" {
				return fmt.Errorf("ClickHouse DSN is required (--dsn or config export.dsn)")
			}
			if cfg.Table == "" {
				return fmt.Errorf("destination table is required (--table or config export.table)")
			}

			db, err := a.openStore()
			if err != nil {
				return fmt.Errorf("opening store: %w", err)
			}
			defer db.Close()

			logger := slog.New(slog.NewTextHandler(os.Stderr, nil)).With("component", "export")

			count, err := export.Run(ctx, db, collection, q, bindings, cfg, columns, logger)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
			fmt.Println(successStyle.Render(fmt.Sprintf("exported %d document(s) to %s", count, cfg.Table)))
			return nil
		},
	}
}
