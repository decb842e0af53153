package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/ejql/ejql/internal/jql"
)

// parseCommand parses a query and prints its canonical re-serialization and,
// under --ast, the parsed AST.
func (a *App) parseCommand() *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "parse a query and print its canonical form (and its AST with --ast)",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "ast",
				Usage: "also print the parsed AST as pretty JSON",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			text := cmd.Args().First()
			if text == "" {
				return fmt.Errorf("query is required")
			}

			q, err := jql.Parse(text)
			if err != nil {
				return fmt.Errorf("%s %w", errorStyle.Render("parse error:"), err)
			}

			fmt.Printf("%s %s\n", mutedStyle.Render("canonical:"), jql.Print(q))

			if cmd.Bool("ast") {
				ast, err := json.MarshalIndent(q, "", "  ")
				if err != nil {
					return fmt.Errorf("rendering AST: %w", err)
				}
				fmt.Println(mutedStyle.Render("ast:"))
				fmt.Println(string(ast))
			}
			return nil
		},
	}
}
