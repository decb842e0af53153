package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/ejql/ejql/internal/jbl"
	"github.com/ejql/ejql/internal/jql"
)

// queryCommand matches a single document against a query and prints the
// result, applying any apply/projection clause the query carries.
func (a *App) queryCommand() *cli.Command {
	return &cli.Command{
		Name:      "query",
		Usage:     "match a document against a query",
		ArgsUsage: "[query]",
		Description: `Match a single document against a query.

If no query is given and stdout is a terminal, an interactive query
builder prompt is launched instead.

Examples:
   ejql query '/[role = "admin"]' --file user.json
   ejql query '/*/[status >= 400]' --file events.json --bind threshold=500`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "file",
				Usage: "document file to match (default: stdin)",
			},
			&cli.StringSliceFlag{
				Name:  "bind",
				Usage: "placeholder binding in key=value form, repeatable",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "pretty-print the resulting document",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			text := cmd.Args().First()
			if text == "" && isTerminal() {
				prompted, err := promptForQuery()
				if err != nil {
					return err
				}
				text = prompted
			}
			if text == "" {
				return fmt.Errorf("query is required")
			}

			q, err := jql.Parse(text)
			if err != nil {
				return fmt.Errorf("%s %w", errorStyle.Render("parse error:"), err)
			}

			bindings, err := parseBindFlags(cmd.StringSlice("bind"))
			if err != nil {
				return err
			}

			doc, err := readDocument(cmd.String("file"))
			if err != nil {
				return err
			}

			result, err := jql.Match(q, doc, bindings)
			if err != nil {
				return fmt.Errorf("%s %w", errorStyle.Render("match error:"), err)
			}

			if !result.Matched {
				fmt.Println(errorStyle.Render("no match"))
				return nil
			}
			fmt.Println(successStyle.Render("match"))
			if result.Document != nil {
				if cmd.Bool("pretty") {
					fmt.Println(jbl.MarshalPretty(result.Document))
				} else {
					fmt.Println(jbl.Marshal(result.Document))
				}
			}
			return nil
		},
	}
}

// parseBindFlags converts "key=value" strings into jql.Bindings, parsing
// each value as JSON and falling back to a plain string.
func parseBindFlags(raw []string) (jql.Bindings, error) {
	bindings := jql.Bindings{}
	for _, kv := range raw {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid --bind %q, expected key=value", kv)
		}
		key, value := parts[0], parts[1]
		if node, err := jbl.Parse(value); err == nil {
			bindings[key] = node
		} else {
			bindings[key] = jbl.NewString(value)
		}
	}
	return bindings, nil
}

// promptForQuery launches an interactive query builder when no query
// string was given on the command line.
func promptForQuery() (string, error) {
	var text string
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Query").
				Description("enter a query, e.g. /[role = \"admin\"]").
				Value(&text),
		),
	).Run()
	if err != nil {
		return "", fmt.Errorf("prompt cancelled: %w", err)
	}
	return text, nil
}
