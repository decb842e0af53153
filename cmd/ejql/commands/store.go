package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/ejql/ejql/internal/jbl"
	"github.com/ejql/ejql/internal/jql"
	"github.com/ejql/ejql/internal/store"
)

// openStore opens the document store described by app.Config.Store.
func (a *App) openStore() (*store.DB, error) {
	return store.Open(store.Options{Config: a.Config.Store})
}

// putCommand stores a document in a collection.
func (a *App) putCommand() *cli.Command {
	return &cli.Command{
		Name:      "put",
		Usage:     "store a document in a collection",
		ArgsUsage: "<collection>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "file",
				Usage: "document file to store (default: stdin)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			collection := cmd.Args().First()
			if collection == "" {
				return fmt.Errorf("collection is required")
			}
			doc, err := readDocument(cmd.String("file"))
			if err != nil {
				return err
			}

			db, err := a.openStore()
			if err != nil {
				return fmt.Errorf("opening store: %w", err)
			}
			defer db.Close()

			id, err := db.Put(ctx, collection, doc)
			if err != nil {
				return fmt.Errorf("storing document: %w", err)
			}
			fmt.Println(successStyle.Render(id))
			return nil
		},
	}
}

// getCommand retrieves a document by id.
func (a *App) getCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "retrieve a document by id",
		ArgsUsage: "<collection> <id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "pretty-print the document",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			collection := cmd.Args().Get(0)
			id := cmd.Args().Get(1)
			if collection == "" || id == "" {
				return fmt.Errorf("collection and id are required")
			}

			db, err := a.openStore()
			if err != nil {
				return fmt.Errorf("opening store: %w", err)
			}
			defer db.Close()

			doc, err := db.Get(ctx, collection, id)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("%s", errorStyle.Render("not found"))
				}
				return fmt.Errorf("retrieving document: %w", err)
			}

			if cmd.Bool("pretty") {
				fmt.Println(jbl.MarshalPretty(doc))
			} else {
				fmt.Println(jbl.Marshal(doc))
			}
			return nil
		},
	}
}

// findCommand runs a query against a stored collection, streaming matches
// as they are found.
func (a *App) findCommand() *cli.Command {
	return &cli.Command{
		Name:      "find",
		Usage:     "run a query against a stored collection",
		ArgsUsage: "<collection> <query>",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "bind",
				Usage: "placeholder binding in key=value form, repeatable",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "pretty-print each matched document",
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

			db, err := a.openStore()
			if err != nil {
				return fmt.Errorf("opening store: %w", err)
			}
			defer db.Close()

			count := 0
			err = db.Find(ctx, collection, q, bindings, func(m store.Match) error {
				count++
				if cmd.Bool("pretty") {
					fmt.Println(jbl.MarshalPretty(m.Result.Document))
				} else {
					fmt.Println(jbl.Marshal(m.Result.Document))
				}
				return nil
			})
			if err != nil {
				return fmt.Errorf("running query: %w", err)
			}
			fmt.Println(mutedStyle.Render(fmt.Sprintf("%d match(es)", count)))
			return nil
		},
	}
}
