package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/ejql/ejql/internal/jbl"
)

// patchCommand applies an RFC6902 patch, or an RFC7386 merge patch under
// --merge, to a document and prints the result.
func (a *App) patchCommand() *cli.Command {
	return &cli.Command{
		Name:      "patch",
		Usage:     "apply a JSON patch or merge patch to a document",
		ArgsUsage: "<patch-file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "file",
				Usage: "document file to patch (default: stdin)",
			},
			&cli.BoolFlag{
				Name:  "merge",
				Usage: "treat the patch file as an RFC7386 merge patch instead of an operation sequence",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "pretty-print the resulting document",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			patchPath := cmd.Args().First()
			if patchPath == "" {
				return fmt.Errorf("patch file is required")
			}
			patchText, err := os.ReadFile(patchPath)
			if err != nil {
				return fmt.Errorf("reading patch file: %w", err)
			}

			doc, err := readDocument(cmd.String("file"))
			if err != nil {
				return err
			}

			var result *jbl.Node
			if cmd.Bool("merge") {
				patch, err := jbl.Parse(string(patchText))
				if err != nil {
					return fmt.Errorf("%s %w", errorStyle.Render("invalid merge patch:"), err)
				}
				result = jbl.MergePatch(doc, patch)
			} else {
				ops, err := parsePatchOps(string(patchText))
				if err != nil {
					return fmt.Errorf("%s %w", errorStyle.Render("invalid patch:"), err)
				}
				result, err = jbl.ApplyPatch(doc, ops)
				if err != nil {
					return fmt.Errorf("%s %w", errorStyle.Render("patch failed:"), err)
				}
			}

			if cmd.Bool("pretty") {
				fmt.Println(jbl.MarshalPretty(result))
			} else {
				fmt.Println(jbl.Marshal(result))
			}
			return nil
		},
	}
}

// readDocument loads a document from path, or stdin when path is empty.
func readDocument(path string) (*jbl.Node, error) {
	var text []byte
	var err error
	if path == "" {
		text, err = io.ReadAll(os.Stdin)
	} else {
		text, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	doc, err := jbl.Parse(string(text))
	if err != nil {
		return nil, fmt.Errorf("%s %w", errorStyle.Render("invalid document:"), err)
	}
	return doc, nil
}

// parsePatchOps converts a JSON array of RFC6902 operation objects into
// jbl.PatchOp values.
func parsePatchOps(text string) ([]jbl.PatchOp, error) {
	doc, err := jbl.Parse(text)
	if err != nil {
		return nil, err
	}
	if doc.Kind() != jbl.Array {
		return nil, fmt.Errorf("patch document must be a JSON array of operations")
	}

	ops := make([]jbl.PatchOp, 0, doc.Len())
	for _, entry := range doc.Children() {
		if entry.Kind() != jbl.Object {
			return nil, fmt.Errorf("patch operation must be an object")
		}
		opNode := entry.Get("op")
		pathNode := entry.Get("path")
		if opNode == nil || opNode.Kind() != jbl.String {
			return nil, fmt.Errorf("patch operation missing string \"op\"")
		}
		if pathNode == nil || pathNode.Kind() != jbl.String {
			return nil, fmt.Errorf("patch operation missing string \"path\"")
		}

		op := jbl.PatchOp{
			Op:    opNode.StringValue(),
			Path:  pathNode.StringValue(),
			Value: entry.Get("value"),
		}
		if from := entry.Get("from"); from != nil {
			op.From = from.StringValue()
		}
		ops = append(ops, op)
	}
	return ops, nil
}
