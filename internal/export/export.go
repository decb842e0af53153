package export

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ejql/ejql/internal/jql"
	"github.com/ejql/ejql/internal/store"
)

// Run matches every document in collection against q and writes the
// survivors to a Sink built from cfg/columns, returning the number of rows
// written.
func Run(ctx context.Context, db *store.DB, collection string, q *jql.Query, bindings jql.Bindings, cfg Config, columns []Column, log *slog.Logger) (int, error) {
	sink, err := Open(ctx, cfg, columns, log)
	if err != nil {
		return 0, err
	}
	defer sink.Close()

	written := 0
	err = db.Find(ctx, collection, q, bindings, func(m store.Match) error {
		if err := sink.Write(m.Result.Document); err != nil {
			return fmt.Errorf("export: writing document %s: %w", m.ID, err)
		}
		written++
		return nil
	})
	if err != nil {
		return written, err
	}
	if err := sink.Flush(); err != nil {
		return written, err
	}
	return written, nil
}
