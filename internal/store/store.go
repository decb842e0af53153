package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ejql/ejql/internal/jbl"
	"github.com/ejql/ejql/internal/jql"
)

// ErrNotFound is returned by Get when no document exists under the given
// collection/id pair.
var ErrNotFound = errors.New("store: document not found")

// Put inserts doc into collection under a newly generated id and returns
// that id. doc is serialized through jbl.Marshal before storage.
func (db *DB) Put(ctx context.Context, collection string, doc *jbl.Node) (string, error) {
	id := uuid.NewString()
	body := jbl.Marshal(doc)
	_, err := db.writeDB.ExecContext(ctx,
		`INSERT INTO documents (collection, id, body) VALUES (?, ?, ?)`,
		collection, id, body,
	)
	if err != nil {
		return "", fmt.Errorf("store: put: %w", err)
	}
	docsCounter(collection).Inc()
	return id, nil
}

// Get retrieves and decodes the document stored under collection/id.
func (db *DB) Get(ctx context.Context, collection, id string) (*jbl.Node, error) {
	var body string
	err := db.readDB.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE collection = ? AND id = ?`,
		collection, id,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get: %w", err)
	}
	return jbl.Parse(body)
}

// Delete removes the document stored under collection/id.
func (db *DB) Delete(ctx context.Context, collection, id string) error {
	res, err := db.writeDB.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND id = ?`,
		collection, id,
	)
	if err != nil {
		return fmt.Errorf("store: delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: delete: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Match pairs a document id with the jql.Result produced for it.
type Match struct {
	ID     string
	Result jql.Result
}

// Find runs q (already parsed) against every document in collection,
// streaming matches to fn in id order. Iteration stops at the first error
// fn returns.
func (db *DB) Find(ctx context.Context, collection string, q *jql.Query, bindings jql.Bindings, fn func(Match) error) error {
	rows, err := db.readDB.QueryContext(ctx,
		`SELECT id, body FROM documents WHERE collection = ? ORDER BY id`,
		collection,
	)
	if err != nil {
		return fmt.Errorf("store: find: %w", err)
	}
	defer rows.Close()

	matched := 0
	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			return fmt.Errorf("store: find: scanning row: %w", err)
		}
		doc, err := jbl.Parse(body)
		if err != nil {
			return fmt.Errorf("store: find: decoding document %s/%s: %w", collection, id, err)
		}
		res, err := jql.Match(q, doc, bindings)
		if err != nil {
			return fmt.Errorf("store: find: matching document %s/%s: %w", collection, id, err)
		}
		if !res.Matched {
			continue
		}
		matched++
		if err := fn(Match{ID: id, Result: res}); err != nil {
			return err
		}
	}
	if matched > 0 {
		matchesCounter(collection).Add(matched)
	}
	return rows.Err()
}
