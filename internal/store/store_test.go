package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ejql/ejql/internal/jbl"
	"github.com/ejql/ejql/internal/jql"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(Options{Config: Config{Path: ":memory:"}})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func mustParseDoc(t *testing.T, text string) *jbl.Node {
	t.Helper()
	n, err := jbl.Parse(text)
	require.NoError(t, err)
	return n
}

func TestPutGetRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	doc := mustParseDoc(t, `{"name": "alice", "age": 30}`)
	id, err := db.Put(ctx, "users", doc)
	require.NoError(t, err)

	got, err := db.Get(ctx, "users", id)
	require.NoError(t, err)
	assert.True(t, jbl.Equal(doc, got), "round trip mismatch: got %s, want %s", jbl.Marshal(got), jbl.Marshal(doc))
}

func TestGetMissingReturnsErrNotFound(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, err := db.Get(ctx, "users", "does-not-exist")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteRemovesDocument(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	id, err := db.Put(ctx, "users", mustParseDoc(t, `{"x": 1}`))
	require.NoError(t, err)
	require.NoError(t, db.Delete(ctx, "users", id))

	_, err = db.Get(ctx, "users", id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteMissingReturnsErrNotFound(t *testing.T) {
	db := openTestDB(t)
	err := db.Delete(context.Background(), "users", "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindMatchesOnlyQualifyingDocuments(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	docs := []string{
		`{"name": "alice", "role": "admin"}`,
		`{"name": "bob", "role": "user"}`,
		`{"name": "carol", "role": "admin"}`,
	}
	for _, d := range docs {
		_, err := db.Put(ctx, "users", mustParseDoc(t, d))
		require.NoError(t, err)
	}

	q, err := jql.Parse(`/[role = "admin"]`)
	require.NoError(t, err)

	var names []string
	err = db.Find(ctx, "users", q, nil, func(m Match) error {
		name := m.Result.Document.Get("name")
		require.NotNil(t, name, "missing name field in matched document")
		names = append(names, name.StringValue())
		return nil
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "carol"}, names)
}

func TestFindAcrossCollectionsIsolated(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, err := db.Put(ctx, "users", mustParseDoc(t, `{"name": "alice"}`))
	require.NoError(t, err)
	_, err = db.Put(ctx, "orders", mustParseDoc(t, `{"name": "widget"}`))
	require.NoError(t, err)

	q, err := jql.Parse(`/*`)
	require.NoError(t, err)

	var count int
	err = db.Find(ctx, "orders", q, nil, func(Match) error {
		count++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestFindStopsOnCallbackError(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := db.Put(ctx, "users", mustParseDoc(t, `{"x": 1}`))
		require.NoError(t, err)
	}

	q, err := jql.Parse(`/*`)
	require.NoError(t, err)

	stop := errors.New("stop")
	seen := 0
	err = db.Find(ctx, "users", q, nil, func(Match) error {
		seen++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, seen)
}
