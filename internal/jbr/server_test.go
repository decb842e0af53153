package jbr

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ejql/ejql/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	db, err := store.Open(store.Options{Config: store.Config{Path: ":memory:"}})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s, err := New(context.Background(), Options{
		Config: Config{Host: "127.0.0.1", Port: 0},
		Store:  db,
	})
	require.NoError(t, err)
	return s
}

func TestHandlePutDocStoresDocument(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPut, "/collections/users/docs", strings.NewReader(`{"name":"alice"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `"id"`)
}

func TestHandlePutDocRejectsInvalidJSON(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPut, "/collections/users/docs", strings.NewReader(`not json`))
	resp, err := s.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleQueryStreamsNDJSONMatches(t *testing.T) {
	s := newTestServer(t)

	for _, doc := range []string{`{"role":"admin","name":"alice"}`, `{"role":"user","name":"bob"}`} {
		req := httptest.NewRequest(http.MethodPut, "/collections/users/docs", strings.NewReader(doc))
		resp, err := s.app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	body := strings.NewReader(`{"query": "/[role = \"admin\"]"}`)
	req := httptest.NewRequest(http.MethodPost, "/collections/users/query", body)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	scanner := bufio.NewScanner(resp.Body)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	require.Len(t, lines, 1)
	require.Contains(t, lines[0], "alice")
}

func TestHandleMetaReportsUnauthenticatedByDefault(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/meta", nil)
	resp, err := s.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `"authenticated":false`)
}

func TestTailRegistryNotifiesMatchingSubscription(t *testing.T) {
	q := mustParseQueryForTest(t, `/[role = "admin"]`)
	r := newTailRegistry()
	sub := r.subscribe("users", q, nil)
	defer r.unsubscribe(sub)

	r.notify("users", mustParseDocForTest(t, `{"role":"user"}`))
	select {
	case <-sub.docs:
		t.Fatal("non-matching document should not be forwarded")
	default:
	}

	r.notify("users", mustParseDocForTest(t, `{"role":"admin"}`))
	select {
	case doc := <-sub.docs:
		require.Equal(t, "admin", doc.Get("role").StringValue())
	default:
		t.Fatal("expected matching document to be forwarded")
	}
}
