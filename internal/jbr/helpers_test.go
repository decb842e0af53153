package jbr

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ejql/ejql/internal/jbl"
	"github.com/ejql/ejql/internal/jql"
)

func mustParseQueryForTest(t *testing.T, text string) *jql.Query {
	t.Helper()
	q, err := jql.Parse(text)
	require.NoError(t, err)
	return q
}

func mustParseDocForTest(t *testing.T, text string) *jbl.Node {
	t.Helper()
	n, err := jbl.Parse(text)
	require.NoError(t, err)
	return n
}
