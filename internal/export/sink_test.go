package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ejql/ejql/internal/jbl"
)

func TestProjectColumnCoercesScalarKinds(t *testing.T) {
	doc, err := jbl.Parse(`{"id": "abc", "count": 3, "ratio": 1.5, "active": true, "missing_is_null": null}`)
	require.NoError(t, err)

	assert.Equal(t, "abc", projectColumn(doc, Column{Name: "id"}))
	assert.Equal(t, int64(3), projectColumn(doc, Column{Name: "count"}))
	assert.Equal(t, 1.5, projectColumn(doc, Column{Name: "ratio"}))
	assert.Equal(t, true, projectColumn(doc, Column{Name: "active"}))
	assert.Nil(t, projectColumn(doc, Column{Name: "missing_is_null"}))
	assert.Nil(t, projectColumn(doc, Column{Name: "does_not_exist"}))
}

func TestProjectColumnMarshalsContainers(t *testing.T) {
	doc, err := jbl.Parse(`{"tags": ["a", "b"]}`)
	require.NoError(t, err)

	got := projectColumn(doc, Column{Name: "tags"})
	assert.Equal(t, `["a","b"]`, got)
}

func TestInsertSQLListsColumnsAndPlaceholders(t *testing.T) {
	s := &Sink{
		table:   "events",
		columns: []Column{{Name: "id"}, {Name: "name"}},
	}
	assert.Equal(t, "INSERT INTO events (id, name) VALUES (?, ?)", s.insertSQL())
}
