package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSchemaExtractsColumnsInOrder(t *testing.T) {
	sql := `CREATE TABLE events (id String, name String, count Int64) ENGINE = MergeTree ORDER BY id`

	cols, err := ParseSchema(sql)
	require.NoError(t, err)
	require.Len(t, cols, 3)

	assert.Equal(t, "id", cols[0].Name)
	assert.Equal(t, "name", cols[1].Name)
	assert.Equal(t, "count", cols[2].Name)
}

func TestParseSchemaRejectsNonCreateTable(t *testing.T) {
	_, err := ParseSchema(`SELECT 1`)
	assert.Error(t, err)
}

func TestParseSchemaRejectsInvalidSQL(t *testing.T) {
	_, err := ParseSchema(`not sql at all {{{`)
	assert.Error(t, err)
}
