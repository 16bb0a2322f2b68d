package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQueryResultOwnsInputs(t *testing.T) {
	columns := []string{"id", "name"}
	rows := [][]Value{{Integer(1), Text("a")}}

	res := NewQueryResult(columns, rows)

	columns[0] = "mutated"
	rows[0][0] = Integer(99)

	assert.Equal(t, []string{"id", "name"}, res.Columns())
	assert.Equal(t, Integer(1), res.Rows()[0].Values()[0])
}

func TestRowsShareColumnSequence(t *testing.T) {
	res := NewQueryResult([]string{"id"}, [][]Value{
		{Integer(1)},
		{Integer(2)},
		{Integer(3)},
	})

	// One allocation shared by reference: every row's column view points at
	// the result's own sequence.
	for _, row := range res.Rows() {
		assert.Same(t, &res.columns[0], &row.columns[0])
	}
}

func TestRowValueByName(t *testing.T) {
	res := NewQueryResult([]string{"id", "name"}, [][]Value{
		{Integer(1), Text("a")},
	})
	row := res.Rows()[0]

	v, ok := row.Value("name")
	require.True(t, ok)
	assert.Equal(t, Text("a"), v)

	_, ok = row.Value("missing")
	assert.False(t, ok)
}

func TestQueryResultCloseIdempotent(t *testing.T) {
	res := NewQueryResult([]string{"id"}, [][]Value{{Integer(1)}, {Integer(2)}, {Integer(3)}})

	res.Close()
	assert.Nil(t, res.Columns())
	assert.Zero(t, res.RowCount())

	// Second release is a no-op, as is closing an empty result.
	res.Close()
	(&QueryResult{}).Close()
}

func TestQueryResultCloneIndependent(t *testing.T) {
	res := NewQueryResult([]string{"id", "payload"}, [][]Value{
		{Integer(1), Blob([]byte{1, 2})},
	})

	clone := res.Clone()
	res.Close()

	require.Equal(t, []string{"id", "payload"}, clone.Columns())
	require.Equal(t, 1, clone.RowCount())
	assert.Equal(t, Integer(1), clone.Rows()[0].Values()[0])
	assert.Equal(t, Blob([]byte{1, 2}), clone.Rows()[0].Values()[1])
}
