package exporter

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dbbridge/internal/driver"
)

func TestStreamQuery(t *testing.T) {
	ctx := context.Background()

	conn := driver.NewMockConnection()
	require.NoError(t, conn.Connect(ctx, driver.Config{}))
	conn.EnqueueResult(driver.NewQueryResult([]string{"id", "name"}, [][]driver.Value{
		{driver.Integer(1), driver.Text("a")},
		{driver.Integer(2), driver.Text("b")},
	}))

	var buf bytes.Buffer
	stats, err := NewStreamer(conn).StreamQuery(ctx, "SELECT id, name FROM users", NewCSVEncoder(&buf))
	require.NoError(t, err)

	assert.EqualValues(t, 2, stats.RowsProcessed)
	assert.Equal(t, "id,name\n1,a\n2,b\n", buf.String())
	assert.Equal(t, []string{"SELECT id, name FROM users"}, conn.Log())
}

func TestStreamQueryFailure(t *testing.T) {
	ctx := context.Background()

	conn := driver.NewMockConnection()
	require.NoError(t, conn.Connect(ctx, driver.Config{}))
	conn.FailQuery = true

	var buf bytes.Buffer
	_, err := NewStreamer(conn).StreamQuery(ctx, "SELECT 1", NewCSVEncoder(&buf))
	assert.ErrorIs(t, err, driver.ErrQueryExecutionFailed)
	assert.Zero(t, buf.Len())
}

func TestStreamQueryEmptyQueue(t *testing.T) {
	ctx := context.Background()

	conn := driver.NewMockConnection()
	require.NoError(t, conn.Connect(ctx, driver.Config{}))

	var buf bytes.Buffer
	stats, err := NewStreamer(conn).StreamQuery(ctx, "SELECT 1", NewCSVEncoder(&buf))
	require.NoError(t, err)
	assert.Zero(t, stats.RowsProcessed)
}
