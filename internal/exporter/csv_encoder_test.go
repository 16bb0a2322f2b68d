package exporter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dbbridge/internal/driver"
)

func TestCSVEncoder(t *testing.T) {
	var buf bytes.Buffer
	enc := NewCSVEncoder(&buf)

	require.NoError(t, enc.WriteHeader([]string{"id", "name", "active", "score", "note"}))
	require.NoError(t, enc.WriteRow([]driver.Value{
		driver.Integer(1),
		driver.Text("alpha"),
		driver.Boolean(true),
		driver.Float(1.5),
		driver.Null(),
	}))
	require.NoError(t, enc.Close())

	assert.Equal(t,
		"id,name,active,score,note\n1,alpha,1,1.5,NULL\n",
		buf.String())
}

func TestCSVEncoderFormulaInjection(t *testing.T) {
	var buf bytes.Buffer
	enc := NewCSVEncoder(&buf)

	require.NoError(t, enc.WriteHeader([]string{"payload"}))
	require.NoError(t, enc.WriteRow([]driver.Value{driver.Text("=cmd|' /C calc'!A0")}))
	require.NoError(t, enc.Close())

	assert.Contains(t, buf.String(), `'=cmd`)
}

func TestRenderCell(t *testing.T) {
	tests := map[string]struct {
		value driver.Value
		want  string
	}{
		"null":          {value: driver.Null(), want: "NULL"},
		"true":          {value: driver.Boolean(true), want: "1"},
		"false":         {value: driver.Boolean(false), want: "0"},
		"integer":       {value: driver.Integer(42), want: "42"},
		"float":         {value: driver.Float(0.25), want: "0.25"},
		"text":          {value: driver.Text("plain"), want: "plain"},
		"blob":          {value: driver.Blob([]byte("raw")), want: "raw"},
		"negative int":  {value: driver.Integer(-5), want: "'-5"},
		"leading plus":  {value: driver.Text("+body"), want: "'+body"},
		"leading at":    {value: driver.Text("@host"), want: "'@host"},
		"leading equal": {value: driver.Text("=SUM(A1)"), want: "'=SUM(A1)"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, renderCell(tc.value))
		})
	}
}
