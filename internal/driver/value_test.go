package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoercePostgres(t *testing.T) {
	tests := map[string]struct {
		typeName string
		raw      string
		want     Value
	}{
		"int2":                    {typeName: "INT2", raw: "7", want: Integer(7)},
		"int4":                    {typeName: "INT4", raw: "42", want: Integer(42)},
		"int8":                    {typeName: "INT8", raw: "-9001", want: Integer(-9001)},
		"malformed integer":       {typeName: "INT8", raw: "forty-two", want: Null()},
		"float4":                  {typeName: "FLOAT4", raw: "1.5", want: Float(1.5)},
		"float8":                  {typeName: "FLOAT8", raw: "-0.25", want: Float(-0.25)},
		"numeric":                 {typeName: "NUMERIC", raw: "19.99", want: Float(19.99)},
		"malformed numeric":       {typeName: "NUMERIC", raw: "n/a", want: Null()},
		"bool t":                  {typeName: "BOOL", raw: "t", want: Boolean(true)},
		"bool true":               {typeName: "BOOL", raw: "true", want: Boolean(true)},
		"bool 1":                  {typeName: "BOOL", raw: "1", want: Boolean(true)},
		"bool f":                  {typeName: "BOOL", raw: "f", want: Boolean(false)},
		"varchar":                 {typeName: "VARCHAR", raw: "hello", want: Text("hello")},
		"json":                    {typeName: "JSONB", raw: `{"a":1}`, want: Text(`{"a":1}`)},
		"bytea":                   {typeName: "BYTEA", raw: "\x00\x01", want: Blob([]byte("\x00\x01"))},
		"timestamp stays textual": {typeName: "TIMESTAMP", raw: "2024-01-02 03:04:05", want: Text("2024-01-02 03:04:05")},
		"unknown type defaults":   {typeName: "TSVECTOR", raw: "'a':1", want: Text("'a':1")},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, coercePostgres(tc.typeName, []byte(tc.raw)))
		})
	}
}

func TestCoerceMySQL(t *testing.T) {
	tests := map[string]struct {
		typeName string
		raw      string
		want     Value
	}{
		"tinyint":                {typeName: "TINYINT", raw: "1", want: Integer(1)},
		"smallint":               {typeName: "SMALLINT", raw: "12", want: Integer(12)},
		"mediumint":              {typeName: "MEDIUMINT", raw: "123", want: Integer(123)},
		"int":                    {typeName: "INT", raw: "42", want: Integer(42)},
		"bigint":                 {typeName: "BIGINT", raw: "9000000000", want: Integer(9000000000)},
		"unsigned int":           {typeName: "UNSIGNED INT", raw: "42", want: Integer(42)},
		"malformed integer":      {typeName: "INT", raw: "abc", want: Null()},
		"float":                  {typeName: "FLOAT", raw: "1.5", want: Float(1.5)},
		"double":                 {typeName: "DOUBLE", raw: "2.25", want: Float(2.25)},
		"decimal":                {typeName: "DECIMAL", raw: "19.99", want: Float(19.99)},
		"malformed decimal":      {typeName: "DECIMAL", raw: "oops", want: Null()},
		"varchar":                {typeName: "VARCHAR", raw: "hello", want: Text("hello")},
		"json":                   {typeName: "JSON", raw: `[1,2]`, want: Text(`[1,2]`)},
		"blob":                   {typeName: "BLOB", raw: "\xde\xad", want: Blob([]byte("\xde\xad"))},
		"varbinary":              {typeName: "VARBINARY", raw: "xy", want: Blob([]byte("xy"))},
		"datetime stays textual": {typeName: "DATETIME", raw: "2024-01-02 03:04:05", want: Text("2024-01-02 03:04:05")},
		"year stays textual":     {typeName: "YEAR", raw: "2024", want: Text("2024")},
		"unknown type defaults":  {typeName: "GEOMETRY", raw: "POINT(1 1)", want: Text("POINT(1 1)")},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, coerceMySQL(tc.typeName, []byte(tc.raw)))
		})
	}
}

func TestValueAccessors(t *testing.T) {
	assert.True(t, Null().IsNull())
	assert.Equal(t, KindNull, Null().Kind())

	v := Integer(42)
	assert.Equal(t, KindInteger, v.Kind())
	assert.EqualValues(t, 42, v.Int64())

	v = Float(1.5)
	assert.Equal(t, KindFloat, v.Kind())
	assert.EqualValues(t, 1.5, v.Float64())

	v = Boolean(true)
	assert.Equal(t, KindBoolean, v.Kind())
	assert.True(t, v.Bool())

	v = Text("abc")
	assert.Equal(t, KindText, v.Kind())
	assert.Equal(t, "abc", v.Text())

	v = Blob([]byte{1, 2, 3})
	assert.Equal(t, KindBlob, v.Kind())
	assert.Equal(t, []byte{1, 2, 3}, v.Bytes())
}

func TestValueOwnsItsBytes(t *testing.T) {
	raw := []byte("abc")
	text := TextBytes(raw)
	blob := Blob(raw)

	// Mutating the source buffer must not leak into the values; they hold
	// deep copies, never aliases of backend memory.
	raw[0] = 'z'
	assert.Equal(t, "abc", text.Text())
	assert.Equal(t, []byte("abc"), blob.Bytes())
}

func TestValueString(t *testing.T) {
	tests := map[string]struct {
		value Value
		want  string
	}{
		"null":    {value: Null(), want: "NULL"},
		"boolean": {value: Boolean(true), want: "true"},
		"integer": {value: Integer(-5), want: "-5"},
		"float":   {value: Float(2.5), want: "2.5"},
		"text":    {value: Text("x"), want: "x"},
		"blob":    {value: Blob([]byte("ab")), want: "ab"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.value.String())
		})
	}
}
