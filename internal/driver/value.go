package driver

import (
	"strconv"
)

// Kind enumerates the closed set of canonical SQL value kinds.
type Kind int

const (
	KindNull Kind = iota
	KindBoolean
	KindInteger
	KindFloat
	KindText
	KindBlob
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindBlob:
		return "blob"
	default:
		return "unknown"
	}
}

// Value is the canonical, backend-independent representation of one SQL cell.
// Every backend-native type is coerced into exactly one Kind. Text and blob
// payloads are owned copies; a Value never aliases backend-owned memory.
type Value struct {
	kind  Kind
	num   int64
	fnum  float64
	flag  bool
	bytes []byte
}

func Null() Value { return Value{kind: KindNull} }

func Boolean(v bool) Value { return Value{kind: KindBoolean, flag: v} }

func Integer(v int64) Value { return Value{kind: KindInteger, num: v} }

func Float(v float64) Value { return Value{kind: KindFloat, fnum: v} }

func Text(s string) Value { return Value{kind: KindText, bytes: []byte(s)} }

// TextBytes builds a text value from a raw byte span, copying it.
func TextBytes(b []byte) Value {
	return Value{kind: KindText, bytes: append([]byte(nil), b...)}
}

// Blob builds a blob value from a raw byte span, copying it.
func Blob(b []byte) Value {
	return Value{kind: KindBlob, bytes: append([]byte(nil), b...)}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) Bool() bool { return v.flag }

func (v Value) Int64() int64 { return v.num }

func (v Value) Float64() float64 { return v.fnum }

// Text returns the payload as a string. Meaningful for text and blob kinds.
func (v Value) Text() string { return string(v.bytes) }

// Bytes returns the owned payload of a text or blob value.
func (v Value) Bytes() []byte { return v.bytes }

// String renders the value for display.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindBoolean:
		return strconv.FormatBool(v.flag)
	case KindInteger:
		return strconv.FormatInt(v.num, 10)
	case KindFloat:
		return strconv.FormatFloat(v.fnum, 'f', -1, 64)
	default:
		return string(v.bytes)
	}
}

func (v Value) clone() Value {
	if v.bytes != nil {
		v.bytes = append([]byte(nil), v.bytes...)
	}
	return v
}

// integerValue parses a base-10 integer cell. A malformed cell degrades to
// null rather than failing the row; declared-numeric columns with garbage in
// them are lossy, not fatal.
func integerValue(raw []byte) Value {
	n, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return Null()
	}
	return Integer(n)
}

// floatValue parses a 64-bit float cell, degrading to null on failure like
// integerValue.
func floatValue(raw []byte) Value {
	f, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return Null()
	}
	return Float(f)
}

// booleanValue is true iff the raw text is "t", "true", or "1".
func booleanValue(raw []byte) Value {
	switch string(raw) {
	case "t", "true", "1":
		return Boolean(true)
	default:
		return Boolean(false)
	}
}
