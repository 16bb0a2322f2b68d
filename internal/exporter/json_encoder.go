package exporter

import (
	"encoding/json"
	"fmt"
	"io"

	"dbbridge/internal/driver"
)

// JSONEncoder implements RowEncoder for JSON Lines format.
// Each row is exported as a JSON object on a new line.
type JSONEncoder struct {
	w       io.Writer
	columns []string
	err     error
}

// NewJSONEncoder creates a new JSON Lines encoder.
func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

// WriteHeader captures the column names to be used as JSON keys.
// Unlike CSV, JSON doesn't write a header row, but needs the names for object properties.
func (e *JSONEncoder) WriteHeader(columns []string) error {
	e.columns = columns
	return nil
}

func (e *JSONEncoder) WriteRow(values []driver.Value) error {
	if e.err != nil {
		return e.err
	}

	rowMap := make(map[string]any, len(values))
	for i, v := range values {
		colName := fmt.Sprintf("column_%d", i)
		if i < len(e.columns) {
			colName = e.columns[i]
		}
		rowMap[colName] = jsonCell(v)
	}

	data, err := json.Marshal(rowMap)
	if err != nil {
		e.err = err
		return err
	}

	_, err = e.w.Write(data)
	if err != nil {
		e.err = err
		return err
	}
	_, err = e.w.Write([]byte("\n"))
	if err != nil {
		e.err = err
		return err
	}

	return nil
}

// jsonCell maps a canonical value to its natural JSON type.
func jsonCell(v driver.Value) any {
	switch v.Kind() {
	case driver.KindNull:
		return nil
	case driver.KindBoolean:
		return v.Bool()
	case driver.KindInteger:
		return v.Int64()
	case driver.KindFloat:
		return v.Float64()
	default:
		return v.Text()
	}
}

func (e *JSONEncoder) Flush() error {
	return nil
}

func (e *JSONEncoder) Error() error {
	return e.err
}

func (e *JSONEncoder) Close() error {
	return e.Flush()
}
