package exporter

import (
	"bufio"
	"encoding/csv"
	"io"
	"strconv"

	"dbbridge/internal/driver"
)

// CSVEncoder wraps encoding/csv with type-aware, low-allocation logic.
// It uses a bufio.Writer to minimize IO syscalls, which is crucial for high-throughput exporting.
type CSVEncoder struct {
	w       *csv.Writer
	buf     *bufio.Writer
	columns []string
}

// NewCSVEncoder creates a new CSV encoder that writes to the provided io.Writer.
// It initializes a 64KB buffer to optimize write performance.
func NewCSVEncoder(w io.Writer) *CSVEncoder {
	buf := bufio.NewWriterSize(w, 64*1024) // 64KB buffer
	cw := csv.NewWriter(buf)
	return &CSVEncoder{
		w:   cw,
		buf: buf,
	}
}

// WriteHeader writes the CSV header row.
func (e *CSVEncoder) WriteHeader(columns []string) error {
	e.columns = columns
	return e.w.Write(columns)
}

// WriteRow writes a single row of canonical values.
func (e *CSVEncoder) WriteRow(values []driver.Value) error {
	record := make([]string, len(values)) // Re-using this buffer would be an optimization, but encoding/csv copies anyway.

	for i, v := range values {
		record[i] = renderCell(v)
	}

	return e.w.Write(record)
}

// Flush ensures all data is written to the underlying writer.
func (e *CSVEncoder) Flush() error {
	e.w.Flush()
	if err := e.w.Error(); err != nil {
		return err
	}
	return e.buf.Flush()
}

// Error returns any error stored in the CSV writer.
func (e *CSVEncoder) Error() error {
	return e.w.Error()
}

// Close flushes and satisfies io.Closer.
func (e *CSVEncoder) Close() error {
	return e.Flush()
}

func renderCell(v driver.Value) string {
	var s string
	switch v.Kind() {
	case driver.KindNull:
		s = "NULL"
	case driver.KindBoolean:
		if v.Bool() {
			s = "1"
		} else {
			s = "0"
		}
	case driver.KindInteger:
		s = strconv.FormatInt(v.Int64(), 10)
	case driver.KindFloat:
		s = strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	default:
		s = v.Text()
	}

	// Formula Injection Mitigation (CSV Injection)
	// If the string starts with =, +, -, or @, prefix it with a single quote.
	if len(s) > 0 {
		first := s[0]
		if first == '=' || first == '+' || first == '-' || first == '@' {
			s = "'" + s
		}
	}
	return s
}
