package driver

import (
	"database/sql"
	"errors"
)

// coerceFunc maps one backend-native cell (type name + raw bytes) to a
// canonical value. Applied per cell, independent of the rest of the row.
type coerceFunc func(typeName string, raw []byte) Value

// errNoRowSet marks a statement that produced no tuple result (e.g. DDL
// issued through Query).
var errNoRowSet = errors.New("statement produced no row set")

// collectRows drains a database/sql result set into an owned QueryResult.
// Cells are scanned as RawBytes and deep-copied before the native result is
// released, so no returned Value aliases driver-owned buffers. The column
// name sequence is built once and shared by every row.
func collectRows(rows *sql.Rows, coerce coerceFunc) (*QueryResult, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, errNoRowSet
	}

	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}
	typeNames := make([]string, len(types))
	for i, t := range types {
		typeNames[i] = t.DatabaseTypeName()
	}

	columns := append([]string(nil), cols...)

	raw := make([]sql.RawBytes, len(columns))
	scan := make([]any, len(columns))
	for i := range raw {
		scan[i] = &raw[i]
	}

	var out []Row
	for rows.Next() {
		if err := rows.Scan(scan...); err != nil {
			return nil, err
		}
		values := make([]Value, len(columns))
		for i, cell := range raw {
			if cell == nil {
				values[i] = Null()
				continue
			}
			values[i] = coerce(typeNames[i], cell)
		}
		out = append(out, Row{columns: columns, values: values})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &QueryResult{columns: columns, rows: out}, nil
}
