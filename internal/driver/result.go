package driver

// Row holds the canonical values of one result row in projection order.
// The columns slice is a non-owning view of the QueryResult's shared
// column-name sequence; rows never release or modify it. Invariant:
// len(values) == len(columns).
type Row struct {
	columns []string
	values  []Value
}

// Values returns the row's cells in column order.
func (r Row) Values() []Value { return r.values }

func (r Row) Len() int { return len(r.values) }

// Value looks a cell up by column name. The second return is false when the
// result has no such column.
func (r Row) Value(name string) (Value, bool) {
	for i, col := range r.columns {
		if col == name && i < len(r.values) {
			return r.values[i], true
		}
	}
	return Value{}, false
}

// QueryResult is the owned, driver-independent representation of a query's
// columns and rows. The column-name sequence is allocated once and shared by
// reference across all rows; QueryResult is its single owner and releases it
// exactly once in Close.
type QueryResult struct {
	columns []string
	rows    []Row
}

// NewQueryResult builds a result from column names and row cells, deep-copying
// both so the result owns all of its memory. Every row must have one value
// per column.
func NewQueryResult(columns []string, rows [][]Value) *QueryResult {
	owned := append([]string(nil), columns...)
	out := make([]Row, len(rows))
	for i, cells := range rows {
		values := make([]Value, len(cells))
		for j, v := range cells {
			values[j] = v.clone()
		}
		out[i] = Row{columns: owned, values: values}
	}
	return &QueryResult{columns: owned, rows: out}
}

// Columns returns the shared column-name sequence in projection order.
func (r *QueryResult) Columns() []string { return r.columns }

// Rows returns the result rows in backend order.
func (r *QueryResult) Rows() []Row { return r.rows }

func (r *QueryResult) RowCount() int { return len(r.rows) }

// Close releases the result: the shared column sequence first, then each
// row's values, then the row sequence itself. Idempotent; closing an already
// closed or empty result is a no-op.
func (r *QueryResult) Close() {
	r.columns = nil
	for i := range r.rows {
		r.rows[i].columns = nil
		r.rows[i].values = nil
	}
	r.rows = nil
}

// Clone returns a fully independent deep copy. Either side may mutate or
// close its copy without affecting the other.
func (r *QueryResult) Clone() *QueryResult {
	columns := append([]string(nil), r.columns...)
	rows := make([]Row, len(r.rows))
	for i, row := range r.rows {
		values := make([]Value, len(row.values))
		for j, v := range row.values {
			values[j] = v.clone()
		}
		rows[i] = Row{columns: columns, values: values}
	}
	return &QueryResult{columns: columns, rows: rows}
}
