package table

import (
	"errors"
	"fmt"
	"slices"
)

// ErrDuplicateColumn is returned when a header names the same column twice.
var ErrDuplicateColumn = errors.New("duplicate column")

// Table is an immutable, column-ordered view over string cells.
// Derivations (Filter, WithColumn) return new tables and never touch the receiver.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]string
}

// New builds a table from a header and rows. Rows shorter than the header
// are padded with empty cells; extra cells are dropped.
func New(columns []string, rows [][]string) (*Table, error) {
	index := make(map[string]int, len(columns))
	for i, name := range columns {
		if _, exists := index[name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
		}
		index[name] = i
	}

	normalized := make([][]string, len(rows))
	for i, row := range rows {
		cells := make([]string, len(columns))
		copy(cells, row)
		normalized[i] = cells
	}

	return &Table{
		columns: slices.Clone(columns),
		index:   index,
		rows:    normalized,
	}, nil
}

// Empty returns a table with no columns and no rows.
func Empty() *Table {
	return &Table{index: map[string]int{}}
}

// Columns returns the column names in header order.
func (t *Table) Columns() []string {
	return slices.Clone(t.columns)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Has reports whether the table carries the named column.
func (t *Table) Has(column string) bool {
	_, ok := t.index[column]
	return ok
}

// Value returns the cell at row i for column, or "" when the column is absent.
func (t *Table) Value(i int, column string) string {
	idx, ok := t.index[column]
	if !ok {
		return ""
	}
	return t.rows[i][idx]
}

// Column returns every cell of the named column in row order, nil if absent.
func (t *Table) Column(column string) []string {
	idx, ok := t.index[column]
	if !ok {
		return nil
	}
	values := make([]string, len(t.rows))
	for i, row := range t.rows {
		values[i] = row[idx]
	}
	return values
}

// Row returns a copy of row i.
func (t *Table) Row(i int) []string {
	return slices.Clone(t.rows[i])
}

// Rows returns a deep copy of all rows.
func (t *Table) Rows() [][]string {
	out := make([][]string, len(t.rows))
	for i, row := range t.rows {
		out[i] = slices.Clone(row)
	}
	return out
}

// Record returns row i keyed by column name.
func (t *Table) Record(i int) map[string]string {
	record := make(map[string]string, len(t.columns))
	for idx, name := range t.columns {
		record[name] = t.rows[i][idx]
	}
	return record
}

// Slice returns rows [from, to) as a new table, clamped to bounds.
func (t *Table) Slice(from, to int) *Table {
	from = min(max(from, 0), len(t.rows))
	to = min(max(to, from), len(t.rows))
	return t.derive(t.rows[from:to:to])
}

// Filter returns a new table holding the rows for which keep returns true.
func (t *Table) Filter(keep func(i int) bool) *Table {
	rows := make([][]string, 0, len(t.rows))
	for i, row := range t.rows {
		if keep(i) {
			rows = append(rows, row)
		}
	}
	return t.derive(rows)
}

// WithColumn returns a new table with column appended, its cells computed
// from each row. An existing column with the same name is overwritten in
// the copy.
func (t *Table) WithColumn(column string, compute func(i int) string) *Table {
	columns := slices.Clone(t.columns)
	index := make(map[string]int, len(t.index)+1)
	for k, v := range t.index {
		index[k] = v
	}

	target, exists := index[column]
	if !exists {
		target = len(columns)
		columns = append(columns, column)
		index[column] = target
	}

	rows := make([][]string, len(t.rows))
	for i, row := range t.rows {
		cells := make([]string, len(columns))
		copy(cells, row)
		cells[target] = compute(i)
		rows[i] = cells
	}

	return &Table{columns: columns, index: index, rows: rows}
}

// derive shares row storage with t. Rows are never written after
// construction, so sharing is safe.
func (t *Table) derive(rows [][]string) *Table {
	return &Table{
		columns: t.columns,
		index:   t.index,
		rows:    rows,
	}
}
