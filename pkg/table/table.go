// Package table provides the tabular record structures shared by the
// occurrence fetcher and the epoch aggregator.
//
// A Table is an ordered sequence of open-schema records materialized into a
// two-dimensional shape: rows are records, columns are the union of all field
// names observed across them. Tables are built once and then only mutated by
// the epoch-label stamp and the final sort; there are no incremental updates
// after construction.
package table

import (
	"fmt"
	"sort"
	"strconv"
)

// Column names with fixed meaning across the module.
const (
	// ColumnYear is the observation year field used for sorting.
	ColumnYear = "year"

	// ColumnEpoch is the synthetic column stamped by the epoch aggregator.
	ColumnEpoch = "epoch"

	// ColumnSpecies is the species name field used by diversity grouping.
	ColumnSpecies = "species"
)

// Record is a single occurrence observation: an open-ended mapping of field
// name to value as returned by the API. No fixed schema is enforced.
type Record map[string]any

// Table is an ordered collection of Records with a deterministic column set.
type Table struct {
	columns []string
	colSet  map[string]struct{}
	rows    []Record
}

// New returns an empty table with no columns.
func New() *Table {
	return &Table{
		colSet: make(map[string]struct{}),
	}
}

// FromRecords builds a table from records in order. The column set is the
// union of all observed fields: record order first, alphabetical within a
// record (map iteration order is not deterministic on its own).
func FromRecords(records []Record) *Table {
	t := New()
	for _, rec := range records {
		t.Append(rec)
	}
	return t
}

// Append adds one record as a new row, registering any unseen fields as new
// columns.
func (t *Table) Append(rec Record) {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		if _, seen := t.colSet[k]; !seen {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		t.colSet[k] = struct{}{}
		t.columns = append(t.columns, k)
	}
	t.rows = append(t.rows, rec)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Columns returns a copy of the column names in table order.
func (t *Table) Columns() []string {
	cols := make([]string, len(t.columns))
	copy(cols, t.columns)
	return cols
}

// HasColumn reports whether the table contains the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.colSet[name]
	return ok
}

// Row returns the record at row i. The returned map is the table's own row;
// callers must not modify it.
func (t *Table) Row(i int) Record {
	return t.rows[i]
}

// Value returns the value at row i, column name. The second return is false
// when the row carries no value for that column.
func (t *Table) Value(i int, name string) (any, bool) {
	v, ok := t.rows[i][name]
	return v, ok
}

// Concat returns a new table holding the rows of all input tables in order.
// Column order follows first appearance across the inputs.
func Concat(tables ...*Table) *Table {
	out := New()
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, col := range t.columns {
			if _, seen := out.colSet[col]; !seen {
				out.colSet[col] = struct{}{}
				out.columns = append(out.columns, col)
			}
		}
		out.rows = append(out.rows, t.rows...)
	}
	return out
}

// SetColumn stamps a constant value onto every row, registering the column if
// it is new. Used to label per-epoch tables before merging.
func (t *Table) SetColumn(name string, value any) {
	if _, seen := t.colSet[name]; !seen {
		t.colSet[name] = struct{}{}
		t.columns = append(t.columns, name)
	}
	for _, rec := range t.rows {
		rec[name] = value
	}
}

// SortByYear stably sorts rows ascending by the numeric year column. Rows
// without a parseable year sort after all rows that have one.
func (t *Table) SortByYear() {
	sort.SliceStable(t.rows, func(i, j int) bool {
		yi, oki := numericValue(t.rows[i][ColumnYear])
		yj, okj := numericValue(t.rows[j][ColumnYear])
		if oki && okj {
			return yi < yj
		}
		return oki && !okj
	})
}

// Select returns a copy of the table restricted to the given columns, in the
// given order. Unknown columns are an error.
func (t *Table) Select(cols ...string) (*Table, error) {
	for _, col := range cols {
		if _, ok := t.colSet[col]; !ok {
			return nil, fmt.Errorf("select: unknown column %q", col)
		}
	}
	out := New()
	for _, col := range cols {
		out.colSet[col] = struct{}{}
		out.columns = append(out.columns, col)
	}
	for _, rec := range t.rows {
		row := make(Record, len(cols))
		for _, col := range cols {
			if v, ok := rec[col]; ok {
				row[col] = v
			}
		}
		out.rows = append(out.rows, row)
	}
	return out, nil
}

// Equal reports whether two tables have identical column sets and identical
// cell values row by row. Cells compare by their rendered form, so a table
// that round-tripped through CSV still compares equal to its source.
func (t *Table) Equal(other *Table) bool {
	if other == nil || len(t.columns) != len(other.columns) || len(t.rows) != len(other.rows) {
		return false
	}
	for i, col := range t.columns {
		if other.columns[i] != col {
			return false
		}
	}
	for i := range t.rows {
		for _, col := range t.columns {
			if FormatValue(t.rows[i][col]) != FormatValue(other.rows[i][col]) {
				return false
			}
		}
	}
	return true
}

// FormatValue renders a cell value for display or CSV export. JSON numbers
// decode as float64; integral values render without a fractional part so that
// years and counts survive a CSV round-trip unchanged.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

// IsMissing reports whether a cell value counts as missing data: an absent
// field, a nil value, or an empty string (the CSV form of absence).
func IsMissing(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// numericValue coerces the dynamic cell types a year may arrive as.
func numericValue(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
