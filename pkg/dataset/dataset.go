// Package dataset provides the tabular data model behind charts and slicers,
// plus importers for common spreadsheet formats. Tables keep every cell as a
// string; numeric interpretation happens at chart-aggregation time.
package dataset

import (
	"fmt"
	"sort"
)

// Table is an in-memory tabular dataset. The first imported row becomes
// Columns; Rows are padded or truncated to the column count so every row has
// the same width.
type Table struct {
	Name    string     `yaml:"name" json:"name"`
	Columns []string   `yaml:"columns" json:"columns"`
	Rows    [][]string `yaml:"rows" json:"rows"`
}

// ColumnIndex returns the position of the named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, c := range t.Columns {
		if c == name {
			return i, true
		}
	}
	return 0, false
}

// DistinctValues returns the sorted set of values appearing in the named
// column. Slicer editors use this to offer selectable values.
func (t *Table) DistinctValues(column string) ([]string, error) {
	idx, ok := t.ColumnIndex(column)
	if !ok {
		return nil, fmt.Errorf("column %q not found in dataset %q", column, t.Name)
	}
	seen := make(map[string]bool)
	for _, row := range t.Rows {
		seen[row[idx]] = true
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}

// ApplySlicer returns a filtered copy of the table keeping only rows whose
// value in the named column is among values. An empty value set is a no-op:
// a slicer with nothing selected filters nothing.
func ApplySlicer(t Table, column string, values []string) (Table, error) {
	if len(values) == 0 {
		return t, nil
	}
	idx, ok := t.ColumnIndex(column)
	if !ok {
		return Table{}, fmt.Errorf("column %q not found in dataset %q", column, t.Name)
	}
	keep := make(map[string]bool, len(values))
	for _, v := range values {
		keep[v] = true
	}
	out := Table{Name: t.Name, Columns: t.Columns}
	for _, row := range t.Rows {
		if keep[row[idx]] {
			out.Rows = append(out.Rows, row)
		}
	}
	return out, nil
}

// Normalize pads or truncates every row to the column count. Hand-edited or
// synced tables may carry ragged rows; cell reads elsewhere assume full width.
func (t *Table) Normalize() {
	t.Rows = normalizeRows(t.Rows, len(t.Columns))
}

// normalizeRows pads or truncates every row to width columns.
func normalizeRows(rows [][]string, width int) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		switch {
		case len(row) > width:
			row = row[:width]
		case len(row) < width:
			padded := make([]string, width)
			copy(padded, row)
			row = padded
		}
		out = append(out, row)
	}
	return out
}
