// Package dataset provides the tabular exchange format between the
// extraction layer and the transformation pipeline. A Table is a fully
// materialized set of string rows keyed by header name; typing happens in
// the normalizer.
package dataset

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Table is an immutable in-memory tabular dataset.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string

	index map[string]int
}

// New builds a Table and its column index. Column lookup is
// case-insensitive to tolerate header-casing drift between extracts.
func New(name string, columns []string, rows [][]string) *Table {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		idx[strings.ToLower(strings.TrimSpace(c))] = i
	}
	return &Table{Name: name, Columns: columns, Rows: rows, index: idx}
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn reports whether the table carries the named column.
func (t *Table) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	_, ok := t.index[strings.ToLower(name)]
	return ok
}

// Get returns the value of the named column in the given row, or "" when
// the column is absent or the row is ragged.
func (t *Table) Get(row int, column string) string {
	if t == nil || row < 0 || row >= len(t.Rows) {
		return ""
	}
	i, ok := t.index[strings.ToLower(column)]
	if !ok || i >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][i]
}

// RequireColumns verifies that every named column is present. A missing
// required column is a structural failure for the whole dataset, not a
// row-level condition.
func (t *Table) RequireColumns(names ...string) error {
	if t == nil {
		return eris.New("dataset: nil table")
	}
	var missing []string
	for _, n := range names {
		if !t.HasColumn(n) {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return eris.Errorf("dataset %s: missing required columns: %s", t.Name, strings.Join(missing, ", "))
	}
	return nil
}
