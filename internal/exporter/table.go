package exporter

import "fmt"

// Table is an ordered columnar data table: each column maps a name to
// an equal-length sequence of cell values. The export operations only
// ever read a Table; ownership and mutation stay with the caller.
type Table struct {
	names []string
	cols  map[string][]any
}

// NewTable creates an empty table
func NewTable() *Table {
	return &Table{cols: make(map[string][]any)}
}

// AddColumn appends a named column. Adding a name twice replaces the
// previous cells but keeps the original position.
func (t *Table) AddColumn(name string, cells []any) *Table {
	if _, exists := t.cols[name]; !exists {
		t.names = append(t.names, name)
	}
	t.cols[name] = cells
	return t
}

// Columns returns the column names in insertion order
func (t *Table) Columns() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Column returns the cell sequence for a column name
func (t *Table) Column(name string) ([]any, bool) {
	cells, ok := t.cols[name]
	return cells, ok
}

// Len returns the row count (the length of the first column)
func (t *Table) Len() int {
	if len(t.names) == 0 {
		return 0
	}
	return len(t.cols[t.names[0]])
}

// Validate checks the equal-length invariant across all columns
func (t *Table) Validate() error {
	if len(t.names) == 0 {
		return nil
	}

	want := len(t.cols[t.names[0]])
	for _, name := range t.names[1:] {
		if got := len(t.cols[name]); got != want {
			return fmt.Errorf("column %q has %d cells, %q has %d: %w",
				name, got, t.names[0], want, ErrInconsistentLength)
		}
	}
	return nil
}
