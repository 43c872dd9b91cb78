// Package dataset provides the tabular input layer: an immutable
// column-oriented table, CSV ingestion, and a pipeline of pure cleaning
// stages. Every stage takes a table and returns a new table; the input is
// never mutated, so stages compose and test independently.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
)

// Column is a named column of raw string cells. All typing happens later,
// during schema normalization.
type Column struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// Table is an immutable column-oriented table. All columns have the same
// length. Construct via New or FromCSV; cleaning stages derive new tables.
type Table struct {
	cols   []Column
	byName map[string]int
}

// New creates a table from the given columns.
// Column names must be unique and all columns must have equal length.
func New(cols ...Column) (*Table, error) {
	byName := make(map[string]int, len(cols))
	for i, c := range cols {
		if c.Name == "" {
			return nil, fmt.Errorf("dataset: column %d has empty name", i)
		}
		if _, ok := byName[c.Name]; ok {
			return nil, fmt.Errorf("dataset: duplicate column %q", c.Name)
		}
		if len(c.Values) != len(cols[0].Values) {
			return nil, fmt.Errorf("dataset: column %q has %d rows, expected %d", c.Name, len(c.Values), len(cols[0].Values))
		}
		byName[c.Name] = i
	}

	return &Table{cols: cols, byName: byName}, nil
}

// FromCSV reads a table from CSV data. The first record is the header.
func FromCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = false

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("dataset: failed to read CSV header: %w", err)
	}

	cols := make([]Column, len(header))
	for i, name := range header {
		cols[i] = Column{Name: name}
	}

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataset: failed to read CSV record: %w", err)
		}
		for i := range cols {
			cols[i].Values = append(cols[i].Values, rec[i])
		}
	}

	return New(cols...)
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	if len(t.cols) == 0 {
		return 0
	}
	return len(t.cols[0].Values)
}

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int { return len(t.cols) }

// ColumnNames returns the column names in declaration order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// Column returns the cells of the named column.
// The returned slice must not be modified.
func (t *Table) Column(name string) ([]string, bool) {
	i, ok := t.byName[name]
	if !ok {
		return nil, false
	}
	return t.cols[i].Values, true
}

// Value returns the cell at the given row in the named column.
func (t *Table) Value(row int, column string) (string, bool) {
	vals, ok := t.Column(column)
	if !ok || row < 0 || row >= len(vals) {
		return "", false
	}
	return vals[row], true
}

// Columns returns a copy of the table's columns, e.g. for serialization.
func (t *Table) Columns() []Column {
	cols := make([]Column, len(t.cols))
	copy(cols, t.cols)
	return cols
}

// Select returns a new table containing only the named columns, in the
// given order.
func (t *Table) Select(names ...string) (*Table, error) {
	cols := make([]Column, 0, len(names))
	for _, name := range names {
		i, ok := t.byName[name]
		if !ok {
			return nil, fmt.Errorf("dataset: unknown column %q", name)
		}
		cols = append(cols, t.cols[i])
	}
	return New(cols...)
}

// filterRows returns a new table keeping only rows where keep[i] is true.
func (t *Table) filterRows(keep []bool) *Table {
	n := 0
	for _, k := range keep {
		if k {
			n++
		}
	}

	cols := make([]Column, len(t.cols))
	for i, c := range t.cols {
		vals := make([]string, 0, n)
		for row, v := range c.Values {
			if keep[row] {
				vals = append(vals, v)
			}
		}
		cols[i] = Column{Name: c.Name, Values: vals}
	}

	nt, _ := New(cols...)
	return nt
}

// mapColumn returns a new table with fn applied to every cell of the named
// column.
func (t *Table) mapColumn(name string, fn func(string) string) (*Table, error) {
	i, ok := t.byName[name]
	if !ok {
		return nil, fmt.Errorf("dataset: unknown column %q", name)
	}

	cols := make([]Column, len(t.cols))
	copy(cols, t.cols)

	vals := make([]string, len(cols[i].Values))
	for row, v := range cols[i].Values {
		vals[row] = fn(v)
	}
	cols[i] = Column{Name: name, Values: vals}

	return New(cols...)
}
