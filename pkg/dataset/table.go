// Package dataset loads the collected CSV files and joins the storefront
// and SteamSpy outputs into one analysis-ready table.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// Table is a parsed CSV file with column access by name.
type Table struct {
	Header []string
	Rows   [][]string

	index map[string]int
}

// Load reads a CSV file produced by the collector.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s has no header row", path)
	}

	return NewTable(rows[0], rows[1:]), nil
}

// NewTable builds a table from an in-memory header and rows.
func NewTable(header []string, rows [][]string) *Table {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	return &Table{Header: header, Rows: rows, index: index}
}

// ColumnIndex returns the position of a named column.
func (t *Table) ColumnIndex(name string) (int, error) {
	i, ok := t.index[name]
	if !ok {
		return 0, fmt.Errorf("no column %q (have %v)", name, t.Header)
	}
	return i, nil
}

// Column extracts a named column as floats. Cells that do not parse as a
// number, such as the blank cells of placeholder rows, are skipped.
func (t *Table) Column(name string) ([]float64, error) {
	col, err := t.ColumnIndex(name)
	if err != nil {
		return nil, err
	}

	values := make([]float64, 0, len(t.Rows))
	for _, row := range t.Rows {
		if col >= len(row) {
			continue
		}
		v, err := strconv.ParseFloat(row[col], 64)
		if err != nil {
			continue
		}
		values = append(values, v)
	}
	return values, nil
}

// Pair extracts two columns keeping only rows where both cells parse as
// numbers, so the slices stay aligned for correlation.
func (t *Table) Pair(x, y string) (xs, ys []float64, err error) {
	xi, err := t.ColumnIndex(x)
	if err != nil {
		return nil, nil, err
	}
	yi, err := t.ColumnIndex(y)
	if err != nil {
		return nil, nil, err
	}

	for _, row := range t.Rows {
		if xi >= len(row) || yi >= len(row) {
			continue
		}
		xv, xerr := strconv.ParseFloat(row[xi], 64)
		yv, yerr := strconv.ParseFloat(row[yi], 64)
		if xerr != nil || yerr != nil {
			continue
		}
		xs = append(xs, xv)
		ys = append(ys, yv)
	}
	return xs, ys, nil
}
