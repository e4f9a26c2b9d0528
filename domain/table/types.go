package table

import (
	"fmt"
	"sort"

	"statadvisor/domain/core"
	"statadvisor/internal/apperr"
)

// CellKind discriminates the scalar types a dataset cell can hold.
type CellKind int

const (
	CellMissing CellKind = iota
	CellNumber
	CellString
)

// Cell is a single scalar value in a dataset. Empty or null inputs are
// represented as missing, never as zero.
type Cell struct {
	Kind   CellKind
	Number float64
	Text   string
}

// NumberCell creates a numeric cell.
func NumberCell(v float64) Cell { return Cell{Kind: CellNumber, Number: v} }

// StringCell creates a string cell.
func StringCell(s string) Cell { return Cell{Kind: CellString, Text: s} }

// MissingCell creates a missing-value cell.
func MissingCell() Cell { return Cell{Kind: CellMissing} }

// IsMissing reports whether the cell holds no value.
func (c Cell) IsMissing() bool { return c.Kind == CellMissing }

// Row maps column names to cell values.
type Row map[core.ColumnKey]Cell

// Limits bounds the size of a dataset. The validator upstream enforces file
// limits; these guard the engine itself.
type Limits struct {
	MaxRows    int
	MaxColumns int
}

// DefaultLimits returns the engine's standing size bounds.
func DefaultLimits() Limits {
	return Limits{MaxRows: 100000, MaxColumns: 200}
}

// Dataset is an immutable rectangular table of named columns. It is replaced
// wholesale on a new upload, never mutated in place.
type Dataset struct {
	id      core.DatasetID
	columns []core.ColumnKey
	rows    []Row
}

// New validates and constructs a Dataset. Every row must carry exactly the
// given column set. Violations are validation errors: the dataset shape is
// user input, not a server fault.
func New(columns []core.ColumnKey, rows []Row, limits Limits) (*Dataset, error) {
	if len(columns) == 0 {
		return nil, apperr.Validation("dataset requires at least one column")
	}
	if limits.MaxColumns > 0 && len(columns) > limits.MaxColumns {
		return nil, apperr.Validationf("dataset has %d columns, limit is %d", len(columns), limits.MaxColumns)
	}
	if limits.MaxRows > 0 && len(rows) > limits.MaxRows {
		return nil, apperr.Validationf("dataset has %d rows, limit is %d", len(rows), limits.MaxRows)
	}
	seen := make(map[core.ColumnKey]bool, len(columns))
	for _, col := range columns {
		if seen[col] {
			return nil, apperr.Validationf("duplicate column %q", col)
		}
		seen[col] = true
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, apperr.Validationf("row %d has %d cells, expected %d", i, len(row), len(columns))
		}
		for _, col := range columns {
			if _, ok := row[col]; !ok {
				return nil, apperr.Validationf("row %d is missing column %q", i, col)
			}
		}
	}
	cols := make([]core.ColumnKey, len(columns))
	copy(cols, columns)
	return &Dataset{id: core.NewDatasetID(), columns: cols, rows: rows}, nil
}

// ID returns the dataset identifier.
func (d *Dataset) ID() core.DatasetID { return d.id }

// Columns returns a copy of the ordered column names.
func (d *Dataset) Columns() []core.ColumnKey {
	cols := make([]core.ColumnKey, len(d.columns))
	copy(cols, d.columns)
	return cols
}

// RowCount returns the number of rows.
func (d *Dataset) RowCount() int { return len(d.rows) }

// HasColumn reports whether the named column exists.
func (d *Dataset) HasColumn(key core.ColumnKey) bool {
	for _, col := range d.columns {
		if col == key {
			return true
		}
	}
	return false
}

// Cell returns the value at (row, column). The bool is false when the row
// index or column name is out of range.
func (d *Dataset) Cell(row int, key core.ColumnKey) (Cell, bool) {
	if row < 0 || row >= len(d.rows) {
		return Cell{}, false
	}
	c, ok := d.rows[row][key]
	return c, ok
}

// Column returns a copy of one column's cells in row order.
func (d *Dataset) Column(key core.ColumnKey) ([]Cell, bool) {
	if !d.HasColumn(key) {
		return nil, false
	}
	cells := make([]Cell, len(d.rows))
	for i, row := range d.rows {
		cells[i] = row[key]
	}
	return cells, true
}

// DistinctStrings returns the sorted distinct textual values of a column,
// treating numbers by their text rendering and skipping missing cells.
func (d *Dataset) DistinctStrings(key core.ColumnKey) []string {
	seen := make(map[string]bool)
	for _, row := range d.rows {
		c := row[key]
		if c.IsMissing() {
			continue
		}
		seen[c.Label()] = true
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Label renders a cell as the categorical label used for grouping.
func (c Cell) Label() string {
	switch c.Kind {
	case CellNumber:
		return fmt.Sprintf("%g", c.Number)
	case CellString:
		return c.Text
	default:
		return ""
	}
}
