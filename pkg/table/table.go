// Package table models the raw tabular input boardsync consumes: an ordered
// header row, ordered data rows of scalar cells, and optional per-header
// color metadata used by essential-column auto-detection.
package table

import (
	"strings"
)

// Table is one raw input dataset. Rows are positional; cell access past the
// end of a ragged row yields the empty string rather than a panic.
type Table struct {
	Headers []string
	Rows    [][]string

	// HeaderColors is optional presentation metadata, parallel to Headers
	// when present. A nil slice means no color information was supplied.
	HeaderColors []Color
}

// New creates a table from a header row and data rows.
func New(headers []string, rows [][]string) *Table {
	return &Table{Headers: headers, Rows: rows}
}

// Cell returns the trimmed cell at row r, 1-based column col. Out-of-range
// positions and col 0 ("absent") return the empty string.
func (t *Table) Cell(r, col int) string {
	raw := t.RawCell(r, col)
	return strings.TrimSpace(raw)
}

// RawCell returns the cell at row r, 1-based column col without trimming.
func (t *Table) RawCell(r, col int) string {
	if col <= 0 || r < 0 || r >= len(t.Rows) {
		return ""
	}
	row := t.Rows[r]
	if col > len(row) {
		return ""
	}
	return row[col-1]
}

// ColorOf returns the color metadata for the 1-based column, if any.
func (t *Table) ColorOf(col int) (Color, bool) {
	if t.HeaderColors == nil || col <= 0 || col > len(t.HeaderColors) {
		return Color{}, false
	}
	return t.HeaderColors[col-1], true
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	return len(t.Rows)
}
