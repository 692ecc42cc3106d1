package model

import "strings"

// Document is an ordered sequence of rows, each an ordered sequence of text
// cells. There is no fixed schema; structure is discovered positionally.
type Document struct {
	// Name identifies the document, typically its file name.
	Name string `json:"name"`

	// Rows holds the raw cells in file order.
	Rows [][]string `json:"-"`
}

// NewDocument creates a Document from raw rows.
func NewDocument(name string, rows [][]string) Document {
	return Document{Name: name, Rows: rows}
}

// Cell returns the trimmed cell at (row, col) and whether it exists.
func (d Document) Cell(row, col int) (string, bool) {
	if row < 0 || row >= len(d.Rows) {
		return "", false
	}
	r := d.Rows[row]
	if col < 0 || col >= len(r) {
		return "", false
	}
	return strings.TrimSpace(r[col]), true
}

// FirstCell returns the trimmed first cell of a row, or "" for empty rows.
func (d Document) FirstCell(row int) string {
	cell, _ := d.Cell(row, 0)
	return cell
}

// Len returns the number of rows.
func (d Document) Len() int {
	return len(d.Rows)
}
