// Package store implements the row store abstraction over the spreadsheet
// that holds the ledger tables. The store offers append / read / overwrite /
// delete-range only — no transactions, no locking, last-write-wins. Every
// caller must treat a read as a snapshot that may be stale by write time.
package store

import (
	"context"
	"errors"
)

// ErrRowNotFound is returned when a row index points past the end of a tab
// or at a row that has been deleted.
var ErrRowNotFound = errors.New("row not found")

// RowStore is the uniform contract over named tabs of the backing sheet.
//
// Row index convention: rowIndex is the 1-based sheet row (the header lives
// in row 1, data starts at row 2). ReadRows returns data rows only, so
// ReadRows()[i] corresponds to sheet row i+2. DeleteRows takes a 0-based
// half-open range, matching the sheet API's DeleteDimension semantics.
type RowStore interface {
	ReadRows(ctx context.Context, tab string) ([][]interface{}, error)
	ReadRow(ctx context.Context, tab string, rowIndex int) ([]interface{}, error)
	AppendRow(ctx context.Context, tab string, row []interface{}) error
	UpdateRow(ctx context.Context, tab string, rowIndex int, row []interface{}) error
	DeleteRows(ctx context.Context, tab string, start, end int) error
	// EnsureTab creates the tab with the given header row when it does not
	// exist yet, and writes the header when row 1 is empty.
	EnsureTab(ctx context.Context, tab string, header []interface{}) error
}

// FindRowIndexByKey scans data rows (as returned by ReadRows) for an exact
// string match on the given column and returns the 1-based sheet row index,
// or -1 when no row matches.
func FindRowIndexByKey(rows [][]interface{}, col int, key string) int {
	for i, r := range rows {
		if col < len(r) && CellString(r[col]) == key {
			return i + 2
		}
	}
	return -1
}

// columnLetter converts a 1-based column number to its A1 letter form.
func columnLetter(n int) string {
	s := ""
	for n > 0 {
		n--
		s = string(rune('A'+n%26)) + s
		n /= 26
	}
	return s
}
