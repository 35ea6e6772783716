// Package roster defines the row-oriented store boundary the enrollment
// services read and write through, plus the typed adapters that translate
// between positional sheet rows and domain models.
package roster

import "context"

// Store is the minimal contract over the workbook-shaped backing store.
// Sheets are named tables of string rows where the first row is the header.
// Row positions are 1-based and include the header row.
type Store interface {
	// ReadRows returns every row of the sheet, header first.
	ReadRows(ctx context.Context, sheet string) ([][]string, error)
	// AppendRow adds a row after the last populated row.
	AppendRow(ctx context.Context, sheet string, row []string) error
	// DeleteRow removes the row at the given 1-based position.
	DeleteRow(ctx context.Context, sheet string, position int) error
}
