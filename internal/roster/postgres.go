package roster

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// PostgresStore keeps the workbook's row-oriented shape in a single
// sheet_rows table. Each sheet is an ordered list of JSON-encoded cell
// arrays, positions are 1-based and the header row occupies position 1.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore wraps an sqlx handle.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type sheetRow struct {
	Position int    `db:"position"`
	Cells    []byte `db:"cells"`
}

// ReadRows returns every row of the sheet in position order.
func (s *PostgresStore) ReadRows(ctx context.Context, sheet string) ([][]string, error) {
	var records []sheetRow
	query := `SELECT position, cells FROM sheet_rows WHERE sheet = $1 ORDER BY position`
	if err := s.db.SelectContext(ctx, &records, query, sheet); err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}

	rows := make([][]string, 0, len(records))
	for _, record := range records {
		var cells []string
		if err := json.Unmarshal(record.Cells, &cells); err != nil {
			return nil, fmt.Errorf("decode sheet %s row %d: %w", sheet, record.Position, err)
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// AppendRow inserts the row after the sheet's last populated position.
func (s *PostgresStore) AppendRow(ctx context.Context, sheet string, row []string) error {
	cells, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("encode row: %w", err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var last sql.NullInt64
	if err := tx.GetContext(ctx, &last, `SELECT MAX(position) FROM sheet_rows WHERE sheet = $1`, sheet); err != nil {
		return fmt.Errorf("last position of sheet %s: %w", sheet, err)
	}

	next := int(last.Int64) + 1
	if _, err := tx.ExecContext(ctx, `INSERT INTO sheet_rows (sheet, position, cells) VALUES ($1, $2, $3)`, sheet, next, cells); err != nil {
		return fmt.Errorf("append to sheet %s: %w", sheet, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append: %w", err)
	}
	return nil
}

// DeleteRow removes the row at the given position and shifts later rows up,
// matching worksheet delete semantics.
func (s *PostgresStore) DeleteRow(ctx context.Context, sheet string, position int) error {
	if position < 1 {
		return fmt.Errorf("invalid row position %d", position)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `DELETE FROM sheet_rows WHERE sheet = $1 AND position = $2`, sheet, position)
	if err != nil {
		return fmt.Errorf("delete from sheet %s: %w", sheet, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete from sheet %s: %w", sheet, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	if _, err := tx.ExecContext(ctx, `UPDATE sheet_rows SET position = position - 1 WHERE sheet = $1 AND position > $2`, sheet, position); err != nil {
		return fmt.Errorf("reindex sheet %s: %w", sheet, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}
	return nil
}
