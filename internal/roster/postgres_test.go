package roster

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewPostgresStore(sqlx.NewDb(db, "sqlmock")), mock
}

func TestPostgresStoreReadRows(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"position", "cells"}).
		AddRow(1, []byte(`["Unidade","Nome"]`)).
		AddRow(2, []byte(`["Campinas","Natação"]`))
	mock.ExpectQuery("SELECT position, cells FROM sheet_rows").
		WithArgs("MODALIDADES").
		WillReturnRows(rows)

	result, err := store.ReadRows(context.Background(), "MODALIDADES")
	require.NoError(t, err)

	require.Len(t, result, 2)
	assert.Equal(t, []string{"Unidade", "Nome"}, result[0])
	assert.Equal(t, []string{"Campinas", "Natação"}, result[1])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreReadRowsBadPayload(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"position", "cells"}).
		AddRow(1, []byte(`not-json`))
	mock.ExpectQuery("SELECT position, cells FROM sheet_rows").
		WithArgs("MODALIDADES").
		WillReturnRows(rows)

	_, err := store.ReadRows(context.Background(), "MODALIDADES")
	assert.Error(t, err)
}

func TestPostgresStoreAppendRow(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT MAX\\(position\\) FROM sheet_rows").
		WithArgs("LOGIN").
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(3))
	mock.ExpectExec("INSERT INTO sheet_rows").
		WithArgs("LOGIN", 4, []byte(`["Campinas","Maria","30/08/2026 08:30:00"]`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := store.AppendRow(context.Background(), "LOGIN", []string{"Campinas", "Maria", "30/08/2026 08:30:00"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreAppendRowEmptySheet(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT MAX\\(position\\) FROM sheet_rows").
		WithArgs("LOGIN").
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(nil))
	mock.ExpectExec("INSERT INTO sheet_rows").
		WithArgs("LOGIN", 1, []byte(`["a"]`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := store.AppendRow(context.Background(), "LOGIN", []string{"a"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreDeleteRow(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM sheet_rows").
		WithArgs("INSCRITOS-UNIDADE", 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE sheet_rows SET position = position - 1").
		WithArgs("INSCRITOS-UNIDADE", 5).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := store.DeleteRow(context.Background(), "INSCRITOS-UNIDADE", 5)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreDeleteRowMissing(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM sheet_rows").
		WithArgs("INSCRITOS-UNIDADE", 99).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := store.DeleteRow(context.Background(), "INSCRITOS-UNIDADE", 99)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestPostgresStoreDeleteRowInvalidPosition(t *testing.T) {
	store, _ := newMockStore(t)

	err := store.DeleteRow(context.Background(), "INSCRITOS-UNIDADE", 0)
	assert.Error(t, err)
}
