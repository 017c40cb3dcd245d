package db_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/yggdrasil-network/rplsim/src/db"
)

func TestNewAppliesSchemas(t *testing.T) {
	mockDB, mock, err := sqlmock.NewWithDSN("schemas-ok")
	require.NoError(t, err)
	defer mockDB.Close()

	schemas := []string{
		"CREATE TABLE IF NOT EXISTS a (Id INTEGER)",
		"CREATE TABLE IF NOT EXISTS b (Id INTEGER)",
	}
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS a").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS b").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	cfg, err := db.New("sqlmock", &schemas, "schemas-ok")
	require.NoError(t, err)
	require.True(t, cfg.DBIsOpened())
	require.Equal(t, "schemas-ok", cfg.Name)
	require.True(t, cfg.Created)
	require.False(t, cfg.DBIsExist())
	require.NoError(t, mock.ExpectationsWereMet())

	mock.ExpectClose()
	require.NoError(t, cfg.CloseDb())
	require.False(t, cfg.DBIsOpened())
	require.NoError(t, cfg.CloseDb())
}

func TestNewRollsBackFailedSchema(t *testing.T) {
	mockDB, mock, err := sqlmock.NewWithDSN("schemas-bad")
	require.NoError(t, err)
	defer mockDB.Close()

	schemas := []string{"CREATE TABLE broken"}
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE broken").WillReturnError(errors.New("syntax error"))
	mock.ExpectRollback()

	_, err = db.New("sqlmock", &schemas, "schemas-bad")
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewReportsExistingDatabase(t *testing.T) {
	uri := filepath.Join(t.TempDir(), "runs.db")
	require.NoError(t, os.WriteFile(uri, nil, 0644))

	mockDB, mock, err := sqlmock.NewWithDSN(uri)
	require.NoError(t, err)
	defer mockDB.Close()

	schemas := []string{"CREATE TABLE IF NOT EXISTS a (Id INTEGER)"}
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS a").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	cfg, err := db.New("sqlmock", &schemas, uri)
	require.NoError(t, err)
	require.True(t, cfg.DBIsExist())
	require.False(t, cfg.Created)
	require.Equal(t, "runs.db", cfg.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}
