package runarchivedb_test

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/yggdrasil-network/rplsim/src/db"
	runarchivedb "github.com/yggdrasil-network/rplsim/src/db/RunArchiveDB"
	"github.com/yggdrasil-network/rplsim/src/exchange"
	"github.com/yggdrasil-network/rplsim/src/types"
)

func newArchive(t *testing.T) (*runarchivedb.RunArchiveDBConfig, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })
	cfg := &runarchivedb.RunArchiveDBConfig{
		DbConfig: &db.DbConfig{DB: mockDB, Name: runarchivedb.Name, Driver: "sqlmock"},
	}
	return cfg, mock
}

func testRun() *runarchivedb.Run {
	return &runarchivedb.Run{
		Started:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Nodes:      3,
		Iterations: 100,
		Curve:      "P-256",
		Anchor: types.Solution{
			Position: types.Position{X: 0.25, Y: -0.5},
			Fitness:  0.3125,
		},
		Outcomes: []exchange.Outcome{
			{Attempt: 0, Sender: 0, Receiver: 1, Success: true},
			{Attempt: 1, Sender: 2, Receiver: 0, Reason: "shared secret mismatch"},
		},
	}
}

func TestNewCreatesTables(t *testing.T) {
	mockDB, mock, err := sqlmock.NewWithDSN("archive-new")
	require.NoError(t, err)
	defer mockDB.Close()

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS runs").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS outcomes").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	cfg, err := runarchivedb.New("sqlmock", "archive-new")
	require.NoError(t, err)
	require.NotNil(t, cfg.DbConfig.DB)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddRun(t *testing.T) {
	cfg, mock := newArchive(t)
	run := testRun()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO runs").
		WithArgs(run.Started, 3, run.Iterations, "P-256", 0.25, -0.5, 0.3125, 1, 1).
		WillReturnResult(sqlmock.NewResult(7, 1))
	prep := mock.ExpectPrepare("INSERT INTO outcomes")
	prep.ExpectExec().
		WithArgs(int64(7), uint32(0), uint32(0), uint32(1), true, sql.NullString{}).
		WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().
		WithArgs(int64(7), uint32(1), uint32(2), uint32(0), false, sql.NullString{String: "shared secret mismatch", Valid: true}).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, cfg.Add(run))
	require.EqualValues(t, 7, run.Id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddRunRollsBack(t *testing.T) {
	cfg, mock := newArchive(t)
	run := testRun()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO runs").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	require.Error(t, cfg.Add(run))
	require.Zero(t, run.Id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRun(t *testing.T) {
	cfg, mock := newArchive(t)
	started := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"Started", "Nodes", "Iterations", "Curve", "AnchorX", "AnchorY", "Fitness"}).
		AddRow(started, 200, 100, "X25519", 1.5, 2.0, 6.25)
	mock.ExpectQuery("SELECT (.+) FROM runs WHERE Id = \\?").
		WithArgs(int64(4)).
		WillReturnRows(rows)

	run := &runarchivedb.Run{Id: 4}
	require.NoError(t, cfg.Get(run))
	require.Equal(t, started, run.Started)
	require.Equal(t, 200, run.Nodes)
	require.Equal(t, "X25519", run.Curve)
	require.Equal(t, 6.25, run.Anchor.Fitness)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCountRuns(t *testing.T) {
	cfg, mock := newArchive(t)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM runs").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	count, err := cfg.Count()
	require.NoError(t, err)
	require.Equal(t, 3, count)
	require.NoError(t, mock.ExpectationsWereMet())
}
