package runarchivedb

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/yggdrasil-network/rplsim/src/db"
	"github.com/yggdrasil-network/rplsim/src/exchange"
	"github.com/yggdrasil-network/rplsim/src/types"
)

// RunArchiveDBConfig appends finished runs to an SQLite database. Only run
// summaries and outcome flags are stored, never key material.
type RunArchiveDBConfig struct {
	DbConfig *db.DbConfig
	name     string
}

var Name = "RunArchive"

var schemas = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		Id INTEGER NOT NULL PRIMARY KEY,
		Started TIMESTAMP,
		Nodes INTEGER,
		Iterations INTEGER,
		Curve TEXT,
		AnchorX REAL,
		AnchorY REAL,
		Fitness REAL,
		Successes INTEGER,
		Failures INTEGER
	);`,
	`CREATE TABLE IF NOT EXISTS outcomes (
		RunId INTEGER NOT NULL REFERENCES runs(Id),
		Attempt INTEGER NOT NULL,
		Sender INTEGER,
		Receiver INTEGER,
		Success INTEGER,
		Reason TEXT NULL,
		PRIMARY KEY (RunId, Attempt)
	);`,
}

// Run is the archived summary of one simulation run.
type Run struct {
	Id         int64
	Started    time.Time
	Nodes      int
	Iterations uint32
	Curve      string
	Anchor     types.Solution
	Outcomes   []exchange.Outcome
}

// Counts returns how many outcomes succeeded and failed.
func (r *Run) Counts() (successes, failures int) {
	for _, o := range r.Outcomes {
		if o.Success {
			successes++
		} else {
			failures++
		}
	}
	return
}

// New opens the archive at uri with the given driver, creating the tables
// when they do not exist yet. The driver is normally "sqlite3".
func New(driver, uri string) (*RunArchiveDBConfig, error) {
	dbcfg, err := db.New(driver, &schemas, uri)
	if err != nil {
		return nil, fmt.Errorf("opening run archive %q: %w", uri, err)
	}
	cfg := &RunArchiveDBConfig{
		name:     Name,
		DbConfig: dbcfg,
	}
	return cfg, nil
}

// Add stores the run and all of its outcomes in one transaction and sets
// model.Id to the new run's row id.
func (cfg *RunArchiveDBConfig) Add(model *Run) (err error) {
	tx, err := cfg.DbConfig.DB.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	successes, failures := model.Counts()
	result, err := tx.Exec("INSERT INTO runs (Started, Nodes, Iterations, Curve, AnchorX, AnchorY, Fitness, Successes, Failures) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		model.Started,
		model.Nodes,
		model.Iterations,
		model.Curve,
		model.Anchor.Position.X,
		model.Anchor.Position.Y,
		model.Anchor.Fitness,
		successes,
		failures)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare("INSERT INTO outcomes (RunId, Attempt, Sender, Receiver, Success, Reason) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, o := range model.Outcomes {
		reason := sql.NullString{String: o.Reason, Valid: o.Reason != ""}
		if _, err = stmt.Exec(id, o.Attempt, uint32(o.Sender), uint32(o.Receiver), o.Success, reason); err != nil {
			return err
		}
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	model.Id = id
	return nil
}

// Get loads the summary of run model.Id. Outcomes are not loaded.
func (cfg *RunArchiveDBConfig) Get(model *Run) error {
	row := cfg.DbConfig.DB.QueryRow(`
			SELECT
				Started, Nodes, Iterations, Curve, AnchorX, AnchorY, Fitness
			FROM
				runs
			WHERE Id = ?`,
		model.Id)
	return row.Scan(&model.Started, &model.Nodes, &model.Iterations, &model.Curve,
		&model.Anchor.Position.X, &model.Anchor.Position.Y, &model.Anchor.Fitness)
}

// Count returns the number of archived runs.
func (cfg *RunArchiveDBConfig) Count() (int, error) {
	var count int
	err := cfg.DbConfig.DB.QueryRow("SELECT COUNT(*) FROM runs").Scan(&count)
	return count, err
}

func (cfg *RunArchiveDBConfig) Close() error {
	return cfg.DbConfig.CloseDb()
}
