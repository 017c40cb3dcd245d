package db

import (
	"database/sql"
	"errors"
	"os"
	"path"
)

// DbConfig is an open database together with where it came from. Created
// is set when no file existed at Uri before New opened it.
type DbConfig struct {
	Uri     string
	DB      *sql.DB
	Name    string
	Driver  string
	Created bool
}

// New opens the database at uri and applies every schema statement in a
// single transaction. The returned database is open and must be closed with
// CloseDb.
func New(driver string, schemas *[]string, uri string) (*DbConfig, error) {
	cfg := &DbConfig{
		Uri:    uri,
		Name:   path.Base(uri),
		Driver: driver,
	}
	cfg.Created = !cfg.DBIsExist()
	db, err := initDB(driver, schemas, uri)
	if err != nil {
		return nil, err
	}
	cfg.DB = db
	return cfg, nil
}

func initDB(driver string, schemas *[]string, uri string) (*sql.DB, error) {
	database, err := sql.Open(driver, uri)
	if err != nil {
		return nil, err
	}
	tx, err := database.Begin()
	if err != nil {
		_ = database.Close()
		return nil, err
	}
	for _, schema := range *schemas {
		if _, err := tx.Exec(schema); err != nil {
			_ = tx.Rollback()
			_ = database.Close()
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		_ = database.Close()
		return nil, err
	}
	return database, nil
}

func (cfg *DbConfig) CloseDb() error {
	if cfg.DB == nil {
		return nil
	}
	err := cfg.DB.Close()
	cfg.DB = nil
	return err
}

func (cfg *DbConfig) DBIsOpened() bool {
	return cfg.DB != nil
}

func (cfg *DbConfig) DBIsExist() bool {
	_, err := os.Stat(cfg.Uri)
	return !errors.Is(err, os.ErrNotExist)
}
