// Package store persists the environment registry in a SQLite database.
//
// The registry is small and always handled as a whole: it is loaded once at
// startup and flushed back in full, activation flags included, on teardown.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nauticalab/devenv-compose/internal/environment"
	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Store is the durable home of the environment registry
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the registry database at path
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("store: create data dir: %w", err)
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: migration: %w", err)
	}
	return s, nil
}

// Path returns the database file location
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS environments (
			position         INTEGER NOT NULL,
			name             TEXT    NOT NULL UNIQUE,
			location         TEXT    NOT NULL UNIQUE,
			type             TEXT    NOT NULL,
			active           INTEGER NOT NULL DEFAULT 0,
			php_version      TEXT    NOT NULL DEFAULT '',
			database_version TEXT    NOT NULL DEFAULT '',
			domains          TEXT    NOT NULL DEFAULT ''
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Load returns every stored record in registry order
func (s *Store) Load() ([]environment.Record, error) {
	rows, err := s.db.Query(`
		SELECT name, location, type, active, php_version, database_version, domains
		FROM environments
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("store: load environments: %w", err)
	}
	defer rows.Close()

	var records []environment.Record
	for rows.Next() {
		var (
			rec     environment.Record
			typeStr string
		)
		if err := rows.Scan(&rec.Name, &rec.Location, &typeStr, &rec.Active,
			&rec.PHPVersion, &rec.DatabaseVersion, &rec.Domains); err != nil {
			return nil, fmt.Errorf("store: scan environment: %w", err)
		}
		if rec.Type, err = environment.ParseType(typeStr); err != nil {
			return nil, fmt.Errorf("store: environment %q: %w", rec.Name, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: load environments: %w", err)
	}
	return records, nil
}

// Save replaces the stored registry with records
func (s *Store) Save(records []environment.Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM environments`); err != nil {
		return fmt.Errorf("store: clear environments: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO environments
			(position, name, location, type, active, php_version, database_version, domains)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("store: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		if _, err := stmt.Exec(i, rec.Name, rec.Location, string(rec.Type), rec.Active,
			rec.PHPVersion, rec.DatabaseVersion, rec.Domains); err != nil {
			return fmt.Errorf("store: save environment %q: %w", rec.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}
