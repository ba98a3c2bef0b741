// Package store keeps the artefacts of a transcription session (recorded
// clips and the transcript revision journal) in an in-memory SQLite database.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Store wraps the SQLite connection holding session artefacts.
type Store struct {
	db  *sql.DB
	dsn string
}

// NewMemory creates a Store backed by a fresh in-memory database.
func NewMemory() (*Store, error) {
	return New(MemoryDSN)
}

// New opens the database at dsn and runs migrations.
// The pool is pinned to one connection; every connection to ":memory:" would
// otherwise see its own empty database.
func New(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &Store{
		db:  db,
		dsn: dsn,
	}

	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// Reset removes every recording and revision.
func (s *Store) Reset() error {
	if err := s.Recordings().DeleteAll(); err != nil {
		return err
	}
	return s.Revisions().DeleteAll()
}

// Close closes the database connection. The in-memory contents are lost.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection.
func (s *Store) DB() *sql.DB {
	return s.db
}
