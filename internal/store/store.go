// Package store persists canonical position and transaction records in a
// local SQLite database, keyed by the import run that produced them.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	apperrors "portocli/internal/errors"
)

const dateLayout = "2006-01-02"

// Store manages the SQLite database holding imported statement data.
type Store struct {
	db       *sql.DB
	validate *validator.Validate
}

// Open opens (and on first use creates) the database at dbPath. WAL mode
// keeps concurrent readers cheap; foreign keys tie records to their run.
func Open(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, apperrors.NewStorageError("failed to create database directory", err)
		}
	}

	connStr := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open database", err)
	}

	if dbPath == ":memory:" {
		// Each pooled connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, apperrors.NewStorageError("failed to ping database", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, apperrors.NewStorageError("failed to initialize schema", err)
	}

	return &Store{db: db, validate: validator.New()}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// DB exposes the underlying handle for ad-hoc queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func parseStoredDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.UTC)
}
