package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	apperrors "github.com/Maximus-Ay/GoLocal/pkg/errors"
)

// Database interface defines the contract for local persistence. Only
// client-side state lives here: the session and application settings. File
// metadata and quota are owned by the backend and never stored locally.
type Database interface {
	// Configuration operations
	SaveConfig(key, value string) error
	GetConfig(key string) (string, error)
	DeleteConfig(key string) error

	// Database lifecycle
	Close() error
}

// SQLiteDatabase implements Database interface using SQLite
type SQLiteDatabase struct {
	db *sql.DB
}

// NewSQLiteDatabase creates a new SQLite database instance
func NewSQLiteDatabase(dbPath string) (*SQLiteDatabase, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrDatabaseError,
				fmt.Sprintf("failed to create database directory %s", dir), err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrDatabaseError, "failed to open database", err)
	}

	sqlite := &SQLiteDatabase{db: db}
	if err := sqlite.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return sqlite, nil
}

func (s *SQLiteDatabase) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS config (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);`

	if _, err := s.db.Exec(schema); err != nil {
		return apperrors.NewAppError(apperrors.ErrDatabaseError, "failed to create schema", err)
	}
	return nil
}

// SaveConfig stores or replaces a configuration value
func (s *SQLiteDatabase) SaveConfig(key, value string) error {
	query := `
	INSERT INTO config (key, value, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	if _, err := s.db.Exec(query, key, value, time.Now()); err != nil {
		return apperrors.NewAppError(apperrors.ErrDatabaseError,
			fmt.Sprintf("failed to save config key %s", key), err)
	}
	return nil
}

// GetConfig retrieves a configuration value by key
func (s *SQLiteDatabase) GetConfig(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM config WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", apperrors.NewAppError(apperrors.ErrRecordNotFound,
			fmt.Sprintf("no config value for key %s", key), nil)
	}
	if err != nil {
		return "", apperrors.NewAppError(apperrors.ErrDatabaseError,
			fmt.Sprintf("failed to read config key %s", key), err)
	}
	return value, nil
}

// DeleteConfig removes a configuration value. Deleting a missing key is not
// an error.
func (s *SQLiteDatabase) DeleteConfig(key string) error {
	if _, err := s.db.Exec(`DELETE FROM config WHERE key = ?`, key); err != nil {
		return apperrors.NewAppError(apperrors.ErrDatabaseError,
			fmt.Sprintf("failed to delete config key %s", key), err)
	}
	return nil
}

// Close closes the underlying database handle
func (s *SQLiteDatabase) Close() error {
	return s.db.Close()
}
