package database

import (
	"database/sql"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// DefaultBusyTimeout is how long SQLite waits on a locked database before failing
const DefaultBusyTimeout = 5 * time.Second

// Options controls how the SQLite connection is opened
type Options struct {
	// BusyTimeout is passed to PRAGMA busy_timeout. Zero uses DefaultBusyTimeout.
	BusyTimeout time.Duration

	// ForeignKeys enables PRAGMA foreign_keys on every connection
	ForeignKeys bool
}

// DefaultOptions returns options with foreign keys enforced
func DefaultOptions() Options {
	return Options{
		BusyTimeout: DefaultBusyTimeout,
		ForeignKeys: true,
	}
}

// DB wraps the SQLite database connection
type DB struct {
	*sql.DB
	path string
	mu   sync.Mutex
}

// Open creates a new database connection. The caller owns the returned
// handle and must Close it.
func Open(path string, opts Options) (*DB, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	db, err := sql.Open("sqlite", dsn(path, opts))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// A single connection keeps statement order and pragmas deterministic
	db.SetMaxOpenConns(1)

	log.Debug().Str("path", path).Bool("foreign_keys", opts.ForeignKeys).Msg("Database connection established")

	return &DB{
		DB:   db,
		path: path,
	}, nil
}

func dsn(path string, opts Options) string {
	timeout := opts.BusyTimeout
	if timeout <= 0 {
		timeout = DefaultBusyTimeout
	}

	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", timeout.Milliseconds()))
	if opts.ForeignKeys {
		q.Add("_pragma", "foreign_keys(1)")
	}
	return path + "?" + q.Encode()
}

// Path returns the database file path
func (db *DB) Path() string {
	return db.path
}

// Close releases the underlying connection
func (db *DB) Close() error {
	if db == nil || db.DB == nil {
		return nil
	}
	log.Debug().Str("path", db.path).Msg("Closing database")
	return db.DB.Close()
}

// Transaction wraps a function in a database transaction
func (db *DB) Transaction(fn func(*sql.Tx) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("Failed to rollback transaction")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
