package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/example/empmanager/internal/persistence"
	_ "modernc.org/sqlite"
)

// ConnectionPool wraps the database handle. The pool is capped at a single
// connection because every connection to an in-memory database opens a
// database of its own.
type ConnectionPool struct {
	db *sql.DB
}

// NewConnectionPool opens dsn with the modernc.org/sqlite driver.
func NewConnectionPool(dsn string) (*ConnectionPool, error) {
	if !IsInMemoryDSN(dsn) {
		return nil, fmt.Errorf("sqlite: dsn %q is not an in-memory database", dsn)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	return &ConnectionPool{db: db}, nil
}

// IsInMemoryDSN reports whether dsn names an in-memory database: ":memory:",
// "file::memory:", or a file: URI whose every mode parameter is "memory".
// Pragmas such as journal_mode=memory do not count.
func IsInMemoryDSN(dsn string) bool {
	name, rawQuery, _ := strings.Cut(strings.TrimSpace(dsn), "?")
	if name == ":memory:" || name == "file::memory:" {
		return true
	}
	if !strings.HasPrefix(name, "file:") {
		return false
	}
	params, err := url.ParseQuery(rawQuery)
	if err != nil {
		return false
	}
	modes := params["mode"]
	if len(modes) == 0 {
		return false
	}
	for _, mode := range modes {
		if mode != "memory" {
			return false
		}
	}
	return true
}

// DB returns the underlying database connection
func (cp *ConnectionPool) DB() *sql.DB {
	return cp.db
}

// Close closes the connection pool
func (cp *ConnectionPool) Close() error {
	if cp.db != nil {
		return cp.db.Close()
	}
	return nil
}

// Ping tests the database connection
func (cp *ConnectionPool) Ping(ctx context.Context) error {
	return cp.db.PingContext(ctx)
}

// TransactionFunc represents a function that executes within a transaction
type TransactionFunc func(tx *sql.Tx) error

// WithTransaction executes fn within a transaction, rolling back when fn
// returns an error or panics.
func (cp *ConnectionPool) WithTransaction(ctx context.Context, fn TransactionFunc) (err error) {
	tx, err := cp.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction failed (rollback error: %v): %w", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ErrorMapper maps SQLite errors to persistence layer errors
type ErrorMapper struct{}

// NewErrorMapper creates a new error mapper
func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{}
}

// MapError maps SQLite-specific errors to persistence layer errors
func (em *ErrorMapper) MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return persistence.ErrNotFound
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %v", persistence.ErrDuplicate, err)
	case strings.Contains(msg, "CHECK constraint failed"), strings.Contains(msg, "NOT NULL constraint failed"):
		return fmt.Errorf("%w: %v", persistence.ErrConstraintViolation, err)
	}
	return err
}

// expectOneRow turns a zero-row update or delete into ErrNotFound.
func expectOneRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}
