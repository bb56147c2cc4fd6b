package dbutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// TxOptions represents transaction options
type TxOptions struct {
	Isolation sql.IsolationLevel
	ReadOnly  bool
	Timeout   time.Duration
}

// DefaultTxOptions provides sensible transaction defaults
var DefaultTxOptions = TxOptions{
	Isolation: sql.LevelDefault,
	ReadOnly:  false,
	Timeout:   30 * time.Second,
}

// DB interface for database operations (allows for easy testing)
type DB interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
	PingContext(ctx context.Context) error
}

// TxFunc represents a function that operates within a transaction
type TxFunc func(tx *sql.Tx) error

// Wrapper provides database operation utilities
type Wrapper struct {
	db      DB
	timeout time.Duration
}

// NewWrapper creates a new database wrapper
func NewWrapper(db DB, timeout time.Duration) *Wrapper {
	return &Wrapper{
		db:      db,
		timeout: timeout,
	}
}

// WithTransaction executes a function within a database transaction
func (w *Wrapper) WithTransaction(ctx context.Context, fn TxFunc, opts ...TxOptions) error {
	var options TxOptions
	if len(opts) > 0 {
		options = opts[0]
	} else {
		options = DefaultTxOptions
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, options.Timeout)
	defer cancel()

	sqlOpts := &sql.TxOptions{
		Isolation: options.Isolation,
		ReadOnly:  options.ReadOnly,
	}

	tx, err := w.db.BeginTx(ctxWithTimeout, sqlOpts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("transaction failed with error: %v, rollback also failed: %w", err, rollbackErr)
		}
		return fmt.Errorf("transaction rolled back due to error: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// PingWithTimeout checks database connectivity with timeout
func (w *Wrapper) PingWithTimeout(ctx context.Context, timeout ...time.Duration) error {
	var t time.Duration
	if len(timeout) > 0 {
		t = timeout[0]
	} else {
		t = w.timeout
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, t)
	defer cancel()

	return w.db.PingContext(ctxWithTimeout)
}

// SaveWithRetry attempts a transactional save with retry for transient
// conflicts (a busy or locked SQLite database).
func (w *Wrapper) SaveWithRetry(ctx context.Context, fn TxFunc, maxRetries int) error {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := w.WithTransaction(ctx, fn)
		if err == nil {
			return nil
		}

		lastErr = err

		if !isRetryableError(err) {
			return err
		}

		if attempt < maxRetries {
			waitTime := time.Duration(attempt+1) * 100 * time.Millisecond
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(waitTime):
			}
		}
	}

	return fmt.Errorf("operation failed after %d retries, last error: %w", maxRetries, lastErr)
}

// isRetryableError determines if a database error is retryable
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	retryableErrors := []string{
		"database is locked",
		"database is busy",
		"deadlock",
	}

	for _, retryableErr := range retryableErrors {
		if strings.Contains(errStr, retryableErr) {
			return true
		}
	}

	return false
}
