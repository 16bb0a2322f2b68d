package driver

import (
	"context"
	"errors"
)

// The error taxonomy is closed: every failure a Connection reports is one of
// these three kinds. Native backend status codes and messages never reach the
// returned error value; they go to the structured log only.
var (
	// ErrConnectionFailed means there is no usable session: connect failed,
	// or an operation was attempted while disconnected.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrQueryExecutionFailed means the backend rejected a statement, or the
	// result was incompatible with the requested operation (e.g. no row set
	// for Query).
	ErrQueryExecutionFailed = errors.New("query execution failed")

	// ErrTransactionFailed means a transaction state violation (nested begin,
	// commit/rollback without begin) or a backend rejection of a transaction
	// control statement.
	ErrTransactionFailed = errors.New("transaction failed")
)

// Config holds the settings used to open a backend session.
// It is owned by the caller; drivers must not retain it past Connect.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	Database string
	// Options carries backend-specific connection parameters
	// (e.g. sslmode for PostgreSQL, parseTime for MySQL).
	Options map[string]string
}

// Connection abstracts a single backend session. One instance maps to exactly
// one native session; instances are not safe for concurrent use, but distinct
// instances are fully independent.
//
// All operations other than Connect and Disconnect require a prior successful
// Connect and return ErrConnectionFailed otherwise. No operation retries
// internally, and none enforces a timeout beyond the supplied context.
type Connection interface {
	// Connect establishes (or re-establishes) the backend session. On any
	// failure the session is fully torn down; no half-open handle survives.
	Connect(ctx context.Context, cfg Config) error

	// Disconnect releases the session if present. Idempotent: calling it
	// twice, or on a never-connected instance, is a no-op.
	Disconnect()

	// Execute runs a statement expected to produce no row set (DDL/DML).
	Execute(ctx context.Context, statement string) error

	// Query runs a statement expected to produce a row set. A statement that
	// produces none (e.g. DDL) fails with ErrQueryExecutionFailed rather than
	// returning an empty result, so callers can tell "no rows" apart from
	// "wrong operation type". The caller owns the returned result and
	// releases it via Close.
	Query(ctx context.Context, statement string) (*QueryResult, error)

	// BeginTransaction starts a transaction. A nested begin is
	// ErrTransactionFailed.
	BeginTransaction(ctx context.Context) error

	// Commit finishes the active transaction. Without one it is
	// ErrTransactionFailed.
	Commit(ctx context.Context) error

	// Rollback aborts the active transaction. Without one it is
	// ErrTransactionFailed.
	Rollback(ctx context.Context) error

	// Log returns a copy of the statements submitted through this
	// connection, in submission order.
	Log() []string
}
