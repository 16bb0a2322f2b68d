package driver

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// sqlOpen is swapped in tests to run the SQL drivers against a scripted
// database/sql backend.
var sqlOpen = sql.Open

// PostgresConnection is the PostgreSQL implementation of Connection.
// It pins a single *sql.Conn so one instance maps to exactly one backend
// session, bypassing database/sql pooling.
type PostgresConnection struct {
	id        string
	db        *sql.DB
	session   *sql.Conn
	connected bool
	inTx      bool
	log       []string
}

var _ Connection = (*PostgresConnection)(nil)

func NewPostgresConnection() *PostgresConnection {
	return &PostgresConnection{id: uuid.New().String()}
}

func (c *PostgresConnection) Connect(ctx context.Context, cfg Config) error {
	if c.connected {
		c.Disconnect()
	}

	db, err := sqlOpen("postgres", postgresDSN(cfg))
	if err != nil {
		slog.Error("postgres open failed", "conn_id", c.id, "error", err)
		return ErrConnectionFailed
	}

	session, err := db.Conn(ctx)
	if err != nil {
		_ = db.Close()
		slog.Error("postgres connect failed", "conn_id", c.id, "host", cfg.Host, "database", cfg.Database, "error", err)
		return ErrConnectionFailed
	}

	c.db = db
	c.session = session
	c.connected = true
	slog.Info("postgres session established", "conn_id", c.id, "host", cfg.Host, "database", cfg.Database)
	return nil
}

func (c *PostgresConnection) Disconnect() {
	if c.session != nil {
		_ = c.session.Close()
		c.session = nil
	}
	if c.db != nil {
		_ = c.db.Close()
		c.db = nil
	}
	if c.connected {
		slog.Info("postgres session closed", "conn_id", c.id)
	}
	c.connected = false
	c.inTx = false
}

func (c *PostgresConnection) Execute(ctx context.Context, statement string) error {
	if !c.connected {
		return ErrConnectionFailed
	}
	c.log = append(c.log, statement)

	if _, err := c.session.ExecContext(ctx, statement); err != nil {
		slog.Error("postgres execute failed", "conn_id", c.id, "error", err)
		return ErrQueryExecutionFailed
	}
	return nil
}

func (c *PostgresConnection) Query(ctx context.Context, statement string) (*QueryResult, error) {
	if !c.connected {
		return nil, ErrConnectionFailed
	}
	c.log = append(c.log, statement)

	rows, err := c.session.QueryContext(ctx, statement)
	if err != nil {
		slog.Error("postgres query failed", "conn_id", c.id, "error", err)
		return nil, ErrQueryExecutionFailed
	}
	defer rows.Close()

	res, err := collectRows(rows, coercePostgres)
	if err != nil {
		slog.Error("postgres result read failed", "conn_id", c.id, "error", err)
		return nil, ErrQueryExecutionFailed
	}
	return res, nil
}

func (c *PostgresConnection) BeginTransaction(ctx context.Context) error {
	return c.txControl(ctx, "BEGIN", false, true)
}

func (c *PostgresConnection) Commit(ctx context.Context) error {
	return c.txControl(ctx, "COMMIT", true, false)
}

func (c *PostgresConnection) Rollback(ctx context.Context) error {
	return c.txControl(ctx, "ROLLBACK", true, false)
}

// txControl issues a transaction control statement as a plain statement on
// the pinned session. The inTx flag only changes when the backend accepted
// the statement.
func (c *PostgresConnection) txControl(ctx context.Context, statement string, wantTx, nextTx bool) error {
	if !c.connected {
		return ErrConnectionFailed
	}
	if c.inTx != wantTx {
		return ErrTransactionFailed
	}
	c.log = append(c.log, statement)

	if _, err := c.session.ExecContext(ctx, statement); err != nil {
		slog.Error("postgres transaction control failed", "conn_id", c.id, "statement", statement, "error", err)
		return ErrTransactionFailed
	}
	c.inTx = nextTx
	return nil
}

func (c *PostgresConnection) Log() []string {
	return append([]string(nil), c.log...)
}

// postgresDSN renders a lib/pq key=value connection string. Values are
// single-quoted so hosts, passwords and options survive spaces.
func postgresDSN(cfg Config) string {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
		pqQuote(cfg.Host), cfg.Port, pqQuote(cfg.Username), pqQuote(cfg.Password), pqQuote(cfg.Database))
	for k, v := range cfg.Options {
		dsn += fmt.Sprintf(" %s=%s", k, pqQuote(v))
	}
	return dsn
}

// pqQuote single-quotes a DSN value, escaping backslashes and embedded
// quotes so credentials containing either still parse.
func pqQuote(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// coercePostgres classifies a lib/pq column by its reported type name.
// Character, JSON, date/time and anything unrecognized stay textual; there is
// no semantic date type in the canonical model.
func coercePostgres(typeName string, raw []byte) Value {
	switch typeName {
	case "INT2", "INT4", "INT8":
		return integerValue(raw)
	case "FLOAT4", "FLOAT8", "NUMERIC":
		return floatValue(raw)
	case "BOOL":
		return booleanValue(raw)
	case "BYTEA":
		return Blob(raw)
	default:
		return TextBytes(raw)
	}
}
