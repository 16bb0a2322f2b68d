package driver

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
)

// MySQLConnection is the MySQL implementation of Connection. Like the
// PostgreSQL driver it pins one *sql.Conn so the instance owns exactly one
// backend session.
type MySQLConnection struct {
	id        string
	db        *sql.DB
	session   *sql.Conn
	connected bool
	inTx      bool
	log       []string
}

var _ Connection = (*MySQLConnection)(nil)

func NewMySQLConnection() *MySQLConnection {
	return &MySQLConnection{id: uuid.New().String()}
}

func (c *MySQLConnection) Connect(ctx context.Context, cfg Config) error {
	if c.connected {
		c.Disconnect()
	}

	db, err := sqlOpen("mysql", mysqlDSN(cfg))
	if err != nil {
		slog.Error("mysql open failed", "conn_id", c.id, "error", err)
		return ErrConnectionFailed
	}

	session, err := db.Conn(ctx)
	if err != nil {
		_ = db.Close()
		slog.Error("mysql connect failed", "conn_id", c.id, "host", cfg.Host, "database", cfg.Database, "error", err)
		return ErrConnectionFailed
	}

	c.db = db
	c.session = session
	c.connected = true
	slog.Info("mysql session established", "conn_id", c.id, "host", cfg.Host, "database", cfg.Database)
	return nil
}

func (c *MySQLConnection) Disconnect() {
	if c.session != nil {
		_ = c.session.Close()
		c.session = nil
	}
	if c.db != nil {
		_ = c.db.Close()
		c.db = nil
	}
	if c.connected {
		slog.Info("mysql session closed", "conn_id", c.id)
	}
	c.connected = false
	c.inTx = false
}

func (c *MySQLConnection) Execute(ctx context.Context, statement string) error {
	if !c.connected {
		return ErrConnectionFailed
	}
	c.log = append(c.log, statement)

	if _, err := c.session.ExecContext(ctx, statement); err != nil {
		slog.Error("mysql execute failed", "conn_id", c.id, "error", err)
		return ErrQueryExecutionFailed
	}
	return nil
}

func (c *MySQLConnection) Query(ctx context.Context, statement string) (*QueryResult, error) {
	if !c.connected {
		return nil, ErrConnectionFailed
	}
	c.log = append(c.log, statement)

	rows, err := c.session.QueryContext(ctx, statement)
	if err != nil {
		slog.Error("mysql query failed", "conn_id", c.id, "error", err)
		return nil, ErrQueryExecutionFailed
	}
	defer rows.Close()

	res, err := collectRows(rows, coerceMySQL)
	if err != nil {
		slog.Error("mysql result read failed", "conn_id", c.id, "error", err)
		return nil, ErrQueryExecutionFailed
	}
	return res, nil
}

func (c *MySQLConnection) BeginTransaction(ctx context.Context) error {
	return c.txControl(ctx, "START TRANSACTION", false, true)
}

func (c *MySQLConnection) Commit(ctx context.Context) error {
	return c.txControl(ctx, "COMMIT", true, false)
}

func (c *MySQLConnection) Rollback(ctx context.Context) error {
	return c.txControl(ctx, "ROLLBACK", true, false)
}

func (c *MySQLConnection) txControl(ctx context.Context, statement string, wantTx, nextTx bool) error {
	if !c.connected {
		return ErrConnectionFailed
	}
	if c.inTx != wantTx {
		return ErrTransactionFailed
	}
	c.log = append(c.log, statement)

	if _, err := c.session.ExecContext(ctx, statement); err != nil {
		slog.Error("mysql transaction control failed", "conn_id", c.id, "statement", statement, "error", err)
		return ErrTransactionFailed
	}
	c.inTx = nextTx
	return nil
}

func (c *MySQLConnection) Log() []string {
	return append([]string(nil), c.log...)
}

// mysqlDSN builds the DSN through the driver's own config type instead of
// string concatenation, so credentials with special characters survive.
func mysqlDSN(cfg Config) string {
	mc := mysql.NewConfig()
	mc.User = cfg.Username
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	mc.DBName = cfg.Database
	if len(cfg.Options) > 0 {
		mc.Params = make(map[string]string, len(cfg.Options))
		for k, v := range cfg.Options {
			mc.Params[k] = v
		}
	}
	return mc.FormatDSN()
}

// coerceMySQL classifies a go-sql-driver/mysql column by its reported type
// name. The driver prefixes unsigned integer columns with "UNSIGNED ", which
// is irrelevant to classification and stripped first. MySQL has no native
// boolean; TINYINT(1) stays in the integer family. Date/time and anything
// unrecognized stay textual.
func coerceMySQL(typeName string, raw []byte) Value {
	typeName = strings.TrimPrefix(typeName, "UNSIGNED ")
	switch typeName {
	case "TINYINT", "SMALLINT", "MEDIUMINT", "INT", "BIGINT":
		return integerValue(raw)
	case "FLOAT", "DOUBLE", "DECIMAL":
		return floatValue(raw)
	case "BINARY", "VARBINARY", "TINYBLOB", "BLOB", "MEDIUMBLOB", "LONGBLOB":
		return Blob(raw)
	default:
		return TextBytes(raw)
	}
}
