// Package sql runs sqlb statements through database/sql. It wraps sql.DB
// with statement logging, metrics, tracing and postgres placeholder
// rebinding, and implements sqlb.Handle with Query.
package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/XSAM/otelsql"
	pkgerrors "github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	// drivers for the supported dialects.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/sllt/sqlbuilder/pkg/sqlb"
	"github.com/sllt/sqlbuilder/pkg/sqlb/config"
	"github.com/sllt/sqlbuilder/pkg/sqlb/logging"
)

const pingTimeout = 5 * time.Second

var (
	errInvalidConfig        = errors.New("invalid database config")
	errSelectDataNotPointer = errors.New("data is not a pointer")
	errSelectUnsupported    = errors.New("unsupported select destination type")
	errNotPrepared          = errors.New("statement is not prepared")
)

// DB is a wrapper around sql.DB which provides some more features.
type DB struct {
	// contains unexported or private fields
	*sql.DB
	logger  logging.Logger
	config  *DBConfig
	metrics Metrics
	tracer  trace.Tracer
}

// Log is the record written for every statement.
type Log struct {
	Type     string `json:"type"`
	Query    string `json:"query"`
	Duration int64  `json:"duration"`
	Args     []any  `json:"args,omitempty"`
}

// PrettyPrint writes the statement as one colored terminal line.
func (l *Log) PrettyPrint(writer io.Writer) {
	fmt.Fprintf(writer, "\u001B[38;5;8m%-32s \u001B[38;5;24m%-6s\u001B[0m %8d\u001B[38;5;8mµs\u001B[0m %s\n",
		l.Type, "SQL", l.Duration, clean(l.Query))
}

var whitespace = regexp.MustCompile(`\s+`)

func clean(query string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(query, " "))
}

// NewSQL reads DB_* keys from configs and connects. It returns nil when
// DB_DIALECT is not set.
func NewSQL(configs config.Config, logger logging.Logger, metrics Metrics) (*DB, error) {
	if configs.Get("DB_DIALECT") == "" {
		return nil, nil //nolint:nilnil // no database configured
	}

	return New(getDBConfig(configs), logger, metrics)
}

// New validates cfg, opens a traced connection pool and pings it.
func New(cfg *DBConfig, logger logging.Logger, metrics Metrics) (*DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	driverName, dsn := cfg.driver()

	db, err := otelsql.Open(driverName, dsn, otelsql.WithAttributes(attribute.String("db.system", cfg.Dialect)))
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "opening %s database", cfg.Dialect)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConn)
	db.SetMaxIdleConns(cfg.MaxIdleConn)

	// every connection to an in-memory sqlite database is a new database, so
	// exactly one connection is kept open for the life of the pool
	if cfg.inMemory() {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, pkgerrors.Wrapf(err, "connecting to %s database %q", cfg.Dialect, cfg.Database)
	}

	if logger != nil {
		logger.Infof("connected to '%s' database at '%s'", cfg.Database, cfg.HostName)
	}

	return newDB(db, cfg, logger, metrics), nil
}

func newDB(db *sql.DB, cfg *DBConfig, logger logging.Logger, metrics Metrics) *DB {
	if logger == nil {
		logger = logging.NewFileLogger("")
	}

	return &DB{
		DB:      db,
		logger:  logger,
		config:  cfg,
		metrics: metrics,
		tracer:  otel.GetTracerProvider().Tracer("sqlb"),
	}
}

// Dialect returns the canonical dialect name.
func (d *DB) Dialect() string {
	return d.config.Dialect
}

func (d *DB) rebind(query string) string {
	return sqlb.Rebind(sqlb.Dialect(d.config.Dialect), query)
}

func (d *DB) sendOperationStats(ctx context.Context, start time.Time, queryType, query string, err error, args ...any) {
	duration := time.Since(start).Microseconds()

	l := logging.NewContextLogger(ctx, d.logger)
	l.Debug(&Log{
		Type:     queryType,
		Query:    query,
		Duration: duration,
		Args:     args,
	})

	if err != nil {
		l.Errorf("error running %s: %v", queryType, err)
	}

	if d.metrics == nil {
		return
	}

	d.metrics.RecordHistogram(ctx, metricStats, float64(duration)/1000, "hostname", d.config.HostName,
		"database", d.config.Database, "type", getOperationType(query))

	if err != nil {
		d.metrics.IncrementCounter(ctx, metricErrors, "database", d.config.Database, "type", getOperationType(query))
	}
}

func getOperationType(query string) string {
	query = strings.TrimSpace(query)
	words := strings.Fields(query)

	if len(words) == 0 {
		return ""
	}

	return strings.ToUpper(words[0])
}

// QueryContext runs a raw query. `?` placeholders are rebound for postgres.
func (d *DB) QueryContext(ctx context.Context, query string, args ...any) (rows *sql.Rows, err error) {
	query = d.rebind(query)
	defer func(start time.Time) { d.sendOperationStats(ctx, start, "QueryContext", query, err, args...) }(time.Now())

	return d.DB.QueryContext(ctx, query, args...)
}

// QueryRowContext runs a raw query returning at most one row.
func (d *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	query = d.rebind(query)
	defer d.sendOperationStats(ctx, time.Now(), "QueryRowContext", query, nil, args...)

	return d.DB.QueryRowContext(ctx, query, args...)
}

// ExecContext runs a raw statement.
func (d *DB) ExecContext(ctx context.Context, query string, args ...any) (res sql.Result, err error) {
	query = d.rebind(query)
	defer func(start time.Time) { d.sendOperationStats(ctx, start, "ExecContext", query, err, args...) }(time.Now())

	return d.DB.ExecContext(ctx, query, args...)
}

// Exec runs a statement that returns no rows.
func (d *DB) Exec(ctx context.Context, st sqlb.Statement) (sql.Result, error) {
	q := d.NewQuery()
	defer q.Close()

	if err := st.Execute(ctx, q); err != nil {
		return nil, err
	}

	if q.Result() == nil {
		return nil, pkgerrors.Errorf("statement %q returned rows, use Select", clean(q.query))
	}

	return q.Result(), nil
}

// Close closes the connection pool.
func (d *DB) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}

	return nil
}
