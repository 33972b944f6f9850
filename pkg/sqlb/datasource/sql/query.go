package sql

import (
	"context"
	"database/sql"
	"time"

	pkgerrors "github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/sllt/sqlbuilder/pkg/sqlb"
)

// Query prepares, binds and runs one statement against a DB. It implements
// sqlb.Handle. A Query is not safe for concurrent use; Close releases the
// prepared statement and any open rows.
type Query struct {
	db     *DB
	query  string
	stmt   *sql.Stmt
	args   []any
	rows   *sql.Rows
	result sql.Result
}

var _ sqlb.Handle = (*Query)(nil)

// NewQuery returns an unprepared Query on d.
func (d *DB) NewQuery() *Query {
	return &Query{db: d}
}

// Prepare rebinds the placeholders for the database dialect and prepares
// the statement. Previous state of q is released.
func (q *Query) Prepare(ctx context.Context, query string) error {
	if err := q.Close(); err != nil {
		return err
	}

	q.query = q.db.rebind(query)

	stmt, err := q.db.DB.PrepareContext(ctx, q.query)
	if err != nil {
		q.db.sendOperationStats(ctx, time.Now(), "Prepare", q.query, err)
		return pkgerrors.Wrapf(err, "preparing %q", q.query)
	}

	q.stmt = stmt

	return nil
}

// Bind sets the argument for the placeholder at ordinal.
func (q *Query) Bind(ordinal int, v sqlb.Value) {
	for len(q.args) <= ordinal {
		q.args = append(q.args, nil)
	}

	q.args[ordinal] = v.Any()
}

// Run executes the prepared statement. Select statements keep their rows
// for Rows; everything else keeps its Result.
func (q *Query) Run(ctx context.Context) (err error) {
	if q.stmt == nil {
		return errNotPrepared
	}

	op := getOperationType(q.query)

	ctx, span := q.db.tracer.Start(ctx, "sqlb-"+op, trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("sqlb.query", clean(q.query)), attribute.Int("sqlb.args", len(q.args))))
	defer span.End()

	defer func(start time.Time) {
		q.db.sendOperationStats(ctx, start, "Run", q.query, err, q.args...)

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}(time.Now())

	if op == "SELECT" {
		rows, err := q.stmt.QueryContext(ctx, q.args...)
		if err != nil {
			return pkgerrors.Wrap(err, "running query")
		}

		q.rows = rows

		return nil
	}

	res, err := q.stmt.ExecContext(ctx, q.args...)
	if err != nil {
		return pkgerrors.Wrap(err, "executing statement")
	}

	q.result = res

	return nil
}

// Rows returns the rows of a select statement after Run. The caller owns
// them until Close.
func (q *Query) Rows() *sql.Rows { return q.rows }

// Result returns the result of a non-select statement after Run.
func (q *Query) Result() sql.Result { return q.result }

// Args returns the arguments bound so far.
func (q *Query) Args() []any { return q.args }

// SQL returns the statement text as sent to the driver.
func (q *Query) SQL() string { return q.query }

// Close releases the rows and the prepared statement.
func (q *Query) Close() error {
	var err error

	if q.rows != nil {
		err = q.rows.Close()
		q.rows = nil
	}

	if q.stmt != nil {
		if cerr := q.stmt.Close(); err == nil {
			err = cerr
		}

		q.stmt = nil
	}

	q.args = q.args[:0]
	q.result = nil

	return err
}
