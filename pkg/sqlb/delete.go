package sqlb

import (
	"context"
	"strings"
)

// DeleteBuilder assembles "delete from t [where ...]".
type DeleteBuilder struct {
	tables []string
	where  conditions
}

// NewDelete returns an empty DeleteBuilder.
func NewDelete() *DeleteBuilder {
	return &DeleteBuilder{}
}

// DeleteFrom starts a DeleteBuilder for the given tables.
func DeleteFrom(tables ...string) *DeleteBuilder {
	return NewDelete().From(tables...)
}

// From appends tables to delete from.
func (d *DeleteBuilder) From(tables ...string) *DeleteBuilder {
	d.tables = append(d.tables, tables...)
	return d
}

// Where adds a where condition. Conditions are joined with "and".
func (d *DeleteBuilder) Where(cond Expr) *DeleteBuilder {
	d.where.add(cond)
	return d
}

// Serialize returns the statement text.
func (d *DeleteBuilder) Serialize() string {
	var b strings.Builder

	b.WriteString("delete from ")
	joinTo(&b, d.tables, ", ")
	d.where.writeTo(&b, "where")

	return b.String()
}

// Bindings returns the where values.
func (d *DeleteBuilder) Bindings() []Value { return concatValues(d.where.bindings) }

// Args returns Bindings as database/sql arguments.
func (d *DeleteBuilder) Args() []any { return toAny(d.Bindings()) }

// Err returns the first value conversion error.
func (d *DeleteBuilder) Err() error { return d.where.err }

// Execute prepares the statement on h, binds every value and runs it.
func (d *DeleteBuilder) Execute(ctx context.Context, h Handle) error {
	return execute(ctx, h, d.where.err, d.Serialize(), d.Bindings())
}

// Reset clears every clause so the builder can be reused.
func (d *DeleteBuilder) Reset() *DeleteBuilder {
	*d = DeleteBuilder{}
	return d
}

// String is Serialize.
func (d *DeleteBuilder) String() string { return d.Serialize() }
