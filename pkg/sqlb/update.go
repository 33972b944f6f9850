package sqlb

import (
	"context"
	"strings"
)

// UpdateBuilder assembles "update t set a = ?, ... [where ...]".
// Set bindings come before where bindings.
type UpdateBuilder struct {
	table    string
	sets     []string
	bindings []Value
	where    conditions
	err      error
}

// NewUpdate returns an empty UpdateBuilder.
func NewUpdate() *UpdateBuilder {
	return &UpdateBuilder{}
}

// Update starts an UpdateBuilder for table.
func Update(table string) *UpdateBuilder {
	return NewUpdate().Update(table)
}

// Update sets the target table.
func (u *UpdateBuilder) Update(table string) *UpdateBuilder {
	u.table = table
	return u
}

// Set appends "column = ?". Null or nil is written as "column = null".
func (u *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	if isNullSentinel(value) {
		u.sets = append(u.sets, column+" = null")
		return u
	}

	v, err := ToValue(value)
	if err != nil && u.err == nil {
		u.err = err
	}

	u.sets = append(u.sets, column+" = "+placeholder)
	u.bindings = append(u.bindings, v)

	return u
}

// SetNonEmpty is Set except that it does nothing when IsEmpty(value).
//
// If every column is skipped the statement text has an empty set list;
// that is left to the database to reject.
func (u *UpdateBuilder) SetNonEmpty(column string, value any) *UpdateBuilder {
	if !isNullSentinel(value) && IsEmpty(value) {
		return u
	}

	return u.Set(column, value)
}

// Where adds a where condition. Conditions are joined with "and".
func (u *UpdateBuilder) Where(cond Expr) *UpdateBuilder {
	u.where.add(cond)
	return u
}

// Serialize returns the statement text.
func (u *UpdateBuilder) Serialize() string {
	var b strings.Builder

	b.WriteString("update ")
	b.WriteString(u.table)
	b.WriteString(" set ")
	joinTo(&b, u.sets, ", ")
	u.where.writeTo(&b, "where")

	return b.String()
}

// Bindings returns the set values followed by the where values.
func (u *UpdateBuilder) Bindings() []Value {
	return concatValues(u.bindings, u.where.bindings)
}

// Args returns Bindings as database/sql arguments.
func (u *UpdateBuilder) Args() []any { return toAny(u.Bindings()) }

// Err returns the first value conversion error.
func (u *UpdateBuilder) Err() error { return firstErr(u.err, u.where.err) }

// Execute prepares the statement on h, binds every value and runs it.
func (u *UpdateBuilder) Execute(ctx context.Context, h Handle) error {
	return execute(ctx, h, u.Err(), u.Serialize(), u.Bindings())
}

// Reset clears every clause so the builder can be reused.
func (u *UpdateBuilder) Reset() *UpdateBuilder {
	*u = UpdateBuilder{}
	return u
}

// String is Serialize.
func (u *UpdateBuilder) String() string { return u.Serialize() }
