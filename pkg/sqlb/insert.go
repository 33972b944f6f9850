package sqlb

import (
	"context"
	"strings"
)

// InsertBuilder assembles "insert [or replace] into t(cols) values(...)".
type InsertBuilder struct {
	replace  bool
	table    string
	columns  []string
	values   []string
	bindings []Value
	err      error
}

// NewInsert returns an empty InsertBuilder.
func NewInsert() *InsertBuilder {
	return &InsertBuilder{}
}

// Insert appends a column and its value. Null or nil is written as a
// literal null and takes no binding.
func (i *InsertBuilder) Insert(column string, value any) *InsertBuilder {
	i.columns = append(i.columns, column)

	if isNullSentinel(value) {
		i.values = append(i.values, "null")
		return i
	}

	v, err := ToValue(value)
	if err != nil && i.err == nil {
		i.err = err
	}

	i.values = append(i.values, placeholder)
	i.bindings = append(i.bindings, v)

	return i
}

// Into sets the target table.
func (i *InsertBuilder) Into(table string) *InsertBuilder {
	i.table = table
	return i
}

// Replace switches between "insert into" and "insert or replace into".
func (i *InsertBuilder) Replace(replace bool) *InsertBuilder {
	i.replace = replace
	return i
}

// Serialize returns the statement text. With no columns both lists are
// still opened and closed, giving "insert into t() values()"; the text is
// not valid SQL and is left to the database to reject.
func (i *InsertBuilder) Serialize() string {
	var b strings.Builder

	if i.replace {
		b.WriteString("insert or replace into ")
	} else {
		b.WriteString("insert into ")
	}

	b.WriteString(i.table)
	b.WriteString("(")
	joinTo(&b, i.columns, ", ")
	b.WriteString(") values(")
	joinTo(&b, i.values, ", ")
	b.WriteString(")")

	return b.String()
}

// Bindings returns the non-null values in column order.
func (i *InsertBuilder) Bindings() []Value { return concatValues(i.bindings) }

// Args returns Bindings as database/sql arguments.
func (i *InsertBuilder) Args() []any { return toAny(i.Bindings()) }

// Err returns the first value conversion error.
func (i *InsertBuilder) Err() error { return i.err }

// Execute prepares the statement on h, binds every value and runs it.
// A conversion error is returned before h is used.
func (i *InsertBuilder) Execute(ctx context.Context, h Handle) error {
	return execute(ctx, h, i.err, i.Serialize(), i.Bindings())
}

// Reset clears the table, columns, values and the replace flag.
func (i *InsertBuilder) Reset() *InsertBuilder {
	*i = InsertBuilder{}
	return i
}

// String is Serialize.
func (i *InsertBuilder) String() string { return i.Serialize() }
