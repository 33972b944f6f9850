package sqlb

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrPrepare reports that the handle rejected the statement text.
	ErrPrepare = errors.New("[sqlb] prepare failed")
	// ErrRun reports that the handle failed to run a prepared statement.
	ErrRun = errors.New("[sqlb] run failed")
)

// Handle prepares, binds and runs a single statement. It is implemented by
// the database adapter, see package datasource/sql.
type Handle interface {
	Prepare(ctx context.Context, query string) error
	Bind(ordinal int, v Value)
	Run(ctx context.Context) error
}

// Statement is implemented by SelectBuilder, InsertBuilder, UpdateBuilder
// and DeleteBuilder.
type Statement interface {
	// Serialize rebuilds the statement text from the builder state.
	Serialize() string
	// Bindings returns the values for the placeholders in Serialize order.
	Bindings() []Value
	// Execute serializes the statement and hands it to h.
	Execute(ctx context.Context, h Handle) error
}

var (
	_ Statement = (*SelectBuilder)(nil)
	_ Statement = (*InsertBuilder)(nil)
	_ Statement = (*UpdateBuilder)(nil)
	_ Statement = (*DeleteBuilder)(nil)
)

// execute prepares query, binds vals in order and runs it. A non-nil
// buildErr aborts before the handle is touched.
func execute(ctx context.Context, h Handle, buildErr error, query string, vals []Value) error {
	if buildErr != nil {
		return buildErr
	}

	if err := h.Prepare(ctx, query); err != nil {
		return fmt.Errorf("%w: %w", ErrPrepare, err)
	}

	for i, v := range vals {
		h.Bind(i, v)
	}

	if err := h.Run(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrRun, err)
	}

	return nil
}

// joinTo writes parts to b separated by sep.
func joinTo(b *strings.Builder, parts []string, sep string) {
	for i, p := range parts {
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(p)
	}
}

// conditions is the state of one where/on/having clause.
type conditions struct {
	texts    []string
	bindings []Value
	err      error
}

func (c *conditions) add(e Expr) {
	c.texts = append(c.texts, e.Text())
	c.bindings = append(c.bindings, e.Bindings()...)

	if c.err == nil {
		c.err = exprBuildErr(e)
	}
}

func (c *conditions) empty() bool { return len(c.texts) == 0 }

// writeTo writes " <keyword> a and b ..." when the clause is not empty.
func (c *conditions) writeTo(b *strings.Builder, keyword string) {
	if c.empty() {
		return
	}

	b.WriteString(" " + keyword + " ")
	joinTo(b, c.texts, " and ")
}

func (c *conditions) reset() { *c = conditions{} }

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	return nil
}

func concatValues(lists ...[]Value) []Value {
	n := 0
	for _, l := range lists {
		n += len(l)
	}

	if n == 0 {
		return nil
	}

	out := make([]Value, 0, n)
	for _, l := range lists {
		out = append(out, l...)
	}

	return out
}
