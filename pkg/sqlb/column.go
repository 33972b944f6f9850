package sqlb

import (
	"reflect"
	"strings"
)

const placeholder = "?"

// Expr is a condition fragment a clause method can consume.
type Expr interface {
	Text() string
	Bindings() []Value
}

// Raw is literal SQL text with no bindings.
type Raw string

// Text returns r unchanged.
func (r Raw) Text() string { return string(r) }

// Bindings returns nil.
func (Raw) Bindings() []Value { return nil }

type buildErrExpr interface {
	buildError() error
}

func exprBuildErr(e Expr) error {
	withErr, ok := e.(buildErrExpr)
	if !ok {
		return nil
	}

	return withErr.buildError()
}

// Column accumulates condition text and the values bound to its placeholders.
//
// Comparison methods mutate the receiver and return it so calls can be
// chained. And and Or return a new Column and leave both operands untouched.
type Column struct {
	text     string
	bindings []Value
	err      error
}

// Col starts a condition on the named column.
func Col(name string) *Column {
	return &Column{text: name}
}

// Text returns the condition text built so far.
func (c *Column) Text() string { return c.text }

// Bindings returns a copy of the values bound so far.
func (c *Column) Bindings() []Value {
	if len(c.bindings) == 0 {
		return nil
	}

	return append([]Value(nil), c.bindings...)
}

// Err returns the first value conversion error recorded on c.
func (c *Column) Err() error { return c.err }

func (c *Column) buildError() error { return c.err }

// String is Text.
func (c *Column) String() string { return c.text }

// As appends "as alias".
func (c *Column) As(alias string) *Column {
	c.text += " as " + alias
	return c
}

// IsNull appends "is null".
func (c *Column) IsNull() *Column {
	c.text += " is null"
	return c
}

// IsNotNull appends "is not null".
func (c *Column) IsNotNull() *Column {
	c.text += " is not null"
	return c
}

// Eq appends "= ?" and binds v.
func (c *Column) Eq(v any) *Column { return c.compare("=", v) }

// Ne appends "!= ?" and binds v.
func (c *Column) Ne(v any) *Column { return c.compare("!=", v) }

// Ge appends ">= ?" and binds v.
func (c *Column) Ge(v any) *Column { return c.compare(">=", v) }

// Le appends "<= ?" and binds v.
func (c *Column) Le(v any) *Column { return c.compare("<=", v) }

// Gt appends "> ?" and binds v.
func (c *Column) Gt(v any) *Column { return c.compare(">", v) }

// Lt appends "< ?" and binds v.
func (c *Column) Lt(v any) *Column { return c.compare("<", v) }

// Like appends "like ?" and binds the pattern.
func (c *Column) Like(v any) *Column { return c.compare("like", v) }

// NotLike appends "not like ?" and binds the pattern.
func (c *Column) NotLike(v any) *Column { return c.compare("not like", v) }

// compare appends "<op> ?" and binds v. When v is another column only its
// text is appended; its bindings are not carried over. A nil *Column binds
// a null.
func (c *Column) compare(op string, v any) *Column {
	if other, ok := v.(*Column); ok {
		if other == nil {
			c.text += " " + op + " " + placeholder
			c.bindings = append(c.bindings, NullValue())

			return c
		}

		c.text += " " + op + " " + other.text

		return c
	}

	c.text += " " + op + " " + placeholder
	c.bind(v)

	return c
}

func (c *Column) bind(v any) {
	val, err := ToValue(v)
	if err != nil {
		if c.err == nil {
			c.err = err
		}

		val = NullValue()
	}

	c.bindings = append(c.bindings, val)
}

// In appends "in (?, ...)". A single value degenerates to "= ?". A lone
// slice argument is expanded into its elements.
func (c *Column) In(values ...any) *Column {
	return c.membership("=", "in", values)
}

// NotIn mirrors In with "!=" and "not in".
func (c *Column) NotIn(values ...any) *Column {
	return c.membership("!=", "not in", values)
}

func (c *Column) membership(single, multi string, values []any) *Column {
	values = expandSlice(values)
	if len(values) == 1 {
		return c.compare(single, values[0])
	}

	var b strings.Builder
	b.WriteString(c.text)
	b.WriteString(" " + multi + " (")
	for i, v := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(placeholder)
		c.bind(v)
	}
	b.WriteString(")")
	c.text = b.String()

	return c
}

func expandSlice(values []any) []any {
	if len(values) != 1 {
		return values
	}

	if _, ok := values[0].([]byte); ok {
		return values
	}

	s := reflect.ValueOf(values[0])
	if s.Kind() != reflect.Slice {
		return values
	}

	out := make([]any, s.Len())
	for i := 0; i < s.Len(); i++ {
		out[i] = s.Index(i).Interface()
	}

	return out
}

// And returns "(c) and (other)" with c's bindings followed by other's.
func (c *Column) And(other *Column) *Column { return And(c, other) }

// Or returns "(c) or (other)" with c's bindings followed by other's.
func (c *Column) Or(other *Column) *Column { return Or(c, other) }

// And returns "(left) and (right)" without modifying either operand.
func And(left, right *Column) *Column { return combine("and", left, right) }

// Or returns "(left) or (right)" without modifying either operand.
func Or(left, right *Column) *Column { return combine("or", left, right) }

func combine(op string, left, right *Column) *Column {
	out := &Column{
		text:     "(" + left.text + ") " + op + " (" + right.text + ")",
		bindings: make([]Value, 0, len(left.bindings)+len(right.bindings)),
		err:      left.err,
	}
	out.bindings = append(out.bindings, left.bindings...)
	out.bindings = append(out.bindings, right.bindings...)

	if out.err == nil {
		out.err = right.err
	}

	return out
}

// AndRaw appends " and <fragment>" to c without parentheses.
func (c *Column) AndRaw(fragment string) *Column {
	c.text += " and " + fragment
	return c
}

// OrRaw appends " or <fragment>" to c without parentheses.
func (c *Column) OrRaw(fragment string) *Column {
	c.text += " or " + fragment
	return c
}
