package sqlb

import (
	"context"
	"strconv"
	"strings"
)

// SelectBuilder assembles
//
//	select [distinct] cols from tables [join t] [on ...] [where ...]
//	[group by ...] [having ...] [order by ...] [limit n] [offset n]
//
// Bindings are emitted as on, where, having regardless of call order.
type SelectBuilder struct {
	columns   []string
	distinct  bool
	tables    []string
	joinType  string
	joinTable string
	on        conditions
	where     conditions
	groupBy   []string
	having    conditions
	orderBy   string
	limit     string
	offset    string
}

// NewSelect returns an empty SelectBuilder.
func NewSelect() *SelectBuilder {
	return &SelectBuilder{}
}

// Select starts a SelectBuilder with the given columns.
func Select(columns ...string) *SelectBuilder {
	return NewSelect().Select(columns...)
}

// Select appends columns to the select list.
func (s *SelectBuilder) Select(columns ...string) *SelectBuilder {
	s.columns = append(s.columns, columns...)
	return s
}

// Distinct emits "select distinct".
func (s *SelectBuilder) Distinct() *SelectBuilder {
	s.distinct = true
	return s
}

// From appends tables to the from list.
func (s *SelectBuilder) From(tables ...string) *SelectBuilder {
	s.tables = append(s.tables, tables...)
	return s
}

// Only one join is kept; each join method replaces the previous one.

// Join sets an inner join on table.
func (s *SelectBuilder) Join(table string) *SelectBuilder { return s.join("join", table) }

// LeftJoin sets a left join on table.
func (s *SelectBuilder) LeftJoin(table string) *SelectBuilder { return s.join("left join", table) }

// LeftOuterJoin sets a left outer join on table.
func (s *SelectBuilder) LeftOuterJoin(table string) *SelectBuilder {
	return s.join("left outer join", table)
}

// RightJoin sets a right join on table.
func (s *SelectBuilder) RightJoin(table string) *SelectBuilder { return s.join("right join", table) }

// RightOuterJoin sets a right outer join on table.
func (s *SelectBuilder) RightOuterJoin(table string) *SelectBuilder {
	return s.join("right outer join", table)
}

// FullJoin sets a full join on table.
func (s *SelectBuilder) FullJoin(table string) *SelectBuilder { return s.join("full join", table) }

// FullOuterJoin sets a full outer join on table.
func (s *SelectBuilder) FullOuterJoin(table string) *SelectBuilder {
	return s.join("full outer join", table)
}

func (s *SelectBuilder) join(kind, table string) *SelectBuilder {
	s.joinType = kind
	s.joinTable = table

	return s
}

// On adds a join condition. Conditions are joined with "and".
func (s *SelectBuilder) On(cond Expr) *SelectBuilder {
	s.on.add(cond)
	return s
}

// Where adds a where condition. Conditions are joined with "and".
func (s *SelectBuilder) Where(cond Expr) *SelectBuilder {
	s.where.add(cond)
	return s
}

// GroupBy appends columns to the group by list.
func (s *SelectBuilder) GroupBy(columns ...string) *SelectBuilder {
	s.groupBy = append(s.groupBy, columns...)
	return s
}

// Having adds a having condition. Conditions are joined with "and".
func (s *SelectBuilder) Having(cond Expr) *SelectBuilder {
	s.having.add(cond)
	return s
}

// OrderBy replaces the order by clause, e.g. "age desc, id".
func (s *SelectBuilder) OrderBy(order string) *SelectBuilder {
	s.orderBy = order
	return s
}

// Limit sets the row limit.
func (s *SelectBuilder) Limit(limit int) *SelectBuilder {
	s.limit = strconv.Itoa(limit)
	return s
}

// Offset sets the number of rows to skip.
func (s *SelectBuilder) Offset(offset int) *SelectBuilder {
	s.offset = strconv.Itoa(offset)
	return s
}

// LimitOffset sets offset and limit in one call.
func (s *SelectBuilder) LimitOffset(offset, limit int) *SelectBuilder {
	return s.Offset(offset).Limit(limit)
}

// Serialize returns the statement text. Clauses are written in a fixed
// order whatever order they were set in.
func (s *SelectBuilder) Serialize() string {
	var b strings.Builder

	b.WriteString("select ")
	if s.distinct {
		b.WriteString("distinct ")
	}
	joinTo(&b, s.columns, ", ")
	b.WriteString(" from ")
	joinTo(&b, s.tables, ", ")

	if s.joinType != "" {
		b.WriteString(" " + s.joinType + " " + s.joinTable)
	}

	s.on.writeTo(&b, "on")
	s.where.writeTo(&b, "where")

	if len(s.groupBy) > 0 {
		b.WriteString(" group by ")
		joinTo(&b, s.groupBy, ", ")
	}

	s.having.writeTo(&b, "having")

	if s.orderBy != "" {
		b.WriteString(" order by " + s.orderBy)
	}
	if s.limit != "" {
		b.WriteString(" limit " + s.limit)
	}
	if s.offset != "" {
		b.WriteString(" offset " + s.offset)
	}

	return b.String()
}

// Bindings returns the on, where and having values in that order.
func (s *SelectBuilder) Bindings() []Value {
	return concatValues(s.on.bindings, s.where.bindings, s.having.bindings)
}

// Args returns Bindings as database/sql arguments.
func (s *SelectBuilder) Args() []any { return toAny(s.Bindings()) }

// Err returns the first value conversion error carried by a condition.
func (s *SelectBuilder) Err() error {
	return firstErr(s.on.err, s.where.err, s.having.err)
}

// Execute prepares the statement on h, binds every value and runs it.
func (s *SelectBuilder) Execute(ctx context.Context, h Handle) error {
	return execute(ctx, h, s.Err(), s.Serialize(), s.Bindings())
}

// Reset clears every clause so the builder can be reused.
func (s *SelectBuilder) Reset() *SelectBuilder {
	*s = SelectBuilder{}
	return s
}

// String is Serialize.
func (s *SelectBuilder) String() string { return s.Serialize() }
