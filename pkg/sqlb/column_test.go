package sqlb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumn_Comparisons(t *testing.T) {
	tests := []struct {
		name     string
		col      *Column
		text     string
		bindings []Value
	}{
		{"bare", Col("id"), "id", nil},
		{"as", Col("count(*)").As("total"), "count(*) as total", nil},
		{"is null", Col("address").IsNull(), "address is null", nil},
		{"is not null", Col("address").IsNotNull(), "address is not null", nil},
		{"eq", Col("id").Eq(1), "id = ?", []Value{IntValue(1)}},
		{"ne", Col("id").Ne(1), "id != ?", []Value{IntValue(1)}},
		{"ge", Col("age").Ge(20), "age >= ?", []Value{IntValue(20)}},
		{"le", Col("age").Le(20), "age <= ?", []Value{IntValue(20)}},
		{"gt", Col("age").Gt(20), "age > ?", []Value{IntValue(20)}},
		{"lt", Col("age").Lt(20), "age < ?", []Value{IntValue(20)}},
		{"like", Col("name").Like("s%"), "name like ?", []Value{TextValue("s%")}},
		{"not like", Col("name").NotLike("s%"), "name not like ?", []Value{TextValue("s%")}},
		{"eq null binds null", Col("id").Eq(nil), "id = ?", []Value{NullValue()}},
		{"column rhs", Col("user.id").Eq(Col("score.id")), "user.id = score.id", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.text, tc.col.Text())
			assert.Equal(t, tc.bindings, tc.col.Bindings())
			assert.NoError(t, tc.col.Err())
		})
	}
}

func TestColumn_In(t *testing.T) {
	c := Col("id").In(1, 2, 3)
	assert.Equal(t, "id in (?, ?, ?)", c.Text())
	assert.Equal(t, []Value{IntValue(1), IntValue(2), IntValue(3)}, c.Bindings())

	c = Col("id").In([]int{4, 5})
	assert.Equal(t, "id in (?, ?)", c.Text())
	assert.Equal(t, []Value{IntValue(4), IntValue(5)}, c.Bindings())

	c = Col("id").NotIn("a", "b")
	assert.Equal(t, "id not in (?, ?)", c.Text())
	assert.Equal(t, []Value{TextValue("a"), TextValue("b")}, c.Bindings())

	c = Col("id").In()
	assert.Equal(t, "id in ()", c.Text())
	assert.Empty(t, c.Bindings())
}

func TestColumn_InSingleValueMatchesEq(t *testing.T) {
	in := Col("id").In(7)
	eq := Col("id").Eq(7)

	assert.Equal(t, eq.Text(), in.Text())
	assert.Equal(t, eq.Bindings(), in.Bindings())

	in = Col("id").In([]string{"x"})
	assert.Equal(t, "id = ?", in.Text())

	notIn := Col("id").NotIn(7)
	assert.Equal(t, Col("id").Ne(7).Text(), notIn.Text())
	assert.Equal(t, Col("id").Ne(7).Bindings(), notIn.Bindings())
}

func TestColumn_InKeepsByteSliceWhole(t *testing.T) {
	c := Col("hash").In([]byte{1, 2, 3})
	assert.Equal(t, "hash = ?", c.Text())
	assert.Equal(t, []Value{BlobValue([]byte{1, 2, 3})}, c.Bindings())
}

func TestColumn_AndOr(t *testing.T) {
	c := Col("score").Gt(60).And(Col("age").Ge(20).Or(Col("address").IsNotNull()))

	assert.Equal(t, "(score > ?) and ((age >= ?) or (address is not null))", c.Text())
	assert.Equal(t, []Value{IntValue(60), IntValue(20)}, c.Bindings())
}

func TestColumn_AndIsLeftAssociative(t *testing.T) {
	x, y, z := Col("x").Eq(1), Col("y").Eq(2), Col("z").Eq(3)

	c := x.And(y).And(z)

	assert.Equal(t, "((x = ?) and (y = ?)) and (z = ?)", c.Text())
	assert.Equal(t, []Value{IntValue(1), IntValue(2), IntValue(3)}, c.Bindings())
}

func TestColumn_AndDoesNotMutateOperands(t *testing.T) {
	left, right := Col("a").Eq(1), Col("b").Eq(2)

	c := Or(left, right)

	assert.Equal(t, "(a = ?) or (b = ?)", c.Text())
	assert.Equal(t, "a = ?", left.Text())
	assert.Equal(t, "b = ?", right.Text())
	assert.Equal(t, []Value{IntValue(2)}, right.Bindings())
}

func TestColumn_RawCombination(t *testing.T) {
	c := Col("age").Gt(18).AndRaw("deleted = 0").OrRaw("admin = 1")

	assert.Equal(t, "age > ? and deleted = 0 or admin = 1", c.Text())
	assert.Equal(t, []Value{IntValue(18)}, c.Bindings())
}

func TestColumn_ColumnComparisonDropsRightBindings(t *testing.T) {
	rhs := Col("score.id").In(1, 2)
	c := Col("user.id").Eq(rhs)

	assert.Equal(t, "user.id = score.id in (?, ?)", c.Text())
	assert.Empty(t, c.Bindings())
	assert.NotEqual(t, CountPlaceholders(c.Text()), len(c.Bindings()))
}

func TestColumn_CompareNilColumnBindsNull(t *testing.T) {
	var missing *Column

	tests := []struct {
		name string
		c    *Column
		text string
	}{
		{name: "eq", c: Col("a").Eq(missing), text: "a = ?"},
		{name: "ne", c: Col("a").Ne(missing), text: "a != ?"},
		{name: "in", c: Col("a").In(missing), text: "a = ?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotPanics(t, func() { _ = tt.c.Text() })
			assert.Equal(t, tt.text, tt.c.Text())
			assert.Equal(t, []Value{NullValue()}, tt.c.Bindings())
			require.NoError(t, tt.c.Err())
		})
	}
}

func TestColumn_BindingsIsACopy(t *testing.T) {
	c := Col("id").Eq(1)
	b := c.Bindings()
	b[0] = IntValue(99)

	assert.Equal(t, []Value{IntValue(1)}, c.Bindings())
}

func TestColumn_UnsupportedValue(t *testing.T) {
	c := Col("id").Eq(struct{}{})

	require.Error(t, c.Err())
	assert.ErrorIs(t, c.Err(), ErrUnsupportedValue)
	assert.Equal(t, "id = ?", c.Text())
	assert.Len(t, c.Bindings(), 1)

	combined := Col("a").Eq(1).And(c)
	assert.ErrorIs(t, combined.Err(), ErrUnsupportedValue)
}

func TestRaw(t *testing.T) {
	var e Expr = Raw("age > 10")

	assert.Equal(t, "age > 10", e.Text())
	assert.Nil(t, e.Bindings())
}
