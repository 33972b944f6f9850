package main

import "github.com/sllt/sqlbuilder/pkg/sqlb"

type scenario struct {
	name string
	st   sqlb.Statement
}

func scenarios() []scenario {
	insert := sqlb.NewInsert().
		Insert("score", 100).
		Insert("name", "six").
		Insert("age", uint8(20)).
		Insert("address", "beijing").
		Insert("create_time", sqlb.Null).
		Into("user")

	sel := sqlb.Select("user.id", "age", "name", "address").
		Distinct().
		From("user").
		Join("score").
		On(sqlb.Col("user.id").Eq(sqlb.Col("score.id")).And(sqlb.Col("score.points").Gt(60))).
		Where(sqlb.Col("score").Gt(60).And(sqlb.Col("age").Ge(20).Or(sqlb.Col("address").IsNotNull()))).
		GroupBy("age").
		Having(sqlb.Col("age").Gt(10)).
		OrderBy("age desc").
		Limit(10).
		Offset(0)

	update := sqlb.Update("user").
		Set("name", "ddc").
		Set("age", 18).
		Set("score", nil).
		SetNonEmpty("address", "").
		Where(sqlb.Col("id").In([]int{1, 2, 3}))

	del := sqlb.DeleteFrom("user").Where(sqlb.Col("id").Eq(1))

	return []scenario{
		{name: "insert", st: insert},
		{name: "select", st: sel},
		{name: "update", st: update},
		{name: "delete", st: del},
	}
}
