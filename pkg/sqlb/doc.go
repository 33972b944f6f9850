// Package sqlb provides a fluent builder for parameterized SQL statements.
//
// Conditions are composed from named columns:
//
//	cond := sqlb.Col("score").Gt(60).And(
//		sqlb.Col("age").Ge(20).Or(sqlb.Col("address").IsNotNull()),
//	)
//
// and consumed by one of the four statement builders:
//
//	s := sqlb.NewSelect().Select("id", "name").From("user").Where(cond)
//	query, args := s.Serialize(), s.Args()
//
// Every builder emits `?` placeholders and keeps the bindings in the same
// left-to-right order as the placeholders. Use Rebind to rewrite the
// placeholders for postgres.
//
// Builders and columns are not safe for concurrent use: one instance is one
// statement under construction by one goroutine.
package sqlb
