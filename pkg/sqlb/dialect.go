package sqlb

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Dialect names the placeholder style of a database.
type Dialect string

const (
	DialectMySQL    Dialect = "mysql"
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

var errUnsupportedDialect = errors.New("[sqlb] unsupported dialect")

// ParseDialect accepts the dialect names and their common aliases:
//   - mysql, mariadb
//   - postgres, postgresql, supabase, cockroachdb
//   - sqlite, sqlite3
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", string(DialectMySQL), "mariadb":
		return DialectMySQL, nil
	case string(DialectPostgres), "postgresql", "supabase", "cockroachdb":
		return DialectPostgres, nil
	case string(DialectSQLite), "sqlite3":
		return DialectSQLite, nil
	default:
		return "", fmt.Errorf("%w: %q", errUnsupportedDialect, name)
	}
}

// Rebind rewrites `?` placeholders for d. Postgres gets $1, $2, ...; other
// dialects are returned unchanged. Question marks inside quoted literals or
// quoted identifiers are left alone.
func Rebind(d Dialect, query string) string {
	if d != DialectPostgres {
		return query
	}

	var (
		counter = 1
		quote   byte
		out     strings.Builder
	)

	out.Grow(len(query) + 8)

	for i := 0; i < len(query); i++ {
		ch := query[i]

		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '\'' || ch == '"' || ch == '`':
			quote = ch
		case ch == '?':
			out.WriteByte('$')
			out.WriteString(strconv.Itoa(counter))
			counter++

			continue
		}

		out.WriteByte(ch)
	}

	return out.String()
}

// CountPlaceholders returns the number of `?` markers outside quotes.
func CountPlaceholders(query string) int {
	var (
		n     int
		quote byte
	)

	for i := 0; i < len(query); i++ {
		ch := query[i]

		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '\'' || ch == '"' || ch == '`':
			quote = ch
		case ch == '?':
			n++
		}
	}

	return n
}
