package sql

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/sllt/sqlbuilder/pkg/sqlb"
	"github.com/sllt/sqlbuilder/pkg/sqlb/logging"
)

// Select runs st and binds the resulting rows to data.
// data should be a pointer to a slice or struct.
//
// Example:
//
//  1. Get multiple rows with only one column
//     ids := make([]int, 0)
//     err := db.Select(ctx, &ids, sqlb.Select("id").From("user"))
//
//  2. Get a single object from database
//     type user struct {
//     Name  string
//     ID    int
//     Image string
//     }
//     u := user{}
//     err := db.Select(ctx, &u, sqlb.Select("*").From("user").Where(sqlb.Col("id").Eq(1)))
//
//  3. Get array of objects from multiple rows
//     type user struct {
//     Name  string
//     ID    int
//     Image string `db:"image_url"`
//     }
//     users := []user{}
//     err := db.Select(ctx, &users, sqlb.Select("*").From("user"))
func (d *DB) Select(ctx context.Context, data any, st sqlb.Statement) error {
	q := d.NewQuery()
	defer q.Close()

	run := func(ctx context.Context) (*sql.Rows, error) {
		if err := st.Execute(ctx, q); err != nil {
			return nil, err
		}

		if q.Rows() == nil {
			return nil, fmt.Errorf("%w: statement %q returned no rows", errSelectUnsupported, clean(q.SQL()))
		}

		return q.Rows(), nil
	}

	return selectData(ctx, logging.NewContextLogger(ctx, d.logger), run, data)
}

type rowsFunc func(ctx context.Context) (*sql.Rows, error)

//nolint:exhaustive // We only support slice and struct destinations.
func selectData(ctx context.Context, logger logging.Logger, run rowsFunc, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Destination must be settable so callers can read scanned results.
	rvo := reflect.ValueOf(data)
	if !rvo.IsValid() || rvo.Kind() != reflect.Ptr || rvo.IsNil() {
		logger.Error("we did not get a pointer. data is not settable.")

		return errSelectDataNotPointer
	}

	rv := rvo.Elem()

	switch rv.Kind() {
	case reflect.Slice:
		return selectSlice(ctx, logger, run, rvo, rv)
	case reflect.Struct:
		return selectStruct(ctx, logger, run, rv)
	default:
		logger.Debugf("a pointer to %v was not expected.", rv.Kind().String())

		return fmt.Errorf("%w: %s", errSelectUnsupported, rv.Kind())
	}
}

func selectSlice(ctx context.Context, logger logging.Logger, run rowsFunc, rvo, rv reflect.Value) error {
	rows, err := run(ctx)
	if err != nil {
		logger.Errorf("error running query: %v", err)

		return err
	}

	for rows.Next() {
		val := reflect.New(rv.Type().Elem())

		if rv.Type().Elem().Kind() == reflect.Struct {
			if err := rowsToStruct(rows, val); err != nil {
				return err
			}
		} else if err := rows.Scan(val.Interface()); err != nil {
			return err
		}

		rv = reflect.Append(rv, val.Elem())
	}

	if err := rows.Err(); err != nil {
		logger.Errorf("error parsing rows : %v", err)

		return err
	}

	if rvo.Elem().CanSet() {
		rvo.Elem().Set(rv)
	}

	return nil
}

func selectStruct(ctx context.Context, logger logging.Logger, run rowsFunc, rv reflect.Value) error {
	rows, err := run(ctx)
	if err != nil {
		logger.Errorf("error running query: %v", err)

		return err
	}

	rowFound := false

	for rows.Next() {
		rowFound = true
		if err := rowsToStruct(rows, rv); err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		logger.Errorf("error parsing rows : %v", err)

		return err
	}

	if !rowFound {
		return sql.ErrNoRows
	}

	return nil
}

func rowsToStruct(rows *sql.Rows, vo reflect.Value) error {
	v := vo
	if vo.Kind() == reflect.Ptr {
		v = vo.Elem()
	}

	// Map fields and their indexes by normalized name
	fieldNameIndex := map[string]int{}

	for i := 0; i < v.Type().NumField(); i++ {
		var name string

		f := v.Type().Field(i)
		tag := f.Tag.Get("db")

		if tag != "" {
			name = tag
		} else {
			name = ToSnakeCase(f.Name)
		}

		fieldNameIndex[name] = i
	}

	fields := []any{}
	columns, err := rows.Columns()
	if err != nil {
		return err
	}

	for _, c := range columns {
		if i, ok := fieldNameIndex[c]; ok {
			fields = append(fields, v.Field(i).Addr().Interface())
		} else {
			var i any

			fields = append(fields, &i)
		}
	}

	return rows.Scan(fields...)
}

var (
	matchFirstCap = regexp.MustCompile("(.)([A-Z][a-z]+)")
	matchAllCap   = regexp.MustCompile("([a-z0-9])([A-Z])")
)

// ToSnakeCase maps a Go field name to its column name, e.g. CreateTime to
// create_time.
func ToSnakeCase(str string) string {
	snake := matchFirstCap.ReplaceAllString(str, "${1}_${2}")
	snake = matchAllCap.ReplaceAllString(snake, "${1}_${2}")

	return strings.ToLower(snake)
}
