package datastore

import (
	"errors"
	"fmt"
	"regexp"
	"sort"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

var (
	ErrNotFound      = errors.New("row not found")
	ErrUnknownTable  = errors.New("unknown table")
	ErrInvalidColumn = errors.New("invalid column name")
	ErrNoFilter      = errors.New("update and delete require at least one filter")
	ErrNoValues      = errors.New("no values to write")
)

// Tables the app is allowed to reach.
var tables = map[string]bool{
	"debates":       true,
	"participants":  true,
	"teams":         true,
	"awards":        true,
	"debate_topics": true,
}

var identRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Filter matches rows where Column equals Value.
type Filter struct {
	Column string
	Value  any
}

// Query describes a selection on one table.
type Query struct {
	Table      string
	Filters    []Filter
	OrderBy    string
	Descending bool
	Limit      int
}

// From starts a query on table.
func From(table string) Query {
	return Query{Table: table}
}

// Eq adds an equality filter.
func (q Query) Eq(column string, value any) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Column: column, Value: value})
	return q
}

// Order sorts by column.
func (q Query) Order(column string, descending bool) Query {
	q.OrderBy = column
	q.Descending = descending
	return q
}

// Take limits the result size. Zero means no limit.
func (q Query) Take(n int) Query {
	q.Limit = n
	return q
}

// Values is a column to value map for inserts and updates.
type Values map[string]any

func quoteTable(table string) (string, error) {
	if !tables[table] {
		return "", fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}
	return pgx.Identifier{table}.Sanitize(), nil
}

func quoteColumn(column string) (string, error) {
	if !identRe.MatchString(column) {
		return "", fmt.Errorf("%w: %q", ErrInvalidColumn, column)
	}
	return pgx.Identifier{column}.Sanitize(), nil
}

// psql builds statements with $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// whereEq applies the filters in order as "col = $n" predicates joined by AND.
func whereEq(filters []Filter, apply func(pred string, arg any)) error {
	for _, f := range filters {
		col, err := quoteColumn(f.Column)
		if err != nil {
			return err
		}
		apply(col+" = ?", f.Value)
	}
	return nil
}

func sortedColumns(v Values) []string {
	cols := make([]string, 0, len(v))
	for c := range v {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

func buildSelect(q Query) (string, []any, error) {
	table, err := quoteTable(q.Table)
	if err != nil {
		return "", nil, err
	}

	b := psql.Select("*").From(table)
	if err := whereEq(q.Filters, func(pred string, arg any) { b = b.Where(pred, arg) }); err != nil {
		return "", nil, err
	}
	if q.OrderBy != "" {
		col, err := quoteColumn(q.OrderBy)
		if err != nil {
			return "", nil, err
		}
		dir := "ASC"
		if q.Descending {
			dir = "DESC"
		}
		b = b.OrderBy(col + " " + dir)
	}
	if q.Limit > 0 {
		b = b.Limit(uint64(q.Limit))
	}
	return b.ToSql()
}

func buildInsert(table string, rows []Values) (string, []any, error) {
	t, err := quoteTable(table)
	if err != nil {
		return "", nil, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return "", nil, ErrNoValues
	}

	cols := sortedColumns(rows[0])
	quoted := make([]string, len(cols))
	for i, c := range cols {
		if quoted[i], err = quoteColumn(c); err != nil {
			return "", nil, err
		}
	}

	b := psql.Insert(t).Columns(quoted...).Suffix("RETURNING *")
	for _, row := range rows {
		if len(row) != len(cols) {
			return "", nil, fmt.Errorf("%w: rows must share the same columns", ErrInvalidColumn)
		}
		vals := make([]any, len(cols))
		for i, c := range cols {
			v, ok := row[c]
			if !ok {
				return "", nil, fmt.Errorf("%w: row is missing %q", ErrInvalidColumn, c)
			}
			vals[i] = v
		}
		b = b.Values(vals...)
	}
	return b.ToSql()
}

func buildUpdate(q Query, values Values) (string, []any, error) {
	table, err := quoteTable(q.Table)
	if err != nil {
		return "", nil, err
	}
	if len(values) == 0 {
		return "", nil, ErrNoValues
	}
	if len(q.Filters) == 0 {
		return "", nil, ErrNoFilter
	}

	b := psql.Update(table).Suffix("RETURNING *")
	for _, c := range sortedColumns(values) {
		col, err := quoteColumn(c)
		if err != nil {
			return "", nil, err
		}
		b = b.Set(col, values[c])
	}
	if err := whereEq(q.Filters, func(pred string, arg any) { b = b.Where(pred, arg) }); err != nil {
		return "", nil, err
	}
	return b.ToSql()
}

func buildDelete(q Query) (string, []any, error) {
	table, err := quoteTable(q.Table)
	if err != nil {
		return "", nil, err
	}
	if len(q.Filters) == 0 {
		return "", nil, ErrNoFilter
	}

	b := psql.Delete(table)
	if err := whereEq(q.Filters, func(pred string, arg any) { b = b.Where(pred, arg) }); err != nil {
		return "", nil, err
	}
	return b.ToSql()
}
