package query

import (
	"flashauction/packages/core"
	"strconv"
	"strings"
)

// Generated, not yet executed SQL statement.
// Values are always passed through Args and referenced by $n placeholders.
type Query struct {
	SQL  string
	Args []any
}

func New(sql string, args ...any) *Query {
	return &Query{
		SQL:  sql,
		Args: args,
	}
}

// Returns number of the next free placeholder.
func (q *Query) Next() int {
	return len(q.Args) + 1
}

// Appends sql to the query. Each "?" in sql is replaced
// with the next placeholder, args are bound in the same order.
// Panics if number of "?" and args mismatch.
func (q *Query) Append(sql string, args ...any) *Query {
	if n := strings.Count(sql, "?"); n != len(args) {
		panic("query: " + strconv.Itoa(n) + " placeholders, but " + strconv.Itoa(len(args)) + " args given")
	}

	var b strings.Builder
	b.Grow(len(sql) + len(args)*2)

	next := q.Next()
	for _, r := range sql {
		if r == '?' {
			b.WriteString("$" + strconv.Itoa(next))
			next++
			continue
		}
		b.WriteRune(r)
	}

	q.SQL += b.String()
	q.Args = append(q.Args, args...)

	return q
}

func (q *Query) Returning(columns ...core.EntityProperty) *Query {
	if len(columns) == 0 {
		return q
	}

	q.SQL += " RETURNING " + JoinColumns(columns)

	return q
}

func JoinColumns[P ~string](columns []P) string {
	s := make([]string, len(columns))
	for i, c := range columns {
		s[i] = string(c)
	}
	return strings.Join(s, ", ")
}
