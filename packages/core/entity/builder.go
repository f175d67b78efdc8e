package entity

import (
	"flashauction/packages/core"
	"flashauction/packages/core/query"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Persisted non-predicate fields with values.
func dataProjection(e Entity) []Field {
	return lo.Filter(e.Fields(), func(f Field, _ int) bool {
		return f.Persisted && !f.Predicate && !f.IsEmpty()
	})
}

// Predicate fields with values.
func filterProjection(e Entity) []Field {
	return lo.Filter(e.Fields(), func(f Field, _ int) bool {
		return f.Predicate && !f.IsEmpty()
	})
}

func columns(fields []Field) []core.EntityProperty {
	return lo.Map(fields, func(f Field, _ int) core.EntityProperty {
		return f.Column
	})
}

func values(fields []Field) []any {
	return lo.Map(fields, func(f Field, _ int) any {
		return f.Value
	})
}

func placeholders(from int, n int) string {
	p := make([]string, n)
	for i := range p {
		p[i] = "$" + strconv.Itoa(from+i)
	}
	return strings.Join(p, ", ")
}

func where(fields []Field, n int) (string, []any, error) {
	conditions := lo.Map(fields, func(f Field, _ int) query.Condition {
		return query.Condition{Column: f.Column, Cond: f.Cond, Value: f.Value}
	})

	sql, args, err := query.BuildConditions(conditions, n)
	if err != nil {
		return "", nil, err
	}

	return " WHERE " + sql, args, nil
}

// INSERT INTO table (cols) VALUES ($1, ...)
//
// Projects all persisted fields, including fields which aren't writable on update.
// Returns NoFields if there are nothing to insert.
func BuildInsertQuery(table string, e Entity) (*query.Query, error) {
	data := dataProjection(e)
	if len(data) == 0 {
		return nil, NoFields
	}

	sql := "INSERT INTO " + table +
		" (" + query.JoinColumns(columns(data)) + ")" +
		" VALUES (" + placeholders(1, len(data)) + ")"

	return query.New(sql, values(data)...), nil
}

// SELECT cols FROM table WHERE <filter projection>
//
// If cols is empty, then all columns will be selected.
// Returns NoConditions if entity has no predicates set.
func BuildSelectQuery(table string, e Entity, cols ...core.EntityProperty) (*query.Query, error) {
	filters := filterProjection(e)
	if len(filters) == 0 {
		return nil, NoConditions
	}

	cond, args, err := where(filters, 1)
	if err != nil {
		return nil, err
	}

	projection := "*"
	if len(cols) != 0 {
		projection = query.JoinColumns(cols)
	}

	return query.New("SELECT "+projection+" FROM "+table+cond, args...), nil
}

// UPDATE table SET <writable data projection> WHERE <filter projection>
//
// Fields which aren't writable on update are never assigned, even if they have values.
// Returns NoFields if SET clause is empty, NoConditions if WHERE clause is empty.
func BuildUpdateQuery(table string, e Entity) (*query.Query, error) {
	data := lo.Filter(dataProjection(e), func(f Field, _ int) bool {
		return f.Writable
	})
	if len(data) == 0 {
		return nil, NoFields
	}

	filters := filterProjection(e)
	if len(filters) == 0 {
		return nil, NoConditions
	}

	assignments := make([]string, len(data))
	for i, f := range data {
		assignments[i] = string(f.Column) + " = $" + strconv.Itoa(i+1)
	}

	cond, args, err := where(filters, len(data)+1)
	if err != nil {
		return nil, err
	}

	sql := "UPDATE " + table + " SET " + strings.Join(assignments, ", ") + cond

	return query.New(sql, append(values(data), args...)...), nil
}

// DELETE FROM table WHERE <filter projection>
//
// If includeOnly is specified, then only predicates whose name or column
// is in includeOnly are used.
// Returns NoConditions if there are no predicates left.
func BuildDeleteQuery(table string, e Entity, includeOnly ...string) (*query.Query, error) {
	filters := filterProjection(e)

	if len(includeOnly) != 0 {
		filters = lo.Filter(filters, func(f Field, _ int) bool {
			return lo.Contains(includeOnly, f.Name) || lo.Contains(includeOnly, string(f.Column))
		})
	}

	if len(filters) == 0 {
		return nil, NoConditions
	}

	cond, args, err := where(filters, 1)
	if err != nil {
		return nil, err
	}

	return query.New("DELETE FROM "+table+cond, args...), nil
}

// INSERT ... ON CONFLICT (conflict) DO UPDATE SET ...
//
// Columns listed in accumulate are incremented by the inserted value
// (col = table.col + EXCLUDED.col), the other writable columns are overwritten.
// If there are nothing to update, then conflicting row is left as is (DO NOTHING).
func BuildUpsertQuery(
	table string,
	e Entity,
	conflict []core.EntityProperty,
	accumulate ...core.EntityProperty,
) (*query.Query, error) {
	if len(conflict) == 0 {
		panic("entity: upsert requires conflict target")
	}

	q, err := BuildInsertQuery(table, e)
	if err != nil {
		return nil, err
	}

	assignments := []string{}
	for _, f := range dataProjection(e) {
		if !f.Writable || lo.Contains(conflict, f.Column) {
			continue
		}
		col := string(f.Column)
		if lo.Contains(accumulate, f.Column) {
			assignments = append(assignments, col+" = "+table+"."+col+" + EXCLUDED."+col)
		} else {
			assignments = append(assignments, col+" = EXCLUDED."+col)
		}
	}

	q.SQL += " ON CONFLICT (" + query.JoinColumns(conflict) + ")"

	if len(assignments) == 0 {
		q.SQL += " DO NOTHING"
	} else {
		q.SQL += " DO UPDATE SET " + strings.Join(assignments, ", ")
	}

	return q, nil
}
