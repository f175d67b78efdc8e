package query

import (
	"flashauction/packages/core"
	"flashauction/packages/core/filter"
	"fmt"
	"strconv"
	"strings"
)

type filterCond string

const (
	CondEqual          filterCond = "="
	CondLess           filterCond = "<"
	CondGreater        filterCond = ">"
	CondLessOrEqual    filterCond = "<="
	CondGreaterOrEqual filterCond = ">="
	CondLike           filterCond = "LIKE"
	CondBetween        filterCond = "BETWEEN"
	CondIsNull         filterCond = "IS NULL"
	CondIsNotNull      filterCond = "IS NOT NULL"
)

var condMap = map[filter.Condition]filterCond{
	filter.Equal:          CondEqual,
	filter.Less:           CondLess,
	filter.Greater:        CondGreater,
	filter.LessOrEqual:    CondLessOrEqual,
	filter.GreaterOrEqual: CondGreaterOrEqual,
	filter.Like:           CondLike,
	filter.Between:        CondBetween,
	filter.IsNull:         CondIsNull,
	filter.IsNotNull:      CondIsNotNull,
}

type Condition struct {
	Column core.EntityProperty
	Cond   filter.Condition
	Value  any
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Wraps v into "%v%" pattern, all wildcards inside of v are escaped.
func ContainsPattern(v string) string {
	return "%" + likeEscaper.Replace(v) + "%"
}

func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

// Creates SQL condition, n - number of the first placeholder.
// Returns condition and args bound to it.
// Example output:
//   - "auction_id = $1"
//   - "firstreg BETWEEN $2 AND $3"
//   - "deleted_at IS NULL"
func (c Condition) Build(n int) (string, []any, error) {
	cond, ok := condMap[c.Cond]
	if !ok {
		return "", nil, fmt.Errorf("unknown filter condition: %d", c.Cond)
	}

	base := string(c.Column) + " " + string(cond)

	switch cond {
	case CondIsNull, CondIsNotNull:
		return base, nil, nil
	case CondBetween:
		r, ok := c.Value.(filter.Range)
		if !ok || r.From == nil || r.To == nil {
			return "", nil, fmt.Errorf("%s: BETWEEN requires filter.Range with both bounds", c.Column)
		}
		return base + " " + placeholder(n) + " AND " + placeholder(n+1), []any{r.From, r.To}, nil
	case CondLike:
		s, ok := c.Value.(string)
		if !ok {
			return "", nil, fmt.Errorf("%s: LIKE requires string value, got %T", c.Column, c.Value)
		}
		return base + " " + placeholder(n), []any{ContainsPattern(s)}, nil
	default:
		return base + " " + placeholder(n), []any{c.Value}, nil
	}
}

// Joins conditions with AND, first placeholder is n.
func BuildConditions(conditions []Condition, n int) (string, []any, error) {
	parts := make([]string, 0, len(conditions))
	args := []any{}

	for _, c := range conditions {
		sql, condArgs, err := c.Build(n + len(args))
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, sql)
		args = append(args, condArgs...)
	}

	return strings.Join(parts, " AND "), args, nil
}
