// Entity filter
package filter

type Condition byte

const (
	Equal Condition = 1 + iota
	Less
	Greater
	LessOrEqual
	GreaterOrEqual
	Like
	// Value must be Range
	Between
	IsNull
	IsNotNull
)

var conditionToStrMap = map[Condition]string{
	Equal:          "eq",
	Less:           "lt",
	Greater:        "gt",
	LessOrEqual:    "lte",
	GreaterOrEqual: "gte",
	Like:           "like",
	Between:        "between",
	IsNull:         "is null",
	IsNotNull:      "is not null",
}

func (c Condition) String() string {
	return conditionToStrMap[c]
}

// Returns true if condition doesn't require value.
func (c Condition) IsUnary() bool {
	return c == IsNull || c == IsNotNull
}

// Inclusive range of values
type Range struct {
	From any
	To   any
}

type Entity[P any] struct {
	Property P
	Cond     Condition
	Value    any
}

// Store-specific query that can be narrowed by comparison operators.
// Used by entities that don't build SQL themselves.
type Handle interface {
	Eq(column string, value any)
	Gt(column string, value any)
	Gte(column string, value any)
	Lt(column string, value any)
	Lte(column string, value any)
	Like(column string, pattern string)
	Is(column string, null bool)
}
