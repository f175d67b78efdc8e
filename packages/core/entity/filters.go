package entity

import (
	"flashauction/packages/core/filter"
	"fmt"
)

// Translates filter projection of the entity into comparison operators of h.
// Range predicates are translated into pair of gte and lte.
//
// Returns NoConditions if entity has no predicates set.
func ApplyFilters(e Entity, h filter.Handle) error {
	filters := filterProjection(e)
	if len(filters) == 0 {
		return NoConditions
	}

	for _, f := range filters {
		col := string(f.Column)

		switch f.Cond {
		case filter.Equal:
			h.Eq(col, f.Value)
		case filter.Less:
			h.Lt(col, f.Value)
		case filter.Greater:
			h.Gt(col, f.Value)
		case filter.LessOrEqual:
			h.Lte(col, f.Value)
		case filter.GreaterOrEqual:
			h.Gte(col, f.Value)
		case filter.Between:
			r, ok := f.Value.(filter.Range)
			if !ok {
				return fmt.Errorf("%s: between requires filter.Range value, got %T", col, f.Value)
			}
			h.Gte(col, r.From)
			h.Lte(col, r.To)
		case filter.Like:
			s, ok := f.Value.(string)
			if !ok {
				return fmt.Errorf("%s: like requires string value, got %T", col, f.Value)
			}
			h.Like(col, s)
		case filter.IsNull:
			h.Is(col, true)
		case filter.IsNotNull:
			h.Is(col, false)
		default:
			return fmt.Errorf("%s: unknown filter condition: %d", col, f.Cond)
		}
	}

	return nil
}
