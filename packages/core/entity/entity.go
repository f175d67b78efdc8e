package entity

import (
	Error "flashauction/packages/common/errors"
	"flashauction/packages/core/filter"
	"flashauction/packages/core/metadata"
	"net/http"
	"strings"
)

var NoFields = Error.NewStatusError(
	"No fields to write",
	http.StatusBadRequest,
)

var NoConditions = Error.NewStatusError(
	"Query conditions are required, unconditioned queries are rejected",
	http.StatusBadRequest,
)

// Value of a single entity field.
// Value is nil if field is absent.
type Field struct {
	metadata.Descriptor
	Value any
	// Used only by predicate fields
	Cond filter.Condition
}

// Entity describes its current state to the builders.
// Fields must be returned in declaration order.
type Entity interface {
	Fields() []Field
}

// Predicate field value
type Predicate struct {
	Cond  filter.Condition
	Value any
}

func Eq(v any) *Predicate {
	return &Predicate{Cond: filter.Equal, Value: v}
}

func Between(from any, to any) *Predicate {
	return &Predicate{Cond: filter.Between, Value: filter.Range{From: from, To: to}}
}

func Contains(v string) *Predicate {
	return &Predicate{Cond: filter.Like, Value: v}
}

// Creates data field, v is dereferenced if not nil.
func Value[T any](d metadata.Descriptor, v *T) Field {
	if v == nil {
		return Field{Descriptor: d}
	}
	return Field{Descriptor: d, Value: *v}
}

// Creates predicate field.
func Condition(d metadata.Descriptor, p *Predicate) Field {
	if p == nil {
		return Field{Descriptor: d}
	}
	return Field{Descriptor: d, Value: p.Value, Cond: p.Cond}
}

// Reports whether field has no value.
// Blank strings and ranges without both bounds are considered empty as well.
func (f Field) IsEmpty() bool {
	if f.Predicate && f.Cond.IsUnary() {
		return false
	}

	switch v := f.Value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case filter.Range:
		return v.From == nil || v.To == nil
	default:
		return false
	}
}
