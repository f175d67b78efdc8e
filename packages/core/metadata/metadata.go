// Static per-entity field declarations.
//
// Each entity registers its descriptors once, at package initialization.
// Registries are immutable after registration.
package metadata

import (
	"flashauction/packages/core"
	"sync"
)

type Descriptor struct {
	// Client-facing field name
	Name string
	// Persisted column, also used as column of the predicate
	Column core.EntityProperty
	// Field narrows queries and never appears in write payloads
	Predicate bool
	// Field may be assigned by UPDATE
	Writable bool
	// Field is written by INSERT
	Persisted bool
}

// Persisted field which can be updated.
func Data(name string, column core.EntityProperty) Descriptor {
	return Descriptor{Name: name, Column: column, Persisted: true, Writable: true}
}

// Persisted field which can be set only on insert.
func Immutable(name string, column core.EntityProperty) Descriptor {
	return Descriptor{Name: name, Column: column, Persisted: true}
}

// Field which is used only to narrow queries.
func Predicate(name string, column core.EntityProperty) Descriptor {
	return Descriptor{Name: name, Column: column, Predicate: true}
}

type Registry struct {
	entity      string
	descriptors []Descriptor
	index       map[string]int
}

func (r *Registry) Entity() string {
	return r.entity
}

// Returns descriptor of the field.
// If field wasn't declared, then returns false.
func (r *Registry) Describe(field string) (Descriptor, bool) {
	i, ok := r.index[field]
	if !ok {
		return Descriptor{}, false
	}
	return r.descriptors[i], true
}

// Same as Describe, but panics if field wasn't declared.
// Intended for entities describing their own fields.
func (r *Registry) Must(field string) Descriptor {
	d, ok := r.Describe(field)
	if !ok {
		panic("metadata: field " + field + " isn't declared for " + r.entity)
	}
	return d
}

// Returns all descriptors in declaration order.
func (r *Registry) Descriptors() []Descriptor {
	descriptors := make([]Descriptor, len(r.descriptors))
	copy(descriptors, r.descriptors)
	return descriptors
}

var catalog = struct {
	mu         sync.RWMutex
	registries map[string]*Registry
}{
	registries: map[string]*Registry{},
}

// Declares fields of the entity, declaration order is kept.
// Panics on invalid declaration, since it's a programming error:
//   - entity is already registered;
//   - field name is empty or declared twice;
//   - column is empty;
//   - field is both predicate and persisted (or writable);
//   - field is writable, but not persisted.
func Register(entity string, descriptors ...Descriptor) *Registry {
	catalog.mu.Lock()
	defer catalog.mu.Unlock()

	if _, exists := catalog.registries[entity]; exists {
		panic("metadata: entity " + entity + " is already registered")
	}

	r := &Registry{
		entity:      entity,
		descriptors: make([]Descriptor, 0, len(descriptors)),
		index:       make(map[string]int, len(descriptors)),
	}

	for _, d := range descriptors {
		if d.Name == "" || d.Column == "" {
			panic("metadata: " + entity + " has field with empty name or column")
		}
		if _, dup := r.index[d.Name]; dup {
			panic("metadata: " + entity + "." + d.Name + " is declared twice")
		}
		if d.Predicate && (d.Persisted || d.Writable) {
			panic("metadata: " + entity + "." + d.Name + " can't be both predicate and persisted")
		}
		if d.Writable && !d.Persisted {
			panic("metadata: " + entity + "." + d.Name + " is writable, but not persisted")
		}

		r.index[d.Name] = len(r.descriptors)
		r.descriptors = append(r.descriptors, d)
	}

	catalog.registries[entity] = r

	return r
}

// Returns descriptor of entity's field.
// Unknown entity or field is reported as absence (false).
func Describe(entity string, field string) (Descriptor, bool) {
	catalog.mu.RLock()
	r, ok := catalog.registries[entity]
	catalog.mu.RUnlock()

	if !ok {
		return Descriptor{}, false
	}

	return r.Describe(field)
}
