package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var garage = Register("test_garage",
	Immutable("owner_id", "owner_id"),
	Data("name", "name"),
	Predicate("ownerFilter", "owner_id"),
)

func TestDescribe(t *testing.T) {
	d, ok := Describe("test_garage", "owner_id")
	require.True(t, ok)
	assert.Equal(t, Descriptor{Name: "owner_id", Column: "owner_id", Persisted: true}, d)

	d, ok = garage.Describe("ownerFilter")
	require.True(t, ok)
	assert.True(t, d.Predicate)
	assert.False(t, d.Persisted)
	assert.False(t, d.Writable)

	d, ok = Describe("test_garage", "name")
	require.True(t, ok)
	assert.True(t, d.Writable)
}

func TestDescribeAbsent(t *testing.T) {
	d, ok := Describe("test_garage", "color")
	assert.False(t, ok)
	assert.Equal(t, Descriptor{}, d)

	_, ok = Describe("unknown_entity", "name")
	assert.False(t, ok)

	assert.Panics(t, func() { garage.Must("color") })
}

func TestDeclarationOrder(t *testing.T) {
	names := []string{}
	for _, d := range garage.Descriptors() {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"owner_id", "name", "ownerFilter"}, names)

	// Returned slice is a copy
	garage.Descriptors()[0].Name = "changed"
	assert.Equal(t, "owner_id", garage.Descriptors()[0].Name)
}

func TestRegisterRejectsInvalidDeclarations(t *testing.T) {
	assert.Panics(t, func() { Register("test_garage") })
	assert.Panics(t, func() {
		Register("test_dup", Data("a", "a"), Data("a", "b"))
	})
	assert.Panics(t, func() {
		Register("test_contradiction", Descriptor{Name: "a", Column: "a", Predicate: true, Persisted: true})
	})
	assert.Panics(t, func() {
		Register("test_writable", Descriptor{Name: "a", Column: "a", Writable: true})
	})
	assert.Panics(t, func() {
		Register("test_empty", Descriptor{Name: "a"})
	})
}
