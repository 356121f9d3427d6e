package remap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type Address struct {
	City   *string
	Street string
}

type AddressDTO struct {
	City   *string
	Street string
}

type Person struct {
	Name    string
	Age     int
	Address *Address
}

type PersonDTO struct {
	Name    string
	Age     int
	Address *AddressDTO
}

type Empty struct{}

func strPtr(s string) *string { return &s }

// newPersonMapper registers Address -> AddressDTO and Person -> PersonDTO in a
// fresh registry.
func newPersonMapper(t testing.TB, opts ...Option) *Mapper[Person, PersonDTO] {
	t.Helper()
	reg := NewRegistry()
	_, err := Register(reg, NewBuilder[Address, AddressDTO]())
	require.NoError(t, err)
	m, err := Register(reg, NewBuilder[Person, PersonDTO](opts...))
	require.NoError(t, err)
	return m
}
