// Package remap provides declarative struct-to-struct mapping driven by compiled projections.
//
// A Projection is an immutable plan describing how every handled field of a
// destination struct D is produced from a source struct S. A Mapper executes a
// projection, either into an existing destination or into a freshly created one.
//
// # Basic Usage
//
//	m, err := remap.NewBuilder[Person, PersonDTO]().
//	    Reassign("Name", "FullName").
//	    Omit("Internal").
//	    Build()
//	dto, err := m.Map(&person)          // create mode
//	_, err = m.MapInto(&person, dto)    // mutate in place
//
// # Null Policy
//
// Every call runs with a null-propagation flag (writeNullIfSourceIsNull). When
// true, a null source value sets the destination field to its zero value; when
// false, the destination field keeps its prior value. MapInto and Map use the
// projection's default (see WriteNullIfSourceIsNull); MapIntoWithNullPolicy and
// MapWithNullPolicy override it for the whole call, including every nested
// projection reached during that call.
//
// Null values are nil pointers, maps, slices, interfaces, funcs and chans,
// invalid aarondl/null and database/sql wrappers, and empty sqlboiler
// types.JSON. Zero scalars such as "" or 0 are values, not nulls.
//
// # Nested Mapping
//
// Fields whose types are different struct types (directly, through pointers,
// or as slice/map elements) are delegated to the projection registered for
// that pair in the Resolver supplied with WithResolver. A Registry is the
// standard Resolver:
//
//	reg := remap.NewRegistry()
//	_, err := remap.Register(reg, remap.NewBuilder[Address, AddressDTO]())
//	m, err := remap.Register(reg, remap.NewBuilder[Person, PersonDTO]())
//
// Nested struct values are mapped in place into the existing destination value.
// Slices and maps are rebuilt on every call.
//
// # Ignoring Fields
//
// Fields tagged `remap:"-"` or `remap:"ignore"` take no part in automatic name
// matching or remainder collection. Embedded structs, including pointers to
// structs, are flattened.
//
// # Thread Safety
//
// Projections are immutable and Mappers hold no per-call state, so a Mapper is
// safe for concurrent use. Concurrent calls that target the same destination
// value are a caller error.
package remap
