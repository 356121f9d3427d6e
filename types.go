package remap

import (
	"reflect"
	"slices"
)

// TypePair identifies a (source, destination) struct type pair.
type TypePair struct {
	Source      reflect.Type
	Destination reflect.Type
}

// PairOf returns the TypePair for S and D.
func PairOf[S, D any]() TypePair {
	return TypePair{Source: reflect.TypeFor[S](), Destination: reflect.TypeFor[D]()}
}

func (p TypePair) String() string {
	return typeName(p.Source) + " -> " + typeName(p.Destination)
}

// key is unique across packages, unlike String.
func (p TypePair) key() string {
	return qualifiedName(p.Source) + "->" + qualifiedName(p.Destination)
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

func qualifiedName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if t.PkgPath() == "" || t.Name() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// Field identifies an exported struct field, possibly promoted through embedded structs.
type Field struct {
	Name     string
	JSONName string
	Index    []int
	Type     reflect.Type
	Ignored  bool
	// viaPointer is set when the index path crosses an embedded pointer.
	viaPointer bool
}

func (f Field) clone() Field {
	f.Index = slices.Clone(f.Index)
	return f
}

// structElem returns t when it is a struct, its element when t is a pointer to
// a struct, and nil otherwise.
func structElem(t reflect.Type) reflect.Type {
	switch {
	case t.Kind() == reflect.Struct:
		return t
	case t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct:
		return t.Elem()
	default:
		return nil
	}
}

func derefType(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Pointer {
		return t.Elem()
	}
	return t
}
