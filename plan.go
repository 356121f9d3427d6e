package remap

import (
	"fmt"
	"reflect"
)

type planKind int

const (
	planCopy    planKind = iota // assignable value
	planConvert                 // identical underlying basic type
	planStruct                  // nested struct into struct, in place
	planPointer                 // nested struct with a pointer on at least one side
	planSlice                   // element-wise into a new slice
	planMap                     // value-wise into a new map
)

// valuePlan describes how a value of one type is stored into a field of
// another. Plans depend only on the two types; nested executors are resolved
// at call time.
type valuePlan struct {
	kind planKind
	// pair is the nested struct pair of planStruct and planPointer, and of a
	// planCopy of a struct (or *struct) type that may have a projection to itself.
	pair     TypePair
	selfPair bool
	elem     *valuePlan
	key      *valuePlan
}

func (p *valuePlan) nested() bool {
	switch p.kind {
	case planStruct, planPointer:
		return true
	case planSlice, planMap:
		return p.elem.nested()
	}
	return false
}

// nestedPairs appends every struct pair the plan requires a projection for.
func (p *valuePlan) nestedPairs(out []TypePair) []TypePair {
	switch p.kind {
	case planStruct, planPointer:
		return append(out, p.pair)
	case planSlice, planMap:
		return p.elem.nestedPairs(out)
	}
	return out
}

func compilePlan(src, dst reflect.Type) (*valuePlan, error) {
	return compileValuePlan(src, dst, nil)
}

// compileValuePlan keeps the collection pairs of the current path, so a
// recursive collection such as type Tree []Tree fails instead of looping.
func compileValuePlan(src, dst reflect.Type, path map[TypePair]bool) (*valuePlan, error) {
	if src.AssignableTo(dst) {
		p := &valuePlan{kind: planCopy}
		if s := structElem(src); s != nil && src == dst {
			p.selfPair = true
			p.pair = TypePair{Source: s, Destination: s}
		}
		return p, nil
	}
	if sameUnderlying(src, dst) {
		return &valuePlan{kind: planConvert}, nil
	}
	if ss, ds := structElem(src), structElem(dst); ss != nil && ds != nil {
		pair := TypePair{Source: ss, Destination: ds}
		if src.Kind() == reflect.Struct && dst.Kind() == reflect.Struct {
			return &valuePlan{kind: planStruct, pair: pair}, nil
		}
		return &valuePlan{kind: planPointer, pair: pair}, nil
	}
	if k := src.Kind(); k == reflect.Slice || k == reflect.Array || k == reflect.Map {
		pair := TypePair{Source: src, Destination: dst}
		if path[pair] {
			return nil, fmt.Errorf("cannot map recursive type %s to %s", src, dst)
		}
		if path == nil {
			path = make(map[TypePair]bool)
		}
		path[pair] = true
		defer delete(path, pair)
	}
	switch {
	case (src.Kind() == reflect.Slice || src.Kind() == reflect.Array) && dst.Kind() == reflect.Slice:
		elem, err := compileValuePlan(src.Elem(), dst.Elem(), path)
		if err != nil {
			return nil, fmt.Errorf("element of %s: %w", src, err)
		}
		return &valuePlan{kind: planSlice, elem: elem}, nil
	case src.Kind() == reflect.Map && dst.Kind() == reflect.Map:
		key, err := compileValuePlan(src.Key(), dst.Key(), path)
		if err != nil || (key.kind != planCopy && key.kind != planConvert) {
			return nil, fmt.Errorf("cannot map key %s to %s", src.Key(), dst.Key())
		}
		elem, err := compileValuePlan(src.Elem(), dst.Elem(), path)
		if err != nil {
			return nil, fmt.Errorf("value of %s: %w", src, err)
		}
		return &valuePlan{kind: planMap, key: key, elem: elem}, nil
	}
	return nil, fmt.Errorf("cannot map %s to %s", src, dst)
}

// sameUnderlying reports whether two basic types differ only by name, e.g.
// a named string type and string. Numeric widening is never implied.
func sameUnderlying(src, dst reflect.Type) bool {
	if src.Kind() != dst.Kind() {
		return false
	}
	switch src.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return src.ConvertibleTo(dst)
	}
	return false
}
