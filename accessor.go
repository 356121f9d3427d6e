package remap

import (
	"fmt"
	"reflect"
)

// FieldAccessor reads and writes struct fields on behalf of a Mapper.
//
// Read returns the source field value, or an invalid reflect.Value when the
// field cannot be reached (for example behind a nil embedded pointer); the
// executor treats that as null. Target returns a settable destination field,
// allocating embedded pointers on the way when needed.
type FieldAccessor interface {
	Read(instance reflect.Value, f Field) (reflect.Value, error)
	Target(instance reflect.Value, f Field) (reflect.Value, error)
}

// ReflectAccessor is the default FieldAccessor, based on field index paths.
type ReflectAccessor struct{}

func (ReflectAccessor) Read(instance reflect.Value, f Field) (reflect.Value, error) {
	if instance.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("reading field %s: instance is %s, not a struct", f.Name, instance.Kind())
	}
	v, ok := safeFieldByIndex(instance, f.Index)
	if !ok {
		return reflect.Value{}, nil
	}
	return v, nil
}

func (ReflectAccessor) Target(instance reflect.Value, f Field) (reflect.Value, error) {
	if instance.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("writing field %s: instance is %s, not a struct", f.Name, instance.Kind())
	}
	v := instance
	for i, x := range f.Index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				if !v.CanSet() {
					return reflect.Value{}, fmt.Errorf("cannot allocate embedded %s for field %s", v.Type(), f.Name)
				}
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	if !v.CanSet() {
		return reflect.Value{}, fmt.Errorf("cannot set field %s (unexported or unsettable)", f.Name)
	}
	return v, nil
}

func safeFieldByIndex(val reflect.Value, index []int) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && val.Kind() == reflect.Pointer {
			if val.IsNil() {
				return reflect.Value{}, false
			}
			val = val.Elem()
		}
		val = val.Field(x)
	}
	return val, true
}
