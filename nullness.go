package remap

import (
	"database/sql"
	"reflect"

	"github.com/aarondl/null/v8"
	boilertypes "github.com/aarondl/sqlboiler/v4/types"
)

var (
	nullPkgPath    = reflect.TypeOf(null.String{}).PkgPath()
	sqlPkgPath     = reflect.TypeOf(sql.NullString{}).PkgPath()
	nullJSONType   = reflect.TypeOf(null.JSON{})
	boilerJSONType = reflect.TypeOf(boilertypes.JSON{})
)

// IsNull reports whether v counts as null for the null-propagation policy.
func IsNull(v any) bool {
	return isNull(reflect.ValueOf(v))
}

func isNull(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Interface:
		return v.IsNil() || isNull(v.Elem())
	case reflect.Pointer, reflect.Map, reflect.Func, reflect.Chan:
		return v.IsNil()
	case reflect.Slice:
		if v.Type() == boilerJSONType {
			return v.Len() == 0
		}
		return v.IsNil()
	case reflect.Struct:
		return isInvalidWrapper(v)
	}
	return false
}

// isInvalidWrapper recognises aarondl/null and database/sql nullable wrappers,
// which carry a Valid flag next to the value.
func isInvalidWrapper(v reflect.Value) bool {
	pkg := v.Type().PkgPath()
	if pkg != nullPkgPath && pkg != sqlPkgPath {
		return false
	}
	valid := v.FieldByName("Valid")
	if !valid.IsValid() || valid.Kind() != reflect.Bool {
		return false
	}
	return !valid.Bool()
}
