package remap

import (
	"bytes"
	"reflect"

	"github.com/aarondl/null/v8"
	boilertypes "github.com/aarondl/sqlboiler/v4/types"
	"github.com/goccy/go-json"
)

// collectRule marshals the given source fields into a JSON destination field.
// An empty remainder is null.
func collectRule(df Field, fields []Field, o Options) FieldRule {
	accessor := o.Accessor
	includeZero := o.IncludeZeroValues
	boiler := df.Type == boilerJSONType
	compute := func(src reflect.Value) (any, error) {
		remaining := make(map[string]any, len(fields))
		for _, sf := range fields {
			v, err := accessor.Read(src, sf)
			if err != nil {
				return nil, err
			}
			if !v.IsValid() || !v.CanInterface() {
				continue
			}
			if !includeZero && v.IsZero() {
				continue
			}
			remaining[sf.Name] = v.Interface()
		}
		if len(remaining) == 0 {
			return nil, nil
		}
		b, err := json.Marshal(remaining)
		if err != nil {
			return nil, err
		}
		if boiler {
			return boilertypes.JSON(b), nil
		}
		return null.JSONFrom(b), nil
	}
	return FieldRule{kind: RuleComputed, dst: df, compute: compute}
}

// expandRule decodes df from the JSON object held in the source field sf. A
// missing key or a JSON null is null. Each expanded field decodes the object
// on its own.
func expandRule(df, sf Field, o Options) FieldRule {
	accessor := o.Accessor
	compute := func(src reflect.Value) (any, error) {
		v, err := accessor.Read(src, sf)
		if err != nil {
			return nil, err
		}
		raw, ok := rawJSON(v)
		if !ok {
			return nil, nil
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, err
		}
		msg, ok := fields[df.Name]
		if !ok && df.JSONName != "" {
			msg, ok = fields[df.JSONName]
		}
		if !ok || bytes.Equal(bytes.TrimSpace(msg), []byte("null")) {
			return nil, nil
		}
		ptr := reflect.New(df.Type)
		if err := json.Unmarshal(msg, ptr.Interface()); err != nil {
			return nil, err
		}
		return ptr.Elem().Interface(), nil
	}
	return FieldRule{kind: RuleComputed, dst: df, compute: compute}
}

func rawJSON(v reflect.Value) ([]byte, bool) {
	if isNull(v) {
		return nil, false
	}
	var raw []byte
	switch {
	case v.Type() == nullJSONType:
		raw = v.Interface().(null.JSON).JSON
	case v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8:
		raw = v.Bytes()
	case v.Kind() == reflect.String:
		raw = []byte(v.String())
	}
	return raw, len(bytes.TrimSpace(raw)) > 0
}

func isJSONCarrier(t reflect.Type) bool {
	switch {
	case t == nullJSONType:
		return true
	case t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8:
		return true
	case t.Kind() == reflect.String:
		return true
	}
	return false
}
