package remap

import "github.com/aarondl/null/v8"

// ConverterFunc transforms a non-null source field value before it is written.
// It is never called with a null value. A result for which IsNull reports
// true (nil, a typed nil, an invalid null.String, ...) is null and follows
// the call's null policy: skipped, or written as the zero value.
type ConverterFunc func(src any) (any, error)

// ValidatorFunc validates a destination field value right after it was written.
type ValidatorFunc func(value any) error

// ComposeConverters chains converters left to right into one Replace
// transform. The chain stops at the first error, or at the first null result,
// which is returned as is so the null policy sees it. Nil entries are skipped.
func ComposeConverters(fns ...ConverterFunc) ConverterFunc {
	return func(src any) (any, error) {
		cur := src
		for _, fn := range fns {
			if fn == nil {
				continue
			}
			out, err := fn(cur)
			if err != nil {
				return nil, err
			}
			if IsNull(out) {
				return out, nil
			}
			cur = out
		}
		return cur, nil
	}
}

// MapString lifts f into a ConverterFunc for string and null.String fields.
// An invalid null.String stays null; any other value passes through unchanged.
func MapString(f func(string) string) ConverterFunc {
	return func(src any) (any, error) {
		switch s := src.(type) {
		case string:
			return f(s), nil
		case null.String:
			if !s.Valid {
				return s, nil
			}
			return null.StringFrom(f(s.String)), nil
		}
		return src, nil
	}
}
