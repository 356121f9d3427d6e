package converters

import (
	"strings"
	"time"

	"github.com/Station-Manager/errors"
)

func Upper(src any) (any, error)     { return mapString("converters.Upper", src, strings.ToUpper) }
func Lower(src any) (any, error)     { return mapString("converters.Lower", src, strings.ToLower) }
func TrimSpace(src any) (any, error) { return mapString("converters.TrimSpace", src, strings.TrimSpace) }

func mapString(op errors.Op, src any, fn func(string) string) (any, error) {
	srcVal, ok := src.(string)
	if !ok {
		return nil, errors.New(op).Errorf("Given parameter not a string, got %T", src)
	}
	return fn(srcVal), nil
}

// Named returns the converters plan files can refer to by name. Each call
// returns a fresh map.
func Named() map[string]Func {
	return map[string]Func{
		"upper":          Upper,
		"lower":          Lower,
		"trim":           TrimSpace,
		"string-to-null": StringToNull,
		"null-to-string": NullToString,
		"bool-to-null":   BoolToNull,
		"null-to-bool":   NullToBool,
		"time-to-null":   TimeToNull,
		"null-to-time":   NullToTime,
		"int64-to-null":  Int64ToNull,
		"null-to-int64":  NullToInt64,
		"float-to-null":  Float64ToNull,
		"null-to-float":  NullToFloat64,
		"date":           ParseDate,
		"clock":          ParseClock,
		"date-iso":       FormatTime(time.DateOnly),
		"rfc3339":        FormatTime(time.RFC3339),
		"float":          ParseFloat64,
		"mhz-to-hz":      ParseScaled(1e6),
		"hz-to-mhz":      FormatScaled(1e6, 3),
		"to-json":        ToNullJSON,
		"to-types-json":  ToBoilerJSON,
	}
}
