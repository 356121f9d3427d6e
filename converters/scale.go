package converters

import (
	"math"
	"strconv"
	"strings"

	"github.com/Station-Manager/errors"
)

// ParseScaled returns a converter parsing a decimal string and scaling it to
// a rounded int64, e.g. factor 1e6 turns "14.320" MHz into 14320000 Hz.
// NaN, infinities and results outside the int64 range are rejected.
func ParseScaled(factor float64) Func {
	return func(src any) (any, error) {
		const op errors.Op = "converters.ParseScaled"
		srcVal, err := CheckString(op, src)
		if err != nil {
			return nil, errors.New(op).Err(err)
		}
		retVal, err := strconv.ParseFloat(strings.TrimSpace(srcVal), 64)
		if err != nil {
			return nil, errors.New(op).Err(err)
		}
		scaled := math.Round(retVal * factor)
		// float64(math.MaxInt64) rounds up to 2^63, which is already out of range
		if math.IsNaN(scaled) || scaled < math.MinInt64 || scaled >= math.MaxInt64 {
			return nil, errors.New(op).Msg(ErrMsgNumberOutOfRange)
		}
		return int64(scaled), nil
	}
}

// ParseFloat64 converts a decimal string such as a "14.320" MHz frequency to
// a float64. NaN and infinities are rejected.
func ParseFloat64(src any) (any, error) {
	const op errors.Op = "converters.ParseFloat64"
	srcVal, err := CheckString(op, src)
	if err != nil {
		return nil, errors.New(op).Err(err)
	}
	retVal, err := strconv.ParseFloat(strings.TrimSpace(srcVal), 64)
	if err != nil {
		return nil, errors.New(op).Err(err)
	}
	if math.IsNaN(retVal) || math.IsInf(retVal, 0) {
		return nil, errors.New(op).Msg(ErrMsgNotFinite)
	}
	return retVal, nil
}

// FormatScaled is the inverse of ParseScaled, formatting with prec decimals.
func FormatScaled(factor float64, prec int) Func {
	return func(src any) (any, error) {
		const op errors.Op = "converters.FormatScaled"
		srcVal, err := CheckInt64(op, src)
		if err != nil {
			return nil, errors.New(op).Err(err)
		}
		return strconv.FormatFloat(float64(srcVal)/factor, 'f', prec, 64), nil
	}
}
