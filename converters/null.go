package converters

import (
	"github.com/Station-Manager/errors"
	"github.com/aarondl/null/v8"
)

// StringToNull converts a string to a null.String. The empty string is null.
func StringToNull(src any) (any, error) {
	const op errors.Op = "converters.StringToNull"
	if s, ok := src.(string); ok && s == "" {
		return null.String{}, nil
	}
	srcVal, err := CheckString(op, src)
	if err != nil {
		return null.String{}, errors.New(op).Err(err)
	}
	return null.StringFrom(srcVal), nil
}

// NullToString unwraps a null.String. Plain strings pass through.
func NullToString(src any) (any, error) {
	const op errors.Op = "converters.NullToString"
	switch v := src.(type) {
	case null.String:
		if !v.Valid {
			return nil, nil
		}
		return v.String, nil
	case string:
		return v, nil
	}
	return "", errors.New(op).Errorf("Given parameter not a string or null.String, got %T", src)
}

func BoolToNull(src any) (any, error) {
	const op errors.Op = "converters.BoolToNull"
	srcVal, ok := src.(bool)
	if !ok {
		return null.Bool{}, errors.New(op).Errorf("Given parameter not a bool, got %T", src)
	}
	return null.BoolFrom(srcVal), nil
}

func NullToBool(src any) (any, error) {
	const op errors.Op = "converters.NullToBool"
	switch v := src.(type) {
	case null.Bool:
		if !v.Valid {
			return nil, nil
		}
		return v.Bool, nil
	case bool:
		return v, nil
	}
	return false, errors.New(op).Errorf("Given parameter not a bool or null.Bool, got %T", src)
}

// TimeToNull converts a time.Time to a null.Time. The zero time is null.
func TimeToNull(src any) (any, error) {
	const op errors.Op = "converters.TimeToNull"
	srcVal, err := CheckTime(op, src)
	if err != nil {
		return null.Time{}, errors.New(op).Err(err)
	}
	if srcVal.IsZero() {
		return null.Time{}, nil
	}
	return null.TimeFrom(srcVal), nil
}

func NullToTime(src any) (any, error) {
	const op errors.Op = "converters.NullToTime"
	if v, ok := src.(null.Time); ok {
		if !v.Valid {
			return nil, nil
		}
		return v.Time, nil
	}
	srcVal, err := CheckTime(op, src)
	if err != nil {
		return nil, errors.New(op).Err(err)
	}
	return srcVal, nil
}

func Int64ToNull(src any) (any, error) {
	const op errors.Op = "converters.Int64ToNull"
	srcVal, err := CheckInt64(op, src)
	if err != nil {
		return null.Int64{}, errors.New(op).Err(err)
	}
	return null.Int64From(srcVal), nil
}

func NullToInt64(src any) (any, error) {
	const op errors.Op = "converters.NullToInt64"
	if v, ok := src.(null.Int64); ok {
		if !v.Valid {
			return nil, nil
		}
		return v.Int64, nil
	}
	srcVal, err := CheckInt64(op, src)
	if err != nil {
		return nil, errors.New(op).Err(err)
	}
	return srcVal, nil
}

func Float64ToNull(src any) (any, error) {
	const op errors.Op = "converters.Float64ToNull"
	srcVal, err := CheckFloat64(op, src)
	if err != nil {
		return null.Float64{}, errors.New(op).Err(err)
	}
	return null.Float64From(srcVal), nil
}

func NullToFloat64(src any) (any, error) {
	const op errors.Op = "converters.NullToFloat64"
	if v, ok := src.(null.Float64); ok {
		if !v.Valid {
			return nil, nil
		}
		return v.Float64, nil
	}
	srcVal, err := CheckFloat64(op, src)
	if err != nil {
		return nil, errors.New(op).Err(err)
	}
	return srcVal, nil
}
