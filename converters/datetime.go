package converters

import (
	"time"

	"github.com/Station-Manager/errors"
	"github.com/aarondl/null/v8"
)

// ParseDate converts a YYYYMMDD or YYYY-MM-DD string to a time.Time.
func ParseDate(src any) (any, error) {
	const op errors.Op = "converters.ParseDate"
	srcVal, err := CheckString(op, src)
	if err != nil {
		return nil, errors.New(op).Err(err)
	}

	var retVal time.Time
	switch len(srcVal) {
	case 8:
		retVal, err = time.Parse("20060102", srcVal)
	case 10:
		if srcVal[4] != '-' || srcVal[7] != '-' {
			return nil, errors.New(op).Msg(ErrMsgBadDateFormat)
		}
		retVal, err = time.Parse(time.DateOnly, srcVal)
	default:
		return nil, errors.New(op).Msg(ErrMsgBadDateFormat)
	}
	if err != nil {
		return nil, errors.New(op).Err(err).Msg(ErrMsgBadDateFormat)
	}
	return retVal, nil
}

// ParseClock converts an HHMM or HH:MM string to a time.Time on the zero date.
func ParseClock(src any) (any, error) {
	const op errors.Op = "converters.ParseClock"
	srcVal, err := CheckString(op, src)
	if err != nil {
		return nil, errors.New(op).Err(err)
	}

	var retVal time.Time
	switch {
	case len(srcVal) == 5 && srcVal[2] == ':':
		retVal, err = time.Parse("15:04", srcVal)
	case len(srcVal) == 4:
		retVal, err = time.Parse("1504", srcVal)
	default:
		return nil, errors.New(op).Msg(ErrMsgBadTimeFormat)
	}
	if err != nil {
		return nil, errors.New(op).Err(err).Msg(ErrMsgBadTimeFormat)
	}
	return retVal, nil
}

// DateLayout returns a converter parsing strings with layout.
func DateLayout(layout string) Func {
	return func(src any) (any, error) {
		const op errors.Op = "converters.DateLayout"
		srcVal, err := CheckString(op, src)
		if err != nil {
			return nil, errors.New(op).Err(err)
		}
		retVal, err := time.Parse(layout, srcVal)
		if err != nil {
			return nil, errors.New(op).Err(err)
		}
		return retVal, nil
	}
}

// FormatTime returns a converter formatting a time.Time or null.Time with layout.
func FormatTime(layout string) Func {
	return func(src any) (any, error) {
		const op errors.Op = "converters.FormatTime"
		if v, ok := src.(null.Time); ok {
			if !v.Valid {
				return nil, nil
			}
			return v.Time.Format(layout), nil
		}
		srcVal, err := CheckTime(op, src)
		if err != nil {
			return nil, errors.New(op).Err(err)
		}
		return srcVal.Format(layout), nil
	}
}
