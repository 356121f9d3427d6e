package converters

const (
	ErrMsgParamEmpty       = "Parameter cannot be empty."
	ErrMsgBadTimeFormat    = "Bad time format, expected HH:MM or HHMM"
	ErrMsgBadDateFormat    = "Bad date format, expected YYYYMMDD or YYYY-MM-DD"
	ErrMsgBadJSONPayload   = "Bad JSON payload, expected null.JSON, types.JSON, []byte or string"
	ErrMsgNotFinite        = "Number is not finite"
	ErrMsgNumberOutOfRange = "Number is not finite or does not fit in an int64"
)

// Func is the converter signature. It is assignable to remap.ConverterFunc.
type Func = func(src any) (any, error)
