package converters

import (
	"github.com/Station-Manager/errors"
	"github.com/aarondl/null/v8"
	boilertypes "github.com/aarondl/sqlboiler/v4/types"
	"github.com/goccy/go-json"
)

// ToNullJSON marshals src into a null.JSON.
func ToNullJSON(src any) (any, error) {
	const op errors.Op = "converters.ToNullJSON"
	data, err := json.Marshal(src)
	if err != nil {
		return null.JSON{}, errors.New(op).Err(err)
	}
	return null.JSONFrom(data), nil
}

// ToBoilerJSON marshals src into a sqlboiler types.JSON.
func ToBoilerJSON(src any) (any, error) {
	const op errors.Op = "converters.ToBoilerJSON"
	data, err := json.Marshal(src)
	if err != nil {
		return boilertypes.JSON(nil), errors.New(op).Err(err)
	}
	return boilertypes.JSON(data), nil
}

// FromJSON returns a converter decoding a JSON payload into a T.
func FromJSON[T any]() Func {
	return func(src any) (any, error) {
		const op errors.Op = "converters.FromJSON"
		data, ok := payload(src)
		if !ok {
			return nil, errors.New(op).Msg(ErrMsgBadJSONPayload)
		}
		if len(data) == 0 {
			return nil, nil
		}
		var out T
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, errors.New(op).Err(err)
		}
		return out, nil
	}
}

// ViaJSON returns a converter copying src into a T through a JSON round trip,
// for loosely aligned shapes that have no projection of their own.
func ViaJSON[T any]() Func {
	return func(src any) (any, error) {
		const op errors.Op = "converters.ViaJSON"
		data, err := json.Marshal(src)
		if err != nil {
			return nil, errors.New(op).Err(err)
		}
		var out T
		if err = json.Unmarshal(data, &out); err != nil {
			return nil, errors.New(op).Err(err)
		}
		return out, nil
	}
}

func payload(src any) ([]byte, bool) {
	switch v := src.(type) {
	case null.JSON:
		if !v.Valid {
			return nil, true
		}
		return v.JSON, true
	case boilertypes.JSON:
		return v, true
	case []byte:
		return v, true
	case string:
		return []byte(v), true
	}
	return nil, false
}
