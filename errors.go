package remap

import (
	"errors"
	"strings"
)

//go:generate go tool stringer -type=ErrorKind -trimprefix=Kind -output=kind_string.go

// ErrorKind classifies mapping failures.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNullSource
	KindNilDestination
	KindDestinationConstruction
	KindFieldAccess
	KindIncompatibleType
	KindUnmappedField
	KindUnknownField
	KindDuplicateRule
	KindValidation
)

// Sentinel errors, one per ErrorKind. Every *Error matches its sentinel with errors.Is.
var (
	ErrNullSource              = errors.New("remap: source is nil")
	ErrNilDestination          = errors.New("remap: destination is nil")
	ErrDestinationConstruction = errors.New("remap: destination construction failed")
	ErrFieldAccess             = errors.New("remap: field access failed")
	ErrIncompatibleType        = errors.New("remap: incompatible types")
	ErrUnmappedField           = errors.New("remap: unmapped destination field")
	ErrUnknownField            = errors.New("remap: unknown field")
	ErrDuplicateRule           = errors.New("remap: duplicate rule for destination field")
	ErrValidation              = errors.New("remap: validation failed")
	errUnknown                 = errors.New("remap: mapping failed")
)

var kindSentinels = [...]error{
	KindUnknown:                 errUnknown,
	KindNullSource:              ErrNullSource,
	KindNilDestination:          ErrNilDestination,
	KindDestinationConstruction: ErrDestinationConstruction,
	KindFieldAccess:             ErrFieldAccess,
	KindIncompatibleType:        ErrIncompatibleType,
	KindUnmappedField:           ErrUnmappedField,
	KindUnknownField:            ErrUnknownField,
	KindDuplicateRule:           ErrDuplicateRule,
	KindValidation:              ErrValidation,
}

// Error describes a failed build or map call. Field is the dotted destination
// path of the field being produced, relative to Pair.
type Error struct {
	Kind  ErrorKind
	Pair  TypePair
	Field string
	Err   error
}

func (e *Error) sentinel() error {
	if e.Kind < 0 || int(e.Kind) >= len(kindSentinels) {
		return errUnknown
	}
	return kindSentinels[e.Kind]
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.sentinel().Error())
	if e.Pair.Source != nil && e.Pair.Destination != nil {
		b.WriteString(" (")
		b.WriteString(e.Pair.String())
		b.WriteString(")")
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind sentinel and the cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.sentinel()}
	}
	return []error{e.sentinel(), e.Err}
}

// KindOf returns the kind of the first *Error in err's tree, or KindUnknown.
func KindOf(err error) ErrorKind {
	var me *Error
	if errors.As(err, &me) {
		return me.Kind
	}
	return KindUnknown
}

func newError(kind ErrorKind, pair TypePair, field string, cause error) *Error {
	return &Error{Kind: kind, Pair: pair, Field: field, Err: cause}
}

// withField re-roots an error raised while producing field (or a nested
// element of it) onto pair, keeping its kind and cause.
func withField(err error, pair TypePair, field string) error {
	var me *Error
	if errors.As(err, &me) {
		return &Error{Kind: me.Kind, Pair: pair, Field: joinPath(field, me.Field), Err: me.Err}
	}
	return &Error{Kind: KindFieldAccess, Pair: pair, Field: field, Err: err}
}

func joinPath(prefix, rest string) string {
	switch {
	case prefix == "":
		return rest
	case rest == "":
		return prefix
	case rest[0] == '[':
		return prefix + rest
	default:
		return prefix + "." + rest
	}
}
