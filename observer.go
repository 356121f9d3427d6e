package remap

import "time"

// Mode tells whether a map call wrote into an existing destination or created one.
type Mode int

const (
	ModeInto Mode = iota
	ModeCreate
)

func (m Mode) String() string {
	switch m {
	case ModeInto:
		return "into"
	case ModeCreate:
		return "create"
	default:
		return "unknown"
	}
}

// Observer is notified once per top-level map call. Nested delegation is not
// reported separately. Implementations must be safe for concurrent use.
type Observer interface {
	ObserveMap(pair TypePair, mode Mode, elapsed time.Duration, err error)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(pair TypePair, mode Mode, elapsed time.Duration, err error)

func (f ObserverFunc) ObserveMap(pair TypePair, mode Mode, elapsed time.Duration, err error) {
	f(pair, mode, elapsed, err)
}
