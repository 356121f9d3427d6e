package remap

import (
	"fmt"
	"reflect"
	"sync/atomic"
)

// Instantiator creates fresh destination values. Instantiate returns a
// pointer to a new value of type t.
type Instantiator interface {
	Instantiate(t reflect.Type) (reflect.Value, error)
}

// InstantiatorFunc adapts a function to Instantiator.
type InstantiatorFunc func(t reflect.Type) (reflect.Value, error)

func (f InstantiatorFunc) Instantiate(t reflect.Type) (reflect.Value, error) { return f(t) }

type zeroInstantiator struct{}

func (zeroInstantiator) Instantiate(t reflect.Type) (reflect.Value, error) {
	return reflect.New(t), nil
}

// Constructors is an Instantiator with per-type constructor functions. Types
// without a registered constructor get a zero value. Safe for concurrent use;
// registrations swap a copy-on-write map.
type Constructors struct {
	ctors atomic.Value // holds map[reflect.Type]func() (any, error)
}

// NewConstructors creates an empty constructor set.
func NewConstructors() *Constructors {
	c := &Constructors{}
	c.ctors.Store(map[reflect.Type]func() (any, error){})
	return c
}

// RegisterConstructor registers fn as the constructor for T.
func RegisterConstructor[T any](c *Constructors, fn func() (*T, error)) {
	c.register(reflect.TypeFor[T](), func() (any, error) { return fn() })
}

func (c *Constructors) register(t reflect.Type, fn func() (any, error)) {
	old := c.ctors.Load().(map[reflect.Type]func() (any, error))
	next := make(map[reflect.Type]func() (any, error), len(old)+1)
	for k, v := range old {
		next[k] = v
	}
	next[t] = fn
	c.ctors.Store(next)
}

func (c *Constructors) Instantiate(t reflect.Type) (reflect.Value, error) {
	fn := c.ctors.Load().(map[reflect.Type]func() (any, error))[t]
	if fn == nil {
		return reflect.New(t), nil
	}
	out, err := fn()
	if err != nil {
		return reflect.Value{}, err
	}
	v := reflect.ValueOf(out)
	if !v.IsValid() || v.Kind() != reflect.Pointer || v.IsNil() {
		return reflect.Value{}, fmt.Errorf("constructor for %s returned nil", t)
	}
	if v.Type().Elem() != t {
		return reflect.Value{}, fmt.Errorf("constructor for %s returned %s", t, v.Type())
	}
	return v, nil
}
