package remap

import "reflect"

// Mapper executes a Projection from S to D. Build one with NewBuilder or New.
type Mapper[S, D any] struct {
	exec *executor
}

// Projection returns the compiled plan this mapper executes.
func (m *Mapper[S, D]) Projection() *Projection { return m.exec.proj }

func (m *Mapper[S, D]) Pair() TypePair { return m.exec.proj.pair }

// MapInto maps src into dst using the projection's default null policy and
// returns dst.
func (m *Mapper[S, D]) MapInto(src *S, dst *D) (*D, error) {
	return m.MapIntoWithNullPolicy(src, dst, m.exec.proj.writeNull)
}

// MapIntoWithNullPolicy maps src into dst. writeNullIfSourceIsNull applies to
// every rule evaluated by this call, nested projections included. On a field
// failure the fields written before it stay written.
func (m *Mapper[S, D]) MapIntoWithNullPolicy(src *S, dst *D, writeNullIfSourceIsNull bool) (*D, error) {
	start := m.exec.begin()
	err := m.mapInto(src, dst, writeNullIfSourceIsNull)
	m.exec.observe(ModeInto, start, err)
	if err != nil {
		return nil, err
	}
	return dst, nil
}

// Map creates a new D and maps src into it using the projection's default
// null policy.
func (m *Mapper[S, D]) Map(src *S) (*D, error) {
	return m.MapWithNullPolicy(src, m.exec.proj.writeNull)
}

// MapWithNullPolicy creates a new D and maps src into it. No destination is
// returned on failure.
func (m *Mapper[S, D]) MapWithNullPolicy(src *S, writeNullIfSourceIsNull bool) (*D, error) {
	start := m.exec.begin()
	dst, err := m.mapNew(src, writeNullIfSourceIsNull)
	m.exec.observe(ModeCreate, start, err)
	return dst, err
}

// MapValue implements Executor.
func (m *Mapper[S, D]) MapValue(src, dst reflect.Value, writeNullIfSourceIsNull bool) error {
	return m.exec.MapValue(src, dst, writeNullIfSourceIsNull)
}

// NewValue implements Executor.
func (m *Mapper[S, D]) NewValue() (reflect.Value, error) { return m.exec.NewValue() }

func (m *Mapper[S, D]) mapInto(src *S, dst *D, writeNull bool) error {
	pair := m.exec.proj.pair
	if src == nil {
		if m.exec.proj.Len() == 0 {
			return nil
		}
		return newError(KindNullSource, pair, "", nil)
	}
	if dst == nil {
		return newError(KindNilDestination, pair, "", nil)
	}
	return m.exec.run(reflect.ValueOf(src).Elem(), reflect.ValueOf(dst).Elem(), writeNull)
}

func (m *Mapper[S, D]) mapNew(src *S, writeNull bool) (*D, error) {
	if src == nil && m.exec.proj.Len() > 0 {
		return nil, newError(KindNullSource, m.exec.proj.pair, "", nil)
	}
	nv, err := m.exec.NewValue()
	if err != nil {
		return nil, err
	}
	dst := nv.Interface().(*D)
	if src == nil {
		return dst, nil
	}
	if err := m.exec.run(reflect.ValueOf(src).Elem(), nv.Elem(), writeNull); err != nil {
		return nil, err
	}
	return dst, nil
}
