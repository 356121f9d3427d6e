package remap

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapper_CreateWithNullPolicy(t *testing.T) {
	m := newPersonMapper(t)

	src := &Person{Name: "Ann", Address: &Address{City: nil}}
	dst, err := m.MapWithNullPolicy(src, true)
	require.NoError(t, err)

	assert.Equal(t, "Ann", dst.Name)
	require.NotNil(t, dst.Address)
	assert.Nil(t, dst.Address.City)
}

func TestMapper_IntoKeepsPriorValuesForNulls(t *testing.T) {
	m := newPersonMapper(t)

	addr := &AddressDTO{City: strPtr("Berlin"), Street: "Main"}
	dst := &PersonDTO{Name: "Bob", Address: addr}
	src := &Person{Name: "Ann", Address: &Address{City: nil, Street: "Side"}}

	out, err := m.MapIntoWithNullPolicy(src, dst, false)
	require.NoError(t, err)
	assert.Same(t, dst, out)

	assert.Equal(t, "Ann", dst.Name)
	assert.Same(t, addr, dst.Address, "nested destination is mapped in place")
	require.NotNil(t, dst.Address.City)
	assert.Equal(t, "Berlin", *dst.Address.City)
	assert.Equal(t, "Side", dst.Address.Street)
}

func TestMapper_IntoWritesNullsIntoNestedDestination(t *testing.T) {
	m := newPersonMapper(t)

	addr := &AddressDTO{City: strPtr("Berlin"), Street: "Main"}
	dst := &PersonDTO{Name: "Bob", Address: addr}
	src := &Person{Name: "Ann", Address: &Address{City: nil, Street: "Side"}}

	_, err := m.MapIntoWithNullPolicy(src, dst, true)
	require.NoError(t, err)

	assert.Same(t, addr, dst.Address)
	assert.Nil(t, dst.Address.City)
	assert.Equal(t, "Side", dst.Address.Street)
}

func TestMapper_NilNestedSource(t *testing.T) {
	m := newPersonMapper(t)

	addr := &AddressDTO{City: strPtr("Berlin")}

	dst := &PersonDTO{Address: addr}
	_, err := m.MapIntoWithNullPolicy(&Person{Name: "Ann"}, dst, false)
	require.NoError(t, err)
	assert.Same(t, addr, dst.Address)

	_, err = m.MapIntoWithNullPolicy(&Person{Name: "Ann"}, dst, true)
	require.NoError(t, err)
	assert.Nil(t, dst.Address)
}

func TestMapper_DefaultPolicy(t *testing.T) {
	reg := NewRegistry()
	_, err := Register(reg, NewBuilder[Address, AddressDTO]())
	require.NoError(t, err)

	keep, err := Register(reg, NewBuilder[Person, PersonDTO]())
	require.NoError(t, err)
	assert.False(t, keep.Projection().WriteNullIfSourceIsNull())

	write, err := Register(reg, NewBuilder[Person, PersonDTO]().WriteNullIfSourceIsNull(true))
	require.NoError(t, err)
	assert.True(t, write.Projection().WriteNullIfSourceIsNull())

	dst := &PersonDTO{Address: &AddressDTO{}}
	_, err = keep.MapInto(&Person{}, dst)
	require.NoError(t, err)
	assert.NotNil(t, dst.Address)

	_, err = write.MapInto(&Person{}, dst)
	require.NoError(t, err)
	assert.Nil(t, dst.Address)
}

func TestMapper_CreateEqualsIntoFresh(t *testing.T) {
	m := newPersonMapper(t)
	src := &Person{Name: "Ann", Age: 41, Address: &Address{City: strPtr("Oslo"), Street: "Karl Johans gate"}}

	for _, policy := range []bool{false, true} {
		created, err := m.MapWithNullPolicy(src, policy)
		require.NoError(t, err)
		into, err := m.MapIntoWithNullPolicy(src, &PersonDTO{}, policy)
		require.NoError(t, err)
		assert.Equal(t, into, created, spew.Sdump(created))
	}
}

func TestMapper_Idempotent(t *testing.T) {
	m := newPersonMapper(t)
	src := &Person{Name: "Ann", Age: 41, Address: &Address{City: strPtr("Oslo")}}

	dst := &PersonDTO{}
	_, err := m.MapInto(src, dst)
	require.NoError(t, err)
	first := *dst
	firstAddr := *dst.Address

	_, err = m.MapInto(src, dst)
	require.NoError(t, err)
	assert.Equal(t, first.Name, dst.Name)
	assert.Equal(t, first.Age, dst.Age)
	assert.Equal(t, firstAddr, *dst.Address)
}

func TestMapper_IdempotentWritingNulls(t *testing.T) {
	m := newPersonMapper(t)
	src := &Person{Name: "Ann", Age: 41, Address: &Address{City: nil, Street: "Unter den Linden"}}

	dst := &PersonDTO{Name: "prior", Address: &AddressDTO{City: strPtr("Berlin"), Street: "prior"}}
	_, err := m.MapIntoWithNullPolicy(src, dst, true)
	require.NoError(t, err)
	once := spew.Sdump(dst)
	addr := dst.Address

	_, err = m.MapIntoWithNullPolicy(src, dst, true)
	require.NoError(t, err)
	assert.Equal(t, once, spew.Sdump(dst))
	assert.Same(t, addr, dst.Address)
	assert.Nil(t, dst.Address.City)
	assert.Equal(t, PersonDTO{Name: "Ann", Age: 41, Address: &AddressDTO{Street: "Unter den Linden"}}, *dst)
}

func TestMapper_DoesNotModifySource(t *testing.T) {
	m := newPersonMapper(t)
	src := &Person{Name: "Ann", Age: 41, Address: &Address{City: strPtr("Oslo")}}
	before := *src
	beforeAddr := *src.Address

	_, err := m.Map(src)
	require.NoError(t, err)
	assert.Equal(t, before.Name, src.Name)
	assert.Equal(t, before.Age, src.Age)
	assert.Same(t, before.Address, src.Address)
	assert.Equal(t, beforeAddr, *src.Address)
}

func TestMapper_NullSource(t *testing.T) {
	m := newPersonMapper(t)

	out, err := m.Map(nil)
	require.Error(t, err)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, ErrNullSource)
	assert.Equal(t, KindNullSource, KindOf(err))

	dst := &PersonDTO{Name: "Bob"}
	out, err = m.MapInto(nil, dst)
	assert.ErrorIs(t, err, ErrNullSource)
	assert.Nil(t, out)
	assert.Equal(t, "Bob", dst.Name)
}

func TestMapper_NullSourceChecksBeforeConstruction(t *testing.T) {
	calls := 0
	inst := InstantiatorFunc(func(typ reflect.Type) (reflect.Value, error) {
		calls++
		return reflect.New(typ), nil
	})
	m := newPersonMapper(t, WithInstantiator(inst))

	_, err := m.Map(nil)
	assert.ErrorIs(t, err, ErrNullSource)
	assert.Zero(t, calls)
}

func TestMapper_EmptyProjectionAcceptsNilSource(t *testing.T) {
	m, err := New[Empty, Empty]()
	require.NoError(t, err)
	assert.Zero(t, m.Projection().Len())

	out, err := m.Map(nil)
	require.NoError(t, err)
	assert.NotNil(t, out)

	dst := &Empty{}
	got, err := m.MapInto(nil, dst)
	require.NoError(t, err)
	assert.Same(t, dst, got)
}

func TestMapper_NilDestination(t *testing.T) {
	m := newPersonMapper(t)
	_, err := m.MapInto(&Person{}, nil)
	assert.ErrorIs(t, err, ErrNilDestination)
}

func TestMapper_OmittedFieldUntouched(t *testing.T) {
	reg := NewRegistry()
	_, err := Register(reg, NewBuilder[Address, AddressDTO]())
	require.NoError(t, err)
	m, err := Register(reg, NewBuilder[Person, PersonDTO]().Omit("Age"))
	require.NoError(t, err)

	dst := &PersonDTO{Age: 99}
	for _, policy := range []bool{false, true} {
		_, err = m.MapIntoWithNullPolicy(&Person{Name: "Ann", Age: 1}, dst, policy)
		require.NoError(t, err)
		assert.Equal(t, 99, dst.Age)
	}
	_, ok := m.Projection().Rule("Age")
	assert.False(t, ok)
}

func TestMapper_DestinationConstructionFails(t *testing.T) {
	boom := errors.New("boom")
	inst := InstantiatorFunc(func(reflect.Type) (reflect.Value, error) { return reflect.Value{}, boom })
	m := newPersonMapper(t, WithInstantiator(inst))

	out, err := m.Map(&Person{Name: "Ann"})
	require.Error(t, err)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, ErrDestinationConstruction)
	assert.ErrorIs(t, err, boom)

	// into mode never constructs the top-level destination
	dst := &PersonDTO{}
	_, err = m.MapInto(&Person{Name: "Ann"}, dst)
	require.NoError(t, err)
	assert.Equal(t, "Ann", dst.Name)
}

func TestMapper_NestedConstructionFails(t *testing.T) {
	inst := InstantiatorFunc(func(reflect.Type) (reflect.Value, error) { return reflect.Value{}, errors.New("no address") })
	reg := NewRegistry()
	_, err := Register(reg, NewBuilder[Address, AddressDTO](WithInstantiator(inst)))
	require.NoError(t, err)
	m, err := Register(reg, NewBuilder[Person, PersonDTO]())
	require.NoError(t, err)

	dst := &PersonDTO{}
	_, err = m.MapInto(&Person{Name: "Ann", Address: &Address{}}, dst)
	require.Error(t, err)
	assert.Equal(t, KindDestinationConstruction, KindOf(err))

	var me *Error
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "Address", me.Field)
	assert.Equal(t, PairOf[Person, PersonDTO](), me.Pair)
}

type failingAccessor struct {
	ReflectAccessor
	field string
}

func (a failingAccessor) Read(instance reflect.Value, f Field) (reflect.Value, error) {
	if f.Name == a.field {
		return reflect.Value{}, fmt.Errorf("cannot read %s", f.Name)
	}
	return a.ReflectAccessor.Read(instance, f)
}

func TestMapper_FieldAccessFailsFast(t *testing.T) {
	m := newPersonMapper(t, WithFieldAccessor(failingAccessor{field: "Age"}))

	dst := &PersonDTO{}
	out, err := m.MapInto(&Person{Name: "Ann", Age: 3, Address: &Address{Street: "Main"}}, dst)
	require.Error(t, err)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, ErrFieldAccess)

	var me *Error
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "Age", me.Field)

	// rules run in destination field order; Name was written before the failure
	assert.Equal(t, "Ann", dst.Name)
	assert.Nil(t, dst.Address)
}

func TestMapper_TransformError(t *testing.T) {
	m, err := NewBuilder[Person, PersonDTO]().
		Omit("Address").
		Replace("Age", "Age", func(any) (any, error) { return nil, errors.New("bad age") }).
		Build()
	require.NoError(t, err)

	_, err = m.Map(&Person{Age: 3})
	assert.ErrorIs(t, err, ErrFieldAccess)
	assert.ErrorContains(t, err, "bad age")
}

func TestMapper_TransformResultIncompatible(t *testing.T) {
	m, err := NewBuilder[Person, PersonDTO]().
		Omit("Address").
		Replace("Age", "Age", func(any) (any, error) { return "three", nil }).
		Build()
	require.NoError(t, err)

	_, err = m.Map(&Person{Age: 3})
	assert.ErrorIs(t, err, ErrIncompatibleType)
	assert.Equal(t, KindIncompatibleType, KindOf(err))
}

func TestMapper_TransformNotCalledForNull(t *testing.T) {
	called := false
	m, err := NewBuilder[Address, AddressDTO]().
		Replace("City", "City", func(v any) (any, error) {
			called = true
			return v, nil
		}).
		Build()
	require.NoError(t, err)

	dst := &AddressDTO{City: strPtr("Berlin")}
	_, err = m.MapIntoWithNullPolicy(&Address{}, dst, false)
	require.NoError(t, err)
	assert.False(t, called)
	assert.Equal(t, "Berlin", *dst.City)

	_, err = m.MapIntoWithNullPolicy(&Address{}, dst, true)
	require.NoError(t, err)
	assert.False(t, called)
	assert.Nil(t, dst.City)
}

func TestMapper_TransformReturningNullFollowsPolicy(t *testing.T) {
	m, err := NewBuilder[Address, AddressDTO]().
		Replace("City", "City", func(any) (any, error) { return (*string)(nil), nil }).
		Build()
	require.NoError(t, err)

	dst := &AddressDTO{City: strPtr("Berlin")}
	_, err = m.MapIntoWithNullPolicy(&Address{City: strPtr("Rome")}, dst, false)
	require.NoError(t, err)
	assert.Equal(t, "Berlin", *dst.City)

	_, err = m.MapIntoWithNullPolicy(&Address{City: strPtr("Rome")}, dst, true)
	require.NoError(t, err)
	assert.Nil(t, dst.City)
}

func TestMapper_MissingNestedProjection(t *testing.T) {
	reg := NewRegistry()
	m, err := Register(reg, NewBuilder[Person, PersonDTO]())
	require.NoError(t, err)

	_, err = m.Map(&Person{Name: "Ann", Address: &Address{}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIncompatibleType)

	var me *Error
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "Address", me.Field)

	// a nil nested source never needs the projection
	_, err = m.Map(&Person{Name: "Ann"})
	require.NoError(t, err)
}

type recordedCall struct {
	pair TypePair
	mode Mode
	err  error
}

func TestMapper_Observer(t *testing.T) {
	var calls []recordedCall
	obs := ObserverFunc(func(pair TypePair, mode Mode, _ time.Duration, err error) {
		calls = append(calls, recordedCall{pair: pair, mode: mode, err: err})
	})
	m := newPersonMapper(t, WithObserver(obs))

	_, err := m.Map(&Person{Name: "Ann", Address: &Address{}})
	require.NoError(t, err)
	_, err = m.MapInto(&Person{}, &PersonDTO{})
	require.NoError(t, err)
	_, err = m.Map(nil)
	require.Error(t, err)

	require.Len(t, calls, 3, "nested delegation is not observed")
	assert.Equal(t, ModeCreate, calls[0].mode)
	assert.Equal(t, ModeInto, calls[1].mode)
	assert.Equal(t, PairOf[Person, PersonDTO](), calls[0].pair)
	assert.NoError(t, calls[0].err)
	assert.ErrorIs(t, calls[2].err, ErrNullSource)
}

func TestMapper_ExecutorContract(t *testing.T) {
	m := newPersonMapper(t)
	var ex Executor = m

	assert.Equal(t, PairOf[Person, PersonDTO](), ex.Pair())

	nv, err := ex.NewValue()
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeOf(&PersonDTO{}), nv.Type())

	// non-addressable source values are accepted
	err = ex.MapValue(reflect.ValueOf(Person{Name: "Ann"}), nv.Elem(), false)
	require.NoError(t, err)
	assert.Equal(t, "Ann", nv.Interface().(*PersonDTO).Name)

	err = ex.MapValue(reflect.ValueOf(Address{}), nv.Elem(), false)
	assert.ErrorIs(t, err, ErrIncompatibleType)

	err = ex.MapValue(reflect.ValueOf(Person{}), reflect.ValueOf(PersonDTO{}), false)
	assert.ErrorIs(t, err, ErrFieldAccess)
}
