package remap

import (
	"fmt"
	"reflect"
	"strconv"
	"sync"
	"time"
)

// Executor is the untyped form of a Mapper, used for nested delegation.
type Executor interface {
	Pair() TypePair
	Projection() *Projection
	// MapValue maps the struct value src into the settable struct value dst.
	MapValue(src, dst reflect.Value, writeNullIfSourceIsNull bool) error
	// NewValue returns a pointer to a fresh destination value.
	NewValue() (reflect.Value, error)
}

// Resolver finds the executor for a nested struct pair. ok is false when the
// pair is not mapped, in which case assignable values are copied as they are.
type Resolver interface {
	Resolve(pair TypePair) (ex Executor, ok bool)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(pair TypePair) (Executor, bool)

func (f ResolverFunc) Resolve(pair TypePair) (Executor, bool) { return f(pair) }

type executor struct {
	proj    *Projection
	opts    Options
	dynamic sync.Map // TypePair -> *valuePlan, for transform and compute results
}

func newExecutor(proj *Projection, opts Options) *executor {
	return &executor{proj: proj, opts: opts}
}

func (e *executor) Pair() TypePair          { return e.proj.pair }
func (e *executor) Projection() *Projection { return e.proj }

func (e *executor) NewValue() (reflect.Value, error) {
	t := e.proj.pair.Destination
	v, err := e.opts.Instantiator.Instantiate(t)
	if err != nil {
		return reflect.Value{}, newError(KindDestinationConstruction, e.proj.pair, "", err)
	}
	if !v.IsValid() || v.Kind() != reflect.Pointer || v.IsNil() || v.Type().Elem() != t {
		return reflect.Value{}, newError(KindDestinationConstruction, e.proj.pair, "", fmt.Errorf("instantiator returned %v, want *%s", v, t))
	}
	return v, nil
}

func (e *executor) MapValue(src, dst reflect.Value, writeNull bool) error {
	if !src.IsValid() {
		return newError(KindNullSource, e.proj.pair, "", nil)
	}
	if src.Type() != e.proj.pair.Source || dst.Type() != e.proj.pair.Destination {
		return newError(KindIncompatibleType, e.proj.pair, "", fmt.Errorf("got %s -> %s", src.Type(), dst.Type()))
	}
	if !dst.CanSet() {
		return newError(KindFieldAccess, e.proj.pair, "", fmt.Errorf("destination %s is not settable", dst.Type()))
	}
	if !src.CanAddr() {
		tmp := reflect.New(src.Type()).Elem()
		tmp.Set(src)
		src = tmp
	}
	return e.run(src, dst, writeNull)
}

func (e *executor) run(src, dst reflect.Value, writeNull bool) error {
	for i := range e.proj.rules {
		if err := e.applyRule(&e.proj.rules[i], src, dst, writeNull); err != nil {
			return err
		}
	}
	return nil
}

func (e *executor) applyRule(r *FieldRule, src, dst reflect.Value, writeNull bool) error {
	val, plan, err := e.resolveValue(r, src)
	if err != nil {
		return err
	}
	if isNull(val) && !writeNull {
		return nil
	}
	target, err := e.opts.Accessor.Target(dst, r.dst)
	if err != nil {
		return newError(KindFieldAccess, e.proj.pair, r.dst.Name, err)
	}
	if err := e.store(plan, val, target, writeNull); err != nil {
		return withField(err, e.proj.pair, r.dst.Name)
	}
	if r.validate != nil {
		if err := r.validate(target.Interface()); err != nil {
			return newError(KindValidation, e.proj.pair, r.dst.Name, err)
		}
	}
	return nil
}

func (e *executor) resolveValue(r *FieldRule, src reflect.Value) (reflect.Value, *valuePlan, error) {
	if r.kind == RuleComputed {
		out, err := r.compute(src)
		if err != nil {
			return reflect.Value{}, nil, newError(KindFieldAccess, e.proj.pair, r.dst.Name, err)
		}
		return e.dynamicValue(r, out)
	}
	v, err := e.opts.Accessor.Read(src, r.src)
	if err != nil {
		return reflect.Value{}, nil, newError(KindFieldAccess, e.proj.pair, r.dst.Name, err)
	}
	if r.transform == nil || isNull(v) {
		return v, r.plan, nil
	}
	if !v.CanInterface() {
		return reflect.Value{}, nil, newError(KindFieldAccess, e.proj.pair, r.dst.Name, fmt.Errorf("cannot read field %s", r.src.Name))
	}
	out, err := r.transform(v.Interface())
	if err != nil {
		return reflect.Value{}, nil, newError(KindFieldAccess, e.proj.pair, r.dst.Name, err)
	}
	return e.dynamicValue(r, out)
}

// dynamicValue plans a transform or compute result against the destination
// field type. The plan is cached per concrete result type.
func (e *executor) dynamicValue(r *FieldRule, out any) (reflect.Value, *valuePlan, error) {
	v := reflect.ValueOf(out)
	if isNull(v) {
		return v, nil, nil
	}
	pair := TypePair{Source: v.Type(), Destination: r.dst.Type}
	if p, ok := e.dynamic.Load(pair); ok {
		return v, p.(*valuePlan), nil
	}
	p, err := compilePlan(v.Type(), r.dst.Type)
	if err != nil {
		return reflect.Value{}, nil, newError(KindIncompatibleType, e.proj.pair, r.dst.Name,
			fmt.Errorf("value of type %s cannot be stored into %s: %w", v.Type(), r.dst.Type, err))
	}
	actual, _ := e.dynamic.LoadOrStore(pair, p)
	return v, actual.(*valuePlan), nil
}

func (e *executor) store(plan *valuePlan, v, target reflect.Value, writeNull bool) error {
	if isNull(v) {
		return assign(target, reflect.Zero(target.Type()))
	}
	switch plan.kind {
	case planCopy:
		if plan.selfPair && e.opts.Resolver != nil {
			if ex, ok := e.opts.Resolver.Resolve(plan.pair); ok {
				return storeNested(ex, v, target, writeNull)
			}
		}
		return assign(target, v)
	case planConvert:
		return assign(target, v.Convert(target.Type()))
	case planStruct, planPointer:
		ex, err := e.nestedExecutor(plan.pair)
		if err != nil {
			return err
		}
		return storeNested(ex, v, target, writeNull)
	case planSlice:
		n := v.Len()
		out := reflect.MakeSlice(target.Type(), n, n)
		for i := 0; i < n; i++ {
			if err := e.store(plan.elem, v.Index(i), out.Index(i), writeNull); err != nil {
				return withField(err, e.proj.pair, "["+strconv.Itoa(i)+"]")
			}
		}
		return assign(target, out)
	case planMap:
		tt := target.Type()
		out := reflect.MakeMapWithSize(tt, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			k := reflect.New(tt.Key()).Elem()
			if err := e.store(plan.key, iter.Key(), k, true); err != nil {
				return err
			}
			ev := reflect.New(tt.Elem()).Elem()
			if err := e.store(plan.elem, iter.Value(), ev, writeNull); err != nil {
				return withField(err, e.proj.pair, fmt.Sprintf("[%v]", iter.Key()))
			}
			out.SetMapIndex(k, ev)
		}
		return assign(target, out)
	}
	return fmt.Errorf("unknown plan kind %d", plan.kind)
}

func (e *executor) nestedExecutor(pair TypePair) (Executor, error) {
	if e.opts.Resolver != nil {
		if ex, ok := e.opts.Resolver.Resolve(pair); ok {
			return ex, nil
		}
	}
	return nil, newError(KindIncompatibleType, e.proj.pair, "", fmt.Errorf("no projection registered for %s", pair))
}

// storeNested maps v into target through ex. A non-nil destination pointer is
// mapped in place; a nil one gets a fresh value from ex.
func storeNested(ex Executor, v, target reflect.Value, writeNull bool) error {
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if target.Kind() != reflect.Pointer {
		return ex.MapValue(v, target, writeNull)
	}
	if !target.IsNil() {
		return ex.MapValue(v, target.Elem(), writeNull)
	}
	nv, err := ex.NewValue()
	if err != nil {
		return err
	}
	if err := ex.MapValue(v, nv.Elem(), writeNull); err != nil {
		return err
	}
	return assign(target, nv)
}

func assign(target, v reflect.Value) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	target.Set(v)
	return nil
}

func (e *executor) begin() time.Time {
	if e.opts.Observer == nil {
		return time.Time{}
	}
	return time.Now()
}

func (e *executor) observe(mode Mode, start time.Time, err error) {
	if e.opts.Observer == nil {
		return
	}
	e.opts.Observer.ObserveMap(e.proj.pair, mode, time.Since(start), err)
}
