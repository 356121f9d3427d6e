package remap

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Registry is a Resolver holding the executors of registered type pairs. With
// auto-mapping enabled, unknown struct pairs get a default projection matched
// by field name, compiled once per pair. Safe for concurrent use.
type Registry struct {
	executors sync.Map // TypePair -> Executor
	misses    sync.Map // TypePair -> struct{}, pairs auto-mapping gave up on
	group     singleflight.Group
	autoMap   bool
	opts      []Option
	logger    *slog.Logger
}

type RegistryOption func(*Registry)

// WithAutoMapping enables default projections for unregistered pairs.
func WithAutoMapping(v bool) RegistryOption { return func(r *Registry) { r.autoMap = v } }

// WithMapperOptions sets the options auto-mapped projections are built with.
func WithMapperOptions(opts ...Option) RegistryOption {
	return func(r *Registry) { r.opts = append(r.opts, opts...) }
}

func WithRegistryLogger(l *slog.Logger) RegistryOption { return func(r *Registry) { r.logger = l } }

func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{}
	for _, fn := range opts {
		fn(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Register adds ex under its pair, replacing any previous executor.
func (r *Registry) Register(ex Executor) {
	pair := ex.Pair()
	r.executors.Store(pair, ex)
	r.misses.Delete(pair)
	r.logger.Debug("projection registered", "pair", pair.String(), "rules", ex.Projection().Len())
}

// Register builds b with r as its Resolver and registers the result.
func Register[S, D any](r *Registry, b *Builder[S, D]) (*Mapper[S, D], error) {
	m, err := b.build(WithResolver(r))
	if err != nil {
		return nil, err
	}
	r.Register(m)
	return m, nil
}

// Lookup returns the mapper for (S, D), auto-mapping it when enabled.
func Lookup[S, D any](r *Registry) (*Mapper[S, D], bool) {
	ex, ok := r.Resolve(PairOf[S, D]())
	if !ok {
		return nil, false
	}
	switch m := ex.(type) {
	case *Mapper[S, D]:
		return m, true
	case *executor:
		return &Mapper[S, D]{exec: m}, true
	}
	return nil, false
}

func (r *Registry) Resolve(pair TypePair) (Executor, bool) {
	if ex, ok := r.executors.Load(pair); ok {
		return ex.(Executor), true
	}
	// Identity pairs are only mapped when registered; assignable values are copied.
	if !r.autoMap || pair.Source == pair.Destination {
		return nil, false
	}
	if _, miss := r.misses.Load(pair); miss {
		return nil, false
	}
	v, _, _ := r.group.Do(pair.key(), func() (any, error) {
		if ex, ok := r.executors.Load(pair); ok {
			return ex, nil
		}
		ex, err := r.compileAuto(pair)
		if err != nil {
			r.misses.Store(pair, struct{}{})
			r.logger.Debug("auto-mapping skipped", "pair", pair.String(), "error", err)
			return nil, nil
		}
		actual, _ := r.executors.LoadOrStore(pair, ex)
		r.logger.Debug("projection auto-mapped", "pair", pair.String(), "rules", ex.proj.Len())
		return actual, nil
	})
	ex, ok := v.(Executor)
	return ex, ok
}

func (r *Registry) compileAuto(pair TypePair) (*executor, error) {
	d := &directives{}
	d.apply([]Directive{OmitOthers(), SkipIncompatible()})
	o := buildOptions(append(slices.Clone(r.opts), WithResolver(r)))
	proj, err := compileProjection(pair, d, o)
	if err != nil {
		return nil, err
	}
	if proj.Len() == 0 {
		return nil, errors.New("no fields in common")
	}
	return newExecutor(proj, o), nil
}

// Validate checks that every nested pair of every registered projection
// resolves.
func (r *Registry) Validate() error {
	var executors []Executor
	r.executors.Range(func(_, v any) bool {
		executors = append(executors, v.(Executor))
		return true
	})
	slices.SortFunc(executors, func(a, b Executor) int {
		return strings.Compare(a.Pair().key(), b.Pair().key())
	})
	var errs []error
	for _, ex := range executors {
		for _, np := range ex.Projection().NestedPairs() {
			if _, ok := r.Resolve(np); !ok {
				errs = append(errs, newError(KindIncompatibleType, ex.Pair(), "", fmt.Errorf("nested %s is not registered", np)))
			}
		}
	}
	return errors.Join(errs...)
}

// Pairs returns the pairs currently registered, auto-mapped ones included.
func (r *Registry) Pairs() []TypePair {
	var out []TypePair
	r.executors.Range(func(k, _ any) bool {
		out = append(out, k.(TypePair))
		return true
	})
	slices.SortFunc(out, func(a, b TypePair) int { return strings.Compare(a.key(), b.key()) })
	return out
}
