package planfile

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/Station-Manager/remap"
	"github.com/Station-Manager/remap/converters"
)

// ErrUnknownConverter is returned when a replacement names a converter that
// is not in the supplied set.
var ErrUnknownConverter = errors.New("unknown converter")

// Converters resolves converter names used in replace entries.
type Converters map[string]converters.Func

// DefaultConverters returns the built-in converters by name.
func DefaultConverters() Converters { return converters.Named() }

// Directives translates m into builder directives. Every error is reported,
// not just the first.
func (m *Mapping) Directives(conv Converters) ([]remap.Directive, error) {
	var (
		ds   []remap.Directive
		errs []error
	)
	if m.WriteNullIfSourceIsNull != nil {
		ds = append(ds, remap.WriteNullIfSourceIsNull(*m.WriteNullIfSourceIsNull))
	}
	for _, p := range m.Reassign {
		ds = append(ds, remap.Reassign(p.From, p.To))
	}
	for _, r := range m.Replace {
		fn, ok := conv[r.Converter]
		if !ok || fn == nil {
			errs = append(errs, fmt.Errorf("mapping %s: replace %s -> %s: %w %q", m.Name, r.From, r.To, ErrUnknownConverter, r.Converter))
			continue
		}
		ds = append(ds, remap.Replace(r.From, r.To, fn))
	}
	if len(m.Omit) > 0 {
		ds = append(ds, remap.Omit(m.Omit...))
	}
	if len(m.OmitInSource) > 0 {
		ds = append(ds, remap.OmitInSource(m.OmitInSource...))
	}
	if m.CollectRemainder != "" {
		ds = append(ds, remap.CollectRemainder(m.CollectRemainder))
	}
	if m.ExpandRemainder != "" {
		ds = append(ds, remap.ExpandRemainder(m.ExpandRemainder))
	}
	if m.OmitOthers {
		ds = append(ds, remap.OmitOthers())
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return ds, nil
}

// Builder returns a remap builder for S and D configured from m. S and D must
// match the source and destination names, either bare ("Person") or package
// qualified ("models.Person").
func Builder[S, D any](m *Mapping, conv Converters, opts ...remap.Option) (*remap.Builder[S, D], error) {
	if err := checkType[S](m.Name, "source", m.Source); err != nil {
		return nil, err
	}
	if err := checkType[D](m.Name, "destination", m.Destination); err != nil {
		return nil, err
	}
	ds, err := m.Directives(conv)
	if err != nil {
		return nil, err
	}
	return remap.NewBuilder[S, D](opts...).Apply(ds...), nil
}

// Build compiles m into a mapper for S and D.
func Build[S, D any](m *Mapping, conv Converters, opts ...remap.Option) (*remap.Mapper[S, D], error) {
	b, err := Builder[S, D](m, conv, opts...)
	if err != nil {
		return nil, err
	}
	return b.Build()
}

// Register compiles m and registers the mapper with r.
func Register[S, D any](r *remap.Registry, m *Mapping, conv Converters) (*remap.Mapper[S, D], error) {
	b, err := Builder[S, D](m, conv)
	if err != nil {
		return nil, err
	}
	return remap.Register(r, b)
}

func checkType[T any](mapping, role, want string) error {
	t := reflect.TypeFor[T]()
	if t.Name() == want || t.String() == want {
		return nil
	}
	return fmt.Errorf("mapping %s: %s is %s, plan declares %s", mapping, role, t, want)
}
