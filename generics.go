package remap

import "fmt"

// Slice and value helpers as top-level functions (methods cannot have extra type parameters).

// MapAll maps every element of src into a new D. A nil element fails the call
// unless the projection has no rules.
func MapAll[S, D any](m *Mapper[S, D], src []*S) ([]*D, error) {
	if src == nil {
		return nil, nil
	}
	out := make([]*D, len(src))
	for i, s := range src {
		d, err := m.Map(s)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = d
	}
	return out, nil
}

// MapValues is MapAll for slices of values.
func MapValues[S, D any](m *Mapper[S, D], src []S) ([]D, error) {
	if src == nil {
		return nil, nil
	}
	out := make([]D, len(src))
	for i := range src {
		d, err := m.Map(&src[i])
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = *d
	}
	return out, nil
}

// Make maps src into a new D and returns it by value.
func Make[S, D any](m *Mapper[S, D], src *S) (D, error) {
	var zero D
	d, err := m.Map(src)
	if err != nil {
		return zero, err
	}
	return *d, nil
}
