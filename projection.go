package remap

import (
	"reflect"
	"slices"
)

// RuleKind tags the two FieldRule variants.
type RuleKind int

const (
	// RuleStructural reads a source field, optionally transforms it, and
	// delegates to a nested projection when the field is a mapped struct type.
	RuleStructural RuleKind = iota
	// RuleComputed produces the value from the whole source value.
	RuleComputed
)

func (k RuleKind) String() string {
	switch k {
	case RuleStructural:
		return "structural"
	case RuleComputed:
		return "computed"
	default:
		return "unknown"
	}
}

// computeFunc receives the addressable source struct value.
type computeFunc func(src reflect.Value) (any, error)

// FieldRule populates one destination field. Rules are owned by a single
// Projection and never change after it is built.
type FieldRule struct {
	kind      RuleKind
	dst       Field
	src       Field
	transform ConverterFunc
	compute   computeFunc
	validate  ValidatorFunc
	// plan is the static value plan of a structural rule without transform.
	plan *valuePlan
}

func (r FieldRule) Kind() RuleKind { return r.kind }

// Destination returns the field this rule writes.
func (r FieldRule) Destination() Field { return r.dst.clone() }

// Source returns the source field of a structural rule.
func (r FieldRule) Source() (Field, bool) {
	if r.kind != RuleStructural {
		return Field{}, false
	}
	return r.src.clone(), true
}

// HasTransform reports whether a structural rule converts its value before writing.
func (r FieldRule) HasTransform() bool { return r.transform != nil }

// Nested reports whether the rule delegates to another projection.
func (r FieldRule) Nested() bool { return r.plan != nil && r.plan.nested() }

func (r FieldRule) String() string {
	if r.kind == RuleComputed {
		return r.dst.Name + " <- computed"
	}
	s := r.dst.Name + " <- " + r.src.Name
	if r.transform != nil {
		s += " (transformed)"
	}
	return s
}

// Projection is the compiled, immutable plan mapping S to D. It is safe for
// concurrent use by any number of mappers.
type Projection struct {
	pair      TypePair
	rules     []FieldRule
	writeNull bool
	nested    []TypePair
}

func (p *Projection) Pair() TypePair            { return p.pair }
func (p *Projection) Source() reflect.Type      { return p.pair.Source }
func (p *Projection) Destination() reflect.Type { return p.pair.Destination }
func (p *Projection) Len() int                  { return len(p.rules) }

// Rules returns the field rules in execution order.
func (p *Projection) Rules() []FieldRule { return slices.Clone(p.rules) }

// WriteNullIfSourceIsNull is the null policy used when a call does not pass one.
func (p *Projection) WriteNullIfSourceIsNull() bool { return p.writeNull }

// NestedPairs lists the struct pairs this projection delegates to.
func (p *Projection) NestedPairs() []TypePair { return slices.Clone(p.nested) }

// Rule returns the rule writing the named destination field.
func (p *Projection) Rule(dstField string) (FieldRule, bool) {
	for _, r := range p.rules {
		if r.dst.Name == dstField {
			return r, true
		}
	}
	return FieldRule{}, false
}
