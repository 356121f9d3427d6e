package remap

import (
	"fmt"
	"reflect"
)

// Directive configures how a projection is built. Directives are applied in
// order; later declarations for the same destination field are reported as
// ErrDuplicateRule when the projection is compiled.
type Directive func(*directives)

type ruleDecl struct {
	kind      RuleKind
	src, dst  string
	transform ConverterFunc
	compute   computeFunc
	// srcType is the source type a Compute directive was declared for.
	srcType reflect.Type
}

type validatorDecl struct {
	dst string
	fn  ValidatorFunc
}

type directives struct {
	rules      []ruleDecl
	omit       []string
	omitSrc    []string
	omitOthers bool
	writeNull  *bool
	validators []validatorDecl
	collect    string
	expand     string
	// lenient skips same-name fields whose types cannot be mapped instead of
	// reporting them.
	lenient bool
}

func (d *directives) apply(ds []Directive) {
	for _, fn := range ds {
		if fn != nil {
			fn(d)
		}
	}
}

// Reassign maps the source field src onto the destination field dst.
func Reassign(src, dst string) Directive {
	return func(d *directives) {
		d.rules = append(d.rules, ruleDecl{kind: RuleStructural, src: src, dst: dst})
	}
}

// Replace maps src onto dst through fn. fn is not called for null values; the
// null policy applies to them directly. A nil fn behaves like Reassign.
func Replace(src, dst string, fn ConverterFunc) Directive {
	return func(d *directives) {
		d.rules = append(d.rules, ruleDecl{kind: RuleStructural, src: src, dst: dst, transform: fn})
	}
}

// Compute produces dst from the whole source value. fn must not modify src.
func Compute[S any](dst string, fn func(src *S) (any, error)) Directive {
	return func(d *directives) {
		d.rules = append(d.rules, ruleDecl{
			kind:    RuleComputed,
			dst:     dst,
			srcType: reflect.TypeFor[S](),
			compute: func(v reflect.Value) (any, error) {
				return fn(v.Addr().Interface().(*S))
			},
		})
	}
}

// Omit excludes destination fields from the projection.
func Omit(dst ...string) Directive {
	return func(d *directives) { d.omit = append(d.omit, dst...) }
}

// OmitInSource excludes source fields from automatic matching and from the
// collected remainder.
func OmitInSource(src ...string) Directive {
	return func(d *directives) { d.omitSrc = append(d.omitSrc, src...) }
}

// OmitOthers leaves every destination field without a rule untouched instead
// of failing the build.
func OmitOthers() Directive {
	return func(d *directives) { d.omitOthers = true }
}

// WriteNullIfSourceIsNull sets the projection's default null policy.
func WriteNullIfSourceIsNull(v bool) Directive {
	return func(d *directives) { d.writeNull = &v }
}

// Validate runs fn on the value of dst after it has been written.
func Validate(dst string, fn ValidatorFunc) Directive {
	return func(d *directives) { d.validators = append(d.validators, validatorDecl{dst: dst, fn: fn}) }
}

// CollectRemainder gathers every source field no rule consumes into the JSON
// destination field dst (null.JSON or types.JSON), keyed by field name.
func CollectRemainder(dst string) Directive {
	return func(d *directives) { d.collect = dst }
}

// ExpandRemainder fills otherwise unmapped destination fields from the JSON
// object held by the source field src, by field name or json name.
func ExpandRemainder(src string) Directive {
	return func(d *directives) { d.expand = src }
}

// SkipIncompatible treats a same-name source field whose type cannot be mapped
// onto the destination field as absent instead of failing the build. The
// destination field then needs another rule, OmitOthers or ExpandRemainder,
// and the source field stays in the collected remainder.
func SkipIncompatible() Directive {
	return func(d *directives) { d.lenient = true }
}

func (k ruleDecl) String() string {
	if k.kind == RuleComputed {
		return fmt.Sprintf("compute %s", k.dst)
	}
	return fmt.Sprintf("%s -> %s", k.src, k.dst)
}
