package remap

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
)

// Builder collects directives and options for a Mapper from S to D.
type Builder[S, D any] struct {
	opts []Option
	d    directives
}

// NewBuilder creates a builder for the pair (S, D).
func NewBuilder[S, D any](opts ...Option) *Builder[S, D] {
	return &Builder[S, D]{opts: opts}
}

// New builds a Mapper from S to D using automatic name matching only.
func New[S, D any](opts ...Option) (*Mapper[S, D], error) {
	return NewBuilder[S, D](opts...).Build()
}

// WithOptions appends mapper options to the builder.
func (b *Builder[S, D]) WithOptions(opts ...Option) *Builder[S, D] {
	b.opts = append(b.opts, opts...)
	return b
}

// Apply adds directives in order.
func (b *Builder[S, D]) Apply(ds ...Directive) *Builder[S, D] {
	b.d.apply(ds)
	return b
}

func (b *Builder[S, D]) Reassign(src, dst string) *Builder[S, D] { return b.Apply(Reassign(src, dst)) }

func (b *Builder[S, D]) Replace(src, dst string, fn ConverterFunc) *Builder[S, D] {
	return b.Apply(Replace(src, dst, fn))
}

// Compute produces dst from the whole source value.
func (b *Builder[S, D]) Compute(dst string, fn func(src *S) (any, error)) *Builder[S, D] {
	return b.Apply(Compute(dst, fn))
}

func (b *Builder[S, D]) Omit(dst ...string) *Builder[S, D]         { return b.Apply(Omit(dst...)) }
func (b *Builder[S, D]) OmitInSource(src ...string) *Builder[S, D] { return b.Apply(OmitInSource(src...)) }
func (b *Builder[S, D]) OmitOthers() *Builder[S, D]                { return b.Apply(OmitOthers()) }
func (b *Builder[S, D]) SkipIncompatible() *Builder[S, D]          { return b.Apply(SkipIncompatible()) }

func (b *Builder[S, D]) WriteNullIfSourceIsNull(v bool) *Builder[S, D] {
	return b.Apply(WriteNullIfSourceIsNull(v))
}

func (b *Builder[S, D]) Validate(dst string, fn ValidatorFunc) *Builder[S, D] {
	return b.Apply(Validate(dst, fn))
}

func (b *Builder[S, D]) CollectRemainder(dst string) *Builder[S, D] {
	return b.Apply(CollectRemainder(dst))
}

func (b *Builder[S, D]) ExpandRemainder(src string) *Builder[S, D] {
	return b.Apply(ExpandRemainder(src))
}

// Build compiles the projection. Every problem found is reported in one
// joined error; each part is an *Error.
func (b *Builder[S, D]) Build() (*Mapper[S, D], error) { return b.build() }

func (b *Builder[S, D]) build(extra ...Option) (*Mapper[S, D], error) {
	o := buildOptions(append(slices.Clone(b.opts), extra...))
	proj, err := compileProjection(PairOf[S, D](), &b.d, o)
	if err != nil {
		return nil, err
	}
	return &Mapper[S, D]{exec: newExecutor(proj, o)}, nil
}

type compiler struct {
	pair    TypePair
	d       *directives
	o       Options
	srcMeta *structMetadata
	dstMeta *structMetadata

	rules      map[string]FieldRule // by destination field name
	consumed   map[string]bool      // source fields read by a rule
	omitted    map[string]bool
	omittedSrc map[string]bool
	errs       []error
}

func compileProjection(pair TypePair, d *directives, o Options) (*Projection, error) {
	if pair.Source.Kind() != reflect.Struct || pair.Destination.Kind() != reflect.Struct {
		return nil, newError(KindIncompatibleType, pair, "", errors.New("source and destination must be struct types"))
	}
	dd := *d
	c := &compiler{
		pair:       pair,
		d:          &dd,
		o:          o,
		srcMeta:    typeMetadata(pair.Source),
		dstMeta:    typeMetadata(pair.Destination),
		rules:      make(map[string]FieldRule),
		consumed:   make(map[string]bool),
		omitted:    make(map[string]bool, len(d.omit)),
		omittedSrc: make(map[string]bool, len(d.omitSrc)),
	}
	c.checkNames()
	c.explicitRules()
	c.autoRules()
	c.remainderRule()
	c.validators()
	proj := c.projection()
	if len(c.errs) > 0 {
		return nil, errors.Join(c.errs...)
	}
	o.Logger.Debug("projection compiled", "pair", pair.String(), "rules", len(proj.rules), "nested", len(proj.nested))
	return proj, nil
}

func (c *compiler) fail(kind ErrorKind, field string, cause error) {
	c.errs = append(c.errs, newError(kind, c.pair, field, cause))
}

func (c *compiler) checkNames() {
	for _, name := range c.d.omit {
		f, ok := c.dstMeta.lookup(name)
		if !ok {
			c.fail(KindUnknownField, name, fmt.Errorf("no destination field %q to omit", name))
			continue
		}
		c.omitted[f.Name] = true
	}
	for _, name := range c.d.omitSrc {
		f, ok := c.srcMeta.lookup(name)
		if !ok {
			c.fail(KindUnknownField, name, fmt.Errorf("no source field %q to omit", name))
			continue
		}
		c.omittedSrc[f.Name] = true
	}
	if c.d.collect != "" {
		f, ok := c.dstMeta.lookup(c.d.collect)
		switch {
		case !ok:
			c.fail(KindUnknownField, c.d.collect, fmt.Errorf("no destination field %q to collect into", c.d.collect))
			c.d.collect = ""
		case f.Type != nullJSONType && f.Type != boilerJSONType:
			c.fail(KindIncompatibleType, f.Name, fmt.Errorf("remainder target must be null.JSON or types.JSON, not %s", f.Type))
			c.d.collect = ""
		default:
			c.d.collect = f.Name
		}
	}
	if c.d.expand != "" {
		f, ok := c.srcMeta.lookup(c.d.expand)
		switch {
		case !ok:
			c.fail(KindUnknownField, c.d.expand, fmt.Errorf("no source field %q to expand", c.d.expand))
			c.d.expand = ""
		case !isJSONCarrier(f.Type):
			c.fail(KindIncompatibleType, f.Name, fmt.Errorf("remainder source must hold JSON, not %s", f.Type))
			c.d.expand = ""
		default:
			c.d.expand = f.Name
		}
	}
}

func (c *compiler) explicitRules() {
	for _, decl := range c.d.rules {
		df, ok := c.dstMeta.lookup(decl.dst)
		if !ok {
			c.fail(KindUnknownField, decl.dst, fmt.Errorf("no destination field %q", decl.dst))
			continue
		}
		if _, dup := c.rules[df.Name]; dup || c.omitted[df.Name] || df.Name == c.d.collect {
			c.fail(KindDuplicateRule, df.Name, fmt.Errorf("%s conflicts with an earlier directive", decl))
			continue
		}
		switch decl.kind {
		case RuleComputed:
			if decl.srcType != c.pair.Source {
				c.fail(KindIncompatibleType, df.Name, fmt.Errorf("compute declared for %s", decl.srcType))
				continue
			}
			c.rules[df.Name] = FieldRule{kind: RuleComputed, dst: *df, compute: decl.compute}
		default:
			sf, ok := c.srcMeta.lookup(decl.src)
			if !ok {
				c.fail(KindUnknownField, decl.src, fmt.Errorf("no source field %q", decl.src))
				continue
			}
			rule := FieldRule{kind: RuleStructural, dst: *df, src: *sf, transform: decl.transform}
			if decl.transform == nil {
				plan, err := compilePlan(sf.Type, df.Type)
				if err != nil {
					c.fail(KindIncompatibleType, df.Name, err)
					continue
				}
				rule.plan = plan
			}
			c.rules[df.Name] = rule
			c.consumed[sf.Name] = true
		}
	}
}

// autoRules matches the remaining destination fields by name, then by json
// name. Unmatched fields are expanded from the remainder when configured.
func (c *compiler) autoRules() {
	var expandFrom *Field
	if c.d.expand != "" {
		expandFrom = c.srcMeta.fieldsByName[c.d.expand]
	}
	for _, df := range c.dstMeta.fields {
		if _, done := c.rules[df.Name]; done || c.omitted[df.Name] || df.Ignored || df.Name == c.d.collect {
			continue
		}
		if sf, ok := c.match(df); ok {
			plan, err := compilePlan(sf.Type, df.Type)
			if err == nil {
				c.rules[df.Name] = FieldRule{kind: RuleStructural, dst: df, src: *sf, plan: plan}
				c.consumed[sf.Name] = true
				continue
			}
			if !c.d.lenient {
				c.fail(KindIncompatibleType, df.Name, err)
				continue
			}
		}
		switch {
		case expandFrom != nil:
			c.rules[df.Name] = expandRule(df, *expandFrom, c.o)
		case c.d.omitOthers:
		default:
			c.fail(KindUnmappedField, df.Name, errors.New("no rule and no source field of the same name"))
		}
	}
}

func (c *compiler) match(df Field) (*Field, bool) {
	sf, ok := c.srcMeta.fieldsByName[df.Name]
	if !ok && df.JSONName != "" {
		sf, ok = c.srcMeta.fieldsByJSONName[df.JSONName]
	}
	if !ok || sf.Ignored || c.omittedSrc[sf.Name] || sf.Name == c.d.expand {
		return nil, false
	}
	return sf, true
}

func (c *compiler) remainderRule() {
	if c.d.collect == "" {
		return
	}
	var rest []Field
	for _, sf := range c.srcMeta.fields {
		if c.consumed[sf.Name] || sf.Ignored || c.omittedSrc[sf.Name] || sf.Name == c.d.expand || sf.Name == c.d.collect {
			continue
		}
		rest = append(rest, sf)
	}
	df := c.dstMeta.fieldsByName[c.d.collect]
	c.rules[df.Name] = collectRule(*df, rest, c.o)
}

func (c *compiler) validators() {
	for _, v := range c.d.validators {
		df, ok := c.dstMeta.lookup(v.dst)
		if !ok {
			c.fail(KindUnknownField, v.dst, fmt.Errorf("no destination field %q to validate", v.dst))
			continue
		}
		rule, ok := c.rules[df.Name]
		if !ok {
			c.fail(KindUnknownField, df.Name, errors.New("validated field has no rule"))
			continue
		}
		rule.validate = chainValidators(rule.validate, v.fn)
		c.rules[df.Name] = rule
	}
}

// projection orders the rules by destination field declaration order.
func (c *compiler) projection() *Projection {
	proj := &Projection{pair: c.pair, writeNull: c.d.writeNull != nil && *c.d.writeNull}
	proj.rules = make([]FieldRule, 0, len(c.rules))
	seen := make(map[TypePair]bool)
	for _, df := range c.dstMeta.fields {
		rule, ok := c.rules[df.Name]
		if !ok {
			continue
		}
		proj.rules = append(proj.rules, rule)
		if rule.plan == nil || !rule.plan.nested() {
			continue
		}
		if c.o.Resolver == nil {
			c.fail(KindIncompatibleType, df.Name, fmt.Errorf("nested %s needs a Resolver", rule.plan.nestedPairs(nil)[0]))
			continue
		}
		for _, np := range rule.plan.nestedPairs(nil) {
			if !seen[np] {
				seen[np] = true
				proj.nested = append(proj.nested, np)
			}
		}
	}
	return proj
}

func chainValidators(a, b ValidatorFunc) ValidatorFunc {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(v any) error {
		if err := a(v); err != nil {
			return err
		}
		return b(v)
	}
}
