package remap

import "log/slog"

// Options configures the collaborators a Mapper runs with.
type Options struct {
	Resolver          Resolver      // resolves nested type pairs; nil disables nested mapping
	Accessor          FieldAccessor // reads and writes struct fields
	Instantiator      Instantiator  // creates destinations in create mode and for nil nested pointers
	Logger            *slog.Logger  // debug output on compile; nil means slog.Default()
	Observer          Observer      // notified after every top-level map call
	IncludeZeroValues bool          // when true, CollectRemainder also collects zero-valued fields
}

type Option func(*Options)

func WithResolver(r Resolver) Option           { return func(o *Options) { o.Resolver = r } }
func WithFieldAccessor(a FieldAccessor) Option { return func(o *Options) { o.Accessor = a } }
func WithInstantiator(i Instantiator) Option   { return func(o *Options) { o.Instantiator = i } }
func WithLogger(l *slog.Logger) Option         { return func(o *Options) { o.Logger = l } }
func WithObserver(obs Observer) Option         { return func(o *Options) { o.Observer = obs } }
func WithIncludeZeroValues(v bool) Option      { return func(o *Options) { o.IncludeZeroValues = v } }

func buildOptions(opts []Option) Options {
	o := Options{}
	for _, f := range opts {
		f(&o)
	}
	if o.Accessor == nil {
		o.Accessor = ReflectAccessor{}
	}
	if o.Instantiator == nil {
		o.Instantiator = zeroInstantiator{}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}
