package contract

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"typecontract/converter"
	"typecontract/discover"
	"typecontract/naming"
	"typecontract/polymorph"
)

const instrumentationName = "typecontract"

// Options is the serializer configuration: it owns the naming policy, the
// converter and polymorphism registries, the descriptor provider and the
// contract cache. Options must be built with NewOptions.
type Options struct {
	policy         naming.Policy
	converters     *converter.Registry
	polymorphism   *polymorph.Registry
	provider       *discover.Overlay
	logger         *slog.Logger
	tracer         trace.Tracer
	numberHandling converter.NumberHandling
	unmapped       UnmappedMemberHandling

	base  discover.Provider
	steps []func(*Options) error

	cache Cache
}

// Option configures Options.
type Option func(*Options) error

// NewOptions applies opts over the defaults: identity naming, built-in
// converters, reflection-based discovery and slog.Default as the logger.
func NewOptions(opts ...Option) (*Options, error) {
	o := &Options{
		converters:   converter.NewRegistry(),
		polymorphism: polymorph.NewRegistry(),
		base:         discover.NewReflect(),
		logger:       slog.Default().With("component", "typecontract"),
		tracer:       otel.Tracer(instrumentationName),
	}

	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	o.provider = discover.NewOverlay(o.base)

	// steps that need the final provider
	for _, step := range o.steps {
		if err := step(o); err != nil {
			return nil, err
		}
	}

	o.steps = nil

	return o, nil
}

// MustOptions is like NewOptions but panics on error.
func MustOptions(opts ...Option) *Options {
	o, err := NewOptions(opts...)
	if err != nil {
		panic(err)
	}

	return o
}

// WithNamingPolicy sets the policy computing default wire names.
func WithNamingPolicy(p naming.Policy) Option {
	return func(o *Options) error {
		o.policy = p
		return nil
	}
}

// WithConverters replaces the converter registry.
func WithConverters(r *converter.Registry) Option {
	return func(o *Options) error {
		if r == nil {
			return fmt.Errorf("converter registry is nil")
		}

		o.converters = r

		return nil
	}
}

// WithPolymorphism registers the polymorphic configuration of cfg.Base.
func WithPolymorphism(cfg polymorph.Config) Option {
	return func(o *Options) error {
		return o.polymorphism.Register(cfg)
	}
}

// WithProvider replaces the reflection-based descriptor provider.
func WithProvider(p discover.Provider) Option {
	return func(o *Options) error {
		if p == nil {
			return fmt.Errorf("descriptor provider is nil")
		}

		o.base = p

		return nil
	}
}

// WithLogger sets the logger configure passes report to.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) error {
		if l != nil {
			o.logger = l
		}

		return nil
	}
}

// WithTracerProvider sets where configure-pass spans go. The global
// provider is used by default.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *Options) error {
		if tp != nil {
			o.tracer = tp.Tracer(instrumentationName)
		}

		return nil
	}
}

// WithConstructor registers fn as the constructor of the type it returns.
func WithConstructor(fn any, params ...discover.ParamSpec) Option {
	return func(o *Options) error {
		ctor, err := discover.ParseConstructor(fn, params...)
		if err != nil {
			return err
		}

		o.steps = append(o.steps, func(o *Options) error {
			o.provider.SetConstructor(ctor)
			return nil
		})

		return nil
	}
}

// WithMemberPatch overrides the discovered effect of member (the Go field
// name) of t.
func WithMemberPatch(t reflect.Type, member string, p discover.Patch) Option {
	return func(o *Options) error {
		o.steps = append(o.steps, func(o *Options) error {
			o.provider.Patch(t, member, p)
			return nil
		})

		return nil
	}
}

// WithNumberHandling sets the number handling every contract starts with.
func WithNumberHandling(h converter.NumberHandling) Option {
	return func(o *Options) error {
		o.numberHandling = h
		return nil
	}
}

// WithUnmappedMemberHandling sets the unmapped member handling every
// contract starts with.
func WithUnmappedMemberHandling(h UnmappedMemberHandling) Option {
	return func(o *Options) error {
		o.unmapped = h
		return nil
	}
}

// Converters returns the converter registry.
func (o *Options) Converters() *converter.Registry { return o.converters }

// Policy returns the naming policy; nil keeps member names.
func (o *Options) Policy() naming.Policy { return o.policy }

// Logger returns the configured logger.
func (o *Options) Logger() *slog.Logger { return o.logger }

// Cache returns the contract cache.
func (o *Options) Cache() *Cache { return &o.cache }

// Contract returns the cached contract of t, creating it unconfigured if
// needed. *T and T share one contract.
func (o *Options) Contract(t reflect.Type) (*Contract, error) {
	t = normalize(t)

	if c, ok := o.cache.load(t); ok {
		return c, nil
	}

	c, err := newContract(o, t)
	if err != nil {
		return nil, err
	}

	c, _ = o.cache.loadOrStore(c)

	return c, nil
}

// For returns the contract of T.
func For[T any](o *Options) (*Contract, error) {
	return o.Contract(reflect.TypeFor[T]())
}

// Warm configures the contracts of types concurrently and returns the first
// failure.
func (o *Options) Warm(ctx context.Context, types ...reflect.Type) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, t := range types {
		g.Go(func() error {
			c, err := o.Contract(t)
			if err != nil {
				return err
			}

			return c.EnsureConfiguredContext(ctx)
		})
	}

	return g.Wait()
}

func normalize(t reflect.Type) reflect.Type {
	if t != nil && t.Kind() == reflect.Pointer && t.Elem().Kind() != reflect.Pointer {
		return t.Elem()
	}

	return t
}
