package polymorph

import (
	"fmt"
	"reflect"
	"sync"

	"typecontract/contracterr"
)

// DefaultDiscriminatorProperty is the wire name used when a Config leaves
// DiscriminatorProperty empty.
const DefaultDiscriminatorProperty = "$type"

// UnknownTypeHandling selects what happens when a runtime type or a
// discriminator is not part of the configuration.
type UnknownTypeHandling int

const (
	// FailOnUnknown reports UnknownRuntimeTypeForEncoding or
	// UnknownPolymorphicDiscriminator.
	FailOnUnknown UnknownTypeHandling = iota
	// FallBackToBase encodes the value without a discriminator, or decodes
	// it as the base type.
	FallBackToBase
)

// DerivedType associates a concrete type with its discriminator.
type DerivedType struct {
	Type          reflect.Type
	Discriminator string
}

// Config is the polymorphic configuration of one base type.
type Config struct {
	Base                  reflect.Type
	DiscriminatorProperty string
	Derived               []DerivedType
	UnknownDerivedType    UnknownTypeHandling
	UnknownDiscriminator  UnknownTypeHandling
}

// Derive is a small helper to build DerivedType entries.
func Derive[T any](discriminator string) DerivedType {
	return DerivedType{Type: reflect.TypeFor[T](), Discriminator: discriminator}
}

// Source tells where a configuration came from.
type Source int

const (
	SourceNone Source = iota
	SourceRegistration
	SourceDeclaration
)

// Registry holds explicit polymorphism registrations, at most one per base
// type. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	configs map[reflect.Type]Config
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{configs: make(map[reflect.Type]Config)}
}

// Register validates cfg and adds it for cfg.Base. A base may only be
// registered once.
func (r *Registry) Register(cfg Config) error {
	if _, err := New(cfg); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.configs[cfg.Base]; exists {
		return contracterr.New(contracterr.InvalidPolymorphismConfiguration, cfg.Base.String(), "",
			"base type is already registered")
	}

	r.configs[cfg.Base] = cfg

	return nil
}

// Lookup returns the configuration registered for base.
func (r *Registry) Lookup(base reflect.Type) (Config, bool) {
	if r == nil {
		return Config{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, ok := r.configs[base]
	return cfg, ok
}

var declared = NewRegistry()

// Declare records cfg process-wide. Like gob.Register it is meant to be
// called from init and panics on an invalid or repeated declaration.
func Declare(cfg Config) {
	if err := declared.Register(cfg); err != nil {
		panic(fmt.Sprintf("polymorph: %v", err))
	}
}

// Find returns the configuration for base: the explicit registry first,
// then process-wide declarations.
func Find(explicit *Registry, base reflect.Type) (Config, Source) {
	if cfg, ok := explicit.Lookup(base); ok {
		return cfg, SourceRegistration
	}

	if cfg, ok := declared.Lookup(base); ok {
		return cfg, SourceDeclaration
	}

	return Config{}, SourceNone
}
