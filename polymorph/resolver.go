package polymorph

import (
	"fmt"
	"reflect"

	"typecontract/contracterr"
	"typecontract/internal/match"
)

// Resolver answers discriminator questions for one validated Config.
type Resolver struct {
	base        reflect.Type
	property    string
	derived     []DerivedType
	byType      map[reflect.Type]string
	byDisc      map[string]reflect.Type
	unknownType UnknownTypeHandling
	unknownDisc UnknownTypeHandling
}

// New validates cfg and builds its resolver.
//
// The base must be an interface, every derived type must be a struct
// implementing it (by value or by pointer), and both derived types and discriminators must be
// unique. Falling back to the base for unknown discriminators requires an
// empty-interface base, since nothing else can be instantiated.
func New(cfg Config) (*Resolver, error) {
	if cfg.Base == nil {
		return nil, invalid("<nil>", "base type is required")
	}

	name := cfg.Base.String()

	if cfg.Base.Kind() != reflect.Interface {
		return nil, invalid(name, "base type must be an interface")
	}

	if len(cfg.Derived) == 0 {
		return nil, invalid(name, "no derived types")
	}

	if cfg.UnknownDiscriminator == FallBackToBase && cfg.Base.NumMethod() != 0 {
		return nil, invalid(name, "falling back to a non-empty interface base cannot be decoded")
	}

	r := &Resolver{
		base:        cfg.Base,
		property:    cfg.DiscriminatorProperty,
		derived:     make([]DerivedType, 0, len(cfg.Derived)),
		byType:      make(map[reflect.Type]string, len(cfg.Derived)),
		byDisc:      make(map[string]reflect.Type, len(cfg.Derived)),
		unknownType: cfg.UnknownDerivedType,
		unknownDisc: cfg.UnknownDiscriminator,
	}
	if r.property == "" {
		r.property = DefaultDiscriminatorProperty
	}

	for _, d := range cfg.Derived {
		switch {
		case d.Type == nil:
			return nil, invalid(name, "derived type is nil")
		case d.Type == cfg.Base:
			return nil, invalid(name, "base type listed as derived")
		case d.Type.Kind() != reflect.Struct:
			return nil, invalid(name, fmt.Sprintf("derived type %s is not a struct", d.Type))
		case !d.Type.Implements(cfg.Base) && !reflect.PointerTo(d.Type).Implements(cfg.Base):
			return nil, invalid(name, fmt.Sprintf("%s does not implement the base type", d.Type))
		case d.Discriminator == "":
			return nil, invalid(name, fmt.Sprintf("empty discriminator for %s", d.Type))
		}

		if _, dup := r.byType[d.Type]; dup {
			return nil, invalid(name, fmt.Sprintf("derived type %s listed twice", d.Type))
		}

		if prev, dup := r.byDisc[d.Discriminator]; dup {
			return nil, invalid(name, fmt.Sprintf("discriminator %q used by %s and %s", d.Discriminator, prev, d.Type))
		}

		r.byType[d.Type] = d.Discriminator
		r.byDisc[d.Discriminator] = d.Type
		r.derived = append(r.derived, d)
	}

	return r, nil
}

func invalid(typeName, detail string) error {
	return contracterr.New(contracterr.InvalidPolymorphismConfiguration, typeName, "", detail)
}

// Base returns the base interface type.
func (r *Resolver) Base() reflect.Type { return r.base }

// Property returns the discriminator wire name.
func (r *Resolver) Property() string { return r.property }

// Derived returns the derived types in configuration order.
func (r *Resolver) Derived() []DerivedType {
	return append([]DerivedType(nil), r.derived...)
}

// Discriminator returns the discriminator to write for a value whose dynamic
// type is t. A pointer to a registered type resolves like the type itself.
// ok is false when the type is unknown and the policy falls back to the base,
// in which case no discriminator is written.
func (r *Resolver) Discriminator(t reflect.Type) (disc string, ok bool, err error) {
	if d, found := r.byType[t]; found {
		return d, true, nil
	}

	if t != nil && t.Kind() == reflect.Pointer {
		if d, found := r.byType[t.Elem()]; found {
			return d, true, nil
		}
	}

	if r.unknownType == FallBackToBase {
		return "", false, nil
	}

	return "", false, contracterr.New(contracterr.UnknownRuntimeTypeForEncoding, r.base.String(), "",
		fmt.Sprintf("runtime type %v is not a registered derived type", t))
}

// Resolve returns the concrete type registered for disc, or the base type
// when the discriminator is unknown and the policy falls back to it.
func (r *Resolver) Resolve(disc string) (reflect.Type, error) {
	if t, found := r.byDisc[disc]; found {
		return t, nil
	}

	if r.unknownDisc == FallBackToBase {
		return r.base, nil
	}

	detail := fmt.Sprintf("discriminator %q", disc)
	if s, ok := match.Suggest(disc, r.discriminators()); ok {
		detail += fmt.Sprintf(", did you mean %q?", s)
	}

	return nil, contracterr.New(contracterr.UnknownPolymorphicDiscriminator, r.base.String(), "", detail)
}

func (r *Resolver) discriminators() []string {
	out := make([]string, len(r.derived))
	for i, d := range r.derived {
		out[i] = d.Discriminator
	}

	return out
}
