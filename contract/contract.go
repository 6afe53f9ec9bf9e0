package contract

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"typecontract/contracterr"
	"typecontract/converter"
	"typecontract/discover"
	"typecontract/polymorph"
	"typecontract/resolve"
)

// Contract is the serialization contract of one type.
//
// Identity, strategy and kind are fixed at creation. Everything else is
// resolved by the configure pass and published as one immutable snapshot;
// before that, the setters stage changes the pass will pick up.
type Contract struct {
	opts *Options
	typ  reflect.Type
	res  converter.Resolution
	kind Kind

	mu      sync.Mutex // guards staged and the configure pass
	staged  staged
	current atomic.Pointer[snapshot] // non-nil once configured

	elem atomic.Pointer[Contract]
	key  atomic.Pointer[Contract]
}

// staged holds contract-level settings made before configuration.
type staged struct {
	numberHandling converter.NumberHandling
	unmapped       UnmappedMemberHandling
	extra          []resolve.Member[reflect.Type]
	ctor           *discover.Constructor
	polymorphism   *polymorph.Config
}

// snapshot is the configured state of a contract.
type snapshot struct {
	properties     []*Property
	byWire         map[string]*Property
	extension      *Property
	parameters     []*Parameter
	ctor           *discover.Constructor
	polymorphism   *polymorph.Resolver
	numberHandling converter.NumberHandling
	unmapped       UnmappedMemberHandling
}

func newContract(o *Options, t reflect.Type) (*Contract, error) {
	res, err := o.converters.Resolve(t)
	if err != nil {
		return nil, err
	}

	c := &Contract{
		opts: o,
		typ:  t,
		res:  res,
		kind: kindOf(res.Strategy),
		staged: staged{
			numberHandling: o.numberHandling,
			unmapped:       o.unmapped,
		},
	}

	if t.Kind() == reflect.Interface && t.NumMethod() == 0 {
		c.kind = KindNone
	}

	return c, nil
}

// Type returns the type the contract describes.
func (c *Contract) Type() reflect.Type { return c.typ }

// Strategy returns the strategy of the converter responsible for the type.
func (c *Contract) Strategy() converter.Strategy { return c.res.Strategy }

// Converter returns the converter responsible for the type.
func (c *Contract) Converter() converter.Converter { return c.res.Converter }

// Kind returns the coarse shape of the type.
func (c *Contract) Kind() Kind { return c.kind }

// Options returns the options that own the contract.
func (c *Contract) Options() *Options { return c.opts }

// IsConfigured reports whether the configure pass has completed. Once true
// it stays true.
func (c *Contract) IsConfigured() bool { return c.current.Load() != nil }

func (c *Contract) configured() (*snapshot, error) {
	if s := c.current.Load(); s != nil {
		return s, nil
	}

	if err := c.EnsureConfigured(); err != nil {
		return nil, err
	}

	return c.current.Load(), nil
}

// Properties returns the active properties in wire order.
func (c *Contract) Properties() ([]*Property, error) {
	s, err := c.configured()
	if err != nil {
		return nil, err
	}

	return append([]*Property(nil), s.properties...), nil
}

// Property looks a property up by its exact wire name.
func (c *Contract) Property(wireName string) (*Property, bool, error) {
	s, err := c.configured()
	if err != nil {
		return nil, false, err
	}

	p, ok := s.byWire[wireName]

	return p, ok, nil
}

// ExtensionData returns the property absorbing unmatched document members,
// or nil.
func (c *Contract) ExtensionData() (*Property, error) {
	s, err := c.configured()
	if err != nil {
		return nil, err
	}

	return s.extension, nil
}

// Parameters returns the constructor parameters in call order; empty when
// the type has no constructor.
func (c *Contract) Parameters() ([]*Parameter, error) {
	s, err := c.configured()
	if err != nil {
		return nil, err
	}

	return append([]*Parameter(nil), s.parameters...), nil
}

// Constructor returns the constructor used to build values, or nil.
func (c *Contract) Constructor() (*discover.Constructor, error) {
	s, err := c.configured()
	if err != nil {
		return nil, err
	}

	return s.ctor, nil
}

// Polymorphism returns the resolver of a polymorphic base type, or nil when
// the type did not opt in.
func (c *Contract) Polymorphism() (*polymorph.Resolver, error) {
	s, err := c.configured()
	if err != nil {
		return nil, err
	}

	return s.polymorphism, nil
}

// NumberHandling returns the configured contract-level number handling.
func (c *Contract) NumberHandling() (converter.NumberHandling, error) {
	s, err := c.configured()
	if err != nil {
		return 0, err
	}

	return s.numberHandling, nil
}

// UnmappedMemberHandling returns the configured unmapped member handling.
func (c *Contract) UnmappedMemberHandling() (UnmappedMemberHandling, error) {
	s, err := c.configured()
	if err != nil {
		return 0, err
	}

	return s.unmapped, nil
}

// ElementContract returns the contract of the element type of an
// enumerable or dictionary, or nil for other kinds.
func (c *Contract) ElementContract() (*Contract, error) {
	return c.child(&c.elem, c.res.Elem)
}

// KeyContract returns the contract of the key type of a dictionary, or nil
// for other kinds.
func (c *Contract) KeyContract() (*Contract, error) {
	return c.child(&c.key, c.res.Key)
}

// child resolves a cached child reference and re-validates it: it may still
// be configuring in another goroutine.
func (c *Contract) child(slot *atomic.Pointer[Contract], t reflect.Type) (*Contract, error) {
	if t == nil {
		return nil, nil
	}

	ch := slot.Load()
	if ch == nil {
		var err error

		ch, err = c.opts.Contract(t)
		if err != nil {
			return nil, err
		}

		slot.CompareAndSwap(nil, ch)
	}

	if err := ch.EnsureConfigured(); err != nil {
		return nil, err
	}

	return ch, nil
}

// SetNumberHandling stages the contract-level number handling.
func (c *Contract) SetNumberHandling(h converter.NumberHandling) error {
	return c.stage("number handling", func(s *staged) error {
		s.numberHandling = h
		return nil
	})
}

// SetUnmappedMemberHandling stages how decoding treats unmatched members.
func (c *Contract) SetUnmappedMemberHandling(h UnmappedMemberHandling) error {
	return c.stage("unmapped member handling", func(s *staged) error {
		s.unmapped = h
		return nil
	})
}

// AddProperty adds a member to those discovered for the type. Collisions
// with the discovered members are reported right away.
func (c *Contract) AddProperty(m resolve.Member[reflect.Type]) error {
	return c.stage("properties", func(s *staged) error {
		if c.kind != KindObject {
			return contracterr.New(contracterr.InvalidTypeForSerialization, c.typ.String(), m.Name,
				fmt.Sprintf("%s contracts have no properties", c.kind))
		}

		extra := append(append([]resolve.Member[reflect.Type](nil), s.extra...), m)
		if _, err := c.buildTable(extra); err != nil {
			return err
		}

		s.extra = extra

		return nil
	})
}

// SetConstructor stages the constructor used instead of the registered one.
func (c *Contract) SetConstructor(ctor *discover.Constructor) error {
	return c.stage("constructor", func(s *staged) error {
		if ctor != nil && ctor.Type != c.typ {
			return contracterr.New(contracterr.InvalidConstructor, c.typ.String(), ctor.Name,
				fmt.Sprintf("constructor builds %s", ctor.Type))
		}

		s.ctor = ctor

		return nil
	})
}

// SetPolymorphism stages a polymorphic configuration with the contract's
// type as base. It takes precedence over registered and declared ones.
func (c *Contract) SetPolymorphism(cfg polymorph.Config) error {
	return c.stage("polymorphism", func(s *staged) error {
		if cfg.Base == nil {
			cfg.Base = c.typ
		}

		if cfg.Base != c.typ {
			return contracterr.New(contracterr.InvalidPolymorphismConfiguration, c.typ.String(), "",
				fmt.Sprintf("base type is %s", cfg.Base))
		}

		if _, err := polymorph.New(cfg); err != nil {
			return err
		}

		s.polymorphism = &cfg

		return nil
	})
}

func (c *Contract) stage(what string, f func(*staged) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.IsConfigured() {
		return contracterr.New(contracterr.TypeInfoImmutable, c.typ.String(), "", "cannot change "+what)
	}

	return f(&c.staged)
}

// String renders the contract for debugging.
func (c *Contract) String() string {
	s := c.current.Load()
	if s == nil {
		return fmt.Sprintf("Contract(%s, %s, unconfigured)", c.typ, c.kind)
	}

	return fmt.Sprintf("Contract(%s, %s, %d properties, %d parameters)",
		c.typ, c.kind, len(s.properties), len(s.parameters))
}
