package contract

import (
	"fmt"
	"reflect"
	"sync/atomic"
	"unsafe"

	"typecontract/converter"
	"typecontract/resolve"
)

// Property is one resolved member of an object contract, with accessors
// over values of the owning type.
type Property struct {
	*resolve.Property[reflect.Type]

	owner *Contract
	res   converter.Resolution
	child atomic.Pointer[Contract]
}

// Owner returns the contract the property belongs to.
func (p *Property) Owner() *Contract { return p.owner }

// Resolution returns the converter resolved for the member.
func (p *Property) Resolution() converter.Resolution { return p.res }

// EffectiveNumberHandling combines member and contract number handling.
func (p *Property) EffectiveNumberHandling() converter.NumberHandling {
	h := p.NumberHandling
	if s := p.owner.current.Load(); s != nil {
		h |= s.numberHandling
	}

	return h
}

// Contract returns the contract of the member's declared type. It is
// re-validated on every access since it may have been left to another
// goroutine during the owner's configure pass.
func (p *Property) Contract() (*Contract, error) {
	return p.owner.child(&p.child, p.Type)
}

// Get returns the member value of v, a value of (or pointer to) the owning
// type. ok is false when the member sits behind a nil embedded pointer.
func (p *Property) Get(v reflect.Value) (reflect.Value, bool) {
	return p.field(v, false)
}

// Set assigns x to the member of v, which must be addressable. Nil embedded
// pointers on the way are allocated.
func (p *Property) Set(v, x reflect.Value) error {
	f, ok := p.field(v, true)
	if !ok || !f.CanSet() {
		return fmt.Errorf("property %q of %s is not settable", p.WireName, p.owner.typ)
	}

	if !x.IsValid() {
		f.SetZero()
		return nil
	}

	if !x.Type().AssignableTo(f.Type()) {
		return fmt.Errorf("property %q of %s: cannot assign %s to %s", p.WireName, p.owner.typ, x.Type(), f.Type())
	}

	f.Set(x)

	return nil
}

func (p *Property) field(v reflect.Value, alloc bool) (reflect.Value, bool) {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}, false
		}

		v = v.Elem()
	}

	for i, x := range p.Index {
		if i > 0 {
			for v.Kind() == reflect.Pointer {
				if v.IsNil() {
					if !alloc || !v.CanSet() {
						return reflect.Value{}, false
					}

					v.Set(reflect.New(v.Type().Elem()))
				}

				v = v.Elem()
			}
		}

		v = v.Field(x)
	}

	// members included despite being unexported
	if !v.CanInterface() && v.CanAddr() {
		v = reflect.NewAt(v.Type(), unsafe.Pointer(v.UnsafeAddr())).Elem()
	}

	return v, true
}

// Parameter is one constructor parameter of an object contract.
type Parameter struct {
	*resolve.Parameter[reflect.Type]

	property *Property
}

// BoundProperty returns the property feeding the parameter; nil when the
// parameter is unbound or bound to an ignored member.
func (p *Parameter) BoundProperty() *Property {
	if !p.Bound() {
		return nil
	}

	return p.property
}
