package discover

import (
	"reflect"
	"sync"

	"typecontract/resolve"
)

// Patch overrides parts of a member's Effect. Zero fields leave the
// discovered value alone.
type Patch struct {
	WireName  string
	Ignore    bool
	Include   bool
	Converter string
	Order     int
}

// Apply merges p into e.
func (p Patch) Apply(e *resolve.Effect) {
	if p.WireName != "" {
		e.WireName = p.WireName
	}

	if p.Ignore {
		e.Ignore = true
	}

	if p.Include {
		e.Include = true
	}

	if p.Converter != "" {
		e.Converter = p.Converter
	}

	if p.Order != 0 {
		e.Order = p.Order
	}
}

// Overlay wraps a provider and layers member patches and constructors on
// top of what it discovers.
type Overlay struct {
	base Provider

	mu      sync.RWMutex
	patches map[reflect.Type]map[string]Patch
	ctors   map[reflect.Type]*Constructor
}

var _ Provider = (*Overlay)(nil)

// NewOverlay creates an overlay over base.
func NewOverlay(base Provider) *Overlay {
	return &Overlay{
		base:    base,
		patches: make(map[reflect.Type]map[string]Patch),
		ctors:   make(map[reflect.Type]*Constructor),
	}
}

// Patch records p for the member named member (the Go field name) of t.
func (o *Overlay) Patch(t reflect.Type, member string, p Patch) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.patches[t] == nil {
		o.patches[t] = make(map[string]Patch)
	}

	o.patches[t][member] = p
}

// SetConstructor overrides the constructor of c.Type.
func (o *Overlay) SetConstructor(c *Constructor) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.ctors[c.Type] = c
}

// Members implements Provider.
func (o *Overlay) Members(t reflect.Type) ([]resolve.Member[reflect.Type], error) {
	members, err := o.base.Members(t)
	if err != nil {
		return nil, err
	}

	o.mu.RLock()
	defer o.mu.RUnlock()

	patches := o.patches[t]
	if len(patches) == 0 {
		return members, nil
	}

	for i := range members {
		if p, ok := patches[members[i].Name]; ok {
			p.Apply(&members[i].Effect)
		}
	}

	return members, nil
}

// Constructor implements Provider.
func (o *Overlay) Constructor(t reflect.Type) (*Constructor, error) {
	o.mu.RLock()
	c, ok := o.ctors[t]
	o.mu.RUnlock()

	if ok {
		return c, nil
	}

	return o.base.Constructor(t)
}
