package resolve

import (
	"cmp"
	"fmt"
	"slices"

	"typecontract/contracterr"
	"typecontract/naming"
)

// Config carries the host-specific pieces property resolution needs.
type Config[T comparable] struct {
	// Policy computes default wire names; nil keeps member names.
	Policy naming.Policy
	// IsExtensionShape reports whether T may carry extension data.
	IsExtensionShape func(T) bool
	// TypeName renders T in error messages.
	TypeName func(T) string
}

func (c Config[T]) typeName(t T) string {
	if c.TypeName != nil {
		return c.TypeName(t)
	}

	return fmt.Sprint(t)
}

// PropertyTable is the ordered, wire-name keyed property table of one type.
// Ignored members stay in the table so constructor binding can see them;
// the extension-data property is kept apart from the named properties.
type PropertyTable[T comparable] struct {
	declaring      string
	config         Config[T]
	order          []*Property[T]
	byWire         map[string]int
	ignoredMembers map[string]struct{}
	extension      *Property[T]
	frozen         bool
}

// NewPropertyTable creates an empty, unfrozen table for the declaring type.
func NewPropertyTable[T comparable](declaring string, cfg Config[T]) *PropertyTable[T] {
	return &PropertyTable[T]{
		declaring:      declaring,
		config:         cfg,
		byWire:         make(map[string]int),
		ignoredMembers: make(map[string]struct{}),
	}
}

// ResolveProperties builds and freezes the property table for declaring
// from members in discovery order.
func ResolveProperties[T comparable](declaring string, members []Member[T], cfg Config[T]) (*PropertyTable[T], error) {
	table := NewPropertyTable(declaring, cfg)

	for i := range members {
		if err := table.Add(members[i]); err != nil {
			return nil, err
		}
	}

	table.Freeze()

	return table, nil
}

// Add resolves m and inserts it, applying the collision rules:
//   - an ignored entry already holding the wire name is replaced in place;
//   - a new ignored entry, or one whose member name was hidden by an ignored
//     member, is dropped;
//   - two active entries from distinct members fail with DuplicatePropertyName;
//   - two active entries from the same member keep the first.
func (t *PropertyTable[T]) Add(m Member[T]) error {
	if t.frozen {
		return contracterr.New(contracterr.TypeInfoImmutable, t.declaring, m.Name, "property table is frozen")
	}

	if !m.Exported && !m.Effect.Include {
		return nil
	}

	p := t.newProperty(m)

	if p.ExtensionData && !p.Ignored {
		return t.setExtension(p)
	}

	idx, exists := t.byWire[p.WireName]

	switch {
	case !exists:
		t.byWire[p.WireName] = len(t.order)
		t.order = append(t.order, p)

	case t.order[idx].Ignored:
		t.order[idx] = p

	case p.Ignored || t.isIgnoredMember(p.MemberName):
		// hidden: drop silently

	case t.order[idx].MemberName != p.MemberName:
		return contracterr.New(contracterr.DuplicatePropertyName, t.declaring, p.WireName,
			fmt.Sprintf("members %s and %s both map to it", t.order[idx].MemberName, p.MemberName))

	default:
		// same member described twice: keep the original
	}

	if p.Ignored {
		t.ignoredMembers[p.MemberName] = struct{}{}
	}

	return nil
}

func (t *PropertyTable[T]) newProperty(m Member[T]) *Property[T] {
	wire := m.Effect.WireName
	if wire == "" {
		wire = t.config.Policy.Apply(m.Name)
	}

	declaring := m.DeclaringType
	if declaring == "" {
		declaring = t.declaring
	}

	return &Property[T]{
		WireName:       wire,
		MemberName:     m.Name,
		DeclaringType:  declaring,
		Type:           m.Type,
		Ignored:        m.Effect.Ignore,
		ExtensionData:  m.Effect.ExtensionData,
		Converter:      m.Effect.Converter,
		OmitEmpty:      m.Effect.OmitEmpty,
		NumberHandling: m.Effect.NumberHandling,
		Order:          m.Effect.Order,
		Index:          slices.Clone(m.Index),
	}
}

func (t *PropertyTable[T]) setExtension(p *Property[T]) error {
	if t.config.IsExtensionShape != nil && !t.config.IsExtensionShape(p.Type) {
		return contracterr.New(contracterr.InvalidExtensionDataType, t.declaring, p.MemberName,
			fmt.Sprintf("%s is not a string-keyed map", t.config.typeName(p.Type)))
	}

	if t.extension != nil {
		return contracterr.New(contracterr.MultipleExtensionDataProperties, t.declaring, p.MemberName,
			fmt.Sprintf("%s is already the extension data member", t.extension.MemberName))
	}

	t.extension = p

	return nil
}

func (t *PropertyTable[T]) isIgnoredMember(name string) bool {
	_, ok := t.ignoredMembers[name]
	return ok
}

// Freeze applies explicit ordering and makes the table immutable.
func (t *PropertyTable[T]) Freeze() {
	if t.frozen {
		return
	}

	t.frozen = true

	if !slices.ContainsFunc(t.order, func(p *Property[T]) bool { return p.Order != 0 }) {
		return
	}

	slices.SortStableFunc(t.order, func(a, b *Property[T]) int { return cmp.Compare(a.Order, b.Order) })

	for i, p := range t.order {
		t.byWire[p.WireName] = i
	}
}

// Frozen reports whether Freeze was called.
func (t *PropertyTable[T]) Frozen() bool { return t.frozen }

// DeclaringType returns the name of the type the table belongs to.
func (t *PropertyTable[T]) DeclaringType() string { return t.declaring }

// Active returns the non-ignored properties in order.
func (t *PropertyTable[T]) Active() []*Property[T] {
	active := make([]*Property[T], 0, len(t.order))
	for _, p := range t.order {
		if !p.Ignored {
			active = append(active, p)
		}
	}

	return active
}

// All returns every property in the table, ignored ones included.
func (t *PropertyTable[T]) All() []*Property[T] {
	return slices.Clone(t.order)
}

// Lookup finds a property by exact wire name.
func (t *PropertyTable[T]) Lookup(wireName string) (*Property[T], bool) {
	idx, ok := t.byWire[wireName]
	if !ok {
		return nil, false
	}

	return t.order[idx], true
}

// Extension returns the extension-data property, if any.
func (t *PropertyTable[T]) Extension() *Property[T] { return t.extension }

// Len returns the number of properties, ignored ones included.
func (t *PropertyTable[T]) Len() int { return len(t.order) }
