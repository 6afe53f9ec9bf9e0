package resolve

import "typecontract/converter"

// Effect is the decoded effect of the annotations attached to a member.
// How those annotations were discovered (struct tags, config files,
// generated tables) is the provider's business.
type Effect struct {
	Ignore         bool   // never serialized
	Include        bool   // serialize even though the member is not public
	WireName       string // explicit wire name; bypasses the naming policy
	ExtensionData  bool   // catch-all for unmatched document members
	Converter      string // named converter override
	Order          int    // explicit position; ties keep discovery order
	OmitEmpty      bool
	NumberHandling converter.NumberHandling
}

// Member describes one candidate member of a type, as supplied by a
// descriptor provider. Members arrive already merged across embedding, in
// discovery order.
type Member[T comparable] struct {
	DeclaringType string
	Name          string
	Type          T
	Exported      bool
	Effect        Effect
	Index         []int // accessor path for reflection hosts
}

// ParamDescriptor describes one constructor parameter.
type ParamDescriptor[T comparable] struct {
	Name       string
	Type       T
	HasDefault bool
	Default    any
}

// Property is one resolved member.
type Property[T comparable] struct {
	WireName       string
	MemberName     string
	DeclaringType  string
	Type           T
	Ignored        bool
	ExtensionData  bool
	Converter      string
	OmitEmpty      bool
	NumberHandling converter.NumberHandling
	Order          int
	Index          []int
}

// Parameter is one constructor parameter, bound or not.
type Parameter[T comparable] struct {
	Name     string
	Type     T
	Position int
	// Property is the property the parameter binds to; nil when unbound.
	// The association is shared and read-only.
	Property *Property[T]
	// IgnoredPlaceholder marks a parameter bound to an ignored property:
	// construction supplies its default instead of a document value.
	IgnoredPlaceholder bool
	HasDefault         bool
	Default            any
}

// Bound reports whether the parameter receives values from a property.
func (p *Parameter[T]) Bound() bool {
	return p.Property != nil && !p.IgnoredPlaceholder
}
