// Package discover supplies the raw input of contract building: the members
// of a type with the effect of their annotations, and the constructor to
// build it with. Reflect reads struct fields and tags at runtime; Static
// serves tables built by hand or generated ahead of time; Overlay patches
// another provider with file-based configuration.
package discover

import (
	"reflect"

	"typecontract/resolve"
)

// Provider yields member and constructor descriptors for a type.
type Provider interface {
	// Members returns the members of t in discovery order, already merged
	// across embedding.
	Members(t reflect.Type) ([]resolve.Member[reflect.Type], error)
	// Constructor returns the constructor registered for t, or nil.
	Constructor(t reflect.Type) (*Constructor, error)
}
