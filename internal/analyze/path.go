package analyze

import (
	"strings"
)

// TypePath records how a type was reached from a root type:
//   - "store.Order" for the root
//   - "store.Order.Items" for a member
//   - "store.Order.Items[]" for the elements of a slice or array member
//   - "store.Order.Notes{}" for the values of a map member
type TypePath struct {
	parts []string
}

// NewTypePath creates a new TypePath from a root type name.
func NewTypePath(root string) *TypePath {
	return &TypePath{
		parts: []string{root},
	}
}

// Field appends a member name to the path.
func (p *TypePath) Field(name string) *TypePath {
	return &TypePath{
		parts: append(append([]string{}, p.parts...), name),
	}
}

// Elem marks the last part as the element of a collection.
func (p *TypePath) Elem() *TypePath { return p.suffix("[]") }

// Value marks the last part as the value of a dictionary.
func (p *TypePath) Value() *TypePath { return p.suffix("{}") }

func (p *TypePath) suffix(s string) *TypePath {
	if len(p.parts) == 0 {
		return &TypePath{parts: []string{s}}
	}

	parts := append([]string{}, p.parts...)
	parts[len(parts)-1] += s

	return &TypePath{parts: parts}
}

// String returns the full path string.
func (p *TypePath) String() string {
	if p == nil {
		return ""
	}

	return strings.Join(p.parts, ".")
}
