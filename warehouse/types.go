// Package warehouse holds types whose contracts cannot be built, one
// problem per type.
package warehouse

// Shelf claims the wire name "label" twice.
type Shelf struct {
	Label string `json:"label"`
	Title string `json:"label"`
}

// Crate has two extension data members.
type Crate struct {
	Meta map[string]any `json:",unknown"`
	More map[string]any `json:",unknown"`
}

// Pallet has an extension data member of the wrong shape.
type Pallet struct {
	Extra []string `json:",unknown"`
}

// Forklift has members no converter can serialize.
type Forklift struct {
	Fuel chan int
	Next **Forklift
}

// Box is generic; only its instantiations have contracts.
type Box[T any] struct {
	Value T
}

// Bin has two members a "name" constructor parameter could bind to.
type Bin struct {
	Name string
	NAME string `json:"name_upper"`
}

// NewBin builds a bin.
func NewBin(name string) Bin { return Bin{Name: name} }

// Bay reaches the other types through its members.
type Bay struct {
	Bins   []Bin
	Crates map[string]*Crate
	Kind   Kind
}

// Kind is an interface without a polymorphism declaration.
type Kind interface {
	Describe() string
}
