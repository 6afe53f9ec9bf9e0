package match

import (
	"go/types"
)

//go:generate go tool stringer -type=Compatibility -output=compatibility_string.go

// Compatibility grades how a value of one type can reach another.
type Compatibility int

const (
	Incompatible Compatibility = iota
	// Dereference means *S reaches T, or S reaches *T, only through a pointer step.
	Dereference
	Convertible
	Assignable
	Identical
)

// Compare grades source against target using the go/types rules.
func Compare(source, target types.Type) Compatibility {
	switch {
	case source == nil || target == nil:
		return Incompatible
	case types.Identical(source, target):
		return Identical
	case types.AssignableTo(source, target):
		return Assignable
	case types.ConvertibleTo(source, target):
		return Convertible
	}

	if p, ok := source.(*types.Pointer); ok && Compare(p.Elem(), target) >= Convertible {
		return Dereference
	}

	if p, ok := target.(*types.Pointer); ok && Compare(source, p.Elem()) >= Convertible {
		return Dereference
	}

	return Incompatible
}
