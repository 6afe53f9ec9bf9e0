package discover

import (
	"reflect"
	"slices"

	"typecontract/resolve"
)

// Entry is the descriptor table of one type.
type Entry struct {
	Members     []resolve.Member[reflect.Type]
	Constructor *Constructor
}

// Static serves fixed descriptor tables, for hosts that cannot or should not
// reflect over struct fields. Types without an entry have no members.
type Static map[reflect.Type]Entry

var _ Provider = Static(nil)

// Members implements Provider.
func (s Static) Members(t reflect.Type) ([]resolve.Member[reflect.Type], error) {
	return slices.Clone(s[t].Members), nil
}

// Constructor implements Provider.
func (s Static) Constructor(t reflect.Type) (*Constructor, error) {
	return s[t].Constructor, nil
}
