package resolve

import (
	"fmt"

	"typecontract/contracterr"
	"typecontract/naming"
)

type bindingKey[T comparable] struct {
	name string // case-folded member name
	typ  T
}

// BindConstructor matches constructor parameters to the properties of table
// by case-insensitive member name and exact type. Wire names and the naming
// policy play no part in binding.
//
// A parameter with no matching property stays unbound and receives its
// default (or the zero value) at construction.
func BindConstructor[T comparable](table *PropertyTable[T], params []ParamDescriptor[T]) ([]*Parameter[T], error) {
	declaring := table.DeclaringType()

	lookup := make(map[bindingKey[T]]*Property[T], table.Len())
	duplicates := make(map[bindingKey[T]]struct{})

	for _, p := range table.All() {
		key := bindingKey[T]{name: naming.Fold(p.MemberName), typ: p.Type}
		if _, ok := lookup[key]; ok {
			duplicates[key] = struct{}{}
			continue
		}

		lookup[key] = p
	}

	ext := table.Extension()
	boundBy := make(map[*Property[T]]string, len(params))
	result := make([]*Parameter[T], 0, len(params))

	for i, pd := range params {
		if ext != nil && naming.EqualFold(pd.Name, ext.MemberName) {
			return nil, contracterr.New(contracterr.ExtensionDataCannotBindToConstructor, declaring, pd.Name,
				fmt.Sprintf("extension data member %s must be populated after construction", ext.MemberName))
		}

		param := &Parameter[T]{
			Name:       pd.Name,
			Type:       pd.Type,
			Position:   i,
			HasDefault: pd.HasDefault,
			Default:    pd.Default,
		}

		key := bindingKey[T]{name: naming.Fold(pd.Name), typ: pd.Type}

		prop, found := lookup[key]
		if found {
			if _, dup := duplicates[key]; dup {
				return nil, contracterr.New(contracterr.AmbiguousConstructorBinding, declaring, pd.Name,
					"more than one member matches the parameter name and type")
			}

			if other, taken := boundBy[prop]; taken {
				return nil, contracterr.New(contracterr.AmbiguousConstructorBinding, declaring, pd.Name,
					fmt.Sprintf("member %s is already bound to parameter %s", prop.MemberName, other))
			}

			boundBy[prop] = pd.Name
			param.Property = prop
			param.IgnoredPlaceholder = prop.Ignored
		}

		result = append(result, param)
	}

	return result, nil
}
