package analyze

import (
	"fmt"
	"go/types"
	"reflect"
	"slices"
	"sync"

	"typecontract/contracterr"
	"typecontract/converter"
	"typecontract/discover"
	"typecontract/resolve"
)

// Static is the go/types counterpart of the reflection host: types are
// identified by the string reflect would print for them ("store.Order",
// "[]store.OrderItem"). It is safe for concurrent use.
type Static struct {
	graph *TypeGraph

	mu   sync.RWMutex
	byID map[string]types.Type
}

// NewStatic creates a static host over graph.
func NewStatic(graph *TypeGraph) *Static {
	return &Static{graph: graph, byID: make(map[string]types.Type)}
}

// Graph returns the type graph the host reads.
func (s *Static) Graph() *TypeGraph { return s.graph }

func qualifier(p *types.Package) string { return p.Name() }

// TypeID returns the identity of t and remembers t under it.
func (s *Static) TypeID(t types.Type) string {
	id := types.TypeString(t, qualifier)

	s.mu.Lock()
	s.byID[id] = t
	s.mu.Unlock()

	return id
}

// Type returns the go/types type registered under id.
func (s *Static) Type(id string) (types.Type, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.byID[id]
	return t, ok
}

// Config returns the property resolution config for this host.
func (s *Static) Config() resolve.Config[string] {
	return resolve.Config[string]{IsExtensionShape: s.IsExtensionShape}
}

// IsExtensionShape reports whether the type registered under id can carry
// extension data.
func (s *Static) IsExtensionShape(id string) bool {
	t, ok := s.Type(id)
	return ok && IsExtensionShape(t)
}

type queued struct {
	st    *types.Struct
	owner string
	index []int
}

// Members discovers the members of struct type t with the promotion rules
// of discover.Reflect.
func (s *Static) Members(t types.Type) ([]resolve.Member[string], error) {
	st, ok := t.Underlying().(*types.Struct)
	if !ok {
		return nil, nil
	}

	var (
		fields  []discover.Candidate[string]
		current []queued
		next    = []queued{{st: st, owner: s.TypeID(t)}}
		visited = map[*types.Struct]bool{}
	)

	for depth := 0; len(next) > 0; depth++ {
		current, next = next, nil

		for _, q := range current {
			if visited[q.st] {
				continue
			}
			visited[q.st] = true

			for i := range q.st.NumFields() {
				f := q.st.Field(i)
				index := append(slices.Clone(q.index), i)

				eff, named, err := discover.ParseTags(q.owner, f.Name(), reflect.StructTag(q.st.Tag(i)))
				if err != nil {
					return nil, err
				}

				if f.Embedded() && !named && !eff.Ignore {
					ft := f.Type()
					if p, ok := ft.Underlying().(*types.Pointer); ok {
						ft = p.Elem()
					}

					if est, ok := ft.Underlying().(*types.Struct); ok {
						next = append(next, queued{st: est, owner: s.TypeID(ft), index: index})
						continue
					}
				}

				fields = append(fields, discover.Candidate[string]{
					Member: resolve.Member[string]{
						DeclaringType: q.owner,
						Name:          f.Name(),
						Type:          s.TypeID(f.Type()),
						Exported:      f.Exported(),
						Effect:        eff,
						Index:         index,
					},
					Depth: depth,
					Named: named,
				})
			}
		}
	}

	return discover.Promote(fields), nil
}

// Constructor parses the package-level function name declared next to the
// named type t, the way discover.ParseConstructor parses a func value.
func (s *Static) Constructor(t *types.Named, name string, params ...discover.ParamSpec) ([]resolve.ParamDescriptor[string], error) {
	typeName := s.TypeID(t)

	pkg := s.graph.Packages[t.Obj().Pkg().Path()]
	if pkg == nil || pkg.Funcs[name] == nil {
		return nil, contracterr.Wrap(contracterr.InvalidConstructor, typeName,
			fmt.Errorf("function %s is not declared in %s", name, t.Obj().Pkg().Path()))
	}

	sig := pkg.Funcs[name].Signature()

	switch {
	case sig.Variadic():
		return nil, contracterr.Wrap(contracterr.InvalidConstructor, typeName, discover.ErrVariadic)
	case sig.Results().Len() == 0 || sig.Results().Len() > 2:
		return nil, contracterr.Wrap(contracterr.InvalidConstructor, typeName, discover.ErrNotAConstructor)
	case sig.Results().Len() == 2 && !isError(sig.Results().At(1).Type()):
		return nil, contracterr.Wrap(contracterr.InvalidConstructor, typeName, discover.ErrNotAConstructor)
	}

	out := sig.Results().At(0).Type()
	if p, ok := out.(*types.Pointer); ok {
		if _, ok := p.Elem().(*types.Pointer); ok {
			return nil, contracterr.Wrap(contracterr.InvalidConstructor, typeName, discover.ErrDoublePointer)
		}

		out = p.Elem()
	}

	if !types.Identical(out, t) {
		return nil, contracterr.Wrap(contracterr.InvalidConstructor, typeName,
			fmt.Errorf("%w: %s returns %s", discover.ErrNotAConstructor, name, types.TypeString(out, qualifier)))
	}

	if sig.Params().Len() != len(params) {
		return nil, contracterr.Wrap(contracterr.InvalidConstructor, typeName,
			fmt.Errorf("%w: %d names for %d parameters", discover.ErrParamCount, len(params), sig.Params().Len()))
	}

	descs := make([]resolve.ParamDescriptor[string], 0, len(params))
	for i, p := range params {
		descs = append(descs, resolve.ParamDescriptor[string]{
			Name:       p.Name,
			Type:       s.TypeID(sig.Params().At(i).Type()),
			HasDefault: p.HasDefault,
			Default:    p.Default,
		})
	}

	return descs, nil
}

var errorType = types.Universe.Lookup("error").Type()

func isError(t types.Type) bool {
	return types.Identical(t, errorType)
}

// Implements reports whether derived, by value or by pointer, implements
// the interface base.
func Implements(derived, base types.Type) bool {
	iface, ok := base.Underlying().(*types.Interface)
	if !ok {
		return false
	}

	return types.Implements(derived, iface) || types.Implements(types.NewPointer(derived), iface)
}

// Classify is the static counterpart of converter.Classify. It returns the
// strategy of t and, for collections, the element and key types.
func Classify(t types.Type) (strategy converter.Strategy, elem, key types.Type, err error) {
	name := types.TypeString(t, qualifier)
	fail := func(kind contracterr.Kind, detail string) (converter.Strategy, types.Type, types.Type, error) {
		return converter.StrategyUnsupported, nil, nil, contracterr.New(kind, name, "", detail)
	}

	t = types.Unalias(t)

	switch tt := t.(type) {
	case *types.Pointer:
		if _, ok := types.Unalias(tt.Elem()).(*types.Pointer); ok {
			return fail(contracterr.InvalidTypeForSerialization, "pointers to pointers are not supported")
		}

		return Classify(tt.Elem())

	case *types.TypeParam:
		return fail(contracterr.InvalidTypeForSerialization, "type parameters have no contract")

	case *types.Named:
		if tt.TypeParams().Len() > 0 && tt.TypeArgs().Len() == 0 {
			return fail(contracterr.InvalidTypeForSerialization, "generic types have no contract until instantiated")
		}

		if isValueType(tt) {
			return converter.StrategyValue, nil, nil, nil
		}
	}

	switch ut := t.Underlying().(type) {
	case *types.Basic:
		switch {
		case ut.Kind() == types.UnsafePointer || ut.Kind() == types.Uintptr:
			return fail(contracterr.InvalidTypeForSerialization, "raw pointers are not supported")
		case ut.Info()&types.IsComplex != 0, ut.Info()&types.IsUntyped != 0, ut.Kind() == types.Invalid:
			return fail(contracterr.UnsupportedType, "")
		default:
			return converter.StrategyValue, nil, nil, nil
		}

	case *types.Interface:
		if ut.Empty() {
			return converter.StrategyValue, nil, nil, nil
		}

		return converter.StrategyObject, nil, nil, nil

	case *types.Struct:
		return converter.StrategyObject, nil, nil, nil

	case *types.Slice:
		if isByte(ut.Elem()) {
			return converter.StrategyValue, nil, nil, nil
		}

		return converter.StrategyEnumerable, ut.Elem(), nil, nil

	case *types.Array:
		return converter.StrategyEnumerable, ut.Elem(), nil, nil

	case *types.Map:
		if !isDictionaryKey(ut.Key()) {
			return fail(contracterr.UnsupportedType,
				fmt.Sprintf("map key type %s cannot be a property name", types.TypeString(ut.Key(), qualifier)))
		}

		return converter.StrategyDictionary, ut.Elem(), ut.Key(), nil
	}

	return fail(contracterr.UnsupportedType, "")
}

// isValueType mirrors primitive.FromReflectType for named types: well-known
// scalars and anything that marshals itself.
func isValueType(t *types.Named) bool {
	if obj := t.Obj(); obj.Pkg() != nil && obj.Pkg().Path() == "time" &&
		(obj.Name() == "Time" || obj.Name() == "Duration") {
		return true
	}

	if types.IsInterface(t) {
		return false
	}

	return hasMethod(t, "MarshalText") || hasMethod(t, "MarshalJSON")
}

func hasMethod(t types.Type, name string) bool {
	for _, recv := range []types.Type{t, types.NewPointer(t)} {
		if types.NewMethodSet(recv).Lookup(nil, name) != nil {
			return true
		}
	}

	return false
}

func isByte(t types.Type) bool {
	b, ok := types.Unalias(t).(*types.Basic)
	return ok && b.Kind() == types.Byte
}

func isDictionaryKey(t types.Type) bool {
	if b, ok := t.Underlying().(*types.Basic); ok {
		switch {
		case b.Info()&types.IsString != 0:
			return true
		case b.Info()&types.IsInteger != 0 && b.Kind() != types.Uintptr:
			return true
		}
	}

	return types.NewMethodSet(types.NewPointer(t)).Lookup(nil, "UnmarshalText") != nil
}

// IsExtensionShape is the static counterpart of converter.IsExtensionDataShape.
func IsExtensionShape(t types.Type) bool {
	for {
		p, ok := t.Underlying().(*types.Pointer)
		if !ok {
			break
		}

		t = p.Elem()
	}

	m, ok := t.Underlying().(*types.Map)
	if !ok {
		return false
	}

	if k, ok := m.Key().Underlying().(*types.Basic); !ok || k.Info()&types.IsString == 0 {
		return false
	}

	switch v := m.Elem().Underlying().(type) {
	case *types.Interface:
		return v.Empty()
	case *types.Slice:
		return isByte(v.Elem())
	default:
		return false
	}
}
