package config

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"typecontract/contract"
	"typecontract/converter"
	"typecontract/discover"
	"typecontract/internal/match"
	"typecontract/naming"
	"typecontract/polymorph"
)

// Types names the Go types a File may refer to.
type Types map[string]reflect.Type

// TypesOf indexes types by the name reflect prints for them.
func TypesOf(types ...reflect.Type) Types {
	ts := make(Types, len(types))
	for _, t := range types {
		ts[t.String()] = t
	}

	return ts
}

// Lookup resolves name exactly, then as "importpath.Name", then as a bare
// type name matching exactly one type.
func (ts Types) Lookup(name string) (reflect.Type, error) {
	if t, ok := ts[name]; ok {
		return t, nil
	}

	var byName []reflect.Type

	for _, t := range ts {
		if t.PkgPath()+"."+t.Name() == name {
			return t, nil
		}

		if t.Name() == name {
			byName = append(byName, t)
		}
	}

	if len(byName) == 1 {
		return byName[0], nil
	}

	msg := fmt.Sprintf("type %q is not known", name)
	if len(byName) > 1 {
		msg = fmt.Sprintf("type name %q is ambiguous", name)
	} else if s, ok := match.Suggest(name, slices.Collect(maps.Keys(ts))); ok {
		msg += fmt.Sprintf(", did you mean %q?", s)
	}

	return nil, errors.New(msg)
}

// Options converts f into contract options. types resolves type names and
// funcs resolves constructor function names.
func Options(f *File, types Types, funcs map[string]any) ([]contract.Option, error) {
	if res := Validate(f); !res.IsValid() {
		return nil, res.Error()
	}

	policy, err := naming.ByName(f.NamingPolicy)
	if err != nil {
		return nil, err
	}

	unmapped, err := unmappedHandling(f.UnmappedMembers)
	if err != nil {
		return nil, err
	}

	numbers, err := numberHandling(f.NumberHandling)
	if err != nil {
		return nil, err
	}

	opts := []contract.Option{
		contract.WithNamingPolicy(policy),
		contract.WithUnmappedMemberHandling(unmapped),
		contract.WithNumberHandling(numbers),
	}

	for i := range f.Polymorphism {
		cfg, err := f.Polymorphism[i].config(types)
		if err != nil {
			return nil, fmt.Errorf("polymorphism of %s: %w", f.Polymorphism[i].Base, err)
		}

		opts = append(opts, contract.WithPolymorphism(cfg))
	}

	for _, name := range sortedKeys(f.Types) {
		t, err := types.Lookup(name)
		if err != nil {
			return nil, err
		}

		typeOpts, err := f.Types[name].options(t, funcs)
		if err != nil {
			return nil, fmt.Errorf("type %s: %w", name, err)
		}

		opts = append(opts, typeOpts...)
	}

	return opts, nil
}

func (p *Polymorphism) config(types Types) (polymorph.Config, error) {
	base, err := types.Lookup(p.Base)
	if err != nil {
		return polymorph.Config{}, err
	}

	cfg := polymorph.Config{
		Base:                  base,
		DiscriminatorProperty: p.Discriminator,
	}

	if cfg.UnknownDerivedType, err = p.UnknownDerivedType.handling(); err != nil {
		return polymorph.Config{}, err
	}

	if cfg.UnknownDiscriminator, err = p.UnknownDiscriminator.handling(); err != nil {
		return polymorph.Config{}, err
	}

	for _, disc := range sortedKeys(p.Derived) {
		t, err := types.Lookup(p.Derived[disc])
		if err != nil {
			return polymorph.Config{}, err
		}

		cfg.Derived = append(cfg.Derived, polymorph.DerivedType{Type: t, Discriminator: disc})
	}

	return cfg, nil
}

func (t Type) options(typ reflect.Type, funcs map[string]any) ([]contract.Option, error) {
	var opts []contract.Option

	for _, member := range sortedKeys(t.Members) {
		m := t.Members[member]
		opts = append(opts, contract.WithMemberPatch(typ, member, discover.Patch{
			WireName:  m.Name,
			Ignore:    m.Ignore,
			Include:   m.Include,
			Converter: m.Converter,
			Order:     m.Order,
		}))
	}

	if t.Constructor == nil {
		return opts, nil
	}

	fn, ok := funcs[t.Constructor.Func]
	if !ok {
		return nil, fmt.Errorf("constructor func %q is not registered", t.Constructor.Func)
	}

	fnType := reflect.TypeOf(fn)
	if fnType == nil || fnType.Kind() != reflect.Func {
		return nil, fmt.Errorf("constructor %q: %w", t.Constructor.Func, discover.ErrNotAFunction)
	}

	specs := make([]discover.ParamSpec, 0, len(t.Constructor.Params))

	for i, p := range t.Constructor.Params {
		if !p.HasDefault {
			specs = append(specs, discover.Param(p.Name))
			continue
		}

		def := p.Default
		if i < fnType.NumIn() {
			def = coerce(def, fnType.In(i))
		}

		specs = append(specs, discover.ParamDefault(p.Name, def))
	}

	return append(opts, contract.WithConstructor(fn, specs...)), nil
}

// coerce converts YAML scalars to numeric parameter types; YAML decodes
// 1 as int even where the parameter is a float64.
func coerce(v any, t reflect.Type) any {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Type().AssignableTo(t) {
		return v
	}

	if isNumeric(rv.Kind()) && isNumeric(t.Kind()) {
		return rv.Convert(t).Interface()
	}

	return v
}

func isNumeric(k reflect.Kind) bool {
	return (k >= reflect.Int && k <= reflect.Uint64) || k == reflect.Float32 || k == reflect.Float64
}

func (p UnknownPolicy) handling() (polymorph.UnknownTypeHandling, error) {
	switch p {
	case "", PolicyFail:
		return polymorph.FailOnUnknown, nil
	case PolicyFallBackToBase:
		return polymorph.FallBackToBase, nil
	default:
		return 0, fmt.Errorf("unknown policy %q, expected %q or %q", string(p), PolicyFail, PolicyFallBackToBase)
	}
}

func unmappedHandling(s string) (contract.UnmappedMemberHandling, error) {
	switch strings.ToLower(s) {
	case "", "skip":
		return contract.UnmappedSkip, nil
	case "disallow":
		return contract.UnmappedDisallow, nil
	default:
		return 0, fmt.Errorf("unmapped member handling %q, expected \"skip\" or \"disallow\"", s)
	}
}

func numberHandling(flags []string) (converter.NumberHandling, error) {
	var h converter.NumberHandling

	for _, flag := range flags {
		switch strings.ToLower(flag) {
		case "strict":
		case "allow_reading_from_string":
			h |= converter.NumberAllowReadingFromString
		case "write_as_string":
			h |= converter.NumberWriteAsString
		default:
			return 0, fmt.Errorf("number handling %q, expected \"allow_reading_from_string\" or \"write_as_string\"", flag)
		}
	}

	return h, nil
}

func sortedKeys[M ~map[K]V, K cmp.Ordered, V any](m M) []K {
	return slices.Sorted(maps.Keys(m))
}
