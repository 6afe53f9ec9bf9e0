package config

import (
	"fmt"
	"slices"

	"typecontract/contracterr"
	"typecontract/internal/diagnostic"
	"typecontract/internal/match"
	"typecontract/naming"
)

// Validate checks a File for mistakes that need no type information:
// unknown policy names, incomplete hierarchies, unnamed parameters. Type
// names are checked by whoever can resolve them.
func Validate(f *File) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError("config_is_nil", "config file is nil", "", "")
		return res
	}

	if f.Version != "1" {
		res.AddError("unsupported_version", fmt.Sprintf("unsupported config version %q", f.Version), "", "")
	}

	if _, err := naming.ByName(f.NamingPolicy); err != nil {
		res.AddError("unknown_naming_policy", err.Error(), "", "")
		if s, ok := match.Suggest(f.NamingPolicy, naming.Names()); ok {
			res.AddSuggestion(s)
		}
	}

	if _, err := unmappedHandling(f.UnmappedMembers); err != nil {
		res.AddError("unknown_unmapped_members", err.Error(), "", "")
	}

	if _, err := numberHandling(f.NumberHandling); err != nil {
		res.AddError("unknown_number_handling", err.Error(), "", "")
	}

	validatePolymorphism(res, f.Polymorphism)

	for _, name := range sortedKeys(f.Types) {
		validateType(res, name, f.Types[name])
	}

	return res
}

func validatePolymorphism(res *diagnostic.Diagnostics, entries []Polymorphism) {
	code := diagnostic.Code(contracterr.InvalidPolymorphismConfiguration)
	bases := map[string]bool{}

	for i := range entries {
		p := &entries[i]

		if p.Base == "" {
			res.AddError(code, fmt.Sprintf("polymorphism[%d] has no base type", i), "", "")
			continue
		}

		if bases[p.Base] {
			res.AddError(code, "base type is declared twice", p.Base, "")
		}

		bases[p.Base] = true

		for _, policy := range []UnknownPolicy{p.UnknownDerivedType, p.UnknownDiscriminator} {
			if _, err := policy.handling(); err != nil {
				res.AddError(code, err.Error(), p.Base, "")
			}
		}

		if len(p.Derived) == 0 {
			res.AddError(code, "no derived types", p.Base, "")
		}

		seen := map[string]string{}

		for _, disc := range sortedKeys(p.Derived) {
			typ := p.Derived[disc]

			switch {
			case disc == "":
				res.AddError(code, fmt.Sprintf("derived type %s has an empty discriminator", typ), p.Base, "")
			case typ == "":
				res.AddError(code, fmt.Sprintf("discriminator %q has no type", disc), p.Base, "")
			case typ == p.Base:
				res.AddError(code, "base type is listed as derived", p.Base, "")
			case seen[typ] != "":
				res.AddError(code, fmt.Sprintf("derived type %s is listed as %q and %q", typ, seen[typ], disc), p.Base, "")
			default:
				seen[typ] = disc
			}
		}
	}
}

func validateType(res *diagnostic.Diagnostics, name string, t Type) {
	if ctor := t.Constructor; ctor != nil {
		code := diagnostic.Code(contracterr.InvalidConstructor)

		if ctor.Func == "" {
			res.AddError(code, "constructor has no func", name, "")
		}

		var names []string

		for i, p := range ctor.Params {
			switch {
			case p.Name == "":
				res.AddError(code, fmt.Sprintf("parameter %d has no name", i), name, "")
			case slices.ContainsFunc(names, func(n string) bool { return naming.EqualFold(n, p.Name) }):
				res.AddError(diagnostic.Code(contracterr.AmbiguousConstructorBinding),
					"parameter name is used twice", name, p.Name)
			default:
				names = append(names, p.Name)
			}
		}
	}

	for _, member := range sortedKeys(t.Members) {
		m := t.Members[member]

		if m.Ignore && (m.Include || m.Name != "" || m.Converter != "" || m.Order != 0) {
			res.AddWarning("ignored_member_override", "member is ignored; its other settings have no effect", name, member)
		}
	}
}
