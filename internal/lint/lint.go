// Package lint checks contracts statically. It builds the contract of
// every struct type of the loaded packages, and of every type reachable
// from their members, the way the runtime would, and reports what the
// runtime would fail on without running the program.
package lint

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"go/types"
	"log/slog"
	"maps"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"typecontract/contracterr"
	"typecontract/converter"
	"typecontract/discover"
	"typecontract/internal/analyze"
	"typecontract/internal/config"
	"typecontract/internal/diagnostic"
	"typecontract/internal/match"
	"typecontract/naming"
	"typecontract/resolve"
)

// Diagnostic codes that do not correspond to a contract failure.
const (
	CodeUnknownType         = "unknown_type"
	CodeUnknownMember       = "unknown_member"
	CodeUnboundParameter    = "unbound_parameter"
	CodeUndeclaredInterface = "interface_without_polymorphism"
)

// Options configure a check.
type Options struct {
	// File supplies the naming policy, polymorphism and overrides. Optional.
	File *config.File
	// Logger receives progress at Debug and a summary at Info.
	Logger *slog.Logger
	// Workers bounds concurrent type checks. Default GOMAXPROCS.
	Workers int
}

// Contract is the static contract of one type.
type Contract struct {
	Type       string
	Path       string // how the type was reached
	Strategy   converter.Strategy
	Properties []*resolve.Property[string]
	Extension  *resolve.Property[string]
	Parameters []*resolve.Parameter[string]
	Derived    []string // "discriminator=type" for polymorphic bases
}

// Report is the outcome of a check.
type Report struct {
	Diagnostics *diagnostic.Diagnostics
	Contracts   []*Contract // sorted by type
}

type need struct {
	id   analyze.TypeID
	path *analyze.TypePath
}

type result struct {
	contract *Contract
	diags    diagnostic.Diagnostics
	needs    []need
}

type checker struct {
	graph     *analyze.TypeGraph
	static    *analyze.Static
	policy    naming.Policy
	overrides map[analyze.TypeID]config.Type
	bases     map[analyze.TypeID]bool
	logger    *slog.Logger
}

// Run checks the contracts of graph.
func Run(ctx context.Context, graph *analyze.TypeGraph, opts Options) (*Report, error) {
	if graph == nil {
		return nil, errors.New("type graph is nil")
	}

	c := &checker{
		graph:     graph,
		static:    analyze.NewStatic(graph),
		overrides: make(map[analyze.TypeID]config.Type),
		bases:     make(map[analyze.TypeID]bool),
		logger:    cmp.Or(opts.Logger, slog.Default().With("component", "contract-lint")),
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	report := &Report{Diagnostics: &diagnostic.Diagnostics{}}

	var dealer Dealer[analyze.TypeID, *analyze.TypePath]

	if f := opts.File; f != nil {
		report.Diagnostics.Merge(*config.Validate(f))

		// an unknown policy name was reported by Validate
		c.policy, _ = naming.ByName(f.NamingPolicy)

		c.resolveOverrides(report.Diagnostics, f.Types)
		report.Contracts = append(report.Contracts, c.checkPolymorphism(report.Diagnostics, f.Polymorphism, &dealer)...)
	}

	for _, pkgPath := range slices.Sorted(maps.Keys(graph.Packages)) {
		for _, id := range graph.Packages[pkgPath].Types {
			if graph.Types[id].Kind == analyze.TypeKindStruct {
				dealer.Needs(id, analyze.NewTypePath(id.Short()))
			}
		}
	}

	for dealer.Pending() > 0 {
		var batch []need
		for {
			id, path, ok := dealer.NextNeeds()
			if !ok {
				break
			}

			batch = append(batch, need{id: id, path: path})
		}

		slices.SortFunc(batch, func(a, b need) int { return strings.Compare(a.id.String(), b.id.String()) })

		results := make([]result, len(batch))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)

		for i, n := range batch {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}

				results[i] = c.check(n)

				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return nil, err
		}

		for _, r := range results {
			report.Diagnostics.Merge(r.diags)
			report.Contracts = append(report.Contracts, r.contract)

			for _, n := range r.needs {
				dealer.Needs(n.id, n.path)
			}
		}
	}

	slices.SortFunc(report.Contracts, func(a, b *Contract) int { return strings.Compare(a.Type, b.Type) })
	report.Diagnostics.Sort()

	c.logger.Info("contracts checked",
		"types", len(report.Contracts),
		"errors", len(report.Diagnostics.Errors),
		"warnings", len(report.Diagnostics.Warnings))

	return report, nil
}

func (c *checker) unknownType(diags *diagnostic.Diagnostics, name string) {
	diags.AddError(CodeUnknownType, fmt.Sprintf("type %q is not declared in the loaded packages", name), name, "")
	if s, ok := match.Suggest(name, c.graph.Names()); ok {
		diags.AddSuggestion(s)
	}
}

func (c *checker) resolveOverrides(diags *diagnostic.Diagnostics, overrides map[string]config.Type) {
	for _, name := range slices.Sorted(maps.Keys(overrides)) {
		info := c.graph.Lookup(name)
		if info == nil {
			c.unknownType(diags, name)
			continue
		}

		c.overrides[info.ID] = overrides[name]
	}
}

func (c *checker) checkPolymorphism(
	diags *diagnostic.Diagnostics,
	entries []config.Polymorphism,
	dealer *Dealer[analyze.TypeID, *analyze.TypePath],
) []*Contract {
	code := diagnostic.Code(contracterr.InvalidPolymorphismConfiguration)

	var out []*Contract

	for _, p := range entries {
		if p.Base == "" {
			continue
		}

		base := c.graph.Lookup(p.Base)
		if base == nil {
			c.unknownType(diags, p.Base)
			continue
		}

		baseName := base.ID.Short()

		iface, ok := base.GoType.Underlying().(*types.Interface)
		if !ok {
			diags.AddError(code, "base type must be an interface", baseName, "")
			continue
		}

		c.bases[base.ID] = true

		if p.UnknownDiscriminator == config.PolicyFallBackToBase && !iface.Empty() {
			diags.AddError(code, "falling back to the base type needs the empty interface", baseName, "")
		}

		contract := &Contract{Type: baseName, Path: baseName, Strategy: converter.StrategyObject}

		for _, disc := range slices.Sorted(maps.Keys(p.Derived)) {
			derived := c.graph.Lookup(p.Derived[disc])
			if derived == nil {
				c.unknownType(diags, p.Derived[disc])
				continue
			}

			name := derived.ID.Short()

			switch {
			case derived.Kind != analyze.TypeKindStruct:
				diags.AddError(code, fmt.Sprintf("derived type %s is not a struct", name), baseName, disc)
			case !analyze.Implements(derived.GoType, base.GoType):
				diags.AddError(code, fmt.Sprintf("derived type %s does not implement %s", name, baseName), baseName, disc)
			default:
				contract.Derived = append(contract.Derived, disc+"="+name)
				dealer.Needs(derived.ID, analyze.NewTypePath(baseName).Field(disc))
			}
		}

		out = append(out, contract)
	}

	return out
}

func (c *checker) check(n need) result {
	info := c.graph.Types[n.id]
	name := n.id.Short()

	r := result{contract: &Contract{Type: name, Path: n.path.String()}}

	if info.Generic {
		r.diags.AddError(diagnostic.Code(contracterr.InvalidTypeForSerialization),
			"generic types have no contract until instantiated", name, "")
		return r
	}

	strategy, _, _, err := analyze.Classify(info.GoType)
	if err != nil {
		r.diags.AddFailure(err, diagnostic.Code(contracterr.UnsupportedType), name)
		return r
	}

	r.contract.Strategy = strategy

	if strategy != converter.StrategyObject || types.IsInterface(info.GoType) {
		return r
	}

	members, err := c.static.Members(info.GoType)
	if err != nil {
		r.diags.AddFailure(err, diagnostic.Code(contracterr.InvalidTypeForSerialization), name)
		return r
	}

	override := c.overrides[n.id]
	c.patch(&r.diags, name, members, override.Members)

	table, err := resolve.ResolveProperties(name, members, resolve.Config[string]{
		Policy:           c.policy,
		IsExtensionShape: c.static.IsExtensionShape,
	})
	if err != nil {
		r.diags.AddFailure(err, diagnostic.Code(contracterr.DuplicatePropertyName), name)
		return r
	}

	r.contract.Properties = table.Active()
	r.contract.Extension = table.Extension()

	for _, p := range table.Active() {
		// a registered converter decides the shape at runtime
		if p.Converter != "" {
			continue
		}

		if t, ok := c.static.Type(p.Type); ok {
			c.walk(&r, n.path.Field(p.MemberName), name, p.MemberName, t)
		}
	}

	if override.Constructor != nil {
		c.checkConstructor(&r, info, table, override.Constructor)
	}

	c.logger.Debug("contract checked",
		"type", name,
		"properties", len(r.contract.Properties),
		"parameters", len(r.contract.Parameters))

	return r
}

func (c *checker) patch(diags *diagnostic.Diagnostics, typ string, members []resolve.Member[string], patches map[string]config.Member) {
	names := make([]string, 0, len(members))
	for _, m := range members {
		names = append(names, m.Name)
	}

	for _, member := range slices.Sorted(maps.Keys(patches)) {
		i := slices.Index(names, member)
		if i < 0 {
			msg := fmt.Sprintf("%s has no member %s", typ, member)
			if s, ok := match.Suggest(member, names); ok {
				msg += fmt.Sprintf(", did you mean %q?", s)
			}

			diags.AddWarning(CodeUnknownMember, msg, typ, member)

			continue
		}

		m := patches[member]
		discover.Patch{
			WireName:  m.Name,
			Ignore:    m.Ignore,
			Include:   m.Include,
			Converter: m.Converter,
			Order:     m.Order,
		}.Apply(&members[i].Effect)
	}
}

// walk follows a member type through collections to the contracts it
// needs.
func (c *checker) walk(r *result, path *analyze.TypePath, owner, member string, t types.Type) {
	strategy, elem, _, err := analyze.Classify(t)
	if err != nil {
		r.diags.AddError(diagnostic.Code(contracterr.KindOf(err)), fmt.Sprintf("%s: %v", path, err), owner, member)
		return
	}

	switch strategy {
	case converter.StrategyEnumerable:
		c.walk(r, path.Elem(), owner, member, elem)

	case converter.StrategyDictionary:
		c.walk(r, path.Value(), owner, member, elem)

	case converter.StrategyObject:
		named := namedOf(t)
		if named == nil || named.Obj().Pkg() == nil || named.TypeArgs().Len() > 0 {
			return
		}

		id := analyze.TypeID{PkgPath: named.Obj().Pkg().Path(), Name: named.Obj().Name()}

		if types.IsInterface(named) {
			if !c.bases[id] {
				r.diags.AddWarning(CodeUndeclaredInterface,
					fmt.Sprintf("%s: %s has no polymorphism declaration, decoding it fails", path, id.Short()), owner, member)
			}

			return
		}

		if _, loaded := c.graph.Types[id]; loaded {
			r.needs = append(r.needs, need{id: id, path: path})
		}
	}
}

func namedOf(t types.Type) *types.Named {
	for {
		switch tt := types.Unalias(t).(type) {
		case *types.Pointer:
			t = tt.Elem()
		case *types.Named:
			return tt
		default:
			return nil
		}
	}
}

func (c *checker) checkConstructor(r *result, info *analyze.TypeInfo, table *resolve.PropertyTable[string], ctor *config.Constructor) {
	name := info.ID.Short()

	named, ok := info.GoType.(*types.Named)
	if !ok {
		return
	}

	specs := make([]discover.ParamSpec, 0, len(ctor.Params))
	for _, p := range ctor.Params {
		if p.HasDefault {
			specs = append(specs, discover.ParamDefault(p.Name, p.Default))
		} else {
			specs = append(specs, discover.Param(p.Name))
		}
	}

	descs, err := c.static.Constructor(named, ctor.Func, specs...)
	if err != nil {
		r.diags.AddFailure(err, diagnostic.Code(contracterr.InvalidConstructor), name)
		return
	}

	params, err := resolve.BindConstructor(table, descs)
	if err != nil {
		r.diags.AddFailure(err, diagnostic.Code(contracterr.AmbiguousConstructorBinding), name)
		return
	}

	r.contract.Parameters = params

	var members []string
	for _, p := range table.All() {
		members = append(members, p.MemberName)
	}

	for _, p := range params {
		if p.Property != nil || p.HasDefault {
			continue
		}

		if prop := memberFold(table, p.Name); prop != nil {
			r.diags.AddWarning(CodeUnboundParameter, c.typeMismatch(p, prop), name, p.Name)
			continue
		}

		msg := fmt.Sprintf("parameter %s (%s) matches no member, the constructor receives its zero value", p.Name, p.Type)
		if s, ok := match.Suggest(p.Name, members); ok {
			msg += fmt.Sprintf(", did you mean %q?", s)
		}

		r.diags.AddWarning(CodeUnboundParameter, msg, name, p.Name)
	}
}

func (c *checker) typeMismatch(p *resolve.Parameter[string], prop *resolve.Property[string]) string {
	grade := match.Incompatible

	pt, ok1 := c.static.Type(p.Type)
	mt, ok2 := c.static.Type(prop.Type)
	if ok1 && ok2 {
		grade = match.Compare(mt, pt)
	}

	return fmt.Sprintf("parameter %s (%s) matches member %s by name but not by type %s (%s)",
		p.Name, p.Type, prop.MemberName, prop.Type, strings.ToLower(grade.String()))
}

func memberFold(table *resolve.PropertyTable[string], name string) *resolve.Property[string] {
	for _, p := range table.All() {
		if !p.ExtensionData && naming.EqualFold(p.MemberName, name) {
			return p
		}
	}

	return nil
}
