package contract

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"typecontract/contracterr"
	"typecontract/converter"
	"typecontract/polymorph"
	"typecontract/resolve"
)

// EnsureConfigured runs the configure pass unless it already completed.
// Concurrent callers block until the owner of the pass finishes. A failed
// pass publishes nothing, so the next call runs it again and fails the same
// way.
func (c *Contract) EnsureConfigured() error {
	return c.EnsureConfiguredContext(context.Background())
}

// EnsureConfiguredContext is EnsureConfigured with ctx as the parent of the
// configure span.
func (c *Contract) EnsureConfiguredContext(ctx context.Context) error {
	if c.IsConfigured() {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.IsConfigured() {
		return nil
	}

	_, span := c.opts.tracer.Start(ctx, "typecontract.configure")
	defer span.End()

	start := time.Now()
	p := &pass{}
	defer p.release()

	s, err := c.configure(p)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.opts.logger.Warn("contract configuration failed", "type", c.typ, "error", err)

		return err
	}

	p.publish()
	c.current.Store(s)

	span.SetAttributes(
		attribute.String("type", c.typ.String()),
		attribute.String("kind", c.kind.String()),
		attribute.Int("properties", len(s.properties)),
	)
	c.opts.logger.Debug("contract configured",
		"type", c.typ,
		"properties", len(s.properties),
		"parameters", len(s.parameters),
		"children", p.children,
		"duration", time.Since(start))

	return nil
}

// pass tracks one top-level configure pass. Children configured by the
// pass stay locked and unpublished until the top-level contract succeeds;
// a failure anywhere discards all of them.
type pass struct {
	children int
	held     []*Contract
	done     []pending
}

type pending struct {
	c *Contract
	s *snapshot
}

// visit configures a child contract as part of a pass. Only TryLock is used:
// a child locked by this pass (a cycle) or by another goroutine is left to
// its owner, and consumers re-validate it on access. No goroutine ever
// waits for a lock while holding one.
func (p *pass) visit(ch *Contract) error {
	if ch.IsConfigured() || !ch.mu.TryLock() {
		return nil
	}

	p.held = append(p.held, ch)

	if ch.IsConfigured() {
		return nil
	}

	p.children++

	s, err := ch.configure(p)
	if err != nil {
		return err
	}

	p.done = append(p.done, pending{c: ch, s: s})

	return nil
}

func (p *pass) publish() {
	for _, d := range p.done {
		d.c.current.Store(d.s)
	}
}

func (p *pass) release() {
	for _, ch := range slices.Backward(p.held) {
		ch.mu.Unlock()
	}
}

// configure runs the pass with c.mu held and returns the snapshot to
// publish. Nothing on c changes.
func (c *Contract) configure(p *pass) (*snapshot, error) {
	s := &snapshot{
		byWire:         make(map[string]*Property),
		numberHandling: c.staged.numberHandling,
		unmapped:       c.staged.unmapped,
	}

	if cz, ok := c.res.Converter.(converter.Customizer); ok {
		if err := cz.CustomizeContract(c.typ, customizing{s}); err != nil {
			return nil, fmt.Errorf("customize %s: %w", c.typ, err)
		}
	}

	var children []*Contract

	if c.kind == KindObject {
		table, err := c.buildTable(c.staged.extra)
		if err != nil {
			return nil, err
		}

		table.Freeze()

		wrapped := make(map[*resolve.Property[reflect.Type]]*Property, table.Len())

		for _, rp := range table.Active() {
			prop, err := c.newProperty(rp)
			if err != nil {
				return nil, err
			}

			wrapped[rp] = prop
			s.properties = append(s.properties, prop)
			s.byWire[prop.WireName] = prop
		}

		if ext := table.Extension(); ext != nil {
			prop, err := c.newProperty(ext)
			if err != nil {
				return nil, err
			}

			s.extension = prop
		}

		if err := c.bindConstructor(s, table, wrapped); err != nil {
			return nil, err
		}

		for _, prop := range slices.Concat(s.properties, []*Property{s.extension}) {
			if prop == nil {
				continue
			}

			if ch := prop.child.Load(); ch != nil {
				children = append(children, ch)
			}
		}
	}

	resolver, err := c.resolvePolymorphism()
	if err != nil {
		return nil, err
	}

	s.polymorphism = resolver

	if resolver != nil {
		for _, d := range resolver.Derived() {
			ch, err := c.opts.Contract(d.Type)
			if err != nil {
				return nil, err
			}

			children = append(children, ch)
		}
	}

	for _, t := range []reflect.Type{c.res.Elem, c.res.Key} {
		if t == nil {
			continue
		}

		ch, err := c.opts.Contract(t)
		if err != nil {
			return nil, err
		}

		children = append(children, ch)
	}

	for _, ch := range children {
		if err := p.visit(ch); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// buildTable resolves the property table from discovered members followed
// by extra. The table is returned unfrozen.
func (c *Contract) buildTable(extra []resolve.Member[reflect.Type]) (*resolve.PropertyTable[reflect.Type], error) {
	members, err := c.opts.provider.Members(c.typ)
	if err != nil {
		return nil, err
	}

	table := resolve.NewPropertyTable(c.typ.String(), resolve.Config[reflect.Type]{
		Policy:           c.opts.policy,
		IsExtensionShape: converter.IsExtensionDataShape,
		TypeName:         reflect.Type.String,
	})

	for _, m := range append(members, extra...) {
		if err := table.Add(m); err != nil {
			return nil, err
		}
	}

	return table, nil
}

func (c *Contract) newProperty(rp *resolve.Property[reflect.Type]) (*Property, error) {
	res, err := c.opts.converters.ResolveMember(rp.Type, rp.Converter)
	if err != nil {
		return nil, fmt.Errorf("property %q of %s: %w", rp.WireName, c.typ, err)
	}

	prop := &Property{Property: rp, owner: c, res: res}

	// a custom converter owns the member's shape
	if !res.Custom {
		ch, err := c.opts.Contract(rp.Type)
		if err != nil {
			return nil, fmt.Errorf("property %q of %s: %w", rp.WireName, c.typ, err)
		}

		prop.child.Store(ch)
	}

	return prop, nil
}

func (c *Contract) bindConstructor(
	s *snapshot,
	table *resolve.PropertyTable[reflect.Type],
	wrapped map[*resolve.Property[reflect.Type]]*Property,
) error {
	ctor := c.staged.ctor
	if ctor == nil {
		var err error

		ctor, err = c.opts.provider.Constructor(c.typ)
		if err != nil {
			return err
		}
	}

	if ctor == nil {
		return nil
	}

	if ctor.Type != c.typ {
		return contracterr.New(contracterr.InvalidConstructor, c.typ.String(), ctor.Name,
			fmt.Sprintf("constructor builds %s", ctor.Type))
	}

	params, err := resolve.BindConstructor(table, ctor.Params)
	if err != nil {
		return err
	}

	s.ctor = ctor
	s.parameters = make([]*Parameter, len(params))

	for i, rp := range params {
		s.parameters[i] = &Parameter{Parameter: rp}
		if rp.Property != nil {
			s.parameters[i].property = wrapped[rp.Property]
		}
	}

	return nil
}

func (c *Contract) resolvePolymorphism() (*polymorph.Resolver, error) {
	if c.staged.polymorphism != nil {
		return polymorph.New(*c.staged.polymorphism)
	}

	cfg, src := polymorph.Find(c.opts.polymorphism, c.typ)
	if src == polymorph.SourceNone {
		return nil, nil
	}

	return polymorph.New(cfg)
}

// customizing is the view of a contract handed to a converter's
// customization hook. Changes land in the snapshot under construction.
type customizing struct{ s *snapshot }

func (v customizing) SetNumberHandling(h converter.NumberHandling) error {
	v.s.numberHandling = h
	return nil
}
