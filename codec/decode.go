package codec

import (
	"bytes"
	"encoding"
	"fmt"
	"reflect"
	"strconv"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"typecontract/contract"
	"typecontract/contracterr"
	"typecontract/converter"
	"typecontract/discover"
)

type decoder struct {
	dec *jsontext.Decoder
}

// value decodes the next JSON value into v, which must be settable.
func (d *decoder) value(v reflect.Value, c *contract.Contract, nh converter.NumberHandling) error {
	if d.dec.PeekKind() == 'n' {
		if _, err := d.dec.ReadToken(); err != nil {
			return err
		}

		v.SetZero()

		return nil
	}

	switch v.Kind() {
	case reflect.Interface:
		return d.dynamic(v, c)

	case reflect.Pointer:
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}

		return d.value(v.Elem(), c, nh)
	}

	if vc, ok := c.Converter().(converter.ValueConverter); ok {
		raw, err := d.dec.ReadValue()
		if err != nil {
			return err
		}

		if err := vc.UnmarshalValue(bytes.Clone(raw), v); err != nil {
			return fmt.Errorf("codec: unmarshal %s: %w", c.Type(), err)
		}

		return nil
	}

	if err := c.EnsureConfigured(); err != nil {
		return err
	}

	if h, _ := c.NumberHandling(); h != 0 {
		nh |= h
	}

	switch c.Kind() {
	case contract.KindObject:
		return d.object(v, c, "")
	case contract.KindEnumerable:
		return d.array(v, c, nh)
	case contract.KindDictionary:
		return d.dictionary(v, c, nh)
	default:
		return d.scalar(v, nh)
	}
}

// dynamic decodes into an interface value: through the polymorphic
// configuration of base when there is one, generically into the empty
// interface otherwise.
func (d *decoder) dynamic(v reflect.Value, base *contract.Contract) error {
	raw, err := d.dec.ReadValue()
	if err != nil {
		return err
	}

	raw = bytes.Clone(raw)

	r, err := base.Polymorphism()
	if err != nil {
		return err
	}

	if r == nil {
		if v.Type().NumMethod() != 0 {
			return contracterr.New(contracterr.UnsupportedType, v.Type().String(), "",
				"interface has no polymorphic configuration to decode with")
		}

		return generic(raw, v)
	}

	disc, err := discriminator(raw, r.Property())
	if err != nil {
		return err
	}

	t, err := r.Resolve(disc)
	if err != nil {
		return err
	}

	if t == r.Base() {
		return generic(raw, v)
	}

	c, err := base.Options().Contract(t)
	if err != nil {
		return err
	}

	ptr := reflect.New(t)
	sub := &decoder{dec: jsontext.NewDecoder(bytes.NewReader(raw))}

	if err := sub.object(ptr.Elem(), c, r.Property()); err != nil {
		return err
	}

	if t.Implements(v.Type()) {
		v.Set(ptr.Elem())
	} else {
		v.Set(ptr)
	}

	return nil
}

func generic(raw []byte, v reflect.Value) error {
	var x any
	if err := json.Unmarshal(raw, &x); err != nil {
		return err
	}

	if x == nil {
		v.SetZero()
	} else {
		v.Set(reflect.ValueOf(x))
	}

	return nil
}

// discriminator finds the string member named property in a raw object.
func discriminator(raw []byte, property string) (string, error) {
	dec := jsontext.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.ReadToken()
	if err != nil {
		return "", err
	}

	if tok.Kind() != '{' {
		return "", fmt.Errorf("codec: polymorphic value is a JSON %s, not an object", tok.Kind())
	}

	for dec.PeekKind() != '}' {
		name, err := dec.ReadToken()
		if err != nil {
			return "", err
		}

		if name.String() != property {
			if err := dec.SkipValue(); err != nil {
				return "", err
			}

			continue
		}

		val, err := dec.ReadToken()
		if err != nil {
			return "", err
		}

		if val.Kind() != '"' {
			return "", fmt.Errorf("codec: discriminator %q must be a string", property)
		}

		return val.String(), nil
	}

	return "", nil
}

func (d *decoder) expect(kind jsontext.Kind, t reflect.Type) error {
	tok, err := d.dec.ReadToken()
	if err != nil {
		return err
	}

	if tok.Kind() != kind {
		return fmt.Errorf("codec: cannot decode JSON %s into %s", tok.Kind(), t)
	}

	return nil
}

// object decodes a JSON object into v. Members named skip are ignored; it
// carries the discriminator of a polymorphic value.
func (d *decoder) object(v reflect.Value, c *contract.Contract, skip string) error {
	ext, err := c.ExtensionData()
	if err != nil {
		return err
	}

	params, err := c.Parameters()
	if err != nil {
		return err
	}

	ctor, err := c.Constructor()
	if err != nil {
		return err
	}

	unmapped, err := c.UnmappedMemberHandling()
	if err != nil {
		return err
	}

	if err := d.expect('{', c.Type()); err != nil {
		return err
	}

	// with a constructor, members are collected in scratch and the value is
	// built once the object is complete
	target := v
	if ctor != nil {
		target = reflect.New(c.Type()).Elem()
	}

	var seen []*contract.Property

	for d.dec.PeekKind() != '}' {
		tok, err := d.dec.ReadToken()
		if err != nil {
			return err
		}

		name := tok.String()

		if skip != "" && name == skip {
			if err := d.dec.SkipValue(); err != nil {
				return err
			}

			continue
		}

		p, ok, err := c.Property(name)
		if err != nil {
			return err
		}

		switch {
		case ok:
			if err := d.property(target, p); err != nil {
				return fmt.Errorf("property %q of %s: %w", name, c.Type(), err)
			}

			seen = append(seen, p)

		case ext != nil:
			if err := d.extension(target, ext, name); err != nil {
				return err
			}

		case unmapped == contract.UnmappedDisallow:
			return contracterr.New(contracterr.UnmappedMember, c.Type().String(), name, "no property or extension data member")

		default:
			if err := d.dec.SkipValue(); err != nil {
				return err
			}
		}
	}

	if _, err := d.dec.ReadToken(); err != nil {
		return err
	}

	if ctor == nil {
		return nil
	}

	return construct(v, target, ctor, params, seen, ext)
}

func (d *decoder) property(target reflect.Value, p *contract.Property) error {
	tmp := reflect.New(p.Type).Elem()

	res := p.Resolution()
	if vc, ok := res.Converter.(converter.ValueConverter); ok && res.Custom {
		raw, err := d.dec.ReadValue()
		if err != nil {
			return err
		}

		if err := vc.UnmarshalValue(bytes.Clone(raw), tmp); err != nil {
			return err
		}
	} else {
		child, err := p.Contract()
		if err != nil {
			return err
		}

		if cur, ok := p.Get(target); ok && cur.Kind() == reflect.Map && !cur.IsNil() {
			tmp.Set(cur) // merge into existing maps
		}

		if err := d.value(tmp, child, p.EffectiveNumberHandling()); err != nil {
			return err
		}
	}

	return p.Set(target, tmp)
}

func (d *decoder) extension(target reflect.Value, ext *contract.Property, name string) error {
	raw, err := d.dec.ReadValue()
	if err != nil {
		return err
	}

	m, err := extensionMap(target, ext)
	if err != nil {
		return err
	}

	elemType := m.Type().Elem()

	var val reflect.Value
	if elemType.Kind() == reflect.Slice {
		val = reflect.ValueOf(bytes.Clone(raw)).Convert(elemType)
	} else {
		var x any
		if err := json.Unmarshal(raw, &x); err != nil {
			return err
		}

		val = reflect.New(elemType).Elem()
		if x != nil {
			val.Set(reflect.ValueOf(x))
		}
	}

	m.SetMapIndex(reflect.ValueOf(name).Convert(m.Type().Key()), val)

	return nil
}

// extensionMap returns the extension data map of target, allocating it.
func extensionMap(target reflect.Value, ext *contract.Property) (reflect.Value, error) {
	f, ok := ext.Get(target)
	if ok && f.Kind() == reflect.Pointer && !f.IsNil() {
		f = f.Elem()
	}

	if ok && f.Kind() == reflect.Map && !f.IsNil() {
		return f, nil
	}

	mt := ext.Type
	ptr := mt.Kind() == reflect.Pointer
	if ptr {
		mt = mt.Elem()
	}

	m := reflect.MakeMap(mt)

	x := m
	if ptr {
		x = reflect.New(mt)
		x.Elem().Set(m)
	}

	if err := ext.Set(target, x); err != nil {
		return reflect.Value{}, err
	}

	return m, nil
}

// construct calls the constructor with the values collected in scratch and
// copies the remaining members over.
func construct(
	v, scratch reflect.Value,
	ctor *discover.Constructor,
	params []*contract.Parameter,
	seen []*contract.Property,
	ext *contract.Property,
) error {
	isSeen := make(map[*contract.Property]bool, len(seen))
	for _, p := range seen {
		isSeen[p] = true
	}

	bound := make(map[*contract.Property]bool, len(params))
	args := make([]reflect.Value, len(params))

	for i, prm := range params {
		bp := prm.BoundProperty()
		if bp == nil || !isSeen[bp] {
			args[i] = ctor.Arg(i)
			continue
		}

		val, ok := bp.Get(scratch)
		if !ok {
			args[i] = ctor.Arg(i)
			continue
		}

		args[i] = val
		bound[bp] = true
	}

	built, err := ctor.Call(args)
	if err != nil {
		return err
	}

	result := reflect.New(built.Type()).Elem()
	result.Set(built)

	for _, p := range seen {
		if bound[p] {
			continue
		}

		val, ok := p.Get(scratch)
		if !ok {
			continue
		}

		if err := p.Set(result, val); err != nil {
			return err
		}
	}

	if ext != nil {
		if val, ok := ext.Get(scratch); ok && !val.IsZero() {
			if err := ext.Set(result, val); err != nil {
				return err
			}
		}
	}

	v.Set(result)

	return nil
}

func (d *decoder) array(v reflect.Value, c *contract.Contract, nh converter.NumberHandling) error {
	elem, err := c.ElementContract()
	if err != nil {
		return err
	}

	if err := d.expect('[', c.Type()); err != nil {
		return err
	}

	if v.Kind() == reflect.Slice {
		out := reflect.MakeSlice(v.Type(), 0, 0)

		for d.dec.PeekKind() != ']' {
			item := reflect.New(v.Type().Elem()).Elem()
			if err := d.value(item, elem, nh); err != nil {
				return err
			}

			out = reflect.Append(out, item)
		}

		v.Set(out)
	} else {
		i := 0

		for d.dec.PeekKind() != ']' {
			if i >= v.Len() {
				if err := d.dec.SkipValue(); err != nil {
					return err
				}

				continue
			}

			if err := d.value(v.Index(i), elem, nh); err != nil {
				return err
			}

			i++
		}

		for ; i < v.Len(); i++ {
			v.Index(i).SetZero()
		}
	}

	_, err = d.dec.ReadToken()

	return err
}

func (d *decoder) dictionary(v reflect.Value, c *contract.Contract, nh converter.NumberHandling) error {
	elem, err := c.ElementContract()
	if err != nil {
		return err
	}

	if err := d.expect('{', c.Type()); err != nil {
		return err
	}

	if v.IsNil() {
		v.Set(reflect.MakeMap(v.Type()))
	}

	for d.dec.PeekKind() != '}' {
		tok, err := d.dec.ReadToken()
		if err != nil {
			return err
		}

		key, err := parseKey(tok.String(), v.Type().Key())
		if err != nil {
			return err
		}

		item := reflect.New(v.Type().Elem()).Elem()
		if err := d.value(item, elem, nh); err != nil {
			return err
		}

		v.SetMapIndex(key, item)
	}

	_, err = d.dec.ReadToken()

	return err
}

func (d *decoder) scalar(v reflect.Value, nh converter.NumberHandling) error {
	raw, err := d.dec.ReadValue()
	if err != nil {
		return err
	}

	quoted := isNumber(v.Type()) && len(raw) > 0 && raw[0] == '"'
	if quoted && !nh.Has(converter.NumberAllowReadingFromString) {
		return fmt.Errorf("codec: cannot decode JSON string into %s", v.Type())
	}

	return json.Unmarshal(raw, v.Addr().Interface(), json.StringifyNumbers(quoted))
}

func parseKey(s string, t reflect.Type) (reflect.Value, error) {
	if reflect.PointerTo(t).Implements(reflect.TypeFor[encoding.TextUnmarshaler]()) && t.Kind() != reflect.String {
		k := reflect.New(t)
		if err := k.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
			return reflect.Value{}, err
		}

		return k.Elem(), nil
	}

	switch t.Kind() {
	case reflect.String:
		return reflect.ValueOf(s).Convert(t), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("codec: map key %q: %w", s, err)
		}

		return reflect.ValueOf(n).Convert(t), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("codec: map key %q: %w", s, err)
		}

		return reflect.ValueOf(n).Convert(t), nil
	}

	return reflect.Value{}, fmt.Errorf("codec: unsupported map key type %s", t)
}
