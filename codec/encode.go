package codec

import (
	"cmp"
	"encoding"
	"fmt"
	"reflect"
	"slices"
	"strconv"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"typecontract/contract"
	"typecontract/converter"
)

type encoder struct {
	enc *jsontext.Encoder
}

func (e *encoder) value(v reflect.Value, c *contract.Contract, nh converter.NumberHandling) error {
	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return e.enc.WriteToken(jsontext.Null)
		}

		return e.dynamic(v.Elem(), c, nh)

	case reflect.Pointer:
		if v.IsNil() {
			return e.enc.WriteToken(jsontext.Null)
		}

		return e.value(v.Elem(), c, nh)
	}

	if vc, ok := c.Converter().(converter.ValueConverter); ok {
		b, err := vc.MarshalValue(v)
		if err != nil {
			return fmt.Errorf("codec: marshal %s: %w", c.Type(), err)
		}

		return e.enc.WriteValue(jsontext.Value(b))
	}

	if err := c.EnsureConfigured(); err != nil {
		return err
	}

	if h, _ := c.NumberHandling(); h != 0 {
		nh |= h
	}

	switch c.Kind() {
	case contract.KindObject:
		return e.object(v, c, "", "")
	case contract.KindEnumerable:
		return e.array(v, c, nh)
	case contract.KindDictionary:
		return e.dictionary(v, c, nh)
	default:
		return e.scalar(v, nh)
	}
}

// dynamic encodes the value held by an interface whose declared contract
// is base.
func (e *encoder) dynamic(v reflect.Value, base *contract.Contract, nh converter.NumberHandling) error {
	r, err := base.Polymorphism()
	if err != nil {
		return err
	}

	c, err := base.Options().Contract(v.Type())
	if err != nil {
		return err
	}

	v = addressable(v)

	if r == nil {
		return e.value(v, c, nh)
	}

	disc, ok, err := r.Discriminator(v.Type())
	if err != nil {
		return err
	}

	if !ok {
		return e.value(v, c, nh)
	}

	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return e.enc.WriteToken(jsontext.Null)
		}

		v = v.Elem()
	}

	if err := c.EnsureConfigured(); err != nil {
		return err
	}

	return e.object(v, c, r.Property(), disc)
}

func (e *encoder) object(v reflect.Value, c *contract.Contract, discProperty, disc string) error {
	props, err := c.Properties()
	if err != nil {
		return err
	}

	ext, err := c.ExtensionData()
	if err != nil {
		return err
	}

	v = addressable(v)

	if err := e.enc.WriteToken(jsontext.BeginObject); err != nil {
		return err
	}

	if discProperty != "" {
		if err := e.enc.WriteToken(jsontext.String(discProperty)); err != nil {
			return err
		}

		if err := e.enc.WriteToken(jsontext.String(disc)); err != nil {
			return err
		}
	}

	for _, p := range props {
		fv, ok := p.Get(v)
		if !ok || (p.OmitEmpty && isEmpty(fv)) {
			continue
		}

		if err := e.enc.WriteToken(jsontext.String(p.WireName)); err != nil {
			return err
		}

		if err := e.property(fv, p); err != nil {
			return fmt.Errorf("property %q of %s: %w", p.WireName, c.Type(), err)
		}
	}

	if ext != nil {
		if err := e.extension(v, ext); err != nil {
			return err
		}
	}

	return e.enc.WriteToken(jsontext.EndObject)
}

func (e *encoder) property(v reflect.Value, p *contract.Property) error {
	res := p.Resolution()
	if vc, ok := res.Converter.(converter.ValueConverter); ok && res.Custom {
		b, err := vc.MarshalValue(v)
		if err != nil {
			return err
		}

		return e.enc.WriteValue(jsontext.Value(b))
	}

	child, err := p.Contract()
	if err != nil {
		return err
	}

	return e.value(v, child, p.EffectiveNumberHandling())
}

func (e *encoder) extension(v reflect.Value, ext *contract.Property) error {
	m, ok := ext.Get(v)
	if ok && m.Kind() == reflect.Pointer {
		ok = !m.IsNil()
		if ok {
			m = m.Elem()
		}
	}

	if !ok || m.IsNil() {
		return nil
	}

	child, err := ext.Contract()
	if err != nil {
		return err
	}

	elem, err := child.ElementContract()
	if err != nil {
		return err
	}

	for _, k := range sortedKeys(m) {
		if err := e.enc.WriteToken(jsontext.String(k.String())); err != nil {
			return err
		}

		mv := m.MapIndex(k)
		if mv.Kind() == reflect.Slice {
			if err := e.raw(mv.Bytes()); err != nil {
				return err
			}

			continue
		}

		if err := e.value(mv, elem, 0); err != nil {
			return err
		}
	}

	return nil
}

func (e *encoder) raw(b []byte) error {
	if len(b) == 0 {
		return e.enc.WriteToken(jsontext.Null)
	}

	return e.enc.WriteValue(jsontext.Value(b))
}

func (e *encoder) array(v reflect.Value, c *contract.Contract, nh converter.NumberHandling) error {
	if v.Kind() == reflect.Slice && v.IsNil() {
		return e.enc.WriteToken(jsontext.Null)
	}

	elem, err := c.ElementContract()
	if err != nil {
		return err
	}

	if err := e.enc.WriteToken(jsontext.BeginArray); err != nil {
		return err
	}

	for i := range v.Len() {
		if err := e.value(v.Index(i), elem, nh); err != nil {
			return err
		}
	}

	return e.enc.WriteToken(jsontext.EndArray)
}

func (e *encoder) dictionary(v reflect.Value, c *contract.Contract, nh converter.NumberHandling) error {
	if v.IsNil() {
		return e.enc.WriteToken(jsontext.Null)
	}

	elem, err := c.ElementContract()
	if err != nil {
		return err
	}

	type entry struct {
		name string
		val  reflect.Value
	}

	entries := make([]entry, 0, v.Len())

	iter := v.MapRange()
	for iter.Next() {
		name, err := formatKey(iter.Key())
		if err != nil {
			return err
		}

		entries = append(entries, entry{name: name, val: iter.Value()})
	}

	slices.SortFunc(entries, func(a, b entry) int { return cmp.Compare(a.name, b.name) })

	if err := e.enc.WriteToken(jsontext.BeginObject); err != nil {
		return err
	}

	for _, en := range entries {
		if err := e.enc.WriteToken(jsontext.String(en.name)); err != nil {
			return err
		}

		if err := e.value(en.val, elem, nh); err != nil {
			return err
		}
	}

	return e.enc.WriteToken(jsontext.EndObject)
}

func (e *encoder) scalar(v reflect.Value, nh converter.NumberHandling) error {
	if !v.CanInterface() {
		return fmt.Errorf("codec: cannot encode unexported value of %s", v.Type())
	}

	b, err := json.Marshal(v.Interface(), json.StringifyNumbers(isNumber(v.Type()) && nh.Has(converter.NumberWriteAsString)))
	if err != nil {
		return err
	}

	return e.enc.WriteValue(jsontext.Value(b))
}

func formatKey(k reflect.Value) (string, error) {
	if tm, ok := k.Interface().(encoding.TextMarshaler); ok && k.Kind() != reflect.String {
		b, err := tm.MarshalText()
		return string(b), err
	}

	switch k.Kind() {
	case reflect.String:
		return k.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(k.Uint(), 10), nil
	}

	return "", fmt.Errorf("codec: unsupported map key type %s", k.Type())
}

func sortedKeys(m reflect.Value) []reflect.Value {
	keys := m.MapKeys()
	slices.SortFunc(keys, func(a, b reflect.Value) int { return cmp.Compare(a.String(), b.String()) })

	return keys
}

// addressable returns v or an addressable copy of it, so that members
// included despite being unexported can be read.
func addressable(v reflect.Value) reflect.Value {
	if v.CanAddr() || v.Kind() != reflect.Struct {
		return v
	}

	cp := reflect.New(v.Type()).Elem()
	cp.Set(v)

	return cp
}

func isNumber(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// isEmpty reports the values omitempty drops.
func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return v.IsZero()
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	default:
		return false
	}
}
