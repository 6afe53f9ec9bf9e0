package converter

import (
	"encoding"
	"fmt"
	"reflect"
	"sync"

	"typecontract/contracterr"
	"typecontract/primitive"
)

// Resolution is the outcome of a converter lookup.
type Resolution struct {
	Converter Converter
	Strategy  Strategy
	Primitive primitive.KindEnum // scalar kind for StrategyValue built-ins
	Elem      reflect.Type       // element type for StrategyEnumerable and StrategyDictionary
	Key       reflect.Type       // key type for StrategyDictionary
	Custom    bool               // resolved to a user-registered converter
}

// Factory produces a converter for types it recognizes.
type Factory func(t reflect.Type) (Converter, bool)

// Registry maps types to converters. User registrations are consulted
// before the built-in classification. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	byType    map[reflect.Type]Converter
	byName    map[string]Converter
	factories []Factory
}

// NewRegistry creates an empty registry backed by the built-in classification.
func NewRegistry() *Registry {
	return &Registry{
		byType: make(map[reflect.Type]Converter),
		byName: make(map[string]Converter),
	}
}

// Register associates c with exactly t.
func (r *Registry) Register(t reflect.Type, c Converter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byType[t] = c
}

// RegisterNamed makes c available as a per-member override under name.
func (r *Registry) RegisterNamed(name string, c Converter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byName[name] = c
}

// RegisterFactory appends f; factories are tried in registration order
// after exact-type registrations.
func (r *Registry) RegisterFactory(f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories = append(r.factories, f)
}

// Named returns the converter registered under name.
func (r *Registry) Named(name string) (Converter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byName[name]
	return c, ok
}

// Resolve returns the converter and strategy for t.
func (r *Registry) Resolve(t reflect.Type) (Resolution, error) {
	return r.ResolveMember(t, "")
}

// ResolveMember resolves the converter for a member of type t, honouring a
// per-member override name before the type-level default.
func (r *Registry) ResolveMember(t reflect.Type, override string) (Resolution, error) {
	if t == nil {
		return Resolution{}, contracterr.New(contracterr.UnsupportedType, "<nil>", "", "")
	}

	if override != "" {
		c, ok := r.Named(override)
		if !ok {
			return Resolution{}, contracterr.New(contracterr.UnsupportedType, t.String(), "",
				fmt.Sprintf("converter %q is not registered", override))
		}

		return r.custom(t, c)
	}

	if c, ok := r.lookup(t); ok {
		return r.custom(t, c)
	}

	return Classify(t)
}

func (r *Registry) lookup(t reflect.Type) (Converter, bool) {
	if r == nil {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if c, ok := r.byType[t]; ok {
		return c, true
	}

	for _, f := range r.factories {
		if c, ok := f(t); ok {
			return c, true
		}
	}

	return nil, false
}

func (r *Registry) custom(t reflect.Type, c Converter) (Resolution, error) {
	res := Resolution{
		Converter: c,
		Strategy:  c.Strategy(),
		Custom:    true,
	}

	if res.Strategy == StrategyUnsupported {
		return Resolution{}, contracterr.New(contracterr.UnsupportedType, t.String(), "",
			"registered converter reports no strategy")
	}

	// custom collection converters still expose the natural element/key types
	if builtin, err := Classify(t); err == nil && builtin.Strategy == res.Strategy {
		res.Elem = builtin.Elem
		res.Key = builtin.Key
	}

	return res, nil
}

var textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()

// Classify is the built-in converter lookup used when nothing is registered.
func Classify(t reflect.Type) (Resolution, error) {
	switch t.Kind() {
	case reflect.Pointer:
		if t.Elem().Kind() == reflect.Pointer {
			return Resolution{}, contracterr.New(contracterr.InvalidTypeForSerialization, t.String(), "",
				"pointers to pointers are not supported")
		}

		return Classify(t.Elem())

	case reflect.UnsafePointer, reflect.Uintptr:
		return Resolution{}, contracterr.New(contracterr.InvalidTypeForSerialization, t.String(), "",
			"raw pointers are not supported")

	case reflect.Chan, reflect.Func, reflect.Complex64, reflect.Complex128, reflect.Invalid:
		return Resolution{}, contracterr.New(contracterr.UnsupportedType, t.String(), "", "")
	}

	if kind := primitive.FromReflectType(t); kind != 0 {
		return Resolution{Converter: Of(StrategyValue), Strategy: StrategyValue, Primitive: kind}, nil
	}

	switch t.Kind() {
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return Resolution{Converter: Of(StrategyValue), Strategy: StrategyValue}, nil
		}

		return Resolution{Converter: Of(StrategyObject), Strategy: StrategyObject}, nil

	case reflect.Struct:
		return Resolution{Converter: Of(StrategyObject), Strategy: StrategyObject}, nil

	case reflect.Slice, reflect.Array:
		return Resolution{Converter: Of(StrategyEnumerable), Strategy: StrategyEnumerable, Elem: t.Elem()}, nil

	case reflect.Map:
		if !IsDictionaryKey(t.Key()) {
			return Resolution{}, contracterr.New(contracterr.UnsupportedType, t.String(), "",
				fmt.Sprintf("map key type %s cannot be a property name", t.Key()))
		}

		return Resolution{
			Converter: Of(StrategyDictionary),
			Strategy:  StrategyDictionary,
			Elem:      t.Elem(),
			Key:       t.Key(),
		}, nil
	}

	return Resolution{}, contracterr.New(contracterr.UnsupportedType, t.String(), "", "")
}

// IsDictionaryKey reports whether values of t can be written as object keys.
func IsDictionaryKey(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}

	return reflect.PointerTo(t).Implements(textUnmarshalerType)
}

// IsExtensionDataShape reports whether t can absorb unmatched document
// members: a string-keyed map whose values are either the empty interface
// or raw JSON bytes (json.RawMessage, jsontext.Value).
func IsExtensionDataShape(t reflect.Type) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t.Kind() != reflect.Map || t.Key().Kind() != reflect.String {
		return false
	}

	v := t.Elem()
	switch {
	case v.Kind() == reflect.Interface && v.NumMethod() == 0:
		return true
	case v.Kind() == reflect.Slice && v.Elem().Kind() == reflect.Uint8:
		return true
	default:
		return false
	}
}
