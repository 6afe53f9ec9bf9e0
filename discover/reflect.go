package discover

import (
	"reflect"
	"slices"
	"sync"

	"typecontract/resolve"
)

// Reflect discovers members from struct fields and tags, and serves
// constructors registered with RegisterConstructor. It is safe for
// concurrent use.
type Reflect struct {
	mu    sync.RWMutex
	ctors map[reflect.Type]*Constructor
}

var _ Provider = (*Reflect)(nil)

// NewReflect creates a reflection-based provider.
func NewReflect() *Reflect {
	return &Reflect{ctors: make(map[reflect.Type]*Constructor)}
}

// RegisterConstructor parses fn and registers it for the type it returns.
func (r *Reflect) RegisterConstructor(fn any, params ...ParamSpec) error {
	ctor, err := ParseConstructor(fn, params...)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.ctors[ctor.Type] = ctor

	return nil
}

// Constructor implements Provider.
func (r *Reflect) Constructor(t reflect.Type) (*Constructor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.ctors[t], nil
}

type queued struct {
	t     reflect.Type
	index []int
}

// Members implements Provider. Fields of embedded structs are promoted the
// way the Go selector rules promote them: the shallowest field of a name
// wins, and names that are ambiguous at their shallowest depth are dropped
// unless exactly one of them is tagged with a wire name. Outer fields come
// before promoted ones.
func (r *Reflect) Members(t reflect.Type) ([]resolve.Member[reflect.Type], error) {
	if t.Kind() != reflect.Struct {
		return nil, nil
	}

	var (
		fields  []Candidate[reflect.Type]
		current []queued
		next    = []queued{{t: t}}
		visited = map[reflect.Type]bool{}
	)

	for depth := 0; len(next) > 0; depth++ {
		current, next = next, nil

		for _, q := range current {
			if visited[q.t] {
				continue
			}
			visited[q.t] = true

			for i := range q.t.NumField() {
				sf := q.t.Field(i)
				index := append(slices.Clone(q.index), i)

				eff, named, err := ParseTags(q.t.String(), sf.Name, sf.Tag)
				if err != nil {
					return nil, err
				}

				if sf.Anonymous && !named && !eff.Ignore {
					ft := sf.Type
					if ft.Kind() == reflect.Pointer {
						ft = ft.Elem()
					}

					if ft.Kind() == reflect.Struct {
						next = append(next, queued{t: ft, index: index})
						continue
					}
				}

				fields = append(fields, Candidate[reflect.Type]{
					Member: resolve.Member[reflect.Type]{
						DeclaringType: q.t.String(),
						Name:          sf.Name,
						Type:          sf.Type,
						Exported:      sf.IsExported(),
						Effect:        eff,
						Index:         index,
					},
					Depth: depth,
					Named: named,
				})
			}
		}
	}

	return Promote(fields), nil
}

// Candidate is a struct field found while walking embedded structs.
type Candidate[T comparable] struct {
	Member resolve.Member[T]
	Depth  int  // embedding depth; 0 for the struct's own fields
	Named  bool // wire name came from a tag
}

// Promote keeps, per Go name, the candidate a selector would pick, in the
// order the candidates were found.
func Promote[T comparable](fields []Candidate[T]) []resolve.Member[T] {
	byName := make(map[string][]int, len(fields))
	for i, f := range fields {
		byName[f.Member.Name] = append(byName[f.Member.Name], i)
	}

	out := make([]resolve.Member[T], 0, len(fields))

	for i, f := range fields {
		winner, ok := pick(fields, byName[f.Member.Name])
		if ok && winner == i {
			out = append(out, f.Member)
		}
	}

	return out
}

func pick[T comparable](fields []Candidate[T], idx []int) (int, bool) {
	if len(idx) == 1 {
		return idx[0], true
	}

	shallowest := fields[idx[0]].Depth
	for _, i := range idx {
		shallowest = min(shallowest, fields[i].Depth)
	}

	var candidates, tagged []int
	for _, i := range idx {
		if fields[i].Depth == shallowest {
			candidates = append(candidates, i)
			if fields[i].Named {
				tagged = append(tagged, i)
			}
		}
	}

	switch {
	case len(candidates) == 1:
		return candidates[0], true
	case len(tagged) == 1:
		return tagged[0], true
	default:
		return 0, false
	}
}
