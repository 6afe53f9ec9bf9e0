package contract

import (
	"reflect"
	"sync"
)

// Cache holds one canonical contract per type. Racing creators defer to
// whichever contract was stored first.
type Cache struct {
	m sync.Map // reflect.Type -> *Contract
}

func (c *Cache) load(t reflect.Type) (*Contract, bool) {
	v, ok := c.m.Load(t)
	if !ok {
		return nil, false
	}

	return v.(*Contract), true
}

func (c *Cache) loadOrStore(contract *Contract) (*Contract, bool) {
	v, loaded := c.m.LoadOrStore(contract.typ, contract)
	return v.(*Contract), loaded
}

// Len returns the number of cached contracts.
func (c *Cache) Len() int {
	n := 0
	c.m.Range(func(_, _ any) bool {
		n++
		return true
	})

	return n
}

// Range calls f for every cached contract until f returns false.
func (c *Cache) Range(f func(*Contract) bool) {
	c.m.Range(func(_, v any) bool {
		return f(v.(*Contract))
	})
}
