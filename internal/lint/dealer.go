package lint

// Dealer hands out work items once: an item that was dealt is never dealt
// again, however often it is needed. Each item carries the payload it was
// first needed with.
type Dealer[K comparable, V any] struct {
	needs map[K]V
	done  map[K]struct{}
}

// NextNeeds deals a pending item, if any.
func (d *Dealer[K, V]) NextNeeds() (key K, payload V, ok bool) {
	for k, v := range d.needs {
		d.Done(k)

		return k, v, true
	}

	return
}

// Needs queues k unless it is pending or was dealt already.
func (d *Dealer[K, V]) Needs(k K, payload V) {
	if d.needs == nil {
		d.needs = make(map[K]V)
	}

	if _, exists := d.done[k]; exists {
		return
	}

	if _, pending := d.needs[k]; !pending {
		d.needs[k] = payload
	}
}

// Done marks k as dealt without dealing it.
func (d *Dealer[K, V]) Done(k K) {
	if d.done == nil {
		d.done = make(map[K]struct{})
	}

	delete(d.needs, k)
	d.done[k] = struct{}{}
}

// Pending returns the number of queued items.
func (d *Dealer[K, V]) Pending() int { return len(d.needs) }
