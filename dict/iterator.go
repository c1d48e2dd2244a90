package dict

import "github.com/IvanBrykalov/collection/internal/slab"

// Iterator walks a Dict in bucket order, newest entry first within a
// bucket. Removing the entry it stands on moves it to the next entry, so
// after such a removal use Current rather than Next. Resize and Clear send
// it back before the first entry.
type Iterator[K comparable, V any] struct {
	d *Dict[K, V]
	c slab.Cursor
}

// Iter returns an iterator standing on the first entry.
func (d *Dict[K, V]) Iter() *Iterator[K, V] {
	return &Iterator[K, V]{d: d, c: slab.Cursor{At: d.headFrom(0), Epoch: d.epoch}}
}

// Len returns the number of entries in the underlying dict.
func (it *Iterator[K, V]) Len() int { return it.d.Len() }

// Current returns the value of the entry the iterator stands on.
func (it *Iterator[K, V]) Current() (V, bool) {
	if e := it.d.entries.Get(it.d.resolve(&it.c)); e != nil {
		return e.val, true
	}
	var zero V
	return zero, false
}

// Key returns the key of the entry the iterator stands on.
func (it *Iterator[K, V]) Key() (K, bool) {
	if e := it.d.entries.Get(it.d.resolve(&it.c)); e != nil {
		return e.key, true
	}
	var zero K
	return zero, false
}

// Next advances to the following entry and returns its value. From the
// before-first position it moves to the first entry.
func (it *Iterator[K, V]) Next() (V, bool) {
	r := it.d.resolve(&it.c)
	switch {
	case !r.IsNil():
		it.c.At = it.d.successor(it.d.entries.Get(r))
	case it.c.Before:
		it.c.At = it.d.headFrom(0)
	default:
		var zero V
		return zero, false
	}
	it.c.Before = false
	return it.Current()
}

// ToFirst moves to the first entry and returns its value.
func (it *Iterator[K, V]) ToFirst() (V, bool) {
	it.c = slab.Cursor{At: it.d.headFrom(0), Epoch: it.d.epoch}
	return it.Current()
}

// Err returns ErrStale if the iterator lost its position because its entry
// was removed and the slot reused before the iterator caught up.
func (it *Iterator[K, V]) Err() error {
	it.d.resolve(&it.c)
	if it.c.Stale {
		return ErrStale
	}
	return nil
}
