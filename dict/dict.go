// Package dict implements a chained hash table with three key modes:
// case-sensitive strings, case-insensitive strings and trivial keys
// (integers or pointers hashed and compared by value).
//
// Duplicate keys are allowed. Each bucket is a chain with the newest entry
// first, so the most recently inserted entry for a key shadows older ones
// until it is removed.
//
// Entries live in a generational slab: an Iterator standing on an entry
// that gets removed moves to the next entry, and Resize or Clear send every
// iterator back before the first entry.
//
// A Dict is not safe for concurrent use.
package dict

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/IvanBrykalov/collection/internal/slab"
	"github.com/IvanBrykalov/collection/internal/util"
	"github.com/IvanBrykalov/collection/item"
)

// ErrStale is reported by an iterator whose entry was removed and whose
// slot has since been reused.
var ErrStale = errors.New("dict: iterator position lost")

// keyMode is how a dict hashes, compares and stores its keys.
type keyMode[K any] struct {
	hash  func(K) uint64
	equal func(a, b K) bool
	clone func(K) K
}

type entry[K comparable, V any] struct {
	key    K
	val    V
	next   slab.Ref // next entry in the bucket chain
	bucket int
}

// Dict maps keys to values.
type Dict[K comparable, V any] struct {
	buckets []slab.Ref // chain heads
	entries slab.Slab[entry[K, V]]
	keys    keyMode[K]
	own     item.Ownership[V]
	epoch   uint64 // bumped by Clear and Resize
}

// New returns a dict with string keys. Keys are compared case-sensitively
// unless opt.IgnoreCase is set and cloned on insert unless opt.ShareKeys is
// set.
func New[V any](opt Options[string, V]) *Dict[string, V] {
	km := keyMode[string]{
		hash:  func(k string) uint64 { return uint64(util.HashString(k)) },
		equal: func(a, b string) bool { return a == b },
		clone: strings.Clone,
	}
	if opt.IgnoreCase {
		km.hash = func(k string) uint64 { return uint64(util.HashStringFold(k)) }
		km.equal = util.EqualFold
	}
	if opt.ShareKeys {
		km.clone = identity[string]
	}
	return newDict(opt, km)
}

// NewTrivial returns a dict keyed by integers. A key hashes to its own value
// modulo the bucket count.
func NewTrivial[K util.Integer, V any](opt Options[K, V]) *Dict[K, V] {
	return newDict(opt, keyMode[K]{
		hash:  util.IntegerValue[K],
		equal: func(a, b K) bool { return a == b },
		clone: identity[K],
	})
}

// NewPtr returns a dict keyed by pointer identity. Using a nil key panics.
func NewPtr[E, V any](opt Options[*E, V]) *Dict[*E, V] {
	return newDict(opt, keyMode[*E]{
		hash: func(k *E) uint64 {
			if k == nil {
				panic("dict: nil key")
			}
			return util.PointerValue(k)
		},
		equal: func(a, b *E) bool { return a == b },
		clone: identity[*E],
	})
}

func newDict[K comparable, V any](opt Options[K, V], km keyMode[K]) *Dict[K, V] {
	if opt.Buckets <= 0 {
		opt.Buckets = DefaultBuckets
	}
	return &Dict[K, V]{
		buckets: make([]slab.Ref, opt.Buckets),
		keys:    km,
		own:     item.NewOwnership(opt.Hooks, opt.AutoDelete),
	}
}

func identity[K any](k K) K { return k }

// Len returns the number of entries, counting shadowed duplicates.
func (d *Dict[K, V]) Len() int { return d.entries.Len() }

// Buckets returns the size of the hash table.
func (d *Dict[K, V]) Buckets() int { return len(d.buckets) }

// Look finds, inserts or replaces the entry for k depending on op.
//   - Find returns the newest value stored under k.
//   - Insert stores v as a new entry and returns the stored value.
//   - Replace removes (and releases) every entry for k, then inserts.
func (d *Dict[K, V]) Look(k K, v V, op Op) (V, bool) {
	b := d.index(k)
	switch op {
	case Find:
		if r := d.find(b, k); !r.IsNil() {
			return d.entries.Get(r).val, true
		}
		var zero V
		return zero, false
	case Replace:
		for {
			if !d.remove(b, k, nil, true) {
				break
			}
		}
	case Insert:
	default:
		panic(fmt.Sprintf("dict: unknown op %d", op))
	}
	r := d.entries.Alloc(entry[K, V]{
		key:    d.keys.clone(k),
		val:    d.own.Adopt(v),
		next:   d.buckets[b],
		bucket: b,
	})
	d.buckets[b] = r
	return d.entries.Get(r).val, true
}

// Find returns the newest value stored under k.
func (d *Dict[K, V]) Find(k K) (V, bool) {
	var zero V
	return d.Look(k, zero, Find)
}

// Insert stores v under k. Older entries for k stay but are shadowed.
func (d *Dict[K, V]) Insert(k K, v V) { d.Look(k, v, Insert) }

// Replace removes every entry for k, then stores v under k.
func (d *Dict[K, V]) Replace(k K, v V) { d.Look(k, v, Replace) }

// Remove removes the newest entry for k and releases its value.
func (d *Dict[K, V]) Remove(k K) bool { return d.remove(d.index(k), k, nil, true) }

// RemoveItem removes the entry for k whose value is identical to v
// (item.Same), leaving other entries for k in place.
func (d *Dict[K, V]) RemoveItem(k K, v V) bool {
	return d.remove(d.index(k), k, func(x V) bool { return item.Same(x, v) }, true)
}

// Take removes the newest entry for k and returns its value without
// releasing it.
func (d *Dict[K, V]) Take(k K) (V, bool) {
	return d.take(d.index(k), k, nil)
}

// TakeItem is RemoveItem without releasing the value.
func (d *Dict[K, V]) TakeItem(k K, v V) (V, bool) {
	return d.take(d.index(k), k, func(x V) bool { return item.Same(x, v) })
}

// Resize rehashes every entry into n buckets. Entries with equal keys keep
// their relative order; iteration order is otherwise not preserved. All
// iterators go back before the first entry. It panics if n < 1.
func (d *Dict[K, V]) Resize(n int) {
	if n < 1 {
		panic(fmt.Sprintf("dict: invalid bucket count %d", n))
	}
	old := d.buckets
	d.buckets = make([]slab.Ref, n)
	var chain []slab.Ref
	for _, head := range old {
		chain = chain[:0]
		for r := head; !r.IsNil(); r = d.entries.Get(r).next {
			chain = append(chain, r)
		}
		// Oldest first, so pushing to the new heads keeps newest in front.
		for i := len(chain) - 1; i >= 0; i-- {
			r := chain[i]
			e := d.entries.Get(r)
			b := d.index(e.key)
			e.next, e.bucket = d.buckets[b], b
			d.buckets[b] = r
		}
	}
	d.epoch++
}

// Clear releases every value and empties the dict. All iterators go back
// before the first entry.
func (d *Dict[K, V]) Clear() {
	for _, head := range d.buckets {
		for r := head; !r.IsNil(); {
			e := d.entries.Get(r)
			r = e.next
			d.own.Release(e.val)
		}
	}
	clear(d.buckets)
	d.entries.Reset()
	d.epoch++
}

// Keys returns the key of every entry in iteration order. Shadowed
// duplicates are included.
func (d *Dict[K, V]) Keys() []K {
	out := make([]K, 0, d.Len())
	for k := range d.All() {
		out = append(out, k)
	}
	return out
}

// All yields every entry in bucket order, newest first within a bucket.
// Removing entries during the loop is allowed.
func (d *Dict[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		c := slab.Cursor{At: d.headFrom(0), Epoch: d.epoch}
		for {
			r := d.resolve(&c)
			if r.IsNil() {
				return
			}
			e := d.entries.Get(r)
			next := d.successor(e)
			if !yield(e.key, e.val) {
				return
			}
			// If r was removed the cursor already moved past it; if its
			// slot was reused, resume from the successor it had before.
			switch {
			case d.resolve(&c) == r:
				c.At = d.successor(d.entries.Get(r))
			case c.Stale:
				c = slab.Cursor{At: next, Epoch: c.Epoch}
			}
		}
	}
}

// ---- internals ----

func (d *Dict[K, V]) index(k K) int {
	return int(d.keys.hash(k) % uint64(len(d.buckets)))
}

func (d *Dict[K, V]) find(b int, k K) slab.Ref {
	for r := d.buckets[b]; !r.IsNil(); {
		e := d.entries.Get(r)
		if d.keys.equal(e.key, k) {
			return r
		}
		r = e.next
	}
	return slab.Nil
}

// take removes the newest entry in bucket b with key k whose value
// satisfies match (nil matches any) and returns its value.
func (d *Dict[K, V]) take(b int, k K, match func(V) bool) (V, bool) {
	var zero V
	prev := slab.Nil
	for r := d.buckets[b]; !r.IsNil(); {
		e := d.entries.Get(r)
		if d.keys.equal(e.key, k) && (match == nil || match(e.val)) {
			if prev.IsNil() {
				d.buckets[b] = e.next
			} else {
				d.entries.Get(prev).next = e.next
			}
			v := e.val
			// The retired entry keeps next and bucket for iterators.
			var zeroKey K
			e.key, e.val = zeroKey, zero
			d.entries.Free(r)
			return v, true
		}
		prev, r = r, e.next
	}
	return zero, false
}

func (d *Dict[K, V]) remove(b int, k K, match func(V) bool, release bool) bool {
	v, ok := d.take(b, k, match)
	if ok && release {
		d.own.Release(v)
	}
	return ok
}

// headFrom returns the head of the first non-empty bucket at or after b.
func (d *Dict[K, V]) headFrom(b int) slab.Ref {
	for ; b < len(d.buckets); b++ {
		if r := d.buckets[b]; !r.IsNil() {
			return r
		}
	}
	return slab.Nil
}

// successor returns the entry after e in iteration order. It also works on
// retired entries, which keep their last next link and bucket.
func (d *Dict[K, V]) successor(e *entry[K, V]) slab.Ref {
	if !e.next.IsNil() {
		return e.next
	}
	return d.headFrom(e.bucket + 1)
}

func (d *Dict[K, V]) resolve(c *slab.Cursor) slab.Ref {
	return d.entries.Resolve(c, d.epoch, d.successor)
}
