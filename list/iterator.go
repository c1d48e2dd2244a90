package list

import (
	"iter"

	"github.com/IvanBrykalov/collection/internal/slab"
)

type cursor = slab.Cursor

// resolve returns the live node c stands on (nil if none). A cursor whose
// node was removed moves to the successor the node had when it was removed.
func (l *List[T]) resolve(c *cursor) slab.Ref {
	return l.nodes.Resolve(c, l.epoch, func(n *node[T]) slab.Ref { return n.next })
}

// Iterator walks a List. It survives any modification of the list:
// removing the item it stands on moves it to the successor (so after such a
// removal use Current, not Next), and Clear sends it back before the first
// item.
type Iterator[T any] struct {
	l *List[T]
	c cursor
}

// Iter returns an iterator standing on the first item.
func (l *List[T]) Iter() *Iterator[T] {
	return &Iterator[T]{l: l, c: cursor{At: l.head, Epoch: l.epoch}}
}

// IterLast returns an iterator standing on the last item.
func (l *List[T]) IterLast() *Iterator[T] {
	return &Iterator[T]{l: l, c: cursor{At: l.tail, Epoch: l.epoch}}
}

// Len returns the number of items in the underlying list.
func (it *Iterator[T]) Len() int { return it.l.Len() }

// Current returns the item the iterator stands on.
func (it *Iterator[T]) Current() (T, bool) { return it.l.value(it.l.resolve(&it.c)) }

// Handle returns the node the iterator stands on (nil Handle if none).
func (it *Iterator[T]) Handle() Handle { return Handle{it.l.resolve(&it.c)} }

// Next advances to the following item and returns it. From the
// before-first position it moves to the first item.
func (it *Iterator[T]) Next() (T, bool) {
	r := it.l.resolve(&it.c)
	switch {
	case !r.IsNil():
		it.c.At = it.l.nodes.Get(r).next
	case it.c.Before:
		it.c.At = it.l.head
	default:
		var zero T
		return zero, false
	}
	it.c.Before = false
	return it.Current()
}

// Prev steps back to the preceding item and returns it.
func (it *Iterator[T]) Prev() (T, bool) {
	r := it.l.resolve(&it.c)
	if r.IsNil() {
		var zero T
		return zero, false
	}
	it.c.At = it.l.nodes.Get(r).prev
	return it.Current()
}

// ToFirst moves to the first item and returns it.
func (it *Iterator[T]) ToFirst() (T, bool) {
	it.c = cursor{At: it.l.head, Epoch: it.l.epoch}
	return it.Current()
}

// ToLast moves to the last item and returns it.
func (it *Iterator[T]) ToLast() (T, bool) {
	it.c = cursor{At: it.l.tail, Epoch: it.l.epoch}
	return it.Current()
}

// AtFirst reports whether the iterator stands on the first item.
func (it *Iterator[T]) AtFirst() bool {
	r := it.l.resolve(&it.c)
	return !r.IsNil() && r == it.l.head
}

// AtLast reports whether the iterator stands on the last item.
func (it *Iterator[T]) AtLast() bool {
	r := it.l.resolve(&it.c)
	return !r.IsNil() && r == it.l.tail
}

// Err returns ErrStale if the iterator lost its position because its node
// was removed and the node's slot reused before the iterator caught up.
func (it *Iterator[T]) Err() error {
	it.l.resolve(&it.c)
	if it.c.Stale {
		return ErrStale
	}
	return nil
}

// All yields the items from first to last. Removing the yielded item (or
// any other) during the loop is allowed.
func (l *List[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		c := cursor{At: l.head, Epoch: l.epoch}
		for {
			r := l.resolve(&c)
			if r.IsNil() {
				return
			}
			n := l.nodes.Get(r)
			next := n.next
			if !yield(n.val) {
				return
			}
			// If r was removed the cursor already moved to its successor.
			// If r's slot was reused meanwhile, resume from the successor
			// r had before the yield.
			switch {
			case l.resolve(&c) == r:
				c.At = l.nodes.Get(r).next
			case c.Stale:
				c = cursor{At: next, Epoch: c.Epoch}
			}
		}
	}
}
