// Package list implements a generic doubly-linked list with an internal
// cursor and removal-safe iterators.
//
// Nodes live in a generational slab, so a node handle or iterator never
// dangles: when the node an iterator stands on is removed, the iterator
// moves on to that node's successor the next time it is used, and Clear
// sends every iterator back before the first element.
//
// A List is not safe for concurrent use.
package list

import (
	"errors"

	"github.com/IvanBrykalov/collection/internal/slab"
	"github.com/IvanBrykalov/collection/item"
)

// ErrStale is reported by an iterator whose node was removed and whose slot
// has since been reused, so its successor can no longer be determined.
var ErrStale = errors.New("list: iterator position lost")

// Options configures a List. The zero value is valid.
type Options[T any] struct {
	// AutoDelete makes the list Destroy items it removes or clears.
	AutoDelete bool
	// Hooks supplies Duplicate/Destroy/Compare; nil => item.Default.
	Hooks item.Hooks[T]
}

// Handle identifies one node of a list. The zero Handle is nil.
type Handle struct{ r slab.Ref }

// IsNil reports whether h refers to no node.
func (h Handle) IsNil() bool { return h.r.IsNil() }

type node[T any] struct {
	val  T
	prev slab.Ref
	next slab.Ref
}

// List is a doubly-linked list of T.
type List[T any] struct {
	nodes slab.Slab[node[T]]
	head  slab.Ref
	tail  slab.Ref
	own   item.Ownership[T]

	cur   cursor // backs First/Next/Current/Take/Remove...
	epoch uint64 // bumped by Clear
}

// New returns an empty list.
func New[T any](opt Options[T]) *List[T] {
	return &List[T]{own: item.NewOwnership(opt.Hooks, opt.AutoDelete)}
}

// Len returns the number of items.
func (l *List[T]) Len() int { return l.nodes.Len() }

// ---- insertion ----

// Append adds v at the end. The new item becomes current.
func (l *List[T]) Append(v T) { l.AppendNode(v) }

// Prepend adds v at the front. The new item becomes current.
func (l *List[T]) Prepend(v T) { l.PrependNode(v) }

// AppendNode is Append returning the new node's handle.
func (l *List[T]) AppendNode(v T) Handle {
	r := l.link(l.tail, slab.Nil, l.own.Adopt(v))
	l.setCursor(r)
	return Handle{r}
}

// PrependNode is Prepend returning the new node's handle.
func (l *List[T]) PrependNode(v T) Handle {
	r := l.link(slab.Nil, l.head, l.own.Adopt(v))
	l.setCursor(r)
	return Handle{r}
}

// InsertAt inserts v so that it ends up at index i (0 <= i <= Len).
// It returns false, leaving the list unchanged, if i is out of range.
func (l *List[T]) InsertAt(i int, v T) bool {
	n := l.Len()
	if i < 0 || i > n {
		return false
	}
	switch i {
	case 0:
		l.Prepend(v)
	case n:
		l.Append(v)
	default:
		at := l.refAt(i)
		r := l.link(l.nodes.Get(at).prev, at, l.own.Adopt(v))
		l.setCursor(r)
	}
	return true
}

// InSort inserts v in front of the first following item that compares
// greater, scanning from the tail. Items that compare equal keep their
// insertion order. The list is assumed to be sorted already.
func (l *List[T]) InSort(v T) {
	v = l.own.Adopt(v)
	at := l.tail
	for !at.IsNil() {
		n := l.nodes.Get(at)
		if l.own.Compare(n.val, v) <= 0 {
			break
		}
		at = n.prev
	}
	var next slab.Ref
	if at.IsNil() {
		next = l.head
	} else {
		next = l.nodes.Get(at).next
	}
	l.setCursor(l.link(at, next, v))
}

// ---- cursor access ----

// First moves the cursor to the first item and returns it.
func (l *List[T]) First() (T, bool) { return l.moveCursor(l.head) }

// Last moves the cursor to the last item and returns it.
func (l *List[T]) Last() (T, bool) { return l.moveCursor(l.tail) }

// Next advances the cursor and returns the new current item. Past the end
// the cursor is cleared and Next reports false.
func (l *List[T]) Next() (T, bool) {
	r := l.resolve(&l.cur)
	if r.IsNil() {
		var zero T
		return zero, false
	}
	return l.moveCursor(l.nodes.Get(r).next)
}

// Prev moves the cursor back and returns the new current item.
func (l *List[T]) Prev() (T, bool) {
	r := l.resolve(&l.cur)
	if r.IsNil() {
		var zero T
		return zero, false
	}
	return l.moveCursor(l.nodes.Get(r).prev)
}

// At moves the cursor to index i and returns the item there. Out of range
// indexes report false and leave the cursor where it was. O(i).
func (l *List[T]) At(i int) (T, bool) {
	if i < 0 || i >= l.Len() {
		var zero T
		return zero, false
	}
	return l.moveCursor(l.refAt(i))
}

// Current returns the item under the cursor.
func (l *List[T]) Current() (T, bool) { return l.value(l.resolve(&l.cur)) }

// CurrentIndex returns the cursor's index, or -1 if there is no current item.
func (l *List[T]) CurrentIndex() int {
	r := l.resolve(&l.cur)
	if r.IsNil() {
		return -1
	}
	i := 0
	for at := l.head; at != r; at = l.nodes.Get(at).next {
		i++
	}
	return i
}

// Find moves the cursor to the first item comparing equal to v and returns
// its index, or -1 (cursor unchanged).
func (l *List[T]) Find(v T) int {
	i, r := l.search(func(x T) bool { return l.own.Compare(x, v) == 0 })
	if !r.IsNil() {
		l.setCursor(r)
	}
	return i
}

// FindRef is Find by identity (item.Same) instead of Compare.
func (l *List[T]) FindRef(v T) int {
	i, r := l.search(func(x T) bool { return item.Same(x, v) })
	if !r.IsNil() {
		l.setCursor(r)
	}
	return i
}

// Contains counts the items comparing equal to v.
func (l *List[T]) Contains(v T) int {
	return l.count(func(x T) bool { return l.own.Compare(x, v) == 0 })
}

// ContainsRef counts the items identical to v.
func (l *List[T]) ContainsRef(v T) int {
	return l.count(func(x T) bool { return item.Same(x, v) })
}

// ---- removal ----
//
// Take* variants hand the item back to the caller; Remove* variants release
// it through the hooks (Destroy when AutoDelete is set). Positional removals
// leave the cursor on the removed item's successor, or on the new last item
// when the last one was removed.

// Take removes the current item and returns it.
func (l *List[T]) Take() (T, bool) { return l.takeAtCursor(l.resolve(&l.cur)) }

// Remove removes and releases the current item.
func (l *List[T]) Remove() bool { return l.release(l.Take()) }

// TakeItem removes the first item comparing equal to v and returns it.
func (l *List[T]) TakeItem(v T) (T, bool) {
	_, r := l.search(func(x T) bool { return l.own.Compare(x, v) == 0 })
	return l.takeAtCursor(r)
}

// RemoveItem removes and releases the first item comparing equal to v.
func (l *List[T]) RemoveItem(v T) bool { return l.release(l.TakeItem(v)) }

// TakeRef removes the first item identical to v and returns it.
func (l *List[T]) TakeRef(v T) (T, bool) {
	_, r := l.search(func(x T) bool { return item.Same(x, v) })
	return l.takeAtCursor(r)
}

// RemoveRef removes and releases the first item identical to v.
func (l *List[T]) RemoveRef(v T) bool { return l.release(l.TakeRef(v)) }

// TakeAt removes the item at index i and returns it.
func (l *List[T]) TakeAt(i int) (T, bool) {
	if i < 0 || i >= l.Len() {
		var zero T
		return zero, false
	}
	return l.takeAtCursor(l.refAt(i))
}

// RemoveAt removes and releases the item at index i.
func (l *List[T]) RemoveAt(i int) bool { return l.release(l.TakeAt(i)) }

// TakeFirst removes the first item and returns it.
func (l *List[T]) TakeFirst() (T, bool) { return l.takeAtCursor(l.head) }

// TakeLast removes the last item and returns it.
func (l *List[T]) TakeLast() (T, bool) { return l.takeAtCursor(l.tail) }

// RemoveFirst removes and releases the first item.
func (l *List[T]) RemoveFirst() bool { return l.release(l.TakeFirst()) }

// RemoveLast removes and releases the last item.
func (l *List[T]) RemoveLast() bool { return l.release(l.TakeLast()) }

// Clear releases every item. All iterators go back before the first item.
func (l *List[T]) Clear() {
	for at := l.head; !at.IsNil(); {
		n := l.nodes.Get(at)
		at = n.next
		l.own.Release(n.val)
	}
	l.nodes.Reset()
	l.head, l.tail = slab.Nil, slab.Nil
	l.epoch++
	l.cur = cursor{Epoch: l.epoch}
}

// ---- node handles ----

// Value returns the item stored at h.
func (l *List[T]) Value(h Handle) (T, bool) { return l.value(h.r) }

// TakeNode removes the node h and returns its item. The cursor is only
// affected if it stood on h, in which case it follows to the successor.
func (l *List[T]) TakeNode(h Handle) (T, bool) { return l.unlink(h.r) }

// RemoveNode removes the node h and releases its item.
func (l *List[T]) RemoveNode(h Handle) bool { return l.release(l.unlink(h.r)) }

// MoveToFront relinks node h at the head. Iterators standing on h stay on
// it. Reports false if h is not a node of this list.
func (l *List[T]) MoveToFront(h Handle) bool {
	n := l.nodes.Get(h.r)
	if n == nil {
		return false
	}
	if h.r == l.head {
		return true
	}
	l.detach(n)
	n.prev = slab.Nil
	n.next = l.head
	l.nodes.Get(l.head).prev = h.r
	l.head = h.r
	return true
}

// Items returns a copy of the items in order.
func (l *List[T]) Items() []T {
	out := make([]T, 0, l.Len())
	for at := l.head; !at.IsNil(); {
		n := l.nodes.Get(at)
		out = append(out, n.val)
		at = n.next
	}
	return out
}

// ---- internals ----

// link allocates a node for v between prev and next (either may be nil).
func (l *List[T]) link(prev, next slab.Ref, v T) slab.Ref {
	r := l.nodes.Alloc(node[T]{val: v, prev: prev, next: next})
	if prev.IsNil() {
		l.head = r
	} else {
		l.nodes.Get(prev).next = r
	}
	if next.IsNil() {
		l.tail = r
	} else {
		l.nodes.Get(next).prev = r
	}
	return r
}

// detach splices n out of the chain without freeing it.
func (l *List[T]) detach(n *node[T]) {
	if n.prev.IsNil() {
		l.head = n.next
	} else {
		l.nodes.Get(n.prev).next = n.next
	}
	if n.next.IsNil() {
		l.tail = n.prev
	} else {
		l.nodes.Get(n.next).prev = n.prev
	}
}

// unlink removes node r and frees its slot. The retired node keeps its
// next link so iterators standing on it can move to the successor.
func (l *List[T]) unlink(r slab.Ref) (T, bool) {
	var zero T
	n := l.nodes.Get(r)
	if n == nil {
		return zero, false
	}
	l.detach(n)
	v := n.val
	n.val = zero
	n.prev = slab.Nil
	l.nodes.Free(r)
	return v, true
}

// takeAtCursor removes r and leaves the cursor on its successor, or on the
// new last node if r was last.
func (l *List[T]) takeAtCursor(r slab.Ref) (T, bool) {
	n := l.nodes.Get(r)
	if n == nil {
		var zero T
		return zero, false
	}
	prev, next := n.prev, n.next
	v, _ := l.unlink(r)
	if next.IsNil() {
		l.setCursor(prev)
	} else {
		l.setCursor(next)
	}
	return v, true
}

func (l *List[T]) release(v T, ok bool) bool {
	if ok {
		l.own.Release(v)
	}
	return ok
}

func (l *List[T]) value(r slab.Ref) (T, bool) {
	if n := l.nodes.Get(r); n != nil {
		return n.val, true
	}
	var zero T
	return zero, false
}

func (l *List[T]) refAt(i int) slab.Ref {
	at := l.head
	for ; i > 0 && !at.IsNil(); i-- {
		at = l.nodes.Get(at).next
	}
	return at
}

func (l *List[T]) search(match func(T) bool) (int, slab.Ref) {
	i := 0
	for at := l.head; !at.IsNil(); i++ {
		n := l.nodes.Get(at)
		if match(n.val) {
			return i, at
		}
		at = n.next
	}
	return -1, slab.Nil
}

func (l *List[T]) count(match func(T) bool) int {
	c := 0
	for at := l.head; !at.IsNil(); {
		n := l.nodes.Get(at)
		if match(n.val) {
			c++
		}
		at = n.next
	}
	return c
}

func (l *List[T]) setCursor(r slab.Ref) {
	l.cur = cursor{At: r, Epoch: l.epoch}
}

func (l *List[T]) moveCursor(r slab.Ref) (T, bool) {
	l.setCursor(r)
	return l.value(r)
}
