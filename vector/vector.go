// Package vector implements a resizable, index-addressed array whose slots
// may be empty.
//
// A Vector is not safe for concurrent use.
package vector

import (
	"fmt"
	"iter"
	"slices"

	"github.com/IvanBrykalov/collection/item"
)

// Options configures a Vector. The zero value is valid.
type Options[T any] struct {
	// AutoDelete makes the vector Destroy items it overwrites, removes or
	// drops on shrink/clear.
	AutoDelete bool
	// Hooks supplies Duplicate/Destroy/Compare; nil => item.Default.
	Hooks item.Hooks[T]
}

type slot[T any] struct {
	v   T
	set bool
}

// Vector is a resizable array of optional T.
type Vector[T any] struct {
	slots []slot[T]
	count int
	own   item.Ownership[T]
}

// New returns a vector of size empty slots. It panics if size < 0.
func New[T any](size int, opt Options[T]) *Vector[T] {
	if size < 0 {
		panic(fmt.Sprintf("vector: negative size %d", size))
	}
	return &Vector[T]{
		slots: make([]slot[T], size),
		own:   item.NewOwnership(opt.Hooks, opt.AutoDelete),
	}
}

// Len returns the number of slots.
func (v *Vector[T]) Len() int { return len(v.slots) }

// Count returns the number of populated slots.
func (v *Vector[T]) Count() int { return v.count }

// At returns the item in slot i. Empty or out of range slots report false.
func (v *Vector[T]) At(i int) (T, bool) {
	if i < 0 || i >= len(v.slots) {
		var zero T
		return zero, false
	}
	s := v.slots[i]
	return s.v, s.set
}

// Insert stores x in slot i, releasing the item that was there.
// It returns false if i is out of range.
func (v *Vector[T]) Insert(i int, x T) bool {
	if i < 0 || i >= len(v.slots) {
		return false
	}
	v.clearSlot(i, true)
	v.slots[i] = slot[T]{v: v.own.Adopt(x), set: true}
	v.count++
	return true
}

// Unset empties slot i, releasing its item if any. It returns false only if
// i is out of range.
func (v *Vector[T]) Unset(i int) bool {
	if i < 0 || i >= len(v.slots) {
		return false
	}
	v.clearSlot(i, true)
	return true
}

// Remove empties slot i and releases its item. It reports whether there was
// an item to remove.
func (v *Vector[T]) Remove(i int) bool {
	if _, ok := v.At(i); !ok {
		return false
	}
	v.clearSlot(i, true)
	return true
}

// Take empties slot i and returns its item without releasing it.
func (v *Vector[T]) Take(i int) (T, bool) {
	x, ok := v.At(i)
	if ok {
		v.clearSlot(i, false)
	}
	return x, ok
}

// Resize changes the number of slots to n. Shrinking releases the items
// past the new end; growing adds empty slots. Negative n reports false and
// leaves the vector unchanged.
func (v *Vector[T]) Resize(n int) bool {
	if n < 0 {
		return false
	}
	if n < len(v.slots) {
		for i := n; i < len(v.slots); i++ {
			v.clearSlot(i, true)
		}
		v.slots = slices.Clip(v.slots[:n])
		return true
	}
	v.slots = append(v.slots, make([]slot[T], n-len(v.slots))...)
	return true
}

// Fill resizes the vector to size (size < 0 keeps the current size) and
// stores x in every slot.
func (v *Vector[T]) Fill(x T, size int) bool {
	if size >= 0 && !v.Resize(size) {
		return false
	}
	for i := range v.slots {
		v.Insert(i, x)
	}
	return true
}

// Clear releases every item and shrinks the vector to zero slots.
func (v *Vector[T]) Clear() { v.Resize(0) }

// ---- ordering ----

// Sort moves the populated slots to the front and sorts them with the
// Compare hook. Equal items may be reordered.
func (v *Vector[T]) Sort() {
	items := v.Items()
	slices.SortFunc(items, v.own.Compare)
	for i := range v.slots {
		if i < len(items) {
			v.slots[i] = slot[T]{v: items[i], set: true}
		} else {
			v.slots[i] = slot[T]{}
		}
	}
}

// BSearch returns the index of an item comparing equal to x, or -1.
// The vector must have been sorted with Sort.
func (v *Vector[T]) BSearch(x T) int {
	n := 0
	for n < len(v.slots) && v.slots[n].set {
		n++
	}
	i, ok := slices.BinarySearchFunc(v.slots[:n], x, func(s slot[T], x T) int {
		return v.own.Compare(s.v, x)
	})
	if !ok {
		return -1
	}
	return i
}

// ---- search ----

// Find returns the index of the first item at or after start comparing
// equal to x, or -1.
func (v *Vector[T]) Find(x T, start int) int {
	return v.search(start, func(y T) bool { return v.own.Compare(y, x) == 0 })
}

// FindRef is Find by identity (item.Same).
func (v *Vector[T]) FindRef(x T, start int) int {
	return v.search(start, func(y T) bool { return item.Same(y, x) })
}

// Contains counts the items comparing equal to x.
func (v *Vector[T]) Contains(x T) int {
	return v.countMatching(func(y T) bool { return v.own.Compare(y, x) == 0 })
}

// ContainsRef counts the items identical to x.
func (v *Vector[T]) ContainsRef(x T) int {
	return v.countMatching(func(y T) bool { return item.Same(y, x) })
}

// Items returns the populated slots' items in index order.
func (v *Vector[T]) Items() []T {
	out := make([]T, 0, v.count)
	for _, s := range v.slots {
		if s.set {
			out = append(out, s.v)
		}
	}
	return out
}

// All yields (index, item) for every populated slot.
func (v *Vector[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < len(v.slots); i++ {
			if s := v.slots[i]; s.set && !yield(i, s.v) {
				return
			}
		}
	}
}

// ---- internals ----

func (v *Vector[T]) clearSlot(i int, release bool) {
	s := &v.slots[i]
	if !s.set {
		return
	}
	old := s.v
	*s = slot[T]{}
	v.count--
	if release {
		v.own.Release(old)
	}
}

func (v *Vector[T]) search(start int, match func(T) bool) int {
	if start < 0 {
		return -1
	}
	for i := start; i < len(v.slots); i++ {
		if s := v.slots[i]; s.set && match(s.v) {
			return i
		}
	}
	return -1
}

func (v *Vector[T]) countMatching(match func(T) bool) int {
	c := 0
	for _, s := range v.slots {
		if s.set && match(s.v) {
			c++
		}
	}
	return c
}
