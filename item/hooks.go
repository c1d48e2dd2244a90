// Package item defines how containers treat the values they hold.
//
// Every container in this module is generic over its item type and never
// assumes anything about it. Type-specific behavior is supplied through
// Hooks: Duplicate is applied when an item enters a container, Destroy when
// an owning container discards it, and Compare wherever an ordering or an
// equality test by value is needed (sorted insert, vector sort/search,
// find-by-value).
package item

import "io"

// Hooks supplies the type-specific behavior of items held by a container.
type Hooks[T any] interface {
	// Duplicate returns the value the container stores for v.
	Duplicate(v T) T
	// Destroy releases an item the container owns and is discarding.
	Destroy(v T)
	// Compare orders a and b: negative if a < b, 0 if equal, positive if a > b.
	Compare(a, b T) int
}

// Funcs adapts plain functions to Hooks. Nil fields fall back to defaults:
//   - Duplicate: identity (the container stores v itself)
//   - Destroy:   Close() if the item implements io.Closer, otherwise nothing
//   - Compare:   item.Compare
type Funcs[T any] struct {
	DuplicateFunc func(v T) T
	DestroyFunc   func(v T)
	CompareFunc   func(a, b T) int
}

// Duplicate implements Hooks.
func (f Funcs[T]) Duplicate(v T) T {
	if f.DuplicateFunc != nil {
		return f.DuplicateFunc(v)
	}
	return v
}

// Destroy implements Hooks.
func (f Funcs[T]) Destroy(v T) {
	if f.DestroyFunc != nil {
		f.DestroyFunc(v)
		return
	}
	if c, ok := any(v).(io.Closer); ok {
		_ = c.Close()
	}
}

// Compare implements Hooks.
func (f Funcs[T]) Compare(a, b T) int {
	if f.CompareFunc != nil {
		return f.CompareFunc(a, b)
	}
	return Compare(a, b)
}

// Default returns the hooks used when a container is configured without any.
func Default[T any]() Hooks[T] { return Funcs[T]{} }

// Ordered returns hooks comparing items by cmp.Compare-style function cmpFn,
// e.g. item.Ordered(strings.Compare).
func Ordered[T any](cmpFn func(a, b T) int) Hooks[T] {
	return Funcs[T]{CompareFunc: cmpFn}
}

// Ensure Funcs implements Hooks at compile time.
var _ Hooks[int] = Funcs[int]{}
