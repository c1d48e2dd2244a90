package item

// Ownership binds a container's hooks to its auto-delete flag.
// Containers route every item that enters or leaves them through it.
type Ownership[T any] struct {
	hooks      Hooks[T]
	autoDelete bool
}

// NewOwnership returns an Ownership using h (nil => Default hooks).
// When autoDelete is false, Release never calls Destroy.
func NewOwnership[T any](h Hooks[T], autoDelete bool) Ownership[T] {
	if h == nil {
		h = Default[T]()
	}
	return Ownership[T]{hooks: h, autoDelete: autoDelete}
}

// Adopt returns the value a container stores when v is inserted.
func (o Ownership[T]) Adopt(v T) T { return o.hooks.Duplicate(v) }

// Release disposes of an item the container is discarding.
func (o Ownership[T]) Release(v T) {
	if o.autoDelete {
		o.hooks.Destroy(v)
	}
}

// Compare orders two items with the configured hooks.
func (o Ownership[T]) Compare(a, b T) int { return o.hooks.Compare(a, b) }

// AutoDelete reports whether discarded items are destroyed.
func (o Ownership[T]) AutoDelete() bool { return o.autoDelete }
