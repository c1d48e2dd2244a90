package cache

// Store is the keyed surface of a Cache, for code that drives a cache
// without caring how it is keyed or configured (e.g. workload generators).
//
// Implementations are not required to be safe for concurrent use; callers
// serialize access or give every goroutine its own Store.
type Store[K comparable, V any] interface {
	// Insert adds k→v with the default priority; false if it did not fit.
	Insert(k K, v V, cost int64) bool

	// InsertWithPriority adds k→v; eviction on its behalf never removes
	// entries protected by a priority above priority.
	InsertWithPriority(k K, v V, cost int64, priority int16) bool

	// Find returns the value for k and marks it most recently used.
	Find(k K) (V, bool)

	// Remove deletes k and releases its value.
	Remove(k K) bool

	// Len returns the number of entries.
	Len() int

	// TotalCost returns the sum of entry costs.
	TotalCost() int64

	// Stats returns a snapshot of the counters.
	Stats() Stats
}

var (
	_ Store[string, int] = (*Cache[string, int])(nil)
	_ Store[int, []byte] = (*Cache[int, []byte])(nil)
)
