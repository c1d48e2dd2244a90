package cache

import "github.com/IvanBrykalov/collection/list"

// entry is one cached value. The same *entry is indexed by the key dict and
// linked into the recency list (head is MRU, tail is LRU).
type entry[K comparable, V any] struct {
	key K
	val V

	// Logical weight counted against MaxCost.
	cost int64

	// priority is the eviction floor requested at insert time; skipPriority
	// is the current, possibly decayed, floor compared by eviction. A lookup
	// resets skipPriority to priority.
	priority     int16
	skipPriority int16

	node list.Handle
}

// Entry is a read-only view of a cached entry.
type Entry[K comparable, V any] struct {
	Key      K
	Value    V
	Cost     int64
	Priority int16
}

func (e *entry[K, V]) view() Entry[K, V] {
	return Entry[K, V]{Key: e.key, Value: e.val, Cost: e.cost, Priority: e.priority}
}
