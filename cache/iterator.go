package cache

import (
	"iter"

	"github.com/IvanBrykalov/collection/list"
)

// Iterator walks a cache from the most to the least recently used entry.
// Walking does not count as use. An iterator standing on an entry that is
// evicted or removed moves on to the next less recently used entry.
type Iterator[K comparable, V any] struct {
	it *list.Iterator[*entry[K, V]]
}

// Iter returns an iterator standing on the most recently used entry.
func (c *Cache[K, V]) Iter() *Iterator[K, V] {
	return &Iterator[K, V]{it: c.lru.Iter()}
}

// IterLRU returns an iterator standing on the least recently used entry.
func (c *Cache[K, V]) IterLRU() *Iterator[K, V] {
	return &Iterator[K, V]{it: c.lru.IterLast()}
}

// Current returns the entry the iterator stands on.
func (it *Iterator[K, V]) Current() (Entry[K, V], bool) { return toEntry[K, V](it.it.Current()) }

// Next moves towards the LRU end.
func (it *Iterator[K, V]) Next() (Entry[K, V], bool) { return toEntry[K, V](it.it.Next()) }

// Prev moves towards the MRU end.
func (it *Iterator[K, V]) Prev() (Entry[K, V], bool) { return toEntry[K, V](it.it.Prev()) }

// ToFirst moves to the most recently used entry.
func (it *Iterator[K, V]) ToFirst() (Entry[K, V], bool) { return toEntry[K, V](it.it.ToFirst()) }

// ToLast moves to the least recently used entry.
func (it *Iterator[K, V]) ToLast() (Entry[K, V], bool) { return toEntry[K, V](it.it.ToLast()) }

// Len returns the number of entries in the cache.
func (it *Iterator[K, V]) Len() int { return it.it.Len() }

func toEntry[K comparable, V any](e *entry[K, V], ok bool) (Entry[K, V], bool) {
	if !ok {
		return Entry[K, V]{}, false
	}
	return e.view(), true
}

// All yields key/value pairs from the most to the least recently used.
func (c *Cache[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for e := range c.lru.All() {
			if !yield(e.key, e.val) {
				return
			}
		}
	}
}
