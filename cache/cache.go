package cache

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/IvanBrykalov/collection/dict"
	"github.com/IvanBrykalov/collection/internal/util"
	"github.com/IvanBrykalov/collection/item"
	"github.com/IvanBrykalov/collection/list"
)

// Cache is a cost-bounded LRU cache with per-entry eviction priorities.
// A key dict gives O(1) lookup; a recency list orders entries for eviction.
// Not safe for concurrent use.
type Cache[K comparable, V any] struct {
	index *dict.Dict[K, *entry[K, V]]
	lru   *list.List[*entry[K, V]] // head = MRU, tail = LRU
	own   item.Ownership[V]
	clone func(K) K

	maxCost int64
	total   int64
	prio    int16 // default priority

	onEvict func(k K, v V, reason EvictReason)
	metrics Metrics
	log     *zap.Logger

	hits, misses, inserts, rejects, evictions uint64
}

// New constructs a cache with string keys.
// Defaults:
//   - MaxCost == 0 -> DefaultMaxCost
//   - nil Metrics  -> NoopMetrics
//   - nil Logger   -> zap.NewNop()
func New[V any](opt Options[string, V]) *Cache[string, V] {
	clone := strings.Clone
	if opt.ShareKeys {
		clone = func(k string) string { return k }
	}
	idx := dict.New(dict.Options[string, *entry[string, V]]{
		Buckets:    opt.Buckets,
		IgnoreCase: opt.IgnoreCase,
		ShareKeys:  true, // the entry owns the (possibly cloned) key
	})
	return newCache(opt, idx, clone)
}

// NewTrivial constructs a cache keyed by integers.
func NewTrivial[K util.Integer, V any](opt Options[K, V]) *Cache[K, V] {
	idx := dict.NewTrivial(dict.Options[K, *entry[K, V]]{Buckets: opt.Buckets})
	return newCache(opt, idx, func(k K) K { return k })
}

func newCache[K comparable, V any](opt Options[K, V], idx *dict.Dict[K, *entry[K, V]], clone func(K) K) *Cache[K, V] {
	if opt.MaxCost < 0 {
		panic(fmt.Sprintf("cache: MaxCost must be >= 0, got %d", opt.MaxCost))
	}
	if opt.MaxCost == 0 {
		opt.MaxCost = DefaultMaxCost
	}
	// default Metrics
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	if opt.Logger == nil {
		opt.Logger = zap.NewNop()
	}
	return &Cache[K, V]{
		index:   idx,
		lru:     list.New(list.Options[*entry[K, V]]{}),
		own:     item.NewOwnership(opt.Hooks, opt.AutoDelete),
		clone:   clone,
		maxCost: opt.MaxCost,
		prio:    opt.DefaultPriority,
		onEvict: opt.OnEvict,
		metrics: opt.Metrics,
		log:     opt.Logger,
	}
}

// ---- insertion ----

// Insert adds k→v with the default priority. See InsertWithPriority.
func (c *Cache[K, V]) Insert(k K, v V, cost int64) bool {
	return c.InsertWithPriority(k, v, cost, c.prio)
}

// InsertWithPriority adds k→v as the most recently used entry, evicting
// least recently used entries if the new cost does not fit. Eviction on
// behalf of an insert never removes entries whose priority floor is above
// priority.
//
// It returns false, leaving the cache unchanged and v untouched, if cost
// exceeds MaxCost or not enough room can be made. An existing entry for k
// is not replaced; the new entry shadows it (use Replace instead).
// A negative cost panics.
func (c *Cache[K, V]) InsertWithPriority(k K, v V, cost int64, priority int16) bool {
	if cost < 0 {
		panic(fmt.Sprintf("cache: negative cost %d", cost))
	}
	if cost > c.maxCost {
		c.reject(k, cost, priority, "cost exceeds limit")
		return false
	}
	if over := c.total + cost - c.maxCost; over > 0 {
		if !c.makeRoomFor(over, priority, EvictCapacity) {
			c.reject(k, cost, priority, "no room")
			return false
		}
	}

	e := &entry[K, V]{
		key:          c.clone(k),
		val:          c.own.Adopt(v),
		cost:         cost,
		priority:     priority,
		skipPriority: priority,
	}
	e.node = c.lru.PrependNode(e)
	c.index.Insert(e.key, e)
	c.total += cost
	c.inserts++
	c.metrics.Size(c.Len(), c.total)
	return true
}

// Replace removes every entry for k, then inserts k→v with the default
// priority. If the insert fails the old entries are already gone.
func (c *Cache[K, V]) Replace(k K, v V, cost int64) bool {
	for c.Remove(k) {
	}
	return c.Insert(k, v, cost)
}

// ---- lookup ----

// Find returns the value for k and marks the entry as most recently used.
// A hit also restores the entry's full priority.
func (c *Cache[K, V]) Find(k K) (V, bool) {
	e, ok := c.index.Find(k)
	if !ok {
		c.misses++
		c.metrics.Miss()
		var zero V
		return zero, false
	}
	c.lru.MoveToFront(e.node)
	e.skipPriority = e.priority
	c.hits++
	c.metrics.Hit()
	return e.val, true
}

// Peek returns the value for k without touching recency or statistics.
func (c *Cache[K, V]) Peek(k K) (V, bool) {
	if e, ok := c.index.Find(k); ok {
		return e.val, true
	}
	var zero V
	return zero, false
}

// ---- removal ----

// Remove deletes the entry for k and releases its value.
func (c *Cache[K, V]) Remove(k K) bool {
	v, ok := c.Take(k)
	if ok {
		c.own.Release(v)
	}
	return ok
}

// Take deletes the entry for k and hands its value back to the caller.
func (c *Cache[K, V]) Take(k K) (V, bool) {
	e, ok := c.index.Take(k)
	if !ok {
		var zero V
		return zero, false
	}
	c.lru.TakeNode(e.node)
	c.total -= e.cost
	c.metrics.Size(c.Len(), c.total)
	return e.val, true
}

// Clear releases every value and resets the total cost.
func (c *Cache[K, V]) Clear() {
	for e := range c.lru.All() {
		c.own.Release(e.val)
	}
	c.lru.Clear()
	c.index.Clear()
	c.total = 0
	c.metrics.Size(0, 0)
}

// ---- limits & introspection ----

// SetMaxCost changes the cost limit. Lowering it below the current total
// evicts least recently used entries first, regardless of priority.
// It returns false, leaving the limit unchanged, if n is negative or the
// cache could not be brought down to n.
func (c *Cache[K, V]) SetMaxCost(n int64) bool {
	if n < 0 {
		return false
	}
	if n < c.total && !c.makeRoomFor(c.total-n, maxPriority, EvictShrink) {
		c.log.Debug("cache: max cost not applied",
			zap.Int64("requested", n), zap.Int64("total", c.total))
		return false
	}
	c.maxCost = n
	return true
}

// Len returns the number of entries.
func (c *Cache[K, V]) Len() int { return c.index.Len() }

// MaxCost returns the cost limit.
func (c *Cache[K, V]) MaxCost() int64 { return c.maxCost }

// TotalCost returns the sum of all entry costs.
func (c *Cache[K, V]) TotalCost() int64 { return c.total }

// Stats returns a snapshot of the cache counters.
func (c *Cache[K, V]) Stats() Stats {
	return Stats{
		Entries:   c.Len(),
		Cost:      c.total,
		MaxCost:   c.maxCost,
		Hits:      c.hits,
		Misses:    c.misses,
		Inserts:   c.inserts,
		Rejects:   c.rejects,
		Evictions: c.evictions,
	}
}

// IndexStats reports how keys are spread over the index buckets.
func (c *Cache[K, V]) IndexStats() dict.Stats { return c.index.Stats() }

func (c *Cache[K, V]) reject(k K, cost int64, priority int16, why string) {
	c.rejects++
	c.log.Debug("cache: insert rejected",
		zap.Any("key", k),
		zap.Int64("cost", cost),
		zap.Int16("priority", priority),
		zap.Int64("total", c.total),
		zap.Int64("max", c.maxCost),
		zap.String("reason", why))
}
