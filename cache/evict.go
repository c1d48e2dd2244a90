package cache

import (
	"math"

	"go.uber.org/zap"
)

// maxPriority lets eviction remove any entry.
const maxPriority = math.MaxInt16

// evictionPlan is the outcome of walking the recency list from the LRU end:
// the number of tail entries to drop and the cost they free. blocker is the
// protected entry that stopped the walk early, if any.
type evictionPlan[K comparable, V any] struct {
	dumps   int
	cost    int64
	blocker *entry[K, V]
}

// plan simulates freeing needed cost at the given priority without touching
// the cache. The walk stops once enough cost is collected, at the head of
// the list, or at the first entry whose skipPriority is above priority.
func (c *Cache[K, V]) plan(needed int64, priority int16) evictionPlan[K, V] {
	var p evictionPlan[K, V]
	it := c.lru.IterLast()
	for e, ok := it.Current(); ok && p.cost < needed; e, ok = it.Prev() {
		if e.skipPriority > priority {
			p.blocker = e
			break
		}
		p.cost += e.cost
		p.dumps++
	}
	return p
}

// makeRoomFor frees at least needed cost or nothing at all. When the plan
// falls short, the entry that blocked it loses one step of protection, so
// repeated pressure eventually gets past entries that are never looked up.
func (c *Cache[K, V]) makeRoomFor(needed int64, priority int16, reason EvictReason) bool {
	p := c.plan(needed, priority)
	if p.cost < needed {
		if b := p.blocker; b != nil && b.skipPriority > math.MinInt16 {
			b.skipPriority--
		}
		c.log.Debug("cache: eviction plan failed",
			zap.Int64("needed", needed),
			zap.Int64("available", p.cost),
			zap.Int16("priority", priority),
			zap.Stringer("reason", reason))
		return false
	}
	c.commit(p, reason)
	return true
}

// commit removes the p.dumps least recently used entries.
func (c *Cache[K, V]) commit(p evictionPlan[K, V], reason EvictReason) {
	for range p.dumps {
		e, ok := c.lru.TakeLast()
		if !ok {
			break
		}
		c.index.TakeItem(e.key, e)
		c.total -= e.cost
		c.evictions++
		if c.onEvict != nil {
			c.onEvict(e.key, e.val, reason)
		}
		c.metrics.Evict(reason)
		c.own.Release(e.val)
	}
	c.metrics.Size(c.Len(), c.total)
	c.log.Debug("cache: evicted",
		zap.Int("entries", p.dumps),
		zap.Int64("cost", p.cost),
		zap.Stringer("reason", reason))
}
