// Package cache provides a cost-bounded LRU cache with per-entry eviction
// priorities, built from the dict and list packages.
//
// Design
//
//   - Storage: a dict.Dict maps keys to entries for O(1) lookup, and a
//     list.List holds the same entries ordered MRU (head) to LRU (tail).
//     Every entry is in both, once.
//
//   - Cost: each entry carries a caller-defined non-negative cost. The sum
//     of costs never exceeds MaxCost after a successful Insert or
//     SetMaxCost. An entry whose cost alone exceeds MaxCost is refused.
//
//   - Priority: each entry carries an int16 priority. Making room for an
//     insert walks from the LRU end and stops at the first entry whose
//     priority is above the insert's. When that stops the walk short, the
//     blocking entry loses one point of protection; a lookup restores it.
//     Unlike a literal walk-and-decrement rule, entries the walk passes
//     over keep their protection; only the blocker of a failed plan decays.
//
//   - All-or-nothing eviction: eviction first plans (which tail entries
//     would go, and how much cost they free) and only then commits. A plan
//     that cannot free enough leaves the cache untouched and the insert
//     fails; the caller keeps its value.
//
//   - Ownership: with AutoDelete, values leaving the cache (evicted,
//     removed, cleared) are passed to Hooks.Destroy. Take hands them back
//     instead.
//
//   - Metrics: Options.Metrics receives Hit/Miss/Evict/Size signals.
//     By default NoopMetrics is used; plug a Prometheus adapter to export
//     metrics. Options.OnEvict(k, v, reason) is called for every eviction.
//     Options.Logger (zap) receives debug logs about refused inserts and
//     evictions.
//
// Basic usage
//
//	c := cache.New(cache.Options[string, []byte]{MaxCost: 1 << 20})
//	c.Insert("a", payload, int64(len(payload)))
//	if v, ok := c.Find("a"); ok {
//	    _ = v // use value
//	}
//	c.Remove("a")
//
// With priorities
//
//	c := cache.New(cache.Options[string, *Image]{MaxCost: 64, AutoDelete: true})
//	c.InsertWithPriority("logo", logo, 16, 10) // survives priority-0 pressure
//	c.Insert("thumb", thumb, 4)                // priority 0
//
// Exporting metrics (Prometheus adapter)
//
//	m := prom.New(nil, "app", "images", nil) // implements Metrics
//	c := cache.New(cache.Options[string, []byte]{MaxCost: 1 << 20, Metrics: m})
//
// Thread-safety & complexity
//
// A Cache is not safe for concurrent use; guard it with a mutex or keep one
// per goroutine. Lookups and inserts that do not evict are O(1) expected;
// eviction is O(1) per removed entry.
package cache
