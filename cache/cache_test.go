package cache

import (
	"math"
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type res struct {
	name   string
	closed bool
}

func (r *res) Close() error { r.closed = true; return nil }

type evicted struct {
	key    string
	reason EvictReason
}

// recordingMetrics counts Metrics calls.
type recordingMetrics struct {
	hits, misses int
	evicts       map[EvictReason]int
	entries      int
	cost         int64
}

func (m *recordingMetrics) Hit()  { m.hits++ }
func (m *recordingMetrics) Miss() { m.misses++ }
func (m *recordingMetrics) Evict(r EvictReason) {
	if m.evicts == nil {
		m.evicts = map[EvictReason]int{}
	}
	m.evicts[r]++
}
func (m *recordingMetrics) Size(entries int, cost int64) { m.entries, m.cost = entries, cost }

// sumCost recomputes the total from the recency list.
func sumCost[K comparable, V any](c *Cache[K, V]) int64 {
	var total int64
	it := c.Iter()
	for e, ok := it.Current(); ok; e, ok = it.Next() {
		total += e.Cost
	}
	return total
}

func keysMRU[V any](c *Cache[string, V]) []string {
	var out []string
	for k := range c.All() {
		out = append(out, k)
	}
	return out
}

func TestCache_Defaults(t *testing.T) {
	t.Parallel()

	c := New(Options[string, int]{})
	assert.Equal(t, DefaultMaxCost, c.MaxCost())
	assert.Zero(t, c.TotalCost())
	assert.Equal(t, DefaultBuckets, c.IndexStats().Buckets)

	assert.Panics(t, func() { New(Options[string, int]{MaxCost: -1}) })
	assert.Panics(t, func() { c.Insert("k", 1, -1) })
}

// Basic Insert/Find/Remove/Take semantics.
func TestCache_BasicInsertFindRemove(t *testing.T) {
	t.Parallel()

	c := New(Options[string, int]{MaxCost: 10})

	if !c.Insert("a", 1, 1) {
		t.Fatal("Insert a must succeed")
	}
	if v, ok := c.Find("a"); !ok || v != 1 {
		t.Fatalf("Find a want 1, got %v ok=%v", v, ok)
	}
	if !c.Remove("a") {
		t.Fatal("Remove a must be true")
	}
	if _, ok := c.Find("a"); ok {
		t.Fatal("a must be absent after Remove")
	}
	if c.Remove("a") {
		t.Fatal("second Remove must be false")
	}

	c.Insert("b", 2, 3)
	v, ok := c.Take("b")
	require.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Zero(t, c.TotalCost())
	assert.Zero(t, c.Len())
}

// Three entries of cost 1 fill the cache; a lookup promotes "a", so the
// next insert evicts the least recently used of the others.
func TestCache_EvictionOrder(t *testing.T) {
	t.Parallel()

	var got []evicted
	c := New(Options[string, string]{
		MaxCost: 3,
		OnEvict: func(k, _ string, r EvictReason) { got = append(got, evicted{k, r}) },
	})
	c.Insert("a", "A", 1)
	c.Insert("b", "B", 1)
	c.Insert("c", "C", 1)

	_, ok := c.Find("a")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "c", "b"}, keysMRU(c))

	require.True(t, c.Insert("d", "D", 1))
	assert.Equal(t, []evicted{{"b", EvictCapacity}}, got)

	_, ok = c.Peek("a")
	assert.True(t, ok, "promoted entry survives")
	_, ok = c.Peek("b")
	assert.False(t, ok)
	assert.Equal(t, []string{"d", "a", "c"}, keysMRU(c))
}

// An entry protected by a higher priority cannot be evicted on behalf of a
// lower-priority insert.
func TestCache_PriorityFloor(t *testing.T) {
	t.Parallel()

	c := New(Options[string, string]{MaxCost: 10})
	require.True(t, c.InsertWithPriority("x", "X", 10, 100))

	assert.False(t, c.InsertWithPriority("y", "Y", 1, 0))
	_, ok := c.Peek("x")
	assert.True(t, ok)
	_, ok = c.Peek("y")
	assert.False(t, ok)
	assert.Equal(t, int64(10), c.TotalCost())
	assert.Equal(t, uint64(1), c.Stats().Rejects)

	// Equal or higher priority may evict it.
	assert.True(t, c.InsertWithPriority("z", "Z", 1, 100))
	_, ok = c.Peek("x")
	assert.False(t, ok)
}

// Each failed attempt lowers the blocker's protection by one, so repeated
// pressure evicts an entry nobody looks up.
func TestCache_SkipPriorityDecay(t *testing.T) {
	t.Parallel()

	c := New(Options[string, int]{MaxCost: 4})
	require.True(t, c.InsertWithPriority("x", 0, 4, 2))

	assert.False(t, c.Insert("y", 1, 1)) // x: 2 -> 1
	assert.False(t, c.Insert("y", 1, 1)) // x: 1 -> 0
	assert.True(t, c.Insert("y", 1, 1))

	_, ok := c.Peek("x")
	assert.False(t, ok)
}

// A lookup restores full protection.
func TestCache_FindResetsDecay(t *testing.T) {
	t.Parallel()

	c := New(Options[string, int]{MaxCost: 4})
	require.True(t, c.InsertWithPriority("x", 0, 4, 2))

	assert.False(t, c.Insert("y", 1, 1)) // 2 -> 1
	_, ok := c.Find("x")                 // back to 2
	require.True(t, ok)
	assert.False(t, c.Insert("y", 1, 1)) // 2 -> 1
	assert.False(t, c.Insert("y", 1, 1)) // 1 -> 0
	assert.True(t, c.Insert("y", 1, 1))
}

func TestCache_DecayAtLowestPriority(t *testing.T) {
	t.Parallel()

	c := New(Options[string, int]{MaxCost: 1})
	require.True(t, c.InsertWithPriority("x", 0, 1, math.MinInt16+1))

	assert.False(t, c.InsertWithPriority("y", 1, 1, math.MinInt16))
	e, ok := c.Iter().Current()
	require.True(t, ok)
	assert.Equal(t, "x", e.Key)
	assert.Equal(t, int16(math.MinInt16+1), e.Priority, "decay never changes the priority itself")

	assert.True(t, c.InsertWithPriority("y", 1, 1, math.MinInt16))
}

// A plan that cannot free enough removes nothing, even entries it could
// have dropped.
func TestCache_FailedEvictionRemovesNothing(t *testing.T) {
	t.Parallel()

	var got []evicted
	c := New(Options[string, int]{
		MaxCost: 10,
		OnEvict: func(k string, _ int, r EvictReason) { got = append(got, evicted{k, r}) },
	})
	c.Insert("a", 1, 4)
	c.InsertWithPriority("b", 2, 4, 5)

	assert.False(t, c.Insert("c", 3, 8))
	assert.Empty(t, got)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, int64(8), c.TotalCost())
	assert.Equal(t, []string{"b", "a"}, keysMRU(c), "recency untouched")
}

func TestCache_OversizedRejected(t *testing.T) {
	t.Parallel()

	v := &res{name: "big"}
	c := New(Options[string, *res]{MaxCost: 5, AutoDelete: true})
	c.Insert("small", &res{}, 1)

	assert.False(t, c.Insert("big", v, 6))
	assert.False(t, v.closed, "refused value stays with the caller")
	assert.Equal(t, 1, c.Len())
}

func TestCache_AutoDelete(t *testing.T) {
	t.Parallel()

	a, b, d := &res{name: "a"}, &res{name: "b"}, &res{name: "d"}
	c := New(Options[string, *res]{MaxCost: 2, AutoDelete: true})
	c.Insert("a", a, 1)
	c.Insert("b", b, 1)
	c.Insert("d", d, 1) // evicts a

	assert.True(t, a.closed)
	got, ok := c.Take("b")
	require.True(t, ok)
	assert.Same(t, b, got)
	assert.False(t, b.closed)

	c.Clear()
	assert.True(t, d.closed)
	assert.Zero(t, c.Len())
	assert.Zero(t, c.TotalCost())
}

func TestCache_NoAutoDelete(t *testing.T) {
	t.Parallel()

	a := &res{name: "a"}
	c := New(Options[string, *res]{MaxCost: 1})
	c.Insert("a", a, 1)
	c.Insert("b", &res{}, 1)
	c.Clear()
	assert.False(t, a.closed)
}

func TestCache_SetMaxCost(t *testing.T) {
	t.Parallel()

	var got []evicted
	c := New(Options[string, int]{
		MaxCost: 10,
		OnEvict: func(k string, _ int, r EvictReason) { got = append(got, evicted{k, r}) },
	})
	c.InsertWithPriority("old", 1, 3, 100)
	c.Insert("mid", 2, 3)
	c.Insert("new", 3, 3)

	// Shrinking ignores priorities and evicts from the LRU end.
	require.True(t, c.SetMaxCost(4))
	assert.Equal(t, int64(4), c.MaxCost())
	assert.Equal(t, []evicted{{"old", EvictShrink}, {"mid", EvictShrink}}, got)
	assert.Equal(t, int64(3), c.TotalCost())

	assert.False(t, c.SetMaxCost(-1))
	assert.Equal(t, int64(4), c.MaxCost())

	require.True(t, c.SetMaxCost(50), "growing never evicts")
	assert.Equal(t, 1, c.Len())
}

func TestCache_Replace(t *testing.T) {
	t.Parallel()

	c := New(Options[string, int]{MaxCost: 10})
	c.Insert("k", 1, 2)
	c.Insert("k", 2, 2) // shadows
	require.Equal(t, 2, c.Len())

	require.True(t, c.Replace("k", 3, 5))
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, int64(5), c.TotalCost())
	v, _ := c.Find("k")
	assert.Equal(t, 3, v)
}

func TestCache_ShadowedKeyRemovedNewestFirst(t *testing.T) {
	t.Parallel()

	c := New(Options[string, int]{MaxCost: 10})
	c.Insert("k", 1, 1)
	c.Insert("k", 2, 1)

	v, _ := c.Find("k")
	assert.Equal(t, 2, v)
	require.True(t, c.Remove("k"))
	v, _ = c.Find("k")
	assert.Equal(t, 1, v)
	assert.Equal(t, int64(1), c.TotalCost())
}

func TestCache_IgnoreCase(t *testing.T) {
	t.Parallel()

	c := New(Options[string, int]{IgnoreCase: true})
	c.Insert("Foo", 1, 1)
	v, ok := c.Find("FOO")
	require.True(t, ok)
	assert.Equal(t, 1, v)
	assert.True(t, c.Remove("foo"))
}

func TestCache_TrivialKeys(t *testing.T) {
	t.Parallel()

	c := NewTrivial(Options[uint32, string]{MaxCost: 2, Buckets: 3})
	c.Insert(7, "seven", 1)
	c.Insert(10, "ten", 1) // same bucket as 7
	c.Insert(1, "one", 1)  // evicts 7

	_, ok := c.Find(7)
	assert.False(t, ok)
	v, ok := c.Find(10)
	require.True(t, ok)
	assert.Equal(t, "ten", v)
}

func TestCache_StatsAndMetrics(t *testing.T) {
	t.Parallel()

	m := &recordingMetrics{}
	c := New(Options[string, int]{MaxCost: 1, Metrics: m})
	c.Insert("a", 1, 1)
	c.Find("a")
	c.Find("nope")
	c.Insert("b", 2, 1) // evicts a
	c.Insert("c", 3, 2) // too big
	c.Peek("b")

	st := c.Stats()
	assert.Equal(t, uint64(1), st.Hits)
	assert.Equal(t, uint64(1), st.Misses)
	assert.Equal(t, uint64(2), st.Inserts)
	assert.Equal(t, uint64(1), st.Rejects)
	assert.Equal(t, uint64(1), st.Evictions)
	assert.Equal(t, 1, st.Entries)
	assert.InDelta(t, 0.5, st.HitRatio(), 1e-9)

	assert.Equal(t, 1, m.hits)
	assert.Equal(t, 1, m.misses)
	assert.Equal(t, 1, m.evicts[EvictCapacity])
	assert.Equal(t, 1, m.entries)
	assert.Equal(t, int64(1), m.cost)
}

func TestCache_LogsRejects(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	c := New(Options[string, int]{MaxCost: 1, Logger: zap.New(core)})
	c.InsertWithPriority("x", 1, 1, 10)
	c.Insert("y", 2, 1)

	require.Equal(t, 1, logs.FilterMessage("cache: eviction plan failed").Len())
	rejected := logs.FilterMessage("cache: insert rejected").All()
	require.Len(t, rejected, 1)
	assert.Equal(t, "y", rejected[0].ContextMap()["key"])
	assert.Equal(t, "no room", rejected[0].ContextMap()["reason"])
}

func TestCache_IteratorFollowsRemoval(t *testing.T) {
	t.Parallel()

	c := New(Options[string, int]{MaxCost: 3})
	c.InsertWithPriority("a", 1, 1, 7)
	c.Insert("b", 2, 1)
	c.Insert("c", 3, 1)

	lru := c.IterLRU()
	e, ok := lru.Current()
	require.True(t, ok)
	assert.Equal(t, Entry[string, int]{Key: "a", Value: 1, Cost: 1, Priority: 7}, e)

	mru := c.Iter()
	e, _ = mru.Current()
	require.Equal(t, "c", e.Key)
	require.True(t, c.Remove("c"))
	e, ok = mru.Current()
	require.True(t, ok)
	assert.Equal(t, "b", e.Key, "moved towards the LRU end")

	require.True(t, c.InsertWithPriority("d", 4, 2, 7)) // evicts a
	_, ok = lru.Current()
	assert.False(t, ok, "nothing is older than the evicted entry")
	assert.Equal(t, 2, lru.Len())

	e, _ = mru.ToFirst()
	assert.Equal(t, "d", e.Key)
	e, _ = mru.Next()
	assert.Equal(t, "b", e.Key)
	e, _ = mru.Prev()
	assert.Equal(t, "d", e.Key)
	e, _ = mru.ToLast()
	assert.Equal(t, "b", e.Key)
}

// For any sequence of operations the total stays within the limit and
// equals the sum of entry costs.
func TestCache_CostInvariant(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewSource(42))
	c := New(Options[string, int]{MaxCost: 50})
	for i := range 5000 {
		k := "k" + strconv.Itoa(r.Intn(40))
		switch op := r.Intn(10); {
		case op < 5:
			c.InsertWithPriority(k, i, int64(r.Intn(12)), int16(r.Intn(5)))
		case op < 7:
			c.Remove(k)
		case op < 9:
			c.Find(k)
		default:
			c.SetMaxCost(int64(20 + r.Intn(60)))
		}
		if c.TotalCost() > c.MaxCost() {
			t.Fatalf("step %d: total %d > max %d", i, c.TotalCost(), c.MaxCost())
		}
		if got := sumCost(c); got != c.TotalCost() {
			t.Fatalf("step %d: total %d != sum %d", i, c.TotalCost(), got)
		}
		if c.Len() != c.lru.Len() {
			t.Fatalf("step %d: index has %d entries, list %d", i, c.Len(), c.lru.Len())
		}
	}
}

func TestCache_ReplaceDuringAll(t *testing.T) {
	t.Parallel()

	c := New(Options[string, int]{})
	for i, k := range []string{"a", "b", "c", "d"} {
		c.Insert(k, i, 1)
	}

	var seen []string
	for k := range c.All() {
		seen = append(seen, k)
		if k == "c" {
			require.True(t, c.Replace("c", 30, 1))
		}
	}
	assert.Equal(t, []string{"d", "c", "b", "a"}, seen)
	assert.Equal(t, 4, c.Len())
	assert.Equal(t, []string{"c", "d", "b", "a"}, keysMRU(c))
}

// Removing and re-inserting under churn reuses the entry's slots; the range
// still visits everything older.
func TestCache_ChurnDuringAll(t *testing.T) {
	t.Parallel()

	c := New(Options[string, int]{})
	for i, k := range []string{"a", "b", "c", "d"} {
		c.Insert(k, i, 1)
	}

	var seen []string
	for k := range c.All() {
		seen = append(seen, k)
		if k == "c" {
			c.Remove("c")
			for i := range 8 {
				c.Insert("f"+strconv.Itoa(i), i, 1)
			}
			for i := range 8 {
				c.Remove("f" + strconv.Itoa(i))
			}
			c.Insert("c", 30, 1)
		}
	}
	assert.Equal(t, []string{"d", "c", "b", "a"}, seen)
	assert.Equal(t, int64(4), c.TotalCost())
	assert.Equal(t, c.TotalCost(), sumCost(c))
}
