package cache

import (
	"strings"
	"testing"
)

// Fuzz basic Insert/Find/Remove semantics under arbitrary string inputs.
// Guards against panics and ensures core invariants hold.
func FuzzCache_InsertFindRemove(f *testing.F) {
	f.Add("", "", int64(0), int16(0))
	f.Add("a", "1", int64(1), int16(5))
	f.Add("αβγ", "δ", int64(16), int16(-3))
	f.Add("emoji🙂", "🙂🙂", int64(17), int16(0))
	f.Add("long", strings.Repeat("x", 1024), int64(4), int16(100))

	f.Fuzz(func(t *testing.T, k, v string, cost int64, prio int16) {
		if cost < 0 {
			cost = -cost
		}
		cost %= 32

		c := New(Options[string, string]{MaxCost: 16})
		c.Insert("filler", "f", 8)

		// The filler only yields to inserts of at least its own priority.
		fits := cost <= 8 || (cost <= 16 && prio >= 0)
		ok := c.InsertWithPriority(k, v, cost, prio)
		if ok != fits {
			t.Fatalf("insert cost %d: got %v", cost, ok)
		}
		if c.TotalCost() > c.MaxCost() {
			t.Fatalf("total %d above max %d", c.TotalCost(), c.MaxCost())
		}
		if !ok {
			return
		}

		got, found := c.Find(k)
		if !found || got != v {
			t.Fatalf("after Insert/Find: want %q, got %q ok=%v", v, got, found)
		}
		if !c.Remove(k) {
			t.Fatalf("Remove must return true")
		}
		if k != "filler" {
			if _, found := c.Find(k); found {
				t.Fatalf("key must be absent after Remove")
			}
		}
	})
}
