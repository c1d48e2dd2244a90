package cache

import (
	"math/rand"
	"strconv"
	"testing"
)

// benchmarkMix exercises a read/write mix against a warm cache.
// String keys include strconv/concat costs and often allocate, which is fine
// for an end-to-end benchmark.
func benchmarkMix(b *testing.B, readsPct int) {
	c := New(Options[string, string]{MaxCost: 100_000, Buckets: 1 << 16})

	// Preload half the capacity to get a realistic hit-rate.
	for i := range 50_000 {
		c.Insert("k:"+strconv.Itoa(i), "v", 1)
	}

	b.ReportAllocs()
	b.ResetTimer()

	r := rand.New(rand.NewSource(1))
	keyMask := (1 << 17) - 1
	for i := 0; i < b.N; i++ {
		k := "k:" + strconv.Itoa(i&keyMask)
		if r.Intn(100) < readsPct {
			c.Find(k)
		} else {
			c.Insert(k, "v", 1)
		}
	}
}

func BenchmarkCache_90r10w(b *testing.B) { benchmarkMix(b, 90) }
func BenchmarkCache_50r50w(b *testing.B) { benchmarkMix(b, 50) }

// benchmarkMixInt is the same workload but with int keys and varying costs.
// This removes strconv/alloc noise and better exposes the cache hot path.
func benchmarkMixInt(b *testing.B, readsPct int) {
	c := NewTrivial(Options[int, int]{MaxCost: 400_000, Buckets: 1 << 16})

	for i := range 50_000 {
		c.Insert(i, 1, int64(1+i%8))
	}

	b.ReportAllocs()
	b.ResetTimer()

	r := rand.New(rand.NewSource(1))
	keyMask := (1 << 17) - 1
	for i := 0; i < b.N; i++ {
		k := i & keyMask
		if r.Intn(100) < readsPct {
			c.Find(k)
		} else {
			c.InsertWithPriority(k, 1, int64(1+k%8), int16(k%3))
		}
	}
}

func BenchmarkCache_IntKeys_90r10w(b *testing.B) { benchmarkMixInt(b, 90) }
func BenchmarkCache_IntKeys_50r50w(b *testing.B) { benchmarkMixInt(b, 50) }
