package main

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"

	"github.com/IvanBrykalov/collection/cache"
)

// workload is the per-worker share of a Config.
type workload struct {
	readPct     int
	keys        uint64
	zipfS       float64
	zipfV       float64
	maxItemCost int64
	priorities  int
}

func newWorkload(cfg Config) workload {
	return workload{
		readPct:     cfg.ReadPct,
		keys:        uint64(cfg.Keys),
		zipfS:       cfg.ZipfS,
		zipfV:       cfg.ZipfV,
		maxItemCost: cfg.MaxItemCost,
		priorities:  cfg.Priorities,
	}
}

// result counts what one worker did.
type result struct {
	ops, reads, writes uint64
	hits, misses       uint64
	rejected           uint64
	stats              cache.Stats
}

func (r *result) add(o result) {
	r.ops += o.ops
	r.reads += o.reads
	r.writes += o.writes
	r.hits += o.hits
	r.misses += o.misses
	r.rejected += o.rejected

	r.stats.Entries += o.stats.Entries
	r.stats.Cost += o.stats.Cost
	r.stats.MaxCost += o.stats.MaxCost
	r.stats.Hits += o.stats.Hits
	r.stats.Misses += o.stats.Misses
	r.stats.Inserts += o.stats.Inserts
	r.stats.Rejects += o.stats.Rejects
	r.stats.Evictions += o.stats.Evictions
}

func (r result) hitRate() float64 {
	if r.reads == 0 {
		return 0
	}
	return float64(r.hits) / float64(r.reads) * 100
}

// preload fills s with the first n keys of the keyspace.
func (w workload) preload(s cache.Store[string, string], n int, r *rand.Rand) {
	for i := range n {
		k := "k:" + strconv.Itoa(i)
		s.InsertWithPriority(k, "v"+strconv.Itoa(i), w.cost(r), w.priority(r))
	}
}

// run drives s until ctx is done. Keys follow a Zipf distribution; writes
// draw cost and priority uniformly. s must not be shared with other
// goroutines.
func (w workload) run(ctx context.Context, s cache.Store[string, string], r *rand.Rand) (result, error) {
	var res result
	zipf := rand.NewZipf(r, w.zipfS, w.zipfV, w.keys-1)
	if zipf == nil {
		return res, fmt.Errorf("invalid zipf parameters s=%g v=%g", w.zipfS, w.zipfV)
	}
	key := func() string { return "k:" + strconv.FormatUint(zipf.Uint64(), 10) }

	for {
		select {
		case <-ctx.Done():
			res.stats = s.Stats()
			return res, nil
		default:
		}

		res.ops++
		if int(r.Int31n(100)) < w.readPct {
			res.reads++
			if _, ok := s.Find(key()); ok {
				res.hits++
			} else {
				res.misses++
			}
			continue
		}

		res.writes++
		if !s.InsertWithPriority(key(), "v"+strconv.Itoa(r.Int()), w.cost(r), w.priority(r)) {
			res.rejected++
		}
		if st := s.Stats(); st.Cost > st.MaxCost {
			return res, fmt.Errorf("cost %d above limit %d after %d ops", st.Cost, st.MaxCost, res.ops)
		}
	}
}

func (w workload) cost(r *rand.Rand) int64 { return 1 + r.Int63n(w.maxItemCost) }

func (w workload) priority(r *rand.Rand) int16 { return int16(r.Intn(w.priorities)) }
