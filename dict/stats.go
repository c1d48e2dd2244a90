package dict

import (
	"fmt"
	"strings"
)

// Stats describes how entries are spread over the buckets.
type Stats struct {
	Buckets int
	Entries int
	Empty   int // buckets with no entry
	Longest int // longest chain

	// Chains[n] is the number of buckets holding exactly n entries.
	Chains []int
}

// Stats walks the table and reports its shape.
func (d *Dict[K, V]) Stats() Stats {
	lens := make([]int, len(d.buckets))
	s := Stats{Buckets: len(d.buckets)}
	for b, head := range d.buckets {
		n := 0
		for r := head; !r.IsNil(); r = d.entries.Get(r).next {
			n++
		}
		lens[b] = n
		s.Entries += n
		s.Longest = max(s.Longest, n)
		if n == 0 {
			s.Empty++
		}
	}
	s.Chains = make([]int, s.Longest+1)
	for _, n := range lens {
		s.Chains[n]++
	}
	return s
}

// AvgChain returns the mean length of the non-empty chains.
func (s Stats) AvgChain() float64 {
	used := s.Buckets - s.Empty
	if used == 0 {
		return 0
	}
	return float64(s.Entries) / float64(used)
}

// String renders the stats with a small histogram of chain lengths.
func (s Stats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "buckets=%d entries=%d empty=%d longest=%d avg=%.2f",
		s.Buckets, s.Entries, s.Empty, s.Longest, s.AvgChain())
	for n, c := range s.Chains {
		if c > 0 {
			fmt.Fprintf(&b, "\n%3d: %s %d", n, strings.Repeat("*", min(c, 50)), c)
		}
	}
	return b.String()
}
