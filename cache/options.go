package cache

import (
	"go.uber.org/zap"

	"github.com/IvanBrykalov/collection/item"
)

// Defaults applied by the constructors.
const (
	DefaultMaxCost int64 = 100
	DefaultBuckets       = 17
)

// EvictReason explains why an entry was removed.
type EvictReason int

const (
	// EvictCapacity: removed to make room for an insert.
	EvictCapacity EvictReason = iota
	// EvictShrink: removed because SetMaxCost lowered the limit.
	EvictShrink
)

func (r EvictReason) String() string {
	switch r {
	case EvictCapacity:
		return "capacity"
	case EvictShrink:
		return "shrink"
	default:
		return "unknown"
	}
}

// Metrics exposes cache-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	Hit()
	Miss()
	Evict(reason EvictReason)
	Size(entries int, cost int64)
}

// Options configures the cache behavior. Zero values are safe;
// sane defaults are applied in New():
//   - MaxCost == 0  => DefaultMaxCost
//   - Buckets <= 0  => DefaultBuckets
//   - nil Metrics   => NoopMetrics
//   - nil Logger    => zap.NewNop()
type Options[K comparable, V any] struct {
	// MaxCost bounds the sum of entry costs. Negative values panic.
	MaxCost int64

	// Buckets sizes the key index.
	Buckets int

	// IgnoreCase makes string keys match case-insensitively. Only used by New.
	IgnoreCase bool

	// ShareKeys stores string keys as given instead of cloning them.
	// Only used by New.
	ShareKeys bool

	// AutoDelete makes the cache Destroy values it evicts, removes or clears.
	AutoDelete bool

	// DefaultPriority is the priority Insert uses.
	DefaultPriority int16

	// Hooks supplies Duplicate/Destroy for values.
	Hooks item.Hooks[V]

	// Observability
	// OnEvict is called for every evicted entry, before the value is
	// released. Explicit Remove/Take/Clear do not call it.
	OnEvict func(k K, v V, reason EvictReason)
	Metrics Metrics
	Logger  *zap.Logger
}
