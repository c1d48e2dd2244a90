package dict

import "github.com/IvanBrykalov/collection/item"

// DefaultBuckets is the bucket count used when Options.Buckets is not set.
const DefaultBuckets = 17

// Options configures a Dict. Zero values are safe; defaults are applied in
// the constructors:
//   - Buckets <= 0 => DefaultBuckets
//   - nil Hooks    => item.Default
type Options[K comparable, V any] struct {
	// Buckets is the initial size of the hash table. Use Resize to change it.
	Buckets int

	// IgnoreCase makes string keys match case-insensitively ("Foo" == "FOO").
	// Only used by New.
	IgnoreCase bool

	// ShareKeys stores string keys as given instead of cloning them.
	// Only used by New; integer and pointer keys are never copied.
	ShareKeys bool

	// AutoDelete makes the dict Destroy values it removes, replaces or clears.
	AutoDelete bool

	// Hooks supplies Duplicate/Destroy/Compare for values.
	Hooks item.Hooks[V]
}

// Op selects the behavior of Look.
type Op int

const (
	// Find returns the newest entry for the key.
	Find Op = iota
	// Insert adds a new entry, shadowing older entries with the same key.
	Insert
	// Replace removes every entry with the key, then inserts.
	Replace
)

func (op Op) String() string {
	switch op {
	case Find:
		return "find"
	case Insert:
		return "insert"
	case Replace:
		return "replace"
	default:
		return "unknown"
	}
}
