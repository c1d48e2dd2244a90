// Package slab stores container nodes in a slice with stable indices and
// generation counters.
//
// A Ref names one allocation: the slot it lives in and the generation the
// slot had when it was handed out. Freeing a slot "retires" it: the
// generation is bumped once and the payload stays readable, so whoever held
// the old Ref can still read the node's last links (its successor) and move
// on. Reusing the slot bumps the generation again, after which old Refs are
// detectably stale. Iterators built on this need no back-pointers and the
// container keeps no list of outstanding iterators.
package slab

// Ref is a handle to a slot allocation. The zero Ref is nil.
type Ref struct {
	id  uint32 // slot index + 1; 0 => nil
	gen uint32
}

// Nil is the zero Ref.
var Nil Ref

// IsNil reports whether r refers to nothing.
func (r Ref) IsNil() bool { return r.id == 0 }

// State describes what a Ref currently resolves to.
type State uint8

const (
	// Invalid: nil Ref, or the slot was reused since r was issued.
	Invalid State = iota
	// Live: r is the current allocation of its slot.
	Live
	// Retired: r's allocation was freed and the slot not yet reused;
	// the payload still holds the node's last links.
	Retired
)

type slot[T any] struct {
	val     T
	gen     uint32
	retired bool
}

// Slab is a generational arena. The zero value is ready to use.
// Not safe for concurrent use.
type Slab[T any] struct {
	slots []slot[T]
	free  []uint32 // FIFO of reusable slot indices
	live  int
}

// minRetired is the smallest number of retired slots kept readable before
// Alloc starts reusing them.
const minRetired = 8

// Alloc stores v in a free slot (or a new one) and returns its Ref.
// Freed slots are reused oldest-first, and only once more than
// max(minRetired, Len()/4) of them are waiting, so a retired payload
// survives ordinary remove-then-insert churn.
func (s *Slab[T]) Alloc(v T) Ref {
	var idx uint32
	if len(s.free) > max(minRetired, s.live/4) {
		idx = s.free[0]
		s.free = s.free[1:]
		sl := &s.slots[idx]
		sl.gen++
		sl.retired = false
		sl.val = v
	} else {
		idx = uint32(len(s.slots))
		s.slots = append(s.slots, slot[T]{val: v})
	}
	s.live++
	return Ref{id: idx + 1, gen: s.slots[idx].gen}
}

// Get returns a pointer to the payload of a live Ref, or nil.
// The pointer is valid until the next Alloc (which may grow the slice).
func (s *Slab[T]) Get(r Ref) *T {
	if sl := s.slot(r); sl != nil && !sl.retired && sl.gen == r.gen {
		return &sl.val
	}
	return nil
}

// Lookup resolves r and returns its state and payload (nil when Invalid).
// For Retired refs the payload is the node as it was when freed.
func (s *Slab[T]) Lookup(r Ref) (State, *T) {
	sl := s.slot(r)
	switch {
	case sl == nil:
		return Invalid, nil
	case !sl.retired && sl.gen == r.gen:
		return Live, &sl.val
	case sl.retired && sl.gen == r.gen+1:
		return Retired, &sl.val
	default:
		return Invalid, nil
	}
}

// Free retires a live Ref. The payload is left in place for forwarding;
// callers should zero any fields that pin memory before calling Free.
// Freeing a non-live Ref is a no-op and reports false.
func (s *Slab[T]) Free(r Ref) bool {
	sl := s.slot(r)
	if sl == nil || sl.retired || sl.gen != r.gen {
		return false
	}
	sl.gen++
	sl.retired = true
	s.free = append(s.free, r.id-1)
	s.live--
	return true
}

// Len returns the number of live allocations.
func (s *Slab[T]) Len() int { return s.live }

// Reset frees every live allocation and zeroes all payloads, so retired
// Refs resolve to empty nodes with no links. Slots are kept for reuse.
func (s *Slab[T]) Reset() {
	var zero T
	for i := range s.slots {
		sl := &s.slots[i]
		if !sl.retired {
			sl.gen++
			sl.retired = true
			s.free = append(s.free, uint32(i))
		}
		sl.val = zero
	}
	s.live = 0
}

// Each calls fn for every live allocation in slot order.
func (s *Slab[T]) Each(fn func(r Ref, v *T)) {
	for i := range s.slots {
		sl := &s.slots[i]
		if !sl.retired {
			fn(Ref{id: uint32(i) + 1, gen: sl.gen}, &sl.val)
		}
	}
}

func (s *Slab[T]) slot(r Ref) *slot[T] {
	if r.id == 0 || int(r.id) > len(s.slots) {
		return nil
	}
	return &s.slots[r.id-1]
}

// Cursor is a container position built on a slab: the Ref it stands on and
// the container epoch it was taken in. Containers bump their epoch when
// they discard every node at once (clear, rehash), which sends all cursors
// back before the first node.
type Cursor struct {
	At     Ref
	Epoch  uint64
	Before bool // no current node; the next step goes to the first node
	Stale  bool // At was reused before the cursor could follow it
}

// Resolve returns the live Ref c stands on, or Nil, updating c in place.
// A retired Ref is replaced by forward(payload), the successor the node
// recorded when it was freed, and resolution continues from there.
func (s *Slab[T]) Resolve(c *Cursor, epoch uint64, forward func(*T) Ref) Ref {
	if c.Epoch != epoch {
		*c = Cursor{Epoch: epoch, Before: true}
		return Nil
	}
	for !c.At.IsNil() {
		st, v := s.Lookup(c.At)
		switch st {
		case Live:
			return c.At
		case Retired:
			c.At = forward(v)
		default:
			c.At = Nil
			c.Stale = true
		}
	}
	return Nil
}
