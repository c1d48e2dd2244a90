package list

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Removing the node an iterator stands on moves the iterator to the
// node's successor.
func TestIterator_AutoAdvanceOnRemove(t *testing.T) {
	t.Parallel()

	l := fromSlice("a", "b", "c")
	it := l.Iter()
	v, _ := it.Next()
	require.Equal(t, "b", v)

	require.True(t, l.RemoveItem("b"))
	v, ok := it.Current()
	require.True(t, ok)
	assert.Equal(t, "c", v)
	assert.NoError(t, it.Err())
}

func TestIterator_RemovingLastClearsPosition(t *testing.T) {
	t.Parallel()

	l := fromSlice("a", "b")
	it := l.IterLast()
	require.True(t, it.AtLast())

	_, ok := l.TakeLast()
	require.True(t, ok)
	_, ok = it.Current()
	assert.False(t, ok)
	_, ok = it.Next()
	assert.False(t, ok)
	assert.NoError(t, it.Err())
}

// Several consecutive removals are followed through the chain of retired
// nodes.
func TestIterator_FollowsChainOfRemovals(t *testing.T) {
	t.Parallel()

	l := fromSlice("a", "b", "c", "d")
	it := l.Iter()
	it.Next() // b

	l.RemoveItem("b")
	l.RemoveItem("c")
	v, ok := it.Current()
	require.True(t, ok)
	assert.Equal(t, "d", v)
}

// Two iterators on the same node both move.
func TestIterator_MultipleIterators(t *testing.T) {
	t.Parallel()

	l := fromSlice("a", "b", "c")
	it1, it2 := l.Iter(), l.Iter()
	it3 := l.IterLast()

	l.RemoveFirst()
	v1, _ := it1.Current()
	v2, _ := it2.Current()
	v3, _ := it3.Current()
	assert.Equal(t, "b", v1)
	assert.Equal(t, "b", v2)
	assert.Equal(t, "c", v3, "iterators elsewhere are untouched")
}

// Clear leaves iterators with no current item; Next then starts over.
func TestIterator_ClearResets(t *testing.T) {
	t.Parallel()

	l := fromSlice("a", "b")
	it := l.Iter()
	l.Clear()

	_, ok := it.Current()
	assert.False(t, ok)

	l.Append("x")
	_, ok = it.Current()
	assert.False(t, ok, "iterator is before the first item, not on it")
	v, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, "x", v)
}

// churn appends and removes n fillers, enough to make the list hand out
// slots of earlier removals again.
func churn(l *List[string], n int) {
	for range n {
		l.Append("filler")
	}
	for range n {
		l.RemoveLast()
	}
}

// A removed node whose slot was reused cannot be followed; the iterator
// reports the loss instead of jumping to an unrelated node.
func TestIterator_StaleAfterSlotReuse(t *testing.T) {
	t.Parallel()

	l := fromSlice("a")
	it := l.Iter()
	l.RemoveFirst() // retires a's slot
	churn(l, 8)
	l.Append("other") // reuses it

	_, ok := it.Current()
	assert.False(t, ok)
	assert.ErrorIs(t, it.Err(), ErrStale)

	v, ok := it.ToFirst()
	require.True(t, ok)
	assert.Equal(t, "other", v)
	assert.NoError(t, it.Err())
}

func TestIterator_BidirectionalWalk(t *testing.T) {
	t.Parallel()

	l := fromSlice("a", "b", "c")
	it := l.IterLast()
	var back []string
	for v, ok := it.Current(); ok; v, ok = it.Prev() {
		back = append(back, v)
	}
	assert.Equal(t, []string{"c", "b", "a"}, back)

	v, _ := it.ToFirst()
	assert.Equal(t, "a", v)
	assert.True(t, it.AtFirst())
	assert.Equal(t, 3, it.Len())

	require.True(t, l.MoveToFront(l.IterLast().Handle()))
	v, _ = it.Current()
	assert.Equal(t, "a", v, "moving another node does not move the iterator")
	assert.False(t, it.AtFirst())
}

func TestAll_RemovalDuringRange(t *testing.T) {
	t.Parallel()

	l := fromSlice("a", "b", "c", "d")
	var seen []string
	for v := range l.All() {
		seen = append(seen, v)
		if v == "b" || v == "c" {
			l.RemoveItem(v)
		}
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, seen)
	assert.Equal(t, []string{"a", "d"}, l.Items())
}

// An insert right after a removal does not cost the iterator its position.
func TestIterator_RemoveThenAppend(t *testing.T) {
	t.Parallel()

	l := fromSlice("a", "b", "c")
	it := l.Iter()
	it.Next()
	require.True(t, l.RemoveItem("b"))
	l.Append("d")

	v, ok := it.Current()
	require.True(t, ok)
	assert.Equal(t, "c", v)
	assert.NoError(t, it.Err())
}

func TestAll_RemoveThenAppendDuringRange(t *testing.T) {
	t.Parallel()

	l := fromSlice("a", "b", "c", "d")
	var seen []string
	for v := range l.All() {
		seen = append(seen, v)
		if v == "b" {
			l.RemoveItem("b")
			l.Append("B")
		}
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "B"}, seen)
	assert.Equal(t, []string{"a", "c", "d", "B"}, l.Items())
}

// Even when the yielded node's slot is handed out again, the range goes on
// from the node that followed it.
func TestAll_SlotReusedDuringRange(t *testing.T) {
	t.Parallel()

	l := fromSlice("a", "b", "c", "d")
	var seen []string
	for v := range l.All() {
		seen = append(seen, v)
		if v == "b" {
			l.RemoveItem("b")
			churn(l, 8)
			l.Append("B") // reuses b's slot
		}
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "B"}, seen)
	assert.Equal(t, []string{"a", "c", "d", "B"}, l.Items())
}
