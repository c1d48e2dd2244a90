package vector

import (
	"io"

	"github.com/IvanBrykalov/collection/codec"
)

// Encode writes the number of populated slots followed by their items in
// index order. Empty slots are not written.
func (v *Vector[T]) Encode(w io.Writer, c codec.Codec[T]) error {
	return codec.Write(w, c, v.count, func(yield func(T) bool) {
		for _, x := range v.All() {
			if !yield(x) {
				return
			}
		}
	})
}

// Decode replaces the contents with a stream written by Encode: the vector
// is cleared, resized to the decoded count and filled from slot 0. On error
// the vector is left unchanged.
func (v *Vector[T]) Decode(r io.Reader, c codec.Codec[T]) error {
	var items []T
	if err := codec.Read(r, c, func(x T) { items = append(items, x) }); err != nil {
		return err
	}
	v.Clear()
	v.slots = make([]slot[T], len(items))
	for i, x := range items {
		v.slots[i] = slot[T]{v: x, set: true}
	}
	v.count = len(items)
	return nil
}
