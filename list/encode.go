package list

import (
	"io"

	"github.com/IvanBrykalov/collection/codec"
)

// Encode writes the item count followed by every item, first to last.
func (l *List[T]) Encode(w io.Writer, c codec.Codec[T]) error {
	return codec.Write(w, c, l.Len(), l.All())
}

// Decode reads a stream written by Encode and appends its items. On error
// the items decoded so far remain appended.
func (l *List[T]) Decode(r io.Reader, c codec.Codec[T]) error {
	return codec.Read(r, c, l.Append)
}
