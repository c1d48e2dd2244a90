// Package codec supplies the item read/write hooks containers use to
// serialize themselves to a byte stream.
//
// A Codec appends one item to a buffer and consumes one item from the front
// of a buffer. Containers frame their contents as a varint item count
// followed by the items, using protowire for the primitive encodings.
package codec

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

var (
	// ErrTruncated is returned when a stream ends in the middle of an item.
	ErrTruncated = errors.New("codec: truncated input")
	// ErrMalformed is returned for a count out of range or bytes left
	// over after the last item.
	ErrMalformed = errors.New("codec: malformed input")
)

// Codec reads and writes single items.
type Codec[T any] interface {
	// Append encodes v at the end of b and returns the extended buffer.
	Append(b []byte, v T) ([]byte, error)
	// Consume decodes one item from the front of b and reports how many
	// bytes it used.
	Consume(b []byte) (v T, n int, err error)
}

// AppendCount appends a container's item count.
func AppendCount(b []byte, n int) []byte {
	return protowire.AppendVarint(b, uint64(n))
}

// ConsumeCount reads an item count written by AppendCount.
func ConsumeCount(b []byte) (int, int, error) {
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, 0, wireErr(n)
	}
	if v > math.MaxInt {
		return 0, 0, fmt.Errorf("%w: count %d out of range", ErrMalformed, v)
	}
	return int(v), n, nil
}

// Write encodes count followed by the items of seq, then writes the whole
// frame to w. seq must yield exactly count items.
func Write[T any](w io.Writer, c Codec[T], count int, seq iter.Seq[T]) error {
	b := AppendCount(nil, count)
	for v := range seq {
		var err error
		if b, err = c.Append(b, v); err != nil {
			return fmt.Errorf("codec: encode item: %w", err)
		}
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("codec: write: %w", err)
	}
	return nil
}

// Read reads a frame written by Write from r and passes every decoded item
// to add, in stream order. The frame must span the whole stream.
func Read[T any](r io.Reader, c Codec[T], add func(T)) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("codec: read: %w", err)
	}
	count, n, err := ConsumeCount(b)
	if err != nil {
		return err
	}
	b = b[n:]
	for i := 0; i < count; i++ {
		v, n, err := c.Consume(b)
		if err != nil {
			return fmt.Errorf("codec: item %d: %w", i, err)
		}
		b = b[n:]
		add(v)
	}
	if len(b) > 0 {
		return fmt.Errorf("%w: %d trailing bytes", ErrMalformed, len(b))
	}
	return nil
}

func wireErr(n int) error {
	if errors.Is(protowire.ParseError(n), io.ErrUnexpectedEOF) {
		return ErrTruncated
	}
	return fmt.Errorf("codec: %w", protowire.ParseError(n))
}
