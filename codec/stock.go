package codec

import "google.golang.org/protobuf/encoding/protowire"

// String encodes strings as length-prefixed bytes.
type String struct{}

// Append appends v as a length-prefixed string.
func (String) Append(b []byte, v string) ([]byte, error) {
	return protowire.AppendString(b, v), nil
}

// Consume reads one length-prefixed string from the front of b.
func (String) Consume(b []byte) (string, int, error) {
	v, n := protowire.ConsumeString(b)
	if n < 0 {
		return "", 0, wireErr(n)
	}
	return v, n, nil
}

// Bytes encodes byte slices as length-prefixed bytes. Decoded slices are
// copies and do not alias the input buffer.
type Bytes struct{}

// Append appends v as length-prefixed bytes.
func (Bytes) Append(b []byte, v []byte) ([]byte, error) {
	return protowire.AppendBytes(b, v), nil
}

// Consume reads one length-prefixed byte slice from the front of b.
func (Bytes) Consume(b []byte) ([]byte, int, error) {
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return nil, 0, wireErr(n)
	}
	return append([]byte(nil), v...), n, nil
}

// Int64 encodes signed integers as zigzag varints.
type Int64 struct{}

// Append appends v as a zigzag varint.
func (Int64) Append(b []byte, v int64) ([]byte, error) {
	return protowire.AppendVarint(b, protowire.EncodeZigZag(v)), nil
}

// Consume reads one zigzag varint from the front of b.
func (Int64) Consume(b []byte) (int64, int, error) {
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, 0, wireErr(n)
	}
	return protowire.DecodeZigZag(v), n, nil
}

// Uint64 encodes unsigned integers as varints.
type Uint64 struct{}

// Append appends v as a varint.
func (Uint64) Append(b []byte, v uint64) ([]byte, error) {
	return protowire.AppendVarint(b, v), nil
}

// Consume reads one varint from the front of b.
func (Uint64) Consume(b []byte) (uint64, int, error) {
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, 0, wireErr(n)
	}
	return v, n, nil
}

// Compile-time checks.
var (
	_ Codec[string] = String{}
	_ Codec[[]byte] = Bytes{}
	_ Codec[int64]  = Int64{}
	_ Codec[uint64] = Uint64{}
)
