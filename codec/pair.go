package codec

// KV is one key/value pair of an associative container.
type KV[K, V any] struct {
	Key   K
	Value V
}

// Pair encodes a KV as its key followed by its value.
type Pair[K, V any] struct {
	Key   Codec[K]
	Value Codec[V]
}

// Append appends kv.Key then kv.Value.
func (p Pair[K, V]) Append(b []byte, kv KV[K, V]) ([]byte, error) {
	b, err := p.Key.Append(b, kv.Key)
	if err != nil {
		return b, err
	}
	return p.Value.Append(b, kv.Value)
}

// Consume reads a key then a value from the front of b.
func (p Pair[K, V]) Consume(b []byte) (KV[K, V], int, error) {
	var kv KV[K, V]
	k, n, err := p.Key.Consume(b)
	if err != nil {
		return kv, 0, err
	}
	v, m, err := p.Value.Consume(b[n:])
	if err != nil {
		return kv, 0, err
	}
	kv.Key, kv.Value = k, v
	return kv, n + m, nil
}

var _ Codec[KV[string, int64]] = Pair[string, int64]{}
