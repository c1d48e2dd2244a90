package dict

import (
	"io"
	"slices"

	"github.com/IvanBrykalov/collection/codec"
)

// Encode writes the entry count followed by every key/value pair. Each
// bucket is written oldest entry first, so decoding with Insert rebuilds
// the same shadowing order.
func (d *Dict[K, V]) Encode(w io.Writer, kc codec.Codec[K], vc codec.Codec[V]) error {
	pc := codec.Codec[codec.KV[K, V]](codec.Pair[K, V]{Key: kc, Value: vc})
	return codec.Write(w, pc, d.Len(), func(yield func(codec.KV[K, V]) bool) {
		var chain []codec.KV[K, V]
		for _, head := range d.buckets {
			chain = chain[:0]
			for r := head; !r.IsNil(); {
				e := d.entries.Get(r)
				chain = append(chain, codec.KV[K, V]{Key: e.key, Value: e.val})
				r = e.next
			}
			for _, kv := range slices.Backward(chain) {
				if !yield(kv) {
					return
				}
			}
		}
	})
}

// Decode reads a stream written by Encode and inserts its entries. On error
// the entries decoded so far remain inserted.
func (d *Dict[K, V]) Decode(r io.Reader, kc codec.Codec[K], vc codec.Codec[V]) error {
	pc := codec.Codec[codec.KV[K, V]](codec.Pair[K, V]{Key: kc, Value: vc})
	return codec.Read(r, pc, func(kv codec.KV[K, V]) { d.Insert(kv.Key, kv.Value) })
}
