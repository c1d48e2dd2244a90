// Package util contains internal helpers shared by the containers (hashing,
// key conversion).
//revive:disable:var-naming  // allow 'util' as an internal helpers package name
package util

import (
	"unicode"
	"unicode/utf8"
	"unsafe"
)

// Integer is the set of key types a trivial dictionary accepts.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// HashString folds s into 32 bits four bits at a time: each byte is added to
// the shifted hash and the top nibble, when set, is mixed back into the low
// bits and cleared.
func HashString(s string) uint32 {
	var h uint32
	for i := 0; i < len(s); i++ {
		h = step(h, uint32(s[i]))
	}
	return h
}

// HashStringFold is HashString over the lower-cased form of s, so keys that
// differ only in case land in the same bucket. ASCII is folded in place;
// other runes go through unicode.ToLower and are hashed as UTF-8. Bytes
// that are not valid UTF-8 are hashed as they are.
func HashStringFold(s string) uint32 {
	var h uint32
	var buf [utf8.UTFMax]byte
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			if 'A' <= c && c <= 'Z' {
				c += 'a' - 'A'
			}
			h = step(h, uint32(c))
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			h = step(h, uint32(c))
			i++
			continue
		}
		n := utf8.EncodeRune(buf[:], unicode.ToLower(r))
		for _, b := range buf[:n] {
			h = step(h, uint32(b))
		}
		i += size
	}
	return h
}

// EqualFold reports whether a and b are equal after the lower-casing
// HashStringFold applies, so keys it hashes together also compare equal.
func EqualFold(a, b string) bool {
	for a != "" && b != "" {
		ra, na := utf8.DecodeRuneInString(a)
		rb, nb := utf8.DecodeRuneInString(b)
		switch {
		case ra == utf8.RuneError && na == 1, rb == utf8.RuneError && nb == 1:
			if a[0] != b[0] {
				return false
			}
			na, nb = 1, 1
		case ra != rb && unicode.ToLower(ra) != unicode.ToLower(rb):
			return false
		}
		a, b = a[na:], b[nb:]
	}
	return a == b
}

func step(h, c uint32) uint32 {
	h = (h << 4) + c
	if g := h & 0xf0000000; g != 0 {
		h ^= g >> 24
		h ^= g
	}
	return h
}

// IntegerValue converts a trivial key to the unsigned value it is hashed by.
// Signed keys are reinterpreted, not sign-extended, at their own width.
func IntegerValue[K Integer](k K) uint64 {
	switch unsafe.Sizeof(k) {
	case 1:
		return uint64(*(*uint8)(unsafe.Pointer(&k)))
	case 2:
		return uint64(*(*uint16)(unsafe.Pointer(&k)))
	case 4:
		return uint64(*(*uint32)(unsafe.Pointer(&k)))
	default:
		return *(*uint64)(unsafe.Pointer(&k))
	}
}

// PointerValue returns the address of p as an integer key value.
func PointerValue[E any](p *E) uint64 {
	return uint64(uintptr(unsafe.Pointer(p)))
}
