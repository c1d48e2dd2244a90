package item

import (
	"cmp"
	"reflect"
)

// Same reports whether a and b are the same item by identity rather than by
// value: pointers, maps, channels and funcs must share an address, slices
// must share their backing array start and length, and any other comparable
// value must be ==. Non-comparable values are never the same.
func Same[T any](a, b T) bool {
	return same(reflect.ValueOf(&a).Elem(), reflect.ValueOf(&b).Elem())
}

func same(a, b reflect.Value) bool {
	if a.Kind() == reflect.Interface {
		if a.IsNil() || b.IsNil() {
			return a.IsNil() && b.IsNil()
		}
		a, b = a.Elem(), b.Elem()
		if a.Type() != b.Type() {
			return false
		}
	}
	switch a.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Chan, reflect.Map, reflect.Func:
		return a.Pointer() == b.Pointer()
	case reflect.Slice:
		return a.Pointer() == b.Pointer() && a.Len() == b.Len()
	}
	if a.Comparable() && b.Comparable() {
		return a.Equal(b)
	}
	return false
}

// Compare is the default ordering used when no Hooks are configured.
//
// Numbers, strings and bools use their natural order. Pointer-like values
// (pointers, maps, channels, funcs, slices) are ordered by address, so two
// handles to the same object compare equal. For anything else Compare only
// detects identity: it returns 0 for Same values and 1 otherwise, which is
// enough for find-by-value but not for sorting; supply a CompareFunc then.
func Compare[T any](a, b T) int {
	return compare(reflect.ValueOf(&a).Elem(), reflect.ValueOf(&b).Elem())
}

func compare(a, b reflect.Value) int {
	if a.Kind() == reflect.Interface {
		switch {
		case a.IsNil() && b.IsNil():
			return 0
		case a.IsNil():
			return -1
		case b.IsNil():
			return 1
		}
		a, b = a.Elem(), b.Elem()
		if a.Type() != b.Type() {
			return cmp.Compare(a.Type().String(), b.Type().String())
		}
	}
	switch a.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp.Compare(a.Int(), b.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return cmp.Compare(a.Uint(), b.Uint())
	case reflect.Float32, reflect.Float64:
		return cmp.Compare(a.Float(), b.Float())
	case reflect.String:
		return cmp.Compare(a.String(), b.String())
	case reflect.Bool:
		return cmp.Compare(boolRank(a.Bool()), boolRank(b.Bool()))
	case reflect.Pointer, reflect.UnsafePointer, reflect.Chan, reflect.Map, reflect.Func, reflect.Slice:
		if c := cmp.Compare(a.Pointer(), b.Pointer()); c != 0 {
			return c
		}
		if a.Kind() == reflect.Slice {
			return cmp.Compare(a.Len(), b.Len())
		}
		return 0
	}
	if same(a, b) {
		return 0
	}
	return 1
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}
