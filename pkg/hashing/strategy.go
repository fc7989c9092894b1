package hashing

import (
	"reflect"
)

// Strategy digests and compares keys of type K.
//
// Digest must be deterministic and depend only on the key's value. Equal must
// be consistent with Digest: equal keys have equal digests.
type Strategy[K any] interface {
	Digest(key K) uint64
	Equal(a, b K) bool
}

// rawKeyer is implemented by strategies that hash a byte view of the key.
// Router uses it to digest the same bytes with a different function.
type rawKeyer[K any] interface {
	rawBytes(key *K) []byte
}

type unwrapper[K any] interface {
	Unwrap() Strategy[K]
}

// Base strips wrappers such as Memoized and returns the innermost strategy.
func Base[K any](s Strategy[K]) Strategy[K] {
	for {
		w, ok := s.(unwrapper[K])
		if !ok {
			return s
		}
		s = w.Unwrap()
	}
}

type funcStrategy[K any] struct {
	digest func(K) uint64
	equal  func(a, b K) bool
}

// Func builds a strategy from a caller-supplied digest and equality pair.
// This is the way to use keys outside the Digestible set, such as structs.
func Func[K any](digest func(K) uint64, equal func(a, b K) bool) (Strategy[K], error) {
	if digest == nil || equal == nil {
		return nil, ErrUnsupportedKeyType.WithDetails("digest and equal functions are both required")
	}
	return funcStrategy[K]{digest: digest, equal: equal}, nil
}

func (s funcStrategy[K]) Digest(key K) uint64 { return s.digest(key) }

func (s funcStrategy[K]) Equal(a, b K) bool { return s.equal(a, b) }

// ForType binds the default strategy for K.
//
// K must be a fixed-width primitive (including named types whose underlying
// type is one). Strings, slices, structs, pointers and interfaces fail with
// ErrUnsupportedKeyType; use String, Bytes or Func for those.
func ForType[K any]() (Strategy[K], error) {
	t := reflect.TypeOf((*K)(nil)).Elem()
	if !fixedWidth(t.Kind()) {
		return nil, ErrUnsupportedKeyType.WithDetailsf("%s keys require an explicit strategy", t)
	}
	return byteStrategy[K]{mix: mixMultiplicative}, nil
}

func fixedWidth(k reflect.Kind) bool {
	switch k {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return true
	default:
		return false
	}
}
