// Package codec provides the typed serialization capability used by the
// state facade to turn caller values into store payloads and back.
package codec

// Codec marshals values of type T to bytes and back. Implementations must be
// safe for concurrent use.
type Codec[T any] interface {
	Marshal(data T) ([]byte, error)
	Unmarshal(data []byte) (T, error)
}

func zero[T any]() T {
	var out T
	return out
}
