package codec

import (
	"github.com/vmihailenco/msgpack/v5"
)

// MsgPack is a generic MessagePack codec.
type MsgPack[T any] struct{}

// NewMsgPack creates a new MessagePack codec for the specified type.
func NewMsgPack[T any]() MsgPack[T] {
	return MsgPack[T]{}
}

// Marshal serializes the typed data to MessagePack.
func (MsgPack[T]) Marshal(data T) ([]byte, error) {
	marshalled, err := msgpack.Marshal(data)
	if err != nil {
		return nil, errMarshal(err)
	}

	return marshalled, nil
}

// Unmarshal deserializes MessagePack data into a typed object.
func (MsgPack[T]) Unmarshal(data []byte) (T, error) {
	var out T

	err := msgpack.Unmarshal(data, &out)
	if err != nil {
		return zero[T](), errUnmarshal(err)
	}

	return out, nil
}
