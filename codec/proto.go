package codec

import (
	"google.golang.org/protobuf/proto"
)

// Proto encodes protobuf messages in the binary wire format.
type Proto[T proto.Message] struct {
	factory func() T
}

// NewProto creates a protobuf codec. factory must return a fresh, non-nil
// message to decode into.
func NewProto[T proto.Message](factory func() T) Proto[T] {
	return Proto[T]{factory: factory}
}

// Marshal serializes msg deterministically.
func (p Proto[T]) Marshal(msg T) ([]byte, error) {
	data, err := proto.MarshalOptions{Deterministic: true}.Marshal(msg)
	if err != nil {
		return nil, errMarshal(err)
	}

	return data, nil
}

// Unmarshal parses data into a new message.
func (p Proto[T]) Unmarshal(data []byte) (T, error) {
	msg := p.factory()

	err := proto.Unmarshal(data, msg)
	if err != nil {
		return zero[T](), errUnmarshal(err)
	}

	return msg, nil
}
