package state

import (
	"context"

	"github.com/tarantool/go-option"

	"github.com/tarantool/go-state/codec"
)

// Typed is a view of a State that stores values of type T using a codec.
type Typed[T any] struct {
	state *State
	codec codec.Codec[T]
}

// NewTyped creates a typed view of s.
func NewTyped[T any](s *State, c codec.Codec[T]) *Typed[T] {
	return &Typed[T]{
		state: s,
		codec: c,
	}
}

// Get returns the value stored at key, or None when the key holds no payload.
func (t *Typed[T]) Get(ctx context.Context, key string) (option.Generic[T], error) {
	payload, err := t.state.get(ctx, key)
	if err != nil {
		return option.None[T](), t.state.fail("get", key, err)
	}

	if len(payload) == 0 {
		return option.None[T](), nil
	}

	value, err := t.codec.Unmarshal(payload)
	if err != nil {
		return option.None[T](), t.state.fail("get", key, errDecode(key, err))
	}

	return option.Some(value), nil
}

// Set encodes value and stores it at key.
func (t *Typed[T]) Set(ctx context.Context, key string, value T) error {
	return t.state.fail("set", key, t.set(ctx, key, value))
}

// SetAndCreateParents creates the placeholders for key as Mkdir does and then
// stores value at key. Whitespace is removed from key.
func (t *Typed[T]) SetAndCreateParents(ctx context.Context, key string, value T) error {
	key = normalizeKey(key)

	err := t.state.mkdir(ctx, key)
	if err == nil {
		err = t.set(ctx, key, value)
	}

	return t.state.fail("set", key, err)
}

// Clear replaces the value at key with an empty payload, after which Get
// returns None.
func (t *Typed[T]) Clear(ctx context.Context, key string) error {
	return t.state.fail("clear", key, t.state.set(ctx, key, nil))
}

func (t *Typed[T]) set(ctx context.Context, key string, value T) error {
	payload, err := t.codec.Marshal(value)
	if err != nil {
		return errEncode(key, err)
	}

	return t.state.set(ctx, key, payload)
}
