package codec

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/tarantool/go-state/crypto"
	"github.com/tarantool/go-state/hasher"
)

// envelope is the stored form of a verified payload.
type envelope struct {
	_msgpack struct{} `msgpack:",as_array"` //nolint:unused

	Hasher    string
	Digest    []byte
	Signer    string
	Signature []byte
	Data      []byte
}

// Verified wraps another codec and stores its output together with a digest
// and, when a signer is configured, a signature. Decoding rejects payloads
// whose digest or signature does not match.
type Verified[T any] struct {
	inner  Codec[T]
	hasher hasher.Hasher
	signer crypto.SignerVerifier
}

// NewVerified creates a verified codec. signer may be nil, in which case only
// the digest is checked.
func NewVerified[T any](inner Codec[T], h hasher.Hasher, signer crypto.SignerVerifier) Verified[T] {
	return Verified[T]{
		inner:  inner,
		hasher: h,
		signer: signer,
	}
}

// Marshal encodes data with the inner codec and seals the result.
func (v Verified[T]) Marshal(data T) ([]byte, error) {
	raw, err := v.inner.Marshal(data)
	if err != nil {
		return nil, err
	}

	if raw == nil {
		raw = []byte{}
	}

	digest, err := v.hasher.Hash(raw)
	if err != nil {
		return nil, errMarshal(fmt.Errorf("failed to hash: %w", err))
	}

	env := envelope{
		Hasher: v.hasher.Name(),
		Digest: digest,
		Data:   raw,
	}

	if v.signer != nil {
		env.Signer = v.signer.Name()

		env.Signature, err = v.signer.Sign(raw)
		if err != nil {
			return nil, errMarshal(err)
		}
	}

	out, err := msgpack.Marshal(env)
	if err != nil {
		return nil, errMarshal(err)
	}

	return out, nil
}

// Unmarshal checks the envelope and decodes the payload with the inner codec.
func (v Verified[T]) Unmarshal(data []byte) (T, error) {
	var env envelope

	err := msgpack.Unmarshal(data, &env)
	if err != nil {
		return zero[T](), errUnmarshal(err)
	}

	if env.Data == nil {
		env.Data = []byte{}
	}

	err = v.check(env)
	if err != nil {
		return zero[T](), errUnmarshal(err)
	}

	return v.inner.Unmarshal(env.Data)
}

func (v Verified[T]) check(env envelope) error {
	if env.Hasher != v.hasher.Name() {
		return fmt.Errorf("%w: hashed with %q, expected %q", ErrIntegrity, env.Hasher, v.hasher.Name())
	}

	digest, err := v.hasher.Hash(env.Data)
	if err != nil {
		return fmt.Errorf("failed to hash: %w", err)
	}

	if !bytes.Equal(digest, env.Digest) {
		return fmt.Errorf("%w: digest mismatch", ErrIntegrity)
	}

	if v.signer == nil {
		return nil
	}

	if env.Signer != v.signer.Name() {
		return fmt.Errorf("%w: signed with %q, expected %q", ErrIntegrity, env.Signer, v.signer.Name())
	}

	err = v.signer.Verify(env.Data, env.Signature)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIntegrity, err)
	}

	return nil
}
