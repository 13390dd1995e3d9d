// Package hasher provides the digest functions used to protect stored payloads.
package hasher

import (
	"crypto/sha1" //nolint:gosec
	"crypto/sha256"
	"errors"
	"fmt"
	"hash"
)

var (
	// ErrDataIsNil is returned if the passed data is nil.
	ErrDataIsNil = errors.New("data is nil")
	// ErrUnknownHasher is returned by ByName for an unsupported algorithm.
	ErrUnknownHasher = errors.New("unknown hasher")
)

const (
	// SHA256 is the name of the SHA-256 hasher.
	SHA256 = "sha256"
	// SHA1 is the name of the SHA-1 hasher.
	SHA1 = "sha1"
)

// Hasher computes a digest of a payload.
type Hasher interface {
	Name() string
	Hash(data []byte) ([]byte, error)
}

// digest starts a fresh hash.Hash on every call, so one Hasher can be shared
// between goroutines.
type digest struct {
	name    string
	newHash func() hash.Hash
}

// NewSHA256Hasher creates a SHA-256 hasher.
func NewSHA256Hasher() Hasher {
	return digest{name: SHA256, newHash: sha256.New}
}

// NewSHA1Hasher creates a SHA-1 hasher.
func NewSHA1Hasher() Hasher {
	return digest{name: SHA1, newHash: sha1.New}
}

// ByName returns the hasher registered under name.
func ByName(name string) (Hasher, error) {
	switch name {
	case SHA256:
		return NewSHA256Hasher(), nil
	case SHA1:
		return NewSHA1Hasher(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownHasher, name)
	}
}

// Name implements Hasher interface.
func (d digest) Name() string {
	return d.name
}

// Hash implements Hasher interface.
func (d digest) Hash(data []byte) ([]byte, error) {
	if data == nil {
		return nil, ErrDataIsNil
	}

	h := d.newHash()

	n, err := h.Write(data)
	if n < len(data) || err != nil {
		return nil, fmt.Errorf("failed to write data: %w", err)
	}

	return h.Sum(nil), nil
}
