package state

import (
	"errors"
	"fmt"
)

// ErrFrameworkID is wrapped by every error returned from the framework
// identity accessors.
var ErrFrameworkID = errors.New("could not access framework ID")

// TransportError is returned when a fetch or store did not complete, either
// because the store failed or because the wait was interrupted.
type TransportError struct {
	Op  string
	Key string

	parent error
}

func errTransport(op string, key string, parent error) error {
	if parent == nil {
		return nil
	}

	return TransportError{
		Op:     op,
		Key:    key,
		parent: parent,
	}
}

func (e TransportError) Error() string {
	return fmt.Sprintf("failed to %s '%s': %s", e.Op, e.Key, e.parent)
}

// Unwrap returns the underlying error.
func (e TransportError) Unwrap() error {
	return e.parent
}

// DecodeError is returned when a stored payload cannot be decoded.
type DecodeError struct {
	Key string

	parent error
}

func errDecode(key string, parent error) error {
	if parent == nil {
		return nil
	}

	return DecodeError{Key: key, parent: parent}
}

func (e DecodeError) Error() string {
	return fmt.Sprintf("failed to decode '%s': %s", e.Key, e.parent)
}

// Unwrap returns the underlying error.
func (e DecodeError) Unwrap() error {
	return e.parent
}

// EncodeError is returned when a value cannot be encoded for storage.
type EncodeError struct {
	Key string

	parent error
}

func errEncode(key string, parent error) error {
	if parent == nil {
		return nil
	}

	return EncodeError{Key: key, parent: parent}
}

func (e EncodeError) Error() string {
	return fmt.Sprintf("failed to encode '%s': %s", e.Key, e.parent)
}

// Unwrap returns the underlying error.
func (e EncodeError) Unwrap() error {
	return e.parent
}

// InvalidKeyError represents an error for invalid key format.
type InvalidKeyError struct {
	Key     string
	Problem string
}

func errInvalidKey(key string, problem string) error {
	return InvalidKeyError{
		Key:     key,
		Problem: problem,
	}
}

func (e InvalidKeyError) Error() string {
	return fmt.Sprintf("invalid key '%s': %s", e.Key, e.Problem)
}

// ConflictError is returned when a write lost an optimistic concurrency race.
// It wraps variable.ErrVersionConflict.
type ConflictError struct {
	Key string

	parent error
}

func errConflict(key string, parent error) error {
	if parent == nil {
		return nil
	}

	return ConflictError{Key: key, parent: parent}
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("conflicting write to '%s': %s", e.Key, e.parent)
}

// Unwrap returns the underlying error.
func (e ConflictError) Unwrap() error {
	return e.parent
}
