// Package variable provides the versioned value exchanged with a coordination
// store. A Variable carries a payload together with the store revision it was
// read at, which the store checks on write for optimistic concurrency.
package variable

import "errors"

// ErrVersionConflict is returned by a store when the version carried by a
// variable is no longer the current version of its key.
var ErrVersionConflict = errors.New("version conflict")

// Variable is an immutable named payload tagged with a store version.
// Version 0 means the key did not exist when the variable was fetched.
type Variable struct {
	name    string
	value   []byte
	version int64
}

// New creates a variable. Drivers and store clients use it to materialise
// fetch results; callers normally obtain variables from Fetch.
func New(name string, value []byte, version int64) Variable {
	return Variable{
		name:    name,
		value:   value,
		version: version,
	}
}

// Name returns the key of the variable.
func (v Variable) Name() string {
	return v.name
}

// Value returns the payload. The returned slice must not be modified.
func (v Variable) Value() []byte {
	return v.value
}

// Version returns the store revision the variable was read at.
func (v Variable) Version() int64 {
	return v.version
}

// IsEmpty reports whether the payload has zero length.
func (v Variable) IsEmpty() bool {
	return len(v.value) == 0
}

// Mutate returns a copy carrying the same name and version with a new payload.
// It does not contact the store.
func (v Variable) Mutate(value []byte) Variable {
	return Variable{
		name:    v.name,
		value:   value,
		version: v.version,
	}
}
