// Package operation describes the single-key requests a transaction runs
// against a driver.
package operation

// Operation is a single read or write of one key.
type Operation struct {
	typ   Type
	key   []byte
	value []byte
}

// Get creates an operation reading key.
func Get(key []byte) Operation {
	return Operation{typ: TypeGet, key: key, value: nil}
}

// Put creates an operation writing value to key. A nil value stores an
// empty payload.
func Put(key []byte, value []byte) Operation {
	return Operation{typ: TypePut, key: key, value: value}
}

// Type returns the operation type.
func (o Operation) Type() Type {
	return o.typ
}

// Key returns the target key.
func (o Operation) Key() []byte {
	return o.key
}

// Value returns the payload of a put, nil for a get.
func (o Operation) Value() []byte {
	return o.value
}
