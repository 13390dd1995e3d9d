package codec

import (
	"gopkg.in/yaml.v3"
)

// YAML is a generic YAML codec.
type YAML[T any] struct{}

// NewYAML creates a new YAML codec for the specified type.
func NewYAML[T any]() YAML[T] {
	return YAML[T]{}
}

// Marshal serializes the typed data to YAML format.
func (YAML[T]) Marshal(data T) ([]byte, error) {
	marshalled, err := yaml.Marshal(data)
	if err != nil {
		return nil, errMarshal(err)
	}

	return marshalled, nil
}

// Unmarshal deserializes YAML data into a typed object.
func (YAML[T]) Unmarshal(data []byte) (T, error) {
	var out T

	err := yaml.Unmarshal(data, &out)
	if err != nil {
		return zero[T](), errUnmarshal(err)
	}

	return out, nil
}
