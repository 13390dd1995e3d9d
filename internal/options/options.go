// Package options holds the functional option helpers shared by the state,
// storage and metrics packages.
package options

// Callback mutates an option set of type T.
type Callback[T any] func(*T)

// Apply starts from defaults and runs every non-nil callback in order.
func Apply[T any](defaults T, cbs []Callback[T]) T {
	opts := defaults

	for _, cb := range cbs {
		if cb != nil {
			cb(&opts)
		}
	}

	return opts
}
