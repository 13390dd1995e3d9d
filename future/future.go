// Package future provides a single-assignment asynchronous result.
//
// Coordination store clients hand futures back from Fetch and Store; the state
// facade blocks on them with [Future.Get].
package future

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrInterrupted is returned by Get when the waiting context finishes before
// the future completes.
var ErrInterrupted = errors.New("wait interrupted")

// Future holds a value of type T or an error that becomes available later.
type Future[T any] struct {
	once  sync.Once
	done  chan struct{}
	value T
	err   error
}

// New returns an incomplete future.
func New[T any]() *Future[T] {
	return &Future[T]{
		once: sync.Once{},
		done: make(chan struct{}),
	}
}

// Go runs fn in a new goroutine and completes the returned future with its result.
func Go[T any](fn func() (T, error)) *Future[T] {
	fut := New[T]()

	go func() {
		value, err := fn()
		if err != nil {
			fut.Reject(err)
			return
		}

		fut.Resolve(value)
	}()

	return fut
}

// Resolved returns a future already completed with value.
func Resolved[T any](value T) *Future[T] {
	fut := New[T]()
	fut.Resolve(value)

	return fut
}

// Rejected returns a future already completed with err.
func Rejected[T any](err error) *Future[T] {
	fut := New[T]()
	fut.Reject(err)

	return fut
}

// Resolve completes the future with value. Only the first completion counts.
func (f *Future[T]) Resolve(value T) {
	f.once.Do(func() {
		f.value = value
		close(f.done)
	})
}

// Reject completes the future with err. Only the first completion counts.
func (f *Future[T]) Reject(err error) {
	f.once.Do(func() {
		f.err = err
		close(f.done)
	})
}

// Done is closed once the future completes.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Get blocks until the future completes or ctx is done.
func (f *Future[T]) Get(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	default:
	}

	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("%w: %w", ErrInterrupted, ctx.Err())
	}
}
