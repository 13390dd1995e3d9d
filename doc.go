// Package state persists scheduler state in a coordination store.
//
// A [State] saves the framework identity at a fixed key and arbitrary values
// at "/"-separated hierarchical keys. Every call round-trips to the store:
// reads fetch the current versioned value, writes fetch, mutate and store it,
// and a concurrent writer that got there first makes the store fail with a
// [ConflictError]. Nothing is retried.
//
// Typed values go through [Typed], which pairs a State with a
// [github.com/tarantool/go-state/codec.Codec].
//
// The store itself is reached through a [Client]; see
// [github.com/tarantool/go-state/storage.Client] for the implementation backed
// by etcd, Tarantool config storage or an in-memory driver.
//
// The store cannot tell a key that was never written from a key holding an
// empty payload. Both read as absent, and [State.Mkdir] relies on this by
// writing empty placeholders for parent segments.
package state
