// Package driver defines the interface for coordination store backends.
package driver

import (
	"context"

	"github.com/tarantool/go-state/operation"
	"github.com/tarantool/go-state/predicate"
	"github.com/tarantool/go-state/tx"
)

// Driver executes conditional transactions against a backend.
// Implementations must be safe for concurrent use.
type Driver interface {
	// Execute runs thenOps if every predicate holds, elseOps otherwise, as a
	// single atomic step.
	Execute(
		ctx context.Context,
		predicates []predicate.Predicate,
		thenOps []operation.Operation,
		elseOps []operation.Operation,
	) (tx.Response, error)
}
