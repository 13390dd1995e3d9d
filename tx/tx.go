// Package tx provides the conditional transaction contract shared by the
// storage layer and its drivers.
package tx

import (
	"github.com/tarantool/go-state/operation"
	"github.com/tarantool/go-state/predicate"
	"github.com/tarantool/go-state/variable"
)

// Tx is a conditional transaction builder.
type Tx interface {
	// If specifies predicates for conditional transaction execution.
	// Empty predicate list means always true (unconditional execution).
	If(predicates ...predicate.Predicate) Tx
	// Then specifies operations to execute if predicates evaluate to true.
	Then(operations ...operation.Operation) Tx
	// Else specifies operations to execute if predicates evaluate to false.
	// This is optional.
	Else(operations ...operation.Operation) Tx
	// Commit atomically executes the transaction and returns the result.
	Commit() (Response, error)
}

// Response contains the result of a transaction execution.
type Response struct {
	// Succeeded indicates whether the transaction predicates evaluated to true.
	Succeeded bool
	// Results holds one entry per executed operation, in order.
	Results []RequestResponse
}

// RequestResponse is the result of a single operation.
type RequestResponse struct {
	// Values holds the key read by a Get; it is empty for a missing key and for Put.
	Values []variable.Variable
}
