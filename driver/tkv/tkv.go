// Package tkv provides a driver for the Tarantool 3 centralized config
// storage, reached through the config.storage.txn stored procedure.
package tkv

import (
	"context"
	"errors"
	"fmt"

	"github.com/tarantool/go-tarantool/v2"

	"github.com/tarantool/go-state/driver"
	"github.com/tarantool/go-state/operation"
	"github.com/tarantool/go-state/predicate"
	"github.com/tarantool/go-state/tx"
)

const txnFunction = "config.storage.txn"

// Driver is a Tarantool implementation of the storage driver interface.
type Driver struct {
	conn tarantool.Doer
}

var (
	_ driver.Driver = Driver{} //nolint:exhaustruct

	// ErrUnexpectedResponse is returned when the response from tarantool has unexpected format.
	ErrUnexpectedResponse = errors.New("unexpected response from tarantool")
)

// New creates a driver on top of a connection or a connection pool adapter.
func New(doer tarantool.Doer) Driver {
	return Driver{conn: doer}
}

// Execute executes a transactional operation with conditional logic.
func (d Driver) Execute(
	ctx context.Context,
	predicates []predicate.Predicate,
	thenOps []operation.Operation,
	elseOps []operation.Operation,
) (tx.Response, error) {
	req := tarantool.NewCallRequest(txnFunction).
		Args([]any{newTxnRequest(predicates, thenOps, elseOps)}).
		Context(ctx)

	var result []txnResponse

	switch err := d.conn.Do(req).GetTyped(&result); {
	case err != nil:
		return tx.Response{}, fmt.Errorf("failed to execute transaction: %w", err)
	case len(result) != 1:
		return tx.Response{}, fmt.Errorf("%w: expected 1 response, got %d", ErrUnexpectedResponse, len(result))
	}

	return result[0].asTxnResponse(), nil
}
