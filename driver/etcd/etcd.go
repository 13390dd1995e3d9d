// Package etcd provides an etcd implementation of the storage driver interface.
// Key revisions map to etcd mod_revision, so a missing key reads as revision 0.
package etcd

import (
	"context"
	"errors"
	"fmt"

	etcd "go.etcd.io/etcd/client/v3"

	"github.com/tarantool/go-state/driver"
	"github.com/tarantool/go-state/operation"
	"github.com/tarantool/go-state/predicate"
	"github.com/tarantool/go-state/tx"
	"github.com/tarantool/go-state/variable"
)

// Client defines the minimal interface needed for etcd operations.
// *etcd.Client satisfies it.
type Client interface {
	// Txn creates a new transaction.
	Txn(ctx context.Context) etcd.Txn
}

// Driver is an etcd implementation of the storage driver interface.
type Driver struct {
	client Client
}

var (
	_ driver.Driver = Driver{} //nolint:exhaustruct

	errUnsupportedVersionOperation = errors.New("unsupported operation for version predicate")
	errUnsupportedOperationType    = errors.New("unsupported operation type")
)

// New creates a new etcd driver instance using an existing etcd client.
// The client should be properly configured and connected to an etcd cluster.
func New(client Client) Driver {
	return Driver{client: client}
}

// Execute executes a transactional operation with conditional logic.
func (d Driver) Execute(
	ctx context.Context,
	predicates []predicate.Predicate,
	thenOps []operation.Operation,
	elseOps []operation.Operation,
) (tx.Response, error) {
	cmps, err := predicatesToCmps(predicates)
	if err != nil {
		return tx.Response{}, fmt.Errorf("failed to convert predicates: %w", err)
	}

	thenEtcdOps, err := operationsToEtcdOps(thenOps)
	if err != nil {
		return tx.Response{}, fmt.Errorf("failed to convert then operations: %w", err)
	}

	elseEtcdOps, err := operationsToEtcdOps(elseOps)
	if err != nil {
		return tx.Response{}, fmt.Errorf("failed to convert else operations: %w", err)
	}

	resp, err := d.client.Txn(ctx).If(cmps...).Then(thenEtcdOps...).Else(elseEtcdOps...).Commit()
	if err != nil {
		return tx.Response{}, fmt.Errorf("transaction failed: %w", err)
	}

	return etcdResponseToTxResponse(resp), nil
}

// etcdResponseToTxResponse converts an etcd transaction response to tx.Response.
func etcdResponseToTxResponse(resp *etcd.TxnResponse) tx.Response {
	results := make([]tx.RequestResponse, 0, len(resp.Responses))

	for _, etcdResp := range resp.Responses {
		var values []variable.Variable

		if getResp := etcdResp.GetResponseRange(); getResp != nil {
			for _, etcdKv := range getResp.Kvs {
				values = append(values, variable.New(string(etcdKv.Key), etcdKv.Value, etcdKv.ModRevision))
			}
		}

		results = append(results, tx.RequestResponse{Values: values})
	}

	return tx.Response{
		Succeeded: resp.Succeeded,
		Results:   results,
	}
}
