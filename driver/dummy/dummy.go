// Package dummy provides an in-memory implementation of the storage driver
// interface for tests and single-process deployments.
package dummy

import (
	"context"
	"fmt"
	"sync"

	"github.com/tarantool/go-state/driver"
	"github.com/tarantool/go-state/operation"
	"github.com/tarantool/go-state/predicate"
	"github.com/tarantool/go-state/tx"
	"github.com/tarantool/go-state/variable"
)

type record struct {
	value       []byte
	modRevision int64
}

// Driver keeps every key in a map guarded by a single mutex, so each
// Execute call is atomic with respect to all others.
type Driver struct {
	mu       sync.Mutex
	records  map[string]record
	revision int64
}

var _ driver.Driver = (*Driver)(nil)

// New creates an empty in-memory driver at revision 0.
func New() *Driver {
	return &Driver{
		mu:       sync.Mutex{},
		records:  make(map[string]record),
		revision: 0,
	}
}

// Execute implements driver.Driver.
func (d *Driver) Execute(
	ctx context.Context,
	predicates []predicate.Predicate,
	thenOps []operation.Operation,
	elseOps []operation.Operation,
) (tx.Response, error) {
	if err := ctx.Err(); err != nil {
		return tx.Response{}, fmt.Errorf("transaction aborted: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	ops := elseOps
	success := d.checkPredicates(predicates)

	if success {
		ops = thenOps
	}

	return tx.Response{
		Succeeded: success,
		Results:   d.executeOps(ops),
	}, nil
}

// Revision returns the revision of the last committed write.
func (d *Driver) Revision() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.revision
}

// Keys returns the number of keys stored, placeholders included.
func (d *Driver) Keys() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.records)
}

func (d *Driver) checkPredicates(predicates []predicate.Predicate) bool {
	for _, pred := range predicates {
		// A missing key reads as revision 0, as in etcd.
		if !pred.Holds(d.records[string(pred.Key())].modRevision) {
			return false
		}
	}

	return true
}

func (d *Driver) executeOps(ops []operation.Operation) []tx.RequestResponse {
	result := make([]tx.RequestResponse, 0, len(ops))
	next := d.revision + 1
	mutated := false

	for _, op := range ops {
		key := string(op.Key())

		switch op.Type() {
		case operation.TypePut:
			value := make([]byte, len(op.Value()))
			copy(value, op.Value())

			d.records[key] = record{value: value, modRevision: next}
			mutated = true

			result = append(result, tx.RequestResponse{Values: nil})
		case operation.TypeGet:
			var values []variable.Variable
			if rec, ok := d.records[key]; ok {
				values = []variable.Variable{variable.New(key, rec.value, rec.modRevision)}
			}

			result = append(result, tx.RequestResponse{Values: values})
		default:
			result = append(result, tx.RequestResponse{Values: nil})
		}
	}

	if mutated {
		d.revision = next
	}

	return result
}
