package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tarantool/go-state/future"
	"github.com/tarantool/go-state/internal/options"
	"github.com/tarantool/go-state/operation"
	"github.com/tarantool/go-state/predicate"
	txPkg "github.com/tarantool/go-state/tx"
	"github.com/tarantool/go-state/variable"
)

// ErrUnexpectedResponse is returned when a transaction result does not have
// the shape the issued operations imply.
var ErrUnexpectedResponse = errors.New("unexpected transaction response")

type clientOptions struct {
	namespace string
}

// ClientOption configures a Client.
type ClientOption = options.Callback[clientOptions]

// WithNamespace stores every key under prefix. A trailing "/" is added when
// missing, so "/scheduler" and "/scheduler/" are equivalent. A leading "/" of a
// name is dropped under a namespace, so "/a" and "a" name the same key.
func WithNamespace(prefix string) ClientOption {
	return func(opts *clientOptions) {
		if prefix != "" && !strings.HasSuffix(prefix, "/") {
			prefix += "/"
		}

		opts.namespace = prefix
	}
}

// Client is a coordination store client: each call runs one transaction in
// its own goroutine and reports through a future.
type Client struct {
	storage   Storage
	namespace string
}

// NewClient creates a client on top of s.
func NewClient(s Storage, opts ...ClientOption) *Client {
	o := options.Apply(clientOptions{namespace: ""}, opts)

	return &Client{
		storage:   s,
		namespace: o.namespace,
	}
}

// Namespace returns the key prefix applied to every name.
func (c *Client) Namespace() string {
	return c.namespace
}

// key joins the namespace and name with a single separator, so "/a" under
// "/sched/" is stored as "/sched/a".
func (c *Client) key(name string) []byte {
	if c.namespace != "" {
		name = strings.TrimPrefix(name, "/")
	}

	return []byte(c.namespace + name)
}

// Fetch reads name. A missing key resolves to an empty variable at version 0.
func (c *Client) Fetch(ctx context.Context, name string) *future.Future[variable.Variable] {
	return future.Go(func() (variable.Variable, error) {
		resp, err := c.storage.Tx(ctx).Then(operation.Get(c.key(name))).Commit()
		if err != nil {
			return variable.Variable{}, fmt.Errorf("failed to fetch %q: %w", name, err)
		}

		return c.single(name, resp, 0)
	})
}

// Store writes v if its key is still at v.Version() and resolves with the
// committed variable. A stale version rejects with variable.ErrVersionConflict.
func (c *Client) Store(ctx context.Context, v variable.Variable) *future.Future[variable.Variable] {
	return future.Go(func() (variable.Variable, error) {
		key := c.key(v.Name())

		resp, err := c.storage.Tx(ctx).
			If(predicate.VersionEqual(key, v.Version())).
			Then(operation.Put(key, v.Value()), operation.Get(key)).
			Else(operation.Get(key)).
			Commit()
		if err != nil {
			return variable.Variable{}, fmt.Errorf("failed to store %q: %w", v.Name(), err)
		}

		if !resp.Succeeded {
			current, err := c.single(v.Name(), resp, 0)
			if err != nil {
				return variable.Variable{}, err
			}

			return variable.Variable{}, fmt.Errorf("%w: %q is at version %d, write was based on %d",
				variable.ErrVersionConflict, v.Name(), current.Version(), v.Version())
		}

		return c.single(v.Name(), resp, 1)
	})
}

// single extracts the variable read by the Get at position idx.
func (c *Client) single(name string, resp txPkg.Response, idx int) (variable.Variable, error) {
	if len(resp.Results) <= idx {
		return variable.Variable{}, fmt.Errorf("%w: %d results, want more than %d",
			ErrUnexpectedResponse, len(resp.Results), idx)
	}

	switch values := resp.Results[idx].Values; len(values) {
	case 0:
		return variable.New(name, nil, 0), nil
	case 1:
		return variable.New(name, values[0].Value(), values[0].Version()), nil
	default:
		return variable.Variable{}, fmt.Errorf("%w: %d values for %q", ErrUnexpectedResponse, len(values), name)
	}
}
