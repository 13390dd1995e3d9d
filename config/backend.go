package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tarantool/go-tarantool/v2"
	"github.com/tarantool/go-tarantool/v2/pool"
	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/tarantool/go-state"
	"github.com/tarantool/go-state/driver"
	"github.com/tarantool/go-state/driver/dummy"
	"github.com/tarantool/go-state/driver/etcd"
	"github.com/tarantool/go-state/driver/tkv"
	"github.com/tarantool/go-state/metrics"
	"github.com/tarantool/go-state/storage"
)

// Backend is an opened coordination store.
type Backend struct {
	// Storage is the store client, with the configured namespace applied.
	Storage *storage.Client
	// Client is Storage, instrumented when metrics are enabled.
	Client state.Client

	close func() error
}

// Close releases the connection to the store.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}

	return b.close()
}

// Open validates c and connects to the configured store. Metrics, when
// enabled, are registered with the default Prometheus registerer.
func (c Config) Open(ctx context.Context) (*Backend, error) {
	return c.OpenWithRegisterer(ctx, prometheus.DefaultRegisterer)
}

// OpenWithRegisterer is Open with metrics registered with reg.
func (c Config) OpenWithRegisterer(ctx context.Context, reg prometheus.Registerer) (*Backend, error) {
	err := c.Validate()
	if err != nil {
		return nil, err
	}

	var (
		drv    driver.Driver
		closer func() error
	)

	switch c.Backend {
	case BackendEtcd:
		drv, closer, err = c.openEtcd(ctx)
	case BackendTarantool:
		drv, closer, err = c.openTarantool(ctx)
	default:
		drv = dummy.New()
	}

	if err != nil {
		return nil, err
	}

	backend := &Backend{
		Storage: storage.NewClient(storage.NewStorage(drv), storage.WithNamespace(c.Namespace)),
		close:   closer,
	}
	backend.Client = backend.Storage

	if c.Metrics {
		instrumented, err := metrics.NewClient(backend.Storage, reg)
		if err != nil {
			return nil, errors.Join(err, backend.Close())
		}

		backend.Client = instrumented
	}

	return backend, nil
}

func (c Config) openEtcd(ctx context.Context) (driver.Driver, func() error, error) {
	client, err := clientv3.New(clientv3.Config{ //nolint:exhaustruct
		Endpoints:   c.Endpoints,
		DialTimeout: c.Timeout,
		Username:    c.User,
		Password:    c.Password,
		Context:     ctx,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create etcd client: %w", err)
	}

	return etcd.New(client), client.Close, nil
}

func (c Config) openTarantool(ctx context.Context) (driver.Driver, func() error, error) {
	instances := make([]pool.Instance, 0, len(c.Endpoints))
	for i, addr := range c.Endpoints {
		instances = append(instances, pool.Instance{
			Name: fmt.Sprintf("instance-%d", i),
			Dialer: &tarantool.NetDialer{ //nolint:exhaustruct
				Address:  addr,
				User:     c.User,
				Password: c.Password,
			},
			Opts: tarantool.Opts{ //nolint:exhaustruct
				Timeout: c.Timeout,
			},
		})
	}

	conn, err := pool.Connect(ctx, instances)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to tarantool pool: %w", err)
	}

	closePool := func() error {
		return errors.Join(conn.Close()...)
	}

	return tkv.New(pool.NewConnectorAdapter(conn, pool.RW)), closePool, nil
}
