// Package metrics instruments a coordination store client with Prometheus
// counters and latency histograms.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tarantool/go-state"
	"github.com/tarantool/go-state/future"
	"github.com/tarantool/go-state/variable"
)

// Request outcomes used as the "result" label.
const (
	ResultOK          = "ok"
	ResultConflict    = "conflict"
	ResultInterrupted = "interrupted"
	ResultError       = "error"
)

const (
	opFetch = "fetch"
	opStore = "store"
)

// Client wraps a state.Client and records every request it forwards.
type Client struct {
	inner    state.Client
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ state.Client = (*Client)(nil)

// NewClient wraps inner and registers its collectors with reg.
func NewClient(inner state.Client, reg prometheus.Registerer) (*Client, error) {
	c := &Client{
		inner: inner,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "state",
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Coordination store requests by operation and result.",
		}, []string{"op", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "state",
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "Time until a coordination store request completed.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}

	for _, collector := range []prometheus.Collector{c.requests, c.duration} {
		err := reg.Register(collector)
		if err != nil {
			return nil, fmt.Errorf("failed to register collector: %w", err)
		}
	}

	return c, nil
}

// Fetch implements state.Client.
func (c *Client) Fetch(ctx context.Context, name string) *future.Future[variable.Variable] {
	start := time.Now()
	inner := c.inner.Fetch(ctx, name)

	return c.observe(ctx, opFetch, start, inner)
}

// Store implements state.Client.
func (c *Client) Store(ctx context.Context, v variable.Variable) *future.Future[variable.Variable] {
	start := time.Now()
	inner := c.inner.Store(ctx, v)

	return c.observe(ctx, opStore, start, inner)
}

func (c *Client) observe(
	ctx context.Context,
	op string,
	start time.Time,
	inner *future.Future[variable.Variable],
) *future.Future[variable.Variable] {
	return future.Go(func() (variable.Variable, error) {
		v, err := inner.Get(ctx)

		c.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
		c.requests.WithLabelValues(op, result(err)).Inc()

		return v, err
	})
}

func result(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, variable.ErrVersionConflict):
		return ResultConflict
	case errors.Is(err, future.ErrInterrupted):
		return ResultInterrupted
	default:
		return ResultError
	}
}
