package metrics_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarantool/go-state"
	"github.com/tarantool/go-state/codec"
	"github.com/tarantool/go-state/driver/dummy"
	"github.com/tarantool/go-state/future"
	"github.com/tarantool/go-state/metrics"
	"github.com/tarantool/go-state/storage"
	"github.com/tarantool/go-state/variable"
)

func newClient(t *testing.T, inner state.Client) (*metrics.Client, *prometheus.Registry) {
	t.Helper()

	reg := prometheus.NewRegistry()

	client, err := metrics.NewClient(inner, reg)
	require.NoError(t, err)

	return client, reg
}

func TestClient_CountsOutcomes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client, reg := newClient(t, storage.NewClient(storage.NewStorage(dummy.New())))

	stale, err := client.Fetch(ctx, "/a").Get(ctx)
	require.NoError(t, err)

	_, err = client.Store(ctx, stale.Mutate([]byte("one"))).Get(ctx)
	require.NoError(t, err)

	_, err = client.Store(ctx, stale.Mutate([]byte("two"))).Get(ctx)
	require.ErrorIs(t, err, variable.ErrVersionConflict)

	expected := `
# HELP state_client_requests_total Coordination store requests by operation and result.
# TYPE state_client_requests_total counter
state_client_requests_total{op="fetch",result="ok"} 1
state_client_requests_total{op="store",result="conflict"} 1
state_client_requests_total{op="store",result="ok"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "state_client_requests_total"))

	count, err := testutil.GatherAndCount(reg, "state_client_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

type failingClient struct {
	err error
}

func (c failingClient) Fetch(context.Context, string) *future.Future[variable.Variable] {
	return future.Rejected[variable.Variable](c.err)
}

func (c failingClient) Store(context.Context, variable.Variable) *future.Future[variable.Variable] {
	return future.New[variable.Variable]()
}

func TestClient_ErrorAndInterrupted(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")
	client, reg := newClient(t, failingClient{err: errBoom})

	ctx := context.Background()
	_, err := client.Fetch(ctx, "/a").Get(ctx)
	require.ErrorIs(t, err, errBoom)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()

	_, err = client.Store(cancelled, variable.New("/a", nil, 0)).Get(ctx)
	require.ErrorIs(t, err, future.ErrInterrupted)

	expected := `
# HELP state_client_requests_total Coordination store requests by operation and result.
# TYPE state_client_requests_total counter
state_client_requests_total{op="fetch",result="error"} 1
state_client_requests_total{op="store",result="interrupted"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "state_client_requests_total"))
}

func TestClient_WithState(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client, reg := newClient(t, storage.NewClient(storage.NewStorage(dummy.New())))
	typed := state.NewTyped[string](state.New(client), codec.NewYAML[string]())

	require.NoError(t, typed.Set(ctx, "/name", "es"))

	got, err := typed.Get(ctx, "/name")
	require.NoError(t, err)
	assert.Equal(t, "es", got.Unwrap())

	expected := `
# HELP state_client_requests_total Coordination store requests by operation and result.
# TYPE state_client_requests_total counter
state_client_requests_total{op="fetch",result="ok"} 2
state_client_requests_total{op="store",result="ok"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "state_client_requests_total"))
}

func TestNewClient_DuplicateRegistration(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	inner := storage.NewClient(storage.NewStorage(dummy.New()))

	_, err := metrics.NewClient(inner, reg)
	require.NoError(t, err)

	_, err = metrics.NewClient(inner, reg)
	require.Error(t, err)
}
