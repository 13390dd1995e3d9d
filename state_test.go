package state_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarantool/go-state"
	"github.com/tarantool/go-state/codec"
	"github.com/tarantool/go-state/driver/dummy"
	"github.com/tarantool/go-state/future"
	"github.com/tarantool/go-state/storage"
	"github.com/tarantool/go-state/variable"
)

type task struct {
	Name     string `yaml:"name"`
	Replicas int    `yaml:"replicas"`
}

func newClient() (*storage.Client, *dummy.Driver) {
	drv := dummy.New()

	return storage.NewClient(storage.NewStorage(drv)), drv
}

func newState(t *testing.T, client state.Client) (*state.State, *logtest.Hook) {
	t.Helper()

	logger, hook := logtest.NewNullLogger()

	return state.New(client, state.WithLogger(logrus.NewEntry(logger))), hook
}

// countingClient counts the calls made through it.
type countingClient struct {
	inner state.Client

	mu     sync.Mutex
	fetch  int
	stores int
}

func (c *countingClient) Fetch(ctx context.Context, name string) *future.Future[variable.Variable] {
	c.mu.Lock()
	c.fetch++
	c.mu.Unlock()

	return c.inner.Fetch(ctx, name)
}

func (c *countingClient) Store(ctx context.Context, v variable.Variable) *future.Future[variable.Variable] {
	c.mu.Lock()
	c.stores++
	c.mu.Unlock()

	return c.inner.Store(ctx, v)
}

func (c *countingClient) calls() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.fetch, c.stores
}

// barrierClient holds every Store until the first expected fetches have
// completed, so concurrent writers all read the same version. Later fetches
// pass straight through.
type barrierClient struct {
	inner    state.Client
	expected int64
	started  atomic.Int64
	fetched  sync.WaitGroup
}

func newBarrierClient(inner state.Client, fetches int64) *barrierClient {
	c := &barrierClient{inner: inner, expected: fetches}
	c.fetched.Add(int(fetches))

	return c
}

func (c *barrierClient) Fetch(ctx context.Context, name string) *future.Future[variable.Variable] {
	if c.started.Add(1) > c.expected {
		return c.inner.Fetch(ctx, name)
	}

	return future.Go(func() (variable.Variable, error) {
		defer c.fetched.Done()

		return c.inner.Fetch(ctx, name).Get(ctx)
	})
}

func (c *barrierClient) Store(ctx context.Context, v variable.Variable) *future.Future[variable.Variable] {
	return future.Go(func() (variable.Variable, error) {
		c.fetched.Wait()

		return c.inner.Store(ctx, v).Get(ctx)
	})
}

// failingClient rejects every call with err.
type failingClient struct {
	err error
}

func (c failingClient) Fetch(context.Context, string) *future.Future[variable.Variable] {
	return future.Rejected[variable.Variable](c.err)
}

func (c failingClient) Store(context.Context, variable.Variable) *future.Future[variable.Variable] {
	return future.Rejected[variable.Variable](c.err)
}

// hangingClient never completes.
type hangingClient struct{}

func (hangingClient) Fetch(context.Context, string) *future.Future[variable.Variable] {
	return future.New[variable.Variable]()
}

func (hangingClient) Store(context.Context, variable.Variable) *future.Future[variable.Variable] {
	return future.New[variable.Variable]()
}

// failingCodec fails to encode anything.
type failingCodec struct{}

var errEncode = errors.New("cannot encode")

func (failingCodec) Marshal(task) ([]byte, error)   { return nil, errEncode }
func (failingCodec) Unmarshal([]byte) (task, error) { return task{}, nil }

func TestState_NeverWritten(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client, _ := newClient()
	s, _ := newState(t, client)
	typed := state.NewTyped[task](s, codec.NewYAML[task]())

	for _, key := range []string{"/tasks/web", "frameworkId", "plain"} {
		ok, err := s.Exists(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok, key)

		value, err := typed.Get(ctx, key)
		require.NoError(t, err)
		assert.True(t, value.IsZero(), key)

		raw, err := s.Get(ctx, key)
		require.NoError(t, err)
		assert.True(t, raw.IsZero(), key)
	}
}

func TestTyped_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		codec codec.Codec[task]
	}{
		{"yaml", codec.NewYAML[task]()},
		{"msgpack", codec.NewMsgPack[task]()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			client, _ := newClient()
			s, _ := newState(t, client)
			typed := state.NewTyped(s, tt.codec)

			first := task{Name: "web", Replicas: 3}
			require.NoError(t, typed.Set(ctx, "/tasks/web", first))

			got, err := typed.Get(ctx, "/tasks/web")
			require.NoError(t, err)
			assert.Equal(t, first, got.Unwrap())

			second := task{Name: "web", Replicas: 5}
			require.NoError(t, typed.Set(ctx, "/tasks/web", second))

			got, err = typed.Get(ctx, "/tasks/web")
			require.NoError(t, err)
			assert.Equal(t, second, got.Unwrap())

			ok, err := s.Exists(ctx, "/tasks/web")
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestTyped_Clear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client, _ := newClient()
	s, _ := newState(t, client)
	typed := state.NewTyped[task](s, codec.NewYAML[task]())

	require.NoError(t, typed.Set(ctx, "/tasks/web", task{Name: "web"}))
	require.NoError(t, typed.Clear(ctx, "/tasks/web"))

	got, err := typed.Get(ctx, "/tasks/web")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	ok, err := s.Exists(ctx, "/tasks/web")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestState_RawSetGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client, _ := newClient()
	s, _ := newState(t, client)

	require.NoError(t, s.Set(ctx, "/raw", []byte("payload")))

	got, err := s.Get(ctx, "/raw")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got.Unwrap())

	require.NoError(t, s.Set(ctx, "/raw", nil))

	got, err = s.Get(ctx, "/raw")
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestState_Mkdir(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client, drv := newClient()
	s, _ := newState(t, client)

	require.NoError(t, s.Mkdir(ctx, "/a/b/c"))
	assert.Equal(t, 3, drv.Keys())

	for _, key := range []string{"/a", "/a/b", "/a/b/c"} {
		ok, err := s.Exists(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok, key)

		v, err := client.Fetch(ctx, key).Get(ctx)
		require.NoError(t, err)
		assert.Positive(t, v.Version(), "%s must be materialized", key)
	}

	require.NoError(t, s.Mkdir(ctx, "/a/b/c"))
	assert.Equal(t, 3, drv.Keys())

	for _, key := range []string{"/a", "/a/b", "/a/b/c"} {
		raw, err := s.Get(ctx, key)
		require.NoError(t, err)
		assert.True(t, raw.IsZero(), key)
	}
}

func TestState_MkdirKeepsValues(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client, _ := newClient()
	s, _ := newState(t, client)

	require.NoError(t, s.Set(ctx, "/a", []byte("keep")))
	require.NoError(t, s.Mkdir(ctx, "/a/b"))

	got, err := s.Get(ctx, "/a")
	require.NoError(t, err)
	assert.Equal(t, []byte("keep"), got.Unwrap())
}

func TestState_MkdirNormalizesKey(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client, drv := newClient()
	s, _ := newState(t, client)

	require.NoError(t, s.Mkdir(ctx, " /x /\ty\n"))
	assert.Equal(t, 2, drv.Keys())

	for _, key := range []string{"/x", "/x/y"} {
		v, err := client.Fetch(ctx, key).Get(ctx)
		require.NoError(t, err)
		assert.Positive(t, v.Version(), key)
	}
}

func TestState_MkdirRoot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client, drv := newClient()
	counter := &countingClient{inner: client}
	s, _ := newState(t, counter)

	require.NoError(t, s.Mkdir(ctx, "/"))

	fetches, stores := counter.calls()
	assert.Zero(t, fetches)
	assert.Zero(t, stores)
	assert.Zero(t, drv.Revision())
}

func TestState_MkdirEmptyKey(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client, drv := newClient()
	counter := &countingClient{inner: client}
	s, _ := newState(t, counter)

	for _, key := range []string{"", " \t"} {
		require.NoError(t, s.Mkdir(ctx, key))
	}

	fetches, stores := counter.calls()
	assert.Zero(t, fetches)
	assert.Zero(t, stores)
	assert.Zero(t, drv.Revision())
}

func TestState_MkdirInvalidKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		key  string
	}{
		{"trailing slash", "/a/b/"},
		{"trailing slash after whitespace", "/a/ "},
		{"double slash", "//"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			client, drv := newClient()
			counter := &countingClient{inner: client}
			s, hook := newState(t, counter)

			err := s.Mkdir(ctx, tt.key)

			var keyErr state.InvalidKeyError
			require.ErrorAs(t, err, &keyErr)

			fetches, stores := counter.calls()
			assert.Zero(t, fetches)
			assert.Zero(t, stores)
			assert.Zero(t, drv.Revision())
			assert.Len(t, hook.AllEntries(), 1)
		})
	}
}

func TestTyped_SetAndCreateParents(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		existing []string
	}{
		{"no ancestors", nil},
		{"some ancestors", []string{"/a"}},
		{"all ancestors", []string{"/a", "/a/b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			client, _ := newClient()
			s, _ := newState(t, client)
			typed := state.NewTyped[task](s, codec.NewYAML[task]())

			for _, key := range tt.existing {
				require.NoError(t, s.Mkdir(ctx, key))
			}

			want := task{Name: "c", Replicas: 1}
			require.NoError(t, typed.SetAndCreateParents(ctx, "/a/b/c", want))

			got, err := typed.Get(ctx, "/a/b/c")
			require.NoError(t, err)
			assert.Equal(t, want, got.Unwrap())

			for _, key := range []string{"/a", "/a/b"} {
				v, err := client.Fetch(ctx, key).Get(ctx)
				require.NoError(t, err)
				assert.Positive(t, v.Version(), key)
			}
		})
	}
}

func TestState_FrameworkID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client, _ := newClient()
	s, _ := newState(t, client)

	id, err := s.FrameworkID(ctx)
	require.NoError(t, err)
	assert.Equal(t, state.EmptyFrameworkID, id)
	assert.True(t, id.IsEmpty())

	want := state.FrameworkID{Value: "20150910-093512-16777343-5050-1234-0000"}
	require.NoError(t, s.SetFrameworkID(ctx, want))

	id, err = s.FrameworkID(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, id)
	assert.False(t, id.IsEmpty())

	next := state.FrameworkID{Value: "20150910-093512-16777343-5050-1234-0001"}
	require.NoError(t, s.SetFrameworkID(ctx, next))

	id, err = s.FrameworkID(ctx)
	require.NoError(t, err)
	assert.Equal(t, next, id)
}

func TestState_FrameworkIDWireFormat(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client, _ := newClient()
	s, _ := newState(t, client)

	// FrameworkID{value: "abc"} as written by a protobuf library, followed by
	// an unknown varint field 2.
	require.NoError(t, s.Set(ctx, "frameworkId", []byte{0x0a, 0x03, 'a', 'b', 'c', 0x10, 0x01}))

	id, err := s.FrameworkID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", id.Value)

	require.NoError(t, s.SetFrameworkID(ctx, state.FrameworkID{Value: "xyz"}))

	raw, err := s.Get(ctx, "frameworkId")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x0a, 0x03, 'x', 'y', 'z'}, raw.Unwrap())
}

func TestState_FrameworkIDDecodeError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client, _ := newClient()
	s, hook := newState(t, client)

	require.NoError(t, s.Set(ctx, "frameworkId", []byte{0xff}))

	id, err := s.FrameworkID(ctx)
	require.ErrorIs(t, err, state.ErrFrameworkID)
	assert.Equal(t, state.EmptyFrameworkID, id)

	var decodeErr state.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "frameworkId", decodeErr.Key)

	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, "frameworkId", hook.LastEntry().Data["key"])
}

func TestState_FrameworkIDMissingValue(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client, _ := newClient()
	s, _ := newState(t, client)

	// Only an unknown field.
	require.NoError(t, s.Set(ctx, "frameworkId", []byte{0x10, 0x01}))

	_, err := s.FrameworkID(ctx)
	require.ErrorIs(t, err, state.ErrFrameworkID)

	var decodeErr state.DecodeError
	require.ErrorAs(t, err, &decodeErr)
}

func TestState_ConcurrentSetConflict(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	inner, _ := newClient()
	client := newBarrierClient(inner, 2)
	s, hook := newState(t, client)
	typed := state.NewTyped[task](s, codec.NewYAML[task]())

	values := []task{{Name: "first"}, {Name: "second"}}
	errs := make([]error, len(values))

	var wg sync.WaitGroup
	for i, value := range values {
		wg.Add(1)

		go func() {
			defer wg.Done()

			errs[i] = typed.Set(ctx, "/tasks/web", value)
		}()
	}

	wg.Wait()

	var (
		committed []task
		conflicts int
	)

	for i, err := range errs {
		if err == nil {
			committed = append(committed, values[i])
			continue
		}

		var conflictErr state.ConflictError
		require.ErrorAs(t, err, &conflictErr)
		require.ErrorIs(t, err, variable.ErrVersionConflict)
		assert.Equal(t, "/tasks/web", conflictErr.Key)

		conflicts++
	}

	require.Len(t, committed, 1)
	assert.Equal(t, 1, conflicts)
	assert.Len(t, hook.AllEntries(), 1)

	got, err := typed.Get(ctx, "/tasks/web")
	require.NoError(t, err)
	assert.Equal(t, committed[0], got.Unwrap())
}

func TestBarrierClient_ExtraFetches(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	inner, _ := newClient()
	client := newBarrierClient(inner, 1)

	for range 3 {
		v, err := client.Fetch(ctx, "/a").Get(ctx)
		require.NoError(t, err)
		assert.True(t, v.IsEmpty())
	}

	_, err := client.Store(ctx, variable.New("/a", []byte("x"), 0)).Get(ctx)
	require.NoError(t, err)
}

func TestState_TransportError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	errBoom := errors.New("connection refused")
	s, hook := newState(t, failingClient{err: errBoom})
	typed := state.NewTyped[task](s, codec.NewYAML[task]())

	calls := map[string]func() error{
		"exists": func() error {
			_, err := s.Exists(ctx, "/a")
			return err
		},
		"get": func() error {
			_, err := typed.Get(ctx, "/a")
			return err
		},
		"set": func() error {
			return typed.Set(ctx, "/a", task{})
		},
		"mkdir": func() error {
			return s.Mkdir(ctx, "/a/b")
		},
		"create parents": func() error {
			return typed.SetAndCreateParents(ctx, "/a/b", task{})
		},
	}

	for name, call := range calls {
		hook.Reset()

		err := call()
		require.ErrorIs(t, err, errBoom, name)

		var transportErr state.TransportError
		require.ErrorAs(t, err, &transportErr, name)
		assert.Equal(t, "fetch", transportErr.Op, name)
		assert.Len(t, hook.AllEntries(), 1, name)
	}

	_, err := s.FrameworkID(ctx)
	require.ErrorIs(t, err, state.ErrFrameworkID)
	require.ErrorIs(t, err, errBoom)

	err = s.SetFrameworkID(ctx, state.FrameworkID{Value: "id"})
	require.ErrorIs(t, err, state.ErrFrameworkID)
	require.ErrorIs(t, err, errBoom)
}

func TestState_StoreTransportError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	errBoom := errors.New("lost leader")
	inner, _ := newClient()
	client := &storeFailingClient{inner: inner, err: errBoom}
	s, _ := newState(t, client)

	err := s.Set(ctx, "/a", []byte("x"))
	require.ErrorIs(t, err, errBoom)

	var transportErr state.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, "store", transportErr.Op)
	assert.Equal(t, "/a", transportErr.Key)
}

type storeFailingClient struct {
	inner state.Client
	err   error
}

func (c *storeFailingClient) Fetch(ctx context.Context, name string) *future.Future[variable.Variable] {
	return c.inner.Fetch(ctx, name)
}

func (c *storeFailingClient) Store(context.Context, variable.Variable) *future.Future[variable.Variable] {
	return future.Rejected[variable.Variable](c.err)
}

func TestState_Interrupted(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, _ := newState(t, hangingClient{})

	_, err := s.Exists(ctx, "/a")
	require.ErrorIs(t, err, future.ErrInterrupted)
	require.ErrorIs(t, err, context.Canceled)

	var transportErr state.TransportError
	require.ErrorAs(t, err, &transportErr)

	_, err = s.FrameworkID(ctx)
	require.ErrorIs(t, err, state.ErrFrameworkID)
	require.ErrorIs(t, err, future.ErrInterrupted)
}

func TestTyped_DecodeError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client, _ := newClient()
	s, _ := newState(t, client)
	typed := state.NewTyped[task](s, codec.NewMsgPack[task]())

	require.NoError(t, s.Set(ctx, "/tasks/web", []byte{0xc1}))

	got, err := typed.Get(ctx, "/tasks/web")
	assert.True(t, got.IsZero())

	var decodeErr state.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "/tasks/web", decodeErr.Key)

	var unmarshalErr codec.UnmarshalError
	require.ErrorAs(t, err, &unmarshalErr)
}

func TestTyped_EncodeError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client, drv := newClient()
	s, _ := newState(t, client)
	typed := state.NewTyped[task](s, failingCodec{})

	err := typed.Set(ctx, "/tasks/web", task{})
	require.ErrorIs(t, err, errEncode)

	var encodeErr state.EncodeError
	require.ErrorAs(t, err, &encodeErr)
	assert.Zero(t, drv.Revision())
}

func TestState_Namespace(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	drv := dummy.New()
	a := state.New(storage.NewClient(storage.NewStorage(drv), storage.WithNamespace("/elasticsearch/a")))
	b := state.New(storage.NewClient(storage.NewStorage(drv), storage.WithNamespace("/elasticsearch/b")))

	require.NoError(t, a.SetFrameworkID(ctx, state.FrameworkID{Value: "a"}))

	id, err := b.FrameworkID(ctx)
	require.NoError(t, err)
	assert.True(t, id.IsEmpty())

	id, err = a.FrameworkID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", id.Value)
}
