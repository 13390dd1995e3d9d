package state

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/tarantool/go-option"

	"github.com/tarantool/go-state/future"
	"github.com/tarantool/go-state/internal/options"
	"github.com/tarantool/go-state/log"
	"github.com/tarantool/go-state/variable"
)

// Client is a coordination store client.
type Client interface {
	// Fetch reads name. A key that was never written resolves to a variable
	// with an empty payload.
	Fetch(ctx context.Context, name string) *future.Future[variable.Variable]
	// Store writes v if the key is still at v.Version() and resolves with the
	// committed variable. A stale version rejects with an error wrapping
	// variable.ErrVersionConflict.
	Store(ctx context.Context, v variable.Variable) *future.Future[variable.Variable]
}

type stateOptions struct {
	logger *logrus.Entry
}

// Option configures a State.
type Option = options.Callback[stateOptions]

// WithLogger sets the logger failures are reported to.
func WithLogger(logger *logrus.Entry) Option {
	return func(opts *stateOptions) {
		opts.logger = logger
	}
}

// State is the hierarchical state store. It is safe for concurrent use as
// long as the client is.
type State struct {
	client Client
	logger *logrus.Entry
}

// New creates a State on top of client.
func New(client Client, opts ...Option) *State {
	o := options.Apply(stateOptions{logger: nil}, opts)
	if o.logger == nil {
		o.logger = log.L.WithField("module", "state")
	}

	return &State{
		client: client,
		logger: o.logger,
	}
}

// fail logs err once and returns it.
func (s *State) fail(op string, key string, err error) error {
	if err == nil {
		return nil
	}

	s.logger.WithError(err).WithFields(logrus.Fields{
		"op":  op,
		"key": key,
	}).Error("state operation failed")

	return err
}

func (s *State) fetch(ctx context.Context, key string) (variable.Variable, error) {
	v, err := s.client.Fetch(ctx, key).Get(ctx)
	if err != nil {
		return variable.Variable{}, errTransport("fetch", key, err)
	}

	return v, nil
}

func (s *State) store(ctx context.Context, v variable.Variable) error {
	_, err := s.client.Store(ctx, v).Get(ctx)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, variable.ErrVersionConflict):
		return errConflict(v.Name(), err)
	default:
		return errTransport("store", v.Name(), err)
	}
}

func (s *State) get(ctx context.Context, key string) ([]byte, error) {
	v, err := s.fetch(ctx, key)
	if err != nil {
		return nil, err
	}

	return v.Value(), nil
}

func (s *State) set(ctx context.Context, key string, payload []byte) error {
	v, err := s.fetch(ctx, key)
	if err != nil {
		return err
	}

	if payload == nil {
		payload = []byte{}
	}

	return s.store(ctx, v.Mutate(payload))
}

func (s *State) exists(ctx context.Context, key string) (bool, error) {
	payload, err := s.get(ctx, key)
	if err != nil {
		return false, err
	}

	return len(payload) > 0, nil
}

func (s *State) mkdir(ctx context.Context, key string) error {
	key = normalizeKey(key)

	err := checkDirKey(key)
	if err != nil {
		return err
	}

	for _, dir := range parents(key) {
		ok, err := s.exists(ctx, dir)
		if err != nil {
			return err
		}

		if ok {
			continue
		}

		err = s.set(ctx, dir, nil)
		if err != nil {
			return err
		}
	}

	return nil
}

// Get returns the raw payload stored at key, or None if the payload is empty.
func (s *State) Get(ctx context.Context, key string) (option.Generic[[]byte], error) {
	payload, err := s.get(ctx, key)
	if err != nil {
		return option.None[[]byte](), s.fail("get", key, err)
	}

	if len(payload) == 0 {
		return option.None[[]byte](), nil
	}

	return option.Some(payload), nil
}

// Set stores payload at key. A nil or empty payload leaves an empty placeholder.
func (s *State) Set(ctx context.Context, key string, payload []byte) error {
	return s.fail("set", key, s.set(ctx, key, payload))
}

// Exists reports whether key holds a non-empty payload. Placeholders written
// by Mkdir do not count.
func (s *State) Exists(ctx context.Context, key string) (bool, error) {
	ok, err := s.exists(ctx, key)

	return ok, s.fail("exists", key, err)
}

// Mkdir writes an empty placeholder at every prefix of key that ends at a
// non-empty segment and holds no payload yet, key included. Whitespace is
// removed from key first. A key with a trailing slash other than "/" itself is
// rejected with InvalidKeyError before the store is contacted. An empty key,
// like "/", has no segments and writes nothing.
func (s *State) Mkdir(ctx context.Context, key string) error {
	return s.fail("mkdir", key, s.mkdir(ctx, key))
}

// FrameworkID returns the stored framework identity, or EmptyFrameworkID when
// none has been stored. Errors wrap ErrFrameworkID.
func (s *State) FrameworkID(ctx context.Context) (FrameworkID, error) {
	payload, err := s.get(ctx, frameworkIDKey)
	if err != nil {
		return EmptyFrameworkID, s.fail("get", frameworkIDKey, wrapFrameworkID(err))
	}

	if len(payload) == 0 {
		return EmptyFrameworkID, nil
	}

	id, err := unmarshalFrameworkID(payload)
	if err != nil {
		return EmptyFrameworkID, s.fail("get", frameworkIDKey, wrapFrameworkID(errDecode(frameworkIDKey, err)))
	}

	return id, nil
}

// SetFrameworkID stores id. On error the caller must assume nothing was saved.
func (s *State) SetFrameworkID(ctx context.Context, id FrameworkID) error {
	err := s.set(ctx, frameworkIDKey, id.marshal())

	return s.fail("set", frameworkIDKey, wrapFrameworkID(err))
}

type frameworkIDError struct {
	parent error
}

func wrapFrameworkID(parent error) error {
	if parent == nil {
		return nil
	}

	return frameworkIDError{parent: parent}
}

func (e frameworkIDError) Error() string {
	return ErrFrameworkID.Error() + ": " + e.parent.Error()
}

func (e frameworkIDError) Unwrap() []error {
	return []error{ErrFrameworkID, e.parent}
}
