package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/tarantool/go-state"
	"github.com/tarantool/go-state/codec"
	"github.com/tarantool/go-state/config"
	"github.com/tarantool/go-state/log"
)

// session is an open state store for the duration of one command.
type session struct {
	cmd      *cobra.Command
	state    *state.State
	strings  *state.Typed[string]
	backend  *config.Backend
	registry *prometheus.Registry
	metrics  bool
}

// Close prints the collected metrics, when enabled, and closes the backend.
func (s session) Close() {
	if s.metrics {
		s.dumpMetrics()
	}

	err := s.backend.Close()
	if err != nil {
		log.L.WithError(err).Warn("failed to close backend")
	}
}

func (s session) dumpMetrics() {
	families, err := s.registry.Gather()
	if err != nil {
		log.L.WithError(err).Warn("failed to gather metrics")
		return
	}

	for _, family := range families {
		_, err = expfmt.MetricFamilyToText(s.cmd.ErrOrStderr(), family)
		if err != nil {
			log.L.WithError(err).Warn("failed to write metrics")
			return
		}
	}
}

// open loads the configuration named by the --config flag and connects to the
// store it describes.
func open(cmd *cobra.Command) (session, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return session{}, err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return session{}, err
	}

	err = log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return session{}, err
	}

	ctx := log.WithModule(cmd.Context(), "statectl")
	registry := prometheus.NewRegistry()

	backend, err := cfg.OpenWithRegisterer(ctx, registry)
	if err != nil {
		return session{}, err
	}

	s := state.New(backend.Client, state.WithLogger(log.G(ctx).WithField("backend", cfg.Backend)))

	return session{
		cmd:      cmd,
		state:    s,
		strings:  state.NewTyped[string](s, codec.NewYAML[string]()),
		backend:  backend,
		registry: registry,
		metrics:  cfg.Metrics,
	}, nil
}
