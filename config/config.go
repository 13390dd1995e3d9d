// Package config loads the backend settings of the state store and opens the
// configured coordination store.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Supported backends.
const (
	BackendMemory    = "memory"
	BackendEtcd      = "etcd"
	BackendTarantool = "tarantool"
)

// Environment variables overriding the file.
const (
	EnvBackend   = "STATE_BACKEND"
	EnvEndpoints = "STATE_ENDPOINTS"
	EnvNamespace = "STATE_NAMESPACE"
	EnvUser      = "STATE_USER"
	EnvPassword  = "STATE_PASSWORD"
	EnvTimeout   = "STATE_TIMEOUT"
	EnvLogLevel  = "STATE_LOG_LEVEL"
	EnvMetrics   = "STATE_METRICS"
)

const defaultTimeout = 5 * time.Second

var (
	// ErrUnknownBackend is returned by Validate for an unsupported backend.
	ErrUnknownBackend = errors.New("unknown backend")
	// ErrNoEndpoints is returned by Validate when a remote backend has no endpoints.
	ErrNoEndpoints = errors.New("no endpoints configured")
)

// Config describes how to reach the coordination store.
type Config struct {
	Backend   string        `yaml:"backend"`
	Endpoints []string      `yaml:"endpoints"`
	Namespace string        `yaml:"namespace"`
	User      string        `yaml:"user"`
	Password  string        `yaml:"password"`
	Timeout   time.Duration `yaml:"timeout"`
	LogLevel  string        `yaml:"log_level"`
	// Metrics instruments the store client with Prometheus collectors.
	Metrics bool `yaml:"metrics"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Backend:   BackendMemory,
		Endpoints: nil,
		Namespace: "",
		User:      "",
		Password:  "",
		Timeout:   defaultTimeout,
		LogLevel:  "info",
		Metrics:   false,
	}
}

// Load reads the YAML file at path, if path is not empty, on top of the
// defaults and then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}

		err = yaml.Unmarshal(data, &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	err := cfg.applyEnv(os.LookupEnv)
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvBackend); ok && v != "" {
		c.Backend = v
	}

	if v, ok := lookup(EnvEndpoints); ok && v != "" {
		c.Endpoints = splitList(v)
	}

	if v, ok := lookup(EnvNamespace); ok {
		c.Namespace = v
	}

	if v, ok := lookup(EnvUser); ok {
		c.User = v
	}

	if v, ok := lookup(EnvPassword); ok {
		c.Password = v
	}

	if v, ok := lookup(EnvTimeout); ok && v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s value: %w", EnvTimeout, err)
		}

		c.Timeout = timeout
	}

	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}

	if v, ok := lookup(EnvMetrics); ok && v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s value: %w", EnvMetrics, err)
		}

		c.Metrics = enabled
	}

	return nil
}

func splitList(value string) []string {
	var out []string

	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}

	return out
}

// Validate checks that the configuration can be opened.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendMemory:
		return nil
	case BackendEtcd, BackendTarantool:
		if len(c.Endpoints) == 0 {
			return fmt.Errorf("%w for backend %q", ErrNoEndpoints, c.Backend)
		}

		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
	}
}
