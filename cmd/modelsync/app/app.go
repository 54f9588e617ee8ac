// Package app provides the application context and dependency management
// for the modelsync CLI. It centralizes configuration, logging and the
// lazily created engine client shared by all commands.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/modelsync"
	"github.com/agentstation/modelsync/internal/documents"
	"github.com/agentstation/modelsync/pkg/errors"
	"github.com/agentstation/modelsync/pkg/lookup"
)

// App represents the modelsync application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Document kinds the commands accept
	registry *documents.Registry

	// Client instance (lazy-initialized, singleton)
	mu     sync.RWMutex
	client *modelsync.Client
}

// New creates a new App instance with the given version information.
// The app is initialized with the loaded configuration that can be
// customized using functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version:  version,
		commit:   commit,
		date:     date,
		builtBy:  builtBy,
		registry: documents.NewRegistry(),
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Registry returns the document registry.
func (a *App) Registry() *documents.Registry {
	return a.registry
}

// Client returns the engine client, creating it lazily from the
// configuration. This is thread-safe and ensures only one instance is created.
func (a *App) Client() (*modelsync.Client, error) {
	a.mu.RLock()
	if a.client != nil {
		c := a.client
		a.mu.RUnlock()
		return c, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.client != nil {
		return a.client, nil
	}

	opts, err := a.buildClientOptions()
	if err != nil {
		return nil, err
	}
	c, err := modelsync.New(opts...)
	if err != nil {
		return nil, errors.WrapResource("create", "client", "", err)
	}

	a.client = c
	return c, nil
}

// Shutdown performs graceful shutdown of the application.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Debug().Msg("Shutting down")
	return ctx.Err()
}

// buildClientOptions constructs client options from the app configuration.
func (a *App) buildClientOptions() ([]modelsync.Option, error) {
	if a.config.Fixtures == "" {
		return nil, errors.NewConfigError("fixtures", "no lookup fixtures configured (use --fixtures or MODELSYNC_FIXTURES)", nil)
	}
	gw, err := lookup.LoadFile(a.config.Fixtures)
	if err != nil {
		return nil, err
	}
	a.logger.Debug().
		Str("fixtures", a.config.Fixtures).
		Int("entities", gw.Len()).
		Msg("Lookup fixtures loaded")

	opts := []modelsync.Option{
		modelsync.WithGateway(gw),
		modelsync.WithLogger(a.logger),
		modelsync.WithTracing(a.config.Tracing),
		modelsync.WithLookupTimeout(a.config.LookupTimeout),
	}
	if a.config.MaxConcurrentLookups > 0 {
		opts = append(opts, modelsync.WithMaxConcurrentLookups(a.config.MaxConcurrentLookups))
	}
	if a.config.IDPrefix != "" {
		opts = append(opts, modelsync.WithIDGenerator(lookup.Sequence(a.config.IDPrefix)))
	}
	return opts, nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithClient sets a custom client (useful for testing).
func WithClient(c *modelsync.Client) Option {
	return func(a *App) error {
		a.client = c
		return nil
	}
}
