// Package app wires configuration, logging and commands for the iibkit CLI.
package app

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/iibkit/cmd/application"
	"github.com/agentstation/iibkit/pkg/errors"
)

// App holds build information, configuration and the logger shared by
// every command.
type App struct {
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger
}

// Compile-time check that App implements application.Application.
var _ application.Application = (*App)(nil)

// New creates an App with configuration loaded from files and environment.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
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

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Defaults returns the command flag defaults from configuration.
func (a *App) Defaults() application.Defaults {
	return a.config.Defaults
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if config == nil {
			return errors.NewConfigError("app", "config cannot be nil", nil)
		}
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
