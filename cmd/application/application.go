// Package application provides the application interface for iibkit commands.
//
// Commands accept this interface rather than the concrete App type so they
// can be tested with application.Mock from internal/cmd/application.
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            defaults := app.Defaults()
//	            logger := app.Logger()
//	            // ...
//	            return nil
//	        },
//	    }
//	}
package application

import (
	"github.com/rs/zerolog"
)

// Defaults are configuration-derived flag defaults. Config files and
// IIBKIT_* environment variables feed them; explicit flags override them.
type Defaults struct {
	// Reconcile
	Policy  string
	ListKey string
	IDField string
	Indent  string

	// Seed
	ProjectPath  string
	DBName       string
	Mode         string
	SnapshotName string
}

// Application provides what commands need from the running app.
type Application interface {
	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (text, json, yaml, table).
	OutputFormat() string

	// Defaults returns flag defaults loaded from config and environment.
	Defaults() Defaults

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
