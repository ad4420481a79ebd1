// Package application provides test doubles for cmd/application.
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/iibkit/cmd/application"
	"github.com/agentstation/iibkit/pkg/constants"
)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default value.
//
//	mock := &application.Mock{
//	    OutputFormatFunc: func() string { return "json" },
//	}
//	cmd := reconcile.NewCommand(mock)
type Mock struct {
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	DefaultsFunc     func() application.Defaults
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns output format using the mock function or "" (plain text).
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return ""
}

// Defaults returns flag defaults using the mock function or the built-in defaults.
func (m *Mock) Defaults() application.Defaults {
	if m.DefaultsFunc != nil {
		return m.DefaultsFunc()
	}
	return application.Defaults{
		Policy:       "merge-unique",
		ListKey:      constants.DefaultListKey,
		IDField:      constants.DefaultIdentifierField,
		Indent:       constants.DefaultIndent,
		DBName:       constants.DefaultDBName,
		Mode:         "walk",
		SnapshotName: constants.DefaultSnapshotName,
	}
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// Ensure Mock implements Application at compile time.
var _ application.Application = (*Mock)(nil)
