// Package save holds the options shared by everything that writes a document.
package save

import (
	"io"

	"github.com/agentstation/iibkit/pkg/constants"
)

// Options is the configuration for save.
type Options struct {
	path   string
	writer io.Writer
	indent string
}

// Path returns the path for the save options.
func (s *Options) Path() string {
	return s.path
}

// Writer returns the writer for the save options.
func (s *Options) Writer() io.Writer {
	return s.writer
}

// Indent returns the indentation used when pretty-printing.
func (s *Options) Indent() string {
	return s.indent
}

// Defaults returns the default save options.
func Defaults() *Options {
	return &Options{
		path:   "",
		writer: nil,
		indent: constants.DefaultIndent,
	}
}

// Apply applies the given options to the save options.
func (s *Options) Apply(opts ...Option) Options {
	for _, opt := range opts {
		opt(s)
	}
	return *s
}

// Option is a function that configures save options.
type Option func(*Options)

// WithPath for filesystem saves.
func WithPath(path string) Option {
	return func(s *Options) {
		s.path = path
	}
}

// WithWriter for custom outputs. A writer takes precedence over a path.
func WithWriter(w io.Writer) Option {
	return func(s *Options) {
		s.writer = w
	}
}

// WithIndent overrides the pretty-print indentation. Empty keeps the default.
func WithIndent(indent string) Option {
	return func(s *Options) {
		if indent != "" {
			s.indent = indent
		}
	}
}
