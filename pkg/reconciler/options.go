package reconciler

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/agentstation/iibkit/pkg/constants"
	"github.com/agentstation/iibkit/pkg/errors"
)

// options configures a single reconciliation.
type options struct {
	listKey string
	idField string
	indent  string
	dryRun  io.Writer
	logger  *zerolog.Logger
}

func defaultOptions() *options {
	return &options{
		listKey: constants.DefaultListKey,
		idField: constants.DefaultIdentifierField,
		indent:  constants.DefaultIndent,
	}
}

// Option is a function that configures a reconciliation.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// newOptions returns reconciliation options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithListKey sets the document key holding the list. Defaults to "models".
func WithListKey(key string) Option {
	return func(o *options) error {
		if key == "" {
			return &errors.ValidationError{Field: "list_key", Message: "cannot be empty"}
		}
		o.listKey = key
		return nil
	}
}

// WithIdentifierField sets the entry field used by merge-unique. Defaults to "filename".
func WithIdentifierField(field string) Option {
	return func(o *options) error {
		if field == "" {
			return &errors.ValidationError{Field: "id_field", Message: "cannot be empty"}
		}
		o.idField = field
		return nil
	}
}

// WithIndent sets the indentation used when writing the target back.
func WithIndent(indent string) Option {
	return func(o *options) error {
		if indent != "" {
			o.indent = indent
		}
		return nil
	}
}

// WithDryRun renders the updated target to w instead of writing it.
func WithDryRun(w io.Writer) Option {
	return func(o *options) error {
		if w == nil {
			return &errors.ValidationError{Field: "dry_run", Message: "writer cannot be nil"}
		}
		o.dryRun = w
		return nil
	}
}

// WithLogger sets the logger. Without it the logger is taken from the context.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}
