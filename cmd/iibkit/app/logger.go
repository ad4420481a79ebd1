package app

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/agentstation/iibkit/pkg/logging"
)

// NewLogger creates a configured logger based on the application configuration.
// Log level precedence (highest to lowest):
//  1. --log-level flag
//  2. -v/--verbose flag (debug)
//  3. -q/--quiet flag (warn)
//  4. LOG_LEVEL environment variable
//  5. Default (info)
func NewLogger(config *Config) zerolog.Logger {
	level := determineLogLevel(config)

	return logging.NewLoggerFromConfig(&logging.Config{
		Level:      level,
		Format:     config.LogFormat,
		Output:     config.LogOutput,
		TimeFormat: "kitchen",
		NoColor:    config.NoColor || os.Getenv("NO_COLOR") != "",
		AddCaller:  level == "debug" || level == "trace",
	})
}

// determineLogLevel determines the log level using the precedence rules.
func determineLogLevel(config *Config) string {
	if config.LogLevel != "" {
		return checkedLevel(config.LogLevel)
	}

	if config.Verbose && config.Quiet {
		fmt.Fprintf(os.Stderr, "Warning: both --verbose and --quiet specified, using --quiet\n")
		return "warn"
	}
	if config.Verbose {
		return "debug"
	}
	if config.Quiet {
		return "warn"
	}

	if config.EnvLogLevel != "" {
		return checkedLevel(config.EnvLogLevel)
	}
	return "info"
}

// checkedLevel returns level when valid, otherwise warns and returns info.
func checkedLevel(level string) string {
	validated := validateLogLevel(level)
	if validated != level {
		fmt.Fprintf(os.Stderr, "Warning: invalid log level %q, using %q\n", level, validated)
	}
	return validated
}

// validateLogLevel returns level if it is known, or "info".
func validateLogLevel(level string) string {
	switch level {
	case "trace", "debug", "info", "warn", "error":
		return level
	default:
		return "info"
	}
}
