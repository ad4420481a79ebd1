package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/iibkit/cmd/application"
	"github.com/agentstation/iibkit/internal/config"
	"github.com/agentstation/iibkit/pkg/constants"
)

// Config holds the application configuration loaded from config files,
// environment variables and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Command defaults
	Defaults application.Defaults

	// Logging configuration. LogLevel is set only by --log-level;
	// EnvLogLevel comes from LOG_LEVEL and ranks below -v and -q.
	LogLevel    string
	EnvLogLevel string
	LogFormat   string
	LogOutput   string
}

// Keys read from config files and IIBKIT_* environment variables.
const (
	keyPolicy       = "policy"
	keyListKey      = "list_key"
	keyIDField      = "id_field"
	keyIndent       = "indent"
	keyProjectPath  = "project_path"
	keyDBName       = "db_name"
	keyMode         = "mode"
	keySnapshotName = "snapshot_name"
	keyFormat       = "format"
)

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (IIBKIT_*, LOG_*)
// 3. .env files
// 4. Config file (./.iibkit.yaml or ~/.iibkit.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	return loadConfig("")
}

// loadConfig is LoadConfig with an explicit config file.
func loadConfig(configFile string) (*Config, error) {
	loadEnvFiles()

	viper.SetEnvPrefix(constants.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault(keyPolicy, "merge-unique")
	viper.SetDefault(keyListKey, constants.DefaultListKey)
	viper.SetDefault(keyIDField, constants.DefaultIdentifierField)
	viper.SetDefault(keyIndent, constants.DefaultIndent)
	viper.SetDefault(keyDBName, constants.DefaultDBName)
	viper.SetDefault(keyMode, "walk")
	viper.SetDefault(keySnapshotName, constants.DefaultSnapshotName)

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return nil, err
		}
	} else {
		viper.SetConfigType("yaml")
		viper.SetConfigName(constants.ConfigFileName)
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		// Missing config file is fine
		_ = viper.ReadInConfig()
	}

	return &Config{
		Format:     config.GetString(keyFormat),
		ConfigFile: viper.ConfigFileUsed(),

		Defaults: application.Defaults{
			Policy:       config.GetStringOr(keyPolicy, "merge-unique"),
			ListKey:      config.GetStringOr(keyListKey, constants.DefaultListKey),
			IDField:      config.GetStringOr(keyIDField, constants.DefaultIdentifierField),
			Indent:       config.GetStringOr(keyIndent, constants.DefaultIndent),
			ProjectPath:  config.GetString(keyProjectPath),
			DBName:       config.GetStringOr(keyDBName, constants.DefaultDBName),
			Mode:         config.GetStringOr(keyMode, "walk"),
			SnapshotName: config.GetStringOr(keySnapshotName, constants.DefaultSnapshotName),
		},

		EnvLogLevel: os.Getenv("LOG_LEVEL"),
		LogFormat:   getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput:   getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}, nil
}

// UpdateFromFlags updates config values from parsed command flags so flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// godotenv never overrides variables that are already set, so .env.local
// must load first to take precedence over .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
