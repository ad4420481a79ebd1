// Package config reads tool settings through viper.
package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/agentstation/iibkit/pkg/constants"
)

// GetString returns the value viper holds for key. When viper has nothing,
// the prefixed environment variable (IIBKIT_<KEY>) is read directly so
// values set after viper was configured are still seen.
func GetString(key string) string {
	if v := viper.GetString(key); v != "" {
		return v
	}
	return os.Getenv(EnvName(key))
}

// GetStringOr returns GetString(key), or def when it is empty.
func GetStringOr(key, def string) string {
	if v := GetString(key); v != "" {
		return v
	}
	return def
}

// EnvName returns the environment variable bound to key.
func EnvName(key string) string {
	r := strings.NewReplacer(".", "_", "-", "_")
	return constants.EnvPrefix + "_" + strings.ToUpper(r.Replace(key))
}
