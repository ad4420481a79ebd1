package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestEnvName(t *testing.T) {
	assert.Equal(t, "IIBKIT_POLICY", EnvName("policy"))
	assert.Equal(t, "IIBKIT_LIST_KEY", EnvName("list-key"))
	assert.Equal(t, "IIBKIT_DB_NAME", EnvName("db.name"))
}

func TestGetString(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("IIBKIT_POLICY", "prepend-all")
	assert.Equal(t, "prepend-all", GetString("policy"))

	viper.Set("policy", "merge-unique")
	assert.Equal(t, "merge-unique", GetString("policy"), "viper value wins")
}

func TestGetStringOr(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	assert.Equal(t, "models", GetStringOr("list_key", "models"))

	t.Setenv("IIBKIT_LIST_KEY", "loras")
	assert.Equal(t, "loras", GetStringOr("list_key", "models"))
}
