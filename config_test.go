package sqlchain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DefaultsApplyWhenOverridesAreZero(t *testing.T) {
	cfg, err := LoadConfig(Config{})
	require.NoError(t, err)
	assert.Equal(t, "mysql", cfg.Driver)
	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 3306, cfg.Port)
	assert.Equal(t, 10, cfg.Pool.MaxOpen)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
}

func TestLoadConfig_OverridesWinOverDefaults(t *testing.T) {
	cfg, err := LoadConfig(Config{Host: "db.internal", Port: 5432})
	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Host)
	assert.Equal(t, 5432, cfg.Port)
}

func TestLoadConfig_EnvOverridesStructDefaults(t *testing.T) {
	t.Setenv("SQLCHAIN_HOST", "env-host")
	t.Setenv("SQLCHAIN_PORT", "9999")

	cfg, err := LoadConfig(Config{})
	require.NoError(t, err)
	assert.Equal(t, "env-host", cfg.Host)
	assert.Equal(t, 9999, cfg.Port)
}
