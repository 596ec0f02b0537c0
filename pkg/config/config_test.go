package config

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Port    int      `env:"TEST_CFG_PORT" envDefault:"8010"`
	Backend string   `env:"TEST_CFG_BACKEND" envDefault:"redis"`
	Brokers []string `env:"TEST_CFG_BROKERS" envSeparator:","`
	Debug   bool     `env:"TEST_CFG_DEBUG" envDefault:"false"`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 8010, cfg.Port)
	assert.Equal(t, "redis", cfg.Backend)
	assert.Empty(t, cfg.Brokers)
	assert.False(t, cfg.Debug)
}

func TestLoad_FromEnvVars(t *testing.T) {
	t.Setenv("TEST_CFG_PORT", "9090")
	t.Setenv("TEST_CFG_BACKEND", "memory")
	t.Setenv("TEST_CFG_BROKERS", "k1:9092,k2:9092")
	t.Setenv("TEST_CFG_DEBUG", "true")

	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "memory", cfg.Backend)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Brokers)
	assert.True(t, cfg.Debug)
}

func TestLoad_InvalidType(t *testing.T) {
	t.Setenv("TEST_CFG_PORT", "not-a-number")

	var cfg testConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoadFrom_IgnoresProcessEnvironment(t *testing.T) {
	t.Setenv("TEST_CFG_PORT", "9999")

	var cfg testConfig
	require.NoError(t, LoadFrom(&cfg, map[string]string{"TEST_CFG_BACKEND": "memory"}))

	assert.Equal(t, 8010, cfg.Port)
	assert.Equal(t, "memory", cfg.Backend)
}

type requiredConfig struct {
	ProfileSalt string `env:"TEST_CFG_SALT,required"`
}

func TestLoadFrom_RequiredFieldMissing(t *testing.T) {
	var cfg requiredConfig
	err := LoadFrom(&cfg, map[string]string{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

type validatedConfig struct {
	Port int `env:"TEST_CFG_PORT" envDefault:"8010"`
}

func (c *validatedConfig) Validate() error {
	if c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	return nil
}

func TestLoadFrom_RunsValidator(t *testing.T) {
	var ok validatedConfig
	require.NoError(t, LoadFrom(&ok, nil))

	var bad validatedConfig
	err := LoadFrom(&bad, map[string]string{"TEST_CFG_PORT": "70000"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config: port 70000 out of range")
}
