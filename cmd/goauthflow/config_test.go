package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	goAuthFlow "github.com/MrEthical07/goAuthFlow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("", nil, map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Equal(t, goAuthFlow.SessionBackendFile, cfg.Session.Backend)
	assert.NotEmpty(t, cfg.Session.File)
	assert.Equal(t, 2*time.Second, cfg.Flow.VerifyDelay)
	assert.Equal(t, 3*time.Second, cfg.Flow.ResetDelay)
	assert.Equal(t, logSettings{Level: "warn", Format: "console"}, cfg.Log)
	require.NoError(t, func() error { c := cfg.engineConfig(); return c.Validate() }())
}

func TestLoadConfigLayering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goauthflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
base_url: https://file.example.com
headers:
  X-App: cli
session:
  backend: redis
  redis_prefix: file
  redis_ttl: 1h
flow:
  verify_delay: 5s
log:
  level: info
`), 0o600))

	environ := map[string]string{
		"GOAUTHFLOW_SESSION_REDIS_PREFIX": "env",
		"GOAUTHFLOW_LOG_LEVEL":            "debug",
		"GOAUTHFLOW_FLOW_RESET_DELAY":     "0s",
		"UNRELATED":                       "x",
	}

	flags := newRootCmd(&app{}).PersistentFlags()
	require.NoError(t, flags.Parse([]string{"--log-level=error", "--no-color"}))

	cfg, err := loadConfig(path, flags, environ)
	require.NoError(t, err)

	assert.Equal(t, "https://file.example.com", cfg.BaseURL)
	assert.Equal(t, map[string]string{"X-App": "cli"}, cfg.Headers)
	assert.Equal(t, goAuthFlow.SessionBackendRedis, cfg.Session.Backend)
	assert.Equal(t, "env", cfg.Session.RedisPrefix)
	assert.Equal(t, "default", cfg.Session.RedisNamespace)
	assert.Equal(t, time.Hour, cfg.Session.RedisTTL)
	assert.Equal(t, 5*time.Second, cfg.Flow.VerifyDelay)
	assert.Zero(t, cfg.Flow.ResetDelay)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.True(t, cfg.NoColor)

	engineCfg := cfg.engineConfig()
	assert.Equal(t, "env", engineCfg.Session.RedisPrefix)
	assert.Equal(t, 5*time.Second, engineCfg.Flow.VerifyRedirectDelay)
}

func TestLoadConfigUnchangedFlagsKeepLowerLayers(t *testing.T) {
	flags := newRootCmd(&app{}).PersistentFlags()
	require.NoError(t, flags.Parse(nil))

	cfg, err := loadConfig("", flags, map[string]string{"GOAUTHFLOW_BASE_URL": "https://env.example.com"})
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cfg.BaseURL)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "absent.yaml"), nil, map[string]string{})
	assert.Error(t, err)
}

func TestLoadConfigBadEnvironmentValue(t *testing.T) {
	_, err := loadConfig("", nil, map[string]string{"GOAUTHFLOW_FLOW_VERIFY_DELAY": "soon"})
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, logSettings{Level: "info", Format: "json"})
	require.NoError(t, err)
	logger.Debug().Msg("hidden")
	logger.Info().Str("op", "test").Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"op":"test"`)

	_, err = newLogger(&buf, logSettings{Level: "loud"})
	assert.Error(t, err)
	_, err = newLogger(&buf, logSettings{Level: "info", Format: "xml"})
	assert.Error(t, err)
}
