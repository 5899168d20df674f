package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	goAuthFlow "github.com/MrEthical07/goAuthFlow"
	"github.com/caarlos0/env/v11"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// envPrefix scopes every environment override.
const envPrefix = "GOAUTHFLOW_"

// cliConfig is the merged configuration of one invocation. Sources apply in
// order: defaults, the YAML file, GOAUTHFLOW_* variables, changed flags.
type cliConfig struct {
	BaseURL string            `koanf:"base_url" env:"BASE_URL"`
	Headers map[string]string `koanf:"headers" env:"HEADERS"`
	Session sessionSettings   `koanf:"session" envPrefix:"SESSION_"`
	Flow    flowSettings      `koanf:"flow" envPrefix:"FLOW_"`
	Log     logSettings       `koanf:"log" envPrefix:"LOG_"`
	Audit   bool              `koanf:"audit" env:"AUDIT"`
	Metrics bool              `koanf:"metrics" env:"METRICS"`
	NoColor bool              `koanf:"no_color" env:"NO_COLOR"`
}

type sessionSettings struct {
	Backend        string        `koanf:"backend" env:"BACKEND"`
	File           string        `koanf:"file" env:"FILE"`
	RedisAddr      string        `koanf:"redis_addr" env:"REDIS_ADDR"`
	RedisPrefix    string        `koanf:"redis_prefix" env:"REDIS_PREFIX"`
	RedisNamespace string        `koanf:"redis_namespace" env:"REDIS_NAMESPACE"`
	RedisTTL       time.Duration `koanf:"redis_ttl" env:"REDIS_TTL"`
}

type flowSettings struct {
	VerifyDelay time.Duration `koanf:"verify_delay" env:"VERIFY_DELAY"`
	ResetDelay  time.Duration `koanf:"reset_delay" env:"RESET_DELAY"`
}

type logSettings struct {
	Level  string `koanf:"level" env:"LEVEL"`
	Format string `koanf:"format" env:"FORMAT"`
}

// flagKeys maps global flag names to config keys.
var flagKeys = map[string]string{
	"base-url":        "base_url",
	"session-backend": "session.backend",
	"session-file":    "session.file",
	"redis-addr":      "session.redis_addr",
	"redis-prefix":    "session.redis_prefix",
	"log-level":       "log.level",
	"log-format":      "log.format",
	"metrics":         "metrics",
	"audit":           "audit",
	"no-color":        "no_color",
}

func defaultCLIConfig() cliConfig {
	base := goAuthFlow.DefaultConfig()
	return cliConfig{
		BaseURL: base.API.BaseURL,
		Session: sessionSettings{
			Backend:        goAuthFlow.SessionBackendFile,
			File:           defaultSessionFile(),
			RedisPrefix:    base.Session.RedisPrefix,
			RedisNamespace: base.Session.RedisNamespace,
		},
		Flow: flowSettings{
			VerifyDelay: base.Flow.VerifyRedirectDelay,
			ResetDelay:  base.Flow.ResetRedirectDelay,
		},
		Log: logSettings{Level: "warn", Format: "console"},
	}
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".goauthflow-session.json"
	}
	return filepath.Join(dir, "goauthflow", "session.json")
}

// loadConfig merges the configuration sources. environ replaces the process
// environment when non-nil.
func loadConfig(path string, flags *pflag.FlagSet, environ map[string]string) (cliConfig, error) {
	cfg := defaultCLIConfig()
	unmarshal := koanf.UnmarshalConf{Tag: "koanf"}

	if path != "" {
		k := koanf.New(".")
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return cliConfig{}, fmt.Errorf("load config %s: %w", path, err)
		}
		if err := k.UnmarshalWithConf("", &cfg, unmarshal); err != nil {
			return cliConfig{}, fmt.Errorf("decode config %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix, Environment: environ}); err != nil {
		return cliConfig{}, fmt.Errorf("environment: %w", err)
	}

	if flags != nil {
		k := koanf.New(".")
		provider := posflag.ProviderWithFlag(flags, ".", nil, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return cliConfig{}, fmt.Errorf("flags: %w", err)
		}
		if err := k.UnmarshalWithConf("", &cfg, unmarshal); err != nil {
			return cliConfig{}, fmt.Errorf("flags: %w", err)
		}
	}

	return cfg, nil
}

// engineConfig translates the CLI settings into an Engine configuration.
func (c cliConfig) engineConfig() goAuthFlow.Config {
	cfg := goAuthFlow.DefaultConfig()
	cfg.API.BaseURL = c.BaseURL
	cfg.API.Headers = c.Headers
	cfg.Session = goAuthFlow.SessionConfig{
		Backend:        c.Session.Backend,
		FilePath:       c.Session.File,
		RedisPrefix:    c.Session.RedisPrefix,
		RedisNamespace: c.Session.RedisNamespace,
		RedisTTL:       c.Session.RedisTTL,
	}
	cfg.Flow.VerifyRedirectDelay = c.Flow.VerifyDelay
	cfg.Flow.ResetRedirectDelay = c.Flow.ResetDelay
	cfg.Audit.Enabled = c.Audit
	cfg.Metrics.Enabled = true
	return cfg
}
