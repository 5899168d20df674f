package goAuthFlow

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MrEthical07/goAuthFlow/api"
)

// Config holds every setting of an Engine. Build validates it once; it is
// treated as immutable afterwards.
type Config struct {
	API     APIConfig
	Session SessionConfig
	Flow    FlowConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

/*
====================================
API CONFIG
====================================
*/

// APIConfig selects the backend.
type APIConfig struct {
	// BaseURL is the absolute prefix of the six auth endpoints.
	BaseURL string
	// Headers are added to every backend call.
	Headers map[string]string
}

/*
====================================
SESSION CONFIG
====================================
*/

// Session backends.
const (
	SessionBackendMemory = "memory"
	SessionBackendFile   = "file"
	SessionBackendRedis  = "redis"
)

// SessionConfig selects where the login state is persisted.
type SessionConfig struct {
	Backend string
	// FilePath is required by the file backend.
	FilePath string
	// RedisPrefix and RedisNamespace build the redis key layout
	// "<prefix>:<namespace>:<key>".
	RedisPrefix    string
	RedisNamespace string
	// RedisTTL expires redis keys. Zero keeps them until cleared.
	RedisTTL time.Duration
}

/*
====================================
FLOW CONFIG
====================================
*/

// FlowConfig holds the delays of the timed navigations.
type FlowConfig struct {
	// VerifyRedirectDelay separates a successful verification from the
	// navigation to login.
	VerifyRedirectDelay time.Duration
	// ResetRedirectDelay separates a successful password reset from the
	// navigation to login.
	ResetRedirectDelay time.Duration
}

/*
====================================
OBSERVABILITY CONFIG
====================================
*/

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the in-process counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL: "http://localhost:8080",
		},
		Session: SessionConfig{
			Backend:        SessionBackendMemory,
			RedisPrefix:    "gaf",
			RedisNamespace: "default",
		},
		Flow: FlowConfig{
			VerifyRedirectDelay: 2 * time.Second,
			ResetRedirectDelay:  3 * time.Second,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 true,
			EnableLatencyHistograms: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	if cfg.API.Headers != nil {
		out.API.Headers = make(map[string]string, len(cfg.API.Headers))
		for k, v := range cfg.API.Headers {
			out.API.Headers[k] = v
		}
	}
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	// API
	if _, err := api.NewEndpoints(c.API.BaseURL); err != nil {
		return fmt.Errorf("API BaseURL: %w", err)
	}
	for k := range c.API.Headers {
		if k == "" || strings.ContainsAny(k, " :\r\n") {
			return fmt.Errorf("API Headers contain an invalid name %q", k)
		}
	}

	// Session
	switch c.Session.Backend {
	case SessionBackendMemory, SessionBackendRedis:
	case SessionBackendFile:
		if c.Session.FilePath == "" {
			return errors.New("Session FilePath is required for the file backend")
		}
	default:
		return fmt.Errorf("Session Backend must be %q, %q or %q", SessionBackendMemory, SessionBackendFile, SessionBackendRedis)
	}
	if c.Session.RedisTTL < 0 {
		return errors.New("Session RedisTTL must be >= 0")
	}

	// Flow
	if c.Flow.VerifyRedirectDelay < 0 {
		return errors.New("Flow VerifyRedirectDelay must be >= 0")
	}
	if c.Flow.ResetRedirectDelay < 0 {
		return errors.New("Flow ResetRedirectDelay must be >= 0")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when audit is enabled")
	}

	// Metrics
	if c.Metrics.EnableLatencyHistograms && !c.Metrics.Enabled {
		return errors.New("Metrics EnableLatencyHistograms requires Metrics Enabled")
	}

	return nil
}
