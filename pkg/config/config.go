package config

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jsondump/jsondump/pkg/environment"
	"github.com/jsondump/jsondump/pkg/logging"
)

// Config is the validated runtime configuration consumed by the storage and
// API layers. It is built once at startup and passed down explicitly.
type Config struct {
	DataDir        string
	MaxPayloadSize int64
	HostIP         string
	Port           uint16
	EnableCORS     bool
	TrustedProxies []string
}

// FromEnvironment converts the raw environment into a Config and validates it.
func FromEnvironment(env *environment.Environment, logger *logging.Logger) (*Config, error) {
	if env.Port < 0 || env.Port > 65535 {
		return nil, fmt.Errorf("invalid port: %d", env.Port)
	}

	cfg := &Config{
		DataDir:        env.DataDir,
		MaxPayloadSize: env.MaxPayloadSize,
		HostIP:         env.HostIP,
		Port:           uint16(env.Port),
		EnableCORS:     env.EnableCORS == "1",
	}

	if env.TrustedProxies != "" {
		for _, proxy := range strings.Split(env.TrustedProxies, ",") {
			if proxy = strings.TrimSpace(proxy); proxy != "" {
				cfg.TrustedProxies = append(cfg.TrustedProxies, proxy)
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug("configuration validation passed",
		"dataDir", cfg.DataDir,
		"maxPayloadSize", humanize.Bytes(uint64(cfg.MaxPayloadSize)))

	return cfg, nil
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("storage directory must not be empty")
	}
	if c.MaxPayloadSize <= 0 {
		return fmt.Errorf("invalid max payload size: %d (must be positive)", c.MaxPayloadSize)
	}
	return nil
}

// ListenAddr returns the host:port the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.HostIP, c.Port)
}

// MaxPayloadHuman returns the size limit in a human-readable form for logs
// and error messages.
func (c *Config) MaxPayloadHuman() string {
	return humanize.Bytes(uint64(c.MaxPayloadSize))
}
