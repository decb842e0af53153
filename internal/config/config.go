// Package config loads ejql's configuration from a TOML file overlaid with
// EJQL_-prefixed environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/ejql/ejql/internal/export"
	"github.com/ejql/ejql/internal/jbr"
	"github.com/ejql/ejql/internal/store"
)

// Config is the root configuration for the ejql binary.
type Config struct {
	Store   store.Config  `koanf:"store"`
	Server  jbr.Config    `koanf:"server"`
	Export  export.Config `koanf:"export"`
	Logging LoggingConfig `koanf:"logging"`
}

// LoggingConfig controls the charmbracelet/log level used by the CLI and
// server.
type LoggingConfig struct {
	Level string `koanf:"level"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Store: store.Config{
			Path: "ejql.db",
		},
		Server: jbr.Config{
			Host:              "127.0.0.1",
			Port:              9172,
			HTTPServerTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads path (if it exists) as TOML, then overlays EJQL_-prefixed
// environment variables, e.g. EJQL_SERVER_PORT overrides server.port.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("config: loading %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider("EJQL_", ".", envToKey), nil); err != nil {
		return nil, fmt.Errorf("config: loading environment: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshaling: %w", err)
	}

	return cfg, nil
}

// envToKey converts EJQL_SERVER_PORT's suffix SERVER_PORT into server.port.
func envToKey(s string) string {
	s = s[len("EJQL_"):]
	result := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_':
			result = append(result, '.')
		case c >= 'A' && c <= 'Z':
			result = append(result, c-'A'+'a')
		default:
			result = append(result, c)
		}
	}
	return string(result)
}

// DefaultPath returns the default config file location, following XDG
// conventions.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ejql", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "ejql.toml"
	}
	return filepath.Join(home, ".config", "ejql", "config.toml")
}

// Save writes c to path as TOML, creating parent directories as needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: creating directory: %w", err)
	}

	k := koanf.New(".")
	if err := k.Load(confmap{c}, nil); err != nil {
		return fmt.Errorf("config: preparing data: %w", err)
	}

	data, err := k.Marshal(toml.Parser())
	if err != nil {
		return fmt.Errorf("config: marshaling: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: writing %s: %w", path, err)
	}
	return nil
}

// confmap adapts Config to koanf.Provider so Save can marshal it without a
// struct-tag reflection pass.
type confmap struct {
	cfg *Config
}

func (c confmap) ReadBytes() ([]byte, error) { return nil, nil }

func (c confmap) Read() (map[string]any, error) {
	return map[string]any{
		"store": map[string]any{
			"path": c.cfg.Store.Path,
		},
		"server": map[string]any{
			"host":                c.cfg.Server.Host,
			"port":                c.cfg.Server.Port,
			"http_server_timeout": c.cfg.Server.HTTPServerTimeout.String(),
			"oidc": map[string]any{
				"provider_url": c.cfg.Server.OIDC.ProviderURL,
				"client_id":    c.cfg.Server.OIDC.ClientID,
			},
		},
		"export": map[string]any{
			"dsn":        c.cfg.Export.DSN,
			"table":      c.cfg.Export.Table,
			"batch_size": c.cfg.Export.BatchSize,
		},
		"logging": map[string]any{
			"level": c.cfg.Logging.Level,
		},
	}, nil
}
