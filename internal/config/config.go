// ABOUTME: Ringd configuration with backend selection and env overrides.
// ABOUTME: JSON file under XDG config, RINGD_* environment on top.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v6"

	"github.com/harperreed/ringd/internal/storage"
)

// Config stores ringd configuration. File values load first; RINGD_*
// environment variables override them, so a container deployment can
// run without any config file at all.
type Config struct {
	// Backend selects the persistence backend: "snapshot" (default),
	// "sqlite", or "badger".
	Backend string `json:"backend,omitempty" env:"RINGD_BACKEND"`

	// DataDir is the root directory for durable state. Supports ~
	// expansion. Defaults to ~/.local/share/ringd.
	DataDir string `json:"data_dir,omitempty" env:"RINGD_DATA_DIR"`

	// Compress gzips the snapshot document. Snapshot backend only.
	Compress bool `json:"compress,omitempty" env:"RINGD_COMPRESS"`

	// Host and Port are the HTTP listen address.
	Host string `json:"host,omitempty" env:"RINGD_HOST"`
	Port int    `json:"port,omitempty" env:"RINGD_PORT"`

	// CORSOrigins is "*" or a comma-separated allow list.
	CORSOrigins string `json:"cors_origins,omitempty" env:"RINGD_CORS_ORIGINS"`
}

// GetBackend returns the configured backend, defaulting to "snapshot".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return "snapshot"
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetHost returns the listen host, defaulting to all interfaces.
func (c *Config) GetHost() string {
	if c.Host == "" {
		return "0.0.0.0"
	}
	return c.Host
}

// GetPort returns the listen port, defaulting to 5002.
func (c *Config) GetPort() int {
	if c.Port == 0 {
		return 5002
	}
	return c.Port
}

// GetCORSOrigins returns the allowed origins, defaulting to "*".
func (c *Config) GetCORSOrigins() string {
	if c.CORSOrigins == "" {
		return "*"
	}
	return c.CORSOrigins
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.GetHost(), c.GetPort())
}

// DataDir returns the default data directory following XDG spec.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "ringd")
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenBackend creates the persistence backend the config selects.
func (c *Config) OpenBackend() (storage.Backend, error) {
	return OpenBackendNamed(c.GetBackend(), c.GetDataDir(), c.Compress)
}

// OpenBackendNamed creates a backend by name rooted at dataDir. The
// migrate command uses it to open source and destination side by side.
func OpenBackendNamed(name, dataDir string, compress bool) (storage.Backend, error) {
	switch name {
	case "snapshot":
		return storage.NewFileBackend(dataDir, compress)
	case "sqlite":
		return storage.NewSQLiteBackend(dataDir)
	case "badger":
		return storage.NewBadgerBackend(dataDir)
	default:
		return nil, fmt.Errorf("unknown backend: %q", name)
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "ringd", "config.json")
}

// Load reads config from disk, then applies environment overrides.
func Load() (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(GetConfigPath())
	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
