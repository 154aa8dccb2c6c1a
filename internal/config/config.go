package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/byterings/gprofile/internal/platform"
	"github.com/byterings/gprofile/internal/store"
)

const (
	ConfigFileName = "config.toml"
	CurrentVersion = "1.0"

	GitBackendExec = "exec"
	GitBackendFile = "file"

	DefaultGitBinary  = "git"
	DefaultGitTimeout = 10 * time.Second
	DefaultLogLevel   = "warn"
)

// GetConfigDir returns the path to the gprofile config directory
func GetConfigDir() (string, error) {
	return platform.GetConfigDir()
}

// GetConfigPath returns the path to the settings file inside dir
func GetConfigPath(dir string) string {
	return filepath.Join(dir, ConfigFileName)
}

// ConfigExists checks if the settings file exists in dir
func ConfigExists(dir string) (bool, error) {
	_, err := os.Stat(GetConfigPath(dir))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// CreateConfigDir creates the config directory
func CreateConfigDir(dir string) error {
	return platform.MkdirSecure(dir)
}

// NewConfig creates a config populated with defaults
func NewConfig() *Config {
	return &Config{
		Version: CurrentVersion,
		Store:   StoreConfig{Backend: store.KindJSON},
		Git: GitConfig{
			Backend: GitBackendExec,
			Binary:  DefaultGitBinary,
			Timeout: DefaultGitTimeout.String(),
		},
		Log: LogConfig{Level: DefaultLogLevel},
	}
}

// LoadConfig loads the settings from dir. A missing file yields defaults.
func LoadConfig(dir string) (*Config, error) {
	cfg := NewConfig()

	data, err := os.ReadFile(GetConfigPath(dir))
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig writes the settings file into dir
func SaveConfig(dir string, cfg *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := platform.WriteFileAtomic(GetConfigPath(dir), buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate reports unknown backends and malformed durations
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case store.KindJSON, store.KindTOML, store.KindYAML, store.KindSQLite, store.KindMemory:
	default:
		return fmt.Errorf("invalid store backend %q", c.Store.Backend)
	}
	switch c.Git.Backend {
	case GitBackendExec, GitBackendFile:
	default:
		return fmt.Errorf("invalid git backend %q (expected %s or %s)", c.Git.Backend, GitBackendExec, GitBackendFile)
	}
	if _, err := c.GitTimeout(); err != nil {
		return err
	}
	return nil
}

// StorePath returns the absolute location of the profile store
func (c *Config) StorePath(dir string) (string, error) {
	if c.Store.Path == "" {
		return filepath.Join(dir, store.DefaultFileName(c.Store.Backend)), nil
	}
	path, err := platform.ExpandTilde(c.Store.Path)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	return path, nil
}

// GitTimeout parses the per-command git timeout. Zero disables it.
func (c *Config) GitTimeout() (time.Duration, error) {
	if c.Git.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Git.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid git timeout %q: %w", c.Git.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid git timeout %q: must not be negative", c.Git.Timeout)
	}
	return d, nil
}

func (c *Config) applyDefaults() {
	if c.Version == "" {
		c.Version = CurrentVersion
	}
	if c.Store.Backend == "" {
		c.Store.Backend = store.KindJSON
	}
	if c.Git.Backend == "" {
		c.Git.Backend = GitBackendExec
	}
	if c.Git.Binary == "" {
		c.Git.Binary = DefaultGitBinary
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}
