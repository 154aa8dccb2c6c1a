package config

// StoreConfig selects where profiles are kept
type StoreConfig struct {
	Backend string `toml:"backend"` // json, toml, yaml, sqlite or memory
	Path    string `toml:"path"`    // Relative paths resolve against the config dir
}

// GitConfig selects how the global git configuration is edited
type GitConfig struct {
	Backend string `toml:"backend"` // exec (git binary) or file (in-process)
	Binary  string `toml:"binary"`  // Used by the exec backend
	File    string `toml:"file"`    // Used by the file backend, defaults to ~/.gitconfig
	Timeout string `toml:"timeout"` // Per-command timeout, e.g. "10s"
}

// LogConfig controls diagnostic logging
type LogConfig struct {
	Level string `toml:"level"`
}

// Config represents the gprofile settings file
type Config struct {
	Version string      `toml:"version"`
	Notify  bool        `toml:"notify"` // Desktop notification on switch
	Store   StoreConfig `toml:"store"`
	Git     GitConfig   `toml:"git"`
	Log     LogConfig   `toml:"log"`
}
