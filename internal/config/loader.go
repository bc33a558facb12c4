package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Loader handles loading the configuration.
type Loader struct {
	Version      string // Build version, used to determine dev mode
	OverridePath string // Explicit path from -config or CHATSHOT_CONFIG
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
	}
}

// Load attempts to load the configuration.
func (l *Loader) Load() (*Config, error) {
	path := l.GetConfigPath()
	if path == "" {
		return New(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// GetConfigPath returns the path to the configuration file, or empty string if not found.
func (l *Loader) GetConfigPath() string {
	if l.OverridePath != "" {
		if _, err := os.Stat(l.OverridePath); err == nil {
			return l.OverridePath
		}
	}

	if l.Version == "dev" {
		wd, _ := os.Getwd()
		localPath := filepath.Join(wd, ".chatshotrc")
		if _, err := os.Stat(localPath); err == nil {
			return localPath
		}
	}

	for _, name := range []string{"config.rc", "chatshot.rc"} {
		p := filepath.Join(DefaultDir(), name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// DefaultDir returns ~/.config/chatshot, honouring XDG_CONFIG_HOME.
func DefaultDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "chatshot")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "chatshot")
}

// Save writes cfg to path, or to the default location when path is empty,
// and returns the path written.
func Save(cfg *Config, path string) (string, error) {
	if path == "" {
		path = filepath.Join(DefaultDir(), "config.rc")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(cfg.String()), 0o644); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}
	return path, nil
}
