// Package config handles loading and saving skiff configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/skiff/config.yaml
//   - State:   ~/.local/state/skiff/ (tutorial state, stats queue)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// GitUser holds the identity applied to `git config` during onboarding.
type GitUser struct {
	Name  string `yaml:"name,omitempty"`
	Email string `yaml:"email,omitempty"`
}

// UIConfig holds UI preference settings.
type UIConfig struct {
	Theme    string `yaml:"theme,omitempty"`    // dark, light, auto
	Headless bool   `yaml:"headless,omitempty"` // Compact header mode
}

// Config is the top-level configuration for skiff.
type Config struct {
	// StatsOptOut disables submission of anonymous usage measures.
	StatsOptOut bool `yaml:"stats_opt_out,omitempty"`
	// ExternalEditor overrides editor auto-detection (e.g. "code", "vim").
	ExternalEditor string `yaml:"external_editor,omitempty"`
	// OnboardingDone records that the welcome wizard has been completed.
	OnboardingDone bool     `yaml:"onboarding_done,omitempty"`
	GitUser        GitUser  `yaml:"git_user,omitempty"`
	UI             UIConfig `yaml:"ui,omitempty"`
	// RecentRepos lists recently opened repository paths, newest first.
	RecentRepos []string `yaml:"recent_repos,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		UI: UIConfig{Theme: "auto"},
	}
}

// ConfigDir returns the XDG config directory for skiff.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "skiff")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "skiff")
}

// StateDir returns the XDG state directory for skiff.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "skiff")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "skiff")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	for i := range cfg.RecentRepos {
		cfg.RecentRepos[i] = expandHome(cfg.RecentRepos[i])
	}

	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// RememberRepo moves path to the front of RecentRepos, keeping at most ten
// entries.
func (c *Config) RememberRepo(path string) {
	out := []string{path}
	for _, p := range c.RecentRepos {
		if p != path {
			out = append(out, p)
		}
	}
	if len(out) > 10 {
		out = out[:10]
	}
	c.RecentRepos = out
}

// expandHome expands a leading ~ to the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
