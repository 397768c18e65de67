// Package config handles CLI configuration loading and storage.
package config

import (
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config represents the CLI configuration.
type Config struct {
	DefaultModel string                    `yaml:"default_model,omitempty"`
	Providers    map[string]ProviderConfig `yaml:"providers,omitempty"`
}

// ProviderConfig holds per-provider settings. API keys stored here override
// the provider's environment variables.
type ProviderConfig struct {
	APIKey  string `yaml:"api_key,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
	Region  string `yaml:"region,omitempty"`
}

// DefaultPath returns the default configuration file path:
// ~/.relay/config.yaml (or %USERPROFILE%\.relay\config.yaml on Windows).
func DefaultPath() string {
	var homeDir string
	if runtime.GOOS == "windows" {
		homeDir = os.Getenv("USERPROFILE")
	} else {
		homeDir = os.Getenv("HOME")
	}
	if homeDir == "" {
		return "config.yaml"
	}
	return filepath.Join(homeDir, ".relay", "config.yaml")
}

// Load reads configuration from path. A missing file yields an empty
// config without error; a file that exists but cannot be read or parsed
// is an error.
func Load(path string) (*Config, error) {
	cfg := &Config{Providers: make(map[string]ProviderConfig)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}
	return cfg, nil
}

// Save writes the configuration to path, creating the parent directory if
// needed. The file is written with 0600 permissions since it may hold keys.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o600)
}

// Provider returns the settings for the given provider id, zero-valued
// when unconfigured.
func (c *Config) Provider(id string) ProviderConfig {
	if c.Providers == nil {
		return ProviderConfig{}
	}
	return c.Providers[id]
}

// SetProvider stores the settings for the given provider id.
func (c *Config) SetProvider(id string, pc ProviderConfig) {
	if c.Providers == nil {
		c.Providers = make(map[string]ProviderConfig)
	}
	c.Providers[id] = pc
}
