// Package config loads dashforge settings from a YAML or TOML file and
// applies defaults so callers always see a fully populated configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/dashforge/dashforge/pkg/state"
)

// Config represents the top-level configuration file structure
type Config struct {
	Storage   StorageConfig             `yaml:"storage" toml:"storage"`
	Providers map[string]ProviderConfig `yaml:"providers" toml:"providers"`
	Assist    AssistConfig              `yaml:"assist" toml:"assist"`
}

// StorageConfig locates the local project database
type StorageConfig struct {
	// Path to the SQLite database file holding projects
	Path string `yaml:"path" toml:"path"`
}

// ProviderConfig contains sync settings for a hosting provider
// (keyed by provider name, e.g. "github" or "gitlab")
type ProviderConfig struct {
	Token      string `yaml:"token" toml:"token"`
	Owner      string `yaml:"owner" toml:"owner"`
	Repository string `yaml:"repository" toml:"repository"`
	Branch     string `yaml:"branch" toml:"branch"`
	// BaseURL overrides the API endpoint for self-hosted instances
	BaseURL string `yaml:"base_url" toml:"base_url"`
}

// EnvAssistKey overrides the assist API key from the settings file.
const EnvAssistKey = "DASHFORGE_ASSIST_KEY"

// AssistConfig points at the generative summary service
type AssistConfig struct {
	Endpoint string `yaml:"endpoint" toml:"endpoint"`
	APIKey   string `yaml:"api_key" toml:"api_key"`
	// TimeoutSeconds bounds one generation call; 0 uses the client default
	TimeoutSeconds int `yaml:"timeout_seconds" toml:"timeout_seconds"`
}

// DefaultStoragePath returns the database location used when the config
// does not set one.
func DefaultStoragePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "dashforge.db"
	}
	return filepath.Join(home, ".dashforge", "projects.db")
}

// LoadFromFile reads a configuration file and returns the parsed Config
// The format is chosen by extension: .toml uses TOML, everything else YAML
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if strings.EqualFold(filepath.Ext(filename), ".toml") {
		if err := toml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := config.ApplyDefaults(); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}

	return &config, nil
}

// Default returns a configuration with all defaults applied and no
// providers configured.
func Default() *Config {
	c := &Config{}
	_ = c.ApplyDefaults()
	return c
}

// ApplyDefaults fills in missing values and validates provider entries
func (c *Config) ApplyDefaults() error {
	if c.Storage.Path == "" {
		c.Storage.Path = DefaultStoragePath()
	}
	if c.Providers == nil {
		c.Providers = map[string]ProviderConfig{}
	}
	// Same precedence as provider tokens: the environment wins
	if env := os.Getenv(EnvAssistKey); env != "" {
		c.Assist.APIKey = env
	}

	for providerName, providerConfig := range c.Providers {
		// Environment tokens take precedence over the settings file
		if env := os.Getenv(state.EnvTokenName(providerName)); env != "" {
			providerConfig.Token = env
		}
		if providerConfig.Branch == "" {
			providerConfig.Branch = "main"
		}

		// Validate required fields
		if providerConfig.Owner == "" {
			return fmt.Errorf("provider %s: missing required field 'owner'", providerName)
		}
		if providerConfig.Repository == "" {
			return fmt.Errorf("provider %s: missing required field 'repository'", providerName)
		}

		c.Providers[providerName] = providerConfig
	}

	return nil
}

// Provider returns the configuration for a provider name, or an error
// listing the configured providers when it is absent.
func (c *Config) Provider(name string) (ProviderConfig, error) {
	pc, ok := c.Providers[strings.ToLower(name)]
	if !ok {
		configured := make([]string, 0, len(c.Providers))
		for k := range c.Providers {
			configured = append(configured, k)
		}
		return ProviderConfig{}, fmt.Errorf("provider %s is not configured (configured: %s)", name, strings.Join(configured, ", "))
	}
	return pc, nil
}
