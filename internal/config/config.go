// Package config provides configuration management for tonsigil.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mrz1836/tonsigil/internal/chain"
)

// Config represents the application configuration.
type Config struct {
	Version    int              `yaml:"version"`
	Home       string           `yaml:"home"`
	Network    string           `yaml:"network"`
	Networks   NetworksConfig   `yaml:"networks"`
	Discovery  DiscoveryConfig  `yaml:"discovery"`
	Retry      RetryConfig      `yaml:"retry"`
	Encryption EncryptionConfig `yaml:"encryption"`
	Storage    StorageConfig    `yaml:"storage"`
	Output     OutputConfig     `yaml:"output"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// NetworksConfig defines per-network backend settings.
type NetworksConfig struct {
	Mainnet NetworkConfig `yaml:"mainnet"`
	Testnet NetworkConfig `yaml:"testnet"`
}

// NetworkConfig defines one toncenter backend.
type NetworkConfig struct {
	API    string `yaml:"api"`
	APIKey string `yaml:"api_key"`
	// RatePerSecond limits balance queries. Zero picks a default based
	// on whether an API key is set.
	RatePerSecond float64 `yaml:"rate_per_second"`
}

// DiscoveryConfig defines contract version probing settings.
type DiscoveryConfig struct {
	Parallel bool `yaml:"parallel"`
	Workers  int  `yaml:"workers"`
}

// RetryConfig defines retry settings for network calls.
type RetryConfig struct {
	MaxAttempts int `yaml:"max_attempts"`
	BaseDelayMs int `yaml:"base_delay_ms"`
	MaxDelayMs  int `yaml:"max_delay_ms"`
}

// EncryptionConfig defines mnemonic encryption settings.
type EncryptionConfig struct {
	// WorkFactor is the scrypt work factor (log2 N) for new ciphertexts.
	WorkFactor int `yaml:"work_factor"`
}

// StorageConfig defines account storage settings.
type StorageConfig struct {
	Backend string `yaml:"backend"`
}

// OutputConfig defines output formatting settings.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Verbose       bool   `yaml:"verbose"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads configuration from the specified file.
func Load(path string) (*Config, error) {
	// #nosec G304 -- config file path is from validated user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault reads path, returning defaults when the file is missing.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if os.IsNotExist(err) {
		return Defaults(), nil
	}
	return cfg, err
}

// Save writes configuration to the specified file.
func Save(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

// Path returns the default config file path.
func Path(home string) string {
	return filepath.Join(home, "config.yaml")
}

// GetHome returns the home directory with a leading ~ expanded.
func (c *Config) GetHome() string {
	return ExpandHome(c.Home)
}

// GetNetwork returns the selected network.
func (c *Config) GetNetwork() chain.Network {
	return chain.Network(strings.ToLower(c.Network))
}

// NetworkSettings returns the backend settings for n.
func (c *Config) NetworkSettings(n chain.Network) NetworkConfig {
	nc := c.Networks.Mainnet
	if n == chain.Testnet {
		nc = c.Networks.Testnet
	}
	if nc.API == "" {
		nc.API = n.DefaultAPI()
	}
	return nc
}

// GetRetry returns the retry policy for network calls.
func (c *Config) GetRetry() chain.RetryConfig {
	return chain.RetryConfig{
		MaxAttempts: c.Retry.MaxAttempts,
		BaseDelay:   time.Duration(c.Retry.BaseDelayMs) * time.Millisecond,
		MaxDelay:    time.Duration(c.Retry.MaxDelayMs) * time.Millisecond,
	}
}

// GetDiscovery returns the version probing settings.
func (c *Config) GetDiscovery() DiscoveryConfig {
	return c.Discovery
}

// GetWorkFactor returns the scrypt work factor for new ciphertexts.
func (c *Config) GetWorkFactor() int {
	return c.Encryption.WorkFactor
}

// GetStorageBackend returns the account store backend.
func (c *Config) GetStorageBackend() string {
	return c.Storage.Backend
}

// GetLoggingLevel returns the configured logging level.
func (c *Config) GetLoggingLevel() string {
	return c.Logging.Level
}

// GetLoggingFile returns the configured log file path.
func (c *Config) GetLoggingFile() string {
	return ExpandHome(c.Logging.File)
}

// GetOutputFormat returns the default output format.
func (c *Config) GetOutputFormat() string {
	return c.Output.DefaultFormat
}

// IsVerbose returns true if verbose output is enabled.
func (c *Config) IsVerbose() bool {
	return c.Output.Verbose
}

// DefaultHome returns the default tonsigil home directory.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tonsigil"
	}
	return filepath.Join(home, ".tonsigil")
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	return path
}
