package config

import (
	"github.com/mrz1836/tonsigil/internal/account"
	"github.com/mrz1836/tonsigil/internal/chain"
	"github.com/mrz1836/tonsigil/internal/crypto"
	"github.com/mrz1836/tonsigil/internal/discovery"
)

// Defaults returns the default configuration.
func Defaults() *Config {
	return &Config{
		Version: 1,
		Home:    "~/.tonsigil",
		Network: string(chain.Mainnet),
		Networks: NetworksConfig{
			Mainnet: NetworkConfig{API: chain.DefaultMainnetAPI},
			Testnet: NetworkConfig{API: chain.DefaultTestnetAPI},
		},
		Discovery: DiscoveryConfig{
			Parallel: false,
			Workers:  discovery.DefaultParallelWorkers,
		},
		Retry: RetryConfig{
			MaxAttempts: 4,
			BaseDelayMs: 1000,
			MaxDelayMs:  4000,
		},
		Encryption: EncryptionConfig{
			WorkFactor: crypto.DefaultWorkFactor,
		},
		Storage: StorageConfig{
			Backend: account.BackendFile,
		},
		Output: OutputConfig{
			DefaultFormat: "auto",
			Verbose:       false,
		},
		Logging: LoggingConfig{
			Level: "error",
			File:  "~/.tonsigil/tonsigil.log",
		},
	}
}
