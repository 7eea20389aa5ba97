package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/mrz1836/go-sanitize"
)

// Environment variable names.
const (
	EnvHome            = "TONSIGIL_HOME"
	EnvNetwork         = "TONSIGIL_NETWORK"
	EnvMainnetAPI      = "TONSIGIL_TONCENTER_MAINNET"
	EnvTestnetAPI      = "TONSIGIL_TONCENTER_TESTNET"
	EnvAPIKey          = "TONSIGIL_API_KEY" // #nosec G101 -- false positive, this is a const name not a credential
	EnvLogLevel        = "TONSIGIL_LOG_LEVEL"
	EnvOutputFormat    = "TONSIGIL_OUTPUT_FORMAT"
	EnvStorageBackend  = "TONSIGIL_STORAGE_BACKEND"
	EnvVerbose         = "TONSIGIL_VERBOSE"
	EnvPassword        = "TONSIGIL_PASSWORD" // #nosec G101 -- false positive, this is a const name not a credential
	EnvParallelProbing = "TONSIGIL_PARALLEL_DISCOVERY"
)

// envOverrides mirrors the variables above. Empty strings and nil
// booleans mean unset. Tags carry the full name since envconfig falls back
// to the bare tag (HOME) when a prefixed key is missing.
type envOverrides struct {
	Home           string `envconfig:"TONSIGIL_HOME"`
	Network        string `envconfig:"TONSIGIL_NETWORK"`
	MainnetAPI     string `envconfig:"TONSIGIL_TONCENTER_MAINNET"`
	TestnetAPI     string `envconfig:"TONSIGIL_TONCENTER_TESTNET"`
	LogLevel       string `envconfig:"TONSIGIL_LOG_LEVEL"`
	OutputFormat   string `envconfig:"TONSIGIL_OUTPUT_FORMAT"`
	StorageBackend string `envconfig:"TONSIGIL_STORAGE_BACKEND"`
	Verbose        *bool  `envconfig:"TONSIGIL_VERBOSE"`
	Parallel       *bool  `envconfig:"TONSIGIL_PARALLEL_DISCOVERY"`
}

type apiKeyOverride struct {
	APIKey string `envconfig:"TONSIGIL_API_KEY"`
}

// LoadDotEnv loads the given .env files into the process environment.
// Missing files are skipped and variables already set win.
func LoadDotEnv(paths ...string) error {
	existing := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// ApplyEnvironment applies environment variable overrides to the
// configuration. The API key is left to ApplyAPIKey, which needs the final
// network choice.
//
//nolint:gocognit,gocyclo // Environment variable overrides require sequential checks
func ApplyEnvironment(cfg *Config) error {
	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return err
	}

	if env.Home != "" {
		cfg.Home = env.Home
	}
	if env.Network != "" {
		cfg.Network = strings.ToLower(env.Network)
	}
	if env.MainnetAPI != "" {
		cfg.Networks.Mainnet.API = SanitizeURL(env.MainnetAPI)
	}
	if env.TestnetAPI != "" {
		cfg.Networks.Testnet.API = SanitizeURL(env.TestnetAPI)
	}

	if env.LogLevel != "" {
		cfg.Logging.Level = strings.ToLower(env.LogLevel)
	}
	if env.OutputFormat != "" {
		cfg.Output.DefaultFormat = strings.ToLower(env.OutputFormat)
	}
	if env.StorageBackend != "" {
		cfg.Storage.Backend = strings.ToLower(env.StorageBackend)
	}
	if env.Verbose != nil {
		cfg.Output.Verbose = *env.Verbose
	}
	if env.Parallel != nil {
		cfg.Discovery.Parallel = *env.Parallel
	}
	return nil
}

// ApplyAPIKey hands TONSIGIL_API_KEY to the network cfg selects. Run it
// after every other source of the network choice has been applied.
func ApplyAPIKey(cfg *Config) error {
	var env apiKeyOverride
	if err := envconfig.Process("", &env); err != nil {
		return err
	}
	if env.APIKey == "" {
		return nil
	}
	if strings.EqualFold(cfg.Network, "testnet") {
		cfg.Networks.Testnet.APIKey = env.APIKey
	} else {
		cfg.Networks.Mainnet.APIKey = env.APIKey
	}
	return nil
}

// SanitizeURL cleans a URL string by removing invalid characters and trimming whitespace.
// This is useful for cleaning user-provided endpoints that may contain copy-paste artifacts.
func SanitizeURL(url string) string {
	return sanitize.URL(strings.TrimSpace(url))
}
