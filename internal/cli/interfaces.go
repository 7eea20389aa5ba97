package cli

import (
	"io"

	"github.com/mrz1836/tonsigil/internal/account"
	"github.com/mrz1836/tonsigil/internal/chain"
	"github.com/mrz1836/tonsigil/internal/config"
	"github.com/mrz1836/tonsigil/internal/output"
)

// Compile-time interface checks.
var (
	_ ConfigProvider   = (*config.Config)(nil)
	_ LogWriter        = (*config.Logger)(nil)
	_ account.DBLogger = (*config.Logger)(nil)
	_ FormatProvider   = (*output.Formatter)(nil)
)

// ConfigProvider provides read access to configuration values.
// This interface enables mocking configuration in tests.
type ConfigProvider interface {
	// GetHome returns the tonsigil home directory path.
	GetHome() string

	// GetNetwork returns the selected network.
	GetNetwork() chain.Network

	// NetworkSettings returns the toncenter backend for a network.
	NetworkSettings(n chain.Network) config.NetworkConfig

	// GetRetry returns the retry policy for balance queries.
	GetRetry() chain.RetryConfig

	// GetDiscovery returns the version probing settings.
	GetDiscovery() config.DiscoveryConfig

	// GetWorkFactor returns the scrypt work factor.
	GetWorkFactor() int

	// GetStorageBackend returns the account store backend.
	GetStorageBackend() string

	// GetLoggingLevel returns the configured logging level.
	GetLoggingLevel() string

	// GetLoggingFile returns the configured log file path.
	GetLoggingFile() string

	// GetOutputFormat returns the default output format.
	GetOutputFormat() string

	// IsVerbose returns true if verbose output is enabled.
	IsVerbose() bool
}

// LogWriter provides logging capabilities.
// This interface enables mocking logging in tests.
type LogWriter interface {
	// Debug logs a debug-level message.
	Debug(format string, args ...any)

	// Error logs an error-level message.
	Error(format string, args ...any)

	// Close closes the logger and releases resources.
	Close() error
}

// FormatProvider renders command results.
type FormatProvider interface {
	// Format returns the current output format.
	Format() output.Format

	// Emit writes v as JSON, or calls text in text mode.
	Emit(v any, text func(w io.Writer) error) error
}
