package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/mrz1836/tonsigil/internal/account"
	"github.com/mrz1836/tonsigil/internal/chain"
	"github.com/mrz1836/tonsigil/internal/crypto"
	sigilerr "github.com/mrz1836/tonsigil/pkg/errors"
)

var (
	// ErrInsecureAPIURL is returned for plain-http endpoints off the local host.
	ErrInsecureAPIURL = errors.New("api url must use https unless it points at localhost")

	// ErrUnsupportedScheme is returned for schemes other than http(s).
	ErrUnsupportedScheme = errors.New("unsupported api url scheme")
)

// ValidateAPIURL checks a toncenter endpoint. Empty means "use default".
func ValidateAPIURL(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid api url: %w", err)
	}
	switch u.Scheme {
	case "https":
		if u.Host == "" {
			return fmt.Errorf("invalid api url %q: missing host", raw)
		}
		return nil
	case "http":
		if isLoopback(u.Hostname()) {
			return nil
		}
		return ErrInsecureAPIURL
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
}

func isLoopback(host string) bool {
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// Validate rejects settings the rest of the program cannot honor.
func (c *Config) Validate() error {
	if _, err := chain.ParseNetwork(c.Network); err != nil {
		return invalid("network", c.Network)
	}
	for name, nc := range map[string]NetworkConfig{"mainnet": c.Networks.Mainnet, "testnet": c.Networks.Testnet} {
		if err := ValidateAPIURL(nc.API); err != nil {
			return sigilerr.WithCause(sigilerr.ErrConfigInvalid, fmt.Errorf("networks.%s.api: %w", name, err))
		}
		if nc.RatePerSecond < 0 {
			return invalid("networks."+name+".rate_per_second", strconv.FormatFloat(nc.RatePerSecond, 'f', -1, 64))
		}
	}

	switch {
	case c.Discovery.Workers < 1:
		return invalid("discovery.workers", strconv.Itoa(c.Discovery.Workers))
	case c.Retry.MaxAttempts < 1:
		return invalid("retry.max_attempts", strconv.Itoa(c.Retry.MaxAttempts))
	case c.Retry.BaseDelayMs < 0:
		return invalid("retry.base_delay_ms", strconv.Itoa(c.Retry.BaseDelayMs))
	case c.Retry.MaxDelayMs < c.Retry.BaseDelayMs:
		return invalid("retry.max_delay_ms", strconv.Itoa(c.Retry.MaxDelayMs))
	case c.Encryption.WorkFactor < crypto.MinWorkFactor || c.Encryption.WorkFactor > crypto.MaxWorkFactor:
		return invalid("encryption.work_factor", strconv.Itoa(c.Encryption.WorkFactor))
	}

	switch c.Storage.Backend {
	case account.BackendFile, account.BackendBadger:
	default:
		return invalid("storage.backend", c.Storage.Backend)
	}

	switch c.Output.DefaultFormat {
	case "auto", "text", "json":
	default:
		return invalid("output.default_format", c.Output.DefaultFormat)
	}

	if _, ok := parseLogLevel(c.Logging.Level); !ok {
		return invalid("logging.level", c.Logging.Level)
	}
	return nil
}

func invalid(key, value string) error {
	return sigilerr.WithDetails(sigilerr.ErrConfigInvalid, map[string]string{key: value})
}
