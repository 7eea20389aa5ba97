// Package chain provides TON network identifiers, the balance reader
// interface and shared network utilities (retry, rate limiting, amounts).
package chain

import (
	"context"
	"math/big"
	"strings"

	sigilerr "github.com/mrz1836/tonsigil/pkg/errors"
)

// Network identifies a TON network. Account state is kept per network.
type Network string

// Supported networks.
const (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
)

// Default toncenter endpoints.
const (
	DefaultMainnetAPI = "https://toncenter.com"
	DefaultTestnetAPI = "https://testnet.toncenter.com"
)

// String returns the network identifier string.
func (n Network) String() string {
	return string(n)
}

// IsValid returns true if the network is known.
func (n Network) IsValid() bool {
	switch n {
	case Mainnet, Testnet:
		return true
	default:
		return false
	}
}

// DefaultAPI returns the default toncenter base URL for the network.
func (n Network) DefaultAPI() string {
	switch n {
	case Mainnet:
		return DefaultMainnetAPI
	case Testnet:
		return DefaultTestnetAPI
	default:
		return ""
	}
}

// ParseNetwork parses a network name, case-insensitively.
func ParseNetwork(s string) (Network, error) {
	n := Network(strings.ToLower(strings.TrimSpace(s)))
	if !n.IsValid() {
		return "", sigilerr.WithDetails(sigilerr.ErrUnknownNetwork, map[string]string{"network": s})
	}
	return n, nil
}

// Networks returns all supported networks.
func Networks() []Network {
	return []Network{Mainnet, Testnet}
}

// BalanceReader provides balance querying capabilities.
type BalanceReader interface {
	// GetBalance returns the balance of address in nanotons.
	// A zero balance means the address is unused or drained.
	GetBalance(ctx context.Context, address string) (*big.Int, error)
}
