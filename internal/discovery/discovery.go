// Package discovery resolves which wallet contract version an existing
// key was used with by probing each version's address for a balance.
package discovery

import (
	"math/big"

	"github.com/tonkeeper/tongo/ton"

	"github.com/mrz1836/tonsigil/internal/contract"
)

// DefaultParallelWorkers bounds concurrent balance queries.
const DefaultParallelWorkers = 3

// Options configures a Prober.
type Options struct {
	// Parallel probes all versions concurrently.
	Parallel bool

	// Workers bounds concurrent queries in parallel mode.
	Workers int

	// Versions overrides the probing order. Defaults to contract.Known().
	Versions []contract.Version

	// Fallback is used when no version holds a balance. Defaults to
	// contract.Latest.
	Fallback contract.Version

	// Progress, when set, is called after each version is probed.
	Progress func(ProgressUpdate)
}

// DefaultOptions returns sequential probing over every known version.
func DefaultOptions() *Options {
	return &Options{
		Workers:  DefaultParallelWorkers,
		Versions: contract.Known(),
		Fallback: contract.Latest,
	}
}

// ProgressUpdate reports one probed version.
type ProgressUpdate struct {
	Version contract.Version
	Address string
	Balance *big.Int
	Err     error
}

// Resolution is the outcome of probing.
type Resolution struct {
	Version contract.Version
	Address ton.AccountID
	// Balance is the balance found, zero for a fallback.
	Balance *big.Int
	// Matched is false when no version held a balance and Version is the
	// fallback. An empty wallet drained under an old version looks the
	// same as one never used.
	Matched bool
}

// FriendlyAddress renders the resolved address the way wallet records
// store it.
func (r *Resolution) FriendlyAddress() string {
	return contract.FormatAddress(r.Address, true, false)
}
