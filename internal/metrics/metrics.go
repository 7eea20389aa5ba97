// Package metrics provides in-process counters for balance queries,
// version probes and wallet provisioning.
package metrics

import (
	"sync/atomic"
	"time"
)

// Metrics holds application counters. All methods are safe for
// concurrent use.
type Metrics struct {
	rpcCallsTotal   atomic.Int64
	rpcErrorsTotal  atomic.Int64
	rpcRetries      atomic.Int64
	rpcLatencyNanos atomic.Int64

	mainnetCalls atomic.Int64
	testnetCalls atomic.Int64

	probesTotal   atomic.Int64
	probeMatches  atomic.Int64
	probeFallback atomic.Int64

	walletOpsTotal  atomic.Int64
	walletOpsErrors atomic.Int64
}

// Global is the process-wide metrics instance.
//
//nolint:gochecknoglobals // Intentional global for metrics access
var Global = &Metrics{}

// RecordRPCCall records one balance request against a network.
func (m *Metrics) RecordRPCCall(network string, duration time.Duration, err error) {
	m.rpcCallsTotal.Add(1)
	m.rpcLatencyNanos.Add(duration.Nanoseconds())
	if err != nil {
		m.rpcErrorsTotal.Add(1)
	}

	switch network {
	case "mainnet":
		m.mainnetCalls.Add(1)
	case "testnet":
		m.testnetCalls.Add(1)
	}
}

// RecordRetry records a retried request.
func (m *Metrics) RecordRetry() {
	m.rpcRetries.Add(1)
}

// RecordProbe records a finished version resolution.
func (m *Metrics) RecordProbe(matched bool) {
	m.probesTotal.Add(1)
	if matched {
		m.probeMatches.Add(1)
	} else {
		m.probeFallback.Add(1)
	}
}

// RecordWalletOp records a create or import.
func (m *Metrics) RecordWalletOp(err error) {
	m.walletOpsTotal.Add(1)
	if err != nil {
		m.walletOpsErrors.Add(1)
	}
}

// Snapshot is a point-in-time copy of all counters.
type Snapshot struct {
	RPCCallsTotal   int64 `json:"rpc_calls_total"`
	RPCErrorsTotal  int64 `json:"rpc_errors_total"`
	RPCRetries      int64 `json:"rpc_retries"`
	RPCLatencyNanos int64 `json:"rpc_latency_nanos"`
	MainnetCalls    int64 `json:"mainnet_calls"`
	TestnetCalls    int64 `json:"testnet_calls"`
	ProbesTotal     int64 `json:"probes_total"`
	ProbeMatches    int64 `json:"probe_matches"`
	ProbeFallbacks  int64 `json:"probe_fallbacks"`
	WalletOpsTotal  int64 `json:"wallet_ops_total"`
	WalletOpsErrors int64 `json:"wallet_ops_errors"`
}

// Snapshot returns a point-in-time copy of all counters.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		RPCCallsTotal:   m.rpcCallsTotal.Load(),
		RPCErrorsTotal:  m.rpcErrorsTotal.Load(),
		RPCRetries:      m.rpcRetries.Load(),
		RPCLatencyNanos: m.rpcLatencyNanos.Load(),
		MainnetCalls:    m.mainnetCalls.Load(),
		TestnetCalls:    m.testnetCalls.Load(),
		ProbesTotal:     m.probesTotal.Load(),
		ProbeMatches:    m.probeMatches.Load(),
		ProbeFallbacks:  m.probeFallback.Load(),
		WalletOpsTotal:  m.walletOpsTotal.Load(),
		WalletOpsErrors: m.walletOpsErrors.Load(),
	}
}

// RPCLatencyAvgMs returns the average request latency in milliseconds,
// or 0 if no calls have been made.
func (m *Metrics) RPCLatencyAvgMs() float64 {
	calls := m.rpcCallsTotal.Load()
	if calls == 0 {
		return 0
	}
	return float64(m.rpcLatencyNanos.Load()) / float64(calls) / 1e6
}

// Reset zeroes every counter.
func (m *Metrics) Reset() {
	m.rpcCallsTotal.Store(0)
	m.rpcErrorsTotal.Store(0)
	m.rpcRetries.Store(0)
	m.rpcLatencyNanos.Store(0)
	m.mainnetCalls.Store(0)
	m.testnetCalls.Store(0)
	m.probesTotal.Store(0)
	m.probeMatches.Store(0)
	m.probeFallback.Store(0)
	m.walletOpsTotal.Store(0)
	m.walletOpsErrors.Store(0)
}
