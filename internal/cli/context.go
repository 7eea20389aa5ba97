package cli

import (
	"context"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/tonsigil/internal/account"
	"github.com/mrz1836/tonsigil/internal/chain"
	"github.com/mrz1836/tonsigil/internal/chain/toncenter"
	"github.com/mrz1836/tonsigil/internal/config"
	"github.com/mrz1836/tonsigil/internal/crypto"
	"github.com/mrz1836/tonsigil/internal/discovery"
	"github.com/mrz1836/tonsigil/internal/output"
	accountsvc "github.com/mrz1836/tonsigil/internal/service/account"
	walletsvc "github.com/mrz1836/tonsigil/internal/service/wallet"
)

// commandTimeout bounds a single command, including every balance query
// made while probing contract versions.
const commandTimeout = 2 * time.Minute

type cmdContextKey struct{}

// CommandContext holds dependencies for CLI commands.
type CommandContext struct {
	Cfg ConfigProvider
	Log LogWriter
	Fmt FormatProvider
}

// NewCommandContext creates a context with the given dependencies.
func NewCommandContext(cfg ConfigProvider, log LogWriter, fmtr FormatProvider) *CommandContext {
	return &CommandContext{Cfg: cfg, Log: log, Fmt: fmtr}
}

// SetCmdContext attaches cc to the command so RunE can retrieve it.
func SetCmdContext(cmd *cobra.Command, cc *CommandContext) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	cmd.SetContext(context.WithValue(parent, cmdContextKey{}, cc))
}

// GetCmdContext returns the command's context, falling back to the one
// built by initGlobals.
func GetCmdContext(cmd *cobra.Command) *CommandContext {
	if cmd != nil && cmd.Context() != nil {
		if cc, ok := cmd.Context().Value(cmdContextKey{}).(*CommandContext); ok {
			return cc
		}
	}
	return cmdCtx
}

// newBalanceReaderFn builds the balance backend for a network. Tests
// replace it to avoid network access.
//
//nolint:gochecknoglobals // test seam
var newBalanceReaderFn = func(network chain.Network, nc config.NetworkConfig, retry chain.RetryConfig, log LogWriter) (chain.BalanceReader, error) {
	var limiter *chain.RateLimiter
	if nc.RatePerSecond > 0 {
		limiter = chain.NewRateLimiter(nc.RatePerSecond, chain.DefaultBurst)
	}
	return toncenter.NewClient(network, &toncenter.ClientOptions{
		BaseURL:     nc.API,
		APIKey:      nc.APIKey,
		RateLimiter: limiter,
		Retry:       &retry,
		Logger:      log,
	})
}

// session wires the services for one network.
type session struct {
	network  chain.Network
	store    account.Store
	balances chain.BalanceReader
	accounts *accountsvc.Service
}

// Close releases the account store.
func (s *session) Close() {
	_ = s.store.Close()
}

// openSession opens the account store and builds the provisioning
// services for the configured network. Probe progress goes to progress
// when verbose output is enabled.
func (c *CommandContext) openSession(progress io.Writer) (*session, error) {
	network := c.Cfg.GetNetwork()

	balances, err := newBalanceReaderFn(network, c.Cfg.NetworkSettings(network), c.Cfg.GetRetry(), c.Log)
	if err != nil {
		return nil, err
	}

	sealer, err := crypto.NewSealer(c.Cfg.GetWorkFactor())
	if err != nil {
		return nil, err
	}

	dbLog, _ := c.Log.(account.DBLogger)
	store, err := account.Open(c.Cfg.GetStorageBackend(), c.Cfg.GetHome(), dbLog)
	if err != nil {
		return nil, err
	}

	prober := discovery.NewProber(balances, c.proberOptions(progress))
	wallets := walletsvc.NewService(&walletsvc.Config{
		Sealer: sealer,
		Prober: prober,
		Logger: c.Log,
	})

	return &session{
		network:  network,
		store:    store,
		balances: balances,
		accounts: accountsvc.NewService(&accountsvc.Config{
			Store:       store,
			Provisioner: wallets,
			Password: func(prompt string) (string, error) {
				return promptNewPasswordFn(prompt)
			},
			Logger: c.Log,
		}),
	}, nil
}

func (c *CommandContext) proberOptions(progress io.Writer) *discovery.Options {
	dc := c.Cfg.GetDiscovery()
	opts := discovery.DefaultOptions()
	opts.Parallel = dc.Parallel
	if dc.Workers > 0 {
		opts.Workers = dc.Workers
	}
	if progress != nil && c.Cfg.IsVerbose() {
		opts.Progress = func(u discovery.ProgressUpdate) {
			if u.Err != nil {
				output.Warn(progress, "%s %s: %v", u.Version, u.Address, u.Err)
				return
			}
			output.Info(progress, "%s %s: %s TON", u.Version, u.Address, chain.FormatTON(u.Balance))
		}
	}
	return opts
}

// contextWithTimeout derives the deadline for one command.
func contextWithTimeout(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, commandTimeout)
}
