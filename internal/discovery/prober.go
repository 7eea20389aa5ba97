package discovery

import (
	"context"
	"crypto/ed25519"
	"errors"
	"math/big"

	"github.com/tonkeeper/tongo/ton"

	"github.com/mrz1836/tonsigil/internal/chain"
	"github.com/mrz1836/tonsigil/internal/contract"
	"github.com/mrz1836/tonsigil/internal/metrics"
	sigilerr "github.com/mrz1836/tonsigil/pkg/errors"
)

// Prober finds the first contract version whose address holds a balance.
type Prober struct {
	client chain.BalanceReader
	opts   *Options
}

// NewProber creates a prober. A nil opts uses DefaultOptions.
func NewProber(client chain.BalanceReader, opts *Options) *Prober {
	defaults := DefaultOptions()
	if opts == nil {
		opts = defaults
	}
	o := *opts
	if len(o.Versions) == 0 {
		o.Versions = defaults.Versions
	}
	if !o.Fallback.Valid() {
		o.Fallback = defaults.Fallback
	}
	if o.Workers <= 0 {
		o.Workers = defaults.Workers
	}
	return &Prober{client: client, opts: &o}
}

// candidate is one version with its precomputed address.
type candidate struct {
	version contract.Version
	id      ton.AccountID
}

// Resolve probes versions in order and returns the first one with a
// non-zero balance. Ties go to the earlier version. When nothing matches
// the fallback version's address is returned with Matched=false. A
// balance error aborts without fallback.
func (p *Prober) Resolve(ctx context.Context, pub ed25519.PublicKey) (*Resolution, error) {
	candidates, err := p.candidates(pub)
	if err != nil {
		return nil, err
	}

	var res *Resolution
	if p.opts.Parallel {
		res, err = p.resolveParallel(ctx, candidates)
	} else {
		res, err = p.resolveSequential(ctx, candidates)
	}
	if err != nil {
		return nil, err
	}

	if res == nil {
		id, err := contract.Address(pub, p.opts.Fallback)
		if err != nil {
			return nil, err
		}
		res = &Resolution{Version: p.opts.Fallback, Address: id, Balance: new(big.Int)}
	}

	metrics.Global.RecordProbe(res.Matched)
	return res, nil
}

func (p *Prober) candidates(pub ed25519.PublicKey) ([]candidate, error) {
	out := make([]candidate, 0, len(p.opts.Versions))
	for _, v := range p.opts.Versions {
		id, err := contract.Address(pub, v)
		if err != nil {
			return nil, err
		}
		out = append(out, candidate{version: v, id: id})
	}
	return out, nil
}

func (p *Prober) resolveSequential(ctx context.Context, candidates []candidate) (*Resolution, error) {
	for _, c := range candidates {
		balance, err := p.probe(ctx, c, p.opts.Progress)
		if err != nil {
			return nil, err
		}
		if balance.Sign() > 0 {
			return &Resolution{Version: c.version, Address: c.id, Balance: balance, Matched: true}, nil
		}
	}
	return nil, nil //nolint:nilnil // no match is not an error
}

// probe queries one candidate and reports progress.
func (p *Prober) probe(ctx context.Context, c candidate, report func(ProgressUpdate)) (*big.Int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw := contract.RawAddress(c.id)
	balance, err := p.client.GetBalance(ctx, raw)
	if err == nil && balance == nil {
		balance = new(big.Int)
	}
	if report != nil {
		report(ProgressUpdate{Version: c.version, Address: raw, Balance: balance, Err: err})
	}
	if err != nil {
		return nil, probeError(c, raw, err)
	}
	return balance, nil
}

// probeError tags a balance failure with the version and address, keeping
// context errors as they are.
func probeError(c candidate, raw string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if !errors.Is(err, sigilerr.ErrNetworkError) {
		err = sigilerr.WithCause(sigilerr.ErrNetworkError, err)
	}
	return sigilerr.WithDetails(err, map[string]string{
		"version": c.version.String(),
		"address": raw,
	})
}
