package discovery

import (
	"context"
	"math/big"
	"sync"

	"golang.org/x/sync/errgroup"
)

// resolveParallel queries every candidate concurrently and then walks
// the results in candidate order, so the outcome matches the sequential
// walk regardless of which response arrives first.
func (p *Prober) resolveParallel(ctx context.Context, candidates []candidate) (*Resolution, error) {
	balances := make([]*big.Int, len(candidates))
	errs := make([]error, len(candidates))

	var report func(ProgressUpdate)
	if p.opts.Progress != nil {
		var mu sync.Mutex
		report = func(u ProgressUpdate) {
			mu.Lock()
			defer mu.Unlock()
			p.opts.Progress(u)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)

	for i, c := range candidates {
		g.Go(func() error {
			balances[i], errs[i] = p.probe(gctx, c, report)
			// Only cancellation stops the group. Balance errors are
			// judged in candidate order below.
			return gctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, c := range candidates {
		if errs[i] != nil {
			return nil, errs[i]
		}
		if balances[i].Sign() > 0 {
			return &Resolution{Version: c.version, Address: c.id, Balance: balances[i], Matched: true}, nil
		}
	}
	return nil, nil //nolint:nilnil // no match is not an error
}
