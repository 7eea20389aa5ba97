package toncenter

import (
	"context"
	"encoding/json"
	"math/big"
	"net/url"
	"strings"
	"time"

	"github.com/mrz1836/tonsigil/internal/chain"
	"github.com/mrz1836/tonsigil/internal/metrics"
	sigilerr "github.com/mrz1836/tonsigil/pkg/errors"
)

// ErrInvalidBalance indicates a balance result could not be parsed.
var ErrInvalidBalance = &sigilerr.SigilError{
	Code:     "TONCENTER_INVALID_BALANCE",
	Message:  "invalid balance value in toncenter response",
	ExitCode: sigilerr.ExitGeneral,
}

// GetBalance returns the balance of address in nanotons. Transient
// failures are retried; anything left over surfaces as ErrNetworkError.
func (c *Client) GetBalance(ctx context.Context, address string) (*big.Int, error) {
	retry := c.retry
	retry.OnRetry = func(attempt int, err error) {
		metrics.Global.RecordRetry()
		c.debug("toncenter retry %d for %s: %v", attempt, address, err)
	}

	params := url.Values{"address": {address}}
	amount, err := chain.RetryWithConfig(ctx, retry, func() (*big.Int, error) {
		start := time.Now()
		raw, err := c.doRequest(ctx, "getAddressBalance", params)
		metrics.Global.RecordRPCCall(c.network.String(), time.Since(start), err)
		if err != nil {
			return nil, err
		}
		return parseBalance(raw)
	})
	if err == nil {
		return amount, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	c.debug("toncenter balance for %s failed: %v", address, err)
	return nil, sigilerr.WithDetails(sigilerr.WithCause(sigilerr.ErrNetworkError, err), map[string]string{
		"address": address,
		"network": c.network.String(),
	})
}

// parseBalance accepts the result as a JSON string or number.
func parseBalance(raw json.RawMessage) (*big.Int, error) {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	amount, ok := new(big.Int).SetString(s, 10)
	if !ok || amount.Sign() < 0 {
		return nil, sigilerr.WithDetails(ErrInvalidBalance, map[string]string{
			"result": truncateBody(s, 64),
		})
	}
	return amount, nil
}

// Compile-time interface check
var _ chain.BalanceReader = (*Client)(nil)
