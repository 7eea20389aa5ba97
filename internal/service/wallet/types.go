package wallet

import (
	"math/big"

	"github.com/mrz1836/tonsigil/internal/account"
)

// Result is a provisioned wallet record, not yet persisted.
type Result struct {
	Record account.WalletRecord

	// Balance is the balance found while probing. Nil for created wallets.
	Balance *big.Int

	// Matched reports whether probing found a funded version. Always
	// false for created wallets.
	Matched bool
}
