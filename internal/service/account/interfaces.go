// Package account orchestrates wallet provisioning against the stored
// per-network account: it asks for the password, rejects duplicates and
// persists the result.
package account

import (
	"context"

	"github.com/mrz1836/tonsigil/internal/account"
	"github.com/mrz1836/tonsigil/internal/service/wallet"
)

// PasswordFunc supplies the password used to seal or open a mnemonic.
// An error or empty result means no password is available.
type PasswordFunc func(prompt string) (string, error)

// Provisioner builds wallet records.
type Provisioner interface {
	CreateWallet(ctx context.Context, phrase, password string, index int) (*wallet.Result, error)
	ImportWallet(ctx context.Context, words []string, password string, index int) (*wallet.Result, error)
	OpenRecord(ctx context.Context, rec *account.WalletRecord, password string) ([]string, error)
}

// LogWriter provides logging capabilities.
type LogWriter interface {
	Debug(format string, args ...interface{})
	Error(format string, args ...interface{})
}
