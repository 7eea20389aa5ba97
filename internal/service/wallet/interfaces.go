// Package wallet provisions wallet records from a mnemonic: it encrypts
// the phrase, derives the keypair and settles the contract version.
package wallet

import (
	"context"
	"crypto/ed25519"

	"github.com/mrz1836/tonsigil/internal/crypto"
	"github.com/mrz1836/tonsigil/internal/discovery"
)

// Encrypter seals mnemonic phrases and opens them into locked memory.
type Encrypter interface {
	Encrypt(phrase, password string) (string, error)
	DecryptSecure(ciphertext, password string) (*crypto.Secret, error)
}

// VersionResolver determines the contract version of an existing key.
type VersionResolver interface {
	Resolve(ctx context.Context, pub ed25519.PublicKey) (*discovery.Resolution, error)
}

// LogWriter provides logging capabilities.
type LogWriter interface {
	Debug(format string, args ...interface{})
	Error(format string, args ...interface{})
}
