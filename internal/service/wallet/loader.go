package wallet

import (
	"context"
	"crypto/subtle"

	"github.com/mrz1836/tonsigil/internal/account"
	"github.com/mrz1836/tonsigil/internal/mnemonic"
	sigilerr "github.com/mrz1836/tonsigil/pkg/errors"
)

// OpenRecord decrypts the record's mnemonic and checks that it still
// derives the stored public key.
// Caller should discard the returned words as soon as possible.
func (s *Service) OpenRecord(ctx context.Context, rec *account.WalletRecord, password string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	secret, err := s.sealer.DecryptSecure(rec.Mnemonic, password)
	if err != nil {
		return nil, err
	}
	words := secret.Words()
	secret.Destroy()

	kp, err := mnemonic.DeriveKeyPair(words)
	if err != nil {
		return nil, sigilerr.WithCause(sigilerr.ErrAccountStateInvalid, err)
	}
	defer kp.Zero()

	stored, err := rec.PublicKeyBytes()
	if err != nil {
		return nil, err
	}
	if subtle.ConstantTimeCompare(stored, kp.PublicKey) != 1 {
		s.logError("stored key mismatch for %s", rec.Address)
		return nil, sigilerr.WithDetails(sigilerr.ErrAccountStateInvalid, map[string]string{"address": rec.Address})
	}
	return words, nil
}
