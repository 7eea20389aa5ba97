package wallet

import (
	"context"
	"strconv"
	"strings"

	"github.com/mrz1836/tonsigil/internal/account"
	"github.com/mrz1836/tonsigil/internal/contract"
	"github.com/mrz1836/tonsigil/internal/mnemonic"
	sigilerr "github.com/mrz1836/tonsigil/pkg/errors"
)

// Service builds wallet records. It never persists anything.
type Service struct {
	sealer Encrypter
	prober VersionResolver
	logger LogWriter
}

// Config contains dependencies for creating a wallet service.
type Config struct {
	Sealer Encrypter
	Prober VersionResolver
	Logger LogWriter
}

// NewService creates a new wallet service instance.
func NewService(cfg *Config) *Service {
	return &Service{
		sealer: cfg.Sealer,
		prober: cfg.Prober,
		logger: cfg.Logger,
	}
}

// CreateWallet provisions a freshly generated phrase. New wallets always
// use the latest contract version.
func (s *Service) CreateWallet(ctx context.Context, phrase, password string, index int) (*Result, error) {
	if err := checkIndex(index); err != nil {
		return nil, err
	}
	words := strings.Fields(phrase)

	sealed, kp, err := s.sealAndDerive(ctx, words, password)
	if err != nil {
		return nil, err
	}
	defer kp.Zero()

	id, err := contract.Address(kp.PublicKey, contract.Latest)
	if err != nil {
		return nil, err
	}

	s.debug("created wallet %d with %s", index, contract.Latest)
	return &Result{
		Record: newRecord(index, sealed, contract.FormatAddress(id, true, false), kp.PublicKeyHex(), contract.Latest),
	}, nil
}

// ImportWallet provisions an existing phrase. The phrase is validated
// before anything else runs, then the prober picks the contract version.
func (s *Service) ImportWallet(ctx context.Context, words []string, password string, index int) (*Result, error) {
	if err := mnemonic.Validate(words); err != nil {
		return nil, err
	}
	if err := checkIndex(index); err != nil {
		return nil, err
	}

	sealed, kp, err := s.sealAndDerive(ctx, words, password)
	if err != nil {
		return nil, err
	}
	defer kp.Zero()

	res, err := s.prober.Resolve(ctx, kp.PublicKey)
	if err != nil {
		s.logError("probing versions for wallet %d: %v", index, err)
		return nil, err
	}

	s.debug("imported wallet %d as %s (matched=%t)", index, res.Version, res.Matched)
	return &Result{
		Record:  newRecord(index, sealed, res.FriendlyAddress(), kp.PublicKeyHex(), res.Version),
		Balance: res.Balance,
		Matched: res.Matched,
	}, nil
}

// sealAndDerive encrypts the phrase, then derives the keypair.
func (s *Service) sealAndDerive(ctx context.Context, words []string, password string) (string, mnemonic.KeyPair, error) {
	if err := ctx.Err(); err != nil {
		return "", mnemonic.KeyPair{}, err
	}

	sealed, err := s.sealer.Encrypt(strings.Join(words, " "), password)
	if err != nil {
		s.logError("encrypting mnemonic: %v", err)
		return "", mnemonic.KeyPair{}, err
	}

	kp, err := mnemonic.DeriveKeyPair(words)
	if err != nil {
		return "", mnemonic.KeyPair{}, err
	}
	return sealed, kp, nil
}

func newRecord(index int, sealed, address, publicKey string, version contract.Version) account.WalletRecord {
	return account.WalletRecord{
		Name:         account.WalletName(index),
		Mnemonic:     sealed,
		Address:      address,
		PublicKey:    publicKey,
		Version:      version,
		IsBounceable: true,
	}
}

func checkIndex(index int) error {
	if index < 1 {
		return sigilerr.WithDetails(sigilerr.ErrInvalidInput, map[string]string{"index": strconv.Itoa(index)})
	}
	return nil
}

func (s *Service) debug(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(format, args...)
	}
}

func (s *Service) logError(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Error(format, args...)
	}
}
