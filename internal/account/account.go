// Package account models the per-network account document (wallet
// records plus the active wallet) and persists it.
package account

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/mrz1836/tonsigil/internal/contract"
	sigilerr "github.com/mrz1836/tonsigil/pkg/errors"
)

// WalletRecord is one provisioned wallet. Address is a pure function of
// PublicKey and Version on workchain 0.
type WalletRecord struct {
	Name         string           `json:"name"`
	Mnemonic     string           `json:"mnemonic"`
	Address      string           `json:"address"`
	PublicKey    string           `json:"publicKey"`
	Version      contract.Version `json:"version"`
	IsBounceable bool             `json:"isBounceable"`
}

// WalletName returns the display label for the wallet at 1-based index.
func WalletName(index int) string {
	return fmt.Sprintf("Account %d", index)
}

// Validate checks field formats. It does not recompute the address.
func (w *WalletRecord) Validate() error {
	switch {
	case strings.TrimSpace(w.Name) == "":
		return invalid("name", "empty")
	case w.Mnemonic == "":
		return invalid("mnemonic", "empty")
	case !w.Version.Valid():
		return invalid("version", w.Version.String())
	}

	if _, err := w.PublicKeyBytes(); err != nil {
		return err
	}
	if _, err := contract.ParseAddress(w.Address); err != nil {
		return err
	}
	return nil
}

// PublicKeyBytes decodes the hex public key.
func (w *WalletRecord) PublicKeyBytes() (ed25519.PublicKey, error) {
	raw, err := hex.DecodeString(w.PublicKey)
	if err != nil || len(raw) != ed25519.PublicKeySize {
		return nil, invalid("publicKey", w.PublicKey)
	}
	return ed25519.PublicKey(raw), nil
}

// VerifyAddress recomputes the address from the public key and version
// and compares it with the stored one.
func (w *WalletRecord) VerifyAddress() error {
	pub, err := w.PublicKeyBytes()
	if err != nil {
		return err
	}
	id, err := contract.Address(pub, w.Version)
	if err != nil {
		return err
	}
	if contract.FormatAddress(id, w.IsBounceable, false) != w.Address {
		return invalid("address", w.Address)
	}
	return nil
}

// State is the account document for one network.
type State struct {
	Wallets      []WalletRecord `json:"wallets"`
	ActiveWallet string         `json:"activeWallet"`
}

// NewState returns an empty account.
func NewState() *State {
	return &State{Wallets: []WalletRecord{}}
}

// Clone returns a deep copy.
func (s *State) Clone() *State {
	out := &State{
		Wallets:      make([]WalletRecord, len(s.Wallets)),
		ActiveWallet: s.ActiveWallet,
	}
	copy(out.Wallets, s.Wallets)
	return out
}

// NextIndex returns the 1-based index for the next wallet.
func (s *State) NextIndex() int {
	return len(s.Wallets) + 1
}

// Find returns the wallet with the given address in any encoding.
func (s *State) Find(address string) (*WalletRecord, bool) {
	for i := range s.Wallets {
		if contract.SameAddress(s.Wallets[i].Address, address) {
			return &s.Wallets[i], true
		}
	}
	return nil, false
}

// Contains reports whether address is already part of the account.
func (s *State) Contains(address string) bool {
	_, ok := s.Find(address)
	return ok
}

// Active returns the active wallet, if any.
func (s *State) Active() (*WalletRecord, bool) {
	if s.ActiveWallet == "" {
		return nil, false
	}
	return s.Find(s.ActiveWallet)
}

// WithWallet returns a copy with w appended and made active. The
// receiver is not modified.
func (s *State) WithWallet(w WalletRecord) (*State, error) {
	if s.Contains(w.Address) {
		return nil, sigilerr.WithDetails(sigilerr.ErrDuplicateWallet, map[string]string{
			"address": w.Address,
		})
	}
	out := s.Clone()
	out.Wallets = append(out.Wallets, w)
	out.ActiveWallet = w.Address
	return out, nil
}

// WithActive returns a copy whose active wallet is address.
func (s *State) WithActive(address string) (*State, error) {
	w, ok := s.Find(address)
	if !ok {
		return nil, sigilerr.WithDetails(sigilerr.ErrWalletNotFound, map[string]string{
			"address": address,
		})
	}
	out := s.Clone()
	out.ActiveWallet = w.Address
	return out, nil
}

// Validate enforces the document invariants: every record is well
// formed, addresses are unique, and the active wallet is one of the
// wallets (or empty when there are none).
func (s *State) Validate() error {
	seen := make(map[string]struct{}, len(s.Wallets))
	for i := range s.Wallets {
		w := &s.Wallets[i]
		if err := w.Validate(); err != nil {
			return sigilerr.Wrap(err, "wallet %d", i+1)
		}
		id, _ := contract.ParseAddress(w.Address)
		key := contract.RawAddress(id)
		if _, dup := seen[key]; dup {
			return sigilerr.WithDetails(sigilerr.ErrDuplicateWallet, map[string]string{"address": w.Address})
		}
		seen[key] = struct{}{}
	}

	if len(s.Wallets) == 0 {
		if s.ActiveWallet != "" {
			return invalid("activeWallet", s.ActiveWallet)
		}
		return nil
	}
	if _, ok := s.Active(); !ok {
		return invalid("activeWallet", s.ActiveWallet)
	}
	return nil
}

func invalid(field, value string) error {
	return sigilerr.WithDetails(sigilerr.ErrAccountStateInvalid, map[string]string{field: value})
}
