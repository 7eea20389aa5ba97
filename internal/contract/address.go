package contract

import (
	"crypto/ed25519"
	"fmt"

	"github.com/tonkeeper/tongo/ton"
	"github.com/tonkeeper/tongo/wallet"

	sigilerr "github.com/mrz1836/tonsigil/pkg/errors"
)

// Workchain is the basechain every wallet here lives on.
const Workchain = 0

// addressFunc computes a contract address for a public key on a workchain.
type addressFunc func(pub ed25519.PublicKey, workchain int) (ton.AccountID, error)

//nolint:gochecknoglobals // immutable dispatch table
var addressFuncs = map[Version]addressFunc{
	V1R1: stateInit(wallet.V1R1),
	V1R2: stateInit(wallet.V1R2),
	V1R3: stateInit(wallet.V1R3),
	V2R1: stateInit(wallet.V2R1),
	V2R2: stateInit(wallet.V2R2),
	V3R1: stateInit(wallet.V3R1),
	V3R2: stateInit(wallet.V3R2),
	V4R1: stateInit(wallet.V4R1),
	V4R2: stateInit(wallet.V4R2),
}

// stateInit hashes the version's code and initial data with the default
// subwallet id.
func stateInit(ver wallet.Version) addressFunc {
	return func(pub ed25519.PublicKey, workchain int) (ton.AccountID, error) {
		return wallet.GenerateWalletAddress(pub, ver, nil, workchain, nil)
	}
}

// Address computes the basechain address of version v for pub.
func Address(pub ed25519.PublicKey, v Version) (ton.AccountID, error) {
	if len(pub) != ed25519.PublicKeySize {
		return ton.AccountID{}, sigilerr.WithDetails(sigilerr.ErrInvalidInput, map[string]string{
			"public_key_length": fmt.Sprintf("%d", len(pub)),
		})
	}

	fn, ok := addressFuncs[v]
	if !ok {
		return ton.AccountID{}, sigilerr.WithDetails(sigilerr.ErrUnknownVersion, map[string]string{
			"version": fmt.Sprintf("%d", int(v)),
		})
	}

	id, err := fn(pub, Workchain)
	if err != nil {
		return ton.AccountID{}, sigilerr.Wrap(err, "computing %s address", v)
	}
	return id, nil
}

// FormatAddress renders id in user-friendly URL-safe base64.
func FormatAddress(id ton.AccountID, bounceable, testnet bool) string {
	return id.ToHuman(bounceable, testnet)
}

// RawAddress renders id as "workchain:hex".
func RawAddress(id ton.AccountID) string {
	return id.ToRaw()
}

// ParseAddress accepts raw or user-friendly address forms.
func ParseAddress(s string) (ton.AccountID, error) {
	id, err := ton.ParseAccountID(s)
	if err != nil {
		return ton.AccountID{}, sigilerr.WithDetails(sigilerr.ErrInvalidAddress, map[string]string{"address": s})
	}
	return id, nil
}

// SameAddress reports whether a and b name the same account, ignoring
// the encoding flags.
func SameAddress(a, b string) bool {
	if a == b {
		return true
	}
	ida, err := ParseAddress(a)
	if err != nil {
		return false
	}
	idb, err := ParseAddress(b)
	if err != nil {
		return false
	}
	return ida == idb
}
