// Package mnemonic implements TON 24-word mnemonics: generation,
// validation and ed25519 keypair derivation.
//
// TON phrases reuse the BIP39 English word list but not the BIP39
// checksum. A phrase is valid when the PBKDF2 "seed version" of its
// entropy starts with a zero byte.
package mnemonic

import (
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha512"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	tonwallet "github.com/tonkeeper/tongo/wallet"
	"github.com/tyler-smith/go-bip39/wordlists"
	"golang.org/x/crypto/pbkdf2"

	sigilerr "github.com/mrz1836/tonsigil/pkg/errors"
)

// WordCount is the only phrase length accepted.
const WordCount = 24

const (
	basicSalt        = "TON seed version"
	basicIterations  = 390
	passwordSalt     = "TON fast seed version"
	passwordIter     = 1
	seedLength       = 64
	wordIndexMask    = 0x7FF
	maxGenerateTries = 1 << 20
)

//nolint:gochecknoglobals // read-only lookup built once from the word list
var wordIndex = buildIndex(wordlists.English)

func buildIndex(list []string) map[string]int {
	idx := make(map[string]int, len(list))
	for i, w := range list {
		idx[w] = i
	}
	return idx
}

// KeyPair is an ed25519 keypair derived from a mnemonic.
type KeyPair struct {
	PublicKey  ed25519.PublicKey
	PrivateKey ed25519.PrivateKey
}

// PublicKeyHex returns the lowercase hex encoding of the public key.
func (k KeyPair) PublicKeyHex() string {
	return hex.EncodeToString(k.PublicKey)
}

// Zero clears the private key bytes.
func (k KeyPair) Zero() {
	for i := range k.PrivateKey {
		k.PrivateKey[i] = 0
	}
}

// WordList returns the word list phrases are drawn from.
func WordList() []string {
	return wordlists.English
}

// IsValidWord reports whether word is in the word list.
func IsValidWord(word string) bool {
	_, ok := wordIndex[strings.ToLower(word)]
	return ok
}

// New generates a fresh phrase from crypto/rand.
func New() ([]string, error) {
	return Generate(rand.Reader)
}

// Generate draws random phrases from r until one is a valid basic seed.
func Generate(r io.Reader) ([]string, error) {
	buf := make([]byte, 2*WordCount)
	list := wordlists.English

	for range maxGenerateTries {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("reading entropy: %w", err)
		}

		words := make([]string, WordCount)
		for i := range words {
			n := binary.BigEndian.Uint16(buf[2*i:]) & wordIndexMask
			words[i] = list[n]
		}

		// A basic seed is never password-protected.
		if !isBasicSeed(toEntropy(words)) {
			continue
		}
		return words, nil
	}

	return nil, sigilerr.New("GENERATE_FAILED", "could not generate a valid mnemonic")
}

// Validate checks word count, membership in the word list and the
// basic-seed marker.
func Validate(words []string) error {
	if len(words) != WordCount {
		return sigilerr.WithDetails(sigilerr.ErrInvalidMnemonic, map[string]string{
			"words": fmt.Sprintf("%d", len(words)),
		})
	}

	for i, w := range words {
		if _, ok := wordIndex[w]; !ok {
			return sigilerr.WithDetails(sigilerr.ErrInvalidMnemonic, map[string]string{
				"position": fmt.Sprintf("%d", i+1),
			})
		}
	}

	if !isBasicSeed(toEntropy(words)) {
		return sigilerr.ErrInvalidMnemonic
	}
	return nil
}

// IsPasswordProtected reports whether words form a seed that only
// opens with a mnemonic password. Such phrases fail Validate.
func IsPasswordProtected(words []string) bool {
	entropy := toEntropy(words)
	return isPasswordSeed(entropy) && !isBasicSeed(entropy)
}

// DeriveKeyPair validates words and derives the ed25519 keypair.
func DeriveKeyPair(words []string) (KeyPair, error) {
	if err := Validate(words); err != nil {
		return KeyPair{}, err
	}

	priv, err := tonwallet.SeedToPrivateKey(strings.Join(words, " "))
	if err != nil {
		return KeyPair{}, sigilerr.WithCause(sigilerr.ErrInvalidMnemonic, err)
	}
	pub, ok := priv.Public().(ed25519.PublicKey)
	if !ok {
		return KeyPair{}, sigilerr.ErrGeneral
	}

	return KeyPair{PublicKey: pub, PrivateKey: priv}, nil
}

// toEntropy computes HMAC-SHA512 keyed by the phrase over an empty password.
func toEntropy(words []string) []byte {
	mac := hmac.New(sha512.New, []byte(strings.Join(words, " ")))
	return mac.Sum(nil)
}

func isBasicSeed(entropy []byte) bool {
	seed := pbkdf2.Key(entropy, []byte(basicSalt), basicIterations, seedLength, sha512.New)
	return seed[0] == 0
}

func isPasswordSeed(entropy []byte) bool {
	seed := pbkdf2.Key(entropy, []byte(passwordSalt), passwordIter, seedLength, sha512.New)
	return seed[0] == 1
}
