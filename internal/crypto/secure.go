// Package crypto seals mnemonics at rest and holds secrets in locked,
// zeroable memory.
//
//nolint:revive // Internal package name is intentional
package crypto

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"

	sigilerr "github.com/mrz1836/tonsigil/pkg/errors"
)

// Secret holds a password or decrypted mnemonic. The buffer is pinned
// with mlock where the platform allows and zeroed by Destroy.
type Secret struct {
	mu     sync.Mutex
	buf    []byte
	pinned bool
}

// NewSecret allocates an empty secret of size bytes.
func NewSecret(size int) (*Secret, error) {
	if size < 0 {
		return nil, sigilerr.WithDetails(sigilerr.ErrInvalidInput, map[string]string{
			"size": strconv.Itoa(size),
		})
	}

	s := &Secret{buf: make([]byte, size)}
	// A failed lock still leaves a usable secret.
	s.pinned = lockMemory(s.buf) == nil
	runtime.SetFinalizer(s, (*Secret).Destroy)
	return s, nil
}

// SecretFrom copies data into a new secret.
func SecretFrom(data []byte) (*Secret, error) {
	s, err := NewSecret(len(data))
	if err != nil {
		return nil, err
	}
	copy(s.buf, data)
	return s, nil
}

// SecretFromString copies a string into a new secret.
func SecretFromString(v string) (*Secret, error) {
	return SecretFrom([]byte(v))
}

// Bytes returns the live buffer, or nil once destroyed.
func (s *Secret) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf
}

// Text returns an unprotected copy of the contents.
func (s *Secret) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return string(s.buf)
}

// Words splits a decrypted phrase on whitespace. The returned strings are
// unprotected copies.
func (s *Secret) Words() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	fields := bytes.Fields(s.buf)
	words := make([]string, len(fields))
	for i, f := range fields {
		words[i] = string(f)
	}
	return words
}

// Pinned reports whether the buffer is locked in memory.
func (s *Secret) Pinned() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pinned
}

// Len returns the size of the secret, zero once destroyed.
func (s *Secret) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buf)
}

// Destroy zeroes and unpins the buffer. Further calls are no-ops.
func (s *Secret) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.buf == nil {
		return
	}
	clear(s.buf)
	if s.pinned {
		unlockMemory(s.buf)
		s.pinned = false
	}
	s.buf = nil
	runtime.SetFinalizer(s, nil)
}
