package crypto

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"filippo.io/age"
	"filippo.io/age/armor"

	sigilerr "github.com/mrz1836/tonsigil/pkg/errors"
)

// Scrypt work factors (log2 of N).
const (
	DefaultWorkFactor = 18
	MinWorkFactor     = 1
	MaxWorkFactor     = 22
)

// Sealer encrypts mnemonics with an age scrypt passphrase recipient and
// produces ASCII-armored text suitable for a JSON document.
type Sealer struct {
	workFactor int
}

// NewSealer creates a sealer with the given scrypt work factor.
func NewSealer(workFactor int) (*Sealer, error) {
	if workFactor < MinWorkFactor || workFactor > MaxWorkFactor {
		return nil, sigilerr.WithDetails(sigilerr.ErrConfigInvalid, map[string]string{
			"work_factor": fmt.Sprintf("%d", workFactor),
		})
	}
	return &Sealer{workFactor: workFactor}, nil
}

// DefaultSealer returns a sealer using DefaultWorkFactor.
func DefaultSealer() *Sealer {
	return &Sealer{workFactor: DefaultWorkFactor}
}

// WorkFactor returns the scrypt work factor used for encryption.
func (s *Sealer) WorkFactor() int {
	return s.workFactor
}

// Encrypt seals phrase with password. The password is used only for this
// call and never retained.
func (s *Sealer) Encrypt(phrase, password string) (string, error) {
	recipient, err := age.NewScryptRecipient(password)
	if err != nil {
		return "", sigilerr.WithCause(sigilerr.ErrEncryptionFailed, err)
	}
	recipient.SetWorkFactor(s.workFactor)

	buf := &bytes.Buffer{}
	aw := armor.NewWriter(buf)
	w, err := age.Encrypt(aw, recipient)
	if err != nil {
		return "", sigilerr.WithCause(sigilerr.ErrEncryptionFailed, err)
	}
	if _, err := io.WriteString(w, phrase); err != nil {
		return "", sigilerr.WithCause(sigilerr.ErrEncryptionFailed, err)
	}
	if err := w.Close(); err != nil {
		return "", sigilerr.WithCause(sigilerr.ErrEncryptionFailed, err)
	}
	if err := aw.Close(); err != nil {
		return "", sigilerr.WithCause(sigilerr.ErrEncryptionFailed, err)
	}

	return buf.String(), nil
}

// Decrypt opens a ciphertext produced by Encrypt.
func (s *Sealer) Decrypt(ciphertext, password string) (string, error) {
	secret, err := s.DecryptSecure(ciphertext, password)
	if err != nil {
		return "", err
	}
	defer secret.Destroy()
	return secret.Text(), nil
}

// DecryptSecure opens a ciphertext into locked memory.
func (s *Sealer) DecryptSecure(ciphertext, password string) (*Secret, error) {
	identity, err := age.NewScryptIdentity(password)
	if err != nil {
		return nil, sigilerr.WithCause(sigilerr.ErrDecryptionFailed, err)
	}
	identity.SetMaxWorkFactor(max(s.workFactor, MaxWorkFactor))

	r, err := age.Decrypt(armor.NewReader(strings.NewReader(ciphertext)), identity)
	if err != nil {
		return nil, sigilerr.WithCause(sigilerr.ErrDecryptionFailed, err)
	}

	plaintext, err := io.ReadAll(r)
	if err != nil {
		return nil, sigilerr.WithCause(sigilerr.ErrDecryptionFailed, err)
	}
	defer clear(plaintext)

	return SecretFrom(plaintext)
}
