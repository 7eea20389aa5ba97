package wallet

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/tonsigil/internal/contract"
	"github.com/mrz1836/tonsigil/internal/crypto"
	"github.com/mrz1836/tonsigil/internal/discovery"
	"github.com/mrz1836/tonsigil/internal/mnemonic"
	sigilerr "github.com/mrz1836/tonsigil/pkg/errors"
)

const testPassword = "correct horse battery staple"

// mockBalances answers by raw address.
type mockBalances struct {
	mu       sync.Mutex
	balances map[string]int64
	err      error
	calls    int
}

func (m *mockBalances) GetBalance(_ context.Context, address string) (*big.Int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return big.NewInt(m.balances[address]), nil
}

// mockSealer records calls and can fail on demand.
type mockSealer struct {
	encryptCalls int
	encryptErr   error
}

func (m *mockSealer) Encrypt(phrase, password string) (string, error) {
	m.encryptCalls++
	if m.encryptErr != nil {
		return "", m.encryptErr
	}
	return "sealed:" + password + ":" + phrase, nil
}

func (m *mockSealer) DecryptSecure(ciphertext, password string) (*crypto.Secret, error) {
	prefix := "sealed:" + password + ":"
	if !strings.HasPrefix(ciphertext, prefix) {
		return nil, sigilerr.ErrDecryptionFailed
	}
	return crypto.SecretFromString(strings.TrimPrefix(ciphertext, prefix))
}

type mockLogger struct {
	mu     sync.Mutex
	debugs []string
	errors []string
}

func (l *mockLogger) Debug(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debugs = append(l.debugs, fmt.Sprintf(format, args...))
}

func (l *mockLogger) Error(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, fmt.Sprintf(format, args...))
}

func seededWords(t *testing.T, seed byte) []string {
	t.Helper()
	var key [32]byte
	key[0] = seed
	words, err := mnemonic.Generate(rand.NewChaCha8(key))
	require.NoError(t, err)
	return words
}

func realSealer(t *testing.T) *crypto.Sealer {
	t.Helper()
	s, err := crypto.NewSealer(10)
	require.NoError(t, err)
	return s
}

func newTestService(t *testing.T, balances *mockBalances) (*Service, *mockLogger) {
	t.Helper()
	logger := &mockLogger{}
	return NewService(&Config{
		Sealer: realSealer(t),
		Prober: discovery.NewProber(balances, nil),
		Logger: logger,
	}), logger
}

func addressFor(t *testing.T, words []string, v contract.Version) (string, string) {
	t.Helper()
	kp, err := mnemonic.DeriveKeyPair(words)
	require.NoError(t, err)
	id, err := contract.Address(kp.PublicKey, v)
	require.NoError(t, err)
	return contract.FormatAddress(id, true, false), contract.RawAddress(id)
}

func TestCreateWallet(t *testing.T) {
	t.Parallel()
	balances := &mockBalances{}
	svc, logger := newTestService(t, balances)
	words := seededWords(t, 1)

	res, err := svc.CreateWallet(context.Background(), strings.Join(words, " "), testPassword, 1)
	require.NoError(t, err)

	rec := res.Record
	assert.Equal(t, "Account 1", rec.Name)
	assert.Equal(t, contract.Latest, rec.Version)
	assert.True(t, rec.IsBounceable)
	assert.False(t, res.Matched)
	assert.Nil(t, res.Balance)
	assert.Zero(t, balances.calls, "create never probes")

	friendly, _ := addressFor(t, words, contract.Latest)
	assert.Equal(t, friendly, rec.Address)
	require.NoError(t, rec.Validate())
	require.NoError(t, rec.VerifyAddress())
	assert.NotContains(t, rec.Mnemonic, strings.Join(words[:3], " "))
	assert.NotEmpty(t, logger.debugs)

	phrase, err := realSealer(t).Decrypt(rec.Mnemonic, testPassword)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(words, " "), phrase)
}

// A fixed phrase always yields the same record address, equal to the
// latest-version address recomputed from its public key.
func TestCreateWallet_KnownVector(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t, &mockBalances{})
	const phrase = "borrow celery broken wink dash desert payment salt ring favorite leave toss " +
		"wisdom dirt cube stage latin thrive return exist suggest dinosaur electric glove"

	res, err := svc.CreateWallet(context.Background(), phrase, testPassword, 1)
	require.NoError(t, err)
	assert.Equal(t, "628f343a2157d0902ea421029a2e526bd0966c8376b96c7d8d64711d6e2b6012", res.Record.PublicKey)
	assert.Equal(t, "EQD7RUuQk8Wkp08qm81ERlu77SL3qLB_dHr9JgfqhWNZMUMt", res.Record.Address)
	assert.Equal(t, contract.V4R2, res.Record.Version)

	again, err := svc.CreateWallet(context.Background(), phrase, testPassword, 1)
	require.NoError(t, err)
	assert.Equal(t, res.Record.Address, again.Record.Address)
}

func TestCreateWallet_SequentialNames(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t, &mockBalances{})
	ctx := context.Background()

	r1, err := svc.CreateWallet(ctx, strings.Join(seededWords(t, 1), " "), testPassword, 1)
	require.NoError(t, err)
	r2, err := svc.CreateWallet(ctx, strings.Join(seededWords(t, 2), " "), testPassword, 2)
	require.NoError(t, err)

	assert.Equal(t, "Account 1", r1.Record.Name)
	assert.Equal(t, "Account 2", r2.Record.Name)
	assert.NotEqual(t, r1.Record.Address, r2.Record.Address)
}

func TestCreateWallet_Errors(t *testing.T) {
	t.Parallel()
	phrase := strings.Join(seededWords(t, 1), " ")

	t.Run("empty password", func(t *testing.T) {
		t.Parallel()
		svc, _ := newTestService(t, &mockBalances{})
		_, err := svc.CreateWallet(context.Background(), phrase, "", 1)
		require.ErrorIs(t, err, sigilerr.ErrEncryptionFailed)
	})

	t.Run("encryption failure", func(t *testing.T) {
		t.Parallel()
		sealer := &mockSealer{encryptErr: sigilerr.ErrEncryptionFailed}
		logger := &mockLogger{}
		svc := NewService(&Config{Sealer: sealer, Logger: logger})
		_, err := svc.CreateWallet(context.Background(), phrase, testPassword, 1)
		require.ErrorIs(t, err, sigilerr.ErrEncryptionFailed)
		assert.NotEmpty(t, logger.errors)
	})

	t.Run("bad index", func(t *testing.T) {
		t.Parallel()
		svc, _ := newTestService(t, &mockBalances{})
		_, err := svc.CreateWallet(context.Background(), phrase, testPassword, 0)
		require.ErrorIs(t, err, sigilerr.ErrInvalidInput)
	})

	t.Run("canceled", func(t *testing.T) {
		t.Parallel()
		sealer := &mockSealer{}
		svc := NewService(&Config{Sealer: sealer})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := svc.CreateWallet(ctx, phrase, testPassword, 1)
		require.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, sealer.encryptCalls)
	})
}

func TestImportWallet_FundedOldVersion(t *testing.T) {
	t.Parallel()
	words := seededWords(t, 5)
	friendly, raw := addressFor(t, words, contract.V3R2)
	balances := &mockBalances{balances: map[string]int64{raw: 1_500_000_000}}
	svc, _ := newTestService(t, balances)

	res, err := svc.ImportWallet(context.Background(), words, testPassword, 3)
	require.NoError(t, err)

	assert.Equal(t, "Account 3", res.Record.Name)
	assert.Equal(t, contract.V3R2, res.Record.Version)
	assert.Equal(t, friendly, res.Record.Address)
	assert.True(t, res.Matched)
	assert.Equal(t, int64(1_500_000_000), res.Balance.Int64())
	require.NoError(t, res.Record.VerifyAddress())
}

func TestImportWallet_UnfundedFallsBackToLatest(t *testing.T) {
	t.Parallel()
	words := seededWords(t, 6)
	balances := &mockBalances{}
	svc, _ := newTestService(t, balances)

	res, err := svc.ImportWallet(context.Background(), words, testPassword, 1)
	require.NoError(t, err)

	friendly, _ := addressFor(t, words, contract.Latest)
	assert.Equal(t, contract.Latest, res.Record.Version)
	assert.Equal(t, friendly, res.Record.Address)
	assert.False(t, res.Matched)
	assert.Equal(t, len(contract.Known()), balances.calls)
}

func TestImportWallet_InvalidMnemonicFirst(t *testing.T) {
	t.Parallel()
	words := seededWords(t, 7)
	words[3] = "notaword"

	sealer := &mockSealer{}
	balances := &mockBalances{}
	svc := NewService(&Config{Sealer: sealer, Prober: discovery.NewProber(balances, nil)})

	_, err := svc.ImportWallet(context.Background(), words, "", 1)
	require.ErrorIs(t, err, sigilerr.ErrInvalidMnemonic)
	assert.Zero(t, sealer.encryptCalls)
	assert.Zero(t, balances.calls)
}

func TestImportWallet_NetworkError(t *testing.T) {
	t.Parallel()
	balances := &mockBalances{err: errors.New("connection reset")} //nolint:err113 // test error
	svc, logger := newTestService(t, balances)

	res, err := svc.ImportWallet(context.Background(), seededWords(t, 8), testPassword, 1)
	require.ErrorIs(t, err, sigilerr.ErrNetworkError)
	assert.Nil(t, res)
	assert.NotEmpty(t, logger.errors)
}

func TestOpenRecord(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t, &mockBalances{})
	words := seededWords(t, 9)

	res, err := svc.CreateWallet(context.Background(), strings.Join(words, " "), testPassword, 1)
	require.NoError(t, err)

	opened, err := svc.OpenRecord(context.Background(), &res.Record, testPassword)
	require.NoError(t, err)
	assert.Equal(t, words, opened)

	_, err = svc.OpenRecord(context.Background(), &res.Record, "wrong password")
	require.ErrorIs(t, err, sigilerr.ErrDecryptionFailed)
}

func TestOpenRecord_KeyMismatch(t *testing.T) {
	t.Parallel()
	sealer := &mockSealer{}
	svc := NewService(&Config{Sealer: sealer, Logger: &mockLogger{}})

	res, err := svc.CreateWallet(context.Background(), strings.Join(seededWords(t, 10), " "), testPassword, 1)
	require.NoError(t, err)

	other, err := svc.CreateWallet(context.Background(), strings.Join(seededWords(t, 11), " "), testPassword, 1)
	require.NoError(t, err)

	rec := res.Record
	rec.Mnemonic = other.Record.Mnemonic
	_, err = svc.OpenRecord(context.Background(), &rec, testPassword)
	require.ErrorIs(t, err, sigilerr.ErrAccountStateInvalid)

}
