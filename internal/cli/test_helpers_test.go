package cli

import (
	"bytes"
	"context"
	"io"
	"math/big"
	"math/rand/v2"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/tonsigil/internal/chain"
	"github.com/mrz1836/tonsigil/internal/config"
	"github.com/mrz1836/tonsigil/internal/contract"
	"github.com/mrz1836/tonsigil/internal/mnemonic"
)

const testPassword = "correct horse battery staple"

// fakeBalances serves balances keyed by raw address.
type fakeBalances struct {
	mu       sync.Mutex
	balances map[string]*big.Int
	err      error
	calls    int
}

func (f *fakeBalances) GetBalance(_ context.Context, address string) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if b, ok := f.balances[address]; ok {
		return new(big.Int).Set(b), nil
	}
	return big.NewInt(0), nil
}

// withFakeBalances routes every balance query to fb.
func withFakeBalances(t *testing.T, fb *fakeBalances) {
	t.Helper()
	orig := newBalanceReaderFn
	t.Cleanup(func() { newBalanceReaderFn = orig })
	newBalanceReaderFn = func(chain.Network, config.NetworkConfig, chain.RetryConfig, LogWriter) (chain.BalanceReader, error) {
		return fb, nil
	}
}

// withMockPrompts replaces prompt functions for testing and restores on cleanup.
func withMockPrompts(t *testing.T, password, phrase string) {
	t.Helper()
	origPW := promptPasswordFn
	origNewPW := promptNewPasswordFn
	origMnemonic := promptMnemonicFn
	t.Cleanup(func() {
		promptPasswordFn = origPW
		promptNewPasswordFn = origNewPW
		promptMnemonicFn = origMnemonic
	})
	promptPasswordFn = func(string) (string, error) { return password, nil }
	promptNewPasswordFn = func(string) (string, error) { return password, nil }
	promptMnemonicFn = func(io.Reader) (string, error) { return phrase, nil }
}

// saveGlobals snapshots CLI state and flag variables.
func saveGlobals(t *testing.T) func() {
	t.Helper()
	origCfg := cfg
	origLogger := logger
	origFormatter := formatter
	origCmdCtx := cmdCtx
	origHomeDir := homeDir
	origNetwork := networkFlag
	origOutputFormat := outputFormat
	origVerbose := verbose
	return func() {
		cfg = origCfg
		logger = origLogger
		formatter = origFormatter
		cmdCtx = origCmdCtx
		homeDir = origHomeDir
		networkFlag = origNetwork
		outputFormat = origOutputFormat
		verbose = origVerbose
	}
}

// resetFlags clears flag variables left over from an earlier run.
func resetFlags() {
	homeDir = ""
	networkFlag = ""
	outputFormat = "auto"
	verbose = false
	importMnemonic = ""
	receiveQR = false
	receiveAmount = ""
	receiveComment = ""
	versionsPublicKey = ""
	configForce = false
}

// newTestHome creates a home directory with a config tuned for tests.
func newTestHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	c := config.Defaults()
	c.Home = home
	c.Encryption.WorkFactor = 10
	c.Logging.Level = "off"
	require.NoError(t, config.Save(c, config.Path(home)))
	return home
}

// isolateEnv clears variables that would leak host settings into a run.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		config.EnvHome, config.EnvNetwork, config.EnvMainnetAPI, config.EnvTestnetAPI,
		config.EnvAPIKey, config.EnvLogLevel, config.EnvOutputFormat,
		config.EnvStorageBackend, config.EnvVerbose, config.EnvPassword, config.EnvParallelProbing,
	} {
		// Setenv registers the restore; the variable itself must be unset
		// because an empty boolean does not decode.
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

// runCLI executes tonsigil with args against home and returns stdout.
func runCLI(t *testing.T, home string, args ...string) (string, error) {
	t.Helper()
	restore := saveGlobals(t)
	t.Cleanup(restore)
	resetFlags()

	walkCommands(rootCmd, func(c *cobra.Command) {
		c.SetOut(nil)
		c.SetErr(nil)
		c.SetIn(nil)
		c.SetContext(nil) //nolint:staticcheck // clears the context kept from a previous run
	})

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(append([]string{"--home", home}, args...))

	err := execute(context.Background())
	return stdout.String(), err
}

// testPhrase returns a deterministic valid phrase for seed.
func testPhrase(t *testing.T, seed byte) []string {
	t.Helper()
	var key [32]byte
	key[0] = seed
	words, err := mnemonic.Generate(rand.NewChaCha8(key))
	require.NoError(t, err)
	return words
}

// rawAddressFor returns the raw address phrase words give under v.
func rawAddressFor(t *testing.T, words []string, v contract.Version) string {
	t.Helper()
	kp, err := mnemonic.DeriveKeyPair(words)
	require.NoError(t, err)
	id, err := contract.Address(kp.PublicKey, v)
	require.NoError(t, err)
	return contract.RawAddress(id)
}
