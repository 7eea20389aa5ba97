package cli

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteNetworksAndFormats(t *testing.T) {
	t.Parallel()

	networks, directive := completeNetworks(nil, nil, "")
	assert.Equal(t, []string{"mainnet", "testnet"}, networks)
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)

	formats, _ := completeOutputFormats(nil, nil, "")
	require.Len(t, formats, 3)
	assert.True(t, strings.HasPrefix(formats[0], "auto\t"))
}

func TestCompleteConfigKeys(t *testing.T) {
	t.Parallel()

	keys, _ := completeConfigKeys(nil, nil, "")
	assert.Contains(t, keys, "network")
	assert.Contains(t, keys, "networks.testnet.api_key")
	assert.Contains(t, keys, "discovery.workers")
	assert.NotContains(t, keys, "discovery", "only scalar paths are offered")

	keys, _ = completeConfigKeys(nil, nil, "storage.")
	assert.Equal(t, []string{"storage.backend"}, keys)

	keys, _ = completeConfigKeys(nil, []string{"network"}, "")
	assert.Empty(t, keys, "values are not completed")
}

func TestCompleteWalletAddresses(t *testing.T) {
	home, _ := setupWalletTest(t)
	_, err := runCLI(t, home, "wallet", "create")
	require.NoError(t, err)

	homeDir = home
	t.Cleanup(resetFlags)

	got, directive := completeWalletAddresses(walletUseCmd, nil, "")
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
	require.Len(t, got, 1)
	address, name, found := strings.Cut(got[0], "\t")
	require.True(t, found)
	assert.True(t, strings.HasPrefix(address, "EQ"), address)
	assert.Equal(t, "Account 1", name)

	got, _ = completeWalletAddresses(walletUseCmd, nil, "UQ")
	assert.Empty(t, got)

	got, _ = completeWalletAddresses(walletUseCmd, []string{address}, "")
	assert.Empty(t, got)
}

func TestAddressCommandsHaveCompletion(t *testing.T) {
	for _, cmd := range []*cobra.Command{walletUseCmd, walletRevealCmd, walletReceiveCmd, walletBalanceCmd, configGetCmd, configSetCmd} {
		assert.NotNil(t, cmd.ValidArgsFunction, cmd.CommandPath())
	}
}
