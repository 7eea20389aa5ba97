package cli

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/tonsigil/internal/contract"
	sigilerr "github.com/mrz1836/tonsigil/pkg/errors"
)

func TestListVersions(t *testing.T) {
	t.Parallel()

	views, err := listVersions(nil)
	require.NoError(t, err)
	require.Len(t, views, len(contract.Known()))

	assert.Equal(t, "simpleR1", views[0].Version)
	latest := 0
	for _, v := range views {
		assert.Empty(t, v.Address)
		if v.Latest {
			latest++
			assert.Equal(t, contract.Latest.String(), v.Version)
		}
	}
	assert.Equal(t, 1, latest)
}

func TestListVersions_WithPublicKey(t *testing.T) {
	t.Parallel()

	pub := ed25519.NewKeyFromSeed(make([]byte, ed25519.SeedSize)).Public().(ed25519.PublicKey)
	views, err := listVersions(pub)
	require.NoError(t, err)

	seen := make(map[string]bool, len(views))
	for _, v := range views {
		require.NotEmpty(t, v.Address, v.Version)
		assert.False(t, seen[v.Address], "address repeated for %s", v.Version)
		seen[v.Address] = true
	}
}

func TestParsePublicKey(t *testing.T) {
	t.Parallel()

	key := strings.Repeat("ab", ed25519.PublicKeySize)
	pub, err := parsePublicKey(key)
	require.NoError(t, err)
	assert.Equal(t, key, hex.EncodeToString(pub))

	_, err = parsePublicKey("0x" + key)
	require.NoError(t, err)

	for _, bad := range []string{"", "zz", key[:10], key + "00"} {
		_, err = parsePublicKey(bad)
		require.ErrorIs(t, err, sigilerr.ErrInvalidInput, bad)
	}
}

func TestVersionsCommand_JSON(t *testing.T) {
	isolateEnv(t)
	home := newTestHome(t)

	stdout, err := runCLI(t, home, "versions", "-o", "json", "--public-key", strings.Repeat("01", ed25519.PublicKeySize))
	require.NoError(t, err)

	var views []versionView
	require.NoError(t, json.Unmarshal([]byte(stdout), &views))
	require.Len(t, views, len(contract.Known()))
	assert.True(t, views[len(views)-1].Latest)
	assert.True(t, strings.HasPrefix(views[0].Address, "EQ"), views[0].Address)
}
