package cli

import (
	"crypto/ed25519"
	"encoding/hex"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/tonsigil/internal/contract"
	"github.com/mrz1836/tonsigil/internal/output"
	sigilerr "github.com/mrz1836/tonsigil/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	// versionsPublicKey is a hex public key whose addresses are listed.
	versionsPublicKey string
)

// versionsCmd lists the supported wallet contract versions.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var versionsCmd = &cobra.Command{
	Use:     "versions",
	Short:   "List wallet contract versions",
	GroupID: groupWallet,
	Long: `List the wallet contract versions in the order they are probed on import.

New wallets use the latest version. With --public-key the address each
version would give that key is shown.`,
	Example: `  tonsigil versions
  tonsigil versions --public-key 3b6a27bcceb6a42d62a3a8d02a6f0d73653215771de243a63ac048a18b59da29`,
	Args: cobra.NoArgs,
	RunE: runVersions,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(versionsCmd)

	versionsCmd.Flags().StringVar(&versionsPublicKey, "public-key", "", "hex ed25519 public key to derive addresses for")
}

// versionView is one row of the versions listing.
type versionView struct {
	Version string `json:"version"`
	Latest  bool   `json:"latest"`
	Address string `json:"address,omitempty"`
}

// parsePublicKey decodes a 32-byte hex public key.
func parsePublicKey(s string) (ed25519.PublicKey, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	if err != nil || len(raw) != ed25519.PublicKeySize {
		return nil, sigilerr.WithSuggestion(
			sigilerr.WithDetails(sigilerr.ErrInvalidInput, map[string]string{"public-key": s}),
			"public key must be 64 hex characters",
		)
	}
	return ed25519.PublicKey(raw), nil
}

// listVersions returns every known version, with addresses when pub is set.
func listVersions(pub ed25519.PublicKey) ([]versionView, error) {
	known := contract.Known()
	views := make([]versionView, 0, len(known))
	for _, v := range known {
		view := versionView{Version: v.String(), Latest: v == contract.Latest}
		if pub != nil {
			id, err := contract.Address(pub, v)
			if err != nil {
				return nil, err
			}
			view.Address = contract.FormatAddress(id, true, false)
		}
		views = append(views, view)
	}
	return views, nil
}

func runVersions(cmd *cobra.Command, _ []string) error {
	cc := GetCmdContext(cmd)

	var pub ed25519.PublicKey
	if versionsPublicKey != "" {
		var err error
		if pub, err = parsePublicKey(versionsPublicKey); err != nil {
			return err
		}
	}

	views, err := listVersions(pub)
	if err != nil {
		return err
	}

	return cc.Fmt.Emit(views, func(w io.Writer) error {
		headers := []string{"VERSION", "LATEST"}
		if pub != nil {
			headers = append(headers, "ADDRESS")
		}
		table := output.NewTable(headers...)
		for _, v := range views {
			latest := ""
			if v.Latest {
				latest = "yes"
			}
			table.AddRow(v.Version, latest, v.Address)
		}
		return table.Render(w)
	})
}
