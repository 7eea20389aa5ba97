package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mrz1836/tonsigil/internal/account"
	"github.com/mrz1836/tonsigil/internal/chain"
	accountsvc "github.com/mrz1836/tonsigil/internal/service/account"
	sigilerr "github.com/mrz1836/tonsigil/pkg/errors"
)

// out is a helper for CLI output that ignores write errors (standard pattern for CLI tools).
//
//nolint:errcheck // CLI output writes to stdout are intentionally unchecked
func out(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format, args...)
}

// outln is a helper for CLI output with newline.
//
//nolint:errcheck // CLI output writes to stdout are intentionally unchecked
func outln(w io.Writer, args ...interface{}) {
	fmt.Fprintln(w, args...)
}

// walletCmd is the parent command for wallet operations.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var walletCmd = &cobra.Command{
	Use:     "wallet",
	Short:   "Manage wallets",
	GroupID: groupWallet,
	Long: `Create, import, list and select TON wallets.

Each network keeps its own list of wallets and one active wallet. Select
the network with --network.`,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(walletCmd)
}

// walletView is the public part of a wallet record.
type walletView struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	Version   string `json:"version"`
	PublicKey string `json:"publicKey"`
	Active    bool   `json:"active"`
}

func newWalletView(rec *account.WalletRecord, active bool) walletView {
	return walletView{
		Name:      rec.Name,
		Address:   rec.Address,
		Version:   rec.Version.String(),
		PublicKey: rec.PublicKey,
		Active:    active,
	}
}

// provisionView reports a created or imported wallet.
type provisionView struct {
	Network string `json:"network"`
	walletView
	Balance  string   `json:"balance"`
	Matched  bool     `json:"matched"`
	Mnemonic []string `json:"mnemonic,omitempty"`
}

func newProvisionView(network chain.Network, o *accountsvc.Outcome) provisionView {
	return provisionView{
		Network:    network.String(),
		walletView: newWalletView(&o.Record, true),
		Balance:    chain.FormatTON(o.Balance),
		Matched:    o.Matched,
	}
}

// displayWallet writes the summary shared by create and import.
func displayWallet(w io.Writer, v provisionView) {
	out(w, "Name:       %s\n", v.Name)
	out(w, "Address:    %s\n", v.Address)
	out(w, "Version:    %s\n", v.Version)
	out(w, "Network:    %s\n", v.Network)
	out(w, "Public key: %s\n", v.PublicKey)
}

// selectWallet returns the wallet named by address, or the active one
// when address is empty.
func selectWallet(state *account.State, address string) (*account.WalletRecord, error) {
	if address == "" {
		rec, ok := state.Active()
		if !ok {
			return nil, sigilerr.WithSuggestion(
				sigilerr.ErrWalletNotFound,
				"no wallets yet. Create one with: tonsigil wallet create",
			)
		}
		return rec, nil
	}

	rec, ok := state.Find(address)
	if !ok {
		return nil, sigilerr.WithSuggestion(
			sigilerr.WithDetails(sigilerr.ErrWalletNotFound, map[string]string{"address": address}),
			"list wallets with: tonsigil wallet list",
		)
	}
	return rec, nil
}

// optionalArg returns the first argument or "".
func optionalArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
