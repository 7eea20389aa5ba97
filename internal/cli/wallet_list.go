package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/mrz1836/tonsigil/internal/account"
	"github.com/mrz1836/tonsigil/internal/output"
)

// walletListCmd lists the wallets of the selected network.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var walletListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List wallets",
	Long: `List the wallets of the selected network.

The active wallet is marked with an asterisk.`,
	Example: `  tonsigil wallet list
  tonsigil wallet list --network testnet -o json`,
	Args: cobra.NoArgs,
	RunE: runWalletList,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	walletCmd.AddCommand(walletListCmd)
}

// walletListView is the JSON form of an account.
type walletListView struct {
	Network      string       `json:"network"`
	ActiveWallet string       `json:"activeWallet"`
	Wallets      []walletView `json:"wallets"`
}

func newWalletListView(network string, state *account.State) walletListView {
	view := walletListView{
		Network:      network,
		ActiveWallet: state.ActiveWallet,
		Wallets:      make([]walletView, 0, len(state.Wallets)),
	}
	for i := range state.Wallets {
		rec := &state.Wallets[i]
		view.Wallets = append(view.Wallets, newWalletView(rec, rec.Address == state.ActiveWallet))
	}
	return view
}

func runWalletList(cmd *cobra.Command, _ []string) error {
	cc := GetCmdContext(cmd)
	ctx, cancel := contextWithTimeout(cmd)
	defer cancel()

	sess, err := cc.openSession(nil)
	if err != nil {
		return err
	}
	defer sess.Close()

	state, err := sess.accounts.List(ctx, sess.network)
	if err != nil {
		return err
	}

	view := newWalletListView(sess.network.String(), state)
	return cc.Fmt.Emit(view, func(w io.Writer) error {
		if len(view.Wallets) == 0 {
			outln(w, "No wallets found.")
			outln(w, "Create one with: tonsigil wallet create")
			return nil
		}

		table := output.NewTable("", "NAME", "ADDRESS", "VERSION")
		for _, wv := range view.Wallets {
			marker := ""
			if wv.Active {
				marker = "*"
			}
			table.AddRow(marker, wv.Name, wv.Address, wv.Version)
		}
		return table.Render(w)
	})
}
