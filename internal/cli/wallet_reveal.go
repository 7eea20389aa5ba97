package cli

import (
	"io"

	"github.com/spf13/cobra"
)

// walletRevealCmd decrypts and prints a wallet's mnemonic.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var walletRevealCmd = &cobra.Command{
	Use:   "reveal [address]",
	Short: "Show a wallet's mnemonic",
	Long: `Decrypt and print the mnemonic of a wallet. Defaults to the active wallet.

Anyone who sees these words can take the wallet's funds.`,
	Example: `  tonsigil wallet reveal
  tonsigil wallet reveal EQD...`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWalletReveal,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	walletCmd.AddCommand(walletRevealCmd)
}

// revealView is the JSON form of a revealed mnemonic.
type revealView struct {
	Name     string   `json:"name"`
	Address  string   `json:"address"`
	Mnemonic []string `json:"mnemonic"`
}

func runWalletReveal(cmd *cobra.Command, args []string) error {
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
	rec, err := selectWallet(state, optionalArg(args))
	if err != nil {
		return err
	}

	words, err := sess.accounts.Reveal(ctx, sess.network, rec.Address, promptPasswordFn)
	if err != nil {
		return err
	}

	view := revealView{Name: rec.Name, Address: rec.Address, Mnemonic: words}
	return cc.Fmt.Emit(view, func(w io.Writer) error {
		out(w, "%s (%s)\n\n", view.Name, view.Address)
		displayMnemonic(w, words)
		return nil
	})
}
