package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/mrz1836/tonsigil/internal/output"
	accountsvc "github.com/mrz1836/tonsigil/internal/service/account"
)

// walletCreateCmd creates a new wallet.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var walletCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new wallet",
	Long: `Create a new wallet from a freshly generated 24-word mnemonic.

The wallet uses the latest contract version and becomes the active wallet.
The mnemonic is shown once. Write it down and store it securely.
You will be prompted for a password to encrypt it.`,
	Example: `  tonsigil wallet create
  tonsigil wallet create --network testnet
  TONSIGIL_PASSWORD=... tonsigil wallet create -o json`,
	Args: cobra.NoArgs,
	RunE: runWalletCreate,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	walletCmd.AddCommand(walletCreateCmd)
}

func runWalletCreate(cmd *cobra.Command, _ []string) error {
	cc := GetCmdContext(cmd)
	ctx, cancel := contextWithTimeout(cmd)
	defer cancel()

	sess, err := cc.openSession(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer sess.Close()

	outcome, err := sess.accounts.Create(ctx, accountsvc.CreateRequest{Network: sess.network})
	if err != nil {
		return err
	}

	view := newProvisionView(sess.network, outcome)
	view.Mnemonic = outcome.Mnemonic
	return cc.Fmt.Emit(view, func(w io.Writer) error {
		displayMnemonic(w, outcome.Mnemonic)
		outln(w)
		displayWallet(w, view)
		outln(w)
		output.Success(w, "%s created and selected.", view.Name)
		return nil
	})
}

// displayMnemonic prints the phrase in numbered rows of four.
func displayMnemonic(w io.Writer, words []string) {
	output.Warn(w, "Write down these words in order. They are the only way to recover this wallet.")
	outln(w)
	for i, word := range words {
		out(w, "%3d. %-10s", i+1, word)
		if (i+1)%4 == 0 || i == len(words)-1 {
			outln(w)
		}
	}
}
