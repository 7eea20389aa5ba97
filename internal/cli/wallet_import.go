package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/mrz1836/tonsigil/internal/contract"
	"github.com/mrz1836/tonsigil/internal/output"
	accountsvc "github.com/mrz1836/tonsigil/internal/service/account"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	// importMnemonic is the phrase to import. Empty prompts for it.
	importMnemonic string
)

// walletImportCmd imports an existing wallet.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var walletImportCmd = &cobra.Command{
	Use:     "import",
	Aliases: []string{"restore"},
	Short:   "Import a wallet from a 24-word mnemonic",
	Long: `Import an existing wallet from its 24-word mnemonic.

Every known contract version is checked for a balance. The first version
holding funds is used; when none does, the latest version is used.
The imported wallet becomes the active wallet.

Passing the mnemonic on the command line leaves it in shell history.
Omit --mnemonic to be prompted instead, or pipe it on stdin.`,
	Example: `  tonsigil wallet import
  echo "word1 word2 ... word24" | tonsigil wallet import
  tonsigil wallet import --network testnet --mnemonic "word1 ... word24"`,
	Args: cobra.NoArgs,
	RunE: runWalletImport,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	walletCmd.AddCommand(walletImportCmd)

	walletImportCmd.Flags().StringVar(&importMnemonic, "mnemonic", "", "mnemonic phrase to import (prompted when omitted)")
}

func runWalletImport(cmd *cobra.Command, _ []string) error {
	cc := GetCmdContext(cmd)

	input := importMnemonic
	if input == "" {
		var err error
		input, err = promptMnemonicFn(cmd.InOrStdin())
		if err != nil {
			return err
		}
	}

	ctx, cancel := contextWithTimeout(cmd)
	defer cancel()

	sess, err := cc.openSession(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer sess.Close()

	outcome, err := sess.accounts.Import(ctx, accountsvc.ImportRequest{
		Network: sess.network,
		Input:   input,
	})
	if err != nil {
		return err
	}

	view := newProvisionView(sess.network, outcome)
	return cc.Fmt.Emit(view, func(w io.Writer) error {
		displayWallet(w, view)
		outln(w)
		if outcome.Matched {
			out(w, "Balance:    %s TON\n", view.Balance)
			outln(w)
		} else {
			output.Info(w, "No balance found under any contract version, using %s.", contract.Latest)
		}
		output.Success(w, "%s imported and selected.", view.Name)
		return nil
	})
}
