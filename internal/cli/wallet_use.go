package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/mrz1836/tonsigil/internal/output"
)

// walletUseCmd selects the active wallet.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var walletUseCmd = &cobra.Command{
	Use:   "use <address>",
	Short: "Select the active wallet",
	Long: `Make the wallet with the given address the active wallet of the
selected network. Any address encoding is accepted.`,
	Example: `  tonsigil wallet use EQD...
  tonsigil wallet use 0:83df... --network testnet`,
	Args: cobra.ExactArgs(1),
	RunE: runWalletUse,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	walletCmd.AddCommand(walletUseCmd)
}

func runWalletUse(cmd *cobra.Command, args []string) error {
	cc := GetCmdContext(cmd)
	ctx, cancel := contextWithTimeout(cmd)
	defer cancel()

	sess, err := cc.openSession(nil)
	if err != nil {
		return err
	}
	defer sess.Close()

	rec, err := sess.accounts.Select(ctx, sess.network, args[0])
	if err != nil {
		return err
	}

	view := newWalletView(rec, true)
	return cc.Fmt.Emit(view, func(w io.Writer) error {
		output.Success(w, "Active wallet: %s (%s)", view.Name, view.Address)
		return nil
	})
}
