package cli

import (
	"io"
	"math/big"

	"github.com/spf13/cobra"

	"github.com/mrz1836/tonsigil/internal/chain"
	"github.com/mrz1836/tonsigil/internal/contract"
)

// walletBalanceCmd queries a wallet's balance.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var walletBalanceCmd = &cobra.Command{
	Use:   "balance [address]",
	Short: "Show a wallet's balance",
	Long: `Query toncenter for the balance of a wallet. Defaults to the active wallet.

Only wallets saved in the selected network's account can be queried.`,
	Example: `  tonsigil wallet balance
  tonsigil wallet balance EQD... --network testnet`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWalletBalance,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	walletCmd.AddCommand(walletBalanceCmd)
}

// balanceView is the JSON form of a balance query.
type balanceView struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Network  string `json:"network"`
	Balance  string `json:"balance"`
	Nanotons string `json:"nanotons"`
}

func runWalletBalance(cmd *cobra.Command, args []string) error {
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

	id, err := contract.ParseAddress(rec.Address)
	if err != nil {
		return err
	}
	balance, err := sess.balances.GetBalance(ctx, contract.RawAddress(id))
	if err != nil {
		cc.Log.Error("balance query for %s failed: %v", rec.Address, err)
		return err
	}
	if balance == nil {
		balance = new(big.Int)
	}

	view := balanceView{
		Name:     rec.Name,
		Address:  rec.Address,
		Network:  sess.network.String(),
		Balance:  chain.FormatTON(balance),
		Nanotons: balance.String(),
	}
	return cc.Fmt.Emit(view, func(w io.Writer) error {
		out(w, "%s (%s)\n", view.Name, view.Address)
		out(w, "Balance: %s TON\n", view.Balance)
		return nil
	})
}
