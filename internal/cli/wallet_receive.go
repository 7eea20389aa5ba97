package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/mrz1836/tonsigil/internal/chain"
	"github.com/mrz1836/tonsigil/internal/contract"
	"github.com/mrz1836/tonsigil/internal/output"
	sigilerr "github.com/mrz1836/tonsigil/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	// receiveQR draws the transfer link as a QR code.
	receiveQR bool
	// receiveAmount requests a specific amount, in TON.
	receiveAmount string
	// receiveComment is the text comment carried by the link.
	receiveComment string
)

// walletReceiveCmd shows a wallet's receiving address.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var walletReceiveCmd = &cobra.Command{
	Use:     "receive [address]",
	Aliases: []string{"show"},
	Short:   "Show a receiving address",
	Long: `Display the receiving address of a wallet and its ton:// transfer link.
Defaults to the active wallet.

--amount and --comment pre-fill the link so the payer's wallet suggests
that amount and comment. With --qr the link is also drawn as a QR code
when writing to a terminal.`,
	Example: `  tonsigil wallet receive
  tonsigil wallet receive --qr --amount 1.5 --comment "invoice 42"
  tonsigil wallet receive EQD... -o json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWalletReceive,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	walletCmd.AddCommand(walletReceiveCmd)

	walletReceiveCmd.Flags().BoolVar(&receiveQR, "qr", false, "draw the transfer link as a QR code")
	walletReceiveCmd.Flags().StringVar(&receiveAmount, "amount", "", "amount to request, in TON")
	walletReceiveCmd.Flags().StringVar(&receiveComment, "comment", "", "comment to attach to the transfer")
}

// receiveView is the JSON form of a receiving address.
type receiveView struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	RawAddress  string `json:"rawAddress"`
	Version     string `json:"version"`
	Network     string `json:"network"`
	Amount      string `json:"amount,omitempty"`
	Comment     string `json:"comment,omitempty"`
	TransferURI string `json:"transferUri"`
}

func runWalletReceive(cmd *cobra.Command, args []string) error {
	cc := GetCmdContext(cmd)
	ctx, cancel := contextWithTimeout(cmd)
	defer cancel()

	req := output.TransferRequest{Text: receiveComment}
	if receiveAmount != "" {
		amount, err := chain.ParseTON(receiveAmount)
		if err != nil {
			return sigilerr.WithSuggestion(err, "use a decimal TON amount such as 1.5")
		}
		req.Amount = amount
	}

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

	req.Address = rec.Address
	view := receiveView{
		Name:        rec.Name,
		Address:     rec.Address,
		RawAddress:  contract.RawAddress(id),
		Version:     rec.Version.String(),
		Network:     sess.network.String(),
		Comment:     receiveComment,
		TransferURI: req.URI(),
	}
	if req.Amount != nil {
		view.Amount = chain.FormatTON(req.Amount)
	}
	return cc.Fmt.Emit(view, func(w io.Writer) error {
		out(w, "%s (%s, %s)\n", view.Name, view.Version, view.Network)
		out(w, "Address:  %s\n", view.Address)
		out(w, "Raw:      %s\n", view.RawAddress)
		out(w, "Transfer: %s\n", view.TransferURI)
		if receiveQR {
			outln(w)
			if !output.RenderQR(w, view.TransferURI, output.DefaultQRConfig()) {
				output.Warn(cmd.ErrOrStderr(), "QR codes are only drawn on a terminal.")
			}
		}
		return nil
	})
}
