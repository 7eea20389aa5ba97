package output

import (
	"io"
	"math/big"
	"net/url"

	"github.com/mdp/qrterminal/v3"
	"rsc.io/qr"
)

// TransferRequest describes a ton://transfer deep link. Amount is in
// nanotons and, like Text, is omitted when empty.
type TransferRequest struct {
	Address string
	Amount  *big.Int
	Text    string
}

// URI renders the deep link wallets scan to pay the request.
func (r TransferRequest) URI() string {
	uri := "ton://transfer/" + r.Address

	q := url.Values{}
	if r.Amount != nil && r.Amount.Sign() > 0 {
		q.Set("amount", r.Amount.String())
	}
	if r.Text != "" {
		q.Set("text", r.Text)
	}
	if len(q) > 0 {
		uri += "?" + q.Encode()
	}
	return uri
}

// QRConfig configures QR code rendering.
type QRConfig struct {
	Level     qr.Level
	QuietZone int
	// HalfBlocks packs two module rows per text line.
	HalfBlocks bool
}

// DefaultQRConfig returns compact settings for terminal rendering.
func DefaultQRConfig() QRConfig {
	return QRConfig{
		Level:      qr.L,
		QuietZone:  1,
		HalfBlocks: true,
	}
}

// RenderQR draws data as a QR code when w is a terminal and reports
// whether anything was drawn.
func RenderQR(w io.Writer, data string, cfg QRConfig) bool {
	if !IsTerminal(w) {
		return false
	}

	qrterminal.GenerateWithConfig(data, qrterminal.Config{
		Level:          cfg.Level,
		Writer:         w,
		QuietZone:      cfg.QuietZone,
		HalfBlocks:     cfg.HalfBlocks,
		BlackChar:      qrterminal.BLACK_BLACK,
		WhiteChar:      qrterminal.WHITE_WHITE,
		WhiteBlackChar: qrterminal.WHITE_BLACK,
		BlackWhiteChar: qrterminal.BLACK_WHITE,
	})
	return true
}
