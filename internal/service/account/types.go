package account

import (
	"github.com/mrz1836/tonsigil/internal/account"
	"github.com/mrz1836/tonsigil/internal/chain"
	"github.com/mrz1836/tonsigil/internal/service/wallet"
)

// CreateRequest contains parameters for creating a wallet.
type CreateRequest struct {
	Network chain.Network
	// Mnemonic is the phrase to provision. Empty generates a new one.
	Mnemonic string
	// Password overrides the service's password source.
	Password PasswordFunc
}

// ImportRequest contains parameters for importing a wallet.
type ImportRequest struct {
	Network chain.Network
	// Input is the phrase as typed or pasted by the user.
	Input    string
	Password PasswordFunc
}

// Outcome is a provisioned wallet and the account it was saved into.
type Outcome struct {
	*wallet.Result
	State *account.State
	// Mnemonic is the provisioned phrase. Set only for created wallets so
	// the caller can show it once.
	Mnemonic []string
}

// Prompts shown to the password source.
const (
	PromptNewPassword    = "Enter password to encrypt the wallet: "
	PromptRevealPassword = "Enter wallet password: "
)
