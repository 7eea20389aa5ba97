package chain

import (
	"math/big"
	"strings"

	sigilerr "github.com/mrz1836/tonsigil/pkg/errors"
)

// NanotonDecimals is the number of decimal places in one TON.
const NanotonDecimals = 9

// FormatTON renders nanotons as TON, keeping at least one fractional
// digit: 1500000000 is "1.5" and 2000000000 is "2.0".
func FormatTON(nanotons *big.Int) string {
	if nanotons == nil {
		return "0"
	}
	if nanotons.Sign() < 0 {
		return "-" + FormatTON(new(big.Int).Neg(nanotons))
	}

	digits := nanotons.String()
	if pad := NanotonDecimals + 1 - len(digits); pad > 0 {
		digits = strings.Repeat("0", pad) + digits
	}
	whole, frac := digits[:len(digits)-NanotonDecimals], strings.TrimRight(digits[len(digits)-NanotonDecimals:], "0")
	if frac == "" {
		frac = "0"
	}
	return whole + "." + frac
}

// ParseTON parses a non-negative decimal TON amount such as "1.25" into
// nanotons. At most nine fractional digits are accepted.
func ParseTON(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	if s == "" || s == "." || len(frac) > NanotonDecimals || !isDigits(whole) || !isDigits(frac) {
		return nil, sigilerr.WithDetails(sigilerr.ErrInvalidInput, map[string]string{"amount": s})
	}

	frac += strings.Repeat("0", NanotonDecimals-len(frac))
	nanotons, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, sigilerr.WithDetails(sigilerr.ErrInvalidInput, map[string]string{"amount": s})
	}
	return nanotons, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
