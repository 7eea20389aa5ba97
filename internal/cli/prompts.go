package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/mrz1836/tonsigil/internal/config"
	sigilerr "github.com/mrz1836/tonsigil/pkg/errors"
)

// minPasswordLength is the shortest password accepted for new wallets.
const minPasswordLength = 8

// Prompt functions are variables so tests can replace them.
//
//nolint:gochecknoglobals // test seams
var (
	promptPasswordFn    = promptPassword
	promptNewPasswordFn = promptNewPassword
	promptMnemonicFn    = promptMnemonic
)

// stdinIsTerminal reports whether hidden input can be read from stdin.
//
//nolint:gochecknoglobals // test seam
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) //nolint:gosec // fd fits in int
}

// readTerminalPassword reads a line from stdin with echo disabled.
//
//nolint:gochecknoglobals // test seam
var readTerminalPassword = func() ([]byte, error) {
	return term.ReadPassword(int(os.Stdin.Fd())) //nolint:gosec // fd fits in int
}

// passwordUnavailable is returned when no interactive password source exists.
func passwordUnavailable() error {
	return sigilerr.WithSuggestion(
		sigilerr.ErrPasswordUnavailable,
		fmt.Sprintf("run in a terminal or set %s", config.EnvPassword),
	)
}

// readHidden reads one line from the terminal without echo.
func readHidden(prompt string) (string, error) {
	out(os.Stderr, "%s", prompt)
	raw, err := readTerminalPassword()
	outln(os.Stderr) // Add newline after hidden input
	if err != nil {
		return "", sigilerr.WithCause(sigilerr.ErrPasswordUnavailable, err)
	}

	defer clear(raw)
	return string(raw), nil
}

// promptPassword returns the password from the environment or a hidden
// terminal prompt.
func promptPassword(prompt string) (string, error) {
	if pw := os.Getenv(config.EnvPassword); pw != "" {
		return pw, nil
	}
	if !stdinIsTerminal() {
		return "", passwordUnavailable()
	}
	return readHidden(prompt)
}

// promptNewPassword asks for a password twice and enforces the minimum
// length. The environment variable skips confirmation.
func promptNewPassword(prompt string) (string, error) {
	if pw := os.Getenv(config.EnvPassword); pw != "" {
		return pw, nil
	}
	if !stdinIsTerminal() {
		return "", passwordUnavailable()
	}

	password, err := readHidden(prompt)
	if err != nil {
		return "", err
	}
	if len(password) < minPasswordLength {
		return "", sigilerr.WithSuggestion(
			sigilerr.ErrInvalidInput,
			fmt.Sprintf("password must be at least %d characters", minPasswordLength),
		)
	}

	confirm, err := readHidden("Confirm password: ")
	if err != nil {
		return "", err
	}
	if password != confirm {
		return "", sigilerr.WithSuggestion(sigilerr.ErrInvalidInput, "passwords do not match")
	}
	return password, nil
}

// promptMnemonic reads the phrase to import. A terminal gets a hidden
// prompt; piped input is read up to the first newline.
func promptMnemonic(in io.Reader) (string, error) {
	if in == os.Stdin && stdinIsTerminal() {
		outln(os.Stderr, "Enter your 24-word mnemonic, words separated by spaces.")
		return readHidden("Mnemonic: ")
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF { //nolint:errorlint // io.EOF is returned unwrapped
		return "", sigilerr.Wrap(err, "reading mnemonic")
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", sigilerr.WithSuggestion(sigilerr.ErrInvalidInput, "no mnemonic provided")
	}
	return line, nil
}
