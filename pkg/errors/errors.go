// Package errors provides structured error handling for tonsigil.
// Every failure the CLI reports carries a stable code, an exit code and
// optional details and suggestion for the operator.
//
//nolint:revive // Package name intentionally shadows stdlib for domain-specific error handling
package errors

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Exit codes returned by the CLI.
const (
	ExitSuccess  = 0 // Successful execution
	ExitGeneral  = 1 // General/unknown error
	ExitInput    = 2 // Invalid input
	ExitAuth     = 3 // Password missing or wrong
	ExitNotFound = 4 // Resource not found
)

const generalCode = "GENERAL_ERROR"

// SigilError is the structured error type for tonsigil.
type SigilError struct {
	Code       string            // Machine-readable error code
	Message    string            // Human-readable message
	Details    map[string]string // Additional context, printed in key order
	Suggestion string            // Actionable suggestion for user
	Cause      error             // Underlying error
	ExitCode   int               // Exit code for CLI
}

func (e *SigilError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)
	for _, k := range slices.Sorted(maps.Keys(e.Details)) {
		fmt.Fprintf(&sb, " (%s: %s)", k, e.Details[k])
	}
	if e.Cause != nil {
		fmt.Fprintf(&sb, ": %v", e.Cause)
	}
	return sb.String()
}

func (e *SigilError) Unwrap() error {
	return e.Cause
}

// Is matches any SigilError carrying the same code.
func (e *SigilError) Is(target error) bool {
	var t *SigilError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Sentinel errors.
var (
	ErrGeneral = sentinel(generalCode, "an error occurred", ExitGeneral)

	ErrInvalidInput = sentinel("INVALID_INPUT", "invalid input", ExitInput)

	// ErrPasswordUnavailable means no password could be obtained (prompt
	// canceled, empty input, or no password configured).
	ErrPasswordUnavailable = sentinel("PASSWORD_UNAVAILABLE", "password unavailable", ExitAuth)

	ErrInvalidMnemonic  = sentinel("INVALID_MNEMONIC", "invalid mnemonic phrase", ExitInput)
	ErrEncryptionFailed = sentinel("ENCRYPTION_FAILED", "failed to encrypt mnemonic", ExitGeneral)
	ErrDecryptionFailed = sentinel("DECRYPTION_FAILED", "decryption failed - wrong password or corrupted data", ExitAuth)
	ErrNetworkError     = sentinel("NETWORK_ERROR", "network communication failed", ExitGeneral)

	// ErrDuplicateWallet is returned when an import resolves to an address
	// that is already part of the account.
	ErrDuplicateWallet = sentinel("DUPLICATE_WALLET", "wallet already connected", ExitInput)

	ErrWalletNotFound      = sentinel("WALLET_NOT_FOUND", "wallet not found", ExitNotFound)
	ErrInvalidAddress      = sentinel("INVALID_ADDRESS", "invalid address format", ExitInput)
	ErrUnknownVersion      = sentinel("UNKNOWN_VERSION", "unknown wallet contract version", ExitInput)
	ErrUnknownNetwork      = sentinel("UNKNOWN_NETWORK", "unknown network", ExitInput)
	ErrAccountStateInvalid = sentinel("ACCOUNT_STATE_INVALID", "account state is inconsistent", ExitGeneral)
	ErrConfigInvalid       = sentinel("CONFIG_INVALID", "configuration is invalid", ExitInput)
)

func sentinel(code, message string, exit int) *SigilError {
	return &SigilError{Code: code, Message: message, ExitCode: exit}
}

// New creates a new SigilError with the given code and message.
func New(code, message string) *SigilError {
	return sentinel(code, message, ExitGeneral)
}

// derive returns a copy of the first SigilError in err's chain. A plain
// error becomes a GENERAL_ERROR whose message and cause are err itself.
func derive(err error) *SigilError {
	var se *SigilError
	if errors.As(err, &se) {
		cp := *se
		cp.Details = maps.Clone(se.Details)
		return &cp
	}
	return &SigilError{Code: generalCode, Message: err.Error(), Cause: err, ExitCode: ExitGeneral}
}

// Wrap prefixes err with a formatted context message. The result keeps
// the code and exit code of err and unwraps to err.
func Wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)

	var se *SigilError
	if !errors.As(err, &se) {
		return &SigilError{Code: generalCode, Message: msg, Cause: err, ExitCode: ExitGeneral}
	}
	out := derive(err)
	out.Message = msg + ": " + se.Message
	out.Cause = err
	return out
}

// WithCause attaches an underlying cause to a sentinel error while keeping
// its code, so errors.Is matches both the sentinel and the cause.
func WithCause(sentinel *SigilError, cause error) error {
	if cause == nil {
		return sentinel
	}
	out := derive(sentinel)
	out.Cause = cause
	return out
}

// WithDetails merges details into err. Keys already present are replaced.
func WithDetails(err error, details map[string]string) error {
	if err == nil {
		return nil
	}
	out := derive(err)
	if out.Details == nil {
		out.Details = make(map[string]string, len(details))
	}
	maps.Copy(out.Details, details)
	return out
}

// WithSuggestion sets the operator-facing hint on err.
func WithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}
	out := derive(err)
	out.Suggestion = suggestion
	return out
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var se *SigilError
	if errors.As(err, &se) {
		return se.ExitCode
	}
	return ExitGeneral
}

// Code returns the error code for an error.
func Code(err error) string {
	var se *SigilError
	if errors.As(err, &se) {
		return se.Code
	}
	return generalCode
}
