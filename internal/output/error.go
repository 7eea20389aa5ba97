package output

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	sigilerr "github.com/mrz1836/tonsigil/pkg/errors"
)

// ErrorOutput represents a structured error for JSON output.
type ErrorOutput struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error details.
type ErrorDetail struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	Suggestion string            `json:"suggestion,omitempty"`
	ExitCode   int               `json:"exit_code"`
}

// NewErrorDetail flattens err for display.
func NewErrorDetail(err error) ErrorDetail {
	var se *sigilerr.SigilError
	if !errors.As(err, &se) {
		return ErrorDetail{Code: sigilerr.Code(err), Message: err.Error(), ExitCode: sigilerr.ExitCode(err)}
	}

	msg := se.Message
	if se.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, se.Cause)
	}
	return ErrorDetail{
		Code:       se.Code,
		Message:    msg,
		Details:    se.Details,
		Suggestion: se.Suggestion,
		ExitCode:   se.ExitCode,
	}
}

// FormatError formats an error for display.
func FormatError(w io.Writer, err error, format Format) error {
	if err == nil {
		return nil
	}

	detail := NewErrorDetail(err)
	if format == FormatJSON {
		return writeJSON(w, ErrorOutput{Error: detail})
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Error: %s\n", detail.Message)

	if len(detail.Details) > 0 {
		sb.WriteString("\nDetails:\n")
		for _, k := range slices.Sorted(maps.Keys(detail.Details)) {
			fmt.Fprintf(&sb, "  %s: %s\n", k, detail.Details[k])
		}
	}

	if detail.Suggestion != "" {
		fmt.Fprintf(&sb, "\nSuggestion: %s\n", detail.Suggestion)
	}

	_, writeErr := io.WriteString(w, sb.String())
	return writeErr
}
