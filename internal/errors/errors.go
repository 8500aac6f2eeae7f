// Package errors provides sentinel errors, detailed errors and exit codes
// for the publish CLI.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// DetailError captures structured error information for the terminal.
type DetailError struct {
	// Type is the error category (required).
	Type string

	// Message is the specific description (required).
	Message string

	// Location is a file path or URL the error refers to (optional).
	Location string

	// Context contains additional key-value context (optional).
	Context map[string]string

	// Hint provides actionable guidance (optional).
	Hint string

	// Cause is the underlying error (optional).
	Cause error
}

// Error implements the error interface.
func (e *DetailError) Error() string {
	var b strings.Builder

	b.WriteString(e.Type)
	b.WriteString(": ")
	b.WriteString(e.Message)

	if e.Location != "" {
		b.WriteString("\n  Location: ")
		b.WriteString(e.Location)
	}

	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString("\n  ")
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(e.Context[k])
	}

	if e.Hint != "" {
		b.WriteString("\nHint: ")
		b.WriteString(e.Hint)
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *DetailError) Unwrap() error {
	return e.Cause
}

// NewConfigError creates a configuration error with details.
func NewConfigError(message, location, hint string) error {
	return &DetailError{
		Type:     "invalid configuration",
		Message:  message,
		Location: location,
		Hint:     hint,
		Cause:    ErrConfig,
	}
}

// NewVerificationError creates a verification error with details.
func NewVerificationError(message string, context map[string]string, hint string) error {
	return &DetailError{
		Type:    "verification failed",
		Message: message,
		Context: context,
		Hint:    hint,
		Cause:   ErrVerification,
	}
}

// NewRepoParseError creates a repository parse error for the given URL.
func NewRepoParseError(url string) error {
	return &DetailError{
		Type:     "unsupported repository",
		Message:  "could not parse a GitHub owner and repository from the repository url",
		Location: url,
		Hint:     `set "repository" in package.json or the origin remote to a github.com url`,
		Cause:    ErrRepoParse,
	}
}

// NewInputRequiredError creates an error for a prompt that cannot be shown.
func NewInputRequiredError(message, hint string) error {
	return &DetailError{
		Type:    "input required",
		Message: message,
		Hint:    hint,
		Cause:   ErrInteractiveRequired,
	}
}

// WrapConfig wraps err as a configuration error.
func WrapConfig(err error, msg string) error {
	return fmt.Errorf("%s: %w: %w", msg, ErrConfig, err)
}

// WrapStep wraps err as a failure of the named pipeline step.
func WrapStep(err error, step string) error {
	return fmt.Errorf("%s: %w: %w", step, ErrStepExecution, err)
}

// ExitError wraps an error with an exit code.
type ExitError struct {
	Err  error
	Code int

	// Printed is set when the error has already been shown to the user.
	Printed bool
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given error and exit code.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{Err: err, Code: code}
}

// ExitCodeFromError determines the appropriate exit code for an error.
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	switch {
	case errors.Is(err, ErrConfig), errors.Is(err, ErrInvalidVersion):
		return ExitConfigError
	case errors.Is(err, ErrVerification):
		return ExitVerificationFailed
	case errors.Is(err, ErrRepoParse):
		return ExitRepoParseError
	case errors.Is(err, ErrInteractiveRequired):
		return ExitInputRequired
	case errors.Is(err, ErrStepExecution):
		return ExitStepFailed
	default:
		return ExitGeneralError
	}
}
