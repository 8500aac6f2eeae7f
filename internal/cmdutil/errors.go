package cmdutil

import (
	"context"
	"errors"
	"sort"

	oerrors "github.com/relkit/publish/internal/errors"
	"github.com/relkit/publish/internal/output"
	"github.com/relkit/publish/internal/prompt"
)

// ExitCode maps an error to the process exit code.
func ExitCode(err error) int {
	if errors.Is(err, prompt.ErrAborted) || errors.Is(err, context.Canceled) {
		return oerrors.ExitInterrupted
	}
	return oerrors.ExitCodeFromError(err)
}

// ReportError logs err and wraps it in an ExitError marked as printed.
// Errors that are already ExitErrors are returned unchanged.
func ReportError(err error) error {
	if err == nil {
		return nil
	}

	var exitErr *oerrors.ExitError
	if errors.As(err, &exitErr) {
		return err
	}

	code := ExitCode(err)
	PrintError(err)
	output.Debug("exiting", "code", code, "reason", oerrors.ExitCodeName(code))

	exitErr = oerrors.NewExitError(err, code)
	exitErr.Printed = true
	return exitErr
}

// PrintError logs err. Detail errors are logged as a message with their
// location and context as key-value pairs, followed by the hint.
func PrintError(err error) {
	var detail *oerrors.DetailError
	if !errors.As(err, &detail) {
		output.Error(err.Error())
		return
	}

	keyvals := []interface{}{}
	if detail.Location != "" {
		keyvals = append(keyvals, "location", detail.Location)
	}

	keys := make([]string, 0, len(detail.Context))
	for k := range detail.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		keyvals = append(keyvals, k, detail.Context[k])
	}

	output.Error(detail.Type+": "+detail.Message, keyvals...)
	if detail.Hint != "" {
		output.Info("hint: " + detail.Hint)
	}
}
