//nolint:revive // Package name matches the package it tests
package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors(t *testing.T) {
	all := []error{ErrConfig, ErrVerification, ErrRepoParse, ErrStepExecution, ErrInteractiveRequired, ErrInvalidVersion}
	for i := range all {
		for j := range all {
			if i != j {
				assert.NotErrorIs(t, all[i], all[j])
			}
		}
	}
}

func TestDetailErrorError(t *testing.T) {
	detail := &DetailError{
		Type:     "verification failed",
		Message:  "not on the release branch",
		Location: "/work/repo",
		Context:  map[string]string{"Expected": "main", "Current": "feature"},
		Hint:     "git checkout main",
	}

	output := detail.Error()

	assert.Contains(t, output, "verification failed: not on the release branch")
	assert.Contains(t, output, "Location: /work/repo")
	assert.Contains(t, output, "Current: feature")
	assert.Contains(t, output, "Expected: main")
	assert.Contains(t, output, "Hint: git checkout main")
	assert.Less(t, strings.Index(output, "Current"), strings.Index(output, "Expected"), "context keys are sorted")
}

func TestDetailErrorUnwrap(t *testing.T) {
	detail := &DetailError{
		Type:    "test",
		Message: "test message",
		Cause:   ErrVerification,
	}

	assert.True(t, errors.Is(detail, ErrVerification))
	assert.Equal(t, ErrVerification, detail.Unwrap())
}

func TestNewRepoParseError(t *testing.T) {
	err := NewRepoParseError("https://gitlab.com/a/b")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRepoParse))

	var detail *DetailError
	require.True(t, errors.As(err, &detail))
	assert.Equal(t, "https://gitlab.com/a/b", detail.Location)
	assert.NotEmpty(t, detail.Hint)
}

func TestWrapStep(t *testing.T) {
	cause := fmt.Errorf("exit status 1")
	wrapped := WrapStep(cause, "install dependencies")

	assert.True(t, errors.Is(wrapped, ErrStepExecution))
	assert.True(t, errors.Is(wrapped, cause))
	assert.Contains(t, wrapped.Error(), "install dependencies")
}

func TestExitCodeFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: ExitSuccess},
		{name: "config", err: NewConfigError("bad", "package.json", ""), want: ExitConfigError},
		{name: "invalid version", err: fmt.Errorf("%s: %w", "x.y", ErrInvalidVersion), want: ExitConfigError},
		{name: "verification", err: NewVerificationError("dirty", nil, ""), want: ExitVerificationFailed},
		{name: "repo parse", err: NewRepoParseError("x"), want: ExitRepoParseError},
		{name: "input required", err: NewInputRequiredError("token", ""), want: ExitInputRequired},
		{name: "step", err: WrapStep(errors.New("boom"), "publish"), want: ExitStepFailed},
		{name: "explicit exit error", err: NewExitError(errors.New("x"), 42), want: 42},
		{name: "unknown", err: errors.New("other"), want: ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeFromError(tt.err))
		})
	}
}

func TestExitCodeName(t *testing.T) {
	assert.Equal(t, "Success", ExitCodeName(ExitSuccess))
	assert.Equal(t, "Verification Failed", ExitCodeName(ExitVerificationFailed))
	assert.Equal(t, "Unknown", ExitCodeName(99))
}
