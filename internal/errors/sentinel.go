package errors

import "errors"

// Sentinel errors for known conditions.
var (
	// ErrConfig indicates unreadable or invalid configuration or manifest.
	ErrConfig = errors.New("configuration error")

	// ErrVerification indicates a pre-release check failed (branch, clean tree, token scope).
	ErrVerification = errors.New("verification failed")

	// ErrRepoParse indicates the repository URL does not point at a GitHub repository.
	ErrRepoParse = errors.New("repository url not recognized")

	// ErrStepExecution indicates an external command or API call failed during a step.
	ErrStepExecution = errors.New("step failed")

	// ErrInteractiveRequired indicates input is needed but prompting is not allowed.
	ErrInteractiveRequired = errors.New("interactive input required")

	// ErrInvalidVersion indicates a version string is not valid semver.
	ErrInvalidVersion = errors.New("invalid version")
)
