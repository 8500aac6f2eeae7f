package errors

// Exit codes returned by the publish binary.
const (
	// ExitSuccess indicates the release completed.
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError = 1

	// ExitConfigError indicates invalid flags, config file or manifest.
	ExitConfigError = 2

	// ExitVerificationFailed indicates a pre-release check failed.
	ExitVerificationFailed = 3

	// ExitRepoParseError indicates the GitHub repository could not be determined.
	ExitRepoParseError = 4

	// ExitStepFailed indicates a pipeline step failed after checks passed.
	ExitStepFailed = 5

	// ExitInputRequired indicates input was needed in a non-interactive session.
	ExitInputRequired = 6

	// ExitInterrupted is used when the process is stopped by SIGINT.
	ExitInterrupted = 130
)

// ExitCodeName returns the name of the exit code.
func ExitCodeName(code int) string {
	switch code {
	case ExitSuccess:
		return "Success"
	case ExitGeneralError:
		return "General Error"
	case ExitConfigError:
		return "Configuration Error"
	case ExitVerificationFailed:
		return "Verification Failed"
	case ExitRepoParseError:
		return "Repository Parse Error"
	case ExitStepFailed:
		return "Step Failed"
	case ExitInputRequired:
		return "Input Required"
	case ExitInterrupted:
		return "Interrupted"
	default:
		return "Unknown"
	}
}
