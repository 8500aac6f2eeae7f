package forge

import (
	"context"
	"strings"

	oerrors "github.com/relkit/publish/internal/errors"
	"github.com/relkit/publish/internal/output"
)

// TokenEnvVar is the environment variable holding a GitHub token.
const TokenEnvVar = "GITHUB_TOKEN"

// TokenSources lists where ResolveToken may find a token, in order.
type TokenSources struct {
	// Flag is the value of --github-token.
	Flag string

	// Getenv reads the environment.
	Getenv func(string) string

	// Helper asks a local credential helper (gh auth token).
	Helper func(ctx context.Context) (string, error)

	// DryRun allows continuing with an empty token.
	DryRun bool

	// CI forbids prompting.
	CI bool

	// Prompt asks the user for a secret.
	Prompt func(ctx context.Context, message string) (string, error)
}

// ResolveToken finds a GitHub token: flag, environment, credential helper,
// an empty placeholder under dry-run, and finally a masked prompt. In CI the
// prompt is replaced by an error.
func ResolveToken(ctx context.Context, src TokenSources) (string, error) {
	if src.Flag != "" {
		output.Debug("using GitHub token from flag")
		return src.Flag, nil
	}

	if src.Getenv != nil {
		if t := strings.TrimSpace(src.Getenv(TokenEnvVar)); t != "" {
			output.Debug("using GitHub token from environment")
			return t, nil
		}
	}

	if src.Helper != nil {
		t, err := src.Helper(ctx)
		if err == nil && strings.TrimSpace(t) != "" {
			output.Debug("using GitHub token from gh CLI")
			return strings.TrimSpace(t), nil
		}
		if err != nil {
			output.Debug("gh CLI did not provide a token", "err", err)
		}
	}

	if src.DryRun {
		output.Info("No GitHub token provided. During a real run it will be asked interactively.")
		return "", nil
	}

	if src.CI || src.Prompt == nil {
		return "", oerrors.NewInputRequiredError(
			"no GitHub token provided",
			"set GITHUB_TOKEN or pass --github-token",
		)
	}

	t, err := src.Prompt(ctx, "Enter a GitHub token to create the release")
	if err != nil {
		return "", err
	}

	t = strings.TrimSpace(t)
	if t == "" {
		return "", oerrors.NewInputRequiredError("no GitHub token entered", "set GITHUB_TOKEN or pass --github-token")
	}

	return t, nil
}
