// Package cmdtypes provides shared types for the cmd package and its sub-packages.
// It is separate from internal/cmd to avoid import cycles between internal/cmd
// and internal/cmd/config.
package cmdtypes

import (
	"os"

	"github.com/spf13/afero"

	oerrors "github.com/relkit/publish/internal/errors"
)

// GlobalConfig holds CLI-wide state resolved during PersistentPreRunE and
// passed explicitly into every sub-command constructor.
type GlobalConfig struct {
	// Dir is the project directory. Defaults to the working directory.
	Dir string

	// Fs is rooted at Dir.
	Fs afero.Fs

	// Getenv reads the environment. Defaults to os.Getenv.
	Getenv func(string) string
}

// ProjectFs returns Fs, creating a filesystem rooted at Dir when unset.
// Paths cannot leave Dir; config.Validate rejects ones that try.
func (g *GlobalConfig) ProjectFs() (afero.Fs, error) {
	if g.Fs != nil {
		return g.Fs, nil
	}

	if g.Dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		g.Dir = wd
	}

	g.Fs = afero.NewBasePathFs(afero.NewOsFs(), g.Dir)
	return g.Fs, nil
}

// Env reads an environment variable through Getenv.
func (g *GlobalConfig) Env(key string) string {
	if g.Getenv == nil {
		return os.Getenv(key)
	}
	return g.Getenv(key)
}

// Exit codes, aliased from internal/errors.
const (
	ExitSuccess            = oerrors.ExitSuccess
	ExitGeneralError       = oerrors.ExitGeneralError
	ExitConfigError        = oerrors.ExitConfigError
	ExitVerificationFailed = oerrors.ExitVerificationFailed
	ExitRepoParseError     = oerrors.ExitRepoParseError
	ExitStepFailed         = oerrors.ExitStepFailed
	ExitInputRequired      = oerrors.ExitInputRequired
	ExitInterrupted        = oerrors.ExitInterrupted
)

// ExitError is a type alias to internal/errors.ExitError.
type ExitError = oerrors.ExitError
