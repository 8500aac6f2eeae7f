// Package release runs the release pipeline: it resolves the new version
// and executes the ordered, individually skippable release steps.
package release

import (
	"context"
	"time"

	"github.com/spf13/afero"

	"github.com/relkit/publish/internal/bump"
	"github.com/relkit/publish/internal/forge"
	"github.com/relkit/publish/internal/git"
	"github.com/relkit/publish/internal/output"
	"github.com/relkit/publish/internal/pkgmgr"
	"github.com/relkit/publish/internal/prompt"
)

// VCS is the version control client.
type VCS interface {
	CurrentBranch() (string, error)
	DirtyFiles() ([]string, error)
	OriginURL() (string, error)
	CommitAll(message string, author git.Author) (string, error)
	Tag(name string) error
	HasTag(name string) (bool, error)
	Push(ctx context.Context, remote, branch string) error
	PushTags(ctx context.Context, remote string) error
}

// PackageManager runs package manager commands.
type PackageManager interface {
	Name() pkgmgr.Name
	Install(ctx context.Context) error
	RunScript(ctx context.Context, script string) error
	BumpVersion(ctx context.Context, kind string) error
	Publish(ctx context.Context, opts pkgmgr.PublishOptions) error
}

// Forge is the GitHub API client.
type Forge interface {
	VerifyToken(ctx context.Context) error
	CreateRelease(ctx context.Context, req forge.ReleaseRequest) (int64, error)
	UploadAsset(ctx context.Context, releaseID int64, name string) error
}

// Deps are the collaborators of a Sequencer.
type Deps struct {
	// Fs is rooted at the project directory.
	Fs afero.Fs

	VCS VCS

	// NewPackageManager builds the client for the detected manager.
	NewPackageManager func(name pkgmgr.Name) PackageManager

	// NewForge builds an authenticated GitHub client.
	NewForge func(token string, repo forge.Identity) (Forge, error)

	Prompt prompt.Provider

	// TokenHelper asks the gh CLI for a token. May be nil.
	TokenHelper func(ctx context.Context) (string, error)

	// Getenv reads the environment. Defaults to os.Getenv.
	Getenv func(string) string

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Summary describes a finished run.
type Summary struct {
	Kind      bump.Kind
	Versions  bump.VersionPair
	Repo      forge.Identity
	Tag       string
	ReleaseID int64
	DryRun    bool
	Steps     []output.StepSummary
}
