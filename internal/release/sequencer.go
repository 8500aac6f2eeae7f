package release

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/relkit/publish/internal/bump"
	"github.com/relkit/publish/internal/config"
	oerrors "github.com/relkit/publish/internal/errors"
	"github.com/relkit/publish/internal/forge"
	"github.com/relkit/publish/internal/output"
)

// EnvCI marks a non-interactive CI environment when set.
const EnvCI = "CI"

// Sequencer executes one release.
type Sequencer struct {
	cfg  *config.ReleaseConfig
	deps Deps

	// Run state, filled by prepare and the steps.
	manifest  *config.Manifest
	repo      forge.Identity
	kind      bump.Kind
	versions  bump.VersionPair
	branch    string
	pm        PackageManager
	token     string
	forge     Forge
	notes     string
	releaseID int64
}

// New creates a Sequencer. cfg is not modified.
func New(cfg *config.ReleaseConfig, deps Deps) *Sequencer {
	if deps.Getenv == nil {
		deps.Getenv = os.Getenv
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Sequencer{cfg: cfg, deps: deps}
}

// Run releases the project. kind may be empty, in which case the user is
// asked to pick one. The first failing step aborts the run; completed steps
// are not rolled back.
func (s *Sequencer) Run(ctx context.Context, kind bump.Kind) (*Summary, error) {
	if err := s.prepare(ctx, kind); err != nil {
		return nil, err
	}

	summary := &Summary{
		Kind:     s.kind,
		Versions: s.versions,
		Repo:     s.repo,
		Tag:      forge.TagName(s.versions.New),
		DryRun:   s.cfg.DryRun,
	}

	for _, st := range s.steps() {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		if !st.shouldRun(s.cfg) {
			output.Debug("step skipped", "step", st.name)
			summary.Steps = append(summary.Steps, output.StepSummary{Name: st.name, Status: output.StatusSkipped})
			continue
		}

		if st.title != "" {
			output.Step(st.title)
		}

		detail, err := st.run(s, ctx)
		if err != nil {
			summary.Steps = append(summary.Steps, output.StepSummary{Name: st.name, Status: output.StatusFailed})
			return summary, stepError(st.name, err)
		}

		status := output.StatusDone
		if st.mutating && s.cfg.DryRun {
			status = output.StatusDryRun
		}
		summary.Steps = append(summary.Steps, output.StepSummary{Name: st.name, Status: status, Detail: detail})
	}

	summary.ReleaseID = s.releaseID
	return summary, nil
}

// prepare resolves everything the steps need before anything is changed.
func (s *Sequencer) prepare(ctx context.Context, kind bump.Kind) error {
	manifest, err := config.LoadManifest(s.deps.Fs)
	if err != nil {
		return err
	}
	s.manifest = manifest

	repo, err := forge.ResolveIdentity(manifest.Repository, s.deps.VCS.OriginURL)
	if err != nil {
		return err
	}
	s.repo = repo

	if kind == "" {
		opts, err := bump.Options(manifest.Version)
		if err != nil {
			return err
		}
		kind, err = s.deps.Prompt.SelectBump(ctx, manifest.Version, opts)
		if err != nil {
			return err
		}
	}
	s.kind = kind

	versions, err := bump.Resolve(manifest.Version, kind)
	if err != nil {
		return err
	}
	s.versions = versions

	output.Info(fmt.Sprintf("Releasing %s %s -> %s",
		output.Noun(packageName(manifest)), versions.Current, output.Noun(versions.New)),
		"bump", kind,
		"repo", output.Dim(repo.String()),
	)
	if kind.IsPre() && !s.cfg.SkipPublish && s.cfg.NpmTag == "latest" {
		output.Warn("Publishing a prerelease under the latest dist-tag", "hint", "pass --npm-tag next")
	}
	if s.cfg.DryRun {
		output.Info("Dry run: mutating actions are logged, not performed")
	}

	return nil
}

func packageName(m *config.Manifest) string {
	if m.Name == "" {
		return "package"
	}
	return m.Name
}

// currentBranch reads the checked out branch once.
func (s *Sequencer) currentBranch() (string, error) {
	if s.branch != "" {
		return s.branch, nil
	}
	b, err := s.deps.VCS.CurrentBranch()
	if err != nil {
		return "", err
	}
	s.branch = b
	return b, nil
}

func (s *Sequencer) ci() bool {
	return s.deps.Getenv(EnvCI) != ""
}

// stepError keeps errors that already carry a category and marks the rest
// as step failures.
func stepError(step string, err error) error {
	for _, sentinel := range []error{
		oerrors.ErrVerification,
		oerrors.ErrConfig,
		oerrors.ErrRepoParse,
		oerrors.ErrInteractiveRequired,
		oerrors.ErrStepExecution,
		context.Canceled,
	} {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	return oerrors.WrapStep(err, step)
}
