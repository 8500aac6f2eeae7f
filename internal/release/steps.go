package release

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/relkit/publish/internal/bump"
	"github.com/relkit/publish/internal/changelog"
	"github.com/relkit/publish/internal/config"
	oerrors "github.com/relkit/publish/internal/errors"
	"github.com/relkit/publish/internal/forge"
	"github.com/relkit/publish/internal/git"
	"github.com/relkit/publish/internal/output"
	"github.com/relkit/publish/internal/pkgmgr"
)

// step is one entry of the pipeline.
type step struct {
	name  string
	title string

	// mutating steps only log their action under dry-run.
	mutating bool

	shouldRun func(cfg *config.ReleaseConfig) bool
	run       func(s *Sequencer, ctx context.Context) (string, error)
}

func always(*config.ReleaseConfig) bool { return true }

// steps returns the pipeline in execution order.
func (s *Sequencer) steps() []step {
	return []step{
		{
			name:      "package-manager",
			shouldRun: always,
			run:       (*Sequencer).resolvePackageManager,
		},
		{
			name:      "github-token",
			shouldRun: func(c *config.ReleaseConfig) bool { return !c.SkipGithubRelease },
			run:       (*Sequencer).resolveToken,
		},
		{
			name:      "verify-token",
			title:     "Verifying GitHub token",
			shouldRun: func(c *config.ReleaseConfig) bool { return !c.SkipGithubRelease },
			run:       (*Sequencer).verifyToken,
		},
		{
			name:      "verify-branch",
			title:     "Checking branch",
			shouldRun: func(c *config.ReleaseConfig) bool { return c.Branch != "" },
			run:       (*Sequencer).verifyBranch,
		},
		{
			name:      "verify-clean",
			title:     "Checking for uncommitted changes",
			shouldRun: always,
			run:       (*Sequencer).verifyClean,
		},
		{
			name:      "verify-tag",
			title:     "Checking release tag",
			shouldRun: func(c *config.ReleaseConfig) bool { return !c.SkipTag },
			run:       (*Sequencer).verifyTag,
		},
		{
			name:      "install",
			title:     "Installing dependencies",
			mutating:  true,
			shouldRun: func(c *config.ReleaseConfig) bool { return !c.SkipInstall },
			run:       (*Sequencer).install,
		},
		{
			name:     "pre-scripts",
			mutating: true,
			shouldRun: func(c *config.ReleaseConfig) bool {
				return !c.SkipPreScripts && len(pkgmgr.ParseScripts(c.PreScripts)) > 0
			},
			run: (*Sequencer).preScripts,
		},
		{
			name:      "release-notes",
			title:     "Loading release notes",
			shouldRun: always,
			run:       (*Sequencer).loadNotes,
		},
		{
			name:      "bump",
			title:     "Bumping version",
			mutating:  true,
			shouldRun: func(c *config.ReleaseConfig) bool { return !c.SkipBump },
			run:       (*Sequencer).bumpVersion,
		},
		{
			name:     "changelog",
			title:    "Updating the changelog",
			mutating: true,
			shouldRun: func(c *config.ReleaseConfig) bool {
				return !c.SkipChangelog && c.Changelog != ""
			},
			run: (*Sequencer).updateChangelog,
		},
		{
			name:      "commit",
			title:     "Committing changes",
			mutating:  true,
			shouldRun: func(c *config.ReleaseConfig) bool { return !c.SkipCommit },
			run:       (*Sequencer).commit,
		},
		{
			name:      "tag",
			title:     "Tagging release",
			mutating:  true,
			shouldRun: func(c *config.ReleaseConfig) bool { return !c.SkipTag && !c.SkipCommit },
			run:       (*Sequencer).tag,
		},
		{
			name:      "push",
			title:     "Pushing changes",
			mutating:  true,
			shouldRun: func(c *config.ReleaseConfig) bool { return !c.SkipPush },
			run:       (*Sequencer).push,
		},
		{
			name:      "publish",
			title:     "Publishing package",
			mutating:  true,
			shouldRun: func(c *config.ReleaseConfig) bool { return !c.SkipPublish },
			run:       (*Sequencer).publish,
		},
		{
			name:      "github-release",
			title:     "Creating GitHub release",
			mutating:  true,
			shouldRun: func(c *config.ReleaseConfig) bool { return !c.SkipGithubRelease },
			run:       (*Sequencer).createRelease,
		},
		{
			name:      "release-assets",
			mutating:  true,
			shouldRun: func(c *config.ReleaseConfig) bool { return c.ReleaseAssets != "" },
			run:       (*Sequencer).uploadAssets,
		},
	}
}

func (s *Sequencer) resolvePackageManager(_ context.Context) (string, error) {
	name, err := pkgmgr.Detect(s.deps.Fs, s.cfg.PackageManager)
	if err != nil {
		return "", err
	}
	s.pm = s.deps.NewPackageManager(name)
	output.Debug("using package manager", "manager", name)
	return string(name), nil
}

func (s *Sequencer) resolveToken(ctx context.Context) (string, error) {
	token, err := forge.ResolveToken(ctx, forge.TokenSources{
		Flag:   s.cfg.GithubToken,
		Getenv: s.deps.Getenv,
		Helper: s.deps.TokenHelper,
		DryRun: s.cfg.DryRun,
		CI:     s.ci(),
		Prompt: s.deps.Prompt.Secret,
	})
	if err != nil {
		return "", err
	}
	s.token = token

	if token == "" {
		return "none", nil
	}
	return "found", nil
}

func (s *Sequencer) verifyToken(ctx context.Context) (string, error) {
	if s.token == "" {
		output.Warn("no GitHub token, skipping token verification")
		return "no token", nil
	}

	f, err := s.deps.NewForge(s.token, s.repo)
	if err != nil {
		return "", err
	}
	s.forge = f

	if err := f.VerifyToken(ctx); err != nil {
		return "", err
	}
	return forge.RequiredScope + " scope", nil
}

func (s *Sequencer) verifyBranch(_ context.Context) (string, error) {
	current, err := s.currentBranch()
	if err != nil {
		return "", err
	}

	if current != s.cfg.Branch {
		return "", oerrors.NewVerificationError(
			fmt.Sprintf("releases must be cut from %q", s.cfg.Branch),
			map[string]string{"current": current, "expected": s.cfg.Branch},
			"check out the release branch or pass --branch",
		)
	}
	return current, nil
}

func (s *Sequencer) verifyClean(_ context.Context) (string, error) {
	files, err := s.deps.VCS.DirtyFiles()
	if err != nil {
		return "", err
	}

	if len(files) > 0 {
		shown := files
		if len(shown) > 10 {
			shown = append(shown[:10:10], fmt.Sprintf("... and %d more", len(files)-10))
		}
		return "", oerrors.NewVerificationError(
			"there are uncommitted changes",
			map[string]string{"files": strings.Join(shown, ", ")},
			"commit or stash your changes before releasing",
		)
	}
	return "clean", nil
}

func (s *Sequencer) verifyTag(_ context.Context) (string, error) {
	name := forge.TagName(s.versions.New)

	exists, err := s.deps.VCS.HasTag(name)
	if err != nil {
		return "", err
	}
	if exists {
		return "", oerrors.NewVerificationError(
			fmt.Sprintf("tag %s already exists", name),
			map[string]string{"tag": name},
			"choose another bump or delete the tag",
		)
	}
	return name, nil
}

func (s *Sequencer) install(ctx context.Context) (string, error) {
	return string(s.pm.Name()) + " install", s.pm.Install(ctx)
}

func (s *Sequencer) preScripts(ctx context.Context) (string, error) {
	scripts := pkgmgr.ParseScripts(s.cfg.PreScripts)
	for _, script := range scripts {
		output.Step("Running pre script: " + output.Noun(script))
		if err := s.pm.RunScript(ctx, script); err != nil {
			return "", fmt.Errorf("pre script %s: %w", script, err)
		}
	}
	return strings.Join(scripts, ", "), nil
}

func (s *Sequencer) loadNotes(_ context.Context) (string, error) {
	if s.cfg.ReleaseNotesSource == "" {
		output.Info("No release notes source provided, using empty notes")
		return "empty", nil
	}

	notes, err := changelog.LoadNotes(s.deps.Fs, s.cfg.ReleaseNotesSource)
	if err != nil {
		return "", err
	}
	s.notes = notes

	if s.cfg.DryRun {
		output.Skip("resetting " + output.Dim(s.cfg.ReleaseNotesSource))
	} else {
		output.Step("Resetting release notes file")
		if err := changelog.ResetNotes(s.deps.Fs, s.cfg.ReleaseNotesSource, s.cfg.ReleaseNotesTemplate); err != nil {
			return "", err
		}
	}

	body := notes
	if strings.TrimSpace(body) == "" {
		body = "(empty)"
	}
	output.Info("Release notes:\n" + body)

	return s.cfg.ReleaseNotesSource, nil
}

func (s *Sequencer) bumpVersion(ctx context.Context) (string, error) {
	detail := s.versions.Current + " -> " + s.versions.New
	return detail, s.pm.BumpVersion(ctx, string(s.kind))
}

func (s *Sequencer) updateChangelog(_ context.Context) (string, error) {
	path := s.cfg.Changelog

	ok, err := changelog.Exists(s.deps.Fs, path)
	if err != nil {
		return "", err
	}
	if !ok {
		output.Info("Changelog file does not exist, skipping", "path", path)
		return "missing", nil
	}

	heading := changelog.Heading(s.versions.New, s.versions.Current, s.repo, s.deps.Now())

	if s.cfg.DryRun {
		output.Skip("updating " + output.Dim(path))
		output.Debug("changelog heading", "heading", heading)
		return path, nil
	}

	return path, changelog.Prepend(s.deps.Fs, path, heading, s.notes)
}

func (s *Sequencer) commit(_ context.Context) (string, error) {
	msg := s.cfg.RenderCommitMessage(s.versions.New)

	if s.cfg.DryRun {
		output.Skip("commit " + output.Noun(msg))
		return msg, nil
	}

	hash, err := s.deps.VCS.CommitAll(msg, git.Author{Name: s.cfg.CommitAuthor, Email: s.cfg.CommitEmail})
	if err != nil {
		return "", err
	}
	output.Debug("committed", "hash", hash)
	return msg, nil
}

func (s *Sequencer) tag(_ context.Context) (string, error) {
	name := forge.TagName(s.versions.New)

	if s.cfg.DryRun {
		output.Skip("tag " + output.Noun(name))
		return name, nil
	}

	return name, s.deps.VCS.Tag(name)
}

func (s *Sequencer) push(ctx context.Context) (string, error) {
	branch, err := s.currentBranch()
	if err != nil {
		return "", err
	}

	if err := s.deps.VCS.Push(ctx, git.DefaultRemote, branch); err != nil {
		return "", err
	}
	if err := s.deps.VCS.PushTags(ctx, git.DefaultRemote); err != nil {
		return "", err
	}
	return git.DefaultRemote + "/" + branch, nil
}

func (s *Sequencer) publish(ctx context.Context) (string, error) {
	opts := pkgmgr.PublishOptions{
		DryRun: s.cfg.DryRun,
		Access: s.cfg.NpmAccess,
		Tag:    s.cfg.NpmTag,
		OTP:    s.cfg.OTP,
	}
	return "tag " + s.cfg.NpmTag, s.pm.Publish(ctx, opts)
}

func (s *Sequencer) releaseRequest() (forge.ReleaseRequest, error) {
	branch, err := s.currentBranch()
	if err != nil {
		return forge.ReleaseRequest{}, err
	}

	return forge.ReleaseRequest{
		Version:    s.versions.New,
		Target:     branch,
		Body:       s.notes,
		Draft:      s.cfg.DraftRelease,
		Prerelease: bump.IsPrerelease(s.versions.New),
	}, nil
}

func (s *Sequencer) createRelease(ctx context.Context) (string, error) {
	req, err := s.releaseRequest()
	if err != nil {
		return "", err
	}

	if s.cfg.DryRun {
		payload, _ := json.MarshalIndent(forge.NewRepositoryRelease(req), "", "  ")
		output.Skip("creating GitHub release")
		output.Info("GitHub release data:\n" + string(payload))
		return forge.TagName(req.Version), nil
	}

	if s.forge == nil {
		return "", fmt.Errorf("no GitHub client: token was not verified")
	}

	id, err := s.forge.CreateRelease(ctx, req)
	if err != nil {
		return "", err
	}
	s.releaseID = id
	return fmt.Sprintf("%s (id %d)", forge.TagName(req.Version), id), nil
}

func (s *Sequencer) uploadAssets(ctx context.Context) (string, error) {
	assets, err := forge.FindAssets(s.deps.Fs, s.cfg.ReleaseAssets)
	if err != nil {
		return "", err
	}

	if s.cfg.SkipGithubRelease {
		msg := fmt.Sprintf("uploading %d assets because the GitHub release is skipped", len(assets))
		if s.cfg.DryRun {
			output.Skip(msg)
		} else {
			output.Warn("Skipping " + msg)
		}
		return "no release", nil
	}

	if s.releaseID == 0 && !s.cfg.DryRun {
		output.Warn("Skipping asset upload because the GitHub release did not return an id")
		return "no release", nil
	}

	output.Info(fmt.Sprintf("Found %d assets to upload", len(assets)))

	for _, asset := range assets {
		if s.cfg.DryRun {
			output.Skip("asset upload of " + output.Dim(asset))
			continue
		}

		output.Step("Uploading " + output.Dim(asset))
		if err := s.forge.UploadAsset(ctx, s.releaseID, asset); err != nil {
			return "", err
		}
	}

	return fmt.Sprintf("%d assets", len(assets)), nil
}
