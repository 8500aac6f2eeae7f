// Package git reads and updates the project's git repository.
//
// Local operations go through go-git. Pushes shell out to the git binary so
// that the user's credential helpers and ssh agent apply.
package git

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/go-git/go-git/v5/plumbing/object"

	oerrors "github.com/relkit/publish/internal/errors"
	"github.com/relkit/publish/internal/runner"
)

// DefaultRemote is the remote pushed to.
const DefaultRemote = "origin"

// Author overrides the commit author. Empty fields fall back to git config.
type Author struct {
	Name  string
	Email string
}

// Repo is a git working copy.
type Repo struct {
	repo   *gogit.Repository
	root   string
	runner runner.Runner
	now    func() time.Time
}

// Open opens the repository containing dir. Pushes are executed with r.
func Open(dir string, r runner.Runner) (*Repo, error) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, oerrors.NewVerificationError(
			"not a git repository",
			map[string]string{"directory": dir},
			"run publish from inside the project's git working copy",
		)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("opening worktree: %w", err)
	}

	return &Repo{
		repo:   repo,
		root:   wt.Filesystem.Root(),
		runner: r,
		now:    time.Now,
	}, nil
}

// Root returns the top-level directory of the working copy.
func (r *Repo) Root() string {
	return r.root
}

// CurrentBranch returns the short name of the checked out branch.
func (r *Repo) CurrentBranch() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("reading HEAD: %w", err)
	}

	if !head.Name().IsBranch() {
		return "", oerrors.NewVerificationError(
			"HEAD is detached",
			map[string]string{"commit": head.Hash().String()},
			"check out the release branch",
		)
	}

	return head.Name().Short(), nil
}

// DirtyFiles lists modified, staged and untracked paths, sorted.
// An empty result means the working tree is clean.
func (r *Repo) DirtyFiles() ([]string, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("opening worktree: %w", err)
	}

	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("reading status: %w", err)
	}

	if status.IsClean() {
		return nil, nil
	}

	files := make([]string, 0, len(status))
	for path, s := range status {
		if s.Staging == gogit.Unmodified && s.Worktree == gogit.Unmodified {
			continue
		}
		files = append(files, path)
	}
	sort.Strings(files)

	return files, nil
}

// RemoteURL returns the first url of the named remote.
func (r *Repo) RemoteURL(name string) (string, error) {
	remote, err := r.repo.Remote(name)
	if err != nil {
		return "", fmt.Errorf("remote %q: %w", name, err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %q has no url", name)
	}

	return urls[0], nil
}

// OriginURL returns the url of the origin remote.
func (r *Repo) OriginURL() (string, error) {
	return r.RemoteURL(DefaultRemote)
}

// CommitAll stages every change, including untracked files, and commits it.
// It returns the new commit hash.
func (r *Repo) CommitAll(message string, author Author) (string, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("opening worktree: %w", err)
	}

	// AddOptions.All only honours Worktree.Excludes.
	patterns, err := gitignore.ReadPatterns(wt.Filesystem, nil)
	if err != nil {
		return "", fmt.Errorf("reading ignore patterns: %w", err)
	}
	wt.Excludes = append(wt.Excludes, patterns...)

	if err := wt.AddWithOptions(&gogit.AddOptions{All: true}); err != nil {
		return "", fmt.Errorf("staging changes: %w", err)
	}

	sig, err := r.signature(author)
	if err != nil {
		return "", err
	}

	hash, err := wt.Commit(message, &gogit.CommitOptions{Author: sig})
	if err != nil {
		return "", fmt.Errorf("committing: %w", err)
	}

	return hash.String(), nil
}

// signature merges the override with the user configured in git.
func (r *Repo) signature(author Author) (*object.Signature, error) {
	name, email := author.Name, author.Email

	if name == "" || email == "" {
		cfg, err := r.repo.ConfigScoped(config.SystemScope)
		if err == nil {
			if name == "" {
				name = firstNonEmpty(cfg.Author.Name, cfg.User.Name)
			}
			if email == "" {
				email = firstNonEmpty(cfg.Author.Email, cfg.User.Email)
			}
		}
	}

	if name == "" || email == "" {
		return nil, oerrors.NewConfigError(
			"commit author is not configured",
			"",
			"set git config user.name and user.email, or pass --commit-author and --commit-email",
		)
	}

	return &object.Signature{Name: name, Email: email, When: r.now()}, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// Tag creates a lightweight tag pointing at HEAD.
func (r *Repo) Tag(name string) error {
	head, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("reading HEAD: %w", err)
	}

	if _, err := r.repo.CreateTag(name, head.Hash(), nil); err != nil {
		if errors.Is(err, gogit.ErrTagExists) {
			return fmt.Errorf("tag %s already exists: %w", name, err)
		}
		return fmt.Errorf("creating tag %s: %w", name, err)
	}

	return nil
}

// HasTag reports whether the tag exists.
func (r *Repo) HasTag(name string) (bool, error) {
	_, err := r.repo.Reference(plumbing.NewTagReferenceName(name), false)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("looking up tag %s: %w", name, err)
	}
	return true, nil
}

// Push pushes branch to remote.
func (r *Repo) Push(ctx context.Context, remote, branch string) error {
	return r.runner.Run(ctx, runner.Command{
		Name:  "git",
		Args:  []string{"push", remote, branch},
		Dir:   r.root,
		Title: "Pushing " + branch,
	})
}

// PushTags pushes all tags to remote.
func (r *Repo) PushTags(ctx context.Context, remote string) error {
	return r.runner.Run(ctx, runner.Command{
		Name:  "git",
		Args:  []string{"push", remote, "--tags"},
		Dir:   r.root,
		Title: "Pushing tags",
	})
}
