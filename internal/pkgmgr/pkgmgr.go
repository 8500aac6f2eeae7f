// Package pkgmgr drives the project's package manager (npm, yarn or pnpm).
package pkgmgr

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/afero"

	oerrors "github.com/relkit/publish/internal/errors"
	"github.com/relkit/publish/internal/output"
	"github.com/relkit/publish/internal/runner"
)

// Name identifies a package manager executable.
type Name string

const (
	NPM  Name = "npm"
	Yarn Name = "yarn"
	PNPM Name = "pnpm"

	// Auto selects the manager from the lock files present.
	Auto = "auto"
)

// lockFiles maps lock files to their manager, in detection order.
var lockFiles = []struct {
	file string
	name Name
}{
	{"yarn.lock", Yarn},
	{"pnpm-lock.yaml", PNPM},
}

// Valid reports whether s names a package manager or "auto".
func Valid(s string) bool {
	switch s {
	case "", Auto, string(NPM), string(Yarn), string(PNPM):
		return true
	default:
		return false
	}
}

// Detect returns the explicit override, or the manager whose lock file is
// present in fs, or npm.
func Detect(fs afero.Fs, override string) (Name, error) {
	if override != "" && override != Auto {
		if !Valid(override) {
			return "", oerrors.NewConfigError(
				fmt.Sprintf("unknown package manager %q", override),
				"",
				"use one of: auto, npm, yarn, pnpm",
			)
		}
		return Name(override), nil
	}

	for _, lf := range lockFiles {
		ok, err := afero.Exists(fs, lf.file)
		if err != nil {
			return "", fmt.Errorf("checking %s: %w", lf.file, err)
		}
		if ok {
			output.Debug("detected package manager", "manager", lf.name, "lockfile", lf.file)
			return lf.name, nil
		}
	}

	return NPM, nil
}

// PublishOptions are forwarded to the registry client.
type PublishOptions struct {
	DryRun bool
	Access string
	Tag    string
	OTP    string
}

// Manager runs package manager commands in the project directory.
type Manager struct {
	name   Name
	dir    string
	runner runner.Runner
}

// New creates a Manager for name, running commands in dir with r.
func New(name Name, dir string, r runner.Runner) *Manager {
	return &Manager{name: name, dir: dir, runner: r}
}

// Name returns the manager in use.
func (m *Manager) Name() Name {
	return m.name
}

// Install installs dependencies.
func (m *Manager) Install(ctx context.Context) error {
	return m.runner.Run(ctx, m.command(string(m.name), "Installing dependencies", "install"))
}

// RunScript runs a package.json script.
func (m *Manager) RunScript(ctx context.Context, script string) error {
	return m.runner.Run(ctx, m.command(string(m.name), "Running "+script, "run", script))
}

// BumpVersion rewrites the manifest version with npm, whatever the detected
// manager. Git is left alone.
func (m *Manager) BumpVersion(ctx context.Context, kind string) error {
	return m.runner.Run(ctx, m.command(string(NPM), "Bumping version",
		"version", kind, "--no-git-tag-version", "--no-commit-hooks"))
}

// Publish publishes the package with npm. It runs under dry-run as well,
// passing --dry-run so the registry client simulates the upload.
func (m *Manager) Publish(ctx context.Context, opts PublishOptions) error {
	c := m.command(string(NPM), "Publishing package", PublishArgs(opts)...)
	c.RunOnDryRun = true
	return m.runner.Run(ctx, c)
}

// PublishArgs builds the arguments of the publish command.
func PublishArgs(opts PublishOptions) []string {
	args := []string{"publish"}
	if opts.DryRun {
		args = append(args, "--dry-run")
	}
	if opts.Access != "" {
		args = append(args, "--access", opts.Access)
	}
	if opts.Tag != "" {
		args = append(args, "--tag", opts.Tag)
	}
	if opts.OTP != "" {
		args = append(args, "--otp", opts.OTP)
	}
	return args
}

func (m *Manager) command(name, title string, args ...string) runner.Command {
	return runner.Command{
		Name:  name,
		Args:  args,
		Dir:   m.dir,
		Title: title,
	}
}

// ParseScripts splits a comma-separated script list, dropping blanks.
func ParseScripts(list []string) []string {
	var scripts []string
	for _, item := range list {
		for _, s := range strings.Split(item, ",") {
			if s = strings.TrimSpace(s); s != "" {
				scripts = append(scripts, s)
			}
		}
	}
	return scripts
}
