package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relkit/publish/internal/bump"
	"github.com/relkit/publish/internal/cmdtypes"
	"github.com/relkit/publish/internal/cmdutil"
	"github.com/relkit/publish/internal/forge"
	"github.com/relkit/publish/internal/git"
	"github.com/relkit/publish/internal/output"
	"github.com/relkit/publish/internal/pkgmgr"
	"github.com/relkit/publish/internal/prompt"
	"github.com/relkit/publish/internal/release"
	"github.com/relkit/publish/internal/runner"
)

func runRelease(cmd *cobra.Command, args []string, flags *cmdutil.ReleaseFlags, gc *cmdtypes.GlobalConfig) error {
	var kind bump.Kind
	if len(args) == 1 {
		k, err := bump.Parse(args[0])
		if err != nil {
			return cmdutil.ReportError(err)
		}
		kind = k
	}

	fs, err := gc.ProjectFs()
	if err != nil {
		return cmdutil.ReportError(fmt.Errorf("resolving project directory: %w", err))
	}

	res, err := flags.Resolve(fs, cmd.Flags().Changed)
	if err != nil {
		return cmdutil.ReportError(err)
	}
	cfg := res.Config

	// The config file may turn on verbose output.
	if cfg.Verbose && !flags.Config.Verbose {
		output.SetupLogging(output.LogConfig{Verbose: true})
	}

	r := runner.NewDryRun(&runner.Exec{
		Dir:     gc.Dir,
		Verbose: cfg.Verbose,
		Spinner: true,
		Stdout:  cmd.OutOrStdout(),
		Stderr:  cmd.ErrOrStderr(),
	}, cfg.DryRun)

	repo, err := git.Open(gc.Dir, r)
	if err != nil {
		return cmdutil.ReportError(err)
	}

	ci := gc.Env(release.EnvCI) != ""

	seq := release.New(cfg, release.Deps{
		Fs:  fs,
		VCS: repo,
		NewPackageManager: func(name pkgmgr.Name) release.PackageManager {
			return pkgmgr.New(name, gc.Dir, r)
		},
		NewForge: func(token string, id forge.Identity) (release.Forge, error) {
			c, err := forge.NewClient(token, id, fs)
			if err != nil {
				return nil, err
			}
			return c, nil
		},
		Prompt:      prompt.Choose(ci, output.IsTTY()),
		TokenHelper: ghToken(r, gc.Dir),
		Getenv:      gc.Env,
	})

	summary, err := seq.Run(cmd.Context(), kind)
	if summary != nil && len(summary.Steps) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), output.RenderStepTable(summary.Steps))
	}
	if err != nil {
		return cmdutil.ReportError(err)
	}

	msg := fmt.Sprintf("Released %s %s", summary.Tag, output.Dim(summary.Repo.String()))
	if summary.DryRun {
		msg = fmt.Sprintf("Dry run of %s complete", summary.Tag)
	}
	fmt.Fprintln(cmd.OutOrStdout(), output.FormatCheckmark(msg))

	return nil
}

// ghToken asks the GitHub CLI for the token of the logged in user.
func ghToken(r runner.Runner, dir string) func(ctx context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		return r.Output(ctx, runner.Command{Name: "gh", Args: []string{"auth", "token"}, Dir: dir})
	}
}
