// Package cmd provides CLI command implementations.
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/relkit/publish/internal/bump"
	"github.com/relkit/publish/internal/cmd/config"
	"github.com/relkit/publish/internal/cmdtypes"
	"github.com/relkit/publish/internal/cmdutil"
	"github.com/relkit/publish/internal/output"
	"github.com/relkit/publish/internal/version"
)

// NewRootCmd creates the root command for the publish CLI.
func NewRootCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	flags := cmdutil.NewReleaseFlags()

	rootCmd := &cobra.Command{
		Use:   "publish [" + strings.Join(bump.Names(), "|") + "]",
		Short: "Release an npm package",
		Long: `Release an npm package from a clean git working copy.

publish bumps the version in package.json, runs the configured pre scripts,
prepends the release to the changelog, commits and tags the release, pushes
to origin, publishes the package and creates a GitHub release with optional
assets. Every step can be skipped, and --dry-run logs the mutating steps
instead of performing them.

Configuration is read from command-line flags, then .publishrc.json (or
.yaml, .yml, .toml) and finally the "publish" block of package.json, each
source overriding the previous one.

When no bump is given, publish asks for one.`,
		Example: `  # Release a minor version
  publish minor

  # See what a prerelease would do
  publish prerelease --dry-run

  # Release from CI without pushing or creating a GitHub release
  CI=1 publish patch --skip-push --skip-github-release`,
		Args:          validateBumpArg,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			output.SetupLogging(output.LogConfig{Verbose: flags.Config.Verbose})

			info := version.GetInfo()
			output.Debug("publish started", "version", info.Version, "commit", info.GitCommit)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelease(cmd, args, flags, gc)
		},
	}

	flags.AddTo(rootCmd)

	rootCmd.AddCommand(config.NewConfigCmd(gc, flags))
	rootCmd.AddCommand(NewVersionCmd(gc))

	return rootCmd
}

// validateBumpArg accepts at most one argument naming a bump kind.
func validateBumpArg(_ *cobra.Command, args []string) error {
	if len(args) > 1 {
		return cmdutil.ReportError(fmt.Errorf("accepts at most one bump, received %d", len(args)))
	}
	if len(args) == 1 {
		if _, err := bump.Parse(args[0]); err != nil {
			return cmdutil.ReportError(err)
		}
	}
	return nil
}
