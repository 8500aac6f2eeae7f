// Package cmdutil provides shared command utilities: flag groups and
// structured output helpers used by the root command and its subcommands.
package cmdutil

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/relkit/publish/internal/config"
	"github.com/relkit/publish/internal/output"
)

// ReleaseFlags holds every flag that maps to a configuration key, plus
// --config. Config starts from the defaults so unset flags keep them.
type ReleaseFlags struct {
	Config     config.ReleaseConfig
	ConfigFile string
}

// NewReleaseFlags returns flags initialized with the default configuration.
func NewReleaseFlags() *ReleaseFlags {
	return &ReleaseFlags{Config: config.Default()}
}

// AddTo registers the release flags as persistent flags of cmd, so the
// config subcommands resolve the same values a release would.
func (f *ReleaseFlags) AddTo(cmd *cobra.Command) {
	c := &f.Config
	fl := cmd.PersistentFlags()

	fl.BoolVarP(&c.Verbose, "verbose", "v", c.Verbose,
		"Show package manager output and debug logs")
	fl.BoolVar(&c.DryRun, "dry-run", c.DryRun,
		"Log mutating actions instead of performing them")
	fl.StringVar(&c.PackageManager, "package-manager", c.PackageManager,
		"Package manager: npm, yarn, pnpm or auto")
	fl.StringSliceVar(&c.PreScripts, "pre-scripts", c.PreScripts,
		"Scripts to run before releasing, comma separated")
	fl.StringVar(&c.CommitMessage, "commit-message", c.CommitMessage,
		"Release commit message ({version} is replaced)")
	fl.StringVar(&c.CommitAuthor, "commit-author", c.CommitAuthor,
		"Commit author name (default: from git config)")
	fl.StringVar(&c.CommitEmail, "commit-email", c.CommitEmail,
		"Commit author email (default: from git config)")
	fl.StringVar(&c.Branch, "branch", c.Branch,
		"Branch releases must be cut from (empty disables the check)")
	fl.StringVar(&c.ReleaseNotesSource, "release-notes-source", c.ReleaseNotesSource,
		"File holding the release notes")
	fl.StringVar(&c.ReleaseNotesTemplate, "release-notes-template", c.ReleaseNotesTemplate,
		"File the release notes are reset to after a release")
	fl.StringVar(&c.Changelog, "changelog", c.Changelog,
		"Changelog file to prepend the release to")
	fl.StringVar(&c.GithubToken, "github-token", c.GithubToken,
		"GitHub token (env: GITHUB_TOKEN)")
	fl.BoolVar(&c.DraftRelease, "draft-release", c.DraftRelease,
		"Create the GitHub release as a draft")
	fl.StringVar(&c.NpmTag, "npm-tag", c.NpmTag,
		"Dist-tag to publish under")
	fl.StringVar(&c.NpmAccess, "npm-access", c.NpmAccess,
		"Publish access: public or restricted")
	fl.StringVar(&c.OTP, "otp", c.OTP,
		"One-time password for npm publish")
	fl.StringVar(&c.ReleaseAssets, "release-assets", c.ReleaseAssets,
		"Glob of files to upload to the GitHub release")

	fl.BoolVar(&c.SkipInstall, "skip-install", c.SkipInstall, "Skip installing dependencies")
	fl.BoolVar(&c.SkipPreScripts, "skip-pre-scripts", c.SkipPreScripts, "Skip the pre scripts")
	fl.BoolVar(&c.SkipBump, "skip-bump", c.SkipBump, "Skip bumping the version")
	fl.BoolVar(&c.SkipChangelog, "skip-changelog", c.SkipChangelog, "Skip updating the changelog")
	fl.BoolVar(&c.SkipCommit, "skip-commit", c.SkipCommit, "Skip the release commit and tag")
	fl.BoolVar(&c.SkipTag, "skip-tag", c.SkipTag, "Skip the release tag")
	fl.BoolVar(&c.SkipPush, "skip-push", c.SkipPush, "Skip pushing to origin")
	fl.BoolVar(&c.SkipPublish, "skip-publish", c.SkipPublish, "Skip publishing the package")
	fl.BoolVar(&c.SkipGithubRelease, "skip-github-release", c.SkipGithubRelease, "Skip the GitHub release")

	fl.StringVarP(&f.ConfigFile, "config", "c", "",
		"Path to config file (env: "+config.EnvConfigFile+")")

	cmd.SetGlobalNormalizationFunc(keyFlagNames)
}

// keyFlagNames accepts configuration keys as flag names: --dryRun is --dry-run.
func keyFlagNames(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(config.FlagName(name))
}

// ConfigPath returns --config, else the environment override.
func (f *ReleaseFlags) ConfigPath() string {
	return config.ConfigFileFromEnv(f.ConfigFile)
}

// Resolve loads the manifest from fs and merges the flags with the config
// file and the manifest publish block. changed reports whether a flag was
// set on the command line.
func (f *ReleaseFlags) Resolve(fs afero.Fs, changed func(string) bool) (*config.Result, error) {
	manifest, err := config.LoadManifest(fs)
	if err != nil {
		return nil, err
	}

	res, err := config.Resolve(config.ResolveOptions{
		Fs:         fs,
		Flags:      f.Config,
		Changed:    changed,
		ConfigFile: f.ConfigPath(),
		Manifest:   manifest,
	})
	if err != nil {
		return nil, err
	}

	for _, w := range res.Warnings {
		output.Warn(w)
	}
	if res.ConfigFile != "" {
		output.Debug("using config file", "path", res.ConfigFile)
	}
	config.LogResolvedValues(res.Values)

	return res, nil
}

// OutputFlags holds the output format flag.
type OutputFlags struct {
	Format string
}

// AddTo registers the output flags on the given cobra command.
func (f *OutputFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.Format, "output", "o", string(output.FormatTable),
		"Output format: table, yaml or json")
}
