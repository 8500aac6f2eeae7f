// Package config provides configuration loading and management.
package config

import (
	"strings"
	"unicode"
)

// ReleaseConfig is the merged configuration for one release run.
// It is built once by Resolve and never modified afterwards.
type ReleaseConfig struct {
	// Verbose pipes package manager output and enables debug logging.
	Verbose bool `mapstructure:"verbose" json:"verbose" yaml:"verbose"`

	// DryRun logs mutating actions instead of performing them.
	DryRun bool `mapstructure:"dryRun" json:"dryRun" yaml:"dryRun"`

	// PackageManager is npm, yarn, pnpm or auto.
	PackageManager string `mapstructure:"packageManager" json:"packageManager" yaml:"packageManager"`

	// PreScripts are package.json scripts run before the bump, in order.
	PreScripts []string `mapstructure:"preScripts" json:"preScripts" yaml:"preScripts"`

	// CommitMessage is the release commit message. {version} is replaced
	// with the new version.
	CommitMessage string `mapstructure:"commitMessage" json:"commitMessage" yaml:"commitMessage"`

	CommitAuthor string `mapstructure:"commitAuthor" json:"commitAuthor,omitempty" yaml:"commitAuthor,omitempty"`
	CommitEmail  string `mapstructure:"commitEmail" json:"commitEmail,omitempty" yaml:"commitEmail,omitempty"`

	// Branch is the branch releases must be cut from. Empty disables the check.
	Branch string `mapstructure:"branch" json:"branch" yaml:"branch"`

	ReleaseNotesSource   string `mapstructure:"releaseNotesSource" json:"releaseNotesSource,omitempty" yaml:"releaseNotesSource,omitempty"`
	ReleaseNotesTemplate string `mapstructure:"releaseNotesTemplate" json:"releaseNotesTemplate,omitempty" yaml:"releaseNotesTemplate,omitempty"`

	// Changelog is the changelog path. Empty disables the changelog update.
	Changelog string `mapstructure:"changelog" json:"changelog" yaml:"changelog"`

	GithubToken  string `mapstructure:"githubToken" json:"githubToken,omitempty" yaml:"githubToken,omitempty"`
	DraftRelease bool   `mapstructure:"draftRelease" json:"draftRelease" yaml:"draftRelease"`

	NpmTag    string `mapstructure:"npmTag" json:"npmTag" yaml:"npmTag"`
	NpmAccess string `mapstructure:"npmAccess" json:"npmAccess,omitempty" yaml:"npmAccess,omitempty"`
	OTP       string `mapstructure:"otp" json:"otp,omitempty" yaml:"otp,omitempty"`

	// ReleaseAssets is a glob of files uploaded to the GitHub release.
	ReleaseAssets string `mapstructure:"releaseAssets" json:"releaseAssets,omitempty" yaml:"releaseAssets,omitempty"`

	SkipInstall       bool `mapstructure:"skipInstall" json:"skipInstall" yaml:"skipInstall"`
	SkipPreScripts    bool `mapstructure:"skipPreScripts" json:"skipPreScripts" yaml:"skipPreScripts"`
	SkipBump          bool `mapstructure:"skipBump" json:"skipBump" yaml:"skipBump"`
	SkipChangelog     bool `mapstructure:"skipChangelog" json:"skipChangelog" yaml:"skipChangelog"`
	SkipCommit        bool `mapstructure:"skipCommit" json:"skipCommit" yaml:"skipCommit"`
	SkipTag           bool `mapstructure:"skipTag" json:"skipTag" yaml:"skipTag"`
	SkipPush          bool `mapstructure:"skipPush" json:"skipPush" yaml:"skipPush"`
	SkipPublish       bool `mapstructure:"skipPublish" json:"skipPublish" yaml:"skipPublish"`
	SkipGithubRelease bool `mapstructure:"skipGithubRelease" json:"skipGithubRelease" yaml:"skipGithubRelease"`
}

// Default returns the built-in defaults.
func Default() ReleaseConfig {
	return ReleaseConfig{
		PackageManager: "auto",
		PreScripts:     []string{"lint", "test"},
		CommitMessage:  "chore(release): {version}",
		Branch:         "main",
		Changelog:      "CHANGELOG.md",
		NpmTag:         "latest",
	}
}

// VersionPlaceholder is substituted in CommitMessage.
const VersionPlaceholder = "{version}"

// RenderCommitMessage substitutes the version into the commit message.
func (c *ReleaseConfig) RenderCommitMessage(version string) string {
	return strings.ReplaceAll(c.CommitMessage, VersionPlaceholder, version)
}

// Keys lists every configuration key, in display order.
var Keys = []string{
	"verbose",
	"dryRun",
	"packageManager",
	"preScripts",
	"commitMessage",
	"commitAuthor",
	"commitEmail",
	"branch",
	"releaseNotesSource",
	"releaseNotesTemplate",
	"changelog",
	"githubToken",
	"draftRelease",
	"npmTag",
	"npmAccess",
	"otp",
	"releaseAssets",
	"skipInstall",
	"skipPreScripts",
	"skipBump",
	"skipChangelog",
	"skipCommit",
	"skipTag",
	"skipPush",
	"skipPublish",
	"skipGithubRelease",
}

// secretKeys are masked when displayed.
var secretKeys = map[string]bool{
	"githubToken": true,
	"otp":         true,
}

// FlagName returns the command-line flag for a key: dryRun becomes dry-run.
func FlagName(key string) string {
	var b strings.Builder
	for i, r := range key {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// canonicalKey maps a key in any case to its canonical spelling.
func canonicalKey(key string) (string, bool) {
	for _, k := range Keys {
		if strings.EqualFold(k, key) {
			return k, true
		}
	}
	return "", false
}
