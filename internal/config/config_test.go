package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "auto", cfg.PackageManager)
	assert.Equal(t, []string{"lint", "test"}, cfg.PreScripts)
	assert.Equal(t, "chore(release): {version}", cfg.CommitMessage)
	assert.Equal(t, "main", cfg.Branch)
	assert.Equal(t, "CHANGELOG.md", cfg.Changelog)
	assert.Equal(t, "latest", cfg.NpmTag)
	assert.False(t, cfg.DryRun)
	assert.NoError(t, Validate(&cfg))
}

func TestRenderCommitMessage(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "chore(release): 2.1.0", cfg.RenderCommitMessage("2.1.0"))

	cfg.CommitMessage = "release {version} ({version})"
	assert.Equal(t, "release 1.0.0 (1.0.0)", cfg.RenderCommitMessage("1.0.0"))
}

func TestFlagName(t *testing.T) {
	tests := map[string]string{
		"verbose":           "verbose",
		"dryRun":            "dry-run",
		"githubToken":       "github-token",
		"otp":               "otp",
		"skipGithubRelease": "skip-github-release",
		"releaseNotesSource": "release-notes-source",
	}
	for key, want := range tests {
		assert.Equal(t, want, FlagName(key), key)
	}
}

func TestAsMap_CoversEveryKey(t *testing.T) {
	cfg := Default()
	m, err := cfg.AsMap()
	require.NoError(t, err)

	assert.Len(t, m, len(Keys))
	for _, k := range Keys {
		assert.Contains(t, m, k)
	}
	assert.Equal(t, "main", m["branch"])
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ReleaseConfig)
		wantErr string
	}{
		{name: "bad package manager", mutate: func(c *ReleaseConfig) { c.PackageManager = "bun" }, wantErr: "packageManager"},
		{name: "bad access", mutate: func(c *ReleaseConfig) { c.NpmAccess = "private" }, wantErr: "npmAccess"},
		{name: "empty commit message", mutate: func(c *ReleaseConfig) { c.CommitMessage = " " }, wantErr: "commitMessage"},
		{name: "empty commit message but commit skipped", mutate: func(c *ReleaseConfig) {
			c.CommitMessage = ""
			c.SkipCommit = true
		}},
		{name: "restricted access", mutate: func(c *ReleaseConfig) { c.NpmAccess = "restricted" }},
		{name: "changelog above package", mutate: func(c *ReleaseConfig) { c.Changelog = "../CHANGELOG.md" }, wantErr: "changelog"},
		{name: "absolute notes source", mutate: func(c *ReleaseConfig) { c.ReleaseNotesSource = "/tmp/NOTES.md" }, wantErr: "releaseNotesSource"},
		{name: "assets escaping package", mutate: func(c *ReleaseConfig) { c.ReleaseAssets = "dist/../../out/*.tgz" }, wantErr: "releaseAssets"},
		{name: "nested changelog", mutate: func(c *ReleaseConfig) { c.Changelog = "docs/./CHANGELOG.md" }},
		{name: "no changelog", mutate: func(c *ReleaseConfig) { c.Changelog = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := Validate(&cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
