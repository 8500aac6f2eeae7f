package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relkit/publish/internal/cmdtypes"
	"github.com/relkit/publish/internal/cmdutil"
	"github.com/relkit/publish/internal/config"
	oerrors "github.com/relkit/publish/internal/errors"
)

func newTestRoot(gc *cmdtypes.GlobalConfig) *cobra.Command {
	flags := cmdutil.NewReleaseFlags()
	root := &cobra.Command{Use: "publish", SilenceUsage: true, SilenceErrors: true}
	flags.AddTo(root)
	root.AddCommand(NewConfigCmd(gc, flags))
	return root
}

func execute(t *testing.T, gc *cmdtypes.GlobalConfig, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvConfigFile, "")

	root := newTestRoot(gc)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var exitErr *oerrors.ExitError
	require.True(t, errors.As(err, &exitErr), "expected ExitError, got %v", err)
	assert.True(t, exitErr.Printed)
	return exitErr.Code
}

func projectFs(t *testing.T, manifest string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, config.ManifestFile, []byte(manifest), 0o644))
	return fs
}

func TestNewConfigInitCmd(t *testing.T) {
	cmd := NewConfigInitCmd(&cmdtypes.GlobalConfig{})

	assert.Equal(t, "init", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
	assert.NotNil(t, cmd.Flags().Lookup("force"))
	assert.NotNil(t, cmd.Flags().Lookup("format"))
}

func TestConfigInit_CreatesJSON(t *testing.T) {
	fs := afero.NewMemMapFs()
	gc := &cmdtypes.GlobalConfig{Fs: fs}

	out, err := execute(t, gc, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Config file created: .publishrc.json")

	data, err := afero.ReadFile(fs, ".publishrc.json")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "chore(release): {version}", got["commitMessage"])
	assert.Equal(t, "main", got["branch"])
	assert.NotContains(t, got, "githubToken")

	// The written file resolves to the defaults.
	require.NoError(t, afero.WriteFile(fs, config.ManifestFile, []byte(`{"version":"1.0.0"}`), 0o644))
	res, err := config.Resolve(config.ResolveOptions{Fs: fs, Flags: config.Default()})
	require.NoError(t, err)
	assert.Equal(t, config.Default(), *res.Config)
	assert.Empty(t, res.Warnings)
}

func TestConfigInit_YAML(t *testing.T) {
	fs := afero.NewMemMapFs()
	gc := &cmdtypes.GlobalConfig{Fs: fs}

	_, err := execute(t, gc, "config", "init", "--format", "yaml")
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, ".publishrc.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "npmTag: latest")
}

func TestConfigInit_ExistingConfig(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, ".publishrc.json", []byte(`{"branch":"dev"}`), 0o644))
	gc := &cmdtypes.GlobalConfig{Fs: fs}

	_, err := execute(t, gc, "config", "init")
	require.Error(t, err)
	assert.Equal(t, oerrors.ExitConfigError, exitCode(t, err))

	data, _ := afero.ReadFile(fs, ".publishrc.json")
	assert.Equal(t, `{"branch":"dev"}`, string(data))

	_, err = execute(t, gc, "config", "init", "--force")
	require.NoError(t, err)
	data, _ = afero.ReadFile(fs, ".publishrc.json")
	assert.Contains(t, string(data), `"branch": "main"`)
}

func TestConfigInit_UnknownFormat(t *testing.T) {
	_, err := execute(t, &cmdtypes.GlobalConfig{Fs: afero.NewMemMapFs()}, "config", "init", "--format", "toml")
	require.Error(t, err)
	assert.Equal(t, oerrors.ExitConfigError, exitCode(t, err))
}

func TestConfigShow_JSON(t *testing.T) {
	fs := projectFs(t, `{"version":"1.0.0","publish":{"draftRelease":true}}`)
	require.NoError(t, afero.WriteFile(fs, ".publishrc.yaml", []byte("branch: release\ngithubToken: secret\n"), 0o644))
	gc := &cmdtypes.GlobalConfig{Fs: fs}

	out, err := execute(t, gc, "config", "show", "-o", "json", "--npm-tag", "next")
	require.NoError(t, err)

	var entries []struct {
		Key    string `json:"key"`
		Value  any    `json:"value"`
		Source string `json:"source"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, len(config.Keys))

	byKey := map[string]int{}
	for i, e := range entries {
		byKey[e.Key] = i
	}

	assert.Equal(t, "next", entries[byKey["npmTag"]].Value)
	assert.Equal(t, "flag", entries[byKey["npmTag"]].Source)
	assert.Equal(t, "release", entries[byKey["branch"]].Value)
	assert.Equal(t, "config", entries[byKey["branch"]].Source)
	assert.Equal(t, true, entries[byKey["draftRelease"]].Value)
	assert.Equal(t, "manifest", entries[byKey["draftRelease"]].Source)
	assert.Equal(t, "********", entries[byKey["githubToken"]].Value)
	assert.Equal(t, "default", entries[byKey["changelog"]].Source)
}

func TestConfigShow_BadFormat(t *testing.T) {
	gc := &cmdtypes.GlobalConfig{Fs: projectFs(t, `{"version":"1.0.0"}`)}

	_, err := execute(t, gc, "config", "show", "-o", "xml")
	require.Error(t, err)
	assert.Equal(t, oerrors.ExitConfigError, exitCode(t, err))
}

func TestConfigVet(t *testing.T) {
	fs := projectFs(t, `{"version":"1.0.0"}`)
	require.NoError(t, afero.WriteFile(fs, ".publishrc.json", []byte(`{"npmAccess":"public","colour":"blue"}`), 0o644))
	gc := &cmdtypes.GlobalConfig{Fs: fs}

	out, err := execute(t, gc, "config", "vet")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid: .publishrc.json (1 warnings)")
}

func TestConfigVet_Invalid(t *testing.T) {
	fs := projectFs(t, `{"version":"1.0.0","publish":{"npmAccess":"secret"}}`)
	gc := &cmdtypes.GlobalConfig{Fs: fs}

	_, err := execute(t, gc, "config", "vet")
	require.Error(t, err)
	assert.Equal(t, oerrors.ExitConfigError, exitCode(t, err))
	assert.ErrorIs(t, err, oerrors.ErrConfig)
}

func TestConfigVet_MissingManifest(t *testing.T) {
	_, err := execute(t, &cmdtypes.GlobalConfig{Fs: afero.NewMemMapFs()}, "config", "vet")
	require.Error(t, err)
	assert.Equal(t, oerrors.ExitConfigError, exitCode(t, err))
}
