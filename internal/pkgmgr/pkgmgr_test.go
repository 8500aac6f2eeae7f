package pkgmgr

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/relkit/publish/internal/errors"
	"github.com/relkit/publish/internal/runner"
)

type recorder struct {
	calls []runner.Command
}

func (r *recorder) Run(_ context.Context, c runner.Command) error {
	r.calls = append(r.calls, c)
	return nil
}

func (r *recorder) Output(_ context.Context, c runner.Command) (string, error) {
	r.calls = append(r.calls, c)
	return "", nil
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		files    []string
		override string
		want     Name
	}{
		{name: "default npm", want: NPM},
		{name: "yarn lock", files: []string{"yarn.lock"}, want: Yarn},
		{name: "pnpm lock", files: []string{"pnpm-lock.yaml"}, want: PNPM},
		{name: "yarn wins over pnpm", files: []string{"pnpm-lock.yaml", "yarn.lock"}, want: Yarn},
		{name: "override beats lock", files: []string{"yarn.lock"}, override: "pnpm", want: PNPM},
		{name: "auto detects", files: []string{"yarn.lock"}, override: "auto", want: Yarn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			for _, f := range tt.files {
				require.NoError(t, afero.WriteFile(fs, f, nil, 0o644))
			}

			got, err := Detect(fs, tt.override)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetect_UnknownOverride(t *testing.T) {
	_, err := Detect(afero.NewMemMapFs(), "bun")
	require.Error(t, err)
	assert.ErrorIs(t, err, oerrors.ErrConfig)
}

func TestManagerCommands(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	m := New(Yarn, "/work", rec)

	require.NoError(t, m.Install(ctx))
	require.NoError(t, m.RunScript(ctx, "lint"))
	require.NoError(t, m.BumpVersion(ctx, "minor"))
	require.NoError(t, m.Publish(ctx, PublishOptions{DryRun: true, Access: "public", Tag: "next", OTP: "123456"}))

	require.Len(t, rec.calls, 4)
	assert.Equal(t, "yarn install", rec.calls[0].String())
	assert.Equal(t, "yarn run lint", rec.calls[1].String())
	assert.Equal(t, "npm version minor --no-git-tag-version --no-commit-hooks", rec.calls[2].String())
	assert.Equal(t, "npm publish --dry-run --access public --tag next --otp 123456", rec.calls[3].String())

	assert.True(t, rec.calls[3].RunOnDryRun)
	for _, c := range rec.calls[:3] {
		assert.False(t, c.RunOnDryRun, c.String())
		assert.Equal(t, "/work", c.Dir)
	}
}

func TestPublishArgs(t *testing.T) {
	assert.Equal(t, []string{"publish", "--tag", "latest"}, PublishArgs(PublishOptions{Tag: "latest"}))
}

func TestParseScripts(t *testing.T) {
	assert.Equal(t, []string{"lint", "test", "build"}, ParseScripts([]string{"lint, test", "", " build ,"}))
	assert.Nil(t, ParseScripts(nil))
}
