package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/relkit/publish/internal/errors"
)

func writeManifest(t *testing.T, fs afero.Fs, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, ManifestFile, []byte(content), 0o644))
}

func TestLoadManifest(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeManifest(t, fs, `{
  "name": "@acme/widget",
  "version": "1.2.0",
  "repository": "https://github.com/acme/widget",
  "exports": {"./package.json": "./package.json"},
  "publish": {"skipPush": true, "npmTag": "next"}
}`)

	m, err := LoadManifest(fs)
	require.NoError(t, err)

	assert.Equal(t, "@acme/widget", m.Name)
	assert.Equal(t, "1.2.0", m.Version)
	assert.Equal(t, "https://github.com/acme/widget", m.Repository)
	assert.Equal(t, true, m.Publish["skippush"])
	assert.Equal(t, "next", m.Publish["npmtag"])
}

func TestLoadManifest_RepositoryObject(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeManifest(t, fs, `{"version": "1.0.0", "repository": {"type": "git", "url": "git+https://github.com/acme/widget.git"}}`)

	m, err := LoadManifest(fs)
	require.NoError(t, err)
	assert.Equal(t, "git+https://github.com/acme/widget.git", m.Repository)
	assert.Nil(t, m.Publish)
}

func TestLoadManifest_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content *string
	}{
		{name: "missing file"},
		{name: "invalid json", content: strPtr(`{"version": `)},
		{name: "missing version", content: strPtr(`{"name": "widget"}`)},
		{name: "publish not an object", content: strPtr(`{"version": "1.0.0", "publish": "yes"}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			if tt.content != nil {
				writeManifest(t, fs, *tt.content)
			}

			_, err := LoadManifest(fs)
			require.Error(t, err)
			assert.ErrorIs(t, err, oerrors.ErrConfig)
		})
	}
}

func strPtr(s string) *string { return &s }
