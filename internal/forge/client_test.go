package forge

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/relkit/publish/internal/errors"
)

var testRepo = Identity{Owner: "acme", Name: "widget"}

func newTestClient(t *testing.T, h http.Handler, fs afero.Fs) *Client {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	if fs == nil {
		fs = afero.NewMemMapFs()
	}

	c, err := NewClient("secret", testRepo, fs, WithBaseURL(srv.URL))
	require.NoError(t, err)
	return c
}

func TestVerifyToken(t *testing.T) {
	tests := []struct {
		name    string
		scopes  *string
		status  int
		wantErr bool
	}{
		{name: "repo scope", scopes: strPtr("read:org, repo, workflow"), status: 200},
		{name: "missing repo scope", scopes: strPtr("read:org, public_repo"), status: 200, wantErr: true},
		{name: "no scopes header", status: 200},
		{name: "unauthorized", scopes: strPtr("repo"), status: 401, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/user", r.URL.Path)
				assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
				if tt.scopes != nil {
					w.Header().Set("X-OAuth-Scopes", *tt.scopes)
				}
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, `{"login":"octocat"}`)
			}), nil)

			err := c.VerifyToken(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, oerrors.ErrVerification)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestCreateRelease(t *testing.T) {
	var got map[string]any

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/repos/acme/widget/releases", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id": 42, "html_url": "https://github.com/acme/widget/releases/v1.3.0"}`)
	}), nil)

	id, err := c.CreateRelease(context.Background(), ReleaseRequest{
		Version: "1.3.0",
		Target:  "main",
		Body:    "Fixed bug",
		Draft:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	assert.Equal(t, "v1.3.0", got["tag_name"])
	assert.Equal(t, "v1.3.0", got["name"])
	assert.Equal(t, "main", got["target_commitish"])
	assert.Equal(t, "Fixed bug", got["body"])
	assert.Equal(t, true, got["draft"])
	assert.Equal(t, false, got["prerelease"])
	assert.Equal(t, "true", got["make_latest"])
}

func TestNewRepositoryRelease_Prerelease(t *testing.T) {
	rel := NewRepositoryRelease(ReleaseRequest{Version: "2.0.0-rc.1", Target: "main", Prerelease: true})
	assert.True(t, rel.GetPrerelease())
	assert.Equal(t, "false", rel.GetMakeLatest())
}

func TestUploadAsset(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "dist/widget.zip", []byte("PK\x03\x04zipdata"), 0o644))

	var (
		gotName, gotType string
		gotLen           int64
		gotBody          []byte
	)

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/widget/releases/42/assets", r.URL.Path)
		gotName = r.URL.Query().Get("name")
		gotType = r.Header.Get("Content-Type")
		gotLen = r.ContentLength
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id": 7, "name": "widget.zip"}`)
	}), fs)

	require.NoError(t, c.UploadAsset(context.Background(), 42, "dist/widget.zip"))
	assert.Equal(t, "widget.zip", gotName)
	assert.Equal(t, "application/zip", gotType)
	assert.Equal(t, int64(len("PK\x03\x04zipdata")), gotLen)
	assert.Equal(t, "PK\x03\x04zipdata", string(gotBody))
}

func strPtr(s string) *string { return &s }
