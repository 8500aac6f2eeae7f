package forge

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/google/go-github/v75/github"
	"github.com/spf13/afero"

	oerrors "github.com/relkit/publish/internal/errors"
	"github.com/relkit/publish/internal/output"
)

// RequiredScope is the OAuth scope a token needs to create releases.
const RequiredScope = "repo"

// Client creates releases and uploads assets for one repository.
type Client struct {
	gh   *github.Client
	repo Identity
	fs   afero.Fs
}

// Option configures a Client.
type Option func(*Client) error

// WithBaseURL points the client at a different API and upload endpoint.
func WithBaseURL(raw string) Option {
	return func(c *Client) error {
		if !strings.HasSuffix(raw, "/") {
			raw += "/"
		}
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("parsing base url %q: %w", raw, err)
		}
		c.gh.BaseURL = u
		c.gh.UploadURL = u
		return nil
	}
}

// NewClient creates a client authenticated with token. Files for asset
// uploads are read from fs.
func NewClient(token string, repo Identity, fs afero.Fs, opts ...Option) (*Client, error) {
	c := &Client{
		gh:   github.NewClient(nil).WithAuthToken(token),
		repo: repo,
		fs:   fs,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// VerifyToken checks the token works and carries the repo scope.
// Tokens that report no scopes at all (fine-grained and app tokens) are
// accepted with a warning.
func (c *Client) VerifyToken(ctx context.Context) error {
	_, resp, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		return oerrors.NewVerificationError(
			"could not authenticate with GitHub",
			map[string]string{"error": err.Error()},
			"check the token passed with --github-token or GITHUB_TOKEN",
		)
	}

	header := resp.Header.Get("X-OAuth-Scopes")
	if _, present := resp.Header[http.CanonicalHeaderKey("X-OAuth-Scopes")]; !present {
		output.Warn("token does not report OAuth scopes, assuming it can create releases")
		return nil
	}

	if !hasScope(header, RequiredScope) {
		return oerrors.NewVerificationError(
			fmt.Sprintf("the provided GitHub token does not have the %q scope", RequiredScope),
			map[string]string{"scopes": header},
			"create a token with the repo scope",
		)
	}

	output.Debug("token verified", "scopes", header)
	return nil
}

func hasScope(header, want string) bool {
	for _, s := range strings.Split(header, ",") {
		if strings.TrimSpace(s) == want {
			return true
		}
	}
	return false
}

// ReleaseRequest describes the release to create.
type ReleaseRequest struct {
	Version    string
	Target     string
	Body       string
	Draft      bool
	Prerelease bool
}

// TagName returns the tag for a version.
func TagName(version string) string {
	return "v" + version
}

// NewRepositoryRelease builds the API payload for req.
func NewRepositoryRelease(req ReleaseRequest) *github.RepositoryRelease {
	latest := "true"
	if req.Prerelease {
		latest = "false"
	}

	return &github.RepositoryRelease{
		TagName:         github.Ptr(TagName(req.Version)),
		Name:            github.Ptr(TagName(req.Version)),
		TargetCommitish: github.Ptr(req.Target),
		Body:            github.Ptr(req.Body),
		Draft:           github.Ptr(req.Draft),
		Prerelease:      github.Ptr(req.Prerelease),
		MakeLatest:      github.Ptr(latest),
	}
}

// CreateRelease creates the release and returns its id.
func (c *Client) CreateRelease(ctx context.Context, req ReleaseRequest) (int64, error) {
	rel, _, err := c.gh.Repositories.CreateRelease(ctx, c.repo.Owner, c.repo.Name, NewRepositoryRelease(req))
	if err != nil {
		return 0, fmt.Errorf("creating release %s on %s: %w", TagName(req.Version), c.repo, err)
	}

	output.Info("GitHub release created", "url", rel.GetHTMLURL())
	return rel.GetID(), nil
}

// UploadAsset uploads the file at name to the release.
func (c *Client) UploadAsset(ctx context.Context, releaseID int64, name string) error {
	info, err := c.fs.Stat(name)
	if err != nil {
		return fmt.Errorf("reading asset %s: %w", name, err)
	}

	mediaType, err := MediaType(c.fs, name)
	if err != nil {
		return err
	}

	f, err := c.fs.Open(name)
	if err != nil {
		return fmt.Errorf("opening asset %s: %w", name, err)
	}
	defer f.Close()

	q := url.Values{}
	q.Set("name", path.Base(name))
	u := fmt.Sprintf("repos/%s/%s/releases/%d/assets?%s", c.repo.Owner, c.repo.Name, releaseID, q.Encode())

	req, err := c.gh.NewUploadRequest(u, f, info.Size(), mediaType)
	if err != nil {
		return fmt.Errorf("building upload request for %s: %w", name, err)
	}

	asset := new(github.ReleaseAsset)
	if _, err := c.gh.Do(ctx, req, asset); err != nil {
		return fmt.Errorf("uploading asset %s: %w", name, err)
	}

	output.Debug("asset uploaded", "name", asset.GetName(), "size", asset.GetSize(), "type", mediaType)
	return nil
}
