// Package forge talks to GitHub: repository identity, token handling,
// releases and release assets.
package forge

import (
	"fmt"
	"regexp"
	"strings"

	oerrors "github.com/relkit/publish/internal/errors"
)

// repoPattern matches https, ssh and scp-like GitHub urls. The host must
// follow the scheme and user directly.
var repoPattern = regexp.MustCompile(`(?i)^(?:git\+)?(?:[a-z]+://)?(?:[^@/]+@)?(?:www\.)?github\.com[/:]([^/]+)/([^/]+?)(?:\.git)?/?$`)

// Identity names a GitHub repository.
type Identity struct {
	Owner string
	Name  string
}

// String returns "owner/name".
func (i Identity) String() string {
	return i.Owner + "/" + i.Name
}

// URL returns the repository web url.
func (i Identity) URL() string {
	return fmt.Sprintf("https://github.com/%s/%s", i.Owner, i.Name)
}

// CompareURL returns the url comparing two refs.
func (i Identity) CompareURL(from, to string) string {
	return fmt.Sprintf("%s/compare/%s...%s", i.URL(), from, to)
}

// ParseRepoURL extracts the owner and name from a GitHub repository url.
// The npm shorthand "github:owner/name" is accepted as well.
func ParseRepoURL(raw string) (Identity, error) {
	s := strings.TrimSpace(raw)

	if rest, ok := strings.CutPrefix(s, "github:"); ok {
		s = "github.com/" + rest
	}

	m := repoPattern.FindStringSubmatch(s)
	if m == nil || m[1] == "" || m[2] == "" {
		return Identity{}, oerrors.NewRepoParseError(raw)
	}

	return Identity{Owner: m[1], Name: m[2]}, nil
}

// RemoteURLFunc returns the url of the origin remote.
type RemoteURLFunc func() (string, error)

// ResolveRepoURL picks the repository url: the manifest's repository field
// when declared, otherwise the origin remote.
func ResolveRepoURL(manifestRepo string, remote RemoteURLFunc) (string, error) {
	if manifestRepo != "" {
		return manifestRepo, nil
	}

	if remote == nil {
		return "", oerrors.NewRepoParseError("")
	}

	u, err := remote()
	if err != nil {
		return "", fmt.Errorf("reading origin remote: %w: %w", oerrors.ErrRepoParse, err)
	}

	return u, nil
}

// ResolveIdentity resolves the repository url and parses it.
func ResolveIdentity(manifestRepo string, remote RemoteURLFunc) (Identity, error) {
	u, err := ResolveRepoURL(manifestRepo, remote)
	if err != nil {
		return Identity{}, err
	}
	return ParseRepoURL(u)
}
