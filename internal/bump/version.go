package bump

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/Masterminds/semver/v3"

	oerrors "github.com/relkit/publish/internal/errors"
)

// VersionPair is the version before and after the bump.
type VersionPair struct {
	Current string
	New     string
}

// Option is one entry of the interactive bump selection.
type Option struct {
	Kind    Kind
	Version string
	Title   string
}

// ResolveNewVersion computes the version that results from applying kind to
// current. Increments follow npm: bumping a prerelease to its release
// (1.0.0-rc.1 + patch = 1.0.0) does not increment the target component.
// Build metadata is dropped.
func ResolveNewVersion(current string, kind Kind) (string, error) {
	v, err := semver.StrictNewVersion(strings.TrimPrefix(strings.TrimSpace(current), "v"))
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", oerrors.ErrInvalidVersion, current, err)
	}

	major, minor, patch := v.Major(), v.Minor(), v.Patch()
	pre := v.Prerelease()

	switch kind {
	case Major:
		if minor != 0 || patch != 0 || pre == "" {
			major++
		}
		return semver.New(major, 0, 0, "", "").String(), nil

	case Minor:
		if patch != 0 || pre == "" {
			minor++
		}
		return semver.New(major, minor, 0, "", "").String(), nil

	case Patch:
		if pre == "" {
			patch++
		}
		return semver.New(major, minor, patch, "", "").String(), nil

	case Premajor:
		return semver.New(major+1, 0, 0, "0", "").String(), nil

	case Preminor:
		return semver.New(major, minor+1, 0, "0", "").String(), nil

	case Prepatch:
		return semver.New(major, minor, patch+1, "0", "").String(), nil

	case Prerelease:
		if pre == "" {
			return semver.New(major, minor, patch+1, "0", "").String(), nil
		}
		return semver.New(major, minor, patch, incrementPrerelease(pre), "").String(), nil

	default:
		return "", fmt.Errorf("%w: unknown bump %q", oerrors.ErrInvalidVersion, kind)
	}
}

// incrementPrerelease increments the right-most numeric identifier of pre,
// or appends ".0" when no identifier is numeric.
func incrementPrerelease(pre string) string {
	ids := strings.Split(pre, ".")
	for i := len(ids) - 1; i >= 0; i-- {
		if !isNumeric(ids[i]) {
			continue
		}
		n, _ := new(big.Int).SetString(ids[i], 10)
		ids[i] = n.Add(n, big.NewInt(1)).String()
		return strings.Join(ids, ".")
	}
	return pre + ".0"
}

func isNumeric(id string) bool {
	return id != "" && strings.Trim(id, "0123456789") == ""
}

// Resolve returns the version pair for current and kind.
func Resolve(current string, kind Kind) (VersionPair, error) {
	next, err := ResolveNewVersion(current, kind)
	if err != nil {
		return VersionPair{}, err
	}
	return VersionPair{Current: current, New: next}, nil
}

// Options annotates every kind with the version it would produce from current.
func Options(current string) ([]Option, error) {
	kinds := All()
	opts := make([]Option, 0, len(kinds))

	for _, k := range kinds {
		next, err := ResolveNewVersion(current, k)
		if err != nil {
			return nil, err
		}
		opts = append(opts, Option{
			Kind:    k,
			Version: next,
			Title:   fmt.Sprintf("%s (%s -> %s)", k, current, next),
		})
	}

	return opts, nil
}

// IsPrerelease reports whether version carries a prerelease component.
// Unparseable versions report false.
func IsPrerelease(version string) bool {
	v, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	return v.Prerelease() != ""
}
