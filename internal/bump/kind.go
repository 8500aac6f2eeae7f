// Package bump resolves the next version of a package from its current
// version and a bump kind.
package bump

import (
	"fmt"
	"strings"

	oerrors "github.com/relkit/publish/internal/errors"
)

// Kind is a categorical size of version increment.
type Kind string

const (
	Patch      Kind = "patch"
	Minor      Kind = "minor"
	Major      Kind = "major"
	Prepatch   Kind = "prepatch"
	Preminor   Kind = "preminor"
	Premajor   Kind = "premajor"
	Prerelease Kind = "prerelease"
)

// All returns every kind in the order they are offered to the user.
func All() []Kind {
	return []Kind{Patch, Minor, Major, Prepatch, Preminor, Premajor, Prerelease}
}

// Names returns the string form of every kind.
func Names() []string {
	kinds := All()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return names
}

// Parse validates s against the known kinds.
func Parse(s string) (Kind, error) {
	for _, k := range All() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", oerrors.NewConfigError(
		fmt.Sprintf("invalid bump %q", s),
		"",
		"expected one of: "+strings.Join(Names(), ", "),
	)
}

// IsPre reports whether the kind produces a prerelease version.
func (k Kind) IsPre() bool {
	switch k {
	case Prepatch, Preminor, Premajor, Prerelease:
		return true
	default:
		return false
	}
}

func (k Kind) String() string {
	return string(k)
}
