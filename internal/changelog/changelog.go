// Package changelog renders release headings, prepends them to the
// changelog file and manages the release notes source file.
package changelog

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/afero"

	"github.com/relkit/publish/internal/forge"
)

// DateFormat is the layout of the date in a heading.
const DateFormat = "2006-01-02"

// Heading renders the markdown heading for a release, linking the compare
// view between the previous and the new version.
func Heading(newVersion, oldVersion string, repo forge.Identity, date time.Time) string {
	return fmt.Sprintf("## [%s](%s) (%s)",
		newVersion,
		repo.CompareURL(oldVersion, newVersion),
		date.UTC().Format(DateFormat),
	)
}

// Render returns the changelog with heading and notes prepended.
func Render(heading, notes, existing string) string {
	return heading + "\n\n" + notes + "\n\n\n" + existing
}

// Prepend rewrites the changelog at path with heading and notes on top.
// The file must exist.
func Prepend(fs afero.Fs, path, heading, notes string) error {
	existing, err := afero.ReadFile(fs, path)
	if err != nil {
		return fmt.Errorf("reading changelog %s: %w", path, err)
	}

	mode := os.FileMode(0o644)
	if info, err := fs.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	if err := afero.WriteFile(fs, path, []byte(Render(heading, notes, string(existing))), mode); err != nil {
		return fmt.Errorf("writing changelog %s: %w", path, err)
	}

	return nil
}

// Exists reports whether the changelog at path is present.
func Exists(fs afero.Fs, path string) (bool, error) {
	if path == "" {
		return false, nil
	}
	return afero.Exists(fs, path)
}
