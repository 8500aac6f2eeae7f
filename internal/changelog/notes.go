package changelog

import (
	"fmt"

	"github.com/spf13/afero"
)

// LoadNotes reads the release notes source. An empty source yields empty
// notes.
func LoadNotes(fs afero.Fs, source string) (string, error) {
	if source == "" {
		return "", nil
	}

	b, err := afero.ReadFile(fs, source)
	if err != nil {
		return "", fmt.Errorf("reading release notes %s: %w", source, err)
	}

	return string(b), nil
}

// ResetNotes overwrites the notes source with the template contents, or
// empties it when no template is configured.
func ResetNotes(fs afero.Fs, source, template string) error {
	var content []byte

	if template != "" {
		b, err := afero.ReadFile(fs, template)
		if err != nil {
			return fmt.Errorf("reading release notes template %s: %w", template, err)
		}
		content = b
	}

	if err := afero.WriteFile(fs, source, content, 0o644); err != nil {
		return fmt.Errorf("resetting release notes %s: %w", source, err)
	}

	return nil
}
