package forge

import (
	"fmt"
	"mime"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"
)

const defaultMediaType = "application/octet-stream"

// FindAssets returns the files under fs matching the glob pattern, sorted.
// "**" matches any number of directories.
func FindAssets(fs afero.Fs, pattern string) ([]string, error) {
	pattern = strings.TrimPrefix(path.Clean(strings.ReplaceAll(pattern, "\\", "/")), "./")
	pattern = strings.TrimPrefix(pattern, "/")

	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid release asset glob %q", pattern)
	}

	matches, err := doublestar.Glob(afero.NewIOFS(fs), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("matching release assets %q: %w", pattern, err)
	}

	sort.Strings(matches)
	return matches, nil
}

// MediaType infers the content type of an asset, first from its extension
// and then from its content.
func MediaType(fs afero.Fs, name string) (string, error) {
	if t := mime.TypeByExtension(path.Ext(name)); t != "" {
		return t, nil
	}

	f, err := fs.Open(name)
	if err != nil {
		return "", fmt.Errorf("opening asset %s: %w", name, err)
	}
	defer f.Close()

	m, err := mimetype.DetectReader(f)
	if err != nil || m == nil {
		return defaultMediaType, nil
	}

	return m.String(), nil
}
