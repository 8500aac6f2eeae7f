package config

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	oerrors "github.com/relkit/publish/internal/errors"
)

// ManifestFile is the package manifest read from the project directory.
const ManifestFile = "package.json"

// Manifest holds the package.json fields publish needs.
type Manifest struct {
	Name    string
	Version string

	// Repository is the repository url, from either the string or the
	// object form of the field.
	Repository string

	// Publish is the "publish" override block, keys lowercased.
	Publish map[string]any
}

// LoadManifest reads package.json from fs.
func LoadManifest(fs afero.Fs) (*Manifest, error) {
	// package.json keys ("./index.js" exports and the like) contain dots.
	v := viper.NewWithOptions(viper.KeyDelimiter("::"))
	v.SetFs(fs)
	v.SetConfigFile(ManifestFile)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		return nil, oerrors.NewConfigError(
			fmt.Sprintf("reading manifest: %v", err),
			ManifestFile,
			"run publish from the package root",
		)
	}

	m := &Manifest{
		Name:    v.GetString("name"),
		Version: strings.TrimSpace(v.GetString("version")),
	}

	if m.Version == "" {
		return nil, oerrors.NewConfigError(`manifest has no "version"`, ManifestFile, "")
	}

	switch repo := v.Get("repository").(type) {
	case string:
		m.Repository = repo
	case map[string]any:
		if u, ok := repo["url"].(string); ok {
			m.Repository = u
		}
	}

	if raw := v.Get("publish"); raw != nil {
		block, ok := raw.(map[string]any)
		if !ok {
			return nil, oerrors.NewConfigError(`"publish" must be an object`, ManifestFile, "")
		}
		m.Publish = block
	}

	return m, nil
}
