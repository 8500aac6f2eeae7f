package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	oerrors "github.com/relkit/publish/internal/errors"
)

// FindConfigFile returns the config file to read: explicit when given,
// otherwise the first candidate present in fs. It returns "" when there is
// no config file.
func FindConfigFile(fs afero.Fs, explicit string) (string, error) {
	if explicit != "" {
		p, err := ExpandPath(explicit)
		if err != nil {
			return "", fmt.Errorf("expanding config path: %w", err)
		}
		return p, nil
	}

	for _, name := range configCandidates {
		ok, err := afero.Exists(fs, name)
		if err != nil {
			return "", fmt.Errorf("checking %s: %w", name, err)
		}
		if ok {
			return name, nil
		}
	}

	return "", nil
}

// LoadConfigFile reads the project config file and returns its settings
// with their keys lowercased. An explicit path must exist; a missing
// candidate is not an error.
func LoadConfigFile(fs afero.Fs, explicit string) (map[string]any, string, error) {
	path, err := FindConfigFile(fs, explicit)
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		return nil, "", nil
	}

	// Absolute paths given with --config live outside the project fs.
	readFs := fs
	if filepath.IsAbs(path) {
		readFs = afero.NewOsFs()
	}

	v := viper.New()
	v.SetFs(readFs)
	v.SetConfigFile(path)
	if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext == "" || ext == "publishrc" {
		v.SetConfigType("json")
	}

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		if errors.As(err, &pathErr) || os.IsNotExist(err) {
			return nil, path, oerrors.NewConfigError("config file not found", path, "check --config or "+EnvConfigFile)
		}
		return nil, path, oerrors.NewConfigError(fmt.Sprintf("reading config file: %v", err), path, "")
	}

	return v.AllSettings(), path, nil
}
