package config

import (
	"os"
	"path/filepath"
)

// EnvConfigFile names an explicit config file.
const EnvConfigFile = "PUBLISH_CONFIG"

// DefaultConfigFile is the file written by "config init".
const DefaultConfigFile = ".publishrc.json"

// configCandidates are looked up in the project directory, in order.
var configCandidates = []string{
	".publishrc.json",
	".publishrc.yaml",
	".publishrc.yml",
	".publishrc.toml",
}

// ConfigFileFromEnv returns the --config flag value, else PUBLISH_CONFIG.
func ConfigFileFromEnv(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(EnvConfigFile)
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if len(path) == 0 {
		return path, nil
	}

	if path[0] != '~' {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	if len(path) == 1 {
		return homeDir, nil
	}

	// Handle ~/path/to/something
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:]), nil
	}

	// Handle ~username (not supported, return as-is)
	return path, nil
}
