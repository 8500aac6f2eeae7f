package config

import (
	"fmt"
	"path/filepath"
	"strings"

	oerrors "github.com/relkit/publish/internal/errors"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString("config validation failed:")
	for _, err := range e {
		sb.WriteString(fmt.Sprintf("\n  %s: %s", err.Field, err.Message))
	}
	return sb.String()
}

var (
	validPackageManagers = []string{"", "auto", "npm", "yarn", "pnpm"}
	validNpmAccess       = []string{"", "public", "restricted"}
)

// Validate checks the merged configuration. Failures wrap ErrConfig.
func Validate(cfg *ReleaseConfig) error {
	var errs ValidationErrors

	if !oneOf(cfg.PackageManager, validPackageManagers) {
		errs = append(errs, ValidationError{
			Field:   "packageManager",
			Message: fmt.Sprintf("%q is not one of auto, npm, yarn, pnpm", cfg.PackageManager),
		})
	}

	if !oneOf(cfg.NpmAccess, validNpmAccess) {
		errs = append(errs, ValidationError{
			Field:   "npmAccess",
			Message: fmt.Sprintf("%q is not one of public, restricted", cfg.NpmAccess),
		})
	}

	if !cfg.SkipCommit && strings.TrimSpace(cfg.CommitMessage) == "" {
		errs = append(errs, ValidationError{
			Field:   "commitMessage",
			Message: "must not be empty",
		})
	}

	if !cfg.SkipPublish && strings.TrimSpace(cfg.NpmTag) == "" {
		errs = append(errs, ValidationError{
			Field:   "npmTag",
			Message: "must not be empty",
		})
	}

	for _, p := range []struct{ field, path string }{
		{"changelog", cfg.Changelog},
		{"releaseNotesSource", cfg.ReleaseNotesSource},
		{"releaseNotesTemplate", cfg.ReleaseNotesTemplate},
		{"releaseAssets", cfg.ReleaseAssets},
	} {
		if !insideProject(p.path) {
			errs = append(errs, ValidationError{
				Field:   p.field,
				Message: fmt.Sprintf("%q must be a relative path inside the package directory", p.path),
			})
		}
	}

	if len(errs) > 0 {
		return oerrors.WrapConfig(errs, "invalid configuration")
	}

	return nil
}

// insideProject reports whether path stays within the project filesystem,
// which is rooted at the package directory.
func insideProject(path string) bool {
	if path == "" {
		return true
	}
	if filepath.IsAbs(path) || strings.HasPrefix(path, "~") {
		return false
	}
	clean := filepath.ToSlash(filepath.Clean(path))
	return clean != ".." && !strings.HasPrefix(clean, "../")
}

func oneOf(s string, allowed []string) bool {
	for _, a := range allowed {
		if s == a {
			return true
		}
	}
	return false
}
