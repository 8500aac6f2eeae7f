package version

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

// toolVersionRegex matches version output like "git version 2.43.0" or "10.2.4".
var toolVersionRegex = regexp.MustCompile(`v?\d+\.\d+\.\d+(?:-[a-zA-Z0-9.]+)?`)

// Tool is an external command a release depends on.
type Tool struct {
	Name string

	// Required marks tools a release cannot run without.
	Required bool

	// Minimum is the lowest supported version. Empty accepts any.
	Minimum string
}

// Tools lists the commands publish shells out to.
var Tools = []Tool{
	{Name: "git", Required: true, Minimum: "2.0.0"},
	{Name: "npm", Required: true, Minimum: "7.0.0"},
	{Name: "gh"},
}

// ToolInfo describes an installed tool.
type ToolInfo struct {
	Name       string `json:"name"`
	Version    string `json:"version"`
	Path       string `json:"path"`
	Found      bool   `json:"found"`
	Compatible bool   `json:"compatible"`
	Message    string `json:"message,omitempty"`
}

// String returns a human-readable tool line.
func (t ToolInfo) String() string {
	if !t.Found {
		return fmt.Sprintf("  %-4s not found", t.Name)
	}

	compat := "ok"
	if !t.Compatible {
		compat = t.Message
	}
	return fmt.Sprintf("  %-4s %s (%s) %s", t.Name, t.Version, compat, t.Path)
}

// LookPath finds an executable. Replaced in tests.
var LookPath = exec.LookPath

// DetectTool finds tool in PATH and reads its version.
func DetectTool(ctx context.Context, tool Tool) ToolInfo {
	info := ToolInfo{Name: tool.Name}

	path, err := LookPath(tool.Name)
	if err != nil {
		info.Message = tool.Name + " not found in PATH"
		return info
	}
	info.Path = path
	info.Found = true

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, path, "--version").CombinedOutput()
	if err != nil {
		info.Message = "failed to get version: " + err.Error()
		return info
	}

	v, err := extractVersion(string(out))
	if err != nil {
		info.Message = err.Error()
		return info
	}
	info.Version = v

	info.Compatible, info.Message = CheckMinimum(v, tool.Minimum)
	return info
}

// DetectTools runs DetectTool for every entry of Tools.
func DetectTools(ctx context.Context) []ToolInfo {
	infos := make([]ToolInfo, 0, len(Tools))
	for _, t := range Tools {
		infos = append(infos, DetectTool(ctx, t))
	}
	return infos
}

// CheckMinimum reports whether version satisfies minimum.
func CheckMinimum(version, minimum string) (bool, string) {
	if minimum == "" {
		return true, "compatible"
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		return false, "invalid version " + version
	}

	c, err := semver.NewConstraint(">= " + minimum)
	if err != nil {
		return false, "invalid minimum " + minimum
	}

	if !c.Check(v) {
		return false, "requires >= " + minimum
	}
	return true, "compatible"
}

// extractVersion extracts the first version number from command output.
func extractVersion(output string) (string, error) {
	match := toolVersionRegex.FindString(output)
	if match == "" {
		return "", &versionParseError{output: strings.TrimSpace(output)}
	}
	return strings.TrimPrefix(match, "v"), nil
}

// versionParseError indicates failure to parse version output.
type versionParseError struct {
	output string
}

func (e *versionParseError) Error() string {
	return "failed to parse version from output: " + e.output
}
