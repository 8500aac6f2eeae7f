package output

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette. Never use inline lipgloss.Color literals outside this file.
var (
	// ColorCyan is used for identifiable nouns: package names, versions, repositories.
	ColorCyan = lipgloss.Color("14")

	// colorGreen is used for step headers and the "done" status.
	colorGreen = lipgloss.Color("82")

	// ColorYellow is used for the "dry-run" status.
	ColorYellow = lipgloss.Color("220")

	// colorBoldRed is used for the "failed" status (matches ERROR level).
	colorBoldRed = lipgloss.Color("204")

	// ColorGreenCheck is used for the completion checkmark.
	ColorGreenCheck = lipgloss.Color("10")

	// ColorDimGray is used for borders and other structural chrome.
	ColorDimGray = lipgloss.Color("240")
)

// Semantic styles.
var (
	// StyleNoun styles identifiable nouns (package names, versions, commands).
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleAction styles step headers.
	StyleAction = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleDim styles secondary information (repository, branch, sources).
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleSummary styles completion and summary lines.
	StyleSummary = lipgloss.NewStyle().Bold(true)
)

// Step status values shown in the release summary.
const (
	StatusDone    = "done"
	StatusSkipped = "skipped"
	StatusDryRun  = "dry-run"
	StatusFailed  = "failed"
)

// StatusStyle returns the lipgloss style for a step status.
// Unknown statuses return an unstyled default.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case StatusDone:
		return lipgloss.NewStyle().Foreground(colorGreen)
	case StatusDryRun:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case StatusSkipped:
		return lipgloss.NewStyle().Faint(true)
	case StatusFailed:
		return lipgloss.NewStyle().Bold(true).Foreground(colorBoldRed)
	default:
		return lipgloss.NewStyle()
	}
}

// Noun renders s with StyleNoun.
func Noun(s string) string {
	return StyleNoun.Render(s)
}

// Dim renders s with StyleDim.
func Dim(s string) string {
	return StyleDim.Render(s)
}

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(ColorGreenCheck).Render("✔")
	return check + " " + msg
}
