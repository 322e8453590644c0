// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Color palette shared by all CLI output. Tuned for dark terminal backgrounds.
const (
	// ColorPrimary is purple, for titles and headers.
	ColorPrimary = lipgloss.Color("#7C3AED")
	// ColorMuted is gray, for subtitles and de-emphasized content.
	ColorMuted = lipgloss.Color("#6B7280")
	// ColorSuccess is green, for completed actions.
	ColorSuccess = lipgloss.Color("#10B981")
	// ColorError is red, for failures.
	ColorError = lipgloss.Color("#EF4444")
	// ColorWarning is amber, for recoverable problems.
	ColorWarning = lipgloss.Color("#F59E0B")
	// ColorHighlight is blue, for keys, symbols and paths.
	ColorHighlight = lipgloss.Color("#3B82F6")
)

var (
	// TitleStyle is for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for secondary text.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// SuccessStyle is for success marks and values.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// ErrorStyle is for error labels.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// WarningStyle is for warning labels.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// KeyStyle is for setting keys, symbols and paths.
	KeyStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)
)
