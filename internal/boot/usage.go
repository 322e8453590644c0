// SPDX-License-Identifier: MPL-2.0

package boot

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/launchkit/launchkit/internal/archive"
)

var (
	usageTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	usageOptionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6"))
	usageHintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Italic(true)
)

// Usage returns the text shown when no entry symbol is known for the archive at
// archivePath.
func Usage(archivePath string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s %s [options] [args...]\n\n", usageTitleStyle.Render("Usage:"), filepath.Base(archivePath))
	sb.WriteString(usageTitleStyle.Render("Options:") + "\n")
	for _, opt := range []struct{ flag, desc string }{
		{DefineOption + "<name>=<value>", "define a setting"},
		{PropertiesOption + "<file>", "load settings from a properties or TOML file (no duplicates)"},
		{EntryOption + "<symbol>", "name the entry symbol to run"},
	} {
		fmt.Fprintf(&sb, "  %s  %s\n", usageOptionStyle.Render(fmt.Sprintf("%-18s", opt.flag)), opt.desc)
	}
	sb.WriteString("\n")
	sb.WriteString(usageHintStyle.Render(fmt.Sprintf("Set %s: in %s to choose the entry symbol automatically.", archive.JumpClassAttr, archive.ManifestName)))
	sb.WriteString("\n")

	return sb.String()
}
