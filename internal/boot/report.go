// SPDX-License-Identifier: MPL-2.0

package boot

import (
	"context"
	"fmt"
	"strings"

	"github.com/launchkit/launchkit/internal/extension"
)

type (
	// ExtensionReport describes one extension of a launch.
	ExtensionReport struct {
		Name     string
		Order    int
		Disabled bool
	}

	// Report describes what a launch would do without running any entry point.
	Report struct {
		Archive    string
		Entry      string
		Version    string
		Groups     []string
		SearchPath []string
		Locations  []string
		Extensions []ExtensionReport
	}
)

// Describe plans req, opens its environment and lists the extensions that would run.
// A missing entry symbol is not an error here.
func (l *Launcher) Describe(ctx context.Context, req Request) (*Report, error) {
	p, err := l.plan(req)
	if err != nil {
		return nil, err
	}

	env, err := l.open(p)
	if err != nil {
		return nil, err
	}
	defer l.close(env)

	exts, err := extension.New(l.discoverer(), l.logger()).Extensions(ctx, env)
	if err != nil {
		return nil, stageError(StageExtensions, err)
	}

	r := &Report{
		Archive:    p.archive,
		Entry:      p.entry,
		Version:    p.version,
		Groups:     p.layout.Groups,
		SearchPath: p.ordered,
		Locations:  env.Locations(),
	}
	for _, ext := range exts {
		r.Extensions = append(r.Extensions, ExtensionReport{
			Name:     ext.Name(),
			Order:    ext.Order(),
			Disabled: extension.Disabled(env, ext.Name()),
		})
	}
	return r, nil
}

// Markdown renders the report as a Markdown document.
func (r *Report) Markdown() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", r.Archive)
	fmt.Fprintf(&sb, "- **Entry symbol:** %s\n", orNone(r.Entry))
	fmt.Fprintf(&sb, "- **Version:** %s\n", orNone(r.Version))

	sb.WriteString("\n## Library groups\n\n")
	writeList(&sb, r.Groups, "archive order")

	sb.WriteString("\n## Search path\n\n")
	writeList(&sb, r.SearchPath, "after ordering")

	sb.WriteString("\n## Locations\n\n")
	if len(r.Locations) == 0 {
		sb.WriteString("_none_\n")
	}
	for i, loc := range r.Locations {
		fmt.Fprintf(&sb, "%d. `%s`\n", i+1, loc)
	}

	sb.WriteString("\n## Extensions\n\n")
	if len(r.Extensions) == 0 {
		sb.WriteString("_none_\n")
		return sb.String()
	}
	sb.WriteString("| Order | Name | State |\n|---:|---|---|\n")
	for _, ext := range r.Extensions {
		state := "enabled"
		if ext.Disabled {
			state = "disabled"
		}
		fmt.Fprintf(&sb, "| %d | %s | %s |\n", ext.Order, ext.Name, state)
	}
	return sb.String()
}

func writeList(sb *strings.Builder, items []string, caption string) {
	if len(items) == 0 {
		sb.WriteString("_none_\n")
		return
	}
	fmt.Fprintf(sb, "_%s_\n\n", caption)
	for i, item := range items {
		fmt.Fprintf(sb, "%d. %s\n", i+1, item)
	}
}

func orNone(s string) string {
	if s == "" {
		return "_none_"
	}
	return "`" + s + "`"
}
