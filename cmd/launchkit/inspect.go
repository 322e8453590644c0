// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

// newInspectCommand creates the `launchkit inspect` command.
func newInspectCommand(app *App) *cobra.Command {
	var (
		flags launcherFlags
		raw   bool
	)

	inspectCmd := &cobra.Command{
		Use:   "inspect [archive]",
		Short: "Show how an archive would be launched",
		Long: `Show how an archive would be launched: its library groups, the ordered
search path, the resolution locations, the entry symbol and the extensions with
their enabled state. No application code runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var archivePath string
			if len(args) == 1 {
				archivePath = args[0]
			}

			cl, err := flags.commandLine(nil)
			if err != nil {
				return err
			}

			req, err := app.request(archivePath, cl)
			if err != nil {
				cmd.SilenceErrors = true
				cmd.SilenceUsage = true
				return app.exitError(err)
			}

			report, err := app.launcher().Describe(cmd.Context(), req)
			if err != nil {
				cmd.SilenceErrors = true
				cmd.SilenceUsage = true
				return app.exitError(err)
			}

			md := report.Markdown()
			if raw {
				fmt.Fprint(app.stdout, md)
				return nil
			}
			rendered, err := renderMarkdown(md)
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, rendered)
			return nil
		},
	}

	inspectCmd.Flags().BoolVar(&raw, "raw", false, "print the report as plain Markdown")
	flags.register(inspectCmd)

	return inspectCmd
}

func renderMarkdown(md string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}
	return r.Render(md)
}
