// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"
)

// newRunCommand creates the `launchkit run` command.
func newRunCommand(app *App) *cobra.Command {
	var (
		archivePath string
		flags       launcherFlags
	)

	runCmd := &cobra.Command{
		Use:   "run [flags] [--] [args...]",
		Short: "Launch an archive",
		Long: `Launch an archive.

The archive defaults to the running executable. Launcher flags must come before
the first application argument; everything from there on, or after "--", is
passed to the application unchanged. LAUNCHKIT_OPTS may hold further launcher
options; flags on the command line take precedence.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := flags.commandLine(args)
			if err != nil {
				return err
			}
			return app.launch(cmd, archivePath, cl)
		},
	}

	runCmd.Flags().SetInterspersed(false)
	runCmd.Flags().StringVar(&archivePath, "archive", "", "archive to launch (default: this executable)")
	flags.register(runCmd)

	return runCmd
}
