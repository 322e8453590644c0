// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/launchkit/launchkit/pkg/types"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the launchkit command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "launchkit",
		Short: "Launch applications packed into a single archive",
		Long: TitleStyle.Render("launchkit") + SubtitleStyle.Render(" - launch applications packed into a single archive") + `

launchkit runs an application whose libraries and resources are embedded in one
zip archive, either standalone or appended to the launcher binary. Library
groups live under embedded-libraries/<group>/, resources under
embedded-classes/, and the entry symbol is named by Jump-Class in
META-INF/MANIFEST.MF.

` + SubtitleStyle.Render("Examples:") + `
  launchkit pack -o app.zip --classes ./res --lib core=./core --entry app.Main
  launchkit inspect app.zip
  launchkit run --archive app.zip -Dlaunchkit.libraryOrder=patch -- serve
  launchkit config show`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			app.loadConfig(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.flags.configFile, "config", "", "config file (default is $HOME/.config/launchkit/config.cue)")
	rootCmd.PersistentFlags().StringVar(&app.flags.logLevel, "log-level", "", "log level: debug, info, warn or error (default from config)")

	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.AddCommand(newRunCommand(app))
	rootCmd.AddCommand(newInspectCommand(app))
	rootCmd.AddCommand(newPackCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the launchkit command line and exits the process with its status.
// This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	os.Exit(int(execute(NewRootCommand(app))))
}

// execute runs root with fang styling and returns the exit code. Errors already shown
// to the user (ExitError) are not printed a second time.
func execute(root *cobra.Command) types.ExitCode {
	err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(func(w io.Writer, styles fang.Styles, err error) {
			var exitErr *ExitError
			if errors.As(err, &exitErr) {
				return
			}
			fang.DefaultErrorHandler(w, styles, err)
		}),
	)
	return exitCode(err)
}
