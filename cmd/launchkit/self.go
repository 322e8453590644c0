// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"mvdan.cc/sh/v3/shell"

	"github.com/launchkit/launchkit/internal/boot"
)

// OptsEnv names the environment variable whose launcher options are applied before
// those on the command line.
const OptsEnv = "LAUNCHKIT_OPTS"

// ExecuteSelf is the main function of an application binary that carries its own
// archive. Only -R, -D and -P are interpreted; every other argument, flags included,
// belongs to the application.
func ExecuteSelf() {
	app := NewApp(Dependencies{})
	os.Exit(int(execute(NewSelfCommand(app))))
}

// NewSelfCommand builds the root command used by ExecuteSelf.
func NewSelfCommand(app *App) *cobra.Command {
	name := "app"
	if exe, err := os.Executable(); err == nil {
		name = filepath.Base(exe)
	}

	return &cobra.Command{
		Use:                name,
		Short:              "Launch the archive embedded in this executable",
		DisableFlagParsing: true,
		Args:               cobra.ArbitraryArgs,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			app.loadConfig(cmd.Context())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := boot.ParseCommandLine(args)
			if err != nil {
				cmd.SilenceErrors = true
				cmd.SilenceUsage = true
				return app.exitError(&boot.Error{Stage: boot.StageSettings, Err: err})
			}
			return app.launch(cmd, "", cl)
		},
	}
}

// commandLineFromEnv parses OptsEnv with shell quoting rules. It may only contain
// launcher options.
func commandLineFromEnv() (boot.CommandLine, error) {
	value := os.Getenv(OptsEnv)
	if strings.TrimSpace(value) == "" {
		return boot.CommandLine{}, nil
	}

	words, err := shell.Fields(value, os.Getenv)
	if err != nil {
		return boot.CommandLine{}, fmt.Errorf("%s: %w", OptsEnv, err)
	}

	cl, err := boot.ParseCommandLine(words)
	if err != nil {
		return boot.CommandLine{}, fmt.Errorf("%s: %w", OptsEnv, err)
	}
	if len(cl.Args) > 0 {
		return boot.CommandLine{}, fmt.Errorf("%s: %q is not a launcher option", OptsEnv, cl.Args[0])
	}
	return cl, nil
}
