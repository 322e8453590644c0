// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/launchkit/launchkit/internal/boot"
	"github.com/launchkit/launchkit/internal/config"
	"github.com/launchkit/launchkit/pkg/launch"
	"github.com/launchkit/launchkit/pkg/types"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root for
	// the CLI layer; every command handler receives an App reference.
	App struct {
		Config  ConfigProvider
		Catalog *launch.Catalog
		stdout  io.Writer
		stderr  io.Writer

		// Set by the root command's pre-run hook.
		cfg    *config.Config
		logger *log.Logger
		flags  rootFlags
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config  ConfigProvider
		Catalog *launch.Catalog
		Stdout  io.Writer
		Stderr  io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// rootFlags are the persistent flags shared by every command.
	rootFlags struct {
		verbose    bool
		configFile string
		logLevel   string
	}

	// launcherFlags are the -R, -D and -P options as cobra flags.
	launcherFlags struct {
		entry         string
		definitions   []string
		propertyFiles []string
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Catalog == nil {
		deps.Catalog = launch.Default
	}

	return &App{
		Config:  deps.Config,
		Catalog: deps.Catalog,
		stdout:  deps.Stdout,
		stderr:  deps.Stderr,
		cfg:     config.DefaultConfig(),
		logger:  log.New(io.Discard),
	}
}

// loadConfig reads the configuration and builds the logger. A configuration that fails
// to load is reported as a warning and replaced by the defaults.
func (a *App) loadConfig(ctx context.Context) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.flags.configFile})
	if err != nil {
		fmt.Fprintln(a.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, a.flags.verbose))
		cfg = config.DefaultConfig()
	}
	a.cfg = cfg

	level := string(cfg.LogLevel)
	if a.flags.logLevel != "" {
		level = a.flags.logLevel
	}
	if a.flags.verbose {
		level = string(config.LogLevelDebug)
	}
	a.logger = newLogger(a.stderr, level)
}

// newLogger builds the launcher logger. An unknown level falls back to warn.
func newLogger(w io.Writer, level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.WarnLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: "launchkit",
		Level:  lvl,
	})
}

// settings layers the launcher options over the loaded configuration.
func (a *App) settings(cl boot.CommandLine) (*config.Settings, error) {
	s := config.NewSettings(a.cfg)
	if err := cl.Apply(s); err != nil {
		return nil, err
	}
	return s, nil
}

// commandLine converts launcher flags into a CommandLine carrying args.
func (f launcherFlags) commandLine(args []string) (boot.CommandLine, error) {
	cl := boot.CommandLine{
		Entry:         f.entry,
		PropertyFiles: f.propertyFiles,
		Args:          args,
	}
	for _, d := range f.definitions {
		def, err := boot.ParseDefinition(d)
		if err != nil {
			return boot.CommandLine{}, err
		}
		cl.Definitions = append(cl.Definitions, def)
	}
	return cl, nil
}

func (f *launcherFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.entry, "entry", "R", "", "entry symbol to run (default: Jump-Class from the manifest)")
	cmd.Flags().StringArrayVarP(&f.definitions, "define", "D", nil, "define a setting as name[=value] (repeatable)")
	cmd.Flags().StringArrayVarP(&f.propertyFiles, "properties", "P", nil, "load settings from a properties or TOML file (repeatable)")
}

// launch runs one archive and turns failures into ExitErrors whose message has already
// been shown. The application's own error is printed unaltered.
func (a *App) launch(cmd *cobra.Command, archivePath string, cl boot.CommandLine) error {
	req, err := a.request(archivePath, cl)
	if err == nil {
		err = a.launcher().Run(cmd.Context(), req)
	}
	if err == nil {
		return nil
	}

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return a.exitError(err)
}

// request merges OptsEnv into cl and resolves the settings of one launch.
func (a *App) request(archivePath string, cl boot.CommandLine) (boot.Request, error) {
	env, err := commandLineFromEnv()
	if err != nil {
		return boot.Request{}, &boot.Error{Stage: boot.StageSettings, Err: err}
	}
	cl = env.Merge(cl)

	settings, err := a.settings(cl)
	if err != nil {
		return boot.Request{}, &boot.Error{Stage: boot.StageSettings, Err: err}
	}

	return boot.Request{
		Archive:  archivePath,
		Entry:    cl.Entry,
		Args:     cl.Args,
		Settings: settings,
	}, nil
}

func (a *App) launcher() *boot.Launcher {
	return &boot.Launcher{Catalog: a.Catalog, Logger: a.logger, Stderr: a.stderr}
}

// exitError renders err and wraps it with the matching exit code.
func (a *App) exitError(err error) *ExitError {
	switch {
	case errors.Is(err, boot.ErrNothingToRun):
		return &ExitError{Code: types.ExitUsage, Err: err}
	case errors.Is(err, boot.ErrEntryRequired):
		id, _ := classifyLaunchError(err, a.flags.verbose)
		renderServiceError(a.stderr, newServiceError(err, id, ""))
		return &ExitError{Code: types.ExitUsage, Err: err}
	case isLauncherError(err):
		id, msg := classifyLaunchError(err, a.flags.verbose)
		renderServiceError(a.stderr, newServiceError(err, id, msg))
		return &ExitError{Code: types.ExitFailure, Err: err}
	default:
		fmt.Fprintln(a.stderr, strings.TrimRight(err.Error(), "\n"))
		return &ExitError{Code: types.ExitFailure, Err: err}
	}
}
