// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/launchkit/launchkit/internal/config"
	"github.com/launchkit/launchkit/internal/dispatch"
	"github.com/launchkit/launchkit/internal/extension/builtin"
	"github.com/launchkit/launchkit/pkg/launch"
	"github.com/launchkit/launchkit/pkg/types"
)

// Launch tests install a process-wide environment and set OptsEnv; they cannot run
// in parallel.

type launched struct {
	symbol   string
	args     []string
	greeting string
	version  string
	which    string
}

func recordingCatalog(got *launched, symbols ...string) *launch.Catalog {
	catalog := launch.NewCatalog()
	for _, symbol := range symbols {
		catalog.Register(symbol, launch.MainFunc(func(ctx context.Context, args []string) error {
			res, ok := launch.ResourcesFrom(ctx)
			if !ok {
				return errors.New("no resources in context")
			}
			which, err := fs.ReadFile(res, "lib/which.txt")
			if err != nil {
				return err
			}
			got.symbol, got.args, got.which = symbol, args, string(which)
			got.greeting, _ = res.Setting("greeting")
			got.version, _ = res.Setting(config.ImplementationVersionKey)
			return nil
		}))
	}
	return catalog
}

func TestRunCommand(t *testing.T) {
	t.Setenv(OptsEnv, "")
	archivePath := packTestArchive(t, "app.Main")

	var got launched
	app, _, _ := newTestApp(t, recordingCatalog(&got, "app.Main"))

	err := executeRoot(t, app, "run", "--archive", archivePath, "-D", "greeting=hi", "--", "serve", "-Dnot-ours", "--port", "80")
	require.NoError(t, err)

	require.Equal(t, "app.Main", got.symbol)
	require.Equal(t, []string{"serve", "-Dnot-ours", "--port", "80"}, got.args)
	require.Equal(t, "hi", got.greeting)
	require.Equal(t, "3.1.0", got.version)
	require.Equal(t, "core", got.which)
}

func TestRunCommand_OptsEnv(t *testing.T) {
	archivePath := packTestArchive(t, "app.Main")

	t.Run("merged beneath flags", func(t *testing.T) {
		t.Setenv(OptsEnv, "-Rapp.Other '-Dgreeting=from env'")

		var got launched
		app, _, _ := newTestApp(t, recordingCatalog(&got, "app.Main", "app.Other"))
		require.NoError(t, executeRoot(t, app, "run", "--archive", archivePath))
		require.Equal(t, "app.Other", got.symbol)
		require.Equal(t, "from env", got.greeting)

		got = launched{}
		app, _, _ = newTestApp(t, recordingCatalog(&got, "app.Main", "app.Other"))
		require.NoError(t, executeRoot(t, app, "run", "--archive", archivePath, "-R", "app.Main", "-D", "greeting=cli"))
		require.Equal(t, "app.Main", got.symbol)
		require.Equal(t, "cli", got.greeting)
	})

	t.Run("application argument rejected", func(t *testing.T) {
		t.Setenv(OptsEnv, "serve")

		var got launched
		app, _, stderr := newTestApp(t, recordingCatalog(&got, "app.Main"))
		err := executeRoot(t, app, "run", "--archive", archivePath)
		require.Equal(t, types.ExitFailure, exitCode(err))
		require.Contains(t, stderr.String(), "not a launcher option")
		require.Empty(t, got.symbol)
	})
}

func TestRunCommand_UsageExitCode(t *testing.T) {
	t.Setenv(OptsEnv, "")
	archivePath := packTestArchive(t, "")

	for _, args := range [][]string{nil, {"serve"}} {
		app, _, stderr := newTestApp(t, nil)
		err := executeRoot(t, app, append([]string{"run", "--archive", archivePath, "--"}, args...)...)
		require.Equal(t, types.ExitUsage, exitCode(err), "args %v", args)
		require.Contains(t, stderr.String(), "Usage:")
	}
}

func TestRunCommand_ApplicationError(t *testing.T) {
	t.Setenv(OptsEnv, "")
	archivePath := packTestArchive(t, "app.Main")

	catalog := launch.NewCatalog()
	catalog.Register("app.Main", launch.MainFunc(func(context.Context, []string) error {
		return errors.New("database unreachable")
	}))

	app, _, stderr := newTestApp(t, catalog)
	err := executeRoot(t, app, "run", "--archive", archivePath)
	require.Equal(t, types.ExitFailure, exitCode(err))
	require.Contains(t, stderr.String(), "database unreachable\n")
	require.NotContains(t, stderr.String(), "launch failed")
}

func TestRunCommand_LauncherError(t *testing.T) {
	t.Setenv(OptsEnv, "")
	archivePath := packTestArchive(t, "app.Missing")

	app, _, stderr := newTestApp(t, nil)
	err := executeRoot(t, app, "run", "--archive", archivePath)
	require.ErrorIs(t, err, dispatch.ErrSymbolNotFound)
	require.Equal(t, types.ExitFailure, exitCode(err))
	require.Contains(t, stderr.String(), "Error:")
	require.Contains(t, stderr.String(), "app.Missing")
}

func TestRunCommand_ConfigFallback(t *testing.T) {
	t.Setenv(OptsEnv, "")
	archivePath := packTestArchive(t, "app.Main")

	var got launched
	app, _, stderr := newTestApp(t, recordingCatalog(&got, "app.Main"))
	app.Config = staticConfig{err: errors.New("config.cue: syntax error")}

	require.NoError(t, executeRoot(t, app, "run", "--archive", archivePath))
	require.Contains(t, stderr.String(), "Warning:")
	require.Equal(t, "app.Main", got.symbol)
}

func TestInspectCommand_Raw(t *testing.T) {
	t.Setenv(OptsEnv, "")
	archivePath := packTestArchive(t, "app.Main")

	app, stdout, _ := newTestApp(t, nil)
	require.NoError(t, executeRoot(t, app, "inspect", "--raw", archivePath,
		"-D", builtin.EnableKey, "-D", config.DisablePrefix+builtin.ArgFileName))

	out := stdout.String()
	for _, want := range []string{"app.Main", "3.1.0", "core-1.0", "embedded-classes/", "argfile"} {
		require.Contains(t, out, want)
	}
}

func TestConfigShow(t *testing.T) {
	app, stdout, _ := newTestApp(t, nil)
	app.Config = staticConfig{cfg: &config.Config{
		LibraryOrder: []string{"patch"},
		LogLevel:     config.LogLevelDebug,
	}}

	require.NoError(t, executeRoot(t, app, "config", "show"))
	out := stdout.String()
	require.Contains(t, out, "library_order")
	require.Contains(t, out, "patch")
	require.Contains(t, out, "debug")
}
