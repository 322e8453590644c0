// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/launchkit/launchkit/internal/config"
	"github.com/launchkit/launchkit/internal/testutil"
	"github.com/launchkit/launchkit/pkg/launch"
)

type staticConfig struct {
	cfg *config.Config
	err error
}

func (s staticConfig) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.cfg == nil {
		return config.DefaultConfig(), nil
	}
	return s.cfg, nil
}

func newTestApp(t *testing.T, catalog *launch.Catalog) (app *App, stdout, stderr *bytes.Buffer) {
	t.Helper()
	if catalog == nil {
		catalog = launch.NewCatalog()
	}
	stdout, stderr = &bytes.Buffer{}, &bytes.Buffer{}
	app = NewApp(Dependencies{
		Config:  staticConfig{},
		Catalog: catalog,
		Stdout:  stdout,
		Stderr:  stderr,
	})
	return app, stdout, stderr
}

// executeRoot runs the root command with args against app.
func executeRoot(t *testing.T, app *App, args ...string) error {
	t.Helper()
	root := NewRootCommand(app)
	root.SetArgs(args)
	return root.ExecuteContext(t.Context())
}

// packTestArchive packs an archive through the pack command: a resource root with
// app/app.properties and a single library group core-1.0.
func packTestArchive(t *testing.T, entry string) string {
	t.Helper()

	src := t.TempDir()
	testutil.WriteTree(t, src, map[string]string{
		"classes/app/app.properties": "greeting=hello\n",
		"core/lib/which.txt":         "core",
	})

	out := filepath.Join(t.TempDir(), "app.zip")
	args := []string{
		"pack", "-o", out,
		"--classes", filepath.Join(src, "classes"),
		"--lib", "core-1.0=" + filepath.Join(src, "core"),
		"--version", "3.1.0",
	}
	if entry != "" {
		args = append(args, "--entry", entry)
	}

	app, stdout, _ := newTestApp(t, nil)
	require.NoError(t, executeRoot(t, app, args...))
	require.Contains(t, stdout.String(), "Packed")
	require.Contains(t, stdout.String(), "core-1.0")
	return out
}
