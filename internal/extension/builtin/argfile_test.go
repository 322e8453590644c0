// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"testing/fstest"

	"github.com/launchkit/launchkit/pkg/launch"
)

// memResources serves files from memory.
type memResources struct {
	fstest.MapFS
}

func (m memResources) ReadAll(name string) ([][]byte, error) {
	data, err := fs.ReadFile(m.MapFS, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return [][]byte{data}, nil
}

func (memResources) Locations() []string { return []string{"mem:/"} }
func (memResources) Setting(string) (string, bool) { return "", false }

func TestArgFile_Initialize(t *testing.T) {
	t.Setenv("LAUNCHKIT_ARGFILE_TEST", "from-env")

	diskFile := filepath.Join(t.TempDir(), "disk.args")
	if err := os.WriteFile(diskFile, []byte("--disk 'two words'\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	res := memResources{fstest.MapFS{
		"conf/run.args": {Data: []byte("--port 8080\n--name \"my app\" $LAUNCHKIT_ARGFILE_TEST\n")},
	}}
	ctx := launch.WithResources(context.Background(), res)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{name: "untouched", args: []string{"a", "-b", "@"}, want: []string{"a", "-b", "@"}},
		{name: "from environment", args: []string{"x", "@conf/run.args", "y"}, want: []string{"x", "--port", "8080", "--name", "my app", "from-env", "y"}},
		{name: "from disk", args: []string{"@" + diskFile}, want: []string{"--disk", "two words"}},
		{name: "escaped", args: []string{"@@literal"}, want: []string{"@literal"}},
		{name: "empty", args: []string{}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ArgFile{}.Initialize(ctx, tt.args, "app.Main")
			if err != nil {
				t.Fatalf("Initialize() error = %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Initialize(%q) = %q, want %q", tt.args, got, tt.want)
			}
		})
	}
}

func TestArgFile_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	unterminated := filepath.Join(dir, "bad.args")
	if err := os.WriteFile(unterminated, []byte("'never closed"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := (ArgFile{}).Initialize(context.Background(), []string{"@" + filepath.Join(dir, "missing")}, ""); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing file: got %v, want fs.ErrNotExist", err)
	}
	if _, err := (ArgFile{}).Initialize(context.Background(), []string{"@" + unterminated}, ""); err == nil {
		t.Error("unterminated quote should fail")
	}
}

func TestAll(t *testing.T) {
	t.Parallel()

	exts := All()
	if len(exts) != 1 || exts[0].Name() != ArgFileName || exts[0].Order() != 100 {
		t.Errorf("All() = %v", exts)
	}
}

// optEnv adds settings and symbol resolution to memResources.
type optEnv struct {
	memResources
	settings map[string]string
}

func (e optEnv) Setting(key string) (string, bool) {
	v, ok := e.settings[key]
	return v, ok
}

func (optEnv) Resolve(string) (launch.Unit, bool) { return launch.Unit{}, false }

func TestDiscoverer_OptIn(t *testing.T) {
	t.Parallel()

	off, err := Discoverer().Discover(t.Context(), optEnv{})
	if err != nil || len(off) != 0 {
		t.Errorf("without %s: Discover() = %v, %v; want nothing", EnableKey, off, err)
	}

	on, err := Discoverer().Discover(t.Context(), optEnv{settings: map[string]string{EnableKey: "true"}})
	if err != nil || len(on) != 1 || on[0].Name() != ArgFileName {
		t.Errorf("with %s: Discover() = %v, %v", EnableKey, on, err)
	}
}
