// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"archive/zip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/launchkit/launchkit/internal/testutil"
)

func readEntry(t *testing.T, r *zip.Reader, name string) string {
	t.Helper()
	f, err := r.Open(name)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	return string(data)
}

func TestPack(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	testutil.WriteTree(t, filepath.Join(src, "classes"), map[string]string{
		"app/config.properties": "port=8080\n",
	})
	testutil.WriteTree(t, filepath.Join(src, "core"), map[string]string{
		"lib/core.txt": "core",
	})
	testutil.WriteTree(t, filepath.Join(src, "patch"), map[string]string{
		"lib/core.txt": "patched",
	})

	out := filepath.Join(t.TempDir(), "app.zip")
	got, err := Pack(PackOptions{
		Output:     out,
		Entry:      "com.example.Main",
		Version:    "1.2.3",
		ClassesDir: filepath.Join(src, "classes"),
		Libraries: []Library{
			{Name: "core-1.0", Dir: filepath.Join(src, "core")},
			{Name: "patch-1.0", Dir: filepath.Join(src, "patch")},
		},
	})
	require.NoError(t, err)
	require.Equal(t, out, got)

	layout, err := Inspect(got)
	require.NoError(t, err)
	require.Equal(t, []string{"core-1.0", "patch-1.0"}, layout.Groups)
	require.True(t, layout.HasResourceRoot)

	m, err := ReadManifest(got)
	require.NoError(t, err)
	require.Equal(t, "com.example.Main", m.JumpClass())
	require.Equal(t, "1.2.3", m.ImplementationVersion())
	require.Equal(t, DefaultCreatedBy, m.Get(CreatedByAttr))

	r, err := zip.OpenReader(got)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	require.Equal(t, "port=8080\n", readEntry(t, &r.Reader, "embedded-classes/app/config.properties"))
	require.Equal(t, "patched", readEntry(t, &r.Reader, "embedded-libraries/patch-1.0/lib/core.txt"))

	// Every directory has its own entry.
	dirs := map[string]bool{}
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			dirs[f.Name] = true
		}
	}
	for _, want := range []string{
		"META-INF/",
		"embedded-classes/",
		"embedded-classes/app/",
		"embedded-libraries/",
		"embedded-libraries/core-1.0/",
		"embedded-libraries/core-1.0/lib/",
	} {
		require.True(t, dirs[want], "missing directory entry %s", want)
	}
}

func TestPack_AppendedToExecutable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	exe := filepath.Join(dir, "launcher")
	stub := []byte("#!/bin/sh\necho not really a launcher\n")
	require.NoError(t, os.WriteFile(exe, stub, 0o755))

	testutil.WriteTree(t, filepath.Join(dir, "lib"), map[string]string{"a.txt": "a"})

	out, err := Pack(PackOptions{
		Output:     filepath.Join(dir, "app"),
		Entry:      "main",
		Libraries:  []Library{{Name: "only", Dir: filepath.Join(dir, "lib")}},
		Executable: exe,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, stub, data[:len(stub)], "executable must come first")

	info, err := os.Stat(out)
	require.NoError(t, err)
	require.NotZero(t, info.Mode().Perm()&0o100, "output should be executable")

	layout, err := Inspect(out)
	require.NoError(t, err)
	require.Equal(t, []string{"only"}, layout.Groups)
	require.False(t, layout.HasResourceRoot)
}

func TestPack_InvalidOptions(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tests := []struct {
		name string
		opts PackOptions
	}{
		{name: "no output", opts: PackOptions{}},
		{name: "slash in library name", opts: PackOptions{Output: "x.zip", Libraries: []Library{{Name: "a/b", Dir: dir}}}},
		{name: "empty library name", opts: PackOptions{Output: "x.zip", Libraries: []Library{{Dir: dir}}}},
		{name: "duplicate library", opts: PackOptions{Output: "x.zip", Libraries: []Library{{Name: "a", Dir: dir}, {Name: "a", Dir: dir}}}},
		{name: "library without dir", opts: PackOptions{Output: "x.zip", Libraries: []Library{{Name: "a"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Pack(tt.opts)
			require.ErrorIs(t, err, ErrInvalidPackOptions)
		})
	}
}

func TestPack_OutputConflicts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	exe := filepath.Join(dir, "launcher")
	stub := []byte("#!/bin/sh\n")
	require.NoError(t, os.WriteFile(exe, stub, 0o755))
	testutil.WriteTree(t, filepath.Join(dir, "classes"), map[string]string{"a.txt": "a"})
	testutil.WriteTree(t, filepath.Join(dir, "lib"), map[string]string{"b.txt": "b"})

	tests := []struct {
		name string
		opts PackOptions
	}{
		{name: "output is the executable", opts: PackOptions{Output: exe, Executable: exe}},
		{
			name: "output is the executable through a relative path",
			opts: PackOptions{Output: filepath.Join(dir, "classes", "..", "launcher"), Executable: exe},
		},
		{
			name: "output inside classes",
			opts: PackOptions{Output: filepath.Join(dir, "classes", "app.zip"), ClassesDir: filepath.Join(dir, "classes")},
		},
		{
			name: "output inside a library",
			opts: PackOptions{
				Output:    filepath.Join(dir, "lib", "nested", "app.zip"),
				Libraries: []Library{{Name: "core", Dir: filepath.Join(dir, "lib")}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Pack(tt.opts)
			require.ErrorIs(t, err, ErrInvalidPackOptions)
		})
	}

	data, err := os.ReadFile(exe)
	require.NoError(t, err)
	require.Equal(t, stub, data, "the executable must be left untouched")
	_, err = os.Stat(filepath.Join(dir, "classes", "app.zip"))
	require.ErrorIs(t, err, os.ErrNotExist)

	// A sibling of a packed directory is fine.
	_, err = Pack(PackOptions{Output: filepath.Join(dir, "classes.zip"), ClassesDir: filepath.Join(dir, "classes")})
	require.NoError(t, err)
}

func TestPack_RemovesPartialOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out := filepath.Join(dir, "broken.zip")

	_, err := Pack(PackOptions{
		Output:     out,
		ClassesDir: filepath.Join(dir, "does-not-exist"),
	})
	require.Error(t, err)

	_, statErr := os.Stat(out)
	require.True(t, errors.Is(statErr, os.ErrNotExist), "partial archive should be removed")
}
