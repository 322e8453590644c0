// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
)

type (
	// TB is the part of testing.TB the helpers need. rapid.T satisfies it too.
	TB interface {
		Helper()
		Fatal(args ...any)
	}

	// ZipEntry is one entry written by WriteZip. A Name ending in "/" is a directory
	// entry and its Content is ignored.
	ZipEntry struct {
		Name    string
		Content string
	}
)

// MustMkdirAll creates a directory along with any necessary parents.
func MustMkdirAll(t TB, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatal(err)
	}
}

// WriteTree writes files below root. Keys are slash-separated relative paths.
func WriteTree(t TB, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		MustMkdirAll(t, filepath.Dir(p))
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

// WriteZip creates a zip archive at path holding entries in the given order.
func WriteZip(t TB, path string, entries ...ZipEntry) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	for _, e := range entries {
		w, err := zw.Create(e.Name)
		if err != nil {
			t.Fatal(err)
		}
		if strings.HasSuffix(e.Name, "/") {
			continue
		}
		if _, err := w.Write([]byte(e.Content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}
