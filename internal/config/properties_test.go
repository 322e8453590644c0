// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestProperties_PutRejectsDuplicates(t *testing.T) {
	t.Parallel()

	p := NewProperties()
	if err := p.Put("a", "1"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	err := p.Put("a", "2")
	if !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("Put() = %v, want ErrDuplicateKey", err)
	}

	var dupErr *DuplicateKeyError
	if !errors.As(err, &dupErr) {
		t.Fatalf("error should be *DuplicateKeyError, got %T", err)
	}
	if dupErr.Key != "a" || dupErr.Previous != "1" || dupErr.Value != "2" {
		t.Errorf("DuplicateKeyError = %+v", dupErr)
	}

	if v, _ := p.Get("a"); v != "1" {
		t.Errorf("rejected Put changed the value to %q", v)
	}
}

func TestProperties_SetAndMerge(t *testing.T) {
	t.Parallel()

	base := NewProperties()
	base.Set("x", "1")
	base.Set("y", "2")
	base.Set("x", "3")

	over := NewProperties()
	over.Set("z", "4")
	over.Set("y", "5")

	base.Merge(over)

	if got := base.Keys(); !slices.Equal(got, []string{"x", "y", "z"}) {
		t.Errorf("Keys() = %v, want insertion order", got)
	}
	for key, want := range map[string]string{"x": "3", "y": "5", "z": "4"} {
		if got, _ := base.Get(key); got != want {
			t.Errorf("Get(%q) = %q, want %q", key, got, want)
		}
	}
	if base.Len() != 3 {
		t.Errorf("Len() = %d, want 3", base.Len())
	}
}

func TestParseProperties(t *testing.T) {
	t.Parallel()

	input := `# comment
! also a comment

launchkit.libraryOrder = patch, core
key:value
spaced   value with spaces
escaped\ key=tab\there
unicode=café
continued = first, \
            second
empty=
`
	props, err := ParseProperties(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseProperties() error = %v", err)
	}

	want := map[string]string{
		"launchkit.libraryOrder": "patch, core",
		"key":                    "value",
		"spaced":                 "value with spaces",
		"escaped key":            "tab\there",
		"unicode":                "café",
		"continued":              "first, second",
		"empty":                  "",
	}
	if props.Len() != len(want) {
		t.Errorf("Len() = %d, want %d (keys %v)", props.Len(), len(want), props.Keys())
	}
	for key, value := range want {
		got, ok := props.Get(key)
		if !ok {
			t.Errorf("missing key %q", key)
			continue
		}
		if got != value {
			t.Errorf("Get(%q) = %q, want %q", key, got, value)
		}
	}
}

func TestParseProperties_Duplicate(t *testing.T) {
	t.Parallel()

	_, err := ParseProperties(strings.NewReader("a=1\nb=2\na=3\n"))
	if !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("ParseProperties() = %v, want ErrDuplicateKey", err)
	}
	if !strings.Contains(err.Error(), "line 3") {
		t.Errorf("error should carry the line number, got: %v", err)
	}
}

func TestParseProperties_MalformedUnicode(t *testing.T) {
	t.Parallel()

	for _, input := range []string{`a=\u12`, `a=\uzzzz`} {
		if _, err := ParseProperties(strings.NewReader(input)); err == nil {
			t.Errorf("ParseProperties(%q) should fail", input)
		}
	}
}

func TestLoadPropertiesFile_TOML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "launch.toml")
	content := `
[launchkit]
libraryOrder = ["patch", "core"]

[launchkit.disable]
argfile = true

[app]
port = 8080
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	props, err := LoadPropertiesFile(path)
	if err != nil {
		t.Fatalf("LoadPropertiesFile() error = %v", err)
	}

	want := map[string]string{
		"launchkit.libraryOrder":    "patch,core",
		"launchkit.disable.argfile": "true",
		"app.port":                  "8080",
	}
	for key, value := range want {
		if got, _ := props.Get(key); got != value {
			t.Errorf("Get(%q) = %q, want %q", key, got, value)
		}
	}
	if !slices.Equal(props.Keys(), []string{"app.port", "launchkit.disable.argfile", "launchkit.libraryOrder"}) {
		t.Errorf("Keys() = %v, want sorted flattening", props.Keys())
	}
}

func TestLoadPropertiesFile_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	if _, err := LoadPropertiesFile(filepath.Join(dir, "missing.properties")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: got %v, want os.ErrNotExist", err)
	}

	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("= nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPropertiesFile(bad); err == nil {
		t.Error("invalid TOML should fail")
	}

	dup := filepath.Join(dir, "dup.properties")
	if err := os.WriteFile(dup, []byte("k=1\nk=2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPropertiesFile(dup); !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("duplicate key: got %v, want ErrDuplicateKey", err)
	}
}
