// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"archive/zip"
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
)

const (
	// JumpClassAttr names the entry symbol of the archive.
	JumpClassAttr = "Jump-Class"
	// ImplementationVersionAttr carries the application version.
	ImplementationVersionAttr = "Implementation-Version"
	// ManifestVersionAttr is written first in every manifest.
	ManifestVersionAttr = "Manifest-Version"
	// CreatedByAttr names the tool that built the archive.
	CreatedByAttr = "Created-By"
)

// Manifest holds the main section attributes of META-INF/MANIFEST.MF.
type Manifest struct {
	attrs map[string]string
	names []string
}

// NewManifest creates an empty manifest.
func NewManifest() Manifest {
	return Manifest{attrs: make(map[string]string)}
}

// Get returns an attribute. Attribute names are case-insensitive.
func (m Manifest) Get(name string) string {
	return m.attrs[strings.ToLower(name)]
}

// Set adds or replaces an attribute.
func (m *Manifest) Set(name, value string) {
	if m.attrs == nil {
		m.attrs = make(map[string]string)
	}
	key := strings.ToLower(name)
	if _, ok := m.attrs[key]; !ok {
		m.names = append(m.names, name)
	}
	m.attrs[key] = value
}

// JumpClass returns the entry symbol, or "" when the manifest names none.
func (m Manifest) JumpClass() string { return m.Get(JumpClassAttr) }

// ImplementationVersion returns the application version, or "".
func (m Manifest) ImplementationVersion() string { return m.Get(ImplementationVersionAttr) }

// WriteTo writes the manifest in the 72-byte-line format with CRLF line endings.
func (m Manifest) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder
	for _, name := range m.names {
		line := name + ": " + m.attrs[strings.ToLower(name)]
		// Continuation lines spend one of their 72 bytes on the leading space.
		for width := 72; len(line) > width; width = 71 {
			sb.WriteString(line[:width])
			sb.WriteString("\r\n ")
			line = line[width:]
		}
		sb.WriteString(line)
		sb.WriteString("\r\n")
	}
	sb.WriteString("\r\n")

	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}

// ReadManifest reads the manifest of the archive at path. An archive without a
// manifest yields an empty manifest.
func ReadManifest(path string) (m Manifest, err error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return Manifest{}, scanError(path, err)
	}
	defer func() {
		if closeErr := r.Close(); closeErr != nil && err == nil {
			err = scanError(path, closeErr)
		}
	}()

	return ManifestFromFS(r)
}

// ManifestFromFS reads ManifestName from fsys.
func ManifestFromFS(fsys fs.FS) (Manifest, error) {
	f, err := fsys.Open(ManifestName)
	if errors.Is(err, fs.ErrNotExist) {
		return NewManifest(), nil
	}
	if err != nil {
		return Manifest{}, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer func() { _ = f.Close() }() // Read-only; close error non-critical

	return ParseManifest(f)
}

// ParseManifest parses the main section of a manifest: "Name: value" lines,
// continuation lines starting with a single space, ending at the first blank line.
func ParseManifest(r io.Reader) (Manifest, error) {
	m := NewManifest()
	scanner := bufio.NewScanner(r)

	var name string
	var value strings.Builder
	flush := func() {
		if name != "" {
			m.Set(name, value.String())
		}
		name = ""
		value.Reset()
	}

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			break
		}
		if line[0] == ' ' {
			if name == "" {
				return Manifest{}, fmt.Errorf("manifest continuation line without attribute: %q", line)
			}
			value.WriteString(line[1:])
			continue
		}

		flush()
		n, v, ok := strings.Cut(line, ":")
		if !ok || n == "" {
			return Manifest{}, fmt.Errorf("malformed manifest line: %q", line)
		}
		name = n
		value.WriteString(strings.TrimPrefix(v, " "))
	}
	if err := scanner.Err(); err != nil {
		return Manifest{}, fmt.Errorf("failed to read manifest: %w", err)
	}
	flush()

	return m, nil
}
