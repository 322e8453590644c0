// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoOrigin is returned when the archive being launched cannot be located.
var ErrNoOrigin = errors.New("cannot resolve archive origin")

// Origin returns the absolute path of the running executable, which is the archive
// when the launcher carries an appended zip.
func Origin() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoOrigin, err)
	}
	if resolved, evalErr := filepath.EvalSymlinks(exe); evalErr == nil {
		exe = resolved
	}
	return ResolveLocation(exe)
}

// ResolveLocation reduces an archive reference to the underlying file path. Nested
// references such as "zip:file:///opt/app.zip!/embedded-classes/" or
// "jar:file:/C:/a%20b.jar!/" resolve to the same path as the plain file; plain paths
// are made absolute.
func ResolveLocation(ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("%w: empty location", ErrNoOrigin)
	}

	s := ref
	for {
		lower := strings.ToLower(s)
		if strings.HasPrefix(lower, "jar:") || strings.HasPrefix(lower, "zip:") {
			s = s[len("jar:"):]
			continue
		}
		break
	}
	if i := strings.Index(s, "!/"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSuffix(s, "!")

	if strings.HasPrefix(strings.ToLower(s), "file:") {
		u, err := url.Parse(s)
		if err != nil {
			return "", fmt.Errorf("%w: %q: %w", ErrNoOrigin, ref, err)
		}
		p := u.Path
		if p == "" && u.Opaque != "" {
			if p, err = url.PathUnescape(u.Opaque); err != nil {
				return "", fmt.Errorf("%w: %q: %w", ErrNoOrigin, ref, err)
			}
		}
		if p == "" {
			return "", fmt.Errorf("%w: %q has no path", ErrNoOrigin, ref)
		}
		return filepath.FromSlash(trimDriveSlash(p)), nil
	}

	if strings.Contains(s, "://") {
		return "", fmt.Errorf("%w: unsupported scheme in %q", ErrNoOrigin, ref)
	}

	abs, err := filepath.Abs(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrNoOrigin, ref, err)
	}
	return abs, nil
}

// trimDriveSlash turns "/C:/dir" into "C:/dir".
func trimDriveSlash(p string) string {
	if len(p) >= 3 && p[0] == '/' && p[2] == ':' && isLetter(p[1]) {
		return p[1:]
	}
	return p
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
