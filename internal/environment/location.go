// SPDX-License-Identifier: MPL-2.0

package environment

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/launchkit/launchkit/internal/archive"
)

// Location kinds, in the order they appear in an environment.
const (
	KindExternal Kind = iota
	KindResources
	KindLibrary
)

// ErrMalformedLocation is returned when a root cannot be expressed as a location.
var ErrMalformedLocation = errors.New("malformed location")

type (
	// Kind tells where a Location's content comes from.
	Kind int

	// Location is one root of an environment.
	Location struct {
		Kind Kind
		// Archive is the absolute path of the launched archive for embedded roots, and
		// the absolute path of the directory or zip file for external roots.
		Archive string
		// Path is the directory inside Archive, ending in "/". Empty for external roots.
		Path string
		// Group is the library group name for KindLibrary.
		Group string
		// Dir is set for external roots that are directories.
		Dir bool
	}

	// MalformedLocationError describes an input Plan cannot turn into a location.
	MalformedLocationError struct {
		Value  string
		Reason string
	}
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindExternal:
		return "external"
	case KindResources:
		return "resources"
	case KindLibrary:
		return "library"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error implements the error interface.
func (e *MalformedLocationError) Error() string {
	return fmt.Sprintf("malformed location %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrMalformedLocation for errors.Is() compatibility.
func (e *MalformedLocationError) Unwrap() error { return ErrMalformedLocation }

// Embedded reports whether the location lives inside the launched archive.
func (l Location) Embedded() bool {
	return l.Kind != KindExternal
}

// String renders the location as a URL. Embedded roots render as
// "zip:file:///abs/app.zip!/embedded-libraries/<group>/" and always end in "/".
// External roots render as "file:///abs/path" and end in "/" only for directories,
// so a single zip file keeps file semantics.
func (l Location) String() string {
	if l.Embedded() {
		return "zip:" + fileURL(l.Archive) + "!/" + l.Path
	}
	s := fileURL(l.Archive)
	if l.Dir && !strings.HasSuffix(s, "/") {
		s += "/"
	}
	return s
}

func fileURL(p string) string {
	slashed := filepath.ToSlash(p)
	if !strings.HasPrefix(slashed, "/") {
		slashed = "/" + slashed
	}
	return (&url.URL{Scheme: "file", Path: slashed}).String()
}

// Plan orders the roots of an environment: external roots, then the resource root when
// hasResourceRoot is set, then one root per group in the given order. archivePath
// must be absolute. External roots are made absolute and marked as directories when
// they are existing directories.
func Plan(archivePath string, hasResourceRoot bool, groups, externalRoots []string) ([]Location, error) {
	if !filepath.IsAbs(archivePath) {
		return nil, fmt.Errorf("plan environment: %w", &MalformedLocationError{Value: archivePath, Reason: "archive path is not absolute"})
	}

	locations := make([]Location, 0, len(externalRoots)+len(groups)+1)

	for _, ext := range externalRoots {
		if strings.TrimSpace(ext) == "" {
			return nil, fmt.Errorf("plan environment: %w", &MalformedLocationError{Value: ext, Reason: "external root is empty"})
		}
		abs, err := filepath.Abs(ext)
		if err != nil {
			return nil, fmt.Errorf("plan environment: %w", &MalformedLocationError{Value: ext, Reason: err.Error()})
		}
		info, statErr := os.Stat(abs)
		locations = append(locations, Location{
			Kind:    KindExternal,
			Archive: abs,
			Dir:     statErr == nil && info.IsDir(),
		})
	}

	if hasResourceRoot {
		locations = append(locations, Location{
			Kind:    KindResources,
			Archive: archivePath,
			Path:    archive.ResourcesPrefix,
		})
	}

	for _, g := range groups {
		if g == "" || strings.ContainsAny(g, `/\`) || g == "." || g == ".." {
			return nil, fmt.Errorf("plan environment: %w", &MalformedLocationError{Value: g, Reason: "library group is not a single directory name"})
		}
		locations = append(locations, Location{
			Kind:    KindLibrary,
			Archive: archivePath,
			Path:    archive.LibrariesPrefix + g + "/",
			Group:   g,
		})
	}

	return locations, nil
}
