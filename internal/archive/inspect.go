// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/launchkit/launchkit/internal/issue"
)

const (
	// LibrariesPrefix is the archive directory holding one subdirectory per library group.
	LibrariesPrefix = "embedded-libraries/"
	// ResourcesPrefix is the archive directory holding the application's own resources.
	ResourcesPrefix = "embedded-classes/"
	// ManifestName is the archive path of the manifest.
	ManifestName = "META-INF/MANIFEST.MF"
)

// ErrScan is returned when an archive cannot be opened or its entry table read.
var ErrScan = errors.New("cannot scan archive")

// Layout is what Inspect found in an archive.
type Layout struct {
	// Archive is the path that was inspected.
	Archive string
	// Groups are the library group names in first-seen entry order.
	Groups []string
	// HasResourceRoot is set when some directory entry lives under ResourcesPrefix.
	HasResourceRoot bool
}

// Inspect scans the entry table of the archive at path. Only directory entries are
// considered and only their names are read.
func Inspect(path string) (layout *Layout, err error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, scanError(path, err)
	}
	defer func() {
		if closeErr := r.Close(); closeErr != nil && err == nil {
			err = scanError(path, closeErr)
		}
	}()

	layout = Classify(r.File)
	layout.Archive = path
	return layout, nil
}

// Classify sorts zip entries into library groups and the resource root flag. An entry
// equal to one of the prefixes is not a group by itself.
func Classify(files []*zip.File) *Layout {
	layout := &Layout{}
	for _, f := range files {
		if !isDir(f) {
			continue
		}
		name := f.Name
		if !strings.HasSuffix(name, "/") {
			name += "/"
		}

		switch {
		case strings.HasPrefix(name, LibrariesPrefix):
			rest := name[len(LibrariesPrefix):]
			group, _, _ := strings.Cut(rest, "/")
			if group != "" && !slices.Contains(layout.Groups, group) {
				layout.Groups = append(layout.Groups, group)
			}
		case strings.HasPrefix(name, ResourcesPrefix):
			// The prefix directory itself counts: the root exists even when empty.
			layout.HasResourceRoot = true
		}
	}
	return layout
}

func isDir(f *zip.File) bool {
	return strings.HasSuffix(f.Name, "/") || f.Mode().IsDir()
}

func scanError(path string, err error) error {
	return issue.NewErrorContext().
		WithOperation("scan archive").
		WithResource(path).
		WithSuggestion("Check that the file exists and is a zip archive").
		WithSuggestion("Rebuild the archive with 'launchkit pack'").
		Wrap(fmt.Errorf("%w: %w", ErrScan, err)).
		BuildError()
}
