// SPDX-License-Identifier: MPL-2.0

package environment

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/launchkit/launchkit/pkg/launch"
)

// Compile-time check that Environment can be handed to extensions and entry points.
var _ launch.Resources = (*Environment)(nil)

type (
	// Settings is the read side of the launcher settings.
	Settings interface {
		Lookup(key string) (string, bool)
	}

	// Option customizes Open and Build.
	Option func(*Environment)

	// Environment is the layered, read-only resolution environment of one launch.
	// It is immutable once opened and owns the archive readers it opened.
	Environment struct {
		roots    []root
		groups   []string
		catalog  *launch.Catalog
		settings Settings
		logger   *log.Logger
		closers  []io.Closer
	}

	root struct {
		loc  Location
		fsys fs.FS
	}
)

// WithSettings makes settings available through Environment.Setting.
func WithSettings(s Settings) Option {
	return func(e *Environment) {
		e.settings = s
	}
}

// WithLogger sets the logger that reports skipped external roots.
func WithLogger(logger *log.Logger) Option {
	return func(e *Environment) {
		e.logger = logger
	}
}

// Open materializes locations into an Environment. Each distinct archive is opened
// once and shared by all of its embedded roots; external directories are read from
// disk and external files are read as zip archives. An external root that does not
// exist is skipped with a warning. A nil catalog means launch.Default. On failure
// everything opened so far is closed.
func Open(locations []Location, catalog *launch.Catalog, opts ...Option) (_ *Environment, err error) {
	if catalog == nil {
		catalog = launch.Default
	}
	env := &Environment{catalog: catalog}
	for _, opt := range opts {
		opt(env)
	}
	if env.logger == nil {
		env.logger = log.New(io.Discard)
	}

	defer func() {
		if err != nil {
			_ = env.Close() // Best-effort release of partially opened readers
		}
	}()

	archives := make(map[string]*zip.ReadCloser)
	openArchive := func(path string) (*zip.ReadCloser, error) {
		if r, ok := archives[path]; ok {
			return r, nil
		}
		r, openErr := zip.OpenReader(path)
		if openErr != nil {
			return nil, openErr
		}
		archives[path] = r
		env.closers = append(env.closers, r)
		return r, nil
	}

	for _, loc := range locations {
		var fsys fs.FS
		switch {
		case loc.Embedded():
			r, openErr := openArchive(loc.Archive)
			if openErr != nil {
				return nil, fmt.Errorf("open environment root %s: %w", loc, openErr)
			}
			sub, subErr := fs.Sub(r, strings.TrimSuffix(loc.Path, "/"))
			if subErr != nil {
				return nil, fmt.Errorf("open environment root %s: %w", loc, &MalformedLocationError{Value: loc.Path, Reason: subErr.Error()})
			}
			fsys = sub
		case loc.Dir:
			fsys = os.DirFS(loc.Archive)
		default:
			if _, statErr := os.Stat(loc.Archive); errors.Is(statErr, fs.ErrNotExist) {
				env.logger.Warn("skipping missing external root", "path", loc.Archive)
				continue
			}
			r, openErr := openArchive(loc.Archive)
			if openErr != nil {
				return nil, fmt.Errorf("open environment root %s: %w", loc, openErr)
			}
			fsys = r
		}

		env.roots = append(env.roots, root{loc: loc, fsys: fsys})
		if loc.Kind == KindLibrary {
			env.groups = append(env.groups, loc.Group)
		}
	}

	return env, nil
}

// Build plans and opens an environment in one step.
func Build(archivePath string, hasResourceRoot bool, groups, externalRoots []string, catalog *launch.Catalog, opts ...Option) (*Environment, error) {
	locations, err := Plan(archivePath, hasResourceRoot, groups, externalRoots)
	if err != nil {
		return nil, err
	}
	return Open(locations, catalog, opts...)
}

// Open returns name from the first root that has it.
func (e *Environment) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}

	for _, r := range e.roots {
		f, err := r.fsys.Open(name)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

// ReadAll returns the content of name from every root that has it, in root order.
// A name found nowhere yields an empty result and no error.
func (e *Environment) ReadAll(name string) ([][]byte, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrInvalid}
	}

	var out [][]byte
	for _, r := range e.roots {
		data, err := fs.ReadFile(r.fsys, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s from %s: %w", name, r.loc, err)
		}
		out = append(out, data)
	}
	return out, nil
}

// Resolve looks symbol up in the catalog against this environment's library groups.
func (e *Environment) Resolve(symbol string) (launch.Unit, bool) {
	return e.catalog.Lookup(symbol, e.groups)
}

// Roots returns the locations in search order.
func (e *Environment) Roots() []Location {
	out := make([]Location, len(e.roots))
	for i, r := range e.roots {
		out[i] = r.loc
	}
	return out
}

// Groups returns the library groups in search order.
func (e *Environment) Groups() []string {
	out := make([]string, len(e.groups))
	copy(out, e.groups)
	return out
}

// Locations returns the rendered location of every root, in search order.
func (e *Environment) Locations() []string {
	out := make([]string, len(e.roots))
	for i, r := range e.roots {
		out[i] = r.loc.String()
	}
	return out
}

// Setting looks key up in the settings given with WithSettings.
func (e *Environment) Setting(key string) (string, bool) {
	if e.settings == nil {
		return "", false
	}
	return e.settings.Lookup(key)
}

// String lists the locations, for diagnostics.
func (e *Environment) String() string {
	return "[" + strings.Join(e.Locations(), ", ") + "]"
}

// Close releases the archive readers. It is safe to call more than once.
func (e *Environment) Close() error {
	var errs []error
	for _, c := range e.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	e.closers = nil
	return errors.Join(errs...)
}
