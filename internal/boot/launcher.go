// SPDX-License-Identifier: MPL-2.0

package boot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/launchkit/launchkit/internal/archive"
	"github.com/launchkit/launchkit/internal/config"
	"github.com/launchkit/launchkit/internal/dispatch"
	"github.com/launchkit/launchkit/internal/environment"
	"github.com/launchkit/launchkit/internal/extension"
	"github.com/launchkit/launchkit/internal/extension/builtin"
	"github.com/launchkit/launchkit/internal/issue"
	"github.com/launchkit/launchkit/internal/searchpath"
	"github.com/launchkit/launchkit/pkg/launch"
)

var (
	// ErrEntryRequired is returned when application arguments were given but no entry
	// symbol could be determined.
	ErrEntryRequired = errors.New("an entry symbol is required to pass arguments")
	// ErrNothingToRun is returned when neither an entry symbol nor arguments were given.
	ErrNothingToRun = errors.New("nothing to run")
)

type (
	// Launcher runs one archive per call to Run.
	Launcher struct {
		// Catalog resolves symbols. Nil means launch.Default.
		Catalog *launch.Catalog
		// Discoverer finds extensions. Nil means DefaultDiscoverer(Catalog).
		Discoverer extension.Discoverer
		// Logger receives diagnostics. Nil discards them.
		Logger *log.Logger
		// Stderr receives the usage text. Nil means os.Stderr.
		Stderr io.Writer
	}

	// Request is the input of one launch.
	Request struct {
		// Archive is the archive to launch. Empty means the running executable.
		Archive string
		// Entry overrides the manifest's Jump-Class.
		Entry string
		// Args are passed through the extensions to the entry point.
		Args []string
		// Settings are consulted for the search path and extension switches. Nil
		// means empty settings. The launcher layers its own keys onto a copy.
		Settings *config.Settings
	}

	// plan is everything decided about a launch before any user code runs.
	plan struct {
		archive  string
		entry    string
		version  string
		ordered  []string
		layout   *archive.Layout
		settings *config.Settings
	}
)

// DefaultDiscoverer finds the extensions registered in catalog, those named by
// descriptor files in the environment, and the built-in ones when a launch opts in
// with builtin.EnableKey.
func DefaultDiscoverer(catalog *launch.Catalog) extension.Discoverer {
	return extension.Discoverers{
		extension.StaticDiscoverer{Catalog: catalog},
		extension.DescriptorDiscoverer{},
		builtin.Discoverer(),
	}
}

// Run launches req: it inspects the archive, builds and installs the environment,
// runs the extensions and dispatches to the entry symbol. The entry point's own error
// is returned unchanged. The environment is uninstalled and closed on every path.
func (l *Launcher) Run(ctx context.Context, req Request) error {
	logger := l.logger()

	p, err := l.plan(req)
	if err != nil {
		return err
	}
	if p.entry == "" {
		l.writeUsage(p.archive)
		if len(req.Args) > 0 {
			return ErrEntryRequired
		}
		return ErrNothingToRun
	}

	env, err := l.open(p)
	if err != nil {
		return err
	}
	defer l.close(env)

	restore := environment.Install(env)
	defer restore()

	args, err := extension.New(l.discoverer(), logger).Process(ctx, req.Args, p.entry, env)
	if err != nil {
		return stageError(StageExtensions, err)
	}

	if _, form, resolveErr := dispatch.Resolve(env, p.entry); resolveErr == nil {
		logger.Debug("entry resolved", "symbol", p.entry, "form", form)
	}
	logger.Info("launching", "entry", p.entry, "version", p.version, "archive", p.archive)

	err = dispatch.Dispatch(ctx, env, p.entry, p.archive, args)
	var dispatchErr *dispatch.Error
	if errors.As(err, &dispatchErr) {
		return stageError(StageDispatch, err)
	}
	return err
}

func (l *Launcher) plan(req Request) (*plan, error) {
	settings := config.NewSettings(nil)
	if req.Settings != nil {
		settings = req.Settings.Clone()
	}

	archivePath, err := resolveArchive(req.Archive)
	if err != nil {
		return nil, stageError(StageLocate, err)
	}

	layout, err := archive.Inspect(archivePath)
	if err != nil {
		return nil, stageError(StageInspect, err)
	}

	manifest, err := archive.ReadManifest(archivePath)
	if err != nil {
		return nil, stageError(StageInspect, err)
	}

	entry := req.Entry
	if entry == "" {
		entry = manifest.JumpClass()
	}

	version := manifest.ImplementationVersion()
	if version != "" {
		settings.Define(config.ImplementationVersionKey, version)
	}

	ordered := searchpath.Order(layout.Groups, settings.List(config.LibraryOrderKey))
	l.logger().Debug("search path", "groups", layout.Groups, "ordered", ordered)

	return &plan{
		archive:  archivePath,
		entry:    entry,
		version:  version,
		ordered:  ordered,
		layout:   layout,
		settings: settings,
	}, nil
}

func (l *Launcher) open(p *plan) (*environment.Environment, error) {
	env, err := environment.Build(
		p.layout.Archive,
		p.layout.HasResourceRoot,
		p.ordered,
		p.settings.List(config.ExternalRootsKey),
		l.catalog(),
		environment.WithSettings(p.settings),
		environment.WithLogger(l.logger()),
	)
	if err != nil {
		return nil, stageError(StageEnvironment, err)
	}
	l.logger().Debug("environment ready", "locations", env.Locations())
	return env, nil
}

func (l *Launcher) close(env *environment.Environment) {
	if err := env.Close(); err != nil {
		l.logger().Warn("failed to close environment", "error", err)
	}
}

func resolveArchive(ref string) (string, error) {
	if ref == "" {
		path, err := archive.Origin()
		if err != nil {
			return "", issue.NewErrorContext().
				WithOperation("locate archive").
				WithSuggestion("Pass the archive explicitly with --archive").
				Wrap(err).
				BuildError()
		}
		return path, nil
	}

	path, err := archive.ResolveLocation(ref)
	if err != nil {
		return "", issue.NewErrorContext().
			WithOperation("locate archive").
			WithResource(ref).
			Wrap(err).
			BuildError()
	}
	return path, nil
}

func (l *Launcher) writeUsage(archivePath string) {
	w := l.Stderr
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprint(w, Usage(archivePath))
}

func (l *Launcher) logger() *log.Logger {
	if l.Logger == nil {
		return log.New(io.Discard)
	}
	return l.Logger
}

func (l *Launcher) catalog() *launch.Catalog {
	if l.Catalog == nil {
		return launch.Default
	}
	return l.Catalog
}

func (l *Launcher) discoverer() extension.Discoverer {
	if l.Discoverer == nil {
		return DefaultDiscoverer(l.catalog())
	}
	return l.Discoverer
}
