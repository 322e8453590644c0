// SPDX-License-Identifier: MPL-2.0

package launch

import (
	"context"
	"io/fs"
)

const (
	// ExtensionService is the descriptor name extensions are declared under, relative to
	// META-INF/services/ in any root of the environment.
	ExtensionService = "launchkit.Extension"

	// DisablePrefix prefixes the settings keys that disable an extension by name.
	DisablePrefix = "launchkit.disable."
)

type (
	// Extension is a hook that runs before the entry point is dispatched.
	//
	// Extensions run in ascending Order, ties broken by Name. Initialize receives the
	// current argument list and returns the list the next extension (and finally the
	// application) sees. The launch environment is available via ResourcesFrom(ctx).
	Extension interface {
		Order() int
		Name() string
		Initialize(ctx context.Context, args []string, entry string) ([]string, error)
	}

	// Runner is the preferred entry point shape. It receives the path of the archive
	// being launched together with the application arguments.
	Runner interface {
		Run(ctx context.Context, archive string, args []string) error
	}

	// Mainer is the fallback entry point shape, receiving only the arguments.
	Mainer interface {
		Main(ctx context.Context, args []string) error
	}

	// RunFunc adapts a function to Runner.
	RunFunc func(ctx context.Context, archive string, args []string) error

	// MainFunc adapts a function to Mainer.
	MainFunc func(ctx context.Context, args []string) error

	// Resources is the read-only view of the launch environment handed to extensions
	// and entry points. Opening a name searches the roots in order.
	Resources interface {
		fs.FS
		// ReadAll returns the content of name from every root that has it, in root order.
		ReadAll(name string) ([][]byte, error)
		// Locations returns the rendered address of every root, in search order.
		Locations() []string
		// Setting looks up a launcher setting such as launchkit.implementationVersion.
		Setting(key string) (string, bool)
	}

	resourcesKey struct{}
)

// Run calls f.
func (f RunFunc) Run(ctx context.Context, archive string, args []string) error {
	return f(ctx, archive, args)
}

// Main calls f.
func (f MainFunc) Main(ctx context.Context, args []string) error {
	return f(ctx, args)
}

// WithResources returns a context carrying the launch environment.
func WithResources(ctx context.Context, res Resources) context.Context {
	return context.WithValue(ctx, resourcesKey{}, res)
}

// ResourcesFrom returns the launch environment carried by ctx, if any.
func ResourcesFrom(ctx context.Context) (Resources, bool) {
	res, ok := ctx.Value(resourcesKey{}).(Resources)
	return res, ok
}
