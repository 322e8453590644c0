// SPDX-License-Identifier: MPL-2.0

package extension

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/launchkit/launchkit/pkg/launch"
)

// ErrExtensionFailed wraps the error of an extension that stopped the pipeline.
var ErrExtensionFailed = errors.New("extension failed")

type (
	// Pipeline runs the discovered extensions of a launch in order.
	Pipeline struct {
		discoverer Discoverer
		logger     *log.Logger
	}

	// FailedError names the extension that stopped the pipeline.
	FailedError struct {
		Name string
		Err  error
	}
)

// Error implements the error interface.
func (e *FailedError) Error() string {
	return fmt.Sprintf("extension %q failed: %v", e.Name, e.Err)
}

// Unwrap returns both ErrExtensionFailed and the extension's own error.
func (e *FailedError) Unwrap() []error { return []error{ErrExtensionFailed, e.Err} }

// New creates a pipeline. A nil logger discards output.
func New(d Discoverer, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Pipeline{discoverer: d, logger: logger}
}

// Collect orders extensions by Order, then Name. An extension with the same Order and
// Name as one already collected is dropped.
func Collect(exts []launch.Extension) []launch.Extension {
	out := make([]launch.Extension, 0, len(exts))
	for _, ext := range exts {
		if ext == nil {
			continue
		}
		i, found := slices.BinarySearchFunc(out, ext, compare)
		if found {
			continue
		}
		out = slices.Insert(out, i, ext)
	}
	return out
}

func compare(a, b launch.Extension) int {
	return cmp.Or(cmp.Compare(a.Order(), b.Order()), cmp.Compare(a.Name(), b.Name()))
}

// Disabled reports whether env disables the extension called name. Presence of the
// key is enough.
func Disabled(env launch.Resources, name string) bool {
	_, ok := env.Setting(launch.DisablePrefix + name)
	return ok
}

// Process discovers the extensions, then calls each enabled one in order, handing it
// the arguments the previous one returned. It returns the final arguments. The first
// error stops the pipeline; earlier extensions are not rolled back.
func (p *Pipeline) Process(ctx context.Context, args []string, entry string, env Environment) ([]string, error) {
	exts, err := p.Extensions(ctx, env)
	if err != nil {
		return nil, err
	}

	ctx = launch.WithResources(ctx, env)

	for _, ext := range exts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := ext.Name()
		if Disabled(env, name) {
			p.logger.Debug("extension disabled", "name", name, "order", ext.Order())
			continue
		}

		p.logger.Debug("running extension", "name", name, "order", ext.Order())
		next, err := ext.Initialize(ctx, args, entry)
		if err != nil {
			return nil, &FailedError{Name: name, Err: err}
		}
		args = next
	}

	return args, nil
}

// Extensions returns the discovered extensions in run order, disabled ones included.
func (p *Pipeline) Extensions(ctx context.Context, env Environment) ([]launch.Extension, error) {
	if p.discoverer == nil {
		return nil, nil
	}
	found, err := p.discoverer.Discover(ctx, env)
	if err != nil {
		return nil, fmt.Errorf("discover extensions: %w", err)
	}
	return Collect(found), nil
}
