// SPDX-License-Identifier: MPL-2.0

package extension

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/launchkit/launchkit/pkg/launch"
)

// DescriptorPath is where extension descriptors live in each root of an environment.
const DescriptorPath = "META-INF/services/" + launch.ExtensionService

// ErrBadDescriptor is returned when a descriptor names a symbol that does not resolve
// to an extension.
var ErrBadDescriptor = errors.New("bad extension descriptor")

type (
	// Environment is what discovery and the pipeline need from a launch environment.
	Environment interface {
		launch.Resources
		Resolve(symbol string) (launch.Unit, bool)
	}

	// Discoverer finds the extensions available to a launch.
	Discoverer interface {
		Discover(ctx context.Context, env Environment) ([]launch.Extension, error)
	}

	// StaticDiscoverer returns the extensions registered in Catalog, or in
	// launch.Default when Catalog is nil.
	StaticDiscoverer struct {
		Catalog *launch.Catalog
	}

	// DescriptorDiscoverer reads every DescriptorPath file in the environment, in root
	// order. Each non-blank line not starting with '#' names a symbol whose unit is a
	// launch.Extension or a func() launch.Extension factory.
	DescriptorDiscoverer struct{}

	// Discoverers concatenates the results of several discoverers.
	Discoverers []Discoverer

	// OptIn returns Extensions only when the launch settings define Key, with any
	// value.
	OptIn struct {
		Key        string
		Extensions []launch.Extension
	}

	// DescriptorError reports a descriptor entry that cannot be used.
	DescriptorError struct {
		Symbol string
		Reason string
	}
)

// Error implements the error interface.
func (e *DescriptorError) Error() string {
	return fmt.Sprintf("extension %q listed in %s %s", e.Symbol, DescriptorPath, e.Reason)
}

// Unwrap returns ErrBadDescriptor for errors.Is() compatibility.
func (e *DescriptorError) Unwrap() error { return ErrBadDescriptor }

// Discover implements Discoverer.
func (d StaticDiscoverer) Discover(_ context.Context, _ Environment) ([]launch.Extension, error) {
	catalog := d.Catalog
	if catalog == nil {
		catalog = launch.Default
	}
	return catalog.Extensions(), nil
}

// Discover implements Discoverer.
func (DescriptorDiscoverer) Discover(ctx context.Context, env Environment) ([]launch.Extension, error) {
	descriptors, err := env.ReadAll(DescriptorPath)
	if err != nil {
		return nil, fmt.Errorf("read extension descriptors: %w", err)
	}

	var out []launch.Extension
	for _, data := range descriptors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		symbols, err := descriptorSymbols(data)
		if err != nil {
			return nil, fmt.Errorf("read extension descriptors: %w", err)
		}
		for _, symbol := range symbols {
			ext, err := instantiate(env, symbol)
			if err != nil {
				return nil, err
			}
			out = append(out, ext)
		}
	}
	return out, nil
}

// Discover implements Discoverer.
func (o OptIn) Discover(_ context.Context, env Environment) ([]launch.Extension, error) {
	if _, ok := env.Setting(o.Key); !ok {
		return nil, nil
	}
	return slices.Clone(o.Extensions), nil
}

// Discover implements Discoverer.
func (ds Discoverers) Discover(ctx context.Context, env Environment) ([]launch.Extension, error) {
	var out []launch.Extension
	for _, d := range ds {
		exts, err := d.Discover(ctx, env)
		if err != nil {
			return nil, err
		}
		out = append(out, exts...)
	}
	return out, nil
}

func descriptorSymbols(data []byte) ([]string, error) {
	var symbols []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line, _, _ := strings.Cut(scanner.Text(), "#")
		if line = strings.TrimSpace(line); line != "" {
			symbols = append(symbols, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return symbols, nil
}

func instantiate(env Environment, symbol string) (launch.Extension, error) {
	unit, ok := env.Resolve(symbol)
	if !ok {
		return nil, &DescriptorError{Symbol: symbol, Reason: "is not registered"}
	}

	switch v := unit.Value.(type) {
	case launch.Extension:
		return v, nil
	case func() launch.Extension:
		ext := v()
		if ext == nil {
			return nil, &DescriptorError{Symbol: symbol, Reason: "factory returned nil"}
		}
		return ext, nil
	default:
		return nil, &DescriptorError{Symbol: symbol, Reason: fmt.Sprintf("is a %T, not an extension", unit.Value)}
	}
}

// Fixed is a Discoverer that always returns the same extensions.
type Fixed []launch.Extension

// Discover implements Discoverer.
func (f Fixed) Discover(_ context.Context, _ Environment) ([]launch.Extension, error) {
	return slices.Clone(f), nil
}
