// SPDX-License-Identifier: MPL-2.0

package launch

import (
	"fmt"
	"slices"
	"sync"
)

// Default is the process-wide catalog used by Register and RegisterExtension.
var Default = NewCatalog()

type (
	// Unit is one registered value for a symbol.
	Unit struct {
		// Symbol is the name the unit is resolved by.
		Symbol string
		// Group is the library group that provides the unit. Empty means the unit is
		// always visible, regardless of the environment.
		Group string
		// Value is the registered value: an entry point, an Extension, or an
		// extension factory.
		Value any
	}

	// RegisterOption customizes a registration.
	RegisterOption func(*Unit)

	// Catalog maps symbol names to registered units and holds statically registered
	// extensions. It is safe for concurrent use.
	Catalog struct {
		mu         sync.RWMutex
		units      map[string][]Unit
		extensions []Extension
	}
)

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		units: make(map[string][]Unit),
	}
}

// InGroup scopes a registration to a library group.
func InGroup(group string) RegisterOption {
	return func(u *Unit) {
		u.Group = group
	}
}

// Register adds value under symbol. It panics if symbol is empty, value is nil, or the
// same symbol was already registered for the same group.
func (c *Catalog) Register(symbol string, value any, opts ...RegisterOption) {
	if symbol == "" {
		panic("launch: Register with empty symbol")
	}
	if value == nil {
		panic("launch: Register value is nil for " + symbol)
	}

	u := Unit{Symbol: symbol, Value: value}
	for _, opt := range opts {
		opt(&u)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, existing := range c.units[symbol] {
		if existing.Group == u.Group {
			panic(fmt.Sprintf("launch: Register called twice for %s (group %q)", symbol, u.Group))
		}
	}
	c.units[symbol] = append(c.units[symbol], u)
}

// RegisterExtension adds an extension that is discovered on every run.
func (c *Catalog) RegisterExtension(ext Extension) {
	if ext == nil {
		panic("launch: RegisterExtension with nil extension")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.extensions = append(c.extensions, ext)
}

// Lookup resolves symbol against the given library groups, listed in search order.
// Units without a group take precedence, mirroring parent-first delegation; otherwise
// the unit whose group appears first in groups wins.
func (c *Catalog) Lookup(symbol string, groups []string) (Unit, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	candidates := c.units[symbol]
	for _, u := range candidates {
		if u.Group == "" {
			return u, true
		}
	}

	for _, g := range groups {
		for _, u := range candidates {
			if u.Group == g {
				return u, true
			}
		}
	}

	return Unit{}, false
}

// Units returns every unit registered under symbol, in registration order.
func (c *Catalog) Units(symbol string) []Unit {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.units[symbol])
}

// Symbols returns all registered symbol names, sorted.
func (c *Catalog) Symbols() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.units))
	for name := range c.units {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Extensions returns the statically registered extensions, in registration order.
func (c *Catalog) Extensions() []Extension {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.extensions)
}

// Register adds value under symbol in the Default catalog.
func Register(symbol string, value any, opts ...RegisterOption) {
	Default.Register(symbol, value, opts...)
}

// RegisterExtension adds ext to the Default catalog.
func RegisterExtension(ext Extension) {
	Default.RegisterExtension(ext)
}
