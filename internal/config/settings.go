// SPDX-License-Identifier: MPL-2.0

package config

import (
	"slices"
	"strings"
)

const (
	// LibraryOrderKey holds comma-separated substrings; library groups containing an
	// earlier substring are searched first.
	LibraryOrderKey = "launchkit.libraryOrder"
	// ExternalRootsKey holds comma-separated directories or zip files searched before
	// the archive's own content.
	ExternalRootsKey = "launchkit.externalRoots"
	// DisablePrefix prefixes keys that disable an extension by name.
	DisablePrefix = "launchkit.disable."
	// ImplementationVersionKey is set by the launcher from the archive manifest.
	ImplementationVersionKey = "launchkit.implementationVersion"
)

// Settings is the flat key/value view the launcher consults. Layers applied later
// override earlier ones: the Config it was created from, then properties files in the
// order applied, then single definitions.
type Settings struct {
	props *Properties
}

// NewSettings seeds settings from a loaded Config. A nil cfg yields empty settings.
func NewSettings(cfg *Config) *Settings {
	s := &Settings{props: NewProperties()}
	if cfg == nil {
		return s
	}

	if len(cfg.LibraryOrder) > 0 {
		s.props.Set(LibraryOrderKey, strings.Join(cfg.LibraryOrder, ","))
	}
	if len(cfg.ExternalRoots) > 0 {
		s.props.Set(ExternalRootsKey, strings.Join(cfg.ExternalRoots, ","))
	}
	for _, name := range cfg.Disable {
		s.props.Set(DisablePrefix+name, "true")
	}
	return s
}

// Apply layers props over the current settings.
func (s *Settings) Apply(props *Properties) {
	s.props.Merge(props)
}

// ApplyFile loads a properties file and layers it over the current settings.
func (s *Settings) ApplyFile(path string) error {
	props, err := LoadPropertiesFile(path)
	if err != nil {
		return err
	}
	s.Apply(props)
	return nil
}

// Clone returns an independent copy of s.
func (s *Settings) Clone() *Settings {
	c := &Settings{props: NewProperties()}
	c.props.Merge(s.props)
	return c
}

// Define sets a single key, overriding every earlier layer.
func (s *Settings) Define(key, value string) {
	s.props.Set(key, value)
}

// Lookup returns the value of key.
func (s *Settings) Lookup(key string) (string, bool) {
	return s.props.Get(key)
}

// List splits the value of key on commas, trims each element and drops empty ones.
func (s *Settings) List(key string) []string {
	v, ok := s.props.Get(key)
	if !ok {
		return nil
	}
	return SplitList(v)
}

// Disabled reports whether the extension called name is disabled. The presence of
// the key is enough; its value is ignored.
func (s *Settings) Disabled(name string) bool {
	_, ok := s.props.Get(DisablePrefix + name)
	return ok
}

// Keys returns every defined key, sorted.
func (s *Settings) Keys() []string {
	keys := s.props.Keys()
	slices.Sort(keys)
	return keys
}

// SplitList splits a comma-separated value, trimming whitespace and dropping empty
// elements.
func SplitList(value string) []string {
	var out []string
	for part := range strings.SplitSeq(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
