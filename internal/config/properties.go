// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"slices"
)

// ErrDuplicateKey is returned when a key is inserted twice into Properties with Put.
var ErrDuplicateKey = errors.New("duplicate property key")

type (
	// Properties is an insertion-ordered string map. Put refuses to overwrite, so a
	// source that defines a key twice is reported instead of silently keeping the
	// last value; Set overwrites and is used when layering sources.
	Properties struct {
		keys   []string
		values map[string]string
	}

	// DuplicateKeyError reports a key that was defined twice in one source.
	DuplicateKeyError struct {
		Key      string
		Previous string
		Value    string
	}
)

// Error implements the error interface.
func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("key %q has duplicate values %q and %q", e.Key, e.Previous, e.Value)
}

// Unwrap returns ErrDuplicateKey for errors.Is() compatibility.
func (e *DuplicateKeyError) Unwrap() error { return ErrDuplicateKey }

// NewProperties creates an empty Properties.
func NewProperties() *Properties {
	return &Properties{values: make(map[string]string)}
}

// Put inserts key, failing with *DuplicateKeyError if it is already present.
func (p *Properties) Put(key, value string) error {
	if previous, ok := p.values[key]; ok {
		return &DuplicateKeyError{Key: key, Previous: previous, Value: value}
	}
	p.keys = append(p.keys, key)
	p.values[key] = value
	return nil
}

// Set inserts or overwrites key. An overwritten key keeps its original position.
func (p *Properties) Set(key, value string) {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

// Get returns the value of key.
func (p *Properties) Get(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (p *Properties) Keys() []string {
	return slices.Clone(p.keys)
}

// Len returns the number of keys.
func (p *Properties) Len() int {
	return len(p.keys)
}

// Merge copies every key of other into p, overwriting existing values.
func (p *Properties) Merge(other *Properties) {
	for _, k := range other.keys {
		p.Set(k, other.values[k])
	}
}
