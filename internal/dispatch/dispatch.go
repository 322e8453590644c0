// SPDX-License-Identifier: MPL-2.0

// Package dispatch resolves the entry symbol of a launch and calls it.
//
// A resolved unit is tried against a fixed list of matchers. The run form receives the
// archive path and the arguments; the main form receives only the arguments. The first
// matcher that recognizes the unit wins.
package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/launchkit/launchkit/pkg/launch"
)

var (
	// ErrSymbolNotFound is returned when the entry symbol does not resolve.
	ErrSymbolNotFound = errors.New("entry symbol not found")
	// ErrNoEntrySignature is returned when the entry symbol resolves to a value no
	// matcher recognizes.
	ErrNoEntrySignature = errors.New("entry symbol has no recognized signature")
)

type (
	// Environment resolves symbols and describes itself for diagnostics.
	Environment interface {
		launch.Resources
		Resolve(symbol string) (launch.Unit, bool)
		String() string
	}

	// Invocation is a recognized entry point, ready to call.
	Invocation func(ctx context.Context, archive string, args []string) error

	// Matcher recognizes one entry point shape. It returns false when the value does
	// not have that shape.
	Matcher struct {
		Name  string
		Match func(value any) (Invocation, bool)
	}

	// Error is a dispatch failure, as opposed to a failure of the application itself.
	Error struct {
		Symbol      string
		Environment string
		Err         error
	}
)

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("cannot dispatch %q in environment %s: %v", e.Symbol, e.Environment, e.Err)
}

// Unwrap returns the underlying sentinel.
func (e *Error) Unwrap() error { return e.Err }

// Matchers lists the recognized entry point shapes in the order they are tried.
var Matchers = []Matcher{
	{Name: "run", Match: matchRun},
	{Name: "main", Match: matchMain},
}

func matchRun(value any) (Invocation, bool) {
	switch v := value.(type) {
	case launch.Runner:
		return v.Run, true
	case func(context.Context, string, []string) error:
		return v, true
	default:
		return nil, false
	}
}

func matchMain(value any) (Invocation, bool) {
	var fn func(context.Context, []string) error
	switch v := value.(type) {
	case launch.Mainer:
		fn = v.Main
	case func(context.Context, []string) error:
		fn = v
	default:
		return nil, false
	}
	return func(ctx context.Context, _ string, args []string) error {
		return fn(ctx, args)
	}, true
}

// Resolve finds symbol in env and returns the invocation of the first matching shape
// together with the shape's name.
func Resolve(env Environment, symbol string) (Invocation, string, error) {
	unit, ok := env.Resolve(symbol)
	if !ok {
		return nil, "", &Error{Symbol: symbol, Environment: env.String(), Err: ErrSymbolNotFound}
	}

	for _, m := range Matchers {
		if inv, ok := m.Match(unit.Value); ok {
			return inv, m.Name, nil
		}
	}
	return nil, "", &Error{
		Symbol:      symbol,
		Environment: env.String(),
		Err:         fmt.Errorf("%w: %T", ErrNoEntrySignature, unit.Value),
	}
}

// Dispatch resolves symbol in env and calls it with archive and args. Resolution
// failures are returned as *Error; the entry point's own error is returned unchanged.
func Dispatch(ctx context.Context, env Environment, symbol, archive string, args []string) error {
	inv, _, err := Resolve(env, symbol)
	if err != nil {
		return err
	}
	return inv(launch.WithResources(ctx, env), archive, args)
}
