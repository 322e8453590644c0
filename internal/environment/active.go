// SPDX-License-Identifier: MPL-2.0

package environment

import "sync"

var (
	activeMu sync.Mutex
	active   *Environment
)

// Install makes env the process-wide active environment and returns the function that
// clears it again. Only one environment can be active at a time; installing a second
// one panics. The restore function may be called more than once.
func Install(env *Environment) (restore func()) {
	if env == nil {
		panic("environment: Install with nil environment")
	}

	activeMu.Lock()
	defer activeMu.Unlock()

	if active != nil {
		panic("environment: an environment is already active")
	}
	active = env

	return sync.OnceFunc(func() {
		activeMu.Lock()
		defer activeMu.Unlock()
		active = nil
	})
}

// Active returns the installed environment, if any.
func Active() (*Environment, bool) {
	activeMu.Lock()
	defer activeMu.Unlock()
	return active, active != nil
}
