// SPDX-License-Identifier: MPL-2.0

// Package boot drives a launch from start to finish.
//
// A Launcher resolves the archive, inspects it, orders its library groups, builds and
// installs the resolution environment, runs the extension pipeline and dispatches to
// the entry symbol. ParseCommandLine splits the -R, -D and -P launcher options of a
// self-launching binary from the application's own arguments.
package boot
