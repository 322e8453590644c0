// SPDX-License-Identifier: MPL-2.0

// Package environment assembles the layered resolution environment of a launch.
//
// An Environment is an ordered list of roots: operator-supplied external roots first,
// then the archive's resource root, then one root per library group in search order.
// Opening a name returns the first root's copy; Resolve looks symbols up in the
// catalog with the environment's groups in the same order. Embedded roots are read
// in place from the archive, nothing is extracted.
//
// Plan computes the roots, Open materializes them. The run driver installs the
// environment it built with Install and must call the returned restore function on
// every exit path; everything else receives the environment explicitly, usually
// through launch.ResourcesFrom.
package environment
