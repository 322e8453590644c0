// SPDX-License-Identifier: MPL-2.0

// Package extension discovers and runs the extensions of a launch.
//
// Extensions come from Discoverers: StaticDiscoverer returns the ones registered in a
// catalog, DescriptorDiscoverer reads META-INF/services/launchkit.Extension files from
// every root of the environment and resolves each listed symbol. The Pipeline orders
// the result by (Order, Name), skips disabled extensions, and threads the argument
// list through the rest. The first failing extension stops the pipeline.
package extension
