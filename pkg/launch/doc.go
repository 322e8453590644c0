// SPDX-License-Identifier: MPL-2.0

// Package launch defines the contracts between launchkit and the code it launches.
//
// Applications register their entry points in a Catalog (usually the process-wide
// Default catalog) from an init function, the same way database/sql drivers register
// themselves:
//
//	func init() {
//		launch.Register("com.example.server.Main", launch.MainFunc(run))
//	}
//
// A registration may be scoped to a library group with InGroup. Scoped units are only
// visible when their group is part of the launch environment, and when several groups
// provide the same symbol, the group that comes first in the search path wins.
//
// Plugins implement Extension and either register statically with RegisterExtension or
// are declared in a META-INF/services/launchkit.Extension descriptor inside the archive.
package launch
