// Package clipboard implements clipboard read/write backends behind a
// single port interface.
//
// Selecting between backends (which pasteboard utility, whether the
// terminal supports OSC52) is a front-end/presentation concern and out
// of scope here; the core only requires the Clipboard interface.
package clipboard
