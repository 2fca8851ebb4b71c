// Package lua hosts plugin-supplied command handlers in a sandboxed
// Lua VM. Plugins are declared in plugins.json and may only attach to
// the closed set of commands the catalog names; there is no dynamic
// service registry and no downcasting anywhere in the call path. The
// stdio plugin transport and the host process loop are out of scope —
// a handler's only outward capability is the ActionSink it is given,
// which injects Actions onto the bus like any other sender.
package lua
