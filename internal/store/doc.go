// Package store implements the action/effect kernel: a single state
// tree, a closed Action taxonomy, and a Dispatch that turns an
// Action into a new State plus a list of
// Effects for external subsystems to carry out. Git, LSP, search,
// terminal and file load/save work is expressed as an Effect and
// handed back to the caller. The per-file backup log is the one I/O
// reducers do themselves: opening a file-backed tab reads a surviving
// .ops file and enables the engine's backup writer, and edits applied
// through the engine append to that log.
package store
