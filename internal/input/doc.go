// Package input models normalized user input and the editor intents
// it produces. The root package defines the small Action surface the
// gesture handlers emit; the subpackages own the real work:
//
//   - key: the Key/Modifier/Event model and the keybinding grammar
//     ("Ctrl+Shift+P", "Cmd+S", function and named keys), with
//     parse/format round-tripping
//   - mouse: click-count tracking, drag detection, and per-event
//     scroll translation over raw mouse events
//   - palette: the searchable command registry with execution history
//
// None of these packages touch the store directly. The runtime's
// input bridge resolves a key event against the settings-built keymap
// or lowers a mouse gesture's Action, and dispatches the result as a
// store action — the same RunCommand path palette execution and
// plugin-emitted commands use.
package input
