package runtime

import (
	"fmt"

	"github.com/dshills/zcode/internal/input"
	"github.com/dshills/zcode/internal/input/key"
	"github.com/dshills/zcode/internal/input/mouse"
	"github.com/dshills/zcode/internal/input/palette"
	"github.com/dshills/zcode/internal/store"
)

// KeyBinding pairs one key spec ("Ctrl+Shift+P") with a palette
// command id. The runtime's own type so config packages stay out of
// its imports; cmd/zcode maps settings entries into it.
type KeyBinding struct {
	Spec    string
	Command string
}

// Keymap resolves normalized key specs to command ids.
type Keymap struct {
	bindings map[string]string
}

// BuildKeymap parses and normalizes bindings via the key grammar.
// Invalid specs are collected rather than failing the whole map — one
// bad line in setting.json must not disable every other binding.
func BuildKeymap(bindings []KeyBinding) (*Keymap, []error) {
	km := &Keymap{bindings: make(map[string]string, len(bindings))}
	var errs []error
	for _, b := range bindings {
		ev, err := key.Parse(b.Spec)
		if err != nil {
			errs = append(errs, fmt.Errorf("keybinding %q: %w", b.Spec, err))
			continue
		}
		km.bindings[key.FormatSpec(ev)] = b.Command
	}
	return km, errs
}

// Lookup resolves a key event to its bound command id.
func (km *Keymap) Lookup(ev key.Event) (string, bool) {
	if km == nil {
		return "", false
	}
	cmd, ok := km.bindings[key.FormatSpec(ev)]
	return cmd, ok
}

// Len reports how many bindings resolved.
func (km *Keymap) Len() int {
	if km == nil {
		return 0
	}
	return len(km.bindings)
}

// SetKeymap installs the keymap HandleKey consults.
func (rt *Runtime) SetKeymap(km *Keymap) {
	rt.keymap = km
}

// Palette returns the command palette; front ends drive Search and
// Execute against it directly.
func (rt *Runtime) Palette() *palette.Palette {
	return rt.palette
}

// HandleKey resolves a normalized key event against the keymap and
// dispatches the bound command, reporting whether the event was
// consumed. The command runs through the same RunCommand path the
// palette and plugins use.
func (rt *Runtime) HandleKey(ev key.Event) bool {
	cmd, ok := rt.keymap.Lookup(ev)
	if !ok {
		return false
	}
	rt.Dispatch(store.RunCommand{Command: cmd, Args: rt.activeTabArgs()})
	return true
}

// HandleMouse feeds a mouse event through the gesture handler
// (click-count tracking, drag detection, scroll accumulation) and
// translates the resulting input action into store actions. Reports
// whether the event produced one.
func (rt *Runtime) HandleMouse(ev mouse.Event) bool {
	act := rt.mouseHandler.Handle(ev)
	if act == nil {
		return false
	}

	pane, tab := rt.activePaneTab()
	switch act.Name {
	case "scroll.up":
		rt.Dispatch(store.Scroll{Pane: pane, Tab: tab, Delta: -scrollLines(act)})
	case "scroll.down":
		rt.Dispatch(store.Scroll{Pane: pane, Tab: tab, Delta: scrollLines(act)})
	case "cursor.setPosition":
		x, _ := act.IntArg("x")
		y, _ := act.IntArg("y")
		rt.Dispatch(store.SetCursor{Pane: pane, Tab: tab, Row: y, Col: x})
	case "contextMenu.show":
		x, _ := act.IntArg("x")
		y, _ := act.IntArg("y")
		rt.Dispatch(store.ContextMenuOpen{X: x, Y: y, Items: contextMenuItems})
	default:
		rt.Dispatch(store.RunCommand{Command: act.Name, Args: act.Args.Extra})
	}
	return true
}

// contextMenuItems is the editor pane's right-click menu.
var contextMenuItems = []string{"Cut", "Copy", "Paste", "Go to Definition", "Find References"}

func scrollLines(act *input.Action) int {
	if act.Count > 0 {
		return act.Count
	}
	return 1
}

// activePaneTab returns the focused pane and its active tab index.
func (rt *Runtime) activePaneTab() (int, int) {
	s := rt.store.State()
	pane := s.Editor.ActivePane
	if pane < 0 || pane >= len(s.Editor.Panes) {
		return 0, 0
	}
	return pane, s.Editor.Panes[pane].ActiveTab
}

func (rt *Runtime) activeTabArgs() map[string]any {
	pane, tab := rt.activePaneTab()
	return map[string]any{"pane": pane, "tab": tab}
}

// builtinCommands registers the core command set. Each handler
// injects a RunCommand through the bus rather than dispatching
// directly, so palette execution from any goroutine serializes
// through the store like every other sender.
func (rt *Runtime) builtinCommands() []*palette.Command {
	dispatch := func(id string) palette.CommandHandler {
		return func(args map[string]any) error {
			if args == nil {
				args = rt.activeTabArgs()
			}
			rt.send.Send(store.RunCommand{Command: id, Args: args})
			return nil
		}
	}
	entry := func(id, title, category string) *palette.Command {
		return &palette.Command{
			ID:       id,
			Title:    title,
			Category: category,
			Source:   "core",
			Handler:  dispatch(id),
		}
	}
	return []*palette.Command{
		entry("editor.save", "File: Save", "File"),
		entry("editor.closeTab", "File: Close Tab", "File"),
		entry("editor.undo", "Edit: Undo", "Edit"),
		entry("editor.redo", "Edit: Redo", "Edit"),
		entry("editor.splitVertical", "View: Split Editor Vertical", "View"),
		entry("view.toggleSidebar", "View: Toggle Sidebar", "View"),
		entry("view.toggleBottomPanel", "View: Toggle Bottom Panel", "View"),
		entry("view.focusExplorer", "View: Focus Explorer", "View"),
		entry("lsp.hover", "LSP: Hover", "Language"),
		entry("lsp.format", "LSP: Format Document", "Language"),
		entry("git.refreshStatus", "Git: Refresh Status", "Git"),
	}
}
