package lua

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Command is the closed set of commands a plugin may attach to.
type Command int

const (
	CommandFocusExplorer Command = iota
	CommandToggleSidebar
	CommandToggleBottomPanel
	CommandSplitEditorVertical
	CommandEditorSave
	CommandEditorUndo
	CommandEditorRedo
	CommandEditorCloseTab
	CommandLspHover
	CommandLspFormat
	CommandGitRefreshStatus
	commandCount // sentinel; keep last
)

// commandIDs maps each Command to the palette-style id used in
// plugins.json and the command palette.
var commandIDs = map[Command]string{
	CommandFocusExplorer:       "view.focusExplorer",
	CommandToggleSidebar:       "view.toggleSidebar",
	CommandToggleBottomPanel:   "view.toggleBottomPanel",
	CommandSplitEditorVertical: "editor.splitVertical",
	CommandEditorSave:          "editor.save",
	CommandEditorUndo:          "editor.undo",
	CommandEditorRedo:          "editor.redo",
	CommandEditorCloseTab:      "editor.closeTab",
	CommandLspHover:            "lsp.hover",
	CommandLspFormat:           "lsp.format",
	CommandGitRefreshStatus:    "git.refreshStatus",
}

// String returns the command's palette id.
func (c Command) String() string {
	if id, ok := commandIDs[c]; ok {
		return id
	}
	return fmt.Sprintf("command(%d)", int(c))
}

// ParseCommand resolves a palette id to its Command. Unknown ids
// return false — the taxonomy is closed, plugins.json cannot mint new
// commands.
func ParseCommand(id string) (Command, bool) {
	for cmd, s := range commandIDs {
		if s == id {
			return cmd, true
		}
	}
	return 0, false
}

// Commands returns every command in the catalog's taxonomy.
func Commands() []Command {
	out := make([]Command, 0, int(commandCount))
	for c := Command(0); c < commandCount; c++ {
		out = append(out, c)
	}
	return out
}

// ErrUnknownCommand is returned for ids outside the taxonomy.
var ErrUnknownCommand = errors.New("unknown plugin command")

// ErrNotBound is returned when invoking a command no plugin handles.
var ErrNotBound = errors.New("command has no plugin handler")

// Binding is one plugin's handler for one command.
type Binding struct {
	Plugin string // plugin name from plugins.json
	Source string // Lua source of the handler chunk
}

// Catalog maps commands to plugin handlers and runs them on a VM.
// Later bindings for the same command replace earlier ones, matching
// how later-loaded plugins shadow earlier ones.
type Catalog struct {
	mu       sync.RWMutex
	vm       *VM
	bindings map[Command]Binding
}

// NewCatalog returns an empty catalog executing on vm.
func NewCatalog(vm *VM) *Catalog {
	return &Catalog{
		vm:       vm,
		bindings: make(map[Command]Binding),
	}
}

// Bind attaches a handler to cmd, replacing any previous binding.
func (c *Catalog) Bind(cmd Command, b Binding) error {
	if cmd < 0 || cmd >= commandCount {
		return fmt.Errorf("%w: %d", ErrUnknownCommand, int(cmd))
	}
	c.mu.Lock()
	c.bindings[cmd] = b
	c.mu.Unlock()
	return nil
}

// Lookup returns the binding for cmd.
func (c *Catalog) Lookup(cmd Command) (Binding, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.bindings[cmd]
	return b, ok
}

// Bound returns the commands that currently have a handler.
func (c *Catalog) Bound() []Command {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Command, 0, len(c.bindings))
	for cmd := range c.bindings {
		out = append(out, cmd)
	}
	return out
}

// Invoke runs cmd's handler with args visible as the global `args`
// table. Returns ErrNotBound when no plugin handles cmd.
func (c *Catalog) Invoke(ctx context.Context, cmd Command, args map[string]any) error {
	b, ok := c.Lookup(cmd)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotBound, cmd)
	}
	if err := c.vm.RunHandler(ctx, b.Source, args); err != nil {
		return fmt.Errorf("plugin %s handling %s: %w", b.Plugin, cmd, err)
	}
	return nil
}
