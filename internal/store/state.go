package store

import "github.com/dshills/zcode/internal/config"

// State is the single tree the store owns (the Workbench
// state). It is read by the render layer only; every mutation goes
// through Dispatch.
type State struct {
	Editor      EditorState
	Explorer    ExplorerState
	Search      SearchState
	Git         GitState
	Problems    ProblemsState
	Locations   LocationsState
	Symbols     SymbolsState
	CodeActions CodeActionsState
	UI          UIState
	Terminal    TerminalState
}

// EditorState holds every pane plus the shared editor configuration.
type EditorState struct {
	Panes      []*Pane
	ActivePane int
	Config     config.EditorConfig
}

// ProblemsState is the problems panel: the globally-sorted diagnostic
// list with a selection and the panel's laid-out height.
type ProblemsState struct {
	Items      []Problem
	Selected   int
	ViewHeight int
}

// Location is one entry in the locations panel (references,
// definitions, implementation results).
type Location struct {
	Path      string
	Line, Col int
	Preview   string
}

// LocationsState is the locations panel: a sorted item list with a
// selection and the panel's current view height.
type LocationsState struct {
	Items      []Location
	Selected   int
	ViewHeight int
}

// Symbol is one document or workspace symbol.
type Symbol struct {
	Name      string
	Kind      string
	Path      string
	Line, Col int
}

// SymbolsState is the symbols panel.
type SymbolsState struct {
	Query      string
	Items      []Symbol
	Selected   int
	ViewHeight int
}

// CodeActionItem is one quick-fix/refactor offered at the cursor.
type CodeActionItem struct {
	Title string
	Kind  string
}

// CodeActionsState is the code-action popup.
type CodeActionsState struct {
	Items    []CodeActionItem
	Selected int
	Visible  bool
}

// ContextMenuState is the right-click menu.
type ContextMenuState struct {
	Visible  bool
	X, Y     int
	Items    []string
	Selected int
}

// ThemeEditorState is the in-app theme editor: the token list plus
// which token is selected for editing.
type ThemeEditorState struct {
	Visible  bool
	Selected int
	Tokens   []ThemeToken
}

// ThemeToken is one themable token and its current color.
type ThemeToken struct {
	Name  string
	Color string
}

// ExplorerState holds the file tree.
type ExplorerState struct {
	Dir      string
	Entries  []string
	Selected string
}

// SearchState holds the global search panel's query, streamed
// matches, and in-flight task bookkeeping.
type SearchState struct {
	Query         string
	CaseSensitive bool
	UseRegex      bool
	Matches       []SearchMatch
	Total         int
	Done          bool
	Cancelled     bool
	Error         string
	ActiveID      uint64 // 0 when no search is in flight
}

// GitState holds repository discovery and status results.
type GitState struct {
	Root      string
	Status    map[string]string
	Branches  []string
	Worktrees []string
}

// UIState holds cross-cutting UI flags.
type UIState struct {
	Focus              string
	SidebarVisible     bool
	BottomPanelVisible bool
	HoverMessage       string
	Modal              string // active modal id, "" when none
	ContextMenu        ContextMenuState
	ThemeEditor        ThemeEditorState
}

// TerminalState holds terminal session bookkeeping.
type TerminalState struct {
	Sessions map[string]TerminalSession
}

// TerminalSession tracks one pty session's lifecycle and scrollback.
type TerminalSession struct {
	Output []byte
	Exited bool
	Code   int
}

// NewState returns a State with one pane containing no tabs and
// sensible zero-value defaults.
func NewState(cfg config.EditorConfig) State {
	return State{
		Editor: EditorState{
			Panes:  []*Pane{{ActiveTab: -1}},
			Config: cfg,
		},
		Git: GitState{
			Status: map[string]string{},
		},
		UI: UIState{
			SidebarVisible: true,
		},
		Terminal: TerminalState{
			Sessions: map[string]TerminalSession{},
		},
	}
}
