package store

import "github.com/dshills/zcode/internal/engine/syntax"

// Action is the closed taxonomy of intents the store can reduce.
// Every concrete action type below implements isAction so the
// compiler — not a string tag — enforces the closed set; a type
// switch in Dispatch routes each one to its owning sub-reducer.
type Action interface {
	isAction()
}

// --- Editor ---

// InsertText inserts text at offset in the named pane/tab.
type InsertText struct {
	Pane, Tab int
	Offset    int64
	Text      string
}

// DeleteRange deletes [Start, End) in the named pane/tab.
type DeleteRange struct {
	Pane, Tab  int
	Start, End int64
}

// Undo requests one undo step in the named pane/tab.
type Undo struct{ Pane, Tab int }

// Redo requests one redo step in the named pane/tab.
type Redo struct{ Pane, Tab int }

// SetCursor moves the primary cursor.
type SetCursor struct {
	Pane, Tab int
	Row, Col  int
}

// Scroll adjusts a tab's viewport line offset by delta lines.
type Scroll struct {
	Pane, Tab int
	Delta     int
}

// OpenTab opens path (or a new scratch buffer if path == "") in pane.
type OpenTab struct {
	Pane  int
	Path  string
	Title string
	Text  string
}

// CloseTab closes a tab.
type CloseTab struct{ Pane, Tab int }

// SaveRequested marks that a save was requested for a tab; the
// reducer stamps the current edit_version onto the resulting
// WriteFile effect.
type SaveRequested struct{ Pane, Tab int }

// Saved reports the outcome of a previously-requested save.
// Dirty is only cleared when Version matches the tab's current
// edit_version.
type Saved struct {
	Pane, Tab int
	Version   int64
	Success   bool
}

// SemanticTokensReceived folds a semantic-tokens response into a
// tab's overlay. Version must match the tab's current edit_version;
// stale responses are dropped without touching the overlay, keeping
// the cache monotonic per version.
type SemanticTokensReceived struct {
	Pane, Tab int
	Version   int64
	Segments  []syntax.Segment
}

// InlayMark is one rendered inlay hint: a label anchored at a
// document position.
type InlayMark struct {
	Line, Col uint32
	Label     string
	Kind      int
}

// InlayHintsReceived replaces a tab's inlay hints.
type InlayHintsReceived struct {
	Pane, Tab int
	Version   int64
	Hints     []InlayMark
}

// FoldRange is one collapsible region reported by the server.
type FoldRange struct {
	StartLine, EndLine uint32
	Kind               string
}

// FoldingRangesReceived replaces a tab's folding ranges.
type FoldingRangesReceived struct {
	Pane, Tab int
	Version   int64
	Ranges    []FoldRange
}

func (InsertText) isAction()             {}
func (DeleteRange) isAction()            {}
func (Undo) isAction()                   {}
func (Redo) isAction()                   {}
func (SetCursor) isAction()              {}
func (Scroll) isAction()                 {}
func (OpenTab) isAction()                {}
func (CloseTab) isAction()               {}
func (SaveRequested) isAction()          {}
func (Saved) isAction()                  {}
func (SemanticTokensReceived) isAction() {}
func (InlayHintsReceived) isAction()     {}
func (FoldingRangesReceived) isAction()  {}

// --- Search ---

// StartEditorSearch begins a per-buffer search.
type StartEditorSearch struct {
	Pane, Tab     int
	Pattern       string
	CaseSensitive bool
	UseRegex      bool
}

// CancelEditorSearch cancels the active per-buffer search for a tab.
type CancelEditorSearch struct{ Pane, Tab int }

// StartGlobalSearch begins a whole-tree search.
type StartGlobalSearch struct {
	Root          string
	Pattern       string
	CaseSensitive bool
	UseRegex      bool
}

// CancelGlobalSearch cancels the in-flight global search, if any.
type CancelGlobalSearch struct{}

// SearchMatchesReceived delivers a batch of matches tagged with the
// search id that produced them (stale ids after a search has been
// Cancelled are discarded).
type SearchMatchesReceived struct {
	SearchID uint64
	Matches  []SearchMatch
	IsFinal  bool
}

// SearchComplete marks a search id as finished.
type SearchComplete struct {
	SearchID uint64
	Total    int
}

// SearchCancelled marks a search id as cancelled.
type SearchCancelled struct{ SearchID uint64 }

// SearchFailed reports a search error (e.g. invalid regex).
type SearchFailed struct {
	SearchID uint64
	Message  string
}

func (StartEditorSearch) isAction()     {}
func (CancelEditorSearch) isAction()    {}
func (StartGlobalSearch) isAction()     {}
func (CancelGlobalSearch) isAction()    {}
func (SearchMatchesReceived) isAction() {}
func (SearchComplete) isAction()        {}
func (SearchCancelled) isAction()       {}
func (SearchFailed) isAction()          {}

// --- Git ---

// GitRepoDetected reports the discovered repository root (or "" if
// none). Clears git state and per-tab gutter marks; the explorer keeps
// no per-path statuses of its own.
type GitRepoDetected struct{ Root string }

// GitStatusRefreshed replaces the per-path status map.
type GitStatusRefreshed struct{ Status map[string]string }

// GitBranchesListed replaces the known branch list.
type GitBranchesListed struct{ Branches []string }

// GitWorktreesListed replaces the known worktree list.
type GitWorktreesListed struct{ Worktrees []string }

func (GitRepoDetected) isAction()    {}
func (GitStatusRefreshed) isAction() {}
func (GitBranchesListed) isAction()  {}
func (GitWorktreesListed) isAction() {}

// --- Problems / locations / symbols / code actions ---

// ProblemsUpdatePath replaces the diagnostics for one path. This is a
// no-op (state_changed=false) if the stored slice for path already
// equals items once sorted.
type ProblemsUpdatePath struct {
	Path  string
	Items []Problem
}

func (ProblemsUpdatePath) isAction() {}

// --- UI ---

// SetFocus changes which UI region has keyboard focus.
type SetFocus struct{ Target string }

// ToggleSidebar flips sidebar visibility.
type ToggleSidebar struct{}

// ToggleBottomPanel flips the bottom (terminal/problems) panel visibility.
type ToggleBottomPanel struct{}

// ShowHoverMessage sets a transient user-visible message.
type ShowHoverMessage struct{ Message string }

func (SetFocus) isAction()          {}
func (ToggleSidebar) isAction()     {}
func (ToggleBottomPanel) isAction() {}
func (ShowHoverMessage) isAction()  {}

// --- Terminal ---

// TerminalSpawned records a newly created terminal session.
type TerminalSpawned struct{ SessionID string }

// TerminalOutput appends output bytes to a session's scrollback.
type TerminalOutput struct {
	SessionID string
	Data      []byte
}

// TerminalExited marks a session as exited.
type TerminalExited struct {
	SessionID string
	Code      int
}

func (TerminalSpawned) isAction() {}
func (TerminalOutput) isAction()  {}
func (TerminalExited) isAction()  {}

// --- Explorer ---

// ExplorerTreeLoaded replaces the explorer's tree listing for a directory.
type ExplorerTreeLoaded struct {
	Dir     string
	Entries []string
}

// ExplorerSelect selects a path in the tree.
type ExplorerSelect struct{ Path string }

// ExternalFileChanged is posted by the project file watcher when a path
// under an explorer directory changes outside an editor-driven save.
type ExternalFileChanged struct {
	Path string
	Dir  string
}

func (ExplorerTreeLoaded) isAction()  {}
func (ExplorerSelect) isAction()      {}
func (ExternalFileChanged) isAction() {}

// --- Palette / commands ---

// RunCommand executes a named palette command.
type RunCommand struct {
	Command string
	Args    map[string]any
}

func (RunCommand) isAction() {}
