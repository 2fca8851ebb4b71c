package store

import (
	"sync"

	"github.com/dshills/zcode/internal/config"
)

// DispatchResult is what every reducer returns: the effects to carry
// out and whether the observable state actually changed. The two are
// independent — a reducer may report StateChanged=false while still
// returning non-empty Effects (a Git worktree refresh that hasn't
// landed yet is the canonical example).
type DispatchResult struct {
	Effects      []Effect
	StateChanged bool
}

// noChange is the zero-effort "nothing happened" result reducers
// return for no-op actions (stale ids, invalid indices, redundant
// updates) instead of panicking.
var noChange = DispatchResult{}

// Store owns the single State tree and serializes Dispatch calls. The
// store normally runs on the front-end thread and is reached only
// through the bus, but guarding it with a mutex costs nothing and
// protects callers who dispatch from tests or multiple adapters.
type Store struct {
	mu    sync.Mutex
	state State

	nextSearchID uint64
}

// New creates a Store seeded with NewState(cfg).
func New(cfg config.EditorConfig) *Store {
	return &Store{state: NewState(cfg)}
}

// State returns a snapshot of the current state. Callers must treat it
// as read-only; the render layer is the only intended consumer and
// reads state without ever mutating it.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch routes action to its owning sub-reducer and returns the
// result. Reducers are functions of (State, Action), apart from the
// backup-log I/O described in the package doc; Dispatch is the only place that commits the returned state back into
// the Store and hands out fresh search ids.
func (s *Store) Dispatch(action Action) DispatchResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, result := reduce(s.state, action, &s.nextSearchID)
	s.state = next
	return result
}

// reduce is the top-level reducer: a type switch over the closed
// Action taxonomy, delegating to one sub-reducer per namespace. Kept
// as a free function (not a Store method) so it can be unit tested
// without mutex bookkeeping.
func reduce(s State, action Action, nextSearchID *uint64) (State, DispatchResult) {
	switch a := action.(type) {
	case InsertText, DeleteRange, Undo, Redo, SetCursor, Scroll, OpenTab, CloseTab, SaveRequested, Saved,
		SemanticTokensReceived, InlayHintsReceived, FoldingRangesReceived, FocusPane, ReplaceDocument:
		return reduceEditor(s, a)
	case StartEditorSearch, CancelEditorSearch, StartGlobalSearch, CancelGlobalSearch,
		SearchMatchesReceived, SearchComplete, SearchCancelled, SearchFailed:
		return reduceSearch(s, a, nextSearchID)
	case GitRepoDetected, GitStatusRefreshed, GitBranchesListed, GitWorktreesListed, GitGutterUpdated:
		return reduceGit(s, a)
	case ProblemsUpdatePath, ProblemsSelect, ProblemsSetViewHeight:
		return reduceProblems(s, a)
	case LocationsUpdated, LocationsSelect, LocationsSetViewHeight,
		SymbolsUpdated, SymbolsSelect, SymbolsSetViewHeight,
		CodeActionsShown, CodeActionsSelect, CodeActionsDismiss:
		return reducePanels(s, a)
	case SetFocus, ToggleSidebar, ToggleBottomPanel, ShowHoverMessage,
		ShowModal, CloseModal,
		ContextMenuOpen, ContextMenuClose, ContextMenuSelect,
		ThemeEditorOpen, ThemeEditorClose, ThemeEditorSelect, ThemeEditorSetColor:
		return reduceUI(s, a)
	case TerminalSpawned, TerminalOutput, TerminalExited:
		return reduceTerminal(s, a)
	case ExplorerTreeLoaded, ExplorerSelect, ExternalFileChanged:
		return reduceExplorer(s, a)
	case RunCommand:
		return reducePalette(s, a)
	default:
		return s, noChange
	}
}
