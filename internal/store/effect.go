package store

// Effect is the closed taxonomy of side-effect requests a reducer can
// return. Effects describe intent only; the front end
// dispatches each one to the matching async subsystem (via the
// Executor) and feeds any result back in as a further Action.
type Effect interface {
	isEffect()
}

// LoadFile requests the contents of path be read and turned into an
// OpenTab action once available.
type LoadFile struct {
	Pane int
	Path string
}

// LoadDir requests a directory listing for the explorer tree.
type LoadDir struct{ Path string }

// WriteFile requests path be written with the tab's current text, the
// Effect carrying the edit_version at request time so the eventual
// Saved action can be matched against it.
type WriteFile struct {
	Pane, Tab int
	Path      string
	Version   int64
	Text      string
}

// ReloadSettings requests setting.json be re-read from disk.
type ReloadSettings struct{}

// StartGlobalSearchEffect requests the search subsystem begin a
// whole-tree search and report matches tagged with SearchID.
type StartGlobalSearchEffect struct {
	SearchID      uint64
	Root          string
	Pattern       string
	CaseSensitive bool
	UseRegex      bool
}

// StartEditorSearchEffect requests a per-buffer search.
type StartEditorSearchEffect struct {
	SearchID      uint64
	Pane, Tab     int
	Pattern       string
	CaseSensitive bool
	UseRegex      bool
}

// CancelEditorSearchEffect cancels a running per-buffer search task.
type CancelEditorSearchEffect struct{ SearchID uint64 }

// CancelGlobalSearchEffect cancels a running tree search task.
type CancelGlobalSearchEffect struct{ SearchID uint64 }

// SetClipboardText requests text be written to the clipboard.
type SetClipboardText struct{ Text string }

// RequestClipboardText requests the clipboard be read back into the
// named pane as a paste.
type RequestClipboardText struct{ Pane int }

// GitDetectRepo requests repository discovery starting at root.
type GitDetectRepo struct{ Root string }

// GitRefreshStatus requests the per-path status map be recomputed.
type GitRefreshStatus struct{}

// GitListWorktrees requests the worktree list be recomputed.
type GitListWorktrees struct{}

// GitListBranches requests the branch list be recomputed.
type GitListBranches struct{}

// GitWorktreeAdd requests a new worktree be created.
type GitWorktreeAdd struct {
	Path   string
	Branch string
}

// RestartLsp requests the language server for path be restarted; Hard
// forces a full process kill rather than a graceful shutdown request.
type RestartLsp struct {
	Path string
	Hard bool
}

// SyncLspDocument asks the LSP engine to resync an edited document
// and re-arm the debounced derived-request pipelines (semantic
// tokens, inlay hints, folding ranges). Deleted and LastRune classify
// the triggering edit for the per-pipeline debounce tables.
type SyncLspDocument struct {
	Path     string
	Version  int64
	Text     string
	Deleted  bool
	LastRune rune
}

// TerminalSpawn requests a new terminal session.
type TerminalSpawn struct {
	Shell string
	Cwd   string
}

// TerminalWrite sends input bytes to a session.
type TerminalWrite struct {
	SessionID string
	Data      []byte
}

// TerminalResize resizes a session's pty.
type TerminalResize struct {
	SessionID  string
	Cols, Rows int
}

// TerminalKill requests a session be terminated.
type TerminalKill struct{ SessionID string }

// LspHover requests hover information at a document position; the
// result arrives back as ShowHoverMessage.
type LspHover struct {
	Path      string
	Line, Col int // UTF-16 position, as the server negotiated
}

// LspFormat requests a whole-document format; the formatted text
// arrives back as ReplaceDocument tagged with Version.
type LspFormat struct {
	Pane, Tab int
	Path      string
	Version   int64
	Text      string
	TabSize   int
}

// SaveTheme persists one theme-token color to setting.json.
type SaveTheme struct {
	Token string
	Color string
}

func (LoadFile) isEffect()                 {}
func (LoadDir) isEffect()                  {}
func (WriteFile) isEffect()                {}
func (ReloadSettings) isEffect()           {}
func (StartGlobalSearchEffect) isEffect()  {}
func (StartEditorSearchEffect) isEffect()  {}
func (CancelEditorSearchEffect) isEffect() {}
func (CancelGlobalSearchEffect) isEffect() {}
func (SetClipboardText) isEffect()         {}
func (RequestClipboardText) isEffect()     {}
func (GitDetectRepo) isEffect()            {}
func (GitRefreshStatus) isEffect()         {}
func (GitListWorktrees) isEffect()         {}
func (GitListBranches) isEffect()          {}
func (GitWorktreeAdd) isEffect()           {}
func (RestartLsp) isEffect()               {}
func (SyncLspDocument) isEffect()          {}
func (TerminalSpawn) isEffect()            {}
func (TerminalWrite) isEffect()            {}
func (TerminalResize) isEffect()           {}
func (TerminalKill) isEffect()             {}
func (SaveTheme) isEffect()                {}
func (LspHover) isEffect()                 {}
func (LspFormat) isEffect()                {}
