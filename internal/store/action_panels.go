package store

// Actions for the list panels (locations, symbols, code actions), the
// theme editor, the context menu, modals, per-pane focus, and per-tab
// git gutter marks. Together with action.go these close the Action
// taxonomy; reducers live in reduce_panels.go and reduce_ui.go.

// FocusPane makes a pane the active one; keymap- and palette-driven
// commands address "the active tab" through it.
type FocusPane struct{ Pane int }

// --- Locations ---

// LocationsUpdated replaces the locations panel's items.
type LocationsUpdated struct{ Items []Location }

// LocationsSelect moves the panel selection.
type LocationsSelect struct{ Index int }

// LocationsSetViewHeight records the panel's laid-out height so
// selection motion can clamp and page correctly.
type LocationsSetViewHeight struct{ Height int }

// --- Symbols ---

// SymbolsUpdated replaces the symbols panel's items for a query.
type SymbolsUpdated struct {
	Query string
	Items []Symbol
}

// SymbolsSelect moves the panel selection.
type SymbolsSelect struct{ Index int }

// SymbolsSetViewHeight records the panel's laid-out height.
type SymbolsSetViewHeight struct{ Height int }

// --- Code actions ---

// CodeActionsShown opens the code-action popup with items.
type CodeActionsShown struct{ Items []CodeActionItem }

// CodeActionsSelect moves the popup selection.
type CodeActionsSelect struct{ Index int }

// CodeActionsDismiss closes the popup.
type CodeActionsDismiss struct{}

// --- Problems ---

// ProblemsSelect moves the problems panel selection.
type ProblemsSelect struct{ Index int }

// ProblemsSetViewHeight records the panel's laid-out height.
type ProblemsSetViewHeight struct{ Height int }

// --- Theme editor ---

// ThemeEditorOpen opens the theme editor over tokens.
type ThemeEditorOpen struct{ Tokens []ThemeToken }

// ThemeEditorClose closes the theme editor.
type ThemeEditorClose struct{}

// ThemeEditorSelect moves the token selection.
type ThemeEditorSelect struct{ Index int }

// ThemeEditorSetColor changes the selected token's color.
type ThemeEditorSetColor struct {
	Token string
	Color string
}

// --- Context menu ---

// ContextMenuOpen opens the right-click menu at (X, Y).
type ContextMenuOpen struct {
	X, Y  int
	Items []string
}

// ContextMenuClose dismisses the menu.
type ContextMenuClose struct{}

// ContextMenuSelect moves the menu selection.
type ContextMenuSelect struct{ Index int }

// --- Modals ---

// ShowModal opens the named modal; only one is visible at a time.
type ShowModal struct{ ID string }

// CloseModal dismisses the active modal.
type CloseModal struct{}

// --- Formatting ---

// ReplaceDocument swaps a tab's full text, used by format-on-request
// results. Version must still match the tab's edit_version; a
// mismatch means the user typed while the formatter ran and the
// result is discarded.
type ReplaceDocument struct {
	Pane, Tab int
	Version   int64
	Text      string
}

// --- Git gutter ---

// GutterMark annotates one buffer line with its working-tree change.
type GutterMark struct {
	Line uint32
	Kind string // added | modified | deleted
}

// GitGutterUpdated replaces one tab's gutter marks.
type GitGutterUpdated struct {
	Pane, Tab int
	Marks     []GutterMark
}

func (FocusPane) isAction()              {}
func (LocationsUpdated) isAction()       {}
func (LocationsSelect) isAction()        {}
func (LocationsSetViewHeight) isAction() {}
func (SymbolsUpdated) isAction()         {}
func (SymbolsSelect) isAction()          {}
func (SymbolsSetViewHeight) isAction()   {}
func (CodeActionsShown) isAction()       {}
func (CodeActionsSelect) isAction()      {}
func (CodeActionsDismiss) isAction()     {}
func (ProblemsSelect) isAction()         {}
func (ProblemsSetViewHeight) isAction()  {}
func (ThemeEditorOpen) isAction()        {}
func (ThemeEditorClose) isAction()       {}
func (ThemeEditorSelect) isAction()      {}
func (ThemeEditorSetColor) isAction()    {}
func (ContextMenuOpen) isAction()        {}
func (ContextMenuClose) isAction()       {}
func (ContextMenuSelect) isAction()      {}
func (ShowModal) isAction()              {}
func (CloseModal) isAction()             {}
func (ReplaceDocument) isAction()        {}
func (GitGutterUpdated) isAction()       {}
