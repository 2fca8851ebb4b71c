package store

import (
	"github.com/dshills/zcode/internal/engine"
	"github.com/dshills/zcode/internal/engine/syntax"
)

// Viewport is the visible window over a tab's rope.
type Viewport struct {
	LineOffset   int
	Height       int
	HorizOffset  int
	Width        int
	FollowCursor bool
}

// clamp returns a copy of v with LineOffset restricted to
// [0, max(0, totalLines-Height)].
func (v Viewport) clamp(totalLines int) Viewport {
	maxOffset := totalLines - v.Height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if v.LineOffset < 0 {
		v.LineOffset = 0
	}
	if v.LineOffset > maxOffset {
		v.LineOffset = maxOffset
	}
	return v
}

// Tab is an open document: title, optional backing path, the engine
// facade owning rope+cursor+history, a viewport, and the
// monotonically-increasing edit_version used to correlate async
// results.
type Tab struct {
	Title       string
	Path        string
	Eng         *engine.Engine
	Syntax      *syntax.Cache
	Overlay     *syntax.Overlay
	Viewport    Viewport
	EditVersion int64
	SearchID    uint64 // 0 when no per-buffer search is active

	// Server-derived decorations, each stamped with the edit_version
	// they were computed against.
	Hints []InlayMark
	Folds []FoldRange

	// Gutter holds the tab's per-line git change marks; cleared
	// whenever the detected repository root changes.
	Gutter []GutterMark
}

// bumpVersion increments EditVersion; called on every buffer mutation.
func (t *Tab) bumpVersion() {
	t.EditVersion++
}

// Dirty reports whether the underlying buffer differs from its last
// save point.
func (t *Tab) Dirty() bool {
	if t.Eng == nil {
		return false
	}
	return t.Eng.IsDirty()
}

// Pane holds an ordered list of tabs, the active index, and a
// per-pane search-bar state.
type Pane struct {
	Tabs      []*Tab
	ActiveTab int
	SearchBar SearchBarState
}

// SearchBarState is the per-pane search-bar UI state.
type SearchBarState struct {
	Visible       bool
	Query         string
	Regex         bool
	CaseSensitive bool
}

// ActiveTabPtr returns the pane's currently active tab, or nil if the
// pane has none.
func (p *Pane) ActiveTabPtr() *Tab {
	if p.ActiveTab < 0 || p.ActiveTab >= len(p.Tabs) {
		return nil
	}
	return p.Tabs[p.ActiveTab]
}
