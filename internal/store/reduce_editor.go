package store

import (
	"github.com/dshills/zcode/internal/engine"
	"github.com/dshills/zcode/internal/engine/oplog"
	"github.com/dshills/zcode/internal/engine/syntax"
)

// reduceEditor handles every Editor-namespace action.
// Buffer mutation goes straight through the tab's Engine, which owns
// its own mutex; the reducer's job is to locate the right tab, apply
// the mutation, bump edit_version, and clamp the viewport.
func reduceEditor(s State, action Action) (State, DispatchResult) {
	switch a := action.(type) {
	case InsertText:
		return editInsert(s, a)
	case DeleteRange:
		return editDelete(s, a)
	case Undo:
		return editUndo(s, a)
	case Redo:
		return editRedo(s, a)
	case SetCursor:
		return editSetCursor(s, a)
	case Scroll:
		return editScroll(s, a)
	case OpenTab:
		return editOpenTab(s, a)
	case CloseTab:
		return editCloseTab(s, a)
	case SaveRequested:
		return editSaveRequested(s, a)
	case Saved:
		return editSaved(s, a)
	case SemanticTokensReceived:
		return editSemanticTokens(s, a)
	case InlayHintsReceived:
		return editInlayHints(s, a)
	case FoldingRangesReceived:
		return editFoldingRanges(s, a)
	case FocusPane:
		if a.Pane < 0 || a.Pane >= len(s.Editor.Panes) || a.Pane == s.Editor.ActivePane {
			return s, noChange
		}
		s.Editor.ActivePane = a.Pane
		return s, DispatchResult{StateChanged: true}
	case ReplaceDocument:
		return editReplaceDocument(s, a)
	default:
		return s, noChange
	}
}

// lspSyncEffect builds the post-edit resync effect for tabs backed by
// a file; in-memory scratch tabs have no server to sync.
func lspSyncEffect(t *Tab, deleted bool, lastRune rune) []Effect {
	if t.Path == "" {
		return nil
	}
	return []Effect{SyncLspDocument{
		Path:     t.Path,
		Version:  t.EditVersion,
		Text:     t.Eng.Text(),
		Deleted:  deleted,
		LastRune: lastRune,
	}}
}

func lastRuneOf(s string) rune {
	var r rune
	for _, c := range s {
		r = c
	}
	return r
}

// tabAt locates the tab at (pane, tab), returning nil if either index
// is out of range.
func tabAt(s State, pane, tab int) *Tab {
	if pane < 0 || pane >= len(s.Editor.Panes) {
		return nil
	}
	p := s.Editor.Panes[pane]
	if tab < 0 || tab >= len(p.Tabs) {
		return nil
	}
	return p.Tabs[tab]
}

func editInsert(s State, a InsertText) (State, DispatchResult) {
	t := tabAt(s, a.Pane, a.Tab)
	if t == nil || t.Eng == nil {
		return s, noChange
	}
	startPt := t.Eng.OffsetToPoint(engine.ByteOffset(a.Offset))
	newOffset, err := t.Eng.Insert(engine.ByteOffset(a.Offset), a.Text)
	if err != nil {
		return s, DispatchResult{Effects: []Effect{}, StateChanged: false}
	}
	endRow := t.Eng.OffsetToPoint(newOffset).Line
	syncSyntaxShape(t, syntax.InputEdit{StartRow: startPt.Line, OldEndRow: startPt.Line, NewEndRow: endRow})
	if t.Overlay != nil {
		if endRow == startPt.Line {
			t.Overlay.ApplyByteEdit(startPt.Line, startPt.Column, int32(len(a.Text)))
		} else {
			t.Overlay.Clear()
		}
	}
	t.bumpVersion()
	t.Viewport = t.Viewport.clamp(int(t.Eng.LineCount()))
	return s, DispatchResult{Effects: lspSyncEffect(t, false, lastRuneOf(a.Text)), StateChanged: true}
}

func editDelete(s State, a DeleteRange) (State, DispatchResult) {
	t := tabAt(s, a.Pane, a.Tab)
	if t == nil || t.Eng == nil {
		return s, noChange
	}
	if a.Start == a.End {
		return s, noChange
	}
	startPt := t.Eng.OffsetToPoint(engine.ByteOffset(a.Start))
	oldEndRow := t.Eng.OffsetToPoint(engine.ByteOffset(a.End)).Line
	if err := t.Eng.Delete(engine.ByteOffset(a.Start), engine.ByteOffset(a.End)); err != nil {
		return s, noChange
	}
	syncSyntaxShape(t, syntax.InputEdit{StartRow: startPt.Line, OldEndRow: oldEndRow, NewEndRow: startPt.Line})
	if t.Overlay != nil {
		if oldEndRow == startPt.Line {
			t.Overlay.ApplyByteEdit(startPt.Line, startPt.Column, -int32(a.End-a.Start))
		} else {
			t.Overlay.Clear()
		}
	}
	t.bumpVersion()
	t.Viewport = t.Viewport.clamp(int(t.Eng.LineCount()))
	return s, DispatchResult{Effects: lspSyncEffect(t, true, 0), StateChanged: true}
}

// syncSyntaxShape keeps a tab's highlight cache and semantic overlay
// shape-consistent with its rope after every edit, enforcing the
// invariant that the cache's line count matches rope.LineCount()
// immediately following any successful insert, delete, undo, or redo.
func syncSyntaxShape(t *Tab, edit syntax.InputEdit) {
	if t.Syntax == nil {
		return
	}
	t.Syntax.ApplyEditShapeShift(t.Eng.Rope(), edit)
}

func editUndo(s State, a Undo) (State, DispatchResult) {
	t := tabAt(s, a.Pane, a.Tab)
	if t == nil || t.Eng == nil || !t.Eng.CanUndo() {
		return s, noChange
	}
	if err := t.Eng.Undo(); err != nil {
		return s, noChange
	}
	invalidateSyntax(t)
	t.bumpVersion()
	t.Viewport = t.Viewport.clamp(int(t.Eng.LineCount()))
	return s, DispatchResult{Effects: lspSyncEffect(t, true, 0), StateChanged: true}
}

func editRedo(s State, a Redo) (State, DispatchResult) {
	t := tabAt(s, a.Pane, a.Tab)
	if t == nil || t.Eng == nil || !t.Eng.CanRedo() {
		return s, noChange
	}
	if err := t.Eng.Redo(); err != nil {
		return s, noChange
	}
	invalidateSyntax(t)
	t.bumpVersion()
	t.Viewport = t.Viewport.clamp(int(t.Eng.LineCount()))
	return s, DispatchResult{Effects: lspSyncEffect(t, true, 0), StateChanged: true}
}

// invalidateSyntax re-shapes and fully invalidates a tab's highlight
// cache and semantic overlay after an undo/redo, whose effect on the
// buffer isn't expressed as a single contiguous edit the way a live
// keystroke is.
func invalidateSyntax(t *Tab) {
	if t.Syntax != nil {
		r := t.Eng.Rope()
		t.Syntax.EnsureShapeForRope(r)
		t.Syntax.MarkDirtyFromChangedRanges(r, []engine.Range{{Start: 0, End: t.Eng.Len()}})
	}
	if t.Overlay != nil {
		t.Overlay.Clear()
	}
}

func editSetCursor(s State, a SetCursor) (State, DispatchResult) {
	t := tabAt(s, a.Pane, a.Tab)
	if t == nil || t.Eng == nil {
		return s, noChange
	}
	offset := t.Eng.PointToOffset(engine.Point{Line: uint32(a.Row), Column: uint32(a.Col)})
	t.Eng.SetPrimaryCursor(offset)
	return s, DispatchResult{StateChanged: true}
}

func editScroll(s State, a Scroll) (State, DispatchResult) {
	t := tabAt(s, a.Pane, a.Tab)
	if t == nil {
		return s, noChange
	}
	before := t.Viewport
	t.Viewport.LineOffset += a.Delta
	total := 0
	if t.Eng != nil {
		total = int(t.Eng.LineCount())
	}
	t.Viewport = t.Viewport.clamp(total)
	if t.Viewport == before {
		return s, noChange
	}
	return s, DispatchResult{StateChanged: true}
}

func editOpenTab(s State, a OpenTab) (State, DispatchResult) {
	if a.Pane < 0 || a.Pane >= len(s.Editor.Panes) {
		return s, noChange
	}
	p := s.Editor.Panes[a.Pane]
	text := a.Text
	if a.Path != "" {
		// A surviving backup log means the last session crashed with
		// unsaved edits; its replay wins over the on-disk content.
		if recovered, ok, err := oplog.Recover(a.Path); err == nil && ok {
			text = recovered
		}
	}
	eng := engine.New(
		engine.WithContent(text),
		engine.WithTabWidth(s.Editor.Config.TabSize),
	)
	cache := syntax.NewCache()
	cache.EnsureShapeForRope(eng.Rope())
	t := &Tab{
		Title:   a.Title,
		Path:    a.Path,
		Eng:     eng,
		Syntax:  cache,
		Overlay: syntax.NewOverlay(),
	}
	if a.Path != "" {
		_ = eng.EnableBackup(a.Path)
	}
	p.Tabs = append(p.Tabs, t)
	p.ActiveTab = len(p.Tabs) - 1
	s.Editor.ActivePane = a.Pane
	return s, DispatchResult{StateChanged: true}
}

func editCloseTab(s State, a CloseTab) (State, DispatchResult) {
	if a.Pane < 0 || a.Pane >= len(s.Editor.Panes) {
		return s, noChange
	}
	p := s.Editor.Panes[a.Pane]
	if a.Tab < 0 || a.Tab >= len(p.Tabs) {
		return s, noChange
	}
	if t := p.Tabs[a.Tab]; t.Eng != nil {
		_ = t.Eng.DisableBackup()
	}
	p.Tabs = append(p.Tabs[:a.Tab], p.Tabs[a.Tab+1:]...)
	switch {
	case len(p.Tabs) == 0:
		p.ActiveTab = -1
	case p.ActiveTab >= len(p.Tabs):
		p.ActiveTab = len(p.Tabs) - 1
	case p.ActiveTab > a.Tab:
		p.ActiveTab--
	}
	return s, DispatchResult{StateChanged: true}
}

func editSaveRequested(s State, a SaveRequested) (State, DispatchResult) {
	t := tabAt(s, a.Pane, a.Tab)
	if t == nil || t.Eng == nil || t.Path == "" {
		return s, noChange
	}
	eff := WriteFile{
		Pane:    a.Pane,
		Tab:     a.Tab,
		Path:    t.Path,
		Version: t.EditVersion,
		Text:    t.Eng.Text(),
	}
	return s, DispatchResult{Effects: []Effect{eff}, StateChanged: false}
}

// editSaved clears dirty state only when Version still matches the
// tab's edit_version; a newer edit arriving while the write was in
// flight must leave the buffer marked dirty.
func editSaved(s State, a Saved) (State, DispatchResult) {
	t := tabAt(s, a.Pane, a.Tab)
	if t == nil || t.Eng == nil || !a.Success {
		return s, noChange
	}
	if a.Version != t.EditVersion {
		return s, noChange
	}
	t.Eng.MarkSavePoint()
	return s, DispatchResult{StateChanged: true}
}

// editSemanticTokens folds a semantic-tokens response into the tab's
// overlay. A response computed against any version other than the
// current one is stale and dropped — the overlay stays on whatever
// the last matching response delivered.
func editSemanticTokens(s State, a SemanticTokensReceived) (State, DispatchResult) {
	t := tabAt(s, a.Pane, a.Tab)
	if t == nil || t.Eng == nil || t.Overlay == nil {
		return s, noChange
	}
	if a.Version != t.EditVersion {
		return s, noChange
	}
	t.Overlay.ReplaceRange(0, t.Eng.LineCount(), a.Segments)
	return s, DispatchResult{StateChanged: true}
}

func editInlayHints(s State, a InlayHintsReceived) (State, DispatchResult) {
	t := tabAt(s, a.Pane, a.Tab)
	if t == nil || a.Version != t.EditVersion {
		return s, noChange
	}
	t.Hints = a.Hints
	return s, DispatchResult{StateChanged: true}
}

func editFoldingRanges(s State, a FoldingRangesReceived) (State, DispatchResult) {
	t := tabAt(s, a.Pane, a.Tab)
	if t == nil || a.Version != t.EditVersion {
		return s, noChange
	}
	t.Folds = a.Ranges
	return s, DispatchResult{StateChanged: true}
}

// editReplaceDocument swaps a tab's whole text with a formatter's
// result, but only when Version still matches the tab — an edit that
// landed while the formatter ran invalidates the result, exactly as a
// stale Saved cannot clear dirty.
func editReplaceDocument(s State, a ReplaceDocument) (State, DispatchResult) {
	t := tabAt(s, a.Pane, a.Tab)
	if t == nil || t.Eng == nil || a.Version != t.EditVersion {
		return s, noChange
	}
	if t.Eng.Text() == a.Text {
		return s, noChange
	}
	if _, err := t.Eng.Replace(0, t.Eng.Len(), a.Text); err != nil {
		return s, noChange
	}
	invalidateSyntax(t)
	t.bumpVersion()
	t.Viewport = t.Viewport.clamp(int(t.Eng.LineCount()))
	return s, DispatchResult{Effects: lspSyncEffect(t, true, 0), StateChanged: true}
}
