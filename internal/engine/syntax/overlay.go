package syntax

import (
	"sort"
	"sync"
)

// Segment is a server-origin semantic-token region covering a
// contiguous, inclusive line range. Columns are only meaningful within
// StartLine/EndLine; lines strictly between them are covered in full.
type Segment struct {
	StartLine uint32
	StartCol  uint32
	EndLine   uint32
	EndCol    uint32
	Spans     []Span
}

// Overlay holds the sorted, non-overlapping semantic-token segments
// for one document. It is safe for concurrent use: the LSP client
// fills it from a background goroutine before forwarding the owning
// Action, and reducers/readers take a snapshot.
type Overlay struct {
	mu       sync.RWMutex
	segments []Segment
}

// NewOverlay returns an empty overlay.
func NewOverlay() *Overlay {
	return &Overlay{}
}

// ReplaceRange replaces every segment intersecting [startLine, endLine]
// with the provided segments, then merges any now-adjacent segments
// across the seam. Segments must already be sorted and non-overlapping
// relative to each other; ReplaceRange is how a semantic-tokens
// response for a (possibly partial) range gets folded in.
func (o *Overlay) ReplaceRange(startLine, endLine uint32, segments []Segment) {
	o.mu.Lock()
	defer o.mu.Unlock()

	kept := make([]Segment, 0, len(o.segments)+len(segments))
	for _, s := range o.segments {
		if s.EndLine < startLine || s.StartLine > endLine {
			kept = append(kept, s)
		}
	}
	kept = append(kept, segments...)
	sort.Slice(kept, func(i, j int) bool {
		if kept[i].StartLine != kept[j].StartLine {
			return kept[i].StartLine < kept[j].StartLine
		}
		return kept[i].StartCol < kept[j].StartCol
	})
	o.segments = mergeAdjacent(kept)
}

// mergeAdjacent merges segments that touch end-to-end (no gap),
// concatenating their spans, so ReplaceRange doesn't fragment a run
// that happened to be delivered across two responses.
func mergeAdjacent(segs []Segment) []Segment {
	if len(segs) == 0 {
		return segs
	}
	out := make([]Segment, 0, len(segs))
	cur := segs[0]
	for _, next := range segs[1:] {
		if next.StartLine == cur.EndLine && next.StartCol == cur.EndCol {
			cur.EndLine = next.EndLine
			cur.EndCol = next.EndCol
			cur.Spans = append(cur.Spans, next.Spans...)
			continue
		}
		out = append(out, cur)
		cur = next
	}
	return append(out, cur)
}

// Snapshot returns a copy of the current segment list, safe for the
// caller to retain without further locking.
func (o *Overlay) Snapshot() []Segment {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]Segment, len(o.segments))
	copy(out, o.segments)
	return out
}

// ApplyByteEdit shifts span columns within line affected by a
// same-line byte edit at editCol of byteDelta bytes (positive for
// insertion, negative for deletion). Segments entirely before
// editCol on the line are untouched; spans starting at or after
// editCol are shifted. Segments on other lines are untouched: a
// same-or-later span stays intact when the edit lands past a token,
// and only spans beginning after the insertion point move.
func (o *Overlay) ApplyByteEdit(line uint32, editCol uint32, byteDelta int32) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for i := range o.segments {
		seg := &o.segments[i]
		if seg.StartLine == line && seg.StartCol >= editCol {
			seg.StartCol = shiftCol(seg.StartCol, byteDelta)
		}
		if seg.EndLine == line && seg.EndCol > editCol {
			seg.EndCol = shiftCol(seg.EndCol, byteDelta)
		}
	}
}

// Clear discards every segment, used when a document is closed or a
// server re-initializes semantic tokens from scratch.
func (o *Overlay) Clear() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.segments = nil
}
