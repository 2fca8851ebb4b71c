package syntax

import (
	"sync"

	"github.com/dshills/zcode/internal/engine/buffer"
	"github.com/dshills/zcode/internal/engine/rope"
)

// InputEdit describes the line-shape impact of a single edit, in the
// same spirit as tree-sitter's InputEdit: which row the edit started
// at, and how many rows the affected region spanned before and after.
type InputEdit struct {
	StartRow  uint32
	OldEndRow uint32
	NewEndRow uint32
}

// slot holds one line's cached spans plus its dirty bit. Spans is nil
// until a patch has been applied for this line.
type slot struct {
	spans []Span
	dirty bool
}

// Cache is the incremental per-line highlight store: a parallel array
// of optional span slices and dirty bits, kept shape-consistent with a
// rope under edits.
type Cache struct {
	mu   sync.RWMutex
	line []slot
}

// NewCache returns an empty cache; call EnsureShapeForRope before any
// other operation so the slot array matches the rope's line count.
func NewCache() *Cache {
	return &Cache{}
}

// EnsureShapeForRope resizes the cache to rope.LineCount() (minimum
// one line), filling any new slots as (nil spans, dirty).
func (c *Cache) EnsureShapeForRope(r rope.Rope) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureShapeLocked(r)
}

func (c *Cache) ensureShapeLocked(r rope.Rope) {
	want := int(r.LineCount())
	if want < 1 {
		want = 1
	}
	if len(c.line) == want {
		return
	}
	if len(c.line) > want {
		c.line = c.line[:want]
		return
	}
	for len(c.line) < want {
		c.line = append(c.line, slot{dirty: true})
	}
}

// ApplyEditShapeShift applies the line-shape consequences of edit: if
// the edit replaced the same number of rows it occupied (OldEndRow ==
// NewEndRow), the affected rows are marked dirty in place and keep
// their last spans. Otherwise the slot array is spliced at StartRow so
// that indices past the edit realign with the rope's new line
// numbering; the spliced-in rows are dirty with no spans, and rows
// after the edit keep their spans and dirty bits. Any pre-existing
// shape inconsistency triggers a full reset.
func (c *Cache) ApplyEditShapeShift(r rope.Rope, edit InputEdit) {
	c.mu.Lock()
	defer c.mu.Unlock()

	oldLines := int(edit.OldEndRow) - int(edit.StartRow) + 1
	newLines := int(edit.NewEndRow) - int(edit.StartRow) + 1
	if oldLines < 0 || newLines < 0 {
		c.resetLocked(r)
		return
	}

	if oldLines == newLines {
		for row := edit.StartRow; row <= edit.NewEndRow && int(row) < len(c.line); row++ {
			c.line[row].dirty = true
		}
		return
	}

	start := int(edit.StartRow)
	if start > len(c.line) {
		c.resetLocked(r)
		return
	}
	oldEnd := start + oldLines
	if oldEnd > len(c.line) {
		oldEnd = len(c.line)
	}

	replacement := make([]slot, newLines)
	for i := range replacement {
		replacement[i] = slot{dirty: true}
	}

	next := make([]slot, 0, len(c.line)-oldEnd+start+newLines)
	next = append(next, c.line[:start]...)
	next = append(next, replacement...)
	next = append(next, c.line[oldEnd:]...)
	c.line = next

	c.ensureShapeLocked(r)
	if len(c.line) != int(r.LineCount()) && int(r.LineCount()) > 0 {
		c.resetLocked(r)
	}
}

// MarkDirtyFromChangedRanges marks every line spanned by each byte
// range dirty, trimming a leading/trailing newline byte from the range
// first so an edit landing exactly on a line boundary doesn't spill
// into the untouched neighbor.
func (c *Cache) MarkDirtyFromChangedRanges(r rope.Rope, ranges []buffer.Range) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureShapeLocked(r)

	for _, rg := range ranges {
		start, end := rope.ByteOffset(rg.Start), rope.ByteOffset(rg.End)
		if end > start {
			if b, ok := r.ByteAt(start); ok && b == '\n' {
				start++
			}
			if end > start {
				if b, ok := r.ByteAt(end - 1); ok && b == '\n' {
					end--
				}
			}
		}
		if end < start {
			end = start
		}
		startPt := r.OffsetToPoint(start)
		endPt := r.OffsetToPoint(end)
		for row := startPt.Line; row <= endPt.Line && int(row) < len(c.line); row++ {
			c.line[row].dirty = true
		}
	}
}

// Line returns the cached spans for line i, or (nil, false) if no
// patch has landed yet (caller should render untagged until one
// arrives).
func (c *Cache) Line(i uint32) ([]Span, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if int(i) >= len(c.line) {
		return nil, false
	}
	s := c.line[i]
	if s.spans == nil {
		return nil, false
	}
	return s.spans, true
}

// IsDirty reports whether line i is marked dirty (or out of range,
// which is treated as dirty so callers re-request a patch).
func (c *Cache) IsDirty(i uint32) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if int(i) >= len(c.line) {
		return true
	}
	return c.line[i].dirty
}

// ApplyPatch writes spans for the contiguous range [startLine,
// startLine+len(spans)), clearing the dirty bit for each written line.
// Any line index outside the current shape is silently ignored (the
// patch is stale against a since-resized cache).
func (c *Cache) ApplyPatch(startLine uint32, spans [][]Span) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, ls := range spans {
		idx := int(startLine) + i
		if idx < 0 || idx >= len(c.line) {
			continue
		}
		c.line[idx] = slot{spans: ls, dirty: false}
	}
}

// DirtySegments returns maximal contiguous [start, end) ranges of
// dirty lines, in ascending order, for the background highlighter to
// consume.
func (c *Cache) DirtySegments() []Range {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var segs []Range
	inRun := false
	var start uint32
	for i, s := range c.line {
		if s.dirty {
			if !inRun {
				inRun = true
				start = uint32(i)
			}
			continue
		}
		if inRun {
			segs = append(segs, Range{Start: start, End: uint32(i)})
			inRun = false
		}
	}
	if inRun {
		segs = append(segs, Range{Start: start, End: uint32(len(c.line))})
	}
	return segs
}

// Range is a half-open line range [Start, End).
type Range struct {
	Start uint32
	End   uint32
}

// LineCount returns the current shape length.
func (c *Cache) LineCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.line)
}

// resetLocked rebuilds the shape from scratch, discarding every cached
// span (caller must already hold c.mu).
func (c *Cache) resetLocked(r rope.Rope) {
	want := int(r.LineCount())
	if want < 1 {
		want = 1
	}
	c.line = make([]slot, want)
	for i := range c.line {
		c.line[i].dirty = true
	}
}

// ResetForRope discards all cached spans and rebuilds the dirty shape
// from r. Exposed for callers (e.g. on language change) that need an
// explicit full reset rather than relying on inconsistency detection.
func (c *Cache) ResetForRope(r rope.Rope) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked(r)
}
