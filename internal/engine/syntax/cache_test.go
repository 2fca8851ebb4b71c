package syntax

import (
	"testing"

	"github.com/dshills/zcode/internal/engine/buffer"
	"github.com/dshills/zcode/internal/engine/rope"
)

func TestEnsureShapeForRope(t *testing.T) {
	r := rope.FromString("a\nbc\nd")
	c := NewCache()
	c.EnsureShapeForRope(r)

	if got := c.LineCount(); got != int(r.LineCount()) {
		t.Fatalf("LineCount() = %d, want %d", got, r.LineCount())
	}
	for i := 0; i < c.LineCount(); i++ {
		if !c.IsDirty(uint32(i)) {
			t.Fatalf("line %d should start dirty", i)
		}
	}
}

func TestApplyPatchClearsDirty(t *testing.T) {
	r := rope.FromString("a\nbc\nd")
	c := NewCache()
	c.EnsureShapeForRope(r)

	c.ApplyPatch(0, [][]Span{
		{{Kind: "ident", StartCol: 0, EndCol: 1}},
		{{Kind: "ident", StartCol: 0, EndCol: 2}},
		{{Kind: "ident", StartCol: 0, EndCol: 1}},
	})

	for i := uint32(0); i < 3; i++ {
		if c.IsDirty(i) {
			t.Fatalf("line %d should not be dirty after patch", i)
		}
		spans, ok := c.Line(i)
		if !ok || len(spans) != 1 {
			t.Fatalf("line %d: expected cached spans, got %v ok=%v", i, spans, ok)
		}
	}

	if segs := c.DirtySegments(); len(segs) != 0 {
		t.Fatalf("expected no dirty segments, got %v", segs)
	}
}

func TestApplyEditShapeShiftSameLineCount(t *testing.T) {
	r := rope.FromString("a\nbc\nd")
	c := NewCache()
	c.EnsureShapeForRope(r)
	c.ApplyPatch(0, [][]Span{
		{{Kind: "a"}},
		{{Kind: "b"}},
		{{Kind: "c"}},
	})

	c.ApplyEditShapeShift(r, InputEdit{StartRow: 1, OldEndRow: 1, NewEndRow: 1})

	if !c.IsDirty(1) {
		t.Fatal("edited line should be marked dirty")
	}
	if c.IsDirty(0) || c.IsDirty(2) {
		t.Fatal("unaffected lines should stay clean")
	}
}

func TestApplyEditShapeShiftSplicesLines(t *testing.T) {
	r := rope.FromString("a\nbc\nd")
	c := NewCache()
	c.EnsureShapeForRope(r)
	c.ApplyPatch(0, [][]Span{
		{{Kind: "a"}},
		{{Kind: "b"}},
		{{Kind: "c"}},
	})

	newRope := rope.FromString("a\nb\nc\nd")
	c.ApplyEditShapeShift(newRope, InputEdit{StartRow: 1, OldEndRow: 1, NewEndRow: 2})

	if got := c.LineCount(); got != 4 {
		t.Fatalf("LineCount() = %d, want 4", got)
	}
	// line 3 (formerly line 2, "d") keeps its cached state at its new
	// index, and untouched content before the edit (line 0) must remain
	// cached.
	if c.IsDirty(0) {
		t.Fatal("line 0 should have preserved its cached (non-dirty) state")
	}
	if !c.IsDirty(1) || !c.IsDirty(2) {
		t.Fatal("spliced-in lines should be dirty")
	}
}

func TestMarkDirtyFromChangedRangesTrimsNewlines(t *testing.T) {
	r := rope.FromString("a\nbc\nd")
	c := NewCache()
	c.EnsureShapeForRope(r)
	c.ApplyPatch(0, [][]Span{{}, {}, {}})

	c.MarkDirtyFromChangedRanges(r, []buffer.Range{{Start: 2, End: 4}})

	if !c.IsDirty(1) {
		t.Fatal("line spanning the changed range should be dirty")
	}
	if c.IsDirty(0) || c.IsDirty(2) {
		t.Fatal("lines outside the changed range should be untouched")
	}
}

func TestDirtySegmentsContiguous(t *testing.T) {
	r := rope.FromString("a\nb\nc\nd\ne")
	c := NewCache()
	c.EnsureShapeForRope(r)
	c.ApplyPatch(0, [][]Span{{}, {}, {}, {}, {}})

	c.ApplyEditShapeShift(r, InputEdit{StartRow: 1, OldEndRow: 2, NewEndRow: 2})

	segs := c.DirtySegments()
	if len(segs) != 1 || segs[0].Start != 1 || segs[0].End != 3 {
		t.Fatalf("unexpected dirty segments: %v", segs)
	}
}
