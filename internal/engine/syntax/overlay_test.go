package syntax

import "testing"

func TestOverlayReplaceRangeMergesAdjacent(t *testing.T) {
	o := NewOverlay()
	o.ReplaceRange(0, 0, []Segment{{StartLine: 0, StartCol: 0, EndLine: 0, EndCol: 4}})
	o.ReplaceRange(0, 0, []Segment{{StartLine: 0, StartCol: 4, EndLine: 0, EndCol: 8}})

	got := o.Snapshot()
	if len(got) != 1 {
		t.Fatalf("expected adjacent segments merged into one, got %d: %v", len(got), got)
	}
	if got[0].EndCol != 8 {
		t.Fatalf("expected merged EndCol 8, got %d", got[0].EndCol)
	}
}

func TestOverlayReplaceRangeReplacesOnlyIntersecting(t *testing.T) {
	o := NewOverlay()
	o.ReplaceRange(0, 5, []Segment{
		{StartLine: 0, EndLine: 0},
		{StartLine: 5, EndLine: 5},
	})

	// A response covering only line 0 must not disturb line 5's segment.
	o.ReplaceRange(0, 0, []Segment{{StartLine: 0, EndLine: 0, EndCol: 3}})

	got := o.Snapshot()
	foundLine5 := false
	for _, s := range got {
		if s.StartLine == 5 {
			foundLine5 = true
		}
	}
	if !foundLine5 {
		t.Fatalf("line 5 segment should have been preserved, got %v", got)
	}
}

func TestOverlayNullResultDoesNotClear(t *testing.T) {
	o := NewOverlay()
	o.ReplaceRange(0, 0, []Segment{{StartLine: 0, EndLine: 0, EndCol: 4}})

	// A null/empty response for an unrelated range must not clear
	// previously cached tokens.
	o.ReplaceRange(10, 10, nil)

	got := o.Snapshot()
	if len(got) != 1 {
		t.Fatalf("expected original segment to survive unrelated empty replace, got %v", got)
	}
}

func TestOverlayApplyByteEditShiftsLaterSpans(t *testing.T) {
	o := NewOverlay()
	o.ReplaceRange(0, 0, []Segment{
		{StartLine: 0, StartCol: 0, EndLine: 0, EndCol: 2},
		{StartLine: 0, StartCol: 5, EndLine: 0, EndCol: 8},
	})

	o.ApplyByteEdit(0, 3, 2)

	got := o.Snapshot()
	if got[0].StartCol != 0 || got[0].EndCol != 2 {
		t.Fatalf("span before edit point should be untouched, got %v", got[0])
	}
	if got[1].StartCol != 7 || got[1].EndCol != 10 {
		t.Fatalf("span after edit point should shift by delta, got %v", got[1])
	}
}
