package cursor

import "testing"

func TestWordBoundsAtIdentifier(t *testing.T) {
	line := "foo bar_baz + qux"
	start, end := WordBoundsAt(line, 1) // inside "foo"
	if start != 0 || end != 3 {
		t.Errorf("expected (0,3), got (%d,%d)", start, end)
	}

	start, end = WordBoundsAt(line, 5) // inside "bar_baz"
	if start != 4 || end != 11 {
		t.Errorf("expected (4,11), got (%d,%d)", start, end)
	}
}

func TestWordBoundsAtWhitespace(t *testing.T) {
	line := "foo bar"
	start, end := WordBoundsAt(line, 3) // the space
	if start != 3 || end != 4 {
		t.Errorf("expected (3,4), got (%d,%d)", start, end)
	}
}

func TestWordBoundsAtPastEnd(t *testing.T) {
	line := "foo"
	start, end := WordBoundsAt(line, 10)
	if start != 3 || end != 3 {
		t.Errorf("expected (3,3), got (%d,%d)", start, end)
	}
}

type fakeLineSource struct {
	lines []string
}

func (f fakeLineSource) LineText(line uint32) string {
	if int(line) >= len(f.lines) {
		return ""
	}
	return f.lines[line]
}

func (f fakeLineSource) LineGraphemeLen(line uint32) int {
	if int(line) >= len(f.lines) {
		return 0
	}
	return len([]rune(f.lines[line]))
}

func TestFromPosWordGranularity(t *testing.T) {
	src := fakeLineSource{lines: []string{"foo bar_baz qux"}}
	sel := FromPos(GPos{Line: 0, Col: 5}, GranularityWord, src)
	if sel.Anchor != (GPos{Line: 0, Col: 4}) || sel.Cursor != (GPos{Line: 0, Col: 11}) {
		t.Errorf("expected word bounds (4,11), got anchor=%v cursor=%v", sel.Anchor, sel.Cursor)
	}
}

func TestFromPosLineGranularity(t *testing.T) {
	src := fakeLineSource{lines: []string{"hello world"}}
	sel := FromPos(GPos{Line: 0, Col: 3}, GranularityLine, src)
	if sel.Anchor != (GPos{Line: 0, Col: 0}) || sel.Cursor != (GPos{Line: 0, Col: 11}) {
		t.Errorf("expected full line bounds, got anchor=%v cursor=%v", sel.Anchor, sel.Cursor)
	}
}

func TestUpdateCursorWordSnapsToNearerEdge(t *testing.T) {
	src := fakeLineSource{lines: []string{"foo bar_baz qux"}}
	sel := FromPos(GPos{Line: 0, Col: 5}, GranularityWord, src) // anchor=4, cursor=11
	sel.UpdateCursor(GPos{Line: 0, Col: 13}, src)                // inside "qux" (12-15), nearer to start
	if sel.Cursor.Col != 12 {
		t.Errorf("expected snap to word start 12, got %d", sel.Cursor.Col)
	}
}

func TestGSelectionRangeOrdersRegardlessOfDirection(t *testing.T) {
	sel := GSelection{Anchor: GPos{Line: 0, Col: 10}, Cursor: GPos{Line: 0, Col: 2}}
	start, end := sel.Range()
	if start.Col != 2 || end.Col != 10 {
		t.Errorf("expected range (2,10), got (%d,%d)", start.Col, end.Col)
	}
}
