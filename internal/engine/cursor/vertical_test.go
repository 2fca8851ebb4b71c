package cursor

import (
	"testing"

	"github.com/dshills/zcode/internal/engine/buffer"
)

func TestMoveVerticalPreservesGoalColumn(t *testing.T) {
	b := buffer.NewBufferFromString("hello world\nhi\nfoo bar baz")
	// Start at column 7 on line 0 ("hello w|orld").
	off := b.PointToOffset(buffer.Point{Line: 0, Column: 7})

	var goal *int
	down1, g1 := MoveVertical(b, b.LineCount(), off, 1, goal)
	// Line 1 "hi" is only 2 graphemes long: column clamps to 2, but the
	// goal column (7) survives for the next move.
	pos1 := OffsetToGPos(b, down1)
	if pos1.Line != 1 || pos1.Col != 2 {
		t.Fatalf("expected (1,2), got %v", pos1)
	}
	if g1 != 7 {
		t.Fatalf("expected goal column 7, got %d", g1)
	}

	down2, _ := MoveVertical(b, b.LineCount(), down1, 1, &g1)
	pos2 := OffsetToGPos(b, down2)
	if pos2.Line != 2 || pos2.Col != 7 {
		t.Fatalf("expected (2,7) after returning to a long line, got %v", pos2)
	}
}

func TestMoveVerticalClampsAtDocumentBounds(t *testing.T) {
	b := buffer.NewBufferFromString("one\ntwo")
	off := b.PointToOffset(buffer.Point{Line: 0, Column: 1})

	up, _ := MoveVertical(b, b.LineCount(), off, -1, nil)
	if up != off {
		t.Fatalf("moving up from line 0 should stay on line 0, got offset %d", up)
	}
}
