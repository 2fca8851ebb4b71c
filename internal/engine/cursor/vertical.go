package cursor

// MoveVertical moves a cursor up or down by lineDelta lines, preserving a
// goal grapheme column across successive vertical moves the way most
// editors do: moving through a short line and back to a long one returns
// to the original column rather than the short line's column.
//
// goalCol is the caller-held goal column state (nil or a fresh value on
// the first vertical move in a sequence); MoveVertical returns the
// position to move to and the goal column to store for the next vertical
// move. Callers reset goalCol to nil on any non-vertical cursor movement.
func MoveVertical(src offsetSource, lineCount uint32, from ByteOffset, lineDelta int, goalCol *int) (ByteOffset, int) {
	pos := OffsetToGPos(src, from)

	col := pos.Col
	if goalCol != nil {
		col = *goalCol
	}

	newLine := int(pos.Line) + lineDelta
	if newLine < 0 {
		newLine = 0
	}
	if lineCount > 0 && newLine >= int(lineCount) {
		newLine = int(lineCount) - 1
	}

	target := GPos{Line: uint32(newLine), Col: col}
	lineLen := src.LineGraphemeLen(target.Line)
	if target.Col > lineLen {
		target.Col = lineLen
	}

	return GPosToOffset(src, target), col
}
