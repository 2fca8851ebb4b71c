package cursor

import "github.com/dshills/zcode/internal/engine/buffer"

// offsetSource is the subset of Buffer/Snapshot needed to convert between
// GPos (line, grapheme column) and byte offsets.
type offsetSource interface {
	lineSource
	LineStartOffset(line uint32) ByteOffset
	OffsetToPoint(offset ByteOffset) Point
}

// OffsetToGPos converts a byte offset to a (line, grapheme column)
// position.
func OffsetToGPos(src offsetSource, offset ByteOffset) GPos {
	p := src.OffsetToPoint(offset)
	line := buffer.StripNewline(src.LineText(p.Line))
	col := buffer.ByteColumnToGraphemeColumn(line, int(p.Column))
	return GPos{Line: p.Line, Col: col}
}

// GPosToOffset converts a (line, grapheme column) position to a byte
// offset, rounding a column past the end of the line to the line's length.
func GPosToOffset(src offsetSource, pos GPos) ByteOffset {
	line := src.LineText(pos.Line)
	stripped := buffer.StripNewline(line)
	byteCol := buffer.GraphemeColumnToByte(stripped, pos.Col)
	return src.LineStartOffset(pos.Line) + ByteOffset(byteCol)
}

// GSelectionToSelection converts a GSelection to a byte-offset Selection,
// preserving anchor/head direction.
func GSelectionToSelection(src offsetSource, s GSelection) Selection {
	return Selection{
		Anchor: GPosToOffset(src, s.Anchor),
		Head:   GPosToOffset(src, s.Cursor),
	}
}
