package buffer

import "github.com/dshills/zcode/internal/engine/rope"

// Grapheme-cluster addressing is owned by the rope, where it shares
// the line index with byte/point conversion; these aliases keep the
// buffer package's call sites and the cursor package's imports stable.

// GraphemeLen returns the number of grapheme clusters in line, a line
// of text with any trailing terminator already removed.
func GraphemeLen(line string) int {
	return rope.GraphemeLen(line)
}

// GraphemeColumnToByte converts a grapheme-cluster column within line
// to a byte offset into line.
func GraphemeColumnToByte(line string, col int) int {
	return rope.GraphemeColumnToByte(line, col)
}

// ByteColumnToGraphemeColumn converts a byte offset within line to the
// grapheme-cluster column it falls in.
func ByteColumnToGraphemeColumn(line string, byteCol int) int {
	return rope.ByteColumnToGraphemeColumn(line, byteCol)
}

// StripNewline removes a single trailing line terminator (CRLF, LF, or
// CR) from line, if present.
func StripNewline(line string) string {
	return rope.StripNewline(line)
}

// LineGraphemeLen returns the number of grapheme clusters on the given
// line of b, excluding its line terminator.
func (b *Buffer) LineGraphemeLen(line uint32) int {
	return b.rope.LineGraphemeLen(line)
}

// LineGraphemeLen returns the number of grapheme clusters on the given
// line of s, excluding its line terminator.
func (s *Snapshot) LineGraphemeLen(line uint32) int {
	return s.rope.LineGraphemeLen(line)
}
