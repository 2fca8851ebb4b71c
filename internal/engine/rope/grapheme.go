package rope

import "github.com/rivo/uniseg"

// Grapheme-cluster addressing lives on the rope itself so the three
// coordinate systems (byte offset, byte column, grapheme column) all
// convert against the same line index. Cluster segmentation uses
// uniseg; a line's trailing terminator (LF, CRLF, or bare CR) never
// counts as a cluster.

// StripNewline removes a single trailing line terminator (CRLF, LF,
// or CR) from line, if present.
func StripNewline(line string) string {
	n := len(line)
	if n >= 2 && line[n-2] == '\r' && line[n-1] == '\n' {
		return line[:n-2]
	}
	if n >= 1 && (line[n-1] == '\n' || line[n-1] == '\r') {
		return line[:n-1]
	}
	return line
}

// GraphemeLen returns the number of grapheme clusters in line, whose
// trailing terminator the caller has already removed.
func GraphemeLen(line string) int {
	count := 0
	state := -1
	for len(line) > 0 {
		_, line, _, state = uniseg.FirstGraphemeClusterInString(line, state)
		count++
	}
	return count
}

// GraphemeColumnToByte converts a grapheme-cluster column within line
// to a byte offset into line. Columns past the end clamp to len(line).
func GraphemeColumnToByte(line string, col int) int {
	if col <= 0 {
		return 0
	}
	rest := line
	state := -1
	byteOff := 0
	for i := 0; i < col && len(rest) > 0; i++ {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		byteOff += len(cluster)
	}
	return byteOff
}

// ByteColumnToGraphemeColumn converts a byte offset within line to a
// grapheme-cluster column: the number of clusters starting strictly
// before byteCol.
func ByteColumnToGraphemeColumn(line string, byteCol int) int {
	if byteCol <= 0 {
		return 0
	}
	rest := line
	state := -1
	byteOff := 0
	col := 0
	for len(rest) > 0 && byteOff < byteCol {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		byteOff += len(cluster)
		col++
	}
	return col
}

// LineGraphemeLen returns the number of grapheme clusters on line,
// excluding its terminator.
func (r Rope) LineGraphemeLen(line uint32) int {
	return GraphemeLen(StripNewline(r.LineText(line)))
}

// LineGraphemeToOffset converts (line, grapheme column) to an absolute
// byte offset, clamping the column to the line's cluster count.
func (r Rope) LineGraphemeToOffset(line uint32, col int) ByteOffset {
	text := StripNewline(r.LineText(line))
	return r.LineStartOffset(line) + ByteOffset(GraphemeColumnToByte(text, col))
}

// OffsetToGrapheme converts an absolute byte offset to its (line,
// grapheme column), rounding down to the containing cluster.
func (r Rope) OffsetToGrapheme(offset ByteOffset) (uint32, int) {
	pt := r.OffsetToPoint(offset)
	text := StripNewline(r.LineText(pt.Line))
	return pt.Line, ByteColumnToGraphemeColumn(text, int(pt.Column))
}
