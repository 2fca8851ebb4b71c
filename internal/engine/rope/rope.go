// Package rope stores a document as an immutable sequence of string
// chunks with a cumulative byte/line index. Edits build a new chunk
// slice but share every chunk outside the edited region, so cloning a
// rope is a slice-header copy and async workers can hold snapshots for
// free. Lookups binary-search the index; edits reindex in O(chunks).
//
// The rope is the single source of truth for text addressing: byte
// offsets, (line, byte-column) points, and grapheme-cluster columns
// all convert here rather than in the layers above.
package rope

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// ByteOffset is an absolute byte position in the rope.
type ByteOffset uint64

// Point is a 0-indexed (line, byte-column) position.
type Point struct {
	Line   uint32
	Column uint32
}

// maxChunk bounds chunk size so edits copy at most this many bytes of
// neighboring text. Splits always land on rune boundaries.
const maxChunk = 4096

// Rope is an immutable chunked string. The zero value is an empty
// rope. byteSum[i] / lineSum[i] hold the cumulative byte length and
// newline count through chunks[i].
type Rope struct {
	chunks  []string
	byteSum []ByteOffset
	lineSum []uint32
}

// New returns an empty rope.
func New() Rope {
	return Rope{}
}

// FromString builds a rope over s.
func FromString(s string) Rope {
	if s == "" {
		return Rope{}
	}
	return fromChunks(splitChunks(s))
}

// splitChunks cuts s into maxChunk-bounded pieces, never splitting a
// UTF-8 sequence.
func splitChunks(s string) []string {
	if len(s) <= maxChunk {
		return []string{s}
	}
	chunks := make([]string, 0, len(s)/maxChunk+1)
	for len(s) > maxChunk {
		cut := maxChunk
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		if cut == 0 {
			cut = maxChunk
		}
		chunks = append(chunks, s[:cut])
		s = s[cut:]
	}
	if len(s) > 0 {
		chunks = append(chunks, s)
	}
	return chunks
}

// fromChunks assembles a rope and its cumulative index. Empty chunks
// are dropped so the index stays strictly increasing.
func fromChunks(chunks []string) Rope {
	kept := chunks[:0]
	for _, c := range chunks {
		if c != "" {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		return Rope{}
	}
	r := Rope{
		chunks:  kept,
		byteSum: make([]ByteOffset, len(kept)),
		lineSum: make([]uint32, len(kept)),
	}
	var bytes ByteOffset
	var lines uint32
	for i, c := range kept {
		bytes += ByteOffset(len(c))
		lines += uint32(strings.Count(c, "\n"))
		r.byteSum[i] = bytes
		r.lineSum[i] = lines
	}
	return r
}

// Len returns the total byte length.
func (r Rope) Len() ByteOffset {
	if len(r.byteSum) == 0 {
		return 0
	}
	return r.byteSum[len(r.byteSum)-1]
}

// LineCount returns the number of lines (newlines + 1).
func (r Rope) LineCount() uint32 {
	if len(r.lineSum) == 0 {
		return 1
	}
	return r.lineSum[len(r.lineSum)-1] + 1
}

// IsEmpty reports whether the rope holds no text.
func (r Rope) IsEmpty() bool {
	return r.Len() == 0
}

// String materializes the full text. Use sparingly on large ropes.
func (r Rope) String() string {
	switch len(r.chunks) {
	case 0:
		return ""
	case 1:
		return r.chunks[0]
	}
	var sb strings.Builder
	sb.Grow(int(r.Len()))
	for _, c := range r.chunks {
		sb.WriteString(c)
	}
	return sb.String()
}

// chunkAt returns the index of the chunk containing offset and the
// chunk's starting byte. offset must be < Len().
func (r Rope) chunkAt(offset ByteOffset) (int, ByteOffset) {
	i := sort.Search(len(r.byteSum), func(i int) bool {
		return r.byteSum[i] > offset
	})
	var start ByteOffset
	if i > 0 {
		start = r.byteSum[i-1]
	}
	return i, start
}

// Slice returns the text in [start, end), clamped to the rope.
func (r Rope) Slice(start, end ByteOffset) string {
	total := r.Len()
	if end > total {
		end = total
	}
	if start >= end {
		return ""
	}
	i, chunkStart := r.chunkAt(start)
	// Entirely inside one chunk: no allocation beyond the substring.
	if end <= r.byteSum[i] {
		lo := start - chunkStart
		return r.chunks[i][lo : lo+(end-start)]
	}
	var sb strings.Builder
	sb.Grow(int(end - start))
	sb.WriteString(r.chunks[i][start-chunkStart:])
	pos := r.byteSum[i]
	for j := i + 1; j < len(r.chunks) && pos < end; j++ {
		c := r.chunks[j]
		if pos+ByteOffset(len(c)) <= end {
			sb.WriteString(c)
		} else {
			sb.WriteString(c[:end-pos])
		}
		pos += ByteOffset(len(c))
	}
	return sb.String()
}

// ByteAt returns the byte at offset, or false when out of range.
func (r Rope) ByteAt(offset ByteOffset) (byte, bool) {
	if offset >= r.Len() {
		return 0, false
	}
	i, start := r.chunkAt(offset)
	return r.chunks[i][offset-start], true
}

// Insert returns a new rope with text inserted at offset. Offsets past
// the end append; the original rope is unchanged.
func (r Rope) Insert(offset ByteOffset, text string) Rope {
	if text == "" {
		return r
	}
	total := r.Len()
	if offset > total {
		offset = total
	}
	if total == 0 {
		return FromString(text)
	}

	out := make([]string, 0, len(r.chunks)+2)
	switch {
	case offset == 0:
		out = append(out, splitChunks(text)...)
		out = append(out, r.chunks...)
	case offset == total:
		out = append(out, r.chunks...)
		out = append(out, splitChunks(text)...)
	default:
		i, start := r.chunkAt(offset)
		lo := offset - start
		out = append(out, r.chunks[:i]...)
		out = append(out, splitChunks(r.chunks[i][:lo]+text+r.chunks[i][lo:])...)
		out = append(out, r.chunks[i+1:]...)
	}
	return fromChunks(out)
}

// Delete returns a new rope with [start, end) removed, clamped to the
// rope's bounds.
func (r Rope) Delete(start, end ByteOffset) Rope {
	total := r.Len()
	if end > total {
		end = total
	}
	if start >= end {
		return r
	}
	if start == 0 && end == total {
		return Rope{}
	}

	i, iStart := r.chunkAt(start)
	out := make([]string, 0, len(r.chunks)+1)
	out = append(out, r.chunks[:i]...)
	out = append(out, r.chunks[i][:start-iStart])
	if end < total {
		j, jStart := r.chunkAt(end)
		out = append(out, r.chunks[j][end-jStart:])
		out = append(out, r.chunks[j+1:]...)
	}
	return fromChunks(out)
}

// Replace returns a new rope with [start, end) replaced by text.
func (r Rope) Replace(start, end ByteOffset, text string) Rope {
	if start >= end {
		return r.Insert(start, text)
	}
	if text == "" {
		return r.Delete(start, end)
	}
	return r.Delete(start, end).Insert(start, text)
}

// Split returns the ropes over [0, offset) and [offset, len).
func (r Rope) Split(offset ByteOffset) (Rope, Rope) {
	total := r.Len()
	if offset == 0 {
		return Rope{}, r
	}
	if offset >= total {
		return r, Rope{}
	}
	i, start := r.chunkAt(offset)
	lo := offset - start

	left := make([]string, 0, i+1)
	left = append(left, r.chunks[:i]...)
	left = append(left, r.chunks[i][:lo])

	right := make([]string, 0, len(r.chunks)-i)
	right = append(right, r.chunks[i][lo:])
	right = append(right, r.chunks[i+1:]...)

	return fromChunks(left), fromChunks(right)
}

// Concat returns the concatenation of r and other, sharing both chunk
// slices' strings.
func (r Rope) Concat(other Rope) Rope {
	if other.IsEmpty() {
		return r
	}
	if r.IsEmpty() {
		return other
	}
	out := make([]string, 0, len(r.chunks)+len(other.chunks))
	out = append(out, r.chunks...)
	out = append(out, other.chunks...)
	return fromChunks(out)
}

// newlineOffset returns the byte offset of the nth newline (1-based),
// or the rope length when there are fewer than n newlines.
func (r Rope) newlineOffset(n uint32) ByteOffset {
	if n == 0 || len(r.lineSum) == 0 || n > r.lineSum[len(r.lineSum)-1] {
		return r.Len()
	}
	i := sort.Search(len(r.lineSum), func(i int) bool {
		return r.lineSum[i] >= n
	})
	var before uint32
	var start ByteOffset
	if i > 0 {
		before = r.lineSum[i-1]
		start = r.byteSum[i-1]
	}
	c := r.chunks[i]
	for k := before; ; k++ {
		nl := strings.IndexByte(c, '\n')
		if k+1 == n {
			return start + ByteOffset(nl)
		}
		c = c[nl+1:]
		start += ByteOffset(nl + 1)
	}
}

// LineStartOffset returns the byte offset where line begins. Lines at
// or past LineCount clamp to the rope length.
func (r Rope) LineStartOffset(line uint32) ByteOffset {
	if line == 0 {
		return 0
	}
	if line >= r.LineCount() {
		return r.Len()
	}
	return r.newlineOffset(line) + 1
}

// LineEndOffset returns the byte offset of the end of line, excluding
// its newline.
func (r Rope) LineEndOffset(line uint32) ByteOffset {
	lineCount := r.LineCount()
	if line >= lineCount {
		return r.Len()
	}
	if line == lineCount-1 {
		return r.Len()
	}
	return r.newlineOffset(line + 1)
}

// LineText returns the text of line, excluding its newline.
func (r Rope) LineText(line uint32) string {
	return r.Slice(r.LineStartOffset(line), r.LineEndOffset(line))
}

// OffsetToPoint converts a byte offset to a (line, byte-column) point.
// Offsets past the end clamp to the last position.
func (r Rope) OffsetToPoint(offset ByteOffset) Point {
	total := r.Len()
	if offset > total {
		offset = total
	}
	if offset == 0 {
		return Point{}
	}

	// Newlines strictly before offset = the line number.
	i := sort.Search(len(r.byteSum), func(i int) bool {
		return r.byteSum[i] >= offset
	})
	var line uint32
	var chunkStart ByteOffset
	if i > 0 {
		line = r.lineSum[i-1]
		chunkStart = r.byteSum[i-1]
	}
	line += uint32(strings.Count(r.chunks[i][:offset-chunkStart], "\n"))

	return Point{Line: line, Column: uint32(offset - r.LineStartOffset(line))}
}

// PointToOffset converts a point to a byte offset. Columns past the
// line's end clamp to the line end.
func (r Rope) PointToOffset(point Point) ByteOffset {
	lineStart := r.LineStartOffset(point.Line)
	lineEnd := r.LineEndOffset(point.Line)
	if ByteOffset(point.Column) >= lineEnd-lineStart {
		return lineEnd
	}
	return lineStart + ByteOffset(point.Column)
}

// ChunkCount reports how many chunks back the rope; exposed for tests
// asserting structural sharing.
func (r Rope) ChunkCount() int {
	return len(r.chunks)
}
