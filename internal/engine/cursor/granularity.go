package cursor

import (
	"unicode"

	"github.com/dshills/zcode/internal/engine/buffer"
	"github.com/rivo/uniseg"
)

// Granularity controls how a GSelection's cursor snaps when it is moved:
// by grapheme cluster, by word, or by whole line.
type Granularity uint8

const (
	GranularityChar Granularity = iota
	GranularityWord
	GranularityLine
)

// GPos is a (line, grapheme column) position, distinct from the byte-offset
// Point used by Cursor/Selection. Line is 0-indexed; Col counts grapheme
// clusters from the start of the line, not bytes or runes.
type GPos struct {
	Line uint32
	Col  int
}

// lineSource is the subset of Buffer/Snapshot that granularity-aware
// selection logic needs: line text and a grapheme-length query.
type lineSource interface {
	LineText(line uint32) string
	LineGraphemeLen(line uint32) int
}

// GSelection is a selection expressed in (line, grapheme column)
// coordinates, with Char/Word/Line snapping behavior. It complements
// Selection (byte-offset anchor/head) rather than replacing it: editing
// operations still work in byte offsets, but interactive mouse/keyboard
// selection extension wants grapheme-aware snapping.
type GSelection struct {
	Anchor      GPos
	Cursor      GPos
	Granularity Granularity
}

// NewGSelection creates a selection collapsed to pos with no snapping
// applied yet.
func NewGSelection(pos GPos, g Granularity) GSelection {
	return GSelection{Anchor: pos, Cursor: pos, Granularity: g}
}

// FromPos creates a selection at pos and immediately snaps its initial
// bounds according to granularity: Word expands to the enclosing token,
// Line expands to the full line.
func FromPos(pos GPos, g Granularity, src lineSource) GSelection {
	sel := NewGSelection(pos, g)
	sel.normalizeInitialBounds(src)
	return sel
}

func (s *GSelection) normalizeInitialBounds(src lineSource) {
	switch s.Granularity {
	case GranularityChar:
	case GranularityWord:
		row := s.Anchor.Line
		line := buffer.StripNewline(src.LineText(row))
		start, end := WordBoundsAt(line, s.Anchor.Col)
		s.Anchor = GPos{Line: row, Col: start}
		s.Cursor = GPos{Line: row, Col: end}
	case GranularityLine:
		row := s.Anchor.Line
		s.Anchor = GPos{Line: row, Col: 0}
		s.Cursor = GPos{Line: row, Col: src.LineGraphemeLen(row)}
	}
}

// UpdateCursor moves the selection's cursor to pos, snapping according to
// the selection's granularity. The anchor never moves.
func (s *GSelection) UpdateCursor(pos GPos, src lineSource) {
	switch s.Granularity {
	case GranularityChar:
		s.Cursor = pos
	case GranularityWord:
		s.Cursor = s.snapToWord(pos, src)
	case GranularityLine:
		s.Cursor = s.snapToLine(pos, src)
	}
}

func (s *GSelection) snapToWord(pos GPos, src lineSource) GPos {
	line := buffer.StripNewline(src.LineText(pos.Line))
	start, end := WordBoundsAt(line, pos.Col)

	if start == end {
		return GPos{Line: pos.Line, Col: end}
	}

	leftDist := pos.Col - start
	if leftDist < 0 {
		leftDist = 0
	}
	rightDist := end - pos.Col
	if rightDist < 0 {
		rightDist = 0
	}

	if leftDist < rightDist {
		return GPos{Line: pos.Line, Col: start}
	}
	return GPos{Line: pos.Line, Col: end}
}

func (s *GSelection) snapToLine(pos GPos, src lineSource) GPos {
	return GPos{Line: pos.Line, Col: src.LineGraphemeLen(pos.Line)}
}

// Range returns (start, end) with start <= end in document order.
func (s GSelection) Range() (GPos, GPos) {
	if gposLess(s.Anchor, s.Cursor) || s.Anchor == s.Cursor {
		return s.Anchor, s.Cursor
	}
	return s.Cursor, s.Anchor
}

// IsEmpty reports whether the selection has no extent.
func (s GSelection) IsEmpty() bool {
	return s.Anchor == s.Cursor
}

// Contains reports whether pos falls within [start, end) of the selection.
func (s GSelection) Contains(pos GPos) bool {
	start, end := s.Range()
	return !gposLess(pos, start) && gposLess(pos, end)
}

func gposLess(a, b GPos) bool {
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Col < b.Col
}

// charClass classifies a single grapheme cluster for word-boundary
// purposes: whitespace, identifier-ish (letters, digits, underscore,
// other Unicode "continue" categories), or everything else (punctuation,
// symbols).
type charClass uint8

const (
	classIdentifier charClass = iota
	classWhitespace
	classOther
)

func classifyGrapheme(g string) charClass {
	if g == "" {
		return classOther
	}
	r := []rune(g)[0]
	switch {
	case unicode.IsSpace(r):
		return classWhitespace
	case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
		return classIdentifier
	default:
		return classOther
	}
}

// WordBoundsAt returns the [start, end) grapheme-column bounds of the
// contiguous run of same-class graphemes (identifier / whitespace / other)
// that column col belongs to in line. If col is at or past the end of the
// line, both bounds equal the line's grapheme length.
func WordBoundsAt(line string, col int) (int, int) {
	graphemes := splitGraphemes(line)

	var (
		segmentStart int
		prevType     charClass
		havePrev     bool
		start        int
		currentType  charClass
		haveCurrent  bool
		length       int
	)

	for idx, g := range graphemes {
		ty := classifyGrapheme(g)
		if havePrev && prevType != ty {
			segmentStart = idx
		}
		prevType = ty
		havePrev = true

		if idx == col {
			currentType = ty
			haveCurrent = true
			start = segmentStart
		} else if haveCurrent && idx > col && ty != currentType {
			return start, idx
		}

		length = idx + 1
	}

	if haveCurrent {
		return start, length
	}
	return length, length
}

func splitGraphemes(line string) []string {
	var out []string
	rest := line
	state := -1
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		out = append(out, cluster)
	}
	return out
}
