package buffer

import "testing"

func TestGraphemeLenASCII(t *testing.T) {
	if got := GraphemeLen("hello"); got != 5 {
		t.Errorf("expected 5, got %d", got)
	}
}

func TestGraphemeLenEmoji(t *testing.T) {
	// A flag emoji is two runes but one grapheme cluster.
	if got := GraphemeLen("a🇯🇵b"); got != 3 {
		t.Errorf("expected 3 graphemes, got %d", got)
	}
}

func TestGraphemeColumnToByte(t *testing.T) {
	line := "abéc" // "abéc", é is 2 bytes
	if got := GraphemeColumnToByte(line, 0); got != 0 {
		t.Errorf("col 0: expected byte 0, got %d", got)
	}
	if got := GraphemeColumnToByte(line, 2); got != 2 {
		t.Errorf("col 2: expected byte 2, got %d", got)
	}
	if got := GraphemeColumnToByte(line, 3); got != 4 {
		t.Errorf("col 3: expected byte 4, got %d", got)
	}
	if got := GraphemeColumnToByte(line, 100); got != len(line) {
		t.Errorf("out of range col: expected byte %d, got %d", len(line), got)
	}
}

func TestByteColumnToGraphemeColumn(t *testing.T) {
	line := "abéc"
	if got := ByteColumnToGraphemeColumn(line, 0); got != 0 {
		t.Errorf("byte 0: expected col 0, got %d", got)
	}
	if got := ByteColumnToGraphemeColumn(line, 4); got != 3 {
		t.Errorf("byte 4: expected col 3, got %d", got)
	}
}

func TestStripNewline(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"abc\r\n", "abc"},
		{"abc\n", "abc"},
		{"abc\r", "abc"},
		{"abc", "abc"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := StripNewline(tt.in); got != tt.want {
			t.Errorf("StripNewline(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBufferLineGraphemeLen(t *testing.T) {
	b := NewBufferFromString("abéc\r\ndef")
	if got := b.LineGraphemeLen(0); got != 4 {
		t.Errorf("expected 4, got %d", got)
	}
	if got := b.LineGraphemeLen(1); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
}
