package rope

import "testing"

func TestStripNewline(t *testing.T) {
	tests := []struct{ in, want string }{
		{"abc\n", "abc"},
		{"abc\r\n", "abc"},
		{"abc\r", "abc"},
		{"abc", "abc"},
		{"", ""},
		{"\n", ""},
		{"\r\n", ""},
	}
	for _, tt := range tests {
		if got := StripNewline(tt.in); got != tt.want {
			t.Errorf("StripNewline(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGraphemeLen(t *testing.T) {
	tests := []struct {
		s    string
		want int
	}{
		{"", 0},
		{"abc", 3},
		{"你好", 2},       // two CJK runes, two clusters
		{"é", 1},            // e + combining acute = one cluster
		{"ábc", 3},          // a+combining, b, c
		{"\U0001F468‍\U0001F469‍\U0001F467", 1}, // ZWJ family
	}
	for _, tt := range tests {
		if got := GraphemeLen(tt.s); got != tt.want {
			t.Errorf("GraphemeLen(%q) = %d, want %d", tt.s, got, tt.want)
		}
	}
}

func TestGraphemeColumnConversions(t *testing.T) {
	// Clusters: a+combining-acute (3 bytes), b (1), CJK (3), c (1).
	line := "áb你c"

	byteOfCol := []int{0, 3, 4, 7, 8}
	for col, want := range byteOfCol {
		if got := GraphemeColumnToByte(line, col); got != want {
			t.Errorf("GraphemeColumnToByte(%d) = %d, want %d", col, got, want)
		}
	}
	// Past the end clamps.
	if got := GraphemeColumnToByte(line, 99); got != len(line) {
		t.Errorf("clamped = %d", got)
	}

	for col, b := range byteOfCol {
		if got := ByteColumnToGraphemeColumn(line, b); got != col {
			t.Errorf("ByteColumnToGraphemeColumn(%d) = %d, want %d", b, got, col)
		}
	}
	// A byte interior to the first cluster counts that cluster as
	// started: one cluster starts strictly before byte 2.
	if got := ByteColumnToGraphemeColumn(line, 2); got != 1 {
		t.Errorf("interior byte column = %d", got)
	}
}

func TestRopeGraphemeAddressing(t *testing.T) {
	// Line 0: "ab"; line 1: "e<combining>x" with CRLF; line 2: CJK.
	r := FromString("ab\néx\r\n你好\n")

	if got := r.LineGraphemeLen(0); got != 2 {
		t.Errorf("line 0 len = %d", got)
	}
	if got := r.LineGraphemeLen(1); got != 2 { // CR stripped before counting
		t.Errorf("line 1 len = %d", got)
	}
	if got := r.LineGraphemeLen(2); got != 2 {
		t.Errorf("line 2 len = %d", got)
	}

	// (line 1, col 1) sits after the 3-byte combining cluster; line 1
	// starts at byte 3.
	if got := r.LineGraphemeToOffset(1, 1); got != 6 {
		t.Errorf("LineGraphemeToOffset(1,1) = %d", got)
	}
	line, col := r.OffsetToGrapheme(6)
	if line != 1 || col != 1 {
		t.Errorf("OffsetToGrapheme(6) = (%d,%d)", line, col)
	}
}
