package git

import "testing"

func TestParseUnifiedZero(t *testing.T) {
	out := "diff --git a/f.go b/f.go\n" +
		"index abc..def 100644\n" +
		"--- a/f.go\n" +
		"+++ b/f.go\n" +
		"@@ -3,0 +4,2 @@ func main() {\n" +
		"+added line one\n" +
		"+added line two\n" +
		"@@ -10 +12 @@\n" +
		"-old\n" +
		"+new\n" +
		"@@ -20,3 +21,0 @@\n" +
		"-gone1\n" +
		"-gone2\n" +
		"-gone3\n"

	changes := parseUnifiedZero(out)
	if len(changes) != 3 {
		t.Fatalf("changes = %+v", changes)
	}

	want := []LineChange{
		{Line: 4, Count: 2, Kind: StatusAdded},
		{Line: 12, Count: 1, Kind: StatusModified},
		{Line: 21, Count: 0, Kind: StatusDeleted},
	}
	for i, w := range want {
		if changes[i] != w {
			t.Errorf("change %d = %+v, want %+v", i, changes[i], w)
		}
	}
}

func TestParseUnifiedZeroEmpty(t *testing.T) {
	if got := parseUnifiedZero(""); got != nil {
		t.Fatalf("got %+v", got)
	}
	// Malformed headers are skipped, not misparsed.
	if got := parseUnifiedZero("@@ garbage\n@@ -x +y @@\n"); got != nil {
		t.Fatalf("got %+v", got)
	}
}
