package store

import "testing"

func TestUpdatePathReplacesOnlyMatchingPath(t *testing.T) {
	existing := []Problem{
		{Path: "a.go", StartLine: 1, Message: "old a"},
		{Path: "b.go", StartLine: 2, Message: "b"},
	}
	merged, changed := updatePath(existing, "a.go", []Problem{
		{Path: "a.go", StartLine: 3, Message: "new a"},
	})
	if !changed {
		t.Fatalf("expected changed=true")
	}
	if len(merged) != 2 {
		t.Fatalf("expected 2 problems, got %d", len(merged))
	}
	for _, p := range merged {
		if p.Path == "a.go" && p.Message != "new a" {
			t.Fatalf("a.go problem not replaced: %+v", p)
		}
	}
}

func TestUpdatePathRepeatIsNoOp(t *testing.T) {
	items := []Problem{{Path: "a.go", StartLine: 1, Message: "x"}}
	merged, changed := updatePath(items, "a.go", items)
	if changed {
		t.Fatalf("expected changed=false for identical content")
	}
	if len(merged) != 1 {
		t.Fatalf("unexpected merge result: %+v", merged)
	}
}

func TestUpdatePathSortsGlobally(t *testing.T) {
	existing := []Problem{
		{Path: "z.go", StartLine: 1},
	}
	merged, changed := updatePath(existing, "a.go", []Problem{
		{Path: "a.go", StartLine: 1},
	})
	if !changed {
		t.Fatalf("expected changed=true")
	}
	if merged[0].Path != "a.go" || merged[1].Path != "z.go" {
		t.Fatalf("expected a.go before z.go, got %+v", merged)
	}
}

func TestProblemOrdering(t *testing.T) {
	a := Problem{Path: "x", StartLine: 1, StartCol: 1, Severity: SeverityWarning}
	b := Problem{Path: "x", StartLine: 1, StartCol: 1, Severity: SeverityError}
	if !less(b, a) {
		t.Fatalf("expected error to sort before warning at same position")
	}
}
