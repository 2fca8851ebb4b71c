package store

import "sort"

// Severity ranks a problem for sort purposes; lower sorts first
// (errors before warnings before information before hints), matching
// the "severity_rank" field of the total order below.
type Severity uint8

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInformation
	SeverityHint
)

// Problem is one entry in the flattened, globally-sorted problems list
// (the Workbench's flattened diagnostics list).
type Problem struct {
	Path      string
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
	Severity  Severity
	Message   string
	Source    string
}

// less implements the canonical total order:
// (path, start_line, start_col, end_line, end_col, severity_rank,
// message, source).
func less(a, b Problem) bool {
	if a.Path != b.Path {
		return a.Path < b.Path
	}
	if a.StartLine != b.StartLine {
		return a.StartLine < b.StartLine
	}
	if a.StartCol != b.StartCol {
		return a.StartCol < b.StartCol
	}
	if a.EndLine != b.EndLine {
		return a.EndLine < b.EndLine
	}
	if a.EndCol != b.EndCol {
		return a.EndCol < b.EndCol
	}
	if a.Severity != b.Severity {
		return a.Severity < b.Severity
	}
	if a.Message != b.Message {
		return a.Message < b.Message
	}
	return a.Source < b.Source
}

// sortProblems returns a sorted copy of items; the caller's slice is
// never mutated in place so reducers can compare against the
// previously-stored slice before committing a change.
func sortProblems(items []Problem) []Problem {
	out := make([]Problem, len(items))
	copy(out, items)
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// equalProblems reports whether a and b contain the same problems in
// the same order (both are assumed already sorted).
func equalProblems(a, b []Problem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// updatePath replaces every problem for path in items with newItems,
// returning the merged-and-sorted result plus whether it differs from
// items. A repeat call with identical (already-sorted) content is a
// no-op.
func updatePath(items []Problem, path string, newItems []Problem) ([]Problem, bool) {
	kept := make([]Problem, 0, len(items)+len(newItems))
	for _, p := range items {
		if p.Path != path {
			kept = append(kept, p)
		}
	}
	kept = append(kept, newItems...)
	sorted := sortProblems(kept)

	if equalProblems(sorted, sortProblems(items)) {
		return items, false
	}
	return sorted, true
}

// SearchMatch is one per-file content match, as produced by both the
// rope and tree search services.
type SearchMatch struct {
	File      string
	StartByte int64
	EndByte   int64
	Line      int
	Col       int
}
