package git

import (
	"strconv"
	"strings"
)

// LineChange is one contiguous changed region of a file's working
// tree relative to HEAD, in 1-based new-file line numbers. A pure
// deletion has Count 0 and marks the line the removal sits above.
type LineChange struct {
	Line  uint32
	Count uint32
	Kind  StatusCode // StatusAdded, StatusModified, or StatusDeleted
}

// ChangedLines diffs one file against HEAD with zero context and
// returns its changed regions; the editor paints these as gutter
// marks.
func (r *Repository) ChangedLines(path string) ([]LineChange, error) {
	out, err := r.git("diff", "--unified=0", "--no-color", "HEAD", "--", path)
	if err != nil {
		return nil, err
	}
	return parseUnifiedZero(out), nil
}

// parseUnifiedZero extracts hunk headers from a --unified=0 diff.
// Header shape: "@@ -a[,b] +c[,d] @@ ...". With zero context, b==0
// means pure insertion, d==0 pure deletion, both nonzero a rewrite.
func parseUnifiedZero(out string) []LineChange {
	var changes []LineChange
	for _, line := range strings.Split(out, "\n") {
		if !strings.HasPrefix(line, "@@ ") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		_, oldCount, ok1 := parseHunkRange(fields[1], "-")
		newStart, newCount, ok2 := parseHunkRange(fields[2], "+")
		if !ok1 || !ok2 {
			continue
		}
		ch := LineChange{Line: newStart, Count: newCount}
		switch {
		case newCount == 0:
			ch.Kind = StatusDeleted
		case oldCount == 0:
			ch.Kind = StatusAdded
		default:
			ch.Kind = StatusModified
		}
		changes = append(changes, ch)
	}
	return changes
}

// parseHunkRange parses "-a,b" / "+c,d" (count defaults to 1).
func parseHunkRange(field, sign string) (start, count uint32, ok bool) {
	field = strings.TrimPrefix(field, sign)
	startStr, countStr, hasCount := strings.Cut(field, ",")
	s, err := strconv.ParseUint(startStr, 10, 32)
	if err != nil {
		return 0, 0, false
	}
	c := uint64(1)
	if hasCount {
		if c, err = strconv.ParseUint(countStr, 10, 32); err != nil {
			return 0, 0, false
		}
	}
	return uint32(s), uint32(c), true
}
