package runtime

import (
	"testing"

	"github.com/dshills/zcode/internal/lsp"
)

func TestSegmentsFromTokensGroupsByLine(t *testing.T) {
	tokens := []lsp.SemanticToken{
		{Line: 0, Char: 0, Length: 4, Type: "keyword"},
		{Line: 0, Char: 5, Length: 4, Type: "function"},
		{Line: 2, Char: 1, Length: 3, Type: "variable"},
	}

	segs := segmentsFromTokens(tokens)
	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2", len(segs))
	}

	first := segs[0]
	if first.StartLine != 0 || first.EndLine != 0 {
		t.Errorf("segment 0 lines = %d..%d", first.StartLine, first.EndLine)
	}
	if len(first.Spans) != 2 {
		t.Fatalf("segment 0 spans = %v", first.Spans)
	}
	if first.StartCol != 0 || first.EndCol != 9 {
		t.Errorf("segment 0 cols = %d..%d, want 0..9", first.StartCol, first.EndCol)
	}
	if first.Spans[1].Kind != "function" || first.Spans[1].StartCol != 5 || first.Spans[1].EndCol != 9 {
		t.Errorf("span 1 = %+v", first.Spans[1])
	}

	second := segs[1]
	if second.StartLine != 2 || second.Spans[0].Kind != "variable" {
		t.Errorf("segment 1 = %+v", second)
	}
}

func TestSegmentsFromTokensEmpty(t *testing.T) {
	if got := segmentsFromTokens(nil); got != nil {
		t.Fatalf("got %v, want nil", got)
	}
}
