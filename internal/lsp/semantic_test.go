package lsp

import "testing"

func TestDecodeSemanticTokens(t *testing.T) {
	legend := SemanticTokensLegend{
		TokenTypes:     []string{"keyword", "variable", "function"},
		TokenModifiers: []string{"declaration"},
	}

	// Two tokens on line 0 ("func" at col 0, "main" at col 5), one on
	// line 2 ("x" at col 1).
	data := []uint32{
		0, 0, 4, 0, 0,
		0, 5, 4, 2, 1,
		2, 1, 1, 1, 0,
	}

	tokens := DecodeSemanticTokens(data, legend)
	if len(tokens) != 3 {
		t.Fatalf("expected 3 tokens, got %d", len(tokens))
	}

	want := []SemanticToken{
		{Line: 0, Char: 0, Length: 4, Type: "keyword", Modifiers: 0},
		{Line: 0, Char: 5, Length: 4, Type: "function", Modifiers: 1},
		{Line: 2, Char: 1, Length: 1, Type: "variable", Modifiers: 0},
	}
	for i, w := range want {
		if tokens[i] != w {
			t.Errorf("token %d: got %+v, want %+v", i, tokens[i], w)
		}
	}
}

func TestDecodeSemanticTokensCharResetsOnNewLine(t *testing.T) {
	legend := SemanticTokensLegend{TokenTypes: []string{"t"}}

	// Token at (0, 10), then deltaLine=1 deltaChar=2: char must reset
	// to 2, not accumulate to 12.
	data := []uint32{
		0, 10, 1, 0, 0,
		1, 2, 1, 0, 0,
	}
	tokens := DecodeSemanticTokens(data, legend)
	if tokens[1].Line != 1 || tokens[1].Char != 2 {
		t.Fatalf("got (%d,%d), want (1,2)", tokens[1].Line, tokens[1].Char)
	}
}

func TestDecodeSemanticTokensUnknownTypeIndex(t *testing.T) {
	legend := SemanticTokensLegend{TokenTypes: []string{"only"}}
	data := []uint32{0, 0, 3, 7, 0}
	tokens := DecodeSemanticTokens(data, legend)
	if len(tokens) != 1 {
		t.Fatalf("expected token kept, got %d tokens", len(tokens))
	}
	if tokens[0].Type != "" {
		t.Errorf("expected empty type for out-of-legend index, got %q", tokens[0].Type)
	}
}

func TestDecodeSemanticTokensTruncatedData(t *testing.T) {
	legend := SemanticTokensLegend{TokenTypes: []string{"t"}}
	data := []uint32{0, 0, 3, 0, 0, 1, 1} // trailing partial tuple
	tokens := DecodeSemanticTokens(data, legend)
	if len(tokens) != 1 {
		t.Fatalf("expected partial tuple dropped, got %d tokens", len(tokens))
	}
}

func TestTokenCacheMonotonic(t *testing.T) {
	tc := NewTokenCache()
	path := "/src/a.go"

	v1 := []SemanticToken{{Line: 0, Char: 0, Length: 4, Type: "keyword"}}
	if !tc.Put(path, 1, v1) {
		t.Fatal("initial put rejected")
	}

	v3 := []SemanticToken{{Line: 1, Char: 0, Length: 2, Type: "variable"}}
	if !tc.Put(path, 3, v3) {
		t.Fatal("newer version rejected")
	}

	// A stale in-flight response for an older version must not win.
	if tc.Put(path, 2, v1) {
		t.Error("older version accepted over newer entry")
	}
	got, version, ok := tc.Get(path)
	if !ok || version != 3 {
		t.Fatalf("got version %d ok=%v, want 3", version, ok)
	}
	if len(got) != 1 || got[0].Type != "variable" {
		t.Errorf("cache holds %+v, want v3 tokens", got)
	}
}

func TestTokenCacheNullNeverClears(t *testing.T) {
	tc := NewTokenCache()
	path := "/src/a.go"
	tc.Put(path, 1, []SemanticToken{{Length: 1}})

	if tc.Put(path, 2, nil) {
		t.Error("nil tokens accepted")
	}
	if got, _, ok := tc.Get(path); !ok || len(got) != 1 {
		t.Fatalf("cached tokens lost after nil put: %v ok=%v", got, ok)
	}

	// An empty-but-present result is a real answer and does replace.
	if !tc.Put(path, 2, []SemanticToken{}) {
		t.Error("empty (non-nil) tokens rejected")
	}
	if got, _, _ := tc.Get(path); len(got) != 0 {
		t.Errorf("empty result did not replace: %v", got)
	}
}

func TestTokenCacheRemove(t *testing.T) {
	tc := NewTokenCache()
	tc.Put("/src/a.go", 1, []SemanticToken{{Length: 1}})
	tc.Remove("/src/a.go")
	if _, _, ok := tc.Get("/src/a.go"); ok {
		t.Error("entry survived Remove")
	}
}

func TestInlayHintLabelText(t *testing.T) {
	plain := InlayHint{Label: ": int"}
	if got := plain.LabelText(); got != ": int" {
		t.Errorf("string label: got %q", got)
	}

	// Label parts arrive as []any after JSON decoding.
	parts := InlayHint{Label: []any{
		map[string]any{"value": ": "},
		map[string]any{"value": "string"},
	}}
	if got := parts.LabelText(); got != ": string" {
		t.Errorf("part label: got %q", got)
	}

	if got := (InlayHint{}).LabelText(); got != "" {
		t.Errorf("nil label: got %q", got)
	}
}
