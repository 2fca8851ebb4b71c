package store

import (
	"testing"

	"github.com/dshills/zcode/internal/engine/syntax"
)

func TestEditOnFileBackedTabEmitsLspSync(t *testing.T) {
	s := New(testConfig())
	path := t.TempDir() + "/f.go"
	s.Dispatch(OpenTab{Pane: 0, Path: path, Title: "f.go", Text: "package f\n"})

	res := s.Dispatch(InsertText{Pane: 0, Tab: 0, Offset: 9, Text: "x"})
	var sync *SyncLspDocument
	for _, eff := range res.Effects {
		if e, ok := eff.(SyncLspDocument); ok {
			sync = &e
		}
	}
	if sync == nil {
		t.Fatalf("insert produced no SyncLspDocument, effects: %v", res.Effects)
	}
	if sync.Path != path || sync.Version != 1 || sync.Deleted {
		t.Fatalf("sync = %+v", sync)
	}
	if sync.LastRune != 'x' {
		t.Errorf("last rune = %q", sync.LastRune)
	}

	res = s.Dispatch(DeleteRange{Pane: 0, Tab: 0, Start: 9, End: 10})
	sync = nil
	for _, eff := range res.Effects {
		if e, ok := eff.(SyncLspDocument); ok {
			sync = &e
		}
	}
	if sync == nil || !sync.Deleted || sync.Version != 2 {
		t.Fatalf("delete sync = %+v", sync)
	}
}

func TestScratchTabEmitsNoLspSync(t *testing.T) {
	s := New(testConfig())
	s.Dispatch(OpenTab{Pane: 0, Title: "scratch", Text: "a"})

	res := s.Dispatch(InsertText{Pane: 0, Tab: 0, Offset: 1, Text: "b"})
	for _, eff := range res.Effects {
		if _, ok := eff.(SyncLspDocument); ok {
			t.Fatal("pathless tab emitted SyncLspDocument")
		}
	}
}

func TestSemanticTokensVersionCorrelation(t *testing.T) {
	s := New(testConfig())
	path := t.TempDir() + "/f.go"
	s.Dispatch(OpenTab{Pane: 0, Path: path, Title: "f.go", Text: "package f\n"})
	s.Dispatch(InsertText{Pane: 0, Tab: 0, Offset: 9, Text: "x"})

	segs := []syntax.Segment{{
		StartLine: 0, StartCol: 0, EndLine: 0, EndCol: 7,
		Spans: []syntax.Span{{Kind: "keyword", StartCol: 0, EndCol: 7}},
	}}

	// Computed against a version that no longer matches: dropped.
	res := s.Dispatch(SemanticTokensReceived{Pane: 0, Tab: 0, Version: 99, Segments: segs})
	if res.StateChanged {
		t.Fatal("stale semantic tokens mutated state")
	}
	tab := s.State().Editor.Panes[0].ActiveTabPtr()
	if got := tab.Overlay.Snapshot(); len(got) != 0 {
		t.Fatalf("overlay after stale response: %v", got)
	}

	res = s.Dispatch(SemanticTokensReceived{Pane: 0, Tab: 0, Version: tab.EditVersion, Segments: segs})
	if !res.StateChanged {
		t.Fatal("matching semantic tokens dropped")
	}
	if got := tab.Overlay.Snapshot(); len(got) != 1 || got[0].Spans[0].Kind != "keyword" {
		t.Fatalf("overlay = %v", got)
	}
}

func TestInlayHintsAndFoldingRangesVersionCorrelation(t *testing.T) {
	s := New(testConfig())
	path := t.TempDir() + "/f.go"
	s.Dispatch(OpenTab{Pane: 0, Path: path, Title: "f.go", Text: "package f\n\nfunc g() {}\n"})

	hints := []InlayMark{{Line: 2, Col: 8, Label: ": int", Kind: 1}}
	if res := s.Dispatch(InlayHintsReceived{Pane: 0, Tab: 0, Version: 42, Hints: hints}); res.StateChanged {
		t.Fatal("stale inlay hints applied")
	}
	if res := s.Dispatch(InlayHintsReceived{Pane: 0, Tab: 0, Version: 0, Hints: hints}); !res.StateChanged {
		t.Fatal("current inlay hints dropped")
	}
	tab := s.State().Editor.Panes[0].ActiveTabPtr()
	if len(tab.Hints) != 1 || tab.Hints[0].Label != ": int" {
		t.Fatalf("hints = %v", tab.Hints)
	}

	folds := []FoldRange{{StartLine: 2, EndLine: 2, Kind: "region"}}
	if res := s.Dispatch(FoldingRangesReceived{Pane: 0, Tab: 0, Version: 42, Ranges: folds}); res.StateChanged {
		t.Fatal("stale folding ranges applied")
	}
	if res := s.Dispatch(FoldingRangesReceived{Pane: 0, Tab: 0, Version: 0, Ranges: folds}); !res.StateChanged {
		t.Fatal("current folding ranges dropped")
	}
	tab = s.State().Editor.Panes[0].ActiveTabPtr()
	if len(tab.Folds) != 1 || tab.Folds[0].Kind != "region" {
		t.Fatalf("folds = %v", tab.Folds)
	}
}
