package store

import "testing"

func TestGlobalSearchDropsStaleMatchesAfterCancel(t *testing.T) {
	s := NewState(testConfig())
	var next uint64

	s, res := reduceSearch(s, StartGlobalSearch{Root: "/repo", Pattern: "foo"}, &next)
	if !res.StateChanged {
		t.Fatalf("expected state change on search start")
	}
	firstID := s.Search.ActiveID
	if firstID == 0 {
		t.Fatalf("expected a non-zero search id")
	}

	s, res = reduceSearch(s, SearchCancelled{SearchID: firstID}, &next)
	if !res.StateChanged || !s.Search.Cancelled {
		t.Fatalf("expected search to be marked cancelled")
	}

	// A batch that was already in flight when the cancel landed must
	// be dropped silently rather than reappearing in the results.
	s, res = reduceSearch(s, SearchMatchesReceived{
		SearchID: firstID,
		Matches:  []SearchMatch{{File: "a.go"}},
	}, &next)
	if res.StateChanged {
		t.Fatalf("expected stale batch to be a no-op")
	}
	if len(s.Search.Matches) != 0 {
		t.Fatalf("expected no matches after cancellation, got %d", len(s.Search.Matches))
	}
}

func TestGlobalSearchSupersedesPreviousSearch(t *testing.T) {
	s := NewState(testConfig())
	var next uint64

	s, _ = reduceSearch(s, StartGlobalSearch{Root: "/repo", Pattern: "foo"}, &next)
	firstID := s.Search.ActiveID

	s, res := reduceSearch(s, StartGlobalSearch{Root: "/repo", Pattern: "bar"}, &next)
	if !res.StateChanged {
		t.Fatalf("expected state change on second search start")
	}
	secondID := s.Search.ActiveID
	if secondID == firstID {
		t.Fatalf("expected a fresh search id")
	}

	var cancelEff *CancelGlobalSearchEffect
	for _, e := range res.Effects {
		if c, ok := e.(CancelGlobalSearchEffect); ok {
			cancelEff = &c
		}
	}
	if cancelEff == nil || cancelEff.SearchID != firstID {
		t.Fatalf("expected the first search to be cancelled, got %+v", res.Effects)
	}

	// Matches tagged with the superseded id must not land in state.
	s, res = reduceSearch(s, SearchMatchesReceived{
		SearchID: firstID,
		Matches:  []SearchMatch{{File: "stale.go"}},
	}, &next)
	if res.StateChanged {
		t.Fatalf("expected superseded batch to be a no-op")
	}
	if len(s.Search.Matches) != 0 {
		t.Fatalf("expected no matches from superseded search, got %d", len(s.Search.Matches))
	}
}

func TestEditorSearchCancelIsNoOpWhenIdle(t *testing.T) {
	s := NewState(testConfig())
	s.Editor.Panes[0].Tabs = []*Tab{{Title: "a"}}

	_, res := reduceSearch(s, CancelEditorSearch{Pane: 0, Tab: 0}, new(uint64))
	if res.StateChanged {
		t.Fatalf("expected no-op when no search is active")
	}
}
