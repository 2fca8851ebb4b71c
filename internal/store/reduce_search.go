package store

// reduceSearch handles the Search namespace. Every
// search is identified by a monotonic SearchID minted here; results
// tagged with any other id are stale and dropped, which is what lets
// a cancelled search's in-flight batches disappear silently instead of
// racing a newer one onto the screen.
func reduceSearch(s State, action Action, nextID *uint64) (State, DispatchResult) {
	switch a := action.(type) {
	case StartEditorSearch:
		return searchStartEditor(s, a, nextID)
	case CancelEditorSearch:
		return searchCancelEditor(s, a)
	case StartGlobalSearch:
		return searchStartGlobal(s, a, nextID)
	case CancelGlobalSearch:
		return searchCancelGlobal(s, a)
	case SearchMatchesReceived:
		return searchMatchesReceived(s, a)
	case SearchComplete:
		return searchComplete(s, a)
	case SearchCancelled:
		return searchCancelled(s, a)
	case SearchFailed:
		return searchFailed(s, a)
	default:
		return s, noChange
	}
}

func newSearchID(nextID *uint64) uint64 {
	*nextID++
	return *nextID
}

func searchStartEditor(s State, a StartEditorSearch, nextID *uint64) (State, DispatchResult) {
	t := tabAt(s, a.Pane, a.Tab)
	if t == nil {
		return s, noChange
	}
	id := newSearchID(nextID)
	var effs []Effect
	if t.SearchID != 0 {
		effs = append(effs, CancelEditorSearchEffect{SearchID: t.SearchID})
	}
	t.SearchID = id
	bar := &s.Editor.Panes[a.Pane].SearchBar
	bar.Visible = true
	bar.Query = a.Pattern
	bar.Regex = a.UseRegex
	bar.CaseSensitive = a.CaseSensitive
	effs = append(effs, StartEditorSearchEffect{
		SearchID:      id,
		Pane:          a.Pane,
		Tab:           a.Tab,
		Pattern:       a.Pattern,
		CaseSensitive: a.CaseSensitive,
		UseRegex:      a.UseRegex,
	})
	return s, DispatchResult{Effects: effs, StateChanged: true}
}

func searchCancelEditor(s State, a CancelEditorSearch) (State, DispatchResult) {
	t := tabAt(s, a.Pane, a.Tab)
	if t == nil || t.SearchID == 0 {
		return s, noChange
	}
	id := t.SearchID
	t.SearchID = 0
	return s, DispatchResult{Effects: []Effect{CancelEditorSearchEffect{SearchID: id}}, StateChanged: true}
}

func searchStartGlobal(s State, a StartGlobalSearch, nextID *uint64) (State, DispatchResult) {
	id := newSearchID(nextID)
	var effs []Effect
	if s.Search.ActiveID != 0 {
		effs = append(effs, CancelGlobalSearchEffect{SearchID: s.Search.ActiveID})
	}
	s.Search = SearchState{
		Query:         a.Pattern,
		CaseSensitive: a.CaseSensitive,
		UseRegex:      a.UseRegex,
		ActiveID:      id,
	}
	effs = append(effs, StartGlobalSearchEffect{
		SearchID:      id,
		Root:          a.Root,
		Pattern:       a.Pattern,
		CaseSensitive: a.CaseSensitive,
		UseRegex:      a.UseRegex,
	})
	return s, DispatchResult{Effects: effs, StateChanged: true}
}

func searchCancelGlobal(s State, _ CancelGlobalSearch) (State, DispatchResult) {
	if s.Search.ActiveID == 0 {
		return s, noChange
	}
	id := s.Search.ActiveID
	s.Search.Cancelled = true
	return s, DispatchResult{Effects: []Effect{CancelGlobalSearchEffect{SearchID: id}}, StateChanged: true}
}

// searchMatchesReceived appends a batch of matches, discarding it
// outright if SearchID no longer matches the active search (it was
// superseded or cancelled after the batch was already in flight).
func searchMatchesReceived(s State, a SearchMatchesReceived) (State, DispatchResult) {
	if a.SearchID != s.Search.ActiveID || s.Search.Cancelled {
		return s, noChange
	}
	s.Search.Matches = append(append([]SearchMatch{}, s.Search.Matches...), a.Matches...)
	if a.IsFinal {
		s.Search.Done = true
	}
	return s, DispatchResult{StateChanged: true}
}

func searchComplete(s State, a SearchComplete) (State, DispatchResult) {
	if a.SearchID != s.Search.ActiveID {
		return s, noChange
	}
	s.Search.Done = true
	s.Search.Total = a.Total
	return s, DispatchResult{StateChanged: true}
}

func searchCancelled(s State, a SearchCancelled) (State, DispatchResult) {
	if a.SearchID != s.Search.ActiveID {
		return s, noChange
	}
	s.Search.Cancelled = true
	s.Search.Done = true
	return s, DispatchResult{StateChanged: true}
}

func searchFailed(s State, a SearchFailed) (State, DispatchResult) {
	if a.SearchID != s.Search.ActiveID {
		return s, noChange
	}
	s.Search.Done = true
	s.Search.Error = a.Message
	return s, DispatchResult{StateChanged: true}
}
