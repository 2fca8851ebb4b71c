package store

// reduceExplorer handles the file tree panel.
func reduceExplorer(s State, action Action) (State, DispatchResult) {
	switch a := action.(type) {
	case ExplorerTreeLoaded:
		if a.Dir == s.Explorer.Dir && stringsEqual(a.Entries, s.Explorer.Entries) {
			return s, noChange
		}
		s.Explorer.Dir = a.Dir
		s.Explorer.Entries = a.Entries
		return s, DispatchResult{StateChanged: true}
	case ExplorerSelect:
		if a.Path == s.Explorer.Selected {
			return s, noChange
		}
		s.Explorer.Selected = a.Path
		return s, DispatchResult{StateChanged: true}
	case ExternalFileChanged:
		return explorerExternalChange(s, a)
	default:
		return s, noChange
	}
}

// explorerExternalChange re-requests a directory listing when the file
// watcher reports a change under the currently displayed explorer
// directory; changes elsewhere are ignored since nothing on screen
// depends on them.
func explorerExternalChange(s State, a ExternalFileChanged) (State, DispatchResult) {
	if s.Explorer.Dir == "" || a.Dir != s.Explorer.Dir {
		return s, noChange
	}
	return s, DispatchResult{Effects: []Effect{LoadDir{Path: a.Dir}}}
}

func stringsEqual(a, b []string) bool {
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
