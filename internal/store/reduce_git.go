package store

// reduceGit handles the Git namespace (cross-cutting
// reducers). GitRepoDetected is the cross-cutting case: changing the
// detected root invalidates every per-path status and gutter mark
// derived from the old repository, so it clears git state and every
// tab's gutter marks. The explorer keeps no per-path status, and search
// results are left as they are.
func reduceGit(s State, action Action) (State, DispatchResult) {
	switch a := action.(type) {
	case GitRepoDetected:
		return gitRepoDetected(s, a)
	case GitStatusRefreshed:
		return gitStatusRefreshed(s, a)
	case GitBranchesListed:
		return gitBranchesListed(s, a)
	case GitWorktreesListed:
		return gitWorktreesListed(s, a)
	case GitGutterUpdated:
		return gitGutterUpdated(s, a)
	default:
		return s, noChange
	}
}

func gitRepoDetected(s State, a GitRepoDetected) (State, DispatchResult) {
	if a.Root == s.Git.Root {
		return s, noChange
	}
	s.Git = GitState{
		Root:   a.Root,
		Status: map[string]string{},
	}
	// Every gutter mark was derived against the old repository.
	for _, p := range s.Editor.Panes {
		for _, t := range p.Tabs {
			t.Gutter = nil
		}
	}
	var effs []Effect
	if a.Root != "" {
		effs = append(effs, GitRefreshStatus{}, GitListBranches{}, GitListWorktrees{})
	}
	return s, DispatchResult{Effects: effs, StateChanged: true}
}

func gitGutterUpdated(s State, a GitGutterUpdated) (State, DispatchResult) {
	t := tabAt(s, a.Pane, a.Tab)
	if t == nil {
		return s, noChange
	}
	t.Gutter = a.Marks
	return s, DispatchResult{StateChanged: true}
}

func gitStatusRefreshed(s State, a GitStatusRefreshed) (State, DispatchResult) {
	s.Git.Status = a.Status
	return s, DispatchResult{StateChanged: true}
}

func gitBranchesListed(s State, a GitBranchesListed) (State, DispatchResult) {
	s.Git.Branches = a.Branches
	return s, DispatchResult{StateChanged: true}
}

func gitWorktreesListed(s State, a GitWorktreesListed) (State, DispatchResult) {
	s.Git.Worktrees = a.Worktrees
	return s, DispatchResult{StateChanged: true}
}
