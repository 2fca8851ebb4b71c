package store

// reduceProblems handles the problems panel. LSP diagnostics arrive
// per path (ProblemsUpdatePath) and replace that path's slice in the
// globally-sorted list, with a repeat of identical content reported
// as a no-op; selection and view height follow the same clamping
// rules as the other list panels.
func reduceProblems(s State, action Action) (State, DispatchResult) {
	switch a := action.(type) {
	case ProblemsUpdatePath:
		merged, changed := updatePath(s.Problems.Items, a.Path, a.Items)
		if !changed {
			return s, noChange
		}
		s.Problems.Items = merged
		s.Problems.Selected = clampIndex(s.Problems.Selected, len(merged))
		return s, DispatchResult{StateChanged: true}
	case ProblemsSelect:
		next := clampIndex(a.Index, len(s.Problems.Items))
		if next == s.Problems.Selected {
			return s, noChange
		}
		s.Problems.Selected = next
		return s, DispatchResult{StateChanged: true}
	case ProblemsSetViewHeight:
		if a.Height == s.Problems.ViewHeight {
			return s, noChange
		}
		s.Problems.ViewHeight = a.Height
		return s, DispatchResult{StateChanged: true}
	default:
		return s, noChange
	}
}
