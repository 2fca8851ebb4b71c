package store

import "sort"

// reducePanels handles the list panels: locations, symbols, and code
// actions. Each keeps its items sorted, its selection clamped to the
// item count, and reports state_changed=false for motions that land
// where the selection already is.
func reducePanels(s State, action Action) (State, DispatchResult) {
	switch a := action.(type) {
	case LocationsUpdated:
		return locationsUpdated(s, a)
	case LocationsSelect:
		next := clampIndex(a.Index, len(s.Locations.Items))
		if next == s.Locations.Selected {
			return s, noChange
		}
		s.Locations.Selected = next
		return s, DispatchResult{StateChanged: true}
	case LocationsSetViewHeight:
		if a.Height == s.Locations.ViewHeight {
			return s, noChange
		}
		s.Locations.ViewHeight = a.Height
		return s, DispatchResult{StateChanged: true}
	case SymbolsUpdated:
		return symbolsUpdated(s, a)
	case SymbolsSelect:
		next := clampIndex(a.Index, len(s.Symbols.Items))
		if next == s.Symbols.Selected {
			return s, noChange
		}
		s.Symbols.Selected = next
		return s, DispatchResult{StateChanged: true}
	case SymbolsSetViewHeight:
		if a.Height == s.Symbols.ViewHeight {
			return s, noChange
		}
		s.Symbols.ViewHeight = a.Height
		return s, DispatchResult{StateChanged: true}
	case CodeActionsShown:
		s.CodeActions = CodeActionsState{Items: a.Items, Visible: len(a.Items) > 0}
		return s, DispatchResult{StateChanged: true}
	case CodeActionsSelect:
		next := clampIndex(a.Index, len(s.CodeActions.Items))
		if !s.CodeActions.Visible || next == s.CodeActions.Selected {
			return s, noChange
		}
		s.CodeActions.Selected = next
		return s, DispatchResult{StateChanged: true}
	case CodeActionsDismiss:
		if !s.CodeActions.Visible {
			return s, noChange
		}
		s.CodeActions = CodeActionsState{}
		return s, DispatchResult{StateChanged: true}
	default:
		return s, noChange
	}
}

// clampIndex restricts i to [0, n-1] (0 when the list is empty).
func clampIndex(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// locationsUpdated replaces the list, sorted by (path, line, col), and
// resets the selection.
func locationsUpdated(s State, a LocationsUpdated) (State, DispatchResult) {
	items := make([]Location, len(a.Items))
	copy(items, a.Items)
	sort.Slice(items, func(i, j int) bool {
		if items[i].Path != items[j].Path {
			return items[i].Path < items[j].Path
		}
		if items[i].Line != items[j].Line {
			return items[i].Line < items[j].Line
		}
		return items[i].Col < items[j].Col
	})
	s.Locations.Items = items
	s.Locations.Selected = 0
	return s, DispatchResult{StateChanged: true}
}

// symbolsUpdated replaces the list, sorted by (name, path, line), and
// resets the selection.
func symbolsUpdated(s State, a SymbolsUpdated) (State, DispatchResult) {
	items := make([]Symbol, len(a.Items))
	copy(items, a.Items)
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		if items[i].Path != items[j].Path {
			return items[i].Path < items[j].Path
		}
		return items[i].Line < items[j].Line
	})
	s.Symbols = SymbolsState{
		Query:      a.Query,
		Items:      items,
		ViewHeight: s.Symbols.ViewHeight,
	}
	return s, DispatchResult{StateChanged: true}
}
