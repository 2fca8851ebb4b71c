package store

// reducePalette translates a small set of built-in palette command ids
// (registered in internal/input/palette's catalog under
// the same ids) into the equivalent store action, so invoking a
// command from the palette has exactly the same effect as triggering
// it any other way. Commands outside this set are handled by their
// own palette.Command.Handler outside the store and never reach here.
func reducePalette(s State, action Action) (State, DispatchResult) {
	a, ok := action.(RunCommand)
	if !ok {
		return s, noChange
	}

	switch a.Command {
	case "view.toggleSidebar":
		return reduceUI(s, ToggleSidebar{})
	case "view.toggleBottomPanel":
		return reduceUI(s, ToggleBottomPanel{})
	case "editor.save":
		pane, tab, ok := paneTabArgs(a.Args)
		if !ok {
			return s, noChange
		}
		return reduceEditor(s, SaveRequested{Pane: pane, Tab: tab})
	case "editor.undo":
		pane, tab, ok := paneTabArgs(a.Args)
		if !ok {
			return s, noChange
		}
		return reduceEditor(s, Undo{Pane: pane, Tab: tab})
	case "editor.redo":
		pane, tab, ok := paneTabArgs(a.Args)
		if !ok {
			return s, noChange
		}
		return reduceEditor(s, Redo{Pane: pane, Tab: tab})
	case "editor.closeTab":
		pane, tab, ok := paneTabArgs(a.Args)
		if !ok {
			return s, noChange
		}
		return reduceEditor(s, CloseTab{Pane: pane, Tab: tab})
	case "editor.splitVertical":
		s.Editor.Panes = append(s.Editor.Panes, &Pane{ActiveTab: -1})
		s.Editor.ActivePane = len(s.Editor.Panes) - 1
		return s, DispatchResult{StateChanged: true}
	case "view.focusExplorer":
		return reduceUI(s, SetFocus{Target: "explorer"})
	case "git.refreshStatus":
		// A refresh request changes nothing on screen by itself; the
		// effect's result comes back as GitStatusRefreshed.
		return s, DispatchResult{Effects: []Effect{GitRefreshStatus{}}, StateChanged: false}
	case "lsp.hover":
		return paletteLspHover(s, a)
	case "lsp.format":
		return paletteLspFormat(s, a)
	default:
		return s, noChange
	}
}

// paletteLspHover asks the language server what sits under the active
// tab's cursor; the reducer only stamps the request with the cursor's
// UTF-16 position.
func paletteLspHover(s State, a RunCommand) (State, DispatchResult) {
	pane, tab, ok := paneTabArgs(a.Args)
	if !ok {
		return s, noChange
	}
	t := tabAt(s, pane, tab)
	if t == nil || t.Eng == nil || t.Path == "" {
		return s, noChange
	}
	pt := t.Eng.OffsetToPointUTF16(t.Eng.PrimaryCursor())
	eff := LspHover{Path: t.Path, Line: int(pt.Line), Col: int(pt.Column)}
	return s, DispatchResult{Effects: []Effect{eff}, StateChanged: false}
}

// paletteLspFormat requests a whole-document format, stamped with the
// edit version so a stale result can be discarded on arrival.
func paletteLspFormat(s State, a RunCommand) (State, DispatchResult) {
	pane, tab, ok := paneTabArgs(a.Args)
	if !ok {
		return s, noChange
	}
	t := tabAt(s, pane, tab)
	if t == nil || t.Eng == nil || t.Path == "" {
		return s, noChange
	}
	eff := LspFormat{
		Pane:    pane,
		Tab:     tab,
		Path:    t.Path,
		Version: t.EditVersion,
		Text:    t.Eng.Text(),
		TabSize: int(s.Editor.Config.TabSize),
	}
	return s, DispatchResult{Effects: []Effect{eff}, StateChanged: false}
}

func paneTabArgs(args map[string]any) (pane, tab int, ok bool) {
	p, ok1 := intArg(args, "pane")
	t, ok2 := intArg(args, "tab")
	if !ok1 || !ok2 {
		return 0, 0, false
	}
	return p, t, true
}

// intArg reads an integer argument whether it arrived as a Go int
// (keymap, palette) or a float64 (JSON/Lua plugin boundary).
func intArg(args map[string]any, key string) (int, bool) {
	switch v := args[key].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	}
	return 0, false
}
