package store

// reduceUI handles cross-cutting UI flags.
func reduceUI(s State, action Action) (State, DispatchResult) {
	switch a := action.(type) {
	case SetFocus:
		if a.Target == s.UI.Focus {
			return s, noChange
		}
		s.UI.Focus = a.Target
		return s, DispatchResult{StateChanged: true}
	case ToggleSidebar:
		s.UI.SidebarVisible = !s.UI.SidebarVisible
		return s, DispatchResult{StateChanged: true}
	case ToggleBottomPanel:
		s.UI.BottomPanelVisible = !s.UI.BottomPanelVisible
		return s, DispatchResult{StateChanged: true}
	case ShowHoverMessage:
		if a.Message == s.UI.HoverMessage {
			return s, noChange
		}
		s.UI.HoverMessage = a.Message
		return s, DispatchResult{StateChanged: true}
	case ShowModal:
		if a.ID == s.UI.Modal {
			return s, noChange
		}
		s.UI.Modal = a.ID
		return s, DispatchResult{StateChanged: true}
	case CloseModal:
		if s.UI.Modal == "" {
			return s, noChange
		}
		s.UI.Modal = ""
		return s, DispatchResult{StateChanged: true}
	case ContextMenuOpen:
		s.UI.ContextMenu = ContextMenuState{Visible: true, X: a.X, Y: a.Y, Items: a.Items}
		return s, DispatchResult{StateChanged: true}
	case ContextMenuClose:
		if !s.UI.ContextMenu.Visible {
			return s, noChange
		}
		s.UI.ContextMenu = ContextMenuState{}
		return s, DispatchResult{StateChanged: true}
	case ContextMenuSelect:
		next := clampIndex(a.Index, len(s.UI.ContextMenu.Items))
		if !s.UI.ContextMenu.Visible || next == s.UI.ContextMenu.Selected {
			return s, noChange
		}
		s.UI.ContextMenu.Selected = next
		return s, DispatchResult{StateChanged: true}
	case ThemeEditorOpen:
		s.UI.ThemeEditor = ThemeEditorState{Visible: true, Tokens: a.Tokens}
		return s, DispatchResult{StateChanged: true}
	case ThemeEditorClose:
		if !s.UI.ThemeEditor.Visible {
			return s, noChange
		}
		s.UI.ThemeEditor = ThemeEditorState{Tokens: s.UI.ThemeEditor.Tokens}
		return s, DispatchResult{StateChanged: true}
	case ThemeEditorSelect:
		next := clampIndex(a.Index, len(s.UI.ThemeEditor.Tokens))
		if !s.UI.ThemeEditor.Visible || next == s.UI.ThemeEditor.Selected {
			return s, noChange
		}
		s.UI.ThemeEditor.Selected = next
		return s, DispatchResult{StateChanged: true}
	case ThemeEditorSetColor:
		return themeEditorSetColor(s, a)
	default:
		return s, noChange
	}
}

// themeEditorSetColor updates one token's color and asks the settings
// layer to persist the theme; the effect is emitted even when the
// color is unchanged on screen, since the settings file may disagree
// with the in-memory default.
func themeEditorSetColor(s State, a ThemeEditorSetColor) (State, DispatchResult) {
	changed := false
	for i := range s.UI.ThemeEditor.Tokens {
		if s.UI.ThemeEditor.Tokens[i].Name == a.Token {
			if s.UI.ThemeEditor.Tokens[i].Color != a.Color {
				s.UI.ThemeEditor.Tokens[i].Color = a.Color
				changed = true
			}
			break
		}
	}
	return s, DispatchResult{
		Effects:      []Effect{SaveTheme{Token: a.Token, Color: a.Color}},
		StateChanged: changed,
	}
}
