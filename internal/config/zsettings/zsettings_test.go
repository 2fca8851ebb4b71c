package zsettings

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultEditorConfig(t *testing.T) {
	e := DefaultEditorConfig()
	if e.TabSize != 4 || e.DefaultViewportHeight != 20 {
		t.Fatalf("unexpected defaults: %+v", e)
	}
	if !e.ShowLineNumbers || !e.AutoIndent || !e.ShowIndentGuides {
		t.Fatalf("expected spec default booleans true: %+v", e)
	}
	if e.WordWrap || e.FormatOnSave {
		t.Fatalf("expected spec default booleans false: %+v", e)
	}
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	dir := t.TempDir()
	s, err := Load(filepath.Join(dir, "setting.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Editor.TabSize != DefaultEditorConfig().TabSize {
		t.Fatalf("expected default settings, got %+v", s)
	}
}

func TestParseCamelCaseAliases(t *testing.T) {
	raw := []byte(`{
		"editor": {"tabSize": 2, "wordWrap": true, "showLineNumbers": false},
		"ui": {"worktreeBar": false}
	}`)
	s := Parse(raw)
	if s.Editor.TabSize != 2 {
		t.Errorf("tabSize alias: got %d, want 2", s.Editor.TabSize)
	}
	if !s.Editor.WordWrap {
		t.Error("wordWrap alias not applied")
	}
	if s.Editor.ShowLineNumbers {
		t.Error("showLineNumbers alias not applied")
	}
	if s.UI.WorktreeBar {
		t.Error("worktreeBar alias not applied")
	}
}

func TestParseMalformedFieldFallsBackToDefault(t *testing.T) {
	raw := []byte(`{"editor": {"tab_size": "not-a-number"}}`)
	s := Parse(raw)
	if s.Editor.TabSize != DefaultEditorConfig().TabSize {
		t.Errorf("expected default tab_size on type mismatch, got %d", s.Editor.TabSize)
	}
}

func TestSavePreservesUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "setting.json")

	initial := `{"editor": {"tab_size": 4}, "someFuturePlugin": {"flag": true}}`
	if err := os.WriteFile(path, []byte(initial), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Editor.TabSize = 8
	if err := Save(path, s); err != nil {
		t.Fatal(err)
	}

	out, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	reloaded := Parse(out)
	if reloaded.Editor.TabSize != 8 {
		t.Errorf("tab_size = %d, want 8", reloaded.Editor.TabSize)
	}

	if !containsSubstring(string(out), `"someFuturePlugin"`) {
		t.Errorf("unknown key was dropped on save: %s", out)
	}
}

func TestKeybindingsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "setting.json")

	s := Default()
	s.Keybindings = []Keybinding{
		{Key: "Ctrl+Shift+P", Command: "CommandPalette"},
		{Key: "Cmd+S", Command: "Save", Context: "editor"},
	}
	if err := Save(path, s); err != nil {
		t.Fatal(err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(reloaded.Keybindings) != 2 {
		t.Fatalf("expected 2 keybindings, got %d: %+v", len(reloaded.Keybindings), reloaded.Keybindings)
	}
	if reloaded.Keybindings[1].Context != "editor" {
		t.Errorf("context not preserved: %+v", reloaded.Keybindings[1])
	}
}

func TestLSPServerSettingsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "setting.json")

	s := Default()
	s.LSP.Servers["go"] = LSPServerSettings{
		Command:                "gopls",
		Args:                   []string{"serve"},
		InitializationOptions:  map[string]any{"staticcheck": true},
	}
	if err := Save(path, s); err != nil {
		t.Fatal(err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	server, ok := reloaded.LSP.Servers["go"]
	if !ok {
		t.Fatalf("server entry missing: %+v", reloaded.LSP.Servers)
	}
	if server.Command != "gopls" || len(server.Args) != 1 || server.Args[0] != "serve" {
		t.Errorf("server settings not preserved: %+v", server)
	}
}

func containsSubstring(s, substr string) bool {
	return len(s) >= len(substr) && (func() bool {
		for i := 0; i+len(substr) <= len(s); i++ {
			if s[i:i+len(substr)] == substr {
				return true
			}
		}
		return false
	})()
}
