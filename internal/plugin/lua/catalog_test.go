package lua

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseCommandRoundTrip(t *testing.T) {
	for _, cmd := range Commands() {
		got, ok := ParseCommand(cmd.String())
		if !ok || got != cmd {
			t.Errorf("ParseCommand(%q) = %v, %v", cmd.String(), got, ok)
		}
	}
	if _, ok := ParseCommand("not.a.command"); ok {
		t.Error("unknown id parsed")
	}
}

func TestCatalogBindAndInvoke(t *testing.T) {
	var invoked []string
	vm := NewVM(func(command string, _ map[string]any) {
		invoked = append(invoked, command)
	})
	defer vm.Close()

	cat := NewCatalog(vm)
	if err := cat.Bind(CommandEditorSave, Binding{Plugin: "p1", Source: `emit("editor.save")`}); err != nil {
		t.Fatalf("bind: %v", err)
	}

	if err := cat.Invoke(context.Background(), CommandEditorSave, nil); err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if len(invoked) != 1 || invoked[0] != "editor.save" {
		t.Errorf("invoked = %v", invoked)
	}

	err := cat.Invoke(context.Background(), CommandLspHover, nil)
	if !errors.Is(err, ErrNotBound) {
		t.Errorf("unbound invoke err = %v", err)
	}
}

func TestCatalogLaterBindingWins(t *testing.T) {
	vm := NewVM(nil)
	defer vm.Close()
	cat := NewCatalog(vm)

	_ = cat.Bind(CommandEditorUndo, Binding{Plugin: "first", Source: "a = 1"})
	_ = cat.Bind(CommandEditorUndo, Binding{Plugin: "second", Source: "a = 2"})

	b, ok := cat.Lookup(CommandEditorUndo)
	if !ok || b.Plugin != "second" {
		t.Fatalf("binding = %+v ok=%v", b, ok)
	}
	if got := cat.Bound(); len(got) != 1 {
		t.Errorf("bound = %v", got)
	}
}

func TestCatalogRejectsOutOfRange(t *testing.T) {
	cat := NewCatalog(nil)
	if err := cat.Bind(Command(999), Binding{}); !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("err = %v", err)
	}
}

func TestLoadConfigMissingFileIsEmpty(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "plugins.json"))
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if len(cfg.Plugins) != 0 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestBindConfigFromFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "save.lua"), []byte(`emit("editor.save")`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "plugins.json"), []byte(`{
		"plugins": [{
			"name": "autosave",
			"commands": {
				"editor.save": { "file": "save.lua" },
				"view.toggleSidebar": { "source": "emit(\"view.toggleSidebar\")" }
			}
		}]
	}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(filepath.Join(dir, "plugins.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	var emitted []string
	vm := NewVM(func(command string, _ map[string]any) { emitted = append(emitted, command) })
	defer vm.Close()
	cat := NewCatalog(vm)
	if err := BindConfig(cat, cfg, dir); err != nil {
		t.Fatalf("bind: %v", err)
	}

	if err := cat.Invoke(context.Background(), CommandEditorSave, nil); err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if err := cat.Invoke(context.Background(), CommandToggleSidebar, nil); err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if len(emitted) != 2 {
		t.Errorf("emitted = %v", emitted)
	}
}

func TestBindConfigRejectsUnknownCommand(t *testing.T) {
	cfg := Config{Plugins: []PluginConfig{{
		Name:     "bad",
		Commands: map[string]HandlerConfig{"made.up": {Source: "x = 1"}},
	}}}
	err := BindConfig(NewCatalog(nil), cfg, "")
	if !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("err = %v", err)
	}
}
