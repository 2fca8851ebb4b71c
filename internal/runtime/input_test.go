package runtime

import (
	"testing"

	"github.com/dshills/zcode/internal/config"
	"github.com/dshills/zcode/internal/event/async"
	"github.com/dshills/zcode/internal/input/key"
	"github.com/dshills/zcode/internal/integration/git"
	"github.com/dshills/zcode/internal/store"
)

func TestBuildKeymap(t *testing.T) {
	km, errs := BuildKeymap([]KeyBinding{
		{Spec: "Ctrl+Shift+P", Command: "palette.open"},
		{Spec: "Ctrl+S", Command: "editor.save"},
		{Spec: "not a key", Command: "broken"},
	})
	if len(errs) != 1 {
		t.Fatalf("errs = %v", errs)
	}
	if km.Len() != 2 {
		t.Fatalf("len = %d", km.Len())
	}

	// Lookup goes through the same normalization as building.
	ev := key.MustParse("Ctrl+S")
	cmd, ok := km.Lookup(ev)
	if !ok || cmd != "editor.save" {
		t.Fatalf("lookup = %q, %v", cmd, ok)
	}
	if _, ok := km.Lookup(key.MustParse("Ctrl+Q")); ok {
		t.Fatal("unbound key resolved")
	}
}

func TestNilKeymapLookup(t *testing.T) {
	var km *Keymap
	if _, ok := km.Lookup(key.MustParse("Ctrl+S")); ok {
		t.Fatal("nil keymap resolved a key")
	}
}

func newTestRuntime(t *testing.T) *Runtime {
	t.Helper()
	st := store.New(config.EditorConfig{TabSize: 4})
	rt := New(st, async.NewPool(1, 4), nil)
	t.Cleanup(rt.Shutdown)
	return rt
}

func TestHandleKeyDispatchesBoundCommand(t *testing.T) {
	rt := newTestRuntime(t)
	km, _ := BuildKeymap([]KeyBinding{{Spec: "Ctrl+B", Command: "view.toggleSidebar"}})
	rt.SetKeymap(km)

	before := rt.store.State().UI.SidebarVisible
	if !rt.HandleKey(key.MustParse("Ctrl+B")) {
		t.Fatal("bound key not consumed")
	}
	if got := rt.store.State().UI.SidebarVisible; got == before {
		t.Fatal("command did not reach the reducer")
	}
	if rt.HandleKey(key.MustParse("Ctrl+Q")) {
		t.Fatal("unbound key consumed")
	}
}

func TestPaletteExecuteReachesStore(t *testing.T) {
	rt := newTestRuntime(t)

	if err := rt.Palette().Execute("view.toggleBottomPanel", nil); err != nil {
		t.Fatalf("execute: %v", err)
	}
	// Palette handlers post through the bus; drain it like the front
	// end's poll loop would.
	deadline := 200
	for !rt.store.State().UI.BottomPanelVisible && deadline > 0 {
		rt.DrainAndDispatch(16)
		deadline--
	}
	if !rt.store.State().UI.BottomPanelVisible {
		t.Fatal("palette command never reached the store")
	}
}

func TestGutterMarks(t *testing.T) {
	marks := gutterMarks([]git.LineChange{
		{Line: 4, Count: 2, Kind: git.StatusAdded},
		{Line: 12, Count: 1, Kind: git.StatusModified},
		{Line: 21, Count: 0, Kind: git.StatusDeleted},
	})

	want := []store.GutterMark{
		{Line: 3, Kind: "added"},
		{Line: 4, Kind: "added"},
		{Line: 11, Kind: "modified"},
		{Line: 20, Kind: "deleted"},
	}
	if len(marks) != len(want) {
		t.Fatalf("marks = %+v", marks)
	}
	for i, w := range want {
		if marks[i] != w {
			t.Errorf("mark %d = %+v, want %+v", i, marks[i], w)
		}
	}
}
