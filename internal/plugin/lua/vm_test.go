package lua

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestRunHandlerEmitsAction(t *testing.T) {
	var gotCommand string
	var gotArgs map[string]any
	vm := NewVM(func(command string, args map[string]any) {
		gotCommand = command
		gotArgs = args
	})
	defer vm.Close()

	script := `emit("editor.save", { pane = 0, tab = 1 })`
	if err := vm.RunHandler(context.Background(), script, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	if gotCommand != "editor.save" {
		t.Errorf("command = %q", gotCommand)
	}
	if gotArgs["pane"] != float64(0) || gotArgs["tab"] != float64(1) {
		t.Errorf("args = %v", gotArgs)
	}
}

func TestRunHandlerSeesArgs(t *testing.T) {
	var got map[string]any
	vm := NewVM(func(_ string, args map[string]any) { got = args })
	defer vm.Close()

	script := `emit("editor.undo", { doubled = args.n * 2, path = args.path })`
	args := map[string]any{"n": 21, "path": "/src/a.go"}
	if err := vm.RunHandler(context.Background(), script, args); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got["doubled"] != float64(42) {
		t.Errorf("doubled = %v", got["doubled"])
	}
	if got["path"] != "/src/a.go" {
		t.Errorf("path = %v", got["path"])
	}
}

func TestSandboxBlocksLoaders(t *testing.T) {
	vm := NewVM(nil)
	defer vm.Close()

	for _, script := range []string{
		`dofile("/etc/passwd")`,
		`loadfile("/etc/passwd")`,
		`load("return 1")`,
		`loadstring("return 1")`,
	} {
		if err := vm.RunHandler(context.Background(), script, nil); err == nil {
			t.Errorf("script %q ran inside sandbox", script)
		}
	}
}

func TestSandboxBlocksOSAndIO(t *testing.T) {
	vm := NewVM(nil)
	defer vm.Close()

	for _, script := range []string{
		`os.execute("true")`,
		`io.open("/etc/passwd")`,
	} {
		if err := vm.RunHandler(context.Background(), script, nil); err == nil {
			t.Errorf("script %q ran inside sandbox", script)
		}
	}
}

func TestSandboxRequireWhitelist(t *testing.T) {
	vm := NewVM(nil)
	defer vm.Close()

	if err := vm.RunHandler(context.Background(), `local s = require("string"); emit(s.upper("ok"))`, nil); err != nil {
		t.Errorf("whitelisted require failed: %v", err)
	}

	err := vm.RunHandler(context.Background(), `require("io")`, nil)
	if err == nil || !strings.Contains(err.Error(), "not available") {
		t.Errorf("require io: err = %v", err)
	}
}

func TestRunHandlerContextCancellation(t *testing.T) {
	vm := NewVM(nil)
	defer vm.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- vm.RunHandler(ctx, `while true do end`, nil)
	}()
	select {
	case err := <-done:
		if err == nil {
			t.Fatal("runaway loop completed without error")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("cancellation did not abort the script")
	}
}

func TestClosedVMRejectsRuns(t *testing.T) {
	vm := NewVM(nil)
	vm.Close()
	if err := vm.RunHandler(context.Background(), `emit("x")`, nil); err != ErrVMClosed {
		t.Fatalf("err = %v, want ErrVMClosed", err)
	}
	vm.Close() // second close is a no-op
}
