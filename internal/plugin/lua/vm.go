package lua

import (
	"context"
	"errors"
	"fmt"
	"sync"

	glua "github.com/yuin/gopher-lua"
)

// ErrVMClosed is returned when running on a closed VM.
var ErrVMClosed = errors.New("lua vm closed")

// ActionSink receives the action ids a handler emits via the host
// `emit` function. The runtime wires this to a bus sender; tests wire
// a slice.
type ActionSink func(command string, args map[string]any)

// VM owns one sandboxed LState. gopher-lua states are not
// goroutine-safe, so every entry point serializes on the VM's mutex —
// handlers are short and the palette invokes them one at a time, which
// makes a mutex the right shape here rather than a worker goroutine.
type VM struct {
	mu     sync.Mutex
	state  *glua.LState
	sink   ActionSink
	closed bool
}

// NewVM creates a sandboxed state: the file/chunk loaders are removed,
// package.path is cleared so require cannot reach the filesystem, and
// only the pure stdlib modules stay reachable.
func NewVM(sink ActionSink) *VM {
	L := glua.NewState(glua.Options{SkipOpenLibs: false})
	vm := &VM{state: L, sink: sink}
	vm.installSandbox()
	vm.installHostFuncs()
	return vm
}

// installSandbox strips every route to code or filesystem access
// outside the handler chunks the catalog feeds in.
func (vm *VM) installSandbox() {
	L := vm.state
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, glua.LNil)
	}
	L.SetGlobal("os", glua.LNil)
	L.SetGlobal("io", glua.LNil)

	if pkg, ok := L.GetGlobal("package").(*glua.LTable); ok {
		L.SetField(pkg, "path", glua.LString(""))
		L.SetField(pkg, "cpath", glua.LString(""))
	}

	safe := map[string]bool{
		"string": true, "table": true, "math": true,
	}
	L.SetGlobal("require", L.NewFunction(func(L *glua.LState) int {
		name := L.CheckString(1)
		if !safe[name] {
			L.RaiseError("module %q is not available to plugins", name)
			return 0
		}
		L.Push(L.GetGlobal(name))
		return 1
	}))
}

// installHostFuncs exposes the host API: emit(command, args) injects
// an action request through the sink.
func (vm *VM) installHostFuncs() {
	L := vm.state
	L.SetGlobal("emit", L.NewFunction(func(L *glua.LState) int {
		command := L.CheckString(1)
		args := make(map[string]any)
		if L.GetTop() >= 2 {
			if tbl, ok := L.Get(2).(*glua.LTable); ok {
				tbl.ForEach(func(k, v glua.LValue) {
					args[k.String()] = luaToGo(v)
				})
			}
		}
		if vm.sink != nil {
			vm.sink(command, args)
		}
		return 0
	}))
}

// luaToGo lowers the handler-visible value types. Tables nest.
func luaToGo(v glua.LValue) any {
	switch lv := v.(type) {
	case glua.LBool:
		return bool(lv)
	case glua.LNumber:
		return float64(lv)
	case glua.LString:
		return string(lv)
	case *glua.LTable:
		m := make(map[string]any)
		lv.ForEach(func(k, val glua.LValue) {
			m[k.String()] = luaToGo(val)
		})
		return m
	default:
		return nil
	}
}

// RunHandler executes a handler chunk with args exposed as the global
// `args` table. ctx cancellation aborts a runaway script.
func (vm *VM) RunHandler(ctx context.Context, source string, args map[string]any) error {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.closed {
		return ErrVMClosed
	}

	L := vm.state
	L.SetContext(ctx)
	defer L.RemoveContext()

	tbl := L.NewTable()
	for k, v := range args {
		L.SetField(tbl, k, goToLua(L, v))
	}
	L.SetGlobal("args", tbl)

	if err := L.DoString(source); err != nil {
		return fmt.Errorf("lua: %w", err)
	}
	return nil
}

func goToLua(L *glua.LState, v any) glua.LValue {
	switch gv := v.(type) {
	case nil:
		return glua.LNil
	case bool:
		return glua.LBool(gv)
	case int:
		return glua.LNumber(gv)
	case int64:
		return glua.LNumber(gv)
	case float64:
		return glua.LNumber(gv)
	case string:
		return glua.LString(gv)
	case map[string]any:
		tbl := L.NewTable()
		for k, item := range gv {
			L.SetField(tbl, k, goToLua(L, item))
		}
		return tbl
	default:
		return glua.LString(fmt.Sprintf("%v", gv))
	}
}

// Close shuts the state down; further calls return ErrVMClosed.
func (vm *VM) Close() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.closed {
		return
	}
	vm.closed = true
	vm.state.Close()
}
