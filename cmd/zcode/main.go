// Command zcode hosts the state-core: it wires the Store, the
// concurrency spine, and the ambient config/logging layers together
// and runs until interrupted. It carries no renderer or input-adapter
// code (spec.md §1 scopes those out); its job is the same one
// cmd/keystorm/main.go does for the teacher — parse flags, build the
// application, install a terminal-guard around the run loop, and
// translate the outcome into an exit code.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dshills/zcode/internal/applog"
	"github.com/dshills/zcode/internal/config"
	"github.com/dshills/zcode/internal/config/zsettings"
	"github.com/dshills/zcode/internal/event/async"
	"github.com/dshills/zcode/internal/lsp"
	plugin "github.com/dshills/zcode/internal/plugin/lua"
	"github.com/dshills/zcode/internal/runtime"
	"github.com/dshills/zcode/internal/store"
)

const (
	exitOK        = 0
	exitInterrupt = 130 // SIGINT
	exitTerm      = 143 // SIGTERM
	exitError     = 1

	shutdownGrace = 2 * time.Second
)

func main() {
	os.Exit(run())
}

type options struct {
	workspace string
	logLevel  string
	files     []string
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.workspace, "workspace", "", "Workspace/project directory")
	flag.StringVar(&o.workspace, "w", "", "Workspace/project directory (shorthand)")
	flag.StringVar(&o.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "zcode - modal editor state-core\n\n")
		fmt.Fprintf(os.Stderr, "Usage: zcode [options] [files...]\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	o.files = flag.Args()
	if o.workspace == "" && len(o.files) > 0 {
		if abs, err := filepath.Abs(o.files[0]); err == nil {
			o.workspace = filepath.Dir(abs)
		}
	}
	if o.workspace == "" {
		if wd, err := os.Getwd(); err == nil {
			o.workspace = wd
		}
	}
	return o
}

// run builds and drives the application, returning the process exit
// code. It never calls os.Exit itself so deferred cleanup always runs.
func run() int {
	opts := parseFlags()
	log := applog.New(applog.Config{Level: applog.ParseLevel(opts.logLevel)})

	// guard recovers a panic anywhere in the run loop, making a best
	// effort to release held resources (git handles, the executor
	// pool, the bus's wake-up pipe) before the process exits, the same
	// role internal/app/lifecycle.go's Shutdown plays for the teacher
	// even though this module owns no terminal backend to restore.
	var code int
	func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered", "panic", r)
				code = exitError
			}
		}()
		code = runGuarded(opts, log)
	}()
	return code
}

func runGuarded(opts options, log *applog.Logger) int {
	cfgSys, err := config.NewConfigSystem(context.Background(),
		config.WithSystemProjectConfigDir(opts.workspace),
		config.WithSystemWatcher(false),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load configuration: %v\n", err)
		return exitError
	}
	defer cfgSys.Close()

	st := store.New(cfgSys.Editor())
	exec := async.NewPool(0, 0)
	rt := runtime.New(st, exec, log)
	defer rt.Shutdown()

	applyUserSettings(rt, log)

	// plugins.json lives at the workspace root; a handler's only
	// outward capability is injecting Actions through the bus sender.
	pluginVM := plugin.NewVM(func(command string, args map[string]any) {
		rt.Sender().Send(store.RunCommand{Command: command, Args: args})
	})
	defer pluginVM.Close()
	if cat, err := loadPlugins(pluginVM, opts.workspace); err != nil {
		log.Warn("plugins disabled", "err", err)
	} else if cat != nil {
		rt.SetPluginCatalog(cat)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		_ = exec.Shutdown(shutdownCtx)
	}()

	for _, f := range opts.files {
		data, readErr := os.ReadFile(f)
		if readErr != nil {
			log.Warn("could not open file", "path", f, "err", readErr)
			continue
		}
		rt.Dispatch(store.OpenTab{Pane: 0, Path: f, Title: filepath.Base(f), Text: string(data)})
	}
	if root := opts.workspace; root != "" {
		rt.Schedule(store.GitDetectRepo{Root: root})
		if err := rt.StartFileWatch(root); err != nil {
			log.Warn("file watch disabled", "root", root, "err", err)
		}
	}

	runCtx, stop := context.WithCancel(context.Background())
	defer stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sig)

	done := make(chan struct{})
	go func() {
		rt.Run(runCtx)
		close(done)
	}()

	select {
	case s := <-sig:
		stop()
		<-done
		switch s {
		case syscall.SIGINT:
			return exitInterrupt
		case syscall.SIGTERM:
			return exitTerm
		default:
			return exitOK
		}
	case <-done:
		return exitOK
	}
}

// applyUserSettings loads .zcode/setting.json and pushes the pieces
// the runtime consumes: the LSP input-timing tables and any language
// servers the user configured under lsp.servers.
func applyUserSettings(rt *runtime.Runtime, log *applog.Logger) {
	path, err := zsettings.Path()
	if err != nil {
		log.Debug("settings path unavailable", "err", err)
		return
	}
	settings, err := zsettings.Load(path)
	if err != nil {
		log.Warn("settings unreadable, using defaults", "path", path, "err", err)
		settings = zsettings.Default()
	}

	rt.SetInputTiming(timingFromSettings(settings.Editor.LSPInputTiming))

	// User keybindings go through the key grammar; a binding that
	// fails to parse is logged and skipped, never fatal.
	bindings := make([]runtime.KeyBinding, 0, len(settings.Keybindings))
	for _, kb := range settings.Keybindings {
		bindings = append(bindings, runtime.KeyBinding{Spec: kb.Key, Command: kb.Command})
	}
	keymap, errs := runtime.BuildKeymap(bindings)
	for _, err := range errs {
		log.Warn("invalid keybinding", "err", err)
	}
	rt.SetKeymap(keymap)

	for languageID, srv := range settings.LSP.Servers {
		command := srv.Command
		if command == "" {
			command = settings.LSP.Command
		}
		if command == "" {
			continue
		}
		args := srv.Args
		if len(args) == 0 {
			args = settings.LSP.Args
		}
		rt.LspManager().RegisterServer(languageID, lsp.ServerConfig{
			Command:               command,
			Args:                  args,
			LanguageIDs:           []string{languageID},
			InitializationOptions: srv.InitializationOptions,
		})
	}
}

// timingFromSettings lowers the settings-file millisecond table into
// the lsp package's pipeline timing config.
func timingFromSettings(t zsettings.InputTiming) lsp.TimingConfig {
	ms := func(v int) time.Duration { return time.Duration(v) * time.Millisecond }
	return lsp.TimingConfig{
		BoundaryChars:     t.BoundaryChars,
		BoundaryImmediate: t.BoundaryImmediate,
		Identifier: map[lsp.Pipeline]time.Duration{
			lsp.PipelineSemanticTokens: ms(t.SemanticTokensIdentifierMs),
			lsp.PipelineInlayHints:     ms(t.InlayHintsIdentifierMs),
			lsp.PipelineFoldingRange:   ms(t.FoldingRangeIdentifierMs),
		},
		Delete: map[lsp.Pipeline]time.Duration{
			lsp.PipelineSemanticTokens: ms(t.SemanticTokensDeleteMs),
			lsp.PipelineInlayHints:     ms(t.InlayHintsDeleteMs),
			lsp.PipelineFoldingRange:   ms(t.FoldingRangeDeleteMs),
		},
	}
}

// loadPlugins reads plugins.json from the workspace root and binds
// its handlers. A missing file returns (nil, nil): no catalog, no
// error.
func loadPlugins(vm *plugin.VM, workspace string) (*plugin.Catalog, error) {
	cfg, err := plugin.LoadConfig(filepath.Join(workspace, "plugins.json"))
	if err != nil {
		return nil, err
	}
	if len(cfg.Plugins) == 0 {
		return nil, nil
	}
	cat := plugin.NewCatalog(vm)
	if err := plugin.BindConfig(cat, cfg, workspace); err != nil {
		return nil, err
	}
	return cat, nil
}
