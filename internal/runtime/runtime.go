// Package runtime is the concurrency spine's effect executor: it
// turns the Effects a reducer returns into real calls against the
// async subsystems (git, the filesystem, the clipboard) and feeds
// whatever those calls produce back into the Store as Actions,
// closing the Action -> reduce -> Effects -> subsystem -> Action loop
// spec.md §2 and §4.8 describe. The Store itself never imports any of
// these subsystems; Runtime is the only place that does.
package runtime

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dshills/zcode/internal/applog"
	"github.com/dshills/zcode/internal/clipboard"
	"github.com/dshills/zcode/internal/config/zsettings"
	"github.com/dshills/zcode/internal/engine/syntax"
	"github.com/dshills/zcode/internal/event/async"
	"github.com/dshills/zcode/internal/event/bus"
	"github.com/dshills/zcode/internal/input/mouse"
	"github.com/dshills/zcode/internal/input/palette"
	"github.com/dshills/zcode/internal/integration/git"
	"github.com/dshills/zcode/internal/integration/terminal"
	"github.com/dshills/zcode/internal/lsp"
	plugin "github.com/dshills/zcode/internal/plugin/lua"
	"github.com/dshills/zcode/internal/project/search"
	"github.com/dshills/zcode/internal/project/vfs"
	"github.com/dshills/zcode/internal/project/watcher"
	"github.com/dshills/zcode/internal/store"
)

const lspShutdownGrace = 2 * time.Second

// searchBatchSize bounds each Matches message posted to the bus so a
// huge result set streams in digestible pieces instead of one giant
// action.
const searchBatchSize = 100

// Runtime owns the Store, the Executor every Effect runs on, and the
// bus async results travel back to the front end on.
type Runtime struct {
	store *store.Store
	exec  async.Executor
	send  bus.Sender[store.Action]
	recv  bus.Receiver[store.Action]
	log   *applog.Logger

	gitMgr      *git.Manager
	lspMgr      *lsp.Manager
	termMgr     *terminal.Manager
	fileWatcher watcher.Watcher
	suppressor  *watcher.Suppressor
	currentRoot string

	timing   lsp.TimingConfig
	debounce *lsp.PipelineDebouncer
	plugins  *plugin.Catalog

	keymap       *Keymap
	mouseHandler *mouse.Handler
	palette      *palette.Palette

	searchMu      sync.Mutex
	searchCancels map[uint64]context.CancelFunc
}

// New creates a Runtime around an existing Store and Executor. log may
// be nil, in which case a default stderr logger is created.
func New(st *store.Store, exec async.Executor, log *applog.Logger) *Runtime {
	if log == nil {
		log = applog.New(applog.Config{})
	}
	send, recv := bus.New[store.Action](256)
	timing := lsp.DefaultTimingConfig()
	rt := &Runtime{
		timing:        timing,
		debounce:      lsp.NewPipelineDebouncer(timing),
		store:         st,
		exec:          exec,
		send:          send,
		recv:          recv,
		log:           log.WithComponent("runtime"),
		gitMgr:        git.NewManager(git.ManagerConfig{}),
		termMgr:       terminal.NewManager(terminal.ManagerConfig{}),
		suppressor:    watcher.NewSuppressor(),
		mouseHandler:  mouse.NewHandler(mouse.DefaultConfig()),
		searchCancels: make(map[uint64]context.CancelFunc),
	}
	rt.lspMgr = lsp.NewManager(
		lsp.WithSupervision(lsp.SupervisorConfig{}),
		lsp.WithDiagnosticsCallback(rt.onDiagnostics),
	)
	rt.palette = palette.New()
	if err := rt.palette.RegisterAll(rt.builtinCommands()); err != nil {
		rt.log.Warn("palette registration failed", "err", err)
	}
	return rt
}

// onDiagnostics feeds a server's publishDiagnostics into the problems
// list as a per-path replacement; the reducer keeps the global sort
// and drops no-op updates.
func (rt *Runtime) onDiagnostics(uri lsp.DocumentURI, diagnostics []lsp.Diagnostic) {
	path := lsp.URIToFilePath(uri)
	items := make([]store.Problem, len(diagnostics))
	for i, d := range diagnostics {
		items[i] = store.Problem{
			Path:      path,
			StartLine: d.Range.Start.Line,
			StartCol:  d.Range.Start.Character,
			EndLine:   d.Range.End.Line,
			EndCol:    d.Range.End.Character,
			Severity:  severityOf(d.Severity),
			Message:   d.Message,
			Source:    d.Source,
		}
	}
	rt.post(store.ProblemsUpdatePath{Path: path, Items: items})
}

func severityOf(s lsp.DiagnosticSeverity) store.Severity {
	switch s {
	case lsp.DiagnosticSeverityWarning:
		return store.SeverityWarning
	case lsp.DiagnosticSeverityInformation:
		return store.SeverityInformation
	case lsp.DiagnosticSeverityHint:
		return store.SeverityHint
	default:
		return store.SeverityError
	}
}

// Receiver exposes the bus's consumer half, e.g. for a poll()-driven
// front-end loop that needs the wake-up fd alongside other sources.
func (rt *Runtime) Receiver() bus.Receiver[store.Action] {
	return rt.recv
}

// Dispatch commits action to the Store and schedules every Effect the
// reducer returned onto the Executor. Plugin-bound commands also run
// their Lua handler, after the reducer has had its turn — a plugin
// augments a command, it cannot pre-empt the built-in behavior.
func (rt *Runtime) Dispatch(action store.Action) store.DispatchResult {
	res := rt.store.Dispatch(action)
	for _, eff := range res.Effects {
		rt.schedule(eff)
	}
	if rc, ok := action.(store.RunCommand); ok && rt.plugins != nil {
		if cmd, known := plugin.ParseCommand(rc.Command); known {
			if _, bound := rt.plugins.Lookup(cmd); bound {
				rt.exec.Spawn(func(ctx context.Context) {
					if err := rt.plugins.Invoke(ctx, cmd, rc.Args); err != nil {
						rt.log.Warn("plugin command failed", "command", rc.Command, "err", err)
					}
				})
			}
		}
	}
	return res
}

// Sender returns a clone of the bus's producer half. Arbitrary
// subsystems — plugin hosts included — inject Actions through it.
func (rt *Runtime) Sender() bus.Sender[store.Action] {
	return rt.send
}

// SetInputTiming replaces the debounce tables driving the derived
// LSP request pipelines; called at startup once settings are loaded.
func (rt *Runtime) SetInputTiming(cfg lsp.TimingConfig) {
	rt.debounce.Close()
	rt.timing = cfg
	rt.debounce = lsp.NewPipelineDebouncer(cfg)
}

// SetPluginCatalog installs the plugin command catalog consulted on
// every RunCommand dispatch.
func (rt *Runtime) SetPluginCatalog(cat *plugin.Catalog) {
	rt.plugins = cat
}

// LspManager exposes the language-server manager so the entry point
// can register server commands from settings.
func (rt *Runtime) LspManager() *lsp.Manager {
	return rt.lspMgr
}

// Run drains the bus until ctx is cancelled, dispatching every Action
// an async subsystem posts back. Used by a headless or test driver
// that doesn't have its own poll() loop to fold DrainAndDispatch into.
func (rt *Runtime) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case a := <-rt.recv.C():
			rt.Dispatch(a)
		}
	}
}

// DrainAndDispatch pulls up to max pending async-result Actions off
// the bus and dispatches each in turn. A poll()-driven front end calls
// this once per wake after Receiver().WakeupFD() reports readable.
func (rt *Runtime) DrainAndDispatch(max int) int {
	rt.recv.DrainWakeup()
	actions := rt.recv.Recv(max)
	for _, a := range actions {
		rt.Dispatch(a)
	}
	return len(actions)
}

func (rt *Runtime) post(a store.Action) {
	rt.send.Send(a)
}

// Schedule dispatches a single Effect directly, bypassing Dispatch.
// Used by the entry point to kick off startup-time effects (initial
// git repository detection) that have no originating Action.
func (rt *Runtime) Schedule(eff store.Effect) {
	rt.schedule(eff)
}

// schedule dispatches a single Effect to the subsystem that owns it.
// An Effect type with no case below is logged at debug instead of
// silently dropped.
func (rt *Runtime) schedule(eff store.Effect) {
	switch e := eff.(type) {
	case store.GitDetectRepo:
		rt.exec.Spawn(func(ctx context.Context) { rt.runGitDetect(e) })
	case store.GitRefreshStatus:
		rt.exec.SpawnBlocking(func(ctx context.Context) { rt.runGitRefreshStatus() })
	case store.GitListBranches:
		rt.exec.SpawnBlocking(func(ctx context.Context) { rt.runGitListBranches() })
	case store.GitListWorktrees:
		rt.exec.SpawnBlocking(func(ctx context.Context) { rt.runGitListWorktrees() })
	case store.GitWorktreeAdd:
		rt.exec.SpawnBlocking(func(ctx context.Context) { rt.runGitWorktreeAdd(e) })
	case store.LoadFile:
		rt.exec.SpawnBlocking(func(ctx context.Context) { rt.runLoadFile(e) })
	case store.WriteFile:
		rt.exec.SpawnBlocking(func(ctx context.Context) { rt.runWriteFile(e) })
	case store.LoadDir:
		rt.exec.SpawnBlocking(func(ctx context.Context) { rt.runLoadDir(e) })
	case store.RestartLsp:
		rt.exec.SpawnBlocking(func(ctx context.Context) { rt.runRestartLsp(ctx, e) })
	case store.SyncLspDocument:
		rt.exec.Spawn(func(ctx context.Context) { rt.runLspSync(ctx, e) })
	case store.LspHover:
		rt.exec.Spawn(func(ctx context.Context) { rt.runLspHover(ctx, e) })
	case store.LspFormat:
		rt.exec.Spawn(func(ctx context.Context) { rt.runLspFormat(ctx, e) })
	case store.StartGlobalSearchEffect:
		rt.exec.Spawn(func(ctx context.Context) { rt.runGlobalSearch(ctx, e) })
	case store.StartEditorSearchEffect:
		rt.exec.Spawn(func(ctx context.Context) { rt.runEditorSearch(ctx, e) })
	case store.CancelGlobalSearchEffect:
		rt.cancelSearch(e.SearchID)
	case store.CancelEditorSearchEffect:
		rt.cancelSearch(e.SearchID)
	case store.TerminalSpawn:
		rt.exec.Spawn(func(ctx context.Context) { rt.runTerminalSpawn(e) })
	case store.TerminalWrite:
		rt.exec.Spawn(func(ctx context.Context) { rt.runTerminalWrite(e) })
	case store.TerminalResize:
		rt.exec.Spawn(func(ctx context.Context) { rt.runTerminalResize(e) })
	case store.TerminalKill:
		rt.exec.Spawn(func(ctx context.Context) { rt.runTerminalKill(e) })
	case store.SetClipboardText:
		rt.exec.Spawn(func(ctx context.Context) { rt.runSetClipboard(e) })
	case store.RequestClipboardText:
		rt.exec.Spawn(func(ctx context.Context) { rt.runRequestClipboard(e) })
	case store.SaveTheme:
		rt.exec.SpawnBlocking(func(ctx context.Context) { rt.runSaveTheme(e) })
	default:
		rt.log.Debug("effect not wired to a subsystem", "type", fmt.Sprintf("%T", eff))
	}
}

func (rt *Runtime) runGitDetect(e store.GitDetectRepo) {
	repo, err := rt.gitMgr.Discover(e.Root)
	if err != nil {
		rt.log.Debug("git discover failed", "root", e.Root, "err", err)
		rt.post(store.GitRepoDetected{Root: ""})
		return
	}
	rt.currentRoot = repo.Path()
	rt.post(store.GitRepoDetected{Root: repo.Path()})
}

func (rt *Runtime) repoForCurrentRoot() (*git.Repository, bool) {
	if rt.currentRoot == "" {
		return nil, false
	}
	repo, err := rt.gitMgr.Open(rt.currentRoot)
	if err != nil {
		rt.log.Warn("git open failed", "root", rt.currentRoot, "err", err)
		return nil, false
	}
	return repo, true
}

func (rt *Runtime) runGitRefreshStatus() {
	repo, ok := rt.repoForCurrentRoot()
	if !ok {
		return
	}
	status, err := repo.Status()
	if err != nil {
		rt.log.Warn("git status failed", "err", err)
		return
	}
	m := make(map[string]string, len(status.Staged)+len(status.Unstaged)+len(status.Untracked))
	for _, fs := range status.Staged {
		m[fs.Path] = fs.Status.String()
	}
	for _, fs := range status.Unstaged {
		m[fs.Path] = fs.Status.String()
	}
	for _, path := range status.Untracked {
		m[path] = "untracked"
	}
	rt.post(store.GitStatusRefreshed{Status: m})
	rt.refreshGutters(repo, m)
}

// refreshGutters recomputes per-line change marks for every open tab
// whose file the status refresh reported as touched.
func (rt *Runtime) refreshGutters(repo *git.Repository, status map[string]string) {
	s := rt.store.State()
	for pi, p := range s.Editor.Panes {
		for ti, t := range p.Tabs {
			if t.Path == "" {
				continue
			}
			rel, err := filepath.Rel(repo.Path(), t.Path)
			if err != nil || strings.HasPrefix(rel, "..") {
				continue
			}
			if _, touched := status[rel]; !touched {
				if len(t.Gutter) > 0 {
					rt.post(store.GitGutterUpdated{Pane: pi, Tab: ti})
				}
				continue
			}
			changes, err := repo.ChangedLines(rel)
			if err != nil {
				rt.log.Debug("git diff failed", "path", rel, "err", err)
				continue
			}
			rt.post(store.GitGutterUpdated{Pane: pi, Tab: ti, Marks: gutterMarks(changes)})
		}
	}
}

// gutterMarks expands hunk ranges into per-line marks, converting the
// diff's 1-based lines to the buffer's 0-based rows. A pure deletion
// marks the single line the removal sits above.
func gutterMarks(changes []git.LineChange) []store.GutterMark {
	var marks []store.GutterMark
	for _, ch := range changes {
		if ch.Count == 0 {
			if ch.Line > 0 {
				marks = append(marks, store.GutterMark{Line: ch.Line - 1, Kind: ch.Kind.String()})
			}
			continue
		}
		for i := uint32(0); i < ch.Count; i++ {
			marks = append(marks, store.GutterMark{Line: ch.Line - 1 + i, Kind: ch.Kind.String()})
		}
	}
	return marks
}

func (rt *Runtime) runGitListBranches() {
	repo, ok := rt.repoForCurrentRoot()
	if !ok {
		return
	}
	branches, err := repo.ListBranches()
	if err != nil {
		rt.log.Warn("git list branches failed", "err", err)
		return
	}
	names := make([]string, len(branches))
	for i, b := range branches {
		names[i] = b.Name
	}
	rt.post(store.GitBranchesListed{Branches: names})
}

func (rt *Runtime) runGitListWorktrees() {
	repo, ok := rt.repoForCurrentRoot()
	if !ok {
		return
	}
	entries, err := repo.ListWorktrees()
	if err != nil {
		rt.log.Warn("git list worktrees failed", "err", err)
		return
	}
	paths := make([]string, len(entries))
	for i, wt := range entries {
		paths[i] = wt.Path
	}
	rt.post(store.GitWorktreesListed{Worktrees: paths})
}

func (rt *Runtime) runGitWorktreeAdd(e store.GitWorktreeAdd) {
	repo, ok := rt.repoForCurrentRoot()
	if !ok {
		return
	}
	if err := repo.AddWorktree(e.Path, e.Branch); err != nil {
		rt.log.Warn("git worktree add failed", "path", e.Path, "err", err)
		return
	}
	rt.runGitListWorktrees()
}

func (rt *Runtime) runLoadFile(e store.LoadFile) {
	data, err := os.ReadFile(e.Path)
	if err != nil {
		rt.log.Warn("load file failed", "path", e.Path, "err", err)
		return
	}
	text := string(data)
	if err := rt.lspMgr.OpenDocument(context.Background(), e.Path, text); err != nil {
		rt.log.Debug("lsp open document skipped", "path", e.Path, "err", err)
	}
	rt.post(store.OpenTab{Pane: e.Pane, Path: e.Path, Title: fileTitle(e.Path), Text: text})
}

// runRestartLsp restarts the language server backing path's language,
// or kills it outright when Hard is set and no restart should follow.
func (rt *Runtime) runRestartLsp(ctx context.Context, e store.RestartLsp) {
	langID := lsp.DetectLanguageID(e.Path)
	if langID == "" {
		rt.log.Debug("restart lsp: no language server for path", "path", e.Path)
		return
	}
	if e.Hard {
		if err := rt.lspMgr.Shutdown(ctx); err != nil {
			rt.log.Warn("lsp shutdown failed", "err", err)
		}
		return
	}
	if err := rt.lspMgr.RestartServer(ctx, langID); err != nil {
		rt.log.Warn("lsp restart failed", "language", langID, "err", err)
	}
}

// runLspSync pushes an edited document's new text to its language
// server, then re-arms the three derived-request pipelines on their
// per-trigger debounce delays. Results are posted back tagged with the
// edit version they were computed against; the editor reducer drops
// any that no longer match.
func (rt *Runtime) runLspSync(ctx context.Context, e store.SyncLspDocument) {
	if err := rt.lspMgr.ChangeDocument(ctx, e.Path, []lsp.TextDocumentContentChangeEvent{{Text: e.Text}}); err != nil {
		rt.log.Debug("lsp change document skipped", "path", e.Path, "err", err)
	}

	trigger := lsp.TriggerDelete
	if !e.Deleted {
		trigger = rt.timing.ClassifyChar(e.LastRune)
	}
	path, version := e.Path, e.Version
	lineCount := uint32(len(strings.Split(e.Text, "\n")))
	rt.debounce.Schedule(path, lsp.PipelineSemanticTokens, trigger, func() {
		rt.exec.Spawn(func(ctx context.Context) { rt.runSemanticTokens(ctx, path, version) })
	})
	rt.debounce.Schedule(path, lsp.PipelineInlayHints, trigger, func() {
		rt.exec.Spawn(func(ctx context.Context) { rt.runInlayHints(ctx, path, version, lineCount) })
	})
	rt.debounce.Schedule(path, lsp.PipelineFoldingRange, trigger, func() {
		rt.exec.Spawn(func(ctx context.Context) { rt.runFoldingRanges(ctx, path, version) })
	})
}

// runLspHover asks the server what sits at the request position and
// surfaces the answer as a transient hover message.
func (rt *Runtime) runLspHover(ctx context.Context, e store.LspHover) {
	hover, err := rt.lspMgr.Hover(ctx, e.Path, lsp.Position{Line: e.Line, Character: e.Col})
	if err != nil || hover == nil {
		rt.log.Debug("hover unavailable", "path", e.Path, "err", err)
		return
	}
	if hover.Contents.Value == "" {
		return
	}
	rt.post(store.ShowHoverMessage{Message: hover.Contents.Value})
}

// runLspFormat formats the stamped snapshot and posts the result back
// as a version-checked full-document replacement.
func (rt *Runtime) runLspFormat(ctx context.Context, e store.LspFormat) {
	edits, err := rt.lspMgr.Format(ctx, e.Path, lsp.FormattingOptions{
		TabSize:      e.TabSize,
		InsertSpaces: true,
	})
	if err != nil {
		rt.log.Debug("format unavailable", "path", e.Path, "err", err)
		return
	}
	if len(edits) == 0 {
		return
	}
	formatted := lsp.ApplyTextEdits(e.Text, edits)
	rt.post(store.ReplaceDocument{Pane: e.Pane, Tab: e.Tab, Version: e.Version, Text: formatted})
}

func (rt *Runtime) runSemanticTokens(ctx context.Context, path string, version int64) {
	tokens, err := rt.lspMgr.SemanticTokens(ctx, path, int(version))
	if err != nil {
		rt.log.Debug("semantic tokens unavailable", "path", path, "err", err)
		return
	}
	pane, tab, ok := rt.findTabByPath(path)
	if !ok {
		return
	}
	rt.post(store.SemanticTokensReceived{
		Pane:     pane,
		Tab:      tab,
		Version:  version,
		Segments: segmentsFromTokens(tokens),
	})
}

func (rt *Runtime) runInlayHints(ctx context.Context, path string, version int64, lineCount uint32) {
	rng := lsp.Range{Start: lsp.Position{Line: 0}, End: lsp.Position{Line: int(lineCount)}}
	hints, err := rt.lspMgr.InlayHints(ctx, path, rng)
	if err != nil {
		rt.log.Debug("inlay hints unavailable", "path", path, "err", err)
		return
	}
	pane, tab, ok := rt.findTabByPath(path)
	if !ok {
		return
	}
	marks := make([]store.InlayMark, len(hints))
	for i, h := range hints {
		marks[i] = store.InlayMark{
			Line:  uint32(h.Position.Line),
			Col:   uint32(h.Position.Character),
			Label: h.LabelText(),
			Kind:  int(h.Kind),
		}
	}
	rt.post(store.InlayHintsReceived{Pane: pane, Tab: tab, Version: version, Hints: marks})
}

func (rt *Runtime) runFoldingRanges(ctx context.Context, path string, version int64) {
	ranges, err := rt.lspMgr.FoldingRanges(ctx, path)
	if err != nil {
		rt.log.Debug("folding ranges unavailable", "path", path, "err", err)
		return
	}
	pane, tab, ok := rt.findTabByPath(path)
	if !ok {
		return
	}
	folds := make([]store.FoldRange, len(ranges))
	for i, r := range ranges {
		folds[i] = store.FoldRange{StartLine: r.StartLine, EndLine: r.EndLine, Kind: string(r.Kind)}
	}
	rt.post(store.FoldingRangesReceived{Pane: pane, Tab: tab, Version: version, Ranges: folds})
}

// findTabByPath locates the first tab backed by path in a state
// snapshot; derived LSP results address documents by path, the store
// addresses them by (pane, tab).
func (rt *Runtime) findTabByPath(path string) (pane, tab int, ok bool) {
	s := rt.store.State()
	for pi, p := range s.Editor.Panes {
		for ti, t := range p.Tabs {
			if t.Path == path {
				return pi, ti, true
			}
		}
	}
	return 0, 0, false
}

// segmentsFromTokens lowers decoded semantic tokens into the overlay's
// per-line segment form, grouping the tokens of each line into one
// segment. Decoded tokens arrive sorted by (line, char).
func segmentsFromTokens(tokens []lsp.SemanticToken) []syntax.Segment {
	var out []syntax.Segment
	for _, tok := range tokens {
		span := syntax.Span{Kind: tok.Type, StartCol: tok.Char, EndCol: tok.Char + tok.Length}
		if n := len(out); n > 0 && out[n-1].StartLine == tok.Line {
			out[n-1].Spans = append(out[n-1].Spans, span)
			if span.EndCol > out[n-1].EndCol {
				out[n-1].EndCol = span.EndCol
			}
			continue
		}
		out = append(out, syntax.Segment{
			StartLine: tok.Line,
			StartCol:  span.StartCol,
			EndLine:   tok.Line,
			EndCol:    span.EndCol,
			Spans:     []syntax.Span{span},
		})
	}
	return out
}

// runLoadDir lists a directory's immediate entries for the explorer
// tree, sorted for deterministic display.
func (rt *Runtime) runLoadDir(e store.LoadDir) {
	entries, err := os.ReadDir(e.Path)
	if err != nil {
		rt.log.Warn("load dir failed", "path", e.Path, "err", err)
		return
	}
	names := make([]string, 0, len(entries))
	for _, ent := range entries {
		names = append(names, ent.Name())
	}
	sort.Strings(names)
	rt.post(store.ExplorerTreeLoaded{Dir: e.Path, Entries: names})
}

// StartFileWatch begins recursively watching root and forwards every
// change it reports as an ExternalFileChanged action, letting the
// explorer reducer decide whether a currently displayed directory
// needs reloading. Safe to call once per Runtime; a second call
// replaces the previous watch root.
func (rt *Runtime) StartFileWatch(root string) error {
	w, err := watcher.NewFSNotifyWatcher()
	if err != nil {
		return fmt.Errorf("start file watch: %w", err)
	}
	if err := w.WatchRecursive(root); err != nil {
		_ = w.Close()
		return fmt.Errorf("watch %s: %w", root, err)
	}
	rt.fileWatcher = w
	rt.exec.Spawn(func(ctx context.Context) {
		for ev := range w.Events() {
			// Our own writes arm a suppression window just before
			// touching disk; removals always pass through.
			if !ev.Op.Has(watcher.OpRemove) && !ev.Op.Has(watcher.OpRename) &&
				rt.suppressor.ShouldSuppress(ev.Path) {
				continue
			}
			rt.post(store.ExternalFileChanged{Path: ev.Path, Dir: filepath.Dir(ev.Path)})
		}
		rt.suppressor.Evict()
	})
	rt.exec.Spawn(func(ctx context.Context) {
		for err := range w.Errors() {
			rt.log.Warn("file watch error", "err", err)
		}
	})
	return nil
}

// registerSearchCancel records the cancel func for a running search so
// a later Cancel*SearchEffect for the same id can stop it; an id
// already finished by the time Cancel arrives is simply a no-op.
func (rt *Runtime) registerSearchCancel(id uint64, cancel context.CancelFunc) {
	rt.searchMu.Lock()
	rt.searchCancels[id] = cancel
	rt.searchMu.Unlock()
}

func (rt *Runtime) cancelSearch(id uint64) {
	rt.searchMu.Lock()
	cancel, ok := rt.searchCancels[id]
	delete(rt.searchCancels, id)
	rt.searchMu.Unlock()
	if ok {
		cancel()
	}
}

func (rt *Runtime) finishSearch(id uint64) {
	rt.searchMu.Lock()
	delete(rt.searchCancels, id)
	rt.searchMu.Unlock()
}

// runGlobalSearch walks Root collecting file paths, then runs a
// content search across all of them, posting the full match set as a
// single final batch. SearchID-based staleness checks happen in the
// reducer (searchMatchesReceived), so a cancelled or superseded search
// landing here still posts — it will just be dropped on arrival.
func (rt *Runtime) runGlobalSearch(ctx context.Context, e store.StartGlobalSearchEffect) {
	ctx, cancel := context.WithCancel(ctx)
	rt.registerSearchCancel(e.SearchID, cancel)
	defer rt.finishSearch(e.SearchID)
	defer cancel()

	fs := vfs.NewOSFS()
	var paths []string
	walkErr := fs.WalkDir(e.Root, func(path string, d vfs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d != nil && d.IsDir() {
			if d.Name() == ".git" {
				return vfs.SkipDir
			}
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if walkErr != nil {
		rt.post(store.SearchFailed{SearchID: e.SearchID, Message: walkErr.Error()})
		return
	}

	cs := search.NewContentSearch(fs)
	opts := search.DefaultContentSearchOptions()
	opts.CaseSensitive = e.CaseSensitive
	opts.UseRegex = e.UseRegex
	matches, err := cs.SearchFiles(ctx, paths, e.Pattern, opts)
	if err != nil {
		if ctx.Err() != nil {
			rt.post(store.SearchCancelled{SearchID: e.SearchID})
			return
		}
		rt.post(store.SearchFailed{SearchID: e.SearchID, Message: err.Error()})
		return
	}

	rt.postSearchMatches(e.SearchID, toStoreMatches(matches))
	rt.post(store.SearchComplete{SearchID: e.SearchID, Total: len(matches)})
}

// postSearchMatches streams a result set as batches of at most
// searchBatchSize, marking the last one final.
func (rt *Runtime) postSearchMatches(id uint64, matches []store.SearchMatch) {
	if len(matches) == 0 {
		rt.post(store.SearchMatchesReceived{SearchID: id, IsFinal: true})
		return
	}
	for i := 0; i < len(matches); i += searchBatchSize {
		end := i + searchBatchSize
		if end > len(matches) {
			end = len(matches)
		}
		rt.post(store.SearchMatchesReceived{
			SearchID: id,
			Matches:  matches[i:end],
			IsFinal:  end == len(matches),
		})
	}
}

// runEditorSearch searches the in-memory text of one tab's buffer; it
// never touches disk since the buffer may hold unsaved edits.
func (rt *Runtime) runEditorSearch(ctx context.Context, e store.StartEditorSearchEffect) {
	ctx, cancel := context.WithCancel(ctx)
	rt.registerSearchCancel(e.SearchID, cancel)
	defer rt.finishSearch(e.SearchID)
	defer cancel()

	s := rt.store.State()
	if e.Pane < 0 || e.Pane >= len(s.Editor.Panes) {
		return
	}
	pane := s.Editor.Panes[e.Pane]
	if e.Tab < 0 || e.Tab >= len(pane.Tabs) {
		return
	}
	t := pane.Tabs[e.Tab]
	if t.Eng == nil {
		return
	}

	cs := search.NewContentSearch(vfs.NewOSFS())
	opts := search.DefaultContentSearchOptions()
	opts.CaseSensitive = e.CaseSensitive
	opts.UseRegex = e.UseRegex
	matches, err := cs.SearchReader(ctx, t.Path, strings.NewReader(t.Eng.Text()), e.Pattern, opts)
	if err != nil {
		if ctx.Err() != nil {
			rt.post(store.SearchCancelled{SearchID: e.SearchID})
			return
		}
		rt.post(store.SearchFailed{SearchID: e.SearchID, Message: err.Error()})
		return
	}

	rt.postSearchMatches(e.SearchID, toStoreMatches(matches))
	rt.post(store.SearchComplete{SearchID: e.SearchID, Total: len(matches)})
}

// toStoreMatches converts content-search matches, which carry
// line/column plus surrounding context for a UI preview, into the
// byte-range form the store tracks. Byte offsets are approximated
// from the rune column since ContentMatch reports positions against
// decoded text, not raw bytes; editor panes select by line/col so this
// only affects gutter-mark precision on multi-byte lines.
func toStoreMatches(matches []search.ContentMatch) []store.SearchMatch {
	out := make([]store.SearchMatch, len(matches))
	for i, m := range matches {
		start := int64(m.Column - 1)
		end := start + 1
		if len(m.Highlights) > 0 {
			start = int64(m.Highlights[0].Start)
			end = int64(m.Highlights[0].End)
		}
		out[i] = store.SearchMatch{
			File:      m.Path,
			StartByte: start,
			EndByte:   end,
			Line:      m.Line,
			Col:       m.Column,
		}
	}
	return out
}

// runTerminalSpawn starts a new PTY-backed shell session and wires its
// output/close callbacks straight onto the bus as Actions; the
// terminal package has no notion of Action/Effect itself, so this
// closure is the entire bridge.
func (rt *Runtime) runTerminalSpawn(e store.TerminalSpawn) {
	var id string
	term, err := rt.termMgr.Create(terminal.Options{
		Shell:   e.Shell,
		WorkDir: e.Cwd,
		OnOutput: func(data []byte) {
			rt.post(store.TerminalOutput{SessionID: id, Data: append([]byte(nil), data...)})
		},
		OnClose: func() {
			rt.post(store.TerminalExited{SessionID: id, Code: term.ExitCode()})
		},
	})
	if err != nil {
		rt.log.Warn("terminal spawn failed", "shell", e.Shell, "err", err)
		return
	}
	id = term.ID()
	rt.post(store.TerminalSpawned{SessionID: id})
}

func (rt *Runtime) runTerminalWrite(e store.TerminalWrite) {
	term, ok := rt.termMgr.Get(e.SessionID)
	if !ok {
		return
	}
	if _, err := term.Write(e.Data); err != nil {
		rt.log.Warn("terminal write failed", "session", e.SessionID, "err", err)
	}
}

func (rt *Runtime) runTerminalResize(e store.TerminalResize) {
	term, ok := rt.termMgr.Get(e.SessionID)
	if !ok {
		return
	}
	if err := term.Resize(e.Cols, e.Rows); err != nil {
		rt.log.Warn("terminal resize failed", "session", e.SessionID, "err", err)
	}
}

func (rt *Runtime) runTerminalKill(e store.TerminalKill) {
	if err := rt.termMgr.Close(e.SessionID); err != nil {
		rt.log.Warn("terminal kill failed", "session", e.SessionID, "err", err)
	}
}

func (rt *Runtime) runWriteFile(e store.WriteFile) {
	rt.suppressor.SuppressNext(e.Path)
	err := os.WriteFile(e.Path, []byte(e.Text), 0o644)
	rt.post(store.Saved{Pane: e.Pane, Tab: e.Tab, Version: e.Version, Success: err == nil})
	if err != nil {
		rt.log.Warn("write file failed", "path", e.Path, "err", err)
	}
}

// runSaveTheme patches one theme token's color into setting.json,
// leaving every other key in the document untouched.
func (rt *Runtime) runSaveTheme(e store.SaveTheme) {
	path, err := zsettings.Path()
	if err != nil {
		rt.log.Warn("save theme: no settings path", "err", err)
		return
	}
	settings, err := zsettings.Load(path)
	if err != nil {
		settings = zsettings.Default()
	}
	if settings.Theme == nil {
		settings.Theme = map[string]string{}
	}
	settings.Theme[e.Token] = e.Color
	if err := zsettings.Save(path, settings); err != nil {
		rt.log.Warn("save theme failed", "err", err)
	}
}

func (rt *Runtime) runSetClipboard(e store.SetClipboardText) {
	osc := clipboard.NewOSC52(os.Stdout, clipboard.DetectTmux())
	if err := osc.SetText(e.Text); err != nil {
		rt.log.Warn("clipboard set failed", "err", err)
	}
}

// runRequestClipboard reads the clipboard via OSC52 and feeds the
// result back in as an insert at the requesting pane's active tab,
// cursor position. The active-tab lookup reads a State snapshot since
// Effects carry only the data needed to issue the request, not a
// pointer into mutable state.
func (rt *Runtime) runRequestClipboard(e store.RequestClipboardText) {
	osc := clipboard.NewOSC52(os.Stdout, clipboard.DetectTmux())
	text, err := osc.GetText()
	if err != nil {
		rt.log.Warn("clipboard get failed", "err", err)
		return
	}
	s := rt.store.State()
	if e.Pane < 0 || e.Pane >= len(s.Editor.Panes) {
		return
	}
	pane := s.Editor.Panes[e.Pane]
	t := pane.ActiveTabPtr()
	if t == nil {
		return
	}
	rt.post(store.InsertText{Pane: e.Pane, Tab: pane.ActiveTab, Offset: int64(t.Eng.PrimaryCursor()), Text: text})
}

// Shutdown releases the bus's wake-up pipe, closes every open git
// repository handle, and shuts down any running language servers.
// Callers should stop feeding Dispatch before calling this.
func (rt *Runtime) Shutdown() {
	rt.debounce.Close()
	_ = rt.recv.Close()
	_ = rt.gitMgr.Close()
	if rt.fileWatcher != nil {
		_ = rt.fileWatcher.Close()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), lspShutdownGrace)
	defer cancel()
	if err := rt.lspMgr.Shutdown(shutdownCtx); err != nil {
		rt.log.Warn("lsp shutdown failed", "err", err)
	}
}

func fileTitle(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}
