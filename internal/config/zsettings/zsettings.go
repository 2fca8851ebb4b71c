// Package zsettings reads and writes the editor's single user settings
// file, `.zcode/setting.json` under the OS user-config directory. Unlike
// the layered, TOML-based system in internal/config (kept for the
// teacher's project/workspace override machinery), this is the one file
// named directly in the specification: keybindings, theme tokens, editor
// behavior, and per-language LSP server overrides, all in one forgiving
// JSON document whose unrecognized keys survive a load/save round trip.
//
// Parsing uses gjson (a field that is missing, malformed, or of the
// wrong type is silently treated as absent and the default is used —
// never a hard parse error for the whole file) and writes patch only the
// known keys via sjson, leaving everything else in the document intact.
package zsettings

import (
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	configDirName  = ".zcode"
	settingsFile   = "setting.json"
	envOverridePath = "ZCODE_SETTINGS_PATH"
)

// Keybinding is a single user-defined key binding entry.
type Keybinding struct {
	Key     string `json:"key"`
	Command string `json:"command"`
	Context string `json:"context,omitempty"`
}

// UISettings holds top-level chrome toggles.
type UISettings struct {
	WorktreeBar bool `json:"worktree_bar"`
}

// LSPServerSettings overrides the launch command for one named language
// server, as listed under `lsp.servers.<name>`.
type LSPServerSettings struct {
	Command               string   `json:"command,omitempty"`
	Args                  []string `json:"args,omitempty"`
	InitializationOptions any      `json:"initialization_options,omitempty"`
}

// LSPSettings is the `lsp` settings section: an optional global command
// override plus a per-language-server catalog.
type LSPSettings struct {
	Command string                       `json:"command,omitempty"`
	Args    []string                     `json:"args,omitempty"`
	Servers map[string]LSPServerSettings `json:"servers,omitempty"`
}

// InputTiming holds the per-pipeline debounce tables named in spec §4.4:
// one Identifier-trigger delay and one Delete-trigger delay for each of
// the three derived-request pipelines. Immediate (boundary-char) triggers
// always fire at 0ms and are not part of this table.
type InputTiming struct {
	SemanticTokensIdentifierMs int `json:"semantic_tokens_identifier_ms"`
	SemanticTokensDeleteMs     int `json:"semantic_tokens_delete_ms"`
	InlayHintsIdentifierMs     int `json:"inlay_hints_identifier_ms"`
	InlayHintsDeleteMs         int `json:"inlay_hints_delete_ms"`
	FoldingRangeIdentifierMs   int `json:"folding_range_identifier_ms"`
	FoldingRangeDeleteMs       int `json:"folding_range_delete_ms"`

	// BoundaryChars lists characters that classify an edit as a boundary
	// trigger. BoundaryImmediate, when true, makes boundary triggers fire
	// at 0ms instead of going through the Identifier/Delete tables.
	BoundaryChars     string `json:"boundary_chars"`
	BoundaryImmediate bool   `json:"boundary_immediate"`
}

// EditorConfig is the `editor` settings section, field names matching
// spec §6 exactly. Both snake_case and camelCase spellings are accepted
// on read; writes always use snake_case.
type EditorConfig struct {
	TabSize               uint8       `json:"tab_size"`
	DefaultViewportHeight int         `json:"default_viewport_height"`
	DoubleClickMs         int         `json:"double_click_ms"`
	TripleClickMs         int         `json:"triple_click_ms"`
	ClickSlop             int         `json:"click_slop"`
	ScrollLines           int         `json:"scroll_lines"`
	ShowLineNumbers       bool        `json:"show_line_numbers"`
	WordWrap              bool        `json:"word_wrap"`
	AutoIndent            bool        `json:"auto_indent"`
	FormatOnSave          bool        `json:"format_on_save"`
	ShowIndentGuides      bool        `json:"show_indent_guides"`
	LSPInputTiming        InputTiming `json:"lsp_input_timing"`
}

// Settings is the full contents of setting.json.
type Settings struct {
	Keybindings []Keybinding      `json:"keybindings"`
	UI          UISettings        `json:"ui"`
	Theme       map[string]string `json:"theme"`
	Editor      EditorConfig      `json:"editor"`
	LSP         LSPSettings       `json:"lsp"`
}

// DefaultInputTiming returns the conservative debounce defaults chosen
// for the three derived-request pipelines (see DESIGN.md's Open
// Question log): semantic tokens resync fastest since they drive visible
// highlighting, inlay hints and folding ranges lag a little further
// behind, and a deletion burst waits longer than a single keystroke
// before firing, on the theory that deletions are usually followed by
// more deletions.
func DefaultInputTiming() InputTiming {
	return InputTiming{
		SemanticTokensIdentifierMs: 250,
		SemanticTokensDeleteMs:     400,
		InlayHintsIdentifierMs:     300,
		InlayHintsDeleteMs:         450,
		FoldingRangeIdentifierMs:   500,
		FoldingRangeDeleteMs:       650,
		BoundaryChars:              " \t\n.,;:()[]{}",
		BoundaryImmediate:          true,
	}
}

// DefaultEditorConfig returns spec §6's documented defaults.
func DefaultEditorConfig() EditorConfig {
	return EditorConfig{
		TabSize:               4,
		DefaultViewportHeight: 20,
		DoubleClickMs:         300,
		TripleClickMs:         450,
		ClickSlop:             2,
		ScrollLines:           1,
		ShowLineNumbers:       true,
		WordWrap:              false,
		AutoIndent:            true,
		FormatOnSave:          false,
		ShowIndentGuides:      true,
		LSPInputTiming:        DefaultInputTiming(),
	}
}

// Default returns an empty settings document with every section at its
// documented default.
func Default() Settings {
	return Settings{
		Keybindings: nil,
		UI:          UISettings{WorktreeBar: true},
		Theme:       map[string]string{},
		Editor:      DefaultEditorConfig(),
		LSP:         LSPSettings{Servers: map[string]LSPServerSettings{}},
	}
}

// Path returns the on-disk location of setting.json, honoring
// ZCODE_SETTINGS_PATH for tests and embedding setups that need an
// isolated config directory.
func Path() (string, error) {
	if override := os.Getenv(envOverridePath); override != "" {
		return override, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configDirName, settingsFile), nil
}

// Load reads and parses setting.json at path. A missing file yields
// Default() with no error. Malformed or wrong-typed individual fields
// fall back to their default value rather than failing the whole load;
// only an unreadable (permission-denied) file is a hard error.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Settings{}, err
	}
	return Parse(data), nil
}

// Parse decodes raw JSON bytes into Settings using the forgiving,
// field-alias-aware rules described in the package doc.
func Parse(data []byte) Settings {
	root := gjson.ParseBytes(data)
	s := Default()

	if kb := root.Get("keybindings"); kb.IsArray() {
		var bindings []Keybinding
		for _, item := range kb.Array() {
			bindings = append(bindings, Keybinding{
				Key:     firstString(item, "key"),
				Command: firstString(item, "command"),
				Context: firstString(item, "context"),
			})
		}
		s.Keybindings = bindings
	}

	if v := firstBool(root, "ui.worktree_bar", "ui.worktreeBar"); v != nil {
		s.UI.WorktreeBar = *v
	}

	if theme := root.Get("theme"); theme.IsObject() {
		m := make(map[string]string)
		theme.ForEach(func(key, value gjson.Result) bool {
			m[key.String()] = value.String()
			return true
		})
		s.Theme = m
	}

	s.Editor = parseEditorConfig(root.Get("editor"), s.Editor)
	s.LSP = parseLSPSettings(root.Get("lsp"), s.LSP)

	return s
}

func parseEditorConfig(editor gjson.Result, def EditorConfig) EditorConfig {
	if !editor.Exists() {
		return def
	}
	e := def
	if v := firstInt(editor, "tab_size", "tabSize"); v != nil {
		e.TabSize = uint8(clampInt(*v, 0, 255))
	}
	if v := firstInt(editor, "default_viewport_height", "defaultViewportHeight"); v != nil {
		e.DefaultViewportHeight = *v
	}
	if v := firstInt(editor, "double_click_ms", "doubleClickMs"); v != nil {
		e.DoubleClickMs = *v
	}
	if v := firstInt(editor, "triple_click_ms", "tripleClickMs"); v != nil {
		e.TripleClickMs = *v
	}
	if v := firstInt(editor, "click_slop", "clickSlop"); v != nil {
		e.ClickSlop = *v
	}
	if v := firstInt(editor, "scroll_lines", "scrollLines"); v != nil {
		e.ScrollLines = *v
	}
	if v := firstBool(editor, "show_line_numbers", "showLineNumbers"); v != nil {
		e.ShowLineNumbers = *v
	}
	if v := firstBool(editor, "word_wrap", "wordWrap"); v != nil {
		e.WordWrap = *v
	}
	if v := firstBool(editor, "auto_indent", "autoIndent"); v != nil {
		e.AutoIndent = *v
	}
	if v := firstBool(editor, "format_on_save", "formatOnSave"); v != nil {
		e.FormatOnSave = *v
	}
	if v := firstBool(editor, "show_indent_guides", "showIndentGuides"); v != nil {
		e.ShowIndentGuides = *v
	}

	timing := editor.Get("lsp_input_timing")
	if !timing.Exists() {
		timing = editor.Get("lspInputTiming")
	}
	if timing.Exists() {
		t := e.LSPInputTiming
		if v := firstInt(timing, "semantic_tokens_identifier_ms", "semanticTokensIdentifierMs"); v != nil {
			t.SemanticTokensIdentifierMs = *v
		}
		if v := firstInt(timing, "semantic_tokens_delete_ms", "semanticTokensDeleteMs"); v != nil {
			t.SemanticTokensDeleteMs = *v
		}
		if v := firstInt(timing, "inlay_hints_identifier_ms", "inlayHintsIdentifierMs"); v != nil {
			t.InlayHintsIdentifierMs = *v
		}
		if v := firstInt(timing, "inlay_hints_delete_ms", "inlayHintsDeleteMs"); v != nil {
			t.InlayHintsDeleteMs = *v
		}
		if v := firstInt(timing, "folding_range_identifier_ms", "foldingRangeIdentifierMs"); v != nil {
			t.FoldingRangeIdentifierMs = *v
		}
		if v := firstInt(timing, "folding_range_delete_ms", "foldingRangeDeleteMs"); v != nil {
			t.FoldingRangeDeleteMs = *v
		}
		if v := firstString(timing, "boundary_chars"); v != "" {
			t.BoundaryChars = v
		}
		if v := firstBool(timing, "boundary_immediate", "boundaryImmediate"); v != nil {
			t.BoundaryImmediate = *v
		}
		e.LSPInputTiming = t
	}

	return e
}

func parseLSPSettings(lsp gjson.Result, def LSPSettings) LSPSettings {
	if !lsp.Exists() {
		return def
	}
	out := def
	if out.Servers == nil {
		out.Servers = map[string]LSPServerSettings{}
	}
	if v := firstString(lsp, "command"); v != "" {
		out.Command = v
	}
	if args := lsp.Get("args"); args.IsArray() {
		out.Args = stringArray(args)
	}
	if servers := lsp.Get("servers"); servers.IsObject() {
		servers.ForEach(func(name, cfg gjson.Result) bool {
			entry := out.Servers[name.String()]
			if v := firstString(cfg, "command"); v != "" {
				entry.Command = v
			}
			if args := cfg.Get("args"); args.IsArray() {
				entry.Args = stringArray(args)
			}
			if opts := cfg.Get("initialization_options"); opts.Exists() {
				entry.InitializationOptions = opts.Value()
			}
			out.Servers[name.String()] = entry
			return true
		})
	}
	return out
}

// Save patches path's existing JSON document (or starts from `{}` if
// absent) so only the fields Settings owns are overwritten; any
// unrecognized top-level or nested key already in the file is left
// untouched.
func Save(path string, s Settings) error {
	existing, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		existing = []byte("{}")
	}

	doc := string(existing)
	if gjson.ValidBytes(existing) {
		var serr error
		doc, serr = applySettings(doc, s)
		if serr != nil {
			return serr
		}
	} else {
		doc, err = applySettings("{}", s)
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(doc), 0o644)
}

func applySettings(doc string, s Settings) (string, error) {
	var err error
	set := func(path string, value any) {
		if err != nil {
			return
		}
		doc, err = sjson.Set(doc, path, value)
	}

	bindings := make([]map[string]string, 0, len(s.Keybindings))
	for _, kb := range s.Keybindings {
		m := map[string]string{"key": kb.Key, "command": kb.Command}
		if kb.Context != "" {
			m["context"] = kb.Context
		}
		bindings = append(bindings, m)
	}
	set("keybindings", bindings)
	set("ui.worktree_bar", s.UI.WorktreeBar)
	set("theme", s.Theme)

	set("editor.tab_size", s.Editor.TabSize)
	set("editor.default_viewport_height", s.Editor.DefaultViewportHeight)
	set("editor.double_click_ms", s.Editor.DoubleClickMs)
	set("editor.triple_click_ms", s.Editor.TripleClickMs)
	set("editor.click_slop", s.Editor.ClickSlop)
	set("editor.scroll_lines", s.Editor.ScrollLines)
	set("editor.show_line_numbers", s.Editor.ShowLineNumbers)
	set("editor.word_wrap", s.Editor.WordWrap)
	set("editor.auto_indent", s.Editor.AutoIndent)
	set("editor.format_on_save", s.Editor.FormatOnSave)
	set("editor.show_indent_guides", s.Editor.ShowIndentGuides)
	set("editor.lsp_input_timing.semantic_tokens_identifier_ms", s.Editor.LSPInputTiming.SemanticTokensIdentifierMs)
	set("editor.lsp_input_timing.semantic_tokens_delete_ms", s.Editor.LSPInputTiming.SemanticTokensDeleteMs)
	set("editor.lsp_input_timing.inlay_hints_identifier_ms", s.Editor.LSPInputTiming.InlayHintsIdentifierMs)
	set("editor.lsp_input_timing.inlay_hints_delete_ms", s.Editor.LSPInputTiming.InlayHintsDeleteMs)
	set("editor.lsp_input_timing.folding_range_identifier_ms", s.Editor.LSPInputTiming.FoldingRangeIdentifierMs)
	set("editor.lsp_input_timing.folding_range_delete_ms", s.Editor.LSPInputTiming.FoldingRangeDeleteMs)
	set("editor.lsp_input_timing.boundary_chars", s.Editor.LSPInputTiming.BoundaryChars)
	set("editor.lsp_input_timing.boundary_immediate", s.Editor.LSPInputTiming.BoundaryImmediate)

	if s.LSP.Command != "" {
		set("lsp.command", s.LSP.Command)
	}
	if len(s.LSP.Args) > 0 {
		set("lsp.args", s.LSP.Args)
	}
	for name, server := range s.LSP.Servers {
		if server.Command != "" {
			set("lsp.servers."+name+".command", server.Command)
		}
		if len(server.Args) > 0 {
			set("lsp.servers."+name+".args", server.Args)
		}
		if server.InitializationOptions != nil {
			set("lsp.servers."+name+".initialization_options", server.InitializationOptions)
		}
	}

	return doc, err
}

func firstString(r gjson.Result, paths ...string) string {
	for _, p := range paths {
		if v := r.Get(p); v.Exists() && v.Type == gjson.String {
			return v.String()
		}
	}
	return ""
}

func firstBool(r gjson.Result, paths ...string) *bool {
	for _, p := range paths {
		if v := r.Get(p); v.Exists() && (v.Type == gjson.True || v.Type == gjson.False) {
			b := v.Bool()
			return &b
		}
	}
	return nil
}

func firstInt(r gjson.Result, paths ...string) *int {
	for _, p := range paths {
		if v := r.Get(p); v.Exists() && v.Type == gjson.Number {
			n := int(v.Int())
			return &n
		}
	}
	return nil
}

func stringArray(r gjson.Result) []string {
	arr := r.Array()
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		out = append(out, v.String())
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
