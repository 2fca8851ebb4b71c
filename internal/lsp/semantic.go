package lsp

import (
	"context"
	"sync"
)

// --- Semantic tokens ---

// SemanticTokensLegend maps the integer type/modifier indices in a
// semantic-tokens response to their names.
type SemanticTokensLegend struct {
	TokenTypes     []string `json:"tokenTypes"`
	TokenModifiers []string `json:"tokenModifiers"`
}

// SemanticTokensOptions describe the server's semantic-tokens support.
type SemanticTokensOptions struct {
	Legend SemanticTokensLegend `json:"legend"`
	Range  any                  `json:"range,omitempty"`
	Full   any                  `json:"full,omitempty"`
}

// SemanticTokensParams are parameters for textDocument/semanticTokens/full.
type SemanticTokensParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

// SemanticTokens is the raw response: a flat array of 5-tuples
// (deltaLine, deltaStartChar, length, tokenType, tokenModifiers).
type SemanticTokens struct {
	ResultID string   `json:"resultId,omitempty"`
	Data     []uint32 `json:"data"`
}

// SemanticToken is one decoded token with absolute coordinates.
// Line and Char are in the server's negotiated position encoding.
type SemanticToken struct {
	Line      uint32
	Char      uint32
	Length    uint32
	Type      string
	Modifiers uint32
}

// DecodeSemanticTokens expands the delta-encoded data array into
// absolute tokens, resolving type indices against legend. Entries
// whose type index falls outside the legend keep an empty Type rather
// than being dropped, so their extent still occludes stale spans.
func DecodeSemanticTokens(data []uint32, legend SemanticTokensLegend) []SemanticToken {
	tokens := make([]SemanticToken, 0, len(data)/5)
	var line, char uint32
	for i := 0; i+4 < len(data); i += 5 {
		deltaLine, deltaChar := data[i], data[i+1]
		line += deltaLine
		if deltaLine > 0 {
			char = deltaChar
		} else {
			char += deltaChar
		}
		tok := SemanticToken{
			Line:      line,
			Char:      char,
			Length:    data[i+2],
			Modifiers: data[i+4],
		}
		if idx := int(data[i+3]); idx < len(legend.TokenTypes) {
			tok.Type = legend.TokenTypes[idx]
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// --- Inlay hints ---

// InlayHintKind distinguishes type hints from parameter hints.
type InlayHintKind int

const (
	InlayHintKindType      InlayHintKind = 1
	InlayHintKindParameter InlayHintKind = 2
)

// InlayHintParams are parameters for textDocument/inlayHint.
type InlayHintParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Range        Range                  `json:"range"`
}

// InlayHint is an inline annotation the server wants rendered at a
// position, e.g. an inferred type or a parameter name.
type InlayHint struct {
	Position     Position      `json:"position"`
	Label        any           `json:"label"` // string or []InlayHintLabelPart
	Kind         InlayHintKind `json:"kind,omitempty"`
	PaddingLeft  bool          `json:"paddingLeft,omitempty"`
	PaddingRight bool          `json:"paddingRight,omitempty"`
	Tooltip      any           `json:"tooltip,omitempty"`
}

// InlayHintLabelPart is one piece of a structured hint label.
type InlayHintLabelPart struct {
	Value    string    `json:"value"`
	Tooltip  any       `json:"tooltip,omitempty"`
	Location *Location `json:"location,omitempty"`
}

// LabelText flattens a hint's label to plain text whether the server
// sent a string or label parts.
func (h InlayHint) LabelText() string {
	switch v := h.Label.(type) {
	case string:
		return v
	case []any:
		var out string
		for _, part := range v {
			if m, ok := part.(map[string]any); ok {
				if s, ok := m["value"].(string); ok {
					out += s
				}
			}
		}
		return out
	}
	return ""
}

// --- Folding ranges ---

// FoldingRangeKind is the optional category of a folding range.
type FoldingRangeKind string

const (
	FoldingRangeKindComment FoldingRangeKind = "comment"
	FoldingRangeKindImports FoldingRangeKind = "imports"
	FoldingRangeKindRegion  FoldingRangeKind = "region"
)

// FoldingRangeParams are parameters for textDocument/foldingRange.
type FoldingRangeParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

// FoldingRange is a server-reported collapsible region.
type FoldingRange struct {
	StartLine      uint32           `json:"startLine"`
	StartCharacter *uint32          `json:"startCharacter,omitempty"`
	EndLine        uint32           `json:"endLine"`
	EndCharacter   *uint32          `json:"endCharacter,omitempty"`
	Kind           FoldingRangeKind `json:"kind,omitempty"`
	CollapsedText  string           `json:"collapsedText,omitempty"`
}

// --- Server request methods ---

// SemanticTokensFull requests semantic tokens for the whole document.
// A nil result with a nil error means the server answered null, which
// callers must treat as "keep whatever you had", not "clear".
func (s *Server) SemanticTokensFull(ctx context.Context, path string) (*SemanticTokens, error) {
	if s.Status() != ServerStatusReady {
		return nil, ErrServerNotReady
	}

	if s.capabilities.SemanticTokensProvider == nil {
		return nil, ErrNotSupported
	}

	params := SemanticTokensParams{
		TextDocument: TextDocumentIdentifier{URI: FilePathToURI(path)},
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	var result *SemanticTokens
	if err := s.transport.Call(ctx, "textDocument/semanticTokens/full", params, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// SemanticTokensLegend returns the legend negotiated at initialize, or
// false if the server does not provide semantic tokens.
func (s *Server) SemanticTokensLegend() (SemanticTokensLegend, bool) {
	if s.capabilities.SemanticTokensProvider == nil {
		return SemanticTokensLegend{}, false
	}
	return s.capabilities.SemanticTokensProvider.Legend, true
}

// InlayHints requests inlay hints for a range of the document.
func (s *Server) InlayHints(ctx context.Context, path string, rng Range) ([]InlayHint, error) {
	if s.Status() != ServerStatusReady {
		return nil, ErrServerNotReady
	}

	if !HasCapability(s.capabilities.InlayHintProvider) {
		return nil, ErrNotSupported
	}

	params := InlayHintParams{
		TextDocument: TextDocumentIdentifier{URI: FilePathToURI(path)},
		Range:        rng,
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	var result []InlayHint
	if err := s.transport.Call(ctx, "textDocument/inlayHint", params, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// FoldingRanges requests folding ranges for the document.
func (s *Server) FoldingRanges(ctx context.Context, path string) ([]FoldingRange, error) {
	if s.Status() != ServerStatusReady {
		return nil, ErrServerNotReady
	}

	if !HasCapability(s.capabilities.FoldingRangeProvider) {
		return nil, ErrNotSupported
	}

	params := FoldingRangeParams{
		TextDocument: TextDocumentIdentifier{URI: FilePathToURI(path)},
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	var result []FoldingRange
	if err := s.transport.Call(ctx, "textDocument/foldingRange", params, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// --- Per-path monotonic token cache ---

type tokenCacheEntry struct {
	version int
	tokens  []SemanticToken
}

// TokenCache holds the most recent semantic tokens per path, keyed by
// document version. The cache is monotonic: a write for an older
// version than the one stored is ignored, and a null/absent result
// never clears what a previous response delivered.
type TokenCache struct {
	mu      sync.RWMutex
	entries map[string]tokenCacheEntry
}

// NewTokenCache returns an empty cache.
func NewTokenCache() *TokenCache {
	return &TokenCache{entries: make(map[string]tokenCacheEntry)}
}

// Put stores tokens for path at version. Returns false when the write
// was rejected: tokens is nil (a null response must not clear the
// cache) or version is older than the stored entry.
func (tc *TokenCache) Put(path string, version int, tokens []SemanticToken) bool {
	if tokens == nil {
		return false
	}
	tc.mu.Lock()
	defer tc.mu.Unlock()
	if cur, ok := tc.entries[path]; ok && version < cur.version {
		return false
	}
	tc.entries[path] = tokenCacheEntry{version: version, tokens: tokens}
	return true
}

// Get returns the cached tokens and their version for path.
func (tc *TokenCache) Get(path string) ([]SemanticToken, int, bool) {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	e, ok := tc.entries[path]
	if !ok {
		return nil, 0, false
	}
	return e.tokens, e.version, true
}

// Remove drops the cached tokens for path; called when the document
// closes.
func (tc *TokenCache) Remove(path string) {
	tc.mu.Lock()
	delete(tc.entries, path)
	tc.mu.Unlock()
}

// --- Manager passthroughs ---

// SemanticTokens requests, decodes, and caches semantic tokens for an
// open document. version tags the cache entry so a stale in-flight
// response cannot clobber tokens from a newer edit. On a null result
// or a server error the previously cached tokens are returned instead.
func (m *Manager) SemanticTokens(ctx context.Context, path string, version int) ([]SemanticToken, error) {
	server, err := m.ServerForFile(ctx, path)
	if err != nil {
		return m.cachedTokens(path, err)
	}
	raw, err := server.SemanticTokensFull(ctx, path)
	if err != nil || raw == nil {
		return m.cachedTokens(path, err)
	}
	legend, _ := server.SemanticTokensLegend()
	tokens := DecodeSemanticTokens(raw.Data, legend)
	m.tokens.Put(path, version, tokens)
	return tokens, nil
}

// cachedTokens falls back to the cache, suppressing err when a cached
// answer exists.
func (m *Manager) cachedTokens(path string, err error) ([]SemanticToken, error) {
	if cached, _, ok := m.tokens.Get(path); ok {
		return cached, nil
	}
	return nil, err
}

// CachedSemanticTokens returns the cached tokens for path without
// touching the server.
func (m *Manager) CachedSemanticTokens(path string) ([]SemanticToken, int, bool) {
	return m.tokens.Get(path)
}

// InlayHints requests inlay hints for a range of an open document.
func (m *Manager) InlayHints(ctx context.Context, path string, rng Range) ([]InlayHint, error) {
	server, err := m.ServerForFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return server.InlayHints(ctx, path, rng)
}

// FoldingRanges requests folding ranges for an open document.
func (m *Manager) FoldingRanges(ctx context.Context, path string) ([]FoldingRange, error) {
	server, err := m.ServerForFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return server.FoldingRanges(ctx, path)
}
