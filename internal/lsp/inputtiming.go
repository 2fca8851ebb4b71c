package lsp

import (
	"strings"
	"sync"
	"time"
)

// Pipeline identifies one of the debounced derived-request pipelines
// that re-run after a document edit.
type Pipeline int

const (
	PipelineSemanticTokens Pipeline = iota
	PipelineInlayHints
	PipelineFoldingRange
)

// String returns the pipeline name for logs.
func (p Pipeline) String() string {
	switch p {
	case PipelineSemanticTokens:
		return "semantic-tokens"
	case PipelineInlayHints:
		return "inlay-hints"
	case PipelineFoldingRange:
		return "folding-range"
	}
	return "unknown"
}

// Trigger classifies the input event that caused a document change.
type Trigger int

const (
	// TriggerIdentifier is a typed identifier character; requests wait
	// for the per-pipeline identifier delay.
	TriggerIdentifier Trigger = iota
	// TriggerImmediate is a boundary character with boundary_immediate
	// set; requests fire at once.
	TriggerImmediate
	// TriggerDelete is a backward or forward deletion; requests wait
	// for the per-pipeline delete delay.
	TriggerDelete
)

// TimingConfig holds the trigger-classification inputs and the
// {pipeline} x {Identifier, Delete} millisecond tables. The zero value
// is not useful; start from DefaultTimingConfig.
type TimingConfig struct {
	BoundaryChars     string
	BoundaryImmediate bool

	Identifier map[Pipeline]time.Duration
	Delete     map[Pipeline]time.Duration
}

// DefaultTimingConfig returns the conservative defaults: semantic
// tokens resync fastest since they drive visible highlighting, folding
// ranges lag furthest since they only affect fold gutters.
func DefaultTimingConfig() TimingConfig {
	return TimingConfig{
		BoundaryChars:     " \t\n.,;:()[]{}",
		BoundaryImmediate: true,
		Identifier: map[Pipeline]time.Duration{
			PipelineSemanticTokens: 250 * time.Millisecond,
			PipelineInlayHints:     300 * time.Millisecond,
			PipelineFoldingRange:   500 * time.Millisecond,
		},
		Delete: map[Pipeline]time.Duration{
			PipelineSemanticTokens: 400 * time.Millisecond,
			PipelineInlayHints:     450 * time.Millisecond,
			PipelineFoldingRange:   650 * time.Millisecond,
		},
	}
}

// ClassifyChar classifies a typed character. Characters in the
// boundary list are Immediate when BoundaryImmediate is set; anything
// else debounces on the identifier table.
func (tc TimingConfig) ClassifyChar(r rune) Trigger {
	if tc.BoundaryImmediate && strings.ContainsRune(tc.BoundaryChars, r) {
		return TriggerImmediate
	}
	return TriggerIdentifier
}

// Delay returns the debounce delay for a pipeline/trigger pair.
// Immediate is always zero.
func (tc TimingConfig) Delay(p Pipeline, t Trigger) time.Duration {
	switch t {
	case TriggerImmediate:
		return 0
	case TriggerDelete:
		return tc.Delete[p]
	default:
		return tc.Identifier[p]
	}
}

// PipelineDebouncer coalesces derived-request scheduling per
// (path, pipeline): each new edit resets that pair's timer to the
// delay its trigger classifies to, so a burst of typing produces one
// request after the burst, not one per keystroke. An Immediate trigger
// runs synchronously with no timer.
type PipelineDebouncer struct {
	mu      sync.Mutex
	config  TimingConfig
	pending map[debounceKey]*time.Timer
	closed  bool
}

type debounceKey struct {
	path     string
	pipeline Pipeline
}

// NewPipelineDebouncer returns a debouncer using config's tables.
func NewPipelineDebouncer(config TimingConfig) *PipelineDebouncer {
	return &PipelineDebouncer{
		config:  config,
		pending: make(map[debounceKey]*time.Timer),
	}
}

// Schedule arranges for fn to run once the pipeline's delay for
// trigger has elapsed with no further Schedule calls for the same
// (path, pipeline). fn runs on a timer goroutine; it must not block.
func (d *PipelineDebouncer) Schedule(path string, p Pipeline, trigger Trigger, fn func()) {
	delay := d.config.Delay(p, trigger)
	if delay <= 0 {
		d.cancelKey(debounceKey{path: path, pipeline: p})
		fn()
		return
	}

	key := debounceKey{path: path, pipeline: p}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	if t, ok := d.pending[key]; ok {
		t.Stop()
	}
	d.pending[key] = time.AfterFunc(delay, func() {
		d.mu.Lock()
		delete(d.pending, key)
		closed := d.closed
		d.mu.Unlock()
		if !closed {
			fn()
		}
	})
}

// Cancel drops any pending request for (path, pipeline) without
// running it; used when the document closes mid-debounce.
func (d *PipelineDebouncer) Cancel(path string, p Pipeline) {
	d.cancelKey(debounceKey{path: path, pipeline: p})
}

// CancelPath drops every pending pipeline for path.
func (d *PipelineDebouncer) CancelPath(path string) {
	for _, p := range []Pipeline{PipelineSemanticTokens, PipelineInlayHints, PipelineFoldingRange} {
		d.cancelKey(debounceKey{path: path, pipeline: p})
	}
}

func (d *PipelineDebouncer) cancelKey(key debounceKey) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.pending[key]; ok {
		t.Stop()
		delete(d.pending, key)
	}
}

// Close cancels every pending timer and rejects further scheduling.
func (d *PipelineDebouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	for key, t := range d.pending {
		t.Stop()
		delete(d.pending, key)
	}
}

// PendingCount reports how many (path, pipeline) timers are armed.
func (d *PipelineDebouncer) PendingCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}
