// Package clipboard defines the clipboard port the store's Effect
// handlers talk to and the backends that implement it. The core only
// depends on the Clipboard interface; backend selection (OS pasteboard
// vs. terminal OSC52 passthrough) is a front-end concern.
package clipboard

import (
	"github.com/dshills/zcode/internal/kerr"
)

// MaxPasteboardBytes is the size above which SetText refuses to copy
// text through any backend.
const MaxPasteboardBytes = 10 * 1024 * 1024

// Clipboard is the port reducers' WriteFile/SetClipboardText /
// RequestClipboardText effects are dispatched against. Implementations
// must not block the store thread; callers invoke it from an effect
// handler running on the async executor.
type Clipboard interface {
	// GetText reads the current clipboard contents.
	GetText() (string, error)
	// SetText replaces the clipboard contents.
	SetText(text string) error
}

// guardSize returns a TooLarge *kerr.Error if text exceeds limit, nil
// otherwise. Shared by every backend so the size policy lives in one
// place.
func guardSize(text string, limit int) error {
	if len(text) > limit {
		return kerr.New(kerr.TooLarge, "clipboard text exceeds size limit")
	}
	return nil
}
