package clipboard

import (
	"io"
	"os"

	"github.com/aymanbagabas/go-osc52/v2"

	"github.com/dshills/zcode/internal/kerr"
)

// MaxOSC52Bytes is the size above which the OSC52 backend refuses the
// write and the caller is expected to retry via a pasteboard backend
// instead. Many terminals cap OSC52 payloads well below
// MaxPasteboardBytes, so this limit is tighter.
const MaxOSC52Bytes = 100 * 1024

// OSC52 is a Clipboard backend that writes the terminal-passthrough
// OSC52 escape sequence to an output stream (normally the program's
// own stdout). It never reads: GetText always fails with
// ClipboardUnavailable, since OSC52 has no synchronous read channel a
// headless client can rely on.
type OSC52 struct {
	w    io.Writer
	tmux bool
}

// NewOSC52 builds an OSC52 backend writing to w. tmux should be true
// when running inside a tmux session, so the sequence is wrapped in
// tmux's DCS passthrough.
func NewOSC52(w io.Writer, tmux bool) *OSC52 {
	return &OSC52{w: w, tmux: tmux}
}

// DetectTmux reports whether the current process appears to be
// running under tmux, mirroring the TMUX environment variable check
// the original implementation uses.
func DetectTmux() bool {
	_, ok := os.LookupEnv("TMUX")
	return ok
}

// GetText always fails: OSC52 is write-only from this process's
// perspective.
func (o *OSC52) GetText() (string, error) {
	return "", kerr.New(kerr.ClipboardUnavailable, "osc52 backend cannot read the clipboard")
}

// SetText writes the OSC52 copy sequence for text.
func (o *OSC52) SetText(text string) error {
	if err := guardSize(text, MaxOSC52Bytes); err != nil {
		return err
	}

	seq := osc52.New(text).Clipboard(osc52.SystemClipboard)
	if o.tmux {
		seq = seq.Tmux()
	}
	if _, err := seq.WriteTo(o.w); err != nil {
		return kerr.Wrap(kerr.IO, "failed to write osc52 sequence", err)
	}
	return nil
}
