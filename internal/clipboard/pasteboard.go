package clipboard

import (
	"bytes"
	"os/exec"
	"runtime"

	"github.com/dshills/zcode/internal/kerr"
)

// Pasteboard is a Clipboard backend that shells out to the host OS's
// clipboard utility (pbcopy/pbpaste on darwin, wl-copy/wl-paste or
// xclip/xsel on linux). It is the fallback backend when OSC52 either
// isn't supported by the terminal or a synchronous read is required.
type Pasteboard struct {
	copyCmd  []string
	pasteCmd []string
}

// NewPasteboard probes the host for a usable clipboard utility.
// ProviderNotFound is returned if none is found.
func NewPasteboard() (*Pasteboard, error) {
	pb := &Pasteboard{}
	switch runtime.GOOS {
	case "darwin":
		pb.copyCmd = []string{"pbcopy"}
		pb.pasteCmd = []string{"pbpaste"}
	case "linux":
		if path, err := exec.LookPath("wl-copy"); err == nil {
			pb.copyCmd = []string{path}
			pb.pasteCmd = []string{"wl-paste", "-n"}
			break
		}
		if path, err := exec.LookPath("xclip"); err == nil {
			pb.copyCmd = []string{path, "-selection", "clipboard"}
			pb.pasteCmd = []string{"xclip", "-selection", "clipboard", "-o"}
			break
		}
		if path, err := exec.LookPath("xsel"); err == nil {
			pb.copyCmd = []string{path, "--clipboard", "--input"}
			pb.pasteCmd = []string{"xsel", "--clipboard", "--output"}
			break
		}
	}
	if len(pb.copyCmd) == 0 {
		return nil, kerr.New(kerr.ProviderNotFound, "no system clipboard utility found")
	}
	return pb, nil
}

// GetText reads the system clipboard.
func (p *Pasteboard) GetText() (string, error) {
	cmd := exec.Command(p.pasteCmd[0], p.pasteCmd[1:]...)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", kerr.Wrap(kerr.ClipboardUnavailable, "paste command failed", err)
	}
	return out.String(), nil
}

// SetText writes text to the system clipboard.
func (p *Pasteboard) SetText(text string) error {
	if err := guardSize(text, MaxPasteboardBytes); err != nil {
		return err
	}
	cmd := exec.Command(p.copyCmd[0], p.copyCmd[1:]...)
	cmd.Stdin = bytes.NewReader([]byte(text))
	if err := cmd.Run(); err != nil {
		return kerr.Wrap(kerr.ClipboardUnavailable, "copy command failed", err)
	}
	return nil
}
