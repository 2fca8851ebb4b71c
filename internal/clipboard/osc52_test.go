package clipboard

import (
	"bytes"
	"strings"
	"testing"
)

func TestOSC52SetTextWrapsBaseSequence(t *testing.T) {
	var buf bytes.Buffer
	c := NewOSC52(&buf, false)

	if err := c.SetText("hello"); err != nil {
		t.Fatalf("SetText: %v", err)
	}

	got := buf.String()
	if !strings.HasPrefix(got, "\x1b]52;c;") {
		t.Fatalf("expected OSC52 copy prefix, got %q", got)
	}
	if !strings.HasSuffix(got, "\x07") {
		t.Fatalf("expected BEL terminator, got %q", got)
	}
}

func TestOSC52SetTextTmuxWrapped(t *testing.T) {
	var buf bytes.Buffer
	c := NewOSC52(&buf, true)

	if err := c.SetText("hi"); err != nil {
		t.Fatalf("SetText: %v", err)
	}

	got := buf.String()
	if !strings.HasPrefix(got, "\x1bPtmux;") {
		t.Fatalf("expected tmux DCS passthrough prefix, got %q", got)
	}
	if !strings.HasSuffix(got, "\x1b\\") {
		t.Fatalf("expected ST terminator, got %q", got)
	}
}

func TestOSC52SetTextTooLarge(t *testing.T) {
	var buf bytes.Buffer
	c := NewOSC52(&buf, false)

	big := strings.Repeat("x", MaxOSC52Bytes+1)
	err := c.SetText(big)
	if err == nil {
		t.Fatal("expected TooLarge error")
	}
}

func TestOSC52GetTextUnavailable(t *testing.T) {
	var buf bytes.Buffer
	c := NewOSC52(&buf, false)
	if _, err := c.GetText(); err == nil {
		t.Fatal("expected ClipboardUnavailable error")
	}
}
