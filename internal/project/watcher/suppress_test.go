package watcher

import (
	"testing"
	"time"
)

// fixedClock lets suppression tests step time without sleeping.
type fixedClock struct {
	now time.Time
}

func (c *fixedClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestSuppressor(c *fixedClock) *Suppressor {
	s := NewSuppressor()
	s.nowFunc = func() time.Time { return c.now }
	return s
}

func TestSuppressorWindow(t *testing.T) {
	clock := &fixedClock{now: time.Unix(1000, 0)}
	s := newTestSuppressor(clock)

	if s.ShouldSuppress("/f") {
		t.Fatal("suppressed before SuppressNext")
	}

	s.SuppressNext("/f")
	if !s.ShouldSuppress("/f") {
		t.Fatal("not suppressed inside window")
	}
	if s.ShouldSuppress("/g") {
		t.Fatal("unrelated path suppressed")
	}

	clock.advance(499 * time.Millisecond)
	if !s.ShouldSuppress("/f") {
		t.Fatal("window expired early")
	}

	clock.advance(2 * time.Millisecond)
	if s.ShouldSuppress("/f") {
		t.Fatal("window did not expire")
	}
}

func TestSuppressorEvict(t *testing.T) {
	clock := &fixedClock{now: time.Unix(1000, 0)}
	s := newTestSuppressor(clock)

	s.SuppressNext("/a")
	s.SuppressNext("/b")
	clock.advance(time.Second)
	s.Evict()

	s.mu.Lock()
	n := len(s.until)
	s.mu.Unlock()
	if n != 0 {
		t.Fatalf("%d stale entries after Evict", n)
	}
}

func drainOf(t *testing.T, events []Event, s *Suppressor) []Change {
	t.Helper()
	ch := make(chan Event, len(events)+1)
	for _, ev := range events {
		ch <- ev
	}
	return NewDrainer(ch, s).Drain()
}

func TestDrainCoalescesModified(t *testing.T) {
	events := []Event{
		{Path: "/f", Op: OpWrite},
		{Path: "/f", Op: OpWrite},
		{Path: "/f", Op: OpChmod},
		{Path: "/g", Op: OpCreate},
	}
	got := drainOf(t, events, nil)
	want := []Change{
		{Path: "/f", Kind: ChangeModified},
		{Path: "/g", Kind: ChangeModified},
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("change %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDrainModifiedDedupKeepsRemoved(t *testing.T) {
	// A Modified followed by a Removed of the same path must deliver
	// both; dedup only collapses within a kind.
	events := []Event{
		{Path: "/f", Op: OpWrite},
		{Path: "/f", Op: OpWrite},
		{Path: "/f", Op: OpRemove},
	}
	got := drainOf(t, events, nil)
	if len(got) != 2 {
		t.Fatalf("got %v, want modified+removed", got)
	}
	if got[0].Kind != ChangeModified || got[1].Kind != ChangeRemoved {
		t.Fatalf("got %v", got)
	}
}

func TestDrainRenameIsRemoved(t *testing.T) {
	got := drainOf(t, []Event{{Path: "/f", Op: OpRename}}, nil)
	if len(got) != 1 || got[0].Kind != ChangeRemoved {
		t.Fatalf("got %v", got)
	}
}

func TestDrainSuppressesSelfInducedModify(t *testing.T) {
	clock := &fixedClock{now: time.Unix(1000, 0)}
	s := newTestSuppressor(clock)
	s.SuppressNext("/f")

	events := []Event{
		{Path: "/f", Op: OpWrite},  // reflection of our own write
		{Path: "/g", Op: OpWrite},  // unrelated
		{Path: "/f", Op: OpRemove}, // removal is never suppressed
	}
	got := drainOf(t, events, s)
	if len(got) != 2 {
		t.Fatalf("got %v", got)
	}
	if got[0] != (Change{Path: "/g", Kind: ChangeModified}) {
		t.Errorf("got[0] = %v", got[0])
	}
	if got[1] != (Change{Path: "/f", Kind: ChangeRemoved}) {
		t.Errorf("got[1] = %v", got[1])
	}
}

func TestDrainEvictsExpiredSuppressions(t *testing.T) {
	clock := &fixedClock{now: time.Unix(1000, 0)}
	s := newTestSuppressor(clock)
	s.SuppressNext("/stale")
	clock.advance(time.Second)

	drainOf(t, nil, s)

	s.mu.Lock()
	n := len(s.until)
	s.mu.Unlock()
	if n != 0 {
		t.Fatalf("%d suppressions survived drain", n)
	}
}

func TestDrainEmpty(t *testing.T) {
	if got := drainOf(t, nil, nil); got != nil {
		t.Fatalf("got %v, want nil", got)
	}
}
