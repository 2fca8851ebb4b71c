package bus

import (
	"os"
	"sync"
	"syscall"
)

// Wakeup is a self-pipe used to unblock a poll()-driven front-end loop
// whenever an Action is pushed onto the bus from another goroutine.
// The write end is safe to share across goroutines; the read end is
// meant for a single consumer (the front end) and is non-blocking so
// Drain never stalls the event loop.
type Wakeup struct {
	mu       sync.Mutex
	r, w     *os.File
	rfd      int
	draining sync.Once
}

// NewWakeup opens the pipe pair and sets the read end non-blocking.
func NewWakeup() (*Wakeup, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	rfd := int(r.Fd())
	if err := syscall.SetNonblock(rfd, true); err != nil {
		r.Close()
		w.Close()
		return nil, err
	}
	return &Wakeup{r: r, w: w, rfd: rfd}, nil
}

// ReadFD returns the file descriptor a poll()/select() loop should
// register for readability.
func (wk *Wakeup) ReadFD() int {
	return wk.rfd
}

// Poke writes a single byte to the pipe, waking the consumer's poll.
// Safe to call concurrently from any subsystem; a full pipe buffer
// (the consumer hasn't drained yet) is not an error — the wake-up is
// already pending.
func (wk *Wakeup) Poke() {
	wk.mu.Lock()
	defer wk.mu.Unlock()
	if wk.w == nil {
		return
	}
	var buf [1]byte
	_, _ = wk.w.Write(buf[:])
}

// Drain reads and discards every byte currently queued, returning once
// the pipe reports EAGAIN (level-triggered: the caller should call
// Drain once per wake, then process however many Actions are queued on
// the channel, not one wake per Action).
func (wk *Wakeup) Drain() {
	var buf [4096]byte
	for {
		n, err := syscall.Read(wk.rfd, buf[:])
		if n == 0 || err != nil {
			return
		}
	}
}

// Close releases both pipe ends. Safe to call more than once.
func (wk *Wakeup) Close() error {
	wk.mu.Lock()
	defer wk.mu.Unlock()
	var err error
	if wk.w != nil {
		err = wk.w.Close()
		wk.w = nil
	}
	if wk.r != nil {
		if e := wk.r.Close(); err == nil {
			err = e
		}
		wk.r = nil
	}
	return err
}
