// Package bus implements the concurrency spine's message bus: a
// typed, many-producer/single-consumer channel of Actions from every
// async subsystem (search, LSP, file watcher, git, terminal) back to
// the store, paired with a self-pipe wake-up so a poll()-driven
// front-end loop unblocks as soon as an Action is available.
package bus

// Sender is the producer half of the bus. It is safe to clone (every
// subsystem gets its own copy) and to use concurrently from any number
// of goroutines.
type Sender[T any] struct {
	ch     chan T
	wakeup *Wakeup
}

// Receiver is the single-consumer half of the bus. Only the front end
// should hold one: any subsystem may push, but only the front end
// drains.
type Receiver[T any] struct {
	ch     chan T
	wakeup *Wakeup
}

// New creates a bounded bus of capacity size and its own wake-up pipe.
// A nil Wakeup is substituted (Poke/Drain become no-ops) if the pipe
// cannot be opened, so headless/test environments without pipe support
// still get a working channel.
func New[T any](size int) (Sender[T], Receiver[T]) {
	ch := make(chan T, size)
	wk, err := NewWakeup()
	if err != nil {
		wk = nil
	}
	return Sender[T]{ch: ch, wakeup: wk}, Receiver[T]{ch: ch, wakeup: wk}
}

// Send enqueues msg and pokes the wake-up pipe. It never blocks past
// the channel's buffer: if the buffer is full, Send blocks the caller
// (an async subsystem goroutine), exactly like an unbuffered handoff
// would, but does not drop messages — dropping an Action silently
// would break delivery ordering.
func (s Sender[T]) Send(msg T) {
	s.ch <- msg
	if s.wakeup != nil {
		s.wakeup.Poke()
	}
}

// TrySend enqueues msg without blocking, reporting false if the
// channel's buffer is full. Used by subsystems (e.g. the tree search
// service) that would rather drop-to-cancelled than stall a worker
// goroutine.
func (s Sender[T]) TrySend(msg T) bool {
	select {
	case s.ch <- msg:
		if s.wakeup != nil {
			s.wakeup.Poke()
		}
		return true
	default:
		return false
	}
}

// C exposes the underlying channel for direct select-based draining,
// e.g. from within a poll()-driven event loop alongside other fds.
func (r Receiver[T]) C() <-chan T {
	return r.ch
}

// WakeupFD returns the read end of the wake-up pipe, or -1 if none is
// available.
func (r Receiver[T]) WakeupFD() int {
	if r.wakeup == nil {
		return -1
	}
	return r.wakeup.ReadFD()
}

// DrainWakeup clears the wake-up pipe's pending byte count. Call once
// per poll() wake before draining C(), since multiple Sends can have
// coalesced into a single wake-up.
func (r Receiver[T]) DrainWakeup() {
	if r.wakeup != nil {
		r.wakeup.Drain()
	}
}

// Recv drains up to max pending messages without blocking (used after
// a poll() wake to pull everything queued in one pass). Returns fewer
// than max if the channel went empty first.
func (r Receiver[T]) Recv(max int) []T {
	out := make([]T, 0, max)
	for len(out) < max {
		select {
		case m := <-r.ch:
			out = append(out, m)
		default:
			return out
		}
	}
	return out
}

// Close releases the shared wake-up pipe. Wakeup.Close is itself
// idempotent, so calling this more than once (or from both the sender
// and receiver side) is safe; subsequent Sends after Close will still
// enqueue onto the channel but no longer poke a wake-up.
func (r Receiver[T]) Close() error {
	if r.wakeup == nil {
		return nil
	}
	return r.wakeup.Close()
}
