package history

import (
	"fmt"
	"sync/atomic"
	"time"
)

// OpId identifies a node in the history DAG. It pairs a millisecond
// timestamp with a monotonic counter so ids sort close to creation order
// even though the counter alone would not be unique across restarts.
type OpId struct {
	Timestamp uint64
	Counter   uint16
}

var opCounter uint32

// NewOpId returns a fresh, unique OpId.
func NewOpId() OpId {
	c := atomic.AddUint32(&opCounter, 1)
	return OpId{
		Timestamp: uint64(time.Now().UnixMilli()),
		Counter:   uint16(c),
	}
}

// RootOpId is the OpId of the implicit root of every history DAG: the
// buffer state before any tracked edit.
func RootOpId() OpId {
	return OpId{}
}

// IsRoot reports whether id is the implicit root.
func (id OpId) IsRoot() bool {
	return id.Timestamp == 0 && id.Counter == 0
}

// String returns a compact hex representation, e.g. "18f3a2b9c40:0007".
func (id OpId) String() string {
	return fmt.Sprintf("%x:%04x", id.Timestamp, id.Counter)
}
