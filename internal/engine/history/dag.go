package history

import (
	"errors"
	"sync"
	"time"

	"github.com/dshills/zcode/internal/engine/buffer"
	"github.com/dshills/zcode/internal/engine/cursor"
)

// Common errors for history operations.
var (
	ErrNothingToUndo  = errors.New("nothing to undo")
	ErrNothingToRedo  = errors.New("nothing to redo")
	ErrUnknownOp      = errors.New("unknown history operation")
	ErrUnreachableOp  = errors.New("operation is not reachable from the root")
)

// node is a single entry in the history DAG: a command, the edit it
// performed, and a pointer to the state it was applied on top of.
type node struct {
	id        OpId
	parent    OpId
	cmd       Command
	timestamp time.Time
}

// History tracks edits as a DAG rather than a linear stack: undoing and
// then making a new edit does not discard the undone branch, it creates a
// sibling. Redo follows whichever child of the current node was most
// recently reached, and Checkout can jump directly to any node by
// replaying the inverse path up to the lowest common ancestor and the
// forward path back down.
//
// Grouping (BeginGroup/EndGroup) produces a single CompoundCommand node.
type History struct {
	mu sync.Mutex

	nodes    map[OpId]*node
	children map[OpId][]OpId
	// lastChild records, for each node, which child was most recently
	// reached (by Execute or by Checkout) — used to pick the branch a
	// plain Redo should follow.
	lastChild map[OpId]OpId

	head OpId

	savePoint    OpId
	hasSavePoint bool

	// Grouping state, unchanged from the stack-based History.
	grouping  bool
	groupName string
	groupCmds []Command
}

// NewHistory creates a history DAG rooted at the buffer's initial state.
func NewHistory() *History {
	return &History{
		nodes:     make(map[OpId]*node),
		children:  make(map[OpId][]OpId),
		lastChild: make(map[OpId]OpId),
		head:      RootOpId(),
	}
}

// Head returns the id of the node the buffer currently reflects.
func (h *History) Head() OpId {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.head
}

// Execute runs cmd against buf/cursors and records it as a new child of the
// current head, branching off any undone redo path rather than discarding it.
func (h *History) Execute(cmd Command, buf *buffer.Buffer, cursors *cursor.CursorSet) error {
	if err := cmd.Execute(buf, cursors); err != nil {
		return err
	}
	h.push(cmd)
	return nil
}

// Push records cmd as a new child of the head without executing it: the
// caller has already applied its effect directly to the buffer (for
// example via Buffer.Insert) and wants it tracked for undo/redo.
func (h *History) Push(cmd Command) {
	h.push(cmd)
}

// push records cmd as a new node without executing it (it has already been
// applied to the buffer by the caller).
func (h *History) push(cmd Command) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.grouping {
		h.groupCmds = append(h.groupCmds, cmd)
		return
	}
	h.pushLocked(cmd)
}

func (h *History) pushLocked(cmd Command) {
	id := NewOpId()
	n := &node{id: id, parent: h.head, cmd: cmd, timestamp: time.Now()}
	h.nodes[id] = n
	h.children[h.head] = append(h.children[h.head], id)
	h.lastChild[h.head] = id
	h.head = id
}

// CanUndo reports whether the head has a non-root parent.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return !h.head.IsRoot()
}

// CanRedo reports whether the head has any children.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.children[h.head]) > 0
}

// Undo reverses the head node's command and moves the head to its parent.
// The lock is released during command execution, so the mutex is not held
// across buffer work.
func (h *History) Undo(buf *buffer.Buffer, cursors *cursor.CursorSet) error {
	h.mu.Lock()
	if h.head.IsRoot() {
		h.mu.Unlock()
		return ErrNothingToUndo
	}
	n := h.nodes[h.head]
	parent := n.parent
	h.mu.Unlock()

	if err := n.cmd.Undo(buf, cursors); err != nil {
		return err
	}

	h.mu.Lock()
	h.head = parent
	h.mu.Unlock()
	return nil
}

// Redo re-applies the most-recently-reached child of the head. If the
// current node branches (the user undid, then made an edit, creating a
// sibling of a previously-undone node), Redo follows whichever child was
// reached last rather than an arbitrary one.
func (h *History) Redo(buf *buffer.Buffer, cursors *cursor.CursorSet) error {
	h.mu.Lock()
	childID, ok := h.lastChild[h.head]
	if !ok {
		kids := h.children[h.head]
		if len(kids) == 0 {
			h.mu.Unlock()
			return ErrNothingToRedo
		}
		childID = kids[len(kids)-1]
	}
	n := h.nodes[childID]
	h.mu.Unlock()

	if err := n.cmd.Execute(buf, cursors); err != nil {
		return err
	}

	h.mu.Lock()
	h.head = childID
	h.lastChild[n.parent] = childID
	h.mu.Unlock()
	return nil
}

// ChildrenOf returns the direct children of id, in the order they were
// created.
func (h *History) ChildrenOf(id OpId) []OpId {
	h.mu.Lock()
	defer h.mu.Unlock()
	kids := h.children[id]
	out := make([]OpId, len(kids))
	copy(out, kids)
	return out
}

// ancestorChain returns id's ancestor path from id up to (and including)
// the root, as a slice ordered [id, parent(id), ..., root].
func (h *History) ancestorChain(id OpId) ([]OpId, error) {
	chain := []OpId{id}
	cur := id
	for !cur.IsRoot() {
		n, ok := h.nodes[cur]
		if !ok {
			return nil, ErrUnknownOp
		}
		cur = n.parent
		chain = append(chain, cur)
	}
	return chain, nil
}

// Checkout moves the buffer directly to the state at target, undoing back
// to the lowest common ancestor of the current head and target, then
// replaying forward to target. It updates lastChild along the forward path
// so a subsequent plain Redo continues toward target's branch.
func (h *History) Checkout(target OpId, buf *buffer.Buffer, cursors *cursor.CursorSet) error {
	h.mu.Lock()
	if _, ok := h.nodes[target]; !ok && !target.IsRoot() {
		h.mu.Unlock()
		return ErrUnknownOp
	}

	headChain, err := h.ancestorChain(h.head)
	if err != nil {
		h.mu.Unlock()
		return err
	}
	targetChain, err := h.ancestorChain(target)
	if err != nil {
		h.mu.Unlock()
		return err
	}

	headAncestors := make(map[OpId]int, len(headChain))
	for i, id := range headChain {
		headAncestors[id] = i
	}

	var lca OpId
	var lcaIdxInTarget int
	found := false
	for i, id := range targetChain {
		if _, ok := headAncestors[id]; ok {
			lca = id
			lcaIdxInTarget = i
			found = true
			break
		}
	}
	if !found {
		h.mu.Unlock()
		return ErrUnreachableOp
	}

	// Nodes to undo: head's chain up to (not including) the LCA.
	var undoPath []*node
	for _, id := range headChain {
		if id == lca {
			break
		}
		undoPath = append(undoPath, h.nodes[id])
	}

	// Nodes to apply forward: target's chain from just above the LCA down
	// to target, i.e. targetChain[lcaIdxInTarget-1 .. 0] in that order.
	var forwardPath []*node
	for i := lcaIdxInTarget - 1; i >= 0; i-- {
		forwardPath = append(forwardPath, h.nodes[targetChain[i]])
	}
	h.mu.Unlock()

	for _, n := range undoPath {
		if err := n.cmd.Undo(buf, cursors); err != nil {
			return err
		}
	}
	for _, n := range forwardPath {
		if err := n.cmd.Execute(buf, cursors); err != nil {
			return err
		}
	}

	h.mu.Lock()
	h.head = target
	cur := lca
	for i := lcaIdxInTarget - 1; i >= 0; i-- {
		h.lastChild[cur] = targetChain[i]
		cur = targetChain[i]
	}
	h.mu.Unlock()
	return nil
}

// Log returns the path from the current head back to the root, most
// recent first.
func (h *History) Log() []OpId {
	h.mu.Lock()
	defer h.mu.Unlock()
	chain, err := h.ancestorChain(h.head)
	if err != nil {
		return nil
	}
	// ancestorChain includes the root; Log reports edits only.
	if len(chain) > 0 && chain[len(chain)-1].IsRoot() {
		chain = chain[:len(chain)-1]
	}
	return chain
}

// Description returns the human-readable description of id's command, or
// "" if id is unknown or the root.
func (h *History) Description(id OpId) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	n, ok := h.nodes[id]
	if !ok {
		return ""
	}
	return n.cmd.Description()
}

// BeginGroup starts a command group; commands executed while grouping are
// combined into one CompoundCommand node on EndGroup.
func (h *History) BeginGroup(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.grouping {
		return
	}
	h.grouping = true
	h.groupName = name
	h.groupCmds = nil
}

// EndGroup finishes a command group.
func (h *History) EndGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.grouping {
		return
	}
	h.grouping = false
	if len(h.groupCmds) == 0 {
		h.groupCmds = nil
		return
	}
	compound := &CompoundCommand{Name: h.groupName, Commands: h.groupCmds}
	h.pushLocked(compound)
	h.groupCmds = nil
}

// CancelGroup cancels a command group without adding a node. Commands
// already executed still affect the buffer.
func (h *History) CancelGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.grouping = false
	h.groupCmds = nil
}

// IsGrouping reports whether a group is open.
func (h *History) IsGrouping() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.grouping
}

// MarkSavePoint records the current head as the buffer's saved state (for
// example right after writing to disk).
func (h *History) MarkSavePoint() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.savePoint = h.head
	h.hasSavePoint = true
}

// IsAtSavePoint reports whether the head is exactly the last-marked save
// point. Returns false if no save point has been marked.
func (h *History) IsAtSavePoint() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hasSavePoint && h.head == h.savePoint
}

// UndoCount returns the number of edits between the head and the root.
func (h *History) UndoCount() int {
	return len(h.Log())
}

// RedoCount returns the number of branches available from the head (1 in
// the common case of a single redo path, 0 if there is nothing to redo,
// more if Undo left multiple sibling branches reachable via Checkout).
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.children[h.head])
}

// Reset discards all history and returns to a fresh root, as when the
// buffer's content is replaced wholesale (Clear, SetContent).
func (h *History) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nodes = make(map[OpId]*node)
	h.children = make(map[OpId][]OpId)
	h.lastChild = make(map[OpId]OpId)
	h.head = RootOpId()
	h.hasSavePoint = false
	h.savePoint = RootOpId()
	h.grouping = false
	h.groupName = ""
	h.groupCmds = nil
}
