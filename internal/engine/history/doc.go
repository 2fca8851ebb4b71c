// Package history provides undo/redo functionality for the text editor engine.
//
// The history system uses the Command pattern to encapsulate edit operations,
// enabling them to be executed, undone, and redone. Key concepts:
//
// # Operations
//
// An Operation represents a single atomic edit with before/after state:
//   - The range that was modified
//   - The old and new text
//   - Cursor positions before and after
//
// # Commands
//
// Commands implement the Command interface with Execute and Undo methods.
// Built-in commands include:
//   - InsertCommand: Insert text at cursor positions
//   - DeleteCommand: Delete selected text or characters
//   - ReplaceCommand: Replace text in a range
//   - CompoundCommand: Group multiple commands as one undo unit
//
// # History DAG
//
// The History type tracks commands as a DAG rather than a linear stack.
// Undoing and then making a new edit does not discard the undone branch;
// it becomes a sibling of the node that was undone:
//
//	history := NewHistory()
//
//	// Execute commands
//	history.Execute(cmd, buffer, cursors)
//
//	// Undo/redo
//	history.Undo(buffer, cursors)
//	history.Redo(buffer, cursors)
//
//	// Jump straight to any node, even one on another branch
//	history.Checkout(opID, buffer, cursors)
//
// Redo follows whichever child of the current node was most recently
// reached, so the common case (undo, then redo, with no intervening edit)
// behaves exactly like a linear stack. ChildrenOf and Log expose the DAG
// structure to callers that want to present branch history to the user.
//
// # Command Grouping
//
// Multiple commands can be grouped as a single undo unit:
//
//	history.BeginGroup("Find and Replace")
//	// ... multiple edits ...
//	history.EndGroup()
//
// Now all edits undo together with one Ctrl+Z.
//
// # Cursor Restoration
//
// Commands track cursor positions before and after execution,
// enabling proper cursor restoration on undo/redo.
package history
