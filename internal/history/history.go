// Package history keeps a bounded undo/redo stack of whole-document
// snapshots. Snapshots are in-memory only; they are cleared whenever a
// document is created or opened.
package history

import "github.com/agentic-research/opal/internal/doc"

// DefaultLimit caps the undo stack. Once full, the oldest snapshot is
// dropped and becomes unrecoverable.
const DefaultLimit = 300

// Engine is the undo/redo stack. Every mutation pushes the PRE-mutation
// snapshot, so undo restores exactly the state before the operation being
// undone. Not safe for concurrent use; the store serializes access.
type Engine struct {
	limit int
	undo  []*doc.Document
	redo  []*doc.Document

	// batchDepth > 0 while a drag-style interaction is in flight: only the
	// first push of the batch is recorded, so a continuous gesture costs
	// one history entry.
	batchDepth  int
	batchPushed bool
}

// New returns an engine bounded at limit snapshots. A non-positive limit
// selects DefaultLimit.
func New(limit int) *Engine {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Engine{limit: limit}
}

// Push records a pre-mutation snapshot and invalidates the redo stack.
func (e *Engine) Push(snapshot *doc.Document) {
	if e.batchDepth > 0 {
		if e.batchPushed {
			return
		}
		e.batchPushed = true
	}
	e.redo = e.redo[:0]
	e.undo = append(e.undo, snapshot)
	if len(e.undo) > e.limit {
		// Drop the oldest; shift rather than reslice so the backing array
		// does not pin every dropped snapshot.
		copy(e.undo, e.undo[1:])
		e.undo[len(e.undo)-1] = nil
		e.undo = e.undo[:len(e.undo)-1]
	}
}

// BeginBatch opens a drag batch. Batches nest; only the outermost pair
// matters.
func (e *Engine) BeginBatch() {
	if e.batchDepth == 0 {
		e.batchPushed = false
	}
	e.batchDepth++
}

// EndBatch closes a drag batch.
func (e *Engine) EndBatch() {
	if e.batchDepth > 0 {
		e.batchDepth--
	}
}

// Undo exchanges the current document for the most recent snapshot.
// Returns nil when there is nothing to undo.
func (e *Engine) Undo(current *doc.Document) *doc.Document {
	if len(e.undo) == 0 {
		return nil
	}
	top := e.undo[len(e.undo)-1]
	e.undo = e.undo[:len(e.undo)-1]
	e.redo = append(e.redo, current)
	return top
}

// Redo exchanges the current document for the most recently undone state.
// Returns nil when there is nothing to redo.
func (e *Engine) Redo(current *doc.Document) *doc.Document {
	if len(e.redo) == 0 {
		return nil
	}
	top := e.redo[len(e.redo)-1]
	e.redo = e.redo[:len(e.redo)-1]
	e.undo = append(e.undo, current)
	return top
}

// CanUndo reports whether an undo snapshot is available.
func (e *Engine) CanUndo() bool { return len(e.undo) > 0 }

// CanRedo reports whether a redo snapshot is available.
func (e *Engine) CanRedo() bool { return len(e.redo) > 0 }

// Depth returns the number of undoable states.
func (e *Engine) Depth() int { return len(e.undo) }

// Clear drops both stacks. Called on new-document and open-document.
func (e *Engine) Clear() {
	e.undo = nil
	e.redo = nil
	e.batchDepth = 0
	e.batchPushed = false
}
