// Package store owns the canonical document. Every mutation flows through
// its API: each setter pushes the pre-mutation snapshot onto the history
// engine, computes the new tree through the pure operations in
// internal/doc, swaps the document reference, marks it dirty, and then
// notifies subscribers. No component outside this package ever splices the
// tree directly.
package store

import (
	"sync"

	"github.com/agentic-research/opal/internal/doc"
	"github.com/agentic-research/opal/internal/history"
)

// Op names the mutation category carried by a change event.
type Op string

const (
	OpReset     Op = "reset"
	OpAdd       Op = "add"
	OpUpdate    Op = "update"
	OpRemove    Op = "remove"
	OpMove      Op = "move"
	OpReorder   Op = "reorder"
	OpDuplicate Op = "duplicate"
	OpGroup     Op = "group"
	OpUngroup   Op = "ungroup"
	OpResize    Op = "resize"
	OpRotate    Op = "rotate"
	OpVariable  Op = "variable"
	OpPage      Op = "page"
	OpComponent Op = "component"
	OpUndo      Op = "undo"
	OpRedo      Op = "redo"
)

// Event describes one committed mutation. Ops that rewrite derived state
// (undo, redo, variable changes, transform propagation) must win over any
// stale interactive edit the subscriber has in flight.
type Event struct {
	Op  Op
	IDs []string
}

// Authoritative reports whether the event's origin overrides pending
// interactive scene state.
func (e Event) Authoritative() bool {
	switch e.Op {
	case OpUndo, OpRedo, OpVariable, OpResize, OpRotate, OpReset:
		return true
	}
	return false
}

// Subscriber receives change events synchronously, after the mutation has
// fully committed.
type Subscriber func(Event)

// Store is the sole mutation surface for a document. Subscribers are
// injected per instance; there is no process-wide store.
type Store struct {
	mu          sync.RWMutex
	doc         *doc.Document
	hist        *history.Engine
	activePage  int
	activeTheme map[string]string
	gap         float64
	dirty       bool
	subs        []Subscriber
}

// New returns a store owning the given document. A nil document starts an
// empty untitled one. historyLimit <= 0 selects the default bound.
func New(d *doc.Document, historyLimit int) *Store {
	if d == nil {
		d = doc.New("Untitled")
	}
	return &Store{doc: d, hist: history.New(historyLimit), gap: doc.DuplicateGap}
}

// SetDuplicateGap overrides the horizontal spacing used when placing
// duplicates and new instances. Values <= 0 restore the default.
func (s *Store) SetDuplicateGap(gap float64) {
	s.mu.Lock()
	if gap <= 0 {
		gap = doc.DuplicateGap
	}
	s.gap = gap
	s.mu.Unlock()
}

// Subscribe registers a change subscriber. Subscribers run synchronously
// in registration order within the mutating call, after commit.
func (s *Store) Subscribe(fn Subscriber) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// Document returns the canonical document. Callers get a read-only view;
// mutating it outside the store's API is a contract violation.
func (s *Store) Document() *doc.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

// Children returns the active page's node list.
func (s *Store) Children() []*doc.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.PageChildren(s.activePage)
}

// Find returns the node with the given id on the active page.
func (s *Store) Find(id string) *doc.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return doc.Find(s.doc.PageChildren(s.activePage), id)
}

// ActivePage returns the current page index (always 0 for single-page
// documents).
func (s *Store) ActivePage() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activePage
}

// ActiveTheme returns the current theme selection used for variable
// resolution.
func (s *Store) ActiveTheme() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeTheme
}

// SetActiveTheme changes the theme selection. This is view state, not
// document state: no history entry, but subscribers re-resolve.
func (s *Store) SetActiveTheme(theme map[string]string) {
	s.mu.Lock()
	s.activeTheme = theme
	s.mu.Unlock()
	s.notify(Event{Op: OpVariable})
}

// Dirty reports whether the document has unsaved changes.
func (s *Store) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

// MarkSaved clears the dirty flag after a successful save.
func (s *Store) MarkSaved() {
	s.mu.Lock()
	s.dirty = false
	s.mu.Unlock()
}

// Reset replaces the document wholesale (new-document / open-document)
// and clears history.
func (s *Store) Reset(d *doc.Document) {
	if d == nil {
		d = doc.New("Untitled")
	}
	s.mu.Lock()
	s.doc = d
	s.activePage = 0
	s.dirty = false
	s.hist.Clear()
	s.mu.Unlock()
	s.notify(Event{Op: OpReset})
}

// BeginInteraction opens a history batch for a continuous gesture
// (drag/resize/rotate): however many commits the gesture produces, undo
// treats it as one step.
func (s *Store) BeginInteraction() {
	s.mu.Lock()
	s.hist.BeginBatch()
	s.mu.Unlock()
}

// EndInteraction closes the gesture batch.
func (s *Store) EndInteraction() {
	s.mu.Lock()
	s.hist.EndBatch()
	s.mu.Unlock()
}

// Undo restores the most recent snapshot. Returns false when history is
// empty.
func (s *Store) Undo() bool {
	s.mu.Lock()
	prev := s.hist.Undo(s.doc)
	if prev == nil {
		s.mu.Unlock()
		return false
	}
	s.doc = prev
	s.clampActivePage()
	s.dirty = true
	s.mu.Unlock()
	s.notify(Event{Op: OpUndo})
	return true
}

// Redo reapplies the most recently undone mutation.
func (s *Store) Redo() bool {
	s.mu.Lock()
	next := s.hist.Redo(s.doc)
	if next == nil {
		s.mu.Unlock()
		return false
	}
	s.doc = next
	s.clampActivePage()
	s.dirty = true
	s.mu.Unlock()
	s.notify(Event{Op: OpRedo})
	return true
}

// CanUndo reports whether undo is available.
func (s *Store) CanUndo() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hist.CanUndo()
}

// CanRedo reports whether redo is available.
func (s *Store) CanRedo() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hist.CanRedo()
}

// commit finalizes a mutation under lock: pre-mutation snapshot into
// history, new children list in, dirty flag on. Callers notify after
// unlocking.
func (s *Store) commit(snapshot *doc.Document, children []*doc.Node) {
	s.hist.Push(snapshot)
	s.doc.SetPageChildren(s.activePage, children)
	s.dirty = true
}

func (s *Store) clampActivePage() {
	if s.doc.MultiPage() {
		if s.activePage >= len(s.doc.Pages) {
			s.activePage = len(s.doc.Pages) - 1
		}
		return
	}
	s.activePage = 0
}

// notify runs outside the store lock so subscribers may call back into
// the store. Re-entrancy across the scene boundary is the sync engine's
// job to guard.
func (s *Store) notify(ev Event) {
	s.mu.RLock()
	subs := make([]Subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()
	for _, fn := range subs {
		fn(ev)
	}
}
