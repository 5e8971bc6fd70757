package store

import "github.com/agentic-research/opal/internal/doc"

// The component/instance system layers on the store: a container node
// flagged reusable becomes a definition, ref nodes bind to it by id and
// carry per-descendant override patches keyed by the definition's
// ORIGINAL descendant ids.

// MakeReusable flags a container node as a component definition. No-op
// when the node is already reusable or its variant cannot be a component.
func (s *Store) MakeReusable(id string) {
	s.mu.Lock()
	children := s.doc.PageChildren(s.activePage)
	n := doc.Find(children, id)
	if n == nil || n.Reusable || !n.Kind.Reusable() {
		s.mu.Unlock()
		return
	}
	snapshot := s.doc.Clone()
	next := doc.UpdateWith(children, id, func(n *doc.Node) { n.Reusable = true })
	s.commit(snapshot, next)
	s.mu.Unlock()
	s.notify(Event{Op: OpComponent, IDs: []string{id}})
}

// CreateInstance adds a new ref node bound to the given component,
// placed at a clear position beside it. Returns the instance id, or ""
// when the target is not a reusable component.
func (s *Store) CreateInstance(componentID string) string {
	s.mu.Lock()
	children := s.doc.PageChildren(s.activePage)
	def := doc.Find(children, componentID)
	if def == nil || !def.Reusable {
		s.mu.Unlock()
		return ""
	}
	newID, ok := s.createInstanceLocked(def)
	s.mu.Unlock()
	if ok {
		s.notify(Event{Op: OpComponent, IDs: []string{newID}})
	}
	return newID
}

// createInstanceLocked builds and inserts the ref node. Caller holds the
// lock and has verified def is reusable.
func (s *Store) createInstanceLocked(def *doc.Node) (string, bool) {
	children := s.doc.PageChildren(s.activePage)
	siblings, parentID := siblingsOf(children, def.ID)

	inst := &doc.Node{
		ID:   doc.NewID(),
		Kind: doc.KindRef,
		Name: def.Name,
		Ref:  def.ID,
		X:    doc.FindClearX(siblings, def, children, s.gap),
		Y:    def.Y,
	}

	snapshot := s.doc.Clone()
	next := doc.Insert(children, parentID, inst, -1)
	s.commit(snapshot, next)
	return inst.ID, true
}

// DetachComponent has two modes. On a DEFINITION it clears the reusable
// flag: the node becomes ordinary, and existing instances keep working
// because the binding is by id. On an INSTANCE it materializes a fully
// independent copy: clone the definition, apply the instance's override
// patches by original descendant id, reassign every id, and splice the
// result in place of the ref node. Overrides must apply before ids are
// reassigned or their keys would no longer match anything.
func (s *Store) DetachComponent(id string) {
	s.mu.Lock()
	children := s.doc.PageChildren(s.activePage)
	n := doc.Find(children, id)
	if n == nil {
		s.mu.Unlock()
		return
	}

	if n.Reusable {
		snapshot := s.doc.Clone()
		next := doc.UpdateWith(children, id, func(n *doc.Node) { n.Reusable = false })
		s.commit(snapshot, next)
		s.mu.Unlock()
		s.notify(Event{Op: OpComponent, IDs: []string{id}})
		return
	}

	if n.Kind != doc.KindRef {
		s.mu.Unlock()
		return
	}
	def := doc.Find(children, n.Ref)
	if def == nil {
		// Dangling instance: nothing to materialize.
		s.mu.Unlock()
		return
	}

	detached, err := materialize(def, n)
	if err != nil {
		s.mu.Unlock()
		return
	}

	siblings, parentID := siblingsOf(children, id)
	index := -1
	for i, sib := range siblings {
		if sib.ID == id {
			index = i
			break
		}
	}

	snapshot := s.doc.Clone()
	next := doc.Remove(children, id)
	next = doc.Insert(next, parentID, detached, index)
	s.commit(snapshot, next)
	s.mu.Unlock()
	s.notify(Event{Op: OpComponent, IDs: []string{detached.ID}})
}

// materialize builds the standalone subtree for a detached instance:
// definition clone + overrides (by original id) + fresh ids + the
// instance's own placement.
func materialize(def, inst *doc.Node) (*doc.Node, error) {
	clone := doc.CloneNode(def)
	clone.Reusable = false

	// Top-level override recorded under the definition's own id.
	if patch, ok := inst.Descendants[def.ID]; ok {
		patched, err := doc.ApplyPatch(clone, patch)
		if err != nil {
			return nil, err
		}
		patched.Reusable = false
		clone = patched
	}
	for descID, patch := range inst.Descendants {
		if descID == def.ID {
			continue
		}
		tree := doc.Update([]*doc.Node{clone}, descID, patch)
		clone = tree[0]
	}

	doc.ReassignIDs(clone)
	clone.X = inst.X
	clone.Y = inst.Y
	if inst.Name != "" {
		clone.Name = inst.Name
	}
	return clone, nil
}
