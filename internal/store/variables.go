package store

import (
	"github.com/agentic-research/opal/internal/doc"
	"github.com/agentic-research/opal/internal/vars"
)

// SetVariable creates or replaces a variable definition.
func (s *Store) SetVariable(name string, def doc.VariableDefinition) {
	if name == "" {
		return
	}
	s.mu.Lock()
	snapshot := s.doc.Clone()
	s.hist.Push(snapshot)
	if s.doc.Variables == nil {
		s.doc.Variables = make(map[string]doc.VariableDefinition)
	}
	s.doc.Variables[name] = def
	s.dirty = true
	s.mu.Unlock()
	s.notify(Event{Op: OpVariable})
}

// RenameVariable moves a definition to a new name and rewrites every
// $old binding in every page to $new. No-op when old is absent or new
// already exists.
func (s *Store) RenameVariable(oldName, newName string) {
	if oldName == newName || newName == "" {
		return
	}
	s.mu.Lock()
	def, ok := s.doc.Variables[oldName]
	if !ok {
		s.mu.Unlock()
		return
	}
	if _, taken := s.doc.Variables[newName]; taken {
		s.mu.Unlock()
		return
	}
	snapshot := s.doc.Clone()
	s.hist.Push(snapshot)
	delete(s.doc.Variables, oldName)
	s.doc.Variables[newName] = def
	for page := range s.doc.AllChildren() {
		rewritten := vars.ReplaceRefs(s.doc.PageChildren(page), oldName, newName)
		s.doc.SetPageChildren(page, rewritten)
	}
	s.dirty = true
	s.mu.Unlock()
	s.notify(Event{Op: OpVariable})
}

// RemoveVariable deletes a definition, first baking its currently
// resolved value into every node that referenced it so the visual state
// survives the binding's disappearance.
func (s *Store) RemoveVariable(name string) {
	s.mu.Lock()
	if _, ok := s.doc.Variables[name]; !ok {
		s.mu.Unlock()
		return
	}
	snapshot := s.doc.Clone()
	s.hist.Push(snapshot)
	// Resolve against the table while the definition still exists.
	for page := range s.doc.AllChildren() {
		baked := vars.ReplaceRefsWithValue(s.doc.PageChildren(page), name, s.doc.Variables, s.activeTheme)
		s.doc.SetPageChildren(page, baked)
	}
	delete(s.doc.Variables, name)
	s.dirty = true
	s.mu.Unlock()
	s.notify(Event{Op: OpVariable})
}

// ResolveNode returns the node with every $reference replaced by its
// concrete value under the active theme, for handing to the scene
// boundary. Same-pointer return means nothing needed resolution.
func (s *Store) ResolveNode(n *doc.Node) *doc.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return vars.ResolveNode(n, s.doc.Variables, s.activeTheme)
}
