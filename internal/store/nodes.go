package store

import (
	"github.com/agentic-research/opal/internal/doc"
)

// Guard-rejected operations throughout this file are silent no-ops: the
// invalid states they reject originate from UI affordances that should
// already prevent them, so tests assert "state unchanged", not "error".

// AddNode inserts a node under parentID (empty for the root list) at
// index (-1 appends). No-op when the parent does not exist or is not a
// container, or when any id in the new subtree is already taken.
func (s *Store) AddNode(parentID string, n *doc.Node, index int) {
	if n == nil {
		return
	}
	s.mu.Lock()
	children := s.doc.PageChildren(s.activePage)
	if parentID != "" {
		parent := doc.Find(children, parentID)
		if parent == nil || !parent.Kind.Container() {
			s.mu.Unlock()
			return
		}
	}
	if n.ID == "" {
		n.ID = doc.NewID()
	}
	existing := make(map[string]struct{})
	s.doc.CollectIDs(existing)
	incoming := make(map[string]struct{})
	collectSubtreeIDs(n, incoming)
	for id := range incoming {
		if _, taken := existing[id]; taken {
			s.mu.Unlock()
			return
		}
	}
	snapshot := s.doc.Clone()
	next := doc.Insert(children, parentID, n, index)
	s.commit(snapshot, next)
	s.mu.Unlock()
	s.notify(Event{Op: OpAdd, IDs: []string{n.ID}})
}

// UpdateNode merges a partial patch onto the node with the given id.
func (s *Store) UpdateNode(id string, p doc.Patch) {
	s.mu.Lock()
	children := s.doc.PageChildren(s.activePage)
	next := doc.Update(children, id, p)
	if sameTree(next, children) {
		s.mu.Unlock()
		return
	}
	snapshot := s.doc.Clone()
	s.commit(snapshot, next)
	s.mu.Unlock()
	s.notify(Event{Op: OpUpdate, IDs: []string{id}})
}

// RemoveNode deletes a subtree and rewrites any instance pointers or
// override keys that targeted ids inside it, so deletes never leave
// intentional dangling references behind.
func (s *Store) RemoveNode(id string) {
	s.mu.Lock()
	children := s.doc.PageChildren(s.activePage)
	target := doc.Find(children, id)
	if target == nil {
		s.mu.Unlock()
		return
	}
	removed := make(map[string]struct{})
	collectSubtreeIDs(target, removed)

	snapshot := s.doc.Clone()
	next := doc.Remove(children, id)
	s.commit(snapshot, next)
	// Instances on any page may point into the removed subtree.
	for page := range s.doc.AllChildren() {
		stripped := doc.StripRefsTo(s.doc.PageChildren(page), removed)
		s.doc.SetPageChildren(page, stripped)
	}
	s.mu.Unlock()
	s.notify(Event{Op: OpRemove, IDs: []string{id}})
}

// MoveNode reparents a node. Fails silently when the target parent is the
// node itself, one of its descendants, or not a container, or when the
// move would nest an instance inside its own component definition.
func (s *Store) MoveNode(id, newParentID string, index int) {
	s.mu.Lock()
	children := s.doc.PageChildren(s.activePage)
	n := doc.Find(children, id)
	if n == nil || newParentID == id || doc.IsDescendantOf(children, newParentID, id) {
		s.mu.Unlock()
		return
	}
	if newParentID != "" {
		parent := doc.Find(children, newParentID)
		if parent == nil || !parent.Kind.Container() {
			s.mu.Unlock()
			return
		}
	}
	// An instance landing inside its target component's subtree makes the
	// definition contain itself, and every instance of it unresolvable.
	targets := make(map[string]struct{})
	collectRefTargets(n, targets)
	for target := range targets {
		if newParentID == target || doc.IsDescendantOf(children, newParentID, target) {
			s.mu.Unlock()
			return
		}
	}
	snapshot := s.doc.Clone()
	next := doc.Remove(children, id)
	next = doc.Insert(next, newParentID, n, index)
	s.commit(snapshot, next)
	s.mu.Unlock()
	s.notify(Event{Op: OpMove, IDs: []string{id}})
}

// ReorderNode moves a node to a new index among its current siblings.
func (s *Store) ReorderNode(id string, index int) {
	s.mu.Lock()
	children := s.doc.PageChildren(s.activePage)
	n := doc.Find(children, id)
	if n == nil {
		s.mu.Unlock()
		return
	}
	parentID := ""
	if parent := doc.FindParent(children, id); parent != nil {
		parentID = parent.ID
	}
	snapshot := s.doc.Clone()
	next := doc.Remove(children, id)
	next = doc.Insert(next, parentID, n, index)
	s.commit(snapshot, next)
	s.mu.Unlock()
	s.notify(Event{Op: OpReorder, IDs: []string{id}})
}

// ToggleVisibility flips a node's hidden flag.
func (s *Store) ToggleVisibility(id string) {
	s.toggle(id, func(n *doc.Node) { n.Hidden = !n.Hidden })
}

// ToggleLock flips a node's locked flag.
func (s *Store) ToggleLock(id string) {
	s.toggle(id, func(n *doc.Node) { n.Locked = !n.Locked })
}

func (s *Store) toggle(id string, flip func(*doc.Node)) {
	s.mu.Lock()
	children := s.doc.PageChildren(s.activePage)
	next := doc.UpdateWith(children, id, flip)
	if sameTree(next, children) {
		s.mu.Unlock()
		return
	}
	snapshot := s.doc.Clone()
	s.commit(snapshot, next)
	s.mu.Unlock()
	s.notify(Event{Op: OpUpdate, IDs: []string{id}})
}

// DuplicateNode duplicates a node beside its source. Duplicating a
// reusable component creates another INSTANCE of it, not a second copy of
// the definition; everything else is a deep id-reassigning clone named
// "<name> copy".
func (s *Store) DuplicateNode(id string) string {
	s.mu.Lock()
	children := s.doc.PageChildren(s.activePage)
	src := doc.Find(children, id)
	if src == nil {
		s.mu.Unlock()
		return ""
	}
	if src.Reusable {
		newID, ok := s.createInstanceLocked(src)
		s.mu.Unlock()
		if ok {
			s.notify(Event{Op: OpDuplicate, IDs: []string{newID}})
		}
		return newID
	}

	clone, _ := doc.CloneWithNewIDs(src)
	if clone.Name != "" {
		clone.Name += " copy"
	}
	siblings, parentID := siblingsOf(children, id)
	clone.X = doc.FindClearX(siblings, src, children, s.gap)

	snapshot := s.doc.Clone()
	next := doc.Insert(children, parentID, clone, -1)
	s.commit(snapshot, next)
	s.mu.Unlock()
	s.notify(Event{Op: OpDuplicate, IDs: []string{clone.ID}})
	return clone.ID
}

// GroupNodes wraps two or more sibling nodes in a new group positioned at
// their union bounding box, rebasing each member to the group's local
// origin. The group takes the first member's place among the remaining
// siblings. No-op for fewer than two distinct resolvable ids or mixed
// parents.
func (s *Store) GroupNodes(ids []string) string {
	ids = dedupe(ids)
	if len(ids) < 2 {
		return ""
	}
	s.mu.Lock()
	children := s.doc.PageChildren(s.activePage)

	selected := make([]*doc.Node, 0, len(ids))
	parentID := ""
	for i, id := range ids {
		n := doc.Find(children, id)
		if n == nil {
			s.mu.Unlock()
			return ""
		}
		pid := ""
		if p := doc.FindParent(children, id); p != nil {
			pid = p.ID
		}
		if i == 0 {
			parentID = pid
		} else if pid != parentID {
			s.mu.Unlock()
			return ""
		}
		selected = append(selected, n)
	}

	siblings := children
	if parentID != "" {
		siblings = doc.Find(children, parentID).Children
	}
	box := doc.UnionBounds(selected, children)

	selectedSet := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		selectedSet[id] = struct{}{}
	}
	// The group lands where the first selected node used to sit, counting
	// only survivors.
	insertAt := 0
	for _, sib := range siblings {
		if sib.ID == ids[0] {
			break
		}
		if _, sel := selectedSet[sib.ID]; !sel {
			insertAt++
		}
	}

	group := &doc.Node{
		ID:     doc.NewID(),
		Kind:   doc.KindGroup,
		X:      box.X,
		Y:      box.Y,
		Width:  doc.Px(box.W),
		Height: doc.Px(box.H),
	}
	// Members keep sibling order, rebased to the group origin.
	for _, sib := range siblings {
		if _, sel := selectedSet[sib.ID]; !sel {
			continue
		}
		member := doc.CloneNode(sib)
		member.X -= box.X
		member.Y -= box.Y
		group.Children = append(group.Children, member)
	}

	snapshot := s.doc.Clone()
	next := children
	for _, id := range ids {
		next = doc.Remove(next, id)
	}
	next = doc.Insert(next, parentID, group, insertAt)
	s.commit(snapshot, next)
	s.mu.Unlock()
	s.notify(Event{Op: OpGroup, IDs: []string{group.ID}})
	return group.ID
}

// UngroupNode dissolves a group, splicing its children back into the
// group's former parent at the group's former index, rebased by the
// group's own offset so nothing moves on canvas.
func (s *Store) UngroupNode(id string) {
	s.mu.Lock()
	children := s.doc.PageChildren(s.activePage)
	group := doc.Find(children, id)
	if group == nil || group.Kind != doc.KindGroup {
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
	if index < 0 {
		s.mu.Unlock()
		return
	}

	snapshot := s.doc.Clone()
	next := doc.Remove(children, id)
	freed := make([]string, 0, len(group.Children))
	for i, child := range group.Children {
		restored := doc.CloneNode(child)
		restored.X += group.X
		restored.Y += group.Y
		next = doc.Insert(next, parentID, restored, index+i)
		freed = append(freed, restored.ID)
	}
	s.commit(snapshot, next)
	s.mu.Unlock()
	s.notify(Event{Op: OpUngroup, IDs: freed})
}

// ResizeNode sets a container's size and propagates the scale delta into
// every descendant's relative geometry. Identity scales short-circuit to
// avoid needless tree rewrites and history churn.
func (s *Store) ResizeNode(id string, width, height float64) {
	s.mu.Lock()
	children := s.doc.PageChildren(s.activePage)
	n := doc.Find(children, id)
	if n == nil || width <= 0 || height <= 0 {
		s.mu.Unlock()
		return
	}
	sx, sy := 1.0, 1.0
	if n.Width.Fixed() && n.Width.Px > 0 {
		sx = width / n.Width.Px
	}
	if n.Height.Fixed() && n.Height.Px > 0 {
		sy = height / n.Height.Px
	}
	if sx == 1 && sy == 1 && n.Width.Fixed() && n.Height.Fixed() {
		s.mu.Unlock()
		return
	}
	snapshot := s.doc.Clone()
	next := doc.UpdateWith(children, id, func(n *doc.Node) {
		n.Width = doc.Px(width)
		n.Height = doc.Px(height)
		n.Children = doc.ScaleChildren(n.Children, sx, sy)
	})
	s.commit(snapshot, next)
	s.mu.Unlock()
	s.notify(Event{Op: OpResize, IDs: []string{id}})
}

// RotateNode sets a node's rotation and propagates the delta into its
// descendants. A zero delta short-circuits.
func (s *Store) RotateNode(id string, rotation float64) {
	s.mu.Lock()
	children := s.doc.PageChildren(s.activePage)
	n := doc.Find(children, id)
	if n == nil {
		s.mu.Unlock()
		return
	}
	delta := rotation - n.Rotation
	if delta == 0 {
		s.mu.Unlock()
		return
	}
	snapshot := s.doc.Clone()
	next := doc.UpdateWith(children, id, func(n *doc.Node) {
		n.Rotation = rotation
		n.Children = doc.RotateChildren(n.Children, delta)
	})
	s.commit(snapshot, next)
	s.mu.Unlock()
	s.notify(Event{Op: OpRotate, IDs: []string{id}})
}

// dedupe returns ids with repeats dropped, first occurrence order kept.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// siblingsOf returns the sibling list containing id and the parent id
// (empty at root).
func siblingsOf(children []*doc.Node, id string) ([]*doc.Node, string) {
	if parent := doc.FindParent(children, id); parent != nil {
		return parent.Children, parent.ID
	}
	return children, ""
}

func collectSubtreeIDs(n *doc.Node, dst map[string]struct{}) {
	dst[n.ID] = struct{}{}
	for _, c := range n.Children {
		collectSubtreeIDs(c, dst)
	}
}

// collectRefTargets gathers the component ids referenced by any instance
// in the subtree.
func collectRefTargets(n *doc.Node, dst map[string]struct{}) {
	if n.Kind == doc.KindRef && n.Ref != "" {
		dst[n.Ref] = struct{}{}
	}
	for _, c := range n.Children {
		collectRefTargets(c, dst)
	}
}

func sameTree(a, b []*doc.Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
