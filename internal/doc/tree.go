package doc

// Tree operations are pure: they take and return whole node lists and
// never mutate their input. A returned list shares every untouched subtree
// pointer with the input, so reactive consumers can change-detect by
// identity.

// Find returns the node with the given id, searching depth-first
// pre-order, or nil.
func Find(nodes []*Node, id string) *Node {
	for _, n := range nodes {
		if n.ID == id {
			return n
		}
		if found := Find(n.Children, id); found != nil {
			return found
		}
	}
	return nil
}

// FindParent returns the node whose children contain id, or nil when id is
// a root node or absent.
func FindParent(nodes []*Node, id string) *Node {
	for _, n := range nodes {
		for _, c := range n.Children {
			if c.ID == id {
				return n
			}
		}
		if found := FindParent(n.Children, id); found != nil {
			return found
		}
	}
	return nil
}

// IndexOf returns the position of id within its sibling list, and whether
// id lives at the root level. Returns -1 when absent.
func IndexOf(nodes []*Node, id string) (index int, atRoot bool) {
	for i, n := range nodes {
		if n.ID == id {
			return i, true
		}
	}
	parent := FindParent(nodes, id)
	if parent == nil {
		return -1, false
	}
	for i, c := range parent.Children {
		if c.ID == id {
			return i, false
		}
	}
	return -1, false
}

// Insert splices n under parentID at index. An empty parentID targets the
// root list; a negative index appends. Returns the input unchanged when
// the parent does not exist.
func Insert(nodes []*Node, parentID string, n *Node, index int) []*Node {
	if parentID == "" {
		return spliceIn(nodes, n, index)
	}
	out, _ := rewriteSpine(nodes, parentID, func(parent *Node) *Node {
		next := shallowCopy(parent)
		next.Children = spliceIn(parent.Children, n, index)
		return next
	})
	return out
}

// Remove filters the node with the given id out at every level.
func Remove(nodes []*Node, id string) []*Node {
	out := make([]*Node, 0, len(nodes))
	changed := false
	for _, n := range nodes {
		if n.ID == id {
			changed = true
			continue
		}
		kids := Remove(n.Children, id)
		if len(kids) != len(n.Children) {
			next := shallowCopy(n)
			next.Children = kids
			n = next
			changed = true
		}
		out = append(out, n)
	}
	if !changed {
		return nodes
	}
	return out
}

// Update merges a patch onto the node with the given id, leaving all
// siblings referentially unchanged. Returns the input unchanged when the
// id is absent or the patch fails to apply.
func Update(nodes []*Node, id string, p Patch) []*Node {
	out, _ := rewriteSpine(nodes, id, func(n *Node) *Node {
		patched, err := ApplyPatch(n, p)
		if err != nil {
			return n
		}
		return patched
	})
	return out
}

// UpdateWith replaces the node with the given id by fn's result,
// spine-copying the path to it. fn receives a deep copy it may mutate.
func UpdateWith(nodes []*Node, id string, fn func(*Node)) []*Node {
	out, _ := rewriteSpine(nodes, id, func(n *Node) *Node {
		next := CloneNode(n)
		fn(next)
		return next
	})
	return out
}

// IsDescendantOf reports whether nodeID sits anywhere inside ancestorID's
// subtree. Used as the move-validity guard: reparenting must reject any
// target that is the moved node itself or one of its descendants.
func IsDescendantOf(nodes []*Node, nodeID, ancestorID string) bool {
	ancestor := Find(nodes, ancestorID)
	if ancestor == nil {
		return false
	}
	return Find(ancestor.Children, nodeID) != nil
}

// Flatten returns every node in the list, depth-first pre-order.
func Flatten(nodes []*Node) []*Node {
	var out []*Node
	for _, n := range nodes {
		out = append(out, n)
		out = append(out, Flatten(n.Children)...)
	}
	return out
}

// StripRefsTo clears ref pointers and override keys that target any of the
// removed ids. Failing to call this after a delete leaves dangling
// references; they are non-fatal, but deletes are expected to clean up.
func StripRefsTo(nodes []*Node, removed map[string]struct{}) []*Node {
	out := make([]*Node, len(nodes))
	changed := false
	for i, n := range nodes {
		next := n
		_, refGone := removed[n.Ref]
		dropKeys := overlappingKeys(n.Descendants, removed)
		kids := StripRefsTo(n.Children, removed)
		if (n.Ref != "" && refGone) || len(dropKeys) > 0 || !sameNodes(kids, n.Children) {
			next = shallowCopy(n)
			next.Children = kids
			if refGone {
				next.Ref = ""
			}
			if len(dropKeys) > 0 {
				trimmed := make(map[string]Patch, len(n.Descendants))
				for k, v := range n.Descendants {
					if _, drop := removed[k]; !drop {
						trimmed[k] = v
					}
				}
				next.Descendants = trimmed
			}
			changed = true
		}
		out[i] = next
	}
	if !changed {
		return nodes
	}
	return out
}

// rewriteSpine replaces the node with the given id by fn's result, copying
// only the ancestors on the path to it. The bool reports whether id was
// found.
func rewriteSpine(nodes []*Node, id string, fn func(*Node) *Node) ([]*Node, bool) {
	for i, n := range nodes {
		if n.ID == id {
			next := fn(n)
			if next == n {
				return nodes, true
			}
			out := make([]*Node, len(nodes))
			copy(out, nodes)
			out[i] = next
			return out, true
		}
		kids, found := rewriteSpine(n.Children, id, fn)
		if !found {
			continue
		}
		if sameNodes(kids, n.Children) {
			return nodes, true
		}
		parent := shallowCopy(n)
		parent.Children = kids
		out := make([]*Node, len(nodes))
		copy(out, nodes)
		out[i] = parent
		return out, true
	}
	return nodes, false
}

func spliceIn(nodes []*Node, n *Node, index int) []*Node {
	if index < 0 || index > len(nodes) {
		index = len(nodes)
	}
	out := make([]*Node, 0, len(nodes)+1)
	out = append(out, nodes[:index]...)
	out = append(out, n)
	out = append(out, nodes[index:]...)
	return out
}

func shallowCopy(n *Node) *Node {
	c := *n
	return &c
}

func sameNodes(a, b []*Node) bool {
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

func overlappingKeys(m map[string]Patch, set map[string]struct{}) []string {
	var keys []string
	for k := range m {
		if _, ok := set[k]; ok {
			keys = append(keys, k)
		}
	}
	return keys
}
