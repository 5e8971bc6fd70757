package doc

// CloneNode returns a deep copy of n, keeping every id.
func CloneNode(n *Node) *Node {
	if n == nil {
		return nil
	}
	out := *n
	out.Opacity = cloneScalar(n.Opacity)
	out.Width = cloneSize(n.Width)
	out.Height = cloneSize(n.Height)
	out.Gap = cloneScalar(n.Gap)
	out.Padding = cloneScalar(n.Padding)
	out.CornerRadius = cloneScalar(n.CornerRadius)
	out.FontSize = cloneScalar(n.FontSize)
	out.Fill = cloneFills(n.Fill)
	if n.Stroke != nil {
		st := *n.Stroke
		st.Thickness = cloneScalar(n.Stroke.Thickness)
		out.Stroke = &st
	}
	if n.Effects != nil {
		out.Effects = make([]Effect, len(n.Effects))
		for i, e := range n.Effects {
			e.Blur = cloneScalar(e.Blur)
			out.Effects[i] = e
		}
	}
	if n.Points != nil {
		out.Points = append([]Point(nil), n.Points...)
	}
	if n.Descendants != nil {
		out.Descendants = make(map[string]Patch, len(n.Descendants))
		for id, p := range n.Descendants {
			out.Descendants[id] = clonePatch(p)
		}
	}
	out.Children = CloneNodes(n.Children)
	return &out
}

// CloneNodes deep-copies a node list.
func CloneNodes(nodes []*Node) []*Node {
	if nodes == nil {
		return nil
	}
	out := make([]*Node, len(nodes))
	for i, n := range nodes {
		out[i] = CloneNode(n)
	}
	return out
}

// CloneWithNewIDs deep-copies a subtree, assigning every node a fresh id.
// The returned map records original id -> new id; ref pointers and
// override keys that target remapped ids are rewritten so instances inside
// the copied subtree keep pointing at the copy.
func CloneWithNewIDs(n *Node) (*Node, map[string]string) {
	idMap := make(map[string]string)
	clone := CloneNode(n)
	reassignIDs(clone, idMap)
	remapRefs(clone, idMap)
	return clone, idMap
}

// ReassignIDs gives every node of an already-detached subtree a fresh id,
// rewriting internal ref pointers and override keys to follow. Returns
// the original -> new id map.
func ReassignIDs(n *Node) map[string]string {
	idMap := make(map[string]string)
	reassignIDs(n, idMap)
	remapRefs(n, idMap)
	return idMap
}

func reassignIDs(n *Node, idMap map[string]string) {
	fresh := NewID()
	idMap[n.ID] = fresh
	n.ID = fresh
	for _, c := range n.Children {
		reassignIDs(c, idMap)
	}
}

func remapRefs(n *Node, idMap map[string]string) {
	if n.Ref != "" {
		if mapped, ok := idMap[n.Ref]; ok {
			n.Ref = mapped
		}
	}
	if n.Descendants != nil {
		remapped := make(map[string]Patch, len(n.Descendants))
		for id, p := range n.Descendants {
			if mapped, ok := idMap[id]; ok {
				remapped[mapped] = p
			} else {
				remapped[id] = p
			}
		}
		n.Descendants = remapped
	}
	for _, c := range n.Children {
		remapRefs(c, idMap)
	}
}

func cloneScalar(s *Scalar) *Scalar {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func cloneSize(s *Size) *Size {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func cloneFills(fills []Fill) []Fill {
	if fills == nil {
		return nil
	}
	out := make([]Fill, len(fills))
	for i, f := range fills {
		if f.Stops != nil {
			f.Stops = append([]GradientStop(nil), f.Stops...)
		}
		out[i] = f
	}
	return out
}

func clonePatch(p Patch) Patch {
	if p == nil {
		return nil
	}
	out := make(Patch, len(p))
	for k, v := range p {
		if m, ok := v.(map[string]any); ok {
			out[k] = clonePatch(m)
		} else {
			out[k] = v
		}
	}
	return out
}
