package doc

// Rect is an axis-aligned bounding box in the coordinate space of the
// owning parent.
type Rect struct {
	X, Y, W, H float64
}

// Right returns the X coordinate of the rect's right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the Y coordinate of the rect's bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Overlaps reports whether two rects intersect with positive area.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Union returns the smallest rect covering both inputs.
func (r Rect) Union(o Rect) Rect {
	x := min(r.X, o.X)
	y := min(r.Y, o.Y)
	return Rect{
		X: x,
		Y: y,
		W: max(r.Right(), o.Right()) - x,
		H: max(r.Bottom(), o.Bottom()) - y,
	}
}

// DuplicateGap is the default horizontal spacing used when placing copies
// and new instances beside their source.
const DuplicateGap = 20

// clearXMaxProbes bounds the placement loop so a pathological sibling
// layout cannot spin forever.
const clearXMaxProbes = 1000

// Bounds computes a node's bounding box relative to its parent. A ref node
// with no explicit size borrows its target component's geometry; a
// dangling ref yields empty placeholder bounds at the instance position.
func Bounds(n *Node, all []*Node) Rect {
	return boundsOnPath(n, all, nil)
}

// boundsOnPath is Bounds with the set of component ids already being
// resolved on the current path. A ref whose target is on the path is a
// cycle in a malformed document and sizes as an empty placeholder.
func boundsOnPath(n *Node, all []*Node, resolving map[string]struct{}) Rect {
	r := Rect{X: n.X, Y: n.Y}
	r.W = sizeOf(n.Width, n, all, true, resolving)
	r.H = sizeOf(n.Height, n, all, false, resolving)
	return r
}

func sizeOf(s *Size, n *Node, all []*Node, horizontal bool, resolving map[string]struct{}) float64 {
	if s.Fixed() {
		return s.Px
	}
	if n.Kind == KindRef {
		target := Find(all, n.Ref)
		// A ref target is always a container, never another ref; anything
		// else is a dangling or malformed pointer and sizes as empty.
		if target == nil || target == n || target.Kind == KindRef {
			return 0
		}
		if _, cyclic := resolving[target.ID]; cyclic {
			return 0
		}
		if resolving == nil {
			resolving = make(map[string]struct{})
		}
		resolving[target.ID] = struct{}{}
		tb := boundsOnPath(target, all, resolving)
		delete(resolving, target.ID)
		if horizontal {
			return tb.W
		}
		return tb.H
	}
	// fit_content / fill_container / unresolved $ref: fall back to the
	// extent of the children, which is the only geometry actually known.
	var extent float64
	for _, c := range n.Children {
		cb := boundsOnPath(c, all, resolving)
		edge := cb.Right()
		if !horizontal {
			edge = cb.Bottom()
		}
		if edge > extent {
			extent = edge
		}
	}
	return extent
}

// UnionBounds returns the union bounding box of the given nodes, or a zero
// rect when the list is empty.
func UnionBounds(nodes []*Node, all []*Node) Rect {
	if len(nodes) == 0 {
		return Rect{}
	}
	r := Bounds(nodes[0], all)
	for _, n := range nodes[1:] {
		r = r.Union(Bounds(n, all))
	}
	return r
}

// FindClearX returns an X coordinate right of src where a box of src's
// size does not overlap any sibling: start one gap right of src, then keep
// pushing past any overlapping sibling. A gap <= 0 selects DuplicateGap.
// The probe count is bounded, so a worst-case layout still terminates with
// whatever X was reached.
func FindClearX(siblings []*Node, src *Node, all []*Node, gap float64) float64 {
	if gap <= 0 {
		gap = DuplicateGap
	}
	srcBounds := Bounds(src, all)
	candidate := srcBounds
	candidate.X = srcBounds.Right() + gap

	for range clearXMaxProbes {
		moved := false
		for _, sib := range siblings {
			if sib.ID == src.ID {
				continue
			}
			sb := Bounds(sib, all)
			if candidate.Overlaps(sb) {
				candidate.X = sb.Right() + gap
				moved = true
			}
		}
		if !moved {
			break
		}
	}
	return candidate.X
}

// AbsoluteOrigin converts a node's parent-relative position to canvas
// coordinates by walking its ancestors. Returns the node's own position
// when it lives at the root.
func AbsoluteOrigin(nodes []*Node, id string) (x, y float64, ok bool) {
	return absoluteOrigin(nodes, id, 0, 0)
}

func absoluteOrigin(nodes []*Node, id string, dx, dy float64) (float64, float64, bool) {
	for _, n := range nodes {
		if n.ID == id {
			return dx + n.X, dy + n.Y, true
		}
		if x, y, ok := absoluteOrigin(n.Children, id, dx+n.X, dy+n.Y); ok {
			return x, y, true
		}
	}
	return 0, 0, false
}
