package vars

import "github.com/agentic-research/opal/internal/doc"

// ResolveNode walks one node's styleable fields and replaces every $ref
// with its resolved concrete value. When nothing needed resolution the
// SAME node pointer comes back, so change-tracking callers can compare by
// identity and skip scene updates. Children are not walked; the sync
// engine resolves each node as it reaches it.
//
// A reference that misses resolves to absence: the field gets its concrete
// fallback, and $name strings never travel past the scene boundary.
func ResolveNode(n *doc.Node, variables map[string]doc.VariableDefinition, theme map[string]string) *doc.Node {
	if !nodeNeedsResolution(n) {
		return n
	}

	out := doc.CloneNode(n)
	out.Opacity = resolveScalar(out.Opacity, variables, theme, 1)
	out.Gap = resolveScalar(out.Gap, variables, theme, 0)
	out.Padding = resolveScalar(out.Padding, variables, theme, 0)
	out.CornerRadius = resolveScalar(out.CornerRadius, variables, theme, 0)
	out.FontSize = resolveScalar(out.FontSize, variables, theme, 0)
	out.Width = resolveSize(out.Width, variables, theme)
	out.Height = resolveSize(out.Height, variables, theme)

	for i := range out.Fill {
		out.Fill[i].Color = resolveColor(out.Fill[i].Color, variables, theme)
		for j := range out.Fill[i].Stops {
			out.Fill[i].Stops[j].Color = resolveColor(out.Fill[i].Stops[j].Color, variables, theme)
		}
	}
	if out.Stroke != nil {
		out.Stroke.Color = resolveColor(out.Stroke.Color, variables, theme)
		// Canonical thickness fallback is 1: a stroke that exists stays visible.
		out.Stroke.Thickness = resolveScalar(out.Stroke.Thickness, variables, theme, 1)
	}
	for i := range out.Effects {
		out.Effects[i].Color = resolveColor(out.Effects[i].Color, variables, theme)
		out.Effects[i].Blur = resolveScalar(out.Effects[i].Blur, variables, theme, 0)
	}
	if doc.IsVarRef(out.Content) {
		if s, ok := ResolveString(out.Content, variables, theme); ok {
			out.Content = s
		} else {
			out.Content = ""
		}
	}
	return out
}

// rewriter maps a $ref occurrence to its replacement value: a "$new"
// string for renames, a concrete string or float64 for deletions. A false
// return leaves the occurrence alone.
type rewriter func(ref string) (any, bool)

// ReplaceRefs rewrites every occurrence of $old to $new across a whole
// tree. Used when a variable is renamed.
func ReplaceRefs(nodes []*doc.Node, oldName, newName string) []*doc.Node {
	oldRef, newRef := "$"+oldName, "$"+newName
	return rewriteRefs(nodes, func(ref string) (any, bool) {
		if ref == oldRef {
			return newRef, true
		}
		return nil, false
	})
}

// ReplaceRefsWithValue rewrites every occurrence of $name to its currently
// resolved concrete value. Used when a variable is deleted, so the visual
// state survives the binding's disappearance. Occurrences of a variable
// that never resolved are cleared rather than left dangling.
func ReplaceRefsWithValue(nodes []*doc.Node, name string, variables map[string]doc.VariableDefinition, theme map[string]string) []*doc.Node {
	ref := "$" + name
	resolved, ok := Resolve(ref, variables, theme)
	return rewriteRefs(nodes, func(r string) (any, bool) {
		if r != ref {
			return nil, false
		}
		if !ok {
			return nil, true
		}
		return resolved, true
	})
}

// rewriteRefs applies a rewriter to every $-bearing field of every node,
// spine-copying only what changes.
func rewriteRefs(nodes []*doc.Node, rw rewriter) []*doc.Node {
	out := make([]*doc.Node, len(nodes))
	changed := false
	for i, n := range nodes {
		next := n
		kids := rewriteRefs(n.Children, rw)
		if nodeHasRef(n, rw) || !sameSlice(kids, n.Children) {
			next = doc.CloneNode(n)
			next.Children = kids
			rewriteNodeRefs(next, rw)
			changed = true
		}
		out[i] = next
	}
	if !changed {
		return nodes
	}
	return out
}

func rewriteNodeRefs(n *doc.Node, rw rewriter) {
	n.Opacity = rewriteScalarRef(n.Opacity, rw)
	n.Gap = rewriteScalarRef(n.Gap, rw)
	n.Padding = rewriteScalarRef(n.Padding, rw)
	n.CornerRadius = rewriteScalarRef(n.CornerRadius, rw)
	n.FontSize = rewriteScalarRef(n.FontSize, rw)
	n.Width = rewriteSizeRef(n.Width, rw)
	n.Height = rewriteSizeRef(n.Height, rw)
	for i := range n.Fill {
		n.Fill[i].Color = rewriteColorRef(n.Fill[i].Color, rw)
		for j := range n.Fill[i].Stops {
			n.Fill[i].Stops[j].Color = rewriteColorRef(n.Fill[i].Stops[j].Color, rw)
		}
	}
	if n.Stroke != nil {
		n.Stroke.Color = rewriteColorRef(n.Stroke.Color, rw)
		n.Stroke.Thickness = rewriteScalarRef(n.Stroke.Thickness, rw)
	}
	for i := range n.Effects {
		n.Effects[i].Color = rewriteColorRef(n.Effects[i].Color, rw)
		n.Effects[i].Blur = rewriteScalarRef(n.Effects[i].Blur, rw)
	}
	n.Content = rewriteColorRef(n.Content, rw)
}

// nodeHasRef probes every $-bearing field against the rewriter without
// changing anything.
func nodeHasRef(n *doc.Node, rw rewriter) bool {
	var probes []string
	appendRef := func(s string) {
		if doc.IsVarRef(s) {
			probes = append(probes, s)
		}
	}
	appendRef(n.Content)
	for _, f := range n.Fill {
		appendRef(f.Color)
		for _, st := range f.Stops {
			appendRef(st.Color)
		}
	}
	if n.Stroke != nil {
		appendRef(n.Stroke.Color)
		if n.Stroke.Thickness.IsRef() {
			probes = append(probes, n.Stroke.Thickness.Ref)
		}
	}
	for _, e := range n.Effects {
		appendRef(e.Color)
		if e.Blur.IsRef() {
			probes = append(probes, e.Blur.Ref)
		}
	}
	for _, s := range []*doc.Scalar{n.Opacity, n.Gap, n.Padding, n.CornerRadius, n.FontSize} {
		if s.IsRef() {
			probes = append(probes, s.Ref)
		}
	}
	for _, sz := range []*doc.Size{n.Width, n.Height} {
		if sz != nil && sz.Ref != "" {
			probes = append(probes, sz.Ref)
		}
	}
	for _, p := range probes {
		if _, ok := rw(p); ok {
			return true
		}
	}
	return false
}

func rewriteScalarRef(s *doc.Scalar, rw rewriter) *doc.Scalar {
	if !s.IsRef() {
		return s
	}
	v, ok := rw(s.Ref)
	if !ok {
		return s
	}
	switch val := v.(type) {
	case string:
		if doc.IsVarRef(val) {
			return doc.RefScalar(val)
		}
		return doc.Num(doc.ParseLoose(val))
	case float64:
		return doc.Num(val)
	case int:
		return doc.Num(float64(val))
	default:
		return nil
	}
}

func rewriteSizeRef(s *doc.Size, rw rewriter) *doc.Size {
	if s == nil || s.Ref == "" {
		return s
	}
	v, ok := rw(s.Ref)
	if !ok {
		return s
	}
	switch val := v.(type) {
	case string:
		if doc.IsVarRef(val) {
			return &doc.Size{Ref: val}
		}
		return doc.Px(doc.ParseLoose(val))
	case float64:
		return doc.Px(val)
	case int:
		return doc.Px(float64(val))
	default:
		return nil
	}
}

func rewriteColorRef(color string, rw rewriter) string {
	if !doc.IsVarRef(color) {
		return color
	}
	v, ok := rw(color)
	if !ok {
		return color
	}
	if s, isStr := v.(string); isStr {
		return s
	}
	return ""
}

func resolveScalar(s *doc.Scalar, variables map[string]doc.VariableDefinition, theme map[string]string, fallback float64) *doc.Scalar {
	if !s.IsRef() {
		return s
	}
	if v, ok := ResolveFloat(s.Ref, variables, theme); ok {
		return doc.Num(v)
	}
	return doc.Num(fallback)
}

func resolveSize(s *doc.Size, variables map[string]doc.VariableDefinition, theme map[string]string) *doc.Size {
	if s == nil || s.Ref == "" {
		return s
	}
	if v, ok := ResolveFloat(s.Ref, variables, theme); ok {
		return doc.Px(v)
	}
	return &doc.Size{}
}

func resolveColor(color string, variables map[string]doc.VariableDefinition, theme map[string]string) string {
	if !doc.IsVarRef(color) {
		return color
	}
	if s, ok := ResolveString(color, variables, theme); ok {
		return s
	}
	return ""
}

func nodeNeedsResolution(n *doc.Node) bool {
	return nodeHasRef(n, func(s string) (any, bool) {
		return nil, doc.IsVarRef(s)
	})
}

func sameSlice(a, b []*doc.Node) bool {
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
