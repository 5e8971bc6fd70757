package doc

import "math"

// ScaleChildren rewrites every descendant's relative geometry by the given
// factors. The container itself is never touched here; the caller has
// already resized it. An identity scale returns the input list unchanged,
// reference-equal, so callers can skip history churn.
func ScaleChildren(children []*Node, sx, sy float64) []*Node {
	if sx == 1 && sy == 1 {
		return children
	}
	if len(children) == 0 {
		return children
	}
	out := make([]*Node, len(children))
	for i, c := range children {
		next := shallowCopy(c)
		next.X = c.X * sx
		next.Y = c.Y * sy
		if c.Width.Fixed() {
			next.Width = Px(c.Width.Px * sx)
		}
		if c.Height.Fixed() {
			next.Height = Px(c.Height.Px * sy)
		}
		if len(c.Points) > 0 {
			pts := make([]Point, len(c.Points))
			for j, p := range c.Points {
				pts[j] = Point{X: p.X * sx, Y: p.Y * sy}
			}
			next.Points = pts
		}
		next.Children = ScaleChildren(c.Children, sx, sy)
		out[i] = next
	}
	return out
}

// RotateChildren rewrites every descendant for a rotation of the parent by
// delta degrees: the (x,y) offset vector rotates by delta and the delta
// accumulates into each child's own rotation, mod 360. A zero delta
// returns the input unchanged, reference-equal.
func RotateChildren(children []*Node, delta float64) []*Node {
	if delta == 0 {
		return children
	}
	if len(children) == 0 {
		return children
	}
	rad := delta * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	out := make([]*Node, len(children))
	for i, c := range children {
		next := shallowCopy(c)
		next.X = c.X*cos - c.Y*sin
		next.Y = c.X*sin + c.Y*cos
		next.Rotation = math.Mod(c.Rotation+delta, 360)
		next.Children = RotateChildren(c.Children, delta)
		out[i] = next
	}
	return out
}
