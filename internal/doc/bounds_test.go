package doc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBounds_FixedSize(t *testing.T) {
	n := rect("r", 10, 20, 100, 50)
	assert.Equal(t, Rect{X: 10, Y: 20, W: 100, H: 50}, Bounds(n, []*Node{n}))
}

func TestBounds_RefBorrowsComponentGeometry(t *testing.T) {
	comp := frame("comp")
	comp.Reusable = true
	comp.Width, comp.Height = Px(100), Px(50)
	inst := &Node{ID: "inst", Kind: KindRef, Ref: "comp", X: 300, Y: 5}
	all := []*Node{comp, inst}

	got := Bounds(inst, all)
	assert.Equal(t, Rect{X: 300, Y: 5, W: 100, H: 50}, got)
}

func TestBounds_DanglingRefIsEmptyPlaceholder(t *testing.T) {
	inst := &Node{ID: "inst", Kind: KindRef, Ref: "deleted", X: 7, Y: 8}
	got := Bounds(inst, []*Node{inst})
	assert.Equal(t, Rect{X: 7, Y: 8}, got)
}

func TestBounds_SelfNestedInstanceDegrades(t *testing.T) {
	comp := &Node{
		ID: "comp", Kind: KindFrame, Reusable: true,
		Width:  &Size{Keyword: SizeFitContent},
		Height: &Size{Keyword: SizeFitContent},
	}
	inst := &Node{ID: "inst", Kind: KindRef, Ref: "comp", X: 50}
	comp.Children = []*Node{inst}
	all := []*Node{comp}

	got := Bounds(inst, all)
	assert.Equal(t, Rect{X: 50, W: 50}, got, "the cyclic hop sizes as an empty placeholder")
}

func TestBounds_MutualRefCycleDegrades(t *testing.T) {
	a := &Node{
		ID: "a", Kind: KindFrame,
		Width:    &Size{Keyword: SizeFitContent},
		Height:   &Size{Keyword: SizeFitContent},
		Children: []*Node{{ID: "a-inst", Kind: KindRef, Ref: "b"}},
	}
	b := &Node{
		ID: "b", Kind: KindFrame,
		Width:    &Size{Keyword: SizeFitContent},
		Height:   &Size{Keyword: SizeFitContent},
		Children: []*Node{{ID: "b-inst", Kind: KindRef, Ref: "a"}},
	}
	all := []*Node{a, b}

	assert.Equal(t, Rect{}, Bounds(a, all))
	assert.Equal(t, Rect{}, Bounds(b, all))
}

func TestBounds_FitContentUsesChildExtent(t *testing.T) {
	f := &Node{
		ID: "f", Kind: KindFrame,
		Width:  &Size{Keyword: SizeFitContent},
		Height: &Size{Keyword: SizeFitContent},
		Children: []*Node{
			rect("a", 0, 0, 30, 10),
			rect("b", 50, 20, 30, 10),
		},
	}
	got := Bounds(f, []*Node{f})
	assert.Equal(t, 80.0, got.W)
	assert.Equal(t, 30.0, got.H)
}

func TestUnionBounds(t *testing.T) {
	all := []*Node{rect("a", 0, 0, 10, 10), rect("b", 20, 5, 10, 10)}
	got := UnionBounds(all, all)
	assert.Equal(t, Rect{X: 0, Y: 0, W: 30, H: 15}, got)
}

func TestFindClearX_PushesPastOverlaps(t *testing.T) {
	src := rect("src", 0, 0, 100, 50)
	blocker := rect("blocker", 120, 0, 40, 40) // sits exactly where the first probe lands
	siblings := []*Node{src, blocker}

	x := FindClearX(siblings, src, siblings, 0)
	assert.Equal(t, 180.0, x, "probe must move past the blocker plus gap")
}

func TestFindClearX_NoSiblings(t *testing.T) {
	src := rect("src", 0, 0, 100, 50)
	x := FindClearX([]*Node{src}, src, []*Node{src}, 0)
	assert.Equal(t, 120.0, x)
}

func TestAbsoluteOrigin(t *testing.T) {
	leaf := rect("leaf", 5, 6, 1, 1)
	mid := frame("mid", leaf)
	mid.X, mid.Y = 10, 20
	root := frame("root", mid)
	root.X, root.Y = 100, 200
	tree := []*Node{root}

	x, y, ok := AbsoluteOrigin(tree, "leaf")
	require.True(t, ok)
	assert.Equal(t, 115.0, x)
	assert.Equal(t, 226.0, y)

	_, _, ok = AbsoluteOrigin(tree, "ghost")
	assert.False(t, ok)
}
