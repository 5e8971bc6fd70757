package doc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rect(id string, x, y, w, h float64) *Node {
	return &Node{ID: id, Kind: KindRectangle, X: x, Y: y, Width: Px(w), Height: Px(h)}
}

func frame(id string, children ...*Node) *Node {
	return &Node{ID: id, Kind: KindFrame, Width: Px(200), Height: Px(200), Children: children}
}

func TestFind_DepthFirst(t *testing.T) {
	tree := []*Node{
		frame("a", rect("a1", 0, 0, 10, 10), frame("a2", rect("a2x", 0, 0, 5, 5))),
		rect("b", 0, 0, 10, 10),
	}

	require.NotNil(t, Find(tree, "a2x"))
	assert.Equal(t, "a2x", Find(tree, "a2x").ID)
	assert.Nil(t, Find(tree, "missing"))
}

func TestFindParent(t *testing.T) {
	inner := rect("inner", 0, 0, 5, 5)
	tree := []*Node{frame("outer", frame("mid", inner))}

	p := FindParent(tree, "inner")
	require.NotNil(t, p)
	assert.Equal(t, "mid", p.ID)

	assert.Nil(t, FindParent(tree, "outer"), "root nodes have no parent")
	assert.Nil(t, FindParent(tree, "nope"))
}

func TestInsert_RootAndNested(t *testing.T) {
	tree := []*Node{rect("a", 0, 0, 1, 1), rect("b", 0, 0, 1, 1)}

	out := Insert(tree, "", rect("c", 0, 0, 1, 1), 1)
	require.Len(t, out, 3)
	assert.Equal(t, []string{"a", "c", "b"}, ids(out))
	assert.Len(t, tree, 2, "input must not be mutated")

	tree2 := []*Node{frame("f", rect("x", 0, 0, 1, 1))}
	out2 := Insert(tree2, "f", rect("y", 0, 0, 1, 1), -1)
	require.Len(t, out2[0].Children, 2)
	assert.Equal(t, "y", out2[0].Children[1].ID)
	assert.Len(t, tree2[0].Children, 1, "input subtree must not be mutated")
}

func TestInsert_MissingParentIsNoop(t *testing.T) {
	tree := []*Node{rect("a", 0, 0, 1, 1)}
	out := Insert(tree, "ghost", rect("b", 0, 0, 1, 1), -1)
	assert.Equal(t, tree, out)
}

func TestRemove_AllLevels(t *testing.T) {
	tree := []*Node{
		frame("f", rect("gone", 0, 0, 1, 1), rect("keep", 0, 0, 1, 1)),
		rect("top", 0, 0, 1, 1),
	}

	out := Remove(tree, "gone")
	require.Len(t, out, 2)
	assert.Equal(t, []string{"keep"}, ids(out[0].Children))
	assert.Same(t, tree[1], out[1], "untouched siblings keep their identity")
	assert.Len(t, tree[0].Children, 2, "input must not be mutated")
}

func TestUpdate_SiblingsReferentiallyUnchanged(t *testing.T) {
	sibling := rect("sib", 0, 0, 1, 1)
	tree := []*Node{frame("f", rect("target", 0, 0, 1, 1), sibling)}

	out := Update(tree, "target", Patch{"x": 42.0, "name": "moved"})
	updated := Find(out, "target")
	require.NotNil(t, updated)
	assert.Equal(t, 42.0, updated.X)
	assert.Equal(t, "moved", updated.Name)

	assert.Same(t, sibling, out[0].Children[1])
	assert.NotSame(t, tree[0], out[0], "spine is copied")
	assert.Equal(t, 0.0, Find(tree, "target").X, "input must not be mutated")
}

func TestUpdate_MissingIDIsNoop(t *testing.T) {
	tree := []*Node{rect("a", 0, 0, 1, 1)}
	out := Update(tree, "ghost", Patch{"x": 1.0})
	assert.Equal(t, tree, out)
}

func TestIsDescendantOf(t *testing.T) {
	tree := []*Node{frame("a", frame("b", rect("c", 0, 0, 1, 1)))}

	assert.True(t, IsDescendantOf(tree, "c", "a"))
	assert.True(t, IsDescendantOf(tree, "b", "a"))
	assert.False(t, IsDescendantOf(tree, "a", "c"))
	assert.False(t, IsDescendantOf(tree, "a", "a"), "a node is not its own descendant")
}

func TestFlatten_PreOrder(t *testing.T) {
	tree := []*Node{frame("a", rect("a1", 0, 0, 1, 1)), rect("b", 0, 0, 1, 1)}
	assert.Equal(t, []string{"a", "a1", "b"}, ids(Flatten(tree)))
}

func TestStripRefsTo(t *testing.T) {
	inst := &Node{ID: "inst", Kind: KindRef, Ref: "comp", Descendants: map[string]Patch{
		"comp-child": {"content": "Hi"},
		"other":      {"x": 1.0},
	}}
	tree := []*Node{frame("f", inst)}

	out := StripRefsTo(tree, map[string]struct{}{"comp": {}, "comp-child": {}})
	got := Find(out, "inst")
	require.NotNil(t, got)
	assert.Empty(t, got.Ref)
	assert.NotContains(t, got.Descendants, "comp-child")
	assert.Contains(t, got.Descendants, "other")

	assert.Equal(t, "comp", Find(tree, "inst").Ref, "input must not be mutated")
}

func TestCloneWithNewIDs_UniqueAndRemapped(t *testing.T) {
	src := frame("root",
		rect("child", 1, 2, 3, 4),
		&Node{ID: "inner-inst", Kind: KindRef, Ref: "child", Descendants: map[string]Patch{"child": {"x": 9.0}}},
	)

	clone, idMap := CloneWithNewIDs(src)
	require.Len(t, idMap, 3)
	assert.NotEqual(t, "root", clone.ID)
	for old, fresh := range idMap {
		assert.NotEqual(t, old, fresh)
	}

	// Internal ref pointers follow the copy.
	innerInst := clone.Children[1]
	assert.Equal(t, idMap["child"], innerInst.Ref)
	assert.Contains(t, innerInst.Descendants, idMap["child"])

	// Source is untouched.
	assert.Equal(t, "child", src.Children[1].Ref)
}

func ids(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}
