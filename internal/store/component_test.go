package store

import (
	"testing"

	"github.com/agentic-research/opal/internal/doc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buttonComponent(t *testing.T) *doc.Node {
	t.Helper()
	return &doc.Node{
		ID: "btn", Kind: doc.KindFrame, Name: "Button", Reusable: true,
		X: 0, Y: 0, Width: doc.Px(100), Height: doc.Px(40),
		Fill: []doc.Fill{{Type: "solid", Color: "#111111"}},
		Children: []*doc.Node{{
			ID: "label-id", Kind: doc.KindText, Content: "Click",
			X: 10, Y: 10,
		}},
	}
}

func TestMakeReusable(t *testing.T) {
	f := &doc.Node{ID: "f", Kind: doc.KindFrame, Width: doc.Px(10), Height: doc.Px(10)}
	s := newStore(t, f)

	s.MakeReusable("f")
	assert.True(t, s.Find("f").Reusable)
	require.True(t, s.CanUndo())
}

func TestMakeReusable_Guards(t *testing.T) {
	txt := &doc.Node{ID: "t", Kind: doc.KindText, Content: "hi"}
	comp := &doc.Node{ID: "c", Kind: doc.KindFrame, Reusable: true, Width: doc.Px(1), Height: doc.Px(1)}
	s := newStore(t, txt, comp)

	s.MakeReusable("t")     // text cannot be a component
	s.MakeReusable("c")     // already one
	s.MakeReusable("ghost") // absent
	assert.False(t, s.Find("t").Reusable)
	assert.False(t, s.CanUndo(), "rejected calls leave history untouched")
}

func TestCreateInstance(t *testing.T) {
	s := newStore(t, buttonComponent(t))

	instID := s.CreateInstance("btn")
	require.NotEmpty(t, instID)
	inst := s.Find(instID)
	require.NotNil(t, inst)
	assert.Equal(t, doc.KindRef, inst.Kind)
	assert.Equal(t, "btn", inst.Ref)
	assert.Equal(t, "Button", inst.Name)
	assert.Equal(t, 120.0, inst.X, "instance lands beside the definition")
	assert.Empty(t, inst.Children)
}

func TestCreateInstance_NonReusableRejected(t *testing.T) {
	f := &doc.Node{ID: "f", Kind: doc.KindFrame, Width: doc.Px(10), Height: doc.Px(10)}
	s := newStore(t, f)
	assert.Empty(t, s.CreateInstance("f"))
	assert.False(t, s.CanUndo())
}

func TestDetachComponent_Definition(t *testing.T) {
	s := newStore(t, buttonComponent(t))
	instID := s.CreateInstance("btn")

	s.DetachComponent("btn")
	assert.False(t, s.Find("btn").Reusable)

	// Existing instances bind by id and keep working.
	inst := s.Find(instID)
	require.NotNil(t, inst)
	assert.Equal(t, "btn", inst.Ref)
}

func TestDetachComponent_InstanceWithOverride(t *testing.T) {
	s := newStore(t, buttonComponent(t))
	instID := s.CreateInstance("btn")
	s.UpdateNode(instID, doc.Patch{
		"descendants": map[string]any{
			"label-id": map[string]any{"content": "Hi"},
		},
	})
	instX := s.Find(instID).X

	s.DetachComponent(instID)

	assert.Nil(t, s.Find(instID), "the ref node is gone")
	detached := s.Children()[1]
	assert.Equal(t, doc.KindFrame, detached.Kind)
	assert.False(t, detached.Reusable)
	assert.NotEqual(t, "btn", detached.ID)
	assert.Equal(t, instX, detached.X, "detached copy keeps the instance's placement")

	require.Len(t, detached.Children, 1)
	label := detached.Children[0]
	assert.Equal(t, "Hi", label.Content, "override applied before ids were reassigned")
	assert.NotEqual(t, "label-id", label.ID, "every id in the copy is fresh")
}

func TestDetachComponent_InstanceTopLevelOverride(t *testing.T) {
	s := newStore(t, buttonComponent(t))
	instID := s.CreateInstance("btn")
	s.UpdateNode(instID, doc.Patch{
		"descendants": map[string]any{
			"btn": map[string]any{"fill": []any{map[string]any{"type": "solid", "color": "#FF0000"}}},
		},
	})

	s.DetachComponent(instID)
	detached := s.Children()[1]
	require.Len(t, detached.Fill, 1)
	assert.Equal(t, "#FF0000", detached.Fill[0].Color)
	assert.False(t, detached.Reusable, "a patched copy never inherits the definition flag")
}

func TestDetachComponent_DanglingInstanceNoOp(t *testing.T) {
	inst := &doc.Node{ID: "inst", Kind: doc.KindRef, Ref: "nowhere"}
	s := newStore(t, inst)

	s.DetachComponent("inst")
	assert.NotNil(t, s.Find("inst"))
	assert.False(t, s.CanUndo())
}

func TestDetachComponent_UndoRestoresInstance(t *testing.T) {
	s := newStore(t, buttonComponent(t))
	instID := s.CreateInstance("btn")

	s.DetachComponent(instID)
	require.Nil(t, s.Find(instID))

	require.True(t, s.Undo())
	inst := s.Find(instID)
	require.NotNil(t, inst)
	assert.Equal(t, doc.KindRef, inst.Kind)
}

func TestSetVariable(t *testing.T) {
	s := newStore(t)
	s.SetVariable("accent", doc.VariableDefinition{Type: "color", Value: "#2563EB"})
	def, ok := s.Document().Variables["accent"]
	require.True(t, ok)
	assert.Equal(t, "#2563EB", def.Value)
	require.True(t, s.CanUndo())
}

func TestRenameVariable_RewritesBindings(t *testing.T) {
	r := newRect("r", 0, 0, 10, 10)
	r.Fill = []doc.Fill{{Type: "solid", Color: "$accent"}}
	s := newStore(t, r)
	s.SetVariable("accent", doc.VariableDefinition{Type: "color", Value: "#2563EB"})

	s.RenameVariable("accent", "brand")
	assert.NotContains(t, s.Document().Variables, "accent")
	assert.Contains(t, s.Document().Variables, "brand")
	assert.Equal(t, "$brand", s.Find("r").Fill[0].Color)
}

func TestRenameVariable_Guards(t *testing.T) {
	s := newStore(t)
	s.SetVariable("a", doc.VariableDefinition{Type: "number", Value: 1.0})
	s.SetVariable("b", doc.VariableDefinition{Type: "number", Value: 2.0})
	depth := historyDepth(s)

	s.RenameVariable("a", "b")     // target taken
	s.RenameVariable("ghost", "c") // source absent
	assert.Equal(t, depth, historyDepth(s))
	assert.Contains(t, s.Document().Variables, "a")
}

func TestRemoveVariable_BakesResolvedValue(t *testing.T) {
	r := newRect("r", 0, 0, 10, 10)
	r.Fill = []doc.Fill{{Type: "solid", Color: "$accent"}}
	s := newStore(t, r)
	s.SetVariable("accent", doc.VariableDefinition{Type: "color", Value: "#2563EB"})

	s.RemoveVariable("accent")

	assert.NotContains(t, s.Document().Variables, "accent")
	require.Len(t, s.Find("r").Fill, 1)
	assert.Equal(t, "#2563EB", s.Find("r").Fill[0].Color,
		"the fill keeps the literal value the variable last resolved to")
}

func TestRemoveVariable_BakesThemedValue(t *testing.T) {
	r := newRect("r", 0, 0, 10, 10)
	r.Fill = []doc.Fill{{Type: "solid", Color: "$surface"}}
	s := newStore(t, r)
	s.SetActiveTheme(map[string]string{"mode": "dark"})
	s.SetVariable("surface", doc.VariableDefinition{
		Type: "color",
		Values: []doc.ThemedValue{
			{Theme: map[string]string{"mode": "light"}, Value: "#FFFFFF"},
			{Theme: map[string]string{"mode": "dark"}, Value: "#0B0B0F"},
		},
	})

	s.RemoveVariable("surface")
	assert.Equal(t, "#0B0B0F", s.Find("r").Fill[0].Color,
		"baking resolves under the active theme")
}

func TestPages(t *testing.T) {
	s := newStore(t, newRect("a", 0, 0, 10, 10))

	pageID := s.AddPage("Details")
	require.NotEmpty(t, pageID)
	d := s.Document()
	require.True(t, d.MultiPage())
	require.Len(t, d.Pages, 2)
	assert.Equal(t, "Page 1", d.Pages[0].Name, "existing content becomes page one")
	require.Len(t, d.Pages[0].Children, 1)
	assert.Equal(t, "a", d.Pages[0].Children[0].ID)

	s.SetActivePage(1)
	assert.Empty(t, s.Children())
	s.AddNode("", newRect("b", 0, 0, 5, 5), -1)
	assert.NotNil(t, s.Find("b"))
	s.SetActivePage(0)
	assert.Nil(t, s.Find("b"), "finds are scoped to the active page")

	s.RenamePage(pageID, "Detail views")
	assert.Equal(t, "Detail views", s.Document().Pages[1].Name)

	s.RemovePage(pageID)
	require.Len(t, s.Document().Pages, 1)
	s.RemovePage(s.Document().Pages[0].ID)
	assert.Len(t, s.Document().Pages, 1, "the last page cannot be removed")
}

func TestRemovePage_ClampsActivePage(t *testing.T) {
	s := newStore(t)
	pageID := s.AddPage("Second")
	s.SetActivePage(1)

	s.RemovePage(pageID)
	assert.Equal(t, 0, s.ActivePage())
}
