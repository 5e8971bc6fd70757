package tests

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/agentic-research/opal/api"
	"github.com/agentic-research/opal/internal/canvas"
	"github.com/agentic-research/opal/internal/catalog"
	"github.com/agentic-research/opal/internal/doc"
	"github.com/agentic-research/opal/internal/mcp"
	"github.com/agentic-research/opal/internal/opfile"
	"github.com/agentic-research/opal/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture bundles the full pipeline: a document file on disk, the store
// that owns it, and a scene kept in sync by the engine.
type fixture struct {
	dir    string
	path   string
	store  *store.Store
	scene  *canvas.MemScene
	engine *canvas.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "design.op")

	d := doc.New("Integration")
	d.Variables = map[string]doc.VariableDefinition{
		"accent": {Type: "color", Value: "#2563EB"},
	}
	d.Children = []*doc.Node{
		{
			ID: "card", Kind: doc.KindFrame, Name: "Card", Reusable: true,
			X: 0, Y: 0, Width: doc.Px(200), Height: doc.Px(100),
			Fill: []doc.Fill{{Type: "solid", Color: "$accent"}},
			Children: []*doc.Node{
				{ID: "card-title", Kind: doc.KindText, Content: "Title", X: 10, Y: 10},
			},
		},
	}
	require.NoError(t, opfile.Save(path, d))

	loaded, err := opfile.Load(path)
	require.NoError(t, err)
	st := store.New(loaded, 0)
	scene := canvas.NewMemScene()
	engine := canvas.NewEngine(st, scene, nil)
	return &fixture{dir: dir, path: path, store: st, scene: scene, engine: engine}
}

func TestEndToEnd_ComponentLifecycle(t *testing.T) {
	f := newFixture(t)

	instID := f.store.CreateInstance("card")
	require.NotEmpty(t, instID)

	obj, ok := f.scene.Object(instID)
	require.True(t, ok, "the new instance reaches the scene")
	assert.Equal(t, 220.0, obj.Geometry().X)
	assert.Equal(t, 200.0, obj.Geometry().W, "instance borrows the definition's size")

	f.store.UpdateNode(instID, doc.Patch{
		"descendants": map[string]any{
			"card-title": map[string]any{"content": "Hi"},
		},
	})
	f.store.DetachComponent(instID)
	assert.Nil(t, f.store.Find(instID))

	detached := f.store.Children()[1]
	require.Len(t, detached.Children, 1)
	assert.Equal(t, "Hi", detached.Children[0].Content)
	assert.NotEqual(t, "card-title", detached.Children[0].ID)

	// Save, reload, and confirm the materialized copy persisted intact.
	require.NoError(t, opfile.Save(f.path, f.store.Document()))
	reloaded, err := opfile.Load(f.path)
	require.NoError(t, err)
	assert.Empty(t, opfile.Warnings(reloaded))
	require.Len(t, reloaded.Children, 2)
}

func TestEndToEnd_VariableEditReachesScene(t *testing.T) {
	f := newFixture(t)

	obj, _ := f.scene.Object("card")
	assert.Equal(t, "#2563EB", obj.Style().Fill[0].Color)

	f.store.SetVariable("accent", doc.VariableDefinition{Type: "color", Value: "#DC2626"})
	assert.Equal(t, "#DC2626", obj.Style().Fill[0].Color)

	require.True(t, f.store.Undo())
	assert.Equal(t, "#2563EB", obj.Style().Fill[0].Color, "undo restores the old binding in the scene")
}

func TestEndToEnd_GestureUndoSave(t *testing.T) {
	f := newFixture(t)

	sess := f.engine.BeginDrag("card")
	require.NotNil(t, sess)
	sess.DragTo(300, 150)
	sess.Commit()
	assert.Equal(t, 300.0, f.store.Find("card").X)

	require.NoError(t, opfile.Save(f.path, f.store.Document()))
	f.store.MarkSaved()
	require.True(t, f.store.Undo())
	assert.True(t, f.store.Dirty(), "undoing past the save point marks the document dirty again")

	reloaded, err := opfile.Load(f.path)
	require.NoError(t, err)
	assert.Equal(t, 300.0, reloaded.Children[0].X, "the file keeps the committed drag")
}

func TestEndToEnd_MCPToolsOverSavedFile(t *testing.T) {
	f := newFixture(t)

	cat, err := catalog.Open(filepath.Join(f.dir, "catalog.db"))
	require.NoError(t, err)
	defer cat.Close()
	svc := mcp.NewService(cat, nil)

	info, err := svc.OpenDocument(f.path)
	require.NoError(t, err)
	assert.Equal(t, "Integration", info.Name)
	assert.Equal(t, 2, info.Nodes)

	matches, err := svc.BatchGet(f.path, []string{`$.children[?(@.reusable == true)].id`}, nil, -1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "card", matches[0])

	space, err := svc.FindEmptySpace(f.path, 100, 100, "right", 20)
	require.NoError(t, err)
	assert.Equal(t, 220.0, space.X)

	entries, err := svc.ListDocuments()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, api.CatalogEntry{
		Path:       f.path,
		Name:       "Integration",
		Pages:      1,
		LastOpened: entries[0].LastOpened,
	}, entries[0])
}

func TestEndToEnd_LegacyPenUpgrade(t *testing.T) {
	dir := t.TempDir()
	legacyPath := filepath.Join(dir, "old.pen")
	legacy := `{
  "version": "0.9",
  "children": [
    {"id": "a", "type": "artboard", "width": "400px", "height": "hug",
     "fill": "#EEEEEE",
     "children": [{"id": "b", "type": "rectangle", "width": 40, "height": 40, "fill": "#111111"}]}
  ]
}`
	require.NoError(t, os.WriteFile(legacyPath, []byte(legacy), 0o644))

	d, err := opfile.Load(legacyPath)
	require.NoError(t, err)
	root := d.Children[0]
	assert.Equal(t, doc.KindFrame, root.Kind)
	assert.Equal(t, "solid", root.Fill[0].Type)
	assert.Equal(t, 400.0, root.Width.Px)
	assert.Equal(t, doc.SizeFitContent, root.Height.Keyword)

	// Re-save in the current format and confirm it round-trips as .op.
	opPath := filepath.Join(dir, "new.op")
	require.NoError(t, opfile.Save(opPath, d))
	again, err := opfile.Load(opPath)
	require.NoError(t, err)
	assert.Equal(t, doc.KindFrame, again.Children[0].Kind)
}
