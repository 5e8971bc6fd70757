// Package canvas defines the scene-graph boundary and the synchronization
// engine between the document store and a live scene. The scene holds
// non-owning by-id back-references to document nodes; scene objects may be
// destroyed and recreated at will without affecting document validity.
package canvas

import "github.com/agentic-research/opal/internal/doc"

// Geometry is an object's placement in absolute canvas coordinates.
type Geometry struct {
	X        float64
	Y        float64
	W        float64
	H        float64
	Rotation float64
}

// Style carries fully resolved paint and text properties. Values crossing
// this boundary are always concrete: no $variable reference ever reaches
// the scene.
type Style struct {
	Opacity      float64
	Fill         []doc.Fill
	StrokeColor  string
	StrokeWidth  float64
	CornerRadius float64
	Effects      []doc.Effect
	Content      string
	FontSize     float64
	FontFamily   string
	Hidden       bool
}

// Object is one live scene primitive. It tags the node id it mirrors but
// never owns the node.
type Object interface {
	NodeID() string
	Kind() doc.Kind
	Geometry() Geometry
	SetGeometry(Geometry)
	Style() Style
	SetStyle(Style)
}

// Scene is what the engine requires from a scene-graph implementation.
// Rendering and export surfaces live behind this boundary and are not part
// of the engine's contract.
type Scene interface {
	// CreateObject makes a primitive for the given node variant. Creating
	// an object for a node id that already has one replaces it.
	CreateObject(kind doc.Kind, nodeID string) Object
	DestroyObject(nodeID string)
	Object(nodeID string) (Object, bool)
	NodeIDs() []string

	// HitTest returns the topmost non-hidden object containing the point.
	HitTest(x, y float64) (Object, bool)
	SetActive(nodeID string)
	Active() (Object, bool)
}
