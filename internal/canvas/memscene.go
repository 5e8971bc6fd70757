package canvas

import "github.com/agentic-research/opal/internal/doc"

// memObject is the retained-scene primitive.
type memObject struct {
	nodeID string
	kind   doc.Kind
	geom   Geometry
	style  Style
}

func (o *memObject) NodeID() string        { return o.nodeID }
func (o *memObject) Kind() doc.Kind        { return o.kind }
func (o *memObject) Geometry() Geometry    { return o.geom }
func (o *memObject) SetGeometry(g Geometry) { o.geom = g }
func (o *memObject) Style() Style          { return o.style }
func (o *memObject) SetStyle(s Style)      { o.style = s }

// MemScene is an in-memory retained scene. It backs the engine in tests
// and the CLI inspector; it keeps objects in creation order, which doubles
// as paint order for hit testing.
type MemScene struct {
	order   []string
	objects map[string]*memObject
	active  string
}

// NewMemScene returns an empty retained scene.
func NewMemScene() *MemScene {
	return &MemScene{objects: make(map[string]*memObject)}
}

func (s *MemScene) CreateObject(kind doc.Kind, nodeID string) Object {
	if _, exists := s.objects[nodeID]; !exists {
		s.order = append(s.order, nodeID)
	}
	obj := &memObject{nodeID: nodeID, kind: kind}
	s.objects[nodeID] = obj
	return obj
}

func (s *MemScene) DestroyObject(nodeID string) {
	if _, exists := s.objects[nodeID]; !exists {
		return
	}
	delete(s.objects, nodeID)
	for i, id := range s.order {
		if id == nodeID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if s.active == nodeID {
		s.active = ""
	}
}

func (s *MemScene) Object(nodeID string) (Object, bool) {
	obj, ok := s.objects[nodeID]
	return obj, ok
}

func (s *MemScene) NodeIDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// HitTest walks paint order back to front so the topmost object wins.
func (s *MemScene) HitTest(x, y float64) (Object, bool) {
	for i := len(s.order) - 1; i >= 0; i-- {
		obj := s.objects[s.order[i]]
		if obj.style.Hidden {
			continue
		}
		g := obj.geom
		if x >= g.X && x < g.X+g.W && y >= g.Y && y < g.Y+g.H {
			return obj, true
		}
	}
	return nil, false
}

func (s *MemScene) SetActive(nodeID string) {
	if _, ok := s.objects[nodeID]; ok || nodeID == "" {
		s.active = nodeID
	}
}

func (s *MemScene) Active() (Object, bool) {
	if s.active == "" {
		return nil, false
	}
	obj, ok := s.objects[s.active]
	return obj, ok
}
