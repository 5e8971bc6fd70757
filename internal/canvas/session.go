package canvas

import "github.com/agentic-research/opal/internal/doc"

// SessionKind selects which geometry channel a gesture drives.
type SessionKind int

const (
	SessionDrag SessionKind = iota
	SessionResize
	SessionRotate
)

// Session is one continuous pointer gesture. Live updates touch the scene
// object only; the document store is written exactly once, at commit, so a
// long drag produces a single history entry. Cancel discards the live
// scene state and the store, never having been written, needs no rollback.
type Session struct {
	e      *Engine
	nodeID string
	kind   SessionKind
	start  Geometry
	live   Geometry
	stale  bool
	done   bool
}

// BeginDrag starts a move gesture on the given node. Returns nil when the
// node has no scene object.
func (e *Engine) BeginDrag(nodeID string) *Session {
	return e.beginSession(nodeID, SessionDrag)
}

// BeginResize starts a resize gesture.
func (e *Engine) BeginResize(nodeID string) *Session {
	return e.beginSession(nodeID, SessionResize)
}

// BeginRotate starts a rotation gesture.
func (e *Engine) BeginRotate(nodeID string) *Session {
	return e.beginSession(nodeID, SessionRotate)
}

func (e *Engine) beginSession(nodeID string, kind SessionKind) *Session {
	obj, ok := e.scene.Object(nodeID)
	if !ok {
		return nil
	}
	sess := &Session{
		e:      e,
		nodeID: nodeID,
		kind:   kind,
		start:  obj.Geometry(),
		live:   obj.Geometry(),
	}
	e.sessions[nodeID] = sess
	e.scene.SetActive(nodeID)
	return sess
}

// DragTo moves the live object to an absolute canvas position. Scene only;
// no store write, no history entry.
func (s *Session) DragTo(x, y float64) {
	if s.done {
		return
	}
	s.live.X, s.live.Y = x, y
	s.applyLive()
}

// ResizeTo sets the live object's size.
func (s *Session) ResizeTo(w, h float64) {
	if s.done {
		return
	}
	s.live.W, s.live.H = w, h
	s.applyLive()
}

// RotateTo sets the live object's rotation in degrees.
func (s *Session) RotateTo(deg float64) {
	if s.done {
		return
	}
	s.live.Rotation = deg
	s.applyLive()
}

func (s *Session) applyLive() {
	if obj, ok := s.e.scene.Object(s.nodeID); ok {
		obj.SetGeometry(s.live)
	}
}

// Commit writes the gesture's final value through to the store. A session
// invalidated by an authoritative store change (undo, variable change,
// transform propagation) commits nothing; the document's state wins and
// the scene resyncs from it.
func (s *Session) Commit() {
	if s.done {
		return
	}
	s.done = true
	delete(s.e.sessions, s.nodeID)
	if s.stale {
		s.e.SyncAll()
		return
	}

	switch s.kind {
	case SessionDrag:
		children := s.e.store.Children()
		n := doc.Find(children, s.nodeID)
		if n == nil {
			return
		}
		// Scene coordinates are absolute; the document stores
		// parent-relative positions.
		ax, ay, _ := doc.AbsoluteOrigin(children, s.nodeID)
		offX, offY := ax-n.X, ay-n.Y
		s.e.writeThrough(func() {
			s.e.store.UpdateNode(s.nodeID, doc.Patch{
				"x": s.live.X - offX,
				"y": s.live.Y - offY,
			})
		})
	case SessionResize:
		s.e.writeThrough(func() {
			s.e.store.ResizeNode(s.nodeID, s.live.W, s.live.H)
		})
	case SessionRotate:
		s.e.writeThrough(func() {
			s.e.store.RotateNode(s.nodeID, s.live.Rotation)
		})
	}
}

// Cancel aborts the gesture and restores the scene from the document.
func (s *Session) Cancel() {
	if s.done {
		return
	}
	s.done = true
	delete(s.e.sessions, s.nodeID)
	s.e.SyncAll()
}
