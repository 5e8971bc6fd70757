package canvas

import (
	"github.com/charmbracelet/log"

	"github.com/agentic-research/opal/internal/doc"
	"github.com/agentic-research/opal/internal/store"
)

// Phase is the engine's re-entrancy guard. Whichever side initiates a
// change enters the corresponding syncing phase before writing to the
// other side and returns to Idle after; the receiving side's handler is a
// no-op outside Idle. This is what breaks the mutate-store, update-scene,
// mutate-store loop.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSyncingToScene
	PhaseSyncingToDocument
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSyncingToScene:
		return "syncing-to-scene"
	case PhaseSyncingToDocument:
		return "syncing-to-document"
	}
	return "unknown"
}

// Engine keeps a scene consistent with the document store. It is
// single-threaded by contract: every mutation runs to completion inside
// one handler before another may run, so the phase field needs no lock.
type Engine struct {
	store    *store.Store
	scene    Scene
	phase    Phase
	logger   *log.Logger
	sessions map[string]*Session
}

// NewEngine wires an engine between a store and a scene and performs the
// initial full sync. A nil logger falls back to the process default.
func NewEngine(st *store.Store, scene Scene, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	e := &Engine{
		store:    st,
		scene:    scene,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
	st.Subscribe(e.onStoreChange)
	e.SyncAll()
	return e
}

// Phase returns the engine's current sync phase.
func (e *Engine) Phase() Phase { return e.phase }

// Scene returns the scene this engine drives.
func (e *Engine) Scene() Scene { return e.scene }

// SyncAll reconciles the whole scene against the document: every node on
// the active page gets a matching object, every orphaned object is
// destroyed.
func (e *Engine) SyncAll() {
	if e.phase != PhaseIdle {
		return
	}
	e.phase = PhaseSyncingToScene
	e.reconcile()
	e.phase = PhaseIdle
}

// onStoreChange is the document-to-scene direction. While the engine is
// writing in either direction the handler no-ops; the initiating side
// reconciles explicitly once its write completes.
func (e *Engine) onStoreChange(ev store.Event) {
	if e.phase != PhaseIdle {
		return
	}
	if ev.Authoritative() {
		e.invalidateSessions(ev)
	}
	e.phase = PhaseSyncingToScene
	e.reconcile()
	e.phase = PhaseIdle
}

// invalidateSessions marks live interaction sessions stale. An undo, a
// variable change, or a transform propagation rewrote state under the
// gesture; the document wins and the gesture's pending scene values are
// discarded at commit.
func (e *Engine) invalidateSessions(ev store.Event) {
	for id, sess := range e.sessions {
		sess.stale = true
		e.logger.Debug("discarding stale interaction", "node", id, "op", ev.Op)
	}
}

func (e *Engine) reconcile() {
	children := e.store.Children()
	present := make(map[string]struct{})
	e.syncNodes(children, children, 0, 0)
	for _, n := range doc.Flatten(children) {
		present[n.ID] = struct{}{}
	}
	for _, id := range e.scene.NodeIDs() {
		if _, ok := present[id]; !ok {
			e.scene.DestroyObject(id)
		}
	}
}

// syncNodes walks a sibling list carrying the accumulated parent offset,
// so scene geometry is always absolute.
func (e *Engine) syncNodes(nodes, all []*doc.Node, dx, dy float64) {
	for _, n := range nodes {
		e.syncNode(n, all, dx, dy)
		e.syncNodes(n.Children, all, dx+n.X, dy+n.Y)
	}
}

func (e *Engine) syncNode(n *doc.Node, all []*doc.Node, dx, dy float64) {
	obj, ok := e.scene.Object(n.ID)
	if !ok || obj.Kind() != n.Kind {
		obj = e.scene.CreateObject(n.Kind, n.ID)
	}
	resolved := e.store.ResolveNode(n)
	b := doc.Bounds(resolved, all)
	obj.SetGeometry(Geometry{
		X:        dx + n.X,
		Y:        dy + n.Y,
		W:        b.W,
		H:        b.H,
		Rotation: n.Rotation,
	})
	obj.SetStyle(styleFor(resolved))
}

// styleFor maps a resolved node onto boundary style values. The node has
// already been through variable resolution; remaining zero values take the
// documented concrete fallbacks.
func styleFor(n *doc.Node) Style {
	st := Style{
		Opacity:      n.Opacity.Float(1),
		Fill:         n.Fill,
		CornerRadius: n.CornerRadius.Float(0),
		Effects:      n.Effects,
		Content:      n.Content,
		FontSize:     n.FontSize.Float(0),
		FontFamily:   n.FontFamily,
		Hidden:       n.Hidden,
	}
	if n.Stroke != nil {
		st.StrokeColor = n.Stroke.Color
		st.StrokeWidth = n.Stroke.Thickness.Float(1)
	}
	return st
}

// writeThrough runs a store mutation in the scene-to-document phase, then
// reconciles so transform propagation and other derived changes reach the
// scene.
func (e *Engine) writeThrough(fn func()) {
	if e.phase != PhaseIdle {
		e.logger.Warn("dropping scene write during active sync", "phase", e.phase)
		return
	}
	e.phase = PhaseSyncingToDocument
	fn()
	e.phase = PhaseSyncingToScene
	e.reconcile()
	e.phase = PhaseIdle
}
