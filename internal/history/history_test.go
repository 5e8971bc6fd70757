package history

import (
	"fmt"
	"testing"

	"github.com/agentic-research/opal/internal/doc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snap(name string) *doc.Document { return doc.New(name) }

func TestUndoRedo_RoundTrip(t *testing.T) {
	e := New(0)

	e.Push(snap("v0"))
	current := snap("v1")

	back := e.Undo(current)
	require.NotNil(t, back)
	assert.Equal(t, "v0", back.Name)

	fwd := e.Redo(back)
	require.NotNil(t, fwd)
	assert.Equal(t, "v1", fwd.Name)
}

func TestUndo_Empty(t *testing.T) {
	e := New(0)
	assert.Nil(t, e.Undo(snap("current")))
	assert.False(t, e.CanUndo())
}

func TestPush_InvalidatesRedo(t *testing.T) {
	e := New(0)
	e.Push(snap("v0"))
	_ = e.Undo(snap("v1"))
	require.True(t, e.CanRedo())

	e.Push(snap("v0'"))
	assert.False(t, e.CanRedo(), "a new mutation after undo discards the redo branch")
}

func TestBound_OldestStateUnrecoverable(t *testing.T) {
	e := New(DefaultLimit)

	for i := range DefaultLimit + 10 {
		e.Push(snap(fmt.Sprintf("v%d", i)))
	}
	assert.Equal(t, DefaultLimit, e.Depth())

	// Unwind everything: the deepest reachable state is v10, not v0.
	var last *doc.Document
	current := snap("current")
	count := 0
	for e.CanUndo() {
		last = e.Undo(current)
		current = last
		count++
	}
	assert.Equal(t, DefaultLimit, count)
	require.NotNil(t, last)
	assert.Equal(t, "v10", last.Name)
}

func TestBatch_SingleEntryPerGesture(t *testing.T) {
	e := New(0)

	e.BeginBatch()
	e.Push(snap("before-drag"))
	e.Push(snap("mid-drag-1"))
	e.Push(snap("mid-drag-2"))
	e.EndBatch()

	assert.Equal(t, 1, e.Depth())
	back := e.Undo(snap("after-drag"))
	require.NotNil(t, back)
	assert.Equal(t, "before-drag", back.Name, "undo restores the pre-gesture state")
}

func TestBatch_Nested(t *testing.T) {
	e := New(0)
	e.BeginBatch()
	e.BeginBatch()
	e.Push(snap("a"))
	e.EndBatch()
	e.Push(snap("b"))
	e.EndBatch()
	assert.Equal(t, 1, e.Depth())

	e.Push(snap("c"))
	assert.Equal(t, 2, e.Depth(), "pushes after the batch record normally")
}

func TestClear(t *testing.T) {
	e := New(0)
	e.Push(snap("v0"))
	_ = e.Undo(snap("v1"))
	e.Clear()
	assert.False(t, e.CanUndo())
	assert.False(t, e.CanRedo())
}
