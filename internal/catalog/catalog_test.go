package catalog

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/agentic-research/opal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTest(t *testing.T) *Catalog {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestTouchAndList(t *testing.T) {
	c := openTest(t)

	require.NoError(t, c.Touch(api.CatalogEntry{
		Path: "/designs/a.op", Name: "A", Pages: 1,
		LastOpened: time.Unix(1000, 0),
	}))
	require.NoError(t, c.Touch(api.CatalogEntry{
		Path: "/designs/b.op", Name: "B", Pages: 3,
		LastOpened: time.Unix(2000, 0),
	}))

	entries, err := c.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "/designs/b.op", entries[0].Path, "most recent first")
	assert.Equal(t, 3, entries[0].Pages)
	assert.Equal(t, time.Unix(1000, 0), entries[1].LastOpened)
}

func TestTouch_UpsertsByPath(t *testing.T) {
	c := openTest(t)

	require.NoError(t, c.Touch(api.CatalogEntry{Path: "/d.op", Name: "old", LastOpened: time.Unix(1, 0)}))
	require.NoError(t, c.Touch(api.CatalogEntry{Path: "/d.op", Name: "new", Pages: 2, LastOpened: time.Unix(2, 0)}))

	entries, err := c.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "new", entries[0].Name)
	assert.Equal(t, 2, entries[0].Pages)
}

func TestTouch_DefaultsLastOpenedToNow(t *testing.T) {
	c := openTest(t)
	before := time.Now().Add(-time.Second)

	require.NoError(t, c.Touch(api.CatalogEntry{Path: "/d.op"}))
	entries, err := c.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].LastOpened.After(before))
}

func TestRemove(t *testing.T) {
	c := openTest(t)
	require.NoError(t, c.Touch(api.CatalogEntry{Path: "/d.op"}))
	require.NoError(t, c.Remove("/d.op"))
	require.NoError(t, c.Remove("/never-seen.op"))

	entries, err := c.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestOpen_Reopens(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.db")

	c, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, c.Touch(api.CatalogEntry{Path: "/d.op", Name: "persisted"}))
	require.NoError(t, c.Close())

	c2, err := Open(path)
	require.NoError(t, err)
	defer c2.Close()
	entries, err := c2.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "persisted", entries[0].Name)
}
