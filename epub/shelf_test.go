package epub

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bookquest/prefs"
)

func newShelf(t *testing.T) *Shelf {
	t.Helper()
	dir := t.TempDir()
	store, err := prefs.Open(filepath.Join(dir, "prefs.json"))
	require.NoError(t, err)
	return NewShelf(store, filepath.Join(dir, "cache"), zap.NewNop())
}

func epubFixture(t *testing.T) string {
	t.Helper()
	src := filepath.Join(t.TempDir(), "voyage.epub")
	require.NoError(t, os.WriteFile(src, []byte("zip bytes"), 0644))
	return src
}

func TestImportAddRemoveRoundTrip(t *testing.T) {
	shelf := newShelf(t)

	entry, entries, err := shelf.Import(7, epubFixture(t))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "voyage.epub", entry.Name)
	assert.NotEmpty(t, entry.ID)

	// the imported copy lives in the cache dir, not at the source path
	assert.FileExists(t, entry.Path)

	entries, err = shelf.Remove(7, entry.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Empty(t, shelf.List(7))
}

func TestImportRejectsNonEPUB(t *testing.T) {
	shelf := newShelf(t)
	src := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(src, []byte("plain"), 0644))

	_, _, err := shelf.Import(7, src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EPUB")
}

func TestShelfScopedPerUser(t *testing.T) {
	shelf := newShelf(t)

	_, _, err := shelf.Import(1, epubFixture(t))
	require.NoError(t, err)

	assert.Len(t, shelf.List(1), 1)
	assert.Empty(t, shelf.List(2))
}

func TestImportIDCollisionBumps(t *testing.T) {
	shelf := newShelf(t)
	fixed := time.UnixMilli(1700000000000)
	shelf.now = func() time.Time { return fixed }

	first, _, err := shelf.Import(3, epubFixture(t))
	require.NoError(t, err)
	second, _, err := shelf.Import(3, epubFixture(t))
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestRemoveUnknownIDKeepsList(t *testing.T) {
	shelf := newShelf(t)

	_, entries, err := shelf.Import(5, epubFixture(t))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entries, err = shelf.Remove(5, "no-such-id")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
