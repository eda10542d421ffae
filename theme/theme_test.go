package theme

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bookquest/prefs"
)

func newTheme(t *testing.T) (*Theme, *prefs.Store) {
	t.Helper()
	store, err := prefs.Open(filepath.Join(t.TempDir(), "prefs.json"))
	require.NoError(t, err)
	return Load(store, zap.NewNop()), store
}

func TestDefaults(t *testing.T) {
	th, _ := newTheme(t)
	assert.Equal(t, DefaultBackground, th.Background())
	assert.Equal(t, DefaultButton, th.Button())
}

func TestLoadStoredValues(t *testing.T) {
	store, err := prefs.Open(filepath.Join(t.TempDir(), "prefs.json"))
	require.NoError(t, err)
	require.NoError(t, store.Set("theme.background", "#EAF5F1"))

	th := Load(store, zap.NewNop())
	assert.Equal(t, "#EAF5F1", th.Background())
	// missing button keeps the default
	assert.Equal(t, DefaultButton, th.Button())
}

func TestSetterUpdatesMemoryImmediately(t *testing.T) {
	th, store := newTheme(t)
	th.SetButton("#4F4F4F")
	assert.Equal(t, "#4F4F4F", th.Button())

	// Wait for the async persist so the write doesn't race TempDir cleanup.
	assert.Eventually(t, func() bool {
		_, ok := store.Get("theme.button")
		return ok
	}, time.Second, 10*time.Millisecond)
}

func TestSetterWritesThrough(t *testing.T) {
	th, store := newTheme(t)
	th.SetBackground("#F0EFFF")

	assert.Eventually(t, func() bool {
		v, ok := store.Get("theme.background")
		return ok && v == "#F0EFFF"
	}, time.Second, 10*time.Millisecond)
}
