package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("BOOKQUEST_API_URL", "")
	t.Setenv("BOOKQUEST_LOG_LEVEL", "")
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, defaults(), cfg)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	cfg.Reader.LineSpacing = 2
	cfg.API.BaseURL = "http://localhost:9999"
	require.NoError(t, Save(cfg))

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadClampsNegativeReaderValues(t *testing.T) {
	isolate(t)

	cfg := defaults()
	cfg.Reader.LineSpacing = -3
	cfg.Reader.VerticalPadding = -1
	require.NoError(t, Save(cfg))

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Reader.LineSpacing)
	assert.Equal(t, 0, loaded.Reader.VerticalPadding)
}

func TestEnvOverridesFile(t *testing.T) {
	isolate(t)
	t.Setenv("BOOKQUEST_API_URL", "http://books.internal:5000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://books.internal:5000", cfg.API.BaseURL)
}
