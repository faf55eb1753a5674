package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTempStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	return s
}

func TestNewFileStore(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		s, err := NewFileStore(path)
		require.NoError(t, err)

		assert.Equal(t, path, s.Path())
		assert.False(t, s.IsModified())
		all, err := s.GetAll()
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("default path", func(t *testing.T) {
		s, err := NewFileStore("")
		require.NoError(t, err)

		home, err := os.UserHomeDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".clay", "config.json"), s.Path())
	})

	t.Run("corrupt file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

		_, err := NewFileStore(path)
		assert.ErrorContains(t, err, "failed to decode config file")
	})

	t.Run("file without sections", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"version":"1"}`), 0600))

		s, err := NewFileStore(path)
		require.NoError(t, err)
		require.NoError(t, s.SetSection("colab", map[string]interface{}{"url": "x"}))
	})
}

func TestFileStoreSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	s, err := NewFileStore(path)
	require.NoError(t, err)

	require.NoError(t, s.SetSection("browser", map[string]interface{}{"engine": "firefox"}))
	assert.True(t, s.IsModified())

	require.NoError(t, s.Save())
	assert.False(t, s.IsModified())
	assert.NoFileExists(t, path+".tmp")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc fileLayout
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, storeVersion, doc.Version)

	reloaded, err := NewFileStore(path)
	require.NoError(t, err)
	browser, err := reloaded.GetSection("browser")
	require.NoError(t, err)
	assert.Equal(t, "firefox", browser["engine"])
}

func TestFileStoreLoadDiscardsChanges(t *testing.T) {
	s := newTempStore(t)
	require.NoError(t, s.SetSection("colab", map[string]interface{}{"url": "x"}))

	require.NoError(t, s.Load())
	assert.False(t, s.IsModified())
	colab, _ := s.GetSection("colab")
	assert.Empty(t, colab)
}

func TestFileStoreCopies(t *testing.T) {
	s := newTempStore(t)

	in := map[string]interface{}{"key": "value"}
	require.NoError(t, s.SetSection("s", in))
	in["key"] = "changed"

	out, _ := s.GetSection("s")
	assert.Equal(t, "value", out["key"])
	out["key"] = "changed"

	again, _ := s.GetSection("s")
	assert.Equal(t, "value", again["key"])

	missing, _ := s.GetSection("missing")
	assert.NotNil(t, missing)
	assert.Empty(t, missing)
}

func TestFileStoreSetAll(t *testing.T) {
	s := newTempStore(t)
	require.NoError(t, s.SetSection("old", map[string]interface{}{"a": 1.0}))

	require.NoError(t, s.SetAll(map[string]map[string]interface{}{
		"browser": {"engine": "webkit"},
		"colab":   {"poll_interval": "1s"},
	}))

	all, err := s.GetAll()
	require.NoError(t, err)
	assert.Equal(t, map[string]map[string]interface{}{
		"browser": {"engine": "webkit"},
		"colab":   {"poll_interval": "1s"},
	}, all)
}
