package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot determine home directory")
	}

	store, err := NewConfigStore("")

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(home, ".ragchat", "config.toml"), store.Path())

	// Cleanup
	_ = os.Remove(store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	err = store.Set("retrieval.top_k", 10)
	require.NoError(t, err)

	val, ok := store.Get("retrieval.top_k")
	assert.True(t, ok)
	assert.Equal(t, 10, val)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("llm.model", "gpt-4o-mini"))
	require.NoError(t, store.Set("retrieval.top_k", 5))
	require.NoError(t, store.Set("storage.watch", true))
	require.NoError(t, store.Set("retrieval.keyword_weight", 0.3))

	assert.Equal(t, "gpt-4o-mini", store.GetString("llm.model"))
	assert.Equal(t, 5, store.GetInt("retrieval.top_k"))
	assert.True(t, store.GetBool("storage.watch"))
	assert.InDelta(t, 0.3, store.GetFloat("retrieval.keyword_weight"), 1e-9)

	// Missing keys return zero values
	assert.Equal(t, "", store.GetString("nonexistent"))
	assert.Equal(t, 0, store.GetInt("nonexistent"))
	assert.False(t, store.GetBool("nonexistent"))
	assert.Zero(t, store.GetFloat("nonexistent"))

	// Wrong types return zero values
	assert.Equal(t, "", store.GetString("retrieval.top_k"))
	assert.Equal(t, 0, store.GetInt("llm.model"))
	assert.False(t, store.GetBool("llm.model"))
	assert.Zero(t, store.GetFloat("llm.model"))
}

func TestConfigStore_GetFloat_WidensIntegers(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	// TOML integers arrive as int64 after a reload
	store.mu.Lock()
	store.data["retrieval.keyword_weight"] = int64(1)
	store.mu.Unlock()

	assert.Equal(t, 1.0, store.GetFloat("retrieval.keyword_weight"))
}

func TestConfigStore_GetInt_Int64Type(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	// Simulate a value loaded from TOML
	store.mu.Lock()
	store.data["embedding.dimensions"] = int64(1536)
	store.mu.Unlock()

	assert.Equal(t, 1536, store.GetInt("embedding.dimensions"))
}

func TestConfigStore_Persistence(t *testing.T) {
	tmpDir := t.TempDir()

	store1, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store1.Set("llm.provider", "openai"))
	require.NoError(t, store1.Set("retrieval.top_k", 7))
	require.NoError(t, store1.Set("storage.watch", true))
	require.NoError(t, store1.Set("retrieval.keyword_weight", 0.45))

	// A fresh instance loads from the same file
	store2, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "openai", store2.GetString("llm.provider"))
	assert.Equal(t, 7, store2.GetInt("retrieval.top_k"))
	assert.True(t, store2.GetBool("storage.watch"))
	assert.InDelta(t, 0.45, store2.GetFloat("retrieval.keyword_weight"), 1e-9)
}

func TestConfigStore_Load_FlattensNestedTables(t *testing.T) {
	tmpDir := t.TempDir()

	content := []byte("[retrieval]\ntop_k = 3\nmode = \"hybrid\"\n\n[embedding]\nmodel = \"text-embedding-3-small\"\n")
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), content, 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, 3, store.GetInt("retrieval.top_k"))
	assert.Equal(t, "hybrid", store.GetString("retrieval.mode"))
	assert.Equal(t, "text-embedding-3-small", store.GetString("embedding.model"))
}

func TestConfigStore_Save_WritesNestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("retrieval.top_k", 7))
	require.NoError(t, store.Set("retrieval.mode", "hybrid"))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[retrieval]")
	assert.NotContains(t, string(raw), "'retrieval.top_k'")
}

func TestConfigStore_Load_NonExistent(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	val, ok := store.Get("any_key")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestConfigStore_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()

	err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte{}, 0600)
	require.NoError(t, err)

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	val, ok := store.Get("any_key")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()

	corrupted := []byte("this is not valid TOML {{{[[")
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), corrupted, 0600))

	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_OverwriteValue(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("llm.model", "gpt-4o-mini"))
	assert.Equal(t, "gpt-4o-mini", store.GetString("llm.model"))

	require.NoError(t, store.Set("llm.model", "gpt-4o"))
	assert.Equal(t, "gpt-4o", store.GetString("llm.model"))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("test", "value"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_Concurrency(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(id int) {
			key := "key" + string(rune('0'+id))
			_ = store.Set(key, id)
			_ = store.GetInt(key)
			_ = store.GetString(key)
			_ = store.GetFloat(key)
			_, _ = store.Get(key)
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestConfigStore_Save_Explicit(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	store.mu.Lock()
	store.data["manual_key"] = "manual_value"
	store.mu.Unlock()

	require.NoError(t, store.Save())

	store2, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "manual_value", store2.GetString("manual_key"))
}

func TestConfigStore_SetWithUnmarshallableValue(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	// Channels cannot be marshaled to TOML
	ch := make(chan int)
	err = store.Set("channel", ch)

	assert.Error(t, err)
}
