package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*ConfigStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	return store, dir
}

func TestNewConfigStore_Success(t *testing.T) {
	store, dir := newTestStore(t)
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewConfigStore("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".edubridge", "config.toml"), store.Path())
}

func TestNewConfigStore_WithNestedDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}

func TestNewConfigStore_MkdirAllError(t *testing.T) {
	store, err := NewConfigStore("/dev/null/cannot/create/dirs")
	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not toml {{{[["), 0600))

	store, err := NewConfigStore(dir)
	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.Set("llm.model", "llama3.2:1b"))
	require.NoError(t, store.Set("chunking.size", 1000))
	require.NoError(t, store.Set("llm.temperature", 0.1))
	require.NoError(t, store.Set("ocr.enabled", true))
	require.NoError(t, store.Set("chunker.separators", []string{"\n\n", "\n"}))

	assert.Equal(t, "llama3.2:1b", store.GetString("llm.model"))
	assert.Equal(t, 1000, store.GetInt("chunking.size"))
	assert.InDelta(t, 0.1, store.GetFloat("llm.temperature"), 1e-9)
	assert.InDelta(t, 1000.0, store.GetFloat("chunking.size"), 1e-9)
	assert.True(t, store.GetBool("ocr.enabled"))
	assert.Equal(t, []string{"\n\n", "\n"}, store.GetStringSlice("chunker.separators"))

	// Wrong types yield zero values.
	assert.Equal(t, "", store.GetString("chunking.size"))
	assert.Equal(t, 0, store.GetInt("llm.model"))
	assert.Equal(t, 0.0, store.GetFloat("llm.model"))
	assert.False(t, store.GetBool("llm.model"))
	assert.Nil(t, store.GetStringSlice("llm.model"))

	_, ok := store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_PersistsAsTables(t *testing.T) {
	store, dir := newTestStore(t)

	require.NoError(t, store.Set("chunking.size", 800))
	require.NoError(t, store.Set("chunking.overlap", 100))
	require.NoError(t, store.Set("retrieval.min_similarity", 0.25))
	require.NoError(t, store.Set("version", "1"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[chunking]")
	assert.Contains(t, string(data), "[retrieval]")

	reloaded, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, 800, reloaded.GetInt("chunking.size"))
	assert.Equal(t, 100, reloaded.GetInt("chunking.overlap"))
	assert.InDelta(t, 0.25, reloaded.GetFloat("retrieval.min_similarity"), 1e-9)
	assert.Equal(t, "1", reloaded.GetString("version"))
}

func TestConfigStore_ReadsHandWrittenTables(t *testing.T) {
	dir := t.TempDir()
	content := "[ocr]\nscale = 3\nlanguage = \"deu\"\n\n[index]\nbackend = \"memory\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, store.GetFloat("ocr.scale"), 1e-9)
	assert.Equal(t, "deu", store.GetString("ocr.language"))
	assert.Equal(t, "memory", store.GetString("index.backend"))
}

func TestNestMap(t *testing.T) {
	nested := nestMap(map[string]any{
		"a":     1,
		"a.b":   2,
		"x.y.z": 3,
		"x.w":   4,
	})

	assert.Equal(t, 1, nested["a"])
	assert.Equal(t, 2, nested["a.b"])
	assert.Equal(t, map[string]any{"y": map[string]any{"z": 3}, "w": 4}, nested["x"])
	assert.Equal(t, map[string]any{"a": 1, "a.b": 2, "x.y.z": 3, "x.w": 4}, flattenMap(nested, ""))
}

func TestConfigStore_Load_NonExistent(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Set("k", "v"))
	require.NoError(t, os.Remove(store.Path()))

	require.NoError(t, store.Load())
	_, ok := store.Get("k")
	assert.False(t, ok)
}

func TestConfigStore_Load_InvalidTOML(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte("invalid ][}{"), 0600))
	assert.Error(t, store.Load())
}

func TestConfigStore_Save_WriteFileError(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Set("test", "value"))

	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.Mkdir(store.Path(), 0700))

	assert.Error(t, store.Set("another", "value"))
	assert.Error(t, store.Save())
}

func TestConfigStore_SetWithUnmarshallableValue(t *testing.T) {
	store, _ := newTestStore(t)
	assert.Error(t, store.Set("channel", make(chan int)))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Set("llm.api_key", "secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, _ := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("retrieval.top_k", n)
		}(i)
		go func() {
			defer wg.Done()
			_ = store.GetInt("retrieval.top_k")
		}()
	}
	wg.Wait()

	_, ok := store.Get("retrieval.top_k")
	assert.True(t, ok)
}
