package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/core/domain"
	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/core/ports/driven"
)

// newTestStore creates a store backed by a temp database.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "corpus.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func testChunk(url string, number int) domain.Chunk {
	return domain.Chunk{
		ID:             url,
		URL:            url,
		Title:          "Test Page",
		ChunkNumber:    number,
		TotalChunks:    3,
		Content:        "chunk content",
		CharacterCount: 13,
		ContentType:    domain.ContentTypeText,
	}
}

func TestStore_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.db")

	store, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store.UpsertChunk(context.Background(), testChunk("https://wiki/a", 0)))
	require.NoError(t, store.Close())

	// Reopening runs migrate again and must not fail or lose data.
	store, err = NewStore(path)
	require.NoError(t, err)
	defer store.Close()

	count, err := store.Count(context.Background(), driven.ChunkFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStore_UpsertAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	chunk := testChunk("https://wiki/autostep", 2)
	chunk.Embedding = []float32{0.25, -0.5, 1.0}
	chunk.Metadata = map[string]any{"total_chunks": float64(3)}
	require.NoError(t, store.UpsertChunk(ctx, chunk))

	got, err := store.GetChunk(ctx, chunk.Key())
	require.NoError(t, err)
	assert.Equal(t, chunk.ID, got.ID)
	assert.Equal(t, "Test Page", got.Title)
	assert.Equal(t, 2, got.ChunkNumber)
	assert.Equal(t, 3, got.TotalChunks)
	assert.Equal(t, domain.ContentTypeText, got.ContentType)
	assert.Equal(t, []float32{0.25, -0.5, 1.0}, got.Embedding)
	assert.Equal(t, float64(3), got.Metadata["total_chunks"])
}

func TestStore_Get_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetChunk(context.Background(), domain.ChunkKey{URL: "missing"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_Upsert_ReplacesByNaturalKey(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	chunk := testChunk("https://wiki/a", 0)
	require.NoError(t, store.UpsertChunk(ctx, chunk))

	// Same (url, chunk_number), different surrogate ID: still one row.
	chunk.ID = "different-id"
	chunk.Content = "updated content"
	require.NoError(t, store.UpsertChunk(ctx, chunk))

	count, err := store.Count(ctx, driven.ChunkFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := store.GetChunk(ctx, chunk.Key())
	require.NoError(t, err)
	assert.Equal(t, "updated content", got.Content)
}

func TestStore_UpsertChunks_Batch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	chunks := []domain.Chunk{
		testChunk("https://wiki/a", 0),
		testChunk("https://wiki/a", 1),
		testChunk("https://wiki/b", 0),
	}
	require.NoError(t, store.UpsertChunks(ctx, chunks))

	count, err := store.Count(ctx, driven.ChunkFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestStore_ListChunks_FiltersAndOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	embedded := testChunk("https://wiki/b", 0)
	embedded.Embedding = []float32{1, 0}
	table := testChunk("https://wiki/a", 1)
	table.ContentType = domain.ContentTypeTable
	plain := testChunk("https://wiki/a", 0)

	require.NoError(t, store.UpsertChunks(ctx, []domain.Chunk{embedded, table, plain}))

	all, err := store.ListChunks(ctx, driven.ChunkFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "https://wiki/a", all[0].URL)
	assert.Equal(t, 0, all[0].ChunkNumber)
	assert.Equal(t, 1, all[1].ChunkNumber)
	assert.Equal(t, "https://wiki/b", all[2].URL)

	embeddedOnly, err := store.ListChunks(ctx, driven.ChunkFilter{EmbeddedOnly: true})
	require.NoError(t, err)
	require.Len(t, embeddedOnly, 1)
	assert.Equal(t, "https://wiki/b", embeddedOnly[0].URL)

	missing, err := store.ListChunks(ctx, driven.ChunkFilter{MissingEmbedding: true})
	require.NoError(t, err)
	assert.Len(t, missing, 2)

	tables, err := store.ListChunks(ctx, driven.ChunkFilter{ContentType: domain.ContentTypeTable})
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, 1, tables[0].ChunkNumber)

	byURL, err := store.ListChunks(ctx, driven.ChunkFilter{URL: "https://wiki/a"})
	require.NoError(t, err)
	assert.Len(t, byURL, 2)
}

func TestStore_UpdateEmbedding(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	chunk := testChunk("https://wiki/a", 0)
	require.NoError(t, store.UpsertChunk(ctx, chunk))

	require.NoError(t, store.UpdateEmbedding(ctx, chunk.Key(), []float32{0.1, 0.2}))

	got, err := store.GetChunk(ctx, chunk.Key())
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2}, got.Embedding)

	err = store.UpdateEmbedding(ctx, domain.ChunkKey{URL: "missing"}, []float32{1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_DeleteByURL(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertChunks(ctx, []domain.Chunk{
		testChunk("https://wiki/a", 0),
		testChunk("https://wiki/a", 1),
		testChunk("https://wiki/b", 0),
	}))

	deleted, err := store.DeleteByURL(ctx, "https://wiki/a")
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	count, err := store.Count(ctx, driven.ChunkFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestFloat32BlobRoundTrip(t *testing.T) {
	original := []float32{0, -1.5, 3.25, 1e-7}

	encoded := float32SliceToBytes(original)
	assert.Len(t, encoded, len(original)*4)

	decoded := bytesToFloat32Slice(encoded)
	assert.Equal(t, original, decoded)

	assert.Nil(t, float32SliceToBytes(nil))
	assert.Nil(t, bytesToFloat32Slice(nil))
}
