package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/core/domain"
	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/core/ports/driven"
)

func testChunk(url string, number int, ct domain.ContentType) domain.Chunk {
	return domain.Chunk{
		ID:          url,
		URL:         url,
		Title:       "Test Page",
		ChunkNumber: number,
		Content:     "content",
		ContentType: ct,
	}
}

func TestChunkStore_UpsertAndGet(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	chunk := testChunk("https://wiki/a", 0, domain.ContentTypeText)
	require.NoError(t, store.UpsertChunk(ctx, chunk))

	got, err := store.GetChunk(ctx, domain.ChunkKey{URL: "https://wiki/a", ChunkNumber: 0})
	require.NoError(t, err)
	assert.Equal(t, "Test Page", got.Title)
}

func TestChunkStore_Get_NotFound(t *testing.T) {
	store := NewChunkStore()

	_, err := store.GetChunk(context.Background(), domain.ChunkKey{URL: "missing"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChunkStore_Upsert_ReplacesSameKey(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	chunk := testChunk("https://wiki/a", 0, domain.ContentTypeText)
	require.NoError(t, store.UpsertChunk(ctx, chunk))

	chunk.Content = "updated"
	require.NoError(t, store.UpsertChunk(ctx, chunk))

	count, err := store.Count(ctx, driven.ChunkFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := store.GetChunk(ctx, chunk.Key())
	require.NoError(t, err)
	assert.Equal(t, "updated", got.Content)
}

func TestChunkStore_ListChunks_Filters(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	embedded := testChunk("https://wiki/a", 0, domain.ContentTypeText)
	embedded.Embedding = []float32{0.1, 0.2}
	plain := testChunk("https://wiki/a", 1, domain.ContentTypeTable)
	other := testChunk("https://wiki/b", 0, domain.ContentTypeText)

	require.NoError(t, store.UpsertChunks(ctx, []domain.Chunk{embedded, plain, other}))

	embeddedOnly, err := store.ListChunks(ctx, driven.ChunkFilter{EmbeddedOnly: true})
	require.NoError(t, err)
	require.Len(t, embeddedOnly, 1)
	assert.Equal(t, 0, embeddedOnly[0].ChunkNumber)

	missing, err := store.ListChunks(ctx, driven.ChunkFilter{MissingEmbedding: true})
	require.NoError(t, err)
	assert.Len(t, missing, 2)

	tables, err := store.ListChunks(ctx, driven.ChunkFilter{ContentType: domain.ContentTypeTable})
	require.NoError(t, err)
	assert.Len(t, tables, 1)

	byURL, err := store.ListChunks(ctx, driven.ChunkFilter{URL: "https://wiki/a"})
	require.NoError(t, err)
	assert.Len(t, byURL, 2)
}

func TestChunkStore_ListChunks_Ordering(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	require.NoError(t, store.UpsertChunks(ctx, []domain.Chunk{
		testChunk("https://wiki/b", 1, domain.ContentTypeText),
		testChunk("https://wiki/a", 2, domain.ContentTypeText),
		testChunk("https://wiki/a", 0, domain.ContentTypeText),
	}))

	chunks, err := store.ListChunks(ctx, driven.ChunkFilter{})
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Equal(t, "https://wiki/a", chunks[0].URL)
	assert.Equal(t, 0, chunks[0].ChunkNumber)
	assert.Equal(t, 2, chunks[1].ChunkNumber)
	assert.Equal(t, "https://wiki/b", chunks[2].URL)
}

func TestChunkStore_UpdateEmbedding(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	chunk := testChunk("https://wiki/a", 0, domain.ContentTypeText)
	require.NoError(t, store.UpsertChunk(ctx, chunk))

	require.NoError(t, store.UpdateEmbedding(ctx, chunk.Key(), []float32{1, 0, 0}))

	got, err := store.GetChunk(ctx, chunk.Key())
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0, 0}, got.Embedding)

	err = store.UpdateEmbedding(ctx, domain.ChunkKey{URL: "missing"}, []float32{1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChunkStore_DeleteByURL(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	require.NoError(t, store.UpsertChunks(ctx, []domain.Chunk{
		testChunk("https://wiki/a", 0, domain.ContentTypeText),
		testChunk("https://wiki/a", 1, domain.ContentTypeText),
		testChunk("https://wiki/b", 0, domain.ContentTypeText),
	}))

	deleted, err := store.DeleteByURL(ctx, "https://wiki/a")
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	count, err := store.Count(ctx, driven.ChunkFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestChunkStore_CloneIsolation(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	chunk := testChunk("https://wiki/a", 0, domain.ContentTypeText)
	chunk.Embedding = []float32{1, 2, 3}
	require.NoError(t, store.UpsertChunk(ctx, chunk))

	got, err := store.GetChunk(ctx, chunk.Key())
	require.NoError(t, err)
	got.Embedding[0] = 99

	again, err := store.GetChunk(ctx, chunk.Key())
	require.NoError(t, err)
	assert.Equal(t, float32(1), again.Embedding[0])
}
