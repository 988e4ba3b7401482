package index

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"finbrief/internal/model"

	"github.com/go-playground/assert/v2"
)

func TestSplitText_ShortTextIsOneChunk(t *testing.T) {
	pieces := splitText("a short document", 1000, 150)
	assert.Equal(t, []string{"a short document"}, pieces)
}

func TestSplitText_EmptyText(t *testing.T) {
	assert.Equal(t, 0, len(splitText("  \n ", 1000, 150)))
}

func TestSplitText_BreaksAtWhitespaceWithOverlap(t *testing.T) {
	text := strings.Repeat("word ", 100) // 500 runes
	pieces := splitText(text, 120, 20)

	assert.Equal(t, true, len(pieces) > 1)
	for _, p := range pieces {
		assert.Equal(t, true, len([]rune(p)) <= 120)
		// No piece starts or ends mid-word.
		assert.Equal(t, false, strings.HasPrefix(p, "ord"))
	}
}

type fakeEmbedder struct {
	calls int
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(len(texts[i]))}
	}
	return out, nil
}

type fakeChunkStore struct {
	chunks     []model.DocumentChunk
	embeddings [][]float32
}

func (f *fakeChunkStore) EnsureSchema(context.Context) error { return nil }

func (f *fakeChunkStore) ReplaceAll(_ context.Context, chunks []model.DocumentChunk, embeddings [][]float32) error {
	f.chunks = chunks
	f.embeddings = embeddings
	return nil
}

func TestBuild_IndexesTxtDocuments(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "tsmc.txt"), []byte("TSMC Q1 2025 revenue was NT$600 billion."), 0o644)
	os.WriteFile(filepath.Join(dir, "samsung.txt"), []byte("Samsung faces chip challenges."), 0o644)
	os.WriteFile(filepath.Join(dir, "ignored.md"), []byte("not indexed"), 0o644)

	store := &fakeChunkStore{}
	ix := NewIndexer(dir, &fakeEmbedder{}, store)

	count, err := ix.Build(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 2, len(store.chunks))
	assert.Equal(t, len(store.chunks), len(store.embeddings))

	sources := map[string]bool{}
	for _, c := range store.chunks {
		sources[c.Source] = true
	}
	assert.Equal(t, true, sources["tsmc.txt"])
	assert.Equal(t, true, sources["samsung.txt"])
	assert.Equal(t, false, sources["ignored.md"])
}

func TestBuild_EmptyDirYieldsEmptyIndex(t *testing.T) {
	store := &fakeChunkStore{chunks: []model.DocumentChunk{{Content: "stale"}}}
	ix := NewIndexer(t.TempDir(), &fakeEmbedder{}, store)

	count, err := ix.Build(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, 0, len(store.chunks))
}
