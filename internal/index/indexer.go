package index

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"finbrief/internal/model"
)

const (
	chunkSize    = 1000
	chunkOverlap = 150
	embedBatch   = 64
)

type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

type ChunkStore interface {
	EnsureSchema(ctx context.Context) error
	ReplaceAll(ctx context.Context, chunks []model.DocumentChunk, embeddings [][]float32) error
}

// Indexer rebuilds the retrieval corpus from a directory of .txt documents.
type Indexer struct {
	docsDir  string
	embedder Embedder
	store    ChunkStore
}

func NewIndexer(docsDir string, embedder Embedder, store ChunkStore) *Indexer {
	return &Indexer{docsDir: docsDir, embedder: embedder, store: store}
}

// Build reads every .txt document, splits it into overlapping chunks, embeds
// them in batches, and atomically replaces the stored corpus. It returns the
// number of chunks indexed.
func (ix *Indexer) Build(ctx context.Context) (int, error) {
	if err := ix.store.EnsureSchema(ctx); err != nil {
		return 0, err
	}

	chunks, err := ix.loadChunks()
	if err != nil {
		return 0, err
	}

	if len(chunks) == 0 {
		slog.Warn("no documents found, index will be empty", "docs_dir", ix.docsDir)
		return 0, ix.store.ReplaceAll(ctx, nil, nil)
	}

	embeddings := make([][]float32, 0, len(chunks))
	for start := 0; start < len(chunks); start += embedBatch {
		end := start + embedBatch
		if end > len(chunks) {
			end = len(chunks)
		}

		texts := make([]string, 0, end-start)
		for _, c := range chunks[start:end] {
			texts = append(texts, c.Content)
		}

		batch, err := ix.embedder.Embed(ctx, texts)
		if err != nil {
			return 0, fmt.Errorf("embed batch at %d: %w", start, err)
		}
		embeddings = append(embeddings, batch...)
	}

	if err := ix.store.ReplaceAll(ctx, chunks, embeddings); err != nil {
		return 0, err
	}
	return len(chunks), nil
}

func (ix *Indexer) loadChunks() ([]model.DocumentChunk, error) {
	var chunks []model.DocumentChunk

	err := filepath.WalkDir(ix.docsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".txt") {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		for _, piece := range splitText(string(content), chunkSize, chunkOverlap) {
			chunks = append(chunks, model.DocumentChunk{
				Source:  d.Name(),
				Content: piece,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return chunks, nil
}

// splitText cuts text into chunks of at most size runes with the given
// overlap, preferring to break at whitespace near the boundary.
func splitText(text string, size, overlap int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}

	var pieces []string
	start := 0
	for start < len(runes) {
		end := start + size
		if end >= len(runes) {
			end = len(runes)
		} else {
			// Back up to the nearest whitespace so words stay whole.
			cut := end
			for cut > start+size/2 && runes[cut-1] != ' ' && runes[cut-1] != '\n' {
				cut--
			}
			if cut > start+size/2 {
				end = cut
			}
		}

		piece := strings.TrimSpace(string(runes[start:end]))
		if piece != "" {
			pieces = append(pieces, piece)
		}

		if end == len(runes) {
			break
		}
		start = end - overlap
		if start < 0 {
			start = 0
		}
	}

	return pieces
}
