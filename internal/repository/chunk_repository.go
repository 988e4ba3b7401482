package repository

import (
	"context"
	"database/sql"
	"fmt"

	"finbrief/internal/model"

	"github.com/pgvector/pgvector-go"
)

// ChunkRepository stores the retrieval corpus as embedded chunks in postgres
// (pgvector).
type ChunkRepository struct {
	db *sql.DB
}

func NewChunkRepository(db *sql.DB) *ChunkRepository {
	return &ChunkRepository{db: db}
}

// EnsureSchema creates the chunk table and the vector extension if missing.
func (r *ChunkRepository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`CREATE TABLE IF NOT EXISTS document_chunk (
			id bigserial PRIMARY KEY,
			source text NOT NULL,
			content text NOT NULL,
			embedding vector(1536) NOT NULL,
			created_at timestamptz NOT NULL DEFAULT now()
		)`,
	}
	for _, stmt := range statements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// Search returns the topK chunks nearest to the query embedding, most
// relevant first.
func (r *ChunkRepository) Search(ctx context.Context, embedding []float32, topK int) ([]model.DocumentChunk, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, source, content
		FROM document_chunk
		ORDER BY embedding <=> $1
		LIMIT $2
	`, pgvector.NewVector(embedding), topK)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []model.DocumentChunk
	for rows.Next() {
		var c model.DocumentChunk
		if err := rows.Scan(&c.ID, &c.Source, &c.Content); err != nil {
			return nil, err
		}
		chunks = append(chunks, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return chunks, nil
}

// ReplaceAll swaps the corpus for a freshly embedded one in a single
// transaction, so searches never observe a half-built index.
func (r *ChunkRepository) ReplaceAll(ctx context.Context, chunks []model.DocumentChunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("replace all: %d chunks but %d embeddings", len(chunks), len(embeddings))
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM document_chunk`); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO document_chunk(source, content, embedding) VALUES($1, $2, $3)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, c := range chunks {
		if _, err := stmt.ExecContext(ctx, c.Source, c.Content, pgvector.NewVector(embeddings[i])); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *ChunkRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM document_chunk`).Scan(&count)
	return count, err
}
