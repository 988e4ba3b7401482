package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"finbrief/internal/model"
	"finbrief/pkg/llm"

	"github.com/gin-gonic/gin"
)

const defaultTopK = 3

type ChunkSearcher interface {
	Search(ctx context.Context, embedding []float32, topK int) ([]model.DocumentChunk, error)
	Count(ctx context.Context) (int, error)
}

type IndexBuilder interface {
	Build(ctx context.Context) (int, error)
}

// RetrieverHandler answers similarity searches over the indexed document
// corpus and rebuilds the index on demand.
type RetrieverHandler struct {
	embedder llm.Embedder
	chunks   ChunkSearcher
	builder  IndexBuilder
}

func NewRetrieverHandler(embedder llm.Embedder, chunks ChunkSearcher, builder IndexBuilder) *RetrieverHandler {
	return &RetrieverHandler{embedder: embedder, chunks: chunks, builder: builder}
}

func (h *RetrieverHandler) PostSearch(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query is required"})
		return
	}
	if req.TopK <= 0 {
		req.TopK = defaultTopK
	}

	if h.embedder == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "embedding model not configured"})
		return
	}

	ctx := c.Request.Context()

	embeddings, err := h.embedder.Embed(ctx, []string{req.Query})
	if err != nil || len(embeddings) == 0 {
		slog.Error("query embedding failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Embedding failed"})
		return
	}

	found, err := h.chunks.Search(ctx, embeddings[0], req.TopK)
	if err != nil {
		slog.Error("chunk search failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	contents := make([]string, 0, len(found))
	for _, chunk := range found {
		contents = append(contents, chunk.Content)
	}

	c.JSON(http.StatusOK, SearchResponse{Chunks: contents})
}

func (h *RetrieverHandler) PostBuildIndex(c *gin.Context) {
	if h.builder == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "index builder not configured"})
		return
	}

	count, err := h.builder.Build(c.Request.Context())
	if err != nil {
		slog.Error("index build failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Index build failed"})
		return
	}

	slog.Info("index rebuilt", "chunks", count)
	c.JSON(http.StatusOK, BuildIndexResponse{IndexedChunks: count})
}

func (h *RetrieverHandler) GetHealth(c *gin.Context) {
	count, err := h.chunks.Count(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         "healthy",
		"database":       "connected",
		"indexed_chunks": count,
	})
}
