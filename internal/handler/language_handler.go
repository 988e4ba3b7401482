package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"finbrief/internal/model"
	"finbrief/pkg/llm"

	"github.com/gin-gonic/gin"
)

// LanguageHandler fronts the language model: keyword extraction for search and
// narrative synthesis over the aggregated brief context.
type LanguageHandler struct {
	extractor   llm.KeywordExtractor
	synthesizer llm.Synthesizer
}

func NewLanguageHandler(extractor llm.KeywordExtractor, synthesizer llm.Synthesizer) *LanguageHandler {
	return &LanguageHandler{extractor: extractor, synthesizer: synthesizer}
}

func (h *LanguageHandler) PostKeywords(c *gin.Context) {
	var req KeywordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query is required"})
		return
	}

	if h.extractor == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "language model not configured"})
		return
	}

	keywords, err := h.extractor.Keywords(c.Request.Context(), req.Query)
	if err != nil {
		slog.Error("keyword extraction failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Keyword extraction failed"})
		return
	}

	c.JSON(http.StatusOK, KeywordsResponse{Keywords: keywords})
}

func (h *LanguageHandler) PostSynthesize(c *gin.Context) {
	var req model.SynthesisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query is required"})
		return
	}

	if h.synthesizer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "language model not configured"})
		return
	}

	narrative, err := h.synthesizer.Synthesize(c.Request.Context(), toSynthesisInput(req))
	if err != nil {
		slog.Error("narrative synthesis failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Narrative synthesis failed"})
		return
	}

	c.JSON(http.StatusOK, SynthesizeResponse{Narrative: narrative})
}

func toSynthesisInput(req model.SynthesisRequest) llm.SynthesisInput {
	history := make([]llm.ChatTurn, 0, len(req.ChatHistory))
	for _, turn := range req.ChatHistory {
		history = append(history, llm.ChatTurn{Role: turn.Role, Content: turn.Content})
	}

	articles := make([]llm.ArticleContext, 0, len(req.News))
	for _, a := range req.News {
		articles = append(articles, llm.ArticleContext{
			Title:  a.Title,
			Source: a.Source,
			Date:   a.LastUpdated,
			Text:   a.ContextText(),
		})
	}

	return llm.SynthesisInput{
		Query:     req.Query,
		History:   history,
		Chunks:    req.RagChunks,
		Articles:  articles,
		Portfolio: string(req.Portfolio),
	}
}
