package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"finbrief/internal/cache"
	"finbrief/internal/model"
	"finbrief/pkg/llm"
	"finbrief/pkg/scrape"

	"github.com/gin-gonic/gin"
)

const (
	defaultResultsLimit = 5
	defaultSummaryLimit = 2
	newsCacheTTL        = 5 * time.Minute
	snippetRunes        = 300
)

type NewsScraper interface {
	Search(ctx context.Context, query string, limit int) ([]scrape.Article, error)
	ArticleText(ctx context.Context, url string) (string, error)
}

// NewsHandler scrapes news for a search term and enriches the first few hits
// with full-text snippets and model summaries.
type NewsHandler struct {
	scraper    NewsScraper
	summarizer llm.Summarizer
	cache      cache.Cache
}

func NewNewsHandler(scraper NewsScraper, summarizer llm.Summarizer, newsCache cache.Cache) *NewsHandler {
	return &NewsHandler{scraper: scraper, summarizer: summarizer, cache: newsCache}
}

func (h *NewsHandler) PostNews(c *gin.Context) {
	var req NewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query is required"})
		return
	}
	if req.ResultsLimit <= 0 {
		req.ResultsLimit = defaultResultsLimit
	}
	if req.SummaryLimit <= 0 {
		req.SummaryLimit = defaultSummaryLimit
	}

	ctx := c.Request.Context()
	cacheKey := fmt.Sprintf("finbrief:news:%s:%d:%d",
		strings.ToLower(strings.TrimSpace(req.Query)), req.ResultsLimit, req.SummaryLimit)

	if h.cache != nil {
		cached, err := h.cache.Get(ctx, cacheKey)
		if err == nil {
			var res NewsResponse
			if json.Unmarshal([]byte(cached), &res) == nil {
				c.JSON(http.StatusOK, res)
				return
			}
		} else if !errors.Is(err, cache.ErrMiss) {
			slog.Warn("news cache read failed", "query", req.Query, "error", err)
		}
	}

	hits, err := h.scraper.Search(ctx, req.Query, req.ResultsLimit)
	if err != nil {
		slog.Error("news search failed", "query", req.Query, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "News search failed"})
		return
	}

	articles := make([]model.NewsArticle, 0, len(hits))
	for i, hit := range hits {
		article := model.NewsArticle{
			Title:       hit.Title,
			URL:         hit.URL,
			Source:      hit.Source,
			LastUpdated: hit.LastUpdated,
		}
		if i < req.SummaryLimit {
			h.enrich(ctx, &article)
		}
		articles = append(articles, article)
	}

	res := NewsResponse{Articles: articles}

	if h.cache != nil {
		if encoded, err := json.Marshal(res); err == nil {
			if err := h.cache.Set(ctx, cacheKey, string(encoded), newsCacheTTL); err != nil {
				slog.Warn("news cache write failed", "query", req.Query, "error", err)
			}
		}
	}

	c.JSON(http.StatusOK, res)
}

// enrich fills the snippet and summary from the article's full text. Both are
// optional context for synthesis, so failures only log.
func (h *NewsHandler) enrich(ctx context.Context, article *model.NewsArticle) {
	text, err := h.scraper.ArticleText(ctx, article.URL)
	if err != nil || strings.TrimSpace(text) == "" {
		slog.Warn("article text unavailable", "url", article.URL, "error", err)
		return
	}

	article.Snippet = truncateRunes(text, snippetRunes)

	if h.summarizer == nil {
		return
	}

	summary, err := h.summarizer.Summarize(ctx, article.Title, text)
	if err != nil {
		slog.Warn("article summary failed", "url", article.URL, "error", err)
		return
	}
	article.Summary = summary
}

func truncateRunes(s string, limit int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= limit {
		return string(runes)
	}
	return string(runes[:limit]) + "..."
}
