package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"finbrief/internal/cache"
	"finbrief/pkg/stock"

	"github.com/gin-gonic/gin"
)

const quoteCacheTTL = time.Minute

// StockHandler serves quotes, trying providers in priority order. The first
// provider that answers wins.
type StockHandler struct {
	providers []stock.QuoteClient
	cache     cache.Cache
}

func NewStockHandler(providers []stock.QuoteClient, quoteCache cache.Cache) *StockHandler {
	return &StockHandler{providers: providers, cache: quoteCache}
}

func (h *StockHandler) GetQuote(c *gin.Context) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Symbol is required"})
		return
	}

	ctx := c.Request.Context()
	cacheKey := "finbrief:quote:" + symbol

	if h.cache != nil {
		cached, err := h.cache.Get(ctx, cacheKey)
		if err == nil {
			var res QuoteResponse
			if json.Unmarshal([]byte(cached), &res) == nil {
				c.JSON(http.StatusOK, res)
				return
			}
		} else if !errors.Is(err, cache.ErrMiss) {
			slog.Warn("quote cache read failed", "symbol", symbol, "error", err)
		}
	}

	for _, provider := range h.providers {
		quote, err := provider.Quote(ctx, symbol)
		if err != nil {
			slog.Warn("quote provider failed", "provider", provider.Name(), "symbol", symbol, "error", err)
			continue
		}

		res := toQuoteResponse(quote, provider.Name())

		if h.cache != nil {
			if encoded, err := json.Marshal(res); err == nil {
				if err := h.cache.Set(ctx, cacheKey, string(encoded), quoteCacheTTL); err != nil {
					slog.Warn("quote cache write failed", "symbol", symbol, "error", err)
				}
			}
		}

		c.JSON(http.StatusOK, res)
		return
	}

	c.JSON(http.StatusBadGateway, gin.H{"error": "All quote providers failed"})
}

func toQuoteResponse(q *stock.Quote, provider string) QuoteResponse {
	res := QuoteResponse{
		Symbol:             q.Symbol,
		Provider:           provider,
		LatestTradingDay:   q.LatestTradingDay,
		LatestClose:        q.LatestClose,
		PreviousTradingDay: q.PreviousTradingDay,
		PreviousClose:      q.PreviousClose,
	}
	if q.PreviousClose != 0 {
		res.ChangePercent = (q.LatestClose - q.PreviousClose) / q.PreviousClose * 100
	}
	return res
}
