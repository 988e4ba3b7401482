package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"finbrief/internal/cache"
	"finbrief/pkg/stock"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
)

type fakeQuoteClient struct {
	name  string
	quote *stock.Quote
	err   error
	calls int
}

func (f *fakeQuoteClient) Quote(_ context.Context, symbol string) (*stock.Quote, error) {
	f.calls++
	return f.quote, f.err
}

func (f *fakeQuoteClient) Name() string { return f.name }

type fakeCache struct {
	values map[string]string
	sets   int
}

func (f *fakeCache) Get(_ context.Context, key string) (string, error) {
	if v, ok := f.values[key]; ok {
		return v, nil
	}
	return "", cache.ErrMiss
}

func (f *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	if f.values == nil {
		f.values = map[string]string{}
	}
	f.values[key] = value
	f.sets++
	return nil
}

func newStockRouter(providers []stock.QuoteClient, quoteCache cache.Cache) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewStockHandler(providers, quoteCache)
	r.GET("/api/stock/:symbol", h.GetQuote)
	return r
}

func TestGetQuote_FirstProviderWins(t *testing.T) {
	primary := &fakeQuoteClient{
		name: "alphavantage",
		quote: &stock.Quote{
			Symbol:        "TSM",
			LatestClose:   110,
			PreviousClose: 100,
		},
	}
	fallback := &fakeQuoteClient{name: "finnhub"}
	r := newStockRouter([]stock.QuoteClient{primary, fallback}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/stock/tsm", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, fallback.calls)

	var res QuoteResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "TSM", res.Symbol)
	assert.Equal(t, "alphavantage", res.Provider)
	assert.Equal(t, 10.0, res.ChangePercent)
}

func TestGetQuote_FallsBackToNextProvider(t *testing.T) {
	primary := &fakeQuoteClient{name: "alphavantage", err: errors.New("rate limited")}
	fallback := &fakeQuoteClient{
		name:  "finnhub",
		quote: &stock.Quote{Symbol: "TSM", LatestClose: 105},
	}
	r := newStockRouter([]stock.QuoteClient{primary, fallback}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/stock/TSM", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res QuoteResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "finnhub", res.Provider)
}

func TestGetQuote_AllProvidersFail(t *testing.T) {
	primary := &fakeQuoteClient{name: "alphavantage", err: errors.New("down")}
	fallback := &fakeQuoteClient{name: "finnhub", err: errors.New("down too")}
	r := newStockRouter([]stock.QuoteClient{primary, fallback}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/stock/TSM", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestGetQuote_ServedFromCache(t *testing.T) {
	provider := &fakeQuoteClient{name: "alphavantage"}
	cached, _ := json.Marshal(QuoteResponse{Symbol: "TSM", Provider: "alphavantage", LatestClose: 99})
	quoteCache := &fakeCache{values: map[string]string{"finbrief:quote:TSM": string(cached)}}
	r := newStockRouter([]stock.QuoteClient{provider}, quoteCache)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/stock/TSM", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, provider.calls)

	var res QuoteResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 99.0, res.LatestClose)
}

func TestGetQuote_PopulatesCache(t *testing.T) {
	provider := &fakeQuoteClient{
		name:  "alphavantage",
		quote: &stock.Quote{Symbol: "TSM", LatestClose: 110},
	}
	quoteCache := &fakeCache{}
	r := newStockRouter([]stock.QuoteClient{provider}, quoteCache)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/stock/TSM", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, quoteCache.sets)
}
