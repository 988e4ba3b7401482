package stock

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"
)

type AlphaVantageClient struct {
	apiKey     string
	httpClient *http.Client
}

func NewAlphaVantageClient(apiKey string) *AlphaVantageClient {
	return &AlphaVantageClient{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *AlphaVantageClient) Name() string {
	return "AlphaVantage"
}

func (c *AlphaVantageClient) Quote(ctx context.Context, symbol string) (*Quote, error) {
	reqURL := fmt.Sprintf(
		"https://www.alphavantage.co/query?function=TIME_SERIES_DAILY&symbol=%s&outputsize=compact&apikey=%s",
		url.QueryEscape(symbol), c.apiKey,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("alphavantage request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alphavantage fetch: %w", err)
	}
	defer resp.Body.Close()

	var raw avResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("alphavantage decode: %w", err)
	}

	if raw.ErrorMessage != "" {
		return nil, fmt.Errorf("alphavantage API error: %s", raw.ErrorMessage)
	}
	if raw.Note != "" {
		// The free tier reports rate limits in a "Note" field with status 200.
		return nil, fmt.Errorf("alphavantage rate limited: %s", raw.Note)
	}
	if len(raw.TimeSeries) < 2 {
		return nil, fmt.Errorf("alphavantage: not enough daily data for %s", symbol)
	}

	dates := make([]string, 0, len(raw.TimeSeries))
	for d := range raw.TimeSeries {
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	latest, err := parseClose(raw.TimeSeries[dates[0]].Close)
	if err != nil {
		return nil, fmt.Errorf("alphavantage: bad close for %s on %s: %w", symbol, dates[0], err)
	}
	previous, err := parseClose(raw.TimeSeries[dates[1]].Close)
	if err != nil {
		return nil, fmt.Errorf("alphavantage: bad close for %s on %s: %w", symbol, dates[1], err)
	}

	return &Quote{
		Symbol:             symbol,
		LatestTradingDay:   dates[0],
		LatestClose:        latest,
		PreviousTradingDay: dates[1],
		PreviousClose:      previous,
	}, nil
}

func parseClose(s string) (float64, error) {
	var v float64
	if _, err := fmt.Sscanf(s, "%f", &v); err != nil {
		return 0, err
	}
	return v, nil
}

type avResponse struct {
	ErrorMessage string               `json:"Error Message"`
	Note         string               `json:"Note"`
	TimeSeries   map[string]avDailyBar `json:"Time Series (Daily)"`
}

type avDailyBar struct {
	Close string `json:"4. close"`
}
