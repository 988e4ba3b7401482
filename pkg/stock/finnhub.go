package stock

import (
	"context"
	"fmt"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"
)

type FinnHubClient struct {
	client *finnhub.DefaultApiService
}

func NewFinnHubClient(apiKey string) *FinnHubClient {
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	client := finnhub.NewAPIClient(cfg).DefaultApi
	return &FinnHubClient{client: client}
}

func (c *FinnHubClient) Name() string {
	return "FinnHub"
}

func (c *FinnHubClient) Quote(ctx context.Context, symbol string) (*Quote, error) {
	res, _, err := c.client.Quote(ctx).Symbol(symbol).Execute()
	if err != nil {
		return nil, fmt.Errorf("finnhub quote: %w", err)
	}

	q := &Quote{Symbol: symbol}

	if res.C != nil {
		q.LatestClose = float64(*res.C)
	}
	if res.Pc != nil {
		q.PreviousClose = float64(*res.Pc)
	}
	if res.T != nil {
		q.LatestTradingDay = time.Unix(*res.T, 0).UTC().Format("2006-01-02")
	}

	if q.LatestClose == 0 && q.PreviousClose == 0 {
		// Finnhub returns zeroed quotes for unknown symbols.
		return nil, fmt.Errorf("finnhub: no quote data for %s", symbol)
	}

	return q, nil
}
