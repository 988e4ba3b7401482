package stock

import "context"

// Quote holds the latest and previous closing prices for one symbol.
type Quote struct {
	Symbol             string
	LatestTradingDay   string
	LatestClose        float64
	PreviousTradingDay string
	PreviousClose      float64
}

type QuoteClient interface {
	Quote(ctx context.Context, symbol string) (*Quote, error)
	Name() string
}
