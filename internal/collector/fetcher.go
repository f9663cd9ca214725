package collector

import "context"

// Quote is one coin's current market snapshot as returned by the price
// API. Optional fields stay nil when the API omits them.
type Quote struct {
	PriceUSD  float64
	MarketCap *float64
	Volume24h *float64
	Change24h *float64
}

// Fetcher defines the interface for fetching current quotes.
type Fetcher interface {
	// FetchQuotes returns quotes for the given coin ids, keyed by id.
	// A coin the API does not know is simply missing from the result.
	FetchQuotes(ctx context.Context, ids []string) (map[string]Quote, error)
	Name() string
}
