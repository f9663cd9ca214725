package collector

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"CoinPulse/internal/model"
	"CoinPulse/internal/store"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Quotes map[string]Quote
	Err    error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchQuotes(_ context.Context, ids []string) (map[string]Quote, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	out := make(map[string]Quote, len(ids))
	for _, id := range ids {
		if q, ok := m.Quotes[id]; ok {
			out[id] = q
		}
	}
	return out, nil
}

// Collector fetches quotes for the configured coins and appends them to
// storage as observations.
type Collector struct {
	Fetcher Fetcher
	Store   store.Store
	Coins   map[string]string // coin id -> display symbol
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, st store.Store, coins map[string]string) *Collector {
	return &Collector{Fetcher: fetcher, Store: st, Coins: coins}
}

// Collect performs one fetch-and-store cycle. Every stored observation
// carries the same collection instant. Returns the number of rows stored.
func (c *Collector) Collect(ctx context.Context) (int, error) {
	ids := make([]string, 0, len(c.Coins))
	for id := range c.Coins {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	quotes, err := c.Fetcher.FetchQuotes(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("fetch quotes: %w", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	obs := make([]model.Observation, 0, len(quotes))
	for _, id := range ids {
		q, ok := quotes[id]
		if !ok {
			logrus.Warnf("no quote returned for %s", id)
			continue
		}
		obs = append(obs, model.Observation{
			Symbol:    c.Coins[id],
			Name:      id,
			Price:     q.PriceUSD,
			Timestamp: now,
			MarketCap: q.MarketCap,
			Volume24h: q.Volume24h,
			Change24h: q.Change24h,
		})
	}
	if len(obs) == 0 {
		return 0, fmt.Errorf("fetch quotes: %s returned no usable data", c.Fetcher.Name())
	}

	if err := c.Store.InsertObservations(obs); err != nil {
		return 0, fmt.Errorf("store observations: %w", err)
	}
	logrus.Infof("stored %d observations from %s", len(obs), c.Fetcher.Name())
	return len(obs), nil
}
