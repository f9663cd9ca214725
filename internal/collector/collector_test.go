package collector

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CoinPulse/internal/store"
)

func testStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCollect_StoresObservations(t *testing.T) {
	mcap := 1.2e12
	fetcher := &MockFetcher{Quotes: map[string]Quote{
		"bitcoin":  {PriceUSD: 64000.5, MarketCap: &mcap},
		"ethereum": {PriceUSD: 3000.25},
	}}
	st := testStore(t)
	col := NewCollector(fetcher, st, map[string]string{"bitcoin": "BTC", "ethereum": "ETH"})

	n, err := col.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	symbols, err := st.Symbols()
	require.NoError(t, err)
	assert.Equal(t, []string{"BTC", "ETH"}, symbols)

	series, err := st.Series("BTC", time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, 64000.5, series[0].Price)
	assert.Equal(t, "bitcoin", series[0].Name)
	require.NotNil(t, series[0].MarketCap)
	assert.Equal(t, mcap, *series[0].MarketCap)
	assert.Nil(t, series[0].Volume24h)
}

func TestCollect_SkipsMissingCoins(t *testing.T) {
	fetcher := &MockFetcher{Quotes: map[string]Quote{
		"bitcoin": {PriceUSD: 64000},
	}}
	st := testStore(t)
	col := NewCollector(fetcher, st, map[string]string{"bitcoin": "BTC", "nonsensecoin": "NON"})

	n, err := col.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCollect_FetchFailure(t *testing.T) {
	fetcher := &MockFetcher{Err: errors.New("api down")}
	st := testStore(t)
	col := NewCollector(fetcher, st, map[string]string{"bitcoin": "BTC"})

	_, err := col.Collect(context.Background())
	assert.Error(t, err)

	symbols, err := st.Symbols()
	require.NoError(t, err)
	assert.Empty(t, symbols)
}

func TestCollect_NoUsableData(t *testing.T) {
	fetcher := &MockFetcher{Quotes: map[string]Quote{}}
	st := testStore(t)
	col := NewCollector(fetcher, st, map[string]string{"bitcoin": "BTC"})

	_, err := col.Collect(context.Background())
	assert.Error(t, err)
}
