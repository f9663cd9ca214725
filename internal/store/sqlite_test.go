package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CoinPulse/internal/model"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func obsAt(symbol string, price float64, ts time.Time) model.Observation {
	return model.Observation{Symbol: symbol, Name: symbol, Price: price, Timestamp: ts}
}

func TestInsertAndReadSeries(t *testing.T) {
	s := openTestStore(t)
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	mcap := 1000.0
	require.NoError(t, s.InsertObservations([]model.Observation{
		obsAt("BTC", 100, base),
		{Symbol: "BTC", Name: "bitcoin", Price: 105, Timestamp: base.Add(5 * time.Minute), MarketCap: &mcap},
		obsAt("ETH", 50, base),
	}))

	series, err := s.Series("BTC", base.Add(-time.Hour), base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, 100.0, series[0].Price)
	assert.Equal(t, 105.0, series[1].Price)
	assert.True(t, series[0].Timestamp.Before(series[1].Timestamp))
	assert.Nil(t, series[0].MarketCap)
	require.NotNil(t, series[1].MarketCap)
	assert.Equal(t, 1000.0, *series[1].MarketCap)
	require.NoError(t, series.Validate())
}

func TestSeries_ExcludesFutureRows(t *testing.T) {
	s := openTestStore(t)
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.InsertObservations([]model.Observation{
		obsAt("BTC", 100, base),
		obsAt("BTC", 200, base.Add(time.Hour)),
	}))

	series, err := s.Series("BTC", base.Add(-time.Hour), base.Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, 100.0, series[0].Price)
}

func TestSymbolsAndLatest(t *testing.T) {
	s := openTestStore(t)
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.InsertObservations([]model.Observation{
		obsAt("ETH", 50, base),
		obsAt("BTC", 100, base),
		obsAt("BTC", 110, base.Add(5*time.Minute)),
	}))

	symbols, err := s.Symbols()
	require.NoError(t, err)
	assert.Equal(t, []string{"BTC", "ETH"}, symbols)

	latest, err := s.Latest()
	require.NoError(t, err)
	require.Len(t, latest, 2)
	for _, o := range latest {
		if o.Symbol == "BTC" {
			assert.Equal(t, 110.0, o.Price)
		}
	}
}

func TestWriteMetrics_UpsertIdempotent(t *testing.T) {
	s := openTestStore(t)
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	records := []model.MetricRecord{
		{Name: "ma_7d", Value: 107.57, PeriodTag: "30d"},
		{Name: "rsi", Value: 61.2, PeriodTag: "14d"},
	}
	require.NoError(t, s.WriteMetrics("BTC", records, at))

	// Same instant again with a new value: replaced, not duplicated.
	records[0].Value = 108.00
	require.NoError(t, s.WriteMetrics("BTC", records, at))

	rows, err := s.RecentMetrics("BTC", 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		if row.Name == "ma_7d" {
			assert.Equal(t, 108.00, row.Value)
			assert.Equal(t, "30d", row.PeriodTag)
			assert.Equal(t, at.Unix(), row.Timestamp.Unix())
		}
	}
}

func TestWriteMetrics_EmptyIsNoop(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.WriteMetrics("BTC", nil, time.Now()))
	rows, err := s.RecentMetrics("BTC", 10)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
