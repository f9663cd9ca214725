package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CoinPulse/internal/model"
	"CoinPulse/internal/reporter"
	"CoinPulse/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	now := time.Now().UTC()
	prices := []float64{100, 102, 101, 105, 110, 108, 112, 115}
	obs := make([]model.Observation, len(prices))
	for i, p := range prices {
		obs[i] = model.Observation{
			Symbol:    "BTC",
			Name:      "bitcoin",
			Price:     p,
			Timestamp: now.Add(time.Duration(i-len(prices)+1) * 24 * time.Hour),
		}
	}
	require.NoError(t, st.InsertObservations(obs))

	return New(st, reporter.New(st, nil, 30), false)
}

func get(t *testing.T, s *Server, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestGetHealth(t *testing.T) {
	s := newTestServer(t)
	rec, body := get(t, s, "/api/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(1), body["symbols"])
}

func TestGetSymbols(t *testing.T) {
	s := newTestServer(t)
	rec, body := get(t, s, "/api/symbols")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []interface{}{"BTC"}, body["symbols"])
}

func TestGetPrices(t *testing.T) {
	s := newTestServer(t)
	rec, body := get(t, s, "/api/prices/BTC?days=10")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "BTC", body["symbol"])
	assert.Equal(t, float64(8), body["count"])
}

func TestGetPrices_BadDays(t *testing.T) {
	s := newTestServer(t)
	rec, _ := get(t, s, "/api/prices/BTC?days=zero")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetReport_UnavailableRendersNull(t *testing.T) {
	s := newTestServer(t)
	rec, body := get(t, s, "/api/report/BTC")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "BTC", body["symbol"])

	mas := body["moving_averages"].(map[string]interface{})
	assert.NotNil(t, mas["ma_7d"])
	assert.Nil(t, mas["ma_30d"], "8 readings cannot fill a 30-day window")
	assert.Nil(t, body["rsi_14"])
	assert.NotNil(t, body["volatility_7d"])
}

func TestGetReport_UnknownSymbol(t *testing.T) {
	s := newTestServer(t)
	rec, body := get(t, s, "/api/report/DOGE")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, body["current_price"], "unknown symbol yields an all-unavailable report, not an error")
}

func TestGetMetrics_EmptyList(t *testing.T) {
	s := newTestServer(t)
	rec, body := get(t, s, "/api/metrics/BTC")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []interface{}{}, body["metrics"])
}
