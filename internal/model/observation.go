package model

import (
	"fmt"
	"math"
	"time"
)

// Observation is a single recorded price reading for one symbol.
// Immutable once recorded. MarketCap, Volume24h and Change24h are
// optional: the upstream API omits them for some coins.
type Observation struct {
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	Price     float64   `json:"price_usd"`
	Timestamp time.Time `json:"timestamp"`
	MarketCap *float64  `json:"market_cap"`
	Volume24h *float64  `json:"volume_24h"`
	Change24h *float64  `json:"price_change_24h"`
}

// Series is an ordered sequence of observations for one symbol,
// non-decreasing by timestamp. Duplicate timestamps are permitted.
type Series []Observation

// Validate checks the series contract: timestamps must be non-decreasing
// and prices finite. A violation is a caller bug, not a runtime condition.
func (s Series) Validate() error {
	for i, obs := range s {
		if math.IsNaN(obs.Price) || math.IsInf(obs.Price, 0) {
			return fmt.Errorf("observation %d (%s): non-finite price", i, obs.Symbol)
		}
		if i > 0 && obs.Timestamp.Before(s[i-1].Timestamp) {
			return fmt.Errorf("observation %d (%s): timestamp %s before predecessor %s",
				i, obs.Symbol, obs.Timestamp.Format(time.RFC3339), s[i-1].Timestamp.Format(time.RFC3339))
		}
	}
	return nil
}

// Since returns the suffix of the series with Timestamp >= cutoff.
// The series is ordered, so this is a single backward scan.
func (s Series) Since(cutoff time.Time) Series {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i].Timestamp.Before(cutoff) {
			return s[i+1:]
		}
	}
	return s
}

// Prices extracts the price column.
func (s Series) Prices() []float64 {
	prices := make([]float64, len(s))
	for i, obs := range s {
		prices[i] = obs.Price
	}
	return prices
}
