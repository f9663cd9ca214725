package model

import (
	"encoding/json"
	"time"
)

// Metric is a single derived value that may be unavailable when the
// series holds too little history. Unavailability is a display state,
// never an error.
type Metric struct {
	Value float64
	Valid bool
}

// Some returns a present metric.
func Some(v float64) Metric { return Metric{Value: v, Valid: true} }

// None is the unavailable sentinel.
func None() Metric { return Metric{} }

// MarshalJSON renders an unavailable metric as null so API consumers can
// distinguish "not enough data" from zero.
func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

// PriceRange holds the window extrema and when each occurred.
// MinAt/MaxAt are empty when the window holds no observations.
type PriceRange struct {
	Min   Metric `json:"min_price"`
	Max   Metric `json:"max_price"`
	MinAt string `json:"min_time,omitempty"`
	MaxAt string `json:"max_time,omitempty"`
}

// Report is the engine's output for one symbol at one reference instant.
// Every metric is independently optional.
type Report struct {
	Symbol       string            `json:"symbol"`
	ComputedAt   time.Time         `json:"computed_at"`
	CurrentPrice Metric            `json:"current_price"`
	MovingAvgs   map[string]Metric `json:"moving_averages"`
	Changes      map[string]Metric `json:"percentage_changes"`
	Volatility7d Metric            `json:"volatility_7d"`
	Volatility30 Metric            `json:"volatility_30d"`
	Range7d      PriceRange        `json:"min_max_7d"`
	Range30d     PriceRange        `json:"min_max_30d"`
	RSI14        Metric            `json:"rsi_14"`
	MarketCap    Metric            `json:"latest_market_cap"`
	Volume24h    Metric            `json:"latest_volume_24h"`
	DataPoints   int               `json:"data_points"`
}

// MetricRecord is one flattened report entry for the sink.
type MetricRecord struct {
	Name      string
	Value     float64
	PeriodTag string
}

// Flatten returns the present metrics as sink records. Absent metrics are
// simply not emitted.
func (r *Report) Flatten() []MetricRecord {
	var recs []MetricRecord
	add := func(name string, m Metric, period string) {
		if m.Valid {
			recs = append(recs, MetricRecord{Name: name, Value: m.Value, PeriodTag: period})
		}
	}
	add("current_price", r.CurrentPrice, "current")
	for name, m := range r.MovingAvgs {
		add(name, m, "30d")
	}
	for name, m := range r.Changes {
		add(name, m, "current")
	}
	add("volatility", r.Volatility7d, "7d")
	add("volatility", r.Volatility30, "30d")
	add("min_price", r.Range7d.Min, "7d")
	add("max_price", r.Range7d.Max, "7d")
	add("min_price", r.Range30d.Min, "30d")
	add("max_price", r.Range30d.Max, "30d")
	add("rsi", r.RSI14, "14d")
	add("market_cap", r.MarketCap, "current")
	add("volume_24h", r.Volume24h, "current")
	return recs
}
