package store

import (
	"time"

	"CoinPulse/internal/model"
)

// SeriesProvider returns one symbol's observations inside a lookback,
// ordered ascending by timestamp, with nothing dated after the reference
// instant.
type SeriesProvider interface {
	Series(symbol string, since, until time.Time) (model.Series, error)
	Symbols() ([]string, error)
}

// ReportSink persists the present metrics of a flattened report. Absent
// metrics are never written.
type ReportSink interface {
	WriteMetrics(symbol string, records []model.MetricRecord, at time.Time) error
}

// Store is the full persistence surface used by the collector, the
// reporter, and the HTTP API.
type Store interface {
	SeriesProvider
	ReportSink
	InsertObservations(obs []model.Observation) error
	Latest() ([]model.Observation, error)
	RecentMetrics(symbol string, limit int) ([]MetricRow, error)
	Close() error
}

// MetricRow is one persisted analytics record as read back from storage.
type MetricRow struct {
	Symbol    string    `json:"symbol"`
	Name      string    `json:"metric_name"`
	Value     float64   `json:"metric_value"`
	PeriodTag string    `json:"time_period"`
	Timestamp time.Time `json:"timestamp"`
}
