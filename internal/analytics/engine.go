// Package analytics computes technical indicators over a price series.
// Every function is a pure computation: the reference instant is injected
// by the caller and no state survives a call.
package analytics

import (
	"fmt"
	"math"
	"time"

	"CoinPulse/internal/model"
)

// DefaultWindows are the moving-average windows in days.
var DefaultWindows = []int{7, 30}

// RSIPeriod is the lookback for the relative strength index.
const RSIPeriod = 14

// ComputeReport derives all indicators for one symbol's series at the given
// reference instant. Insufficient history makes individual metrics
// unavailable, never the call itself; an error is returned only for
// malformed input (unordered timestamps, non-finite prices, bad windows).
func ComputeReport(series model.Series, now time.Time, windows []int) (*model.Report, error) {
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("invalid series: %w", err)
	}
	if len(windows) == 0 {
		windows = DefaultWindows
	}
	for _, w := range windows {
		if w <= 0 {
			return nil, fmt.Errorf("window must be positive, got %d", w)
		}
	}

	report := &model.Report{
		ComputedAt: now,
		MovingAvgs: make(map[string]model.Metric, len(windows)),
		Changes:    make(map[string]model.Metric, 4),
	}
	for _, w := range windows {
		report.MovingAvgs[fmt.Sprintf("ma_%dd", w)] = model.None()
	}
	for _, name := range []string{"change_1h", "change_24h", "change_7d", "change_30d"} {
		report.Changes[name] = model.None()
	}
	if len(series) == 0 {
		return report, nil
	}

	latest := series[len(series)-1]
	prices := series.Prices()

	report.Symbol = latest.Symbol
	report.DataPoints = len(series)
	report.CurrentPrice = model.Some(round2(latest.Price))

	for _, w := range windows {
		report.MovingAvgs[fmt.Sprintf("ma_%dd", w)] = MovingAverage(prices, w)
	}

	report.Changes["change_1h"] = PercentChange(series, now, time.Hour)
	report.Changes["change_24h"] = PercentChange(series, now, 24*time.Hour)
	report.Changes["change_7d"] = PercentChange(series, now, 7*24*time.Hour)
	report.Changes["change_30d"] = PercentChange(series, now, 30*24*time.Hour)

	report.Volatility7d = Volatility(series, now, 7*24*time.Hour)
	report.Volatility30 = Volatility(series, now, 30*24*time.Hour)

	report.Range7d = WindowExtrema(series, now, 7*24*time.Hour)
	report.Range30d = WindowExtrema(series, now, 30*24*time.Hour)

	report.RSI14 = RSI(prices, RSIPeriod)

	if latest.MarketCap != nil {
		report.MarketCap = model.Some(*latest.MarketCap)
	}
	if latest.Volume24h != nil {
		report.Volume24h = model.Some(*latest.Volume24h)
	}

	return report, nil
}

// round2 rounds to 2 decimal places, matching the reporting precision of
// every metric in the analytics table.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
