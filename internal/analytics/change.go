package analytics

import (
	"time"

	"CoinPulse/internal/model"
)

// PercentChange compares the latest price against the earliest observation
// inside the lookback window [now-lookback, now]. Each lookback is computed
// independently. Unavailable when fewer than 2 observations fall inside the
// window, or when the base price is 0.
func PercentChange(series model.Series, now time.Time, lookback time.Duration) model.Metric {
	window := series.Since(now.Add(-lookback))
	if len(window) < 2 {
		return model.None()
	}
	base := window[0].Price
	if base == 0 {
		return model.None()
	}
	current := series[len(series)-1].Price
	return model.Some(round2((current - base) / base * 100))
}
