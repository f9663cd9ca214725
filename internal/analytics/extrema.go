package analytics

import (
	"time"

	"CoinPulse/internal/model"
)

// extremaTimeLayout is the fixed-precision display format for when an
// extremum occurred.
const extremaTimeLayout = "2006-01-02 15:04"

// WindowExtrema scans the observations inside [now-window, now] and reports
// the minimum and maximum price along with when each occurred. Empty range
// when no observations fall inside the window.
func WindowExtrema(series model.Series, now time.Time, window time.Duration) model.PriceRange {
	obs := series.Since(now.Add(-window))
	if len(obs) == 0 {
		return model.PriceRange{}
	}

	minIdx, maxIdx := 0, 0
	for i, o := range obs {
		if o.Price < obs[minIdx].Price {
			minIdx = i
		}
		if o.Price > obs[maxIdx].Price {
			maxIdx = i
		}
	}

	return model.PriceRange{
		Min:   model.Some(round2(obs[minIdx].Price)),
		Max:   model.Some(round2(obs[maxIdx].Price)),
		MinAt: obs[minIdx].Timestamp.Format(extremaTimeLayout),
		MaxAt: obs[maxIdx].Timestamp.Format(extremaTimeLayout),
	}
}
