package analytics

import (
	"math"
	"time"

	"CoinPulse/internal/model"
)

// Volatility is the sample standard deviation of period-over-period returns
// inside the window, scaled by sqrt(24) and expressed as a percentage. The
// series is restricted to the window before returns are computed. When the
// window yields fewer than 2 returns there is nothing to deviate from and
// the metric is reported as a present 0.
func Volatility(series model.Series, now time.Time, window time.Duration) model.Metric {
	obs := series.Since(now.Add(-window))
	if len(obs) < 3 {
		return model.Some(0)
	}

	returns := make([]float64, 0, len(obs)-1)
	for i := 1; i < len(obs); i++ {
		prev := obs[i-1].Price
		if prev == 0 {
			continue
		}
		returns = append(returns, obs[i].Price/prev-1)
	}
	if len(returns) < 2 {
		return model.Some(0)
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns) - 1) // sample variance

	vol := math.Sqrt(variance) * math.Sqrt(24) * 100
	return model.Some(round2(vol))
}
