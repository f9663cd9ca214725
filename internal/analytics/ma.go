package analytics

import "CoinPulse/internal/model"

// MovingAverage computes the arithmetic mean of the trailing `window`
// prices. Unavailable when the series holds fewer observations than the
// window asks for.
func MovingAverage(prices []float64, window int) model.Metric {
	if window <= 0 || len(prices) < window {
		return model.None()
	}
	sum := 0.0
	for i := len(prices) - window; i < len(prices); i++ {
		sum += prices[i]
	}
	return model.Some(round2(sum / float64(window)))
}
