package analytics

import "CoinPulse/internal/model"

// RSI computes the relative strength index from the trailing-`period`
// simple moving averages of gains and losses. Requires period+1 prices.
//
// Convention: a zero trailing average loss makes the metric unavailable.
// That covers both the flat series (0/0) and the gains-only series (x/0);
// neither 100 nor infinity is ever emitted.
func RSI(prices []float64, period int) model.Metric {
	if period <= 0 || len(prices) < period+1 {
		return model.None()
	}

	var avgGain, avgLoss float64
	for i := len(prices) - period; i < len(prices); i++ {
		delta := prices[i] - prices[i-1]
		if delta > 0 {
			avgGain += delta
		} else {
			avgLoss -= delta
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	if avgLoss == 0 {
		return model.None()
	}
	rs := avgGain / avgLoss
	return model.Some(round2(100 - 100/(1+rs)))
}
