package indicator

import "math"

// RSIDivergence flags bars where price and the oscillator disagree about a new
// extreme: +1 when price sits at/near its rolling low (within 1%) but the RSI
// holds more than 5 points above its own rolling low, -1 for the symmetric
// bearish case, 0 otherwise. Warm-up entries are NaN.
func RSIDivergence(close, rsi []float64, lookback int) []float64 {
	n := len(close)
	priceMin := RollingMin(close, lookback)
	priceMax := RollingMax(close, lookback)
	rsiMin := RollingMin(rsi, lookback)
	rsiMax := RollingMax(rsi, lookback)

	out := NaNs(n)
	for i := 0; i < n; i++ {
		if math.IsNaN(priceMin[i]) || math.IsNaN(rsiMin[i]) {
			continue
		}
		out[i] = 0
		if close[i] <= priceMin[i]*1.01 && rsi[i] > rsiMin[i]+5 {
			out[i] = 1
		} else if close[i] >= priceMax[i]*0.99 && rsi[i] < rsiMax[i]-5 {
			out[i] = -1
		}
	}
	return out
}

// CandleScore classifies each bar by body-to-range ratio and wick proportions:
// bullish hammer +1, bearish hammer -0.5, bullish engulfing +1, doji 0.
// Only the previous bar is consulted (for engulfing); a zero-range bar scores 0.
func CandleScore(open, high, low, close []float64) []float64 {
	n := len(close)
	out := Zeros(n)
	for i := 0; i < n; i++ {
		body := math.Abs(close[i] - open[i])
		totalRange := high[i] - low[i]
		bodyRatio := SafeDiv(body, totalRange)
		lowerWick := math.Min(open[i], close[i]) - low[i]
		lowerWickPct := SafeDiv(lowerWick, totalRange)

		hammer := IsValid(bodyRatio) && IsValid(lowerWickPct) &&
			lowerWickPct > 0.6 && bodyRatio < 0.3

		if hammer {
			if close[i] > open[i] {
				out[i] = 1
			} else if close[i] < open[i] {
				out[i] = -0.5
			}
		}

		if i > 0 {
			prevBear := close[i-1] < open[i-1]
			currBull := close[i] > open[i]
			if prevBear && currBull && close[i] > open[i-1] && open[i] < close[i-1] {
				out[i] = 1
			}
		}

		doji := IsValid(bodyRatio) && bodyRatio < 0.1
		if doji {
			out[i] = 0
		}
	}
	return out
}
