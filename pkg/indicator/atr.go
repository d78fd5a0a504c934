package indicator

import "math"

// TrueRange calculates max(high-low, |high-prevClose|, |low-prevClose|) per bar.
// The first entry has no previous close and falls back to high-low.
func TrueRange(high, low, close []float64) []float64 {
	n := len(close)
	out := NaNs(n)
	for i := 0; i < n; i++ {
		tr := high[i] - low[i]
		if i > 0 && !math.IsNaN(close[i-1]) {
			tr = math.Max(tr, math.Abs(high[i]-close[i-1]))
			tr = math.Max(tr, math.Abs(low[i]-close[i-1]))
		}
		out[i] = tr
	}
	return out
}

// ATR calculates the Average True Range as a rolling mean of the true range
func ATR(high, low, close []float64, period int) []float64 {
	return RollingMean(TrueRange(high, low, close), period)
}
