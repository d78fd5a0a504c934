package indicator

import "math"

// RSI calculates the Relative Strength Index from rolling average gains and
// losses over the period.
//
// A window with zero average loss is guarded rather than divided: it resolves
// to the neutral 50 sentinel, so one-sided stretches never pin the oscillator
// at an extreme.
func RSI(close []float64, period int) []float64 {
	n := len(close)
	gains := NaNs(n)
	losses := NaNs(n)
	for i := 1; i < n; i++ {
		delta := close[i] - close[i-1]
		if math.IsNaN(delta) {
			continue
		}
		if delta > 0 {
			gains[i] = delta
			losses[i] = 0
		} else {
			gains[i] = 0
			losses[i] = -delta
		}
	}

	avgGain := RollingMean(gains, period)
	avgLoss := RollingMean(losses, period)

	out := NaNs(n)
	for i := 0; i < n; i++ {
		g, l := avgGain[i], avgLoss[i]
		if math.IsNaN(g) || math.IsNaN(l) {
			continue
		}
		if l == 0 {
			out[i] = 50.0
			continue
		}
		rs := g / l
		out[i] = 100.0 - 100.0/(1.0+rs)
	}
	return out
}
