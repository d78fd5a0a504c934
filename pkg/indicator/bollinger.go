package indicator

import "math"

// BollingerResult holds the volatility bands and their derived measures
type BollingerResult struct {
	Upper     []float64
	Mid       []float64
	Lower     []float64
	Bandwidth []float64 // (upper - lower) / mid
	Position  []float64 // where close sits between the bands, clipped to [0, 1]
}

// Bollinger calculates rolling mean +/- stdDev * rolling standard deviation
// volatility bands plus bandwidth and band position
func Bollinger(close []float64, period int, stdDev float64) BollingerResult {
	mid := SMA(close, period)
	std := RollingStd(close, period)

	n := len(close)
	upper := NaNs(n)
	lower := NaNs(n)
	bandwidth := NaNs(n)
	position := NaNs(n)

	for i := 0; i < n; i++ {
		if math.IsNaN(mid[i]) || math.IsNaN(std[i]) {
			continue
		}
		upper[i] = mid[i] + stdDev*std[i]
		lower[i] = mid[i] - stdDev*std[i]
		bandwidth[i] = SafeDiv(upper[i]-lower[i], mid[i])
		pos := SafeDiv(close[i]-lower[i], upper[i]-lower[i])
		if !math.IsNaN(pos) {
			pos = math.Max(0, math.Min(1, pos))
		}
		position[i] = pos
	}

	return BollingerResult{Upper: upper, Mid: mid, Lower: lower, Bandwidth: bandwidth, Position: position}
}

// Squeeze flags bars whose band width has compressed under the threshold.
// Output is 1/0, NaN while the bandwidth is still warming up.
func Squeeze(bandwidth []float64, threshold float64) []float64 {
	out := NaNs(len(bandwidth))
	for i, bw := range bandwidth {
		if math.IsNaN(bw) {
			continue
		}
		if bw < threshold {
			out[i] = 1
		} else {
			out[i] = 0
		}
	}
	return out
}
