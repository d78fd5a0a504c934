package indicator

import "math"

// EMA calculates the Exponential Moving Average with span smoothing
// EMA[i] = (x[i] - EMA[i-1]) * multiplier + EMA[i-1], multiplier = 2 / (period + 1)
// The first period-1 entries (after any NaN prefix of the input) are NaN; the
// EMA is seeded with the simple mean of the first full window.
func EMA(x []float64, period int) []float64 {
	out := NaNs(len(x))
	if period < 1 {
		return out
	}
	multiplier := 2.0 / float64(period+1)

	// skip any NaN prefix (e.g. when smoothing another indicator)
	start := 0
	for start < len(x) && math.IsNaN(x[start]) {
		start++
	}
	if start+period > len(x) {
		return out
	}

	var sum float64
	for i := start; i < start+period; i++ {
		sum += x[i]
	}
	prev := sum / float64(period)
	out[start+period-1] = prev

	for i := start + period; i < len(x); i++ {
		if math.IsNaN(x[i]) {
			out[i] = prev // carry through gaps rather than poisoning the tail
			continue
		}
		prev = (x[i]-prev)*multiplier + prev
		out[i] = prev
	}
	return out
}

// SMA calculates the Simple Moving Average; the first period-1 entries are NaN
func SMA(x []float64, period int) []float64 {
	return RollingMean(x, period)
}

// VolumeSMA is the rolling mean of volume, used as the baseline for volume-ratio
// readings
func VolumeSMA(volume []float64, period int) []float64 {
	return RollingMean(volume, period)
}
