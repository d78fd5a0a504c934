package indicator

import (
	"math"
	"sort"
)

// Series is one real-valued column aligned to a bar sequence. Entries inside an
// indicator's warm-up window are NaN; a guarded division may also yield NaN, but
// no operation in this package ever produces ±Inf.

// SafeDiv divides a by b, returning NaN when the denominator is zero or NaN
// instead of propagating an infinity
func SafeDiv(a, b float64) float64 {
	if b == 0 || math.IsNaN(b) {
		return math.NaN()
	}
	return a / b
}

// IsValid reports whether v is a usable number (finite, not NaN)
func IsValid(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// NaNs returns a series of length n filled with NaN
func NaNs(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// Zeros returns a series of length n filled with 0
func Zeros(n int) []float64 {
	return make([]float64, n)
}

// Shift returns the series moved forward by n positions; the first n entries are NaN
func Shift(x []float64, n int) []float64 {
	out := NaNs(len(x))
	for i := n; i < len(x); i++ {
		out[i] = x[i-n]
	}
	return out
}

// Diff returns x[i] - x[i-n]; the first n entries are NaN
func Diff(x []float64, n int) []float64 {
	out := NaNs(len(x))
	for i := n; i < len(x); i++ {
		out[i] = x[i] - x[i-n]
	}
	return out
}

// PctChange returns the fractional change over n bars, guarded against zero base
func PctChange(x []float64, n int) []float64 {
	out := NaNs(len(x))
	for i := n; i < len(x); i++ {
		out[i] = SafeDiv(x[i]-x[i-n], x[i-n])
	}
	return out
}

// Clip bounds every entry to [lo, hi]; NaN entries stay NaN
func Clip(x []float64, lo, hi float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		switch {
		case math.IsNaN(v):
			out[i] = v
		case v < lo:
			out[i] = lo
		case v > hi:
			out[i] = hi
		default:
			out[i] = v
		}
	}
	return out
}

// Sign returns -1, 0 or +1 per entry; NaN entries map to 0
func Sign(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		switch {
		case v > 0:
			out[i] = 1
		case v < 0:
			out[i] = -1
		}
	}
	return out
}

// RollingMean returns the rolling mean over a window of the given period.
// Entries before a full window, or windows containing a NaN, are NaN.
func RollingMean(x []float64, period int) []float64 {
	return rollingApply(x, period, func(w []float64) float64 {
		var sum float64
		for _, v := range w {
			sum += v
		}
		return sum / float64(len(w))
	})
}

// RollingStd returns the rolling sample standard deviation (n-1 denominator)
func RollingStd(x []float64, period int) []float64 {
	return rollingApply(x, period, func(w []float64) float64 {
		if len(w) < 2 {
			return math.NaN()
		}
		var sum float64
		for _, v := range w {
			sum += v
		}
		mean := sum / float64(len(w))
		var ss float64
		for _, v := range w {
			d := v - mean
			ss += d * d
		}
		return math.Sqrt(ss / float64(len(w)-1))
	})
}

// RollingMin returns the rolling minimum
func RollingMin(x []float64, period int) []float64 {
	return rollingApply(x, period, func(w []float64) float64 {
		min := w[0]
		for _, v := range w[1:] {
			if v < min {
				min = v
			}
		}
		return min
	})
}

// RollingMax returns the rolling maximum
func RollingMax(x []float64, period int) []float64 {
	return rollingApply(x, period, func(w []float64) float64 {
		max := w[0]
		for _, v := range w[1:] {
			if v > max {
				max = v
			}
		}
		return max
	})
}

// RollingQuantile returns the rolling q-quantile (0 <= q <= 1), linear interpolation
func RollingQuantile(x []float64, period int, q float64) []float64 {
	return rollingApply(x, period, func(w []float64) float64 {
		sorted := make([]float64, len(w))
		copy(sorted, w)
		sort.Float64s(sorted)
		pos := q * float64(len(sorted)-1)
		lo := int(math.Floor(pos))
		hi := int(math.Ceil(pos))
		if lo == hi {
			return sorted[lo]
		}
		frac := pos - float64(lo)
		return sorted[lo]*(1-frac) + sorted[hi]*frac
	})
}

// RollingRankPct returns the percentile rank of the current value within its
// trailing window, in (0, 1]
func RollingRankPct(x []float64, period int) []float64 {
	return rollingApply(x, period, func(w []float64) float64 {
		cur := w[len(w)-1]
		rank := 0
		for _, v := range w {
			if v <= cur {
				rank++
			}
		}
		return float64(rank) / float64(len(w))
	})
}

// rollingApply runs f over each full trailing window. Windows that are
// incomplete or contain a NaN produce NaN.
func rollingApply(x []float64, period int, f func(window []float64) float64) []float64 {
	out := NaNs(len(x))
	if period < 1 || len(x) < period {
		return out
	}
	for i := period - 1; i < len(x); i++ {
		window := x[i-period+1 : i+1]
		valid := true
		for _, v := range window {
			if math.IsNaN(v) {
				valid = false
				break
			}
		}
		if valid {
			out[i] = f(window)
		}
	}
	return out
}
