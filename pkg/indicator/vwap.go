package indicator

// VWAP calculates the cumulative volume-weighted average price:
// cumulative(typical price * volume) / cumulative(volume), where typical
// price = (high + low + close) / 3. Bars before any volume has printed are NaN
// via the guarded divide.
func VWAP(high, low, close, volume []float64) []float64 {
	n := len(close)
	out := NaNs(n)
	var cumTPV, cumVol float64
	for i := 0; i < n; i++ {
		typical := (high[i] + low[i] + close[i]) / 3
		cumTPV += typical * volume[i]
		cumVol += volume[i]
		out[i] = SafeDiv(cumTPV, cumVol)
	}
	return out
}
