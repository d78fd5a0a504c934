package indicator

import "math"

// ADXResult holds trend strength and the directional index lines
type ADXResult struct {
	ADX     []float64
	PlusDI  []float64
	MinusDI []float64
}

// ADX calculates the Average Directional Index from smoothed directional
// movement. Bars where the ATR is zero route through the guarded divide and
// produce NaN rather than an infinite DI.
func ADX(high, low, close []float64, period int) ADXResult {
	n := len(close)
	plusDM := NaNs(n)
	minusDM := NaNs(n)
	for i := 1; i < n; i++ {
		up := high[i] - high[i-1]
		down := low[i-1] - low[i]
		plusDM[i] = 0
		minusDM[i] = 0
		if up > down && up > 0 {
			plusDM[i] = up
		}
		if down > up && down > 0 {
			minusDM[i] = down
		}
	}

	atr := ATR(high, low, close, period)
	plusSm := EMA(plusDM, period)
	minusSm := EMA(minusDM, period)

	plusDI := NaNs(n)
	minusDI := NaNs(n)
	dx := NaNs(n)
	for i := 0; i < n; i++ {
		if math.IsNaN(plusSm[i]) || math.IsNaN(minusSm[i]) {
			continue
		}
		plusDI[i] = 100 * SafeDiv(plusSm[i], atr[i])
		minusDI[i] = 100 * SafeDiv(minusSm[i], atr[i])
		dx[i] = 100 * SafeDiv(math.Abs(plusDI[i]-minusDI[i]), plusDI[i]+minusDI[i])
	}

	return ADXResult{ADX: EMA(dx, period), PlusDI: plusDI, MinusDI: minusDI}
}
