package indicator

import "math"

// MACDResult holds the MACD line, its signal line and the histogram, all
// index-aligned to the input
type MACDResult struct {
	Line      []float64
	Signal    []float64
	Histogram []float64
}

// MACD calculates Moving Average Convergence Divergence:
// line = EMA(fast) - EMA(slow), signal = EMA(line, signalPeriod),
// histogram = line - signal
func MACD(close []float64, fast, slow, signalPeriod int) MACDResult {
	emaFast := EMA(close, fast)
	emaSlow := EMA(close, slow)

	line := NaNs(len(close))
	for i := range close {
		if math.IsNaN(emaFast[i]) || math.IsNaN(emaSlow[i]) {
			continue
		}
		line[i] = emaFast[i] - emaSlow[i]
	}

	signal := EMA(line, signalPeriod)

	hist := NaNs(len(close))
	for i := range close {
		if math.IsNaN(line[i]) || math.IsNaN(signal[i]) {
			continue
		}
		hist[i] = line[i] - signal[i]
	}

	return MACDResult{Line: line, Signal: signal, Histogram: hist}
}
