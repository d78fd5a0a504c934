package signal

import (
	"math"

	"github.com/mohamedkhairy/signal-backtest/internal/models"
	"github.com/mohamedkhairy/signal-backtest/pkg/indicator"
)

// Engine computes the full signal table for a bar series. Several signals are
// OHLCV proxies for market microstructure data that is not available
// historically (options flow, dark pool prints, insider activity); those are
// weak heuristics derived from price/volume co-movement, documented per
// signal, not ground-truth readings. Signals that have no usable proxy at all
// stay at zero and never count toward the active weight.
type Engine struct{}

// NewEngine creates a signal engine
func NewEngine() *Engine {
	return &Engine{}
}

// ComputeAll computes every signal in the closed set over the bar series and
// returns the index-aligned table
func (e *Engine) ComputeAll(bars models.BarSeries) (*Table, error) {
	if err := bars.Validate(); err != nil {
		return nil, err
	}

	n := len(bars)
	c := bars.Closes()
	h := bars.Highs()
	l := bars.Lows()
	o := bars.Opens()
	v := bars.Volumes()

	rsi14 := indicator.RSI(c, 14)
	macd := indicator.MACD(c, 12, 26, 9)
	bb := indicator.Bollinger(c, 20, 2)
	atr14 := indicator.ATR(h, l, c, 14)
	adx14 := indicator.ADX(h, l, c, 14)
	ema8 := indicator.EMA(c, 8)
	ema21 := indicator.EMA(c, 21)
	ema50 := indicator.EMA(c, 50)
	volAvg := indicator.VolumeSMA(v, 20)
	sma200 := indicator.SMA(c, 200)

	// prefer provider VWAP; fall back to the cumulative computation
	vwap := bars.VWAPs()
	if !bars.HasVWAP() {
		vwap = indicator.VWAP(h, l, c, v)
	}

	priceChange := indicator.PctChange(c, 1)
	volRatio := make([]float64, n)
	for i := 0; i < n; i++ {
		volRatio[i] = indicator.SafeDiv(v[i], volAvg[i])
	}

	t := NewTable(n)

	// Trend stack agreement across the three EMAs
	emaAlignment := make([]float64, n)
	for i := 0; i < n; i++ {
		switch {
		case ema8[i] > ema21[i] && ema21[i] > ema50[i]:
			emaAlignment[i] = 1
		case ema8[i] < ema21[i] && ema21[i] < ema50[i]:
			emaAlignment[i] = -1
		}
	}
	t.mustSet(EMAAlignment, emaAlignment)

	// Distance from the RSI midpoint, linear inside the band and contrarian
	// beyond it: overbought reads -1 (fade), oversold reads +1 (bounce)
	rsiPosition := indicator.NaNs(n)
	for i := 0; i < n; i++ {
		switch {
		case math.IsNaN(rsi14[i]):
		case rsi14[i] > 70:
			rsiPosition[i] = -1
		case rsi14[i] < 30:
			rsiPosition[i] = 1
		default:
			rsiPosition[i] = (rsi14[i] - 50) / 20
		}
	}
	t.mustSet(RSIPosition, rsiPosition)

	// Histogram normalized by ATR so the reading is scale free
	macdNorm := indicator.NaNs(n)
	for i := 0; i < n; i++ {
		macdNorm[i] = indicator.SafeDiv(macd.Histogram[i], atr14[i])
	}
	t.mustSet(MACDHistogram, indicator.Clip(macdNorm, -1, 1))

	// Band position rescaled from [0,1] to [-1,1]
	bollingerPos := indicator.NaNs(n)
	for i := 0; i < n; i++ {
		if math.IsNaN(bb.Position[i]) {
			continue
		}
		bollingerPos[i] = bb.Position[i]*2 - 1
	}
	t.mustSet(BollingerPosition, indicator.Clip(bollingerPos, -1, 1))

	t.mustSet(BBSqueeze, indicator.Squeeze(bb.Bandwidth, 0.03))

	// Distance from VWAP in ATR units
	vwapDev := indicator.NaNs(n)
	for i := 0; i < n; i++ {
		vwapDev[i] = indicator.SafeDiv(c[i]-vwap[i], atr14[i])
	}
	t.mustSet(VWAPDeviation, indicator.Clip(vwapDev, -1, 1))

	// Proxy: heavy-volume directional bars stand in for call/put flow
	callPut := make([]float64, n)
	for i := 0; i < n; i++ {
		if volRatio[i] > 1.5 {
			if priceChange[i] > 0 {
				callPut[i] = 0.5
			} else if priceChange[i] < 0 {
				callPut[i] = -0.5
			}
		}
	}
	t.mustSet(CallPutRatio, callPut)

	// Proxy: extreme volume ratio in the bar's direction stands in for sweeps
	sweep := make([]float64, n)
	for i := 0; i < n; i++ {
		if volRatio[i] > 3 {
			sweep[i] = signOf(priceChange[i])
		}
	}
	t.mustSet(SweepActivity, sweep)

	// Proxy: big volume with barely any price movement suggests off-exchange
	// accumulation in the bar's direction
	darkPool := make([]float64, n)
	for i := 0; i < n; i++ {
		moveCap := indicator.SafeDiv(atr14[i], c[i]) * 0.3
		if !math.IsNaN(moveCap) && v[i] > volAvg[i]*2 && math.Abs(priceChange[i]) < moveCap {
			darkPool[i] = 0.3 * signOf(priceChange[i])
		}
	}
	t.mustSet(DarkPoolDirection, darkPool)

	// No OHLCV proxy exists for these; they stay neutral and inactive
	t.mustSet(InsiderCongress, indicator.Zeros(n))
	t.mustSet(GEXPositioning, indicator.Zeros(n))
	t.mustSet(ShortInterest, indicator.Zeros(n))
	t.mustSet(GammaWall, indicator.Zeros(n))
	t.mustSet(IVSkew, indicator.Zeros(n))
	t.mustSet(NewsSentiment, indicator.Zeros(n))
	t.mustSet(StrikeFlowLevels, indicator.Zeros(n))
	t.mustSet(GreekFlowMomentum, indicator.Zeros(n))
	t.mustSet(Seasonality, indicator.Zeros(n))
	t.mustSet(InsiderConviction, indicator.Zeros(n))
	t.mustSet(SpotGammaPin, indicator.Zeros(n))
	t.mustSet(FlowHorizon, indicator.Zeros(n))

	// Proxy: bandwidth percentile rank stands in for IV rank; rich vol is a
	// mild fade, crushed vol a mild long
	ivProxy := indicator.RollingRankPct(bb.Bandwidth, 20)
	ivRank := make([]float64, n)
	for i := 0; i < n; i++ {
		if ivProxy[i] > 0.8 {
			ivRank[i] = -0.3
		} else if ivProxy[i] < 0.2 {
			ivRank[i] = 0.3
		}
	}
	t.mustSet(IVRank, ivRank)

	volumeSpike := make([]float64, n)
	for i := 0; i < n; i++ {
		var magnitude float64
		if volRatio[i] > 2 {
			magnitude = 1
		} else if volRatio[i] > 1.5 {
			magnitude = 0.5
		}
		volumeSpike[i] = magnitude * signOf(priceChange[i])
	}
	t.mustSet(VolumeSpike, volumeSpike)

	// Long-term regime: which side of the 200-bar mean price trades on
	regime := make([]float64, n)
	for i := 0; i < n; i++ {
		if c[i] > sma200[i] {
			regime[i] = 1
		} else if c[i] < sma200[i] {
			regime[i] = -1
		}
	}
	regimeAlignment := make([]float64, n)
	for i := 0; i < n; i++ {
		regimeAlignment[i] = regime[i] * math.Abs(emaAlignment[i])
	}
	t.mustSet(RegimeAlignment, regimeAlignment)

	t.mustSet(CandlestickPattern, indicator.CandleScore(o, h, l, c))

	// Stacked means standing in for higher-timeframe agreement
	sma20 := indicator.SMA(c, 20)
	sma50 := indicator.SMA(c, 50)
	mtf := make([]float64, n)
	for i := 0; i < n; i++ {
		if c[i] > sma20[i] && sma20[i] > sma50[i] && c[i] > sma200[i] {
			mtf[i] = 1
		} else if c[i] < sma20[i] && sma20[i] < sma50[i] && c[i] < sma200[i] {
			mtf[i] = -1
		}
	}
	t.mustSet(MultiTFConfluence, mtf)

	t.mustSet(RSIDivergence, indicator.RSIDivergence(c, rsi14, 14))

	adxFilter := make([]float64, n)
	for i := 0; i < n; i++ {
		var strength float64
		if adx14.ADX[i] > 25 {
			strength = 1
		} else if adx14.ADX[i] < 15 {
			strength = -0.5
		}
		adxFilter[i] = strength * emaAlignment[i]
	}
	t.mustSet(ADXFilter, adxFilter)

	volRunner := make([]float64, n)
	for i := 0; i < n; i++ {
		if priceChange[i] > 0.05 && volRatio[i] > 3 {
			volRunner[i] = 1
		}
	}
	t.mustSet(VolatilityRunner, volRunner)

	// Proxy: 5-bar momentum stands in for net options premium flow
	mom5 := indicator.PctChange(c, 5)
	netPremium := indicator.NaNs(n)
	for i := 0; i < n; i++ {
		if math.IsNaN(mom5[i]) {
			continue
		}
		netPremium[i] = clampFloat(mom5[i], -0.1, 0.1) * 10
	}
	t.mustSet(NetPremiumMomentum, netPremium)

	sectorTide := make([]float64, n)
	etfTide := make([]float64, n)
	for i := 0; i < n; i++ {
		sectorTide[i] = regime[i] * 0.5
		etfTide[i] = regime[i] * 0.3
	}
	t.mustSet(SectorTide, sectorTide)
	t.mustSet(ETFTideMacro, etfTide)

	squeeze, _ := t.Get(BBSqueeze)
	squeezeComposite := make([]float64, n)
	for i := 0; i < n; i++ {
		sq := squeeze[i]
		if math.IsNaN(sq) {
			sq = 0
		}
		squeezeComposite[i] = sq * clampFloat(adxFilter[i], 0, 1)
	}
	t.mustSet(SqueezeComposite, squeezeComposite)

	// Bandwidth against its own recent distribution: stretched vol fades,
	// compressed vol favors expansion
	bwHigh := indicator.RollingQuantile(bb.Bandwidth, 50, 0.8)
	bwLow := indicator.RollingQuantile(bb.Bandwidth, 50, 0.2)
	volRegime := make([]float64, n)
	for i := 0; i < n; i++ {
		if bb.Bandwidth[i] > bwHigh[i] {
			volRegime[i] = -0.5
		} else if bb.Bandwidth[i] < bwLow[i] {
			volRegime[i] = 0.5
		}
	}
	t.mustSet(VolRegime, volRegime)

	volumeDirection := make([]float64, n)
	for i := 0; i < n; i++ {
		if volRatio[i] > 1.5 {
			volumeDirection[i] = signOf(priceChange[i])
		}
	}
	t.mustSet(VolumeDirection, volumeDirection)

	gapTrade := make([]float64, n)
	for i := 0; i < n; i++ {
		if math.Abs(priceChange[i]) > 0.04 {
			gapTrade[i] = signOf(priceChange[i])
		}
	}
	t.mustSet(EarningsGapTrade, gapTrade)

	return t, nil
}

// signOf returns -1, 0 or +1; NaN maps to 0 so an undefined change never fires
// a directional proxy
func signOf(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func clampFloat(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
