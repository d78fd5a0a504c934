package setups

import (
	"math"

	"github.com/mohamedkhairy/signal-backtest/internal/models"
	"github.com/mohamedkhairy/signal-backtest/pkg/indicator"
)

// Setup names, one per conjunctive rule.
const (
	RSIOversoldBounce         = "RSI_OVERSOLD_BOUNCE"
	RSIOverboughtFade         = "RSI_OVERBOUGHT_FADE"
	VWAPReclaim               = "VWAP_RECLAIM"
	VWAPRejection             = "VWAP_REJECTION"
	BBSqueezeBreakoutLong     = "BB_SQUEEZE_BREAKOUT_LONG"
	BBSqueezeBreakoutShort    = "BB_SQUEEZE_BREAKOUT_SHORT"
	EMATrendPullbackLong      = "EMA_TREND_PULLBACK_LONG"
	EMATrendPullbackShort     = "EMA_TREND_PULLBACK_SHORT"
	VolumeClimaxReversalLong  = "VOLUME_CLIMAX_REVERSAL_LONG"
	VolumeClimaxReversalShort = "VOLUME_CLIMAX_REVERSAL_SHORT"
	MACDBullishCross          = "MACD_BULLISH_CROSS"
	MACDBearishCross          = "MACD_BEARISH_CROSS"
	MomentumBreakoutLong      = "MOMENTUM_BREAKOUT_LONG"
	MomentumBreakoutShort     = "MOMENTUM_BREAKOUT_SHORT"
)

// rule is one named setup. Every condition must hold on the same bar;
// conditions touching NaN warm-up values evaluate false.
type rule struct {
	name      string
	direction models.Direction
	match     func(b *bundle, i int) bool
}

// bundle holds the indicator columns the rules read.
type bundle struct {
	open, high, low, close, volume []float64

	rsi, rsi5    []float64
	macd         indicator.MACDResult
	prevHist     []float64
	prevLine     []float64
	prevSignal   []float64
	bb           indicator.BollingerResult
	squeezeRef   []float64 // rolling 15th percentile of bandwidth
	atr          []float64
	adx          indicator.ADXResult
	ema8         []float64
	ema21        []float64
	ema50        []float64
	volRatio     []float64
	vwap         []float64
	prevVWAP     []float64
	prevClose    []float64
	bodyRatio    []float64
	lowerWickPct []float64
	upperWickPct []float64
}

func (b *bundle) bullishCandle(i int) bool { return b.close[i] > b.open[i] }
func (b *bundle) bearishCandle(i int) bool { return b.close[i] < b.open[i] }

// histRising reports whether the MACD histogram increased on bar i.
func (b *bundle) histRising(i int) bool {
	return gt(b.macd.Histogram[i], b.prevHist[i])
}

func (b *bundle) histFalling(i int) bool {
	return lt(b.macd.Histogram[i], b.prevHist[i])
}

// gt and lt are explicit so NaN operands read as "condition not met"
func gt(a, c float64) bool { return !math.IsNaN(a) && !math.IsNaN(c) && a > c }
func lt(a, c float64) bool { return !math.IsNaN(a) && !math.IsNaN(c) && a < c }

// Detector scans a bar series for high-conviction conjunctive setups.
type Detector struct {
	rules []rule
}

func NewDetector() *Detector {
	return &Detector{rules: allRules()}
}

// Detect runs every rule across the series and returns triggered events in
// bar order, rule order within a bar.
func (d *Detector) Detect(bars models.BarSeries) ([]models.SetupEvent, error) {
	if err := bars.Validate(); err != nil {
		return nil, err
	}
	b := computeBundle(bars)

	var events []models.SetupEvent
	for i := range bars {
		for _, r := range d.rules {
			if !r.match(b, i) {
				continue
			}
			events = append(events, models.SetupEvent{
				Timestamp:   bars[i].Timestamp,
				Setup:       r.name,
				Direction:   r.direction,
				EntryPrice:  b.close[i],
				RSI:         b.rsi[i],
				VolumeRatio: b.volRatio[i],
			})
		}
	}
	return events, nil
}

func computeBundle(bars models.BarSeries) *bundle {
	b := &bundle{
		open:   bars.Opens(),
		high:   bars.Highs(),
		low:    bars.Lows(),
		close:  bars.Closes(),
		volume: bars.Volumes(),
	}

	b.rsi = indicator.RSI(b.close, 14)
	b.rsi5 = indicator.RSI(b.close, 5)
	b.macd = indicator.MACD(b.close, 12, 26, 9)
	b.prevHist = indicator.Shift(b.macd.Histogram, 1)
	b.prevLine = indicator.Shift(b.macd.Line, 1)
	b.prevSignal = indicator.Shift(b.macd.Signal, 1)
	b.bb = indicator.Bollinger(b.close, 20, 2)
	b.squeezeRef = indicator.RollingQuantile(b.bb.Bandwidth, 50, 0.15)
	b.atr = indicator.ATR(b.high, b.low, b.close, 14)
	b.adx = indicator.ADX(b.high, b.low, b.close, 14)
	b.ema8 = indicator.EMA(b.close, 8)
	b.ema21 = indicator.EMA(b.close, 21)
	b.ema50 = indicator.EMA(b.close, 50)

	volAvg := indicator.VolumeSMA(b.volume, 20)
	b.volRatio = make([]float64, len(bars))
	for i := range b.volRatio {
		b.volRatio[i] = indicator.SafeDiv(b.volume[i], volAvg[i])
	}

	if bars.HasVWAP() {
		b.vwap = bars.VWAPs()
	} else {
		b.vwap = indicator.VWAP(b.high, b.low, b.close, b.volume)
	}
	b.prevVWAP = indicator.Shift(b.vwap, 1)
	b.prevClose = indicator.Shift(b.close, 1)

	n := len(bars)
	b.bodyRatio = make([]float64, n)
	b.lowerWickPct = make([]float64, n)
	b.upperWickPct = make([]float64, n)
	for i := 0; i < n; i++ {
		rng := b.high[i] - b.low[i]
		body := math.Abs(b.close[i] - b.open[i])
		b.bodyRatio[i] = indicator.SafeDiv(body, rng)
		b.lowerWickPct[i] = indicator.SafeDiv(math.Min(b.open[i], b.close[i])-b.low[i], rng)
		b.upperWickPct[i] = indicator.SafeDiv(b.high[i]-math.Max(b.open[i], b.close[i]), rng)
	}
	return b
}

func allRules() []rule {
	return []rule{
		{RSIOversoldBounce, models.Bull, func(b *bundle, i int) bool {
			return lt(b.rsi[i], 25) &&
				gt(b.volRatio[i], 2.0) &&
				b.bullishCandle(i) &&
				gt(b.bodyRatio[i], 0.4) &&
				lt(b.bb.Position[i], 0.15) &&
				b.histRising(i)
		}},
		{RSIOverboughtFade, models.Bear, func(b *bundle, i int) bool {
			return gt(b.rsi[i], 75) &&
				gt(b.volRatio[i], 2.0) &&
				b.bearishCandle(i) &&
				gt(b.bodyRatio[i], 0.4) &&
				gt(b.bb.Position[i], 0.85) &&
				b.histFalling(i)
		}},
		{VWAPReclaim, models.Bull, func(b *bundle, i int) bool {
			return lt(b.prevClose[i], b.prevVWAP[i]) &&
				gt(b.close[i], b.vwap[i]) &&
				gt(b.volRatio[i], 2.0) &&
				b.bullishCandle(i) &&
				gt(b.bodyRatio[i], 0.4) &&
				gt(b.rsi[i], 40) && lt(b.rsi[i], 60) &&
				b.histRising(i)
		}},
		{VWAPRejection, models.Bear, func(b *bundle, i int) bool {
			return gt(b.high[i], b.vwap[i]) &&
				lt(b.close[i], b.vwap[i]) &&
				gt(b.volRatio[i], 2.0) &&
				b.bearishCandle(i) &&
				gt(b.bodyRatio[i], 0.4) &&
				gt(b.upperWickPct[i], 0.5) &&
				gt(b.rsi[i], 45) &&
				b.histFalling(i)
		}},
		{BBSqueezeBreakoutLong, models.Bull, func(b *bundle, i int) bool {
			return lt(b.bb.Bandwidth[i], b.squeezeRef[i]) &&
				gt(b.close[i], b.bb.Upper[i]) &&
				gt(b.volRatio[i], 2.5) &&
				b.bullishCandle(i) &&
				gt(b.bodyRatio[i], 0.5) &&
				gt(b.adx.ADX[i], 20) &&
				gt(b.ema8[i], b.ema21[i])
		}},
		{BBSqueezeBreakoutShort, models.Bear, func(b *bundle, i int) bool {
			return lt(b.bb.Bandwidth[i], b.squeezeRef[i]) &&
				lt(b.close[i], b.bb.Lower[i]) &&
				gt(b.volRatio[i], 2.5) &&
				b.bearishCandle(i) &&
				gt(b.bodyRatio[i], 0.5) &&
				gt(b.adx.ADX[i], 20) &&
				lt(b.ema8[i], b.ema21[i])
		}},
		{EMATrendPullbackLong, models.Bull, func(b *bundle, i int) bool {
			return gt(b.ema8[i], b.ema21[i]) && gt(b.ema21[i], b.ema50[i]) &&
				!math.IsNaN(b.ema21[i]) && b.low[i] <= b.ema21[i]*1.003 &&
				gt(b.close[i], b.ema21[i]) &&
				b.bullishCandle(i) &&
				gt(b.bodyRatio[i], 0.4) &&
				gt(b.volRatio[i], 1.5) &&
				gt(b.rsi[i], 40) && lt(b.rsi[i], 55) &&
				gt(b.adx.ADX[i], 20) &&
				b.histRising(i)
		}},
		{EMATrendPullbackShort, models.Bear, func(b *bundle, i int) bool {
			return lt(b.ema8[i], b.ema21[i]) && lt(b.ema21[i], b.ema50[i]) &&
				!math.IsNaN(b.ema21[i]) && b.high[i] >= b.ema21[i]*0.997 &&
				lt(b.close[i], b.ema21[i]) &&
				b.bearishCandle(i) &&
				gt(b.bodyRatio[i], 0.4) &&
				gt(b.volRatio[i], 1.5) &&
				gt(b.rsi[i], 45) && lt(b.rsi[i], 60) &&
				gt(b.adx.ADX[i], 20) &&
				b.histFalling(i)
		}},
		{VolumeClimaxReversalLong, models.Bull, func(b *bundle, i int) bool {
			return gt(b.volRatio[i], 3.0) &&
				gt(b.lowerWickPct[i], 0.6) &&
				lt(b.rsi[i], 30) &&
				lt(b.bb.Position[i], 0.1) &&
				lt(b.bodyRatio[i], 0.35)
		}},
		{VolumeClimaxReversalShort, models.Bear, func(b *bundle, i int) bool {
			return gt(b.volRatio[i], 3.0) &&
				gt(b.upperWickPct[i], 0.6) &&
				gt(b.rsi[i], 70) &&
				gt(b.bb.Position[i], 0.9) &&
				lt(b.bodyRatio[i], 0.35)
		}},
		{MACDBullishCross, models.Bull, func(b *bundle, i int) bool {
			crossUp := gt(b.macd.Line[i], b.macd.Signal[i]) &&
				!math.IsNaN(b.prevLine[i]) && !math.IsNaN(b.prevSignal[i]) &&
				b.prevLine[i] <= b.prevSignal[i]
			return crossUp &&
				gt(b.rsi[i], 40) && lt(b.rsi[i], 60) &&
				gt(b.volRatio[i], 1.5) &&
				b.bullishCandle(i) &&
				gt(b.ema8[i], b.ema21[i]) &&
				gt(b.macd.Histogram[i], 0)
		}},
		{MACDBearishCross, models.Bear, func(b *bundle, i int) bool {
			crossDown := lt(b.macd.Line[i], b.macd.Signal[i]) &&
				!math.IsNaN(b.prevLine[i]) && !math.IsNaN(b.prevSignal[i]) &&
				b.prevLine[i] >= b.prevSignal[i]
			return crossDown &&
				gt(b.rsi[i], 40) && lt(b.rsi[i], 60) &&
				gt(b.volRatio[i], 1.5) &&
				b.bearishCandle(i) &&
				lt(b.ema8[i], b.ema21[i]) &&
				lt(b.macd.Histogram[i], 0)
		}},
		{MomentumBreakoutLong, models.Bull, func(b *bundle, i int) bool {
			return gt(b.close[i], b.ema8[i]) &&
				gt(b.ema8[i], b.ema21[i]) &&
				gt(b.volRatio[i], 2.5) &&
				gt(b.adx.ADX[i], 25) &&
				gt(b.macd.Histogram[i], 0) &&
				b.histRising(i) &&
				gt(b.rsi[i], 55) && lt(b.rsi[i], 72) &&
				b.bullishCandle(i) &&
				gt(b.bodyRatio[i], 0.6)
		}},
		{MomentumBreakoutShort, models.Bear, func(b *bundle, i int) bool {
			return lt(b.close[i], b.ema8[i]) &&
				lt(b.ema8[i], b.ema21[i]) &&
				gt(b.volRatio[i], 2.5) &&
				gt(b.adx.ADX[i], 25) &&
				lt(b.macd.Histogram[i], 0) &&
				b.histFalling(i) &&
				gt(b.rsi[i], 28) && lt(b.rsi[i], 45) &&
				b.bearishCandle(i) &&
				gt(b.bodyRatio[i], 0.6)
		}},
	}
}
