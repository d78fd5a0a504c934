package signal

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohamedkhairy/signal-backtest/internal/models"
)

// barsFromCloses builds a daily bar series around the given closes with a
// constant volume, for exercising the engine on synthetic shapes
func barsFromCloses(closes []float64, volume float64) models.BarSeries {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make(models.BarSeries, len(closes))
	for i, c := range closes {
		bars[i] = models.Bar{
			Timestamp: start.Add(time.Duration(i) * 24 * time.Hour),
			Open:      c - 0.2,
			High:      c + 0.5,
			Low:       c - 0.5,
			Close:     c,
			Volume:    volume,
		}
	}
	return bars
}

func trendingCloses(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + float64(i)
	}
	return out
}

func choppyCloses(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + 0.5*math.Sin(float64(i))
	}
	return out
}

func TestComputeAll_RejectsUnorderedBars(t *testing.T) {
	bars := barsFromCloses(trendingCloses(10), 1000)
	bars[5].Timestamp = bars[4].Timestamp // duplicate timestamp

	_, err := NewEngine().ComputeAll(bars)
	require.ErrorIs(t, err, models.ErrUnorderedBars)
}

func TestComputeAll_CleanTrendResolvesBull(t *testing.T) {
	bars := barsFromCloses(trendingCloses(260), 10000)
	table, err := NewEngine().ComputeAll(bars)
	require.NoError(t, err)

	last := len(bars) - 1

	emaAlign, err := table.Get(EMAAlignment)
	require.NoError(t, err)
	assert.Equal(t, 1.0, emaAlign[last], "full EMA stack should be bullish")

	rsiPos, err := table.Get(RSIPosition)
	require.NoError(t, err)
	assert.Equal(t, 0.0, rsiPos[last], "a zero-loss window reads the neutral sentinel")

	mtf, err := table.Get(MultiTFConfluence)
	require.NoError(t, err)
	assert.Equal(t, 1.0, mtf[last])
}

// steppedCloses walks the level by mostly repeating step, replacing every
// eighth move with counter so both gain and loss averages stay defined
func steppedCloses(n int, start, step, counter float64) []float64 {
	out := make([]float64, n)
	out[0] = start
	for i := 1; i < n; i++ {
		if i%8 == 0 {
			out[i] = out[i-1] + counter
		} else {
			out[i] = out[i-1] + step
		}
	}
	return out
}

func TestComputeAll_RSIPositionFlipsAtExtremes(t *testing.T) {
	engine := NewEngine()

	// strong rally with token pullbacks: RSI sits far above 70
	overbought := barsFromCloses(steppedCloses(260, 100, 1, -0.01), 10000)
	table, err := engine.ComputeAll(overbought)
	require.NoError(t, err)
	rsiPos, err := table.Get(RSIPosition)
	require.NoError(t, err)
	last := len(overbought) - 1
	assert.Equal(t, -1.0, rsiPos[last], "overbought reads as a fade")

	// mirrored sell-off: RSI sits far below 30
	oversold := barsFromCloses(steppedCloses(260, 400, -1, 0.01), 10000)
	table, err = engine.ComputeAll(oversold)
	require.NoError(t, err)
	rsiPos, err = table.Get(RSIPosition)
	require.NoError(t, err)
	assert.Equal(t, 1.0, rsiPos[last], "oversold reads as a bounce")
}

func TestComputeAll_RSIPositionLinearInsideBand(t *testing.T) {
	// alternating +1/-0.5 steps hold RSI at 66.67, inside the 30..70 band
	closes := make([]float64, 260)
	closes[0] = 100
	for i := 1; i < len(closes); i++ {
		if i%2 == 1 {
			closes[i] = closes[i-1] + 1
		} else {
			closes[i] = closes[i-1] - 0.5
		}
	}
	table, err := NewEngine().ComputeAll(barsFromCloses(closes, 10000))
	require.NoError(t, err)

	rsiPos, err := table.Get(RSIPosition)
	require.NoError(t, err)
	want := (100 - 100.0/3.0 - 50) / 20
	assert.InDelta(t, want, rsiPos[len(closes)-1], 1e-9)
}

func TestComputeAll_TrendScoresAboveChop(t *testing.T) {
	engine := NewEngine()
	weights := DefaultWeights()
	blend := DefaultBlend()

	trendTable, err := engine.ComputeAll(barsFromCloses(trendingCloses(260), 10000))
	require.NoError(t, err)
	trendScores, err := Score(trendTable, weights, blend)
	require.NoError(t, err)

	chopTable, err := engine.ComputeAll(barsFromCloses(choppyCloses(260), 10000))
	require.NoError(t, err)
	chopScores, err := Score(chopTable, weights, blend)
	require.NoError(t, err)

	// compare mean confidence over the fully warmed-up tail
	tail := func(rows []models.ScoreRow) float64 {
		var sum float64
		for _, r := range rows[len(rows)-30:] {
			sum += r.Confidence
		}
		return sum / 30
	}

	assert.Greater(t, tail(trendScores), tail(chopScores),
		"a clean trend should score more confident than chop with identical volume")

	last := trendScores[len(trendScores)-1]
	assert.Equal(t, models.Bull, last.Direction)
}

func TestComputeAll_ProxiesSilentWithoutVolumeSurge(t *testing.T) {
	bars := barsFromCloses(trendingCloses(260), 10000)
	table, err := NewEngine().ComputeAll(bars)
	require.NoError(t, err)

	for _, name := range []Name{CallPutRatio, SweepActivity, VolumeSpike, VolumeDirection} {
		col, err := table.Get(name)
		require.NoError(t, err)
		for i, v := range col {
			if math.IsNaN(v) {
				continue
			}
			assert.Zero(t, v, "%s[%d] fired with flat volume", name, i)
		}
	}
}

func TestComputeAll_EveryColumnAligned(t *testing.T) {
	bars := barsFromCloses(choppyCloses(120), 5000)
	table, err := NewEngine().ComputeAll(bars)
	require.NoError(t, err)

	for _, name := range All() {
		col, err := table.Get(name)
		require.NoError(t, err, "signal %s missing", name)
		require.Len(t, col, len(bars))
		for i, v := range col {
			assert.False(t, math.IsInf(v, 0), "%s[%d] is Inf", name, i)
		}
	}
}
