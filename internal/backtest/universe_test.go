package backtest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohamedkhairy/signal-backtest/internal/config"
	"github.com/mohamedkhairy/signal-backtest/internal/data"
	"github.com/mohamedkhairy/signal-backtest/internal/report"
	"github.com/mohamedkhairy/signal-backtest/internal/signal"
)

func TestRunScores_MixedUniverse(t *testing.T) {
	source := data.NewMemorySource()
	source.SetDaily("GOOD", dailyTrend(260))
	source.SetDaily("THIN", dailyTrend(10))
	// "MISSING" has no data registered at all

	runner := NewRunner(source, swingValidator())
	reports := runner.RunScores(context.Background(), []string{"GOOD", "THIN", "MISSING"})
	require.Len(t, reports, 3)

	assert.Equal(t, "GOOD", reports[0].Ticker)
	assert.False(t, reports[0].Skipped())
	assert.Positive(t, reports[0].Predictions)

	assert.True(t, reports[1].Skipped())
	assert.Equal(t, "insufficient data", reports[1].Err)

	assert.True(t, reports[2].Skipped())

	// the rollup only counts the productive ticker
	agg, err := report.Aggregate(reports, config.SwingParams())
	require.NoError(t, err)
	assert.Equal(t, 1, agg.TickersTested)
	assert.Equal(t, reports[0].Predictions, agg.TotalPredictions)
}

func TestRunScores_FetchErrorDoesNotAbort(t *testing.T) {
	source := data.NewMemorySource()
	source.Fail(errors.New("connection refused"))

	runner := NewRunner(source, swingValidator())
	reports := runner.RunScores(context.Background(), []string{"AAPL", "MSFT"})
	require.Len(t, reports, 2)
	for _, r := range reports {
		assert.True(t, r.Skipped())
		assert.Contains(t, r.Err, "connection refused")
	}
}

func TestRunScores_CancelledContextStopsEarly(t *testing.T) {
	source := data.NewMemorySource()
	source.SetDaily("AAPL", dailyTrend(260))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner(source, swingValidator())
	reports := runner.RunScores(ctx, []string{"AAPL", "MSFT"})
	assert.Empty(t, reports)
}

func TestRunScores_IntradayModeFetchesIntraday(t *testing.T) {
	source := data.NewMemorySource()
	source.SetIntraday("TSLA", intradayTrend(4))
	// daily data present too, must be ignored in day mode
	source.SetDaily("TSLA", dailyTrend(260))

	v := NewValidator(signal.DefaultWeights(), signal.DefaultBlend(), config.DayTradeParams())
	runner := NewRunner(source, v)
	reports := runner.RunScores(context.Background(), []string{"TSLA"})
	require.Len(t, reports, 1)
	require.False(t, reports[0].Skipped())
	assert.NotEmpty(t, reports[0].Sessions, "day mode reports carry session stats")
}

func TestRunSetups_SkipsAndMeasures(t *testing.T) {
	source := data.NewMemorySource()
	source.SetDaily("THIN", dailyTrend(50))
	source.SetDaily("TREND", dailyTrend(260))

	runner := NewRunner(source, swingValidator())
	runs := runner.RunSetups(context.Background(), []string{"THIN", "TREND"})
	require.Len(t, runs, 2)

	assert.Equal(t, "THIN", runs[0].Ticker)
	assert.NotEmpty(t, runs[0].Err)

	assert.Equal(t, "TREND", runs[1].Ticker)
	assert.Empty(t, runs[1].Err)
	// a quiet linear trend never clears the volume-surge terms
	assert.Empty(t, runs[1].Predictions)
}
