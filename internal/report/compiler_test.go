package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohamedkhairy/signal-backtest/internal/config"
	"github.com/mohamedkhairy/signal-backtest/internal/models"
)

func pred(dir models.Direction, conf float64, correct bool, mfe, mae float64) models.Prediction {
	outcomes := make(map[string]models.HorizonOutcome)
	for _, label := range config.SwingParams().Labels {
		change := 1.0
		if !correct {
			change = -1.0
		}
		if dir == models.Bear {
			change = -change
		}
		outcomes[label] = models.HorizonOutcome{
			ChangePct:       change,
			Correct:         correct,
			DirectionalMove: change * float64(dir),
		}
	}
	return models.Prediction{
		Timestamp:  time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		EntryPrice: 100,
		Direction:  dir,
		Confidence: conf,
		Outcomes:   outcomes,
		MFE:        mfe,
		MAE:        mae,
	}
}

func TestCompile_CountsAndAccuracy(t *testing.T) {
	params := config.SwingParams()
	preds := []models.Prediction{
		pred(models.Bull, 70, true, 2.0, -0.5),
		pred(models.Bull, 80, true, 1.0, -1.0),
		pred(models.Bull, 66, false, 0.5, -2.0),
		pred(models.Bear, 75, true, 1.5, -0.5),
	}

	rep := Compile("AAPL", preds, params)

	assert.Equal(t, 4, rep.Predictions)
	assert.Equal(t, 3, rep.BullPredictions)
	assert.Equal(t, 1, rep.BearPredictions)
	assert.Equal(t, 72.8, rep.AvgConfidence) // (70+80+66+75)/4 = 72.75 → 72.8
	assert.False(t, rep.Skipped())

	h := rep.Horizons["5d"]
	assert.Equal(t, 75.0, h.Accuracy) // 3 of 4
	require.NotNil(t, h.BullAccuracy)
	assert.Equal(t, 66.7, *h.BullAccuracy) // 2 of 3
	require.NotNil(t, h.BearAccuracy)
	assert.Equal(t, 100.0, *h.BearAccuracy)

	assert.Equal(t, 1.25, rep.AvgMFE) // (2+1+0.5+1.5)/4
	assert.Equal(t, -1.0, rep.AvgMAE)
	assert.Equal(t, 1.25, rep.MFEMAERatio)
}

func TestCompile_BullOnlyOmitsBearSplit(t *testing.T) {
	params := config.SwingParams()
	rep := Compile("NVDA", []models.Prediction{
		pred(models.Bull, 70, true, 1, -1),
		pred(models.Bull, 70, false, 1, -1),
	}, params)

	h := rep.Horizons["1d"]
	require.NotNil(t, h.BullAccuracy)
	assert.Nil(t, h.BearAccuracy, "no bear predictions means no bear split")
}

func TestCompile_RatioDenominatorFloor(t *testing.T) {
	params := config.SwingParams()
	rep := Compile("SPY", []models.Prediction{
		pred(models.Bull, 70, true, 0.5, 0.0), // zero adverse excursion
	}, params)

	// denominator floors at 0.001 instead of dividing by zero
	assert.Equal(t, 500.0, rep.MFEMAERatio)
}

func TestCompile_ConfidenceBinBoundaries(t *testing.T) {
	params := config.SwingParams()
	preds := []models.Prediction{
		pred(models.Bull, 65, true, 1, -1),
		pred(models.Bull, 70, true, 1, -1), // boundary value joins the upper bucket
		pred(models.Bull, 74.9, true, 1, -1),
		pred(models.Bull, 80, true, 1, -1),
		pred(models.Bull, 100, true, 1, -1), // top bucket is closed above
	}

	rep := Compile("AMD", preds, params)
	require.Len(t, rep.ConfidenceBins, 3)

	byRange := make(map[[2]int]models.ConfidenceBucket)
	for _, b := range rep.ConfidenceBins {
		byRange[[2]int{b.Low, b.High}] = b
	}

	assert.Equal(t, 1, byRange[[2]int{65, 70}].Count)
	assert.Equal(t, 2, byRange[[2]int{70, 75}].Count)
	assert.Equal(t, 2, byRange[[2]int{80, 100}].Count)
	_, ok := byRange[[2]int{75, 80}]
	assert.False(t, ok, "empty buckets are dropped")
}

func TestCompile_SessionBreakdownIntradayOnly(t *testing.T) {
	day := config.DayTradeParams()
	swing := config.SwingParams()

	p := pred(models.Bull, 70, true, 1, -1)
	p.Session = "MIDDAY"
	p2 := pred(models.Bull, 80, false, 1, -1)
	p2.Session = "MIDDAY"
	// day-mode outcomes carry day labels
	for _, x := range []*models.Prediction{&p, &p2} {
		outcomes := make(map[string]models.HorizonOutcome)
		for _, label := range day.Labels {
			outcomes[label] = x.Outcomes["1d"]
		}
		x.Outcomes = outcomes
	}

	rep := Compile("TSLA", []models.Prediction{p, p2}, day)
	require.Contains(t, rep.Sessions, "MIDDAY")
	assert.Equal(t, 2, rep.Sessions["MIDDAY"].Count)
	assert.Equal(t, 50.0, rep.Sessions["MIDDAY"].Accuracy)
	assert.Equal(t, 75.0, rep.Sessions["MIDDAY"].AvgConfidence)

	swingRep := Compile("TSLA", []models.Prediction{pred(models.Bull, 70, true, 1, -1)}, swing)
	assert.Nil(t, swingRep.Sessions)
}
