package report

import (
	"github.com/mohamedkhairy/signal-backtest/internal/config"
	"github.com/mohamedkhairy/signal-backtest/internal/models"
)

// Aggregate rolls per-ticker reports into a universe view. Horizon accuracy
// is weighted by each ticker's prediction count so thin tickers cannot drown
// out active ones. Tickers with zero predictions are excluded outright, they
// do not pull the averages toward zero.
func Aggregate(reports []models.TickerReport, params config.ModeParams) (*models.UniverseReport, error) {
	var valid []models.TickerReport
	for _, r := range reports {
		if r.Predictions > 0 {
			valid = append(valid, r)
		}
	}
	if len(valid) == 0 {
		return nil, models.ErrNoPredictions
	}

	agg := &models.UniverseReport{
		TickersTested: len(valid),
		Horizons:      make(map[string]models.HorizonStats, len(params.Labels)),
	}

	var confSum, mfeSum, maeSum float64
	for _, r := range valid {
		agg.TotalPredictions += r.Predictions
		agg.TotalBull += r.BullPredictions
		agg.TotalBear += r.BearPredictions
		confSum += r.AvgConfidence
		mfeSum += r.AvgMFE
		maeSum += r.AvgMAE
	}
	tickerCount := float64(len(valid))
	agg.AvgConfidence = round1(confSum / tickerCount)
	agg.AvgMFE = round4(mfeSum / tickerCount)
	agg.AvgMAE = round4(maeSum / tickerCount)

	total := float64(agg.TotalPredictions)
	for _, label := range params.Labels {
		var weightedAcc, weightedMove, weightedDirMove float64
		var bullSum, bearSum float64
		var bullN, bearN int
		for _, r := range valid {
			h, ok := r.Horizons[label]
			if !ok {
				continue
			}
			weight := float64(r.Predictions)
			weightedAcc += h.Accuracy * weight
			weightedMove += h.AvgMove * weight
			weightedDirMove += h.AvgDirectionalMove * weight
			if h.BullAccuracy != nil {
				bullSum += *h.BullAccuracy
				bullN++
			}
			if h.BearAccuracy != nil {
				bearSum += *h.BearAccuracy
				bearN++
			}
		}

		stats := models.HorizonStats{
			Accuracy:           round1(weightedAcc / total),
			AvgMove:            round4(weightedMove / total),
			AvgDirectionalMove: round4(weightedDirMove / total),
		}
		if bullN > 0 {
			acc := round1(bullSum / float64(bullN))
			stats.BullAccuracy = &acc
		}
		if bearN > 0 {
			acc := round1(bearSum / float64(bearN))
			stats.BearAccuracy = &acc
		}
		agg.Horizons[label] = stats
	}
	return agg, nil
}
