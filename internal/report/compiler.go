package report

import (
	"math"

	"github.com/mohamedkhairy/signal-backtest/internal/config"
	"github.com/mohamedkhairy/signal-backtest/internal/models"
)

// Compile folds a ticker's measured predictions into an accuracy report.
// Callers guarantee preds is non-empty.
func Compile(ticker string, preds []models.Prediction, params config.ModeParams) *models.TickerReport {
	n := len(preds)
	rep := &models.TickerReport{
		Ticker:      ticker,
		Predictions: n,
		Horizons:    make(map[string]models.HorizonStats, len(params.Labels)),
		Raw:         preds,
	}

	var confSum, mfeSum, maeSum float64
	for _, p := range preds {
		switch p.Direction {
		case models.Bull:
			rep.BullPredictions++
		case models.Bear:
			rep.BearPredictions++
		}
		confSum += p.Confidence
		mfeSum += p.MFE
		maeSum += p.MAE
	}
	rep.AvgConfidence = round1(confSum / float64(n))

	for _, label := range params.Labels {
		rep.Horizons[label] = horizonStats(preds, label)
	}

	avgMFE := mfeSum / float64(n)
	avgMAE := maeSum / float64(n)
	rep.AvgMFE = round4(avgMFE)
	rep.AvgMAE = round4(avgMAE)
	rep.MFEMAERatio = round2(avgMFE / math.Max(math.Abs(avgMAE), 0.001))

	rep.ConfidenceBins = confidenceBins(preds, params)

	if params.Intraday() {
		rep.Sessions = sessionBreakdown(preds, params)
	}
	return rep
}

func horizonStats(preds []models.Prediction, label string) models.HorizonStats {
	var correct, bullN, bearN, bullCorrect, bearCorrect int
	var moveSum, dirMoveSum float64
	for _, p := range preds {
		out := p.Outcomes[label]
		moveSum += out.ChangePct
		dirMoveSum += out.DirectionalMove
		if out.Correct {
			correct++
		}
		if p.Direction == models.Bull {
			bullN++
			if out.Correct {
				bullCorrect++
			}
		} else {
			bearN++
			if out.Correct {
				bearCorrect++
			}
		}
	}

	n := len(preds)
	stats := models.HorizonStats{
		Accuracy:           round1(float64(correct) / float64(n) * 100),
		AvgMove:            round4(moveSum / float64(n)),
		AvgDirectionalMove: round4(dirMoveSum / float64(n)),
	}
	// bull/bear splits only exist over non-empty subsets
	if bullN > 0 {
		acc := round1(float64(bullCorrect) / float64(bullN) * 100)
		stats.BullAccuracy = &acc
	}
	if bearN > 0 {
		acc := round1(float64(bearCorrect) / float64(bearN) * 100)
		stats.BearAccuracy = &acc
	}
	return stats
}

// confidenceBins buckets predictions into half-open [low, high) confidence
// ranges. The last bucket is closed above so a perfect 100 still lands in it.
// Accuracy inside a bucket is judged at the longest horizon.
func confidenceBins(preds []models.Prediction, params config.ModeParams) []models.ConfidenceBucket {
	lastLabel := params.Labels[len(params.Labels)-1]
	bins := params.ConfidenceBins

	var buckets []models.ConfidenceBucket
	for i, low := range bins {
		high := 100
		if i+1 < len(bins) {
			high = bins[i+1]
		}
		last := i+1 == len(bins)

		var count, correct int
		var confSum, mfeSum float64
		for _, p := range preds {
			if p.Confidence < float64(low) {
				continue
			}
			if p.Confidence >= float64(high) && !(last && p.Confidence == float64(high)) {
				continue
			}
			count++
			confSum += p.Confidence
			mfeSum += p.MFE
			if p.Outcomes[lastLabel].Correct {
				correct++
			}
		}
		if count == 0 {
			continue
		}
		buckets = append(buckets, models.ConfidenceBucket{
			Low:           low,
			High:          high,
			Count:         count,
			Accuracy:      round1(float64(correct) / float64(count) * 100),
			AvgConfidence: round1(confSum / float64(count)),
			AvgMFE:        round4(mfeSum / float64(count)),
		})
	}
	return buckets
}

func sessionBreakdown(preds []models.Prediction, params config.ModeParams) map[string]models.SessionStats {
	lastLabel := params.Labels[len(params.Labels)-1]

	type acc struct {
		count   int
		correct int
		confSum float64
	}
	bySession := make(map[string]*acc)
	for _, p := range preds {
		if p.Session == "" {
			continue
		}
		a, ok := bySession[p.Session]
		if !ok {
			a = &acc{}
			bySession[p.Session] = a
		}
		a.count++
		a.confSum += p.Confidence
		if p.Outcomes[lastLabel].Correct {
			a.correct++
		}
	}
	if len(bySession) == 0 {
		return nil
	}

	out := make(map[string]models.SessionStats, len(bySession))
	for sess, a := range bySession {
		out[sess] = models.SessionStats{
			Count:         a.count,
			Accuracy:      round1(float64(a.correct) / float64(a.count) * 100),
			AvgConfidence: round1(a.confSum / float64(a.count)),
		}
	}
	return out
}

func round1(x float64) float64 { return math.Round(x*10) / 10 }
func round2(x float64) float64 { return math.Round(x*100) / 100 }
func round4(x float64) float64 { return math.Round(x*10000) / 10000 }
