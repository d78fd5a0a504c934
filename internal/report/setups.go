package report

import (
	"sort"

	"github.com/mohamedkhairy/signal-backtest/internal/config"
	"github.com/mohamedkhairy/signal-backtest/internal/models"
)

// CompileSetups groups measured setup outcomes by setup name. Results are
// ordered best-first by accuracy at the ranking horizon, which is the third
// label when the mode has one, otherwise the first.
func CompileSetups(preds []models.Prediction, params config.ModeParams) []models.SetupStats {
	if len(preds) == 0 {
		return nil
	}

	type acc struct {
		count, long, short int
		correct            map[string]int
		mfeSum, maeSum     float64
	}
	bySetup := make(map[string]*acc)
	for _, p := range preds {
		a, ok := bySetup[p.Setup]
		if !ok {
			a = &acc{correct: make(map[string]int, len(params.Labels))}
			bySetup[p.Setup] = a
		}
		a.count++
		if p.Direction == models.Bull {
			a.long++
		} else {
			a.short++
		}
		a.mfeSum += p.MFE
		a.maeSum += p.MAE
		for _, label := range params.Labels {
			if p.Outcomes[label].Correct {
				a.correct[label]++
			}
		}
	}

	rankLabel := params.Labels[0]
	if len(params.Labels) > 2 {
		rankLabel = params.Labels[2]
	}

	out := make([]models.SetupStats, 0, len(bySetup))
	for name, a := range bySetup {
		stats := models.SetupStats{
			Setup:    name,
			Count:    a.count,
			Long:     a.long,
			Short:    a.short,
			Accuracy: make(map[string]float64, len(params.Labels)),
			AvgMFE:   round4(a.mfeSum / float64(a.count)),
			AvgMAE:   round4(a.maeSum / float64(a.count)),
		}
		for _, label := range params.Labels {
			stats.Accuracy[label] = round1(float64(a.correct[label]) / float64(a.count) * 100)
		}
		out = append(out, stats)
	}

	sort.Slice(out, func(i, j int) bool {
		ai, aj := out[i].Accuracy[rankLabel], out[j].Accuracy[rankLabel]
		if ai != aj {
			return ai > aj
		}
		return out[i].Setup < out[j].Setup
	})
	return out
}
