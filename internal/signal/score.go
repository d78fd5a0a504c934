package signal

import (
	"math"

	"github.com/mohamedkhairy/signal-backtest/internal/models"
)

// activeFloor is the minimum absolute reading for a signal to count its weight
// toward the normalization denominator. Below it the signal did not fire on
// that bar (warm-up NaN, neutral proxy) and must not inflate confidence.
const activeFloor = 0.01

// Blend controls how the two confidence components are mixed. The defaults
// are empirically chosen starting values, kept configurable so they can be
// recalibrated instead of trusted.
type Blend struct {
	RawWeight        float64 // share of raw normalized signal strength
	ConvictionWeight float64 // share of directional one-sidedness
}

// DefaultBlend returns the 0.6 / 0.4 strength-vs-conviction mix
func DefaultBlend() Blend {
	return Blend{RawWeight: 0.6, ConvictionWeight: 0.4}
}

// Score aggregates the signal table into one ScoreRow per bar under the given
// weights. Each signed signal value splits into a bull part (positive) and a
// bear part (negative, flipped to a positive magnitude), both scaled by the
// signal's weight. Only signals that actually fired on a bar contribute their
// weight to the normalization denominator. Iteration follows the fixed signal
// order, so the sums do not depend on weight-map layout.
func Score(t *Table, weights Weights, blend Blend) ([]models.ScoreRow, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}

	n := t.Len()
	bull := make([]float64, n)
	bear := make([]float64, n)
	activeWeight := make([]float64, n)

	for _, name := range All() {
		w := weights[name]
		if w == 0 {
			continue
		}
		col, err := t.Get(name)
		if err != nil {
			return nil, err
		}
		wf := float64(w)
		for i := 0; i < n; i++ {
			v := col[i]
			if math.IsNaN(v) {
				v = 0
			}
			if v > 0 {
				bull[i] += v * wf
			} else if v < 0 {
				bear[i] += -v * wf
			}
			if math.Abs(v) > activeFloor {
				activeWeight[i] += wf
			}
		}
	}

	rows := make([]models.ScoreRow, n)
	for i := 0; i < n; i++ {
		total := bull[i] + bear[i]

		denom := activeWeight[i]
		if denom == 0 {
			denom = 1
		}
		strength := math.Min(100, total/denom*100)

		// directional one-sidedness: 0 when nothing fired at all
		var conviction float64
		if total > 0 {
			conviction = math.Abs(bull[i]-bear[i]) / total * 100
		}

		confidence := blend.RawWeight*strength + blend.ConvictionWeight*conviction
		confidence = math.Max(0, math.Min(100, confidence))

		net := bull[i] - bear[i]
		direction := models.Neutral
		if net > 0 {
			direction = models.Bull
		} else if net < 0 {
			direction = models.Bear
		}

		rows[i] = models.ScoreRow{
			BullScore:  bull[i],
			BearScore:  bear[i],
			NetScore:   net,
			Confidence: confidence,
			Direction:  direction,
		}
	}

	return rows, nil
}
