package backtest

import (
	"math"

	"github.com/mohamedkhairy/signal-backtest/internal/config"
	"github.com/mohamedkhairy/signal-backtest/internal/models"
	"github.com/mohamedkhairy/signal-backtest/internal/report"
	"github.com/mohamedkhairy/signal-backtest/internal/setups"
	"github.com/mohamedkhairy/signal-backtest/internal/signal"
)

const (
	reasonInsufficientData   = "insufficient data"
	reasonInsufficientMarket = "insufficient market-hours data"
	reasonNoPredictions      = "no predictions above threshold"
)

// Validator measures whether high-confidence directional calls were followed
// by price moves in the called direction.
type Validator struct {
	engine  *signal.Engine
	weights signal.Weights
	blend   signal.Blend
	params  config.ModeParams
}

// NewValidator creates a validator for one mode and weight set
func NewValidator(weights signal.Weights, blend signal.Blend, params config.ModeParams) *Validator {
	return &Validator{
		engine:  signal.NewEngine(),
		weights: weights,
		blend:   blend,
		params:  params,
	}
}

// Params returns the mode parameters this validator measures with
func (v *Validator) Params() config.ModeParams { return v.params }

// Run scores the series, extracts qualifying predictions and compiles the
// per-ticker accuracy report. A ticker without enough bars or without any
// prediction produces a skip report, not an error. Errors are reserved for
// malformed input or weights.
func (v *Validator) Run(ticker string, bars models.BarSeries) (*models.TickerReport, error) {
	if len(bars) < v.params.MinBars {
		return skipReport(ticker, reasonInsufficientData), nil
	}

	if v.params.Intraday() {
		bars = FilterMarketHours(bars, v.params)
		if len(bars) < v.params.MinBars {
			return skipReport(ticker, reasonInsufficientMarket), nil
		}
	}

	table, err := v.engine.ComputeAll(bars)
	if err != nil {
		return nil, err
	}
	rows, err := signal.Score(table, v.weights, v.blend)
	if err != nil {
		return nil, err
	}

	preds := v.extract(bars, rows)
	if len(preds) == 0 {
		return skipReport(ticker, reasonNoPredictions), nil
	}

	rep := report.Compile(ticker, preds, v.params)
	return rep, nil
}

// RunSetups measures outcomes for every conjunctive setup the detector finds
func (v *Validator) RunSetups(ticker string, bars models.BarSeries, detector *setups.Detector) ([]models.Prediction, error) {
	if len(bars) < v.params.MinSetupBars {
		return nil, models.ErrInsufficientData
	}
	if v.params.Intraday() {
		bars = FilterMarketHours(bars, v.params)
		if len(bars) < v.params.MinSetupBars {
			return nil, models.ErrInsufficientData
		}
	}

	events, err := detector.Detect(bars)
	if err != nil {
		return nil, err
	}

	posByTime := make(map[int64]int, len(bars))
	for i, b := range bars {
		posByTime[b.Timestamp.UnixNano()] = i
	}

	closes := bars.Closes()
	maxH := v.params.MaxHorizon()

	var preds []models.Prediction
	for _, ev := range events {
		pos, ok := posByTime[ev.Timestamp.UnixNano()]
		if !ok || pos+maxH >= len(closes) {
			continue
		}
		outcomes, mfe, mae := v.measure(closes, pos, ev.EntryPrice, ev.Direction)
		preds = append(preds, models.Prediction{
			Timestamp:  ev.Timestamp,
			EntryPrice: ev.EntryPrice,
			Direction:  ev.Direction,
			Outcomes:   outcomes,
			MFE:        mfe,
			MAE:        mae,
			Setup:      ev.Setup,
		})
	}
	return preds, nil
}

// extract walks the scored rows and keeps bars where the model committed to
// a direction with enough confidence and enough future bars to judge it.
func (v *Validator) extract(bars models.BarSeries, rows []models.ScoreRow) []models.Prediction {
	closes := bars.Closes()
	maxH := v.params.MaxHorizon()

	var preds []models.Prediction
	for pos, row := range rows {
		if row.Confidence < v.params.ConfidenceThreshold {
			continue
		}
		if pos+maxH >= len(closes) {
			continue
		}
		if row.Direction == models.Neutral {
			continue
		}

		outcomes, mfe, mae := v.measure(closes, pos, closes[pos], row.Direction)
		p := models.Prediction{
			Timestamp:  bars[pos].Timestamp,
			EntryPrice: closes[pos],
			Direction:  row.Direction,
			Confidence: row.Confidence,
			BullScore:  row.BullScore,
			BearScore:  row.BearScore,
			Outcomes:   outcomes,
			MFE:        mfe,
			MAE:        mae,
		}
		if v.params.Intraday() {
			p.Session = string(ClassifySession(bars[pos].Timestamp))
		}
		preds = append(preds, p)
	}
	return preds
}

// measure records the realized move at every horizon plus the best and worst
// excursion over the window from entry to the furthest horizon, inclusive.
func (v *Validator) measure(closes []float64, pos int, entry float64, dir models.Direction) (map[string]models.HorizonOutcome, float64, float64) {
	outcomes := make(map[string]models.HorizonOutcome, len(v.params.Horizons))
	for i, h := range v.params.Horizons {
		change := (closes[pos+h] - entry) / entry * 100
		out := models.HorizonOutcome{ChangePct: round4(change)}
		if dir == models.Bull {
			out.Correct = change > 0
			out.DirectionalMove = round4(change)
		} else {
			out.Correct = change < 0
			out.DirectionalMove = round4(-change)
		}
		outcomes[v.params.Labels[i]] = out
	}

	maxH := v.params.MaxHorizon()
	lo, hi := closes[pos], closes[pos]
	for _, c := range closes[pos : pos+maxH+1] {
		lo = math.Min(lo, c)
		hi = math.Max(hi, c)
	}

	var mfe, mae float64
	if dir == models.Bull {
		mfe = (hi - entry) / entry * 100
		mae = (lo - entry) / entry * 100
	} else {
		mfe = (entry - lo) / entry * 100
		mae = (entry - hi) / entry * 100
	}
	return outcomes, round4(mfe), round4(mae)
}

func skipReport(ticker, reason string) *models.TickerReport {
	return &models.TickerReport{Ticker: ticker, Err: reason}
}

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
